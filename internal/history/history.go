// Package history persists type sizes per build so runs can be compared
// over time. Runs are stored in SQLite together with the rendered tree of
// every type, which is what the diff works on.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/inscribio/typesizes/internal/layout"
	"github.com/inscribio/typesizes/internal/render"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	label   TEXT NOT NULL,
	created INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS type_sizes (
	run_id    INTEGER NOT NULL REFERENCES runs(id),
	name      TEXT NOT NULL,
	size      INTEGER NOT NULL,
	alignment INTEGER NOT NULL,
	tree      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_type_sizes_run ON type_sizes(run_id);
`

// Store is a SQLite-backed history of recorded runs.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Run identifies one recorded build.
type Run struct {
	ID      int64
	Label   string
	Created time.Time
}

// Entry is one type as recorded in a run.
type Entry struct {
	Name  string
	Size  int
	Align int
	Tree  string // rendered text tree
}

// Open creates or opens the history database at the given path, creating
// parent directories as needed.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores one run and its types, returning the run ID.
func (s *Store) Record(label string, types []layout.Type) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(
		"INSERT INTO runs (label, created) VALUES (?, ?)",
		label, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		"INSERT INTO type_sizes (run_id, name, size, alignment, tree) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, t := range types {
		if _, err := stmt.Exec(runID, t.Name, t.Size, t.Align, render.TypeText(t)); err != nil {
			return 0, fmt.Errorf("insert type %q: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	log.Debug().Int64("run", runID).Int("types", len(types)).Str("label", label).Msg("run recorded")
	return runID, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT id, label, created FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Label, &created); err != nil {
			return nil, err
		}
		r.Created = time.Unix(created, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Types returns all types recorded for a run.
func (s *Store) Types(runID int64) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT name, size, alignment, tree FROM type_sizes WHERE run_id = ? ORDER BY name", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Size, &e.Align, &e.Tree); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastTwo returns the two most recent runs, oldest of the pair first.
// Fails when fewer than two runs are recorded.
func (s *Store) LastTwo() (prev, last Run, err error) {
	runs, err := s.Runs(2)
	if err != nil {
		return Run{}, Run{}, err
	}
	if len(runs) < 2 {
		return Run{}, Run{}, fmt.Errorf("need two recorded runs to diff, have %d", len(runs))
	}
	return runs[1], runs[0], nil
}
