package history

import (
	"fmt"
	"sort"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// ChangeKind classifies how a type differs between two runs.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Resized
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Resized:
		return "resized"
	default:
		return "unknown"
	}
}

// Change is one type whose layout differs between two runs.
type Change struct {
	Name    string
	Kind    ChangeKind
	OldSize int    // meaningless for Added
	NewSize int    // meaningless for Removed
	Diff    string // unified diff of the rendered trees, empty unless Resized
}

// Diff compares two recorded runs and returns the types whose layout
// changed, sorted by name. Types whose rendered tree is byte-identical are
// omitted.
func (s *Store) Diff(oldID, newID int64) ([]Change, error) {
	oldTypes, err := s.Types(oldID)
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", oldID, err)
	}
	newTypes, err := s.Types(newID)
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", newID, err)
	}

	oldByName := make(map[string]Entry, len(oldTypes))
	for _, e := range oldTypes {
		oldByName[e.Name] = e
	}

	var changes []Change
	seen := make(map[string]bool, len(newTypes))
	for _, e := range newTypes {
		seen[e.Name] = true
		old, ok := oldByName[e.Name]
		if !ok {
			changes = append(changes, Change{Name: e.Name, Kind: Added, NewSize: e.Size})
			continue
		}
		if old.Tree == e.Tree {
			continue
		}
		changes = append(changes, Change{
			Name:    e.Name,
			Kind:    Resized,
			OldSize: old.Size,
			NewSize: e.Size,
			Diff:    unified(e.Name, old.Tree, e.Tree),
		})
	}
	for _, e := range oldTypes {
		if !seen[e.Name] {
			changes = append(changes, Change{Name: e.Name, Kind: Removed, OldSize: e.Size})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return changes, nil
}

// unified produces a unified text diff of two rendered trees.
func unified(name, old, new string) string {
	edits := myers.ComputeEdits(span.URIFromPath(name), old, new)
	return fmt.Sprint(gotextdiff.ToUnified("old/"+name, "new/"+name, old, edits))
}
