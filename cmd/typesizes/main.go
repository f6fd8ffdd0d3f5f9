// Command typesizes compiles a Rust crate with -Zprint-type-sizes, parses
// the diagnostic output into per-type layout trees and renders them as
// text, HTML or an interactive TUI. Runs can be recorded and diffed to
// track size regressions. All non-flag arguments are passed through to
// `cargo rustc`.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inscribio/typesizes/internal/cargo"
	"github.com/inscribio/typesizes/internal/config"
	"github.com/inscribio/typesizes/internal/history"
	"github.com/inscribio/typesizes/internal/layout"
	"github.com/inscribio/typesizes/internal/render"
	"github.com/inscribio/typesizes/internal/tui"
)

type options struct {
	input     string
	output    string
	htmlOut   string
	sortSize  bool
	strict    bool
	record    string
	diff      bool
	cfgPath   string
	cargoArgs []string
}

func main() {
	var (
		opts    options
		verbose bool
	)
	flag.StringVar(&opts.input, "input", "", `parse a saved diagnostic capture instead of compiling ("-" for stdin)`)
	flag.StringVar(&opts.output, "output", "", "output mode: text, html or tui (default from config)")
	flag.StringVar(&opts.htmlOut, "html-out", "", "html output path")
	flag.BoolVar(&opts.sortSize, "sort-size", false, "sort types by size, smallest first")
	flag.BoolVar(&opts.strict, "strict", false, "reject misaligned indentation in the diagnostics")
	flag.StringVar(&opts.record, "record", "", "record this run in the history database under the given label")
	flag.BoolVar(&opts.diff, "diff", false, "diff the two most recent recorded runs and exit")
	flag.StringVar(&opts.cfgPath, "config", "", "config file path")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()
	opts.cargoArgs = flag.Args()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return err
	}

	if opts.diff {
		return diffRuns(os.Stdout, cfg)
	}

	parser := layout.Parser{Strict: opts.strict || cfg.Parser.Strict}
	loader := func() ([]layout.Type, error) {
		lines, err := readLines(opts, cfg)
		if err != nil {
			return nil, err
		}
		types, err := parser.Parse(lines)
		if err != nil {
			return nil, err
		}
		if opts.record != "" {
			if err := recordRun(cfg, opts.record, types); err != nil {
				return nil, err
			}
		}
		return types, nil
	}

	mode := cfg.Output.ModeOrDefault()
	if opts.output != "" {
		mode = opts.output
	}

	if mode == "tui" {
		_, err := tea.NewProgram(tui.New(loader), tea.WithAltScreen()).Run()
		return err
	}

	types, err := loader()
	if err != nil {
		return err
	}
	if opts.sortSize {
		layout.SortBySize(types)
	}

	switch mode {
	case "text":
		_, err := io.WriteString(os.Stdout, render.Text(types))
		return err
	case "html":
		path := cfg.Output.HTMLPathOrDefault()
		if opts.htmlOut != "" {
			path = opts.htmlOut
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render.HTML(f, types); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("HTML output saved to: %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown output mode %q", mode)
	}
}

// readLines produces the raw diagnostic lines, either from a capture file
// (or stdin) or by compiling the crate.
func readLines(opts options, cfg *config.Config) ([]string, error) {
	if opts.input != "" {
		var data []byte
		var err error
		if opts.input == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(opts.input)
		}
		if err != nil {
			return nil, err
		}
		return strings.Split(string(data), "\n"), nil
	}

	if touch := cfg.Cargo.Touch; touch != "" {
		if err := cargo.Touch(touch); err != nil {
			return nil, err
		}
	}

	args := append([]string(nil), cfg.Cargo.Args...)
	args = append(args, opts.cargoArgs...)
	out, err := cargo.Run(context.Background(), cargo.Options{
		Toolchain: cfg.Cargo.ToolchainOrDefault(),
		Args:      args,
	})
	if err != nil {
		return nil, err
	}
	return strings.Split(out, "\n"), nil
}

func recordRun(cfg *config.Config, label string, types []layout.Type) error {
	store, err := history.Open(cfg.History.PathOrDefault())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(label, types)
	return err
}

// diffRuns prints the layout changes between the two most recent recorded
// runs.
func diffRuns(w io.Writer, cfg *config.Config) error {
	store, err := history.Open(cfg.History.PathOrDefault())
	if err != nil {
		return err
	}
	defer store.Close()

	prev, last, err := store.LastTwo()
	if err != nil {
		return err
	}

	changes, err := store.Diff(prev.ID, last.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "comparing %q (%s) -> %q (%s)\n",
		prev.Label, prev.Created.Format("2006-01-02 15:04"),
		last.Label, last.Created.Format("2006-01-02 15:04"))

	if len(changes) == 0 {
		fmt.Fprintln(w, "no layout changes")
		return nil
	}

	for _, c := range changes {
		switch c.Kind {
		case history.Added:
			fmt.Fprintf(w, "added   %s: %d bytes\n", c.Name, c.NewSize)
		case history.Removed:
			fmt.Fprintf(w, "removed %s: %d bytes\n", c.Name, c.OldSize)
		case history.Resized:
			fmt.Fprintf(w, "resized %s: %d -> %d bytes\n", c.Name, c.OldSize, c.NewSize)
			fmt.Fprint(w, c.Diff)
		}
	}
	return nil
}
