// Package tui is an interactive browser for parsed type layouts: a
// scrollable, filterable list of types whose trees expand in place.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inscribio/typesizes/internal/layout"
)

// LoadFunc produces the types to browse. It runs asynchronously so the
// spinner keeps animating while cargo compiles.
type LoadFunc func() ([]layout.Type, error)

// typesLoadedMsg delivers the result of the LoadFunc.
type typesLoadedMsg struct {
	types []layout.Type
	err   error
}

// Model is the application model.
type Model struct {
	width  int
	height int

	loading bool
	err     error
	spinner spinner.Model

	types      []layout.Type // declaration order
	sortBySize bool
	expanded   map[string]bool // keyed by type name

	cursor   int // index into visible()
	viewport viewport.Model

	filter    textinput.Model
	filtering bool // filter input focused

	load LoadFunc
}

// New creates a TUI model that loads types via load.
func New(load LoadFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	f := textinput.New()
	f.Placeholder = "filter types..."
	f.Prompt = "/"
	f.CharLimit = 64

	return Model{
		loading:  true,
		spinner:  s,
		filter:   f,
		expanded: make(map[string]bool),
		viewport: viewport.New(0, 0),
		load:     load,
	}
}

// Init starts the spinner and kicks off loading.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		types, err := load()
		return typesLoadedMsg{types: types, err: err}
	}
}

// visible returns the browsable types after filtering and sorting.
func (m Model) visible() []layout.Type {
	types := m.types
	if q := m.filter.Value(); q != "" {
		filtered := make([]layout.Type, 0, len(types))
		for _, t := range types {
			if containsFold(t.Name, q) {
				filtered = append(filtered, t)
			}
		}
		types = filtered
	}
	if m.sortBySize {
		sorted := make([]layout.Type, len(types))
		copy(sorted, types)
		layout.SortBySize(sorted)
		return sorted
	}
	return types
}
