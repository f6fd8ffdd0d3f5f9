package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - chromeHeight
		m.refresh()
		return m, nil

	case typesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.types = msg.types
		m.cursor = 0
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter input is focused it owns every key except the
	// ones that close it.
	if m.filtering {
		switch msg.String() {
		case "enter":
			m.filtering = false
			m.filter.Blur()
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.cursor = 0
			m.refresh()
			return m, cmd
		}
		m.cursor = 0
		m.refresh()
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		m.refresh()

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.refresh()

	case "g", "home":
		m.cursor = 0
		m.refresh()

	case "G", "end":
		if n := len(m.visible()); n > 0 {
			m.cursor = n - 1
		}
		m.refresh()

	case "enter", " ":
		if types := m.visible(); m.cursor < len(types) {
			name := types[m.cursor].Name
			m.expanded[name] = !m.expanded[name]
		}
		m.refresh()

	case "s":
		m.sortBySize = !m.sortBySize
		m.cursor = 0
		m.refresh()

	case "/":
		m.filtering = true
		m.filter.Focus()

	case "r":
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	}

	return m, nil
}

// refresh rebuilds the viewport content and keeps the cursor line in view.
func (m *Model) refresh() {
	content, cursorLine := m.renderRows()
	m.viewport.SetContent(content)

	if m.viewport.Height <= 0 {
		return
	}
	if cursorLine < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorLine)
	} else if cursorLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}
