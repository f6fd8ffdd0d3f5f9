package tui

import (
	"fmt"
	"strings"

	"github.com/inscribio/typesizes/internal/layout"
)

const chromeHeight = 3 // title, filter/status line, help line

// View renders the whole screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("typesizes"))
	b.WriteByte('\n')

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " compiling...\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.filtering:
		b.WriteString(m.filter.View() + "\n")
	default:
		b.WriteString(m.statusLine() + "\n")
	}

	b.WriteString(m.viewport.View())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("j/k move · enter expand · s sort by size · / filter · r reload · q quit"))
	return b.String()
}

func (m Model) statusLine() string {
	status := fmt.Sprintf("%d types", len(m.visible()))
	if m.sortBySize {
		status += " · sorted by size"
	}
	if q := m.filter.Value(); q != "" {
		status += fmt.Sprintf(" · filter %q", q)
	}
	return helpStyle.Render(status)
}

// renderRows renders the type list with expanded trees and returns the
// content together with the line the cursor is on.
func (m Model) renderRows() (string, int) {
	types := m.visible()
	if len(types) == 0 && !m.loading {
		return helpStyle.Render("no types"), 0
	}

	var (
		b          strings.Builder
		cursorLine int
		lineNo     int
	)
	for i, t := range types {
		header := fmt.Sprintf("%s  %d bytes, alignment: %d bytes", t.Name, t.Size, t.Align)
		marker := "+ "
		if m.expanded[t.Name] {
			marker = "- "
		}
		if i == m.cursor {
			cursorLine = lineNo
			b.WriteString(selectedStyle.Render(marker + header))
		} else {
			b.WriteString(typeStyle.Render(marker) + header)
		}
		b.WriteByte('\n')
		lineNo++

		if m.expanded[t.Name] {
			lineNo += writeTree(&b, t.Children, 1)
		}
	}
	return strings.TrimSuffix(b.String(), "\n"), cursorLine
}

// writeTree renders one subtree and returns the number of lines written.
func writeTree(b *strings.Builder, nodes []layout.Node, depth int) int {
	pad := strings.Repeat("  ", depth)
	lines := 0
	for _, n := range nodes {
		b.WriteString(pad + nodeLine(n) + "\n")
		lines++
		if v, ok := n.(layout.Variant); ok && v.Children != nil {
			lines += writeTree(b, v.Children, depth+1)
		}
	}
	return lines
}

func nodeLine(n layout.Node) string {
	switch n := n.(type) {
	case layout.Discriminant:
		return dimStyle.Render(fmt.Sprintf("discriminant: %d bytes", n.Size))
	case layout.Padding:
		return dimStyle.Render(fmt.Sprintf("padding: %d bytes", n.Size))
	case layout.EndPadding:
		return dimStyle.Render(fmt.Sprintf("end padding: %d bytes", n.Size))
	case layout.Field:
		s := fmt.Sprintf("%s: %d bytes", fieldStyle.Render(n.Name), n.Size)
		if n.Offset != nil {
			s += fmt.Sprintf(", offset: %d", *n.Offset)
		}
		if n.Align != nil {
			s += fmt.Sprintf(", align: %d", *n.Align)
		}
		return s
	case layout.Variant:
		return fmt.Sprintf("%s: %d bytes", variantStyle.Render(n.Name), n.Size)
	default:
		return fmt.Sprintf("%T", n)
	}
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
