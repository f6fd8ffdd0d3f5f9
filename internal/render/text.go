// Package render turns parsed type layouts back into readable forms: an
// indented text tree mirroring the diagnostic grammar, and a collapsible
// HTML document.
package render

import (
	"fmt"
	"strings"

	"github.com/inscribio/typesizes/internal/layout"
)

const indent = "    "

// Text renders all types as an indented tree, one element per line. The
// output uses the same grammar as the compiler diagnostics, so it diffs
// cleanly between runs.
func Text(types []layout.Type) string {
	var b strings.Builder
	for _, t := range types {
		writeType(&b, t)
	}
	return b.String()
}

// TypeText renders a single type, used for per-type diffs.
func TypeText(t layout.Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t layout.Type) {
	fmt.Fprintf(b, "type `%s`: %d bytes, alignment: %d bytes\n", t.Name, t.Size, t.Align)
	writeNodes(b, t.Children, 1)
}

func writeNodes(b *strings.Builder, nodes []layout.Node, depth int) {
	pad := strings.Repeat(indent, depth)
	for _, n := range nodes {
		b.WriteString(pad)
		b.WriteString(nodeLabel(n))
		b.WriteByte('\n')
		if v, ok := n.(layout.Variant); ok && v.Children != nil {
			writeNodes(b, v.Children, depth+1)
		}
	}
}

// nodeLabel formats one node the way the compiler printed it.
func nodeLabel(n layout.Node) string {
	switch n := n.(type) {
	case layout.Discriminant:
		return fmt.Sprintf("discriminant: %d bytes", n.Size)
	case layout.Padding:
		return fmt.Sprintf("padding: %d bytes", n.Size)
	case layout.EndPadding:
		return fmt.Sprintf("end padding: %d bytes", n.Size)
	case layout.Field:
		s := fmt.Sprintf("field `%s`: %d bytes", n.Name, n.Size)
		if n.Offset != nil {
			s += fmt.Sprintf(", offset: %d bytes", *n.Offset)
		}
		if n.Align != nil {
			s += fmt.Sprintf(", alignment: %d bytes", *n.Align)
		}
		return s
	case layout.Variant:
		return fmt.Sprintf("variant `%s`: %d bytes", n.Name, n.Size)
	default:
		return fmt.Sprintf("unknown element %T", n)
	}
}
