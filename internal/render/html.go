package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/inscribio/typesizes/internal/layout"
)

//go:embed template.html
var htmlSource string

var htmlTmpl = template.Must(template.New("typesizes").Parse(htmlSource))

// treeItem is the flattened view model the HTML template recurses over.
type treeItem struct {
	Label    string
	Children []treeItem
}

// HTML writes a standalone document with one collapsible tree per type.
func HTML(w io.Writer, types []layout.Type) error {
	items := make([]treeItem, 0, len(types))
	for _, t := range types {
		items = append(items, treeItem{
			Label:    fmt.Sprintf("%s: %d bytes, alignment: %d bytes", t.Name, t.Size, t.Align),
			Children: nodeItems(t.Children),
		})
	}
	return htmlTmpl.Execute(w, items)
}

func nodeItems(nodes []layout.Node) []treeItem {
	items := make([]treeItem, 0, len(nodes))
	for _, n := range nodes {
		item := treeItem{Label: nodeLabel(n)}
		if v, ok := n.(layout.Variant); ok && v.Children != nil {
			item.Children = nodeItems(v.Children)
		}
		items = append(items, item)
	}
	return items
}
