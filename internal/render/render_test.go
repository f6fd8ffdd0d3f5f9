package render

import (
	"strings"
	"testing"

	"github.com/inscribio/typesizes/internal/layout"
)

func ip(n int) *int { return &n }

func sample() []layout.Type {
	return []layout.Type{
		{
			Name:  "Foo",
			Size:  16,
			Align: 8,
			Children: []layout.Node{
				layout.Field{Name: "a", Size: 8, Offset: ip(0), Align: ip(8)},
				layout.Field{Name: "b", Size: 8},
			},
		},
		{
			Name:  "Opt",
			Size:  8,
			Align: 4,
			Children: []layout.Node{
				layout.Discriminant{Size: 4},
				layout.Variant{Name: "Some", Size: 4, Children: []layout.Node{
					layout.Field{Name: ".0", Size: 4},
				}},
				layout.Variant{Name: "None", Size: 0},
				layout.EndPadding{Size: 0},
			},
		},
	}
}

func TestText(t *testing.T) {
	got := Text(sample())

	want := "type `Foo`: 16 bytes, alignment: 8 bytes\n" +
		"    field `a`: 8 bytes, offset: 0 bytes, alignment: 8 bytes\n" +
		"    field `b`: 8 bytes\n" +
		"type `Opt`: 8 bytes, alignment: 4 bytes\n" +
		"    discriminant: 4 bytes\n" +
		"    variant `Some`: 4 bytes\n" +
		"        field `.0`: 4 bytes\n" +
		"    variant `None`: 0 bytes\n" +
		"    end padding: 0 bytes\n"
	if got != want {
		t.Errorf("Text() =\n%s\nwant:\n%s", got, want)
	}
}

// The text form uses the same grammar as the compiler, so prefixing every
// line with the diagnostic wrapper must parse back to the same trees.
func TestText_RoundTrip(t *testing.T) {
	types := sample()
	text := Text(types)

	var lines []string
	for _, l := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		lines = append(lines, "print-type-size "+l)
	}

	reparsed, err := layout.Parse(lines)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if Text(reparsed) != text {
		t.Errorf("round trip changed output:\n%s\nvs:\n%s", Text(reparsed), text)
	}
}

func TestHTML(t *testing.T) {
	var b strings.Builder
	if err := HTML(&b, sample()); err != nil {
		t.Fatalf("HTML: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Foo: 16 bytes, alignment: 8 bytes",
		"field `a`: 8 bytes, offset: 0 bytes, alignment: 8 bytes",
		"variant `Some`: 4 bytes",
		"<details>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// A variant without an observed block must not be collapsible.
	if strings.Contains(out, "<summary>variant `None`") {
		t.Error("childless variant rendered as collapsible")
	}
}
