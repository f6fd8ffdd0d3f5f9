package layout

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

// indentUnit is the whitespace width rustc uses for one level of nesting.
const indentUnit = 4

// Every diagnostic line is prefixed with "print-type-size "; anything else
// in the stream (build progress, warnings) is unrelated and dropped before
// parsing. The payload is either a type header or an inner element.
var (
	wrapperRe = regexp.MustCompile(`^print-type-size (.*)$`)
	headerRe  = regexp.MustCompile(
		"^type: `(?P<name>[^`]+)`: (?P<size>[0-9]+) bytes, alignment: (?P<align>[0-9]+) bytes$")
	innerRe = regexp.MustCompile(
		"^(?P<indent>[ \t]+)(?P<kind>[a-z ]+)( `(?P<name>[^`]+)`)?: (?P<size>[0-9]+) bytes" +
			"(, offset: (?P<offset>[0-9]+) bytes)?(, alignment: (?P<align>[0-9]+) bytes)?$")
)

// ParseError is a fatal parse failure. It carries the offending payload
// line and its 1-based position in the original stream.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Parser converts diagnostic lines into type layouts. The zero value
// accepts the indentation rustc emits without checking that it is an exact
// multiple of the indent unit.
type Parser struct {
	// Strict rejects inner-element lines whose indentation is not a
	// multiple of the indent unit instead of rounding them to the
	// nearest nesting level.
	Strict bool
}

// Parse parses raw compiler output with the default permissive Parser.
func Parse(lines []string) ([]Type, error) {
	return Parser{}.Parse(lines)
}

// line is one diagnostic payload with its position in the raw stream.
type line struct {
	text string
	num  int // 1-based
}

// Parse strips the wrapper prefix from every line, drops unrelated output,
// and assembles one Type per header line, in declaration order. Errors are
// fatal: no partial result is returned.
func (p Parser) Parse(raw []string) ([]Type, error) {
	var lines []line
	for i, l := range raw {
		m := wrapperRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		lines = append(lines, line{text: m[1], num: i + 1})
	}

	var types []Type
	for len(lines) > 0 {
		typ, rest, err := p.parseType(lines)
		if err != nil {
			return nil, err
		}
		lines = rest
		if typ != nil {
			types = append(types, *typ)
		}
	}
	return types, nil
}

// parseType consumes one type header and the tree below it. A payload line
// that is not a valid header is logged and skipped; scanning resumes at
// the next line so later types survive a malformed header.
func (p Parser) parseType(lines []line) (*Type, []line, error) {
	head := lines[0]
	rest := lines[1:]

	m := headerRe.FindStringSubmatch(head.text)
	if m == nil {
		log.Error().
			Int("line", head.num).
			Str("text", head.text).
			Msg("expected type header, skipping line")
		return nil, rest, nil
	}

	children, rest, err := p.parseTree(rest, 1)
	if err != nil {
		return nil, nil, err
	}

	idx := headerRe.SubexpIndex
	return &Type{
		Name:     m[idx("name")],
		Size:     atoi(m[idx("size")]),
		Align:    atoi(m[idx("align")]),
		Children: children,
	}, rest, nil
}

// parseTree builds the node list at one nesting depth. It stops without
// consuming the current line when the line is not an inner element (the
// next type header, or end of input) or is indented less than expected;
// the caller re-examines that same line. A deeper-indented line opens a
// subtree that is attached to the variant appended last.
func (p Parser) parseTree(lines []line, depth int) ([]Node, []line, error) {
	nodes := []Node{}

	for len(lines) > 0 {
		cur := lines[0]
		m := innerRe.FindStringSubmatch(cur.text)
		if m == nil {
			return nodes, lines, nil
		}

		idx := innerRe.SubexpIndex
		indent := len(m[idx("indent")])
		if p.Strict && indent%indentUnit != 0 {
			return nil, nil, &ParseError{
				Line: cur.num,
				Text: cur.text,
				Msg:  fmt.Sprintf("indentation %d is not a multiple of %d", indent, indentUnit),
			}
		}

		switch {
		case indent > depth*indentUnit:
			subtree, rest, err := p.parseTree(lines, depth+1)
			if err != nil {
				return nil, nil, err
			}
			// Only a variant line may own nested members, and only the
			// one appended immediately before this block.
			if len(nodes) == 0 {
				return nil, nil, &ParseError{
					Line: cur.num,
					Text: cur.text,
					Msg:  "nested block with no preceding variant",
				}
			}
			v, ok := nodes[len(nodes)-1].(Variant)
			if !ok || v.Children != nil {
				return nil, nil, &ParseError{
					Line: cur.num,
					Text: cur.text,
					Msg:  "nested block after non-variant element",
				}
			}
			v.Children = subtree
			nodes[len(nodes)-1] = v
			lines = rest

		case indent < depth*indentUnit:
			return nodes, lines, nil

		default:
			node, err := buildNode(cur, m)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, node)
			lines = lines[1:]
		}
	}

	return nodes, lines, nil
}

// buildNode converts one matched inner-element line into a Node. An
// element kind outside the known set means the diagnostic grammar has
// changed; continuing would misattribute later lines, so it is fatal.
func buildNode(cur line, m []string) (Node, error) {
	idx := innerRe.SubexpIndex
	size := atoi(m[idx("size")])

	switch kind := m[idx("kind")]; kind {
	case "discriminant":
		return Discriminant{Size: size}, nil
	case "padding":
		return Padding{Size: size}, nil
	case "end padding":
		return EndPadding{Size: size}, nil
	case "field":
		if m[idx("name")] == "" {
			return nil, &ParseError{Line: cur.num, Text: cur.text, Msg: "field without a name"}
		}
		return Field{
			Name:   m[idx("name")],
			Size:   size,
			Offset: optInt(m[idx("offset")]),
			Align:  optInt(m[idx("align")]),
		}, nil
	case "variant":
		if m[idx("name")] == "" {
			return nil, &ParseError{Line: cur.num, Text: cur.text, Msg: "variant without a name"}
		}
		return Variant{Name: m[idx("name")], Size: size}, nil
	default:
		return nil, &ParseError{
			Line: cur.num,
			Text: cur.text,
			Msg:  fmt.Sprintf("unknown element kind %q", kind),
		}
	}
}

// atoi converts a captured digit group. The patterns only capture digits,
// so conversion cannot fail.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// optInt converts an optional digit group, nil when the group did not
// participate in the match.
func optInt(s string) *int {
	if s == "" {
		return nil
	}
	n := atoi(s)
	return &n
}
