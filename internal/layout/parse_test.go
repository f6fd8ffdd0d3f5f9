package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ip(n int) *int { return &n }

func TestParse_SimpleStruct(t *testing.T) {
	lines := []string{
		"print-type-size type: `Foo`: 16 bytes, alignment: 8 bytes",
		"print-type-size     field `a`: 8 bytes, offset: 0 bytes, alignment: 8 bytes",
		"print-type-size     field `b`: 8 bytes, offset: 8 bytes, alignment: 8 bytes",
	}

	types, err := Parse(lines)
	require.NoError(t, err)

	want := []Type{{
		Name:  "Foo",
		Size:  16,
		Align: 8,
		Children: []Node{
			Field{Name: "a", Size: 8, Offset: ip(0), Align: ip(8)},
			Field{Name: "b", Size: 8, Offset: ip(8), Align: ip(8)},
		},
	}}
	assert.Equal(t, want, types)
}

func TestParse_OneRecordPerHeader(t *testing.T) {
	lines := []string{
		"print-type-size type: `A`: 4 bytes, alignment: 4 bytes",
		"print-type-size     field `x`: 4 bytes",
		"print-type-size type: `B`: 1 bytes, alignment: 1 bytes",
		"print-type-size type: `C`: 2 bytes, alignment: 2 bytes",
		"print-type-size     field `y`: 2 bytes",
	}

	types, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "A", types[0].Name)
	assert.Equal(t, "B", types[1].Name)
	assert.Equal(t, "C", types[2].Name)
	assert.Empty(t, types[1].Children)
}

func TestParse_UnrelatedLinesIgnored(t *testing.T) {
	lines := []string{
		"   Compiling typesizes v0.1.0",
		"print-type-size type: `Foo`: 4 bytes, alignment: 4 bytes",
		"warning: unused variable: `x`",
		"print-type-size     field `a`: 4 bytes",
		"    Finished dev [unoptimized] target(s)",
	}

	types, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Len(t, types[0].Children, 1)
}

func TestParse_FieldOptionalGroups(t *testing.T) {
	lines := []string{
		"print-type-size type: `Foo`: 8 bytes, alignment: 4 bytes",
		"print-type-size     field `bare`: 4 bytes",
		"print-type-size     field `full`: 4 bytes, offset: 4 bytes, alignment: 4 bytes",
	}

	types, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Len(t, types[0].Children, 2)

	bare := types[0].Children[0].(Field)
	assert.Nil(t, bare.Offset)
	assert.Nil(t, bare.Align)

	full := types[0].Children[1].(Field)
	require.NotNil(t, full.Offset)
	require.NotNil(t, full.Align)
	assert.Equal(t, 4, *full.Offset)
	assert.Equal(t, 4, *full.Align)
}

func TestParse_Enum(t *testing.T) {
	lines := []string{
		"print-type-size type: `Option<u32>`: 8 bytes, alignment: 4 bytes",
		"print-type-size     discriminant: 4 bytes",
		"print-type-size     variant `Some`: 4 bytes",
		"print-type-size         field `.0`: 4 bytes",
		"print-type-size     variant `None`: 0 bytes",
		"print-type-size type: `Unit`: 0 bytes, alignment: 1 bytes",
	}

	types, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, types, 2)

	children := types[0].Children
	require.Len(t, children, 3)
	assert.Equal(t, Discriminant{Size: 4}, children[0])

	some := children[1].(Variant)
	assert.Equal(t, "Some", some.Name)
	require.NotNil(t, some.Children)
	assert.Equal(t, []Node{Field{Name: ".0", Size: 4}}, some.Children)

	// No nested block followed None, so its children were never observed.
	none := children[2].(Variant)
	assert.Nil(t, none.Children)

	assert.Equal(t, "Unit", types[1].Name)
}

func TestParse_DedentDoesNotConsumeLine(t *testing.T) {
	// The end padding is indented one level, so it must terminate the
	// variant's subtree and land on the type itself.
	lines := []string{
		"print-type-size type: `E`: 12 bytes, alignment: 4 bytes",
		"print-type-size     variant `A`: 8 bytes",
		"print-type-size         field `x`: 8 bytes",
		"print-type-size     end padding: 4 bytes",
	}

	types, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Len(t, types[0].Children, 2)

	v := types[0].Children[0].(Variant)
	assert.Equal(t, []Node{Field{Name: "x", Size: 8}}, v.Children)
	assert.Equal(t, EndPadding{Size: 4}, types[0].Children[1])
}

func TestParse_DeepNesting(t *testing.T) {
	lines := []string{
		"print-type-size type: `Nested`: 16 bytes, alignment: 8 bytes",
		"print-type-size     variant `Outer`: 16 bytes",
		"print-type-size         field `pad`: 0 bytes",
		"print-type-size         variant `Inner`: 8 bytes",
		"print-type-size             field `v`: 8 bytes",
		"print-type-size     padding: 0 bytes",
	}

	types, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Len(t, types[0].Children, 2)

	outer := types[0].Children[0].(Variant)
	require.Len(t, outer.Children, 2)
	inner := outer.Children[1].(Variant)
	assert.Equal(t, []Node{Field{Name: "v", Size: 8}}, inner.Children)
	assert.Equal(t, Padding{Size: 0}, types[0].Children[1])
}

func TestParse_UnknownKindIsFatal(t *testing.T) {
	lines := []string{
		"print-type-size type: `Gen`: 8 bytes, alignment: 8 bytes",
		"print-type-size     upvar `x`: 8 bytes",
	}

	types, err := Parse(lines)
	assert.Nil(t, types)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Msg, "upvar")
}

func TestParse_NamelessFieldIsFatal(t *testing.T) {
	lines := []string{
		"print-type-size type: `Foo`: 8 bytes, alignment: 8 bytes",
		"print-type-size     field: 8 bytes",
	}

	_, err := Parse(lines)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Msg, "name")
}

func TestParse_NestedBlockAfterNonVariant(t *testing.T) {
	lines := []string{
		"print-type-size type: `Bad`: 8 bytes, alignment: 8 bytes",
		"print-type-size     field `a`: 8 bytes",
		"print-type-size         field `b`: 8 bytes",
	}

	types, err := Parse(lines)
	assert.Nil(t, types)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestParse_MalformedHeaderSkipped(t *testing.T) {
	// The bogus payload is neither a header nor an inner element. Only
	// that line is dropped; both real types survive.
	lines := []string{
		"print-type-size type: `A`: 4 bytes, alignment: 4 bytes",
		"print-type-size type `broken`: no size here",
		"print-type-size type: `B`: 8 bytes, alignment: 8 bytes",
		"print-type-size     field `x`: 8 bytes",
	}

	types, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "A", types[0].Name)
	assert.Equal(t, "B", types[1].Name)
	assert.Len(t, types[1].Children, 1)
}

func TestParser_StrictIndentation(t *testing.T) {
	lines := []string{
		"print-type-size type: `Foo`: 8 bytes, alignment: 8 bytes",
		"print-type-size       field `a`: 8 bytes", // 6 spaces
	}

	_, err := Parser{Strict: true}.Parse(lines)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Msg, "multiple")
}

func TestSortBySize(t *testing.T) {
	types := []Type{
		{Name: "big", Size: 64},
		{Name: "small", Size: 4},
		{Name: "alsoSmall", Size: 4},
	}

	SortBySize(types)

	assert.Equal(t, "small", types[0].Name)
	assert.Equal(t, "alsoSmall", types[1].Name) // stable for equal sizes
	assert.Equal(t, "big", types[2].Name)
}
