// Package layout parses rustc's -Zprint-type-sizes diagnostics into a
// hierarchical representation of type memory layouts. The input is the raw
// captured compiler output; the result is one record per reported type,
// with fields, padding and enum variants nested the way the compiler
// indented them.
package layout

import "sort"

// Node is one structural element of a type's memory layout. The concrete
// implementations form a closed set (Discriminant, Padding, EndPadding,
// Field, Variant); consumers type-switch over them.
type Node interface {
	node()
}

// Discriminant is the hidden tag distinguishing the active variant of an
// enum.
type Discriminant struct {
	Size int
}

// Padding is unused space inserted between fields for alignment.
type Padding struct {
	Size int
}

// EndPadding is unused space after the last field.
type EndPadding struct {
	Size int
}

// Field is a named member of a type or variant. Offset and Align are nil
// when the compiler did not report them.
type Field struct {
	Name   string
	Size   int
	Offset *int
	Align  *int
}

// Variant is one alternative of an enum. Children is nil until a
// deeper-indented block immediately follows the variant's own line.
// Nil means no members were observed, which is distinct from a non-nil
// empty list.
type Variant struct {
	Name     string
	Size     int
	Children []Node
}

func (Discriminant) node() {}
func (Padding) node()      {}
func (EndPadding) node()   {}
func (Field) node()        {}
func (Variant) node()      {}

// Type is one complete type layout, corresponding to one header line of
// the diagnostic output.
type Type struct {
	Name     string
	Size     int // total size in bytes
	Align    int // alignment in bytes
	Children []Node
}

// SortBySize reorders types by total size, smallest first. Types of equal
// size keep their declaration order.
func SortBySize(types []Type) {
	sort.SliceStable(types, func(i, j int) bool {
		return types[i].Size < types[j].Size
	})
}
