package ast

import (
	"fmt"
	"strings"
)

// TypeKind enumerates the parsed type forms.
type TypeKind int

const (
	TypeAddress TypeKind = iota
	TypeBoolean
	TypeChar
	TypeField
	TypeGroup
	TypeInteger
	TypeArray
	TypeTuple
	TypeCircuit
	TypeSelf
	TypeErr
)

// Type is the closed set of type annotations as written in source. Types
// are plain values, not visited nodes; the checker converts them into its
// own representation.
type Type struct {
	Kind       TypeKind
	Int        IntType // valid when Kind == TypeInteger
	Element    *Type   // valid when Kind == TypeArray
	Dimensions []uint32
	Components []Type // valid when Kind == TypeTuple
	Name       string // valid when Kind == TypeCircuit
}

// String returns the type's source spelling.
func (t Type) String() string {
	switch t.Kind {
	case TypeAddress:
		return "address"
	case TypeBoolean:
		return "bool"
	case TypeChar:
		return "char"
	case TypeField:
		return "field"
	case TypeGroup:
		return "group"
	case TypeInteger:
		return t.Int.String()
	case TypeArray:
		dims := make([]string, len(t.Dimensions))
		for i, d := range t.Dimensions {
			dims[i] = fmt.Sprintf("%d", d)
		}
		if len(dims) == 1 {
			return fmt.Sprintf("[%s; %s]", t.Element, dims[0])
		}
		return fmt.Sprintf("[%s; (%s)]", t.Element, strings.Join(dims, ", "))
	case TypeTuple:
		comps := make([]string, len(t.Components))
		for i, c := range t.Components {
			comps[i] = c.String()
		}
		return "(" + strings.Join(comps, ", ") + ")"
	case TypeCircuit:
		return t.Name
	case TypeSelf:
		return "Self"
	default:
		return "<type err>"
	}
}
