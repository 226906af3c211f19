// Package types defines the semantic type representation used by the
// analysis passes. It mirrors the source-level annotations from the ast
// package but is owned by the checker: inferred types that were never
// written in source also live here.
package types

import (
	"fmt"
	"strings"

	"github.com/veridian-lang/veridian/internal/ast"
)

// Kind enumerates semantic type forms.
type Kind int

const (
	KindAddress Kind = iota
	KindBoolean
	KindChar
	KindField
	KindGroup
	KindInteger
	KindArray
	KindTuple
	KindCircuit
	// KindErr marks a type derived from code that already failed to check.
	// It compares equal to everything so one error does not cascade.
	KindErr
)

// Type is a semantic type. Values are immutable once constructed.
type Type struct {
	Kind       Kind
	Int        ast.IntType // valid when Kind == KindInteger
	Element    *Type       // valid when Kind == KindArray
	Dimensions []uint32    // valid when Kind == KindArray
	Components []Type      // valid when Kind == KindTuple
	Circuit    string      // valid when Kind == KindCircuit
}

// Common scalar types, shared to avoid repeated construction.
var (
	Address = Type{Kind: KindAddress}
	Boolean = Type{Kind: KindBoolean}
	Char    = Type{Kind: KindChar}
	Field   = Type{Kind: KindField}
	Group   = Type{Kind: KindGroup}
	Err     = Type{Kind: KindErr}
)

// Integer returns the semantic type for a sized integer kind.
func Integer(it ast.IntType) Type {
	return Type{Kind: KindInteger, Int: it}
}

// CircuitNamed returns the semantic type for a declared circuit.
func CircuitNamed(name string) Type {
	return Type{Kind: KindCircuit, Circuit: name}
}

// FromAST converts a source-level type annotation. Self annotations must
// be resolved by the caller before conversion; an unresolved Self or Err
// annotation converts to the error type.
func FromAST(t ast.Type) Type {
	switch t.Kind {
	case ast.TypeAddress:
		return Address
	case ast.TypeBoolean:
		return Boolean
	case ast.TypeChar:
		return Char
	case ast.TypeField:
		return Field
	case ast.TypeGroup:
		return Group
	case ast.TypeInteger:
		return Integer(t.Int)
	case ast.TypeArray:
		element := FromAST(*t.Element)
		return Type{
			Kind:       KindArray,
			Element:    &element,
			Dimensions: t.Dimensions,
		}
	case ast.TypeTuple:
		components := make([]Type, len(t.Components))
		for i, c := range t.Components {
			components[i] = FromAST(c)
		}
		return Type{Kind: KindTuple, Components: components}
	case ast.TypeCircuit:
		return CircuitNamed(t.Name)
	default:
		return Err
	}
}

// Equal reports whether two types are the same. The error type compares
// equal to everything.
func (t Type) Equal(other Type) bool {
	if t.Kind == KindErr || other.Kind == KindErr {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindInteger:
		return t.Int == other.Int
	case KindArray:
		if len(t.Dimensions) != len(other.Dimensions) {
			return false
		}
		for i := range t.Dimensions {
			if t.Dimensions[i] != other.Dimensions[i] {
				return false
			}
		}
		return t.Element.Equal(*other.Element)
	case KindTuple:
		if len(t.Components) != len(other.Components) {
			return false
		}
		for i := range t.Components {
			if !t.Components[i].Equal(other.Components[i]) {
				return false
			}
		}
		return true
	case KindCircuit:
		return t.Circuit == other.Circuit
	default:
		return true
	}
}

// IsErr reports whether the type is the error placeholder.
func (t Type) IsErr() bool { return t.Kind == KindErr }

// IsInteger reports whether the type is a sized integer.
func (t Type) IsInteger() bool { return t.Kind == KindInteger }

// IsArithmetic reports whether the type supports +, -, *, /, ^.
func (t Type) IsArithmetic() bool {
	switch t.Kind {
	case KindInteger, KindField, KindGroup, KindErr:
		return true
	}
	return false
}

// IsOrdered reports whether the type supports <, <=, >, >=.
func (t Type) IsOrdered() bool {
	switch t.Kind {
	case KindInteger, KindField, KindErr:
		return true
	}
	return false
}

// IsCastTarget reports whether a cast may produce the type.
func (t Type) IsCastTarget() bool {
	switch t.Kind {
	case KindInteger, KindField, KindGroup, KindErr:
		return true
	}
	return false
}

// String returns the type's source spelling.
func (t Type) String() string {
	switch t.Kind {
	case KindAddress:
		return "address"
	case KindBoolean:
		return "bool"
	case KindChar:
		return "char"
	case KindField:
		return "field"
	case KindGroup:
		return "group"
	case KindInteger:
		return t.Int.String()
	case KindArray:
		dims := make([]string, len(t.Dimensions))
		for i, d := range t.Dimensions {
			dims[i] = fmt.Sprintf("%d", d)
		}
		if len(dims) == 1 {
			return fmt.Sprintf("[%s; %s]", t.Element, dims[0])
		}
		return fmt.Sprintf("[%s; (%s)]", t.Element, strings.Join(dims, ", "))
	case KindTuple:
		comps := make([]string, len(t.Components))
		for i, c := range t.Components {
			comps[i] = c.String()
		}
		return "(" + strings.Join(comps, ", ") + ")"
	case KindCircuit:
		return t.Circuit
	default:
		return "<err>"
	}
}
