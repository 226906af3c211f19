// Package ast defines the Veridian abstract syntax tree and the visitor
// framework every analysis pass is built on. The tree is a closed set of
// expression and statement variants, created once by the parser and never
// mutated afterwards; passes attach results through side tables.
package ast

import (
	"github.com/veridian-lang/veridian/internal/position"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// GetSpan returns the source span for this node. Spans are minimal:
	// a parent's span is always the union of its first and last child
	// (or of its bracketing tokens).
	GetSpan() position.Span
	// String returns a source-like representation of the node.
	String() string
}

// Expression represents all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// Statement represents all statement nodes.
type Statement interface {
	Node
	statementNode()
}
