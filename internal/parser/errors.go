package parser

import (
	"fmt"

	"github.com/veridian-lang/veridian/internal/lexer"
	"github.com/veridian-lang/veridian/internal/position"
)

// ErrorKind classifies parse errors.
type ErrorKind int

const (
	// ErrUnexpectedToken: a required token or token set was not found at
	// the cursor.
	ErrUnexpectedToken ErrorKind = iota
	// ErrWhitespaceInSuffix: whitespace between a numeric literal and its
	// adjoining type suffix.
	ErrWhitespaceInSuffix
	// ErrInvalidArrayDimensions: malformed dimension list after the `;`
	// of a repeat-array.
	ErrInvalidArrayDimensions
	// ErrSpreadInArrayInit: a spread element where a repeat-array requires
	// a single plain element.
	ErrSpreadInArrayInit
	// ErrInvalidAssignee: the left side of an assignment is not a place
	// expression.
	ErrInvalidAssignee
	// ErrTooDeep: expression nesting exceeded the recursion guard.
	ErrTooDeep
)

// Error is a typed parse failure with its source location. Local parse
// functions return it immediately; the driver converts it into a
// diagnostic and recovers where recovery is supported.
type Error struct {
	Kind    ErrorKind
	Span    position.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span.Start, e.Message)
}

func errUnexpected(tok lexer.Token, expected string) *Error {
	return &Error{
		Kind:    ErrUnexpectedToken,
		Span:    tok.Span,
		Message: fmt.Sprintf("unexpected token %s, expected %s", tok, expected),
	}
}

func errWhitespaceInSuffix(span position.Span, value, suffix string) *Error {
	return &Error{
		Kind:    ErrWhitespaceInSuffix,
		Span:    span,
		Message: fmt.Sprintf("whitespace is not allowed between the literal %q and its type suffix %q", value, suffix),
	}
}

func errInvalidArrayDimensions(span position.Span) *Error {
	return &Error{
		Kind:    ErrInvalidArrayDimensions,
		Span:    span,
		Message: "unable to parse array dimensions",
	}
}

func errSpreadInArrayInit(span position.Span) *Error {
	return &Error{
		Kind:    ErrSpreadInArrayInit,
		Span:    span,
		Message: "a spread element cannot be used as the element of a repeated array",
	}
}

func errInvalidAssignee(span position.Span) *Error {
	return &Error{
		Kind:    ErrInvalidAssignee,
		Span:    span,
		Message: "invalid assignment target",
	}
}

func errTooDeep(span position.Span) *Error {
	return &Error{
		Kind:    ErrTooDeep,
		Span:    span,
		Message: "expression nesting is too deep",
	}
}
