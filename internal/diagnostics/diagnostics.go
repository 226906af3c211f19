// Package diagnostics provides the error accumulation channel shared by
// the parser and every analysis pass of the Veridian compiler. Passes
// never abort on the first problem: they emit into a Handler while
// traversal continues, and the pass result is derived from the handler
// once traversal completes. All detected errors are therefore reported in
// one batch per compilation attempt.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/veridian-lang/veridian/internal/position"
)

// Level represents the severity level of a diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// String returns the severity name.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category represents the category of a diagnostic.
type Category int

const (
	CategorySyntax Category = iota
	CategoryType
	CategoryUndefinedVariable
	CategoryUndefinedFunction
	CategoryUndefinedCircuit
	CategoryRedefinition
	CategoryArity
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryType:
		return "type"
	case CategoryUndefinedVariable:
		return "undefined-variable"
	case CategoryUndefinedFunction:
		return "undefined-function"
	case CategoryUndefinedCircuit:
		return "undefined-circuit"
	case CategoryRedefinition:
		return "redefinition"
	case CategoryArity:
		return "arity"
	default:
		return "unknown"
	}
}

// Diagnostic is one recorded problem with its source location.
type Diagnostic struct {
	Level    Level
	Category Category
	Message  string
	Span     position.Span
}

// Error implements the error interface so a diagnostic can be returned
// directly as a pass failure.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s: %s", d.Span.Start, d.Level, d.Category, d.Message)
}

// Handler accumulates diagnostics. It is the sink consumed by the parser
// and by every pass; queries like LastError are answered once after a
// traversal completes.
type Handler struct {
	diags    []*Diagnostic
	errCount int
}

// NewHandler creates an empty handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Emit records a diagnostic.
func (h *Handler) Emit(d *Diagnostic) {
	h.diags = append(h.diags, d)
	if d.Level == LevelError {
		h.errCount++
	}
}

// EmitError records an error-level diagnostic with a formatted message.
func (h *Handler) EmitError(cat Category, span position.Span, format string, args ...interface{}) {
	h.Emit(&Diagnostic{
		Level:    LevelError,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// EmitWarning records a warning-level diagnostic with a formatted message.
func (h *Handler) EmitWarning(cat Category, span position.Span, format string, args ...interface{}) {
	h.Emit(&Diagnostic{
		Level:    LevelWarning,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// HadErrors reports whether any error-level diagnostic was recorded.
func (h *Handler) HadErrors() bool { return h.errCount > 0 }

// ErrCount returns the number of error-level diagnostics recorded.
func (h *Handler) ErrCount() int { return h.errCount }

// LastError returns the most recently recorded error-level diagnostic, or
// nil when none was recorded. Passes call it once after traversal to turn
// accumulated state into a pass result.
func (h *Handler) LastError() error {
	for i := len(h.diags) - 1; i >= 0; i-- {
		if h.diags[i].Level == LevelError {
			return h.diags[i]
		}
	}
	return nil
}

// Diagnostics returns all recorded diagnostics in emission order.
func (h *Handler) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(h.diags))
	copy(out, h.diags)
	return out
}

// Sorted returns all recorded diagnostics ordered by source position, for
// stable user-facing output.
func (h *Handler) Sorted() []*Diagnostic {
	out := h.Diagnostics()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start.Before(out[j].Span.Start)
	})
	return out
}
