package typechecker

import (
	"github.com/veridian-lang/veridian/internal/allocator"
	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/symbols"
)

// Check runs the type checking pass over a program. Diagnostics accumulate
// in the handler during traversal; the pass result is the last error-level
// diagnostic, or nil when the program checked cleanly. Scratch allocations
// are bound to the scope and belong to the caller to release.
func Check(program *ast.Program, handler *diagnostics.Handler, table *symbols.Table, scope *allocator.Scope) error {
	c := New(handler, table, scope)
	c.VisitProgram(program)
	return handler.LastError()
}
