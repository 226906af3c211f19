// Package typechecker implements the type checking pass. It traverses the
// program with the layered visitor, propagating the expected type of each
// expression downward through the visitor's extra parameter and reporting
// every mismatch through the shared diagnostics handler. The pass never
// stops at the first problem; nodes that fail produce the error type,
// which unifies with everything so one mistake is reported once.
package typechecker

import (
	"github.com/veridian-lang/veridian/internal/allocator"
	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/symbols"
	"github.com/veridian-lang/veridian/internal/types"
)

// local is one variable binding in the lexical scope stack.
type local struct {
	typ   types.Type
	konst bool
}

// TypeChecker checks one program. It is single-use: construct, bind,
// visit, discard.
type TypeChecker struct {
	ast.ProgramDefaults

	handler *diagnostics.Handler
	table   *symbols.Table

	// typeSlab backs every *types.Type the pass threads through the
	// visitor; the whole side allocation is dropped when the pass scope is
	// released.
	typeSlab *allocator.Slab[types.Type]

	// inferred records the checked type of every visited expression, for
	// later passes and for tests.
	inferred map[ast.Expression]types.Type

	scopes     []map[string]local
	returnType types.Type
}

// New creates a checker over the given symbol table. Scratch allocations
// are tied to the scope and released by the caller.
func New(handler *diagnostics.Handler, table *symbols.Table, scope *allocator.Scope) *TypeChecker {
	c := &TypeChecker{
		handler:  handler,
		table:    table,
		typeSlab: allocator.NewSlab[types.Type](scope),
		inferred: make(map[ast.Expression]types.Type),
	}
	c.Bind(c)
	return c
}

// TypeOf returns the checked type of an expression visited by this pass.
func (c *TypeChecker) TypeOf(e ast.Expression) (types.Type, bool) {
	t, ok := c.inferred[e]
	return t, ok
}

// expected unwraps the visitor extra parameter.
func expected(extra interface{}) *types.Type {
	if extra == nil {
		return nil
	}
	return extra.(*types.Type)
}

// check visits an expression with an optional expected type and returns
// the type it produced. A nil visitor result means the node could not be
// typed; it maps to the error type.
func (c *TypeChecker) check(e ast.Expression, want *types.Type) types.Type {
	result := c.Self.VisitExpression(e, want)
	if result == nil {
		return types.Err
	}
	t := *result.(*types.Type)
	c.inferred[e] = t
	return t
}

// result wraps a computed type for return through the visitor.
func (c *TypeChecker) result(t types.Type) interface{} {
	return c.typeSlab.NewFrom(t)
}

// expect reports a mismatch between a produced and an expected type.
func (c *TypeChecker) expect(node ast.Expression, got types.Type, want *types.Type) types.Type {
	if want != nil && !got.Equal(*want) {
		c.handler.EmitError(diagnostics.CategoryType, node.GetSpan(),
			"expected type %s, found %s", want, got)
		return types.Err
	}
	return got
}

// ====== Scopes ======

func (c *TypeChecker) pushScope() {
	c.scopes = append(c.scopes, make(map[string]local))
}

func (c *TypeChecker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// declare binds a variable in the innermost scope. Shadowing an outer
// binding is allowed; rebinding within one scope is a redefinition.
func (c *TypeChecker) declare(name *ast.Identifier, typ types.Type, konst bool) {
	scope := c.scopes[len(c.scopes)-1]
	if _, exists := scope[name.Name]; exists {
		c.handler.EmitError(diagnostics.CategoryRedefinition, name.Span,
			"variable %q is declared more than once in this scope", name.Name)
		return
	}
	scope[name.Name] = local{typ: typ, konst: konst}
}

// lookup finds a binding, innermost scope first.
func (c *TypeChecker) lookup(name string) (local, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if l, ok := c.scopes[i][name]; ok {
			return l, true
		}
	}
	return local{}, false
}

// ====== Program traversal ======

// VisitFunction establishes the function's scope, binds its parameters,
// and checks the body against the declared return type.
func (c *TypeChecker) VisitFunction(f *ast.Function) {
	info := c.table.Function(f.Name.Name)
	if info == nil {
		return
	}

	c.pushScope()
	for i, p := range f.Parameters {
		if i < len(info.Parameters) {
			c.declare(p.Name, info.Parameters[i].Type, p.Const)
		}
	}
	c.returnType = info.ReturnType
	c.Self.VisitBlock(f.Block)
	c.popScope()
}
