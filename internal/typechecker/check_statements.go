package typechecker

import (
	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/types"
)

func (c *TypeChecker) VisitReturn(s *ast.ReturnStatement) {
	want := c.returnType
	c.check(s.Expression, &want)
}

func (c *TypeChecker) VisitDefinition(s *ast.DefinitionStatement) {
	var declared *types.Type
	if s.Type != nil {
		t := types.FromAST(*s.Type)
		declared = &t
	}

	value := c.check(s.Value, declared)
	bound := value
	if declared != nil {
		bound = *declared
	}

	if len(s.Names) == 1 {
		c.declare(s.Names[0], bound, s.Declare == ast.DeclareConst)
		return
	}

	// A tuple of names destructures a tuple-typed value positionally.
	if bound.Kind != types.KindTuple && !bound.IsErr() {
		c.handler.EmitError(diagnostics.CategoryType, s.Value.GetSpan(),
			"cannot destructure %d names from type %s", len(s.Names), bound)
		bound = types.Err
	}
	if bound.Kind == types.KindTuple && len(bound.Components) != len(s.Names) {
		c.handler.EmitError(diagnostics.CategoryType, s.Span,
			"cannot destructure %d names from a tuple of %d elements",
			len(s.Names), len(bound.Components))
	}
	for i, name := range s.Names {
		t := types.Err
		if bound.Kind == types.KindTuple && i < len(bound.Components) {
			t = bound.Components[i]
		}
		c.declare(name, t, s.Declare == ast.DeclareConst)
	}
}

func (c *TypeChecker) VisitAssign(s *ast.AssignStatement) {
	target := c.check(s.Assignee, nil)

	if root := assigneeRoot(s.Assignee); root != nil {
		if l, ok := c.lookup(root.Name); ok && l.konst {
			c.handler.EmitError(diagnostics.CategoryType, s.Assignee.GetSpan(),
				"cannot assign to constant %q", root.Name)
		}
	}
	if s.Op != ast.AssignSimple && !target.IsArithmetic() {
		c.handler.EmitError(diagnostics.CategoryType, s.Assignee.GetSpan(),
			"operator %s requires an arithmetic target, found %s", s.Op, target)
	}

	c.check(s.Value, &target)
}

func (c *TypeChecker) VisitConditional(s *ast.ConditionalStatement) {
	boolean := types.Boolean
	c.check(s.Condition, &boolean)
	c.Self.VisitBlock(s.Block)
	if s.Next != nil {
		c.Self.VisitStatement(s.Next)
	}
}

func (c *TypeChecker) VisitIteration(s *ast.IterationStatement) {
	start := c.check(s.Start, nil)
	if !start.IsErr() && !start.IsInteger() {
		c.handler.EmitError(diagnostics.CategoryType, s.Start.GetSpan(),
			"loop bound must be an integer, found %s", start)
		start = types.Err
	}
	c.check(s.Stop, &start)

	c.pushScope()
	c.declare(s.Variable, start, true)
	for _, stmt := range s.Block.Statements {
		c.Self.VisitStatement(stmt)
	}
	c.popScope()
}

func (c *TypeChecker) VisitConsole(s *ast.ConsoleStatement) {
	if s.Kind == ast.ConsoleAssert {
		boolean := types.Boolean
		c.check(s.Assert, &boolean)
		return
	}
	for _, param := range s.Parameters {
		c.check(param, nil)
	}
}

// VisitBlock gives each block its own lexical scope.
func (c *TypeChecker) VisitBlock(s *ast.Block) {
	c.pushScope()
	for _, stmt := range s.Statements {
		c.Self.VisitStatement(stmt)
	}
	c.popScope()
}

// assigneeRoot finds the identifier at the base of a place expression.
func assigneeRoot(expr ast.Expression) *ast.Identifier {
	for {
		switch e := expr.(type) {
		case *ast.Identifier:
			return e
		case *ast.ArrayAccess:
			expr = e.Array
		case *ast.ArrayRangeAccess:
			expr = e.Array
		case *ast.MemberAccess:
			expr = e.Inner
		case *ast.TupleAccess:
			expr = e.Tuple
		default:
			return nil
		}
	}
}
