package typechecker

import (
	"strconv"

	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/types"
)

// implicitDefault is the type given to an unsuffixed numeric literal when
// no surrounding context constrains it.
var implicitDefault = types.Integer(ast.IntU32)

func (c *TypeChecker) VisitIdentifier(e *ast.Identifier, extra interface{}) interface{} {
	if l, ok := c.lookup(e.Name); ok {
		return c.result(c.expect(e, l.typ, expected(extra)))
	}
	// The input container and self receiver are opaque to this pass.
	if e.Name == "input" || e.Name == "self" {
		return c.result(types.Err)
	}
	c.handler.EmitError(diagnostics.CategoryUndefinedVariable, e.Span,
		"variable %q is not defined", e.Name)
	return c.result(types.Err)
}

func (c *TypeChecker) VisitValue(e *ast.ValueExpression, extra interface{}) interface{} {
	want := expected(extra)

	var t types.Type
	switch e.Kind {
	case ast.ValueImplicit:
		// An unsuffixed literal takes the surrounding expected type when
		// one exists and can hold a number.
		if want != nil && (*want).IsArithmetic() {
			t = *want
		} else {
			t = implicitDefault
		}
	case ast.ValueInteger:
		t = types.Integer(e.Int)
	case ast.ValueField:
		t = types.Field
	case ast.ValueGroup:
		t = types.Group
	case ast.ValueBoolean:
		t = types.Boolean
	case ast.ValueAddress:
		t = types.Address
	case ast.ValueChar:
		t = types.Char
	case ast.ValueString:
		element := types.Char
		t = types.Type{
			Kind:       types.KindArray,
			Element:    &element,
			Dimensions: []uint32{uint32(len([]rune(e.Text)))},
		}
	}
	return c.result(c.expect(e, t, want))
}

func (c *TypeChecker) VisitBinary(e *ast.BinaryExpression, extra interface{}) interface{} {
	want := expected(extra)

	switch e.Op {
	case ast.OpOr, ast.OpAnd:
		boolean := types.Boolean
		c.check(e.Left, &boolean)
		c.check(e.Right, &boolean)
		return c.result(c.expect(e, types.Boolean, want))

	case ast.OpEq, ast.OpNe:
		left := c.check(e.Left, nil)
		c.check(e.Right, &left)
		return c.result(c.expect(e, types.Boolean, want))

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		left := c.check(e.Left, nil)
		if !left.IsOrdered() {
			c.handler.EmitError(diagnostics.CategoryType, e.Left.GetSpan(),
				"type %s does not support ordering comparisons", left)
		}
		c.check(e.Right, &left)
		return c.result(c.expect(e, types.Boolean, want))

	default: // arithmetic
		left := c.check(e.Left, want)
		if !left.IsArithmetic() {
			c.handler.EmitError(diagnostics.CategoryType, e.Left.GetSpan(),
				"type %s does not support arithmetic", left)
			left = types.Err
		}
		c.check(e.Right, &left)
		return c.result(c.expect(e, left, want))
	}
}

func (c *TypeChecker) VisitUnary(e *ast.UnaryExpression, extra interface{}) interface{} {
	want := expected(extra)

	if e.Op == ast.OpNot {
		boolean := types.Boolean
		c.check(e.Inner, &boolean)
		return c.result(c.expect(e, types.Boolean, want))
	}

	inner := c.check(e.Inner, want)
	if !inner.IsArithmetic() {
		c.handler.EmitError(diagnostics.CategoryType, e.Inner.GetSpan(),
			"type %s does not support negation", inner)
		inner = types.Err
	} else if inner.IsInteger() && !inner.Int.Signed() {
		c.handler.EmitError(diagnostics.CategoryType, e.GetSpan(),
			"cannot negate a value of unsigned type %s", inner)
	}
	return c.result(c.expect(e, inner, want))
}

func (c *TypeChecker) VisitTernary(e *ast.TernaryExpression, extra interface{}) interface{} {
	want := expected(extra)

	boolean := types.Boolean
	c.check(e.Condition, &boolean)

	ifTrue := c.check(e.IfTrue, want)
	c.check(e.IfFalse, &ifTrue)
	return c.result(c.expect(e, ifTrue, want))
}

func (c *TypeChecker) VisitCast(e *ast.CastExpression, extra interface{}) interface{} {
	want := expected(extra)

	inner := c.check(e.Inner, nil)
	if !inner.IsArithmetic() {
		c.handler.EmitError(diagnostics.CategoryType, e.Inner.GetSpan(),
			"type %s cannot be cast", inner)
	}
	target := types.FromAST(e.TargetType)
	if !target.IsCastTarget() {
		c.handler.EmitError(diagnostics.CategoryType, e.GetSpan(),
			"type %s is not a valid cast target", target)
		target = types.Err
	}
	return c.result(c.expect(e, target, want))
}

func (c *TypeChecker) VisitCall(e *ast.CallExpression, extra interface{}) interface{} {
	want := expected(extra)

	callee, ok := e.Function.(*ast.Identifier)
	if !ok {
		c.handler.EmitError(diagnostics.CategoryType, e.Function.GetSpan(),
			"expression is not callable")
		for _, arg := range e.Arguments {
			c.check(arg, nil)
		}
		return c.result(types.Err)
	}

	info := c.table.Function(callee.Name)
	if info == nil {
		c.handler.EmitError(diagnostics.CategoryUndefinedFunction, callee.Span,
			"function %q is not defined", callee.Name)
		for _, arg := range e.Arguments {
			c.check(arg, nil)
		}
		return c.result(types.Err)
	}

	if len(e.Arguments) != len(info.Parameters) {
		c.handler.EmitError(diagnostics.CategoryArity, e.Span,
			"function %q expects %d argument(s), found %d",
			callee.Name, len(info.Parameters), len(e.Arguments))
	}
	for i, arg := range e.Arguments {
		if i < len(info.Parameters) {
			param := info.Parameters[i].Type
			c.check(arg, &param)
		} else {
			c.check(arg, nil)
		}
	}
	return c.result(c.expect(e, info.ReturnType, want))
}

func (c *TypeChecker) VisitArrayAccess(e *ast.ArrayAccess, extra interface{}) interface{} {
	want := expected(extra)

	array := c.check(e.Array, nil)
	c.checkIndex(e.Index)

	if array.IsErr() {
		return c.result(types.Err)
	}
	if array.Kind != types.KindArray {
		c.handler.EmitError(diagnostics.CategoryType, e.Array.GetSpan(),
			"type %s cannot be indexed", array)
		return c.result(types.Err)
	}
	return c.result(c.expect(e, elementAfterIndex(array), want))
}

func (c *TypeChecker) VisitArrayRangeAccess(e *ast.ArrayRangeAccess, extra interface{}) interface{} {
	want := expected(extra)

	array := c.check(e.Array, nil)
	if e.Left != nil {
		c.checkIndex(e.Left)
	}
	if e.Right != nil {
		c.checkIndex(e.Right)
	}

	if array.IsErr() {
		return c.result(types.Err)
	}
	if array.Kind != types.KindArray {
		c.handler.EmitError(diagnostics.CategoryType, e.Array.GetSpan(),
			"type %s cannot be sliced", array)
		return c.result(types.Err)
	}
	// The slice length is a dynamic property; the element type carries.
	slice := types.Type{Kind: types.KindArray, Element: array.Element}
	if want != nil && (*want).Kind == types.KindArray && (*want).Element.Equal(*array.Element) {
		return c.result(*want)
	}
	return c.result(slice)
}

func (c *TypeChecker) VisitMemberAccess(e *ast.MemberAccess, extra interface{}) interface{} {
	want := expected(extra)

	inner := c.check(e.Inner, nil)
	if inner.IsErr() {
		return c.result(types.Err)
	}
	if inner.Kind != types.KindCircuit {
		c.handler.EmitError(diagnostics.CategoryType, e.Inner.GetSpan(),
			"type %s has no members", inner)
		return c.result(types.Err)
	}

	info := c.table.Circuit(inner.Circuit)
	if info == nil {
		c.handler.EmitError(diagnostics.CategoryUndefinedCircuit, e.Inner.GetSpan(),
			"circuit %q is not defined", inner.Circuit)
		return c.result(types.Err)
	}
	member := info.Member(e.Name.Name)
	if member == nil {
		c.handler.EmitError(diagnostics.CategoryType, e.Name.Span,
			"circuit %q has no member %q", inner.Circuit, e.Name.Name)
		return c.result(types.Err)
	}
	return c.result(c.expect(e, member.Type, want))
}

func (c *TypeChecker) VisitTupleAccess(e *ast.TupleAccess, extra interface{}) interface{} {
	want := expected(extra)

	tuple := c.check(e.Tuple, nil)
	if tuple.IsErr() {
		return c.result(types.Err)
	}
	if tuple.Kind != types.KindTuple {
		c.handler.EmitError(diagnostics.CategoryType, e.Tuple.GetSpan(),
			"type %s is not a tuple", tuple)
		return c.result(types.Err)
	}

	index, err := strconv.Atoi(e.Index)
	if err != nil || index < 0 || index >= len(tuple.Components) {
		c.handler.EmitError(diagnostics.CategoryType, e.Span,
			"tuple index %s is out of range for %s", e.Index, tuple)
		return c.result(types.Err)
	}
	return c.result(c.expect(e, tuple.Components[index], want))
}

// VisitStaticAccess leaves namespaced constants untyped; they resolve in
// a later pass.
func (c *TypeChecker) VisitStaticAccess(e *ast.StaticAccess, extra interface{}) interface{} {
	return c.result(types.Err)
}

func (c *TypeChecker) VisitCircuitInit(e *ast.CircuitInitExpression, extra interface{}) interface{} {
	want := expected(extra)

	name := e.Name.Name
	info := c.table.Circuit(name)
	if info == nil {
		c.handler.EmitError(diagnostics.CategoryUndefinedCircuit, e.Name.Span,
			"circuit %q is not defined", name)
		for _, m := range e.Members {
			if m.Expression != nil {
				c.check(m.Expression, nil)
			}
		}
		return c.result(types.Err)
	}

	initialized := make(map[string]bool)
	for _, m := range e.Members {
		member := info.Member(m.Identifier.Name)
		if member == nil {
			c.handler.EmitError(diagnostics.CategoryType, m.Identifier.Span,
				"circuit %q has no member %q", name, m.Identifier.Name)
			if m.Expression != nil {
				c.check(m.Expression, nil)
			}
			continue
		}
		if initialized[member.Name] {
			c.handler.EmitError(diagnostics.CategoryRedefinition, m.Identifier.Span,
				"member %q is initialized more than once", member.Name)
			continue
		}
		initialized[member.Name] = true

		if m.Expression != nil {
			memberType := member.Type
			c.check(m.Expression, &memberType)
			continue
		}
		// Shorthand: the member takes a same-named variable's value.
		memberType := member.Type
		c.check(m.Identifier, &memberType)
	}

	for _, member := range info.Members {
		if !initialized[member.Name] {
			c.handler.EmitError(diagnostics.CategoryType, e.Span,
				"member %q of circuit %q is not initialized", member.Name, name)
		}
	}
	return c.result(c.expect(e, types.CircuitNamed(name), want))
}

func (c *TypeChecker) VisitTupleInit(e *ast.TupleInitExpression, extra interface{}) interface{} {
	want := expected(extra)

	components := make([]types.Type, len(e.Elements))
	for i, elem := range e.Elements {
		if want != nil && (*want).Kind == types.KindTuple && i < len((*want).Components) {
			expectedComponent := (*want).Components[i]
			components[i] = c.check(elem, &expectedComponent)
		} else {
			components[i] = c.check(elem, nil)
		}
	}
	t := types.Type{Kind: types.KindTuple, Components: components}
	return c.result(c.expect(e, t, want))
}

func (c *TypeChecker) VisitArrayInline(e *ast.ArrayInlineExpression, extra interface{}) interface{} {
	want := expected(extra)

	var elementWant *types.Type
	if want != nil && (*want).Kind == types.KindArray {
		elementWant = (*want).Element
	}

	element := types.Err
	spread := false
	for _, elem := range e.Elements {
		if elem.Spread {
			spread = true
			t := c.check(elem.Expression, nil)
			if t.Kind == types.KindArray {
				t = *t.Element
			} else if !t.IsErr() {
				c.handler.EmitError(diagnostics.CategoryType, elem.Expression.GetSpan(),
					"spread element must be an array, found %s", t)
				continue
			}
			element = unify(element, t)
			continue
		}
		t := c.check(elem.Expression, elementWant)
		if elementWant == nil && !t.IsErr() {
			// The first concretely typed element constrains the rest.
			constraint := t
			elementWant = &constraint
		}
		element = unify(element, t)
	}

	if want != nil && (*want).Kind == types.KindArray {
		return c.result(*want)
	}
	if spread || element.IsErr() {
		// Length is unknown without a constraint from context.
		return c.result(types.Type{Kind: types.KindArray, Element: &element})
	}
	return c.result(c.expect(e, types.Type{
		Kind:       types.KindArray,
		Element:    &element,
		Dimensions: []uint32{uint32(len(e.Elements))},
	}, want))
}

func (c *TypeChecker) VisitArrayInit(e *ast.ArrayInitExpression, extra interface{}) interface{} {
	want := expected(extra)

	var elementWant *types.Type
	if want != nil && (*want).Kind == types.KindArray {
		elementWant = (*want).Element
	}
	element := c.check(e.Element, elementWant)
	return c.result(c.expect(e, types.Type{
		Kind:       types.KindArray,
		Element:    &element,
		Dimensions: e.Dimensions,
	}, want))
}

// VisitErr passes through silently; the parser already reported the node.
func (c *TypeChecker) VisitErr(e *ast.ErrExpression, extra interface{}) interface{} {
	return c.result(types.Err)
}

// ====== Helpers ======

// checkIndex requires an integer index expression.
func (c *TypeChecker) checkIndex(e ast.Expression) {
	t := c.check(e, nil)
	if !t.IsErr() && !t.IsInteger() {
		c.handler.EmitError(diagnostics.CategoryType, e.GetSpan(),
			"array index must be an integer, found %s", t)
	}
}

// elementAfterIndex strips one dimension from an array type.
func elementAfterIndex(array types.Type) types.Type {
	if len(array.Dimensions) > 1 {
		return types.Type{
			Kind:       types.KindArray,
			Element:    array.Element,
			Dimensions: array.Dimensions[1:],
		}
	}
	return *array.Element
}

// unify merges element types during array inference; the error type
// yields to any concrete type.
func unify(a, b types.Type) types.Type {
	if a.IsErr() {
		return b
	}
	return a
}
