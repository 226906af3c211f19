// Visitor framework for AST traversal. Three layered capabilities —
// expression, statement, and program visiting — each provide default
// structural recursion so a pass only overrides the handlers it cares
// about. Overriding a handler fully replaces the default recursion for
// that node kind; overrides that still want children visited must recurse
// themselves.
//
// The defaults are embeddable structs that re-dispatch through an explicit
// self reference, so recursion triggered by a default body reaches the
// pass's overridden handlers. A pass embeds ProgramDefaults (or a lower
// layer) and calls Bind(self) once after construction:
//
//	type checker struct {
//		ast.ProgramDefaults
//	}
//	c := &checker{}
//	c.Bind(c)
//	c.VisitProgram(prog)
package ast

import "fmt"

// ExpressionVisitor dispatches over expression variants. Handlers take a
// caller-supplied extra value and return an optional result; nil means "no
// value produced for this node", which is not an error.
type ExpressionVisitor interface {
	VisitExpression(e Expression, extra interface{}) interface{}
	VisitIdentifier(e *Identifier, extra interface{}) interface{}
	VisitValue(e *ValueExpression, extra interface{}) interface{}
	VisitBinary(e *BinaryExpression, extra interface{}) interface{}
	VisitUnary(e *UnaryExpression, extra interface{}) interface{}
	VisitTernary(e *TernaryExpression, extra interface{}) interface{}
	VisitCast(e *CastExpression, extra interface{}) interface{}
	VisitCall(e *CallExpression, extra interface{}) interface{}
	VisitArrayAccess(e *ArrayAccess, extra interface{}) interface{}
	VisitArrayRangeAccess(e *ArrayRangeAccess, extra interface{}) interface{}
	VisitMemberAccess(e *MemberAccess, extra interface{}) interface{}
	VisitTupleAccess(e *TupleAccess, extra interface{}) interface{}
	VisitStaticAccess(e *StaticAccess, extra interface{}) interface{}
	VisitCircuitInit(e *CircuitInitExpression, extra interface{}) interface{}
	VisitTupleInit(e *TupleInitExpression, extra interface{}) interface{}
	VisitArrayInline(e *ArrayInlineExpression, extra interface{}) interface{}
	VisitArrayInit(e *ArrayInitExpression, extra interface{}) interface{}
	VisitErr(e *ErrExpression, extra interface{}) interface{}
}

// StatementVisitor dispatches over statement variants. It requires
// expression visiting; statement defaults visit contained expressions with
// a nil extra value.
type StatementVisitor interface {
	ExpressionVisitor
	VisitStatement(s Statement)
	VisitReturn(s *ReturnStatement)
	VisitDefinition(s *DefinitionStatement)
	VisitAssign(s *AssignStatement)
	VisitConditional(s *ConditionalStatement)
	VisitIteration(s *IterationStatement)
	VisitConsole(s *ConsoleStatement)
	VisitBlock(s *Block)
}

// ProgramVisitor dispatches over a whole program. It requires statement
// visiting; the default visits every function's block in declaration
// order so diagnostics stay reproducible.
type ProgramVisitor interface {
	StatementVisitor
	VisitProgram(p *Program)
	VisitFunction(f *Function)
}

// ====== Expression defaults ======

// ExpressionDefaults supplies the default structural recursion for every
// expression handler. Self must be bound to the outermost visitor.
type ExpressionDefaults struct {
	Self ExpressionVisitor
}

// Bind wires the defaults to the outermost visitor.
func (d *ExpressionDefaults) Bind(v ExpressionVisitor) { d.Self = v }

// VisitExpression dispatches by the node's variant. An unknown variant is
// an internal invariant violation: the node set is closed.
func (d *ExpressionDefaults) VisitExpression(e Expression, extra interface{}) interface{} {
	switch e := e.(type) {
	case *Identifier:
		return d.Self.VisitIdentifier(e, extra)
	case *ValueExpression:
		return d.Self.VisitValue(e, extra)
	case *BinaryExpression:
		return d.Self.VisitBinary(e, extra)
	case *UnaryExpression:
		return d.Self.VisitUnary(e, extra)
	case *TernaryExpression:
		return d.Self.VisitTernary(e, extra)
	case *CastExpression:
		return d.Self.VisitCast(e, extra)
	case *CallExpression:
		return d.Self.VisitCall(e, extra)
	case *ArrayAccess:
		return d.Self.VisitArrayAccess(e, extra)
	case *ArrayRangeAccess:
		return d.Self.VisitArrayRangeAccess(e, extra)
	case *MemberAccess:
		return d.Self.VisitMemberAccess(e, extra)
	case *TupleAccess:
		return d.Self.VisitTupleAccess(e, extra)
	case *StaticAccess:
		return d.Self.VisitStaticAccess(e, extra)
	case *CircuitInitExpression:
		return d.Self.VisitCircuitInit(e, extra)
	case *TupleInitExpression:
		return d.Self.VisitTupleInit(e, extra)
	case *ArrayInlineExpression:
		return d.Self.VisitArrayInline(e, extra)
	case *ArrayInitExpression:
		return d.Self.VisitArrayInit(e, extra)
	case *ErrExpression:
		return d.Self.VisitErr(e, extra)
	}
	panic(fmt.Sprintf("ast: VisitExpression reached impossible variant %T", e))
}

func (d *ExpressionDefaults) VisitIdentifier(e *Identifier, extra interface{}) interface{} {
	return nil
}

func (d *ExpressionDefaults) VisitValue(e *ValueExpression, extra interface{}) interface{} {
	return nil
}

func (d *ExpressionDefaults) VisitBinary(e *BinaryExpression, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Left, extra)
	d.Self.VisitExpression(e.Right, extra)
	return nil
}

func (d *ExpressionDefaults) VisitUnary(e *UnaryExpression, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Inner, extra)
	return nil
}

func (d *ExpressionDefaults) VisitTernary(e *TernaryExpression, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Condition, extra)
	d.Self.VisitExpression(e.IfTrue, extra)
	d.Self.VisitExpression(e.IfFalse, extra)
	return nil
}

func (d *ExpressionDefaults) VisitCast(e *CastExpression, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Inner, extra)
	return nil
}

func (d *ExpressionDefaults) VisitCall(e *CallExpression, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Function, extra)
	for _, arg := range e.Arguments {
		d.Self.VisitExpression(arg, extra)
	}
	return nil
}

func (d *ExpressionDefaults) VisitArrayAccess(e *ArrayAccess, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Array, extra)
	d.Self.VisitExpression(e.Index, extra)
	return nil
}

func (d *ExpressionDefaults) VisitArrayRangeAccess(e *ArrayRangeAccess, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Array, extra)
	if e.Left != nil {
		d.Self.VisitExpression(e.Left, extra)
	}
	if e.Right != nil {
		d.Self.VisitExpression(e.Right, extra)
	}
	return nil
}

func (d *ExpressionDefaults) VisitMemberAccess(e *MemberAccess, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Inner, extra)
	return nil
}

func (d *ExpressionDefaults) VisitTupleAccess(e *TupleAccess, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Tuple, extra)
	return nil
}

func (d *ExpressionDefaults) VisitStaticAccess(e *StaticAccess, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Inner, extra)
	return nil
}

func (d *ExpressionDefaults) VisitCircuitInit(e *CircuitInitExpression, extra interface{}) interface{} {
	for _, member := range e.Members {
		if member.Expression != nil {
			d.Self.VisitExpression(member.Expression, extra)
		}
	}
	return nil
}

func (d *ExpressionDefaults) VisitTupleInit(e *TupleInitExpression, extra interface{}) interface{} {
	for _, elem := range e.Elements {
		d.Self.VisitExpression(elem, extra)
	}
	return nil
}

func (d *ExpressionDefaults) VisitArrayInline(e *ArrayInlineExpression, extra interface{}) interface{} {
	for _, elem := range e.Elements {
		d.Self.VisitExpression(elem.Expression, extra)
	}
	return nil
}

func (d *ExpressionDefaults) VisitArrayInit(e *ArrayInitExpression, extra interface{}) interface{} {
	d.Self.VisitExpression(e.Element, extra)
	return nil
}

func (d *ExpressionDefaults) VisitErr(e *ErrExpression, extra interface{}) interface{} {
	return nil
}

// ====== Statement defaults ======

// StatementDefaults supplies default structural recursion for statements
// on top of ExpressionDefaults.
type StatementDefaults struct {
	ExpressionDefaults
	Self StatementVisitor
}

// Bind wires both layers to the outermost visitor.
func (d *StatementDefaults) Bind(v StatementVisitor) {
	d.Self = v
	d.ExpressionDefaults.Bind(v)
}

// VisitStatement dispatches by the statement's variant.
func (d *StatementDefaults) VisitStatement(s Statement) {
	switch s := s.(type) {
	case *ReturnStatement:
		d.Self.VisitReturn(s)
	case *DefinitionStatement:
		d.Self.VisitDefinition(s)
	case *AssignStatement:
		d.Self.VisitAssign(s)
	case *ConditionalStatement:
		d.Self.VisitConditional(s)
	case *IterationStatement:
		d.Self.VisitIteration(s)
	case *ConsoleStatement:
		d.Self.VisitConsole(s)
	case *Block:
		d.Self.VisitBlock(s)
	default:
		panic(fmt.Sprintf("ast: VisitStatement reached impossible variant %T", s))
	}
}

func (d *StatementDefaults) VisitReturn(s *ReturnStatement) {
	d.Self.VisitExpression(s.Expression, nil)
}

func (d *StatementDefaults) VisitDefinition(s *DefinitionStatement) {
	d.Self.VisitExpression(s.Value, nil)
}

func (d *StatementDefaults) VisitAssign(s *AssignStatement) {
	d.Self.VisitExpression(s.Value, nil)
}

// VisitConditional visits the condition and block, then chains into the
// linked next statement, preserving the linear else-if sequence without a
// separate list type.
func (d *StatementDefaults) VisitConditional(s *ConditionalStatement) {
	d.Self.VisitExpression(s.Condition, nil)
	d.Self.VisitBlock(s.Block)
	if s.Next != nil {
		d.Self.VisitStatement(s.Next)
	}
}

func (d *StatementDefaults) VisitIteration(s *IterationStatement) {
	d.Self.VisitExpression(s.Start, nil)
	d.Self.VisitExpression(s.Stop, nil)
	d.Self.VisitBlock(s.Block)
}

func (d *StatementDefaults) VisitConsole(s *ConsoleStatement) {
	if s.Kind == ConsoleAssert {
		d.Self.VisitExpression(s.Assert, nil)
		return
	}
	for _, param := range s.Parameters {
		d.Self.VisitExpression(param, nil)
	}
}

func (d *StatementDefaults) VisitBlock(s *Block) {
	for _, stmt := range s.Statements {
		d.Self.VisitStatement(stmt)
	}
}

// ====== Program defaults ======

// ProgramDefaults supplies default traversal over whole programs on top
// of StatementDefaults.
type ProgramDefaults struct {
	StatementDefaults
	Self ProgramVisitor
}

// Bind wires all three layers to the outermost visitor.
func (d *ProgramDefaults) Bind(v ProgramVisitor) {
	d.Self = v
	d.StatementDefaults.Bind(v)
}

// VisitProgram visits every function in declaration order.
func (d *ProgramDefaults) VisitProgram(p *Program) {
	for _, name := range p.FunctionOrder {
		d.Self.VisitFunction(p.Functions[name])
	}
}

// VisitFunction visits the function's body block.
func (d *ProgramDefaults) VisitFunction(f *Function) {
	d.Self.VisitBlock(f.Block)
}
