package ast

import (
	"fmt"
	"strings"

	"github.com/veridian-lang/veridian/internal/position"
)

// ====== Statements ======

// ReturnStatement represents `return expr;`.
type ReturnStatement struct {
	Span       position.Span
	Expression Expression
}

func (r *ReturnStatement) GetSpan() position.Span { return r.Span }
func (r *ReturnStatement) statementNode()         {}
func (r *ReturnStatement) String() string         { return fmt.Sprintf("return %s;", r.Expression) }

// DeclareKind distinguishes `let` from `const` definitions.
type DeclareKind int

const (
	DeclareLet DeclareKind = iota
	DeclareConst
)

// String returns the declaration keyword.
func (d DeclareKind) String() string {
	if d == DeclareConst {
		return "const"
	}
	return "let"
}

// DefinitionStatement represents `let x: type = expr;`, possibly binding a
// tuple of names.
type DefinitionStatement struct {
	Span    position.Span
	Declare DeclareKind
	Names   []*Identifier
	Type    *Type // nil when omitted
	Value   Expression
}

func (d *DefinitionStatement) GetSpan() position.Span { return d.Span }
func (d *DefinitionStatement) statementNode()         {}
func (d *DefinitionStatement) String() string {
	names := make([]string, len(d.Names))
	for i, n := range d.Names {
		names[i] = n.Name
	}
	bound := names[0]
	if len(names) > 1 {
		bound = "(" + strings.Join(names, ", ") + ")"
	}
	if d.Type != nil {
		return fmt.Sprintf("%s %s: %s = %s;", d.Declare, bound, d.Type, d.Value)
	}
	return fmt.Sprintf("%s %s = %s;", d.Declare, bound, d.Value)
}

// AssignOperation enumerates assignment operators.
type AssignOperation int

const (
	AssignSimple AssignOperation = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignPow
)

var assignOpNames = map[AssignOperation]string{
	AssignSimple: "=",
	AssignAdd:    "+=",
	AssignSub:    "-=",
	AssignMul:    "*=",
	AssignDiv:    "/=",
	AssignPow:    "^=",
}

// String returns the operator's source spelling.
func (op AssignOperation) String() string { return assignOpNames[op] }

// AssignStatement represents `assignee op value;`. The assignee is a place
// expression: an identifier possibly wrapped in array, member, or tuple
// accesses.
type AssignStatement struct {
	Span     position.Span
	Op       AssignOperation
	Assignee Expression
	Value    Expression
}

func (a *AssignStatement) GetSpan() position.Span { return a.Span }
func (a *AssignStatement) statementNode()         {}
func (a *AssignStatement) String() string {
	return fmt.Sprintf("%s %s %s;", a.Assignee, a.Op, a.Value)
}

// ConditionalStatement represents an if statement. Next chains the linear
// else / else-if sequence: it is either another ConditionalStatement or a
// Block, or nil when no else was written.
type ConditionalStatement struct {
	Span      position.Span
	Condition Expression
	Block     *Block
	Next      Statement // nil when there is no else branch
}

func (c *ConditionalStatement) GetSpan() position.Span { return c.Span }
func (c *ConditionalStatement) statementNode()         {}
func (c *ConditionalStatement) String() string {
	if c.Next != nil {
		return fmt.Sprintf("if %s %s else %s", c.Condition, c.Block, c.Next)
	}
	return fmt.Sprintf("if %s %s", c.Condition, c.Block)
}

// IterationStatement represents `for variable in start..stop { ... }`.
type IterationStatement struct {
	Span      position.Span
	Variable  *Identifier
	Start     Expression
	Stop      Expression
	Inclusive bool
	Block     *Block
}

func (i *IterationStatement) GetSpan() position.Span { return i.Span }
func (i *IterationStatement) statementNode()         {}
func (i *IterationStatement) String() string {
	op := ".."
	if i.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("for %s in %s%s%s %s", i.Variable, i.Start, op, i.Stop, i.Block)
}

// ConsoleKind enumerates console statement functions.
type ConsoleKind int

const (
	ConsoleAssert ConsoleKind = iota
	ConsoleError
	ConsoleLog
)

// String returns the console function name.
func (k ConsoleKind) String() string {
	switch k {
	case ConsoleAssert:
		return "assert"
	case ConsoleError:
		return "error"
	default:
		return "log"
	}
}

// ConsoleStatement represents `console.assert(expr);` or
// `console.error("fmt", args...);` / `console.log(...)`.
type ConsoleStatement struct {
	Span       position.Span
	Kind       ConsoleKind
	Assert     Expression // valid when Kind == ConsoleAssert
	Format     string     // valid for error/log
	Parameters []Expression
}

func (c *ConsoleStatement) GetSpan() position.Span { return c.Span }
func (c *ConsoleStatement) statementNode()         {}
func (c *ConsoleStatement) String() string {
	if c.Kind == ConsoleAssert {
		return fmt.Sprintf("console.assert(%s);", c.Assert)
	}
	args := []string{fmt.Sprintf("%q", c.Format)}
	for _, p := range c.Parameters {
		args = append(args, p.String())
	}
	return fmt.Sprintf("console.%s(%s);", c.Kind, strings.Join(args, ", "))
}

// Block represents `{ statements }`.
type Block struct {
	Span       position.Span
	Statements []Statement
}

func (b *Block) GetSpan() position.Span { return b.Span }
func (b *Block) statementNode()         {}
func (b *Block) String() string {
	stmts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		stmts[i] = s.String()
	}
	return "{ " + strings.Join(stmts, " ") + " }"
}
