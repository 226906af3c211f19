package ast

import (
	"testing"

	"github.com/veridian-lang/veridian/internal/position"
)

func ident(name string) *Identifier {
	return &Identifier{Name: name}
}

func implicit(text string) *ValueExpression {
	return &ValueExpression{Kind: ValueImplicit, Text: text}
}

// identCollector records every identifier reached by default recursion.
type identCollector struct {
	ProgramDefaults
	names []string
}

func newIdentCollector() *identCollector {
	c := &identCollector{}
	c.Bind(c)
	return c
}

func (c *identCollector) VisitIdentifier(e *Identifier, extra interface{}) interface{} {
	c.names = append(c.names, e.Name)
	return nil
}

func TestDefaultRecursionReachesEveryLeaf(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want []string
	}{
		{
			"binary",
			&BinaryExpression{Op: OpAdd, Left: ident("a"), Right: ident("b")},
			[]string{"a", "b"},
		},
		{
			"ternary",
			&TernaryExpression{Condition: ident("c"), IfTrue: ident("t"), IfFalse: ident("f")},
			[]string{"c", "t", "f"},
		},
		{
			"unary",
			&UnaryExpression{Op: OpNegate, Inner: ident("x")},
			[]string{"x"},
		},
		{
			"cast",
			&CastExpression{Inner: ident("x"), TargetType: Type{Kind: TypeField}},
			[]string{"x"},
		},
		{
			"call",
			&CallExpression{Function: ident("f"), Arguments: []Expression{ident("a"), ident("b")}},
			[]string{"f", "a", "b"},
		},
		{
			"array access",
			&ArrayAccess{Array: ident("arr"), Index: ident("i")},
			[]string{"arr", "i"},
		},
		{
			"range with one bound",
			&ArrayRangeAccess{Array: ident("arr"), Right: ident("hi")},
			[]string{"arr", "hi"},
		},
		{
			"member access",
			&MemberAccess{Inner: ident("p"), Name: ident("x")},
			[]string{"p"},
		},
		{
			"circuit init with shorthand",
			&CircuitInitExpression{
				Name: ident("Point"),
				Members: []CircuitVariableInitializer{
					{Identifier: ident("x"), Expression: ident("a")},
					{Identifier: ident("y")}, // shorthand carries no expression
				},
			},
			[]string{"a"},
		},
		{
			"array inline with spread",
			&ArrayInlineExpression{Elements: []SpreadOrExpression{
				{Spread: true, Expression: ident("a")},
				{Expression: ident("b")},
			}},
			[]string{"a", "b"},
		},
		{
			"array repeat",
			&ArrayInitExpression{Element: ident("e"), Dimensions: []uint32{4}},
			[]string{"e"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newIdentCollector()
			c.VisitExpression(tt.expr, nil)
			if len(c.names) != len(tt.want) {
				t.Fatalf("visited %v, want %v", c.names, tt.want)
			}
			for i, name := range tt.want {
				if c.names[i] != name {
					t.Errorf("visited %v, want %v", c.names, tt.want)
					break
				}
			}
		})
	}
}

// binaryStopper overrides binary visiting without recursing.
type binaryStopper struct {
	ProgramDefaults
	binaries int
	idents   int
}

func (v *binaryStopper) VisitBinary(e *BinaryExpression, extra interface{}) interface{} {
	v.binaries++
	return nil
}

func (v *binaryStopper) VisitIdentifier(e *Identifier, extra interface{}) interface{} {
	v.idents++
	return nil
}

func TestOverrideReplacesDefaultRecursion(t *testing.T) {
	v := &binaryStopper{}
	v.Bind(v)

	expr := &BinaryExpression{Op: OpAdd, Left: ident("a"), Right: ident("b")}
	v.VisitExpression(expr, nil)

	if v.binaries != 1 {
		t.Errorf("binaries = %d, want 1", v.binaries)
	}
	if v.idents != 0 {
		t.Errorf("idents = %d, want 0: override must not recurse", v.idents)
	}
}

func TestDefaultRecursionDispatchesThroughSelf(t *testing.T) {
	// The override sits on the leaf; default recursion through the binary
	// node must still reach it.
	c := newIdentCollector()
	expr := &BinaryExpression{
		Op:    OpMul,
		Left:  &UnaryExpression{Op: OpNegate, Inner: ident("deep")},
		Right: implicit("2"),
	}
	c.VisitExpression(expr, nil)
	if len(c.names) != 1 || c.names[0] != "deep" {
		t.Errorf("visited %v, want [deep]", c.names)
	}
}

func TestExtraValueThreadsThroughRecursion(t *testing.T) {
	collector := &extraCollector{}
	collector.Bind(collector)
	collector.VisitExpression(&BinaryExpression{
		Op: OpAdd, Left: ident("a"), Right: ident("b"),
	}, "ctx")
	if len(collector.extras) != 2 {
		t.Fatalf("extras = %v, want 2 entries", collector.extras)
	}
	for _, e := range collector.extras {
		if e != "ctx" {
			t.Errorf("extra = %v, want ctx", e)
		}
	}
}

type extraCollector struct {
	ProgramDefaults
	extras []interface{}
}

func (c *extraCollector) VisitIdentifier(e *Identifier, extra interface{}) interface{} {
	c.extras = append(c.extras, extra)
	return nil
}

// statementCounter tallies statement kinds reached by default traversal.
type statementCounter struct {
	ProgramDefaults
	returns      int
	conditionals int
	blocks       int
	exprs        int
}

func (c *statementCounter) VisitReturn(s *ReturnStatement) {
	c.returns++
	c.StatementDefaults.VisitReturn(s)
}

func (c *statementCounter) VisitConditional(s *ConditionalStatement) {
	c.conditionals++
	c.StatementDefaults.VisitConditional(s)
}

func (c *statementCounter) VisitBlock(s *Block) {
	c.blocks++
	c.StatementDefaults.VisitBlock(s)
}

func (c *statementCounter) VisitIdentifier(e *Identifier, extra interface{}) interface{} {
	c.exprs++
	return nil
}

func TestConditionalChainTraversal(t *testing.T) {
	// if a { return x; } else if b { return y; } else { return z; }
	chain := &ConditionalStatement{
		Condition: ident("a"),
		Block:     &Block{Statements: []Statement{&ReturnStatement{Expression: ident("x")}}},
		Next: &ConditionalStatement{
			Condition: ident("b"),
			Block:     &Block{Statements: []Statement{&ReturnStatement{Expression: ident("y")}}},
			Next:      &Block{Statements: []Statement{&ReturnStatement{Expression: ident("z")}}},
		},
	}

	c := &statementCounter{}
	c.Bind(c)
	c.VisitStatement(chain)

	if c.conditionals != 2 {
		t.Errorf("conditionals = %d, want 2", c.conditionals)
	}
	if c.blocks != 3 {
		t.Errorf("blocks = %d, want 3", c.blocks)
	}
	if c.returns != 3 {
		t.Errorf("returns = %d, want 3", c.returns)
	}
	if c.exprs != 5 {
		t.Errorf("identifiers = %d, want 5", c.exprs)
	}
}

func TestProgramTraversalOrder(t *testing.T) {
	program := NewProgram()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		program.AddFunction(&Function{
			Name:  ident(name),
			Block: &Block{Statements: []Statement{&ReturnStatement{Expression: ident(name + "_v")}}},
		})
	}

	c := newIdentCollector()
	c.VisitProgram(program)

	want := []string{"zeta_v", "alpha_v", "mid_v"}
	if len(c.names) != len(want) {
		t.Fatalf("visited %v, want %v", c.names, want)
	}
	for i, name := range want {
		if c.names[i] != name {
			t.Errorf("visited %v, want declaration order %v", c.names, want)
			break
		}
	}
}

func TestAddFunctionRejectsDuplicate(t *testing.T) {
	program := NewProgram()
	first := &Function{Name: ident("f"), Block: &Block{}}
	second := &Function{Name: ident("f"), Block: &Block{}}

	if !program.AddFunction(first) {
		t.Fatal("first registration should succeed")
	}
	if program.AddFunction(second) {
		t.Fatal("duplicate registration should be rejected")
	}
	if program.Functions["f"] != first {
		t.Error("collision must keep the existing declaration")
	}
	if len(program.FunctionOrder) != 1 {
		t.Errorf("len(FunctionOrder) = %d, want 1", len(program.FunctionOrder))
	}
}

func TestVisitExpressionPanicsOnForeignNode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a node outside the closed variant set")
		}
	}()
	c := newIdentCollector()
	c.VisitExpression(foreignExpr{}, nil)
}

type foreignExpr struct{}

func (foreignExpr) GetSpan() position.Span { return position.Span{} }
func (foreignExpr) String() string         { return "foreign" }
func (foreignExpr) expressionNode()        {}
