package ast

import (
	"fmt"
	"strings"

	"github.com/veridian-lang/veridian/internal/position"
)

// ====== Operators ======

// BinaryOperation enumerates binary operators.
type BinaryOperation int

const (
	OpOr BinaryOperation = iota
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
)

var binaryOpNames = map[BinaryOperation]string{
	OpOr:  "||",
	OpAnd: "&&",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

// String returns the operator's source spelling.
func (op BinaryOperation) String() string { return binaryOpNames[op] }

// UnaryOperation enumerates prefix operators.
type UnaryOperation int

const (
	OpNot UnaryOperation = iota
	OpNegate
)

// String returns the operator's source spelling.
func (op UnaryOperation) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// ====== Identifiers and values ======

// Identifier represents a name reference.
type Identifier struct {
	Span position.Span
	Name string
}

func (i *Identifier) GetSpan() position.Span { return i.Span }
func (i *Identifier) String() string         { return i.Name }
func (i *Identifier) expressionNode()        {}

// IntType enumerates the sized integer kinds usable as literal suffixes
// and cast targets.
type IntType int

const (
	IntU8 IntType = iota
	IntU16
	IntU32
	IntU64
	IntU128
	IntI8
	IntI16
	IntI32
	IntI64
	IntI128
)

var intTypeNames = map[IntType]string{
	IntU8:   "u8",
	IntU16:  "u16",
	IntU32:  "u32",
	IntU64:  "u64",
	IntU128: "u128",
	IntI8:   "i8",
	IntI16:  "i16",
	IntI32:  "i32",
	IntI64:  "i64",
	IntI128: "i128",
}

// String returns the type keyword for the integer kind.
func (it IntType) String() string { return intTypeNames[it] }

// Signed reports whether the integer kind is signed.
func (it IntType) Signed() bool { return it >= IntI8 }

// ValueKind enumerates literal value forms.
type ValueKind int

const (
	// ValueImplicit is a numeric literal with no type suffix; its concrete
	// type is resolved during type checking.
	ValueImplicit ValueKind = iota
	ValueInteger
	ValueField
	ValueGroup
	ValueBoolean
	ValueAddress
	ValueChar
	ValueString
)

// GroupCoordinateKind enumerates the forms an affine group literal
// coordinate may take.
type GroupCoordinateKind int

const (
	CoordNumber GroupCoordinateKind = iota
	CoordSignHigh
	CoordSignLow
	CoordInferred
)

// GroupCoordinate is one coordinate of an affine group literal.
type GroupCoordinate struct {
	Kind GroupCoordinateKind
	Text string // digits, possibly negative; valid for CoordNumber
}

// String returns the coordinate's source spelling.
func (c GroupCoordinate) String() string {
	switch c.Kind {
	case CoordNumber:
		return c.Text
	case CoordSignHigh:
		return "+"
	case CoordSignLow:
		return "-"
	default:
		return "_"
	}
}

// GroupTuple is the coordinate pair of an affine group literal `(x, y)group`.
type GroupTuple struct {
	Span position.Span
	X    GroupCoordinate
	Y    GroupCoordinate
}

// ValueExpression represents a literal value.
type ValueExpression struct {
	Span  position.Span
	Kind  ValueKind
	Text  string      // raw literal text (digits, characters, boolean spelling)
	Int   IntType     // valid when Kind == ValueInteger
	Group *GroupTuple // non-nil when the group literal uses coordinate form
}

func (v *ValueExpression) GetSpan() position.Span { return v.Span }
func (v *ValueExpression) expressionNode()        {}

func (v *ValueExpression) String() string {
	switch v.Kind {
	case ValueInteger:
		return v.Text + v.Int.String()
	case ValueField:
		return v.Text + "field"
	case ValueGroup:
		if v.Group != nil {
			return fmt.Sprintf("(%s, %s)group", v.Group.X, v.Group.Y)
		}
		return v.Text + "group"
	case ValueChar:
		return "'" + v.Text + "'"
	case ValueString:
		return "\"" + v.Text + "\""
	default:
		return v.Text
	}
}

// ====== Operator expressions ======

// BinaryExpression represents `left op right`.
type BinaryExpression struct {
	Span  position.Span
	Op    BinaryOperation
	Left  Expression
	Right Expression
}

func (b *BinaryExpression) GetSpan() position.Span { return b.Span }
func (b *BinaryExpression) expressionNode()        {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// UnaryExpression represents a prefix operation.
type UnaryExpression struct {
	Span  position.Span
	Op    UnaryOperation
	Inner Expression
}

func (u *UnaryExpression) GetSpan() position.Span { return u.Span }
func (u *UnaryExpression) expressionNode()        {}
func (u *UnaryExpression) String() string         { return fmt.Sprintf("(%s%s)", u.Op, u.Inner) }

// TernaryExpression represents `condition ? if_true : if_false`.
type TernaryExpression struct {
	Span      position.Span
	Condition Expression
	IfTrue    Expression
	IfFalse   Expression
}

func (t *TernaryExpression) GetSpan() position.Span { return t.Span }
func (t *TernaryExpression) expressionNode()        {}
func (t *TernaryExpression) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", t.Condition, t.IfTrue, t.IfFalse)
}

// CastExpression represents `inner as type`.
type CastExpression struct {
	Span       position.Span
	Inner      Expression
	TargetType Type
}

func (c *CastExpression) GetSpan() position.Span { return c.Span }
func (c *CastExpression) expressionNode()        {}
func (c *CastExpression) String() string {
	return fmt.Sprintf("(%s as %s)", c.Inner, c.TargetType.String())
}

// CallExpression represents a function call.
type CallExpression struct {
	Span      position.Span
	Function  Expression
	Arguments []Expression
}

func (c *CallExpression) GetSpan() position.Span { return c.Span }
func (c *CallExpression) expressionNode()        {}
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Function, strings.Join(args, ", "))
}

// ====== Access expressions ======

// ArrayAccess represents `array[index]`.
type ArrayAccess struct {
	Span  position.Span
	Array Expression
	Index Expression
}

func (a *ArrayAccess) GetSpan() position.Span { return a.Span }
func (a *ArrayAccess) expressionNode()        {}
func (a *ArrayAccess) String() string         { return fmt.Sprintf("%s[%s]", a.Array, a.Index) }

// ArrayRangeAccess represents `array[left..right]` where either bound may
// be absent.
type ArrayRangeAccess struct {
	Span  position.Span
	Array Expression
	Left  Expression // nil when no left bound was written
	Right Expression // nil when no right bound was written
}

func (a *ArrayRangeAccess) GetSpan() position.Span { return a.Span }
func (a *ArrayRangeAccess) expressionNode()        {}
func (a *ArrayRangeAccess) String() string {
	left, right := "", ""
	if a.Left != nil {
		left = a.Left.String()
	}
	if a.Right != nil {
		right = a.Right.String()
	}
	return fmt.Sprintf("%s[%s..%s]", a.Array, left, right)
}

// MemberAccess represents `inner.name`.
type MemberAccess struct {
	Span  position.Span
	Inner Expression
	Name  *Identifier
}

func (m *MemberAccess) GetSpan() position.Span { return m.Span }
func (m *MemberAccess) expressionNode()        {}
func (m *MemberAccess) String() string         { return fmt.Sprintf("%s.%s", m.Inner, m.Name) }

// TupleAccess represents `tuple.N` with a numeric index.
type TupleAccess struct {
	Span  position.Span
	Tuple Expression
	Index string // decimal digits as written
}

func (t *TupleAccess) GetSpan() position.Span { return t.Span }
func (t *TupleAccess) expressionNode()        {}
func (t *TupleAccess) String() string         { return fmt.Sprintf("%s.%s", t.Tuple, t.Index) }

// StaticAccess represents namespaced access `inner::name`.
type StaticAccess struct {
	Span  position.Span
	Inner Expression
	Name  *Identifier
}

func (s *StaticAccess) GetSpan() position.Span { return s.Span }
func (s *StaticAccess) expressionNode()        {}
func (s *StaticAccess) String() string         { return fmt.Sprintf("%s::%s", s.Inner, s.Name) }

// ====== Aggregate construction ======

// CircuitVariableInitializer is one `name: value` member of a circuit
// initialization. A nil Expression is the shorthand form: the member takes
// the value of a variable with the same name.
type CircuitVariableInitializer struct {
	Identifier *Identifier
	Expression Expression
}

// CircuitInitExpression represents `Name { a: x, b }`.
type CircuitInitExpression struct {
	Span    position.Span
	Name    *Identifier
	Members []CircuitVariableInitializer
}

func (c *CircuitInitExpression) GetSpan() position.Span { return c.Span }
func (c *CircuitInitExpression) expressionNode()        {}
func (c *CircuitInitExpression) String() string {
	members := make([]string, len(c.Members))
	for i, m := range c.Members {
		if m.Expression != nil {
			members[i] = fmt.Sprintf("%s: %s", m.Identifier, m.Expression)
		} else {
			members[i] = m.Identifier.String()
		}
	}
	return fmt.Sprintf("%s {%s}", c.Name, strings.Join(members, ", "))
}

// TupleInitExpression represents `(a, b, ...)` with two or more elements.
type TupleInitExpression struct {
	Span     position.Span
	Elements []Expression
}

func (t *TupleInitExpression) GetSpan() position.Span { return t.Span }
func (t *TupleInitExpression) expressionNode()        {}
func (t *TupleInitExpression) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

// SpreadOrExpression is one element of an inline array, either a plain
// expression or a `...expr` spread.
type SpreadOrExpression struct {
	Spread     bool
	Expression Expression
}

// String returns the element's source spelling.
func (s SpreadOrExpression) String() string {
	if s.Spread {
		return "..." + s.Expression.String()
	}
	return s.Expression.String()
}

// ArrayInlineExpression represents `[a, b, ...c]`.
type ArrayInlineExpression struct {
	Span     position.Span
	Elements []SpreadOrExpression
}

func (a *ArrayInlineExpression) GetSpan() position.Span { return a.Span }
func (a *ArrayInlineExpression) expressionNode()        {}
func (a *ArrayInlineExpression) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// ArrayInitExpression represents the fixed-size repeat form `[element; dims]`.
type ArrayInitExpression struct {
	Span       position.Span
	Element    Expression
	Dimensions []uint32
}

func (a *ArrayInitExpression) GetSpan() position.Span { return a.Span }
func (a *ArrayInitExpression) expressionNode()        {}
func (a *ArrayInitExpression) String() string {
	if len(a.Dimensions) == 1 {
		return fmt.Sprintf("[%s; %d]", a.Element, a.Dimensions[0])
	}
	dims := make([]string, len(a.Dimensions))
	for i, d := range a.Dimensions {
		dims[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("[%s; (%s)]", a.Element, strings.Join(dims, ", "))
}

// ErrExpression is the placeholder recorded where expression parsing failed
// but recovery continued. Later passes treat it as "already reported".
type ErrExpression struct {
	Span position.Span
}

func (e *ErrExpression) GetSpan() position.Span { return e.Span }
func (e *ErrExpression) expressionNode()        {}
func (e *ErrExpression) String() string         { return "<err>" }
