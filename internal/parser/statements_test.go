package parser

import (
	"testing"

	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/lexer"
)

func parseProgram(t *testing.T, src string) (*ast.Program, *diagnostics.Handler) {
	t.Helper()
	handler := diagnostics.NewHandler()
	tokens := lexer.New("test.vd", src).Tokenize()
	program := New(tokens, "test.vd", handler).Parse()
	return program, handler
}

func mustParseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, handler := parseProgram(t, src)
	if handler.HadErrors() {
		t.Fatalf("parse failed: %v", handler.LastError())
	}
	return program
}

func mainStatements(t *testing.T, program *ast.Program) []ast.Statement {
	t.Helper()
	fn := program.Functions["main"]
	if fn == nil {
		t.Fatal("program has no function main")
	}
	return fn.Block.Statements
}

func TestParseFunctionDeclaration(t *testing.T) {
	program := mustParseProgram(t, `
		function add(a: u32, b: u32) -> u32 {
			return a + b;
		}
	`)
	fn := program.Functions["add"]
	if fn == nil {
		t.Fatal("function add not registered")
	}
	if len(fn.Parameters) != 2 {
		t.Errorf("len(Parameters) = %d, want 2", len(fn.Parameters))
	}
	if fn.ReturnType == nil || fn.ReturnType.Kind != ast.TypeInteger {
		t.Errorf("return type = %v, want u32", fn.ReturnType)
	}
	if len(fn.Block.Statements) != 1 {
		t.Errorf("len(Statements) = %d, want 1", len(fn.Block.Statements))
	}
}

func TestParseConstParameter(t *testing.T) {
	program := mustParseProgram(t, `function f(const n: u32) { return n; }`)
	fn := program.Functions["f"]
	if !fn.Parameters[0].Const {
		t.Error("parameter n should be const")
	}
}

func TestParseCircuitDeclaration(t *testing.T) {
	program := mustParseProgram(t, `
		circuit Point {
			x: u32,
			y: u32,
		}
	`)
	circ := program.Circuits["Point"]
	if circ == nil {
		t.Fatal("circuit Point not registered")
	}
	if len(circ.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(circ.Members))
	}
	if circ.Member("y") == nil {
		t.Error("member y not found")
	}
}

func TestDuplicateDeclarationsReported(t *testing.T) {
	_, handler := parseProgram(t, `
		function f() { return 0; }
		function f() { return 1; }
		circuit C { x: u32 }
		circuit C { y: u32 }
	`)
	if handler.ErrCount() != 2 {
		t.Errorf("ErrCount = %d, want 2", handler.ErrCount())
	}
}

func TestParseDefinitionStatements(t *testing.T) {
	tests := []struct {
		input   string
		declare ast.DeclareKind
		names   int
		typed   bool
	}{
		{"let x = 1;", ast.DeclareLet, 1, false},
		{"const x = 1;", ast.DeclareConst, 1, false},
		{"let x: u32 = 1;", ast.DeclareLet, 1, true},
		{"let (a, b) = (1, 2);", ast.DeclareLet, 2, false},
		{"let (a, b): (u32, bool) = (1, true);", ast.DeclareLet, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := mustParseProgram(t, "function main() { "+tt.input+" }")
			stmts := mainStatements(t, program)
			def, ok := stmts[0].(*ast.DefinitionStatement)
			if !ok {
				t.Fatalf("parsed %T, want *ast.DefinitionStatement", stmts[0])
			}
			if def.Declare != tt.declare {
				t.Errorf("Declare = %v, want %v", def.Declare, tt.declare)
			}
			if len(def.Names) != tt.names {
				t.Errorf("len(Names) = %d, want %d", len(def.Names), tt.names)
			}
			if (def.Type != nil) != tt.typed {
				t.Errorf("Type present = %v, want %v", def.Type != nil, tt.typed)
			}
		})
	}
}

func TestParseAssignStatements(t *testing.T) {
	tests := []struct {
		input string
		op    ast.AssignOperation
	}{
		{"x = 1;", ast.AssignSimple},
		{"x += 1;", ast.AssignAdd},
		{"x -= 1;", ast.AssignSub},
		{"x *= 2;", ast.AssignMul},
		{"x /= 2;", ast.AssignDiv},
		{"x ^= 2;", ast.AssignPow},
		{"a[0] = 1;", ast.AssignSimple},
		{"p.x = 1;", ast.AssignSimple},
		{"t.0 = 1;", ast.AssignSimple},
		{"a[0].x = 1;", ast.AssignSimple},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := mustParseProgram(t, "function main() { "+tt.input+" }")
			stmts := mainStatements(t, program)
			assign, ok := stmts[0].(*ast.AssignStatement)
			if !ok {
				t.Fatalf("parsed %T, want *ast.AssignStatement", stmts[0])
			}
			if assign.Op != tt.op {
				t.Errorf("Op = %v, want %v", assign.Op, tt.op)
			}
		})
	}
}

func TestInvalidAssigneeReported(t *testing.T) {
	_, handler := parseProgram(t, "function main() { a + b = 1; }")
	if !handler.HadErrors() {
		t.Fatal("expected a diagnostic for non-place assignee")
	}
}

func TestParseConditionalChain(t *testing.T) {
	program := mustParseProgram(t, `
		function main() {
			if a {
				return 1;
			} else if b {
				return 2;
			} else {
				return 3;
			}
		}
	`)
	stmts := mainStatements(t, program)
	cond, ok := stmts[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("parsed %T, want *ast.ConditionalStatement", stmts[0])
	}
	second, ok := cond.Next.(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("Next is %T, want *ast.ConditionalStatement", cond.Next)
	}
	if _, ok := second.Next.(*ast.Block); !ok {
		t.Fatalf("final Next is %T, want *ast.Block", second.Next)
	}
}

func TestConditionalHeaderDisambiguation(t *testing.T) {
	// `x {` in an if header opens the block; it is not a circuit init.
	program := mustParseProgram(t, "function main() { if x { return 1; } }")
	stmts := mainStatements(t, program)
	cond := stmts[0].(*ast.ConditionalStatement)
	if _, ok := cond.Condition.(*ast.Identifier); !ok {
		t.Errorf("condition is %T, want *ast.Identifier", cond.Condition)
	}

	// Parenthesizing restores circuit construction inside the header.
	program = mustParseProgram(t, "function main() { if (Point { x: 1 }).x { return 1; } }")
	stmts = mainStatements(t, program)
	cond = stmts[0].(*ast.ConditionalStatement)
	if _, ok := cond.Condition.(*ast.MemberAccess); !ok {
		t.Errorf("condition is %T, want *ast.MemberAccess", cond.Condition)
	}
}

func TestCircuitInitAllowedOutsideHeaders(t *testing.T) {
	program := mustParseProgram(t, "function main() { let p = Point { x: 1, y: 2 }; }")
	stmts := mainStatements(t, program)
	def := stmts[0].(*ast.DefinitionStatement)
	if _, ok := def.Value.(*ast.CircuitInitExpression); !ok {
		t.Errorf("value is %T, want *ast.CircuitInitExpression", def.Value)
	}
}

func TestParseIterationStatement(t *testing.T) {
	tests := []struct {
		input     string
		inclusive bool
	}{
		{"for i in 0..10 { x += i; }", false},
		{"for i in 0..=10 { x += i; }", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := mustParseProgram(t, "function main() { "+tt.input+" }")
			stmts := mainStatements(t, program)
			iter, ok := stmts[0].(*ast.IterationStatement)
			if !ok {
				t.Fatalf("parsed %T, want *ast.IterationStatement", stmts[0])
			}
			if iter.Inclusive != tt.inclusive {
				t.Errorf("Inclusive = %v, want %v", iter.Inclusive, tt.inclusive)
			}
			if iter.Variable.Name != "i" {
				t.Errorf("Variable = %q, want %q", iter.Variable.Name, "i")
			}
		})
	}
}

func TestParseConsoleStatements(t *testing.T) {
	tests := []struct {
		input  string
		kind   ast.ConsoleKind
		params int
	}{
		{`console.assert(a == b);`, ast.ConsoleAssert, 0},
		{`console.log("done");`, ast.ConsoleLog, 0},
		{`console.log("x = {}", x);`, ast.ConsoleLog, 1},
		{`console.error("bad {} {}", a, b);`, ast.ConsoleError, 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := mustParseProgram(t, "function main() { "+tt.input+" }")
			stmts := mainStatements(t, program)
			console, ok := stmts[0].(*ast.ConsoleStatement)
			if !ok {
				t.Fatalf("parsed %T, want *ast.ConsoleStatement", stmts[0])
			}
			if console.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", console.Kind, tt.kind)
			}
			if len(console.Parameters) != tt.params {
				t.Errorf("len(Parameters) = %d, want %d", len(console.Parameters), tt.params)
			}
		})
	}
}

func TestConsoleRejectsUnknownFunction(t *testing.T) {
	_, handler := parseProgram(t, "function main() { console.print(1); }")
	if !handler.HadErrors() {
		t.Fatal("expected a diagnostic for unknown console function")
	}
}

func TestNestedBlockStatement(t *testing.T) {
	program := mustParseProgram(t, "function main() { { let x = 1; } }")
	stmts := mainStatements(t, program)
	if _, ok := stmts[0].(*ast.Block); !ok {
		t.Errorf("parsed %T, want *ast.Block", stmts[0])
	}
}

func TestStatementRecoveryBatchesErrors(t *testing.T) {
	// Two broken statements and one good one: both errors reported, the
	// good statement kept.
	program, handler := parseProgram(t, `
		function main() {
			let = 1;
			let x = 2;
			return +;
		}
	`)
	if handler.ErrCount() < 2 {
		t.Fatalf("ErrCount = %d, want at least 2", handler.ErrCount())
	}
	stmts := mainStatements(t, program)
	found := false
	for _, s := range stmts {
		if def, ok := s.(*ast.DefinitionStatement); ok && def.Names[0].Name == "x" {
			found = true
		}
	}
	if !found {
		t.Error("statement after the first error was not recovered")
	}
}

func TestExpressionErrorProducesPlaceholder(t *testing.T) {
	program, handler := parseProgram(t, "function main() { return +; }")
	if !handler.HadErrors() {
		t.Fatal("expected a diagnostic")
	}
	stmts := mainStatements(t, program)
	ret, ok := stmts[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("parsed %T, want *ast.ReturnStatement", stmts[0])
	}
	if _, ok := ret.Expression.(*ast.ErrExpression); !ok {
		t.Errorf("expression is %T, want *ast.ErrExpression", ret.Expression)
	}
}

func TestDeclarationRecovery(t *testing.T) {
	// A broken declaration must not swallow the next one.
	program, handler := parseProgram(t, `
		function () { return 1; }
		function good() { return 2; }
	`)
	if !handler.HadErrors() {
		t.Fatal("expected a diagnostic for the nameless function")
	}
	if program.Functions["good"] == nil {
		t.Error("declaration after the error was not recovered")
	}
}
