package typechecker

import (
	"testing"

	"github.com/veridian-lang/veridian/internal/allocator"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/lexer"
	"github.com/veridian-lang/veridian/internal/parser"
	"github.com/veridian-lang/veridian/internal/symbols"
)

// checkSource runs the whole front end over src and returns the handler.
func checkSource(t *testing.T, src string) *diagnostics.Handler {
	t.Helper()
	handler := diagnostics.NewHandler()
	tokens := lexer.New("test.vd", src).Tokenize()
	program := parser.New(tokens, "test.vd", handler).Parse()
	if handler.HadErrors() {
		t.Fatalf("parse failed: %v", handler.LastError())
	}

	table, _ := symbols.Build(program, handler)

	arena := allocator.New(0)
	scope := arena.AcquireScope()
	defer scope.Release()
	Check(program, handler, table, scope)
	return handler
}

func assertClean(t *testing.T, src string) {
	t.Helper()
	handler := checkSource(t, src)
	if handler.HadErrors() {
		t.Fatalf("expected clean check, got: %v", handler.LastError())
	}
}

func assertErrors(t *testing.T, src string, want int) *diagnostics.Handler {
	t.Helper()
	handler := checkSource(t, src)
	if handler.ErrCount() != want {
		for _, d := range handler.Sorted() {
			t.Logf("diagnostic: %v", d)
		}
		t.Fatalf("ErrCount = %d, want %d", handler.ErrCount(), want)
	}
	return handler
}

func TestWellTypedPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"arithmetic", `
			function main(a: u32, b: u32) -> u32 {
				return a + b * 2;
			}`},
		{"annotated definition", `
			function main() -> field {
				let x: field = 5;
				return x + 1;
			}`},
		{"comparison and ternary", `
			function main(a: u32, b: u32) -> u32 {
				return a < b ? a : b;
			}`},
		{"cast", `
			function main(a: u8) -> u32 {
				return a as u32;
			}`},
		{"call", `
			function double(x: u32) -> u32 { return x * 2; }
			function main(a: u32) -> u32 { return double(a); }`},
		{"circuit init and member", `
			circuit Point { x: u32, y: u32 }
			function main() -> u32 {
				let p = Point { x: 1, y: 2 };
				return p.x + p.y;
			}`},
		{"circuit shorthand", `
			circuit Point { x: u32, y: u32 }
			function main(x: u32, y: u32) -> u32 {
				let p = Point { x, y };
				return p.x;
			}`},
		{"array indexing", `
			function main() -> u8 {
				let a: [u8; 4] = [0u8; 4];
				return a[0];
			}`},
		{"tuple destructuring", `
			function main() -> u32 {
				let (a, b): (u32, bool) = (1, true);
				return b ? a : 0;
			}`},
		{"tuple access", `
			function main(t: (u32, bool)) -> bool {
				return t.1;
			}`},
		{"iteration", `
			function main() -> u32 {
				let sum: u32 = 0;
				for i in 0..10 {
					sum += i;
				}
				return sum;
			}`},
		{"console assert", `
			function main(a: u32) {
				console.assert(a == a);
				console.log("ok {}", a);
			}`},
		{"unsigned negate avoided", `
			function main(a: i32) -> i32 {
				return -a;
			}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertClean(t, tt.src)
		})
	}
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		category diagnostics.Category
	}{
		{"undefined variable", `
			function main() -> u32 { return x; }`,
			diagnostics.CategoryUndefinedVariable},
		{"undefined function", `
			function main() -> u32 { return missing(1); }`,
			diagnostics.CategoryUndefinedFunction},
		{"undefined circuit", `
			function main() { let p = Ghost { x: 1 }; }`,
			diagnostics.CategoryUndefinedCircuit},
		{"arity mismatch", `
			function f(a: u32) -> u32 { return a; }
			function main() -> u32 { return f(1, 2); }`,
			diagnostics.CategoryArity},
		{"return type mismatch", `
			function main() -> bool { return 1u32; }`,
			diagnostics.CategoryType},
		{"operand mismatch", `
			function main(a: u32, b: bool) -> u32 { return a + b; }`,
			diagnostics.CategoryType},
		{"condition not boolean", `
			function main(a: u32) { if a { let x = 1; } }`,
			diagnostics.CategoryType},
		{"negate unsigned", `
			function main(a: u32) -> u32 { return -a; }`,
			diagnostics.CategoryType},
		{"boolean arithmetic", `
			function main(a: bool) -> bool { return a * a; }`,
			diagnostics.CategoryType},
		{"ordering on bool", `
			function main(a: bool, b: bool) -> bool { return a < b; }`,
			diagnostics.CategoryType},
		{"assign to const", `
			function main(const n: u32) { n = 1; }`,
			diagnostics.CategoryType},
		{"index non-array", `
			function main(a: u32) -> u32 { return a[0]; }`,
			diagnostics.CategoryType},
		{"unknown member", `
			circuit Point { x: u32 }
			function main(p: Point) -> u32 { return p.z; }`,
			diagnostics.CategoryType},
		{"missing member init", `
			circuit Point { x: u32, y: u32 }
			function main() { let p = Point { x: 1 }; }`,
			diagnostics.CategoryType},
		{"variable redefinition", `
			function main() { let x = 1; let x = 2; }`,
			diagnostics.CategoryRedefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := checkSource(t, tt.src)
			if !handler.HadErrors() {
				t.Fatal("expected a diagnostic")
			}
			found := false
			for _, d := range handler.Diagnostics() {
				if d.Category == tt.category {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no %v diagnostic; got %v", tt.category, handler.Sorted())
			}
		})
	}
}

func TestErrorsAreBatched(t *testing.T) {
	// Three independent problems in one function: all reported in one run.
	assertErrors(t, `
		function main(a: bool) -> u32 {
			let x = missing1;
			let y = missing2;
			return a + 1;
		}
	`, 3)
}

func TestErrorTypeDoesNotCascade(t *testing.T) {
	// The undefined variable is reported once; uses of its err-typed
	// result must not produce follow-on mismatches.
	assertErrors(t, `
		function main() -> u32 {
			let x = missing;
			let y = x + 1;
			return y;
		}
	`, 1)
}

func TestCheckReturnsLastError(t *testing.T) {
	handler := checkSource(t, `function main() -> u32 { return missing; }`)
	if handler.LastError() == nil {
		t.Fatal("LastError should report the failure")
	}

	cleanHandler := checkSource(t, `function main() -> u32 { return 1; }`)
	if cleanHandler.LastError() != nil {
		t.Fatalf("clean program should yield nil, got %v", cleanHandler.LastError())
	}
}

func TestImplicitLiteralAdoptsExpectedType(t *testing.T) {
	assertClean(t, `
		function main() -> field {
			let x: field = 3;
			let y: group = 2;
			return x;
		}
	`)
}

func TestShadowingInNestedBlocks(t *testing.T) {
	assertClean(t, `
		function main() -> u32 {
			let x: u32 = 1;
			{
				let x: bool = true;
				console.assert(x);
			}
			return x;
		}
	`)
}

func TestLoopVariableScopedToBody(t *testing.T) {
	handler := checkSource(t, `
		function main() -> u32 {
			for i in 0..3 { let t = i; }
			return i;
		}
	`)
	if !handler.HadErrors() {
		t.Fatal("loop variable must not escape the loop body")
	}
}
