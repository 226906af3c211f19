package lexer

import "testing"

func tokenize(src string) []Token {
	return New("test.vd", src).Tokenize()
}

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func assertTypes(t *testing.T, src string, want []TokenType) {
	t.Helper()
	got := types(tokenize(src))
	want = append(want, TokenEOF)
	if len(got) != len(want) {
		t.Fatalf("tokenized %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full stream %v)", i, got[i], want[i], got)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	assertTypes(t, "function main circuit Point let const",
		[]TokenType{TokenFunction, TokenIdentifier, TokenCircuit, TokenIdentifier, TokenLet, TokenConst})
	assertTypes(t, "self Self input",
		[]TokenType{TokenLittleSelf, TokenBigSelf, TokenInput})
	assertTypes(t, "u8 i128 field group bool address char",
		[]TokenType{TokenU8, TokenI128, TokenField, TokenGroup, TokenBool, TokenAddress, TokenChar})
	assertTypes(t, "functions _tmp",
		[]TokenType{TokenIdentifier, TokenIdentifier})
}

func TestOperators(t *testing.T) {
	assertTypes(t, "+ - * / ^ = += -= *= /= ^=",
		[]TokenType{TokenAdd, TokenMinus, TokenMul, TokenDiv, TokenPow, TokenAssign,
			TokenAddAssign, TokenMinusAssign, TokenMulAssign, TokenDivAssign, TokenPowAssign})
	assertTypes(t, "== != < <= > >= && || ! ?",
		[]TokenType{TokenEq, TokenNotEq, TokenLt, TokenLtEq, TokenGt, TokenGtEq,
			TokenAnd, TokenOr, TokenNot, TokenQuestion})
	assertTypes(t, ". .. ... :: : -> ;",
		[]TokenType{TokenDot, TokenDotDot, TokenDotDotDot, TokenDoubleColon,
			TokenColon, TokenArrow, TokenSemicolon})
}

func TestDotSequencesSplit(t *testing.T) {
	// `..=` is two tokens; the parser reassembles the inclusive range.
	assertTypes(t, "0..=10",
		[]TokenType{TokenInt, TokenDotDot, TokenAssign, TokenInt})
	assertTypes(t, "a.0", []TokenType{TokenIdentifier, TokenDot, TokenInt})
}

func TestNumericSuffixNotMerged(t *testing.T) {
	tokens := tokenize("42u8")
	if tokens[0].Type != TokenInt || tokens[0].Literal != "42" {
		t.Fatalf("token 0 = %v, want integer 42", tokens[0])
	}
	if tokens[1].Type != TokenU8 {
		t.Fatalf("token 1 = %v, want u8", tokens[1])
	}
	if !tokens[0].Span.Adjacent(tokens[1].Span) {
		t.Error("literal and suffix spans must be adjacent")
	}

	spaced := tokenize("42 u8")
	if spaced[0].Span.Adjacent(spaced[1].Span) {
		t.Error("whitespace-separated spans must not be adjacent")
	}
}

func TestSpans(t *testing.T) {
	tokens := tokenize("let x")
	if tokens[0].Span.Start.Offset != 0 || tokens[0].Span.End.Offset != 3 {
		t.Errorf("let span = [%d, %d), want [0, 3)",
			tokens[0].Span.Start.Offset, tokens[0].Span.End.Offset)
	}
	if tokens[1].Span.Start.Offset != 4 || tokens[1].Span.End.Offset != 5 {
		t.Errorf("x span = [%d, %d), want [4, 5)",
			tokens[1].Span.Start.Offset, tokens[1].Span.End.Offset)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens := tokenize("a\n  b")
	if tokens[1].Span.Start.Line != 2 || tokens[1].Span.Start.Column != 3 {
		t.Errorf("b starts at %d:%d, want 2:3",
			tokens[1].Span.Start.Line, tokens[1].Span.Start.Column)
	}
}

func TestComments(t *testing.T) {
	assertTypes(t, "a // trailing comment\nb",
		[]TokenType{TokenIdentifier, TokenIdentifier})
	assertTypes(t, "a /* block\ncomment */ b",
		[]TokenType{TokenIdentifier, TokenIdentifier})
}

func TestStringAndCharLiterals(t *testing.T) {
	tokens := tokenize(`"hello\n" 'x' '\t'`)
	if tokens[0].Type != TokenStringLit || tokens[0].Literal != "hello\n" {
		t.Errorf("token 0 = %v, want string hello\\n", tokens[0])
	}
	if tokens[1].Type != TokenCharLit || tokens[1].Literal != "x" {
		t.Errorf("token 1 = %v, want char x", tokens[1])
	}
	if tokens[2].Type != TokenCharLit || tokens[2].Literal != "\t" {
		t.Errorf("token 2 = %v, want char tab", tokens[2])
	}
}

func TestUnterminatedLiteralsError(t *testing.T) {
	for _, src := range []string{`"open`, "'a", "'"} {
		tokens := tokenize(src)
		if tokens[0].Type != TokenError {
			t.Errorf("tokenize(%q)[0] = %v, want error token", src, tokens[0])
		}
	}
}

func TestAddressLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"addr1qyqsqqqqqqqqqq", TokenAddressLit},
		{"addr1short", TokenIdentifier},        // too few trailing characters
		{"addr1QYQSQQQQQQQQQQ", TokenIdentifier}, // uppercase not allowed
		{"address1qyqsqqqqqqqqqq", TokenIdentifier},
	}
	for _, tt := range tests {
		tokens := tokenize(tt.input)
		if tokens[0].Type != tt.want {
			t.Errorf("tokenize(%q)[0] = %v, want %v", tt.input, tokens[0].Type, tt.want)
		}
	}
}

func TestUnknownCharacterProducesError(t *testing.T) {
	tokens := tokenize("a @ b")
	if tokens[1].Type != TokenError {
		t.Errorf("token 1 = %v, want error token", tokens[1])
	}
	// Lexing continues past the error.
	if tokens[2].Type != TokenIdentifier {
		t.Errorf("token 2 = %v, want identifier", tokens[2])
	}
}

func TestSingleAmpersandAndPipeError(t *testing.T) {
	assertTypes(t, "a & b", []TokenType{TokenIdentifier, TokenError, TokenIdentifier})
	assertTypes(t, "a | b", []TokenType{TokenIdentifier, TokenError, TokenIdentifier})
}
