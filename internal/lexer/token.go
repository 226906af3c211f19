package lexer

import (
	"fmt"

	"github.com/veridian-lang/veridian/internal/position"
)

// TokenType represents the type of a token.
type TokenType int

// Token types for the Veridian language.
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenInt
	TokenAddressLit
	TokenCharLit
	TokenStringLit

	// Keywords
	TokenFunction
	TokenCircuit
	TokenImport
	TokenLet
	TokenConst
	TokenReturn
	TokenIf
	TokenElse
	TokenFor
	TokenIn
	TokenConsole
	TokenAs
	TokenTrue
	TokenFalse
	TokenInput
	TokenLittleSelf
	TokenBigSelf

	// Type keywords
	TokenU8
	TokenU16
	TokenU32
	TokenU64
	TokenU128
	TokenI8
	TokenI16
	TokenI32
	TokenI64
	TokenI128
	TokenField
	TokenGroup
	TokenBool
	TokenAddress
	TokenChar

	// Operators
	TokenAdd
	TokenMinus
	TokenMul
	TokenDiv
	TokenPow
	TokenAssign
	TokenAddAssign
	TokenMinusAssign
	TokenMulAssign
	TokenDivAssign
	TokenPowAssign
	TokenEq
	TokenNotEq
	TokenLt
	TokenLtEq
	TokenGt
	TokenGtEq
	TokenAnd
	TokenOr
	TokenNot
	TokenQuestion

	// Delimiters and punctuation
	TokenLParen
	TokenRParen
	TokenLSquare
	TokenRSquare
	TokenLCurly
	TokenRCurly
	TokenComma
	TokenSemicolon
	TokenColon
	TokenDoubleColon
	TokenDot
	TokenDotDot
	TokenDotDotDot
	TokenArrow
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenError:       "ERROR",
	TokenIdentifier:  "identifier",
	TokenInt:         "integer literal",
	TokenAddressLit:  "address literal",
	TokenCharLit:     "character literal",
	TokenStringLit:   "string literal",
	TokenFunction:    "function",
	TokenCircuit:     "circuit",
	TokenImport:      "import",
	TokenLet:         "let",
	TokenConst:       "const",
	TokenReturn:      "return",
	TokenIf:          "if",
	TokenElse:        "else",
	TokenFor:         "for",
	TokenIn:          "in",
	TokenConsole:     "console",
	TokenAs:          "as",
	TokenTrue:        "true",
	TokenFalse:       "false",
	TokenInput:       "input",
	TokenLittleSelf:  "self",
	TokenBigSelf:     "Self",
	TokenU8:          "u8",
	TokenU16:         "u16",
	TokenU32:         "u32",
	TokenU64:         "u64",
	TokenU128:        "u128",
	TokenI8:          "i8",
	TokenI16:         "i16",
	TokenI32:         "i32",
	TokenI64:         "i64",
	TokenI128:        "i128",
	TokenField:       "field",
	TokenGroup:       "group",
	TokenBool:        "bool",
	TokenAddress:     "address",
	TokenChar:        "char",
	TokenAdd:         "+",
	TokenMinus:       "-",
	TokenMul:         "*",
	TokenDiv:         "/",
	TokenPow:         "^",
	TokenAssign:      "=",
	TokenAddAssign:   "+=",
	TokenMinusAssign: "-=",
	TokenMulAssign:   "*=",
	TokenDivAssign:   "/=",
	TokenPowAssign:   "^=",
	TokenEq:          "==",
	TokenNotEq:       "!=",
	TokenLt:          "<",
	TokenLtEq:        "<=",
	TokenGt:          ">",
	TokenGtEq:        ">=",
	TokenAnd:         "&&",
	TokenOr:          "||",
	TokenNot:         "!",
	TokenQuestion:    "?",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLSquare:     "[",
	TokenRSquare:     "]",
	TokenLCurly:      "{",
	TokenRCurly:      "}",
	TokenComma:       ",",
	TokenSemicolon:   ";",
	TokenColon:       ":",
	TokenDoubleColon: "::",
	TokenDot:         ".",
	TokenDotDot:      "..",
	TokenDotDotDot:   "...",
	TokenArrow:       "->",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

var keywords = map[string]TokenType{
	"function": TokenFunction,
	"circuit":  TokenCircuit,
	"import":   TokenImport,
	"let":      TokenLet,
	"const":    TokenConst,
	"return":   TokenReturn,
	"if":       TokenIf,
	"else":     TokenElse,
	"for":      TokenFor,
	"in":       TokenIn,
	"console":  TokenConsole,
	"as":       TokenAs,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"input":    TokenInput,
	"self":     TokenLittleSelf,
	"Self":     TokenBigSelf,
	"u8":       TokenU8,
	"u16":      TokenU16,
	"u32":      TokenU32,
	"u64":      TokenU64,
	"u128":     TokenU128,
	"i8":       TokenI8,
	"i16":      TokenI16,
	"i32":      TokenI32,
	"i64":      TokenI64,
	"i128":     TokenI128,
	"field":    TokenField,
	"group":    TokenGroup,
	"bool":     TokenBool,
	"address":  TokenAddress,
	"char":     TokenChar,
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span
}

// String returns a readable representation of the token.
func (t Token) String() string {
	switch t.Type {
	case TokenIdentifier, TokenInt, TokenAddressLit, TokenCharLit, TokenStringLit, TokenError:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	default:
		return t.Type.String()
	}
}
