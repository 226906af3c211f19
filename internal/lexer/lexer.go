// Package lexer implements the Veridian lexical analyzer. It turns source
// text into a flat token stream; tokens carry byte-accurate spans so that
// the parser can enforce adjacency rules (numeric type suffixes) without
// re-reading the source.
package lexer

import (
	"strings"

	"github.com/veridian-lang/veridian/internal/position"
)

// Lexer scans Veridian source text.
type Lexer struct {
	input    string
	filename string
	pos      int // current byte offset
	line     int // 1-based
	column   int // 1-based
}

// New creates a lexer over the given source text.
func New(filename, input string) *Lexer {
	return &Lexer{
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
	}
}

// Tokenize scans the whole input and returns the token stream, terminated
// by an EOF token. Unrecognized input produces Error tokens; the parser
// reports them as unexpected tokens.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	start := l.position()
	ch := l.peekByte()

	switch {
	case ch == 0:
		return l.emit(TokenEOF, "", start)
	case isLetter(ch):
		return l.scanIdentifier(start)
	case isDigit(ch):
		return l.scanInteger(start)
	case ch == '"':
		return l.scanString(start)
	case ch == '\'':
		return l.scanChar(start)
	}

	l.advance()
	switch ch {
	case '+':
		if l.accept('=') {
			return l.emit(TokenAddAssign, "+=", start)
		}
		return l.emit(TokenAdd, "+", start)
	case '-':
		if l.accept('>') {
			return l.emit(TokenArrow, "->", start)
		}
		if l.accept('=') {
			return l.emit(TokenMinusAssign, "-=", start)
		}
		return l.emit(TokenMinus, "-", start)
	case '*':
		if l.accept('=') {
			return l.emit(TokenMulAssign, "*=", start)
		}
		return l.emit(TokenMul, "*", start)
	case '/':
		if l.accept('=') {
			return l.emit(TokenDivAssign, "/=", start)
		}
		return l.emit(TokenDiv, "/", start)
	case '^':
		if l.accept('=') {
			return l.emit(TokenPowAssign, "^=", start)
		}
		return l.emit(TokenPow, "^", start)
	case '=':
		if l.accept('=') {
			return l.emit(TokenEq, "==", start)
		}
		return l.emit(TokenAssign, "=", start)
	case '!':
		if l.accept('=') {
			return l.emit(TokenNotEq, "!=", start)
		}
		return l.emit(TokenNot, "!", start)
	case '<':
		if l.accept('=') {
			return l.emit(TokenLtEq, "<=", start)
		}
		return l.emit(TokenLt, "<", start)
	case '>':
		if l.accept('=') {
			return l.emit(TokenGtEq, ">=", start)
		}
		return l.emit(TokenGt, ">", start)
	case '&':
		if l.accept('&') {
			return l.emit(TokenAnd, "&&", start)
		}
		return l.emit(TokenError, "&", start)
	case '|':
		if l.accept('|') {
			return l.emit(TokenOr, "||", start)
		}
		return l.emit(TokenError, "|", start)
	case '?':
		return l.emit(TokenQuestion, "?", start)
	case ':':
		if l.accept(':') {
			return l.emit(TokenDoubleColon, "::", start)
		}
		return l.emit(TokenColon, ":", start)
	case '.':
		if l.accept('.') {
			if l.accept('.') {
				return l.emit(TokenDotDotDot, "...", start)
			}
			return l.emit(TokenDotDot, "..", start)
		}
		return l.emit(TokenDot, ".", start)
	case ',':
		return l.emit(TokenComma, ",", start)
	case ';':
		return l.emit(TokenSemicolon, ";", start)
	case '(':
		return l.emit(TokenLParen, "(", start)
	case ')':
		return l.emit(TokenRParen, ")", start)
	case '[':
		return l.emit(TokenLSquare, "[", start)
	case ']':
		return l.emit(TokenRSquare, "]", start)
	case '{':
		return l.emit(TokenLCurly, "{", start)
	case '}':
		return l.emit(TokenRCurly, "}", start)
	}

	return l.emit(TokenError, string(ch), start)
}

func (l *Lexer) scanIdentifier(start position.Position) Token {
	for isLetter(l.peekByte()) || isDigit(l.peekByte()) {
		l.advance()
	}
	literal := l.input[start.Offset:l.pos]

	if tt, ok := keywords[literal]; ok {
		return l.emit(tt, literal, start)
	}
	if isAddressLiteral(literal) {
		return l.emit(TokenAddressLit, literal, start)
	}
	return l.emit(TokenIdentifier, literal, start)
}

func (l *Lexer) scanInteger(start position.Position) Token {
	for isDigit(l.peekByte()) {
		l.advance()
	}
	return l.emit(TokenInt, l.input[start.Offset:l.pos], start)
}

func (l *Lexer) scanString(start position.Position) Token {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		ch := l.peekByte()
		if ch == 0 || ch == '\n' {
			return l.emit(TokenError, "unterminated string literal", start)
		}
		l.advance()
		if ch == '"' {
			return l.emit(TokenStringLit, sb.String(), start)
		}
		if ch == '\\' {
			esc, ok := l.scanEscape()
			if !ok {
				return l.emit(TokenError, "invalid escape sequence", start)
			}
			sb.WriteByte(esc)
			continue
		}
		sb.WriteByte(ch)
	}
}

func (l *Lexer) scanChar(start position.Position) Token {
	l.advance() // opening quote
	ch := l.peekByte()
	if ch == 0 || ch == '\n' {
		return l.emit(TokenError, "unterminated character literal", start)
	}
	l.advance()

	value := string(ch)
	if ch == '\\' {
		esc, ok := l.scanEscape()
		if !ok {
			return l.emit(TokenError, "invalid escape sequence", start)
		}
		value = string(esc)
	}
	if !l.accept('\'') {
		return l.emit(TokenError, "unterminated character literal", start)
	}
	return l.emit(TokenCharLit, value, start)
}

func (l *Lexer) scanEscape() (byte, bool) {
	ch := l.peekByte()
	l.advance()
	switch ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\', '\'', '"':
		return ch, true
	}
	return 0, false
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		ch := l.peekByte()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekByteAt(1) == '/':
			for l.peekByte() != '\n' && l.peekByte() != 0 {
				l.advance()
			}
		case ch == '/' && l.peekByteAt(1) == '*':
			l.advance()
			l.advance()
			for {
				if l.peekByte() == 0 {
					return
				}
				if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) emit(tt TokenType, literal string, start position.Position) Token {
	return Token{
		Type:    tt,
		Literal: literal,
		Span:    position.Span{Start: start, End: l.position()},
	}
}

func (l *Lexer) position() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.pos,
	}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekByteAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) accept(ch byte) bool {
	if l.peekByte() == ch {
		l.advance()
		return true
	}
	return false
}

func isLetter(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isAddressLiteral reports whether an identifier-shaped literal is a
// Veridian account address: the "addr1" prefix followed by at least ten
// lowercase base32-style characters.
func isAddressLiteral(s string) bool {
	if !strings.HasPrefix(s, "addr1") || len(s) < len("addr1")+10 {
		return false
	}
	for i := len("addr1"); i < len(s); i++ {
		ch := s[i]
		if !('a' <= ch && ch <= 'z' || '0' <= ch && ch <= '9') {
			return false
		}
	}
	return true
}
