// Package parser implements the Veridian recursive descent parser. It
// consumes the lexer's token stream and produces the immutable AST; on
// local failures it records a diagnostic, substitutes an Err placeholder
// where recovery is supported, and keeps going so one compilation attempt
// surfaces as many errors as possible.
package parser

import (
	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/lexer"
	"github.com/veridian-lang/veridian/internal/position"
)

// maxExpressionDepth bounds expression nesting so pathological inputs
// fail with a diagnostic instead of exhausting the call stack.
const maxExpressionDepth = 512

// Parser holds the cursor into the token stream and the parsing state.
type Parser struct {
	tokens   []lexer.Token
	pos      int
	filename string
	handler  *diagnostics.Handler

	// disallowCircuit suppresses `Identifier {` circuit-init parsing in
	// contexts where `{` opens a block (conditional and iteration
	// headers). ParseExpression saves, clears, and restores it so nested
	// expressions always permit circuit construction.
	disallowCircuit bool

	depth int
}

// New creates a parser over a token stream. The stream must be terminated
// by an EOF token, as produced by lexer.Tokenize.
func New(tokens []lexer.Token, filename string, handler *diagnostics.Handler) *Parser {
	if len(tokens) == 0 {
		eof := lexer.Token{Type: lexer.TokenEOF}
		tokens = []lexer.Token{eof}
	}
	return &Parser{
		tokens:   tokens,
		filename: filename,
		handler:  handler,
	}
}

// Parse parses a whole program. Errors are reported through the handler;
// the returned program contains everything that parsed successfully.
func (p *Parser) Parse() *ast.Program {
	program := ast.NewProgram()

	for p.peek().Type != lexer.TokenEOF {
		switch p.peek().Type {
		case lexer.TokenFunction:
			fn, err := p.parseFunction()
			if err != nil {
				p.emitError(err)
				p.syncDeclaration()
				continue
			}
			if !program.AddFunction(fn) {
				p.handler.EmitError(diagnostics.CategoryRedefinition, fn.Name.Span,
					"function %q is defined more than once", fn.Name.Name)
			}
		case lexer.TokenCircuit:
			circ, err := p.parseCircuit()
			if err != nil {
				p.emitError(err)
				p.syncDeclaration()
				continue
			}
			if !program.AddCircuit(circ) {
				p.handler.EmitError(diagnostics.CategoryRedefinition, circ.Name.Span,
					"circuit %q is defined more than once", circ.Name.Name)
			}
		default:
			p.emitError(errUnexpected(p.peek(), "a declaration (function or circuit)"))
			p.syncDeclaration()
		}
	}

	return program
}

// ====== Declarations ======

func (p *Parser) parseFunction() (*ast.Function, error) {
	fnTok := p.next()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	var params []*ast.Parameter
	for p.eat(lexer.TokenRParen) == nil {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.eat(lexer.TokenComma) == nil {
			if _, err := p.expect(lexer.TokenRParen); err != nil {
				return nil, err
			}
			break
		}
	}

	var returnType *ast.Type
	if p.eat(lexer.TokenArrow) != nil {
		typ, _, err := p.parseType()
		if err != nil {
			return nil, err
		}
		returnType = &typ
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Span:       fnTok.Span.Union(block.Span),
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Block:      block,
	}, nil
}

func (p *Parser) parseParameter() (*ast.Parameter, error) {
	constTok := p.eat(lexer.TokenConst)

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	typ, typSpan, err := p.parseType()
	if err != nil {
		return nil, err
	}

	span := name.Span.Union(typSpan)
	if constTok != nil {
		span = constTok.Span.Union(span)
	}
	return &ast.Parameter{
		Span:  span,
		Name:  name,
		Const: constTok != nil,
		Type:  typ,
	}, nil
}

func (p *Parser) parseCircuit() (*ast.Circuit, error) {
	circTok := p.next()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLCurly); err != nil {
		return nil, err
	}

	var members []*ast.CircuitMember
	var end *lexer.Token
	for {
		if end = p.eat(lexer.TokenRCurly); end != nil {
			break
		}
		memberName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}
		typ, typSpan, err := p.parseType()
		if err != nil {
			return nil, err
		}
		members = append(members, &ast.CircuitMember{
			Span: memberName.Span.Union(typSpan),
			Name: memberName,
			Type: typ,
		})
		if p.eat(lexer.TokenComma) == nil {
			if end, err = p.expect(lexer.TokenRCurly); err != nil {
				return nil, err
			}
			break
		}
	}

	return &ast.Circuit{
		Span:    circTok.Span.Union(end.Span),
		Name:    name,
		Members: members,
	}, nil
}

// ====== Token stream ======

// peek returns the token at the cursor without consuming it.
func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

// next consumes and returns the token at the cursor.
func (p *Parser) next() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// eat consumes the next token only if it has exactly the given type.
func (p *Parser) eat(tt lexer.TokenType) *lexer.Token {
	if p.peek().Type == tt {
		tok := p.next()
		return &tok
	}
	return nil
}

// eatAny consumes the next token if its type is any of the candidates.
func (p *Parser) eatAny(tts ...lexer.TokenType) *lexer.Token {
	for _, tt := range tts {
		if p.peek().Type == tt {
			tok := p.next()
			return &tok
		}
	}
	return nil
}

// expect consumes a token of the given type or fails with an unexpected
// token error.
func (p *Parser) expect(tt lexer.TokenType) (*lexer.Token, error) {
	if tok := p.eat(tt); tok != nil {
		return tok, nil
	}
	return nil, errUnexpected(p.peek(), tt.String())
}

// expectAny consumes any token, failing only at end of input.
func (p *Parser) expectAny() (lexer.Token, error) {
	if p.peek().Type == lexer.TokenEOF {
		return p.peek(), errUnexpected(p.peek(), "expression")
	}
	return p.next(), nil
}

// eatIdentifier consumes an identifier token if present.
func (p *Parser) eatIdentifier() *ast.Identifier {
	if tok := p.eat(lexer.TokenIdentifier); tok != nil {
		return &ast.Identifier{Span: tok.Span, Name: tok.Literal}
	}
	return nil
}

// expectIdent consumes an identifier or fails.
func (p *Parser) expectIdent() (*ast.Identifier, error) {
	if ident := p.eatIdentifier(); ident != nil {
		return ident, nil
	}
	return nil, errUnexpected(p.peek(), "identifier")
}

// eatInt consumes an integer literal token if present.
func (p *Parser) eatInt() *lexer.Token {
	return p.eat(lexer.TokenInt)
}

// eatGroupPartial recognizes the remainder of an affine group literal
// `x, y)group` after an already-consumed `(`. It backtracks completely
// when the lookahead does not match, leaving the cursor untouched, so
// ordinary tuple parsing can proceed.
func (p *Parser) eatGroupPartial(start position.Span) *ast.GroupTuple {
	mark := p.pos

	x, ok := p.eatGroupCoordinate()
	if !ok {
		p.pos = mark
		return nil
	}
	if p.eat(lexer.TokenComma) == nil {
		p.pos = mark
		return nil
	}
	y, ok := p.eatGroupCoordinate()
	if !ok {
		p.pos = mark
		return nil
	}
	rparen := p.eat(lexer.TokenRParen)
	if rparen == nil {
		p.pos = mark
		return nil
	}
	suffix := p.eat(lexer.TokenGroup)
	if suffix == nil || !rparen.Span.Adjacent(suffix.Span) {
		p.pos = mark
		return nil
	}

	return &ast.GroupTuple{
		Span: start.Union(suffix.Span),
		X:    x,
		Y:    y,
	}
}

func (p *Parser) eatGroupCoordinate() (ast.GroupCoordinate, bool) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenInt:
		p.next()
		return ast.GroupCoordinate{Kind: ast.CoordNumber, Text: tok.Literal}, true
	case lexer.TokenAdd:
		p.next()
		return ast.GroupCoordinate{Kind: ast.CoordSignHigh}, true
	case lexer.TokenMinus:
		p.next()
		if num := p.eatInt(); num != nil {
			return ast.GroupCoordinate{Kind: ast.CoordNumber, Text: "-" + num.Literal}, true
		}
		return ast.GroupCoordinate{Kind: ast.CoordSignLow}, true
	case lexer.TokenIdentifier:
		if tok.Literal == "_" {
			p.next()
			return ast.GroupCoordinate{Kind: ast.CoordInferred}, true
		}
	}
	return ast.GroupCoordinate{}, false
}

// ====== Recovery ======

func (p *Parser) emitError(err error) {
	if perr, ok := err.(*Error); ok {
		p.handler.EmitError(diagnostics.CategorySyntax, perr.Span, "%s", perr.Message)
		return
	}
	p.handler.EmitError(diagnostics.CategorySyntax, p.peek().Span, "%s", err.Error())
}

// expressionOrErr runs an expression parse and, on failure, records the
// diagnostic and substitutes an Err placeholder so statement parsing can
// continue.
func (p *Parser) expressionOrErr(parse func() (ast.Expression, error)) ast.Expression {
	expr, err := parse()
	if err != nil {
		p.emitError(err)
		span := p.peek().Span
		p.syncExpression()
		return &ast.ErrExpression{Span: span}
	}
	return expr
}

// syncExpression skips ahead to a token that can plausibly resume
// statement parsing after a failed expression.
func (p *Parser) syncExpression() {
	for {
		switch p.peek().Type {
		case lexer.TokenSemicolon, lexer.TokenLCurly, lexer.TokenRCurly, lexer.TokenEOF:
			return
		}
		p.next()
	}
}

// syncStatement skips to the end of the broken statement: past the next
// semicolon at the current nesting level, or up to the enclosing `}`.
func (p *Parser) syncStatement() {
	depth := 0
	for {
		switch p.peek().Type {
		case lexer.TokenEOF:
			return
		case lexer.TokenSemicolon:
			p.next()
			if depth == 0 {
				return
			}
		case lexer.TokenLCurly:
			depth++
			p.next()
		case lexer.TokenRCurly:
			if depth == 0 {
				return
			}
			depth--
			p.next()
		default:
			p.next()
		}
	}
}

// syncDeclaration skips to the next top-level declaration keyword.
func (p *Parser) syncDeclaration() {
	depth := 0
	for {
		switch p.peek().Type {
		case lexer.TokenEOF:
			return
		case lexer.TokenFunction, lexer.TokenCircuit:
			if depth == 0 {
				return
			}
			p.next()
		case lexer.TokenLCurly:
			depth++
			p.next()
		case lexer.TokenRCurly:
			if depth > 0 {
				depth--
			}
			p.next()
		default:
			p.next()
		}
	}
}
