package parser

import (
	"fmt"
	"strconv"

	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/lexer"
	"github.com/veridian-lang/veridian/internal/position"
)

// intSuffixTokens are the type keywords that may immediately follow a
// numeric literal with no intervening whitespace.
var intSuffixTokens = []lexer.TokenType{
	lexer.TokenI8,
	lexer.TokenI16,
	lexer.TokenI32,
	lexer.TokenI64,
	lexer.TokenI128,
	lexer.TokenU8,
	lexer.TokenU16,
	lexer.TokenU32,
	lexer.TokenU64,
	lexer.TokenU128,
	lexer.TokenField,
	lexer.TokenGroup,
}

var intTypeForToken = map[lexer.TokenType]ast.IntType{
	lexer.TokenU8:   ast.IntU8,
	lexer.TokenU16:  ast.IntU16,
	lexer.TokenU32:  ast.IntU32,
	lexer.TokenU64:  ast.IntU64,
	lexer.TokenU128: ast.IntU128,
	lexer.TokenI8:   ast.IntI8,
	lexer.TokenI16:  ast.IntI16,
	lexer.TokenI32:  ast.IntI32,
	lexer.TokenI64:  ast.IntI64,
	lexer.TokenI128: ast.IntI128,
}

// typeKeywordTokens are type keywords that may appear in expression
// position as plain identifiers (e.g. `u8::MAX`).
var typeKeywordTokens = []lexer.TokenType{
	lexer.TokenU8, lexer.TokenU16, lexer.TokenU32, lexer.TokenU64, lexer.TokenU128,
	lexer.TokenI8, lexer.TokenI16, lexer.TokenI32, lexer.TokenI64, lexer.TokenI128,
	lexer.TokenField, lexer.TokenGroup, lexer.TokenBool, lexer.TokenAddress, lexer.TokenChar,
}

func isTypeKeyword(tt lexer.TokenType) bool {
	for _, t := range typeKeywordTokens {
		if t == tt {
			return true
		}
	}
	return false
}

// ParseExpression parses a full expression, including circuit init
// expressions. It saves the circuit-construction flag, clears it for its
// own parse, and restores the caller's value afterward: nested
// expressions always permit circuit init even when the outermost
// statement context forbids it.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	prior := p.disallowCircuit
	p.disallowCircuit = false

	expr, err := p.parseConditionalExpression()

	p.disallowCircuit = prior
	return expr, err
}

// parseConditionalExpression parses a ternary expression. The else branch
// recurses into this level, making the operator right-associative:
// `a ? b : c ? d : e` parses as `a ? b : (c ? d : e)`.
func (p *Parser) parseConditionalExpression() (ast.Expression, error) {
	if err := p.enterExpression(); err != nil {
		return nil, err
	}
	defer p.leaveExpression()

	expr, err := p.parseDisjunctiveExpression()
	if err != nil {
		return nil, err
	}

	if p.eat(lexer.TokenQuestion) != nil {
		ifTrue, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}
		ifFalse, err := p.parseConditionalExpression()
		if err != nil {
			return nil, err
		}
		expr = &ast.TernaryExpression{
			Span:      expr.GetSpan().Union(ifFalse.GetSpan()),
			Condition: expr,
			IfTrue:    ifTrue,
			IfFalse:   ifFalse,
		}
	}
	return expr, nil
}

// binExpr constructs a binary expression `left op right` with the span
// composed from its children.
func binExpr(left, right ast.Expression, op ast.BinaryOperation) ast.Expression {
	return &ast.BinaryExpression{
		Span:  left.GetSpan().Union(right.GetSpan()),
		Op:    op,
		Left:  left,
		Right: right,
	}
}

// parseBinExpr parses a left-associative binary level: one operand from
// the next level, then fold while the operator token repeats.
func (p *Parser) parseBinExpr(tt lexer.TokenType, op ast.BinaryOperation, f func() (ast.Expression, error)) (ast.Expression, error) {
	expr, err := f()
	if err != nil {
		return nil, err
	}
	for p.eat(tt) != nil {
		right, err := f()
		if err != nil {
			return nil, err
		}
		expr = binExpr(expr, right, op)
	}
	return expr, nil
}

func (p *Parser) parseDisjunctiveExpression() (ast.Expression, error) {
	return p.parseBinExpr(lexer.TokenOr, ast.OpOr, p.parseConjunctiveExpression)
}

func (p *Parser) parseConjunctiveExpression() (ast.Expression, error) {
	return p.parseBinExpr(lexer.TokenAnd, ast.OpAnd, p.parseEqualityExpression)
}

// parseEqualityExpression applies `==` / `!=` at most once: equality does
// not chain.
func (p *Parser) parseEqualityExpression() (ast.Expression, error) {
	expr, err := p.parseOrderingExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.eatAny(lexer.TokenEq, lexer.TokenNotEq); tok != nil {
		right, err := p.parseOrderingExpression()
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOperation
		switch tok.Type {
		case lexer.TokenEq:
			op = ast.OpEq
		case lexer.TokenNotEq:
			op = ast.OpNe
		default:
			panic("parser: parseEqualityExpression matched an impossible token")
		}
		expr = binExpr(expr, right, op)
	}
	return expr, nil
}

// parseOrderingExpression parses relational comparisons. Sequential
// comparisons left-fold through repeated single applications.
func (p *Parser) parseOrderingExpression() (ast.Expression, error) {
	expr, err := p.parseAdditiveExpression()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.eatAny(lexer.TokenLt, lexer.TokenLtEq, lexer.TokenGt, lexer.TokenGtEq)
		if tok == nil {
			return expr, nil
		}
		right, err := p.parseAdditiveExpression()
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOperation
		switch tok.Type {
		case lexer.TokenLt:
			op = ast.OpLt
		case lexer.TokenLtEq:
			op = ast.OpLe
		case lexer.TokenGt:
			op = ast.OpGt
		case lexer.TokenGtEq:
			op = ast.OpGe
		default:
			panic("parser: parseOrderingExpression matched an impossible token")
		}
		expr = binExpr(expr, right, op)
	}
}

func (p *Parser) parseAdditiveExpression() (ast.Expression, error) {
	expr, err := p.parseMultiplicativeExpression()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.eatAny(lexer.TokenAdd, lexer.TokenMinus)
		if tok == nil {
			return expr, nil
		}
		right, err := p.parseMultiplicativeExpression()
		if err != nil {
			return nil, err
		}
		op := ast.OpAdd
		if tok.Type == lexer.TokenMinus {
			op = ast.OpSub
		}
		expr = binExpr(expr, right, op)
	}
}

func (p *Parser) parseMultiplicativeExpression() (ast.Expression, error) {
	expr, err := p.parseExponentialExpression()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.eatAny(lexer.TokenMul, lexer.TokenDiv)
		if tok == nil {
			return expr, nil
		}
		right, err := p.parseExponentialExpression()
		if err != nil {
			return nil, err
		}
		op := ast.OpMul
		if tok.Type == lexer.TokenDiv {
			op = ast.OpDiv
		}
		expr = binExpr(expr, right, op)
	}
}

// parseExponentialExpression parses `^`. The right operand recurses into
// this level, making the operator right-associative.
func (p *Parser) parseExponentialExpression() (ast.Expression, error) {
	if err := p.enterExpression(); err != nil {
		return nil, err
	}
	defer p.leaveExpression()

	expr, err := p.parseCastExpression()
	if err != nil {
		return nil, err
	}
	if p.eat(lexer.TokenPow) != nil {
		right, err := p.parseExponentialExpression()
		if err != nil {
			return nil, err
		}
		expr = binExpr(expr, right, ast.OpPow)
	}
	return expr, nil
}

// parseCastExpression parses chained `as type` casts.
func (p *Parser) parseCastExpression() (ast.Expression, error) {
	expr, err := p.parseUnaryExpression()
	if err != nil {
		return nil, err
	}
	for p.eat(lexer.TokenAs) != nil {
		typ, typSpan, err := p.parseType()
		if err != nil {
			return nil, err
		}
		expr = &ast.CastExpression{
			Span:       expr.GetSpan().Union(typSpan),
			Inner:      expr,
			TargetType: typ,
		}
	}
	return expr, nil
}

// parseUnaryExpression collects stacked prefix operators, parses the
// operand, then applies the operators innermost-first.
func (p *Parser) parseUnaryExpression() (ast.Expression, error) {
	var ops []lexer.Token
	for {
		tok := p.eatAny(lexer.TokenNot, lexer.TokenMinus)
		if tok == nil {
			break
		}
		ops = append(ops, *tok)
	}

	inner, err := p.parsePostfixExpression()
	if err != nil {
		return nil, err
	}

	for i := len(ops) - 1; i >= 0; i-- {
		var op ast.UnaryOperation
		switch ops[i].Type {
		case lexer.TokenNot:
			op = ast.OpNot
		case lexer.TokenMinus:
			op = ast.OpNegate
		default:
			panic("parser: parseUnaryExpression matched an impossible token")
		}
		inner = &ast.UnaryExpression{
			Span:  ops[i].Span.Union(inner.GetSpan()),
			Op:    op,
			Inner: inner,
		}
	}
	return inner, nil
}

// parsePostfixExpression parses a primary expression followed by any
// chain of postfix forms: index and range accesses, member and tuple
// accesses, calls, and static accesses.
func (p *Parser) parsePostfixExpression() (ast.Expression, error) {
	expr, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.eatAny(lexer.TokenLSquare, lexer.TokenDot, lexer.TokenLParen, lexer.TokenDoubleColon)
		if tok == nil {
			return expr, nil
		}
		switch tok.Type {
		case lexer.TokenLSquare:
			expr, err = p.parseAccessOrRange(expr)
			if err != nil {
				return nil, err
			}

		case lexer.TokenDot:
			if ident := p.eatIdentifier(); ident != nil {
				expr = &ast.MemberAccess{
					Span:  expr.GetSpan().Union(ident.Span),
					Inner: expr,
					Name:  ident,
				}
			} else if num := p.eatInt(); num != nil {
				expr = &ast.TupleAccess{
					Span:  expr.GetSpan().Union(num.Span),
					Tuple: expr,
					Index: num.Literal,
				}
			} else {
				return nil, errUnexpected(p.peek(), "integer or identifier")
			}

		case lexer.TokenLParen:
			var arguments []ast.Expression
			var end *lexer.Token
			for {
				if end = p.eat(lexer.TokenRParen); end != nil {
					break
				}
				arg, err := p.ParseExpression()
				if err != nil {
					return nil, err
				}
				arguments = append(arguments, arg)
				if p.eat(lexer.TokenComma) == nil {
					if end, err = p.expect(lexer.TokenRParen); err != nil {
						return nil, err
					}
					break
				}
			}
			expr = &ast.CallExpression{
				Span:      expr.GetSpan().Union(end.Span),
				Function:  expr,
				Arguments: arguments,
			}

		case lexer.TokenDoubleColon:
			ident, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = &ast.StaticAccess{
				Span:  expr.GetSpan().Union(ident.Span),
				Inner: expr,
				Name:  ident,
			}

		default:
			panic("parser: parsePostfixExpression matched an impossible token")
		}
	}
}

// parseAccessOrRange parses the body of `expr[...]` after the opening
// bracket: `[..]`, `[..r]`, `[l..]`, `[l..r]`, or a plain `[index]`.
func (p *Parser) parseAccessOrRange(expr ast.Expression) (ast.Expression, error) {
	if p.eat(lexer.TokenDotDot) != nil {
		var right ast.Expression
		if p.peek().Type != lexer.TokenRSquare {
			var err error
			if right, err = p.ParseExpression(); err != nil {
				return nil, err
			}
		}
		end, err := p.expect(lexer.TokenRSquare)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayRangeAccess{
			Span:  expr.GetSpan().Union(end.Span),
			Array: expr,
			Left:  nil,
			Right: right,
		}, nil
	}

	left, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if p.eat(lexer.TokenDotDot) != nil {
		var right ast.Expression
		if p.peek().Type != lexer.TokenRSquare {
			if right, err = p.ParseExpression(); err != nil {
				return nil, err
			}
		}
		end, err := p.expect(lexer.TokenRSquare)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayRangeAccess{
			Span:  expr.GetSpan().Union(end.Span),
			Array: expr,
			Left:  left,
			Right: right,
		}, nil
	}

	end, err := p.expect(lexer.TokenRSquare)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayAccess{
		Span:  expr.GetSpan().Union(end.Span),
		Array: expr,
		Index: left,
	}, nil
}

// parseSpreadOrExpression parses one element of an array construction,
// either `...expr` or a plain expression.
func (p *Parser) parseSpreadOrExpression() (ast.SpreadOrExpression, error) {
	spread := p.eat(lexer.TokenDotDotDot) != nil
	expr, err := p.ParseExpression()
	if err != nil {
		return ast.SpreadOrExpression{}, err
	}
	return ast.SpreadOrExpression{Spread: spread, Expression: expr}, nil
}

// parseCircuitExpression parses a circuit init expression after its
// already-consumed type name, starting at the `{`.
func (p *Parser) parseCircuitExpression(name *ast.Identifier) (ast.Expression, error) {
	if _, err := p.expect(lexer.TokenLCurly); err != nil {
		return nil, err
	}

	var members []ast.CircuitVariableInitializer
	var end *lexer.Token
	for {
		var err error
		if end = p.eat(lexer.TokenRCurly); end != nil {
			break
		}
		member, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		var value ast.Expression
		if p.eat(lexer.TokenColon) != nil {
			if value, err = p.ParseExpression(); err != nil {
				return nil, err
			}
		}
		members = append(members, ast.CircuitVariableInitializer{
			Identifier: member,
			Expression: value,
		})
		if p.eat(lexer.TokenComma) == nil {
			if end, err = p.expect(lexer.TokenRCurly); err != nil {
				return nil, err
			}
			break
		}
	}

	return &ast.CircuitInitExpression{
		Span:    name.Span.Union(end.Span),
		Name:    name,
		Members: members,
	}, nil
}

// parseTupleExpression parses the contents of a parenthesized expression
// after the opening `(`: an affine group literal (which takes priority), a
// single parenthesized expression (returned unwrapped), or a tuple init.
func (p *Parser) parseTupleExpression(start position.Span) (ast.Expression, error) {
	if group := p.eatGroupPartial(start); group != nil {
		return &ast.ValueExpression{
			Span:  group.Span,
			Kind:  ast.ValueGroup,
			Group: group,
		}, nil
	}

	var elements []ast.Expression
	var end *lexer.Token
	for {
		var err error
		if end = p.eat(lexer.TokenRParen); end != nil {
			break
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, expr)
		if p.eat(lexer.TokenComma) == nil {
			if end, err = p.expect(lexer.TokenRParen); err != nil {
				return nil, err
			}
			break
		}
	}

	// Parenthesization is not itself a node.
	if len(elements) == 1 {
		return elements[0], nil
	}
	return &ast.TupleInitExpression{
		Span:     start.Union(end.Span),
		Elements: elements,
	}, nil
}

// parseArrayExpression parses the contents of `[...]` after the opening
// bracket: an empty inline array, a fixed-size repeat array, or an inline
// array with optional spread elements.
func (p *Parser) parseArrayExpression(start position.Span) (ast.Expression, error) {
	if end := p.eat(lexer.TokenRSquare); end != nil {
		return &ast.ArrayInlineExpression{Span: start.Union(end.Span)}, nil
	}

	first, err := p.parseSpreadOrExpression()
	if err != nil {
		return nil, err
	}

	if p.eat(lexer.TokenSemicolon) != nil {
		dimensions, err := p.parseArrayDimensions()
		if err != nil {
			return nil, errInvalidArrayDimensions(start)
		}
		end, err := p.expect(lexer.TokenRSquare)
		if err != nil {
			return nil, err
		}
		if first.Spread {
			return nil, errSpreadInArrayInit(start.Union(first.Expression.GetSpan()))
		}
		return &ast.ArrayInitExpression{
			Span:       start.Union(end.Span),
			Element:    first.Expression,
			Dimensions: dimensions,
		}, nil
	}

	elements := []ast.SpreadOrExpression{first}
	var end *lexer.Token
	for {
		if end = p.eat(lexer.TokenRSquare); end != nil {
			break
		}
		if len(elements) == 1 {
			if _, err := p.expect(lexer.TokenComma); err != nil {
				return nil, err
			}
			if end = p.eat(lexer.TokenRSquare); end != nil {
				break
			}
		}
		elem, err := p.parseSpreadOrExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		if p.eat(lexer.TokenComma) == nil {
			if end, err = p.expect(lexer.TokenRSquare); err != nil {
				return nil, err
			}
			break
		}
	}

	return &ast.ArrayInlineExpression{
		Span:     start.Union(end.Span),
		Elements: elements,
	}, nil
}

// parseArrayDimensions parses the dimension list after the `;` of a
// repeat array: a single size or a parenthesized list of sizes.
func (p *Parser) parseArrayDimensions() ([]uint32, error) {
	if tok := p.eatInt(); tok != nil {
		dim, err := parseDimension(tok.Literal)
		if err != nil {
			return nil, errInvalidArrayDimensions(tok.Span)
		}
		return []uint32{dim}, nil
	}

	lparen, err := p.expect(lexer.TokenLParen)
	if err != nil {
		return nil, err
	}

	var dims []uint32
	for {
		if p.eat(lexer.TokenRParen) != nil {
			break
		}
		tok, err := p.expect(lexer.TokenInt)
		if err != nil {
			return nil, err
		}
		dim, err := parseDimension(tok.Literal)
		if err != nil {
			return nil, errInvalidArrayDimensions(tok.Span)
		}
		dims = append(dims, dim)
		if p.eat(lexer.TokenComma) == nil {
			if _, err := p.expect(lexer.TokenRParen); err != nil {
				return nil, err
			}
			break
		}
	}
	if len(dims) == 0 {
		return nil, errInvalidArrayDimensions(lparen.Span)
	}
	return dims, nil
}

func parseDimension(literal string) (uint32, error) {
	value, err := strconv.ParseUint(literal, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("dimension out of range: %s", literal)
	}
	return uint32(value), nil
}

// parsePrimaryExpression parses a literal, identifier, parenthesized or
// tuple expression, array expression, or circuit init.
func (p *Parser) parsePrimaryExpression() (ast.Expression, error) {
	tok, err := p.expectAny()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Type == lexer.TokenInt:
		suffix := p.eatAny(intSuffixTokens...)
		if suffix == nil {
			return &ast.ValueExpression{Span: tok.Span, Kind: ast.ValueImplicit, Text: tok.Literal}, nil
		}
		if !tok.Span.Adjacent(suffix.Span) {
			return nil, errWhitespaceInSuffix(tok.Span.Union(suffix.Span), tok.Literal, suffix.Type.String())
		}
		span := tok.Span.Union(suffix.Span)
		switch suffix.Type {
		case lexer.TokenField:
			return &ast.ValueExpression{Span: span, Kind: ast.ValueField, Text: tok.Literal}, nil
		case lexer.TokenGroup:
			return &ast.ValueExpression{Span: span, Kind: ast.ValueGroup, Text: tok.Literal}, nil
		default:
			intType, ok := intTypeForToken[suffix.Type]
			if !ok {
				panic("parser: parsePrimaryExpression matched an impossible suffix token")
			}
			return &ast.ValueExpression{Span: span, Kind: ast.ValueInteger, Text: tok.Literal, Int: intType}, nil
		}

	case tok.Type == lexer.TokenTrue, tok.Type == lexer.TokenFalse:
		return &ast.ValueExpression{Span: tok.Span, Kind: ast.ValueBoolean, Text: tok.Literal}, nil

	case tok.Type == lexer.TokenAddressLit:
		return &ast.ValueExpression{Span: tok.Span, Kind: ast.ValueAddress, Text: tok.Literal}, nil

	case tok.Type == lexer.TokenCharLit:
		return &ast.ValueExpression{Span: tok.Span, Kind: ast.ValueChar, Text: tok.Literal}, nil

	case tok.Type == lexer.TokenStringLit:
		return &ast.ValueExpression{Span: tok.Span, Kind: ast.ValueString, Text: tok.Literal}, nil

	case tok.Type == lexer.TokenLParen:
		return p.parseTupleExpression(tok.Span)

	case tok.Type == lexer.TokenLSquare:
		return p.parseArrayExpression(tok.Span)

	case tok.Type == lexer.TokenIdentifier:
		ident := &ast.Identifier{Span: tok.Span, Name: tok.Literal}
		if !p.disallowCircuit && p.peek().Type == lexer.TokenLCurly {
			return p.parseCircuitExpression(ident)
		}
		return ident, nil

	case tok.Type == lexer.TokenBigSelf:
		ident := &ast.Identifier{Span: tok.Span, Name: "Self"}
		if !p.disallowCircuit && p.peek().Type == lexer.TokenLCurly {
			return p.parseCircuitExpression(ident)
		}
		return ident, nil

	case tok.Type == lexer.TokenLittleSelf:
		return &ast.Identifier{Span: tok.Span, Name: "self"}, nil

	case tok.Type == lexer.TokenInput:
		return &ast.Identifier{Span: tok.Span, Name: "input"}, nil

	case isTypeKeyword(tok.Type):
		return &ast.Identifier{Span: tok.Span, Name: tok.Literal}, nil
	}

	return nil, errUnexpected(tok, "expression")
}

// enterExpression guards recursion depth on the self-recursive levels of
// the precedence ladder.
func (p *Parser) enterExpression() error {
	p.depth++
	if p.depth > maxExpressionDepth {
		p.depth--
		return errTooDeep(p.peek().Span)
	}
	return nil
}

func (p *Parser) leaveExpression() {
	p.depth--
}
