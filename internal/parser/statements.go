package parser

import (
	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/lexer"
)

var assignOpForToken = map[lexer.TokenType]ast.AssignOperation{
	lexer.TokenAssign:      ast.AssignSimple,
	lexer.TokenAddAssign:   ast.AssignAdd,
	lexer.TokenMinusAssign: ast.AssignSub,
	lexer.TokenMulAssign:   ast.AssignMul,
	lexer.TokenDivAssign:   ast.AssignDiv,
	lexer.TokenPowAssign:   ast.AssignPow,
}

// parseBlock parses `{ statements }`. A failed statement is reported and
// skipped so the rest of the block still parses.
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.TokenLCurly)
	if err != nil {
		return nil, err
	}

	var statements []ast.Statement
	for {
		if end := p.eat(lexer.TokenRCurly); end != nil {
			return &ast.Block{
				Span:       open.Span.Union(end.Span),
				Statements: statements,
			}, nil
		}
		if p.peek().Type == lexer.TokenEOF {
			return nil, errUnexpected(p.peek(), "}")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			p.emitError(err)
			p.syncStatement()
			continue
		}
		statements = append(statements, stmt)
	}
}

// parseStatement parses one statement, dispatching on the leading token.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.peek().Type {
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenLet, lexer.TokenConst:
		return p.parseDefinitionStatement()
	case lexer.TokenIf:
		return p.parseConditionalStatement()
	case lexer.TokenFor:
		return p.parseIterationStatement()
	case lexer.TokenConsole:
		return p.parseConsoleStatement()
	case lexer.TokenLCurly:
		return p.parseBlock()
	default:
		return p.parseAssignStatement()
	}
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	returnTok := p.next()

	expr := p.expressionOrErr(p.ParseExpression)
	semi, err := p.expect(lexer.TokenSemicolon)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{
		Span:       returnTok.Span.Union(semi.Span),
		Expression: expr,
	}, nil
}

func (p *Parser) parseDefinitionStatement() (ast.Statement, error) {
	declareTok := p.next()
	declare := ast.DeclareLet
	if declareTok.Type == lexer.TokenConst {
		declare = ast.DeclareConst
	}

	var names []*ast.Identifier
	if p.eat(lexer.TokenLParen) != nil {
		for {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			if p.eat(lexer.TokenComma) == nil {
				if _, err := p.expect(lexer.TokenRParen); err != nil {
					return nil, err
				}
				break
			}
			if p.eat(lexer.TokenRParen) != nil {
				break
			}
		}
	} else {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	var declType *ast.Type
	if p.eat(lexer.TokenColon) != nil {
		typ, _, err := p.parseType()
		if err != nil {
			return nil, err
		}
		declType = &typ
	}

	if _, err := p.expect(lexer.TokenAssign); err != nil {
		return nil, err
	}
	value := p.expressionOrErr(p.ParseExpression)
	semi, err := p.expect(lexer.TokenSemicolon)
	if err != nil {
		return nil, err
	}

	return &ast.DefinitionStatement{
		Span:    declareTok.Span.Union(semi.Span),
		Declare: declare,
		Names:   names,
		Type:    declType,
		Value:   value,
	}, nil
}

// parseConditionalStatement parses an if statement. The condition is
// parsed with circuit construction disallowed, so `if x { ... }` reads
// the `{` as the statement block rather than a circuit init on `x`; a
// parenthesized condition lifts the restriction through ParseExpression.
func (p *Parser) parseConditionalStatement() (ast.Statement, error) {
	ifTok := p.next()

	prior := p.disallowCircuit
	p.disallowCircuit = true
	condition := p.expressionOrErr(p.parseConditionalExpression)
	p.disallowCircuit = prior

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.ConditionalStatement{
		Span:      ifTok.Span.Union(block.Span),
		Condition: condition,
		Block:     block,
	}

	if p.eat(lexer.TokenElse) != nil {
		var next ast.Statement
		if p.peek().Type == lexer.TokenIf {
			next, err = p.parseConditionalStatement()
		} else {
			next, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
		stmt.Next = next
		stmt.Span = stmt.Span.Union(next.GetSpan())
	}
	return stmt, nil
}

// parseIterationStatement parses `for x in start..stop { ... }`. Both
// bounds share the if-header circuit restriction.
func (p *Parser) parseIterationStatement() (ast.Statement, error) {
	forTok := p.next()

	variable, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIn); err != nil {
		return nil, err
	}

	prior := p.disallowCircuit
	p.disallowCircuit = true
	start := p.expressionOrErr(p.parseConditionalExpression)
	if _, err := p.expect(lexer.TokenDotDot); err != nil {
		p.disallowCircuit = prior
		return nil, err
	}
	inclusive := p.eat(lexer.TokenAssign) != nil
	stop := p.expressionOrErr(p.parseConditionalExpression)
	p.disallowCircuit = prior

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.IterationStatement{
		Span:      forTok.Span.Union(block.Span),
		Variable:  variable,
		Start:     start,
		Stop:      stop,
		Inclusive: inclusive,
		Block:     block,
	}, nil
}

func (p *Parser) parseConsoleStatement() (ast.Statement, error) {
	consoleTok := p.next()

	if _, err := p.expect(lexer.TokenDot); err != nil {
		return nil, err
	}
	name := p.eatIdentifier()
	if name == nil {
		return nil, errUnexpected(p.peek(), "assert, error, or log")
	}
	var kind ast.ConsoleKind
	switch name.Name {
	case "assert":
		kind = ast.ConsoleAssert
	case "error":
		kind = ast.ConsoleError
	case "log":
		kind = ast.ConsoleLog
	default:
		return nil, errUnexpected(lexer.Token{
			Type:    lexer.TokenIdentifier,
			Literal: name.Name,
			Span:    name.Span,
		}, "assert, error, or log")
	}

	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	stmt := &ast.ConsoleStatement{Kind: kind}
	if kind == ast.ConsoleAssert {
		stmt.Assert = p.expressionOrErr(p.ParseExpression)
	} else {
		format, err := p.expect(lexer.TokenStringLit)
		if err != nil {
			return nil, err
		}
		stmt.Format = format.Literal
		for p.eat(lexer.TokenComma) != nil {
			stmt.Parameters = append(stmt.Parameters, p.expressionOrErr(p.ParseExpression))
		}
	}

	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.TokenSemicolon)
	if err != nil {
		return nil, err
	}

	stmt.Span = consoleTok.Span.Union(semi.Span)
	return stmt, nil
}

// parseAssignStatement parses `assignee op value;`. The assignee parses
// as an ordinary expression and is then validated to be a place.
func (p *Parser) parseAssignStatement() (ast.Statement, error) {
	assignee, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	opTok := p.eatAny(
		lexer.TokenAssign,
		lexer.TokenAddAssign,
		lexer.TokenMinusAssign,
		lexer.TokenMulAssign,
		lexer.TokenDivAssign,
		lexer.TokenPowAssign,
	)
	if opTok == nil {
		return nil, errUnexpected(p.peek(), "assignment operator")
	}
	if err := validateAssignee(assignee); err != nil {
		return nil, err
	}

	value := p.expressionOrErr(p.ParseExpression)
	semi, err := p.expect(lexer.TokenSemicolon)
	if err != nil {
		return nil, err
	}

	return &ast.AssignStatement{
		Span:     assignee.GetSpan().Union(semi.Span),
		Op:       assignOpForToken[opTok.Type],
		Assignee: assignee,
		Value:    value,
	}, nil
}

// validateAssignee checks that the expression is a place: an identifier,
// possibly wrapped in array, range, member, or tuple accesses.
func validateAssignee(expr ast.Expression) error {
	for {
		switch e := expr.(type) {
		case *ast.Identifier:
			return nil
		case *ast.ArrayAccess:
			expr = e.Array
		case *ast.ArrayRangeAccess:
			expr = e.Array
		case *ast.MemberAccess:
			expr = e.Inner
		case *ast.TupleAccess:
			expr = e.Tuple
		default:
			return errInvalidAssignee(expr.GetSpan())
		}
	}
}
