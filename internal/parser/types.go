package parser

import (
	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/lexer"
	"github.com/veridian-lang/veridian/internal/position"
)

var scalarTypeForToken = map[lexer.TokenType]ast.TypeKind{
	lexer.TokenAddress: ast.TypeAddress,
	lexer.TokenBool:    ast.TypeBoolean,
	lexer.TokenChar:    ast.TypeChar,
	lexer.TokenField:   ast.TypeField,
	lexer.TokenGroup:   ast.TypeGroup,
}

// parseType parses a type annotation and reports the span it covered.
func (p *Parser) parseType() (ast.Type, position.Span, error) {
	tok := p.peek()

	if kind, ok := scalarTypeForToken[tok.Type]; ok {
		p.next()
		return ast.Type{Kind: kind}, tok.Span, nil
	}
	if intType, ok := intTypeForToken[tok.Type]; ok {
		p.next()
		return ast.Type{Kind: ast.TypeInteger, Int: intType}, tok.Span, nil
	}

	switch tok.Type {
	case lexer.TokenBigSelf:
		p.next()
		return ast.Type{Kind: ast.TypeSelf}, tok.Span, nil

	case lexer.TokenIdentifier:
		p.next()
		return ast.Type{Kind: ast.TypeCircuit, Name: tok.Literal}, tok.Span, nil

	case lexer.TokenLSquare:
		p.next()
		element, _, err := p.parseType()
		if err != nil {
			return ast.Type{}, position.Span{}, err
		}
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return ast.Type{}, position.Span{}, err
		}
		dimensions, err := p.parseArrayDimensions()
		if err != nil {
			return ast.Type{}, position.Span{}, err
		}
		end, err := p.expect(lexer.TokenRSquare)
		if err != nil {
			return ast.Type{}, position.Span{}, err
		}
		return ast.Type{
			Kind:       ast.TypeArray,
			Element:    &element,
			Dimensions: dimensions,
		}, tok.Span.Union(end.Span), nil

	case lexer.TokenLParen:
		p.next()
		var components []ast.Type
		var end *lexer.Token
		for {
			var err error
			if end = p.eat(lexer.TokenRParen); end != nil {
				break
			}
			component, _, err := p.parseType()
			if err != nil {
				return ast.Type{}, position.Span{}, err
			}
			components = append(components, component)
			if p.eat(lexer.TokenComma) == nil {
				if end, err = p.expect(lexer.TokenRParen); err != nil {
					return ast.Type{}, position.Span{}, err
				}
				break
			}
		}
		return ast.Type{
			Kind:       ast.TypeTuple,
			Components: components,
		}, tok.Span.Union(end.Span), nil
	}

	return ast.Type{}, position.Span{}, errUnexpected(tok, "type")
}
