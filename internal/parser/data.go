package parser

import (
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/token"
)

// parseAtom implements the `atom` production: every leaf and bracketed
// form the grammar allows before a select chain is applied on top.
func (p *Parser) parseAtom() (ast.Expr, error) {
	switch p.cur.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.TRUE, token.FALSE:
		return p.parseBoolean()
	case token.STRING:
		return p.parseStringLiteral()
	case token.SOME, token.NONE:
		return p.parseOption()
	case token.OK, token.ERR:
		return p.parseResult()
	case token.IDENT:
		return p.parseIdentOrGlobal()
	case token.LBRACKET:
		return p.parseSequence()
	case token.LBRACE:
		return p.parseRecord()
	case token.LPAREN:
		return p.parseParenOrTuple()
	default:
		return nil, p.errorf("unexpected token %q", p.cur.Literal)
	}
}

// parseSequence implements `sequence := "[" (expr ("," expr)*)? "]"`.
func (p *Parser) parseSequence() (ast.Expr, error) {
	if err := p.consume(token.LBRACKET); err != nil {
		return nil, err
	}
	var elems []ast.Expr
	if !p.check(token.RBRACKET) {
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, first)
		for p.check(token.COMMA) {
			p.advance()
			next, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, next)
		}
	}
	if err := p.consume(token.RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewSequence(elems), nil
}

// parseRecord implements `record := "{" (ident ":" expr ("," …)*)? "}"`.
func (p *Parser) parseRecord() (ast.Expr, error) {
	if err := p.consume(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.RecordField
	seen := map[string]bool{}
	for !p.check(token.RBRACE) {
		if p.cur.Type != token.IDENT {
			return nil, p.errorf("expected field name, got %q", p.cur.Literal)
		}
		name := p.cur.Literal
		p.advance()
		if err := p.consume(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, p.errorf("duplicate record field %q", name)
		}
		seen[name] = true
		fields = append(fields, ast.RecordField{Name: name, Value: value})
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if err := p.consume(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewRecord(fields), nil
}

// parseParenOrTuple implements
// `tuple := "(" expr "," expr ("," expr)* ")"`, generalized so a single
// parenthesized expression with no comma is treated as a grouping rather
// than a parse error.
func (p *Parser) parseParenOrTuple() (ast.Expr, error) {
	if err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.check(token.COMMA) {
		if err := p.consume(token.RPAREN); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []ast.Expr{first}
	for p.check(token.COMMA) {
		p.advance()
		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewTuple(elems), nil
}

// parseOption implements `option := "some" "(" expr ")" | "none"`.
func (p *Parser) parseOption() (ast.Expr, error) {
	if p.check(token.NONE) {
		p.advance()
		return ast.NewOptionNone(), nil
	}
	if err := p.consume(token.SOME); err != nil {
		return nil, err
	}
	if err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewOptionSome(inner), nil
}

// parseResult implements `result := "ok" "(" expr ")" | "err" "(" expr ")"`.
// Per the spec's open question #1, ok/err without arguments are rejected:
// the mandatory parens and inner expr make that a plain parse error.
func (p *Parser) parseResult() (ast.Expr, error) {
	isOk := p.check(token.OK)
	p.advance()
	if err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}
	if isOk {
		return ast.NewResultOk(inner), nil
	}
	return ast.NewResultErr(inner), nil
}
