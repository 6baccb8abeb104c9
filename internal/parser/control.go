package parser

import (
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/token"
)

// parseCond implements `cond := "if" expr "then" expr "else" expr`.
func (p *Parser) parseCond() (ast.Expr, error) {
	if err := p.consume(token.IF); err != nil {
		return nil, err
	}
	pred, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.THEN); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.ELSE); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewCond(pred, then, els), nil
}

// parseMatch implements `match := "match" expr "{" arm ("," arm)* "}"`.
func (p *Parser) parseMatch() (ast.Expr, error) {
	if err := p.consume(token.MATCH); err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.LBRACE); err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	arm, err := p.parseMatchArm()
	if err != nil {
		return nil, err
	}
	arms = append(arms, arm)
	for p.check(token.COMMA) {
		p.advance()
		arm, err := p.parseMatchArm()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
	}
	if err := p.consume(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewPatternMatch(scrutinee, arms), nil
}

// parseMatchArm implements `arm := pattern "=>" expr`.
func (p *Parser) parseMatchArm() (ast.MatchArm, error) {
	pat, err := p.parsePattern()
	if err != nil {
		return ast.MatchArm{}, err
	}
	if err := p.consume(token.ARROW); err != nil {
		return ast.MatchArm{}, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return ast.MatchArm{}, err
	}
	return ast.NewMatchArm(pat, body), nil
}
