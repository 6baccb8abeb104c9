package parser

import (
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/token"
)

// parsePattern implements:
//
//	pattern := "_" | ident "@" pattern | ctor | tuplePat | expr
//	ctor     := ident "(" (pattern ("," pattern)*)? ")"
//	tuplePat := "(" (pattern ("," pattern)*)? ")"
//
// The alternatives overlap on a leading identifier or '(', so each is
// attempted with backtracking (attempt-able, per §4.1) before falling back
// to parsing the pattern as a plain Rib expression — this is how
// identifiers, numbers, booleans, and the some/none/ok/err forms all
// become valid patterns without a separate grammar for them.
func (p *Parser) parsePattern() (ast.ArmPattern, error) {
	if p.check(token.UNDERSCORE) {
		p.advance()
		return ast.WildCard{}, nil
	}

	if p.check(token.IDENT) {
		if pat, ok := p.tryAsPattern(); ok {
			return pat, nil
		}
		if pat, ok := p.tryConstructorPattern(); ok {
			return pat, nil
		}
	}

	if p.check(token.LPAREN) {
		if pat, ok := p.tryTuplePattern(); ok {
			return pat, nil
		}
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewLiteralPattern(expr), nil
}

func (p *Parser) tryAsPattern() (ast.ArmPattern, bool) {
	m := p.save()
	name := p.cur.Literal
	p.advance()
	if !p.check(token.AT) {
		p.restore(m)
		return nil, false
	}
	p.advance()
	inner, err := p.parsePattern()
	if err != nil {
		p.restore(m)
		return nil, false
	}
	return ast.NewAs(name, inner), true
}

func (p *Parser) tryConstructorPattern() (ast.ArmPattern, bool) {
	m := p.save()
	name := p.cur.Literal
	p.advance()
	if !p.check(token.LPAREN) {
		p.restore(m)
		return nil, false
	}
	p.advance()
	args, err := p.parsePatternArgs(token.RPAREN)
	if err != nil {
		p.restore(m)
		return nil, false
	}
	if err := p.consume(token.RPAREN); err != nil {
		p.restore(m)
		return nil, false
	}
	return ast.NewConstructor(name, args), true
}

func (p *Parser) tryTuplePattern() (ast.ArmPattern, bool) {
	m := p.save()
	p.advance()
	args, err := p.parsePatternArgs(token.RPAREN)
	if err != nil {
		p.restore(m)
		return nil, false
	}
	if err := p.consume(token.RPAREN); err != nil {
		p.restore(m)
		return nil, false
	}
	return ast.NewTupleConstructor(args), true
}

func (p *Parser) parsePatternArgs(closing token.Type) ([]ast.ArmPattern, error) {
	if p.check(closing) {
		return nil, nil
	}
	first, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	args := []ast.ArmPattern{first}
	for p.check(token.COMMA) {
		p.advance()
		next, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		args = append(args, next)
	}
	return args, nil
}
