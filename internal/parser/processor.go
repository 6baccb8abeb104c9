// Package parser turns Rib source text into an ast.Expr tree.
package parser

import (
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/lexer"
	"github.com/ribflow/rib/internal/token"
)

// Parser is a hand-written recursive-descent parser with one token of
// lookahead (cur) and explicit mark/restore backtracking for the handful
// of alternatives the grammar can't disambiguate by a single token
// (constructor vs tuple vs literal patterns, in particular).
type Parser struct {
	lx  *lexer.Lexer
	cur token.Token
}

// New creates a Parser over source text.
func New(input string) *Parser {
	p := &Parser{lx: lexer.New(input)}
	p.advance()
	return p
}

// Parse parses a complete Rib program: a block of semicolon-separated
// expressions, consuming the entire input.
func Parse(input string) (ast.Expr, error) {
	p := New(input)
	expr, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, p.errorf("unexpected trailing input %q", p.cur.Literal)
	}
	return expr, nil
}

func (p *Parser) advance() { p.cur = p.lx.NextToken() }

func (p *Parser) check(tt token.Type) bool { return p.cur.Type == tt }

// consume requires the current token to have type tt, then advances past
// it. Used everywhere except the closing brace of a string interpolation,
// where advancing would tokenize raw literal text as if it were grammar.
func (p *Parser) consume(tt token.Type) error {
	if p.cur.Type != tt {
		return p.errorf("expected %s, got %q", tt, p.cur.Literal)
	}
	p.advance()
	return nil
}

type mark struct {
	lexMark lexer.Mark
	cur     token.Token
}

func (p *Parser) save() mark {
	return mark{lexMark: p.lx.Mark(), cur: p.cur}
}

func (p *Parser) restore(m mark) {
	p.lx.Reset(m.lexMark)
	p.cur = m.cur
}

// parseBlock implements `block := expr (";" expr)*`.
func (p *Parser) parseBlock() (ast.Expr, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.check(token.SEMICOLON) {
		return first, nil
	}
	exprs := []ast.Expr{first}
	for p.check(token.SEMICOLON) {
		p.advance()
		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return ast.NewMultiple(exprs), nil
}

// parseExpr implements `expr := cond | match | binop | unary | atom`.
func (p *Parser) parseExpr() (ast.Expr, error) {
	switch p.cur.Type {
	case token.IF:
		return p.parseCond()
	case token.MATCH:
		return p.parseMatch()
	default:
		return p.parseComparison()
	}
}

// parseComparison implements `binop := cmp ("==" | ">" | ">=" | "<" | "<=") cmp`.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	op, ok := compareOp(p.cur.Type)
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.NewCompare(op, left, right), nil
}

func compareOp(tt token.Type) (ast.CompareOp, bool) {
	switch tt {
	case token.EQ:
		return ast.EqualTo, true
	case token.GT:
		return ast.GreaterThan, true
	case token.GE:
		return ast.GreaterThanOrEqualTo, true
	case token.LT:
		return ast.LessThan, true
	case token.LE:
		return ast.LessThanOrEqualTo, true
	default:
		return 0, false
	}
}

// parseUnary implements the `!` prefix operator over the select chain.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(token.NOT) {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewNot(inner), nil
	}
	return p.parseSelect()
}

// parseSelect implements `select := atom ("." ident | "[" nat "]")*`.
func (p *Parser) parseSelect() (ast.Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case token.DOT:
			p.advance()
			if p.cur.Type != token.IDENT {
				return nil, p.errorf("expected field name after '.', got %q", p.cur.Literal)
			}
			field := p.cur.Literal
			p.advance()
			base = ast.NewSelectField(base, field)
		case token.LBRACKET:
			p.advance()
			if p.cur.Type != token.NUMBER {
				return nil, p.errorf("expected a non-negative integer index, got %q", p.cur.Literal)
			}
			idx, err := parseNonNegativeInt(p.cur.Literal)
			if err != nil {
				return nil, p.errorf("%s", err.Error())
			}
			p.advance()
			if err := p.consume(token.RBRACKET); err != nil {
				return nil, err
			}
			base = ast.NewSelectIndex(base, idx)
		default:
			return base, nil
		}
	}
}
