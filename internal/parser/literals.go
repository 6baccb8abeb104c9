package parser

import (
	"strconv"
	"strings"

	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/token"
)

func (p *Parser) parseNumber() (ast.Expr, error) {
	n := ast.NewNumber(p.cur.Literal)
	p.advance()
	return n, nil
}

func (p *Parser) parseBoolean() (ast.Expr, error) {
	b := ast.NewBoolean(p.cur.Type == token.TRUE)
	p.advance()
	return b, nil
}

// parseIdentOrGlobal resolves the two designated globals (`request`,
// `worker.response`) as their own node kind, per §3; any other identifier
// becomes a plain (provisionally global) Identifier, which the analyzer
// may later demote to a local binding.
func (p *Parser) parseIdentOrGlobal() (ast.Expr, error) {
	name := p.cur.Literal
	p.advance()

	if name == "request" {
		return ast.NewRequest(), nil
	}
	if name == "worker" {
		if err := p.consume(token.DOT); err != nil {
			return nil, p.errorf("\"worker\" must be followed by \".response\"")
		}
		if p.cur.Type != token.IDENT || p.cur.Literal != "response" {
			return nil, p.errorf("\"worker\" must be followed by \".response\"")
		}
		p.advance()
		return ast.NewWorkerResponse(), nil
	}

	return ast.NewIdentifier(name), nil
}

func parseNonNegativeInt(lit string) (int, error) {
	n, err := strconv.Atoi(lit)
	if err != nil || n < 0 {
		return 0, &ParseError{Message: "index must be a non-negative integer literal"}
	}
	return n, nil
}

// parseStringLiteral implements:
//
//	literal := '"' (static | interp)* '"'
//	interp   := "${" block "}"
//	flags    := '"' "${{" ident ("," ident)* "}}" '"'
//
// The opening quote was already consumed by the lexer's NextToken (which
// returns a STRING token for '"' without reading the body). From here the
// parser drives the lexer's rune-level cursor directly for static text,
// and switches back to token-level parsing only inside "${...}" — see the
// lexer package doc comment for why the two can't be split into separate
// passes.
func (p *Parser) parseStringLiteral() (ast.Expr, error) {
	var parts []ast.Expr
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			parts = append(parts, ast.NewLiteral(buf.String()))
			buf.Reset()
		}
	}

	for {
		ch := p.lx.Current()
		switch {
		case ch == 0:
			return nil, p.errorf("unterminated string literal")
		case ch == '"':
			p.lx.Advance()
			flush()
			p.advance()
			return collapseLiteralParts(parts), nil
		case ch == '$' && p.lx.Peek() == '{':
			flush()
			p.lx.Advance() // consume '$'
			p.lx.Advance() // consume '{'
			if p.lx.Current() == '{' {
				p.lx.Advance() // consume second '{'
				names, err := p.parseFlagNames()
				if err != nil {
					return nil, err
				}
				parts = append(parts, ast.NewFlags(names))
				continue
			}
			p.advance() // prime the token stream at the interpolation body
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			if !p.check(token.RBRACE) {
				return nil, p.errorf("expected '}' to close interpolation, got %q", p.cur.Literal)
			}
			// Do not call p.advance(): that would tokenize the raw text
			// right after '}' as grammar. The lexer's rune cursor already
			// sits just past the '}' that NextToken consumed for p.cur.
			parts = append(parts, block)
			continue
		default:
			buf.WriteRune(ch)
			p.lx.Advance()
		}
	}
}

// collapseLiteralParts implements the parser's literal-collapsing rule:
// no parts -> empty Literal, one Literal part -> itself, one non-Literal
// part -> itself (unwrapped), more than one -> Concat.
func collapseLiteralParts(parts []ast.Expr) ast.Expr {
	switch len(parts) {
	case 0:
		return ast.NewLiteral("")
	case 1:
		return parts[0]
	default:
		return ast.NewConcat(parts)
	}
}

// parseFlagNames reads the comma-separated identifier list of a
// "${{a, b}}" flags literal, through the ordinary token stream, then
// consumes the raw second '}' directly so the caller can resume
// rune-level literal scanning right after it.
func (p *Parser) parseFlagNames() ([]string, error) {
	p.advance()
	var names []string
	for {
		if p.cur.Type != token.IDENT {
			return nil, p.errorf("expected a flag name, got %q", p.cur.Literal)
		}
		names = append(names, p.cur.Literal)
		p.advance()
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.check(token.RBRACE) {
		return nil, p.errorf("expected '}}' to close flags literal")
	}
	if p.lx.Current() != '}' {
		return nil, p.errorf("expected '}}' to close flags literal")
	}
	p.lx.Advance()
	return names, nil
}
