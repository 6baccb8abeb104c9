package lexer

import (
	"testing"

	"github.com/ribflow/rib/internal/token"
)

func collectTypes(input string) []token.Type {
	lx := New(input)
	var types []token.Type
	for {
		tok := lx.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			return types
		}
	}
}

func TestIdentifierStartingWithUnderscore(t *testing.T) {
	types := collectTypes("_1")
	if len(types) != 2 || types[0] != token.IDENT || types[1] != token.EOF {
		t.Fatalf("expected a single IDENT then EOF, got %v", types)
	}
}

func TestWildcardUnderscore(t *testing.T) {
	types := collectTypes("_")
	if len(types) != 2 || types[0] != token.UNDERSCORE {
		t.Fatalf("expected a lone UNDERSCORE, got %v", types)
	}
}

func TestKeywordsAndPunctuation(t *testing.T) {
	types := collectTypes("if x then ok(1) else none")
	want := []token.Type{
		token.IF, token.IDENT, token.THEN, token.OK, token.LPAREN,
		token.NUMBER, token.RPAREN, token.ELSE, token.NONE, token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(types), len(want), types)
	}
	for i, tt := range want {
		if types[i] != tt {
			t.Errorf("token %d: got %v, want %v", i, types[i], tt)
		}
	}
}

func TestArrowAndCompareOperators(t *testing.T) {
	types := collectTypes("_ => a >= b")
	want := []token.Type{token.UNDERSCORE, token.ARROW, token.IDENT, token.GE, token.IDENT, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v", types)
	}
	for i, tt := range want {
		if types[i] != tt {
			t.Errorf("token %d: got %v, want %v", i, types[i], tt)
		}
	}
}

func TestStringLiteralToken(t *testing.T) {
	lx := New(`"hello ${name}"`)
	tok := lx.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %v", tok.Type)
	}
}
