package parser

import (
	"testing"

	"github.com/ribflow/rib/internal/ast"
)

func TestEmptyStringLiteral(t *testing.T) {
	expr, err := Parse(`""`)
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := expr.(*ast.Literal)
	if !ok || lit.Text != "" {
		t.Fatalf("expected empty Literal, got %#v", expr)
	}
}

func TestDirectInterpolationCollapses(t *testing.T) {
	expr, err := Parse(`"${request}"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := expr.(*ast.Request); !ok {
		t.Fatalf("a single interpolation part should unwrap to the part itself, got %#v", expr)
	}
}

func TestConcatInterpolation(t *testing.T) {
	expr, err := Parse(`"hello ${name}!"`)
	if err != nil {
		t.Fatal(err)
	}
	concat, ok := expr.(*ast.Concat)
	if !ok {
		t.Fatalf("expected Concat, got %#v", expr)
	}
	if len(concat.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(concat.Parts))
	}
	if lit, ok := concat.Parts[0].(*ast.Literal); !ok || lit.Text != "hello " {
		t.Errorf("part 0 = %#v", concat.Parts[0])
	}
	if id, ok := concat.Parts[1].(*ast.Identifier); !ok || id.Var.Name != "name" {
		t.Errorf("part 1 = %#v", concat.Parts[1])
	}
	if lit, ok := concat.Parts[2].(*ast.Literal); !ok || lit.Text != "!" {
		t.Errorf("part 2 = %#v", concat.Parts[2])
	}
}

func TestFlagsLiteral(t *testing.T) {
	expr, err := Parse(`"${{a, b, c}}"`)
	if err != nil {
		t.Fatal(err)
	}
	flags, ok := expr.(*ast.Flags)
	if !ok {
		t.Fatalf("expected Flags, got %#v", expr)
	}
	want := []string{"a", "b", "c"}
	if len(flags.Names) != len(want) {
		t.Fatalf("got %v", flags.Names)
	}
	for i, n := range want {
		if flags.Names[i] != n {
			t.Errorf("name %d: got %q, want %q", i, flags.Names[i], n)
		}
	}
}

func TestIfThenElse(t *testing.T) {
	expr, err := Parse(`if true then 1 else 2`)
	if err != nil {
		t.Fatal(err)
	}
	cond, ok := expr.(*ast.Cond)
	if !ok {
		t.Fatalf("expected Cond, got %#v", expr)
	}
	if _, ok := cond.Pred.(*ast.Boolean); !ok {
		t.Errorf("Pred = %#v", cond.Pred)
	}
}

func TestBareOkRejected(t *testing.T) {
	if _, err := Parse(`ok`); err == nil {
		t.Fatal("bare 'ok' without parens should be a parse error")
	}
}

func TestPatternMatchRoundTripShape(t *testing.T) {
	expr, err := Parse(`match x { ok(v) => v, err(e) => e, _ => 0 }`)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := expr.(*ast.PatternMatch)
	if !ok {
		t.Fatalf("expected PatternMatch, got %#v", expr)
	}
	if len(m.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(m.Arms))
	}
	if _, ok := m.Arms[2].Pattern.(ast.WildCard); !ok {
		t.Errorf("last arm pattern = %#v", m.Arms[2].Pattern)
	}
}

func TestSelectIndex(t *testing.T) {
	expr, err := Parse(`xs[0]`)
	if err != nil {
		t.Fatal(err)
	}
	sel, ok := expr.(*ast.SelectIndex)
	if !ok || sel.Index != 0 {
		t.Fatalf("expected SelectIndex(0), got %#v", expr)
	}
}

func TestTrailingInputRejected(t *testing.T) {
	if _, err := Parse(`1 2`); err == nil {
		t.Fatal("expected a trailing-input parse error")
	}
}
