package rib_test

import (
	"strings"
	"testing"

	"github.com/ribflow/rib/pkg/rib"
)

func TestCompileAndEvaluateEndToEnd(t *testing.T) {
	expr, info, err := rib.Compile(`if flag then request.amount else 0`)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := info.Types["flag"]; !ok {
		t.Fatalf("expected flag in input types, got %v", info.Types)
	}

	ctx := rib.NewMapContext(map[string]any{
		"flag":    true,
		"request": map[string]any{"amount": float64(99)},
	})

	result, err := rib.Evaluate(expr, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ToJSON(); got != float64(99) {
		t.Fatalf("got %v", got)
	}
}

func TestCompilePropagatesParseError(t *testing.T) {
	_, _, err := rib.Compile(`1 2`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestCompilePropagatesTypeError(t *testing.T) {
	_, _, err := rib.Compile(`if 1 then 2 else 3`)
	if err == nil {
		t.Fatal("expected a type error for a non-boolean predicate")
	}
}

func TestToStringRoundTripsThroughCompile(t *testing.T) {
	expr, _, err := rib.Compile(`match x { ok(v) => v, err(e) => e, _ => 0 }`)
	if err != nil {
		t.Fatal(err)
	}
	out := rib.ToString(expr)
	if !strings.HasPrefix(out, "match x {") {
		t.Fatalf("got %q", out)
	}
}

func TestNewMapContextDecodesNestedJSON(t *testing.T) {
	ctx := rib.NewMapContext(map[string]any{
		"xs": []any{float64(1), float64(2), float64(3)},
	})
	expr, err := rib.Parse(`xs[1]`)
	if err != nil {
		t.Fatal(err)
	}
	result, err := rib.Evaluate(expr, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ToJSON(); got != float64(2) {
		t.Fatalf("got %v", got)
	}
}
