package analyzer_test

import (
	"testing"

	"github.com/ribflow/rib/internal/analyzer"
	"github.com/ribflow/rib/internal/parser"
	"github.com/ribflow/rib/internal/typesystem"
)

func TestExtractInputTypesCollectsGlobals(t *testing.T) {
	expr, err := parser.Parse(`if flag then request else 0`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := analyzer.Infer(expr); err != nil {
		t.Fatal(err)
	}
	info, err := analyzer.ExtractInputTypes(expr)
	if err != nil {
		t.Fatal(err)
	}
	flagT, ok := info.Types["flag"]
	if !ok {
		t.Fatalf("expected flag in input types, got %v", info.Types)
	}
	if _, ok := flagT.(typesystem.Bool); !ok {
		t.Fatalf("expected flag typed Bool, got %v", flagT)
	}
	// request isn't a global Identifier — it's its own ast.Request node —
	// so it must not show up in the flat input-type map.
	if _, ok := info.Types["request"]; ok {
		t.Fatal("request should not appear in input type info")
	}
}

func TestExtractInputTypesMergesCompatibleOccurrences(t *testing.T) {
	expr, err := parser.Parse(`a; if a then 1 else 2`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := analyzer.Infer(expr); err != nil {
		t.Fatal(err)
	}
	info, err := analyzer.ExtractInputTypes(expr)
	if err != nil {
		t.Fatal(err)
	}
	aT, ok := info.Types["a"]
	if !ok {
		t.Fatalf("expected a in input types, got %v", info.Types)
	}
	if _, ok := aT.(typesystem.Bool); !ok {
		t.Fatalf("expected the unconstrained first use merged into Bool, got %v", aT)
	}
}

func TestExtractInputTypesRejectsConflictingOccurrences(t *testing.T) {
	expr, err := parser.Parse(`if a then 1 else 2; a.field`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := analyzer.Infer(expr); err != nil {
		t.Fatal(err)
	}
	_, err = analyzer.ExtractInputTypes(expr)
	if err == nil {
		t.Fatal("expected a conflicting-type error for a used as both bool and record")
	}
	typeErr, ok := err.(*typesystem.Error)
	if !ok {
		t.Fatalf("expected a *typesystem.Error, got %T", err)
	}
	if typeErr.Kind != typesystem.Mismatch {
		t.Fatalf("expected Mismatch kind, got %v", typeErr.Kind)
	}
}

func TestExtractInputTypesNamesAreSorted(t *testing.T) {
	expr, err := parser.Parse(`if z then 1 else 0; if a then 1 else 0`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := analyzer.Infer(expr); err != nil {
		t.Fatal(err)
	}
	info, err := analyzer.ExtractInputTypes(expr)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Names) != 2 || info.Names[0] != "a" || info.Names[1] != "z" {
		t.Fatalf("expected sorted names [a z], got %v", info.Names)
	}
}
