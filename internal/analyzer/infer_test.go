package analyzer_test

import (
	"testing"

	"github.com/ribflow/rib/internal/analyzer"
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/parser"
	"github.com/ribflow/rib/internal/typesystem"
)

func parseAndInfer(t *testing.T, source string) ast.Expr {
	t.Helper()
	expr, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	if _, err := analyzer.Infer(expr); err != nil {
		t.Fatalf("infer %q: %v", source, err)
	}
	return expr
}

func TestInferNumberLiteralDefaultsToF64(t *testing.T) {
	expr := parseAndInfer(t, `1`)
	got := typesystem.Finalize(expr.InferredType())
	if _, ok := got.(typesystem.Num); !ok {
		t.Fatalf("expected a Num type, got %v", got)
	}
	if got.(typesystem.Num).Kind != typesystem.F64 {
		t.Fatalf("expected F64 default, got %v", got)
	}
}

func TestInferGlobalIdentifierMarkedGlobal(t *testing.T) {
	expr := parseAndInfer(t, `x`)
	id, ok := expr.(*ast.Identifier)
	if !ok {
		t.Fatalf("expected Identifier, got %#v", expr)
	}
	if !id.Var.IsGlobal() {
		t.Fatal("expected x to be marked global")
	}
}

func TestInferCondPredicateMustBeBool(t *testing.T) {
	_, err := func() (ast.Expr, error) {
		expr, err := parser.Parse(`if 1 then 2 else 3`)
		if err != nil {
			return nil, err
		}
		return analyzer.Infer(expr)
	}()
	if err == nil {
		t.Fatal("expected a type error for a non-boolean predicate")
	}
	if _, ok := err.(*typesystem.Error); !ok {
		t.Fatalf("expected a *typesystem.Error, got %T: %v", err, err)
	}
}

func TestInferCondPredicateIdentifierIsBound(t *testing.T) {
	expr := parseAndInfer(t, `if flag then 1 else 2`)
	cond := expr.(*ast.Cond)
	id := cond.Pred.(*ast.Identifier)
	if _, ok := id.InferredType().(typesystem.Bool); !ok {
		t.Fatalf("expected predicate identifier typed Bool, got %v", id.InferredType())
	}
}

func TestInferCondBranchesMustUnify(t *testing.T) {
	_, err := func() (ast.Expr, error) {
		expr, err := parser.Parse(`if true then 1 else "x"`)
		if err != nil {
			return nil, err
		}
		return analyzer.Infer(expr)
	}()
	if err == nil {
		t.Fatal("expected a type error for mismatched branch types")
	}
}

func TestInferMatchBindsOkPayloadType(t *testing.T) {
	expr := parseAndInfer(t, `match x { ok(v) => v, err(e) => 0, _ => 0 }`)
	match := expr.(*ast.PatternMatch)
	okArm := match.Arms[0]
	body := okArm.Body.(*ast.Identifier)
	if _, ok := body.InferredType().(typesystem.Num); !ok {
		t.Fatalf("expected v bound at a Num type from the ok(v)=>v arm, got %v", body.InferredType())
	}
}

func TestInferSelectFieldUnknownFieldIsError(t *testing.T) {
	expr, err := parser.Parse(`{a: 1}.b`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := analyzer.Infer(expr); err == nil {
		t.Fatal("expected an unknown-field type error")
	}
}

func TestInferSelectIndexPropagatesElementType(t *testing.T) {
	expr := parseAndInfer(t, `[1, 2, 3][0]`)
	sel := expr.(*ast.SelectIndex)
	if _, ok := sel.InferredType().(typesystem.Num); !ok {
		t.Fatalf("expected Num element type, got %v", sel.InferredType())
	}
}

func TestInferTupleConstructorPatternBindsElementTypes(t *testing.T) {
	expr := parseAndInfer(t, `match (1, "two") { (a, b) => a }`)
	match := expr.(*ast.PatternMatch)
	body := match.Arms[0].Body.(*ast.Identifier)
	if _, ok := body.InferredType().(typesystem.Num); !ok {
		t.Fatalf("expected a bound as Num, got %v", body.InferredType())
	}
}
