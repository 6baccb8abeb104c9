package evaluator_test

import (
	"strings"
	"testing"

	"github.com/ribflow/rib/internal/evaluator"
	"github.com/ribflow/rib/internal/parser"
)

func evalSource(t *testing.T, source string, ctx evaluator.Context) (evaluator.Value, error) {
	t.Helper()
	expr, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return evaluator.Evaluate(expr, ctx)
}

func emptyCtx() evaluator.Context {
	return evaluator.NewMapContext(map[string]evaluator.Value{})
}

func TestEmptyStringLiteralEvaluatesToEmptyString(t *testing.T) {
	v, err := evalSource(t, `""`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindString || v.Str != "" {
		t.Fatalf("got %#v", v)
	}
}

func TestDirectInterpolationReturnsRequestValue(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"request": evaluator.NumberV(42),
	})
	v, err := evalSource(t, `"${request}"`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 42 {
		t.Fatalf("got %#v", v)
	}
}

func TestConcatInterpolationJoinsPrimitives(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"name": evaluator.StringV("world"),
	})
	v, err := evalSource(t, `"hello ${name}!"`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindString || v.Str != "hello world!" {
		t.Fatalf("got %#v", v)
	}
}

func TestConcatRejectsComplexValue(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"xs": evaluator.SequenceV([]evaluator.Value{evaluator.NumberV(1)}),
	})
	_, err := evalSource(t, `"value is ${xs}"`, ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Cannot append a complex expression") {
		t.Fatalf("got %v", err)
	}
}

func TestFlagsLiteralEvaluatesToFlagsValue(t *testing.T) {
	v, err := evalSource(t, `"${{a, b, c}}"`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindFlags || strings.Join(v.Names, ",") != "a,b,c" {
		t.Fatalf("got %#v", v)
	}
}

func TestIfThenElseSelectsBranch(t *testing.T) {
	v, err := evalSource(t, `if true then 1 else 2`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 1 {
		t.Fatalf("got %#v", v)
	}

	v, err = evalSource(t, `if false then 1 else 2`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 2 {
		t.Fatalf("got %#v", v)
	}
}

func TestCondNonBooleanPredicateIsRejected(t *testing.T) {
	_, err := evalSource(t, `if 1 then 1 else 2`, emptyCtx())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "not a boolean expression") {
		t.Fatalf("got %v", err)
	}
}

func TestCondPredicateErrorTakesPrecedenceOverBranchError(t *testing.T) {
	// Both branches are evaluated eagerly; a non-boolean predicate's error
	// must win even when the branch taken would itself have failed.
	_, err := evalSource(t, `if 1 then missing_ident else 2`, emptyCtx())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "not a boolean expression") {
		t.Fatalf("expected the predicate-type error to win, got %v", err)
	}
}

func TestCondSelectedBranchErrorSurfaces(t *testing.T) {
	_, err := evalSource(t, `if true then missing_ident else 2`, emptyCtx())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "No value for the place holder") {
		t.Fatalf("got %v", err)
	}
}

func TestPatternMatchOkErrWildcard(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.ResultOk(evaluator.NumberV(7)),
	})
	v, err := evalSource(t, `match x { ok(v) => v, err(e) => e, _ => 0 }`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 7 {
		t.Fatalf("got %#v", v)
	}

	ctx = evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.ResultErr(evaluator.StringV("boom")),
	})
	v, err = evalSource(t, `match x { ok(v) => v, err(e) => e, _ => 0 }`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindString || v.Str != "boom" {
		t.Fatalf("got %#v", v)
	}

	ctx = evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.BoolV(true),
	})
	v, err = evalSource(t, `match x { ok(v) => v, err(e) => e, _ => 0 }`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 0 {
		t.Fatalf("expected the wildcard arm, got %#v", v)
	}
}

func TestPatternMatchNoArmMatches(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.ResultOk(evaluator.NumberV(1)),
	})
	_, err := evalSource(t, `match x { err(e) => e }`, ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "No pattern matched") {
		t.Fatalf("got %v", err)
	}
}

func TestSelectIndexOutOfBounds(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"xs": evaluator.SequenceV([]evaluator.Value{evaluator.NumberV(1), evaluator.NumberV(2)}),
	})
	_, err := evalSource(t, `xs[5]`, ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "The array doesn't contain 5 elements") {
		t.Fatalf("got %v", err)
	}
}

func TestSelectIndexOnNonArray(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.NumberV(1),
	})
	_, err := evalSource(t, `x[0]`, ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Result is not an array") {
		t.Fatalf("got %v", err)
	}
}

func TestSelectFieldOnNonObject(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.NumberV(1),
	})
	_, err := evalSource(t, `x.foo`, ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Result is not an object") {
		t.Fatalf("got %v", err)
	}
}

func TestSelectFieldMissing(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.ObjectV([]evaluator.ObjectField{{Name: "a", Value: evaluator.NumberV(1)}}),
	})
	_, err := evalSource(t, `x.b`, ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "The result doesn't contain the field b") {
		t.Fatalf("got %v", err)
	}
}

func TestMissingRequestIsAnError(t *testing.T) {
	_, err := evalSource(t, `request`, emptyCtx())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Details of request is missing") {
		t.Fatalf("got %v", err)
	}
}

func TestMissingWorkerResponseIsAnError(t *testing.T) {
	_, err := evalSource(t, `worker.response`, emptyCtx())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Details of worker.response is missing") {
		t.Fatalf("got %v", err)
	}
}

func TestMissingIdentifierIsAnError(t *testing.T) {
	_, err := evalSource(t, `nope`, emptyCtx())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "No value for the place holder nope") {
		t.Fatalf("got %v", err)
	}
}

func TestNestedOptionOfSequence(t *testing.T) {
	ctx := evaluator.NewMapContext(map[string]evaluator.Value{
		"x": evaluator.OptionSome(evaluator.SequenceV([]evaluator.Value{
			evaluator.NumberV(1), evaluator.NumberV(2), evaluator.NumberV(3),
		})),
	})
	v, err := evalSource(t, `match x { some(xs) => xs[1], none => 0 }`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 2 {
		t.Fatalf("got %#v", v)
	}
}

func TestNotOnNonBooleanIsAnError(t *testing.T) {
	_, err := evalSource(t, `!1`, emptyCtx())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "not a boolean expression to apply not (!) operator on") {
		t.Fatalf("got %v", err)
	}
}

func TestNotNegatesBoolean(t *testing.T) {
	v, err := evalSource(t, `!false`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindBool || v.Bool != true {
		t.Fatalf("got %#v", v)
	}
}

func TestCompareNumbersAndStrings(t *testing.T) {
	v, err := evalSource(t, `1 < 2`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindBool || !v.Bool {
		t.Fatalf("got %#v", v)
	}

	v, err = evalSource(t, `"abc" >= "abd"`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindBool || v.Bool {
		t.Fatalf("got %#v", v)
	}
}

func TestRecordAndTupleEvaluation(t *testing.T) {
	v, err := evalSource(t, `{a: 1, b: "two"}.a`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 1 {
		t.Fatalf("got %#v", v)
	}

	v, err = evalSource(t, `(1, "two", true)`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindTuple || len(v.Elems) != 3 {
		t.Fatalf("got %#v", v)
	}
}

func TestMultipleReturnsLastExpr(t *testing.T) {
	v, err := evalSource(t, `1; 2; 3`, emptyCtx())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != evaluator.KindNumber || v.Number != 3 {
		t.Fatalf("got %#v", v)
	}
}
