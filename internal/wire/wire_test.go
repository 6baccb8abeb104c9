package wire_test

import (
	"testing"

	"github.com/ribflow/rib/internal/analyzer"
	"github.com/ribflow/rib/internal/evaluator"
	"github.com/ribflow/rib/internal/parser"
	"github.com/ribflow/rib/internal/prettyprinter"
	"github.com/ribflow/rib/internal/typesystem"
	"github.com/ribflow/rib/internal/wire"
)

func TestMarshalAnalysedTypeRoundTrip(t *testing.T) {
	original := typesystem.Record{Fields: []typesystem.Field{
		{Name: "id", Type: typesystem.Num{Kind: typesystem.U64}},
		{Name: "tags", Type: typesystem.List{Elem: typesystem.Str{}}},
		{Name: "note", Type: typesystem.Option{Inner: typesystem.Str{}}},
		{Name: "outcome", Type: typesystem.Result{Ok: typesystem.Bool{}, Err: typesystem.Str{}}},
		{Name: "mode", Type: typesystem.Enum{Names: []string{"fast", "slow"}}},
		{Name: "perms", Type: typesystem.Flags{Names: []string{"read", "write"}}},
		{Name: "shape", Type: typesystem.Variant{Cases: []typesystem.VariantCase{
			{Name: "circle", Payload: typesystem.Num{Kind: typesystem.F64}},
			{Name: "point"},
		}}},
	}}

	data, err := wire.MarshalAnalysedType(original)
	if err != nil {
		t.Fatal(err)
	}
	got, err := wire.UnmarshalAnalysedType(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != original.String() {
		t.Fatalf("round trip changed shape:\n got:  %s\n want: %s", got.String(), original.String())
	}
}

func TestMarshalInputTypeInfoRoundTrip(t *testing.T) {
	original := map[string]typesystem.Type{
		"flag": typesystem.Bool{},
		"name": typesystem.Str{},
	}
	data, err := wire.MarshalInputTypeInfo(original)
	if err != nil {
		t.Fatal(err)
	}
	got, err := wire.UnmarshalInputTypeInfo(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(original) {
		t.Fatalf("got %d entries, want %d", len(got), len(original))
	}
	for name, want := range original {
		gotType, ok := got[name]
		if !ok {
			t.Errorf("missing %s in round-tripped input types", name)
			continue
		}
		if gotType.String() != want.String() {
			t.Errorf("%s: got %s, want %s", name, gotType.String(), want.String())
		}
	}
}

func astRoundTripString(t *testing.T, source string) string {
	t.Helper()
	expr, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	if _, err := analyzer.Infer(expr); err != nil {
		t.Fatalf("infer %q: %v", source, err)
	}
	data, err := wire.MarshalExpr(expr)
	if err != nil {
		t.Fatalf("marshal %q: %v", source, err)
	}
	got, err := wire.UnmarshalExpr(data)
	if err != nil {
		t.Fatalf("unmarshal %q: %v", source, err)
	}
	return prettyprinter.ToString(got)
}

func TestMarshalExprRoundTrip(t *testing.T) {
	cases := []string{
		`1`,
		`true`,
		`"hello ${name}!"`,
		`[1, 2, 3]`,
		`{a: 1, b: "two"}`,
		`(1, "two", true)`,
		`some(1)`,
		`none`,
		`ok(1)`,
		`err("boom")`,
		`"${{a, b}}"`,
		`xs[0].field`,
		`a >= b`,
		`!flag`,
		`if flag then 1 else 2`,
		`match x { ok(v) => v, err(e) => e, _ => 0 }`,
		`1; 2; 3`,
		`request`,
		`worker.response`,
	}
	for _, source := range cases {
		want := func() string {
			expr, err := parser.Parse(source)
			if err != nil {
				t.Fatalf("parse %q: %v", source, err)
			}
			return prettyprinter.ToString(expr)
		}()
		got := astRoundTripString(t, source)
		if got != want {
			t.Errorf("%q: round trip produced %q, want %q", source, got, want)
		}
	}
}

func TestMarshalEnvelopeRoundTrip(t *testing.T) {
	expr, err := parser.Parse(`if flag then 1 else 2`)
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
	result := evaluator.NumberV(1)

	env := wire.NewEnvelope(expr, info, &result, nil)
	if env.RequestID == "" {
		t.Fatal("expected a stamped request id")
	}

	data, err := wire.MarshalEnvelope(env)
	if err != nil {
		t.Fatal(err)
	}
	got, err := wire.UnmarshalEnvelope(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.RequestID != env.RequestID {
		t.Errorf("request id: got %q, want %q", got.RequestID, env.RequestID)
	}
	if got.Err != "" {
		t.Errorf("expected no error, got %q", got.Err)
	}
	if prettyprinter.ToString(got.AST) != prettyprinter.ToString(expr) {
		t.Errorf("ast: got %q, want %q", prettyprinter.ToString(got.AST), prettyprinter.ToString(expr))
	}
	flagT, ok := got.InputTypes["flag"]
	if !ok || flagT.String() != "bool" {
		t.Errorf("expected flag: bool in input types, got %v", got.InputTypes)
	}
	if got.Result != float64(1) {
		t.Errorf("result: got %v, want 1", got.Result)
	}
}

func TestMarshalEnvelopeWithError(t *testing.T) {
	expr, err := parser.Parse(`1`)
	if err != nil {
		t.Fatal(err)
	}
	env := wire.NewEnvelope(expr, nil, nil, &evaluator.EvalError{Message: "boom"})
	data, err := wire.MarshalEnvelope(env)
	if err != nil {
		t.Fatal(err)
	}
	got, err := wire.UnmarshalEnvelope(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Err != "boom" {
		t.Fatalf("got %q", got.Err)
	}
	if got.Result != nil {
		t.Fatalf("expected no result, got %v", got.Result)
	}
}
