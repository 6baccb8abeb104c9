package prettyprinter_test

import (
	"testing"

	"github.com/ribflow/rib/internal/parser"
	"github.com/ribflow/rib/internal/prettyprinter"
)

// roundTrip checks spec.md §8's stability law: printing a parsed
// expression and re-parsing the result must print identically again.
func roundTrip(t *testing.T, source string) string {
	t.Helper()
	expr, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	out := prettyprinter.ToString(expr)

	reparsed, err := parser.Parse(out)
	if err != nil {
		t.Fatalf("re-parse printed form %q (from %q): %v", out, source, err)
	}
	again := prettyprinter.ToString(reparsed)
	if out != again {
		t.Fatalf("printing is not stable: %q != %q", out, again)
	}
	return out
}

func TestToStringEmptyLiteral(t *testing.T) {
	if got := roundTrip(t, `""`); got != `""` {
		t.Fatalf("got %q", got)
	}
}

func TestToStringNumberAndBoolean(t *testing.T) {
	if got := roundTrip(t, `42`); got != "42" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `true`); got != "true" {
		t.Fatalf("got %q", got)
	}
}

func TestToStringIdentifier(t *testing.T) {
	if got := roundTrip(t, `foo`); got != "foo" {
		t.Fatalf("got %q", got)
	}
}

func TestToStringRequestAndWorkerResponse(t *testing.T) {
	if got := roundTrip(t, `request`); got != "request" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `worker.response`); got != "worker.response" {
		t.Fatalf("got %q", got)
	}
}

func TestToStringConcatInterpolation(t *testing.T) {
	got := roundTrip(t, `"hello ${name}!"`)
	if got != `"hello ${name}!"` {
		t.Fatalf("got %q", got)
	}
}

func TestToStringFlagsLiteral(t *testing.T) {
	got := roundTrip(t, `"${{a, b, c}}"`)
	if got != `"${{a, b, c}}"` {
		t.Fatalf("got %q", got)
	}
}

func TestToStringSequenceAndTuple(t *testing.T) {
	if got := roundTrip(t, `[1, 2, 3]`); got != "[1, 2, 3]" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `(1, "two", true)`); got != `(1, "two", true)` {
		t.Fatalf("got %q", got)
	}
}

func TestToStringRecord(t *testing.T) {
	got := roundTrip(t, `{a: 1, b: "two"}`)
	if got != `{a: 1, b: "two"}` {
		t.Fatalf("got %q", got)
	}
}

func TestToStringOptionAndResult(t *testing.T) {
	if got := roundTrip(t, `some(1)`); got != "some(1)" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `none`); got != "none" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `ok(1)`); got != "ok(1)" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `err("boom")`); got != `err("boom")` {
		t.Fatalf("got %q", got)
	}
}

func TestToStringSelectAndCompareAndNot(t *testing.T) {
	if got := roundTrip(t, `xs[0].field`); got != "xs[0].field" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `a >= b`); got != "a >= b" {
		t.Fatalf("got %q", got)
	}
	if got := roundTrip(t, `!flag`); got != "!flag" {
		t.Fatalf("got %q", got)
	}
}

func TestToStringCond(t *testing.T) {
	got := roundTrip(t, `if flag then 1 else 2`)
	if got != "if flag then 1 else 2" {
		t.Fatalf("got %q", got)
	}
}

func TestToStringMatchRendersArmsIndented(t *testing.T) {
	got := roundTrip(t, `match x { ok(v) => v, err(e) => e, _ => 0 }`)
	want := "match x {\n  ok(v) => v,\n  err(e) => e,\n  _ => 0\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestToStringMultipleJoinsWithSemicolons(t *testing.T) {
	got := roundTrip(t, `1; 2; 3`)
	if got != "1;\n2;\n3" {
		t.Fatalf("got %q", got)
	}
}
