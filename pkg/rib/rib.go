// Package rib is the public facade over the Rib expression language: parse
// a script, infer and extract its input types, evaluate it against a
// context, and render an AST back to canonical source. Everything here is
// a thin wrapper over internal/parser, internal/analyzer, and
// internal/evaluator — kept in one package so a host embedding Rib never
// needs to import an internal/ path directly.
package rib

import (
	"github.com/ribflow/rib/internal/analyzer"
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/evaluator"
	"github.com/ribflow/rib/internal/parser"
	"github.com/ribflow/rib/internal/pipeline"
	"github.com/ribflow/rib/internal/prettyprinter"
	"github.com/ribflow/rib/internal/typesystem"
)

// Expr is a parsed and, once Compile succeeds, type-inferred Rib program.
type Expr = ast.Expr

// Value is an evaluated Rib result.
type Value = evaluator.Value

// Context supplies the values of a program's global identifiers, and the
// designated `request` / `worker.response` expressions, at evaluation time.
type Context = evaluator.Context

// InputTypeInfo is the name -> type mapping a compiled program's free
// globals require, extracted after type inference.
type InputTypeInfo = analyzer.InputTypeInfo

// Parse parses source into an AST, performing no type inference.
func Parse(source string) (Expr, error) {
	return parser.Parse(source)
}

// Compile parses source, runs type inference over it in place, and
// extracts its input-type requirements. This is the parse -> infer ->
// extract pipeline a host normally wants before evaluating a program
// against a context it doesn't yet know the shape of.
func Compile(source string) (Expr, *InputTypeInfo, error) {
	ctx := pipeline.Standard().Run(&pipeline.Context{Source: source})
	if ctx.ParseErr != nil {
		return nil, nil, ctx.ParseErr
	}
	if ctx.TypeErr != nil {
		return ctx.AST, nil, ctx.TypeErr
	}
	return ctx.AST, ctx.Info, nil
}

// InferTypes runs bidirectional type inference over expr in place.
func InferTypes(expr Expr) error {
	_, err := analyzer.Infer(expr)
	return err
}

// ExtractInputTypes walks a type-inferred expr and returns the types its
// free global identifiers require.
func ExtractInputTypes(expr Expr) (*InputTypeInfo, error) {
	return analyzer.ExtractInputTypes(expr)
}

// Evaluate runs expr against ctx, producing a Value or an EvalError.
func Evaluate(expr Expr, ctx Context) (Value, error) {
	return evaluator.Evaluate(expr, ctx)
}

// ToString renders expr back to canonical Rib source text.
func ToString(expr Expr) string {
	return prettyprinter.ToString(expr)
}

// FromString parses and compiles source in one step, equivalent to Compile.
func FromString(source string) (Expr, *InputTypeInfo, error) {
	return Compile(source)
}

// NewMapContext builds a Context backed by a plain map of global values,
// e.g. decoded from a request's JSON or YAML body. Each root value is
// converted through the same decoding evaluator.FromJSON uses for a
// Context's nested fields and array elements.
func NewMapContext(values map[string]any) Context {
	roots := make(map[string]Value, len(values))
	for name, raw := range values {
		roots[name] = evaluator.FromJSON(raw)
	}
	return evaluator.NewMapContext(roots)
}

// Type re-exports the inferred-type lattice so callers inspecting
// InputTypeInfo never need to import internal/typesystem directly.
type Type = typesystem.Type
