// Package pipeline composes Rib's compile-time stages — parse, infer
// types, extract input types — into one sequential run. Every stage is
// called, but a stage whose input is missing because an earlier stage
// failed does no work, so a run records at most the first error.
package pipeline

import (
	"github.com/ribflow/rib/internal/analyzer"
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/parser"
)

// Context carries a compilation unit through each stage of the pipeline.
// Each stage reads what earlier stages produced and records its own
// result or error; it never clears a result a previous stage set.
type Context struct {
	Source string

	AST  ast.Expr
	Info *analyzer.InputTypeInfo

	ParseErr error
	TypeErr  error
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs a fixed sequence of stages over one Context.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order. A stage that finds an earlier
// failure (no AST, or a TypeErr already set) returns the Context
// unchanged, so at most one of ParseErr and TypeErr ends up set.
func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}

// ParseStage runs parser.Parse over ctx.Source.
type ParseStage struct{}

func (ParseStage) Process(ctx *Context) *Context {
	expr, err := parser.Parse(ctx.Source)
	if err != nil {
		ctx.ParseErr = err
		return ctx
	}
	ctx.AST = expr
	return ctx
}

// InferStage runs analyzer.Infer over ctx.AST, when parsing succeeded.
type InferStage struct{}

func (InferStage) Process(ctx *Context) *Context {
	if ctx.AST == nil {
		return ctx
	}
	if _, err := analyzer.Infer(ctx.AST); err != nil {
		ctx.TypeErr = err
	}
	return ctx
}

// ExtractStage runs analyzer.ExtractInputTypes over the typed ctx.AST.
type ExtractStage struct{}

func (ExtractStage) Process(ctx *Context) *Context {
	if ctx.AST == nil || ctx.TypeErr != nil {
		return ctx
	}
	info, err := analyzer.ExtractInputTypes(ctx.AST)
	if err != nil {
		ctx.TypeErr = err
		return ctx
	}
	ctx.Info = info
	return ctx
}

// Standard is the parse -> infer -> extract pipeline pkg/rib.Compile runs.
func Standard() *Pipeline {
	return New(ParseStage{}, InferStage{}, ExtractStage{})
}
