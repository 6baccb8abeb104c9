// Package prettyprinter implements to_string(ast): the canonical textual
// rendering operation spec.md §6 names, round-tripping through the parser
// per §8's round-trip laws.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ribflow/rib/internal/ast"
)

// CodePrinter accumulates rendered source text into an indent-aware
// buffer, the same buffered-writer shape the teacher's own code printer
// used for its (much larger) surface language — kept here because match
// expressions still benefit from indented multi-line rendering even
// though most Rib expressions print on one line.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func newPrinter() *CodePrinter { return &CodePrinter{} }

func (p *CodePrinter) write(s string) { p.buf.WriteString(s) }

func (p *CodePrinter) writeIndent() {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
}

// ToString renders expr to its canonical Rib source form.
func ToString(expr ast.Expr) string {
	p := newPrinter()
	p.visit(expr)
	return p.buf.String()
}

func (p *CodePrinter) visit(expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.Literal:
		p.write(quote(n.Text))
	case *ast.Number:
		p.write(n.Text)
	case *ast.Boolean:
		p.write(n.String())
	case *ast.Identifier:
		p.write(n.Var.Name)
	case *ast.Request:
		p.write("request")
	case *ast.WorkerResponse:
		p.write("worker.response")
	case *ast.Concat:
		p.visitConcat(n)
	case *ast.Multiple:
		for i, sub := range n.Exprs {
			if i > 0 {
				p.write(";\n")
				p.writeIndent()
			}
			p.visit(sub)
		}
	case *ast.Sequence:
		p.writeList("[", "]", n.Elems)
	case *ast.Record:
		p.write("{")
		for i, f := range n.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name)
			p.write(": ")
			p.visit(f.Value)
		}
		p.write("}")
	case *ast.Tuple:
		p.writeList("(", ")", n.Elems)
	case *ast.Option:
		if n.Value == nil {
			p.write("none")
			return
		}
		p.write("some(")
		p.visit(n.Value)
		p.write(")")
	case *ast.Result:
		if n.IsOk {
			p.write("ok(")
		} else {
			p.write("err(")
		}
		p.visit(n.Value)
		p.write(")")
	case *ast.Flags:
		p.write("\"${{" + strings.Join(n.Names, ", ") + "}}\"")
	case *ast.SelectField:
		p.visit(n.Target)
		p.write(".")
		p.write(n.Field)
	case *ast.SelectIndex:
		p.visit(n.Target)
		p.write(fmt.Sprintf("[%d]", n.Index))
	case *ast.Compare:
		p.visit(n.Left)
		p.write(" ")
		p.write(n.Op.String())
		p.write(" ")
		p.visit(n.Right)
	case *ast.Not:
		p.write("!")
		p.visit(n.Value)
	case *ast.Cond:
		p.write("if ")
		p.visit(n.Pred)
		p.write(" then ")
		p.visit(n.Then)
		p.write(" else ")
		p.visit(n.Else)
	case *ast.PatternMatch:
		p.visitMatch(n)
	default:
		p.write(expr.String())
	}
}

func (p *CodePrinter) writeList(open, close string, elems []ast.Expr) {
	p.write(open)
	for i, e := range elems {
		if i > 0 {
			p.write(", ")
		}
		p.visit(e)
	}
	p.write(close)
}

// visitConcat renders a string literal with interpolation parts. A
// collapsed single-interpolation literal never reaches here as a Concat
// node (collapseLiteralParts unwraps it at parse time) — that case prints
// through the unwrapped node's own branch above.
func (p *CodePrinter) visitConcat(c *ast.Concat) {
	p.write(`"`)
	for _, part := range c.Parts {
		p.visitStringPart(part)
	}
	p.write(`"`)
}

func (p *CodePrinter) visitStringPart(part ast.Expr) {
	if lit, ok := part.(*ast.Literal); ok {
		p.write(lit.Text)
		return
	}
	p.write("${")
	p.visit(part)
	p.write("}")
}

func (p *CodePrinter) visitMatch(m *ast.PatternMatch) {
	p.write("match ")
	p.visit(m.Scrutinee)
	p.write(" {\n")
	p.indent++
	for i, arm := range m.Arms {
		p.writeIndent()
		p.write(arm.Pattern.String())
		p.write(" => ")
		p.visit(arm.Body)
		if i < len(m.Arms)-1 {
			p.write(",")
		}
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
	return b.String()
}
