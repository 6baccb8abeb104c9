package ast

import (
	"fmt"
	"strings"
)

// ArmPattern is the LHS of a match arm.
type ArmPattern interface {
	// BoundNames returns every local name this pattern binds, in the order
	// they first appear.
	BoundNames() []string
	String() string
	patternNode()
}

// WildCard matches anything and binds nothing.
type WildCard struct{}

func (WildCard) BoundNames() []string { return nil }
func (WildCard) String() string       { return "_" }
func (WildCard) patternNode()         {}

// As is the `name @ pattern` binder: name captures whatever the inner
// pattern matches, in addition to any names the inner pattern itself
// binds.
type As struct {
	Name  string
	Inner ArmPattern
}

func NewAs(name string, inner ArmPattern) *As { return &As{Name: name, Inner: inner} }

func (a *As) BoundNames() []string {
	return append([]string{a.Name}, a.Inner.BoundNames()...)
}
func (a *As) String() string { return fmt.Sprintf("%s @ %s", a.Name, a.Inner.String()) }
func (*As) patternNode()     {}

// Constructor is a named data-constructor pattern, e.g. `Foo(x, _)`.
type Constructor struct {
	Name string
	Args []ArmPattern
}

func NewConstructor(name string, args []ArmPattern) *Constructor {
	return &Constructor{Name: name, Args: args}
}

func (c *Constructor) BoundNames() []string {
	var out []string
	for _, a := range c.Args {
		out = append(out, a.BoundNames()...)
	}
	return out
}
func (c *Constructor) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
func (*Constructor) patternNode() {}

// TupleConstructor is a tuple destructuring pattern, e.g. `(a, b, _)`.
type TupleConstructor struct {
	Args []ArmPattern
}

func NewTupleConstructor(args []ArmPattern) *TupleConstructor {
	return &TupleConstructor{Args: args}
}

func (t *TupleConstructor) BoundNames() []string {
	var out []string
	for _, a := range t.Args {
		out = append(out, a.BoundNames()...)
	}
	return out
}
func (t *TupleConstructor) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (*TupleConstructor) patternNode() {}

// LiteralPattern wraps an Expr used structurally as a pattern: an
// identifier (a binder), a literal constant (an equality test), or an
// option/result constructor applied to a nested pattern-as-expr
// (some(x), ok(x), none, err(x)). Identifiers appearing anywhere inside
// the wrapped expression are binders in the arm's RHS scope, never
// literal equality tests against an outer global of the same name — see
// the spec's open question #2.
type LiteralPattern struct {
	Value Expr
}

func NewLiteralPattern(value Expr) *LiteralPattern { return &LiteralPattern{Value: value} }

func (l *LiteralPattern) BoundNames() []string {
	var out []string
	collectPatternBinders(l.Value, &out)
	return out
}

func collectPatternBinders(e Expr, out *[]string) {
	switch v := e.(type) {
	case *Identifier:
		*out = append(*out, v.Var.Name)
	case *Option:
		if v.Value != nil {
			collectPatternBinders(v.Value, out)
		}
	case *Result:
		collectPatternBinders(v.Value, out)
	case *Tuple:
		for _, el := range v.Elems {
			collectPatternBinders(el, out)
		}
	case *Sequence:
		for _, el := range v.Elems {
			collectPatternBinders(el, out)
		}
	}
}

func (l *LiteralPattern) String() string { return l.Value.String() }
func (*LiteralPattern) patternNode()     {}

// MatchArm is one `pattern => expr` arm of a match expression.
type MatchArm struct {
	Pattern ArmPattern
	Body    Expr
}

func NewMatchArm(pattern ArmPattern, body Expr) MatchArm {
	return MatchArm{Pattern: pattern, Body: body}
}
