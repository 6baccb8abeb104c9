package evaluator

import (
	"strconv"

	"github.com/ribflow/rib/internal/ast"
)

// matchPattern tries to match pat against v, returning the bindings it
// introduces on success. Patterns are tried in source order by the
// caller; the first match wins and WildCard always matches (§8).
func matchPattern(pat ast.ArmPattern, v Value) (map[string]Value, bool) {
	switch p := pat.(type) {
	case ast.WildCard:
		return map[string]Value{}, true

	case *ast.As:
		inner, ok := matchPattern(p.Inner, v)
		if !ok {
			return nil, false
		}
		inner[p.Name] = v
		return inner, true

	case *ast.Constructor:
		return matchConstructor(p.Name, p.Args, v)

	case *ast.TupleConstructor:
		if v.Kind != KindTuple || len(v.Elems) != len(p.Args) {
			return nil, false
		}
		out := map[string]Value{}
		for i, arg := range p.Args {
			bindings, ok := matchPattern(arg, v.Elems[i])
			if !ok {
				return nil, false
			}
			for k, val := range bindings {
				out[k] = val
			}
		}
		return out, true

	case *ast.LiteralPattern:
		return matchLiteralPattern(p.Value, v)

	default:
		return nil, false
	}
}

// matchConstructor implements the predefined some/none/ok/err constructor
// patterns plus arbitrary named-Variant constructors.
func matchConstructor(name string, args []ast.ArmPattern, v Value) (map[string]Value, bool) {
	switch name {
	case "some":
		if v.Kind != KindOption || v.Inner == nil || len(args) != 1 {
			return nil, false
		}
		return matchPattern(args[0], *v.Inner)
	case "none":
		if v.Kind != KindOption || v.Inner != nil || len(args) != 0 {
			return nil, false
		}
		return map[string]Value{}, true
	case "ok":
		if v.Kind != KindResult || !v.IsOk || v.Inner == nil || len(args) != 1 {
			return nil, false
		}
		return matchPattern(args[0], *v.Inner)
	case "err":
		if v.Kind != KindResult || v.IsOk || v.Inner == nil || len(args) != 1 {
			return nil, false
		}
		return matchPattern(args[0], *v.Inner)
	default:
		if v.Kind != KindVariant || v.Name != name {
			return nil, false
		}
		if len(args) == 0 {
			return map[string]Value{}, true
		}
		if v.Inner == nil || len(args) != 1 {
			return nil, false
		}
		return matchPattern(args[0], *v.Inner)
	}
}

// matchLiteralPattern handles an ast.Literal arm pattern, which wraps an
// Expr used structurally: an identifier is an unconditional binder
// (spec's open question #2), and some/none/ok/err/tuple/sequence shapes
// nested inside it destructure the value the same way a dedicated
// Constructor/TupleConstructor pattern would, for the forms the parser's
// expression fallback produces (some/none/ok/err are keyword tokens the
// constructor-pattern attempt never sees — see analyzer/infer.go).
func matchLiteralPattern(e ast.Expr, v Value) (map[string]Value, bool) {
	switch node := e.(type) {
	case *ast.Identifier:
		return map[string]Value{node.Var.Name: v}, true

	case *ast.Number:
		if v.Kind != KindNumber {
			return nil, false
		}
		want, err := parseNumberLiteral(node.Text)
		if err != nil || want != v.Number {
			return nil, false
		}
		return map[string]Value{}, true

	case *ast.Literal:
		if v.Kind != KindString || v.Str != node.Text {
			return nil, false
		}
		return map[string]Value{}, true

	case *ast.Boolean:
		if v.Kind != KindBool || node.Value != v.Bool {
			return nil, false
		}
		return map[string]Value{}, true

	case *ast.Option:
		if node.Value == nil {
			if v.Kind != KindOption || v.Inner != nil {
				return nil, false
			}
			return map[string]Value{}, true
		}
		if v.Kind != KindOption || v.Inner == nil {
			return nil, false
		}
		return matchLiteralPattern(node.Value, *v.Inner)

	case *ast.Result:
		if v.Kind != KindResult || v.IsOk != node.IsOk || v.Inner == nil {
			return nil, false
		}
		return matchLiteralPattern(node.Value, *v.Inner)

	case *ast.Tuple:
		if v.Kind != KindTuple || len(v.Elems) != len(node.Elems) {
			return nil, false
		}
		out := map[string]Value{}
		for i, el := range node.Elems {
			bindings, ok := matchLiteralPattern(el, v.Elems[i])
			if !ok {
				return nil, false
			}
			for k, val := range bindings {
				out[k] = val
			}
		}
		return out, true

	case *ast.Sequence:
		if v.Kind != KindSequence || len(v.Elems) != len(node.Elems) {
			return nil, false
		}
		out := map[string]Value{}
		for i, el := range node.Elems {
			bindings, ok := matchLiteralPattern(el, v.Elems[i])
			if !ok {
				return nil, false
			}
			for k, val := range bindings {
				out[k] = val
			}
		}
		return out, true

	default:
		return nil, false
	}
}

func parseNumberLiteral(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}
