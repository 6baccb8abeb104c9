package evaluator

import (
	"fmt"
	"strconv"

	"github.com/ribflow/rib/internal/ast"
)

// EvalError is the single error shape evaluation produces (§7): a fixed
// message string. Every message below is quoted verbatim from spec.md
// §4.4/§7 — callers' tests depend on the exact wording.
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string { return e.Message }

func errf(format string, args ...any) error {
	return &EvalError{Message: fmt.Sprintf(format, args...)}
}

// env extends a Context with the local bindings match arms introduce;
// local lookups shadow the context.
type env struct {
	ctx    Context
	locals map[string]Value
}

func newEnv(ctx Context) *env { return &env{ctx: ctx, locals: map[string]Value{}} }

func (e *env) extend(name string, v Value) *env {
	locals := make(map[string]Value, len(e.locals)+1)
	for k, val := range e.locals {
		locals[k] = val
	}
	locals[name] = v
	return &env{ctx: e.ctx, locals: locals}
}

func (e *env) lookup(name string) (Value, bool) {
	if v, ok := e.locals[name]; ok {
		return v, true
	}
	return e.ctx.GetKey(name)
}

// Evaluate implements evaluate(expr, ctx) -> Value per spec.md §4.4. expr
// must already be a typed AST (inference has run); evaluation performs no
// further type checking beyond the run-time shape checks each variant's
// semantics requires.
func Evaluate(expr ast.Expr, ctx Context) (Value, error) {
	return eval(expr, newEnv(ctx))
}

func eval(expr ast.Expr, e *env) (Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return StringV(n.Text), nil

	case *ast.Number:
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return Value{}, errf("invalid numeric literal %q", n.Text)
		}
		return NumberV(f), nil

	case *ast.Boolean:
		return BoolV(n.Value), nil

	case *ast.Request:
		v, ok := e.ctx.GetKey("request")
		if !ok {
			return Value{}, errf("Details of request is missing")
		}
		return v, nil

	case *ast.WorkerResponse:
		v, ok := e.ctx.GetPath([]PathStep{{Field: "worker"}, {Field: "response"}})
		if !ok {
			return Value{}, errf("Details of worker.response is missing")
		}
		return v, nil

	case *ast.Identifier:
		name := n.Var.Name
		v, ok := e.lookup(name)
		if !ok {
			return Value{}, errf("No value for the place holder %s", name)
		}
		return v, nil

	case *ast.Concat:
		var out string
		for _, part := range n.Parts {
			v, err := eval(part, e)
			if err != nil {
				return Value{}, err
			}
			if !v.IsPrimitive() {
				return Value{}, errf("Cannot append a complex expression %s to form strings", v.describe())
			}
			out += v.stringForm()
		}
		return StringV(out), nil

	case *ast.Multiple:
		var last Value
		for _, part := range n.Exprs {
			v, err := eval(part, e)
			if err != nil {
				return Value{}, err
			}
			last = v
		}
		return last, nil

	case *ast.Sequence:
		out := make([]Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := eval(el, e)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return SequenceV(out), nil

	case *ast.Record:
		fields := make([]ObjectField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := eval(f.Value, e)
			if err != nil {
				return Value{}, err
			}
			fields[i] = ObjectField{Name: f.Name, Value: v}
		}
		return ObjectV(fields), nil

	case *ast.Tuple:
		out := make([]Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := eval(el, e)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return TupleV(out), nil

	case *ast.Option:
		if n.Value == nil {
			return OptionNone(), nil
		}
		v, err := eval(n.Value, e)
		if err != nil {
			return Value{}, err
		}
		return OptionSome(v), nil

	case *ast.Result:
		v, err := eval(n.Value, e)
		if err != nil {
			return Value{}, err
		}
		if n.IsOk {
			return ResultOk(v), nil
		}
		return ResultErr(v), nil

	case *ast.Flags:
		return FlagsV(n.Names), nil

	case *ast.SelectField:
		base, err := eval(n.Target, e)
		if err != nil {
			return Value{}, err
		}
		if !base.IsObject() {
			return Value{}, errf("Result is not an object to get the field %s", n.Field)
		}
		v, ok := base.Field(n.Field)
		if !ok {
			return Value{}, errf("The result doesn't contain the field %s", n.Field)
		}
		return v, nil

	case *ast.SelectIndex:
		base, err := eval(n.Target, e)
		if err != nil {
			return Value{}, err
		}
		if !base.IsArray() {
			return Value{}, errf("Result is not an array to get the index %d", n.Index)
		}
		if n.Index >= base.Len() {
			return Value{}, errf("The array doesn't contain %d elements", n.Index)
		}
		v, _ := base.Index(n.Index)
		return v, nil

	case *ast.Compare:
		left, err := eval(n.Left, e)
		if err != nil {
			return Value{}, err
		}
		right, err := eval(n.Right, e)
		if err != nil {
			return Value{}, err
		}
		return compare(n.Op, left, right)

	case *ast.Not:
		v, err := eval(n.Value, e)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != KindBool {
			return Value{}, errf("The expression is evaluated to %s but it is not a boolean expression to apply not (!) operator on", v.describe())
		}
		return BoolV(!v.Bool), nil

	case *ast.Cond:
		predV, err := eval(n.Pred, e)
		if err != nil {
			return Value{}, err
		}
		// Both branches are evaluated eagerly so errors surface
		// deterministically regardless of which branch the predicate
		// selects — spec.md §9's documented choice, not lazy
		// short-circuiting.
		thenV, thenErr := eval(n.Then, e)
		elseV, elseErr := eval(n.Else, e)
		if predV.Kind != KindBool {
			return Value{}, errf("The predicate expression is evaluated to %s, but it is not a boolean expression", predV.describe())
		}
		if predV.Bool {
			if thenErr != nil {
				return Value{}, thenErr
			}
			return thenV, nil
		}
		if elseErr != nil {
			return Value{}, elseErr
		}
		return elseV, nil

	case *ast.PatternMatch:
		scrutinee, err := eval(n.Scrutinee, e)
		if err != nil {
			return Value{}, err
		}
		for _, arm := range n.Arms {
			bindings, ok := matchPattern(arm.Pattern, scrutinee)
			if !ok {
				continue
			}
			armEnv := e
			for name, v := range bindings {
				armEnv = armEnv.extend(name, v)
			}
			return eval(arm.Body, armEnv)
		}
		return Value{}, errf("No pattern matched")

	default:
		return Value{}, errf("evaluator: unhandled expression node %T", expr)
	}
}
