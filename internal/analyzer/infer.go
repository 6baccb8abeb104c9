// Package analyzer implements Rib's two-direction type-inference pass and
// the input-type extractor that walks a typed AST for external callers.
//
// Expected types flow downward (a caller passes the type it demands of a
// subexpression); observed types flow upward (a callee returns what it
// actually produced). The two meet through typesystem.Unify, which merges
// them into one type as soon as they meet; the pass does not keep them
// apart as an AllOf to be resolved later. The pass mutates each node's inferred-type slot in place and is re-run to a
// fixed point rather than solved with a separate substitution pass,
// matching the in-place mutation design spec.md §9 calls out explicitly.
package analyzer

import (
	"fmt"

	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/typesystem"
)

// scope tracks local bindings introduced by match-arm patterns, mapping a
// bound name to the type it was bound at.
type scope struct {
	parent *scope
	names  map[string]typesystem.Type
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]typesystem.Type{}}
}

func (s *scope) lookup(name string) (typesystem.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *scope) bind(name string, t typesystem.Type) {
	s.names[name] = t
}

// Infer runs type inference over expr in place, with no expected type at
// the root, repeating the pass until no node's inferred type changes (at
// most 16 passes), and returns the typesystem.Error if any node's
// constraints are unsatisfiable.
func Infer(expr ast.Expr) (ast.Expr, error) {
	prev := ""
	for pass := 0; pass < 16; pass++ {
		if _, err := infer(expr, typesystem.Unknown{}, newScope(nil)); err != nil {
			return nil, err
		}
		var snapshot []string
		ast.Walk(expr, func(n ast.Expr) {
			snapshot = append(snapshot, n.InferredType().String())
		})
		cur := fmt.Sprint(snapshot)
		if cur == prev {
			break
		}
		prev = cur
	}
	return expr, nil
}

// infer unifies expr's inferred type with `expected`, recursing into
// children as each variant's shape demands, and returns the resulting
// (possibly still partially unknown) type.
func infer(expr ast.Expr, expected typesystem.Type, sc *scope) (typesystem.Type, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return unifyNode(e, typesystem.Str{}, expected, "string literal")

	case *ast.Number:
		return unifyNode(e, typesystem.Num{Kind: typesystem.AnyNum}, expected, "number literal")

	case *ast.Boolean:
		return unifyNode(e, typesystem.Bool{}, expected, "boolean literal")

	case *ast.Identifier:
		if t, ok := sc.lookup(e.Var.Name); ok {
			e.Var.Global = false
			return unifyNode(e, t, expected, "identifier "+e.Var.Name)
		}
		e.Var.Global = true
		// A global's type is whatever the context demands; record it.
		t, err := unifyNode(e, expected, expected, "identifier "+e.Var.Name)
		if err != nil {
			return nil, err
		}
		return t, nil

	case *ast.Request:
		return unifyNode(e, typesystem.Unknown{}, expected, "request")

	case *ast.WorkerResponse:
		return unifyNode(e, typesystem.Unknown{}, expected, "worker.response")

	case *ast.Concat:
		for _, part := range e.Parts {
			if _, err := infer(part, typesystem.Unknown{}, sc); err != nil {
				return nil, err
			}
		}
		return unifyNode(e, typesystem.Str{}, expected, "string interpolation")

	case *ast.Multiple:
		var last typesystem.Type = typesystem.Unknown{}
		for i, part := range e.Exprs {
			want := typesystem.Type(typesystem.Unknown{})
			if i == len(e.Exprs)-1 {
				want = expected
			}
			t, err := infer(part, want, sc)
			if err != nil {
				return nil, err
			}
			last = t
		}
		return unifyNode(e, last, expected, "block")

	case *ast.Sequence:
		elemExpected := typesystem.Type(typesystem.Unknown{})
		if lst, ok := expected.(typesystem.List); ok {
			elemExpected = lst.Elem
		}
		var elem typesystem.Type = typesystem.Unknown{}
		for _, item := range e.Elems {
			t, err := infer(item, elemExpected, sc)
			if err != nil {
				return nil, err
			}
			elem, err = typesystem.Unify("sequence element", elem, t)
			if err != nil {
				return nil, err
			}
		}
		return unifyNode(e, typesystem.List{Elem: elem}, expected, "sequence")

	case *ast.Record:
		var expectFields map[string]typesystem.Type
		if rec, ok := expected.(typesystem.Record); ok {
			expectFields = map[string]typesystem.Type{}
			for _, f := range rec.Fields {
				expectFields[f.Name] = f.Type
				found := false
				for _, lf := range e.Fields {
					found = found || lf.Name == f.Name
				}
				if !found {
					return nil, typesystem.NewUnknownField("select "+f.Name, f.Name)
				}
			}
		}
		fields := make([]typesystem.Field, len(e.Fields))
		for i, f := range e.Fields {
			want := typesystem.Type(typesystem.Unknown{})
			if expectFields != nil {
				if t, ok := expectFields[f.Name]; ok {
					want = t
				}
			}
			t, err := infer(f.Value, want, sc)
			if err != nil {
				return nil, err
			}
			fields[i] = typesystem.Field{Name: f.Name, Type: t}
		}
		return unifyNode(e, typesystem.Record{Fields: fields}, expected, "record")

	case *ast.Tuple:
		var expectElems []typesystem.Type
		if tup, ok := expected.(typesystem.Tuple); ok && len(tup.Elems) == len(e.Elems) {
			expectElems = tup.Elems
		}
		elems := make([]typesystem.Type, len(e.Elems))
		for i, item := range e.Elems {
			want := typesystem.Type(typesystem.Unknown{})
			if expectElems != nil {
				want = expectElems[i]
			}
			t, err := infer(item, want, sc)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return unifyNode(e, typesystem.Tuple{Elems: elems}, expected, "tuple")

	case *ast.Option:
		innerExpected := typesystem.Type(typesystem.Unknown{})
		if opt, ok := expected.(typesystem.Option); ok {
			innerExpected = opt.Inner
		}
		inner := typesystem.Type(typesystem.Unknown{})
		if e.Value != nil {
			t, err := infer(e.Value, innerExpected, sc)
			if err != nil {
				return nil, err
			}
			inner = t
		}
		return unifyNode(e, typesystem.Option{Inner: inner}, expected, "option")

	case *ast.Result:
		okExpected, errExpected := typesystem.Type(typesystem.Unknown{}), typesystem.Type(typesystem.Unknown{})
		if res, ok := expected.(typesystem.Result); ok {
			okExpected, errExpected = res.Ok, res.Err
		}
		okT, errT := typesystem.Type(typesystem.Unknown{}), typesystem.Type(typesystem.Unknown{})
		if e.IsOk {
			t, err := infer(e.Value, okExpected, sc)
			if err != nil {
				return nil, err
			}
			okT = t
		} else {
			t, err := infer(e.Value, errExpected, sc)
			if err != nil {
				return nil, err
			}
			errT = t
		}
		return unifyNode(e, typesystem.Result{Ok: okT, Err: errT}, expected, "result")

	case *ast.Flags:
		return unifyNode(e, typesystem.Flags{Names: e.Names}, expected, "flags")

	case *ast.SelectField:
		fieldExpected := typesystem.Record{Fields: []typesystem.Field{{Name: e.Field, Type: expected}}}
		baseT, err := infer(e.Target, fieldExpected, sc)
		if err != nil {
			return nil, err
		}
		rec, ok := baseT.(typesystem.Record)
		if !ok {
			if _, isAllOf := baseT.(typesystem.AllOf); !isAllOf {
				return unifyNode(e, expected, expected, "field "+e.Field)
			}
		}
		var fieldType typesystem.Type = typesystem.Unknown{}
		if ok {
			if ft, found := rec.FieldByName(e.Field); found {
				fieldType = ft.Type
			} else {
				return nil, typesystem.NewUnknownField("select "+e.Field, e.Field)
			}
		}
		return unifyNode(e, fieldType, expected, "field "+e.Field)

	case *ast.SelectIndex:
		listExpected := typesystem.List{Elem: expected}
		baseT, err := infer(e.Target, listExpected, sc)
		if err != nil {
			return nil, err
		}
		elem := typesystem.Type(typesystem.Unknown{})
		if lst, ok := baseT.(typesystem.List); ok {
			elem = lst.Elem
		}
		return unifyNode(e, elem, expected, fmt.Sprintf("index %d", e.Index))

	case *ast.Compare:
		numExpected := typesystem.Type(typesystem.Unknown{})
		if _, err := infer(e.Left, numExpected, sc); err != nil {
			return nil, err
		}
		if _, err := infer(e.Right, numExpected, sc); err != nil {
			return nil, err
		}
		return unifyNode(e, typesystem.Bool{}, expected, "comparison")

	case *ast.Not:
		if _, err := infer(e.Value, typesystem.Bool{}, sc); err != nil {
			return nil, err
		}
		return unifyNode(e, typesystem.Bool{}, expected, "not")

	case *ast.Cond:
		if _, err := infer(e.Pred, typesystem.Bool{}, sc); err != nil {
			return nil, err
		}
		thenT, err := infer(e.Then, expected, sc)
		if err != nil {
			return nil, err
		}
		elseT, err := infer(e.Else, expected, sc)
		if err != nil {
			return nil, err
		}
		merged, err := typesystem.Unify("if/then/else branches", thenT, elseT)
		if err != nil {
			return nil, err
		}
		return unifyNode(e, merged, expected, "cond")

	case *ast.PatternMatch:
		scrutT, err := infer(e.Scrutinee, typesystem.Unknown{}, sc)
		if err != nil {
			return nil, err
		}
		var result typesystem.Type = typesystem.Unknown{}
		armScopes := make([]*scope, len(e.Arms))
		for i := range e.Arms {
			arm := &e.Arms[i]
			armScope := newScope(sc)
			armScopes[i] = armScope
			if err := bindPattern(arm.Pattern, scrutT, armScope); err != nil {
				return nil, err
			}
			t, err := infer(arm.Body, expected, armScope)
			if err != nil {
				return nil, err
			}
			result, err = typesystem.Unify("match arm bodies", result, t)
			if err != nil {
				return nil, err
			}
		}
		// Push the type the arms agree on back into every arm body, so a
		// body left unconstrained on its own (e.g. a bare binder) takes it.
		for i := range e.Arms {
			if _, err := infer(e.Arms[i].Body, result, armScopes[i]); err != nil {
				return nil, err
			}
		}
		return unifyNode(e, result, expected, "match")

	default:
		return nil, fmt.Errorf("analyzer: unhandled expression node %T", expr)
	}
}

// unifyNode unifies observed (bottom-up) and expected (top-down) types
// against whatever the node's slot already holds, storing the result back
// into the node — the mechanism spec.md §4.2 calls the AllOf meet.
func unifyNode(e ast.Expr, observed, expected typesystem.Type, site string) (typesystem.Type, error) {
	merged, err := typesystem.Unify(site, observed, expected)
	if err != nil {
		return nil, err
	}
	merged, err = typesystem.Unify(site, merged, e.InferredType())
	if err != nil {
		return nil, err
	}
	e.SetInferredType(merged)
	return merged, nil
}

// bindPattern introduces the local names a pattern binds at the scrutinee
// type scrutT, per spec.md §4.2: a Constructor("ok", [x]) arm binds x to
// the ok payload type; As(n, p) binds n to the scrutinee's type; WildCard
// binds nothing.
func bindPattern(pat ast.ArmPattern, scrutT typesystem.Type, sc *scope) error {
	switch p := pat.(type) {
	case ast.WildCard:
		return nil
	case *ast.As:
		sc.bind(p.Name, scrutT)
		return bindPattern(p.Inner, scrutT, sc)
	case *ast.Constructor:
		payload := constructorPayload(p.Name, scrutT)
		for _, arg := range p.Args {
			if err := bindPattern(arg, payload, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.TupleConstructor:
		var elems []typesystem.Type
		if tup, ok := scrutT.(typesystem.Tuple); ok {
			elems = tup.Elems
		}
		for i, arg := range p.Args {
			t := typesystem.Type(typesystem.Unknown{})
			if elems != nil && i < len(elems) {
				t = elems[i]
			}
			if err := bindPattern(arg, t, sc); err != nil {
				return err
			}
		}
		return nil
	case *ast.LiteralPattern:
		bindLiteralPattern(p.Value, scrutT, sc)
		return nil
	default:
		return fmt.Errorf("analyzer: unhandled pattern %T", pat)
	}
}

// bindLiteralPattern mirrors ast.collectPatternBinders' traversal of an
// Expr used structurally as a pattern, but threads the scrutinee type
// through so that identifiers nested inside some/ok/err/tuple/sequence
// shapes bind at their actual payload type rather than the whole
// scrutinee's type — e.g. in an `ok(x)` arm (parsed as a Literal pattern
// wrapping Result{IsOk:true, Value:Identifier("x")} since "ok"/"err" are
// keyword tokens the constructor-pattern attempt never sees), x binds at
// the scrutinee's Result.Ok type, per the spec's open question #2.
func bindLiteralPattern(e ast.Expr, t typesystem.Type, sc *scope) {
	switch v := e.(type) {
	case *ast.Identifier:
		sc.bind(v.Var.Name, t)
	case *ast.Option:
		if v.Value == nil {
			return
		}
		inner := typesystem.Type(typesystem.Unknown{})
		if opt, ok := t.(typesystem.Option); ok {
			inner = opt.Inner
		}
		bindLiteralPattern(v.Value, inner, sc)
	case *ast.Result:
		payload := typesystem.Type(typesystem.Unknown{})
		if res, ok := t.(typesystem.Result); ok {
			if v.IsOk {
				payload = res.Ok
			} else {
				payload = res.Err
			}
		}
		bindLiteralPattern(v.Value, payload, sc)
	case *ast.Tuple:
		var elems []typesystem.Type
		if tup, ok := t.(typesystem.Tuple); ok {
			elems = tup.Elems
		}
		for i, el := range v.Elems {
			elemT := typesystem.Type(typesystem.Unknown{})
			if elems != nil && i < len(elems) {
				elemT = elems[i]
			}
			bindLiteralPattern(el, elemT, sc)
		}
	case *ast.Sequence:
		elemT := typesystem.Type(typesystem.Unknown{})
		if lst, ok := t.(typesystem.List); ok {
			elemT = lst.Elem
		}
		for _, el := range v.Elems {
			bindLiteralPattern(el, elemT, sc)
		}
	}
}

// constructorPayload returns the type a named-constructor arm's arguments
// bind at, given the scrutinee type. some/none/ok/err peel Option/Result;
// any other name is a Variant case lookup.
func constructorPayload(name string, scrutT typesystem.Type) typesystem.Type {
	switch name {
	case "some":
		if opt, ok := scrutT.(typesystem.Option); ok {
			return opt.Inner
		}
	case "ok":
		if res, ok := scrutT.(typesystem.Result); ok {
			return res.Ok
		}
	case "err":
		if res, ok := scrutT.(typesystem.Result); ok {
			return res.Err
		}
	default:
		if v, ok := scrutT.(typesystem.Variant); ok {
			if c, found := v.CaseByName(name); found && c.Payload != nil {
				return c.Payload
			}
		}
	}
	return typesystem.Unknown{}
}
