package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/ribflow/rib/internal/ast"
)

// exprToDynamic builds the dynamic.Message for one ast.Expr, mirroring the
// Node message in proto.go. Child expressions recurse as nested Node
// messages rather than a oneof per variant, the same generic-tree shape
// analysedTypeToDynamic uses for typesystem.Type.
func exprToDynamic(e ast.Expr) *dynamic.Message {
	msg := dynamic.NewMessage(messageDescriptor("Node"))
	msg.SetFieldByName("inferred_type", analysedTypeToDynamic(e.InferredType()))
	switch n := e.(type) {
	case *ast.Literal:
		msg.SetFieldByName("kind", "literal")
		msg.SetFieldByName("text", n.Text)
	case *ast.Number:
		msg.SetFieldByName("kind", "number")
		msg.SetFieldByName("text", n.Text)
	case *ast.Boolean:
		msg.SetFieldByName("kind", "boolean")
		msg.SetFieldByName("bool_value", n.Value)
	case *ast.Identifier:
		msg.SetFieldByName("kind", "identifier")
		msg.SetFieldByName("name", n.Var.Name)
		msg.SetFieldByName("global", n.Var.Global)
	case *ast.Request:
		msg.SetFieldByName("kind", "request")
	case *ast.WorkerResponse:
		msg.SetFieldByName("kind", "workerResponse")
	case *ast.Concat:
		msg.SetFieldByName("kind", "concat")
		msg.SetFieldByName("children", exprsToAny(n.Parts))
	case *ast.Multiple:
		msg.SetFieldByName("kind", "multiple")
		msg.SetFieldByName("children", exprsToAny(n.Exprs))
	case *ast.Sequence:
		msg.SetFieldByName("kind", "sequence")
		msg.SetFieldByName("children", exprsToAny(n.Elems))
	case *ast.Record:
		msg.SetFieldByName("kind", "record")
		fields := make([]any, len(n.Fields))
		for i, f := range n.Fields {
			fmsg := dynamic.NewMessage(messageDescriptor("RecordFieldNode"))
			fmsg.SetFieldByName("name", f.Name)
			fmsg.SetFieldByName("value", exprToDynamic(f.Value))
			fields[i] = fmsg
		}
		msg.SetFieldByName("fields", fields)
	case *ast.Tuple:
		msg.SetFieldByName("kind", "tuple")
		msg.SetFieldByName("children", exprsToAny(n.Elems))
	case *ast.Option:
		msg.SetFieldByName("kind", "option")
		if n.Value != nil {
			msg.SetFieldByName("children", []any{exprToDynamic(n.Value)})
		}
	case *ast.Result:
		msg.SetFieldByName("kind", "result")
		msg.SetFieldByName("is_ok", n.IsOk)
		msg.SetFieldByName("children", []any{exprToDynamic(n.Value)})
	case *ast.Flags:
		msg.SetFieldByName("kind", "flags")
		msg.SetFieldByName("names", append([]string{}, n.Names...))
	case *ast.SelectField:
		msg.SetFieldByName("kind", "selectField")
		msg.SetFieldByName("name", n.Field)
		msg.SetFieldByName("children", []any{exprToDynamic(n.Target)})
	case *ast.SelectIndex:
		msg.SetFieldByName("kind", "selectIndex")
		msg.SetFieldByName("index", int64(n.Index))
		msg.SetFieldByName("children", []any{exprToDynamic(n.Target)})
	case *ast.Compare:
		msg.SetFieldByName("kind", "compare")
		msg.SetFieldByName("op", n.Op.String())
		msg.SetFieldByName("children", exprsToAny([]ast.Expr{n.Left, n.Right}))
	case *ast.Not:
		msg.SetFieldByName("kind", "not")
		msg.SetFieldByName("children", []any{exprToDynamic(n.Value)})
	case *ast.Cond:
		msg.SetFieldByName("kind", "cond")
		msg.SetFieldByName("children", exprsToAny([]ast.Expr{n.Pred, n.Then, n.Else}))
	case *ast.PatternMatch:
		msg.SetFieldByName("kind", "match")
		msg.SetFieldByName("children", []any{exprToDynamic(n.Scrutinee)})
		arms := make([]any, len(n.Arms))
		for i, a := range n.Arms {
			amsg := dynamic.NewMessage(messageDescriptor("MatchArmNode"))
			amsg.SetFieldByName("pattern", patternToDynamic(a.Pattern))
			amsg.SetFieldByName("body", exprToDynamic(a.Body))
			arms[i] = amsg
		}
		msg.SetFieldByName("arms", arms)
	default:
		msg.SetFieldByName("kind", "literal")
		msg.SetFieldByName("text", e.String())
	}
	return msg
}

func exprsToAny(es []ast.Expr) []any {
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = exprToDynamic(e)
	}
	return out
}

func patternToDynamic(p ast.ArmPattern) *dynamic.Message {
	msg := dynamic.NewMessage(messageDescriptor("PatternNode"))
	switch v := p.(type) {
	case ast.WildCard:
		msg.SetFieldByName("kind", "wildcard")
	case *ast.As:
		msg.SetFieldByName("kind", "as")
		msg.SetFieldByName("name", v.Name)
		msg.SetFieldByName("inner", patternToDynamic(v.Inner))
	case *ast.Constructor:
		msg.SetFieldByName("kind", "constructor")
		msg.SetFieldByName("name", v.Name)
		msg.SetFieldByName("args", patternsToAny(v.Args))
	case *ast.TupleConstructor:
		msg.SetFieldByName("kind", "tupleConstructor")
		msg.SetFieldByName("args", patternsToAny(v.Args))
	case *ast.LiteralPattern:
		msg.SetFieldByName("kind", "literal")
		msg.SetFieldByName("expr", exprToDynamic(v.Value))
	}
	return msg
}

func patternsToAny(ps []ast.ArmPattern) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = patternToDynamic(p)
	}
	return out
}

// MarshalExpr encodes e to its protobuf wire form, the AST round-trip
// spec.md §6 names.
func MarshalExpr(e ast.Expr) ([]byte, error) {
	return exprToDynamic(e).Marshal()
}

// UnmarshalExpr decodes a Node protobuf message back into an ast.Expr.
func UnmarshalExpr(data []byte) (ast.Expr, error) {
	msg := dynamic.NewMessage(messageDescriptor("Node"))
	if err := msg.Unmarshal(data); err != nil {
		return nil, err
	}
	return dynamicToExpr(msg)
}

func dynamicToExpr(msg *dynamic.Message) (ast.Expr, error) {
	kind, _ := msg.GetFieldByName("kind").(string)
	var expr ast.Expr
	switch kind {
	case "literal":
		text, _ := msg.GetFieldByName("text").(string)
		expr = ast.NewLiteral(text)
	case "number":
		text, _ := msg.GetFieldByName("text").(string)
		expr = ast.NewNumber(text)
	case "boolean":
		v, _ := msg.GetFieldByName("bool_value").(bool)
		expr = ast.NewBoolean(v)
	case "identifier":
		name, _ := msg.GetFieldByName("name").(string)
		global, _ := msg.GetFieldByName("global").(bool)
		id := ast.NewIdentifier(name)
		id.Var.Global = global
		expr = id
	case "request":
		expr = ast.NewRequest()
	case "workerResponse":
		expr = ast.NewWorkerResponse()
	case "concat":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		expr = ast.NewConcat(children)
	case "multiple":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		expr = ast.NewMultiple(children)
	case "sequence":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		expr = ast.NewSequence(children)
	case "record":
		raw, _ := msg.GetFieldByName("fields").([]any)
		fields := make([]ast.RecordField, len(raw))
		for i, r := range raw {
			fmsg, ok := r.(*dynamic.Message)
			if !ok {
				return nil, fmt.Errorf("wire: malformed record field")
			}
			name, _ := fmsg.GetFieldByName("name").(string)
			vmsg, _ := fmsg.GetFieldByName("value").(*dynamic.Message)
			v, err := dynamicToExpr(vmsg)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.RecordField{Name: name, Value: v}
		}
		expr = ast.NewRecord(fields)
	case "tuple":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		expr = ast.NewTuple(children)
	case "option":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			expr = ast.NewOptionNone()
		} else {
			expr = ast.NewOptionSome(children[0])
		}
	case "result":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("wire: result node missing value")
		}
		isOk, _ := msg.GetFieldByName("is_ok").(bool)
		if isOk {
			expr = ast.NewResultOk(children[0])
		} else {
			expr = ast.NewResultErr(children[0])
		}
	case "flags":
		var names []string
		switch raw := msg.GetFieldByName("names").(type) {
		case []string:
			names = raw
		case []any:
			for _, n := range raw {
				if s, ok := n.(string); ok {
					names = append(names, s)
				}
			}
		}
		expr = ast.NewFlags(names)
	case "selectField":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("wire: selectField node missing target")
		}
		name, _ := msg.GetFieldByName("name").(string)
		expr = ast.NewSelectField(children[0], name)
	case "selectIndex":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("wire: selectIndex node missing target")
		}
		index, _ := msg.GetFieldByName("index").(int64)
		expr = ast.NewSelectIndex(children[0], int(index))
	case "compare":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) != 2 {
			return nil, fmt.Errorf("wire: compare node needs 2 children, got %d", len(children))
		}
		op, _ := msg.GetFieldByName("op").(string)
		expr = ast.NewCompare(parseCompareOp(op), children[0], children[1])
	case "not":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("wire: not node missing operand")
		}
		expr = ast.NewNot(children[0])
	case "cond":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) != 3 {
			return nil, fmt.Errorf("wire: cond node needs 3 children, got %d", len(children))
		}
		expr = ast.NewCond(children[0], children[1], children[2])
	case "match":
		children, err := dynamicChildren(msg)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("wire: match node missing scrutinee")
		}
		rawArms, _ := msg.GetFieldByName("arms").([]any)
		arms := make([]ast.MatchArm, len(rawArms))
		for i, r := range rawArms {
			amsg, ok := r.(*dynamic.Message)
			if !ok {
				return nil, fmt.Errorf("wire: malformed match arm")
			}
			pmsg, _ := amsg.GetFieldByName("pattern").(*dynamic.Message)
			pat, err := dynamicToPattern(pmsg)
			if err != nil {
				return nil, err
			}
			bmsg, _ := amsg.GetFieldByName("body").(*dynamic.Message)
			body, err := dynamicToExpr(bmsg)
			if err != nil {
				return nil, err
			}
			arms[i] = ast.NewMatchArm(pat, body)
		}
		expr = ast.NewPatternMatch(children[0], arms)
	default:
		return nil, fmt.Errorf("wire: unknown Node kind %q", kind)
	}
	inferredMsg, _ := msg.GetFieldByName("inferred_type").(*dynamic.Message)
	t, err := dynamicToAnalysedType(inferredMsg)
	if err != nil {
		return nil, err
	}
	expr.SetInferredType(t)
	return expr, nil
}

func dynamicChildren(msg *dynamic.Message) ([]ast.Expr, error) {
	raw, _ := msg.GetFieldByName("children").([]any)
	out := make([]ast.Expr, len(raw))
	for i, r := range raw {
		cmsg, ok := r.(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("wire: malformed child node")
		}
		e, err := dynamicToExpr(cmsg)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func dynamicToPattern(msg *dynamic.Message) (ast.ArmPattern, error) {
	if msg == nil {
		return ast.WildCard{}, nil
	}
	kind, _ := msg.GetFieldByName("kind").(string)
	switch kind {
	case "wildcard":
		return ast.WildCard{}, nil
	case "as":
		name, _ := msg.GetFieldByName("name").(string)
		innerMsg, _ := msg.GetFieldByName("inner").(*dynamic.Message)
		inner, err := dynamicToPattern(innerMsg)
		if err != nil {
			return nil, err
		}
		return ast.NewAs(name, inner), nil
	case "constructor":
		name, _ := msg.GetFieldByName("name").(string)
		args, err := dynamicPatternArgs(msg)
		if err != nil {
			return nil, err
		}
		return ast.NewConstructor(name, args), nil
	case "tupleConstructor":
		args, err := dynamicPatternArgs(msg)
		if err != nil {
			return nil, err
		}
		return ast.NewTupleConstructor(args), nil
	case "literal":
		exprMsg, _ := msg.GetFieldByName("expr").(*dynamic.Message)
		e, err := dynamicToExpr(exprMsg)
		if err != nil {
			return nil, err
		}
		return ast.NewLiteralPattern(e), nil
	default:
		return nil, fmt.Errorf("wire: unknown PatternNode kind %q", kind)
	}
}

func dynamicPatternArgs(msg *dynamic.Message) ([]ast.ArmPattern, error) {
	raw, _ := msg.GetFieldByName("args").([]any)
	out := make([]ast.ArmPattern, len(raw))
	for i, r := range raw {
		amsg, ok := r.(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("wire: malformed pattern arg")
		}
		p, err := dynamicToPattern(amsg)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func parseCompareOp(s string) ast.CompareOp {
	switch s {
	case "==":
		return ast.EqualTo
	case ">":
		return ast.GreaterThan
	case ">=":
		return ast.GreaterThanOrEqualTo
	case "<":
		return ast.LessThan
	case "<=":
		return ast.LessThanOrEqualTo
	default:
		return ast.EqualTo
	}
}
