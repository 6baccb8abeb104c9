// Package ast defines the Rib expression tree: the node variants described
// in the language spec, each carrying a mutable inferred-type slot that the
// analyzer fills in and the evaluator never touches.
package ast

import (
	"github.com/ribflow/rib/internal/typesystem"
)

// Expr is the common interface implemented by every Rib expression node.
// Every node carries an inferred-type slot, mutated in place by the
// analyzer and read (never written) by the evaluator.
type Expr interface {
	// InferredType returns the node's current type, Unknown until inference
	// assigns it.
	InferredType() typesystem.Type
	// SetInferredType mutates the node's type slot in place.
	SetInferredType(t typesystem.Type)
	// Children returns the node's direct expression children, in evaluation
	// order. Used by bottom-up passes (inference, input-type extraction)
	// that need to visit a tree without deep Go-stack recursion.
	Children() []Expr
	// String renders the node back to canonical Rib source text.
	String() string
	exprNode()
}

// typeSlot is embedded by every concrete Expr to carry the mutable
// inferred-type field and its accessors.
type typeSlot struct {
	ty typesystem.Type
}

func (s *typeSlot) InferredType() typesystem.Type {
	if s.ty == nil {
		return typesystem.Unknown{}
	}
	return s.ty
}

func (s *typeSlot) SetInferredType(t typesystem.Type) { s.ty = t }

func (*typeSlot) exprNode() {}

// VariableId identifies a Rib identifier: its source name and whether it is
// free in the program (global, supplied by the external context at
// evaluation time) or bound by a local binder (match arm capture, an
// As-pattern). The origin is decided by the analyzer's scope-resolution
// pass, never by the parser, which has no binder information yet.
type VariableId struct {
	Name   string
	Global bool
}

func (v *VariableId) IsGlobal() bool { return v != nil && v.Global }

// NewGlobalVariableId returns a VariableId provisionally marked global; the
// analyzer demotes it to local if it resolves to an enclosing binder.
func NewGlobalVariableId(name string) *VariableId {
	return &VariableId{Name: name, Global: true}
}

// CompareOp enumerates the Rib comparison operators.
type CompareOp int

const (
	EqualTo CompareOp = iota
	GreaterThan
	GreaterThanOrEqualTo
	LessThan
	LessThanOrEqualTo
)

func (op CompareOp) String() string {
	switch op {
	case EqualTo:
		return "=="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqualTo:
		return ">="
	case LessThan:
		return "<"
	case LessThanOrEqualTo:
		return "<="
	default:
		return "?"
	}
}

// Walk visits every node in the tree rooted at e in bottom-up order,
// calling visit once per node after its children have been visited. This
// mirrors the worklist-based bottom-up walk the analyzer and the
// input-type extractor both need, without recursing on the Go call stack
// for deeply nested ASTs.
func Walk(root Expr, visit func(Expr)) {
	type frame struct {
		node     Expr
		children []Expr
		visited  bool
	}
	stack := []*frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.visited {
			top.visited = true
			top.children = top.node.Children()
			for i := len(top.children) - 1; i >= 0; i-- {
				stack = append(stack, &frame{node: top.children[i]})
			}
			continue
		}
		stack = stack[:len(stack)-1]
		visit(top.node)
	}
}
