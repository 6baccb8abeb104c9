package evaluator

import "github.com/ribflow/rib/internal/ast"

// compare implements the five comparison operators' run-time semantics
// (§4.4): numbers compare numerically (promoted to float64 regardless of
// declared width, per original_source/golem-rib's coercion — see
// SPEC_FULL.md §12), strings lexicographically, booleans by equality
// only, and any other pairing — or a type mismatch between kinds — is an
// evaluation error.
func compare(op ast.CompareOp, left, right Value) (Value, error) {
	switch {
	case left.Kind == KindNumber && right.Kind == KindNumber:
		return BoolV(compareOrdered(op, cmpFloat(left.Number, right.Number))), nil

	case left.Kind == KindString && right.Kind == KindString:
		return BoolV(compareOrdered(op, cmpString(left.Str, right.Str))), nil

	case left.Kind == KindBool && right.Kind == KindBool:
		if op != ast.EqualTo {
			return Value{}, errf("booleans only support equality comparison, got %s", op.String())
		}
		return BoolV(left.Bool == right.Bool), nil

	default:
		return Value{}, errf("cannot compare %s with %s", left.describe(), right.describe())
	}
}

func compareOrdered(op ast.CompareOp, c int) bool {
	switch op {
	case ast.EqualTo:
		return c == 0
	case ast.GreaterThan:
		return c > 0
	case ast.GreaterThanOrEqualTo:
		return c >= 0
	case ast.LessThan:
		return c < 0
	case ast.LessThanOrEqualTo:
		return c <= 0
	default:
		return false
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
