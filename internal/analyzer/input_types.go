package analyzer

import (
	"sort"

	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/typesystem"
)

// InputTypeInfo is the flat mapping external callers receive from
// ExtractInputTypes: every global variable name a Rib program references,
// to the type the program demands of it.
type InputTypeInfo struct {
	Types map[string]typesystem.Type
	// Names is sorted alphabetically, for stable serialization.
	Names []string
}

// ExtractInputTypes walks a typed AST bottom-up (per spec.md §4.3,
// mirroring golem-rib's RibInputTypeInfo::from_expr) and collects every
// global Identifier's analysed type into a flat name -> type mapping.
// Duplicate names must agree; a conflicting re-occurrence is a TypeError.
func ExtractInputTypes(expr ast.Expr) (*InputTypeInfo, error) {
	info := &InputTypeInfo{Types: map[string]typesystem.Type{}}
	var walkErr error

	ast.Walk(expr, func(node ast.Expr) {
		if walkErr != nil {
			return
		}
		id, ok := node.(*ast.Identifier)
		if !ok || !id.Var.IsGlobal() {
			return
		}
		name := id.Var.Name
		analysed := typesystem.Finalize(id.InferredType())
		if existing, seen := info.Types[name]; seen {
			merged, err := typesystem.Unify("global "+name, existing, analysed)
			if err != nil {
				walkErr = &typesystem.Error{
					Kind:   typesystem.Mismatch,
					Site:   "global " + name,
					Detail: "conflicting types for variable " + name,
				}
				return
			}
			info.Types[name] = merged
			return
		}
		info.Types[name] = analysed
		info.Names = append(info.Names, name)
	})

	if walkErr != nil {
		return nil, walkErr
	}
	sort.Strings(info.Names)
	return info, nil
}
