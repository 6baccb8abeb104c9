// Package typesystem models the Rib InferredType lattice: the shapes the
// analyzer assigns to AST nodes, and the AnalysedType view of them exported
// to callers through RibInputTypeInfo.
package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every InferredType variant implements.
type Type interface {
	String() string
	typeNode()
}

// Unknown is the type of a node inference has not yet constrained.
type Unknown struct{}

func (Unknown) String() string { return "unknown" }
func (Unknown) typeNode()      {}

// Bool is the boolean type.
type Bool struct{}

func (Bool) String() string { return "bool" }
func (Bool) typeNode()      {}

// Str is the string type.
type Str struct{}

func (Str) String() string { return "string" }
func (Str) typeNode()      {}

// Chr is the character type (used for pattern constants over single chars).
type Chr struct{}

func (Chr) String() string { return "chr" }
func (Chr) typeNode()      {}

// NumKind enumerates the Rib numeric widths.
type NumKind int

const (
	S8 NumKind = iota
	S16
	S32
	S64
	U8
	U16
	U32
	U64
	F32
	F64
)

func (k NumKind) String() string {
	switch k {
	case S8:
		return "s8"
	case S16:
		return "s16"
	case S32:
		return "s32"
	case S64:
		return "s64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "num"
	}
}

// Num is a numeric type of a specific width. A plain numeric literal with
// no other constraint defaults to F64 (see Finalize in unify.go); comparisons and
// concatenations widen freely across Num variants.
type Num struct {
	Kind NumKind
}

func (n Num) String() string { return n.Kind.String() }
func (Num) typeNode()        {}

// IsNum reports whether t is some Num variant.
func IsNum(t Type) bool {
	_, ok := t.(Num)
	return ok
}

// List is a homogeneous sequence type.
type List struct {
	Elem Type
}

func (l List) String() string { return fmt.Sprintf("list<%s>", str(l.Elem)) }
func (List) typeNode()        {}

// Tuple is a fixed-arity heterogeneous product type.
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = str(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (Tuple) typeNode() {}

// Field is one named member of a Record.
type Field struct {
	Name string
	Type Type
}

// Record is a fixed set of uniquely-named fields. Field order is preserved
// from the source program, not sorted, since §3 requires field order to
// survive round-tripping.
type Record struct {
	Fields []Field
}

func (r Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, str(f.Type))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (Record) typeNode() {}

// FieldByName returns the field with the given name, or false.
func (r Record) FieldByName(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Option is option<T>.
type Option struct {
	Inner Type
}

func (o Option) String() string { return fmt.Sprintf("option<%s>", str(o.Inner)) }
func (Option) typeNode()        {}

// Result is result<Ok, Err>.
type Result struct {
	Ok  Type
	Err Type
}

func (r Result) String() string {
	return fmt.Sprintf("result<%s, %s>", str(r.Ok), str(r.Err))
}
func (Result) typeNode() {}

// VariantCase is one case of a Variant type: a name with an optional
// payload type (none for a nullary case).
type VariantCase struct {
	Name    string
	Payload Type // nil for a nullary case
}

// Variant is a sum of named, optionally-payload-carrying constructors, the
// shape produced by custom pattern-match constructors such as `Foo(x)`.
type Variant struct {
	Cases []VariantCase
}

func (v Variant) String() string {
	parts := make([]string, len(v.Cases))
	for i, c := range v.Cases {
		if c.Payload == nil {
			parts[i] = c.Name
		} else {
			parts[i] = fmt.Sprintf("%s(%s)", c.Name, str(c.Payload))
		}
	}
	return "variant{" + strings.Join(parts, ", ") + "}"
}
func (Variant) typeNode() {}

// CaseByName returns the variant case with the given name, or false.
func (v Variant) CaseByName(name string) (VariantCase, bool) {
	for _, c := range v.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return VariantCase{}, false
}

// Enum is a closed set of nullary symbolic names.
type Enum struct {
	Names []string
}

func (e Enum) String() string { return "enum{" + strings.Join(e.Names, ", ") + "}" }
func (Enum) typeNode()        {}

// Flags is a set of symbolic flags, as produced by "${{a, b}}" literals.
type Flags struct {
	Names []string
}

func (f Flags) String() string { return "flags{" + strings.Join(f.Names, ", ") + "}" }
func (Flags) typeNode()        {}

// AllOf is a set of constraints applying to the same node. The inference
// pass never builds one, because Unify merges constraints as soon as they
// meet; an AllOf that reaches Unify (e.g. one decoded from the wire) is
// folded into a single merged type. See Unify.
type AllOf struct {
	Types []Type
}

func (a AllOf) String() string {
	parts := make([]string, len(a.Types))
	for i, t := range a.Types {
		parts[i] = str(t)
	}
	sort.Strings(parts)
	return "allOf(" + strings.Join(parts, " & ") + ")"
}
func (AllOf) typeNode() {}

func str(t Type) string {
	if t == nil {
		return "unknown"
	}
	return t.String()
}

// IsUnknown reports whether t is Unknown or nil.
func IsUnknown(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(Unknown)
	return ok
}
