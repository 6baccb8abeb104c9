// Package evaluator implements Rib's evaluate(expr, ctx) -> Value pass:
// pure, synchronous, and total except for the fixed catalogue of
// evaluation errors spec.md §4.4/§7 document. Every error string produced
// here reproduces the spec's wording bit-for-bit; callers' tests depend
// on it.
package evaluator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags a Value's runtime shape.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindObject
	KindOption
	KindResult
	KindVariant
	KindEnum
	KindFlags
	KindTuple
	KindComplexJSON
)

// Value is the tagged runtime value the evaluator produces. A single
// struct (rather than an interface per variant) is used because, unlike
// the AST and InferredType lattices, Value has no behavior beyond storage
// and JSON rendering — the teacher's own evaluator.go takes the same
// flat-struct approach for its runtime values.
type Value struct {
	Kind Kind

	Bool   bool
	Number float64
	Str    string

	Elems []Value // Sequence, Tuple

	// Object / Variant / Enum / Flags / Option / Result payloads.
	Fields []ObjectField // Object: ordered key/value pairs
	Name   string        // Variant case name, Enum case name
	Inner  *Value         // Option(Some)/Result payload/Variant payload; nil otherwise
	IsOk   bool           // Result only
	Names  []string       // Flags

	// ComplexJSON preserves an opaque decoded JSON subtree (map/slice) the
	// evaluator does not itself need to interpret further.
	JSON any
}

// ObjectField is one ordered key/value pair of an Object value.
type ObjectField struct {
	Name  string
	Value Value
}

func Null() Value                { return Value{Kind: KindNull} }
func BoolV(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func NumberV(n float64) Value    { return Value{Kind: KindNumber, Number: n} }
func StringV(s string) Value     { return Value{Kind: KindString, Str: s} }
func SequenceV(vs []Value) Value { return Value{Kind: KindSequence, Elems: vs} }
func ObjectV(fs []ObjectField) Value {
	return Value{Kind: KindObject, Fields: fs}
}
func TupleV(vs []Value) Value { return Value{Kind: KindTuple, Elems: vs} }
func FlagsV(names []string) Value {
	return Value{Kind: KindFlags, Names: names}
}
func EnumV(name string) Value { return Value{Kind: KindEnum, Name: name} }
func OptionSome(v Value) Value {
	return Value{Kind: KindOption, Inner: &v}
}
func OptionNone() Value { return Value{Kind: KindOption, Inner: nil} }
func ResultOk(v Value) Value {
	return Value{Kind: KindResult, IsOk: true, Inner: &v}
}
func ResultErr(v Value) Value {
	return Value{Kind: KindResult, IsOk: false, Inner: &v}
}
func VariantV(name string, payload *Value) Value {
	return Value{Kind: KindVariant, Name: name, Inner: payload}
}
func ComplexJSON(v any) Value { return Value{Kind: KindComplexJSON, JSON: v} }

// IsPrimitive reports whether v is a bare JSON scalar: the only shapes
// Concat is allowed to stringify (§4.4).
func (v Value) IsPrimitive() bool {
	switch v.Kind {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	default:
		return false
	}
}

// IsObject/IsArray report the two container shapes SelectField and
// SelectIndex require, after unwrapping ComplexJSON.
func (v Value) IsObject() bool { return v.Kind == KindObject || v.objectJSON() != nil }
func (v Value) IsArray() bool  { return v.Kind == KindSequence || v.arrayJSON() != nil }

func (v Value) objectJSON() map[string]any {
	if v.Kind != KindComplexJSON {
		return nil
	}
	m, _ := v.JSON.(map[string]any)
	return m
}

func (v Value) arrayJSON() []any {
	if v.Kind != KindComplexJSON {
		return nil
	}
	s, _ := v.JSON.([]any)
	return s
}

// Field looks up a named field on an Object or ComplexJSON-object value.
func (v Value) Field(name string) (Value, bool) {
	if v.Kind == KindObject {
		for _, f := range v.Fields {
			if f.Name == name {
				return f.Value, true
			}
		}
		return Value{}, false
	}
	if m := v.objectJSON(); m != nil {
		raw, ok := m[name]
		if !ok {
			return Value{}, false
		}
		return FromJSON(raw), true
	}
	return Value{}, false
}

// Index looks up a positional element on a Sequence or ComplexJSON-array
// value.
func (v Value) Index(i int) (Value, bool) {
	if v.Kind == KindSequence {
		if i < 0 || i >= len(v.Elems) {
			return Value{}, false
		}
		return v.Elems[i], true
	}
	if s := v.arrayJSON(); s != nil {
		if i < 0 || i >= len(s) {
			return Value{}, false
		}
		return FromJSON(s[i]), true
	}
	return Value{}, false
}

// Len reports the element count of an array-shaped value, or -1 if v is
// not array-shaped.
func (v Value) Len() int {
	if v.Kind == KindSequence {
		return len(v.Elems)
	}
	if s := v.arrayJSON(); s != nil {
		return len(s)
	}
	return -1
}

// FromJSON wraps a decoded context value into a Value. Besides the plain
// encoding/json shapes (nil, bool, float64, string, []any, map[string]any),
// it also accepts int/int64/json.Number — the integer shapes gopkg.in/yaml.v3
// and a host's own map[string]any produce — normalizing them to the same
// NumberV float64 representation as the JSON path. Primitive values are
// preserved as primitives (§4.4); objects and arrays become ComplexJSON so
// the evaluator can keep indexing into them lazily without a full
// structural conversion up front.
func FromJSON(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case bool:
		return BoolV(v)
	case float64:
		return NumberV(v)
	case int:
		return NumberV(float64(v))
	case int64:
		return NumberV(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return ComplexJSON(v)
		}
		return NumberV(f)
	case string:
		return StringV(v)
	case map[string]any, []any:
		return ComplexJSON(v)
	default:
		return ComplexJSON(v)
	}
}

// ToJSON converts v to a plain encoding/json-compatible tree, for the
// caller to serialize.
func (v Value) ToJSON() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	case KindString:
		return v.Str
	case KindSequence, KindTuple:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = e.ToJSON()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name] = f.Value.ToJSON()
		}
		return out
	case KindOption:
		if v.Inner == nil {
			return nil
		}
		return v.Inner.ToJSON()
	case KindResult:
		key := "err"
		if v.IsOk {
			key = "ok"
		}
		var payload any
		if v.Inner != nil {
			payload = v.Inner.ToJSON()
		}
		return map[string]any{key: payload}
	case KindVariant:
		if v.Inner == nil {
			return v.Name
		}
		return map[string]any{v.Name: v.Inner.ToJSON()}
	case KindEnum:
		return v.Name
	case KindFlags:
		return append([]string{}, v.Names...)
	case KindComplexJSON:
		return v.JSON
	default:
		return nil
	}
}

// stringForm renders v the way Concat renders a primitive operand, and
// the way error messages interpolate "{v}" placeholders.
func (v Value) stringForm() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindString:
		return v.Str
	default:
		return v.describe()
	}
}

// describe renders a non-primitive value for error-message interpolation
// (e.g. the Cond/Not "it is not a boolean expression" messages quote the
// evaluated value).
func (v Value) describe() string {
	switch v.Kind {
	case KindSequence:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.describe()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.describe()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindObject:
		names := make([]string, len(v.Fields))
		byName := make(map[string]Value, len(v.Fields))
		for i, f := range v.Fields {
			names[i] = f.Name
			byName[f.Name] = f.Value
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = fmt.Sprintf("%s: %s", n, byName[n].describe())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindOption:
		if v.Inner == nil {
			return "none"
		}
		return "some(" + v.Inner.describe() + ")"
	case KindResult:
		if v.Inner == nil {
			if v.IsOk {
				return "ok"
			}
			return "err"
		}
		if v.IsOk {
			return "ok(" + v.Inner.describe() + ")"
		}
		return "err(" + v.Inner.describe() + ")"
	case KindVariant:
		if v.Inner == nil {
			return v.Name
		}
		return v.Name + "(" + v.Inner.describe() + ")"
	case KindEnum:
		return v.Name
	case KindFlags:
		return "{" + strings.Join(v.Names, ", ") + "}"
	case KindComplexJSON:
		return fmt.Sprintf("%v", v.JSON)
	default:
		return v.stringForm()
	}
}
