package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/ribflow/rib/internal/typesystem"
)

// analysedTypeToDynamic builds the dynamic.Message for one typesystem.Type,
// mirroring the AnalysedType message in proto.go.
func analysedTypeToDynamic(t typesystem.Type) *dynamic.Message {
	msg := dynamic.NewMessage(messageDescriptor("AnalysedType"))
	if t == nil {
		t = typesystem.Unknown{}
	}
	switch v := t.(type) {
	case typesystem.Unknown:
		msg.SetFieldByName("kind", "unknown")
	case typesystem.Bool:
		msg.SetFieldByName("kind", "bool")
	case typesystem.Str:
		msg.SetFieldByName("kind", "str")
	case typesystem.Chr:
		msg.SetFieldByName("kind", "chr")
	case typesystem.Num:
		msg.SetFieldByName("kind", "num")
		msg.SetFieldByName("num_kind", v.Kind.String())
	case typesystem.List:
		msg.SetFieldByName("kind", "list")
		msg.SetFieldByName("elems", []any{analysedTypeToDynamic(v.Elem)})
	case typesystem.Tuple:
		msg.SetFieldByName("kind", "tuple")
		msg.SetFieldByName("elems", analysedTypesToAny(v.Elems))
	case typesystem.Record:
		msg.SetFieldByName("kind", "record")
		fields := make([]any, len(v.Fields))
		for i, f := range v.Fields {
			fmsg := dynamic.NewMessage(messageDescriptor("RecordFieldType"))
			fmsg.SetFieldByName("name", f.Name)
			fmsg.SetFieldByName("type", analysedTypeToDynamic(f.Type))
			fields[i] = fmsg
		}
		msg.SetFieldByName("fields", fields)
	case typesystem.Option:
		msg.SetFieldByName("kind", "option")
		msg.SetFieldByName("option_inner", analysedTypeToDynamic(v.Inner))
	case typesystem.Result:
		msg.SetFieldByName("kind", "result")
		msg.SetFieldByName("result_ok", analysedTypeToDynamic(v.Ok))
		msg.SetFieldByName("result_err", analysedTypeToDynamic(v.Err))
	case typesystem.Variant:
		msg.SetFieldByName("kind", "variant")
		cases := make([]any, len(v.Cases))
		for i, c := range v.Cases {
			cmsg := dynamic.NewMessage(messageDescriptor("VariantCaseType"))
			cmsg.SetFieldByName("name", c.Name)
			if c.Payload != nil {
				cmsg.SetFieldByName("payload", analysedTypeToDynamic(c.Payload))
				cmsg.SetFieldByName("has_payload", true)
			}
			cases[i] = cmsg
		}
		msg.SetFieldByName("cases", cases)
	case typesystem.Enum:
		msg.SetFieldByName("kind", "enum")
		msg.SetFieldByName("names", append([]string{}, v.Names...))
	case typesystem.Flags:
		msg.SetFieldByName("kind", "flags")
		msg.SetFieldByName("names", append([]string{}, v.Names...))
	case typesystem.AllOf:
		msg.SetFieldByName("kind", "allOf")
		msg.SetFieldByName("elems", analysedTypesToAny(v.Types))
	default:
		msg.SetFieldByName("kind", "unknown")
	}
	return msg
}

func analysedTypesToAny(ts []typesystem.Type) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = analysedTypeToDynamic(t)
	}
	return out
}

func dynamicToAnalysedType(msg *dynamic.Message) (typesystem.Type, error) {
	if msg == nil {
		return typesystem.Unknown{}, nil
	}
	kind, _ := msg.GetFieldByName("kind").(string)
	switch kind {
	case "", "unknown":
		return typesystem.Unknown{}, nil
	case "bool":
		return typesystem.Bool{}, nil
	case "str":
		return typesystem.Str{}, nil
	case "chr":
		return typesystem.Chr{}, nil
	case "num":
		numKind, _ := msg.GetFieldByName("num_kind").(string)
		return typesystem.Num{Kind: parseNumKind(numKind)}, nil
	case "list":
		elems, err := dynamicListField(msg, "elems")
		if err != nil || len(elems) == 0 {
			return typesystem.List{Elem: typesystem.Unknown{}}, err
		}
		elem, err := dynamicToAnalysedType(elems[0])
		return typesystem.List{Elem: elem}, err
	case "tuple", "allOf":
		elems, err := dynamicListField(msg, "elems")
		if err != nil {
			return nil, err
		}
		types := make([]typesystem.Type, len(elems))
		for i, e := range elems {
			t, err := dynamicToAnalysedType(e)
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		if kind == "tuple" {
			return typesystem.Tuple{Elems: types}, nil
		}
		return typesystem.AllOf{Types: types}, nil
	case "record":
		raw, _ := msg.GetFieldByName("fields").([]any)
		fields := make([]typesystem.Field, len(raw))
		for i, r := range raw {
			fmsg, ok := r.(*dynamic.Message)
			if !ok {
				continue
			}
			name, _ := fmsg.GetFieldByName("name").(string)
			tmsg, _ := fmsg.GetFieldByName("type").(*dynamic.Message)
			t, err := dynamicToAnalysedType(tmsg)
			if err != nil {
				return nil, err
			}
			fields[i] = typesystem.Field{Name: name, Type: t}
		}
		return typesystem.Record{Fields: fields}, nil
	case "option":
		inner, _ := msg.GetFieldByName("option_inner").(*dynamic.Message)
		t, err := dynamicToAnalysedType(inner)
		return typesystem.Option{Inner: t}, err
	case "result":
		okMsg, _ := msg.GetFieldByName("result_ok").(*dynamic.Message)
		errMsg, _ := msg.GetFieldByName("result_err").(*dynamic.Message)
		okT, err := dynamicToAnalysedType(okMsg)
		if err != nil {
			return nil, err
		}
		errT, err := dynamicToAnalysedType(errMsg)
		return typesystem.Result{Ok: okT, Err: errT}, err
	case "variant":
		raw, _ := msg.GetFieldByName("cases").([]any)
		cases := make([]typesystem.VariantCase, len(raw))
		for i, r := range raw {
			cmsg, ok := r.(*dynamic.Message)
			if !ok {
				continue
			}
			name, _ := cmsg.GetFieldByName("name").(string)
			hasPayload, _ := cmsg.GetFieldByName("has_payload").(bool)
			var payload typesystem.Type
			if hasPayload {
				pmsg, _ := cmsg.GetFieldByName("payload").(*dynamic.Message)
				t, err := dynamicToAnalysedType(pmsg)
				if err != nil {
					return nil, err
				}
				payload = t
			}
			cases[i] = typesystem.VariantCase{Name: name, Payload: payload}
		}
		return typesystem.Variant{Cases: cases}, nil
	case "enum", "flags":
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
		if kind == "enum" {
			return typesystem.Enum{Names: names}, nil
		}
		return typesystem.Flags{Names: names}, nil
	default:
		return nil, fmt.Errorf("wire: unknown AnalysedType kind %q", kind)
	}
}

func dynamicListField(msg *dynamic.Message, field string) ([]*dynamic.Message, error) {
	raw, _ := msg.GetFieldByName(field).([]any)
	out := make([]*dynamic.Message, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("wire: malformed %s element", field)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseNumKind(s string) typesystem.NumKind {
	switch s {
	case "s8":
		return typesystem.S8
	case "s16":
		return typesystem.S16
	case "s32":
		return typesystem.S32
	case "s64":
		return typesystem.S64
	case "u8":
		return typesystem.U8
	case "u16":
		return typesystem.U16
	case "u32":
		return typesystem.U32
	case "u64":
		return typesystem.U64
	case "f32":
		return typesystem.F32
	default:
		return typesystem.F64
	}
}

// MarshalAnalysedType encodes t to its protobuf wire form.
func MarshalAnalysedType(t typesystem.Type) ([]byte, error) {
	return analysedTypeToDynamic(t).Marshal()
}

// UnmarshalAnalysedType decodes an AnalysedType protobuf message.
func UnmarshalAnalysedType(data []byte) (typesystem.Type, error) {
	msg := dynamic.NewMessage(messageDescriptor("AnalysedType"))
	if err := msg.Unmarshal(data); err != nil {
		return nil, err
	}
	return dynamicToAnalysedType(msg)
}

// MarshalInputTypeInfo encodes a name -> AnalysedType mapping to the flat
// RibInputTypeInfo protobuf map spec.md §6 names.
func MarshalInputTypeInfo(types map[string]typesystem.Type) ([]byte, error) {
	msg := dynamic.NewMessage(messageDescriptor("RibInputTypeInfo"))
	for name, t := range types {
		if err := msg.PutMapFieldByName("types", name, analysedTypeToDynamic(t)); err != nil {
			return nil, err
		}
	}
	return msg.Marshal()
}

// UnmarshalInputTypeInfo decodes a RibInputTypeInfo protobuf message.
func UnmarshalInputTypeInfo(data []byte) (map[string]typesystem.Type, error) {
	msg := dynamic.NewMessage(messageDescriptor("RibInputTypeInfo"))
	if err := msg.Unmarshal(data); err != nil {
		return nil, err
	}
	out := map[string]typesystem.Type{}
	raw, _ := msg.GetFieldByName("types").(map[any]any)
	for k, v := range raw {
		tmsg, ok := v.(*dynamic.Message)
		if !ok {
			continue
		}
		t, err := dynamicToAnalysedType(tmsg)
		if err != nil {
			return nil, err
		}
		out[fmt.Sprintf("%v", k)] = t
	}
	return out, nil
}
