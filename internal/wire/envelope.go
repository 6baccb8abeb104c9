package wire

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/ribflow/rib/internal/analyzer"
	"github.com/ribflow/rib/internal/ast"
	"github.com/ribflow/rib/internal/evaluator"
	"github.com/ribflow/rib/internal/typesystem"
)

// Envelope is the decoded form of the Envelope protobuf message: one
// request's compiled AST, its extracted input types, and the evaluated
// result (or the error that stopped it short), tagged with a request ID a
// caller can correlate across a log or a retry.
type Envelope struct {
	RequestID  string
	AST        ast.Expr
	InputTypes map[string]typesystem.Type
	Result     any
	Err        string
}

// NewEnvelope stamps a fresh request ID and packages expr, its input
// types, and an evaluation result (or error) for the wire.
func NewEnvelope(expr ast.Expr, info *analyzer.InputTypeInfo, result *evaluator.Value, evalErr error) *Envelope {
	env := &Envelope{RequestID: uuid.NewString(), AST: expr}
	if info != nil {
		env.InputTypes = info.Types
	}
	if evalErr != nil {
		env.Err = evalErr.Error()
	} else if result != nil {
		env.Result = result.ToJSON()
	}
	return env
}

// MarshalEnvelope encodes env to the Envelope protobuf wire form.
func MarshalEnvelope(env *Envelope) ([]byte, error) {
	msg := dynamic.NewMessage(messageDescriptor("Envelope"))
	msg.SetFieldByName("request_id", env.RequestID)
	if env.AST != nil {
		msg.SetFieldByName("ast", exprToDynamic(env.AST))
	}
	if len(env.InputTypes) > 0 {
		infoMsg := dynamic.NewMessage(messageDescriptor("RibInputTypeInfo"))
		for name, t := range env.InputTypes {
			if err := infoMsg.PutMapFieldByName("types", name, analysedTypeToDynamic(t)); err != nil {
				return nil, err
			}
		}
		msg.SetFieldByName("input_types", infoMsg)
	}
	if env.Result != nil {
		resultJSON, err := json.Marshal(env.Result)
		if err != nil {
			return nil, err
		}
		msg.SetFieldByName("result_json", resultJSON)
	}
	msg.SetFieldByName("error", env.Err)
	return msg.Marshal()
}

// UnmarshalEnvelope decodes an Envelope protobuf message.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	msg := dynamic.NewMessage(messageDescriptor("Envelope"))
	if err := msg.Unmarshal(data); err != nil {
		return nil, err
	}
	env := &Envelope{}
	env.RequestID, _ = msg.GetFieldByName("request_id").(string)
	env.Err, _ = msg.GetFieldByName("error").(string)
	if astMsg, ok := msg.GetFieldByName("ast").(*dynamic.Message); ok && astMsg != nil {
		expr, err := dynamicToExpr(astMsg)
		if err != nil {
			return nil, err
		}
		env.AST = expr
	}
	if infoMsg, ok := msg.GetFieldByName("input_types").(*dynamic.Message); ok && infoMsg != nil {
		raw, _ := infoMsg.GetFieldByName("types").(map[any]any)
		if len(raw) > 0 {
			env.InputTypes = map[string]typesystem.Type{}
			for k, v := range raw {
				name, _ := k.(string)
				tmsg, _ := v.(*dynamic.Message)
				t, err := dynamicToAnalysedType(tmsg)
				if err != nil {
					return nil, err
				}
				env.InputTypes[name] = t
			}
		}
	}
	if raw, ok := msg.GetFieldByName("result_json").([]byte); ok && len(raw) > 0 {
		var result any
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, err
		}
		env.Result = result
	}
	return env, nil
}
