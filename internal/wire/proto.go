// Package wire implements the two protobuf round-trips spec.md §6
// requires — RibInputTypeInfo and AST — without a protoc-generated
// .pb.go: the schema is compiled from inline .proto source at package
// init via protoreflect's protoparse, and dynamic.Message marshals and
// unmarshals against the resulting descriptors. This is the same dynamic
// protobuf idiom the teacher's own internal/evaluator/builtins_grpc.go
// uses for protoEncode/protoDecode and its ad hoc gRPC invocation path,
// adapted here from a generic scripting escape hatch into the two fixed
// message shapes this module's wire boundary actually needs.
package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

const schemaFile = "rib.proto"

// schemaSource defines two trees generically rather than one message per
// AST/type variant: AnalysedType mirrors the typesystem.Type lattice
// (§3), and Node mirrors the ast.Expr lattice, both as a tagged "kind"
// string plus the union of fields any kind might populate. A oneof per
// concrete variant would mean over a dozen near-identical message types
// for what is, on the wire, the same recursive-tree shape — the generic
// encoding keeps the schema proportional to the two trees it encodes
// rather than to their variant count.
const schemaSource = `syntax = "proto3";
package rib.wire;

message AnalysedType {
  string kind = 1;          // unknown,bool,str,chr,num,list,tuple,record,
                             // option,result,variant,enum,flags,allOf
  string num_kind = 2;       // set when kind == "num"
  repeated AnalysedType elems = 3;        // list elem (len 1), tuple elems, allOf members
  repeated RecordFieldType fields = 4;    // record fields
  repeated VariantCaseType cases = 5;     // variant cases
  repeated string names = 6;              // enum / flags names
  AnalysedType option_inner = 7;
  AnalysedType result_ok = 8;
  AnalysedType result_err = 9;
}

message RecordFieldType {
  string name = 1;
  AnalysedType type = 2;
}

message VariantCaseType {
  string name = 1;
  AnalysedType payload = 2;  // absent (nil) for a nullary case
  bool has_payload = 3;
}

message RibInputTypeInfo {
  map<string, AnalysedType> types = 1;
}

message Node {
  string kind = 1;           // literal,number,boolean,identifier,concat,
                             // multiple,sequence,record,tuple,option,result,
                             // flags,selectField,selectIndex,compare,not,
                             // cond,match,request,workerResponse
  string text = 2;           // Literal.Text, Number.Text
  bool bool_value = 3;
  string name = 4;           // Identifier name, SelectField field
  bool global = 5;           // Identifier.Var.Global
  int64 index = 6;           // SelectIndex.Index
  string op = 7;             // Compare.Op, as its textual form
  bool is_ok = 8;            // Result.IsOk
  repeated string names = 9; // Flags.Names
  repeated Node children = 10;
  repeated RecordFieldNode fields = 11;
  repeated MatchArmNode arms = 12;
  AnalysedType inferred_type = 13;
}

message RecordFieldNode {
  string name = 1;
  Node value = 2;
}

message MatchArmNode {
  PatternNode pattern = 1;
  Node body = 2;
}

message PatternNode {
  string kind = 1;    // wildcard,as,constructor,tupleConstructor,literal
  string name = 2;    // As.Name, Constructor.Name
  repeated PatternNode args = 3;
  PatternNode inner = 4;   // As.Inner
  Node expr = 5;           // LiteralPattern.Value
}

message Envelope {
  string request_id = 1;   // UUID stamped per evaluation, for caller tracing
  Node ast = 2;
  RibInputTypeInfo input_types = 3;
  bytes result_json = 4;   // the evaluated Value, JSON-encoded
  string error = 5;
}
`

var fileDescriptor *desc.FileDescriptor

func init() {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			schemaFile: schemaSource,
		}),
	}
	fds, err := parser.ParseFiles(schemaFile)
	if err != nil {
		panic(fmt.Sprintf("wire: failed to compile embedded schema: %v", err))
	}
	fileDescriptor = fds[0]
}

func messageDescriptor(name string) *desc.MessageDescriptor {
	md := fileDescriptor.FindMessage("rib.wire." + name)
	if md == nil {
		panic("wire: unknown message " + name)
	}
	return md
}
