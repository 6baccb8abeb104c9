package wire

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ribflow/rib/internal/evaluator"
	"github.com/ribflow/rib/internal/parser"
	"github.com/ribflow/rib/internal/typesystem"
)

// StatusFromError maps one of the three compile/eval error taxa to a gRPC
// status, so a host exposing Rib over a gRPC boundary (the same wire
// surface the teacher's own builtins_grpc.go talks to) can report a
// properly-coded error rather than an opaque Internal.
func StatusFromError(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	switch err.(type) {
	case *parser.ParseError:
		return status.New(codes.InvalidArgument, err.Error())
	case *typesystem.Error:
		return status.New(codes.FailedPrecondition, err.Error())
	case *evaluator.EvalError:
		return status.New(codes.FailedPrecondition, err.Error())
	default:
		return status.New(codes.Internal, err.Error())
	}
}
