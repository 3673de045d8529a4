// Package apierr maps domain error kinds onto gRPC and HTTP statuses.
package apierr

import (
	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const errorDomain = "airline-backoffice"

// InternalMessage is what callers see for any internal failure.
const InternalMessage = "internal error"

func Code(err error) codes.Code {
	switch domain.KindOf(err) {
	case domain.ErrNotFound:
		return codes.NotFound
	case domain.ErrValidation:
		return codes.InvalidArgument
	case domain.ErrConflict:
		return codes.AlreadyExists
	case domain.ErrCapacity:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

func HTTPStatus(err error) int {
	return runtime.HTTPStatusFromCode(Code(err))
}

// Message hides the text of internal errors.
func Message(err error) string {
	if Code(err) == codes.Internal {
		return InternalMessage
	}
	return err.Error()
}

// Reason is a stable machine readable name of the error kind.
func Reason(err error) string {
	switch Code(err) {
	case codes.NotFound:
		return "NOT_FOUND"
	case codes.InvalidArgument:
		return "VALIDATION_FAILED"
	case codes.AlreadyExists:
		return "CONFLICT"
	case codes.FailedPrecondition:
		return "NO_CAPACITY"
	default:
		return "INTERNAL"
	}
}

// Status converts err into a gRPC status error. Rejections carry an
// ErrorInfo detail with the reason.
func Status(err error) error {
	if err == nil {
		return nil
	}
	code := Code(err)
	st := status.New(code, Message(err))
	if code == codes.Internal {
		return st.Err()
	}
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: Reason(err),
		Domain: errorDomain,
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}
