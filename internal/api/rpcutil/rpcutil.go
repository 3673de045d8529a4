// Package rpcutil holds the plumbing shared by the gRPC services: unary
// method descriptors over structpb messages and typed field readers.
package rpcutil

import (
	"context"
	"math"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/api/apierr"
	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const DateLayout = "2006-01-02"

// Unary builds the method descriptor for call. Errors returned by call are
// converted to gRPC statuses.
func Unary[S any](service, name string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				out, err := call(srv.(S), ctx, req.(*structpb.Struct))
				if err != nil {
					return nil, apierr.Status(err)
				}
				return out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + service + "/" + name,
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Int64 reads a whole number field. A missing field is 0.
func Int64(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return 0, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, domain.Invalid("field %s must be an integer", key)
	}
	return int64(n.NumberValue), nil
}

// OptionalInt64 is like Int64 but reports whether the field was set.
func OptionalInt64(s *structpb.Struct, key string) (*int64, error) {
	if _, ok := s.GetFields()[key]; !ok {
		return nil, nil
	}
	n, err := Int64(s, key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func String(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func OptionalString(s *structpb.Struct, key string) *string {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil
	}
	str := v.GetStringValue()
	return &str
}

// Date reads a YYYY-MM-DD field. A missing field is the zero time.
func Date(s *structpb.Struct, key string) (time.Time, error) {
	raw := String(s, key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.Invalid("field %s must be a date in %s format", key, DateLayout)
	}
	return t, nil
}

// List wraps items under key so that repeated results fit in one Struct.
func List(key string, items []map[string]any) (*structpb.Struct, error) {
	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, item)
	}
	return structpb.NewStruct(map[string]any{key: values})
}
