// Package verifier describes the careauth.v1.TokenVerifier gRPC service.
//
// The service uses the well-known wrapper and struct messages, so it needs no generated code:
// VerifyToken takes a google.protobuf.StringValue holding the access token and returns a
// google.protobuf.Struct with the fields valid, userId, email, role and expiresIn.
package verifier

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "careauth.v1.TokenVerifier"
	// VerifyTokenFullMethod is the full method name of VerifyToken.
	VerifyTokenFullMethod = "/" + ServiceName + "/VerifyToken"
)

// Result field names.
const (
	FieldValid     = "valid"
	FieldUserID    = "userId"
	FieldEmail     = "email"
	FieldRole      = "role"
	FieldExpiresIn = "expiresIn"
)

// TokenVerifierServer is the server API for the TokenVerifier service.
type TokenVerifierServer interface {
	VerifyToken(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterTokenVerifierServer registers srv on s.
func RegisterTokenVerifierServer(s grpc.ServiceRegistrar, srv TokenVerifierServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func verifyTokenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenVerifierServer).VerifyToken(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: VerifyTokenFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenVerifierServer).VerifyToken(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc for the TokenVerifier service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TokenVerifierServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "VerifyToken",
			Handler:    verifyTokenHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "careauth/v1/verifier.proto",
}

// TokenVerifierClient is the client API for the TokenVerifier service.
type TokenVerifierClient interface {
	VerifyToken(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type tokenVerifierClient struct {
	cc grpc.ClientConnInterface
}

// NewTokenVerifierClient creates a client on cc.
func NewTokenVerifierClient(cc grpc.ClientConnInterface) TokenVerifierClient {
	return &tokenVerifierClient{cc: cc}
}

func (c *tokenVerifierClient) VerifyToken(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, VerifyTokenFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
