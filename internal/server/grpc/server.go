package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MSSkowron/CareAuth/internal/service"
	"github.com/MSSkowron/CareAuth/pkg/logger"
	"github.com/MSSkowron/CareAuth/pkg/verifier"
)

type contextKey string

const (
	// DefaultPort is the default port the server listens on.
	DefaultPort = 9090
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = ""

	contextKeyRPCID = contextKey("rpcID")
)

// Server represents a gRPC server exposing token verification to other services.
type Server struct {
	authService service.AuthService

	address string
	port    int

	grpcServer *grpc.Server
	health     *health.Server
}

// NewServer creates a new gRPC server.
func NewServer(authService service.AuthService, opts ...Opt) *Server {
	server := &Server{
		authService: authService,
		address:     DefaultAddress,
		port:        DefaultPort,
		health:      health.NewServer(),
	}

	for _, opt := range opts {
		opt(server)
	}

	server.grpcServer = grpc.NewServer(
		grpc.ChainUnaryInterceptor(server.unaryRecoverInterceptor, server.unaryLogInterceptor),
	)
	verifier.RegisterTokenVerifierServer(server.grpcServer, server)
	healthpb.RegisterHealthServer(server.grpcServer, server.health)
	server.health.SetServingStatus(verifier.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return server
}

// Opt represents an option that can be passed to NewServer.
type Opt func(*Server)

// WithAddress sets the address the server listens on.
func WithAddress(address string) Opt {
	return func(s *Server) {
		s.address = address
	}
}

// WithPort sets the port the server listens on.
func WithPort(port int) Opt {
	return func(s *Server) {
		s.port = port
	}
}

// ListenAndServe starts the server and listens for incoming connections.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.address+":"+strconv.Itoa(s.port))
	if err != nil {
		return fmt.Errorf("failed to create tcp listener on %s:%d: %w", s.address, s.port, err)
	}

	logger.Info(fmt.Sprintf("gRPC server listening on %s:%d", s.address, s.port))

	return s.Serve(ln)
}

// Serve accepts connections on ln until the server is stopped.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.grpcServer.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to run grpc server on %s: %w", ln.Addr(), err)
	}

	return nil
}

// GracefulStop marks the server as not serving and waits for pending RPCs to finish.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// VerifyToken is an RPC handler that reports whether an access token is valid.
func (s *Server) VerifyToken(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	rpcID, _ := ctx.Value(contextKeyRPCID).(string)

	res := s.authService.VerifyToken(ctx, req.GetValue())

	fields := map[string]any{verifier.FieldValid: res.Valid}
	if res.Valid {
		fields[verifier.FieldUserID] = res.UserID
		fields[verifier.FieldEmail] = res.Email
		fields[verifier.FieldRole] = string(res.Role)
		fields[verifier.FieldExpiresIn] = float64(res.ExpiresIn)
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "Internal server error while encoding verification result.")
	}

	logger.Info(fmt.Sprintf("[ID: %s]: Verified token [valid: %t]", rpcID, res.Valid))

	return out, nil
}
