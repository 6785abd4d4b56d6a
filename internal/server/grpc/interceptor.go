package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MSSkowron/CareAuth/pkg/logger"
)

// unaryLogInterceptor logs the method and outcome. Requests are not logged since they carry tokens.
func (s *Server) unaryLogInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	rpcID := uuid.New().String()
	start := time.Now()

	logger.Info(fmt.Sprintf("[ID: %s]: Received Unary RPC [%s] call", rpcID, info.FullMethod))

	res, err := handler(context.WithValue(ctx, contextKeyRPCID, rpcID), req)

	logger.Info(fmt.Sprintf("[ID: %s]: Finished Unary RPC [%s] with [code: %s] in [%s]", rpcID, info.FullMethod, status.Code(err), time.Since(start)))

	return res, err
}

func (s *Server) unaryRecoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (res any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(fmt.Sprintf("Recovered from panic in Unary RPC [%s]: %v", info.FullMethod, rec))
			err = status.Error(codes.Internal, "Internal server error.")
		}
	}()

	return handler(ctx, req)
}
