// Package client verifies access tokens against a running CareAuth gRPC server.
package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MSSkowron/CareAuth/pkg/verifier"
)

// Verification is the outcome of a token check.
type Verification struct {
	Valid     bool
	UserID    string
	Email     string
	Role      string
	ExpiresIn time.Duration
}

// TokenVerifierClient represents a token verification client.
type TokenVerifierClient struct {
	conn   *grpc.ClientConn
	client verifier.TokenVerifierClient
}

// NewTokenVerifierClient dials serverAddress. Without options the connection is insecure.
func NewTokenVerifierClient(ctx context.Context, serverAddress string, opts ...grpc.DialOption) (*TokenVerifierClient, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.DialContext(ctx, serverAddress, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return &TokenVerifierClient{
		conn:   conn,
		client: verifier.NewTokenVerifierClient(conn),
	}, nil
}

// NewTokenVerifierClientFromConn wraps an existing connection. Close closes conn.
func NewTokenVerifierClientFromConn(conn *grpc.ClientConn) *TokenVerifierClient {
	return &TokenVerifierClient{
		conn:   conn,
		client: verifier.NewTokenVerifierClient(conn),
	}
}

// Verify asks the server whether token is valid.
func (c *TokenVerifierClient) Verify(ctx context.Context, token string) (*Verification, error) {
	res, err := c.client.VerifyToken(ctx, wrapperspb.String(token))
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	fields := res.GetFields()
	return &Verification{
		Valid:     fields[verifier.FieldValid].GetBoolValue(),
		UserID:    fields[verifier.FieldUserID].GetStringValue(),
		Email:     fields[verifier.FieldEmail].GetStringValue(),
		Role:      fields[verifier.FieldRole].GetStringValue(),
		ExpiresIn: time.Duration(fields[verifier.FieldExpiresIn].GetNumberValue()) * time.Millisecond,
	}, nil
}

// Close closes the underlying connection.
func (c *TokenVerifierClient) Close() error {
	return c.conn.Close()
}
