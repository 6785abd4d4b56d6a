//go:build integration

package revocation

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	store, err := NewRedisStore(ctx, addr, "", 0)
	require.NoError(t, err)
	defer store.Close()

	id := uuid.NewString()
	revoked, err := store.IsRevoked(ctx, id)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, id, time.Minute))
	revoked, err = store.IsRevoked(ctx, id)
	require.NoError(t, err)
	require.True(t, revoked)
}
