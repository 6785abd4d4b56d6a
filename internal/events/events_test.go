package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func TestNewUserEvent(t *testing.T) {
	event := NewUserEvent(&model.User{ID: "id-1", Email: "a@example.com", Role: model.RoleCaregiver})

	out, err := json.Marshal(event)
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, "id-1", decoded["userId"])
	require.Equal(t, "CAREGIVER", decoded["role"])
	require.NotEmpty(t, decoded["occurredAt"])
}

func TestNoopPublisher(t *testing.T) {
	require.NoError(t, NoopPublisher{}.Publish(context.Background(), SubjectUserRegistered, struct{}{}))
}

func TestNATSPublisherWithoutConnection(t *testing.T) {
	p := &NATSPublisher{}
	require.ErrorIs(t, p.Publish(context.Background(), SubjectUserDeleted, struct{}{}), nats.ErrConnectionClosed)
	require.NoError(t, p.Close())
}
