// Package events publishes account lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/nats-io/nats.go"
)

// Subjects.
const (
	SubjectUserRegistered = "careauth.user.registered"
	SubjectUserDeleted    = "careauth.user.deleted"
)

// UserEvent is the payload of every account event.
type UserEvent struct {
	UserID     string     `json:"userId"`
	Email      string     `json:"email"`
	Role       model.Role `json:"role"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// NewUserEvent builds an event for user stamped with the current time.
func NewUserEvent(user *model.User) UserEvent {
	return UserEvent{UserID: user.ID, Email: user.Email, Role: user.Role, OccurredAt: time.Now().UTC()}
}

// Publisher sends events to a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// NATSPublisher publishes JSON encoded events over NATS core.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("careauth"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, event any) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return nats.ErrConnectionClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
