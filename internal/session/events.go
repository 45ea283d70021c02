package session

import (
	"context"
	"time"
)

type EventType string

const (
	EventSignedIn         EventType = "signed_in"
	EventSignedOut        EventType = "signed_out"
	EventUserUpdated      EventType = "user_updated"
	EventPasswordRecovery EventType = "password_recovery"
)

// Event is one auth state change
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

// Bus delivers session events to every subscriber, across processes when
// backed by Redis.
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(ctx context.Context) (Subscription, error)
}

type Subscription interface {
	Events() <-chan Event
	Close() error
}
