package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated            EventType = "user_created"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordChanged        EventType = "password_changed"
	EventEmailConfirmRequested  EventType = "email_confirm_requested"
	EventEmailConfirmed         EventType = "email_confirmed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh ID.
func NewEvent(eventType EventType, userID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordResetRequestedPayload carries what the notifier needs to deliver the reset link.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	Email string `json:"email"`
}

// EmailConfirmRequestedPayload carries what the notifier needs to deliver the confirmation link.
type EmailConfirmRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EmailConfirmedPayload payload.
type EmailConfirmedPayload struct {
	Email string `json:"email"`
}
