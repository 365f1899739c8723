package events

import (
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventLoginFailed     EventType = "login_failed"
	EventPasswordChanged EventType = "password_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	EmployeeID string      `json:"employee_id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	Position   string      `json:"position"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Email    string `json:"email"`
	Attempts int64  `json:"attempts"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	EmployeeID string `json:"employee_id"`
}
