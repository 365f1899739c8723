package dto

import (
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated identity.
type LoginResponse struct {
	Token     string          `json:"token"`
	Identity  domain.Identity `json:"identity"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// ChangePasswordRequest payload for authenticated password updates.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MessageResponse is the generic success envelope.
type MessageResponse struct {
	Message string `json:"message"`
}
