package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		require.Nil(t, ToDomainError(nil))
	})

	t.Run("domain error preserved through wrapping", func(t *testing.T) {
		inner := NewDuplicateEmail("a@x.com")
		wrapped := fmt.Errorf("create: %w", inner)
		got := ToDomainError(wrapped)
		require.Equal(t, "DUPLICATE_EMAIL", got.Code)
		require.Equal(t, http.StatusConflict, got.HTTPStatus)
	})

	t.Run("sql no rows maps to not found", func(t *testing.T) {
		got := ToDomainError(sql.ErrNoRows)
		require.Equal(t, "NOT_FOUND", got.Code)
	})

	t.Run("unknown error maps to internal", func(t *testing.T) {
		got := ToDomainError(errors.New("boom"))
		require.Equal(t, "INTERNAL_ERROR", got.Code)
		require.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	})
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewInvalidCredentials(), "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{NewTokenExpired(), "TOKEN_EXPIRED", http.StatusUnauthorized},
		{NewTokenInvalid("bad signature"), "TOKEN_INVALID", http.StatusUnauthorized},
		{NewForbidden("insufficient role"), "FORBIDDEN", http.StatusForbidden},
		{NewDuplicateEmail("a@x.com"), "DUPLICATE_EMAIL", http.StatusConflict},
		{NewTimeout("login"), "TIMEOUT", http.StatusGatewayTimeout},
		{NewTooManyAttempts(), "TOO_MANY_ATTEMPTS", http.StatusTooManyRequests},
		{NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
	}
	for _, tc := range cases {
		got := ToDomainError(tc.err)
		require.Equal(t, tc.code, got.Code)
		require.Equal(t, tc.status, got.HTTPStatus)
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("login: %w", NewTokenExpired())
	require.True(t, IsCode(err, "TOKEN_EXPIRED"))
	require.False(t, IsCode(err, "TOKEN_INVALID"))
	require.False(t, IsCode(errors.New("plain"), "TOKEN_EXPIRED"))
	require.False(t, IsCode(nil, "TOKEN_EXPIRED"))
}
