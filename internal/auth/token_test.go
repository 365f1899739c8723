package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/domain"
)

func TestTokenManager_IssueValidate_Roundtrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	identity := domain.Identity{UserID: "emp-1", Name: "Ada", Role: domain.RoleSuperUser}

	token, exp, err := tm.Issue(identity)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	got, err := tm.Validate(token)
	require.NoError(t, err)
	require.Equal(t, identity, got)
}

func TestTokenManager_Validate_Expired(t *testing.T) {
	claims := &Claims{
		Name: "Ada",
		Role: domain.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "emp-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	tm := NewTokenManager("secret", time.Hour)
	_, err = tm.Validate(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Validate_SignatureMismatch(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.Issue(domain.Identity{UserID: "emp-1", Name: "Ada", Role: domain.RoleEmployee})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.ErrorIs(t, err, ErrTokenSignature)
}

func TestTokenManager_Validate_Malformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Validate(token)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestTokenManager_Validate_UnknownRole(t *testing.T) {
	claims := &Claims{
		Name: "Ada",
		Role: domain.Role("ROOT"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "emp-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	tm := NewTokenManager("secret", time.Hour)
	_, err = tm.Validate(signed)
	require.ErrorIs(t, err, ErrTokenMalformed)
}
