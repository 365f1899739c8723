package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as seen by the backend.
type Principal struct {
	Identity domain.Identity
	Employee *domain.Employee
}

// Middleware validates bearer tokens and loads principals. This runs on every
// protected backend operation regardless of any client-side gating: the
// client guard is a UX convenience, never a trust boundary.
type Middleware struct {
	tokens    *TokenManager
	employees repository.EmployeeRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, employees repository.EmployeeRepository) *Middleware {
	return &Middleware{tokens: tokens, employees: employees}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	identity, err := m.tokens.Validate(parts[1])
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewTokenExpired()
		}
		return apperrors.NewTokenInvalid(err.Error())
	}

	employee, err := m.employees.GetByID(c.UserContext(), identity.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Identity: identity, Employee: employee})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
