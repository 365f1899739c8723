package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/domain"
)

func loggedInManager(t *testing.T, identity domain.Identity) *Manager {
	t.Helper()
	mgr := NewManager(&fakeAPI{identity: identity, token: "tok-1"}, NewMemoryStore())
	require.NoError(t, mgr.Login(context.Background(), identity.Name, "pw"))
	return mgr
}

func TestGuard_RequireAuthenticated(t *testing.T) {
	mgr := NewManager(&fakeAPI{identity: admin, token: "tok-1"}, NewMemoryStore())
	guard := NewGuard(mgr)

	decision := guard.RequireAuthenticated()
	require.False(t, decision.Allowed)
	require.Equal(t, "/login", decision.RedirectTo)
	require.Equal(t, "please log in", decision.Reason)

	require.NoError(t, mgr.Login(context.Background(), "admin@x.com", "correctpw"))
	require.True(t, guard.RequireAuthenticated().Allowed)

	mgr.MarkExpired()
	decision = guard.RequireAuthenticated()
	require.False(t, decision.Allowed)
	require.Equal(t, "session expired", decision.Reason)
}

func TestGuard_RequireRole(t *testing.T) {
	employee := domain.Identity{UserID: "emp-2", Name: "Bob", Role: domain.RoleEmployee}

	guard := NewGuard(loggedInManager(t, employee))
	require.True(t, guard.RequireRole(domain.RoleEmployee).Allowed)

	decision := guard.RequireRole(domain.RoleSuperUser)
	require.False(t, decision.Allowed)
	require.Equal(t, "insufficient role", decision.Reason)

	superGuard := NewGuard(loggedInManager(t, admin))
	require.True(t, superGuard.RequireRole(domain.RoleEmployee).Allowed)
	require.True(t, superGuard.RequireRole(domain.RoleSuperUser).Allowed)
}

func TestGuard_RequireRole_ExpiredSession(t *testing.T) {
	mgr := loggedInManager(t, admin)
	mgr.MarkExpired()

	decision := NewGuard(mgr).RequireRole(domain.RoleSuperUser)
	require.False(t, decision.Allowed)
	require.Equal(t, "/login", decision.RedirectTo)
	require.Equal(t, "session expired", decision.Reason)
}

func TestGuard_AuthorizeRequest(t *testing.T) {
	mgr := NewManager(&fakeAPI{identity: admin, token: "tok-1"}, NewMemoryStore())
	guard := NewGuard(mgr)

	req, err := http.NewRequest(http.MethodGet, "http://example.com/api/users", nil)
	require.NoError(t, err)

	require.ErrorIs(t, guard.AuthorizeRequest(req), ErrNotAuthenticated)
	require.Empty(t, req.Header.Get("Authorization"))

	require.NoError(t, mgr.Login(context.Background(), "admin@x.com", "correctpw"))
	require.NoError(t, guard.AuthorizeRequest(req))
	require.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))

	mgr.Logout()
	fresh, err := http.NewRequest(http.MethodGet, "http://example.com/api/users", nil)
	require.NoError(t, err)
	require.ErrorIs(t, guard.AuthorizeRequest(fresh), ErrNotAuthenticated)
	require.Empty(t, fresh.Header.Get("Authorization"))
}
