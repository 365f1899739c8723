package session

import (
	"net/http"

	"github.com/spec-kit/employee-service/internal/domain"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Reason     string
}

// Guard gates protected navigation and outgoing requests against the current
// session. It holds a read-only reference to the manager and never mutates
// it; it is a UX convenience, not a trust boundary — the backend re-validates
// every request independently.
type Guard struct {
	session *Manager
}

// NewGuard builds a guard over the session manager.
func NewGuard(session *Manager) *Guard {
	return &Guard{session: session}
}

// RequireAuthenticated allows iff the session is LoggedIn. Expired sessions
// deny with a distinct reason so the UI can say "session expired".
func (g *Guard) RequireAuthenticated() Decision {
	switch g.session.State() {
	case StateLoggedIn:
		return Decision{Allowed: true}
	case StateExpired:
		return Decision{RedirectTo: "/login", Reason: "session expired"}
	default:
		return Decision{RedirectTo: "/login", Reason: "please log in"}
	}
}

// RequireRole allows iff the session is LoggedIn and the identity's role
// satisfies the required one. Expired sessions deny with the same distinct
// reason RequireAuthenticated uses.
func (g *Guard) RequireRole(required domain.Role) Decision {
	snap := g.session.Snapshot()
	switch snap.State {
	case StateLoggedIn:
	case StateExpired:
		return Decision{RedirectTo: "/login", Reason: "session expired"}
	default:
		return Decision{RedirectTo: "/login", Reason: "please log in"}
	}
	if !snap.Identity.Role.Satisfies(required) {
		return Decision{Reason: "insufficient role"}
	}
	return Decision{Allowed: true}
}

// AuthorizeRequest attaches the current token as a bearer credential. When
// the session is not LoggedIn the request must not be sent: the guard
// short-circuits with ErrNotAuthenticated and the request is left untouched.
func (g *Guard) AuthorizeRequest(req *http.Request) error {
	snap := g.session.Snapshot()
	if snap.State != StateLoggedIn {
		return ErrNotAuthenticated
	}
	req.Header.Set("Authorization", "Bearer "+snap.Token)
	return nil
}
