package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/domain"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// AuthAPI is the backend surface the session manager needs: credential
// verification with token issue, and token re-validation.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (domain.Identity, string, error)
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
}

var (
	// ErrSuperseded is returned when an in-flight login completes after a
	// logout or a newer login attempt; its result has been discarded.
	ErrSuperseded = errors.New("login superseded")
	// ErrNotAuthenticated is returned by guarded operations outside LoggedIn.
	ErrNotAuthenticated = errors.New("not authenticated")
)

const defaultLoginTimeout = 10 * time.Second

// Manager is the single source of truth for the client's authentication
// state. All mutation goes through its transition methods; concurrent
// transitions are sequenced by an event counter so a stale in-flight result
// can never overwrite a newer state.
type Manager struct {
	mu       sync.Mutex
	state    State
	identity domain.Identity
	token    string
	seq      uint64

	api     AuthAPI
	store   TokenStore
	logger  *zap.Logger
	timeout time.Duration
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLoginTimeout bounds the latency of login and refresh calls.
func WithLoginTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger attaches a logger for transition diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager builds a manager in the LoggedOut state.
func NewManager(api AuthAPI, store TokenStore, opts ...Option) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	m := &Manager{
		state:   StateLoggedOut,
		api:     api,
		store:   store,
		logger:  zap.NewNop(),
		timeout: defaultLoginTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot is a point-in-time view of the session.
type Snapshot struct {
	State    State
	Identity domain.Identity
	Token    string
}

// Snapshot returns the current state without mutating it.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, Identity: m.identity, Token: m.token}
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity returns the current identity and whether one is established.
func (m *Manager) Identity() (domain.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity, m.state == StateLoggedIn
}

// Login runs LoggedOut/Expired -> LoggingIn -> LoggedIn|LoggedOut. A timeout
// leaves the result retryable; a credential failure surfaces the error. If a
// logout or newer login lands while this call is in flight, its result is
// discarded and ErrSuperseded is returned.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.state = StateLoggingIn
	m.identity = domain.Identity{}
	m.token = ""
	m.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	identity, token, err := m.api.Login(cctx, email, password)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seq != seq {
		m.logger.Debug("discarding superseded login result", zap.String("email", email))
		return ErrSuperseded
	}

	if err != nil {
		m.state = StateLoggedOut
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.NewTimeout("login")
		}
		return err
	}

	m.state = StateLoggedIn
	m.identity = identity
	m.token = token
	m.persistLocked()
	m.logger.Debug("session established", zap.String("user_id", identity.UserID))
	return nil
}

// Logout discards the session unconditionally. Idempotent: any prior state
// ends in LoggedOut, and any in-flight login is superseded.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.state = StateLoggedOut
	m.identity = domain.Identity{}
	m.token = ""
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clear persisted session", zap.Error(err))
	}
}

// Refresh restores a previously persisted session on startup. The stored
// token is re-validated before being trusted; an invalid or expired token
// falls back to LoggedOut without surfacing an error, since the user did not
// initiate this action.
func (m *Manager) Refresh(ctx context.Context) {
	creds, found, err := m.store.Load()
	if err != nil {
		m.logger.Warn("load persisted session", zap.Error(err))
		return
	}
	if !found {
		return
	}

	m.mu.Lock()
	seq := m.seq
	m.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	identity, err := m.api.CurrentUser(cctx, creds.Token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seq != seq || m.state != StateLoggedOut {
		// a login or logout landed while the validation was in flight;
		// the stale result must not overwrite it
		return
	}
	if err != nil {
		m.logger.Debug("persisted token rejected", zap.Error(err))
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Warn("clear persisted session", zap.Error(clearErr))
		}
		return
	}

	m.seq++
	m.state = StateLoggedIn
	m.identity = identity
	m.token = creds.Token
}

// MarkExpired moves LoggedIn to Expired. Called when a guarded request comes
// back with an expired or invalid token. No-op in any other state.
func (m *Manager) MarkExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateLoggedIn {
		return
	}
	m.seq++
	m.state = StateExpired
	m.token = ""
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clear persisted session", zap.Error(err))
	}
	m.logger.Debug("session expired", zap.String("user_id", m.identity.UserID))
}

// ObserveAuthFailure inspects an error from a guarded backend call and
// expires the session when the token was rejected. Other errors, including
// timeouts and permission denials, leave the session untouched.
func (m *Manager) ObserveAuthFailure(err error) {
	if err == nil {
		return
	}
	if apperrors.IsCode(err, "TOKEN_EXPIRED") || apperrors.IsCode(err, "TOKEN_INVALID") || apperrors.IsCode(err, "UNAUTHORIZED") {
		m.MarkExpired()
	}
}

func (m *Manager) persistLocked() {
	err := m.store.Save(Credentials{Token: m.token, Identity: m.identity})
	if err != nil {
		m.logger.Warn("persist session", zap.Error(err))
	}
}
