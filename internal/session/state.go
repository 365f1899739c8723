package session

// State is the client-side authentication state. Exactly one State exists per
// client; it is mutated only through the Manager's transition methods.
type State string

const (
	StateLoggedOut State = "LOGGED_OUT"
	StateLoggingIn State = "LOGGING_IN"
	StateLoggedIn  State = "LOGGED_IN"
	// StateExpired behaves like LoggedOut for gating purposes but lets the UI
	// say "session expired" instead of "please log in".
	StateExpired State = "EXPIRED"
)

func (s State) String() string {
	return string(s)
}

// Authenticated reports whether the state carries a usable identity.
func (s State) Authenticated() bool {
	return s == StateLoggedIn
}
