package models

// SessionState is the auth lifecycle of the client.
type SessionState string

const (
	// StateBootstrapping is the initial state while a stored token is being
	// validated against the remote API.
	StateBootstrapping SessionState = "bootstrapping"
	// StateAuthenticated means a token is stored and the current user is known.
	StateAuthenticated SessionState = "authenticated"
	// StateAnonymous means no valid session exists.
	StateAnonymous SessionState = "anonymous"
)

// Session is the in-memory auth state. It is replaced wholesale on
// login/logout and never persisted beyond the token itself.
type Session struct {
	State SessionState
	Token string
	User  *User
	// Err holds the last login failure message, if any.
	Err string
}

// IsAuthenticated reports whether the session carries a signed-in user.
func (s Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}
