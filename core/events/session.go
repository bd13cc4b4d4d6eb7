package events

const (
	// KindSessionConnected identifies the push channel becoming ready.
	KindSessionConnected Kind = "session.connected"
	// KindSessionError identifies service- or transport-level errors.
	KindSessionError Kind = "session.error"
)

// SessionConnected marks the push channel as open and session-keyed.
type SessionConnected struct{ Base }

// NewSessionConnected creates a session connected event.
func NewSessionConnected() SessionConnected {
	return SessionConnected{Base: NewBase(KindSessionConnected)}
}

// SessionError carries a user-facing error message pushed by the service
// or raised by the transport itself.
type SessionError struct {
	Base
	Message string
}

// NewSessionError creates a session error event.
func NewSessionError(message string) SessionError {
	return SessionError{Base: NewBase(KindSessionError), Message: message}
}
