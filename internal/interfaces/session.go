package interfaces

// SessionStore holds the broker access token for one user session.
type SessionStore interface {
	Token() (string, bool)
	SetToken(token string)
	Clear()
}
