package session

import (
	"sync"

	"anaam-stocks/internal/interfaces"
)

// Static holds a token in memory for the CLI, seeded from the configured secrets.
type Static struct {
	mu    sync.Mutex
	token string
}

var _ interfaces.SessionStore = (*Static)(nil)

func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *Static) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Static) Clear() {
	s.SetToken("")
}
