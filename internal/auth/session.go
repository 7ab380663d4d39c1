package auth

import (
	"sync"

	"survey-service/internal/domain"
)

// Session is the caller-side credential context. It is created empty, gets
// its token from Init after a successful login, and is torn down on logout
// or when a boundary call reports ErrUnauthorized. Boundary clients take a
// Session explicitly; nothing reads credentials from ambient state.
type Session struct {
	mu    sync.RWMutex
	token string
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Init(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the bearer credential, or ErrUnauthorized when the session
// has not been initialized or was torn down.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", domain.ErrUnauthorized
	}
	return s.token, nil
}

func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
