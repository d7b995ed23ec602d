package session

import (
	"context"
	"maps"
	"sync"

	"github.com/kbukum/apiadapter/logger"
)

// Data is the authenticated data of a session (tokens, identifiers, ...).
type Data map[string]any

// String returns the value stored under key if it is a non-empty string.
func (d Data) String(key string) (string, bool) {
	v, ok := d[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Listener is called once per invalidation, after the session data has
// been cleared.
type Listener func(ctx context.Context)

// Session is an in-memory authenticated session. The zero value is not
// usable; create one with New.
type Session struct {
	mu            sync.Mutex
	data          Data
	authenticated bool
	listeners     []Listener
	invalidations uint64
	log           *logger.Logger
}

// New creates an unauthenticated session. The logger is used as given;
// tag it with a component before passing it in.
func New(log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{log: log}
}

// Authenticate replaces the session data and marks the session authenticated.
func (s *Session) Authenticate(data Data) {
	s.mu.Lock()
	s.data = maps.Clone(data)
	s.authenticated = true
	s.mu.Unlock()

	s.log.Debug("session authenticated", logger.Fields("keys", len(data)))
}

// Data returns a copy of the authenticated data, or nil when the session
// is not authenticated.
func (s *Session) Data() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return nil
	}
	return maps.Clone(s.data)
}

// IsAuthenticated reports whether the session currently holds credentials.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// OnInvalidated registers a listener fired on every effective invalidation.
func (s *Session) OnInvalidated(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Invalidate clears the session. It returns true if this call performed the
// invalidation and false if the session was already unauthenticated, in
// which case no listener is fired.
func (s *Session) Invalidate(ctx context.Context) bool {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return false
	}
	s.authenticated = false
	s.data = nil
	s.invalidations++
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.log.Info("session invalidated")
	for _, fn := range listeners {
		fn(ctx)
	}
	return true
}

// Invalidations returns how many times the session has been invalidated.
func (s *Session) Invalidations() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidations
}
