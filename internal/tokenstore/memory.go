package tokenstore

import (
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: map[string]string{}}
}

// Get returns the refresh token stored for the subject.
func (s *MemoryStore) Get(subject string) (string, bool, error) {
	if subject == "" {
		return "", false, ErrEmptySubject
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[subject]
	return token, ok, nil
}

// Put stores or replaces the refresh token for the subject.
func (s *MemoryStore) Put(subject, token string) error {
	if subject == "" {
		return ErrEmptySubject
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[subject] = token
	return nil
}
