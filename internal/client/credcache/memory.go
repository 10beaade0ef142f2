package credcache

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and by callers that do
// not want durable caching.
type MemoryStore struct {
	mu    sync.Mutex
	creds map[Scope]*Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[Scope]*Credential)}
}

func (s *MemoryStore) Load(_ context.Context, scope Scope) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[scope]
	if !ok {
		return nil, nil
	}
	cp := *cred
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, scope Scope, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	s.creds[scope] = &cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, scope Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, scope)
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = make(map[Scope]*Credential)
	return nil
}
