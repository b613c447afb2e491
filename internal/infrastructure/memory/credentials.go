// Package memory provides a process-local credential store for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dat-archive/internal/domain"
)

// CredentialStore keeps credentials in a map guarded by a mutex.
type CredentialStore struct {
	mu    sync.Mutex
	items map[string]domain.VerificationCredential
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{items: make(map[string]domain.VerificationCredential)}
}

func (s *CredentialStore) Upsert(_ context.Context, c *domain.VerificationCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.Email] = *c
	return nil
}

func (s *CredentialStore) Get(_ context.Context, email string) (*domain.VerificationCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[email]
	if !ok {
		return nil, fmt.Errorf("credential not found: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (s *CredentialStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, email)
	return nil
}

// Consume removes the credential if it still holds code.
func (s *CredentialStore) Consume(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[email]
	if !ok || c.Code != code {
		return false, nil
	}
	delete(s.items, email)
	return true, nil
}

func (s *CredentialStore) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for email, c := range s.items {
		if c.Expired(now) {
			delete(s.items, email)
			n++
		}
	}
	return n, nil
}
