package tokenstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	resets  map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		resets:  make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Revoke blacklists jti until ttl elapses.
func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.revoked[jti] = s.now().Add(ttl)
	return nil
}

// IsRevoked reports whether jti is currently blacklisted.
func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[jti]
	return ok && s.now().Before(exp), nil
}

// SaveResetToken stores a reset token mapped to its user.
func (s *MemoryStore) SaveResetToken(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.resets[token] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

// ConsumeResetToken returns the owner of token and forgets it.
func (s *MemoryStore) ConsumeResetToken(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.resets[token]
	if !ok {
		return 0, ErrTokenNotFound
	}
	delete(s.resets, token)
	if !s.now().Before(entry.expiresAt) {
		return 0, ErrTokenNotFound
	}
	return entry.userID, nil
}

// sweep drops expired entries. Callers hold mu.
func (s *MemoryStore) sweep() {
	now := s.now()
	for k, exp := range s.revoked {
		if !now.Before(exp) {
			delete(s.revoked, k)
		}
	}
	for k, e := range s.resets {
		if !now.Before(e.expiresAt) {
			delete(s.resets, k)
		}
	}
}
