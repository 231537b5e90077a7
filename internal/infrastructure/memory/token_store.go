// Package memory holds process-local implementations of the core ports.
// State does not survive a restart and is not shared between replicas.
package memory

import (
	"context"
	"crypto/subtle"
	"sync"
)

// TokenStore implements ports.TokenSetStore in process memory. Each session
// set has its own lock, so traffic for different sessions never contends.
type TokenStore struct {
	sets sync.Map // sessionID -> *tokenSet
}

// NewTokenStore returns an empty TokenStore.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// tokenSet keeps tokens in insertion order; the oldest is at index 0.
// A set marked dead has been removed from the map and must not be reused.
type tokenSet struct {
	mu     sync.Mutex
	tokens []string
	dead   bool
}

func (s *TokenStore) Append(_ context.Context, sessionID, token string, limit int) error {
	for {
		v, _ := s.sets.LoadOrStore(sessionID, &tokenSet{})
		set := v.(*tokenSet)

		set.mu.Lock()
		if set.dead {
			set.mu.Unlock()
			continue
		}
		set.tokens = append(set.tokens, token)
		if over := len(set.tokens) - limit; limit > 0 && over > 0 {
			set.tokens = append(set.tokens[:0], set.tokens[over:]...)
		}
		set.mu.Unlock()
		return nil
	}
}

func (s *TokenStore) Consume(_ context.Context, sessionID, token string) (bool, error) {
	v, ok := s.sets.Load(sessionID)
	if !ok {
		return false, nil
	}
	set := v.(*tokenSet)

	set.mu.Lock()
	defer set.mu.Unlock()

	for i, t := range set.tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) != 1 {
			continue
		}
		set.tokens = append(set.tokens[:i], set.tokens[i+1:]...)
		if len(set.tokens) == 0 {
			set.dead = true
			s.sets.CompareAndDelete(sessionID, set)
		}
		return true, nil
	}
	return false, nil
}

func (s *TokenStore) Drop(_ context.Context, sessionID string) error {
	v, ok := s.sets.LoadAndDelete(sessionID)
	if !ok {
		return nil
	}
	set := v.(*tokenSet)
	set.mu.Lock()
	set.dead = true
	set.tokens = nil
	set.mu.Unlock()
	return nil
}

// Len reports how many unconsumed tokens sessionID holds.
func (s *TokenStore) Len(sessionID string) int {
	v, ok := s.sets.Load(sessionID)
	if !ok {
		return 0
	}
	set := v.(*tokenSet)
	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.tokens)
}
