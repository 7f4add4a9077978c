package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/qcom/passguard/internal/models"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore keeps per-session state. Implementations must treat a
// session whose ExpiresAt has passed as missing.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Save(ctx context.Context, state *models.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// MemorySessionStore is a process-local SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.SessionState
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]models.SessionState),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (*models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().After(state.ExpiresAt) {
		delete(s.sessions, sessionID)
		return nil, ErrSessionNotFound
	}

	return copyState(state), nil
}

func (s *MemorySessionStore) Save(_ context.Context, state *models.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().After(state.ExpiresAt) {
		delete(s.sessions, state.SessionID)
		return ErrSessionNotFound
	}

	s.sessions[state.SessionID] = *copyState(*state)
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// Callers get their own challenge so mutations never reach the map.
func copyState(state models.SessionState) *models.SessionState {
	if state.Challenge != nil {
		c := *state.Challenge
		state.Challenge = &c
	}
	return &state
}
