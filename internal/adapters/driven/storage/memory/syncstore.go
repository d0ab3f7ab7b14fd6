package memory

import (
	"context"
	"sync"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
type SyncStateStore struct {
	mu     sync.RWMutex
	states map[domain.SourceKind]domain.SyncState
}

// NewSyncStateStore creates a new in-memory sync state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		states: make(map[domain.SourceKind]domain.SyncState),
	}
}

// Save stores or updates the cursor for a source kind.
func (s *SyncStateStore) Save(_ context.Context, state domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.Kind] = state
	return nil
}

// Get retrieves the cursor for a source kind.
func (s *SyncStateStore) Get(_ context.Context, kind domain.SourceKind) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[kind]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// Delete removes the cursor for a source kind.
func (s *SyncStateStore) Delete(_ context.Context, kind domain.SourceKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, kind)
	return nil
}
