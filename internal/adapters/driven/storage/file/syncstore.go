// Package file provides file-backed stores: TOML cursors for
// driven.SyncStateStore and a YAML subscription list for driven.FeedStore.
//
// Each source kind has its own small cursor file:
//
//	kind = "notes"
//	last_sync_timestamp = 1718000000123456789
//	updated_at = 2024-06-10T08:53:20Z
//
// A missing or unparsable cursor file reads as "no prior sync".
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/logger"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// syncFile is the on-disk layout of one cursor.
type syncFile struct {
	Kind              string    `toml:"kind"`
	LastSyncTimestamp int64     `toml:"last_sync_timestamp"`
	UpdatedAt         time.Time `toml:"updated_at"`
}

// SyncStateStore keeps one TOML file per source kind.
type SyncStateStore struct {
	mu    sync.Mutex
	paths map[domain.SourceKind]string
}

// NewSyncStateStore creates a store writing each kind's cursor to the given path.
func NewSyncStateStore(paths map[domain.SourceKind]string) *SyncStateStore {
	p := make(map[domain.SourceKind]string, len(paths))
	for k, v := range paths {
		p[k] = v
	}
	return &SyncStateStore{paths: p}
}

// Save writes the cursor, creating parent directories as needed.
// The file is replaced atomically via rename.
func (s *SyncStateStore) Save(_ context.Context, state domain.SyncState) error {
	path, err := s.pathFor(state.Kind)
	if err != nil {
		return err
	}

	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	data, err := toml.Marshal(syncFile{
		Kind:              string(state.Kind),
		LastSyncTimestamp: state.LastSyncTimestamp,
		UpdatedAt:         updatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding sync state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating sync state directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing sync state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing sync state: %w", err)
	}
	return nil
}

// Get reads the cursor. Missing and corrupt files both return domain.ErrNotFound.
func (s *SyncStateStore) Get(_ context.Context, kind domain.SourceKind) (*domain.SyncState, error) {
	path, err := s.pathFor(kind)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()

	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading sync state: %w", err)
	}

	var f syncFile
	if err := toml.Unmarshal(data, &f); err != nil {
		logger.Warn("ignoring corrupt sync state", "path", path, "error", err)
		return nil, domain.ErrNotFound
	}

	return &domain.SyncState{
		Kind:              kind,
		LastSyncTimestamp: f.LastSyncTimestamp,
		UpdatedAt:         f.UpdatedAt,
	}, nil
}

// Delete removes the cursor file. A missing file is not an error.
func (s *SyncStateStore) Delete(_ context.Context, kind domain.SourceKind) error {
	path, err := s.pathFor(kind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting sync state: %w", err)
	}
	return nil
}

func (s *SyncStateStore) pathFor(kind domain.SourceKind) (string, error) {
	path, ok := s.paths[kind]
	if !ok || path == "" {
		return "", fmt.Errorf("sync state path for %q: %w", kind, domain.ErrInvalidInput)
	}
	return path, nil
}
