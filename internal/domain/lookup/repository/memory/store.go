// Package memory contains the process-lifetime history store
package memory

import (
	"context"

	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

// Store keeps nothing beyond what the history log already holds in memory
type Store struct{}

// NewStore creates a new in-memory history store
func NewStore() deps.HistoryStore {
	return &Store{}
}

// Load returns no entries; memory history starts empty on every run
func (s *Store) Load(_ context.Context, _ int) ([]entities.SearchLogEntry, error) {
	return nil, nil
}

// Save is a no-op
func (s *Store) Save(_ context.Context, _ entities.SearchLogEntry, _ []entities.SearchLogEntry) error {
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
