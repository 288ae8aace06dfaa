// Package history holds the bounded search history
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
	lookuperrors "github.com/horrygame/tg-finding/internal/domain/lookup/errors"
	"github.com/horrygame/tg-finding/internal/infrastructure/metrics"
)

// Log is the single owner of the search history. Entries are kept most recent first
// and the slice is never handed out, only copies of it.
type Log struct {
	mu      sync.RWMutex
	entries []entities.SearchLogEntry
	limit   int
	store   deps.HistoryStore
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewLog creates an empty history bounded to limit entries
func NewLog(limit int, store deps.HistoryStore, m *metrics.Metrics, logger zerolog.Logger) *Log {
	if limit < 1 {
		limit = 1
	}
	return &Log{
		entries: make([]entities.SearchLogEntry, 0, limit),
		limit:   limit,
		store:   store,
		metrics: m,
		logger:  logger.With().Str("component", "history").Logger(),
	}
}

// Load replaces the in-memory history with what the store kept from previous runs
func (l *Log) Load(ctx context.Context) error {
	entries, err := l.store.Load(ctx, l.limit)
	if err != nil {
		return fmt.Errorf("%w: %w", lookuperrors.ErrHistoryStorage, err)
	}
	if len(entries) > l.limit {
		entries = entries[:l.limit]
	}

	l.mu.Lock()
	l.entries = append(make([]entities.SearchLogEntry, 0, l.limit), entries...)
	l.mu.Unlock()

	l.metrics.SetHistoryEntries(len(entries))
	l.logger.Info().Int("entries", len(entries)).Msg("Search history loaded")
	return nil
}

// Append adds entry as the most recent one and evicts the oldest past the bound.
// A store failure is logged and counted; the in-memory history is still updated.
func (l *Log) Append(ctx context.Context, entry entities.SearchLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]entities.SearchLogEntry, 0, l.limit)
	next = append(next, entry)
	next = append(next, l.entries...)
	if len(next) > l.limit {
		next = next[:l.limit]
	}
	l.entries = next

	if err := l.store.Save(ctx, entry, next); err != nil {
		l.metrics.RecordHistoryWriteError()
		l.logger.Error().
			Err(err).
			Str("entry_id", entry.ID).
			Str("handle", entry.Handle).
			Msg("Failed to persist search history entry")
	}

	l.metrics.SetHistoryEntries(len(next))
}

// Recent returns at most limit entries, most recent first
func (l *Log) Recent(limit int) []entities.SearchLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	if limit < 0 {
		limit = 0
	}

	out := make([]entities.SearchLogEntry, limit)
	copy(out, l.entries[:limit])
	return out
}

// Len returns the number of entries currently held
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Stats derives aggregate counts from the current history
func (l *Log) Stats() entities.HistoryStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return computeStats(l.entries)
}

// Close closes the underlying store
func (l *Log) Close() error {
	return l.store.Close()
}
