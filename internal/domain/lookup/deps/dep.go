// Package deps contains interface definitions for the lookup domain dependencies
package deps

import (
	"context"

	"github.com/horrygame/tg-finding/internal/domain/lookup/dto"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
	"github.com/horrygame/tg-finding/internal/domain/lookup/handle"
)

// ProfileFetcher fetches public profile metadata by handle
type ProfileFetcher interface {
	// Fetch performs exactly one bounded remote attempt. It never writes history.
	Fetch(ctx context.Context, h handle.Handle) entities.LookupOutcome
}

// HistoryLog is the bounded record of lookup attempts
type HistoryLog interface {
	// Append records an entry. Storage failures are reported internally, never returned.
	Append(ctx context.Context, entry entities.SearchLogEntry)

	// Recent returns at most limit entries, most recent first
	Recent(limit int) []entities.SearchLogEntry

	// Stats derives aggregate counts from the current history
	Stats() entities.HistoryStats

	// Len returns the number of entries currently held
	Len() int
}

// HistoryStore persists the history between restarts
type HistoryStore interface {
	// Load returns at most limit stored entries, most recent first
	Load(ctx context.Context, limit int) ([]entities.SearchLogEntry, error)

	// Save persists entry. retained is the full bounded history after the append,
	// most recent first; anything not in it may be dropped.
	Save(ctx context.Context, entry entities.SearchLogEntry, retained []entities.SearchLogEntry) error

	// Close releases the store
	Close() error
}

// LookupEventPublisher publishes finished lookups for downstream consumers
type LookupEventPublisher interface {
	// PublishLookup sends one lookup event
	PublishLookup(ctx context.Context, event *dto.LookupEvent) error

	// Close closes the publisher
	Close() error
}

// BotIdentity exposes the running bot's username
type BotIdentity interface {
	Username() string
}
