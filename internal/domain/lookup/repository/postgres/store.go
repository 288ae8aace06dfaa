// Package postgres contains the gorm-backed history store
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

// SearchLogRow is the database model of a search history entry
type SearchLogRow struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Timestamp time.Time `gorm:"not null;index"`
	UserID    int64     `gorm:"not null;index"`
	Handle    string    `gorm:"type:text;not null"`
	Success   bool      `gorm:"not null"`
	Reason    string    `gorm:"type:text"`
	Source    string    `gorm:"size:16"`
}

// TableName returns the table name for SearchLogRow
func (SearchLogRow) TableName() string {
	return "search_log_entries"
}

// Store keeps the bounded history in PostgreSQL
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewStore creates a new postgres history store
func NewStore(db *gorm.DB, logger zerolog.Logger) deps.HistoryStore {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "history-postgres").Logger(),
	}
}

// Load returns at most limit rows, most recent first
func (s *Store) Load(ctx context.Context, limit int) ([]entities.SearchLogEntry, error) {
	var rows []SearchLogRow
	if err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load search history: %w", err)
	}

	entries := make([]entities.SearchLogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntity(row))
	}
	return entries, nil
}

// Save inserts entry and deletes every row that fell out of retained
func (s *Store) Save(ctx context.Context, entry entities.SearchLogEntry, retained []entities.SearchLogEntry) error {
	ids := make([]string, 0, len(retained))
	for _, e := range retained {
		ids = append(ids, e.ID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toRow(entry)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert search history entry: %w", err)
		}

		if len(ids) == 0 {
			return nil
		}
		result := tx.Where("id NOT IN ?", ids).Delete(&SearchLogRow{})
		if result.Error != nil {
			return fmt.Errorf("failed to trim search history: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			s.logger.Debug().Int64("deleted", result.RowsAffected).Msg("Trimmed search history")
		}
		return nil
	})
}

// Close is a no-op; the connection is owned by the database lifecycle
func (s *Store) Close() error {
	return nil
}

func toRow(e entities.SearchLogEntry) SearchLogRow {
	return SearchLogRow{
		ID:        e.ID,
		Timestamp: e.Timestamp.UTC(),
		UserID:    e.UserID,
		Handle:    e.Handle,
		Success:   e.Success,
		Reason:    e.Reason,
		Source:    e.Source,
	}
}

func toEntity(row SearchLogRow) entities.SearchLogEntry {
	return entities.SearchLogEntry{
		ID:        row.ID,
		Timestamp: row.Timestamp,
		UserID:    row.UserID,
		Handle:    row.Handle,
		Success:   row.Success,
		Reason:    row.Reason,
		Source:    row.Source,
	}
}
