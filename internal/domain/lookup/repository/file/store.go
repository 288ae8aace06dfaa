// Package file contains the JSON-lines file history store
package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

// Store keeps the bounded history in a JSON-lines file, oldest entry first.
// The whole file is rewritten on every save so it never grows past the bound.
type Store struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewStore creates a file store at path
func NewStore(path string, logger zerolog.Logger) deps.HistoryStore {
	return &Store{
		path:   path,
		logger: logger.With().Str("component", "history-file").Str("path", path).Logger(),
	}
}

// Load reads the file and returns at most limit entries, most recent first.
// A missing file is an empty history; malformed lines are skipped.
func (s *Store) Load(_ context.Context, limit int) ([]entities.SearchLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var chronological []entities.SearchLogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var e entities.SearchLogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			s.logger.Warn().Err(err).Int("line", lineNo).Msg("Skipping malformed history line")
			continue
		}
		chronological = append(chronological, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	n := len(chronological)
	if limit > 0 && n > limit {
		n = limit
	}
	entries := make([]entities.SearchLogEntry, 0, n)
	for i := len(chronological) - 1; i >= 0 && len(entries) < n; i-- {
		entries = append(entries, chronological[i])
	}

	return entries, nil
}

// Save rewrites the file with retained, oldest first, via a temp file and rename
func (s *Store) Save(_ context.Context, _ entities.SearchLogEntry, retained []entities.SearchLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := len(retained) - 1; i >= 0; i-- {
		if err := enc.Encode(retained[i]); err != nil {
			return fmt.Errorf("failed to encode history entry: %w", err)
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	return nil
}

// Close is a no-op; the file is not held open between saves
func (s *Store) Close() error {
	return nil
}
