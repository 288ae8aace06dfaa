package entities

import "time"

// SearchLogEntry records one lookup attempt. Entries are never mutated.
type SearchLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"userId"`
	Handle    string    `json:"username"`
	Success   bool      `json:"success"`
	Reason    string    `json:"message"`
	Source    string    `json:"source"`
}

// HandleCount is a handle with how many times it was found
type HandleCount struct {
	Handle string `json:"username"`
	Count  int    `json:"count"`
}

// HistoryStats is derived from the current history on demand
type HistoryStats struct {
	Total       int           `json:"total"`
	Successful  int           `json:"successful"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"successRate"`
	LastEntryAt time.Time     `json:"lastEntryAt"`
	TopHandles  []HandleCount `json:"topHandles"`
}
