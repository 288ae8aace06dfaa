// Package dto contains data transfer objects for the lookup domain
package dto

import (
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

// StartCommandRequest represents a request to handle /start command
type StartCommandRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// LookupRequest represents one profile lookup from chat
type LookupRequest struct {
	UserID int64  `json:"userId"`
	Query  string `json:"query"`
	Source string `json:"source"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// PreparedLookup is a validated lookup ready to be fetched
type PreparedLookup struct {
	UserID int64  `json:"userId"`
	Handle string `json:"handle"`
	Source string `json:"source"`
	Notice string `json:"notice"`
}

// LookupResponse is the final reply of a lookup
type LookupResponse struct {
	Handle  string `json:"handle"`
	Message string `json:"message"`
	Success bool   `json:"success"`

	// Event is published once the reply has been delivered
	Event *LookupEvent `json:"-"`
}

// LookupEvent is published for every finished lookup attempt
type LookupEvent struct {
	EventID    string `json:"event_id"`
	UserID     int64  `json:"user_id"`
	Handle     string `json:"handle"`
	Source     string `json:"source"`
	Outcome    string `json:"outcome"`
	Success    bool   `json:"success"`
	Reason     string `json:"reason,omitempty"`
	ProfileID  int64  `json:"profile_id,omitempty"`
	Kind       string `json:"kind,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// StatusStats is the stats block of the status response
type StatusStats struct {
	TotalSearches      int    `json:"totalSearches"`
	SuccessfulSearches int    `json:"successfulSearches"`
	FailedSearches     int    `json:"failedSearches"`
	SuccessRate        string `json:"successRate"`
}

// StatusResponse is returned by GET /status
type StatusResponse struct {
	Status      string      `json:"status"`
	Service     string      `json:"service"`
	Bot         string      `json:"bot"`
	Version     string      `json:"version"`
	Environment string      `json:"environment"`
	Stats       StatusStats `json:"stats"`
	Uptime      float64     `json:"uptime"`
	Timestamp   string      `json:"timestamp"`
}

// LogsResponse is returned by GET /api/logs
type LogsResponse struct {
	Logs  []entities.SearchLogEntry `json:"logs"`
	Total int                       `json:"total"`
}
