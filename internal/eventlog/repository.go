package eventlog

import (
	"context"
	"time"
)

// Entry is one logged progression event
type Entry struct {
	ID        int64                  `json:"id"`
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Repository defines the interface for event log storage
type Repository interface {
	// LogEvent stores an entry. ID and CreatedAt are assigned by the store.
	LogEvent(ctx context.Context, entry Entry) error

	// GetEventsByUser returns a user's entries, newest first
	GetEventsByUser(ctx context.Context, userID string, limit int) ([]Entry, error)

	// CleanupOldEvents removes entries created before cutoff
	CleanupOldEvents(ctx context.Context, cutoff time.Time) (int64, error)
}
