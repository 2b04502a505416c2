package memory

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/xpscale/internal/eventlog"
)

// EventLogRepository is an in-memory eventlog.Repository
type EventLogRepository struct {
	mu      sync.RWMutex
	entries []eventlog.Entry
	nextID  int64
	now     func() time.Time
}

// NewEventLogRepository creates an empty event log
func NewEventLogRepository() *EventLogRepository {
	return &EventLogRepository{now: time.Now}
}

// LogEvent appends an entry
func (r *EventLogRepository) LogEvent(_ context.Context, entry eventlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = r.now().UTC()
	r.entries = append(r.entries, entry)
	return nil
}

// GetEventsByUser returns a user's entries, newest first
func (r *EventLogRepository) GetEventsByUser(_ context.Context, userID string, limit int) ([]eventlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]eventlog.Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID != userID {
			continue
		}
		out = append(out, r.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// CleanupOldEvents drops entries created before cutoff
func (r *EventLogRepository) CleanupOldEvents(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	var deleted int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}

var _ eventlog.Repository = (*EventLogRepository)(nil)
