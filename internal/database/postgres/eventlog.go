package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/xpscale/internal/eventlog"
)

const (
	queryLogEvent = `
		INSERT INTO progression_events (event_id, event_type, user_id, payload, metadata)
		VALUES ($1, $2, $3, $4, $5)`

	queryGetEventsByUser = `
		SELECT id, event_id, event_type, user_id, payload, metadata, created_at
		FROM progression_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	queryCleanupOldEvents = `
		DELETE FROM progression_events WHERE created_at < $1`
)

// EventLogRepository implements eventlog.Repository for PostgreSQL
type EventLogRepository struct {
	pool *pgxpool.Pool
}

// NewEventLogRepository creates a new EventLogRepository
func NewEventLogRepository(pool *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{pool: pool}
}

// LogEvent stores an event log entry
func (r *EventLogRepository) LogEvent(ctx context.Context, entry eventlog.Entry) error {
	_, err := r.pool.Exec(ctx, queryLogEvent,
		entry.EventID,
		entry.EventType,
		textOrNull(entry.UserID),
		entry.Payload,
		entry.Metadata,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}
	return nil
}

// GetEventsByUser returns a user's entries, newest first
func (r *EventLogRepository) GetEventsByUser(ctx context.Context, userID string, limit int) ([]eventlog.Entry, error) {
	rows, err := r.pool.Query(ctx, queryGetEventsByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvents, err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (eventlog.Entry, error) {
		var (
			e    eventlog.Entry
			user pgtype.Text
		)
		err := row.Scan(&e.ID, &e.EventID, &e.EventType, &user, &e.Payload, &e.Metadata, &e.CreatedAt)
		e.UserID = user.String
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvents, err)
	}
	return entries, nil
}

// CleanupOldEvents deletes entries created before cutoff
func (r *EventLogRepository) CleanupOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, queryCleanupOldEvents, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupEvents, err)
	}
	return tag.RowsAffected(), nil
}

var _ eventlog.Repository = (*EventLogRepository)(nil)
