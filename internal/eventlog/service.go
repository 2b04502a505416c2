// Package eventlog keeps an audit trail of progression events.
package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/osse101/xpscale/internal/event"
	"github.com/osse101/xpscale/internal/logger"
)

// LoggedTypes are the event types recorded by Subscribe
var LoggedTypes = []event.Type{
	event.LevelUp,
	event.RewardApplied,
	event.SnapshotUpgraded,
}

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger for every LoggedTypes entry
	Subscribe(bus event.Bus)

	// GetUserEvents returns a user's logged events, newest first
	GetUserEvents(ctx context.Context, userID string, limit int) ([]Entry, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Subscribe(bus event.Bus) {
	for _, eventType := range LoggedTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
}

// handleEvent flattens the typed payload into a JSON object and stores it
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, ok := payloadMap(evt.Payload)
	if !ok {
		log.Debug(LogMsgEventPayloadUndecodable, "type", evt.Type)
		return nil
	}

	userID, _ := payload[PayloadKeyUserID].(string)
	if userID == "" {
		log.Debug(LogMsgEventUnattributed, "type", evt.Type)
		return nil
	}

	entry := Entry{
		EventID:   evt.ID,
		EventType: string(evt.Type),
		UserID:    userID,
		Payload:   payload,
		Metadata:  evt.Metadata,
	}

	if err := s.repo.LogEvent(ctx, entry); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, "type", evt.Type, "user_id", userID)
	return nil
}

func payloadMap(payload interface{}) (map[string]interface{}, bool) {
	if m, ok := payload.(map[string]interface{}); ok {
		return m, true
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

func (s *service) GetUserEvents(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	return s.repo.GetEventsByUser(ctx, userID, limit)
}

func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	return s.repo.CleanupOldEvents(ctx, cutoff)
}
