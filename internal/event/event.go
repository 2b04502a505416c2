package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/scaled"
)

// Type represents the type of an event
type Type string

// Progression event types
const (
	LevelUp          Type = domain.EventTypeLevelUp
	RewardApplied    Type = domain.EventTypeRewardApplied
	SnapshotUpgraded Type = domain.EventTypeSnapshotUpgraded
)

// Event represents a generic event in the system
type Event struct {
	ID        string                 `json:"id"`
	Version   string                 `json:"version"` // Event schema version (e.g., "1.0")
	Type      Type                   `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   interface{}            `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// MetadataValue extracts a value from the event metadata safely
func (e Event) MetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// LevelUpPayloadV1 is published once per update that crossed at least one
// level. Crossed lists the levels reached in order. Very large jumps list only
// the highest ones, so ToLevel-FromLevel is the number of levels crossed.
type LevelUpPayloadV1 struct {
	UserID    string        `json:"user_id"`
	FromLevel int           `json:"from_level"`
	ToLevel   int           `json:"to_level"`
	Crossed   []int         `json:"crossed"`
	Total     scaled.Number `json:"total"`
	Source    string        `json:"source,omitempty"`
}

// RewardAppliedPayloadV1 is published for every applied award or delta
type RewardAppliedPayloadV1 struct {
	UserID     string        `json:"user_id"`
	Base       float64       `json:"base"`
	Multiplier float64       `json:"multiplier"`
	Amount     scaled.Number `json:"amount"`
	Total      scaled.Number `json:"total"`
	Negligible bool          `json:"negligible,omitempty"`
	Source     string        `json:"source,omitempty"`
}

// SnapshotUpgradedPayloadV1 is published when a legacy snapshot is loaded
type SnapshotUpgradedPayloadV1 struct {
	UserID      string `json:"user_id"`
	FromVersion int    `json:"from_version"`
	StoredLevel int    `json:"stored_level"`
	Level       int    `json:"level"`
}

func newEvent(t Type, payload interface{}, source string) Event {
	e := Event{
		ID:        uuid.NewString(),
		Version:   EventSchemaVersion,
		Type:      t,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if source != "" {
		e.Metadata = map[string]interface{}{"source": source}
	}
	return e
}

// NewLevelUpEvent creates a level up event
func NewLevelUpEvent(userID string, fromLevel, toLevel int, crossed []int, total scaled.Number, source string) Event {
	return newEvent(LevelUp, LevelUpPayloadV1{
		UserID:    userID,
		FromLevel: fromLevel,
		ToLevel:   toLevel,
		Crossed:   crossed,
		Total:     total,
		Source:    source,
	}, source)
}

// NewRewardAppliedEvent creates a reward applied event
func NewRewardAppliedEvent(payload RewardAppliedPayloadV1) Event {
	return newEvent(RewardApplied, payload, payload.Source)
}

// NewSnapshotUpgradedEvent creates a snapshot upgraded event
func NewSnapshotUpgradedEvent(userID string, fromVersion, storedLevel, level int) Event {
	return newEvent(SnapshotUpgraded, SnapshotUpgradedPayloadV1{
		UserID:      userID,
		FromVersion: fromVersion,
		StoredLevel: storedLevel,
		Level:       level,
	}, domain.SourceMigrated)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler subscribed to the event type, in subscription
// order. All handlers run even when some fail.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
