package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/leveling"
)

// ProfileRecord is one user's persisted progression.
type ProfileRecord struct {
	UserID string
	State  leveling.State
	// LegacySnapshot holds the raw document of a profile imported from an
	// older snapshot format. It is upgraded on the next read and cleared by
	// the following save.
	LegacySnapshot  json.RawMessage
	SnapshotVersion int
	UpdatedAt       time.Time
}

// HasLegacySnapshot reports whether the record still carries an unconverted snapshot
func (r *ProfileRecord) HasLegacySnapshot() bool {
	return len(r.LegacySnapshot) > 0
}

// Profile defines persistence for progression profiles
type Profile interface {
	// GetProfile returns domain.ErrProfileNotFound when the user has no row.
	GetProfile(ctx context.Context, userID string) (*ProfileRecord, error)
	// SaveProfile replaces the whole stored state for record.UserID.
	SaveProfile(ctx context.Context, record *ProfileRecord) error

	// Level-up history
	RecordLevelUps(ctx context.Context, records []domain.LevelUpRecord) error
	GetLevelUps(ctx context.Context, userID string, limit int) ([]domain.LevelUpRecord, error)

	// Boost levels. A boost the user never leveled is level 0.
	GetBoostLevel(ctx context.Context, userID, boostKey string) (int, error)
	SetBoostLevel(ctx context.Context, userID, boostKey string, level int) error
	GetBoostLevels(ctx context.Context, userID string) ([]domain.BoostLevel, error)
}
