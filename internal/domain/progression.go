package domain

import (
	"time"

	"github.com/google/uuid"
)

// LevelUpRecord is one newly reached level, kept for auditing and for
// downstream reward unlocks keyed on level thresholds.
type LevelUpRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Level     int       `json:"level"`
	Source    string    `json:"source,omitempty"`
	ReachedAt time.Time `json:"reached_at"`
}

// BoostLevel is the level a user holds in one catalog boost (a skill node,
// an equipped character, a collection tier).
type BoostLevel struct {
	UserID   string `json:"user_id"`
	BoostKey string `json:"boost_key"`
	Level    int    `json:"level"`
}

// Reward sources
const (
	SourceQuiz     = "quiz"
	SourcePassive  = "passive"
	SourceAdmin    = "admin"
	SourceMigrated = "migration"
)
