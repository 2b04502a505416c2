package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/repository"
)

// ProfileRepository is an in-memory repository.Profile. It backs the CLI and
// STORAGE_DRIVER=memory.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]repository.ProfileRecord
	levelUps map[string][]domain.LevelUpRecord
	boosts   map[string]map[string]int
	now      func() time.Time
}

// NewProfileRepository creates an empty repository
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]repository.ProfileRecord),
		levelUps: make(map[string][]domain.LevelUpRecord),
		boosts:   make(map[string]map[string]int),
		now:      time.Now,
	}
}

// GetProfile returns a copy of the stored record
func (r *ProfileRepository) GetProfile(_ context.Context, userID string) (*repository.ProfileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	rec.LegacySnapshot = append([]byte(nil), rec.LegacySnapshot...)
	return &rec, nil
}

// SaveProfile stores a copy of record
func (r *ProfileRepository) SaveProfile(_ context.Context, record *repository.ProfileRecord) error {
	if record == nil || record.UserID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := *record
	rec.LegacySnapshot = append([]byte(nil), record.LegacySnapshot...)
	rec.UpdatedAt = r.now().UTC()
	r.profiles[rec.UserID] = rec
	record.UpdatedAt = rec.UpdatedAt
	return nil
}

// RecordLevelUps appends level-up history
func (r *ProfileRepository) RecordLevelUps(_ context.Context, records []domain.LevelUpRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		r.levelUps[rec.UserID] = append(r.levelUps[rec.UserID], rec)
	}
	return nil
}

// GetLevelUps returns the most recent level-ups first. limit <= 0 returns all.
func (r *ProfileRepository) GetLevelUps(_ context.Context, userID string, limit int) ([]domain.LevelUpRecord, error) {
	r.mu.RLock()
	history := r.levelUps[userID]
	out := make([]domain.LevelUpRecord, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	r.mu.RUnlock()
	return out, nil
}

// GetBoostLevel returns 0 for boosts the user never leveled
func (r *ProfileRepository) GetBoostLevel(_ context.Context, userID, boostKey string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.boosts[userID][boostKey], nil
}

// SetBoostLevel stores the user's level in a boost
func (r *ProfileRepository) SetBoostLevel(_ context.Context, userID, boostKey string, level int) error {
	if level < 0 {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	levels, ok := r.boosts[userID]
	if !ok {
		levels = make(map[string]int)
		r.boosts[userID] = levels
	}
	levels[boostKey] = level
	return nil
}

// GetBoostLevels returns all boost levels of a user sorted by key
func (r *ProfileRepository) GetBoostLevels(_ context.Context, userID string) ([]domain.BoostLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.BoostLevel, 0, len(r.boosts[userID]))
	for key, level := range r.boosts[userID] {
		out = append(out, domain.BoostLevel{UserID: userID, BoostKey: key, Level: level})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BoostKey < out[j].BoostKey })
	return out, nil
}
