package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/event"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/logger"
	"github.com/osse101/xpscale/internal/repository"
	"github.com/osse101/xpscale/internal/snapshot"
)

// GetProgress returns the user's level progress. A profile stored in a legacy
// snapshot shape is upgraded and rewritten first.
func (s *service) GetProgress(ctx context.Context, userID string) (*leveling.Progress, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	var progress leveling.Progress
	err := s.locks.WithLock(userID, func() error {
		rec, err := s.loadLocked(ctx, userID)
		if err != nil {
			return err
		}
		progress, err = s.resolver.Progress(rec.State)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetLevelUps returns the user's most recent level-ups
func (s *service) GetLevelUps(ctx context.Context, userID string, limit int) ([]domain.LevelUpRecord, error) {
	if limit <= 0 {
		limit = DefaultLevelUpHistoryLimit
	}
	return s.repo.GetLevelUps(ctx, userID, limit)
}

// GetBoosts returns the user's level and factor in every catalog boost
func (s *service) GetBoosts(ctx context.Context, userID string) ([]BoostStatus, error) {
	out := make([]BoostStatus, 0, len(s.catalog.Boosts))
	for _, b := range s.catalog.Boosts {
		level, err := s.repo.GetBoostLevel(ctx, userID, b.Key)
		if err != nil {
			return nil, err
		}
		factor, err := b.Modifier().Factor(level)
		if err != nil {
			return nil, err
		}
		out = append(out, BoostStatus{Key: b.Key, Level: level, Factor: factor})
	}
	return out, nil
}

// ImportSnapshot replaces the user's profile with a snapshot document of any
// supported version.
func (s *service) ImportSnapshot(ctx context.Context, userID string, raw json.RawMessage) (*leveling.Progress, error) {
	if userID == "" || len(raw) == 0 {
		return nil, fmt.Errorf("%w: user id and snapshot are required", domain.ErrInvalidInput)
	}

	var progress leveling.Progress
	err := s.locks.WithLock(userID, func() error {
		rec := &repository.ProfileRecord{
			UserID:         userID,
			State:          leveling.NewState(),
			LegacySnapshot: raw,
		}
		if err := s.upgradeLocked(ctx, rec); err != nil {
			return err
		}
		var err error
		progress, err = s.resolver.Progress(rec.State)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// loadLocked reads the profile and upgrades a legacy row in place. The
// caller holds the user's lock.
func (s *service) loadLocked(ctx context.Context, userID string) (*repository.ProfileRecord, error) {
	rec, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadProfile, err)
	}

	if rec.HasLegacySnapshot() {
		if err := s.upgradeLocked(ctx, rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// upgradeLocked converts rec.LegacySnapshot into the current state and saves
// the record in current shape.
func (s *service) upgradeLocked(ctx context.Context, rec *repository.ProfileRecord) error {
	snap, err := snapshot.Decode(rec.LegacySnapshot)
	if err != nil {
		return err
	}
	state, report, err := snapshot.Load(snap, s.resolver)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpgradeProfile, err)
	}

	rec.State = state
	rec.LegacySnapshot = nil
	rec.SnapshotVersion = snapshot.CurrentVersion
	if err := s.repo.SaveProfile(ctx, rec); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveProfile, err)
	}

	if report.Upgraded() {
		logger.FromContext(ctx).Info(LogMsgSnapshotUpgraded,
			"user_id", rec.UserID,
			"from_version", report.FromVersion,
			"stored_level", report.StoredLevel,
			"level", state.Level,
			"level_adjusted", report.LevelAdjusted)
		s.publish(ctx, event.NewSnapshotUpgradedEvent(rec.UserID, report.FromVersion, report.StoredLevel, state.Level))
	}
	return nil
}
