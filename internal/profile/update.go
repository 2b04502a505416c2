package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/event"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/logger"
	"github.com/osse101/xpscale/internal/repository"
	"github.com/osse101/xpscale/internal/reward"
	"github.com/osse101/xpscale/internal/scaled"
	"github.com/osse101/xpscale/internal/snapshot"
)

// AwardReward applies base times every boost factor of the user and the
// request's extra factors.
func (s *service) AwardReward(ctx context.Context, userID string, req RewardRequest) (*UpdateResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	var result *UpdateResult
	err := s.locks.WithLock(userID, func() error {
		award, err := s.accumulator.Award(ctx, userID, req.BaseAmount, req.Factors)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToComputeAward, err)
		}
		result, err = s.applyLocked(ctx, userID, award.Amount, req.Source, &award)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRewardApplied,
		"user_id", userID,
		"base", req.BaseAmount,
		"multiplier", result.Award.Multiplier,
		"amount", result.Award.Amount.String(),
		"level", result.State.Level,
		"source", req.Source)
	return result, nil
}

// ApplyDelta adds a non-negative delta to the user's total
func (s *service) ApplyDelta(ctx context.Context, userID string, delta scaled.Number, source string) (*UpdateResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	var result *UpdateResult
	err := s.locks.WithLock(userID, func() error {
		var err error
		result, err = s.applyLocked(ctx, userID, delta, source, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDeltaApplied,
		"user_id", userID,
		"delta", delta.String(),
		"level", result.State.Level,
		"source", source)
	return result, nil
}

// SetBoostLevel stores the user's level in a catalog boost
func (s *service) SetBoostLevel(ctx context.Context, userID, boostKey string, level int) error {
	if userID == "" || level < 0 {
		return fmt.Errorf("%w: user id and a non-negative level are required", domain.ErrInvalidInput)
	}
	if !s.catalog.Has(boostKey) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownBoost, boostKey)
	}

	return s.locks.WithLock(userID, func() error {
		return s.repo.SetBoostLevel(ctx, userID, boostKey, level)
	})
}

// applyLocked loads the profile (creating it on first use), resolves delta
// and saves the whole new state. The caller holds the user's lock.
func (s *service) applyLocked(ctx context.Context, userID string, delta scaled.Number, source string, award *reward.Award) (*UpdateResult, error) {
	rec, err := s.loadLocked(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		rec = &repository.ProfileRecord{
			UserID:          userID,
			State:           leveling.NewState(),
			SnapshotVersion: snapshot.CurrentVersion,
		}
	} else if err != nil {
		return nil, err
	}

	previous := rec.State
	res, err := s.resolver.ApplyDelta(previous, delta)
	if err != nil {
		return nil, err
	}

	rec.State = res.State
	rec.SnapshotVersion = snapshot.CurrentVersion
	if err := s.repo.SaveProfile(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSaveProfile, err)
	}

	progress, err := s.resolver.Progress(res.State)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{
		UserID:     userID,
		Previous:   previous,
		State:      res.State,
		Crossed:    res.Crossed,
		Unlisted:   res.Unlisted,
		Award:      award,
		Progress:   progress,
		Negligible: delta.Sign() > 0 && res.State.Total.Equal(previous.Total),
	}

	if result.Negligible {
		logger.FromContext(ctx).Debug(LogMsgNegligibleDelta,
			"user_id", userID,
			"delta", delta.String(),
			"total", previous.Total.String())
	}

	if result.LeveledUp() {
		s.recordLevelUps(ctx, userID, res.Crossed, source)
		logger.FromContext(ctx).Info(LogMsgLevelUp,
			"user_id", userID,
			"from_level", previous.Level,
			"to_level", res.State.Level,
			"levels_crossed", res.CrossedCount())
		s.publish(ctx, event.NewLevelUpEvent(userID, previous.Level, res.State.Level, res.Crossed, res.State.Total, source))
	}

	s.publish(ctx, event.NewRewardAppliedEvent(rewardPayload(userID, delta, res.State, result.Negligible, source, award)))
	return result, nil
}

func (s *service) recordLevelUps(ctx context.Context, userID string, crossed []int, source string) {
	now := time.Now().UTC()
	records := make([]domain.LevelUpRecord, 0, len(crossed))
	for _, level := range crossed {
		records = append(records, domain.LevelUpRecord{
			ID:        uuid.New(),
			UserID:    userID,
			Level:     level,
			Source:    source,
			ReachedAt: now,
		})
	}
	if err := s.repo.RecordLevelUps(ctx, records); err != nil {
		logger.FromContext(ctx).Error(LogMsgRecordLevelUpsFail, "user_id", userID, "error", err)
	}
}

func rewardPayload(userID string, delta scaled.Number, state leveling.State, negligible bool, source string, award *reward.Award) event.RewardAppliedPayloadV1 {
	p := event.RewardAppliedPayloadV1{
		UserID:     userID,
		Multiplier: reward.NoBoost,
		Amount:     delta,
		Total:      state.Total,
		Negligible: negligible,
		Source:     source,
	}
	if award != nil {
		p.Base = award.Base
		p.Multiplier = award.Multiplier
	}
	return p
}
