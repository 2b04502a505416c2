package profile

import (
	"context"
	"encoding/json"

	"github.com/osse101/xpscale/internal/concurrency"
	"github.com/osse101/xpscale/internal/curve"
	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/event"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/logger"
	"github.com/osse101/xpscale/internal/repository"
	"github.com/osse101/xpscale/internal/reward"
	"github.com/osse101/xpscale/internal/scaled"
)

// Service defines the progression business logic
type Service interface {
	// Reads
	GetProgress(ctx context.Context, userID string) (*leveling.Progress, error)
	GetLevelUps(ctx context.Context, userID string, limit int) ([]domain.LevelUpRecord, error)
	GetBoosts(ctx context.Context, userID string) ([]BoostStatus, error)

	// Updates. Calls for the same user are serialized.
	AwardReward(ctx context.Context, userID string, req RewardRequest) (*UpdateResult, error)
	ApplyDelta(ctx context.Context, userID string, delta scaled.Number, source string) (*UpdateResult, error)
	SetBoostLevel(ctx context.Context, userID, boostKey string, level int) error
	ImportSnapshot(ctx context.Context, userID string, raw json.RawMessage) (*leveling.Progress, error)

	// Curve lookups
	Requirement(level int) (scaled.Number, error)
	CurveTable(from, to int) ([]curve.Row, error)

	Shutdown(ctx context.Context) error
}

// RewardRequest is a base reward plus caller-supplied factors. Catalog boost
// factors are added by the service.
type RewardRequest struct {
	BaseAmount float64
	Factors    []float64
	Source     string
}

// UpdateResult is the outcome of one progression update
type UpdateResult struct {
	UserID   string            `json:"user_id"`
	Previous leveling.State    `json:"previous"`
	State    leveling.State    `json:"state"`
	Crossed  []int             `json:"crossed"`
	// Unlisted counts crossed levels left out of Crossed on very large jumps.
	Unlisted int               `json:"unlisted_crossings,omitempty"`
	Award    *reward.Award     `json:"award,omitempty"`
	Progress leveling.Progress `json:"progress"`
	// Negligible is set when a positive delta left the total unchanged.
	Negligible bool `json:"negligible,omitempty"`
}

// LeveledUp reports whether the update crossed at least one level
func (r *UpdateResult) LeveledUp() bool {
	return len(r.Crossed) > 0
}

// BoostStatus is a user's level and current factor in one catalog boost
type BoostStatus struct {
	Key    string  `json:"key"`
	Level  int     `json:"level"`
	Factor float64 `json:"factor"`
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type service struct {
	repo        repository.Profile
	resolver    *leveling.Resolver
	catalog     *reward.Catalog
	accumulator *reward.Accumulator
	publisher   event.Bus
	locks       *concurrency.LockManager
}

// NewService creates a new profile service. Boost factors are read from the
// catalog with levels stored in repo. publisher may be nil.
func NewService(repo repository.Profile, resolver *leveling.Resolver, catalog *reward.Catalog, publisher event.Bus) Service {
	if catalog == nil {
		catalog = &reward.Catalog{}
	}
	return &service{
		repo:        repo,
		resolver:    resolver,
		catalog:     catalog,
		accumulator: reward.NewAccumulator(catalog.Sources(repo)...),
		publisher:   publisher,
		locks:       concurrency.NewLockManager(),
	}
}

// Requirement returns the requirement to reach level from level-1
func (s *service) Requirement(level int) (scaled.Number, error) {
	return s.resolver.Curve().Requirement(level)
}

// CurveTable returns curve rows for from..to inclusive
func (s *service) CurveTable(from, to int) ([]curve.Row, error) {
	if to < from || to-from >= MaxCurveTableRows {
		return nil, domain.ErrInvalidInput
	}
	return curve.Table(s.resolver.Curve(), from, to)
}

// Shutdown flushes the publisher when it supports it
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown)

	if sd, ok := s.publisher.(shutdowner); ok {
		if err := sd.Shutdown(ctx); err != nil {
			log.Error("Failed to shut down profile publisher", "error", err)
			return err
		}
	}

	log.Info(LogMsgShutdownComplete)
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
