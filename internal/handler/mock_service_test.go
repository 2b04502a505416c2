package handler

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/xpscale/internal/curve"
	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/profile"
	"github.com/osse101/xpscale/internal/scaled"
)

// MockProfileService is a testify mock of profile.Service
type MockProfileService struct {
	mock.Mock
}

var _ profile.Service = (*MockProfileService)(nil)

func (m *MockProfileService) GetProgress(ctx context.Context, userID string) (*leveling.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leveling.Progress), args.Error(1)
}

func (m *MockProfileService) GetLevelUps(ctx context.Context, userID string, limit int) ([]domain.LevelUpRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LevelUpRecord), args.Error(1)
}

func (m *MockProfileService) GetBoosts(ctx context.Context, userID string) ([]profile.BoostStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]profile.BoostStatus), args.Error(1)
}

func (m *MockProfileService) AwardReward(ctx context.Context, userID string, req profile.RewardRequest) (*profile.UpdateResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.UpdateResult), args.Error(1)
}

func (m *MockProfileService) ApplyDelta(ctx context.Context, userID string, delta scaled.Number, source string) (*profile.UpdateResult, error) {
	args := m.Called(ctx, userID, delta, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.UpdateResult), args.Error(1)
}

func (m *MockProfileService) SetBoostLevel(ctx context.Context, userID, boostKey string, level int) error {
	args := m.Called(ctx, userID, boostKey, level)
	return args.Error(0)
}

func (m *MockProfileService) ImportSnapshot(ctx context.Context, userID string, raw json.RawMessage) (*leveling.Progress, error) {
	args := m.Called(ctx, userID, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leveling.Progress), args.Error(1)
}

func (m *MockProfileService) Requirement(level int) (scaled.Number, error) {
	args := m.Called(level)
	return args.Get(0).(scaled.Number), args.Error(1)
}

func (m *MockProfileService) CurveTable(from, to int) ([]curve.Row, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]curve.Row), args.Error(1)
}

func (m *MockProfileService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
