package profile

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/xpscale/internal/curve"
	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/event"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/repository"
	"github.com/osse101/xpscale/internal/repository/memory"
	"github.com/osse101/xpscale/internal/reward"
	"github.com/osse101/xpscale/internal/scaled"
)

const testCatalog = `
[[boost]]
key = "skills"
type = "percentage"
per_level = 0.10

[[boost]]
key = "collection"
type = "multiplicative"
base = 1.0
per_level = 0.02
max = 2.0
`

// recordingBus captures published events
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (b *recordingBus) Publish(_ context.Context, evt event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return b.err
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) ofType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	svc  Service
	repo *memory.ProfileRepository
	bus  *recordingBus
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	catalog, err := reward.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)

	repo := memory.NewProfileRepository()
	bus := &recordingBus{}
	svc := NewService(repo, leveling.NewResolver(curve.NewStandard()), catalog, bus)
	return fixture{svc: svc, repo: repo, bus: bus}
}

func TestApplyDelta_NewProfileLevelsUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.ApplyDelta(ctx, "user-1", scaled.FromFloat(2900), domain.SourceQuiz)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Previous.Level)
	assert.Equal(t, 4, res.State.Level)
	assert.Equal(t, []int{2, 3, 4}, res.Crossed)
	assert.True(t, res.LeveledUp())
	assert.Nil(t, res.Award)
	assert.False(t, res.Negligible)
	assert.Equal(t, 0.0, res.Progress.Fraction)

	stored, err := f.repo.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, stored.State.Total.Equal(scaled.FromFloat(2900)))

	history, err := f.svc.GetLevelUps(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 4, history[0].Level)
	assert.Equal(t, domain.SourceQuiz, history[0].Source)

	levelUps := f.bus.ofType(event.LevelUp)
	require.Len(t, levelUps, 1, "one event per update")
	payload, err := event.DecodePayload[event.LevelUpPayloadV1](levelUps[0])
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, payload.Crossed)
	assert.Equal(t, 1, payload.FromLevel)
	assert.Equal(t, 4, payload.ToLevel)

	assert.Len(t, f.bus.ofType(event.RewardApplied), 1)
}

func TestApplyDelta_NoLevelUpPublishesOnlyReward(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ApplyDelta(context.Background(), "user-1", scaled.FromFloat(50), domain.SourcePassive)
	require.NoError(t, err)

	assert.Equal(t, 1, res.State.Level)
	assert.Empty(t, res.Crossed)
	assert.NotNil(t, res.Crossed)
	assert.Empty(t, f.bus.ofType(event.LevelUp))
	assert.Len(t, f.bus.ofType(event.RewardApplied), 1)
}

func TestApplyDelta_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ApplyDelta(ctx, "user-1", scaled.FromFloat(-1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidDelta)

	_, err = f.svc.ApplyDelta(ctx, "", scaled.FromFloat(1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.repo.GetProfile(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound, "failed update must not create a profile")
}

func TestApplyDelta_Negligible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.ApplyDelta(ctx, "whale", scaled.New(1, 30), "")
	require.NoError(t, err)

	res, err := f.svc.ApplyDelta(ctx, "whale", scaled.FromFloat(1), "")
	require.NoError(t, err)

	assert.True(t, res.Negligible)
	assert.Equal(t, first.State.Level, res.State.Level)
	assert.True(t, res.State.Total.Equal(first.State.Total))

	rewards := f.bus.ofType(event.RewardApplied)
	require.Len(t, rewards, 2)
	payload, err := event.DecodePayload[event.RewardAppliedPayloadV1](rewards[1])
	require.NoError(t, err)
	assert.True(t, payload.Negligible)
}

func TestApplyDelta_HugeJumpListsHighestLevels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.ApplyDelta(ctx, "whale", scaled.New(1, 20), domain.SourcePassive)
	require.NoError(t, err)

	assert.Greater(t, res.State.Level, 5_000_000)
	assert.Len(t, res.Crossed, leveling.MaxListedCrossings)
	assert.Equal(t, res.State.Level, res.Crossed[len(res.Crossed)-1])
	assert.Equal(t, res.State.Level-1, len(res.Crossed)+res.Unlisted)

	history, err := f.repo.GetLevelUps(ctx, "whale", 0)
	require.NoError(t, err)
	assert.Len(t, history, leveling.MaxListedCrossings)
	assert.Equal(t, res.State.Level, history[0].Level)

	levelUps := f.bus.ofType(event.LevelUp)
	require.Len(t, levelUps, 1)
	payload, err := event.DecodePayload[event.LevelUpPayloadV1](levelUps[0])
	require.NoError(t, err)
	assert.Equal(t, res.State.Level-1, payload.ToLevel-payload.FromLevel)
}

func TestApplyDelta_ZeroIsNotNegligible(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ApplyDelta(context.Background(), "user-1", scaled.Zero(), "")
	require.NoError(t, err)
	assert.False(t, res.Negligible)
	assert.Equal(t, 1, res.State.Level)
}

func TestApplyDelta_ConcurrentUpdatesSerialize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ApplyDelta(ctx, "user-1", scaled.FromFloat(100), "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.repo.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, stored.State.Total.Equal(scaled.FromFloat(5000)))
	// cumulative(4) = 2900 <= 5000 < cumulative(5) = 5400
	assert.Equal(t, 4, stored.State.Level)

	history, err := f.svc.GetLevelUps(ctx, "user-1", 100)
	require.NoError(t, err)
	assert.Len(t, history, 3, "each level is reached exactly once")
}

func TestApplyDelta_PublishFailureDoesNotFailUpdate(t *testing.T) {
	f := newFixture(t)
	f.bus.err = errors.New("bus down")

	res, err := f.svc.ApplyDelta(context.Background(), "user-1", scaled.FromFloat(400), "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.State.Level)
}

type failingSaveRepo struct {
	*memory.ProfileRepository
}

func (failingSaveRepo) SaveProfile(context.Context, *repository.ProfileRecord) error {
	return errors.New("disk full")
}

func TestApplyDelta_SaveFailure(t *testing.T) {
	repo := failingSaveRepo{memory.NewProfileRepository()}
	bus := &recordingBus{}
	svc := NewService(repo, leveling.NewResolver(curve.NewStandard()), nil, bus)

	_, err := svc.ApplyDelta(context.Background(), "user-1", scaled.FromFloat(400), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToSaveProfile)
	assert.Empty(t, bus.ofType(event.RewardApplied), "nothing is published for a failed save")
}

func TestAwardReward_ComposesCatalogAndExtraFactors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetBoostLevel(ctx, "user-1", "skills", 2))

	res, err := f.svc.AwardReward(ctx, "user-1", RewardRequest{
		BaseAmount: 100,
		Factors:    []float64{2},
		Source:     domain.SourceQuiz,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Award)

	// skills: 1 + 0.10*2 = 1.2, collection level 0: 1.0, extra: 2
	assert.InDelta(t, 2.4, res.Award.Multiplier, 1e-12)
	assert.InDelta(t, 240, res.Award.Amount.Float64(), 1e-9)
	assert.Len(t, res.Award.Factors, 3)
	assert.Equal(t, 2, res.State.Level)

	payload, err := event.DecodePayload[event.RewardAppliedPayloadV1](f.bus.ofType(event.RewardApplied)[0])
	require.NoError(t, err)
	assert.Equal(t, 100.0, payload.Base)
	assert.InDelta(t, 2.4, payload.Multiplier, 1e-12)
	assert.Equal(t, domain.SourceQuiz, payload.Source)
}

func TestAwardReward_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     RewardRequest
		wantErr error
	}{
		{"negative factor", RewardRequest{BaseAmount: 10, Factors: []float64{-1}}, domain.ErrInvalidFactor},
		{"negative base", RewardRequest{BaseAmount: -10}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AwardReward(ctx, "user-1", tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := f.repo.GetProfile(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestAwardReward_ZeroFactorAwardsNothing(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.AwardReward(context.Background(), "user-1", RewardRequest{BaseAmount: 100, Factors: []float64{0}})
	require.NoError(t, err)
	assert.True(t, res.Award.Amount.IsZero())
	assert.Equal(t, 1, res.State.Level)
}

func TestGetProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetProgress(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = f.svc.GetProgress(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.ApplyDelta(ctx, "user-1", scaled.FromFloat(450), "")
	require.NoError(t, err)

	progress, err := f.svc.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Level)
	assert.True(t, progress.IntoLevel.Equal(scaled.FromFloat(50)))
	assert.True(t, progress.RequiredForNext.Equal(scaled.FromFloat(900)))
	assert.InDelta(t, 50.0/900.0, progress.Fraction, 1e-12)
}

func TestGetProgress_UpgradesLegacyRowOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// v6 snapshot with a stale level and a plain-number total
	require.NoError(t, f.repo.SaveProfile(ctx, &repository.ProfileRecord{
		UserID:          "legacy",
		State:           leveling.NewState(),
		LegacySnapshot:  json.RawMessage(`{"version":6,"level":9,"xp":2900,"totalXp":2900}`),
		SnapshotVersion: 6,
	}))

	progress, err := f.svc.GetProgress(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, 4, progress.Level)

	stored, err := f.repo.GetProfile(ctx, "legacy")
	require.NoError(t, err)
	assert.False(t, stored.HasLegacySnapshot())
	assert.Equal(t, 9, stored.SnapshotVersion)
	assert.Equal(t, 4, stored.State.Level)

	_, err = f.svc.GetProgress(ctx, "legacy")
	require.NoError(t, err)

	upgrades := f.bus.ofType(event.SnapshotUpgraded)
	require.Len(t, upgrades, 1)
	payload, err := event.DecodePayload[event.SnapshotUpgradedPayloadV1](upgrades[0])
	require.NoError(t, err)
	assert.Equal(t, 6, payload.FromVersion)
	assert.Equal(t, 9, payload.StoredLevel)
	assert.Equal(t, 4, payload.Level)
}

func TestApplyDelta_OnLegacyRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.SaveProfile(ctx, &repository.ProfileRecord{
		UserID:         "legacy",
		LegacySnapshot: json.RawMessage(`{"version":8,"level":4,"xp":2900,"totalXp":2900}`),
	}))

	res, err := f.svc.ApplyDelta(ctx, "legacy", scaled.FromFloat(2500), "")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Previous.Level)
	assert.Equal(t, 5, res.State.Level)
	assert.Equal(t, []int{5}, res.Crossed)
}

func TestImportSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	progress, err := f.svc.ImportSnapshot(ctx, "imported",
		json.RawMessage(`{"version":9,"level":10,"xp":{"mantissa":3.84,"exponent":4},"totalXp":{"mantissa":3.84,"exponent":4}}`))
	require.NoError(t, err)
	assert.Equal(t, 10, progress.Level)
	assert.Empty(t, f.bus.ofType(event.SnapshotUpgraded), "current snapshots are not upgrades")

	_, err = f.svc.ImportSnapshot(ctx, "imported", json.RawMessage(`{"version":99}`))
	assert.ErrorIs(t, err, domain.ErrUnsupportedSnapshot)

	_, err = f.svc.ImportSnapshot(ctx, "imported", json.RawMessage(`{"version":`))
	assert.ErrorIs(t, err, domain.ErrMalformedSnapshot)

	_, err = f.svc.ImportSnapshot(ctx, "", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBoosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.SetBoostLevel(ctx, "user-1", "unknown", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownBoost)

	err = f.svc.SetBoostLevel(ctx, "user-1", "skills", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.svc.SetBoostLevel(ctx, "user-1", "collection", 100))

	boosts, err := f.svc.GetBoosts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, boosts, 2)
	assert.Equal(t, BoostStatus{Key: "skills", Level: 0, Factor: 1}, boosts[0])
	assert.Equal(t, "collection", boosts[1].Key)
	assert.Equal(t, 2.0, boosts[1].Factor, "clamped to max")
}

func TestCurveLookups(t *testing.T) {
	f := newFixture(t)

	req, err := f.svc.Requirement(11)
	require.NoError(t, err)
	assert.True(t, req.Equal(scaled.FromFloat(10120)))

	_, err = f.svc.Requirement(0)
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)

	rows, err := f.svc.CurveTable(1, 4)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.True(t, rows[3].Cumulative.Equal(scaled.FromFloat(2900)))

	_, err = f.svc.CurveTable(5, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.CurveTable(1, MaxCurveTableRows+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rows, err = f.svc.CurveTable(1_000_000_000, 1_000_000_000+MaxCurveTableRows-1)
	require.NoError(t, err)
	require.Len(t, rows, MaxCurveTableRows)
	assert.Equal(t, 1_000_000_000, rows[0].Level)

	_, err = f.svc.CurveTable(curve.MaxLevel, curve.MaxLevel+1)
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)
}

func TestShutdown_FlushesResilientPublisher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	publisher, err := event.NewResilientPublisher(event.NewMemoryBus(), 1, time.Millisecond, path)
	require.NoError(t, err)

	svc := NewService(memory.NewProfileRepository(), leveling.NewResolver(curve.NewStandard()), nil, publisher)
	_, err = svc.ApplyDelta(context.Background(), "user-1", scaled.FromFloat(400), "")
	require.NoError(t, err)

	assert.NoError(t, svc.Shutdown(context.Background()))
}
