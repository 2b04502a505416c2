package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/repository"
	"github.com/osse101/xpscale/internal/scaled"
)

var _ repository.Profile = (*ProfileRepository)(nil)

func TestProfileRepository_GetMissing(t *testing.T) {
	repo := NewProfileRepository()

	_, err := repo.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	rec := &repository.ProfileRecord{
		UserID:          "user-1",
		State:           leveling.State{Level: 4, Total: scaled.FromFloat(2900)},
		SnapshotVersion: 9,
	}
	require.NoError(t, repo.SaveProfile(ctx, rec))
	assert.Equal(t, fixed, rec.UpdatedAt)

	got, err := repo.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.State.Level)
	assert.True(t, got.State.Total.Equal(scaled.FromFloat(2900)))
	assert.False(t, got.HasLegacySnapshot())
	assert.Equal(t, fixed, got.UpdatedAt)
}

func TestProfileRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()

	legacy := json.RawMessage(`{"version":6,"level":3,"xp":500}`)
	require.NoError(t, repo.SaveProfile(ctx, &repository.ProfileRecord{UserID: "u", LegacySnapshot: legacy}))

	got, err := repo.GetProfile(ctx, "u")
	require.NoError(t, err)
	got.LegacySnapshot[0] = 'X'
	got.State.Level = 99

	again, err := repo.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.JSONEq(t, string(legacy), string(again.LegacySnapshot))
	assert.Equal(t, 0, again.State.Level)
}

func TestProfileRepository_SaveRejectsEmptyUser(t *testing.T) {
	repo := NewProfileRepository()
	assert.ErrorIs(t, repo.SaveProfile(context.Background(), &repository.ProfileRecord{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, repo.SaveProfile(context.Background(), nil), domain.ErrInvalidInput)
}

func TestProfileRepository_LevelUps(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()

	var records []domain.LevelUpRecord
	for _, lvl := range []int{2, 3, 4} {
		records = append(records, domain.LevelUpRecord{ID: uuid.New(), UserID: "u", Level: lvl})
	}
	require.NoError(t, repo.RecordLevelUps(ctx, records))

	all, err := repo.GetLevelUps(ctx, "u", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 4, all[0].Level, "most recent first")

	limited, err := repo.GetLevelUps(ctx, "u", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := repo.GetLevelUps(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProfileRepository_BoostLevels(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()

	lvl, err := repo.GetBoostLevel(ctx, "u", "skills")
	require.NoError(t, err)
	assert.Equal(t, 0, lvl)

	require.NoError(t, repo.SetBoostLevel(ctx, "u", "skills", 3))
	require.NoError(t, repo.SetBoostLevel(ctx, "u", "equipment", 1))
	assert.ErrorIs(t, repo.SetBoostLevel(ctx, "u", "skills", -1), domain.ErrInvalidInput)

	lvl, err = repo.GetBoostLevel(ctx, "u", "skills")
	require.NoError(t, err)
	assert.Equal(t, 3, lvl)

	levels, err := repo.GetBoostLevels(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []domain.BoostLevel{
		{UserID: "u", BoostKey: "equipment", Level: 1},
		{UserID: "u", BoostKey: "skills", Level: 3},
	}, levels)
}
