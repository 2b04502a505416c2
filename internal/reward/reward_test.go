package reward

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/xpscale/internal/domain"
)

// MockLevelStore
type MockLevelStore struct {
	mock.Mock
}

func (m *MockLevelStore) GetBoostLevel(ctx context.Context, userID, boostKey string) (int, error) {
	args := m.Called(ctx, userID, boostKey)
	return args.Int(0), args.Error(1)
}

func ptr(f float64) *float64 { return &f }

func TestComposeMultiplier(t *testing.T) {
	tests := []struct {
		name    string
		factors []float64
		want    float64
		wantErr error
	}{
		{"empty list is neutral", nil, 1.0, nil},
		{"single factor", []float64{1.5}, 1.5, nil},
		{"product", []float64{1.5, 2}, 3.0, nil},
		{"neutral factors", []float64{1, 1, 1}, 1.0, nil},
		{"zero factor allowed", []float64{2, 0}, 0, nil},
		{"negative factor", []float64{1.2, -0.5}, 0, domain.ErrInvalidFactor},
		{"NaN factor", []float64{math.NaN()}, 0, domain.ErrInvalidFactor},
		{"infinite factor", []float64{math.Inf(1)}, 0, domain.ErrInvalidFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeMultiplier(tt.factors)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, domain.IsContractViolation(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestComposeMultiplier_OrderIndependent(t *testing.T) {
	a, err := ComposeMultiplier([]float64{1.1, 1.25, 3, 0.9})
	require.NoError(t, err)
	b, err := ComposeMultiplier([]float64{0.9, 3, 1.25, 1.1})
	require.NoError(t, err)
	assert.InDelta(t, a, b, 1e-12)
}

func TestApplyReward(t *testing.T) {
	assert.Equal(t, 10.0, ApplyReward(5, 2.0).Float64())
	assert.True(t, ApplyReward(0, 3).IsZero())
	assert.True(t, ApplyReward(50, 0).IsZero())

	// Sub-unit amounts survive.
	assert.InDelta(t, 0.75, ApplyReward(0.5, 1.5).Float64(), 1e-12)
}

func TestApplyWholeReward(t *testing.T) {
	assert.Equal(t, 125.0, ApplyWholeReward(100, 1.25))
	assert.Equal(t, 10.0, ApplyWholeReward(7, 1.5))
	assert.Equal(t, 0.0, ApplyWholeReward(0.5, 1.5))
	assert.Equal(t, 10695.0, ApplyWholeReward(10695, 1))
}

func TestApplyWholeReward_IdentityMultiplier(t *testing.T) {
	for base := 0; base <= 100_000; base++ {
		require.Equal(t, float64(base), ApplyWholeReward(float64(base), 1), "base %d", base)
	}
}

func TestModifier_Factor(t *testing.T) {
	tests := []struct {
		name     string
		modifier Modifier
		level    int
		want     float64
		wantErr  error
	}{
		{
			name:     "percentage at level 0 is neutral",
			modifier: Modifier{Key: "equipment", Type: ModifierTypePercentage, PerLevel: 0.05},
			level:    0,
			want:     1.0,
		},
		{
			name:     "percentage",
			modifier: Modifier{Key: "equipment", Type: ModifierTypePercentage, PerLevel: 0.05},
			level:    4,
			want:     1.2,
		},
		{
			name:     "percentage with base",
			modifier: Modifier{Key: "event", Type: ModifierTypePercentage, Base: 0.5, PerLevel: 0.1},
			level:    1,
			want:     1.6,
		},
		{
			name:     "multiplicative",
			modifier: Modifier{Key: "collection", Type: ModifierTypeMultiplicative, Base: 1, PerLevel: 0.02},
			level:    10,
			want:     1.2,
		},
		{
			name:     "fixed",
			modifier: Modifier{Key: "prestige", Type: ModifierTypeFixed, Base: 1.5, PerLevel: 0.25},
			level:    2,
			want:     2.0,
		},
		{
			name:     "capped",
			modifier: Modifier{Key: "equipment", Type: ModifierTypePercentage, PerLevel: 0.05, Max: ptr(3)},
			level:    100,
			want:     3.0,
		},
		{
			name:     "floored",
			modifier: Modifier{Key: "curse", Type: ModifierTypeFixed, Base: 1, PerLevel: -0.5, Min: ptr(0.25)},
			level:    5,
			want:     0.25,
		},
		{
			name:     "negative result is an invalid factor",
			modifier: Modifier{Key: "curse", Type: ModifierTypeFixed, Base: 1, PerLevel: -0.5},
			level:    5,
			wantErr:  domain.ErrInvalidFactor,
		},
		{
			name:     "negative level",
			modifier: Modifier{Key: "equipment", Type: ModifierTypePercentage, PerLevel: 0.05},
			level:    -1,
			wantErr:  domain.ErrInvalidModifier,
		},
		{
			name:     "unknown type",
			modifier: Modifier{Key: "odd", Type: "exponential"},
			level:    1,
			wantErr:  domain.ErrInvalidModifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.modifier.Factor(tt.level)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestModifier_Validate(t *testing.T) {
	assert.NoError(t, Modifier{Key: "a", Type: ModifierTypeFixed}.Validate())
	assert.ErrorIs(t, Modifier{Type: ModifierTypeFixed}.Validate(), domain.ErrInvalidModifier)
	assert.ErrorIs(t, Modifier{Key: "a", Type: "nope"}.Validate(), domain.ErrInvalidModifier)
	assert.ErrorIs(t, Modifier{Key: "a", Type: ModifierTypeFixed, Min: ptr(2), Max: ptr(1)}.Validate(), domain.ErrInvalidModifier)
}

func TestLoadCatalog_DefaultFile(t *testing.T) {
	cat, err := LoadCatalog(filepath.Join("..", "..", "configs", "boosts.toml"))
	require.NoError(t, err)

	assert.Len(t, cat.Boosts, 3)
	assert.True(t, cat.Has("equipment"))
	assert.True(t, cat.Has("skills"))
	assert.True(t, cat.Has("collection"))
	assert.False(t, cat.Has("missing"))
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCatalog(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("[[boost]]\nkey = \"a\"\ntype = \"fixed\"\ncolour = \"red\"\n"), 0o600))
	_, err = LoadCatalog(unknown)
	assert.Error(t, err, "unknown fields are rejected")

	dup := filepath.Join(dir, "dup.toml")
	require.NoError(t, os.WriteFile(dup, []byte("[[boost]]\nkey = \"a\"\ntype = \"fixed\"\n[[boost]]\nkey = \"a\"\ntype = \"fixed\"\n"), 0o600))
	_, err = LoadCatalog(dup)
	assert.ErrorIs(t, err, domain.ErrInvalidModifier)
}

func TestParseCatalog(t *testing.T) {
	cat, err := ParseCatalog([]byte(`
[[boost]]
key = "equipment"
type = "percentage"
per_level = 0.05
max = 3.0
`))
	require.NoError(t, err)
	require.Len(t, cat.Boosts, 1)

	b := cat.Boosts[0]
	assert.Equal(t, ModifierTypePercentage, b.Type)
	assert.InDelta(t, 0.05, b.PerLevel, 1e-12)
	require.NotNil(t, b.Max)
	assert.InDelta(t, 3.0, *b.Max, 1e-12)
	assert.Nil(t, b.Min)

	_, err = ParseCatalog([]byte(`[[boost]]
key = "x"
type = "sideways"
`))
	assert.ErrorIs(t, err, domain.ErrInvalidModifier)
}

func TestAccumulator_Award(t *testing.T) {
	ctx := context.Background()
	cat, err := LoadCatalog(filepath.Join("..", "..", "configs", "boosts.toml"))
	require.NoError(t, err)

	store := new(MockLevelStore)
	store.On("GetBoostLevel", ctx, "user-1", "equipment").Return(2, nil)
	store.On("GetBoostLevel", ctx, "user-1", "skills").Return(0, nil)
	store.On("GetBoostLevel", ctx, "user-1", "collection").Return(0, nil)

	acc := NewAccumulator(cat.Sources(store)...)
	award, err := acc.Award(ctx, "user-1", 100, []float64{2})
	require.NoError(t, err)

	assert.InDelta(t, 2.2, award.Multiplier, 1e-12)
	assert.InDelta(t, 220, award.Amount.Float64(), 1e-9)
	require.Len(t, award.Factors, 4)
	assert.Equal(t, "equipment", award.Factors[0].Source)
	assert.Equal(t, SourceExtra, award.Factors[3].Source)
	store.AssertExpectations(t)
}

func TestAccumulator_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("store failure", func(t *testing.T) {
		store := new(MockLevelStore)
		store.On("GetBoostLevel", ctx, "user-1", "equipment").Return(0, errors.New("db down"))

		acc := NewAccumulator(NewModifierSource(Modifier{Key: "equipment", Type: ModifierTypePercentage, PerLevel: 0.05}, store))
		_, err := acc.Award(ctx, "user-1", 10, nil)
		assert.ErrorContains(t, err, "db down")
		assert.ErrorContains(t, err, "equipment")
	})

	t.Run("negative base", func(t *testing.T) {
		_, err := NewAccumulator().Award(ctx, "user-1", -5, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid extra factor", func(t *testing.T) {
		_, err := NewAccumulator(StaticSource{Name: "event", Value: 2}).Award(ctx, "user-1", 5, []float64{-1})
		assert.ErrorIs(t, err, domain.ErrInvalidFactor)
	})
}
