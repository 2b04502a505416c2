// Package reward composes boost factors and applies them to raw rewards.
package reward

import (
	"context"
	"fmt"
	"math"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/scaled"
)

// ComposeMultiplier returns the product of factors. An empty list gives
// NoBoost. Every factor must be finite and non-negative.
func ComposeMultiplier(factors []float64) (float64, error) {
	multiplier := NoBoost
	for i, f := range factors {
		if err := validateFactor(f); err != nil {
			return 0, fmt.Errorf("factor %d: %w", i, err)
		}
		multiplier *= f
	}
	return multiplier, nil
}

// ApplyReward scales base by multiplier. The result is not floored, so it can
// be fed straight into progression without losing sub-unit amounts.
func ApplyReward(base, multiplier float64) scaled.Number {
	return scaled.FromFloat(base).MulFloat(multiplier)
}

// ApplyWholeReward is ApplyReward for whole-unit currencies: the result is
// converted back to a native float and floored.
func ApplyWholeReward(base, multiplier float64) float64 {
	return math.Floor(ApplyReward(base, multiplier).Float64())
}

func validateFactor(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidFactor, f)
	}
	return nil
}

// BoostSource supplies one multiplicative factor for a user. Sources are
// independent: the accumulator does not know what produces a factor.
type BoostSource interface {
	Key() string
	Factor(ctx context.Context, userID string) (float64, error)
}

// Factor is one named contribution to a multiplier.
type Factor struct {
	Source string  `json:"source"`
	Value  float64 `json:"value"`
}

// Award is the outcome of Accumulator.Award.
type Award struct {
	Base       float64       `json:"base"`
	Factors    []Factor      `json:"factors"`
	Multiplier float64       `json:"multiplier"`
	Amount     scaled.Number `json:"amount"`
}

// Accumulator gathers factors from every registered source and applies the
// composed multiplier to base rewards.
type Accumulator struct {
	sources []BoostSource
}

// NewAccumulator creates an accumulator over sources.
func NewAccumulator(sources ...BoostSource) *Accumulator {
	return &Accumulator{sources: sources}
}

// Sources returns the registered sources.
func (a *Accumulator) Sources() []BoostSource {
	return a.sources
}

// Factors collects the factor of every source for userID, followed by extra
// caller-supplied factors.
func (a *Accumulator) Factors(ctx context.Context, userID string, extra []float64) ([]Factor, error) {
	factors := make([]Factor, 0, len(a.sources)+len(extra))
	for _, src := range a.sources {
		f, err := src.Factor(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("boost source %s: %w", src.Key(), err)
		}
		factors = append(factors, Factor{Source: src.Key(), Value: f})
	}
	for _, f := range extra {
		factors = append(factors, Factor{Source: SourceExtra, Value: f})
	}
	return factors, nil
}

// Award composes every factor for userID and applies it to base.
func (a *Accumulator) Award(ctx context.Context, userID string, base float64, extra []float64) (Award, error) {
	if math.IsNaN(base) || math.IsInf(base, 0) || base < 0 {
		return Award{}, fmt.Errorf("%w: base amount %v", domain.ErrInvalidInput, base)
	}

	factors, err := a.Factors(ctx, userID, extra)
	if err != nil {
		return Award{}, err
	}

	values := make([]float64, len(factors))
	for i, f := range factors {
		values[i] = f.Value
	}
	multiplier, err := ComposeMultiplier(values)
	if err != nil {
		return Award{}, err
	}

	return Award{
		Base:       base,
		Factors:    factors,
		Multiplier: multiplier,
		Amount:     ApplyReward(base, multiplier),
	}, nil
}
