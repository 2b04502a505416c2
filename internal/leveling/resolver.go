// Package leveling resolves accumulated progression into levels.
//
// A State is a value: Resolver never mutates its input and every call returns
// a fresh State. Callers that receive progression from several sources must
// apply deltas one at a time, each against the State returned by the
// previous call.
package leveling

import (
	"fmt"
	"math"

	"github.com/osse101/xpscale/internal/curve"
	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/scaled"
)

// State is a level and the total progression ever accumulated.
type State struct {
	Level int           `json:"level"`
	Total scaled.Number `json:"total"`
}

// NewState returns the initial state: level 1 with nothing accumulated.
func NewState() State {
	return State{Level: 1, Total: scaled.Zero()}
}

// MaxListedCrossings caps Result.Crossed. A jump across more levels lists
// only the highest ones.
const MaxListedCrossings = 1000

// Result is the outcome of ApplyDelta.
type Result struct {
	State State
	// Crossed lists the levels reached by this update in ascending order,
	// at most MaxListedCrossings of them.
	Crossed []int
	// Unlisted counts crossed levels below Crossed[0] left out of Crossed.
	Unlisted int
}

// LeveledUp reports whether at least one level was crossed.
func (r Result) LeveledUp() bool {
	return len(r.Crossed) > 0
}

// CrossedCount is the number of levels crossed, listed or not.
func (r Result) CrossedCount() int {
	return len(r.Crossed) + r.Unlisted
}

// Progress describes how far a state is into its current level.
type Progress struct {
	Level           int           `json:"level"`
	Total           scaled.Number `json:"total"`
	IntoLevel       scaled.Number `json:"into_level"`
	RequiredForNext scaled.Number `json:"required_for_next"`
	RemainingToNext scaled.Number `json:"remaining_to_next"`
	Fraction        float64       `json:"fraction"`
}

// Resolver applies progression deltas against a level curve.
type Resolver struct {
	curve curve.Curve
}

// NewResolver creates a resolver over c.
func NewResolver(c curve.Curve) *Resolver {
	return &Resolver{curve: c}
}

// Curve returns the curve the resolver searches.
func (r *Resolver) Curve() curve.Curve {
	return r.curve
}

// ApplyDelta adds delta to state and resolves every level crossed on the way.
//
// The new level is the highest level whose cumulative requirement fits in
// the new total. It is found by doubling then bisecting over the curve, so
// the cost grows with the logarithm of the levels crossed. Levels stop at
// curve.MaxLevel.
func (r *Resolver) ApplyDelta(state State, delta scaled.Number) (Result, error) {
	if delta.Sign() < 0 {
		return Result{State: state}, fmt.Errorf("%w: %v", domain.ErrInvalidDelta, delta)
	}
	if state.Level < 1 {
		return Result{State: state}, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, state.Level)
	}

	newTotal := state.Total.Add(delta)

	level, err := r.highestLevelWithin(state.Level, newTotal)
	if err != nil {
		return Result{State: state}, err
	}

	count := level - state.Level
	listed := min(count, MaxListedCrossings)
	crossed := make([]int, 0, listed)
	for l := level - listed + 1; l <= level; l++ {
		crossed = append(crossed, l)
	}

	return Result{
		State:    State{Level: level, Total: newTotal},
		Crossed:  crossed,
		Unlisted: count - listed,
	}, nil
}

// highestLevelWithin returns the highest level >= from whose cumulative
// requirement is at most total.
func (r *Resolver) highestLevelWithin(from int, total scaled.Number) (int, error) {
	if _, err := r.curve.Cumulative(from); err != nil {
		return 0, err
	}

	fits := func(level int) (bool, error) {
		c, err := r.curve.Cumulative(level)
		if err != nil {
			return false, err
		}
		return c.Cmp(total) <= 0, nil
	}

	// lo always fits, hi never does
	lo, hi := from, 0
	for step := 1; ; step *= 2 {
		next := from + step
		if step >= curve.MaxLevel-from {
			next = curve.MaxLevel
		}
		if next == lo {
			return lo, nil
		}
		ok, err := fits(next)
		if err != nil {
			return 0, err
		}
		if !ok {
			hi = next
			break
		}
		lo = next
	}

	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		ok, err := fits(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// ProgressFraction returns how far state is into its current level as a
// value in [0, 1).
func (r *Resolver) ProgressFraction(state State) (float64, error) {
	p, err := r.Progress(state)
	if err != nil {
		return 0, err
	}
	return p.Fraction, nil
}

// Progress reports the progression within the current level. Already
// consumed requirement is subtracted from the total so it is never counted
// twice.
func (r *Resolver) Progress(state State) (Progress, error) {
	if state.Level < 1 {
		return Progress{}, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, state.Level)
	}

	consumed, err := r.curve.Cumulative(state.Level)
	if err != nil {
		return Progress{}, err
	}

	into := state.Total.Sub(consumed)
	if into.Sign() < 0 {
		into = scaled.Zero()
	}

	if state.Level == curve.MaxLevel {
		return Progress{
			Level:           state.Level,
			Total:           state.Total,
			IntoLevel:       into,
			RequiredForNext: scaled.Zero(),
			RemainingToNext: scaled.Zero(),
		}, nil
	}

	next, err := r.curve.Requirement(state.Level + 1)
	if err != nil {
		return Progress{}, err
	}
	remainingToNext := next.Sub(into)
	if remainingToNext.Sign() < 0 {
		remainingToNext = scaled.Zero()
	}

	// next is never zero for levels >= 1
	ratio, err := into.Div(next)
	if err != nil {
		return Progress{}, err
	}

	return Progress{
		Level:           state.Level,
		Total:           state.Total,
		IntoLevel:       into,
		RequiredForNext: next,
		RemainingToNext: remainingToNext,
		Fraction:        clampFraction(ratio.Float64()),
	}, nil
}

// LevelFor recomputes the level of total from scratch.
func (r *Resolver) LevelFor(total scaled.Number) (int, error) {
	res, err := r.ApplyDelta(NewState(), total)
	if err != nil {
		return 0, err
	}
	return res.State.Level, nil
}

func clampFraction(f float64) float64 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= 1:
		return math.Nextafter(1, 0)
	}
	return f
}
