// Package curve defines how much progression each level requires.
package curve

import (
	"fmt"
	"math"
	"sync"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/scaled"
)

// Curve maps levels to progression requirements.
type Curve interface {
	// Requirement returns the progression needed to go from level-1 to level.
	// Requirement(1) is zero.
	Requirement(level int) (scaled.Number, error)

	// Cumulative returns the sum of Requirement(2..level).
	Cumulative(level int) (scaled.Number, error)
}

// Standard is the stateless level curve: quadratic up to QuadraticCapLevel,
// then a 1.6 power segment on top of the level-10 requirement.
type Standard struct{}

// NewStandard returns the standard curve.
func NewStandard() Standard {
	return Standard{}
}

// Requirement implements Curve.
func (Standard) Requirement(level int) (scaled.Number, error) {
	return Requirement(level)
}

// Cumulative implements Curve.
//
// Up to ExactCumulativeLevel the result is the exact sum of every
// requirement. Above it the power segment is summed in closed form from the
// last exact value, which keeps the cost constant for any level.
func (Standard) Cumulative(level int) (scaled.Number, error) {
	if err := checkLevel(level); err != nil {
		return scaled.Zero(), err
	}
	if level <= ExactCumulativeLevel {
		return scaled.FromFloat(exactPrefix()[level]), nil
	}
	return scaled.FromFloat(extendedCumulative(level)), nil
}

// Requirement returns the progression required to reach level from level-1.
func Requirement(level int) (scaled.Number, error) {
	if err := checkLevel(level); err != nil {
		return scaled.Zero(), err
	}
	if level > QuadraticCapLevel && !wholePowerTerm(level-QuadraticCapLevel) {
		return quadraticCap().Add(powerTerm(level - QuadraticCapLevel)), nil
	}
	return scaled.FromFloat(requirementValue(level)), nil
}

// requirementValue is Requirement as a native float. It is a whole number
// while wholePowerTerm holds.
func requirementValue(level int) float64 {
	switch {
	case level <= 1:
		return 0
	case level <= QuadraticCapLevel:
		l := float64(level)
		return math.Floor(QuadraticBase * l * l)
	}
	x := float64(level - QuadraticCapLevel)
	return QuadraticBase*QuadraticCapLevel*QuadraticCapLevel + math.Floor(PowerBase*math.Pow(x, PowerExponent))
}

func wholePowerTerm(x int) bool {
	return PowerBase*math.Pow(float64(x), PowerExponent) < exactWholeLimit
}

// powerTerm computes PowerBase * x^PowerExponent through
// x^p = 10^(p*log10(x)) for terms too large to floor at double precision.
func powerTerm(x int) scaled.Number {
	p := PowerExponent * math.Log10(float64(x))
	whole := math.Floor(p)
	mantissa := PowerBase * math.Pow(10, p-whole)
	return scaled.New(mantissa, int(whole)).Floor()
}

func quadraticCap() scaled.Number {
	return scaled.FromFloat(QuadraticBase * QuadraticCapLevel * QuadraticCapLevel)
}

var (
	prefixOnce sync.Once
	prefix     []float64
)

// exactPrefix returns the cumulative requirement of every level up to
// ExactCumulativeLevel, indexed by level. Every entry is a whole number below
// 2^53 so the sums are exact.
func exactPrefix() []float64 {
	prefixOnce.Do(func() {
		prefix = make([]float64, ExactCumulativeLevel+1)
		for level := 2; level <= ExactCumulativeLevel; level++ {
			prefix[level] = prefix[level-1] + requirementValue(level)
		}
	})
	return prefix
}

// extendedCumulative continues the exact prefix past ExactCumulativeLevel.
// Each level adds the quadratic cap plus its power term, and the power terms
// are summed with the Euler-Maclaurin formula.
func extendedCumulative(level int) float64 {
	base := exactPrefix()[ExactCumulativeLevel]
	levels := float64(level - ExactCumulativeLevel)
	powers := powerSum(float64(level-QuadraticCapLevel)) - powerSum(float64(ExactCumulativeLevel-QuadraticCapLevel))
	return base + QuadraticBase*QuadraticCapLevel*QuadraticCapLevel*levels + powers
}

// powerSum approximates the sum of floor(PowerBase * x^PowerExponent) for
// x = 1..n up to a constant. Only differences of powerSum are meaningful.
func powerSum(n float64) float64 {
	const e = PowerExponent
	integral := PowerBase / (e + 1) * math.Pow(n, e+1)
	endpoint := PowerBase * math.Pow(n, e) / 2
	slope := PowerBase * e * math.Pow(n, e-1) / 12
	// each floor drops half a unit on average
	return integral + endpoint + slope - n/2
}

func checkLevel(level int) error {
	if level < 1 || level > MaxLevel {
		return invalidLevel(level)
	}
	return nil
}

func invalidLevel(level int) error {
	return fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
}

// Row is one line of a requirement table.
type Row struct {
	Level       int           `json:"level"`
	Requirement scaled.Number `json:"requirement"`
	Cumulative  scaled.Number `json:"cumulative"`
}

// Table returns the rows for levels from..to inclusive.
func Table(c Curve, from, to int) ([]Row, error) {
	if err := checkLevel(from); err != nil {
		return nil, err
	}
	if to < from {
		return nil, fmt.Errorf("%w: range %d..%d is empty", domain.ErrInvalidLevel, from, to)
	}
	if err := checkLevel(to); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, to-from+1)
	for level := from; level <= to; level++ {
		req, err := c.Requirement(level)
		if err != nil {
			return nil, err
		}
		cumulative, err := c.Cumulative(level)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Level: level, Requirement: req, Cumulative: cumulative})
	}
	return rows, nil
}
