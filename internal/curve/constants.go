package curve

// Curve shape constants
const (
	// QuadraticBase is the multiplier of level² for early levels
	QuadraticBase = 100.0

	// QuadraticCapLevel is the last level on the quadratic segment
	QuadraticCapLevel = 10

	// PowerBase is the multiplier of the power segment above QuadraticCapLevel
	PowerBase = 120.0

	// PowerExponent is the exponent applied to (level - QuadraticCapLevel)
	PowerExponent = 1.6
)

// MaxLevel is the highest level the curve is defined for. Levels above it
// are rejected with domain.ErrInvalidLevel and progression saturates there.
const MaxLevel = 1 << 53

// ExactCumulativeLevel is the highest level whose cumulative requirement is
// an exact sum. Its cumulative is about 1.4e14, well inside 2^53.
const ExactCumulativeLevel = 1 << 16

// exactWholeLimit bounds power terms that are floored natively. Whole
// numbers below it survive a scaled round trip unchanged.
const exactWholeLimit = 1e15

// DefaultCacheSize is the number of cumulative requirements kept by Cached
const DefaultCacheSize = 4096
