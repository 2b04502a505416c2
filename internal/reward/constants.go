package reward

// NoBoost is the neutral factor.
const NoBoost = 1.0

// SourceExtra names caller-supplied factors in an Award.
const SourceExtra = "extra"

// ModifierType defines how a boost level turns into a factor
type ModifierType string

const (
	// ModifierTypeMultiplicative: base * (1 + level * perLevel)
	// Example: 1.0 * (1 + 2 * 0.1) = 1.2 at level 2
	ModifierTypeMultiplicative ModifierType = "multiplicative"

	// ModifierTypePercentage: 1 + base + level * perLevel
	// Example: 1 + 0.05 + 2 * 0.01 = 1.07 at level 2
	ModifierTypePercentage ModifierType = "percentage"

	// ModifierTypeFixed: base + level * perLevel, used as the factor as is
	// Example: 1.5 + 2 * 0.25 = 2.0 at level 2
	ModifierTypeFixed ModifierType = "fixed"
)
