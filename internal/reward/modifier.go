package reward

import (
	"context"
	"fmt"
	"math"

	"github.com/osse101/xpscale/internal/domain"
)

// Modifier turns a per-user boost level into a factor.
type Modifier struct {
	Key      string       // Boost key, e.g. "equipment"
	Type     ModifierType // How to apply the level
	Base     float64      // Value at level 0
	PerLevel float64      // Value added per level
	Min      *float64     // Optional floor
	Max      *float64     // Optional cap
}

// Validate checks the modifier definition.
func (m Modifier) Validate() error {
	if m.Key == "" {
		return fmt.Errorf("%w: empty key", domain.ErrInvalidModifier)
	}
	switch m.Type {
	case ModifierTypeMultiplicative, ModifierTypePercentage, ModifierTypeFixed:
	default:
		return fmt.Errorf("%w: %s has unknown type %q", domain.ErrInvalidModifier, m.Key, m.Type)
	}
	if m.Min != nil && m.Max != nil && *m.Min > *m.Max {
		return fmt.Errorf("%w: %s has min above max", domain.ErrInvalidModifier, m.Key)
	}
	return nil
}

// Factor returns the factor at level. The result is clamped to Min/Max and
// checked to be a valid factor.
func (m Modifier) Factor(level int) (float64, error) {
	if level < 0 {
		return 0, fmt.Errorf("%w: %s level %d", domain.ErrInvalidModifier, m.Key, level)
	}

	l := float64(level)
	var result float64

	switch m.Type {
	case ModifierTypeMultiplicative:
		result = m.Base * (1 + l*m.PerLevel)
	case ModifierTypePercentage:
		result = NoBoost + m.Base + l*m.PerLevel
	case ModifierTypeFixed:
		result = m.Base + l*m.PerLevel
	default:
		return 0, fmt.Errorf("%w: %s has unknown type %q", domain.ErrInvalidModifier, m.Key, m.Type)
	}

	if m.Max != nil {
		result = math.Min(result, *m.Max)
	}
	if m.Min != nil {
		result = math.Max(result, *m.Min)
	}

	if err := validateFactor(result); err != nil {
		return 0, fmt.Errorf("boost %s: %w", m.Key, err)
	}
	return result, nil
}

// LevelStore returns a user's level in a named boost. Unknown boosts are
// level 0.
type LevelStore interface {
	GetBoostLevel(ctx context.Context, userID, boostKey string) (int, error)
}

// modifierSource adapts a Modifier and a LevelStore into a BoostSource.
type modifierSource struct {
	modifier Modifier
	levels   LevelStore
}

// NewModifierSource creates a BoostSource that reads the user's level for
// m.Key from levels.
func NewModifierSource(m Modifier, levels LevelStore) BoostSource {
	return &modifierSource{modifier: m, levels: levels}
}

func (s *modifierSource) Key() string {
	return s.modifier.Key
}

func (s *modifierSource) Factor(ctx context.Context, userID string) (float64, error) {
	level, err := s.levels.GetBoostLevel(ctx, userID, s.modifier.Key)
	if err != nil {
		return 0, err
	}
	return s.modifier.Factor(level)
}

// StaticSource is a BoostSource with the same factor for every user.
type StaticSource struct {
	Name  string
	Value float64
}

// Key implements BoostSource.
func (s StaticSource) Key() string { return s.Name }

// Factor implements BoostSource.
func (s StaticSource) Factor(context.Context, string) (float64, error) {
	return s.Value, nil
}
