package reward

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/osse101/xpscale/internal/domain"
)

// Catalog is the boost definition file.
//
//	[[boost]]
//	key = "equipment"
//	type = "percentage"
//	per_level = 0.05
//	max = 3.0
type Catalog struct {
	Boosts []BoostConfig `toml:"boost"`
}

// BoostConfig is one [[boost]] table.
type BoostConfig struct {
	Key         string       `toml:"key"`
	Description string       `toml:"description"`
	Type        ModifierType `toml:"type"`
	Base        float64      `toml:"base"`
	PerLevel    float64      `toml:"per_level"`
	Min         *float64     `toml:"min"`
	Max         *float64     `toml:"max"`
}

// Modifier converts the config into a Modifier.
func (c BoostConfig) Modifier() Modifier {
	return Modifier{
		Key:      c.Key,
		Type:     c.Type,
		Base:     c.Base,
		PerLevel: c.PerLevel,
		Min:      c.Min,
		Max:      c.Max,
	}
}

// LoadCatalog reads and validates a TOML boost catalog.
func LoadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open boost catalog: %w", err)
	}
	defer file.Close()

	var cat Catalog
	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cat); err != nil {
		return nil, fmt.Errorf("failed to decode boost catalog %s: %w", path, err)
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// ParseCatalog decodes and validates a catalog held in memory.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to decode boost catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks every boost and rejects duplicate keys.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Boosts))
	for _, b := range c.Boosts {
		if err := b.Modifier().Validate(); err != nil {
			return err
		}
		if seen[b.Key] {
			return fmt.Errorf("%w: duplicate boost key %s", domain.ErrInvalidModifier, b.Key)
		}
		seen[b.Key] = true
	}
	return nil
}

// Has reports whether key is defined.
func (c *Catalog) Has(key string) bool {
	for _, b := range c.Boosts {
		if b.Key == key {
			return true
		}
	}
	return false
}

// Sources returns one BoostSource per boost, reading levels from levels.
func (c *Catalog) Sources(levels LevelStore) []BoostSource {
	sources := make([]BoostSource, 0, len(c.Boosts))
	for _, b := range c.Boosts {
		sources = append(sources, NewModifierSource(b.Modifier(), levels))
	}
	return sources
}
