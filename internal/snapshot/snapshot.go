package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/leveling"
)

// Snapshot versions
const (
	// LevelRecomputeVersion is the first version whose stored level is
	// trusted. Older snapshots were written under a different curve.
	LevelRecomputeVersion = 7

	// ScaledTotalsVersion is the first version that writes totals as
	// {mantissa, exponent} pairs.
	ScaledTotalsVersion = 9

	// CurrentVersion is the version Save writes.
	CurrentVersion = ScaledTotalsVersion
)

// Snapshot is the persisted progression record.
type Snapshot struct {
	Version int   `json:"version"`
	Level   int   `json:"level"`
	XP      Value `json:"xp"`
	TotalXP Value `json:"totalXp"`
}

// Report describes what Load changed while upgrading a snapshot.
type Report struct {
	FromVersion   int  `json:"from_version"`
	LegacyTotal   bool `json:"legacy_total"`
	LevelAdjusted bool `json:"level_adjusted"`
	StoredLevel   int  `json:"stored_level"`
}

// Upgraded reports whether the snapshot needs to be rewritten.
func (r Report) Upgraded() bool {
	return r.FromVersion < CurrentVersion || r.LegacyTotal || r.LevelAdjusted
}

// Decode parses a snapshot document.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	return s, nil
}

// Load converts s into a progression state.
//
// Totals are upgraded to scaled numbers exactly once here. When TotalXP is
// absent XP is used instead. The level is recomputed from the total for
// snapshots older than LevelRecomputeVersion and whenever the stored level
// disagrees with the total.
func Load(s Snapshot, r *leveling.Resolver) (leveling.State, Report, error) {
	report := Report{FromVersion: s.Version, StoredLevel: s.Level}

	if s.Version > CurrentVersion {
		return leveling.State{}, report, fmt.Errorf("%w: %d", domain.ErrUnsupportedSnapshot, s.Version)
	}

	source := s.TotalXP
	if source.Kind() == KindNone {
		source = s.XP
	}
	report.LegacyTotal = source.Kind() == KindReal

	total := source.Upgrade()
	if total.Sign() < 0 {
		return leveling.State{}, report, fmt.Errorf("%w: negative total %v", domain.ErrMalformedSnapshot, total)
	}

	level, err := r.LevelFor(total)
	if err != nil {
		return leveling.State{}, report, err
	}
	if s.Version >= LevelRecomputeVersion && s.Level == level {
		return leveling.State{Level: s.Level, Total: total}, report, nil
	}

	report.LevelAdjusted = s.Level != level
	return leveling.State{Level: level, Total: total}, report, nil
}

// Save returns the current-version snapshot of state.
func Save(state leveling.State) Snapshot {
	return Snapshot{
		Version: CurrentVersion,
		Level:   state.Level,
		XP:      Scaled(state.Total),
		TotalXP: Scaled(state.Total),
	}
}
