// Package commands implements the xpctl command line.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osse101/xpscale/internal/curve"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/scaled"
)

var jsonOutput bool

// Execute runs the root command against os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the xpctl command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "xpctl",
		Short:         "Inspect the level curve and progression snapshots",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	root.AddCommand(curveCmd(), resolveCmd(), upgradeCmd(), formatCmd())
	return root
}

func newResolver() *leveling.Resolver {
	return leveling.NewResolver(curve.NewStandard())
}

// parseScaled accepts plain decimals ("2900", "1.5e12") and exponents beyond
// float64 range ("2.5e400").
func parseScaled(s string) (scaled.Number, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "eE"); i > 0 {
		m, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return scaled.Zero(), fmt.Errorf("invalid mantissa in %q: %w", s, err)
		}
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return scaled.Zero(), fmt.Errorf("invalid exponent in %q: %w", s, err)
		}
		return scaled.New(m, e), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return scaled.Zero(), fmt.Errorf("invalid number %q: %w", s, err)
	}
	return scaled.FromFloat(f), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
