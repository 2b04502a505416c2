package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/xpscale/internal/leveling"
)

type resolveOutput struct {
	Previous leveling.State    `json:"previous"`
	State    leveling.State    `json:"state"`
	Crossed  []int             `json:"crossed"`
	Unlisted int               `json:"unlisted,omitempty"`
	Progress leveling.Progress `json:"progress"`
}

func resolveCmd() *cobra.Command {
	var (
		level int
		total string
		delta string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Apply a delta to a level and total and show the levels crossed",
		Example: `  xpctl resolve --delta 2900
  xpctl resolve --level 10 --total 38400 --delta 1e30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScaled(total)
			if err != nil {
				return err
			}
			d, err := parseScaled(delta)
			if err != nil {
				return err
			}

			resolver := newResolver()
			state := leveling.State{Level: level, Total: t}
			res, err := resolver.ApplyDelta(state, d)
			if err != nil {
				return err
			}
			progress, err := resolver.Progress(res.State)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, resolveOutput{
					Previous: state,
					State:    res.State,
					Crossed:  res.Crossed,
					Unlisted: res.Unlisted,
					Progress: progress,
				})
			}

			fmt.Fprintf(out, "level %d -> %d (crossed %d)\n", state.Level, res.State.Level, res.CrossedCount())
			fmt.Fprintf(out, "total %s\n", res.State.Total)
			fmt.Fprintf(out, "next  %s / %s (%.1f%%)\n", progress.IntoLevel, progress.RequiredForNext, progress.Fraction*100)
			return nil
		},
	}

	cmd.Flags().IntVar(&level, "level", 1, "starting level")
	cmd.Flags().StringVar(&total, "total", "0", "starting total")
	cmd.Flags().StringVar(&delta, "delta", "0", "progress to add")
	return cmd
}
