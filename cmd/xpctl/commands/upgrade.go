package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/osse101/xpscale/internal/snapshot"
)

type upgradeOutput struct {
	Report   snapshot.Report   `json:"report"`
	Snapshot snapshot.Snapshot `json:"snapshot"`
}

func upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <snapshot.json|->",
		Short: "Upgrade a progression snapshot to the current version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			snap, err := snapshot.Decode(data)
			if err != nil {
				return err
			}
			state, report, err := snapshot.Load(snap, newResolver())
			if err != nil {
				return err
			}
			upgraded := snapshot.Save(state)

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, upgradeOutput{Report: report, Snapshot: upgraded})
			}

			if !report.Upgraded() {
				fmt.Fprintf(out, "snapshot is current (version %d)\n", report.FromVersion)
			} else {
				fmt.Fprintf(out, "upgraded version %d -> %d\n", report.FromVersion, upgraded.Version)
				if report.LevelAdjusted {
					fmt.Fprintf(out, "level %d -> %d\n", report.StoredLevel, state.Level)
				}
			}
			return writeJSON(out, upgraded)
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
