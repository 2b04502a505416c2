package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osse101/xpscale/internal/curve"
)

// maxTableRows bounds a single curve printout
const maxTableRows = 10000

func curveCmd() *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print per-level and cumulative requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to-from >= maxTableRows {
				return fmt.Errorf("range %d..%d exceeds %d rows", from, to, maxTableRows)
			}
			rows, err := curve.Table(curve.NewStandard(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, rows)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "LEVEL\tREQUIREMENT\tCUMULATIVE\t")
			for _, row := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t\n", row.Level, row.Requirement, row.Cumulative)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&from, "from", 1, "first level")
	cmd.Flags().IntVar(&to, "to", 20, "last level")
	return cmd
}
