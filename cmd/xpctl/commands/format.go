package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/osse101/xpscale/internal/scaled"
)

func formatCmd() *cobra.Command {
	var (
		decimals int
		lang     string
	)

	cmd := &cobra.Command{
		Use:   "format <mantissa> <exponent>",
		Short: "Print the display form of a scaled number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid mantissa %q: %w", args[0], err)
			}
			e, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid exponent %q: %w", args[1], err)
			}
			tag, err := language.Parse(lang)
			if err != nil {
				return fmt.Errorf("invalid language %q: %w", lang, err)
			}

			n := scaled.New(m, e)
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, map[string]interface{}{
					"number":  n,
					"display": n.DisplayStringIn(tag, decimals),
				})
			}
			_, err = fmt.Fprintln(out, n.DisplayStringIn(tag, decimals))
			return err
		},
	}

	cmd.Flags().IntVar(&decimals, "decimals", scaled.DefaultDisplayDecimals, "mantissa decimals in exponent form")
	cmd.Flags().StringVar(&lang, "lang", scaled.DisplayLanguage.String(), "BCP 47 tag used for digit grouping")
	return cmd
}
