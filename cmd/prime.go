package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/algoviz/internal/prime"
)

func newPrimeCmd() *cobra.Command {
	var (
		summary bool
		pretty  bool
	)
	cmd := &cobra.Command{
		Use:   "prime <n>",
		Short: "Check whether n is prime and print the trace as JSON",
		Example: `  algoviz prime 17
  algoviz prime -- -7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("n must be an integer: %q", args[0])
			}
			res := prime.NewChecker().Check(cmd.Context(), n)
			if summary {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), res.Message); err != nil {
					return fmt.Errorf("write summary: %w", err)
				}
				return nil
			}
			return printJSON(cmd.OutOrStdout(), res, pretty)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the verdict message")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
