package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/algoviz/internal/bubblesort"
)

func newSortCmd() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "sort <int>...",
		Short: "Bubble sort the given integers and print the trace as JSON",
		Example: `  algoviz sort 5 3 8 1
  algoviz sort 5,3,8,1
  algoviz sort -- -2 7 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseInts(args)
			if err != nil {
				return err
			}
			res := bubblesort.NewSorter().Sort(cmd.Context(), values)
			return printJSON(cmd.OutOrStdout(), res, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

// parseInts accepts space- or comma-separated integers.
func parseInts(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("not an integer: %q", field)
			}
			values = append(values, v)
		}
	}
	return values, nil
}
