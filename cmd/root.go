// Package cmd implements the algoviz command line.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "algoviz",
		Short: "Traced prime checks and bubble sorts for algorithm visualization.",
		Long: `algoviz runs two textbook algorithms and records every step they take so a
front end can replay them. Use "serve" for the HTTP API or run the algorithms
directly with "prime" and "sort".`,
		SilenceUsage: true,
	}

	var cfgFile string
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env vars use the ALGOVIZ_ prefix")

	cmd.AddCommand(newServeCmd(&cfgFile))
	cmd.AddCommand(newPrimeCmd())
	cmd.AddCommand(newSortCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func printJSON(w io.Writer, payload any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
