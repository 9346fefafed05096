// Package cmd provides the wordgame command-line interface.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags
var (
	configFile string
	outputJSON bool
	noColor    bool
)

const defaultTimeout = 30 * time.Second

// NewRootCmd creates the wordgame command with all subcommands. Without a
// subcommand it runs the server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wordgame",
		Short: "Word guessing game server",
		Long: `A word guessing game with levels, hints and a leaderboard.

Players sign up, pick a difficulty and guess words letter by letter. Each
solved word moves them to a level with longer words.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default ./config.yaml)")
	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newServeCmd())
	root.AddCommand(newCorpusCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newLeaderboardCmd())

	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func outputAsJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
