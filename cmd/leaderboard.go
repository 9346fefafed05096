package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wordgame/leaderboard"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"top"},
		Short:   "Print the top players",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if limit <= 0 {
				limit = a.cfg.Leaderboard.Size
			}
			entries, err := a.board.Top(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to load leaderboard: %w", err)
			}

			if outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), entries)
			}
			renderLeaderboard(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of players to show (default leaderboard.size)")

	return cmd
}

func renderLeaderboard(w io.Writer, entries []leaderboard.Standing) {
	if len(entries) == 0 {
		warningColor.Fprintln(w, "No runs recorded yet")
		return
	}

	headerColor.Fprintln(w, "LEADERBOARD")
	headerColor.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "%-4s %-20s %10s %6s %7s %6s\n", "#", "Player", "Best", "Level", "Rounds", "Games")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, e := range entries {
		fmt.Fprintf(w, "%-4d %-20s %10d %6d %7d %6d\n", i+1, e.Player, e.BestTotal, e.BestLevel, e.RoundsWon, e.Games)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
