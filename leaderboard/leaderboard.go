// Package leaderboard records finished runs and ranks players by their best
// total score.
package leaderboard

import (
	"context"
	"errors"

	"wordgame/words"
)

var ErrUnknownPlayer = errors.New("unknown player")

// Run is one finished game.
type Run struct {
	Player     string
	Difficulty words.Difficulty
	Level      int
	Total      int
	RoundsWon  int
}

// Standing is a player's line on the leaderboard.
type Standing struct {
	Player    string `json:"player"`
	BestTotal int    `json:"best_total"`
	BestLevel int    `json:"best_level"`
	RoundsWon int    `json:"rounds_won"`
	Games     int    `json:"games"`
}

// Board stores runs and returns the top players.
type Board interface {
	Record(ctx context.Context, run Run) error
	Top(ctx context.Context, n int) ([]Standing, error)
}

// Worth reports whether a run should be recorded: runs where nothing was won
// and no points were banked are skipped.
func Worth(run Run) bool {
	return run.RoundsWon > 0 || run.Total != 0
}
