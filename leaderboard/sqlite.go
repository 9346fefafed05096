package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wordgame/db"
)

// SQLiteBoard keeps every run in the scores table.
type SQLiteBoard struct {
	db *db.DB
}

func NewSQLiteBoard(d *db.DB) *SQLiteBoard {
	return &SQLiteBoard{db: d}
}

func (b *SQLiteBoard) Record(ctx context.Context, run Run) error {
	var userID int64
	err := b.db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", run.Player).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, run.Player)
	}
	if err != nil {
		return fmt.Errorf("failed to look up player: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO scores (user_id, difficulty, level_reached, total_points, rounds_won)
		VALUES (?, ?, ?, ?, ?)`,
		userID, string(run.Difficulty), run.Level, run.Total, run.RoundsWon)
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// Top ranks players by best total, then best level, then name.
func (b *SQLiteBoard) Top(ctx context.Context, n int) ([]Standing, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT u.username, MAX(s.total_points) AS best, MAX(s.level_reached) AS lvl,
		       SUM(s.rounds_won), COUNT(*)
		FROM scores s
		JOIN users u ON s.user_id = u.id
		GROUP BY u.id
		ORDER BY best DESC, lvl DESC, u.username ASC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.Player, &s.BestTotal, &s.BestLevel, &s.RoundsWon, &s.Games); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
