package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisBoard keeps best totals and levels in sorted sets and per-player
// counters in hashes, all under a common key prefix.
type RedisBoard struct {
	client *redis.Client
	key    string
}

func NewRedisBoard(client *redis.Client, key string) *RedisBoard {
	return &RedisBoard{client: client, key: key}
}

func (b *RedisBoard) totalsKey() string { return b.key + ":totals" }
func (b *RedisBoard) levelsKey() string { return b.key + ":levels" }
func (b *RedisBoard) gamesKey() string  { return b.key + ":games" }
func (b *RedisBoard) roundsKey() string { return b.key + ":rounds" }

func (b *RedisBoard) Record(ctx context.Context, run Run) error {
	pipe := b.client.TxPipeline()
	// GT adds new members but only ever raises an existing score.
	pipe.ZAddGT(ctx, b.totalsKey(), redis.Z{Score: float64(run.Total), Member: run.Player})
	pipe.ZAddGT(ctx, b.levelsKey(), redis.Z{Score: float64(run.Level), Member: run.Player})
	pipe.HIncrBy(ctx, b.gamesKey(), run.Player, 1)
	pipe.HIncrBy(ctx, b.roundsKey(), run.Player, int64(run.RoundsWon))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// Top ranks players by best total, then best level, then name. Players tied
// with the last total that fits are fetched too so the cut is made after the
// tie-break.
func (b *RedisBoard) Top(ctx context.Context, n int) ([]Standing, error) {
	if n <= 0 {
		return nil, nil
	}
	top, err := b.client.ZRevRangeWithScores(ctx, b.totalsKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	if len(top) == 0 {
		return nil, nil
	}

	out := make([]Standing, 0, len(top))
	seen := make(map[string]bool, len(top))
	for _, z := range top {
		player, _ := z.Member.(string)
		seen[player] = true
		out = append(out, Standing{Player: player, BestTotal: int(z.Score)})
	}

	if len(top) == n {
		cutoff := strconv.FormatFloat(top[n-1].Score, 'f', -1, 64)
		tied, err := b.client.ZRangeByScore(ctx, b.totalsKey(), &redis.ZRangeBy{Min: cutoff, Max: cutoff}).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to query leaderboard ties: %w", err)
		}
		for _, player := range tied {
			if !seen[player] {
				seen[player] = true
				out = append(out, Standing{Player: player, BestTotal: int(top[n-1].Score)})
			}
		}
	}

	if err := b.fill(ctx, out); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BestTotal != out[j].BestTotal {
			return out[i].BestTotal > out[j].BestTotal
		}
		if out[i].BestLevel != out[j].BestLevel {
			return out[i].BestLevel > out[j].BestLevel
		}
		return out[i].Player < out[j].Player
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// fill reads levels and counters for every standing in one pipeline.
func (b *RedisBoard) fill(ctx context.Context, standings []Standing) error {
	pipe := b.client.Pipeline()
	levels := make([]*redis.FloatCmd, len(standings))
	games := make([]*redis.StringCmd, len(standings))
	rounds := make([]*redis.StringCmd, len(standings))
	for i, s := range standings {
		levels[i] = pipe.ZScore(ctx, b.levelsKey(), s.Player)
		games[i] = pipe.HGet(ctx, b.gamesKey(), s.Player)
		rounds[i] = pipe.HGet(ctx, b.roundsKey(), s.Player)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read leaderboard details: %w", err)
	}

	for i := range standings {
		level, err := levels[i].Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to read level: %w", err)
		}
		standings[i].BestLevel = int(level)
		if standings[i].Games, err = hashInt(games[i], b.gamesKey()); err != nil {
			return err
		}
		if standings[i].RoundsWon, err = hashInt(rounds[i], b.roundsKey()); err != nil {
			return err
		}
	}
	return nil
}

func hashInt(cmd *redis.StringCmd, key string) (int, error) {
	v, err := cmd.Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}
