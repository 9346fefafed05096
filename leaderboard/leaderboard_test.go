package leaderboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wordgame/db"
	"wordgame/words"
)

func newSQLiteBoard(t *testing.T, players ...string) *SQLiteBoard {
	t.Helper()
	d, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "board.db"), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	for _, p := range players {
		_, err := d.Exec("INSERT INTO users (username, password) VALUES (?, 'x')", p)
		require.NoError(t, err)
	}
	return NewSQLiteBoard(d)
}

func newRedisBoard(t *testing.T) *RedisBoard {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBoard(client, "test:board")
}

// boardContract runs the same scenario against any Board.
func boardContract(t *testing.T, b Board) {
	ctx := context.Background()

	runs := []Run{
		{Player: "alice", Difficulty: words.Easy, Level: 3, Total: 240, RoundsWon: 2},
		{Player: "alice", Difficulty: words.Hard, Level: 2, Total: 90, RoundsWon: 1},
		{Player: "bob", Difficulty: words.Medium, Level: 4, Total: 300, RoundsWon: 3},
		{Player: "carol", Difficulty: words.Easy, Level: 1, Total: 15, RoundsWon: 0},
	}
	for _, r := range runs {
		require.NoError(t, b.Record(ctx, r))
	}

	top, err := b.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, Standing{Player: "bob", BestTotal: 300, BestLevel: 4, RoundsWon: 3, Games: 1}, top[0])
	assert.Equal(t, Standing{Player: "alice", BestTotal: 240, BestLevel: 3, RoundsWon: 3, Games: 2}, top[1])
	assert.Equal(t, "carol", top[2].Player)

	top, err = b.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "bob", top[0].Player)
}

// tieContract checks the tie-break on equal totals: higher level first, then
// names in ascending order, including when the limit cuts through the tie.
func tieContract(t *testing.T, b Board) {
	ctx := context.Background()

	runs := []Run{
		{Player: "alice", Difficulty: words.Easy, Level: 2, Total: 100, RoundsWon: 1},
		{Player: "zed", Difficulty: words.Easy, Level: 2, Total: 100, RoundsWon: 1},
		{Player: "bob", Difficulty: words.Easy, Level: 2, Total: 100, RoundsWon: 1},
		{Player: "aaron", Difficulty: words.Easy, Level: 5, Total: 100, RoundsWon: 4},
		{Player: "carol", Difficulty: words.Easy, Level: 1, Total: 150, RoundsWon: 1},
	}
	for _, r := range runs {
		require.NoError(t, b.Record(ctx, r))
	}

	top, err := b.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "aaron", "alice", "bob", "zed"}, players(top))
	assert.Equal(t, 5, top[1].BestLevel)

	top, err = b.Top(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "aaron", "alice"}, players(top))
}

func players(top []Standing) []string {
	out := make([]string, 0, len(top))
	for _, s := range top {
		out = append(out, s.Player)
	}
	return out
}

func TestSQLiteBoard(t *testing.T) {
	boardContract(t, newSQLiteBoard(t, "alice", "bob", "carol"))
}

func TestSQLiteBoard_UnknownPlayer(t *testing.T) {
	b := newSQLiteBoard(t)
	err := b.Record(context.Background(), Run{Player: "ghost", Level: 1, Total: 10})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestSQLiteBoard_Empty(t *testing.T) {
	top, err := newSQLiteBoard(t).Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRedisBoard(t *testing.T) {
	boardContract(t, newRedisBoard(t))
}

func TestSQLiteBoard_Ties(t *testing.T) {
	tieContract(t, newSQLiteBoard(t, "alice", "zed", "bob", "aaron", "carol"))
}

func TestRedisBoard_Ties(t *testing.T) {
	tieContract(t, newRedisBoard(t))
}

func TestRedisBoard_ZeroLimit(t *testing.T) {
	top, err := newRedisBoard(t).Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestWorth(t *testing.T) {
	assert.False(t, Worth(Run{Level: 1}))
	assert.True(t, Worth(Run{Level: 1, Total: -5}))
	assert.True(t, Worth(Run{Level: 2, RoundsWon: 1}))
}
