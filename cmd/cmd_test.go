package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordgame/db"
	"wordgame/leaderboard"
	"wordgame/words"
)

// writeConfig writes a config file using a fresh database and returns its path.
func writeConfig(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "wordgame.db")
	content := fmt.Sprintf(`database:
  path: %s
auth:
  session_secret: 0123456789abcdef0123456789abcdef
  bcrypt_cost: 4
log:
  level: error
%s`, dbPath, extra)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path, dbPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--no-color"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "wordgame", root.Use)

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"serve", "corpus", "user", "leaderboard"} {
		assert.True(t, names[expected], "Missing command: %s", expected)
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("json"))
	assert.NotNil(t, root.PersistentFlags().Lookup("no-color"))
}

func TestCorpusStats(t *testing.T) {
	cfg, _ := writeConfig(t, "")

	out, err := run(t, "", "corpus", "stats", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "CORPUS")
	assert.Contains(t, out, "Easy")
	assert.Contains(t, out, "3-5")
	assert.Contains(t, out, "Total words:")
}

func TestCorpusStats_FileJSON(t *testing.T) {
	dir := t.TempDir()
	lexicon := filepath.Join(dir, "words.yaml")
	require.NoError(t, os.WriteFile(lexicon, []byte("cat: a pet\nlion: a big cat\nelephant: large\n"), 0o600))
	cfg, _ := writeConfig(t, "corpus:\n  file: "+lexicon+"\n")

	out, err := run(t, "", "corpus", "stats", "--json", "--config", cfg)
	require.NoError(t, err)

	var got struct {
		Total        int              `json:"total"`
		Difficulties []difficultyStat `json:"difficulties"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Total)
	require.Len(t, got.Difficulties, 3)
	assert.Equal(t, difficultyStat{Difficulty: words.Easy, Lengths: "3-5", Words: 2}, got.Difficulties[0])
	assert.Equal(t, 1, got.Difficulties[1].Words)
	assert.Equal(t, 0, got.Difficulties[2].Words)
}

func TestUserAdd(t *testing.T) {
	cfg, _ := writeConfig(t, "")

	out, err := run(t, "", "user", "add", "alice", "--password", "wonderland", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Created user alice")

	_, err = run(t, "", "user", "add", "alice", "--password", "again", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserAdd_PasswordFromStdin(t *testing.T) {
	cfg, _ := writeConfig(t, "")

	out, err := run(t, "hunter22\n", "user", "add", "bob", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Created user bob")
}

func TestUserAdd_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: "+filepath.Join(dir, "x.db")+"\n"), 0o600))
	t.Setenv("WORDGAME_SESSION_SECRET", "")

	_, err := run(t, "", "user", "add", "carol", "--password", "pw", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_secret")
}

func TestLeaderboard(t *testing.T) {
	cfg, dbPath := writeConfig(t, "")

	out, err := run(t, "", "leaderboard", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet")

	_, err = run(t, "", "user", "add", "alice", "--password", "wonderland", "--config", cfg)
	require.NoError(t, err)

	ctx := context.Background()
	d, err := db.Open(ctx, dbPath, nopLogger())
	require.NoError(t, err)
	board := leaderboard.NewSQLiteBoard(d)
	require.NoError(t, board.Record(ctx, leaderboard.Run{Player: "alice", Difficulty: words.Medium, Level: 3, Total: 230, RoundsWon: 2}))
	require.NoError(t, d.Close())

	out, err = run(t, "", "leaderboard", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "LEADERBOARD")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "230")

	out, err = run(t, "", "top", "--json", "--limit", "5", "--config", cfg)
	require.NoError(t, err)
	var got []leaderboard.Standing
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 230, got[0].BestTotal)
}

func TestLeaderboard_RedisBackend(t *testing.T) {
	mr := miniredisServer(t)
	cfg, _ := writeConfig(t, "leaderboard:\n  backend: redis\n  redis_addr: "+mr+"\n")

	_, err := run(t, "", "user", "add", "alice", "--password", "wonderland", "--config", cfg)
	require.NoError(t, err)

	out, err := run(t, "", "leaderboard", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet")
}

func TestAppServerWiring(t *testing.T) {
	cfg, _ := writeConfig(t, "")
	configFile = cfg

	a, err := newApp(context.Background())
	require.NoError(t, err)
	defer a.Close()

	handler, err := a.server()
	require.NoError(t, err)
	handler.Close()
}
