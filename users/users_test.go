package users

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wordgame/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "users.db"), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	policy := DefaultPolicy()
	policy.BcryptCost = bcrypt.MinCost
	return NewStore(d, policy, zap.NewNop().Sugar())
}

func TestAddAndValidate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Add(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotZero(t, u.ID)

	got, err := s.Validate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestAdd_StoresHashNotPlaintext(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add(context.Background(), "bob", "hunter2")
	require.NoError(t, err)

	var stored string
	require.NoError(t, s.db.QueryRow("SELECT password FROM users WHERE username = 'bob'").Scan(&stored))
	assert.NotEqual(t, "hunter2", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("hunter2")))
}

func TestAdd_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "carol", "first")
	require.NoError(t, err)
	_, err = s.Add(ctx, "carol", "second")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The original password still works.
	_, err = s.Validate(ctx, "carol", "first")
	assert.NoError(t, err)
}

func TestAdd_InvalidCredentials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"short username", "ab", "pw"},
		{"long username", strings.Repeat("a", 51), "pw"},
		{"bad characters", "bad name!", "pw"},
		{"empty password", "dave", ""},
		{"long password", "dave", strings.Repeat("x", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestValidate_Failures(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Add(ctx, "erin", "secret")
	require.NoError(t, err)

	_, err = s.Validate(ctx, "erin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, err = s.Validate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, err = s.Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestAdd_TrimsUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "  frank ", "pw")
	require.NoError(t, err)
	_, err = s.Validate(ctx, "frank", "pw")
	assert.NoError(t, err)
}
