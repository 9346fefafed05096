// Package users stores player credentials: one insert on signup, one select
// on login.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wordgame/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password format")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidLogin       = errors.New("invalid username or password")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// User is a registered player.
type User struct {
	ID       int64
	Username string
}

// Policy bounds the credentials accepted on signup.
type Policy struct {
	MinUsername int
	MaxUsername int
	MaxPassword int
	BcryptCost  int
}

// DefaultPolicy mirrors the configuration defaults.
func DefaultPolicy() Policy {
	return Policy{MinUsername: 3, MaxUsername: 50, MaxPassword: 72, BcryptCost: bcrypt.DefaultCost}
}

// Store reads and writes the users table.
type Store struct {
	db       *db.DB
	policy   Policy
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

// NewStore returns a Store backed by d.
func NewStore(d *db.DB, policy Policy, logger *zap.SugaredLogger) *Store {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &Store{db: d, policy: policy, validate: v, logger: logger}
}

// Policy returns the rules usernames and passwords are checked against.
func (s *Store) Policy() Policy {
	return s.policy
}

func (s *Store) checkCredentials(username, password string) error {
	userTag := fmt.Sprintf("required,min=%d,max=%d,username", s.policy.MinUsername, s.policy.MaxUsername)
	if err := s.validate.Var(username, userTag); err != nil {
		return fmt.Errorf("%w: username: %v", ErrInvalidCredentials, err)
	}
	// bcrypt rejects inputs longer than 72 bytes, so max is checked on bytes.
	if password == "" || len(password) > s.policy.MaxPassword {
		return fmt.Errorf("%w: password must be 1 to %d bytes", ErrInvalidCredentials, s.policy.MaxPassword)
	}
	return nil
}

// Add registers a new user. A duplicate username returns ErrUsernameTaken.
func (s *Store) Add(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := s.checkCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.policy.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", username, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	s.logger.Infow("user registered", "username", username, "id", id)
	return &User{ID: id, Username: username}, nil
}

// Validate checks a login attempt. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Store) Validate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)

	var (
		u    User
		hash string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM users WHERE username = ?", username,
	).Scan(&u.ID, &u.Username, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidLogin
	}
	return &u, nil
}

// Get returns the user with the given username.
func (s *Store) Get(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username FROM users WHERE username = ?", username,
	).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
