// Package sessions keeps the running games in memory.
package sessions

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"wordgame/models"
)

var ErrGameNotFound = errors.New("game not found")

// Session guards one game. Every read or mutation goes through Do.
type Session struct {
	mu   sync.Mutex
	game *models.Game
}

// Do runs fn with exclusive access to the game.
func (s *Session) Do(fn func(g *models.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.game)
}

// View returns a snapshot of the game for display.
func (s *Session) View() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.View()
}

// Registry is a bounded set of sessions; the least recently used game is
// dropped once the bound is reached.
type Registry struct {
	cache   *lru.Cache[string, *Session]
	logger  *zap.SugaredLogger
	onEvict func(id string, s *Session)
}

func New(size int, logger *zap.SugaredLogger) (*Registry, error) {
	r := &Registry{logger: logger}
	cache, err := lru.NewWithEvict[string, *Session](size, func(id string, s *Session) {
		logger.Debugw("game session dropped", "game_id", id)
		if r.onEvict != nil {
			r.onEvict(id, s)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Create allocates an id, builds the game with it and stores the session.
func (r *Registry) Create(build func(id string) (*models.Game, error)) (*Session, error) {
	id := uuid.NewString()
	g, err := build(id)
	if err != nil {
		return nil, err
	}
	s := &Session{game: g}
	r.cache.Add(id, s)
	r.logger.Debugw("game session created", "game_id", id, "player", g.Player)
	return s, nil
}

// Get returns the session for id if it belongs to player.
func (r *Registry) Get(id, player string) (*Session, error) {
	s, ok := r.cache.Get(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	owner := ""
	_ = s.Do(func(g *models.Game) error {
		owner = g.Player
		return nil
	})
	if owner != player {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// OnEvict sets fn to run whenever a session leaves the registry, whether it
// was deleted or pushed out by newer games. Set it before the registry is
// shared.
func (r *Registry) OnEvict(fn func(id string, s *Session)) {
	r.onEvict = fn
}

func (r *Registry) Delete(id string) {
	r.cache.Remove(id)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
