package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wordgame/config"
	"wordgame/db"
	"wordgame/leaderboard"
	"wordgame/logging"
	"wordgame/users"
	"wordgame/words"
)

// app holds the components shared by the server and the CLI commands.
type app struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	db     *db.DB
	users  *users.Store
	board  leaderboard.Board
	redis  *redis.Client
}

func loadConfig() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newApp opens the database, the user store and the configured leaderboard.
func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	d, err := db.Open(ctx, cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: d}

	a.users = users.NewStore(d, users.Policy{
		MinUsername: cfg.Auth.MinUsernameLength,
		MaxUsername: cfg.Auth.MaxUsernameLength,
		MaxPassword: cfg.Auth.MaxPasswordLength,
		BcryptCost:  cfg.Auth.BcryptCost,
	}, logger)

	if err := a.openBoard(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openBoard(ctx context.Context) error {
	switch a.cfg.Leaderboard.Backend {
	case config.BackendRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr: a.cfg.Leaderboard.RedisAddr,
			DB:   a.cfg.Leaderboard.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", a.cfg.Leaderboard.RedisAddr, err)
		}
		a.board = leaderboard.NewRedisBoard(a.redis, a.cfg.Leaderboard.RedisKey)
		a.logger.Infow("leaderboard backend: redis", "addr", a.cfg.Leaderboard.RedisAddr)
	default:
		a.board = leaderboard.NewSQLiteBoard(a.db)
		a.logger.Debugw("leaderboard backend: sqlite")
	}
	return nil
}

// corpus loads the configured word list, or the embedded one.
func (a *app) corpus() (*words.Corpus, error) {
	return loadCorpus(a.cfg)
}

func loadCorpus(cfg *config.Config) (*words.Corpus, error) {
	src := rand.NewSource(time.Now().UnixNano())
	if cfg.Corpus.File != "" {
		return words.LoadFile(cfg.Corpus.File, cfg.Corpus.CacheSize, src)
	}
	return words.Default(cfg.Corpus.CacheSize, src)
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warnw("failed to close redis client", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warnw("failed to close database", "error", err)
	}
	_ = a.logger.Sync()
}
