package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wordgame/api"
	"wordgame/models"
	"wordgame/sessions"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, err := a.server()
	if err != nil {
		return err
	}
	defer handler.Close()

	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infow("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	handler.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// server wires the HTTP API from the app's components.
func (a *app) server() (*api.API, error) {
	corpus, err := a.corpus()
	if err != nil {
		return nil, err
	}
	a.logger.Infow("corpus loaded", "words", corpus.Len())

	games, err := sessions.New(a.cfg.Game.MaxSessions, a.logger)
	if err != nil {
		return nil, err
	}

	rules := models.Rules{
		MaxWrongGuesses: a.cfg.Game.MaxWrongGuesses,
		StartPoints:     a.cfg.Game.StartPoints,
		LetterReward:    a.cfg.Game.LetterReward,
		LetterPenalty:   a.cfg.Game.LetterPenalty,
		WordPenalty:     a.cfg.Game.WordPenalty,
	}

	return api.New(api.Deps{
		Users:     a.users,
		Words:     corpus,
		Games:     games,
		Board:     a.board,
		DB:        a.db,
		Rules:     rules,
		Sessions:  api.NewSessionIssuer(a.cfg.Auth.SessionSecret, a.cfg.Auth.SessionTTL),
		Limiter:   api.NewLoginLimiter(a.cfg.RateLimit.LoginPerMinute, a.cfg.RateLimit.LoginBurst),
		BoardSize: a.cfg.Leaderboard.Size,
		Origins:   a.cfg.Server.AllowedOrigins,
		Logger:    a.logger,
	}), nil
}
