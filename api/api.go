// Package api serves the game over HTTP: server-rendered pages for play,
// a JSON state endpoint and a WebSocket state stream.
package api

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wordgame/leaderboard"
	"wordgame/logic"
	"wordgame/models"
	"wordgame/sessions"
	"wordgame/users"
	"wordgame/utils"
)

// UserStore is the credential store behind signup and login.
type UserStore interface {
	Add(ctx context.Context, username, password string) (*users.User, error)
	Validate(ctx context.Context, username, password string) (*users.User, error)
	Policy() users.Policy
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the server needs.
type Deps struct {
	Users     UserStore
	Words     logic.WordPicker
	Games     *sessions.Registry
	Board     leaderboard.Board
	DB        Pinger
	Rules     models.Rules
	Sessions  *SessionIssuer
	Limiter   *LoginLimiter
	BoardSize int
	Origins   []string
	Logger    *zap.SugaredLogger
}

type API struct {
	Deps
	router *mux.Router
	hub    *Hub
}

func New(deps Deps) *API {
	if deps.BoardSize <= 0 {
		deps.BoardSize = 10
	}
	a := &API{
		Deps:   deps,
		router: mux.NewRouter(),
	}
	a.hub = NewHub(deps.Origins, deps.Logger)
	deps.Games.OnEvict(a.evicted)
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(a.loggingMiddleware)

	a.router.HandleFunc("/", a.homeHandler).Methods(http.MethodGet)
	a.router.HandleFunc("/signup", a.signupPage).Methods(http.MethodGet)
	a.router.HandleFunc("/signup", a.signupHandler).Methods(http.MethodPost)
	a.router.HandleFunc("/login", a.loginPage).Methods(http.MethodGet)
	a.router.Handle("/login", a.rateLimitLogin(http.HandlerFunc(a.loginHandler))).Methods(http.MethodPost)
	a.router.HandleFunc("/logout", a.logoutHandler).Methods(http.MethodPost)
	a.router.HandleFunc("/leaderboard", a.leaderboardHandler).Methods(http.MethodGet)
	a.router.HandleFunc("/health", a.healthHandler).Methods(http.MethodGet)
	a.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	games := a.router.PathPrefix("/games").Subrouter()
	games.Use(a.requireUser(false))
	games.HandleFunc("", a.createGameHandler).Methods(http.MethodPost)
	games.HandleFunc("/{id}", a.gameplayHandler).Methods(http.MethodGet)
	games.HandleFunc("/{id}/guess", a.guessHandler).Methods(http.MethodPost)
	games.HandleFunc("/{id}/guess-word", a.guessWordHandler).Methods(http.MethodPost)
	games.HandleFunc("/{id}/hint", a.hintHandler).Methods(http.MethodPost)
	games.HandleFunc("/{id}/reset", a.resetHandler).Methods(http.MethodPost)
	games.HandleFunc("/{id}/home", a.backToHomeHandler).Methods(http.MethodPost)

	apiRoutes := a.router.PathPrefix("/api").Subrouter()
	apiRoutes.Use(a.requireUser(true))
	apiRoutes.HandleFunc("/games/{id}", a.stateHandler).Methods(http.MethodGet)

	ws := a.router.PathPrefix("/ws").Subrouter()
	ws.Use(a.requireUser(true))
	ws.HandleFunc("/games/{id}", a.webSocketHandler).Methods(http.MethodGet)
}

// ServeHTTP lets the API be used directly as an http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Close disconnects all WebSocket clients.
func (a *API) Close() {
	a.hub.CloseAll()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets WebSocket upgrades pass through the logging middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

func (a *API) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.Logger.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.PingContext(ctx); err != nil {
			a.Logger.Warnw("health check failed", "error", err)
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
		}
	}
	utils.WriteJSON(w, status, body)
}
