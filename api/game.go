package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"wordgame/leaderboard"
	"wordgame/logic"
	"wordgame/metrics"
	"wordgame/models"
	"wordgame/sessions"
	"wordgame/utils"
	"wordgame/words"
)

// move applies one player action to a game.
type move func(g *models.Game) (logic.Result, error)

func runOf(g *models.Game) leaderboard.Run {
	return leaderboard.Run{
		Player:     g.Player,
		Difficulty: g.Difficulty,
		Level:      g.Level,
		Total:      g.TotalPoints,
		RoundsWon:  g.RoundsWon,
	}
}

// HTTP POST handler: start a run at the chosen difficulty
func (a *API) createGameHandler(w http.ResponseWriter, r *http.Request) {
	player := a.currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	difficulty, err := words.ParseDifficulty(r.FormValue("difficulty"))
	if err != nil {
		utils.SetError(w, "Please select a difficulty level.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s, err := a.Games.Create(func(id string) (*models.Game, error) {
		return logic.NewGame(id, player, difficulty, a.Rules, a.Words)
	})
	if errors.Is(err, words.ErrNoWords) {
		utils.SetError(w, fmt.Sprintf("No words available for the selected difficulty (%s).", difficulty))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		a.Logger.Errorw("failed to create game", "player", player, "difficulty", difficulty, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	metrics.GamesStarted.WithLabelValues(string(difficulty)).Inc()
	metrics.ActiveSessions.Set(float64(a.Games.Len()))

	id := s.View().ID
	a.Logger.Infow("game started", "game_id", id, "player", player, "difficulty", difficulty)
	http.Redirect(w, r, "/games/"+id, http.StatusSeeOther)
}

// session looks up the game in the URL for the logged-in player. When it is
// missing the player is sent home.
func (a *API) session(w http.ResponseWriter, r *http.Request) (string, *sessions.Session, bool) {
	id := mux.Vars(r)["id"]
	s, err := a.Games.Get(id, a.currentUser(r))
	if err != nil {
		utils.SetError(w, "Game not found.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return "", nil, false
	}
	return id, s, true
}

// HTTP GET handler: show the game page
func (a *API) gameplayHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := a.session(w, r)
	if !ok {
		return
	}
	utils.RenderPage(w, r, "game.html", map[string]interface{}{
		"User": a.currentUser(r),
		"Game": s.View(),
	}, a.Logger)
}

// HTTP GET handler: game state as JSON
func (a *API) stateHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s, err := a.Games.Get(id, a.currentUser(r))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "game not found", err, a.Logger)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s.View())
}

func (a *API) guessHandler(w http.ResponseWriter, r *http.Request) {
	letter := r.FormValue("letter")
	a.pageMove(w, r, "letter", func(g *models.Game) (logic.Result, error) {
		return logic.GuessLetter(g, letter, a.Words)
	})
}

func (a *API) guessWordHandler(w http.ResponseWriter, r *http.Request) {
	word := r.FormValue("word")
	a.pageMove(w, r, "word", func(g *models.Game) (logic.Result, error) {
		return logic.GuessWord(g, word, a.Words)
	})
}

func (a *API) hintHandler(w http.ResponseWriter, r *http.Request) {
	a.pageMove(w, r, "hint", logic.Hint)
}

func (a *API) resetHandler(w http.ResponseWriter, r *http.Request) {
	a.pageMove(w, r, "reset", func(g *models.Game) (logic.Result, error) {
		return logic.Reset(g, a.Words)
	})
}

// HTTP POST handler: abandon the run and go back to the difficulty menu
func (a *API) backToHomeHandler(w http.ResponseWriter, r *http.Request) {
	id, s, ok := a.session(w, r)
	if !ok {
		return
	}
	a.abandon(r.Context(), id, s)
	a.hub.Close(id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// abandon ends the run if it is still in progress and finishes it. A run
// that already ended through a move was finished by that move.
func (a *API) abandon(ctx context.Context, id string, s *sessions.Session) bool {
	var run leaderboard.Run
	ended := false
	_ = s.Do(func(g *models.Game) error {
		if _, err := logic.Abandon(g); err != nil {
			return nil
		}
		run = runOf(g)
		ended = true
		return nil
	})
	if ended {
		a.finish(ctx, id, run)
	}
	return ended
}

// evicted finishes games pushed out of the registry while still running.
func (a *API) evicted(id string, s *sessions.Session) {
	if a.abandon(context.Background(), id, s) {
		a.Logger.Infow("game evicted", "game_id", id)
		a.hub.Close(id)
	}
}

// pageMove runs a move for a form post and redirects back to the game, or
// home once the run has ended.
func (a *API) pageMove(w http.ResponseWriter, r *http.Request, kind string, fn move) {
	id, s, ok := a.session(w, r)
	if !ok {
		return
	}

	res, view, err := a.play(r.Context(), id, s, kind, fn)
	if errors.Is(err, logic.ErrGameOver) {
		a.Games.Delete(id)
		utils.SetError(w, "This game is over.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		a.Logger.Errorw("move failed", "game_id", id, "kind", kind, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	flash(w, res)
	if view.Status != models.StatusInProgress {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/games/"+id, http.StatusSeeOther)
}

// play applies fn under the session lock, pushes the new state to watchers
// and finishes the run when it has ended.
func (a *API) play(ctx context.Context, id string, s *sessions.Session, kind string, fn move) (logic.Result, models.View, error) {
	var (
		res  logic.Result
		view models.View
		run  leaderboard.Run
	)
	err := s.Do(func(g *models.Game) error {
		var err error
		res, err = fn(g)
		// Running out of words ends the game; it is not a server error.
		if err != nil && !errors.Is(err, words.ErrNoWords) {
			return err
		}
		view = g.View()
		run = runOf(g)
		return nil
	})
	if err != nil {
		return res, view, err
	}

	metrics.Guesses.WithLabelValues(kind, string(res.Outcome)).Inc()
	if res.Outcome == logic.OutcomeRoundWon {
		metrics.RoundsWon.Inc()
	}
	msg := stateMessage(view)
	msg.Message = res.Message
	a.hub.Broadcast(id, msg)

	if view.Status != models.StatusInProgress {
		if view.Status == models.StatusLost {
			metrics.GamesLost.Inc()
		}
		a.Logger.Infow("game ended", "game_id", id, "player", run.Player, "status", view.Status,
			"level", run.Level, "total", run.Total)
		a.finish(ctx, id, run)
	}
	return res, view, nil
}

// finish drops the session and records the run if it is worth keeping.
func (a *API) finish(ctx context.Context, id string, run leaderboard.Run) {
	a.Games.Delete(id)
	metrics.ActiveSessions.Set(float64(a.Games.Len()))
	metrics.LevelReached.Observe(float64(run.Level))

	if !leaderboard.Worth(run) {
		return
	}
	if err := a.Board.Record(context.WithoutCancel(ctx), run); err != nil {
		a.Logger.Errorw("failed to record run", "game_id", id, "player", run.Player, "error", err)
	}
}

func flash(w http.ResponseWriter, res logic.Result) {
	if res.Message == "" {
		return
	}
	switch res.Outcome {
	case logic.OutcomeInvalid, logic.OutcomeAlreadyGuessed, logic.OutcomeWrong,
		logic.OutcomeLost, logic.OutcomeHintUsed:
		utils.SetError(w, res.Message)
	default:
		utils.SetNotice(w, res.Message)
	}
}
