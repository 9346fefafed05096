package api

import (
	"net/http"

	"wordgame/utils"
)

// leaderboardHandler shows the top players by best total score.
func (a *API) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Board.Top(r.Context(), a.BoardSize)
	if err != nil {
		a.Logger.Errorw("failed to load leaderboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		utils.WriteJSON(w, http.StatusOK, entries)
		return
	}
	utils.RenderPage(w, r, "leaderboard.html", map[string]interface{}{
		"User":    a.currentUser(r),
		"Entries": entries,
	}, a.Logger)
}
