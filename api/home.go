package api

import (
	"net/http"

	"wordgame/utils"
	"wordgame/words"
)

// homeHandler shows signup/login to visitors and the difficulty menu to
// logged-in players.
func (a *API) homeHandler(w http.ResponseWriter, r *http.Request) {
	utils.RenderPage(w, r, "index.html", map[string]interface{}{
		"User":         a.currentUser(r),
		"Difficulties": words.Difficulties,
	}, a.Logger)
}
