package api

import (
	"errors"
	"fmt"
	"net/http"

	"wordgame/metrics"
	"wordgame/users"
	"wordgame/utils"
)

// === SIGN UP ===
func (a *API) signupPage(w http.ResponseWriter, r *http.Request) {
	utils.RenderPage(w, r, "signup.html", map[string]interface{}{"User": a.currentUser(r)}, a.Logger)
}

func (a *API) signupHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, err := a.Users.Add(r.Context(), username, password)
	switch {
	case err == nil:
		metrics.Signups.WithLabelValues("success").Inc()
		utils.SetNotice(w, "User registered successfully!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, users.ErrUsernameTaken):
		metrics.Signups.WithLabelValues("duplicate").Inc()
		utils.SetError(w, "Username already exists!")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
	case errors.Is(err, users.ErrInvalidCredentials):
		metrics.Signups.WithLabelValues("invalid").Inc()
		utils.SetError(w, credentialsHint(a.Users.Policy()))
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
	default:
		metrics.Signups.WithLabelValues("error").Inc()
		a.Logger.Errorw("signup failed", "username", username, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func credentialsHint(p users.Policy) string {
	return fmt.Sprintf("Username must be %d to %d letters, digits, _ or -, and the password 1 to %d characters.",
		p.MinUsername, p.MaxUsername, p.MaxPassword)
}

// === LOGIN ===
func (a *API) loginPage(w http.ResponseWriter, r *http.Request) {
	utils.RenderPage(w, r, "login.html", map[string]interface{}{"User": a.currentUser(r)}, a.Logger)
}

func (a *API) loginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := a.Users.Validate(r.Context(), username, password)
	if errors.Is(err, users.ErrInvalidLogin) {
		metrics.Logins.WithLabelValues("failure").Inc()
		a.Logger.Infow("login failed", "username", username, "source_ip", clientIP(r))
		utils.SetError(w, "Invalid username or password.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		a.Logger.Errorw("login failed", "username", username, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := a.setSession(w, user.Username); err != nil {
		a.Logger.Errorw("failed to issue session", "username", user.Username, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	metrics.Logins.WithLabelValues("success").Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// === LOGOUT ===
func (a *API) logoutHandler(w http.ResponseWriter, r *http.Request) {
	clearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
