package utils

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

const (
	errorCookie  = "error"
	noticeCookie = "notice"
)

// RenderPage renders templates/<file> inside the base layout. Pending flash
// messages are moved from their cookies into data.
func RenderPage(w http.ResponseWriter, r *http.Request, file string, data map[string]interface{}, logger *zap.SugaredLogger) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["Error"]; !ok {
		if msg := popCookie(w, r, errorCookie); msg != "" {
			data["Error"] = msg
		}
	}
	if _, ok := data["Notice"]; !ok {
		if msg := popCookie(w, r, noticeCookie); msg != "" {
			data["Notice"] = msg
		}
	}

	tmpl, err := template.New(file).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+file)
	if err != nil {
		logger.Errorw("template parse error", "file", file, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		logger.Errorw("template exec error", "file", file, "error", err)
	}
}

// SetError queues an error message for the next rendered page.
func SetError(w http.ResponseWriter, msg string) {
	setCookie(w, errorCookie, msg)
}

// SetNotice queues an informational message for the next rendered page.
func SetNotice(w http.ResponseWriter, msg string) {
	setCookie(w, noticeCookie, msg)
}

func setCookie(w http.ResponseWriter, name, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popCookie reads a flash message and clears it so it is shown once.
func popCookie(w http.ResponseWriter, r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError logs err (if any) and answers with a JSON error body.
func WriteError(w http.ResponseWriter, status int, message string, err error, logger *zap.SugaredLogger) {
	if err != nil && logger != nil {
		logger.Errorw(message, "error", err, "status_code", status)
	}
	WriteJSON(w, status, map[string]string{"error": message})
}
