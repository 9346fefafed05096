package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderPage_AllTemplatesParse(t *testing.T) {
	for _, file := range []string{"index.html", "login.html", "signup.html", "game.html", "leaderboard.html"} {
		t.Run(file, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			RenderPage(rec, req, file, map[string]interface{}{"User": "alice"}, zap.NewNop().Sugar())
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "Word Guessing Game")
		})
	}
}

func TestRenderPage_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderPage(rec, httptest.NewRequest(http.MethodGet, "/", nil), "nope.html", nil, zap.NewNop().Sugar())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFlashMessages_ShownOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	SetError(rec, "Username already exists!")
	SetNotice(rec, "User registered successfully!")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	RenderPage(rec, req, "index.html", nil, zap.NewNop().Sugar())

	body := rec.Body.String()
	assert.Contains(t, body, "Username already exists!")
	assert.Contains(t, body, "User registered successfully!")

	cleared := 0
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "game not found", nil, zap.NewNop().Sugar())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"game not found"}`, rec.Body.String())
}
