package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wordgame/models"
)

func dialGame(t *testing.T, env *testEnv, c *http.Client, id string) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{Jar: c.Jar, HandshakeTimeout: 2 * time.Second}
	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/ws/games/" + id
	conn, resp, err := dialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_Moves(t *testing.T) {
	env := newTestEnv(t)
	c := env.login(t, "alice")
	id := env.startGame(t, c)
	conn := dialGame(t, env, c, id)

	msg := readMessage(t, conn)
	require.Equal(t, "state", msg.Action)
	require.NotNil(t, msg.State)
	assert.Equal(t, "_ _ _", msg.State.Pattern)

	require.NoError(t, conn.WriteJSON(WSMessage{Action: "guess", Payload: "a"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "state", msg.Action)
	assert.Equal(t, "_ a _", msg.State.Pattern)
	assert.Equal(t, 110, msg.State.Points)
	assert.Equal(t, "'a' is in the word.", msg.Message)

	require.NoError(t, conn.WriteJSON(WSMessage{Action: "hint"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "Here's a hint: clue for cat", msg.Message)
	assert.True(t, msg.State.HintUsed)

	require.NoError(t, conn.WriteJSON(WSMessage{Action: "dance"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "error", msg.Action)
	assert.Equal(t, "Unknown action: dance", msg.Message)

	require.NoError(t, conn.WriteJSON(WSMessage{Action: "guess_word", Payload: "cat"}))
	msg = readMessage(t, conn)
	assert.Equal(t, 2, msg.State.Level)
	assert.Equal(t, 110, msg.State.TotalPoints)
}

func TestWebSocket_BroadcastsPageMoves(t *testing.T) {
	env := newTestEnv(t)
	c := env.login(t, "alice")
	id := env.startGame(t, c)
	conn := dialGame(t, env, c, id)
	readMessage(t, conn)

	env.post(t, c, "/games/"+id+"/guess", url.Values{"letter": {"t"}})
	msg := readMessage(t, conn)
	assert.Equal(t, "_ _ t", msg.State.Pattern)
	assert.Equal(t, 1, env.api.hub.Clients(id))
}

func TestWebSocket_GameOverRevealsWord(t *testing.T) {
	env := newTestEnv(t)
	c := env.login(t, "alice")
	id := env.startGame(t, c)
	conn := dialGame(t, env, c, id)
	readMessage(t, conn)

	var msg WSMessage
	for _, l := range []string{"z", "y", "x", "w", "v", "u"} {
		require.NoError(t, conn.WriteJSON(WSMessage{Action: "guess", Payload: l}))
		msg = readMessage(t, conn)
	}
	assert.Equal(t, models.StatusLost, msg.State.Status)
	assert.Equal(t, "cat", msg.State.Word)

	require.NoError(t, conn.WriteJSON(WSMessage{Action: "guess", Payload: "c"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "error", msg.Action)
	assert.Equal(t, "This game is over.", msg.Message)
}

func TestWebSocket_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.login(t, "alice")
	bob := env.login(t, "bob")
	id := env.startGame(t, alice)

	dialer := websocket.Dialer{Jar: bob.Jar}
	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/ws/games/" + id
	_, resp, err := dialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_CheckOrigin(t *testing.T) {
	logger := zap.NewNop().Sugar()

	tests := []struct {
		name    string
		origins []string
		origin  string
		host    string
		want    bool
	}{
		{"no origin header", nil, "", "game.example", true},
		{"same host", nil, "https://game.example", "game.example", true},
		{"other host", nil, "https://evil.example", "game.example", false},
		{"allow-listed", []string{"https://app.example/"}, "https://app.example", "game.example", true},
		{"not allow-listed", []string{"https://app.example"}, "https://game.example", "game.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHub(tt.origins, logger)
			r, err := http.NewRequest(http.MethodGet, "http://"+tt.host+"/ws/games/x", nil)
			require.NoError(t, err)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, h.upgrader.CheckOrigin(r))
		})
	}
}

func TestWebSocket_WrongTypesKeepConnection(t *testing.T) {
	env := newTestEnv(t)
	c := env.login(t, "alice")
	id := env.startGame(t, c)
	conn := dialGame(t, env, c, id)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"guess","payload":5}`)))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Action)
	assert.Equal(t, "Invalid message.", msg.Message)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":`)))
	msg = readMessage(t, conn)
	assert.Equal(t, "Invalid message.", msg.Message)

	require.NoError(t, conn.WriteJSON(WSMessage{Action: "guess", Payload: "c"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "state", msg.Action)
	assert.Equal(t, "c _ _", msg.State.Pattern)
}
