package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wordgame/logic"
	"wordgame/models"
)

const writeWait = 5 * time.Second

// WSMessage is the format of every WebSocket frame, in both directions.
// Clients send an action ("guess", "guess_word", "hint", "reset") with an
// optional payload; the server answers with "state" or "error".
type WSMessage struct {
	Action  string       `json:"action"`
	Payload string       `json:"payload,omitempty"`
	Message string       `json:"message,omitempty"`
	State   *models.View `json:"state,omitempty"`
}

func stateMessage(v models.View) WSMessage {
	return WSMessage{Action: "state", Message: v.Message, State: &v}
}

// client is one WebSocket connection watching a game.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub holds, for every game id, the clients connected to it.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
}

// NewHub accepts upgrades from the listed origins, or from the same host when
// the list is empty.
func NewHub(origins []string, logger *zap.SugaredLogger) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if len(allowed) > 0 {
					return allowed[origin]
				}
				u, err := url.Parse(origin)
				return err == nil && strings.EqualFold(u.Host, r.Host)
			},
		},
		logger: logger,
	}
}

func (h *Hub) register(gameID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[gameID] == nil {
		h.clients[gameID] = make(map[*client]struct{})
	}
	h.clients[gameID][c] = struct{}{}
}

func (h *Hub) unregister(gameID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[gameID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, gameID)
		}
	}
}

func (h *Hub) snapshot(gameID string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients[gameID]))
	for c := range h.clients[gameID] {
		out = append(out, c)
	}
	return out
}

// Broadcast sends msg to every client of the game. Clients that fail to
// receive it are disconnected.
func (h *Hub) Broadcast(gameID string, msg WSMessage) {
	clients := h.snapshot(gameID)
	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorw("failed to marshal websocket message", "game_id", gameID, "error", err)
		return
	}
	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debugw("websocket write failed, closing", "game_id", gameID, "error", err)
			h.unregister(gameID, c)
			c.conn.Close()
		}
	}
}

// Close disconnects every client of the game.
func (h *Hub) Close(gameID string) {
	for _, c := range h.snapshot(gameID) {
		h.unregister(gameID, c)
		c.conn.Close()
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		h.Close(id)
	}
}

// Clients returns the number of connections watching the game.
func (h *Hub) Clients(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[gameID])
}

// HTTP handler: upgrade to WebSocket, push the game state and apply moves
// sent by the client. Path: /ws/games/{id}
func (a *API) webSocketHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s, err := a.Games.Get(id, a.currentUser(r))
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	conn, err := a.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Debugw("websocket upgrade failed", "game_id", id, "error", err)
		return
	}
	c := &client{conn: conn}
	a.hub.register(id, c)
	defer func() {
		a.hub.unregister(id, c)
		conn.Close()
	}()

	if data, err := json.Marshal(stateMessage(s.View())); err == nil {
		if err := c.write(data); err != nil {
			return
		}
	}

	ctx := r.Context()
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				a.sendError(c, "Invalid message.")
				continue
			}
			return
		}

		kind, fn := a.wsMove(msg)
		if fn == nil {
			a.sendError(c, "Unknown action: "+msg.Action)
			continue
		}
		res, _, err := a.play(ctx, id, s, kind, fn)
		if errors.Is(err, logic.ErrGameOver) {
			a.sendError(c, "This game is over.")
			continue
		}
		if err != nil {
			a.Logger.Errorw("move failed", "game_id", id, "kind", kind, "error", err)
			a.sendError(c, "Internal error.")
			continue
		}
		a.Logger.Debugw("websocket move", "game_id", id, "kind", kind, "outcome", res.Outcome)
	}
}

func (a *API) wsMove(msg WSMessage) (string, move) {
	switch msg.Action {
	case "guess":
		return "letter", func(g *models.Game) (logic.Result, error) {
			return logic.GuessLetter(g, msg.Payload, a.Words)
		}
	case "guess_word":
		return "word", func(g *models.Game) (logic.Result, error) {
			return logic.GuessWord(g, msg.Payload, a.Words)
		}
	case "hint":
		return "hint", logic.Hint
	case "reset":
		return "reset", func(g *models.Game) (logic.Result, error) {
			return logic.Reset(g, a.Words)
		}
	}
	return "", nil
}

func (a *API) sendError(c *client, message string) {
	data, err := json.Marshal(WSMessage{Action: "error", Message: message})
	if err != nil {
		return
	}
	if err := c.write(data); err != nil {
		a.Logger.Debugw("websocket write failed", "error", err)
	}
}
