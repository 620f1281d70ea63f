package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgtable/pkg/engine"
)

// WSMessage is a command sent by a WebSocket client.
type WSMessage struct {
	Type    string          `json:"type"`              // "state", "start", "roll", "move", "valid_moves", "ai", "ping"
	ID      string          `json:"id"`                // Request ID for correlating responses
	Payload json.RawMessage `json:"payload,omitempty"` // Type-specific payload
}

// WSResponse is a reply or a pushed update. Pushed state frames have type
// "state" and no ID.
type WSResponse struct {
	Type    string      `json:"type"`              // "result", "error", "state", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code, as in ErrorResponse
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

func (h *Handlers) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || originAllowed(h.origins, origin)
		},
	}
}

func originAllowed(allowed []string, origin string) bool {
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

// WebSocket handles GET /api/ws. Clients send commands and receive a
// "state" frame whenever the table changes.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 64)}

	updates, unsubscribe := h.table.Subscribe()
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for v := range updates {
			select {
			case client.sendChan <- WSResponse{Type: "state", Payload: v}:
			default:
			}
		}
	}()

	go client.writePump()
	client.readPump()

	unsubscribe()
	<-forwarded
	close(client.sendChan)
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			// Keep draining so readPump never blocks on a dead connection.
			c.conn.Close()
			for range c.sendChan {
			}
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer c.conn.Close()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("WebSocket closed")
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) reply(msg WSMessage, payload interface{}) {
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: payload}
}

func (c *WSClient) fail(msg WSMessage, text, code string) {
	c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: text, Code: code}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	table := c.handlers.table
	switch msg.Type {
	case "state":
		c.reply(msg, table.State())
	case "start":
		c.reply(msg, table.Start())
	case "roll":
		dice, err := table.Roll()
		if err != nil {
			c.failGame(msg, err)
			return
		}
		c.reply(msg, RollResponse{Dice: dice})
	case "move":
		c.handleMove(msg)
	case "valid_moves":
		var req ValidMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.Start == nil {
			c.fail(msg, "Missing 'start' parameter", "MISSING_START")
			return
		}
		c.reply(msg, ValidMovesResponse{ValidMoves: table.Targets(*req.Start)})
	case "ai":
		c.handleAI(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.fail(msg, "unknown message type", "UNKNOWN_TYPE")
	}
}

func (c *WSClient) handleMove(msg WSMessage) {
	var req MoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.fail(msg, "invalid payload", "INVALID_JSON")
		return
	}
	from, to, err := req.Locations()
	if err != nil {
		c.fail(msg, "Invalid move", "INVALID_MOVE")
		return
	}
	_, view, err := c.handlers.table.Move(from, to)
	if err != nil {
		c.failGame(msg, err)
		return
	}
	c.reply(msg, view)
}

func (c *WSClient) handleAI(msg WSMessage) {
	pool := c.handlers.pool
	if pool != nil {
		if !pool.TryAcquire(LaneSlow) {
			c.fail(msg, "server busy", "SERVER_BUSY")
			return
		}
		defer pool.Release(LaneSlow)
	}
	moves, view, err := c.handlers.table.PlayAI()
	if err != nil {
		c.failGame(msg, err)
		return
	}
	if moves == nil {
		moves = []engine.Move{}
	}
	c.reply(msg, AIMoveResponse{Moves: moves, State: view})
}

func (c *WSClient) failGame(msg WSMessage, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidMove):
		c.fail(msg, "Invalid move", "INVALID_MOVE")
	case errors.Is(err, engine.ErrGameOver):
		c.fail(msg, "game over", "GAME_OVER")
	case errors.Is(err, ErrNoAI):
		c.fail(msg, err.Error(), "NO_AI")
	case errors.Is(err, ErrNotAITurn):
		c.fail(msg, err.Error(), "NOT_AI_TURN")
	default:
		c.fail(msg, "internal error", "INTERNAL")
	}
}
