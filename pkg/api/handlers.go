package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgtable/pkg/engine"
	"github.com/yourusername/bgtable/pkg/match"
)

// maxRecordBytes caps uploaded .mat records.
const maxRecordBytes = 1 << 20

// Handlers holds the HTTP handlers and the table they serve.
type Handlers struct {
	table   *Table
	version string
	pool    *WorkerPool
	origins []string
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(t *Table, version string) *Handlers {
	return &Handlers{
		table:   t,
		version: version,
		origins: []string{"*"},
	}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(t *Table, version string, pool *WorkerPool, origins []string) *Handlers {
	return &Handlers{
		table:   t,
		version: version,
		pool:    pool,
		origins: origins,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// acquire takes a pool slot for the request and reports whether the handler
// may proceed; on false a 503 has been written. The returned func releases
// the slot.
func (h *Handlers) acquire(w http.ResponseWriter, r *http.Request, l Lane) (func(), bool) {
	if h.pool == nil {
		return func() {}, true
	}
	if err := h.pool.Acquire(r.Context(), l); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return nil, false
	}
	return func() { h.pool.Release(l) }, true
}

// writeGameError maps table errors to HTTP responses. Every rejected move is
// reported as "Invalid move"; the reason is only logged.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidMove):
		log.Debug().Err(err).Msg("Move rejected")
		writeError(w, http.StatusBadRequest, "Invalid move", "INVALID_MOVE")
	case errors.Is(err, engine.ErrGameOver):
		writeError(w, http.StatusConflict, "game over", "GAME_OVER")
	case errors.Is(err, ErrNoAI):
		writeError(w, http.StatusConflict, err.Error(), "NO_AI")
	case errors.Is(err, ErrNotAITurn):
		writeError(w, http.StatusConflict, err.Error(), "NOT_AI_TURN")
	default:
		log.Error().Err(err).Msg("Table error")
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL")
	}
}

// Home handles GET /
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Backgammon API is running!"})
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.table != nil {
		resp.GameID = h.table.ID()
		resp.Clients = h.table.Subscribers()
	}

	// Include pool stats if available
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// StartGame handles POST /api/game/start
func (h *Handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r, LaneFast)
	if !ok {
		return
	}
	defer release()

	writeJSON(w, http.StatusOK, h.table.Start())
}

// RollDice handles GET and POST /api/game/roll-dice
func (h *Handlers) RollDice(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r, LaneFast)
	if !ok {
		return
	}
	defer release()

	dice, err := h.table.Roll()
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RollResponse{Dice: dice})
}

// Move handles POST /api/game/move
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r, LaneFast)
	if !ok {
		return
	}
	defer release()

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	from, to, err := req.Locations()
	if err != nil {
		log.Debug().Err(err).Msg("Move rejected")
		writeError(w, http.StatusBadRequest, "Invalid move", "INVALID_MOVE")
		return
	}

	_, view, err := h.table.Move(from, to)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// State handles GET /api/game/state
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r, LaneFast)
	if !ok {
		return
	}
	defer release()

	writeJSON(w, http.StatusOK, h.table.State())
}

// ValidMoves handles POST /api/game/valid-moves
func (h *Handlers) ValidMoves(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r, LaneFast)
	if !ok {
		return
	}
	defer release()

	var req ValidMovesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.Start == nil {
		writeError(w, http.StatusBadRequest, "Missing 'start' parameter", "MISSING_START")
		return
	}
	writeJSON(w, http.StatusOK, ValidMovesResponse{ValidMoves: h.table.Targets(*req.Start)})
}

// AIMove handles POST /api/game/ai-move
func (h *Handlers) AIMove(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r, LaneSlow)
	if !ok {
		return
	}
	defer release()

	moves, view, err := h.table.PlayAI()
	if err != nil {
		writeGameError(w, err)
		return
	}
	if moves == nil {
		moves = []engine.Move{}
	}
	writeJSON(w, http.StatusOK, AIMoveResponse{Moves: moves, State: view})
}

// History handles GET /api/game/history
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	id, turns := h.table.History()
	writeJSON(w, http.StatusOK, HistoryResponse{GameID: id, Turns: turns})
}

// Stats handles GET /api/game/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	id, report := h.table.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{GameID: id, Stats: report})
}

// RecordMAT handles GET /api/game/record.mat
func (h *Handlers) RecordMAT(w http.ResponseWriter, r *http.Request) {
	h.writeRecord(w, "mat", match.ExportMAT)
}

// RecordSGF handles GET /api/game/record.sgf
func (h *Handlers) RecordSGF(w http.ResponseWriter, r *http.Request) {
	h.writeRecord(w, "sgf", match.ExportSGF)
}

func (h *Handlers) writeRecord(w http.ResponseWriter, ext string, export func(io.Writer, *match.Record) error) {
	rec := h.table.Record()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "game-"+rec.ID+"."+ext))
	if err := export(w, rec); err != nil {
		log.Error().Err(err).Str("format", ext).Msg("Record export failed")
	}
}

// CheckRecord handles POST /api/record/check. The body is a .mat record,
// which is replayed through the engine without touching the table.
func (h *Handlers) CheckRecord(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r, LaneSlow)
	if !ok {
		return
	}
	defer release()

	rec, err := match.ParseMAT(http.MaxBytesReader(w, r.Body, maxRecordBytes))
	if err == nil {
		var g *engine.Game
		if g, err = match.Replay(rec); err == nil {
			st := g.State()
			writeJSON(w, http.StatusOK, RecordCheckResponse{
				Valid:      true,
				Turns:      len(rec.Turns),
				Winner:     g.Winner(),
				PositionID: st.PositionID(),
			})
			return
		}
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid record",
		Code:    "INVALID_RECORD",
		Details: err.Error(),
	})
}
