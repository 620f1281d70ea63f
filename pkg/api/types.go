// Package api serves a single backgammon table over HTTP, WebSocket and
// Server-Sent Events.
package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourusername/bgtable/pkg/engine"
	"github.com/yourusername/bgtable/pkg/stats"
)

// errBadCoordinate marks a move request whose start or end is missing or is
// not a location. It is reported like any other illegal move.
var errBadCoordinate = errors.New("bad coordinate")

// MoveRequest is the request body for a checker move. Locations are point
// indices 0-23, "bar" or "off". They are kept raw so that a malformed
// coordinate is told apart from a malformed body.
type MoveRequest struct {
	Start json.RawMessage `json:"start"`
	End   json.RawMessage `json:"end"`
}

// Locations parses both coordinates.
func (r MoveRequest) Locations() (from, to engine.Location, err error) {
	if from, err = parseCoordinate(r.Start); err != nil {
		return from, to, err
	}
	to, err = parseCoordinate(r.End)
	return from, to, err
}

func parseCoordinate(data json.RawMessage) (engine.Location, error) {
	var loc engine.Location
	if len(data) == 0 || string(data) == "null" {
		return loc, errBadCoordinate
	}
	if err := json.Unmarshal(data, &loc); err != nil {
		return loc, fmt.Errorf("%w: %v", errBadCoordinate, err)
	}
	return loc, nil
}

// ValidMovesRequest asks for the destinations reachable from one checker.
type ValidMovesRequest struct {
	Start *engine.Location `json:"start"`
}

// ValidMovesResponse lists legal destinations for the requested origin.
type ValidMovesResponse struct {
	ValidMoves []engine.Location `json:"valid_moves"`
}

// RollResponse is the response for a dice roll.
type RollResponse struct {
	Dice [2]int `json:"dice"`
}

// AIMoveResponse reports the AI's moves and the state after its turn.
type AIMoveResponse struct {
	Moves []engine.Move `json:"moves"`
	State View          `json:"state"`
}

// HistoryResponse is the turn-by-turn record of the current game.
type HistoryResponse struct {
	GameID string        `json:"game_id"`
	Turns  []engine.Turn `json:"turns"`
}

// StatsResponse holds dice statistics for the current game.
type StatsResponse struct {
	GameID string       `json:"game_id"`
	Stats  stats.Report `json:"stats"`
}

// RecordCheckResponse is the result of replaying an uploaded record.
type RecordCheckResponse struct {
	Valid      bool        `json:"valid"`
	Turns      int         `json:"turns"`
	Winner     engine.Side `json:"winner,omitempty"`
	PositionID string      `json:"position_id"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string     `json:"status"`         // "ok" or "error"
	Version string     `json:"version"`        // Server version
	GameID  string     `json:"game_id"`        // Game currently on the table
	Clients int        `json:"clients"`        // Live WebSocket and SSE subscribers
	Pool    *PoolStats `json:"pool,omitempty"` // Worker pool statistics
}

// MessageResponse is a plain informational reply.
type MessageResponse struct {
	Message string `json:"message"`
}
