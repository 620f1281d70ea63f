// Package match records finished or running games and converts them to
// and from the Jellyfish MAT and gnubg SGF interchange formats.
package match

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bgtable/pkg/engine"
)

// Record is the transcript of a single game.
type Record struct {
	ID     string        // unique game id
	White  string        // name of the white player (player 1)
	Black  string        // name of the black player (player 2)
	Date   string        // YYYY-MM-DD
	Event  string        // optional event name
	Turns  []engine.Turn // rolls and moves, oldest first
	Winner engine.Side   // NoSide while the game is running
}

// NewRecord creates an empty record with a fresh id and today's date.
func NewRecord(white, black string) *Record {
	return &Record{
		ID:    uuid.NewString(),
		White: white,
		Black: black,
		Date:  time.Now().UTC().Format("2006-01-02"),
		Turns: make([]engine.Turn, 0),
	}
}

// FromGame snapshots the history of g into a new record.
func FromGame(g *engine.Game, white, black string) *Record {
	rec := NewRecord(white, black)
	rec.Turns = g.History()
	rec.Winner = g.Winner()
	return rec
}

// Starter returns the side that rolled first, or NoSide for an empty record.
func (r *Record) Starter() engine.Side {
	if len(r.Turns) == 0 {
		return engine.NoSide
	}
	return r.Turns[0].Side
}

// Name returns the player name for side.
func (r *Record) Name(side engine.Side) string {
	if side == engine.Black {
		return r.Black
	}
	return r.White
}

// AddTurn appends a roll for side and returns it for move recording.
func (r *Record) AddTurn(side engine.Side, d1, d2 int) *engine.Turn {
	r.Turns = append(r.Turns, engine.Turn{
		Number: len(r.Turns) + 1,
		Side:   side,
		Dice:   [2]int{d1, d2},
	})
	return &r.Turns[len(r.Turns)-1]
}
