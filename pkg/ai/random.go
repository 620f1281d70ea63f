// Package ai provides computer players that drive an engine.Game.
package ai

import (
	"math/rand"
	"time"

	"github.com/yourusername/bgtable/pkg/engine"
)

// Player chooses one move from a non-empty list of legal moves.
type Player interface {
	Choose(moves []engine.Move) engine.Move
}

// RandomPlayer picks a legal move uniformly at random.
type RandomPlayer struct {
	rng *rand.Rand
}

// NewRandomPlayer creates a random player. A zero seed uses the current time.
func NewRandomPlayer(seed int64) *RandomPlayer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))}
}

// Choose returns a uniformly random element of moves.
func (p *RandomPlayer) Choose(moves []engine.Move) engine.Move {
	return moves[p.rng.Intn(len(moves))]
}

// PlayTurn lets p move for side until the turn passes to the opponent, the
// game ends, or no legal move remains. It returns the moves played. Nothing
// is played when it is not side's turn.
func PlayTurn(g *engine.Game, side engine.Side, p Player) ([]engine.Move, error) {
	var played []engine.Move
	for g.CurrentPlayer() == side && !g.GameOver() {
		moves := g.LegalMoves()
		if len(moves) == 0 {
			break
		}
		choice := p.Choose(moves)
		m, err := g.ApplyMove(choice.From, choice.To)
		if err != nil {
			return played, err
		}
		played = append(played, m)
	}
	return played, nil
}

// PlayGame plays white against black from g's current state until someone
// wins or maxRolls rolls have been made (0 means no limit). The first roll
// is made if the game has not started. It returns the winner, or NoSide when
// the limit was reached.
func PlayGame(g *engine.Game, white, black Player, maxRolls int) (engine.Side, error) {
	if g.State().Turn == 0 {
		if _, err := g.RollDice(); err != nil {
			return engine.NoSide, err
		}
	}
	for !g.GameOver() {
		if maxRolls > 0 && g.State().Turn > maxRolls {
			return engine.NoSide, nil
		}
		if g.AdvanceIfStuck() {
			continue
		}
		side := g.CurrentPlayer()
		p := white
		if side == engine.Black {
			p = black
		}
		if _, err := PlayTurn(g, side, p); err != nil {
			return engine.NoSide, err
		}
	}
	return g.Winner(), nil
}
