package match

import (
	"fmt"

	"github.com/yourusername/bgtable/pkg/engine"
)

// Replay plays rec through a fresh game using the recorded dice and returns
// the game in its final state. Every move is checked by the engine, so a
// record that replays cleanly is a legal game.
func Replay(rec *Record) (*engine.Game, error) {
	if len(rec.Turns) == 0 {
		return nil, fmt.Errorf("%w: no turns", ErrFormat)
	}

	rolls := make([][2]int, len(rec.Turns))
	for i, t := range rec.Turns {
		rolls[i] = t.Dice
	}
	g := engine.NewGameWithStarter(engine.NewSequenceRoller(rolls...), rec.Starter())
	if _, err := g.RollDice(); err != nil {
		return nil, err
	}

	for i, t := range rec.Turns {
		number := i + 1
		for g.State().Turn < number {
			if !g.AdvanceIfStuck() {
				return nil, fmt.Errorf("%w: turn %d: %s left playable dice", ErrFormat, number-1, g.CurrentPlayer())
			}
		}
		if side := g.CurrentPlayer(); side != t.Side {
			return nil, fmt.Errorf("%w: turn %d: recorded for %s but %s is on roll", ErrFormat, number, t.Side, side)
		}
		for _, m := range t.Moves {
			if _, err := g.ApplyMove(m.From, m.To); err != nil {
				return nil, fmt.Errorf("turn %d: %s/%s: %w", number,
					formatLocation(m.From, t.Side), formatLocation(m.To, t.Side), err)
			}
		}
	}

	if rec.Winner != engine.NoSide && g.Winner() != rec.Winner {
		return nil, fmt.Errorf("%w: recorded winner %s, replay winner %s", ErrFormat, rec.Winner, g.Winner())
	}
	return g, nil
}
