package engine

// Turn records one roll and the checker moves played with it.
type Turn struct {
	Number int    `json:"number"`
	Side   Side   `json:"side"`
	Dice   [2]int `json:"dice"`
	Moves  []Move `json:"moves"`
	Passed bool   `json:"passed,omitempty"` // ended with dice unplayed because no legal move remained
}

// Game owns one GameState and the dice source that drives it. All state
// changes go through its methods; the turn boundary belongs to the Game.
type Game struct {
	state   GameState
	roller  Roller
	history []Turn
}

// NewGame starts a game from the opening position with White to move.
func NewGame(roller Roller) *Game {
	return NewGameWithStarter(roller, White)
}

// NewGameWithStarter starts a game from the opening position with the given
// side to move. No dice are rolled.
func NewGameWithStarter(roller Roller, starter Side) *Game {
	if roller == nil {
		roller = NewRandRoller(0)
	}
	if starter != Black {
		starter = White
	}
	g := &Game{state: StartingPosition(), roller: roller}
	g.state.CurrentPlayer = starter
	return g
}

// newGameFromState wraps an arbitrary state; used to set up positions in tests.
func newGameFromState(roller Roller, s GameState) *Game {
	s.mustBeConsistent()
	return &Game{state: s.Clone(), roller: roller}
}

// State returns a copy of the current state.
func (g *Game) State() GameState { return g.state.Clone() }

// CurrentPlayer returns the side on roll.
func (g *Game) CurrentPlayer() Side { return g.state.CurrentPlayer }

// GameOver reports whether the game has a winner.
func (g *Game) GameOver() bool { return g.state.GameOver() }

// Winner returns the winning side, or NoSide while the game runs.
func (g *Game) Winner() Side { return g.state.Winner }

// RollDice rolls for the side on roll and refills the remaining dice.
func (g *Game) RollDice() ([2]int, error) {
	if g.state.GameOver() {
		return [2]int{}, ErrGameOver
	}
	g.roll()
	return g.state.Dice, nil
}

func (g *Game) roll() {
	d1, d2 := g.roller.Roll()
	g.state.setRoll(d1, d2)
	g.history = append(g.history, Turn{
		Number: g.state.Turn,
		Side:   g.state.CurrentPlayer,
		Dice:   g.state.Dice,
	})
}

// LegalMoves lists the moves available to the side on roll.
func (g *Game) LegalMoves() []Move { return g.state.LegalMoves() }

// CanMove reports whether the side on roll has any legal move.
func (g *Game) CanMove() bool { return g.state.CanMove() }

// IsValidMove checks an ordinary point-to-point move, ignoring dice.
func (g *Game) IsValidMove(start, end int) bool { return g.state.IsValidMove(start, end) }

// TargetsFrom lists legal destinations from one origin.
func (g *Game) TargetsFrom(from Location) []Location { return g.state.TargetsFrom(canonical(from)) }

func canonical(l Location) Location {
	if l.Kind != OnPoint {
		return Location{Kind: l.Kind}
	}
	return l
}

// ApplyMove plays one checker from -> to. On success it returns the move as
// played, with Hit set when an opposing blot was sent to the bar. When the
// dice are used up, or nothing else is playable, the turn passes to the
// opponent and fresh dice are rolled before ApplyMove returns.
//
// Every rejection wraps ErrInvalidMove and leaves the state unchanged,
// apart from a stuck turn being advanced first as in AdvanceIfStuck.
func (g *Game) ApplyMove(from, to Location) (Move, error) {
	if g.state.GameOver() {
		return Move{}, invalid(ErrGameOver)
	}
	g.AdvanceIfStuck()
	if len(g.state.MovesRemaining) == 0 {
		return Move{}, invalid(ErrNoDice)
	}

	from, to = canonical(from), canonical(to)
	m, ok := findMove(g.state.LegalMoves(), from, to)
	if !ok {
		return Move{}, invalid(g.state.diagnose(from, to))
	}

	g.state.apply(&m)
	g.state.mustBeConsistent()
	if n := len(g.history); n > 0 {
		g.history[n-1].Moves = append(g.history[n-1].Moves, m)
	}

	if g.state.GameOver() {
		return m, nil
	}
	if len(g.state.MovesRemaining) == 0 || !g.state.CanMove() {
		g.endTurn()
	}
	return m, nil
}

// apply performs a move already known to be legal.
func (s *GameState) apply(m *Move) {
	side := s.CurrentPlayer
	unit := int8(side)

	switch m.Kind {
	case KindEnter:
		m.Hit = s.hit(side, m.To.Index)
		s.Board[m.To.Index] += unit
		s.addBar(side, -1)
	case KindBearOff:
		s.Board[m.From.Index] -= unit
		s.addBorneOff(side, 1)
	default:
		m.Hit = s.hit(side, m.To.Index)
		s.Board[m.From.Index] -= unit
		s.Board[m.To.Index] += unit
	}
	s.consume(m.Die)

	if s.BorneOff(side) == CheckersPerSide {
		s.Winner = side
		s.MovesRemaining = nil
	}
}

// hit sends a lone opposing checker on p to the bar.
func (s *GameState) hit(side Side, p int) bool {
	if !s.blot(side, p) {
		return false
	}
	s.Board[p] = 0
	s.addBar(side.Opponent(), 1)
	return true
}

// endTurn hands the dice to the opponent and rolls for them.
func (g *Game) endTurn() {
	if n := len(g.history); n > 0 && len(g.state.MovesRemaining) > 0 {
		g.history[n-1].Passed = true
	}
	g.state.MovesRemaining = nil
	g.state.CurrentPlayer = g.state.CurrentPlayer.Opponent()
	g.roll()
}

// AdvanceIfStuck ends the current turn when dice have been rolled but the
// side on roll cannot move, then rolls for the opponent. It reports whether
// the turn advanced. Calling it when a move exists, before the first roll,
// or after the game ended does nothing.
func (g *Game) AdvanceIfStuck() bool {
	if g.state.GameOver() || g.state.Turn == 0 || g.state.CanMove() {
		return false
	}
	g.endTurn()
	return true
}

// History returns the turns played so far, oldest first.
func (g *Game) History() []Turn {
	out := make([]Turn, len(g.history))
	for i, t := range g.history {
		t.Moves = append([]Move(nil), t.Moves...)
		out[i] = t
	}
	return out
}
