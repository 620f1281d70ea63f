package engine

import "fmt"

// MoveKind classifies a single checker move.
type MoveKind uint8

const (
	KindNormal MoveKind = iota
	KindEnter           // re-entry from the bar
	KindBearOff
)

func (k MoveKind) String() string {
	switch k {
	case KindEnter:
		return "re-entry"
	case KindBearOff:
		return "bear_off"
	}
	return "normal"
}

// MarshalText encodes the kind as "normal", "re-entry" or "bear_off".
func (k MoveKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (k *MoveKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*k = KindNormal
	case "re-entry":
		*k = KindEnter
	case "bear_off":
		*k = KindBearOff
	default:
		return fmt.Errorf("unknown move kind %q", text)
	}
	return nil
}

// Move is one checker moved with one die.
type Move struct {
	From Location `json:"start"`
	To   Location `json:"end"`
	Die  int      `json:"die"`
	Kind MoveKind `json:"kind"`
	Hit  bool     `json:"hit,omitempty"` // destination holds a single opposing checker
}

func (m Move) String() string {
	s := fmt.Sprintf("%s/%s(%d)", m.From, m.To, m.Die)
	if m.Hit {
		s += "*"
	}
	return s
}

// IsValidMove checks an ordinary point-to-point move for the side on roll:
// both indices on the board, a checker of the mover on start, movement in
// the mover's direction, and end not blocked. Dice are not considered.
func (s *GameState) IsValidMove(start, end int) bool {
	return s.checkStep(start, end) == nil
}

func (s *GameState) checkStep(start, end int) error {
	side := s.CurrentPlayer
	switch {
	case start < 0 || start >= NumPoints || end < 0 || end >= NumPoints:
		return ErrOutOfRange
	case s.Board[start] == 0:
		return ErrEmptyPoint
	case !s.owns(side, start):
		return ErrNotYourChecker
	case (end-start)*int(side) <= 0:
		return ErrWrongDirection
	case s.blocked(side, end):
		return ErrBlocked
	}
	return nil
}

// entryPoint returns the point a checker enters on with die d.
func entryPoint(side Side, d int) int {
	if side == White {
		return d - 1
	}
	return NumPoints - d
}

// bearOffDie returns the exact die that bears a checker off point p.
func bearOffDie(side Side, p int) int {
	if side == White {
		return NumPoints - p
	}
	return p + 1
}

// LegalMoves returns every single-checker move the side on roll may make
// with the dice it has left. While the mover has checkers on the bar only
// re-entry moves are returned; bear-off moves appear only once all of the
// mover's checkers are home.
func (s *GameState) LegalMoves() []Move {
	if s.GameOver() || len(s.MovesRemaining) == 0 {
		return nil
	}
	side := s.CurrentPlayer
	dice := s.distinctDice()

	if s.BarCount(side) > 0 {
		return s.entryMoves(side, dice)
	}

	moves := s.normalMoves(side, dice)
	if s.AllInHome(side) {
		moves = append(moves, s.bearOffMoves(side)...)
	}
	return moves
}

func (s *GameState) entryMoves(side Side, dice []int) []Move {
	var moves []Move
	for _, d := range dice {
		p := entryPoint(side, d)
		if s.blocked(side, p) {
			continue
		}
		moves = append(moves, Move{From: Bar, To: Point(p), Die: d, Kind: KindEnter, Hit: s.blot(side, p)})
	}
	return moves
}

func (s *GameState) normalMoves(side Side, dice []int) []Move {
	var moves []Move
	for start := 0; start < NumPoints; start++ {
		if !s.owns(side, start) {
			continue
		}
		for _, d := range dice {
			end := start + d*int(side)
			if end < 0 || end >= NumPoints || !s.IsValidMove(start, end) {
				continue
			}
			moves = append(moves, Move{From: Point(start), To: Point(end), Die: d, Kind: KindNormal, Hit: s.blot(side, end)})
		}
	}
	return moves
}

// furthestFromOff returns the occupied home point whose checker needs the
// largest die to bear off: the lowest index for White, the highest for Black.
// It is -1 when side has no checker on the board.
func (s *GameState) furthestFromOff(side Side) int {
	lo, hi := homeRange(side)
	if side == White {
		for p := lo; p <= hi; p++ {
			if s.owns(side, p) {
				return p
			}
		}
		return -1
	}
	for p := hi; p >= lo; p-- {
		if s.owns(side, p) {
			return p
		}
	}
	return -1
}

// smallestDieAbove returns the smallest remaining die value greater than
// need, or 0 if there is none.
func (s *GameState) smallestDieAbove(need int) int {
	best := 0
	for _, v := range s.MovesRemaining {
		if v > need && (best == 0 || v < best) {
			best = v
		}
	}
	return best
}

// bearOffMoves assumes every checker of side is home. A checker bears off
// with its exact die; a larger die may be used only by the checker furthest
// from off, which is recomputed on every call as checkers leave.
func (s *GameState) bearOffMoves(side Side) []Move {
	lo, hi := homeRange(side)
	furthest := s.furthestFromOff(side)
	var moves []Move
	for p := lo; p <= hi; p++ {
		if !s.owns(side, p) {
			continue
		}
		need := bearOffDie(side, p)
		switch {
		case s.hasDie(need):
			moves = append(moves, Move{From: Point(p), To: Off, Die: need, Kind: KindBearOff})
		case p == furthest:
			if d := s.smallestDieAbove(need); d != 0 {
				moves = append(moves, Move{From: Point(p), To: Off, Die: d, Kind: KindBearOff})
			}
		}
	}
	return moves
}

// CanMove reports whether the side on roll has at least one legal move.
func (s *GameState) CanMove() bool {
	return len(s.LegalMoves()) > 0
}

// TargetsFrom returns the destinations reachable from one origin this turn.
func (s *GameState) TargetsFrom(from Location) []Location {
	var targets []Location
	for _, m := range s.LegalMoves() {
		if m.From == from {
			targets = append(targets, m.To)
		}
	}
	return targets
}

// findMove returns the legal move matching both coordinates.
func findMove(moves []Move, from, to Location) (Move, bool) {
	for _, m := range moves {
		if m.From == from && m.To == to {
			return m, true
		}
	}
	return Move{}, false
}
