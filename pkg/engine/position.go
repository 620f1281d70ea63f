// Package engine implements the rules of backgammon: board representation,
// dice and turn bookkeeping, legal move enumeration and move application.
//
// The board is a fixed linear track of 24 points. White moves toward higher
// indices and bears off from points 18-23; Black moves toward lower indices
// and bears off from points 0-5. A Game owns exactly one GameState and is not
// safe for concurrent use: callers serving several goroutines must serialize
// access to it.
package engine

import (
	"fmt"

	"github.com/yourusername/bgtable/internal/positionid"
)

const (
	// NumPoints is the number of points on the board.
	NumPoints = 24
	// CheckersPerSide is the number of checkers each side plays with.
	CheckersPerSide = 15
	// HomeSize is the number of points in a side's home board.
	HomeSize = 6
)

// Side identifies a player. Its value is also the sign of that side's
// checkers on the board.
type Side int8

const (
	NoSide Side = 0
	White  Side = 1
	Black  Side = -1
)

// Opponent returns the other side.
func (s Side) Opponent() Side { return -s }

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// MarshalText encodes the side as "white", "black" or "" for NoSide.
func (s Side) MarshalText() ([]byte, error) {
	if s == NoSide {
		return []byte{}, nil
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts "white"/"black" as well as the numeric forms "1"/"-1".
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseSide parses a side name.
func ParseSide(name string) (Side, error) {
	switch name {
	case "white", "White", "1":
		return White, nil
	case "black", "Black", "-1":
		return Black, nil
	case "", "none":
		return NoSide, nil
	}
	return NoSide, fmt.Errorf("unknown side %q", name)
}

// Board holds signed checker counts per point: positive for White, negative
// for Black, zero for an empty point.
type Board [NumPoints]int8

// GameState is the complete state of one game.
type GameState struct {
	Board          Board
	Dice           [2]int // last roll, kept for display; {0,0} before the first roll
	MovesRemaining []int  // die values still to spend this turn
	CurrentPlayer  Side
	BarWhite       int
	BarBlack       int
	BorneOffWhite  int
	BorneOffBlack  int
	Winner         Side // NoSide while the game is running
	Turn           int  // number of rolls made so far
}

// StartingPosition returns the standard opening position with White to move
// and no dice rolled.
func StartingPosition() GameState {
	var gs GameState
	gs.Board[0] = 2
	gs.Board[5] = -5
	gs.Board[7] = -3
	gs.Board[11] = 5
	gs.Board[12] = -5
	gs.Board[16] = 3
	gs.Board[18] = 5
	gs.Board[23] = -2
	gs.CurrentPlayer = White
	return gs
}

// GameOver reports whether a side has borne off all its checkers.
func (s *GameState) GameOver() bool { return s.Winner != NoSide }

// BarCount returns the number of checkers a side has on the bar.
func (s *GameState) BarCount(side Side) int {
	if side == White {
		return s.BarWhite
	}
	return s.BarBlack
}

// BorneOff returns the number of checkers a side has borne off.
func (s *GameState) BorneOff(side Side) int {
	if side == White {
		return s.BorneOffWhite
	}
	return s.BorneOffBlack
}

func (s *GameState) addBar(side Side, n int) {
	if side == White {
		s.BarWhite += n
	} else {
		s.BarBlack += n
	}
}

func (s *GameState) addBorneOff(side Side, n int) {
	if side == White {
		s.BorneOffWhite += n
	} else {
		s.BorneOffBlack += n
	}
}

// owns reports whether point p holds at least one checker of side.
func (s *GameState) owns(side Side, p int) bool {
	return int(s.Board[p])*int(side) > 0
}

// count returns the number of side's checkers on point p.
func (s *GameState) count(side Side, p int) int {
	if n := int(s.Board[p]) * int(side); n > 0 {
		return n
	}
	return 0
}

// blocked reports whether point p holds two or more opposing checkers.
func (s *GameState) blocked(side Side, p int) bool {
	return int(s.Board[p])*int(side) <= -2
}

// blot reports whether point p holds exactly one opposing checker.
func (s *GameState) blot(side Side, p int) bool {
	return int(s.Board[p])*int(side) == -1
}

// homeRange returns the inclusive bounds of a side's home board.
func homeRange(side Side) (lo, hi int) {
	if side == White {
		return NumPoints - HomeSize, NumPoints - 1
	}
	return 0, HomeSize - 1
}

func inHome(side Side, p int) bool {
	lo, hi := homeRange(side)
	return p >= lo && p <= hi
}

// AllInHome reports whether every checker side still has in play sits on its
// home board, with none on the bar.
func (s *GameState) AllInHome(side Side) bool {
	if s.BarCount(side) > 0 {
		return false
	}
	for p := 0; p < NumPoints; p++ {
		if s.owns(side, p) && !inHome(side, p) {
			return false
		}
	}
	return true
}

// PipCount returns the total number of pips side needs to bear off every
// checker still in play. A checker on the bar counts 25.
func (s *GameState) PipCount(side Side) int {
	pips := 25 * s.BarCount(side)
	for p := 0; p < NumPoints; p++ {
		n := s.count(side, p)
		if n == 0 {
			continue
		}
		if side == White {
			pips += n * (NumPoints - p)
		} else {
			pips += n * (p + 1)
		}
	}
	return pips
}

// checkersInPlay returns side's checkers on the board and on the bar.
func (s *GameState) checkersInPlay(side Side) int {
	n := s.BarCount(side)
	for p := 0; p < NumPoints; p++ {
		n += s.count(side, p)
	}
	return n
}

// mustBeConsistent panics when checker conservation is broken. A failure here
// is an engine bug, never a caller error.
func (s *GameState) mustBeConsistent() {
	for _, side := range [2]Side{White, Black} {
		if s.BarCount(side) < 0 || s.BorneOff(side) < 0 {
			panic(fmt.Sprintf("engine: negative bar or borne-off count for %s: %+v", side, *s))
		}
		if total := s.checkersInPlay(side) + s.BorneOff(side); total != CheckersPerSide {
			panic(fmt.Sprintf("engine: %s has %d checkers, want %d", side, total, CheckersPerSide))
		}
	}
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() GameState {
	c := *s
	c.MovesRemaining = append([]int(nil), s.MovesRemaining...)
	return c
}

// tanBoard converts the state to gnubg's per-side layout with the side on
// roll in slot 1. Each side's points are numbered from its own ace point.
func (s *GameState) tanBoard() positionid.TanBoard {
	var tb positionid.TanBoard
	for slot, side := range [2]Side{s.CurrentPlayer.Opponent(), s.CurrentPlayer} {
		for p := 0; p < NumPoints; p++ {
			n := s.count(side, p)
			if n == 0 {
				continue
			}
			if side == White {
				tb[slot][NumPoints-1-p] = uint8(n)
			} else {
				tb[slot][p] = uint8(n)
			}
		}
		tb[slot][positionid.BarIndex] = uint8(s.BarCount(side))
	}
	return tb
}

// PositionID returns the gnubg position ID of the board, side on roll first.
func (s *GameState) PositionID() string {
	return positionid.Encode(s.tanBoard())
}
