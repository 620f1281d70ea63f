package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// place puts n checkers of side on point p.
func place(gs *GameState, side Side, p, n int) {
	gs.Board[p] = int8(int(side) * n)
}

// rolled returns gs with side on roll and the given dice left to play.
func rolled(gs GameState, side Side, remaining ...int) GameState {
	gs.CurrentPlayer = side
	gs.MovesRemaining = remaining
	gs.Dice = [2]int{remaining[0], remaining[len(remaining)-1]}
	gs.Turn = 1
	return gs
}

func hasMove(moves []Move, from, to Location, die int, kind MoveKind) bool {
	for _, m := range moves {
		if m.From == from && m.To == to && m.Die == die && m.Kind == kind {
			return true
		}
	}
	return false
}

func TestLegalMovesOpening65(t *testing.T) {
	gs := rolled(StartingPosition(), White, 6, 5)
	moves := gs.LegalMoves()

	if !hasMove(moves, Point(0), Point(6), 6, KindNormal) {
		t.Error("expected 0/6 with the 6")
	}
	// Black's five checkers on point 5 block it, so 0/5 is deliberately absent.
	if hasMove(moves, Point(0), Point(5), 5, KindNormal) {
		t.Error("0/5 lands on five black checkers and must be blocked")
	}
	for _, m := range moves {
		if m.From == Point(0) && m.To == Point(11) {
			t.Error("a combined 11-pip move is not a single legal move")
		}
		if m.Kind != KindNormal {
			t.Errorf("unexpected %s move %v", m.Kind, m)
		}
		if m.Die != 5 && m.Die != 6 {
			t.Errorf("move %v uses a die that was not rolled", m)
		}
	}
	if !hasMove(moves, Point(11), Point(16), 5, KindNormal) {
		t.Error("expected 11/16 with the 5")
	}
}

func TestLegalMovesOpeningBlack(t *testing.T) {
	gs := rolled(StartingPosition(), Black, 3, 1)
	moves := gs.LegalMoves()

	assert.True(t, hasMove(moves, Point(7), Point(4), 3, KindNormal))
	assert.True(t, hasMove(moves, Point(5), Point(4), 1, KindNormal))
	assert.True(t, hasMove(moves, Point(23), Point(20), 3, KindNormal))
	for _, m := range moves {
		assert.Less(t, m.To.Index, m.From.Index, "black moves toward lower points: %v", m)
	}
}

func TestLegalMovesReentryWithHit(t *testing.T) {
	gs := StartingPosition()
	place(&gs, White, 0, 1)
	gs.BarWhite = 1
	place(&gs, Black, 5, 4)
	place(&gs, Black, 2, 1)
	gs = rolled(gs, White, 3)

	moves := gs.LegalMoves()
	assert.Equal(t, []Move{{From: Bar, To: Point(2), Die: 3, Kind: KindEnter, Hit: true}}, moves)
}

func TestLegalMovesBarPrecedence(t *testing.T) {
	gs := StartingPosition()
	place(&gs, Black, 23, 1)
	gs.BarBlack = 1
	gs = rolled(gs, Black, 6, 2)

	moves := gs.LegalMoves()
	assert.NotEmpty(t, moves)
	for _, m := range moves {
		assert.Equal(t, KindEnter, m.Kind)
		assert.Equal(t, Bar, m.From)
	}
	// 6 enters on 18, which White holds with five checkers.
	assert.Equal(t, []Move{{From: Bar, To: Point(22), Die: 2, Kind: KindEnter}}, moves)
}

func TestLegalMovesBarBlocked(t *testing.T) {
	var gs GameState
	for p := 0; p < HomeSize; p++ {
		place(&gs, Black, p, 2)
	}
	place(&gs, Black, 23, 3)
	place(&gs, White, 12, 14)
	gs.BarWhite = 1
	gs = rolled(gs, White, 3, 4)

	assert.Empty(t, gs.LegalMoves(), "closed board leaves no entry and nothing else may move")
	assert.False(t, gs.CanMove())
}

func TestLegalMovesBearOffOvershoot(t *testing.T) {
	var gs GameState
	place(&gs, White, 22, 2)
	gs.BorneOffWhite = 13
	place(&gs, Black, 0, 15)
	gs = rolled(gs, White, 1, 6)

	moves := gs.LegalMoves()
	assert.True(t, hasMove(moves, Point(22), Off, 6, KindBearOff))
	assert.True(t, hasMove(moves, Point(22), Point(23), 1, KindNormal))
	assert.Len(t, moves, 2)
}

func TestLegalMovesBearOffOnlyFurthestMayOvershoot(t *testing.T) {
	var gs GameState
	place(&gs, White, 20, 1)
	place(&gs, White, 22, 1)
	gs.BorneOffWhite = 13
	place(&gs, Black, 0, 15)
	gs = rolled(gs, White, 6)

	moves := gs.LegalMoves()
	assert.Equal(t, []Move{{From: Point(20), To: Off, Die: 6, Kind: KindBearOff}}, moves)
}

func TestLegalMovesBearOffSmallestOvershoot(t *testing.T) {
	var gs GameState
	place(&gs, Black, 1, 1)
	gs.BorneOffBlack = 14
	place(&gs, White, 23, 15)
	gs = rolled(gs, Black, 6, 4)

	// point 1 needs a 2; the smallest larger die is the 4.
	assert.Equal(t, []Move{{From: Point(1), To: Off, Die: 4, Kind: KindBearOff}}, gs.LegalMoves())
}

func TestLegalMovesBearOffExact(t *testing.T) {
	var gs GameState
	place(&gs, White, 19, 1)
	place(&gs, White, 22, 1)
	gs.BorneOffWhite = 13
	place(&gs, Black, 0, 15)
	gs = rolled(gs, White, 2, 5)

	moves := gs.LegalMoves()
	assert.True(t, hasMove(moves, Point(19), Off, 5, KindBearOff))
	assert.True(t, hasMove(moves, Point(22), Off, 2, KindBearOff))
	assert.True(t, hasMove(moves, Point(19), Point(21), 2, KindNormal))
	assert.False(t, hasMove(moves, Point(22), Off, 5, KindBearOff), "exact die exists for 19, so 22 may not use the 5")
}

func TestLegalMovesBearOffGating(t *testing.T) {
	var gs GameState
	place(&gs, White, 17, 1) // one straggler outside home
	place(&gs, White, 22, 14)
	place(&gs, Black, 0, 15)
	gs = rolled(gs, White, 2, 6)

	for _, m := range gs.LegalMoves() {
		assert.NotEqual(t, KindBearOff, m.Kind, "%v", m)
	}
}

func TestLegalMovesDoublesListDistinctDice(t *testing.T) {
	gs := rolled(StartingPosition(), White, 4, 4, 4, 4)
	seen := map[Move]int{}
	for _, m := range gs.LegalMoves() {
		seen[m]++
		assert.Equal(t, 4, m.Die)
	}
	for m, n := range seen {
		assert.Equal(t, 1, n, "duplicate %v", m)
	}
}

func TestLegalMovesNoneWithoutDice(t *testing.T) {
	gs := StartingPosition()
	assert.Empty(t, gs.LegalMoves())
}

func TestIsValidMove(t *testing.T) {
	gs := StartingPosition()
	place(&gs, Black, 3, 1)
	place(&gs, Black, 12, 4)

	tests := []struct {
		name       string
		side       Side
		start, end int
		want       bool
	}{
		{"white forward", White, 0, 6, true},
		{"white hits blot", White, 0, 3, true},
		{"white blocked", White, 0, 5, false},
		{"white backward", White, 11, 9, false},
		{"same point", White, 11, 11, false},
		{"empty origin", White, 1, 4, false},
		{"opponent checker", White, 5, 8, false},
		{"start out of range", White, -1, 2, false},
		{"end out of range", White, 18, 24, false},
		{"black forward", Black, 12, 9, true},
		{"black blocked", Black, 12, 11, false},
		{"black backward", Black, 7, 9, false},
		{"black onto own", Black, 7, 5, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs.CurrentPlayer = tc.side
			if got := gs.IsValidMove(tc.start, tc.end); got != tc.want {
				t.Errorf("IsValidMove(%d, %d) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestTargetsFrom(t *testing.T) {
	gs := rolled(StartingPosition(), White, 3, 1)
	assert.ElementsMatch(t, []Location{Point(1), Point(3)}, gs.TargetsFrom(Point(0)))
	assert.Empty(t, gs.TargetsFrom(Point(5)))
	assert.Empty(t, gs.TargetsFrom(Bar))
}
