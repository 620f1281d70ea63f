package positionid

import (
	"errors"
	"testing"
)

// openingBoard is the standard starting position. Both sides see the same
// layout from their own perspective: 2 on the 24-point, 5 on the 13-point,
// 3 on the 8-point and 5 on the 6-point.
func openingBoard() TanBoard {
	var b TanBoard
	for side := 0; side < 2; side++ {
		b[side][5] = 5
		b[side][7] = 3
		b[side][12] = 5
		b[side][23] = 2
	}
	return b
}

// Known position ID for the starting position from gnubg.
const openingID = "4HPwATDgc/ABMA"

func TestEncodeOpening(t *testing.T) {
	if got := Encode(openingBoard()); got != openingID {
		t.Errorf("Encode(opening) = %s, want %s", got, openingID)
	}
}

func TestDecodeOpening(t *testing.T) {
	b, err := Decode(openingID)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b != openingBoard() {
		t.Errorf("Decode(%s) = %v, want opening board", openingID, b)
	}
}

func TestDecodeKeepsSideOnRollFirst(t *testing.T) {
	var b TanBoard
	b[1][0] = 15 // side on roll: everything on its ace point
	b[0][BarIndex] = 1
	b[0][18] = 14

	got, err := Decode(Encode(b))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != b {
		t.Errorf("Decode(Encode(b)) = %v, want %v", got, b)
	}
	if Encode(Swap(b)) == Encode(b) {
		t.Error("swapped board should encode differently")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"short", "4HPwATDgc"},
		{"bad alphabet", "4HPwATDgc!ABMA"},
		{"too many checkers", "//////////////"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.id); !errors.Is(err, ErrInvalid) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalid", tc.id, err)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if err := Check(openingBoard()); err != nil {
		t.Errorf("Check(opening) = %v, want nil", err)
	}

	var overlap TanBoard
	overlap[0][5] = 2
	overlap[1][18] = 2 // 23 - 5
	if err := Check(overlap); err == nil {
		t.Error("Check should reject a point held by both sides")
	}
}
