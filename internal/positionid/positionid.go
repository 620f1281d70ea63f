// Package positionid implements GNU Backgammon compatible position IDs.
//
// A position ID is the 80-bit "old" position key of gnubg written as 14
// characters of unpadded standard base64. The key lists, for each side, the
// checkers on points 0-23 and the bar (index 24), each point as a run of
// 1-bits closed by a 0-bit. Points are numbered from that side's own
// perspective, so index 0 is the side's ace point.
package positionid

import (
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// Length is the length of a position ID string.
	Length = 14
	// BarIndex is the per-side index holding checkers on the bar.
	BarIndex = 24
	// MaxCheckers is the number of checkers each side owns.
	MaxCheckers = 15

	keyBytes = 10
)

// TanBoard holds checker counts as [side][point]. Side 1 is the side on roll,
// side 0 its opponent; point 24 is the bar.
type TanBoard [2][25]uint8

// ErrInvalid is returned when a position ID cannot be decoded.
var ErrInvalid = errors.New("invalid position ID")

// Encode returns the position ID of a board. The side on roll is written first.
func Encode(b TanBoard) string {
	var key [keyBytes]byte
	bit := 0
	for _, side := range [2]int{1, 0} {
		for point := 0; point < 25; point++ {
			for n := 0; n < int(b[side][point]); n++ {
				key[bit/8] |= 1 << (bit % 8)
				bit++
			}
			bit++
		}
	}
	return base64.RawStdEncoding.EncodeToString(key[:])
}

// Decode parses a position ID produced by Encode (or gnubg) and validates it.
func Decode(id string) (TanBoard, error) {
	var b TanBoard
	if len(id) != Length {
		return b, fmt.Errorf("%w: length %d", ErrInvalid, len(id))
	}
	key, err := base64.RawStdEncoding.DecodeString(id)
	if err != nil || len(key) != keyBytes {
		return b, fmt.Errorf("%w: %q", ErrInvalid, id)
	}

	order := [2]int{1, 0}
	si, point := 0, 0
	for bit := 0; bit < keyBytes*8 && si < 2; bit++ {
		if key[bit/8]&(1<<(bit%8)) != 0 {
			b[order[si]][point]++
			continue
		}
		point++
		if point == 25 {
			si++
			point = 0
		}
	}

	if err := Check(b); err != nil {
		return b, err
	}
	return b, nil
}

// Check reports whether a board could be reached in a game: no side has more
// than 15 checkers and no point is held by both sides.
func Check(b TanBoard) error {
	var total [2]int
	for point := 0; point < 25; point++ {
		total[0] += int(b[0][point])
		total[1] += int(b[1][point])
	}
	if total[0] > MaxCheckers || total[1] > MaxCheckers {
		return fmt.Errorf("%w: more than %d checkers", ErrInvalid, MaxCheckers)
	}
	for point := 0; point < 24; point++ {
		if b[0][point] > 0 && b[1][23-point] > 0 {
			return fmt.Errorf("%w: point %d held by both sides", ErrInvalid, point+1)
		}
	}
	return nil
}

// Swap returns the board seen from the other side.
func Swap(b TanBoard) TanBoard {
	return TanBoard{b[1], b[0]}
}
