package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// LocationKind tells whether a Location is a board point, the bar or off the board.
type LocationKind uint8

const (
	OnPoint LocationKind = iota
	OnBar
	OffBoard
)

// Location is a move origin or destination. The bar and off-board are
// distinct values rather than side-dependent sentinel indices.
type Location struct {
	Kind  LocationKind
	Index int // point index, meaningful only for OnPoint
}

var (
	// Bar is the origin of a re-entry move for whichever side is moving.
	Bar = Location{Kind: OnBar}
	// Off is the destination of a bear-off move.
	Off = Location{Kind: OffBoard}
)

// Point returns the location of board point i. Out-of-range indices are
// representable so that malformed input reaches the engine and is rejected there.
func Point(i int) Location { return Location{Kind: OnPoint, Index: i} }

// Valid reports whether the location names the bar, off, or a point in 0..23.
func (l Location) Valid() bool {
	switch l.Kind {
	case OnBar, OffBoard:
		return true
	case OnPoint:
		return l.Index >= 0 && l.Index < NumPoints
	}
	return false
}

func (l Location) String() string {
	switch l.Kind {
	case OnBar:
		return "bar"
	case OffBoard:
		return "off"
	}
	return strconv.Itoa(l.Index)
}

// MarshalJSON writes points as numbers and the bar/off as "bar"/"off".
func (l Location) MarshalJSON() ([]byte, error) {
	if l.Kind == OnPoint {
		return []byte(strconv.Itoa(l.Index)), nil
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts a point number or one of "bar"/"off".
func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		loc, err := ParseLocation(s)
		if err != nil {
			return err
		}
		*l = loc
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("location must be a point number, \"bar\" or \"off\": %w", err)
	}
	*l = Point(i)
	return nil
}

// ParseLocation parses "bar", "off" or a decimal point index.
func ParseLocation(s string) (Location, error) {
	switch s {
	case "bar":
		return Bar, nil
	case "off":
		return Off, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q", s)
	}
	return Point(i), nil
}
