package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartingPosition(t *testing.T) {
	gs := StartingPosition()

	assert.Equal(t, White, gs.CurrentPlayer)
	assert.Equal(t, [2]int{0, 0}, gs.Dice)
	assert.Empty(t, gs.MovesRemaining)
	assert.False(t, gs.GameOver())

	assert.Equal(t, CheckersPerSide, gs.checkersInPlay(White))
	assert.Equal(t, CheckersPerSide, gs.checkersInPlay(Black))
	assert.NotPanics(t, gs.mustBeConsistent)

	for p := 0; p < NumPoints; p++ {
		if gs.Board[p] != 0 {
			assert.False(t, gs.owns(White, p) && gs.owns(Black, p), "point %d", p)
		}
	}
}

func TestPipCountOpening(t *testing.T) {
	gs := StartingPosition()
	assert.Equal(t, 167, gs.PipCount(White))
	assert.Equal(t, 167, gs.PipCount(Black))

	gs.Board[0] = 1
	gs.BarWhite = 1
	assert.Equal(t, 167-24+25, gs.PipCount(White))
}

func TestPositionIDOpening(t *testing.T) {
	gs := StartingPosition()
	assert.Equal(t, "4HPwATDgc/ABMA", gs.PositionID())

	gs.CurrentPlayer = Black
	assert.Equal(t, "4HPwATDgc/ABMA", gs.PositionID(), "opening is symmetric")
}

func TestAllInHome(t *testing.T) {
	assert.False(t, func() bool { gs := StartingPosition(); return gs.AllInHome(White) }())

	var gs GameState
	gs.Board[20] = 10
	gs.Board[23] = 5
	gs.Board[2] = -15
	assert.True(t, gs.AllInHome(White))
	assert.True(t, gs.AllInHome(Black))

	gs.Board[20] = 9
	gs.BarWhite = 1
	assert.False(t, gs.AllInHome(White), "a checker on the bar is not home")

	gs.BarWhite = 0
	gs.Board[17] = 1
	assert.False(t, gs.AllInHome(White))
}

func TestMustBeConsistentPanics(t *testing.T) {
	gs := StartingPosition()
	gs.Board[0] = 3
	assert.Panics(t, gs.mustBeConsistent)

	gs = StartingPosition()
	gs.BarBlack = -1
	assert.Panics(t, gs.mustBeConsistent)
}

func TestSideText(t *testing.T) {
	data, err := json.Marshal(struct {
		S Side `json:"s"`
	}{Black})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"black"}`, string(data))

	for _, in := range []string{"white", "1"} {
		side, err := ParseSide(in)
		require.NoError(t, err)
		assert.Equal(t, White, side)
	}
	_, err = ParseSide("red")
	assert.Error(t, err)
	assert.Equal(t, Black, White.Opponent())
}

func TestLocationJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Location
	}{
		{`7`, Point(7)},
		{`"bar"`, Bar},
		{`"off"`, Off},
		{`"12"`, Point(12)},
		{`-1`, Point(-1)},
	}
	for _, tc := range tests {
		var got Location
		require.NoError(t, json.Unmarshal([]byte(tc.in), &got), tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	var bad Location
	assert.Error(t, json.Unmarshal([]byte(`"north"`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))

	data, err := json.Marshal([]Location{Point(3), Bar, Off})
	require.NoError(t, err)
	assert.Equal(t, `[3,"bar","off"]`, string(data))

	assert.False(t, Point(24).Valid())
	assert.True(t, Point(23).Valid())
}
