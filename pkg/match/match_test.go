package match

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgtable/pkg/ai"
	"github.com/yourusername/bgtable/pkg/engine"
)

// openingGame plays White 31: 8/5 6/5 and Black 52: 13/8 13/11.
func openingGame(t *testing.T) *engine.Game {
	t.Helper()
	g := engine.NewGame(engine.NewSequenceRoller([2]int{3, 1}, [2]int{5, 2}, [2]int{6, 6}))
	_, err := g.RollDice()
	require.NoError(t, err)
	for _, mv := range [][2]int{{16, 19}, {18, 19}, {12, 7}, {12, 10}} {
		_, err := g.ApplyMove(engine.Point(mv[0]), engine.Point(mv[1]))
		require.NoError(t, err)
	}
	return g
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("Alice", "Bob")
	_, err := uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", rec.Name(engine.White))
	assert.Equal(t, "Bob", rec.Name(engine.Black))
	assert.Equal(t, engine.NoSide, rec.Starter())
	assert.Len(t, rec.Date, len("2006-01-02"))
}

func TestLocationNotation(t *testing.T) {
	assert.Equal(t, "24", formatLocation(engine.Point(0), engine.White))
	assert.Equal(t, "1", formatLocation(engine.Point(23), engine.White))
	assert.Equal(t, "1", formatLocation(engine.Point(0), engine.Black))
	assert.Equal(t, "24", formatLocation(engine.Point(23), engine.Black))
	assert.Equal(t, "bar", formatLocation(engine.Bar, engine.Black))
	assert.Equal(t, "off", formatLocation(engine.Off, engine.White))

	for _, side := range []engine.Side{engine.White, engine.Black} {
		for p := 0; p < engine.NumPoints; p++ {
			loc, err := parseLocation(formatLocation(engine.Point(p), side), side)
			require.NoError(t, err)
			assert.Equal(t, engine.Point(p), loc)
		}
	}

	_, err := parseLocation("30", engine.White)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestExportMAT(t *testing.T) {
	rec := FromGame(openingGame(t), "Alice", "Bob")

	var buf bytes.Buffer
	require.NoError(t, ExportMAT(&buf, rec))
	out := buf.String()

	assert.Contains(t, out, ` ; [Player 1 "Alice"]`)
	assert.Contains(t, out, ` ; [Game ID "`+rec.ID+`"]`)
	assert.Contains(t, out, " 1 point match")
	assert.Contains(t, out, " Game 1\n")
	assert.Contains(t, out, "  1) 31: 8/5 6/5"+strings.Repeat(" ", columnWidth-11)+"52: 13/8 13/11\n")
	assert.Contains(t, out, "  2) 66:\n")
	assert.NotContains(t, out, "Wins")
}

func TestExportMATHitsAndWinner(t *testing.T) {
	rec := NewRecord("Alice", "Bob")
	turn := rec.AddTurn(engine.Black, 6, 4)
	turn.Moves = []engine.Move{
		{From: engine.Bar, To: engine.Point(18), Hit: true},
		{From: engine.Point(3), To: engine.Off},
	}
	rec.Winner = engine.Black

	var buf bytes.Buffer
	require.NoError(t, ExportMAT(&buf, rec))
	out := buf.String()

	assert.Contains(t, out, "  1) "+strings.Repeat(" ", columnWidth)+"64: bar/19* 4/off\n")
	assert.Contains(t, out, "      "+strings.Repeat(" ", columnWidth)+"Wins 1 point\n")

	parsed, err := ParseMAT(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, engine.Black, parsed.Winner)
	require.Len(t, parsed.Turns, 1)
	assert.Equal(t, engine.Black, parsed.Turns[0].Side)
	assert.Equal(t, turn.Moves, parsed.Turns[0].Moves)
}

func TestParseMAT(t *testing.T) {
	content := " ; [Player 1 \"Alice\"]\n ; [Player 2 \"Bob\"]\n 1 point match\n\n" +
		" Game 1\n Alice : 0                          Bob : 0\n" +
		"  1) 31: 8/5 6/5                    52: 13/8 13/11\n" +
		"  2) 66: 24/18(2)\n"

	rec, err := ParseMAT(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "Alice", rec.White)
	assert.Equal(t, "Bob", rec.Black)
	require.Len(t, rec.Turns, 3)
	assert.Equal(t, [2]int{3, 1}, rec.Turns[0].Dice)
	assert.Equal(t, engine.Black, rec.Turns[1].Side)
	assert.Equal(t, []engine.Move{
		{From: engine.Point(0), To: engine.Point(6)},
		{From: engine.Point(0), To: engine.Point(6)},
	}, rec.Turns[2].Moves)
	assert.Equal(t, 3, rec.Turns[2].Number)
}

func TestParseMATErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no game", " ; [Player 1 \"Alice\"]\n 1 point match\n"},
		{"bad roll", " Game 1\n  1) 71: 8/5 6/5\n"},
		{"bad point", " Game 1\n  1) 31: 8/30 6/5\n"},
		{"bad move", " Game 1\n  1) 31: 8-5\n"},
		{"two games", " Game 1\n  1) 31: 8/5 6/5\n Game 2\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMAT(strings.NewReader(tc.content))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestRoundTripRandomGames(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := engine.NewGame(engine.NewRandRoller(seed))
		winner, err := ai.PlayGame(g, ai.NewRandomPlayer(seed), ai.NewRandomPlayer(seed*7), 10000)
		require.NoError(t, err)
		require.NotEqual(t, engine.NoSide, winner)

		var buf bytes.Buffer
		require.NoError(t, ExportMAT(&buf, FromGame(g, "white", "black")))

		rec, err := ParseMAT(&buf)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, winner, rec.Winner)

		replayed, err := Replay(rec)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, g.History(), replayed.History(), "seed %d", seed)
		assert.Equal(t, g.Snapshot().PositionID, replayed.Snapshot().PositionID)
		assert.Equal(t, winner, replayed.Winner())
	}
}

func TestReplayBlackStarts(t *testing.T) {
	content := " Game 1\n" +
		"  1) " + strings.Repeat(" ", columnWidth) + "64: 13/7 8/4\n" +
		"  2) 31: 8/5 6/5\n"

	rec, err := ParseMAT(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, engine.Black, rec.Starter())

	g, err := Replay(rec)
	require.NoError(t, err)
	st := g.State()
	assert.Equal(t, int8(-1), st.Board[6])
	assert.Equal(t, int8(-1), st.Board[3])
	assert.Equal(t, int8(2), st.Board[19])
	assert.Equal(t, engine.Black, st.CurrentPlayer)
}

func TestReplayRejectsIllegalMove(t *testing.T) {
	rec := NewRecord("a", "b")
	turn := rec.AddTurn(engine.White, 3, 1)
	turn.Moves = []engine.Move{{From: engine.Point(16), To: engine.Point(20)}}

	_, err := Replay(rec)
	assert.ErrorIs(t, err, engine.ErrInvalidMove)
}

func TestReplayRejectsUnfinishedTurn(t *testing.T) {
	rec := NewRecord("a", "b")
	turn := rec.AddTurn(engine.White, 3, 1)
	turn.Moves = []engine.Move{{From: engine.Point(16), To: engine.Point(19)}}
	rec.AddTurn(engine.Black, 5, 2)

	_, err := Replay(rec)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestExportSGF(t *testing.T) {
	rec := FromGame(openingGame(t), "Alice", "Bob")

	var buf bytes.Buffer
	require.NoError(t, ExportSGF(&buf, rec))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "(;FF[4]GM[6]"))
	assert.Contains(t, out, "PW[Alice]PB[Bob]")
	assert.Contains(t, out, ";W[31hefe]")
	assert.Contains(t, out, ";B[52mhmk]")
	assert.Contains(t, out, ";W[66]")
	assert.True(t, strings.HasSuffix(out, ")\n"))
}
