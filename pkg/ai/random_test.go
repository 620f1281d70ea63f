package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgtable/pkg/engine"
)

func TestRandomPlayerChoosesFromList(t *testing.T) {
	p := NewRandomPlayer(3)
	moves := []engine.Move{
		{From: engine.Point(0), To: engine.Point(3), Die: 3},
		{From: engine.Point(11), To: engine.Point(12), Die: 1},
	}
	seen := map[engine.Move]bool{}
	for i := 0; i < 200; i++ {
		m := p.Choose(moves)
		assert.Contains(t, moves, m)
		seen[m] = true
	}
	assert.Len(t, seen, 2, "both moves should come up in 200 draws")
}

func TestPlayTurnStopsWhenTurnPasses(t *testing.T) {
	g := engine.NewGame(engine.NewSequenceRoller([2]int{3, 1}, [2]int{6, 4}))
	_, err := g.RollDice()
	require.NoError(t, err)

	played, err := PlayTurn(g, engine.White, NewRandomPlayer(1))
	require.NoError(t, err)
	assert.Len(t, played, 2)
	for _, m := range played {
		assert.Equal(t, engine.KindNormal, m.Kind)
	}
	assert.Equal(t, engine.Black, g.CurrentPlayer())
	assert.Equal(t, [2]int{6, 4}, g.State().Dice)
}

func TestPlayTurnNotOnRoll(t *testing.T) {
	g := engine.NewGame(engine.NewSequenceRoller([2]int{3, 1}))
	_, err := g.RollDice()
	require.NoError(t, err)

	played, err := PlayTurn(g, engine.Black, NewRandomPlayer(1))
	require.NoError(t, err)
	assert.Empty(t, played)
	assert.Equal(t, engine.White, g.CurrentPlayer())
}

func TestPlayTurnDoubles(t *testing.T) {
	g := engine.NewGame(engine.NewSequenceRoller([2]int{2, 2}, [2]int{5, 1}))
	_, err := g.RollDice()
	require.NoError(t, err)

	played, err := PlayTurn(g, engine.White, NewRandomPlayer(9))
	require.NoError(t, err)
	assert.Len(t, played, 4)
}

func TestPlayGameFinishes(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := engine.NewGame(engine.NewRandRoller(seed))
		winner, err := PlayGame(g, NewRandomPlayer(seed), NewRandomPlayer(seed+100), 10000)
		require.NoError(t, err)
		if winner == engine.NoSide {
			continue
		}
		st := g.State()
		assert.Equal(t, engine.CheckersPerSide, st.BorneOff(winner))
		assert.Less(t, st.BorneOff(winner.Opponent()), engine.CheckersPerSide)
	}
}

func TestPlayGameRollLimit(t *testing.T) {
	g := engine.NewGame(engine.NewRandRoller(11))
	winner, err := PlayGame(g, NewRandomPlayer(1), NewRandomPlayer(2), 4)
	require.NoError(t, err)
	assert.Equal(t, engine.NoSide, winner)
	assert.LessOrEqual(t, g.State().Turn, 5)
}
