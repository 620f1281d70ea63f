// Package stats summarizes the dice and checker activity of a game history.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yourusername/bgtable/pkg/engine"
)

// SideStats describes one side's rolls and moves.
type SideStats struct {
	Side        engine.Side `json:"side"`
	Rolls       int         `json:"rolls"`
	Doubles     int         `json:"doubles"`
	DoublesRate float64     `json:"doubles_rate"`
	Faces       [6]int      `json:"faces"`
	TotalPips   int         `json:"total_pips"`
	MeanPips    float64     `json:"mean_pips"`
	StdDevPips  float64     `json:"stddev_pips"`

	// ChiSquare compares the face counts with a fair die; PValue is the
	// probability of a statistic at least that large with five degrees
	// of freedom.
	ChiSquare float64 `json:"chi_square"`
	PValue    float64 `json:"p_value"`

	Moves  int `json:"moves"`
	Hits   int `json:"hits"`
	Passes int `json:"passes"`
}

// Report holds per-side statistics for a game.
type Report struct {
	Turns int       `json:"turns"`
	White SideStats `json:"white"`
	Black SideStats `json:"black"`
}

// Compute builds a report from a turn history.
func Compute(turns []engine.Turn) Report {
	return Report{
		Turns: len(turns),
		White: forSide(turns, engine.White),
		Black: forSide(turns, engine.Black),
	}
}

// RollPips is the number of pips a roll is worth: doubles count four times.
func RollPips(dice [2]int) int {
	if dice[0] == dice[1] {
		return 4 * dice[0]
	}
	return dice[0] + dice[1]
}

func forSide(turns []engine.Turn, side engine.Side) SideStats {
	st := SideStats{Side: side, PValue: 1}
	var pips []float64
	var faces [6]float64

	for _, t := range turns {
		if t.Side != side {
			continue
		}
		st.Rolls++
		if t.Dice[0] == t.Dice[1] {
			st.Doubles++
		}
		for _, d := range t.Dice {
			if d >= 1 && d <= 6 {
				st.Faces[d-1]++
				faces[d-1]++
			}
		}
		pips = append(pips, float64(RollPips(t.Dice)))

		st.Moves += len(t.Moves)
		for _, m := range t.Moves {
			if m.Hit {
				st.Hits++
			}
		}
		if t.Passed || len(t.Moves) == 0 {
			st.Passes++
		}
	}

	if st.Rolls == 0 {
		return st
	}
	st.TotalPips = int(floats.Sum(pips))
	st.MeanPips = stat.Mean(pips, nil)
	if len(pips) > 1 {
		st.StdDevPips = stat.StdDev(pips, nil)
	}
	st.DoublesRate = float64(st.Doubles) / float64(st.Rolls)

	expected := make([]float64, 6)
	floats.AddConst(floats.Sum(faces[:])/6, expected)
	st.ChiSquare = stat.ChiSquare(faces[:], expected)
	st.PValue = distuv.ChiSquared{K: 5}.Survival(st.ChiSquare)
	return st
}
