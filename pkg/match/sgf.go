package match

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/bgtable/pkg/engine"
)

// ExportSGF writes rec as a gnubg SGF game tree. White is recorded as W.
func ExportSGF(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "(;FF[4]GM[6]CA[UTF-8]AP[bgtable:1.0]\n")
	fmt.Fprintf(bw, "PW[%s]PB[%s]\n", sgfEscape(rec.White), sgfEscape(rec.Black))
	fmt.Fprintf(bw, "MI[length:1][game:0][ws:0][bs:0]\n")
	if rec.Date != "" {
		fmt.Fprintf(bw, "DT[%s]\n", rec.Date)
	}
	if rec.Event != "" {
		fmt.Fprintf(bw, "EV[%s]\n", sgfEscape(rec.Event))
	}
	if rec.ID != "" {
		fmt.Fprintf(bw, "GN[%s]\n", rec.ID)
	}
	switch rec.Winner {
	case engine.White:
		fmt.Fprintf(bw, "RE[W+1]\n")
	case engine.Black:
		fmt.Fprintf(bw, "RE[B+1]\n")
	}

	for _, t := range rec.Turns {
		player := "W"
		if t.Side == engine.Black {
			player = "B"
		}
		fmt.Fprintf(bw, ";%s[%d%d%s]\n", player, t.Dice[0], t.Dice[1], formatMoveSGF(t))
	}

	fmt.Fprintf(bw, ")\n")
	return bw.Flush()
}

// formatMoveSGF encodes each checker move as two point letters.
func formatMoveSGF(t engine.Turn) string {
	var sb strings.Builder
	for _, m := range t.Moves {
		sb.WriteByte(sgfPoint(m.From, t.Side))
		sb.WriteByte(sgfPoint(m.To, t.Side))
	}
	return sb.String()
}

// sgfPoint maps the mover's point 1..24 to 'a'..'x', the bar to 'y' and
// off to 'z'.
func sgfPoint(l engine.Location, side engine.Side) byte {
	switch l.Kind {
	case engine.OnBar:
		return 'y'
	case engine.OffBoard:
		return 'z'
	}
	n := l.Index + 1
	if side == engine.White {
		n = engine.NumPoints - l.Index
	}
	return byte('a' + n - 1)
}

var sgfEscaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`)

func sgfEscape(s string) string { return sgfEscaper.Replace(s) }
