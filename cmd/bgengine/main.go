// bgengine - command line tools for the backgammon rules engine
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yourusername/bgtable/internal/positionid"
	"github.com/yourusername/bgtable/pkg/ai"
	"github.com/yourusername/bgtable/pkg/engine"
	"github.com/yourusername/bgtable/pkg/match"
	"github.com/yourusername/bgtable/pkg/stats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "selfplay":
		cmdSelfPlay(args)
	case "moves":
		cmdMoves(args)
	case "posid":
		cmdPosID(args)
	case "replay":
		cmdReplay(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bgengine - Backgammon rules engine tools

Usage: bgengine <command> [options]

Commands:
  selfplay  Play random games against itself and print dice statistics
  moves     Show the opening position and the legal moves for a roll
  posid     Print or decode a gnubg position ID
  replay    Check a .mat game record against the rules

Use "bgengine <command> -h" for command-specific help.

Points are numbered 0-23 from White's 24 point; White moves toward 23,
Black toward 0. Records use each mover's own 1-24 numbering.`)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func parseDice(diceStr string) ([2]int, error) {
	parts := strings.Split(diceStr, ",")
	if len(parts) != 2 {
		parts = strings.Split(diceStr, "-")
	}
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("dice should be in format '3,1' or '3-1'")
	}

	d1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return [2]int{}, fmt.Errorf("dice values must be 1-6")
	}

	return [2]int{d1, d2}, nil
}

func cmdSelfPlay(args []string) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	games := fs.Int("games", 10, "Number of games to play")
	seed := fs.Int64("seed", 1, "Random seed (0 = time based)")
	maxRolls := fs.Int("max-rolls", 5000, "Abandon a game after this many rolls")
	printMAT := fs.Bool("mat", false, "Print each game as a .mat record")
	fs.Parse(args)

	if *games <= 0 {
		fatalf("games must be positive")
	}

	roller := engine.NewRandRoller(*seed)
	white := ai.NewRandomPlayer(*seed + 1)
	black := ai.NewRandomPlayer(*seed + 2)

	wins := map[engine.Side]int{}
	var turns []engine.Turn
	totalRolls := 0

	for i := 1; i <= *games; i++ {
		g := engine.NewGame(roller)
		winner, err := ai.PlayGame(g, white, black, *maxRolls)
		if err != nil {
			fatalf("game %d: %v", i, err)
		}
		wins[winner]++
		history := g.History()
		turns = append(turns, history...)
		totalRolls += len(history)

		st := g.State()
		fmt.Printf("Game %3d: winner %-5s  rolls %4d  pips W %3d B %3d\n",
			i, winner, len(history), st.PipCount(engine.White), st.PipCount(engine.Black))

		if *printMAT {
			rec := match.FromGame(g, "White", "Black")
			if err := match.ExportMAT(os.Stdout, rec); err != nil {
				fatalf("writing record: %v", err)
			}
		}
	}

	fmt.Printf("\nWhite %d  Black %d  abandoned %d  mean rolls/game %.1f\n",
		wins[engine.White], wins[engine.Black], wins[engine.NoSide],
		float64(totalRolls)/float64(*games))
	report := stats.Compute(turns)
	for _, s := range []stats.SideStats{report.White, report.Black} {
		fmt.Printf("%-5s rolls %5d  mean pips %5.2f (sd %.2f)  doubles %.3f  chi2 %.2f p=%.3f  hits %d\n",
			s.Side, s.Rolls, s.MeanPips, s.StdDevPips, s.DoublesRate, s.ChiSquare, s.PValue, s.Hits)
	}
}

func cmdMoves(args []string) {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	seed := fs.Int64("seed", 0, "Random seed for the roll (0 = time based)")
	diceFlag := fs.String("dice", "", "Use this roll instead (e.g., 3,1 or 3-1)")
	black := fs.Bool("black", false, "Black to move")
	fs.Parse(args)

	var roller engine.Roller = engine.NewRandRoller(*seed)
	if *diceFlag != "" {
		dice, err := parseDice(*diceFlag)
		if err != nil {
			fatalf("%v", err)
		}
		roller = engine.NewSequenceRoller(dice)
	}
	starter := engine.White
	if *black {
		starter = engine.Black
	}

	g := engine.NewGameWithStarter(roller, starter)
	if _, err := g.RollDice(); err != nil {
		fatalf("%v", err)
	}
	snap := g.Snapshot()

	printBoard(snap)
	fmt.Printf("\n%s to play %d-%d, %d legal moves:\n", snap.CurrentPlayer, snap.Dice[0], snap.Dice[1], len(snap.LegalMoves))
	for i, m := range snap.LegalMoves {
		fmt.Printf("  %2d. %-8s %s\n", i+1, m.Kind, m)
	}
}

// printBoard draws the 24 points as signed checker counts, White positive.
func printBoard(s engine.Snapshot) {
	fmt.Printf("Position ID: %s\n", s.PositionID)
	fmt.Print("  ")
	for p := 12; p < engine.NumPoints; p++ {
		fmt.Printf("%4d", p)
	}
	fmt.Print("\n  ")
	for p := 12; p < engine.NumPoints; p++ {
		fmt.Printf("%4d", s.Board[p])
	}
	fmt.Print("\n  ")
	for p := 11; p >= 0; p-- {
		fmt.Printf("%4d", s.Board[p])
	}
	fmt.Print("\n  ")
	for p := 11; p >= 0; p-- {
		fmt.Printf("%4d", p)
	}
	fmt.Printf("\nBar W %d B %d  Off W %d B %d  Pips W %d B %d\n",
		s.BarWhite, s.BarBlack, s.BorneOffWhite, s.BorneOffBlack, s.PipWhite, s.PipBlack)
}

func cmdPosID(args []string) {
	fs := flag.NewFlagSet("posid", flag.ExitOnError)
	decode := fs.String("decode", "", "Position ID to decode")
	fs.Parse(args)

	if *decode == "" {
		gs := engine.StartingPosition()
		fmt.Println(gs.PositionID())
		return
	}

	// Handle gnubg format "positionID:matchID" - we only need the position part
	id := *decode
	if idx := strings.Index(id, ":"); idx >= 0 {
		id = id[:idx]
	}
	b, err := positionid.Decode(id)
	if err != nil {
		fatalf("%v", err)
	}
	for side, name := range []string{"opponent", "on roll"} {
		fmt.Printf("%-9s", name)
		total := 0
		for p := 0; p < positionid.BarIndex; p++ {
			fmt.Printf("%3d", b[side][p])
			total += int(b[side][p])
		}
		fmt.Printf("  bar %d  total %d\n", b[side][positionid.BarIndex], total+int(b[side][positionid.BarIndex]))
	}
}

func cmdReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	file := fs.String("file", "", "Path to a .mat record (default stdin)")
	fs.Parse(args)

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fatalf("%v", err)
		}
		defer f.Close()
		in = f
	}

	rec, err := match.ParseMAT(in)
	if err != nil {
		fatalf("%v", err)
	}
	g, err := match.Replay(rec)
	if err != nil {
		fatalf("%v", err)
	}
	snap := g.Snapshot()
	printBoard(snap)
	fmt.Printf("\n%d turns replayed", len(rec.Turns))
	if g.GameOver() {
		fmt.Printf(", %s wins", g.Winner())
	}
	fmt.Println()
}
