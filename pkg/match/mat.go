package match

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/bgtable/pkg/engine"
)

// MAT format is the Jellyfish/gnubg match format. White is player 1 and
// writes the left column; point numbers are from the mover's side.
//
//  ; [Player 1 "white"]
//  ; [Player 2 "black"]
//  1 point match
//
//  Game 1
//  white : 0                          black : 0
//   1) 31: 8/5 6/5                    52: 13/11 24/19*
//   2) 64: bar/21 13/9
//        Wins 1 point

// ErrFormat is returned for records that cannot be parsed or replayed.
var ErrFormat = errors.New("malformed match record")

// columnWidth is the width of player 1's column on a move line.
const columnWidth = 32

var (
	gameHeaderRE = regexp.MustCompile(`^Game\s+(\d+)`)
	scoreLineRE  = regexp.MustCompile(`^(.+?)\s*:\s*(\d+)\s+(.+?)\s*:\s*(\d+)`)
	moveLineRE   = regexp.MustCompile(`^\s*(\d+)\)`)
	tagRE        = regexp.MustCompile(`\[([\w ]+?)\s+"([^"]*)"\]`)
	columnSepRE  = regexp.MustCompile(`\s{3,}`)
	countRE      = regexp.MustCompile(`^(.+)\((\d)\)$`)
)

// ExportMAT writes rec as a one-game MAT match.
func ExportMAT(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, " ; [Site \"bgtable\"]\n")
	if rec.Event != "" {
		fmt.Fprintf(bw, " ; [Event \"%s\"]\n", rec.Event)
	}
	if rec.Date != "" {
		fmt.Fprintf(bw, " ; [Date \"%s\"]\n", rec.Date)
	}
	if rec.ID != "" {
		fmt.Fprintf(bw, " ; [Game ID \"%s\"]\n", rec.ID)
	}
	fmt.Fprintf(bw, " ; [Player 1 \"%s\"]\n", rec.White)
	fmt.Fprintf(bw, " ; [Player 2 \"%s\"]\n", rec.Black)
	fmt.Fprintf(bw, " 1 point match\n\n")

	fmt.Fprintf(bw, " Game 1\n")
	fmt.Fprintf(bw, " %s : 0%s%s : 0\n", rec.White, gap(len(rec.White)+4), rec.Black)

	line := 0
	open := -1 // width of player 1's column while player 2's is pending
	for _, t := range rec.Turns {
		text := formatTurnMAT(t)
		if t.Side == engine.White {
			if open >= 0 {
				bw.WriteString("\n")
			}
			line++
			fmt.Fprintf(bw, "%3d) %s", line, text)
			open = len(text)
			continue
		}
		if open >= 0 {
			bw.WriteString(gap(open))
		} else {
			line++
			fmt.Fprintf(bw, "%3d) %s", line, strings.Repeat(" ", columnWidth))
		}
		fmt.Fprintf(bw, "%s\n", text)
		open = -1
	}
	if open >= 0 {
		bw.WriteString("\n")
	}

	switch rec.Winner {
	case engine.White:
		fmt.Fprintf(bw, "      Wins 1 point\n")
	case engine.Black:
		fmt.Fprintf(bw, "      %sWins 1 point\n", strings.Repeat(" ", columnWidth))
	}
	bw.WriteString("\n")
	return bw.Flush()
}

// gap returns the padding that follows n characters in player 1's column.
func gap(n int) string {
	return strings.Repeat(" ", max(3, columnWidth-n))
}

// formatTurnMAT renders one roll and its moves, e.g. "52: 13/11 24/19*".
func formatTurnMAT(t engine.Turn) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d%d:", t.Dice[0], t.Dice[1])
	for _, m := range t.Moves {
		sb.WriteByte(' ')
		sb.WriteString(formatLocation(m.From, t.Side))
		sb.WriteByte('/')
		sb.WriteString(formatLocation(m.To, t.Side))
		if m.Hit {
			sb.WriteByte('*')
		}
	}
	return sb.String()
}

// formatLocation converts a location to the mover's point number: each side
// counts down from its 24 point to its 1 point.
func formatLocation(l engine.Location, side engine.Side) string {
	switch l.Kind {
	case engine.OnBar:
		return "bar"
	case engine.OffBoard:
		return "off"
	}
	if side == engine.White {
		return strconv.Itoa(engine.NumPoints - l.Index)
	}
	return strconv.Itoa(l.Index + 1)
}

// parseLocation is the inverse of formatLocation.
func parseLocation(s string, side engine.Side) (engine.Location, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "bar", "25":
		return engine.Bar, nil
	case "off", "0":
		return engine.Off, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > engine.NumPoints {
		return engine.Location{}, fmt.Errorf("%w: bad point %q", ErrFormat, s)
	}
	if side == engine.White {
		return engine.Point(engine.NumPoints - n), nil
	}
	return engine.Point(n - 1), nil
}

// ParseMAT reads a one-game MAT record. Moves carry only their origin,
// destination and hit marker; Replay recovers the dice used.
func ParseMAT(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	rec := &Record{Turns: make([]engine.Turn, 0)}
	games := 0

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, ";"):
			if m := tagRE.FindStringSubmatch(line); m != nil {
				switch strings.ToLower(m[1]) {
				case "player 1", "player1":
					rec.White = m[2]
				case "player 2", "player2":
					rec.Black = m[2]
				case "date":
					rec.Date = m[2]
				case "event":
					rec.Event = m[2]
				case "game id":
					rec.ID = m[2]
				}
			}

		case gameHeaderRE.MatchString(line):
			games++
			if games > 1 {
				return nil, fmt.Errorf("%w: more than one game", ErrFormat)
			}

		case games == 0:
			// match length and other preamble

		case moveLineRE.MatchString(line):
			if err := parseMoveLineMAT(raw, rec); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "Wins"):
			indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
			rec.Winner = engine.White
			if indent >= columnWidth {
				rec.Winner = engine.Black
			}

		default:
			if m := scoreLineRE.FindStringSubmatch(line); m != nil {
				if rec.White == "" {
					rec.White = strings.TrimSpace(m[1])
				}
				if rec.Black == "" {
					rec.Black = strings.TrimSpace(m[3])
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MAT file: %w", err)
	}
	if games == 0 {
		return nil, fmt.Errorf("%w: no game found", ErrFormat)
	}
	return rec, nil
}

// parseMoveLineMAT parses a numbered line holding one or both columns.
// A line that only has player 2's turn starts with a blank column.
func parseMoveLineMAT(raw string, rec *Record) error {
	idx := strings.Index(raw, ")")
	rest := strings.TrimPrefix(raw[idx+1:], " ")

	var white, black string
	if strings.HasPrefix(rest, "   ") {
		black = strings.TrimSpace(rest)
	} else {
		cols := columnSepRE.Split(strings.TrimSpace(rest), 2)
		white = cols[0]
		if len(cols) > 1 {
			black = cols[1]
		}
	}

	if white != "" {
		if err := parseTurnMAT(white, engine.White, rec); err != nil {
			return err
		}
	}
	if black != "" {
		if err := parseTurnMAT(black, engine.Black, rec); err != nil {
			return err
		}
	}
	return nil
}

// parseTurnMAT parses "31: 8/5 6/5" or "66: 13/7(2)" for side.
func parseTurnMAT(text string, side engine.Side, rec *Record) error {
	dice, moves, ok := strings.Cut(text, ":")
	dice = strings.TrimSpace(dice)
	if !ok || len(dice) != 2 {
		return fmt.Errorf("%w: bad roll %q", ErrFormat, text)
	}
	d1, d2 := int(dice[0]-'0'), int(dice[1]-'0')
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return fmt.Errorf("%w: bad roll %q", ErrFormat, dice)
	}
	t := rec.AddTurn(side, d1, d2)

	for _, part := range strings.Fields(moves) {
		count := 1
		if m := countRE.FindStringSubmatch(part); m != nil {
			part = m[1]
			count, _ = strconv.Atoi(m[2])
		}
		hit := strings.HasSuffix(part, "*")
		part = strings.TrimSuffix(part, "*")

		fromStr, toStr, ok := strings.Cut(part, "/")
		if !ok {
			return fmt.Errorf("%w: bad move %q", ErrFormat, part)
		}
		from, err := parseLocation(fromStr, side)
		if err != nil {
			return err
		}
		to, err := parseLocation(toStr, side)
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			t.Moves = append(t.Moves, engine.Move{From: from, To: to, Hit: hit && i == 0})
		}
	}
	return nil
}
