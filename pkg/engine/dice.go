package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Roller supplies dice. Implementations must return values in 1..6.
type Roller interface {
	Roll() (int, int)
}

// RandRoller rolls two fair dice from a seeded source.
type RandRoller struct {
	rng *rand.Rand
}

// NewRandRoller creates a roller. A zero seed uses the current time.
func NewRandRoller(seed int64) *RandRoller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns two independent uniform values in 1..6.
func (r *RandRoller) Roll() (int, int) {
	return r.rng.Intn(6) + 1, r.rng.Intn(6) + 1
}

// SequenceRoller replays a fixed list of rolls, then repeats the last one.
// Used to make games reproducible in tests and replays.
type SequenceRoller struct {
	rolls [][2]int
	next  int
}

// NewSequenceRoller creates a roller returning rolls in order.
func NewSequenceRoller(rolls ...[2]int) *SequenceRoller {
	if len(rolls) == 0 {
		rolls = [][2]int{{1, 2}}
	}
	return &SequenceRoller{rolls: rolls}
}

// Roll returns the next scripted roll.
func (r *SequenceRoller) Roll() (int, int) {
	roll := r.rolls[r.next]
	if r.next < len(r.rolls)-1 {
		r.next++
	}
	return roll[0], roll[1]
}

// movesForRoll expands a roll into the die values available for a turn:
// four of a kind for doubles, the two values otherwise.
func movesForRoll(d1, d2 int) []int {
	if d1 == d2 {
		return []int{d1, d1, d1, d1}
	}
	return []int{d1, d2}
}

func validDie(d int) bool { return d >= 1 && d <= 6 }

// setRoll records a roll and refills the remaining-die pool.
func (s *GameState) setRoll(d1, d2 int) {
	if !validDie(d1) || !validDie(d2) {
		panic(fmt.Sprintf("engine: roller returned %d-%d", d1, d2))
	}
	s.Dice = [2]int{d1, d2}
	s.MovesRemaining = movesForRoll(d1, d2)
	s.Turn++
}

// hasDie reports whether value d is still available this turn.
func (s *GameState) hasDie(d int) bool {
	for _, v := range s.MovesRemaining {
		if v == d {
			return true
		}
	}
	return false
}

// distinctDice returns the distinct remaining die values in ascending order.
func (s *GameState) distinctDice() []int {
	seen := make(map[int]bool, 2)
	out := make([]int, 0, 2)
	for _, v := range s.MovesRemaining {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// consume removes one occurrence of die value d from the pool.
func (s *GameState) consume(d int) {
	for i, v := range s.MovesRemaining {
		if v == d {
			s.MovesRemaining = append(s.MovesRemaining[:i], s.MovesRemaining[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("engine: consuming die %d not in %v", d, s.MovesRemaining))
}
