package api

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgtable/pkg/ai"
	"github.com/yourusername/bgtable/pkg/engine"
	"github.com/yourusername/bgtable/pkg/match"
	"github.com/yourusername/bgtable/pkg/stats"
)

var (
	// ErrNoAI is returned by PlayAI when no side is configured for the AI.
	ErrNoAI = errors.New("no AI side configured")
	// ErrNotAITurn is returned by PlayAI when the other side is on roll.
	ErrNotAITurn = errors.New("not the AI's turn")
)

// TableOptions configures a Table.
type TableOptions struct {
	Seed          int64         // 0 seeds dice and the AI from the clock
	RandomStarter bool          // toss for the first roll instead of White
	AISide        engine.Side   // NoSide disables PlayAI
	Roller        engine.Roller // overrides the seeded dice; used by tests
}

// View is a snapshot tagged with the game it belongs to.
type View struct {
	GameID string `json:"game_id"`
	engine.Snapshot
}

// Table hosts the single game served by the API. All access is serialized
// by one mutex, and every change is pushed to subscribers.
type Table struct {
	mu      sync.Mutex
	id      string
	game    *engine.Game
	roller  engine.Roller
	toss    *rand.Rand
	opts    TableOptions
	ai      ai.Player
	subs    map[int]chan View
	nextSub int
}

// NewTable creates a table with a fresh game.
func NewTable(opts TableOptions) *Table {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	roller := opts.Roller
	if roller == nil {
		roller = engine.NewRandRoller(seed)
	}
	t := &Table{
		roller: roller,
		toss:   rand.New(rand.NewSource(seed ^ 0x5eed)),
		opts:   opts,
		ai:     ai.NewRandomPlayer(seed + 1),
		subs:   make(map[int]chan View),
	}
	t.reset()
	return t
}

func (t *Table) reset() {
	starter := engine.White
	if t.opts.RandomStarter && t.toss.Intn(2) == 1 {
		starter = engine.Black
	}
	t.id = uuid.NewString()
	t.game = engine.NewGameWithStarter(t.roller, starter)
	log.Info().Str("game", t.id).Stringer("starter", starter).Msg("New game")
}

// ID returns the id of the game on the table.
func (t *Table) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

// AISide returns the side the AI plays, or NoSide.
func (t *Table) AISide() engine.Side { return t.opts.AISide }

// Start replaces the current game with a new one.
func (t *Table) Start() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
	return t.publish()
}

// State returns the current view. A stuck turn is advanced first.
func (t *Table) State() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := t.game.State().Turn
	v := t.view()
	if v.Turn != before {
		t.logPass(before)
		t.broadcast(v)
	}
	return v
}

// Roll rolls the dice for the side on roll.
func (t *Table) Roll() ([2]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	dice, err := t.game.RollDice()
	if err != nil {
		return dice, err
	}
	log.Debug().Str("game", t.id).Stringer("side", t.game.CurrentPlayer()).Ints("dice", dice[:]).Msg("Rolled")
	t.publish()
	return dice, nil
}

// Move applies one checker move and returns the move as played together with
// the resulting view.
func (t *Table) Move(from, to engine.Location) (engine.Move, View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	side := t.game.CurrentPlayer()
	before := t.game.State().Turn
	m, err := t.game.ApplyMove(from, to)
	if err != nil {
		// A stuck turn may have been passed before the move was rejected.
		if t.game.State().Turn != before {
			t.logPass(before)
			t.publish()
		}
		return m, View{}, err
	}
	log.Debug().Str("game", t.id).Stringer("side", side).Stringer("move", m).Msg("Moved")
	t.logTurn(side)
	return m, t.publish(), nil
}

// Targets lists the legal destinations from one origin.
func (t *Table) Targets(from engine.Location) []engine.Location {
	t.mu.Lock()
	defer t.mu.Unlock()
	targets := t.game.TargetsFrom(from)
	if targets == nil {
		targets = []engine.Location{}
	}
	return targets
}

// PlayAI plays the AI side's whole turn, rolling first if the game has not
// started, and returns the moves it made.
func (t *Table) PlayAI() ([]engine.Move, View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	side := t.opts.AISide
	switch {
	case side == engine.NoSide:
		return nil, View{}, ErrNoAI
	case t.game.GameOver():
		return nil, View{}, engine.ErrGameOver
	}
	if t.game.State().Turn == 0 && t.game.CurrentPlayer() == side {
		if _, err := t.game.RollDice(); err != nil {
			return nil, View{}, err
		}
	}
	if turn := t.game.State().Turn; t.game.CurrentPlayer() == side && t.game.AdvanceIfStuck() {
		t.logPass(turn)
		t.publish()
	}
	if t.game.CurrentPlayer() != side {
		return nil, View{}, ErrNotAITurn
	}

	moves, err := ai.PlayTurn(t.game, side, t.ai)
	if err != nil {
		return moves, View{}, err
	}
	log.Debug().Str("game", t.id).Stringer("side", side).Int("moves", len(moves)).Msg("AI turn")
	t.logTurn(side)
	return moves, t.publish(), nil
}

// History returns the game id and the turns played so far.
func (t *Table) History() (string, []engine.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id, t.game.History()
}

// Record returns the game as a match record.
func (t *Table) Record() *match.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := match.FromGame(t.game, "White", "Black")
	rec.ID = t.id
	return rec
}

// Stats computes dice statistics for the current game.
func (t *Table) Stats() (string, stats.Report) {
	id, turns := t.History()
	return id, stats.Compute(turns)
}

// Subscribe registers for a view after every change. The returned func
// unsubscribes and closes the channel. Slow subscribers miss updates rather
// than block the table.
func (t *Table) Subscribe() (<-chan View, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextSub
	t.nextSub++
	ch := make(chan View, 8)
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (t *Table) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// view must be called with t.mu held.
func (t *Table) view() View {
	return View{GameID: t.id, Snapshot: t.game.Snapshot()}
}

// publish builds the current view and sends it to subscribers. Callers hold t.mu.
func (t *Table) publish() View {
	v := t.view()
	t.broadcast(v)
	return v
}

func (t *Table) broadcast(v View) {
	for _, ch := range t.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// logTurn reports a turn change or the end of the game after side moved.
func (t *Table) logTurn(side engine.Side) {
	switch {
	case t.game.GameOver():
		log.Info().Str("game", t.id).Stringer("winner", t.game.Winner()).Msg("Game over")
	case t.game.CurrentPlayer() != side:
		s := t.game.State()
		log.Debug().Str("game", t.id).Stringer("side", s.CurrentPlayer).Ints("dice", s.Dice[:]).Msg("Turn passed")
	}
}

func (t *Table) logPass(turn int) {
	log.Debug().Str("game", t.id).Int("turn", turn).Msg("Forced pass")
}
