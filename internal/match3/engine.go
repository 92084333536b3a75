// internal/match3/engine.go
//
// Engine owns one board and drives play on it.
// Responsibilities:
//   - Start new games with a matchless board and a zero score.
//   - Accept or reject player swaps (rejected while a cascade is settling).
//   - Resolve cascades one phase per Step: match → clear → gravity → refill.
//   - Notify observers after every Clear and Refill.
//
// Notes:
//   - The engine has no clock. Callers pace Step (a renderer may wait between
//     phases; headless callers use Settle).
//   - Not safe for concurrent use; callers sharing an engine must serialise.
package match3

import (
	"math/rand"
	"time"
)

// Config sizes the board.
type Config struct {
	Width int `yaml:"width" json:"width"`
	Kinds int `yaml:"kinds" json:"kinds"`
}

// DefaultConfig is an 8×8 board with 6 candy kinds.
func DefaultConfig() Config {
	return Config{Width: 8, Kinds: 6}
}

// Validate reports an error for boards the generator cannot satisfy.
func (c Config) Validate() error { return Validate(c.Width, c.Kinds) }

// StepEvent is delivered to observers after each Clear and each Refill.
type StepEvent struct {
	Phase   Phase    // PhaseClear or PhaseRefill
	Cells   []Symbol // board contents after the phase (a copy)
	Indices []int    // cells cleared or refilled, ascending
	Score   int      // score after the phase
	Chain   int      // clear events so far in this cascade
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source used for generation and refill.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed seeds a private math/rand source.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// Engine is a single match-3 game board with its score and cascade state.
type Engine struct {
	cfg   Config
	rng   Rand
	grid  *Grid
	score Score

	phase   Phase    // next phase to run; PhaseIdle when settled
	pending MatchSet // match set handed over by an accepted swap
	current MatchSet // match set waiting for the Clear phase
	chain   int

	hooks []func(StepEvent)
}

// NewEngine validates cfg and starts a first game.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.NewGame()
	return e, nil
}

// NewGame replaces the board with a fresh matchless grid, resets the score
// and abandons any cascade state. It returns a copy of the new grid.
func (e *Engine) NewGame() *Grid {
	e.grid = generate(e.cfg.Width, e.cfg.Kinds, e.rng)
	e.score.Reset()
	e.phase = PhaseIdle
	e.pending, e.current = nil, nil
	e.chain = 0
	return e.grid.Clone()
}

// AttemptSwap is the entry point for player gestures. It returns false
// without side effects while a cascade is settling or when the swap is
// invalid or produces no run. On success the swapped grid is visible
// immediately and a cascade starts, seeded with the swap's match set.
func (e *Engine) AttemptSwap(a, b Pos) bool {
	if e.IsSettling() {
		return false
	}
	ok, m := TrySwap(e.grid, a, b)
	if !ok {
		return false
	}
	e.pending = m
	e.chain = 0
	e.phase = PhaseMatch
	return true
}

// IsSettling reports whether a cascade is in progress.
func (e *Engine) IsSettling() bool { return e.phase != PhaseIdle }

// Phase returns the phase the next Step will run.
func (e *Engine) Phase() Phase { return e.phase }

// Step runs the next cascade phase and returns the phase it ran, or
// PhaseIdle when there was nothing to do.
func (e *Engine) Step() Phase {
	ran := e.phase
	switch e.phase {
	case PhaseMatch:
		m := e.pending
		e.pending = nil
		if m == nil {
			m = FindMatches(e.grid)
		}
		if m.Len() == 0 {
			e.phase = PhaseIdle
			return ran
		}
		e.current = m
		e.phase = PhaseClear
	case PhaseClear:
		idx := e.current.Indices()
		e.score.Add(Clear(e.grid, e.current))
		e.current = nil
		e.chain++
		e.emit(PhaseClear, idx)
		e.phase = PhaseGravity
	case PhaseGravity:
		Gravity(e.grid)
		e.phase = PhaseRefill
	case PhaseRefill:
		filled := Refill(e.grid, e.cfg.Kinds, e.rng)
		e.emit(PhaseRefill, filled)
		e.phase = PhaseMatch
	}
	return ran
}

// Settle runs Step until the board is stable.
func (e *Engine) Settle() {
	for e.IsSettling() {
		e.Step()
	}
}

// OnCascadeStep registers fn to be called after every Clear and Refill.
// Observers see copies and cannot influence the cascade.
func (e *Engine) OnCascadeStep(fn func(StepEvent)) {
	if fn != nil {
		e.hooks = append(e.hooks, fn)
	}
}

func (e *Engine) emit(p Phase, idx []int) {
	if len(e.hooks) == 0 {
		return
	}
	ev := StepEvent{
		Phase:   p,
		Cells:   e.grid.Cells(),
		Indices: idx,
		Score:   e.score.Total(),
		Chain:   e.chain,
	}
	for _, fn := range e.hooks {
		fn(ev)
	}
}

// Score returns the current cumulative score.
func (e *Engine) Score() int { return e.score.Total() }

// Chain returns the number of clear events in the current or last cascade.
func (e *Engine) Chain() int { return e.chain }

// Grid returns a copy of the board.
func (e *Engine) Grid() *Grid { return e.grid.Clone() }

// Config returns the board configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Width() int { return e.cfg.Width }
func (e *Engine) Kinds() int { return e.cfg.Kinds }

// Hint returns a swap that would produce a run, if one exists.
func (e *Engine) Hint() (Pos, Pos, bool) { return FindMove(e.grid) }
