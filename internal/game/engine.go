// internal/game/engine.go
//
// A single timed match-3 session.
// Responsibilities:
//   - Create games in classic or daily mode around a match3.Engine.
//   - Apply swaps, settle cascades immediately and record every frame.
//   - Enforce the session deadline (the engine itself has no clock).
//   - Allow exactly one score submission per game.
//
// Notes:
//   - Daily boards are seeded from the date, so every player gets the same
//     starting grid for the day.
//   - All methods are safe for concurrent use.
package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/candymatch/internal/daily"
	"github.com/robalobadob/candymatch/internal/match3"
)

const (
	DefaultDuration = 60 * time.Second
	GlobalBoard     = "global"
)

// Options configure a new game. Zero values fall back to defaults.
type Options struct {
	Mode     Mode
	Board    match3.Config
	Duration time.Duration
	Salt     string    // daily seed salt
	Seed     int64     // classic seed; 0 picks one from the clock
	Now      time.Time // start time; zero means time.Now()
}

// Game holds one session. Exported fields are fixed at creation.
type Game struct {
	ID        string
	Mode      Mode
	Board     string // leaderboard board the score goes to
	StartedAt time.Time
	Deadline  time.Time

	mu        sync.Mutex
	engine    *match3.Engine
	frames    []Frame
	finished  bool
	submitted bool
}

// New constructs a game and its first board.
func New(opts Options) (*Game, error) {
	if opts.Mode == "" {
		opts.Mode = ModeClassic
	}
	if opts.Board == (match3.Config{}) {
		opts.Board = match3.DefaultConfig()
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	g := &Game{
		ID:        uuid.NewString(),
		Mode:      opts.Mode,
		StartedAt: now,
		Deadline:  now.Add(opts.Duration),
	}

	seed, board, err := SeedFor(opts.Mode, now, opts.Salt, opts.Seed)
	if err != nil {
		return nil, err
	}
	g.Board = board

	e, err := match3.NewEngine(opts.Board, match3.WithSeed(seed))
	if err != nil {
		return nil, err
	}
	e.OnCascadeStep(g.record)
	g.engine = e
	return g, nil
}

// SeedFor picks the board seed and leaderboard board for a game started at
// now. Daily games share a seed per UTC day; classic games use seed, or the
// clock when seed is 0.
func SeedFor(mode Mode, now time.Time, salt string, seed int64) (int64, string, error) {
	switch mode {
	case ModeDaily:
		return daily.Seed(now, salt), daily.Board(now), nil
	case ModeClassic:
		if seed == 0 {
			seed = now.UnixNano()
		}
		return seed, GlobalBoard, nil
	}
	return 0, "", ErrUnknownMode
}

func (g *Game) record(ev match3.StepEvent) {
	g.frames = append(g.frames, Frame{
		Phase: ev.Phase,
		Cells: ev.Cells,
		Score: ev.Score,
		Chain: ev.Chain,
	})
}

// Swap applies a player swap at time now. A rejected swap is not an error;
// ErrFinished is returned once the game is over or its deadline has passed.
func (g *Game) Swap(now time.Time, a, b match3.Pos) (SwapResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.expired(now) {
		g.finished = true
		return SwapResult{}, ErrFinished
	}

	res := SwapResult{Accepted: g.engine.AttemptSwap(a, b), Frames: []Frame{}}
	if res.Accepted {
		g.frames = nil
		g.engine.Settle()
		res.Frames = g.frames
		g.frames = nil
	}
	res.Cells = g.engine.Grid().Cells()
	res.Score = g.engine.Score()
	_, _, canMove := g.engine.Hint()
	res.Stuck = !canMove
	return res, nil
}

// Finish closes the game and hands its final score to post, which runs
// under the game lock. The game counts as submitted only when post returns
// nil; on error it stays open for another attempt. Once submitted, later
// calls return ErrAlreadySubmitted without calling post.
func (g *Game) Finish(now time.Time, post func(score int) error) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitted {
		return 0, ErrAlreadySubmitted
	}
	g.finished = true
	score := g.engine.Score()
	if post != nil {
		if err := post(score); err != nil {
			return 0, err
		}
	}
	g.submitted = true
	return score, nil
}

// Snapshot returns the public view of the game at time now.
func (g *Game) Snapshot(now time.Time) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining := g.Deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	cfg := g.engine.Config()
	return Snapshot{
		ID:          g.ID,
		Mode:        g.Mode,
		Board:       g.Board,
		Width:       cfg.Width,
		Kinds:       cfg.Kinds,
		Cells:       g.engine.Grid().Cells(),
		Score:       g.engine.Score(),
		EndsAt:      g.Deadline,
		RemainingMs: remaining.Milliseconds(),
		Finished:    g.finished || g.expired(now),
	}
}

// Score returns the current score.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Score()
}

func (g *Game) expired(now time.Time) bool {
	return g.finished || !now.Before(g.Deadline)
}
