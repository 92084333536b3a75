// internal/game/types.go
//
// Core type definitions for a timed match-3 session.
// Defines:
//   - Mode: classic (random board) or daily (board seeded from the date).
//   - Frame: one recorded cascade step, replayed by clients for animation.
//   - SwapResult / Snapshot: what the HTTP layer returns to players.

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/candymatch/internal/match3"
)

// Mode selects how the board is seeded and which leaderboard it posts to.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

var (
	ErrFinished         = errors.New("game finished")
	ErrAlreadySubmitted = errors.New("score already submitted")
	ErrUnknownMode      = errors.New("unknown mode")
)

// ParseMode accepts "classic" or "daily" in any case. Empty means classic.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeClassic:
		return ModeClassic, nil
	case ModeDaily:
		return ModeDaily, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Frame is a copy of the board taken after a Clear or Refill phase.
type Frame struct {
	Phase match3.Phase    `json:"phase"`
	Cells []match3.Symbol `json:"cells"`
	Score int             `json:"score"`
	Chain int             `json:"chain"`
}

// SwapResult describes the outcome of one player swap.
type SwapResult struct {
	Accepted bool            `json:"accepted"`
	Frames   []Frame         `json:"frames"`
	Cells    []match3.Symbol `json:"cells"`
	Score    int             `json:"score"`
	Stuck    bool            `json:"stuck"` // no swap on the settled board yields a run
}

// Snapshot is the public view of a game.
type Snapshot struct {
	ID          string          `json:"gameId"`
	Mode        Mode            `json:"mode"`
	Board       string          `json:"board"`
	Width       int             `json:"width"`
	Kinds       int             `json:"kinds"`
	Cells       []match3.Symbol `json:"cells"`
	Score       int             `json:"score"`
	EndsAt      time.Time       `json:"endsAt"`
	RemainingMs int64           `json:"remainingMs"`
	Finished    bool            `json:"finished"`
}
