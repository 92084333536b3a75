// internal/leaderboard/leaderboard.go
//
// Score leaderboard shared by the HTTP API, the terminal client and the CLI.
// Responsibilities:
//   - Sanitise submissions (clamp score, default and truncate names).
//   - Rank entries: higher score first, earlier submission breaks ties.
//   - Keep only the best Retain entries per board.
//
// Backends: SQLite (sqlite.go) and Redis sorted sets (redis.go). Open picks
// one from config.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/candymatch/internal/config"
)

const (
	DefaultName = "guest"
	maxAddr     = 42
)

// Entry is one stored score. TS is the submission time in Unix milliseconds.
type Entry struct {
	Addr  string `json:"addr"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	TS    int64  `json:"ts"`
}

// Ranked is an entry as returned by Top.
type Ranked struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Addr  string `json:"addr"`
}

// Limits bound what a board accepts and returns.
type Limits struct {
	MaxScore   int
	MaxName    int
	Retain     int
	DefaultTop int
	MaxTop     int
}

// DefaultLimits matches the public leaderboard.
func DefaultLimits() Limits {
	return Limits{MaxScore: 999999, MaxName: 16, Retain: 100, DefaultTop: 10, MaxTop: 50}
}

// LimitsFrom reads limits from config, falling back to defaults for zeros.
func LimitsFrom(c config.Leaderboard) Limits {
	l := DefaultLimits()
	if c.MaxScore > 0 {
		l.MaxScore = c.MaxScore
	}
	if c.MaxName > 0 {
		l.MaxName = c.MaxName
	}
	if c.Retain > 0 {
		l.Retain = c.Retain
	}
	if c.DefaultTop > 0 {
		l.DefaultTop = c.DefaultTop
	}
	if c.MaxTop > 0 {
		l.MaxTop = c.MaxTop
	}
	return l
}

// Board stores ranked scores for any number of named boards.
type Board interface {
	Submit(ctx context.Context, board string, e Entry) error
	Top(ctx context.Context, board string, n int) ([]Ranked, error)
	Clear(ctx context.Context, board string) error
	Close() error
}

// Sanitize clamps a submission to the limits. A zero TS is set to now.
func Sanitize(e Entry, l Limits) Entry {
	if e.Score < 0 {
		e.Score = 0
	}
	if e.Score > l.MaxScore {
		e.Score = l.MaxScore
	}
	e.Name = truncate(strings.TrimSpace(e.Name), l.MaxName)
	if e.Name == "" {
		e.Name = DefaultName
	}
	e.Addr = truncate(strings.TrimSpace(e.Addr), maxAddr)
	if e.TS == 0 {
		e.TS = time.Now().UnixMilli()
	}
	return e
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// ClampTop normalises a requested result count: n <= 0 means the default,
// anything else is clamped to [1, MaxTop].
func ClampTop(n int, l Limits) int {
	if n <= 0 {
		n = l.DefaultTop
	}
	if n > l.MaxTop {
		n = l.MaxTop
	}
	if n < 1 {
		n = 1
	}
	return n
}

// rank sorts entries best first and assigns 1-based ranks.
func rank(entries []Entry) []Ranked {
	sort.SliceStable(entries, func(i, j int) bool { return better(entries[i], entries[j]) })
	out := make([]Ranked, len(entries))
	for i, e := range entries {
		out[i] = Ranked{Rank: i + 1, Name: e.Name, Score: e.Score, Addr: e.Addr}
	}
	return out
}

func better(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.TS < b.TS
}

func sortIndex(idx []int, entries []Entry) {
	sort.SliceStable(idx, func(i, j int) bool { return better(entries[idx[i]], entries[idx[j]]) })
}

// Open returns the backend selected by c.
func Open(ctx context.Context, c config.Leaderboard) (Board, error) {
	limits := LimitsFrom(c)
	switch c.Backend {
	case config.BackendSQLite:
		return OpenSQLite(c.SQLitePath, limits)
	case config.BackendRedis:
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedis(client, c.RedisPrefix, limits), nil
	}
	return nil, fmt.Errorf("unknown leaderboard backend %q", c.Backend)
}
