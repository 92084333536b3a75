// internal/store/memory.go
//
// In-memory implementation of the game session Store.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Sweep drops sessions whose deadline is long past; the HTTP server runs it
//     from a janitor goroutine.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/candymatch/internal/game"
)

var ErrNotFound = errors.New("game not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a game. Deleting a missing game is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes games whose deadline is before the cutoff and reports
	// how many were removed.
	Sweep(ctx context.Context, before time.Time) int
}

type memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.Deadline.Before(before) {
			delete(m.games, id)
			n++
		}
	}
	return n
}
