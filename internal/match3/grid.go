// internal/match3/grid.go
//
// Board state for the match-3 engine.
// Defines:
//   - Symbol: the content of a single cell (Empty or a candy kind 1..K).
//   - Pos: a (row, col) address on the board.
//   - Grid: a square, row-major array of symbols.
//   - MatchSet: unique grid indices that belong to at least one run.

package match3

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Symbol is the content of one cell. Empty never matches.
type Symbol int

// Empty marks a cell with no candy. It only appears between Clear and Refill.
const Empty Symbol = 0

// Board limits.
const (
	MinWidth = 3
	MaxWidth = 32
	MinKinds = 3
	MaxKinds = 16
	MinRun   = 3
)

var (
	ErrInvalidWidth = errors.New("match3: invalid board width")
	ErrTooFewKinds  = errors.New("match3: at least 3 kinds are required")
	ErrTooManyKinds = errors.New("match3: too many kinds")
	ErrBadCells     = errors.New("match3: cell count does not match width")
)

// Pos addresses a cell by row and column, both 0-indexed.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Adjacent reports whether q is one orthogonal step away from p.
func (p Pos) Adjacent(q Pos) bool {
	return abs(p.Row-q.Row)+abs(p.Col-q.Col) == 1
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Grid is a width×width board stored row-major: index = row*width + col.
type Grid struct {
	width int
	cells []Symbol
}

func newGrid(width int) *Grid {
	return &Grid{width: width, cells: make([]Symbol, width*width)}
}

// FromCells builds a grid from row-major cells.
func FromCells(width int, cells []Symbol) (*Grid, error) {
	if width < 1 || width > MaxWidth {
		return nil, ErrInvalidWidth
	}
	if len(cells) != width*width {
		return nil, ErrBadCells
	}
	g := newGrid(width)
	copy(g.cells, cells)
	return g, nil
}

// Width returns the number of rows (and columns).
func (g *Grid) Width() int { return g.width }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.width && p.Col >= 0 && p.Col < g.width
}

// Index converts a position to its row-major index.
func (g *Grid) Index(p Pos) int { return p.Row*g.width + p.Col }

// PosOf converts a row-major index back to a position.
func (g *Grid) PosOf(i int) Pos { return Pos{Row: i / g.width, Col: i % g.width} }

// At returns the symbol at p. p must be in bounds.
func (g *Grid) At(p Pos) Symbol { return g.cells[g.Index(p)] }

// Set writes s at p. p must be in bounds.
func (g *Grid) Set(p Pos, s Symbol) { g.cells[g.Index(p)] = s }

// Cells returns a copy of the row-major cell contents.
func (g *Grid) Cells() []Symbol {
	out := make([]Symbol, len(g.cells))
	copy(out, g.cells)
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{width: g.width, cells: g.Cells()}
}

// Equal reports whether both grids have the same width and contents.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.width != o.width {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// EmptyCount returns how many cells are Empty.
func (g *Grid) EmptyCount() int {
	n := 0
	for _, s := range g.cells {
		if s == Empty {
			n++
		}
	}
	return n
}

// String renders one line per row; Empty prints as '.'.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.width; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.width; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			s := g.cells[r*g.width+c]
			if s == Empty {
				sb.WriteByte('.')
				continue
			}
			fmt.Fprintf(&sb, "%d", int(s))
		}
	}
	return sb.String()
}

// run counts contiguous cells equal to s, walking from p (exclusive) by (dr, dc).
func (g *Grid) run(p Pos, dr, dc int, s Symbol) int {
	n := 0
	for q := (Pos{p.Row + dr, p.Col + dc}); g.InBounds(q) && g.At(q) == s; q = (Pos{q.Row + dr, q.Col + dc}) {
		n++
	}
	return n
}

// MatchSet holds unique grid indices that are part of a run.
type MatchSet map[int]struct{}

// Add inserts index i.
func (m MatchSet) Add(i int) { m[i] = struct{}{} }

// Has reports whether i is in the set.
func (m MatchSet) Has(i int) bool {
	_, ok := m[i]
	return ok
}

// Len returns the number of unique indices.
func (m MatchSet) Len() int { return len(m) }

// Indices returns the members in ascending order.
func (m MatchSet) Indices() []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
