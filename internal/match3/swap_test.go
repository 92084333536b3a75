package match3

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapFixture(t *testing.T) *Grid {
	return gridOf(t,
		[]Symbol{1, 2, 1, 3},
		[]Symbol{2, 1, 3, 2},
		[]Symbol{3, 3, 2, 1},
		[]Symbol{2, 1, 3, 2},
	)
}

func TestTrySwapRejects(t *testing.T) {
	tests := []struct {
		name string
		a, b Pos
	}{
		{"out of bounds", Pos{0, 3}, Pos{0, 4}},
		{"negative", Pos{-1, 0}, Pos{0, 0}},
		{"not adjacent", Pos{0, 0}, Pos{0, 2}},
		{"diagonal", Pos{0, 0}, Pos{1, 1}},
		{"same cell", Pos{1, 1}, Pos{1, 1}},
		{"no run", Pos{3, 0}, Pos{3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := swapFixture(t)
			before := g.Clone()
			ok, m := TrySwap(g, tt.a, tt.b)
			assert.False(t, ok)
			assert.Nil(t, m)
			assert.True(t, g.Equal(before), "grid changed:\n%s", g)
		})
	}
}

func TestTrySwapAccepts(t *testing.T) {
	g := swapFixture(t)
	// The 2 moves into column 3 between the 2s at (1,3) and (3,3).
	ok, m := TrySwap(g, Pos{2, 2}, Pos{2, 3})
	require.True(t, ok)
	assert.Equal(t, []int{7, 11, 15}, m.Indices())
	assert.Equal(t, Symbol(2), g.At(Pos{2, 3}))
	assert.Equal(t, Symbol(1), g.At(Pos{2, 2}))
}

func TestTrySwapReversibility(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		g, err := Generate(8, 6, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		for i := 0; i < g.Len(); i++ {
			a := g.PosOf(i)
			for _, b := range []Pos{{a.Row, a.Col + 1}, {a.Row + 1, a.Col}} {
				if !g.InBounds(b) {
					continue
				}
				before := g.Clone()
				ok, _ := TrySwap(g, a, b)
				if ok {
					// Undo so the next pair starts from the generated board.
					g = before
					continue
				}
				require.True(t, g.Equal(before), "seed %d swap %v-%v left the grid modified", seed, a, b)
			}
		}
	}
}

func TestFindMove(t *testing.T) {
	g := swapFixture(t)
	before := g.Clone()
	a, b, ok := FindMove(g)
	require.True(t, ok)
	assert.True(t, g.Equal(before))

	ok, _ = TrySwap(g, a, b)
	assert.True(t, ok, "hinted swap %v-%v should be accepted", a, b)

	stuck := gridOf(t,
		[]Symbol{1, 2, 3},
		[]Symbol{4, 5, 6},
		[]Symbol{7, 8, 9},
	)
	_, _, ok = FindMove(stuck)
	assert.False(t, ok)
}
