package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(g *Grid, c int) []Symbol {
	out := make([]Symbol, g.Width())
	for r := range out {
		out[r] = g.At(Pos{r, c})
	}
	return out
}

func TestGravityCompactsColumn(t *testing.T) {
	cells := stripes(6)
	for r, s := range []Symbol{2, Empty, 3, Empty, Empty, 5} {
		cells[r*6] = s
	}
	g, err := FromCells(6, cells)
	require.NoError(t, err)
	others := column(g, 1)

	Gravity(g)
	assert.Equal(t, []Symbol{Empty, Empty, Empty, 2, 3, 5}, column(g, 0))
	assert.Equal(t, others, column(g, 1), "full columns must not move")

	filled := Refill(g, 6, &scriptRand{seq: []int{0, 1, 2}})
	assert.Equal(t, []int{0, 6, 12}, filled)
	assert.Equal(t, []Symbol{1, 2, 3, 2, 3, 5}, column(g, 0))
	assert.Zero(t, g.EmptyCount())
}

func TestClearCountsUniqueCells(t *testing.T) {
	g := gridOf(t,
		[]Symbol{5, 2, 1, 2},
		[]Symbol{5, 1, 2, 1},
		[]Symbol{5, 5, 5, 2},
		[]Symbol{2, 1, 2, 1},
	)
	m := FindMatches(g)
	assert.Equal(t, 5, Clear(g, m))
	assert.Equal(t, 5, g.EmptyCount())
	for _, i := range m.Indices() {
		assert.Equal(t, Empty, g.At(g.PosOf(i)))
	}
	assert.Zero(t, Clear(g, MatchSet{}))
}

func TestGravityKeepsRelativeOrder(t *testing.T) {
	g := gridOf(t,
		[]Symbol{1, Empty, 3},
		[]Symbol{Empty, 2, Empty},
		[]Symbol{4, Empty, 6},
	)
	Gravity(g)
	assert.Equal(t, ". . .\n1 . 3\n4 2 6", g.String())
}

func TestPhaseString(t *testing.T) {
	b, err := PhaseRefill.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "refill", string(b))
	assert.Equal(t, "unknown", Phase(42).String())
}
