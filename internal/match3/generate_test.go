package match3

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHasNoRuns(t *testing.T) {
	for _, width := range []int{3, 5, 8, 12} {
		for _, kinds := range []int{3, 4, 6} {
			t.Run(fmt.Sprintf("w%d_k%d", width, kinds), func(t *testing.T) {
				for seed := int64(1); seed <= 50; seed++ {
					g, err := Generate(width, kinds, rand.New(rand.NewSource(seed)))
					require.NoError(t, err)
					require.Equal(t, width*width, g.Len())
					require.Zero(t, FindMatches(g).Len(), "seed %d produced a run:\n%s", seed, g)
					for _, s := range g.Cells() {
						require.True(t, s >= 1 && int(s) <= kinds, "symbol %d out of range", s)
					}
				}
			})
		}
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name         string
		width, kinds int
		want         error
	}{
		{"two kinds", 8, 2, ErrTooFewKinds},
		{"zero kinds", 8, 0, ErrTooFewKinds},
		{"too many kinds", 8, MaxKinds + 1, ErrTooManyKinds},
		{"narrow", 2, 6, ErrInvalidWidth},
		{"wide", MaxWidth + 1, 6, ErrInvalidWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Generate(tt.width, tt.kinds, rng)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, g)
		})
	}
}

func TestGenerateResamplesBlockedSymbol(t *testing.T) {
	// Draws: row 0 gets 1,1 then a third 1 is rejected and 2 is taken.
	rng := &scriptRand{seq: []int{0, 0, 0, 1, 2, 0, 1, 1, 2, 0, 0}}
	g, err := Generate(3, 3, rng)
	require.NoError(t, err)
	assert.Equal(t, []Symbol{1, 1, 2}, g.Cells()[:3])
	assert.Zero(t, FindMatches(g).Len(), "\n%s", g)
}

func TestCompletesRunChecksBothSides(t *testing.T) {
	g := gridOf(t,
		[]Symbol{2, Empty, 2, 3},
		[]Symbol{1, 3, 1, 2},
		[]Symbol{3, 2, 3, 1},
		[]Symbol{1, 3, 1, 2},
	)
	// Filling the gap between two 2s closes a horizontal run.
	assert.True(t, completesRun(g, Pos{0, 1}, 2))
	assert.False(t, completesRun(g, Pos{0, 1}, 1))
}
