package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainEngine returns an engine on a 5×5 board where swapping (2,1) and
// (2,2) clears a vertical 3-run whose collapse lines up a 4-run on the
// bottom row. The scripted refill then settles the board.
func chainEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Width: 5, Kinds: 6}, WithSeed(1))
	require.NoError(t, err)
	e.grid = gridOf(t,
		[]Symbol{3, 4, 5, 6, 4},
		[]Symbol{5, 6, 1, 3, 5},
		[]Symbol{6, 2, 4, 5, 6},
		[]Symbol{4, 3, 2, 6, 3},
		[]Symbol{1, 1, 2, 1, 3},
	)
	e.rng = &scriptRand{seq: []int{1, 2, 1, 0, 1, 0, 1}}
	require.Zero(t, FindMatches(e.grid).Len())
	return e
}

func TestNewEngineRejectsTooFewKinds(t *testing.T) {
	e, err := NewEngine(Config{Width: 8, Kinds: 2})
	assert.ErrorIs(t, err, ErrTooFewKinds)
	assert.Nil(t, e)
}

func TestNewGameStartsClean(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), WithSeed(7))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		g := e.NewGame()
		assert.Equal(t, 64, g.Len())
		assert.Zero(t, FindMatches(g).Len())
		assert.Zero(t, e.Score())
		assert.False(t, e.IsSettling())
	}
}

func TestScoreAccounting(t *testing.T) {
	e := chainEngine(t)

	var events []StepEvent
	e.OnCascadeStep(func(ev StepEvent) { events = append(events, ev) })

	require.True(t, e.AttemptSwap(Pos{2, 1}, Pos{2, 2}))
	e.Settle()

	require.Len(t, events, 4)
	assert.Equal(t, PhaseClear, events[0].Phase)
	assert.Equal(t, []int{12, 17, 22}, events[0].Indices)
	assert.Equal(t, 3, events[0].Score)
	assert.Equal(t, 1, events[0].Chain)

	assert.Equal(t, PhaseRefill, events[1].Phase)
	assert.Equal(t, []int{2, 7, 12}, events[1].Indices)

	assert.Equal(t, PhaseClear, events[2].Phase)
	assert.Equal(t, []int{20, 21, 22, 23}, events[2].Indices)
	assert.Equal(t, 7, events[2].Score)
	assert.Equal(t, 2, events[2].Chain)

	assert.Equal(t, PhaseRefill, events[3].Phase)
	assert.Equal(t, []int{0, 1, 2, 3}, events[3].Indices)

	assert.Equal(t, 7, e.Score())
	assert.Equal(t, 2, e.Chain())
	assert.Equal(t,
		"1 2 1 2 4\n3 4 2 6 5\n5 6 3 3 6\n6 4 2 5 3\n4 3 5 6 3",
		e.Grid().String())
}

func TestPhaseOrder(t *testing.T) {
	e := chainEngine(t)
	require.True(t, e.AttemptSwap(Pos{2, 1}, Pos{2, 2}))

	var ran []Phase
	for e.IsSettling() {
		ran = append(ran, e.Step())
	}
	assert.Equal(t, []Phase{
		PhaseMatch, PhaseClear, PhaseGravity, PhaseRefill,
		PhaseMatch, PhaseClear, PhaseGravity, PhaseRefill,
		PhaseMatch,
	}, ran)
	assert.Equal(t, PhaseIdle, e.Step())
}

func TestSettlingGate(t *testing.T) {
	e := chainEngine(t)
	require.True(t, e.AttemptSwap(Pos{2, 1}, Pos{2, 2}))
	require.True(t, e.IsSettling())

	e.Step() // match
	e.Step() // clear
	before := e.Grid()
	assert.False(t, e.AttemptSwap(Pos{0, 0}, Pos{0, 1}))
	assert.True(t, before.Equal(e.Grid()))
	assert.Equal(t, PhaseGravity, e.Phase())

	e.Settle()
	assert.False(t, e.IsSettling())
}

func TestIdempotentStability(t *testing.T) {
	e := chainEngine(t)
	require.True(t, e.AttemptSwap(Pos{2, 1}, Pos{2, 2}))
	e.Settle()

	settled := e.Grid()
	for i := 0; i < 5; i++ {
		assert.Zero(t, FindMatches(e.grid).Len())
		assert.Equal(t, PhaseIdle, e.Step())
	}
	assert.True(t, settled.Equal(e.Grid()))
	assert.Equal(t, 7, e.Score())
}

func TestRejectedSwapLeavesEngineIdle(t *testing.T) {
	e := chainEngine(t)
	before := e.Grid()
	assert.False(t, e.AttemptSwap(Pos{0, 0}, Pos{0, 1}))
	assert.False(t, e.AttemptSwap(Pos{0, 0}, Pos{4, 4}))
	assert.False(t, e.IsSettling())
	assert.True(t, before.Equal(e.Grid()))
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), WithSeed(42))
	require.NoError(t, err)

	last := 0
	for move := 0; move < 300; move++ {
		a, b, ok := e.Hint()
		if !ok {
			e.NewGame()
			last = 0
			continue
		}
		require.True(t, e.AttemptSwap(a, b), "hint %v-%v rejected", a, b)
		e.Settle()

		g := e.Grid()
		require.Zero(t, g.EmptyCount())
		require.Zero(t, FindMatches(g).Len())
		for _, s := range g.Cells() {
			require.True(t, s >= 1 && int(s) <= e.Kinds())
		}
		require.Greater(t, e.Score(), last)
		last = e.Score()
	}
}
