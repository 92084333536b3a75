// internal/match3/swap.go
//
// Swap validation and move search.
// Responsibilities:
//   - TrySwap: keep an adjacent swap only if it produces a run.
//   - FindMove: first scoring swap on a board (hints, stuck detection).

package match3

// TrySwap exchanges the symbols at a and b when that produces at least one run.
//
// Out-of-bounds or non-adjacent positions are rejected without touching the
// grid. When the exchange yields no run it is undone before returning, so a
// rejected call leaves the grid exactly as it was. On success the swap stays
// applied and the resulting match set is returned.
func TrySwap(g *Grid, a, b Pos) (bool, MatchSet) {
	if !g.InBounds(a) || !g.InBounds(b) || !a.Adjacent(b) {
		return false, nil
	}
	ia, ib := g.Index(a), g.Index(b)
	g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
	m := FindMatches(g)
	if m.Len() == 0 {
		g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
		return false, nil
	}
	return true, m
}

// FindMove returns the first swap, scanning row-major and trying the right
// then the lower neighbour, that would produce a run. The grid is unchanged.
func FindMove(g *Grid) (Pos, Pos, bool) {
	for i := range g.cells {
		a := g.PosOf(i)
		for _, b := range [...]Pos{{a.Row, a.Col + 1}, {a.Row + 1, a.Col}} {
			if !g.InBounds(b) {
				continue
			}
			ib := g.Index(b)
			if g.cells[i] == g.cells[ib] {
				continue
			}
			g.cells[i], g.cells[ib] = g.cells[ib], g.cells[i]
			found := HasMatch(g)
			g.cells[i], g.cells[ib] = g.cells[ib], g.cells[i]
			if found {
				return a, b, true
			}
		}
	}
	return Pos{}, Pos{}, false
}
