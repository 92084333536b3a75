// internal/match3/match.go
//
// Run detection: rows left to right, columns top to bottom, runs of MinRun or
// more. Empty cells break runs.

package match3

// FindMatches returns every cell that belongs to a horizontal or vertical run
// of MinRun or more equal, non-Empty symbols. Cells on intersecting runs are
// reported once. The grid is not modified.
func FindMatches(g *Grid) MatchSet {
	m := MatchSet{}
	w := g.width
	for r := 0; r < w; r++ {
		scanLine(g, m, r*w, 1, w)
	}
	for c := 0; c < w; c++ {
		scanLine(g, m, c, w, w)
	}
	return m
}

// scanLine walks n cells from start with the given stride and adds the
// members of every qualifying run to m.
func scanLine(g *Grid, m MatchSet, start, stride, n int) {
	runStart := 0
	for i := 1; i <= n; i++ {
		head := g.cells[start+runStart*stride]
		if i < n && g.cells[start+i*stride] == head {
			continue
		}
		if head != Empty && i-runStart >= MinRun {
			for j := runStart; j < i; j++ {
				m.Add(start + j*stride)
			}
		}
		runStart = i
	}
}

// HasMatch reports whether any run exists.
func HasMatch(g *Grid) bool {
	return FindMatches(g).Len() > 0
}
