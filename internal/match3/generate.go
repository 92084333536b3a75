// internal/match3/generate.go
//
// Board generation.
// Responsibilities:
//   - Validate width and kind count (ErrInvalidWidth, ErrTooFewKinds, ErrTooManyKinds).
//   - Fill a grid row-major, resampling any symbol that would complete a run.
//
// Notes:
//   - Randomness comes in through Rand so tests can script every draw.

package match3

// Rand is the randomness the engine needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Validate checks board dimensions and kind count.
func Validate(width, kinds int) error {
	if width < MinWidth || width > MaxWidth {
		return ErrInvalidWidth
	}
	if kinds < MinKinds {
		return ErrTooFewKinds
	}
	if kinds > MaxKinds {
		return ErrTooManyKinds
	}
	return nil
}

// Generate builds a width×width grid in which no run of MinRun or more exists.
//
// Cells are filled row-major. Each cell draws uniformly from 1..kinds and
// redraws while the candidate would complete a run with the cells already
// placed on its row or column. With kinds >= 3 at most two candidates can be
// blocked, so the loop always terminates.
func Generate(width, kinds int, rng Rand) (*Grid, error) {
	if err := Validate(width, kinds); err != nil {
		return nil, err
	}
	return generate(width, kinds, rng), nil
}

func generate(width, kinds int, rng Rand) *Grid {
	g := newGrid(width)
	for i := range g.cells {
		for {
			s := randomSymbol(rng, kinds)
			if !completesRun(g, g.PosOf(i), s) {
				g.cells[i] = s
				break
			}
		}
	}
	return g
}

// completesRun reports whether placing s at p would form a run of MinRun or
// more. Unplaced cells are Empty, so they never extend a run.
func completesRun(g *Grid, p Pos, s Symbol) bool {
	if 1+g.run(p, 0, -1, s)+g.run(p, 0, 1, s) >= MinRun {
		return true
	}
	return 1+g.run(p, -1, 0, s)+g.run(p, 1, 0, s) >= MinRun
}

func randomSymbol(rng Rand, kinds int) Symbol {
	return Symbol(rng.Intn(kinds) + 1)
}
