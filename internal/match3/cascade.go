// internal/match3/cascade.go
//
// Cascade phases and the pure steps behind them: Clear, Gravity, Refill.
// Refill is not match-safe; new runs it creates feed the next Match phase.

package match3

// Phase identifies a stage of cascade resolution.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMatch
	PhaseClear
	PhaseGravity
	PhaseRefill
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMatch:
		return "match"
	case PhaseClear:
		return "clear"
	case PhaseGravity:
		return "gravity"
	case PhaseRefill:
		return "refill"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Clear empties every cell in m and returns how many cells were cleared.
func Clear(g *Grid, m MatchSet) int {
	n := 0
	for i := range m {
		if i < 0 || i >= len(g.cells) {
			continue
		}
		g.cells[i] = Empty
		n++
	}
	return n
}

// Gravity compacts each column downward, keeping the relative order of the
// remaining symbols and leaving the Empty cells at the top.
func Gravity(g *Grid) {
	w := g.width
	for c := 0; c < w; c++ {
		write := w - 1
		for r := w - 1; r >= 0; r-- {
			s := g.cells[r*w+c]
			if s == Empty {
				continue
			}
			g.cells[write*w+c] = s
			write--
		}
		for r := write; r >= 0; r-- {
			g.cells[r*w+c] = Empty
		}
	}
}

// Refill draws a fresh symbol for every Empty cell and returns the filled
// indices in row-major order. Refill does not avoid runs; new matches feed
// the next Match phase.
func Refill(g *Grid, kinds int, rng Rand) []int {
	var filled []int
	for i, s := range g.cells {
		if s != Empty {
			continue
		}
		g.cells[i] = randomSymbol(rng, kinds)
		filled = append(filled, i)
	}
	return filled
}
