// internal/match3/score.go

package match3

// Score is the running total for one game. Only the Clear phase adds to it.
type Score struct {
	total int
}

// Add increases the total by n cleared cells. Non-positive n is ignored.
func (s *Score) Add(n int) {
	if n > 0 {
		s.total += n
	}
}

// Total returns the current score.
func (s *Score) Total() int { return s.total }

// Reset sets the score back to zero.
func (s *Score) Reset() { s.total = 0 }
