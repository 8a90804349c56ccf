package testhelpers

// FixedSource replays natural d20 results in order and starts over when exhausted.
type FixedSource struct {
	rolls []int
	next  int
}

// NewFixedSource returns a source whose successive d20 rolls are rolls.
func NewFixedSource(rolls ...int) *FixedSource {
	return &FixedSource{rolls: rolls}
}

// IntN returns the next roll shifted to [0, n).
func (s *FixedSource) IntN(n int) int {
	if len(s.rolls) == 0 {
		return 0
	}
	roll := s.rolls[s.next%len(s.rolls)]
	s.next++
	return (roll - 1) % n
}

// Draws returns how many rolls have been consumed.
func (s *FixedSource) Draws() int {
	return s.next
}
