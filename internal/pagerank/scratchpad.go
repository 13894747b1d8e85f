package pagerank

import (
	"math/rand"
	"time"
)

// Scratchpad is the per-worker state carried across one solve: an id, an
// iteration counter, start/stop timestamps used to compute corrected
// timing, and a private RNG. Run creates a fresh set for each repeat, and
// each loop driver clears them before it starts.
type Scratchpad struct {
	ID         int
	Iterations int
	Start      time.Time
	Stop       time.Time
	Rng        *rand.Rand
}

// NewScratchpad creates a scratchpad for worker id seeded deterministically
// from seed+id so repeated solves with the same seed are reproducible.
func NewScratchpad(id int, seed int64) *Scratchpad {
	return &Scratchpad{
		ID:  id,
		Rng: rand.New(rand.NewSource(seed + int64(id))),
	}
}

// Clear resets per-run counters without discarding the RNG stream.
func (s *Scratchpad) Clear() {
	s.Iterations = 0
	s.Start = time.Time{}
	s.Stop = time.Time{}
}

// Duration returns Stop-Start, or zero if Stop was never recorded.
func (s *Scratchpad) Duration() time.Duration {
	if s.Stop.IsZero() || s.Start.IsZero() {
		return 0
	}
	return s.Stop.Sub(s.Start)
}

// NewScratchpads creates n scratchpads, one per worker.
func NewScratchpads(n int, seed int64) []*Scratchpad {
	pads := make([]*Scratchpad, n)
	for i := range pads {
		pads[i] = NewScratchpad(i, seed)
	}
	return pads
}
