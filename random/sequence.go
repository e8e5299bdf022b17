package random

import "sync"

// Sequence replays scripted values, cycling each script independently.
// An empty script yields the lowest legal value (min, 0.0, first element).
//
// Numbers are returned verbatim, so a script may deliberately produce values
// outside [min, max] to exercise a caller's handling of a faulty source.
type Sequence struct {
	Numbers []int
	Floats  []float64
	Picks   []int // indices into the slice passed to ArrayElement (mod len)

	mu                     sync.Mutex
	nNumber, nFloat, nPick int
}

var _ Randomizer = (*Sequence)(nil)

// NewSequence scripts Number results; Floats and Picks may be set on the
// returned value.
func NewSequence(numbers ...int) *Sequence {
	return &Sequence{Numbers: numbers}
}

func (s *Sequence) Number(min, _ int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Numbers) == 0 {
		s.nNumber++
		return min
	}
	v := s.Numbers[s.nNumber%len(s.Numbers)]
	s.nNumber++
	return v
}

func (s *Sequence) ArrayElement(items []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		panic("random: ArrayElement on empty slice")
	}
	i := 0
	if len(s.Picks) > 0 {
		i = s.Picks[s.nPick%len(s.Picks)]
	}
	s.nPick++
	return items[((i%len(items))+len(items))%len(items)]
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Floats) == 0 {
		s.nFloat++
		return 0
	}
	v := s.Floats[s.nFloat%len(s.Floats)]
	s.nFloat++
	return v
}

// Calls reports how many draws of each kind were consumed.
func (s *Sequence) Calls() (numbers, floats, picks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nNumber, s.nFloat, s.nPick
}
