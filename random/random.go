// Package random provides the randomness capability used by itfaker.
//
// Two implementations ship with the package: PRNG, backed by math/rand/v2
// (seeded or unseeded), and Sequence, a replayable script for deterministic
// tests.
package random

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Randomizer is the only source of randomness the generator consumes.
// Implementations must be safe to call repeatedly; the generator never
// reseeds or configures them.
type Randomizer interface {
	// Number returns an integer in [min, max], both ends inclusive.
	Number(min, max int) int
	// ArrayElement returns a uniformly chosen element of items.
	ArrayElement(items []string) string
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// PRNG is a goroutine-safe Randomizer over a PCG generator.
type PRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

var _ Randomizer = (*PRNG)(nil)

// New returns an unseeded PRNG.
func New() *PRNG {
	return &PRNG{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a PRNG whose output is fully determined by seed.
func NewSeeded(seed uint64) *PRNG {
	return &PRNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *PRNG) Number(min, max int) int {
	if max < min {
		panic(fmt.Sprintf("random: invalid range [%d, %d]", min, max))
	}
	p.mu.Lock()
	n := p.r.IntN(max - min + 1)
	p.mu.Unlock()
	return min + n
}

func (p *PRNG) ArrayElement(items []string) string {
	if len(items) == 0 {
		panic("random: ArrayElement on empty slice")
	}
	p.mu.Lock()
	i := p.r.IntN(len(items))
	p.mu.Unlock()
	return items[i]
}

func (p *PRNG) Float64() float64 {
	p.mu.Lock()
	f := p.r.Float64()
	p.mu.Unlock()
	return f
}
