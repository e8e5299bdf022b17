// Package weighted draws values from an ordered catalog with probability
// proportional to each value's weight.
//
// A Selector is built once from a catalog and never mutated. Refreshing a
// catalog means building a new Selector.
package weighted

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// ErrInvalidArgument is returned for empty catalogs, negative or non-finite
// weights and catalogs whose total weight is not positive.
var ErrInvalidArgument = errors.New("weighted: invalid argument")

// Item pairs a value with its relative selection weight.
type Item[T any] struct {
	Value  T       `json:"value" msgpack:"value" cbor:"value"`
	Weight float64 `json:"weight" msgpack:"weight" cbor:"weight"`
}

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// Selector draws from an immutable weighted catalog.
// Safe for concurrent use when its Source is.
type Selector[T any] struct {
	items []Item[T]
	total float64
	src   Source
}

// New copies items into a Selector. A nil src uses a package-level,
// goroutine-safe PRNG.
func New[T any](items []Item[T], src Source) (*Selector[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidArgument)
	}
	var total float64
	for i, it := range items {
		if it.Weight < 0 || math.IsNaN(it.Weight) || math.IsInf(it.Weight, 0) {
			return nil, fmt.Errorf("%w: item %d has weight %v", ErrInvalidArgument, i, it.Weight)
		}
		total += it.Weight
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total weight %v", ErrInvalidArgument, total)
	}
	if src == nil {
		src = defaultSource
	}

	cp := make([]Item[T], len(items))
	copy(cp, items)
	return &Selector[T]{items: cp, total: total, src: src}, nil
}

// Select returns the first item whose cumulative weight exceeds a uniform
// draw in [0, total). Consumes exactly one draw from the Source.
func (s *Selector[T]) Select() T {
	r := s.src.Float64() * s.total
	var cum float64
	for _, it := range s.items {
		cum += it.Weight
		if r < cum {
			return it.Value
		}
	}
	// cumulative sum may land marginally below total after rounding
	return s.items[len(s.items)-1].Value
}

func (s *Selector[T]) Len() int             { return len(s.items) }
func (s *Selector[T]) TotalWeight() float64 { return s.total }

// Items returns a copy of the catalog in selection order.
func (s *Selector[T]) Items() []Item[T] {
	out := make([]Item[T], len(s.items))
	copy(out, s.items)
	return out
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	f := l.r.Float64()
	l.mu.Unlock()
	return f
}

var defaultSource Source = &lockedSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
