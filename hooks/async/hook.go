// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/itfaker"
//	"github.com/unkn0wn-root/itfaker/hooks/async"
//	"github.com/unkn0wn-root/itfaker/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    StaleEvery: 10, // sample logs: ~every 10th stale reload
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	gen, _ := itfaker.New(itfaker.Options{
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/itfaker"
)

// Hooks forwards events to inner on a worker pool. Events are dropped when
// the queue is full or after Close.
type Hooks struct {
	inner   itfaker.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ itfaker.Hooks = (*Hooks)(nil)

func New(inner itfaker.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) CatalogLoaded(gen uint64, counts map[string]int, took time.Duration) {
	cp := make(map[string]int, len(counts))
	for k, v := range counts {
		cp[k] = v
	}
	h.try(func() { h.inner.CatalogLoaded(gen, cp, took) })
}
func (h *Hooks) CatalogLoadFailed(category string, err error) {
	h.try(func() { h.inner.CatalogLoadFailed(category, err) })
}
func (h *Hooks) CacheCleared(reason string) { h.try(func() { h.inner.CacheCleared(reason) }) }
func (h *Hooks) CatalogStale(loaded, current uint64) {
	h.try(func() { h.inner.CatalogStale(loaded, current) })
}
func (h *Hooks) GenStoreError(op string, err error) {
	h.try(func() { h.inner.GenStoreError(op, err) })
}
