package sloghooks

import (
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/itfaker"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	StaleEvery   uint64
	ClearedEvery uint64
}

// Hooks logs catalog lifecycle events to a slog.Logger.
type Hooks struct {
	l    *slog.Logger
	opts Options

	staleCtr   atomic.Uint64
	clearedCtr atomic.Uint64
}

var _ itfaker.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CatalogLoaded(gen uint64, counts map[string]int, took time.Duration) {
	if h.l == nil {
		return
	}
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	args := []any{"gen", gen, "took", took}
	for _, c := range cats {
		args = append(args, c, counts[c])
	}
	h.l.Info("itfaker.catalog_loaded", args...)
}

func (h *Hooks) CatalogLoadFailed(category string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("itfaker.catalog_load_failed",
		"category", category,
		"err", err)
}

func (h *Hooks) CacheCleared(reason string) {
	if h.l == nil || !sample(h.opts.ClearedEvery, &h.clearedCtr) {
		return
	}
	h.l.Debug("itfaker.cache_cleared", "reason", reason)
}

func (h *Hooks) CatalogStale(loaded, current uint64) {
	if h.l == nil || !sample(h.opts.StaleEvery, &h.staleCtr) {
		return
	}
	h.l.Info("itfaker.catalog_stale",
		"loaded_gen", loaded,
		"current_gen", current)
}

func (h *Hooks) GenStoreError(op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("itfaker.genstore_error",
		"op", op,
		"err", err)
}
