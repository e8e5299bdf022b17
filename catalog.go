package itfaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/unkn0wn-root/itfaker/corpus"
	gen "github.com/unkn0wn-root/itfaker/genstore"
	"github.com/unkn0wn-root/itfaker/internal/util"
	"github.com/unkn0wn-root/itfaker/weighted"
)

// State is the load state of a generator's name catalog.
type State int

const (
	Unloaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// selectors is one published load: a selector per gender. It is never
// mutated after publication, so callers may keep using it after a clear.
type selectors map[Gender]*weighted.Selector[string]

func (s selectors) pick(g Gender) (*weighted.Selector[string], error) {
	if s == nil {
		return nil, ErrNotLoaded
	}
	sel, ok := s[g]
	if !ok {
		return nil, fmt.Errorf("%w: no catalog for %v", ErrInvalidArgument, g)
	}
	return sel, nil
}

// catalog caches one selector per gender. Loads are serialized by loadMu;
// readers only take mu. Both selectors are published together or not at all.
type catalog struct {
	src    corpus.Source
	rng    weighted.Source
	gen    gen.GenStore
	genKey string
	log    Logger
	hooks  Hooks

	loadMu sync.Mutex

	mu        sync.RWMutex
	state     State
	loadedGen uint64
	sels      selectors
}

func (c *catalog) snapshot() (State, uint64, selectors) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.loadedGen, c.sels
}

func (c *catalog) State() State {
	s, _, _ := c.snapshot()
	return s
}

// preload loads the catalog unless it is already Loaded and returns the
// published selectors.
func (c *catalog) preload(ctx context.Context) (selectors, error) {
	if state, _, sels := c.snapshot(); state == Loaded {
		return sels, nil
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if state, _, sels := c.snapshot(); state == Loaded {
		return sels, nil
	}
	return c.load(ctx)
}

// ensureLoaded is preload plus a generation check: when another generator
// sharing the GenStore cleared its cache, the cached selectors are dropped
// and reloaded. The returned selectors stay valid for the caller even if a
// concurrent ClearCache resets the catalog.
func (c *catalog) ensureLoaded(ctx context.Context) (selectors, error) {
	state, loaded, sels := c.snapshot()
	if state != Loaded {
		return c.preload(ctx)
	}

	cur, err := c.gen.Snapshot(ctx, c.genKey)
	if err != nil {
		c.genStoreError("snapshot", err)
		return sels, nil
	}
	if cur == loaded {
		return sels, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	state, loaded, sels = c.snapshot()
	if state == Loaded {
		if loaded == cur {
			return sels, nil // reloaded by a concurrent caller
		}
		c.hooks.CatalogStale(loaded, cur)
		c.log.Info("name catalog stale; reloading", Fields{"loaded_gen": loaded, "current_gen": cur})
		c.reset("stale")
	}
	return c.load(ctx)
}

// clearCache drops the selectors and bumps the shared generation.
// It waits for an in-flight load so that load cannot republish afterwards.
func (c *catalog) clearCache(ctx context.Context) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.reset("clear")
	g, err := c.gen.Bump(ctx, c.genKey)
	if err != nil {
		c.genStoreError("bump", err)
		return
	}
	c.log.Debug("name catalog cleared", Fields{"gen": g})
}

func (c *catalog) reset(reason string) {
	c.mu.Lock()
	c.state = Unloaded
	c.sels = nil
	c.loadedGen = 0
	c.mu.Unlock()
	c.hooks.CacheCleared(reason)
}

// load must be called with loadMu held.
func (c *catalog) load(ctx context.Context) (selectors, error) {
	start := time.Now()

	observed, err := c.gen.Snapshot(ctx, c.genKey)
	if err != nil {
		c.genStoreError("snapshot", err)
		observed = 0
	}

	lists, err := c.fetch(ctx)
	if err != nil {
		return nil, c.loadFailed(err)
	}

	sels := make(selectors, 2)
	counts := make(map[string]int, 2)
	prints := make(Fields, 2)
	for _, g := range Genders() {
		items := lists[g.String()]
		s, err := weighted.New(items, c.rng)
		if err != nil {
			return nil, c.loadFailed(&LoadError{Category: g.String(), Err: err})
		}
		sels[g] = s
		counts[g.String()] = s.Len()
		prints[g.String()] = fingerprint(items)
	}

	c.mu.Lock()
	c.sels = sels
	c.loadedGen = observed
	c.state = Loaded
	c.mu.Unlock()

	took := time.Since(start)
	c.hooks.CatalogLoaded(observed, counts, took)
	c.log.Info("name catalog loaded", Fields{
		"gen":         observed,
		"male":        counts[corpus.Male],
		"female":      counts[corpus.Female],
		"fingerprint": prints,
		"took":        took.String(),
	})
	return sels, nil
}

func (c *catalog) fetch(ctx context.Context) (map[string][]weighted.Item[string], error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Err: err}
	}

	if bs, ok := c.src.(corpus.BundleSource); ok {
		all, err := bs.LoadAll(ctx)
		if err != nil {
			return nil, &LoadError{Err: err}
		}
		for _, g := range Genders() {
			if _, ok := all[g.String()]; !ok {
				return nil, &LoadError{Category: g.String(), Err: corpus.ErrCategoryNotFound}
			}
		}
		return all, nil
	}

	out := make(map[string][]weighted.Item[string], 2)
	for _, g := range Genders() {
		items, err := c.src.Load(ctx, g.String())
		if err != nil {
			return nil, &LoadError{Category: g.String(), Err: err}
		}
		out[g.String()] = items
	}
	return out, nil
}

func (c *catalog) loadFailed(err error) error {
	var le *LoadError
	cat := ""
	if errors.As(err, &le) {
		cat = le.Category
	}
	c.hooks.CatalogLoadFailed(cat, err)
	c.log.Error("name catalog load failed", Fields{"category": cat, "err": err})
	return err
}

func (c *catalog) genStoreError(op string, err error) {
	c.hooks.GenStoreError(op, err)
	c.log.Warn("generation store error", Fields{"op": op, "key": c.genKey, "err": err})
}

func fingerprint(items []weighted.Item[string]) string {
	values := make([]string, len(items))
	weights := make([]float64, len(items))
	for i, it := range items {
		values[i] = it.Value
		weights[i] = it.Weight
	}
	return util.Fingerprint(values, weights)
}
