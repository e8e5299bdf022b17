package itfaker

import "time"

// Hooks are lightweight callbacks for catalog lifecycle events.
// Implementations MUST be cheap and non-blocking; wrap slow ones with
// hooks/async.
type Hooks interface {
	// Both gender catalogs were loaded and published.
	// counts maps category to number of names.
	CatalogLoaded(gen uint64, counts map[string]int, took time.Duration)

	// A load failed; the catalog stays Unloaded.
	CatalogLoadFailed(category string, err error)

	// The cache was dropped. reason ∈ {"clear", "stale"}.
	CacheCleared(reason string)

	// Another generator bumped the shared generation.
	CatalogStale(loaded, current uint64)

	// The generation store failed; cached data keeps serving.
	GenStoreError(op string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) CatalogLoaded(uint64, map[string]int, time.Duration) {}
func (NopHooks) CatalogLoadFailed(string, error)                     {}
func (NopHooks) CacheCleared(string)                                 {}
func (NopHooks) CatalogStale(uint64, uint64)                         {}
func (NopHooks) GenStoreError(string, error)                         {}
