// Package provider defines the byte store a shared corpus can live in.
//
// A corpus.Store reads wire-framed corpus bundles from a Provider, so a fleet
// of generators can serve names from one published corpus instead of the
// copy embedded in each binary.
//
// Implementations MUST be byte-for-byte transparent: Get returns exactly the
// []byte previously passed to Set for a key. The "corpus:<ns>:" keyspace is
// owned by itfaker; foreign writes under it are treated as corruption.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (0 = no expiry where supported).
	// May ignore cost. Returns ok=false when the store rejected the write.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
