// Package genstore tracks catalog generations.
//
// A generator records the generation it loaded its catalog under and bumps it
// on ClearCache. Generators sharing a GenStore notice the bump and reload on
// their next call. LocalGenStore covers instances in one process;
// RedisGenStore covers replicas.
package genstore

import "context"

type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, key string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, key string) (uint64, error)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
