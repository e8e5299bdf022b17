// Package corpus supplies the weighted first-name lists a generator draws
// from.
//
// A corpus has one category per gender ("male", "female"). Each category is
// an ordered list of weighted values; order matters because selection scans
// in catalog order. The reference document format is
//
//	{"items": [{"value": "mario", "weight": 100}, ...]}
//
// Sources: Embedded (compiled into the binary), FS/Dir (files), Static
// (in-memory) and Store (a bundle published to a shared byte store).
package corpus

import (
	"context"
	"errors"

	"github.com/unkn0wn-root/itfaker/weighted"
)

const (
	Male   = "male"
	Female = "female"
)

// Categories lists every category a generator loads, in load order.
var Categories = []string{Male, Female}

// ErrCategoryNotFound is returned when a source has no list for a category.
var ErrCategoryNotFound = errors.New("corpus: category not found")

// Document is the serialized form of one category.
type Document struct {
	Items []weighted.Item[string] `json:"items" msgpack:"items" cbor:"items"`
}

// Source loads one category at a time. Implementations return a fresh slice
// the caller may keep.
type Source interface {
	Load(ctx context.Context, category string) ([]weighted.Item[string], error)
}

// BundleSource is implemented by sources that can return every category
// from a single consistent read. Loaders prefer it over per-category Load.
type BundleSource interface {
	Source
	LoadAll(ctx context.Context) (map[string][]weighted.Item[string], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, category string) ([]weighted.Item[string], error)

func (f SourceFunc) Load(ctx context.Context, category string) ([]weighted.Item[string], error) {
	return f(ctx, category)
}
