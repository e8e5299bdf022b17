package corpus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/unkn0wn-root/itfaker/codec"
	"github.com/unkn0wn-root/itfaker/internal/util"
	"github.com/unkn0wn-root/itfaker/internal/wire"
	pr "github.com/unkn0wn-root/itfaker/provider"
	"github.com/unkn0wn-root/itfaker/weighted"
)

const defaultMaxDecode = 8 << 20

var (
	// ErrNotPublished is returned when the store holds no bundle.
	ErrNotPublished = errors.New("corpus: no bundle published")
	// ErrRejected is returned when the provider refused a publish.
	ErrRejected = errors.New("corpus: provider rejected bundle")
)

// StoreOptions configure a provider-backed corpus.
// Only Namespace is required.
type StoreOptions struct {
	Namespace string
	Codec     codec.Codec[Document] // nil => JSON
	MaxDecode int                   // per-category payload limit in bytes; 0 => 8 MiB, <0 disables
	TTL       time.Duration         // publish TTL; 0 => no expiry
}

// Store reads and publishes a corpus bundle in a byte store. Every category
// lives in one wire-framed value so a publish is all-or-nothing for readers.
type Store struct {
	p     pr.Provider
	key   string
	codec codec.Codec[Document]
	ttl   time.Duration
}

var _ BundleSource = (*Store)(nil)

func NewStore(p pr.Provider, opts StoreOptions) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("corpus: provider is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("corpus: namespace is required")
	}
	c := opts.Codec
	if c == nil {
		c = codec.JSON[Document]{}
	}
	limit := opts.MaxDecode
	if limit == 0 {
		limit = defaultMaxDecode
	}
	return &Store{
		p:     p,
		key:   util.BundleKey(opts.Namespace),
		codec: codec.LimitCodec[Document]{Inner: c, MaxDecode: limit},
		ttl:   opts.TTL,
	}, nil
}

// Publish encodes docs and writes them as revision rev, replacing any bundle
// already stored.
func (s *Store) Publish(ctx context.Context, rev uint64, docs map[string]Document) error {
	cats := make([]string, 0, len(docs))
	for cat := range docs {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	entries := make([]wire.Entry, 0, len(cats))
	for _, cat := range cats {
		if cat == "" || len(cat) > wire.MaxCategoryLen {
			return fmt.Errorf("corpus: category name must be 1..%d bytes, got %d", wire.MaxCategoryLen, len(cat))
		}
		payload, err := s.codec.Encode(docs[cat])
		if err != nil {
			return fmt.Errorf("corpus: encode %q: %w", cat, err)
		}
		if uint64(len(payload)) > wire.MaxPayloadLen {
			return fmt.Errorf("corpus: encoded %q is %d bytes, limit %d", cat, len(payload), uint64(wire.MaxPayloadLen))
		}
		entries = append(entries, wire.Entry{Category: cat, Payload: payload})
	}

	b, err := wire.EncodeBundle(rev, entries)
	if err != nil {
		return fmt.Errorf("corpus: publish: %w", err)
	}
	ok, err := s.p.Set(ctx, s.key, b, int64(len(b)), s.ttl)
	if err != nil {
		return fmt.Errorf("corpus: publish: %w", err)
	}
	if !ok {
		return ErrRejected
	}
	return nil
}

// Revision returns the revision of the stored bundle.
func (s *Store) Revision(ctx context.Context) (uint64, error) {
	rev, _, err := s.read(ctx)
	return rev, err
}

func (s *Store) Load(ctx context.Context, category string) ([]weighted.Item[string], error) {
	_, entries, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Category == category {
			return s.decode(e)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
}

func (s *Store) LoadAll(ctx context.Context) (map[string][]weighted.Item[string], error) {
	_, entries, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]weighted.Item[string], len(entries))
	for _, e := range entries {
		items, err := s.decode(e)
		if err != nil {
			return nil, err
		}
		out[e.Category] = items
	}
	return out, nil
}

// Unpublish removes the stored bundle.
func (s *Store) Unpublish(ctx context.Context) error {
	return s.p.Del(ctx, s.key)
}

func (s *Store) read(ctx context.Context) (uint64, []wire.Entry, error) {
	raw, ok, err := s.p.Get(ctx, s.key)
	if err != nil {
		return 0, nil, fmt.Errorf("corpus: fetch bundle: %w", err)
	}
	if !ok {
		return 0, nil, ErrNotPublished
	}
	rev, entries, err := wire.DecodeBundle(raw)
	if err != nil {
		return 0, nil, err
	}
	return rev, entries, nil
}

func (s *Store) decode(e wire.Entry) ([]weighted.Item[string], error) {
	doc, err := s.codec.Decode(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("corpus: decode %q: %w", e.Category, err)
	}
	return doc.Items, nil
}
