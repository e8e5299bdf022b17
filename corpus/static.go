package corpus

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/itfaker/weighted"
)

// Static is an in-memory source keyed by category.
type Static map[string][]weighted.Item[string]

var _ BundleSource = Static(nil)

func (s Static) Load(_ context.Context, category string) ([]weighted.Item[string], error) {
	items, ok := s[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	out := make([]weighted.Item[string], len(items))
	copy(out, items)
	return out, nil
}

func (s Static) LoadAll(ctx context.Context) (map[string][]weighted.Item[string], error) {
	out := make(map[string][]weighted.Item[string], len(s))
	for cat := range s {
		items, err := s.Load(ctx, cat)
		if err != nil {
			return nil, err
		}
		out[cat] = items
	}
	return out, nil
}
