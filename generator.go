package itfaker

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/itfaker/random"
)

type generator struct {
	cat    *catalog
	rnd    random.Randomizer
	titles TitleTable
	ownGen bool
}

var _ Generator = (*generator)(nil)

func (g *generator) Generate(ctx context.Context, req *Request) (string, error) {
	var r Request
	if req != nil {
		r = *req
	}

	gender, err := g.resolveGender(r.Gender)
	if err != nil {
		return "", err
	}
	sels, err := g.cat.ensureLoaded(ctx)
	if err != nil {
		return "", err
	}
	sel, err := sels.pick(gender)
	if err != nil {
		return "", err
	}

	name := FormatName(sel.Select())
	if !r.Prefix {
		return name, nil
	}
	title, err := g.GetPrefix(&gender)
	if err != nil {
		return "", err
	}
	return title + " " + name, nil
}

func (g *generator) GenerateN(ctx context.Context, n int, req *Request) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name, err := g.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func (g *generator) GetPrefix(gender *Gender) (string, error) {
	if gender != nil && !gender.valid() {
		return "", fmt.Errorf("%w: unknown gender %v", ErrInvalidArgument, *gender)
	}
	cat := titleCategory(gender)
	titles := g.titles[cat]
	if len(titles) == 0 {
		return "", fmt.Errorf("%w: no %s titles", ErrInvalidArgument, cat)
	}
	return g.rnd.ArrayElement(titles), nil
}

func (g *generator) Preload(ctx context.Context) error {
	_, err := g.cat.preload(ctx)
	return err
}

func (g *generator) ClearCache(ctx context.Context) { g.cat.clearCache(ctx) }
func (g *generator) State() State                   { return g.cat.State() }

// Close releases the generation store when the generator created it.
// A GenStore passed in Options stays open for its other users.
func (g *generator) Close(ctx context.Context) error {
	if g.ownGen {
		return g.cat.gen.Close(ctx)
	}
	return nil
}

// resolveGender returns want, or flips a coin with Number(0, 1):
// 0 is Male, 1 is Female.
func (g *generator) resolveGender(want *Gender) (Gender, error) {
	if want != nil {
		if !want.valid() {
			return 0, fmt.Errorf("%w: unknown gender %v", ErrInvalidArgument, *want)
		}
		return *want, nil
	}
	drawn := Gender(g.rnd.Number(int(Male), int(Female)))
	if !drawn.valid() {
		return 0, fmt.Errorf("itfaker: randomizer returned %d for a [0, 1] draw", int(drawn))
	}
	return drawn, nil
}
