package itfaker

import (
	"context"
	"time"

	"github.com/unkn0wn-root/itfaker/corpus"
	gen "github.com/unkn0wn-root/itfaker/genstore"
	"github.com/unkn0wn-root/itfaker/internal/util"
	"github.com/unkn0wn-root/itfaker/random"
)

const defaultNamespace = "it"

// Generator is the name generation API. Implementations are safe for
// concurrent use provided the configured Randomizer is.
type Generator interface {
	// Generate draws one formatted first name. A nil request draws a
	// random gender without a title.
	Generate(ctx context.Context, req *Request) (string, error)
	// GenerateN draws n names with the same request.
	GenerateN(ctx context.Context, n int, req *Request) ([]string, error)
	// GetPrefix draws a title for gender; nil draws a gender-neutral title.
	GetPrefix(gender *Gender) (string, error)

	// Preload loads the name catalog now instead of on first use.
	Preload(ctx context.Context) error
	// ClearCache drops the loaded catalog. Always succeeds.
	ClearCache(ctx context.Context)
	State() State

	Close(context.Context) error
}

// Request parameterizes one generation.
type Request struct {
	Gender *Gender // nil => drawn uniformly from {Male, Female}
	Prefix bool    // prepend a professional title
}

// Options configure a Generator. The zero value is ready to use: embedded
// corpus, unseeded randomness, built-in titles, no logging.
type Options struct {
	// Namespace scopes the shared catalog generation. Generators with the
	// same Namespace and GenStore invalidate together. "" => "it".
	Namespace string

	Source     corpus.Source     // nil => corpus.Embedded()
	Randomizer random.Randomizer // nil => random.New()
	Titles     TitleTable        // nil => DefaultTitles()

	Logger   Logger       // nil => NopLogger
	Hooks    Hooks        // nil => NopHooks
	GenStore gen.GenStore // nil => private LocalGenStore

	// GenRetention lets the private LocalGenStore prune a generation not
	// bumped for this long; a pruned generation costs one reload.
	// 0 keeps generations forever. Ignored when GenStore is set.
	GenRetention time.Duration
}

func New(opts Options) (Generator, error) {
	return newGenerator(opts)
}

// NewSeeded is New with a deterministic randomizer built from seed.
// opts.Randomizer is ignored.
func NewSeeded(seed uint64, opts Options) (Generator, error) {
	opts.Randomizer = random.NewSeeded(seed)
	return newGenerator(opts)
}

func newGenerator(opts Options) (*generator, error) {
	titles := opts.Titles
	if titles == nil {
		titles = defaultTitles
	}
	if err := titles.validate(); err != nil {
		return nil, err
	}

	g := &generator{
		titles: titles.clone(),
		rnd:    opts.Randomizer,
	}
	if g.rnd == nil {
		g.rnd = random.New()
	}

	ns := coalesce(opts.Namespace, defaultNamespace)
	store := opts.GenStore
	if store == nil {
		store = gen.NewLocalGenStore(opts.GenRetention, opts.GenRetention)
		g.ownGen = true
	}

	var src corpus.Source = corpus.Embedded()
	if opts.Source != nil {
		src = opts.Source
	}

	g.cat = &catalog{
		src:    src,
		rng:    g.rnd,
		gen:    store,
		genKey: util.GenKey(ns),
		log:    coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	return g, nil
}
