package itfaker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode"

	"github.com/unkn0wn-root/itfaker/corpus"
	gen "github.com/unkn0wn-root/itfaker/genstore"
	"github.com/unkn0wn-root/itfaker/random"
	"github.com/unkn0wn-root/itfaker/weighted"
)

// countingSource is a corpus.Source that counts load cycles and can be told
// to fail for one category.
type countingSource struct {
	mu     sync.Mutex
	data   corpus.Static
	failOn string
	err    error
	loads  map[string]int
	delay  time.Duration
}

func newCountingSource() *countingSource {
	return &countingSource{
		data: corpus.Static{
			corpus.Male:   {{Value: "mario", Weight: 100}, {Value: "giuseppe", Weight: 80}, {Value: "antonio", Weight: 60}},
			corpus.Female: {{Value: "maria", Weight: 100}, {Value: "anna", Weight: 80}, {Value: "giovanna", Weight: 60}},
		},
		loads: make(map[string]int),
	}
}

func (s *countingSource) Load(ctx context.Context, category string) ([]weighted.Item[string], error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads[category]++
	if s.failOn == category {
		return nil, s.err
	}
	return s.data.Load(ctx, category)
}

func (s *countingSource) count(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[category]
}

func (s *countingSource) setFailure(category string, err error) {
	s.mu.Lock()
	s.failOn, s.err = category, err
	s.mu.Unlock()
}

type hookRecorder struct {
	NopHooks
	mu      sync.Mutex
	loaded  int
	failed  []string
	cleared []string
	stale   int
}

func (h *hookRecorder) CatalogLoaded(uint64, map[string]int, time.Duration) {
	h.mu.Lock()
	h.loaded++
	h.mu.Unlock()
}

func (h *hookRecorder) CatalogLoadFailed(category string, _ error) {
	h.mu.Lock()
	h.failed = append(h.failed, category)
	h.mu.Unlock()
}

func (h *hookRecorder) CacheCleared(reason string) {
	h.mu.Lock()
	h.cleared = append(h.cleared, reason)
	h.mu.Unlock()
}

func (h *hookRecorder) CatalogStale(uint64, uint64) {
	h.mu.Lock()
	h.stale++
	h.mu.Unlock()
}

func newTestGenerator(t *testing.T, src corpus.Source, optsOpt func(*Options)) Generator {
	t.Helper()
	opts := Options{Source: src}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = g.Close(context.Background()) })
	return g
}

func withRandomizer(r random.Randomizer) func(*Options) {
	return func(o *Options) { o.Randomizer = r }
}

var (
	maleNames   = map[string]bool{"Mario": true, "Giuseppe": true, "Antonio": true}
	femaleNames = map[string]bool{"Maria": true, "Anna": true, "Giovanna": true}
)

// ==============================
// Formatting
// ==============================

func TestFormatName(t *testing.T) {
	cases := map[string]string{
		"mario rossi":    "Mario Rossi",
		"GIUSEPPE VERDI": "Giuseppe Verdi",
		"":               "",
		"maria grazia":   "Maria Grazia",
		"nicolò":         "Nicolò",
		"ÉLODIE":         "Élodie",
	}
	for in, want := range cases {
		if got := FormatName(in); got != want {
			t.Fatalf("FormatName(%q) = %q, want %q", in, got, want)
		}
	}
}

// ==============================
// Gender resolution
// ==============================

func TestCoinFlipZeroDrawsMale(t *testing.T) {
	g := newTestGenerator(t, newCountingSource(), func(o *Options) {
		o.Randomizer = random.NewSequence(0)
	})
	ctx := context.Background()
	for range 50 {
		name, err := g.Generate(ctx, &Request{})
		if err != nil {
			t.Fatal(err)
		}
		if !maleNames[name] {
			t.Fatalf("coin flip 0 produced non-male name %q", name)
		}
	}
}

func TestCoinFlipOneDrawsFemale(t *testing.T) {
	r := random.NewSequence(1)
	r.Floats = []float64{0, 0.3, 0.6, 0.99}
	g := newTestGenerator(t, newCountingSource(), withRandomizer(r))
	ctx := context.Background()
	for range 50 {
		name, err := g.Generate(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !femaleNames[name] {
			t.Fatalf("coin flip 1 produced non-female name %q", name)
		}
	}
}

func TestExplicitGenderSkipsCoinFlip(t *testing.T) {
	r := random.NewSequence(0)
	g := newTestGenerator(t, newCountingSource(), withRandomizer(r))
	name, err := g.Generate(context.Background(), &Request{Gender: GenderPtr(Female)})
	if err != nil {
		t.Fatal(err)
	}
	if !femaleNames[name] {
		t.Fatalf("got %q", name)
	}
	if n, _, _ := r.Calls(); n != 0 {
		t.Fatalf("explicit gender must not consume a coin flip, got %d", n)
	}
}

func TestInvalidGender(t *testing.T) {
	g := newTestGenerator(t, newCountingSource(), nil)
	if _, err := g.Generate(context.Background(), &Request{Gender: GenderPtr(Gender(5))}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if _, err := g.GetPrefix(GenderPtr(Gender(-1))); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestFaultyRandomizerPropagates(t *testing.T) {
	g := newTestGenerator(t, newCountingSource(), withRandomizer(random.NewSequence(7)))
	if _, err := g.Generate(context.Background(), nil); err == nil {
		t.Fatalf("out-of-range coin flip must fail")
	}
}

func TestParseGender(t *testing.T) {
	for in, want := range map[string]Gender{"male": Male, "M": Male, "Maschio": Male, "female": Female, " f ": Female, "FEMMINA": Female} {
		got, err := ParseGender(in)
		if err != nil || got != want {
			t.Fatalf("ParseGender(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseGender("x"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if Male.String() != "male" || Female.String() != "female" || Gender(9).String() != "Gender(9)" {
		t.Fatalf("unexpected String output")
	}
}

// ==============================
// Titles
// ==============================

func TestGenerateWithPrefix(t *testing.T) {
	r := random.NewSequence()
	r.Picks = []int{0}
	g := newTestGenerator(t, newCountingSource(), withRandomizer(r))

	got, err := g.Generate(context.Background(), &Request{Gender: GenderPtr(Male), Prefix: true})
	if err != nil {
		t.Fatal(err)
	}
	// float draw 0 selects the first catalog entry
	if got != "Dott. Mario" {
		t.Fatalf("got %q", got)
	}

	r.Picks = []int{3}
	got, err = g.Generate(context.Background(), &Request{Gender: GenderPtr(Female), Prefix: true})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Prof.ssa Maria" {
		t.Fatalf("got %q", got)
	}
}

func TestPrefixedNameShape(t *testing.T) {
	g := newTestGenerator(t, newCountingSource(), withRandomizer(random.NewSeeded(3)))
	male := map[string]bool{}
	for _, ti := range DefaultTitles()[TitleMale] {
		male[ti] = true
	}
	for range 100 {
		got, err := g.Generate(context.Background(), &Request{Gender: GenderPtr(Male), Prefix: true})
		if err != nil {
			t.Fatal(err)
		}
		title, name, ok := strings.Cut(got, " ")
		if !ok || !male[title] || !maleNames[name] {
			t.Fatalf("unexpected prefixed name %q", got)
		}
	}
}

func TestGetPrefixCategories(t *testing.T) {
	g := newTestGenerator(t, newCountingSource(), withRandomizer(random.NewSeeded(9)))
	table := DefaultTitles()
	check := func(gender *Gender, cat TitleCategory) {
		t.Helper()
		allowed := map[string]bool{}
		for _, ti := range table[cat] {
			allowed[ti] = true
		}
		for range 100 {
			p, err := g.GetPrefix(gender)
			if err != nil {
				t.Fatal(err)
			}
			if !allowed[p] {
				t.Fatalf("%s: unexpected title %q", cat, p)
			}
		}
	}
	check(nil, TitleNeutral)
	check(GenderPtr(Male), TitleMale)
	check(GenderPtr(Female), TitleFemale)
	if g.State() != Unloaded {
		t.Fatalf("GetPrefix must not load the catalog")
	}
}

func TestGetPrefixEmptyList(t *testing.T) {
	titles := DefaultTitles()
	titles[TitleNeutral] = nil
	g := newTestGenerator(t, newCountingSource(), func(o *Options) { o.Titles = titles })
	if _, err := g.GetPrefix(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if _, err := g.GetPrefix(GenderPtr(Male)); err != nil {
		t.Fatalf("male titles still available: %v", err)
	}
}

func TestNewRejectsIncompleteTitleTable(t *testing.T) {
	_, err := New(Options{Titles: TitleTable{TitleMale: {"Dott."}}})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefaultTitlesIsACopy(t *testing.T) {
	tt := DefaultTitles()
	tt[TitleMale][0] = "Sig."
	if DefaultTitles()[TitleMale][0] != "Dott." {
		t.Fatalf("built-in table was mutated")
	}
}

// ==============================
// Cache lifecycle
// ==============================

func TestLazyLoadAndClearCache(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource()
	hooks := &hookRecorder{}
	g := newTestGenerator(t, src, func(o *Options) { o.Hooks = hooks })

	if g.State() != Unloaded || src.count(corpus.Male) != 0 {
		t.Fatalf("construction must not load")
	}
	if _, err := g.Generate(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if g.State() != Loaded || src.count(corpus.Male) != 1 || src.count(corpus.Female) != 1 {
		t.Fatalf("first Generate must load once: state=%v loads=%v", g.State(), src.loads)
	}
	if err := g.Preload(ctx); err != nil {
		t.Fatal(err)
	}
	for range 10 {
		_, _ = g.Generate(ctx, nil)
	}
	if src.count(corpus.Male) != 1 {
		t.Fatalf("Preload/Generate while Loaded must not reload, loads=%d", src.count(corpus.Male))
	}

	g.ClearCache(ctx)
	if g.State() != Unloaded {
		t.Fatalf("ClearCache must reset to Unloaded")
	}
	g.ClearCache(ctx) // unconditional
	if _, err := g.Generate(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if src.count(corpus.Male) != 2 || src.count(corpus.Female) != 2 {
		t.Fatalf("Generate after ClearCache must load exactly once more, loads=%v", src.loads)
	}
	if hooks.loaded != 2 || len(hooks.cleared) != 2 {
		t.Fatalf("hooks: loaded=%d cleared=%v", hooks.loaded, hooks.cleared)
	}
}

func TestLoadFailureLeavesUnloaded(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource()
	hooks := &hookRecorder{}
	g := newTestGenerator(t, src, func(o *Options) { o.Hooks = hooks })

	boom := errors.New("resource missing")
	src.setFailure(corpus.Female, boom)

	err := g.Preload(ctx)
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("want ErrDataUnavailable wrapping cause, got %v", err)
	}
	var le *LoadError
	if !errors.As(err, &le) || le.Category != corpus.Female {
		t.Fatalf("want *LoadError for female, got %#v", err)
	}
	if g.State() != Unloaded {
		t.Fatalf("failed load must leave Unloaded")
	}
	if _, err := g.Generate(ctx, &Request{Gender: GenderPtr(Male)}); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("Generate must propagate load failure, got %v", err)
	}

	src.setFailure("", nil)
	if err := g.Preload(ctx); err != nil {
		t.Fatalf("retry after fixing source: %v", err)
	}
	if g.State() != Loaded {
		t.Fatalf("expected Loaded after recovery")
	}
	if len(hooks.failed) != 2 || hooks.failed[0] != corpus.Female {
		t.Fatalf("failure hooks: %v", hooks.failed)
	}
}

func TestInvalidCatalogIsDataUnavailable(t *testing.T) {
	src := corpus.Static{
		corpus.Male:   {{Value: "nessuno", Weight: 0}},
		corpus.Female: {{Value: "maria", Weight: 1}},
	}
	g := newTestGenerator(t, src, nil)
	err := g.Preload(context.Background())
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrDataUnavailable + ErrInvalidArgument, got %v", err)
	}
	if g.State() != Unloaded {
		t.Fatalf("no partial load may be observable")
	}
}

func TestBundleSourceMissingCategory(t *testing.T) {
	src := corpus.Static{corpus.Male: {{Value: "mario", Weight: 1}}}
	g := newTestGenerator(t, src, nil)
	err := g.Preload(context.Background())
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, corpus.ErrCategoryNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestCanceledContextFailsLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := newTestGenerator(t, newCountingSource(), nil)
	if err := g.Preload(ctx); !errors.Is(err, context.Canceled) || !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("got %v", err)
	}
}

func TestConcurrentFirstUseLoadsOnce(t *testing.T) {
	src := newCountingSource()
	src.delay = 20 * time.Millisecond
	g := newTestGenerator(t, src, nil)

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				errs <- g.Preload(ctx)
				return
			}
			_, err := g.Generate(ctx, nil)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
	if src.count(corpus.Male) != 1 || src.count(corpus.Female) != 1 {
		t.Fatalf("expected one load cycle, got %v", src.loads)
	}
}

func TestSharedGenStoreInvalidatesPeers(t *testing.T) {
	ctx := context.Background()
	store := gen.NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = store.Close(ctx) })

	srcA, srcB := newCountingSource(), newCountingSource()
	hooksB := &hookRecorder{}
	a := newTestGenerator(t, srcA, func(o *Options) { o.GenStore = store })
	b := newTestGenerator(t, srcB, func(o *Options) { o.GenStore = store; o.Hooks = hooksB })

	if err := a.Preload(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.Preload(ctx); err != nil {
		t.Fatal(err)
	}

	a.ClearCache(ctx)
	if b.State() != Loaded {
		t.Fatalf("peer drops its cache lazily, on next use")
	}
	if _, err := b.Generate(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if srcB.count(corpus.Male) != 2 {
		t.Fatalf("peer must reload after shared clear, loads=%d", srcB.count(corpus.Male))
	}
	if hooksB.stale != 1 {
		t.Fatalf("stale hook calls = %d", hooksB.stale)
	}
	// no further reloads while the generation is steady
	for range 5 {
		_, _ = b.Generate(ctx, nil)
	}
	if srcB.count(corpus.Male) != 2 {
		t.Fatalf("unexpected reload, loads=%d", srcB.count(corpus.Male))
	}

	// other namespaces are unaffected
	c := newTestGenerator(t, newCountingSource(), func(o *Options) { o.GenStore = store; o.Namespace = "other" })
	if err := c.Preload(ctx); err != nil {
		t.Fatal(err)
	}
	a.ClearCache(ctx)
	if _, err := c.Generate(ctx, nil); err != nil {
		t.Fatal(err)
	}
}

type failingGenStore struct{ gen.GenStore }

func (failingGenStore) Snapshot(context.Context, string) (uint64, error) {
	return 0, errors.New("genstore down")
}
func (failingGenStore) Bump(context.Context, string) (uint64, error) {
	return 0, errors.New("genstore down")
}

func TestGenStoreOutageKeepsServing(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource()
	g := newTestGenerator(t, src, func(o *Options) { o.GenStore = failingGenStore{} })

	for range 5 {
		if _, err := g.Generate(ctx, nil); err != nil {
			t.Fatal(err)
		}
	}
	if src.count(corpus.Male) != 1 {
		t.Fatalf("loads = %d", src.count(corpus.Male))
	}
	g.ClearCache(ctx)
	if g.State() != Unloaded {
		t.Fatalf("ClearCache must succeed even when the bump fails")
	}
}

// ==============================
// Generation
// ==============================

func TestSeededGeneratorsAgree(t *testing.T) {
	ctx := context.Background()
	a, err := NewSeeded(42, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSeeded(42, Options{})
	if err != nil {
		t.Fatal(err)
	}
	req := &Request{Prefix: true}
	na, err := a.GenerateN(ctx, 25, req)
	if err != nil {
		t.Fatal(err)
	}
	nb, err := b.GenerateN(ctx, 25, req)
	if err != nil {
		t.Fatal(err)
	}
	for i := range na {
		if na[i] != nb[i] {
			t.Fatalf("draw %d: %q != %q", i, na[i], nb[i])
		}
	}
}

func TestEmbeddedCorpusNamesAreFormatted(t *testing.T) {
	g := newTestGenerator(t, nil, nil)
	names, err := g.GenerateN(context.Background(), 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		for _, word := range strings.Fields(n) {
			r := []rune(word)
			if !unicode.IsUpper(r[0]) || strings.ToLower(string(r[1:])) != string(r[1:]) {
				t.Fatalf("badly formatted name %q", n)
			}
		}
	}
}

func TestGenerateNValidates(t *testing.T) {
	g := newTestGenerator(t, newCountingSource(), nil)
	if _, err := g.GenerateN(context.Background(), -1, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("got %v", err)
	}
	out, err := g.GenerateN(context.Background(), 0, nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("out=%v err=%v", out, err)
	}
}

func TestPickRequiresPublishedLoad(t *testing.T) {
	var none selectors
	if _, err := none.pick(Male); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("want ErrNotLoaded, got %v", err)
	}

	g := newTestGenerator(t, newCountingSource(), nil)
	sels, err := g.(*generator).cat.preload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sels.pick(Female); err != nil {
		t.Fatal(err)
	}
	if _, err := sels.pick(Gender(3)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestGenerateSurvivesConcurrentClear(t *testing.T) {
	ctx := context.Background()
	g := newTestGenerator(t, newCountingSource(), withRandomizer(random.NewSeeded(5)))

	stop := make(chan struct{})
	var clearer sync.WaitGroup
	clearer.Add(1)
	go func() {
		defer clearer.Done()
		for {
			select {
			case <-stop:
				return
			default:
				g.ClearCache(ctx)
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		failures atomic.Int64
		once     sync.Once
		firstErr error
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 2000 {
				if _, err := g.Generate(ctx, nil); err != nil {
					failures.Add(1)
					once.Do(func() { firstErr = err })
				}
			}
		}()
	}
	wg.Wait()
	close(stop)
	clearer.Wait()

	if n := failures.Load(); n != 0 {
		t.Fatalf("%d Generate calls failed during concurrent ClearCache, first: %v", n, firstErr)
	}
}

func TestGenRetentionPrunesPrivateGenStore(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource()
	g := newTestGenerator(t, src, func(o *Options) { o.GenRetention = 30 * time.Millisecond })

	if err := g.Preload(ctx); err != nil {
		t.Fatal(err)
	}
	g.ClearCache(ctx) // generation 1
	if _, err := g.Generate(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if src.count(corpus.Male) != 2 {
		t.Fatalf("loads = %d", src.count(corpus.Male))
	}

	// once the idle generation is pruned it reads as 0, which forces one reload
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := g.Generate(ctx, nil); err != nil {
			t.Fatal(err)
		}
		if src.count(corpus.Male) == 3 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("pruned generation never triggered a reload, loads=%d", src.count(corpus.Male))
}
