package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdslog "log/slog"
	"strings"

	rc "github.com/dgraph-io/ristretto"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/itfaker"
	"github.com/unkn0wn-root/itfaker/codec"
	"github.com/unkn0wn-root/itfaker/corpus"
	gen "github.com/unkn0wn-root/itfaker/genstore"
	asynchook "github.com/unkn0wn-root/itfaker/hooks/async"
	itlogrus "github.com/unkn0wn-root/itfaker/log/logrus"
	itslog "github.com/unkn0wn-root/itfaker/log/slog"
	itzap "github.com/unkn0wn-root/itfaker/log/zap"
	pr "github.com/unkn0wn-root/itfaker/provider"
	"github.com/unkn0wn-root/itfaker/provider/bigcache"
	"github.com/unkn0wn-root/itfaker/provider/redis"
	"github.com/unkn0wn-root/itfaker/provider/ristretto"
	"github.com/unkn0wn-root/itfaker/sloghooks"
)

// app is the per-invocation runtime: one generator plus whatever backs it.
type app struct {
	gen   itfaker.Generator
	store *corpus.Store // nil for the direct backend
	src   corpus.Source // corpus files the store is seeded from
	log   itfaker.Logger

	closers []func(context.Context) error
}

func newApp(ctx context.Context, cfg *Config, errOut io.Writer) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			_ = a.close(ctx)
		}
	}()

	log, err := newLogger(cfg, errOut)
	if err != nil {
		return nil, err
	}
	a.log = log

	src, err := corpusSource(cfg)
	if err != nil {
		return nil, err
	}
	a.src = src

	hooks, err := newHooks(cfg, errOut)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { hooks.Close(); return nil })

	opts := itfaker.Options{
		Namespace:    cfg.Namespace,
		Source:       src,
		Logger:       log,
		Hooks:        hooks,
		GenRetention: cfg.GenTTL,
	}

	switch cfg.Backend {
	case backendRistretto, backendBigcache:
		// in-process stores start empty; seed them from the corpus files
		p, err := memoryProvider(ctx, cfg.Backend)
		if err != nil {
			return nil, err
		}
		if rp, ok := p.(*ristretto.Provider); ok {
			a.closers = append(a.closers, func(context.Context) error {
				logStoreMetrics(log, rp.Metrics())
				return nil
			})
		}
		a.closers = append(a.closers, p.Close)
		if a.store, err = newStore(p, cfg); err != nil {
			return nil, err
		}
		if err := publish(ctx, a.store, src, 1); err != nil {
			return nil, err
		}
		opts.Source = a.store
	case backendRedis:
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		// the generation store owns the client; the provider only borrows it
		gs := gen.NewRedisGenStoreWithTTL(rdb, cfg.Namespace, cfg.GenTTL).OwnClient()
		a.closers = append(a.closers, gs.Close)
		p, err := redis.New(redis.Config{Client: rdb})
		if err != nil {
			return nil, err
		}
		if a.store, err = newStore(p, cfg); err != nil {
			return nil, err
		}
		opts.Source = a.store
		opts.GenStore = gs
	}

	var g itfaker.Generator
	if cfg.Seed != nil {
		g, err = itfaker.NewSeeded(*cfg.Seed, opts)
	} else {
		g, err = itfaker.New(opts)
	}
	if err != nil {
		return nil, err
	}
	a.gen = g
	// generator first: it may own a LocalGenStore
	a.closers = append([]func(context.Context) error{g.Close}, a.closers...)
	ok = true
	return a, nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	for _, c := range a.closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if s, ok := a.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return errors.Join(errs...)
}

func corpusSource(cfg *Config) (corpus.Source, error) {
	if cfg.CorpusDir == "" {
		return corpus.Embedded(), nil
	}
	return corpus.Dir(cfg.CorpusDir, codec.Format(strings.ToLower(cfg.Format)))
}

func memoryProvider(ctx context.Context, backend string) (pr.Provider, error) {
	if backend == backendBigcache {
		return bigcache.New(ctx, bigcache.DefaultConfig())
	}
	cfg := ristretto.DefaultConfig()
	cfg.Metrics = true
	return ristretto.New(cfg)
}

func logStoreMetrics(log itfaker.Logger, m *rc.Metrics) {
	if m == nil {
		return
	}
	log.Debug("corpus store metrics", itfaker.Fields{
		"hits":       m.Hits(),
		"misses":     m.Misses(),
		"keys_added": m.KeysAdded(),
		"cost_added": m.CostAdded(),
	})
}

func newStore(p pr.Provider, cfg *Config) (*corpus.Store, error) {
	var c codec.Codec[corpus.Document]
	if strings.EqualFold(cfg.StoreFormat, "protobuf") {
		c = corpus.NewStructCodec()
	} else {
		var err error
		if c, err = codec.ByName[corpus.Document](codec.Format(strings.ToLower(cfg.StoreFormat))); err != nil {
			return nil, err
		}
	}
	return corpus.NewStore(p, corpus.StoreOptions{Namespace: cfg.Namespace, Codec: c})
}

// publish copies every category of src into store as revision rev.
func publish(ctx context.Context, store *corpus.Store, src corpus.Source, rev uint64) error {
	docs := make(map[string]corpus.Document, len(corpus.Categories))
	for _, cat := range corpus.Categories {
		items, err := src.Load(ctx, cat)
		if err != nil {
			return fmt.Errorf("read %s corpus: %w", cat, err)
		}
		docs[cat] = corpus.Document{Items: items}
	}
	return store.Publish(ctx, rev, docs)
}

func newLogger(cfg *Config, out io.Writer) (itfaker.Logger, error) {
	switch strings.ToLower(cfg.Logger) {
	case "logrus":
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		l := logrus.New()
		l.SetOutput(out)
		l.SetLevel(lvl)
		return itlogrus.New(l), nil
	case "slog":
		lvl, err := slogLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		return itslog.Logger{L: stdslog.New(stdslog.NewTextHandler(out, &stdslog.HandlerOptions{Level: lvl}))}, nil
	default:
		return itzap.New(cfg.LogLevel, out)
	}
}

func newHooks(cfg *Config, out io.Writer) (*asynchook.Hooks, error) {
	lvl, err := slogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	raw := sloghooks.New(
		stdslog.New(stdslog.NewTextHandler(out, &stdslog.HandlerOptions{Level: lvl})),
		sloghooks.Options{StaleEvery: 10},
	)
	return asynchook.New(raw, 1, 256), nil
}

func slogLevel(s string) (stdslog.Level, error) {
	var lvl stdslog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}
