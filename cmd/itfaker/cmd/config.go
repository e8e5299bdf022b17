package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment (and a .env file in the working
// directory). Flags override it.
type Config struct {
	Seed        *uint64 `env:"ITFAKER_SEED"`
	CorpusDir   string  `env:"ITFAKER_CORPUS_DIR"`
	Format      string  `env:"ITFAKER_FORMAT" envDefault:"json"`
	LogLevel    string  `env:"ITFAKER_LOG_LEVEL" envDefault:"warn"`
	Logger      string  `env:"ITFAKER_LOGGER" envDefault:"zap"`
	Namespace   string  `env:"ITFAKER_NAMESPACE" envDefault:"it"`
	Backend     string  `env:"ITFAKER_BACKEND" envDefault:"direct"`
	StoreFormat string  `env:"ITFAKER_STORE_FORMAT" envDefault:"msgpack"`
	RedisAddr   string  `env:"ITFAKER_REDIS_ADDR" envDefault:"localhost:6379"`
	// GenTTL expires idle catalog generations: the Redis key TTL, or the
	// retention of the in-process generation store. 0 keeps them forever.
	GenTTL time.Duration `env:"ITFAKER_GEN_TTL"`
}

const (
	backendDirect    = "direct"
	backendRistretto = "ristretto"
	backendBigcache  = "bigcache"
	backendRedis     = "redis"
)

func loadConfig() (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Backend {
	case backendDirect, backendRistretto, backendBigcache, backendRedis:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	switch strings.ToLower(c.Logger) {
	case "zap", "logrus", "slog":
	default:
		return fmt.Errorf("config: unknown logger %q", c.Logger)
	}
	if c.GenTTL < 0 {
		return fmt.Errorf("config: negative gen TTL %s", c.GenTTL)
	}
	if c.Namespace == "" {
		return fmt.Errorf("config: namespace is required")
	}
	return nil
}
