package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. cfg seeds the flag defaults.
func NewRootCmd(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "itfaker",
		Short:        "itfaker: weighted random Italian first names",
		Long:         "Generate realistic Italian first names, optionally with a professional title.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("seed") {
				seed, err := cmd.Flags().GetUint64("seed")
				if err != nil {
					return err
				}
				cfg.Seed = &seed
			}
			return cfg.validate()
		},
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	pf := root.PersistentFlags()
	pf.Uint64("seed", seed, "seed for reproducible output (env ITFAKER_SEED)")
	pf.StringVar(&cfg.CorpusDir, "corpus-dir", cfg.CorpusDir, "read <dir>/male.<ext> and female.<ext> instead of the embedded corpus")
	pf.StringVar(&cfg.Format, "format", cfg.Format, "corpus file format: json|msgpack|cbor")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	pf.StringVar(&cfg.Logger, "logger", cfg.Logger, "zap|logrus|slog")
	pf.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "catalog namespace shared by generators")
	pf.StringVar(&cfg.Backend, "backend", cfg.Backend, "direct|ristretto|bigcache|redis")
	pf.StringVar(&cfg.StoreFormat, "store-format", cfg.StoreFormat, "bundle payload format: json|msgpack|cbor|protobuf")
	pf.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the redis backend")
	pf.DurationVar(&cfg.GenTTL, "gen-ttl", cfg.GenTTL, "expire idle catalog generations after this long (0 = never)")

	root.AddCommand(newGenerateCmd(cfg))
	root.AddCommand(newPrefixCmd(cfg))
	root.AddCommand(newDemoCmd(cfg))
	root.AddCommand(newPublishCmd(cfg))
	return root
}

// Execute loads configuration and runs the root command.
func Execute() error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return NewRootCmd(&cfg).Execute()
}
