package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPublishCmd(cfg *Config) *cobra.Command {
	var rev uint64
	c := &cobra.Command{
		Use:   "publish",
		Short: "Publish the corpus to the shared store and invalidate cached catalogs",
		Long: `Writes the male and female corpus as one bundle to the configured store,
then bumps the catalog generation so every generator sharing the namespace
reloads on its next call. Only meaningful with --backend redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Backend != backendRedis {
				return errors.New("publish needs a shared store: use --backend redis")
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if rev == 0 {
				rev = uint64(time.Now().Unix())
			}
			if err := publish(ctx, a.store, a.src, rev); err != nil {
				return err
			}
			a.gen.ClearCache(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "published revision %d to namespace %q\n", rev, cfg.Namespace)
			return nil
		},
	}
	c.Flags().Uint64Var(&rev, "rev", 0, "bundle revision (default: current unix time)")
	return c
}
