package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/itfaker"
)

func newDemoCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through every generator operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)
			return runDemo(ctx, a.gen, cmd.OutOrStdout())
		},
	}
}

func runDemo(ctx context.Context, g itfaker.Generator, w io.Writer) error {
	male, female := itfaker.GenderPtr(itfaker.Male), itfaker.GenderPtr(itfaker.Female)
	gen := func(req *itfaker.Request) (string, error) { return g.Generate(ctx, req) }

	fmt.Fprintln(w, "itfaker demo")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Preloading data...")
	if err := g.Preload(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w, "Catalog %s.\n\n", g.State())

	name, err := gen(nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "1) Random name:")
	fmt.Fprintf(w, "   %s\n\n", name)

	fmt.Fprintln(w, "2) Male names:")
	for i := 1; i <= 5; i++ {
		if name, err = gen(&itfaker.Request{Gender: male}); err != nil {
			return err
		}
		fmt.Fprintf(w, "   %d. %s\n", i, name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "3) Female names:")
	for i := 1; i <= 5; i++ {
		if name, err = gen(&itfaker.Request{Gender: female}); err != nil {
			return err
		}
		fmt.Fprintf(w, "   %d. %s\n", i, name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "4) Names with professional titles:")
	for _, gp := range []*itfaker.Gender{male, female} {
		for i := 1; i <= 3; i++ {
			if name, err = gen(&itfaker.Request{Gender: gp, Prefix: true}); err != nil {
				return err
			}
			fmt.Fprintf(w, "   %s %d. %s\n", *gp, i, name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "5) Titles only:")
	for _, gp := range []*itfaker.Gender{male, female, nil} {
		p, err := g.GetPrefix(gp)
		if err != nil {
			return err
		}
		label := "neutral"
		if gp != nil {
			label = gp.String()
		}
		fmt.Fprintf(w, "   %-7s %s\n", label, p)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "6) Batch of three, random gender, titled:")
	names, err := g.GenerateN(ctx, 3, &itfaker.Request{Prefix: true})
	if err != nil {
		return err
	}
	for i, n := range names {
		fmt.Fprintf(w, "   %d. %s\n", i+1, n)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "7) Clear cache and regenerate:")
	g.ClearCache(ctx)
	fmt.Fprintf(w, "   Catalog %s.\n", g.State())
	if name, err = gen(nil); err != nil {
		return err
	}
	fmt.Fprintf(w, "   %s (catalog %s)\n\n", name, g.State())

	fmt.Fprintln(w, "Demo completed.")
	return nil
}
