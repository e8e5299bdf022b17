package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/itfaker"
)

func newGenerateCmd(cfg *Config) *cobra.Command {
	var (
		gender string
		prefix bool
		count  int
	)
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate Italian first names",
		Example: `  itfaker generate
  itfaker generate --gender female --prefix --count 5
  itfaker generate --seed 42 --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := genderFlag(gender)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			names, err := a.gen.GenerateN(ctx, count, &itfaker.Request{Gender: g, Prefix: prefix})
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
	c.Flags().StringVarP(&gender, "gender", "g", "", "male|female (random when empty)")
	c.Flags().BoolVarP(&prefix, "prefix", "p", false, "prepend a professional title")
	c.Flags().IntVarP(&count, "count", "n", 1, "number of names")
	return c
}

func newPrefixCmd(cfg *Config) *cobra.Command {
	var gender string
	c := &cobra.Command{
		Use:   "prefix",
		Short: "Print a professional title (gender-neutral when --gender is empty)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := genderFlag(gender)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			p, err := a.gen.GetPrefix(g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	c.Flags().StringVarP(&gender, "gender", "g", "", "male|female (neutral when empty)")
	return c
}

func genderFlag(s string) (*itfaker.Gender, error) {
	if s == "" {
		return nil, nil
	}
	g, err := itfaker.ParseGender(s)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
