package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/engine"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/report"
)

func newValidateCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Dump every AGREE path and a DISAGREE sample for manual review",
		Long: `Classifies every pair, then writes every AGREE with the lemma each side
matched through and the labelled hypernym path, plus the first DISAGREE
pairs with the synsets each lemma matched. Quality indicators are printed
to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("limit") {
				a.cfg.Report.ValidationDisagreeLimit = limit
			}
			e := engine.New(a.cfg, nil)
			ctx, span := e.Begin(cmd.Context(), "validate")
			defer e.Finish(ctx, span)

			ds, err := e.Load(ctx)
			if err != nil {
				return err
			}
			cmp, err := e.Compare(ctx, ds)
			if err != nil {
				return err
			}
			paths, quality, err := e.WriteValidation(ctx, cmp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.WriteQuality(out, quality); err != nil {
				return err
			}
			fmt.Fprintln(out)
			for _, p := range paths {
				fmt.Fprintf(out, "wrote %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "DISAGREE pairs written to the sample")
	return cmd
}
