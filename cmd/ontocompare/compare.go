package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/engine"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/sink"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/metrics"
)

func newCompareCmd(a *app) *cobra.Command {
	var noSinks bool
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Classify every subTypeOf pair and write the comparison report",
		Long: `Loads both resources, classifies every ontology subTypeOf pair, writes the
detailed text report and the markdown summary, and publishes the run to the
enabled result sinks.

A sink failure never changes the reports, but the command then exits with
status 4.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCompare(cmd.Context(), cmd.OutOrStdout(), !noSinks)
		},
	}
	cmd.Flags().BoolVar(&noSinks, "no-sinks", false, "skip the configured result sinks")
	return cmd
}

func (a *app) runCompare(ctx context.Context, out io.Writer, publish bool) error {
	e := engine.New(a.cfg, nil)
	ctx, span := e.Begin(ctx, "compare")
	defer e.Finish(ctx, span)
	log := logger.FromContext(ctx)

	var (
		fanout  *sink.Fanout
		sinkErr error
	)
	if publish {
		fanout, sinkErr = e.OpenSinks(ctx)
		if sinkErr != nil {
			log.Warn("some result sinks are unavailable", "error", sinkErr)
		}
		defer func() {
			if err := fanout.Close(); err != nil {
				log.Warn("closing result sinks", "error", err)
			}
		}()
	}
	if a.cfg.Metrics.Enabled {
		extra := map[string]http.Handler{}
		if fanout != nil {
			extra["/ready"] = fanout.Checker().ReadyHandler()
		}
		shutdown := metrics.StartServer(a.cfg.Metrics.Port, e.Metrics(), extra)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(shutdownCtx)
		}()
	}

	ds, err := e.Load(ctx)
	if err != nil {
		return err
	}
	cmp, err := e.Compare(ctx, ds)
	if err != nil {
		return err
	}
	paths, err := e.WriteReports(ctx, cmp)
	if err != nil {
		return err
	}
	if err := e.Publish(ctx, fanout, cmp); err != nil {
		sinkErr = errors.Join(sinkErr, err)
	}

	summary, err := engine.MarkdownSummary(cmp)
	if err != nil {
		return err
	}
	if err := renderMarkdown(out, summary, a.cfg.Report.Render); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nrun %s\n", cmp.RunID)
	for _, p := range paths {
		fmt.Fprintf(out, "  wrote %s\n", p)
	}
	return sinkErr
}
