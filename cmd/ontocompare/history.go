package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/engine"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/sink"
	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit   int
		runID   string
		outcome string
		cache   bool
		forget  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs, or the pairs of one run",
		Long: `Reads the SQL result store (SQLite when enabled, otherwise PostgreSQL).

Without --run it lists the most recent runs with their outcome counts. With
--run it lists that run's pairs, optionally restricted by --outcome. With
--cache it prints the latest summary and running totals from Redis, and
--cache --forget drops one run's cached keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := engine.New(a.cfg, nil)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if cache {
				c, err := e.OpenCache(ctx)
				if err != nil {
					return err
				}
				defer c.Close()
				if forget != "" {
					n, err := c.Forget(ctx, forget)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(out, "removed %d cached keys for run %s\n", n, forget)
					return err
				}
				latest, err := c.LatestSummary(ctx)
				if err != nil {
					return err
				}
				totals, err := c.Totals(ctx)
				if err != nil {
					return err
				}
				return writeCache(out, latest, totals)
			}

			store, err := e.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if runID == "" {
				runs, err := store.ListRuns(ctx, limit)
				if err != nil {
					return err
				}
				return writeRuns(out, runs)
			}

			var filter *classifier.Outcome
			if outcome != "" {
				o, ok := parseOutcome(outcome)
				if !ok {
					return apperrors.Newf(apperrors.ErrInvalidConfig, "unknown outcome %q", outcome)
				}
				filter = &o
			}
			pairs, err := store.PairRecords(ctx, runID, filter)
			if err != nil {
				return err
			}
			return writePairs(out, pairs, limit)
		},
	}
	f := cmd.Flags()
	f.IntVar(&limit, "limit", 20, "maximum rows listed (0 = all)")
	f.StringVar(&runID, "run", "", "list the pairs of this run")
	f.StringVar(&outcome, "outcome", "", "with --run, only pairs with this outcome")
	f.BoolVar(&cache, "cache", false, "read the Redis summary cache instead of the SQL store")
	f.StringVar(&forget, "forget", "", "with --cache, delete the cached keys of this run")
	return cmd
}

func parseOutcome(s string) (classifier.Outcome, bool) {
	for _, o := range classifier.Outcomes {
		if strings.EqualFold(o.String(), s) {
			return o, true
		}
	}
	return 0, false
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeRuns(w io.Writer, runs []sink.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs stored")
		return err
	}
	t := newTable("RUN", "FINISHED", "HOPS", "PAIRS", "AGREE", "DISAGREE", "PARTIAL", "UNMATCHABLE", "AVG HOPS")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.FinishedAt.Local().Format(time.DateTime),
			strconv.Itoa(r.MaxHops),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Counts[classifier.Agree]),
			strconv.Itoa(r.Counts[classifier.Disagree]),
			strconv.Itoa(r.Counts[classifier.PartialChildOnly]+r.Counts[classifier.PartialParentOnly]),
			strconv.Itoa(r.Counts[classifier.Unmatchable]),
			fmt.Sprintf("%.2f", r.AverageHops),
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writePairs(w io.Writer, pairs []sink.PairRecord, limit int) error {
	if len(pairs) == 0 {
		_, err := fmt.Fprintln(w, "no pairs stored for this run")
		return err
	}
	shown := pairs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	t := newTable("#", "CHILD", "PARENT", "OUTCOME", "HOPS", "PATH")
	for _, p := range shown {
		hops := "-"
		if p.Hops != nil {
			hops = strconv.Itoa(*p.Hops)
		}
		t.Row(strconv.Itoa(p.Seq), p.Child, p.Parent, p.Outcome, hops, strings.Join(p.Path, " -> "))
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	if len(shown) < len(pairs) {
		_, err := fmt.Fprintf(w, "... and %d more\n", len(pairs)-len(shown))
		return err
	}
	return nil
}

func writeCache(w io.Writer, latest *sink.SummaryRecord, totals map[string]int64) error {
	if latest == nil {
		if _, err := fmt.Fprintln(w, "no cached summary"); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "latest run %s (finished %s, max hops %d, avg hops %.2f)\n",
			latest.RunID, latest.FinishedAt.Local().Format(time.DateTime), latest.MaxHops, latest.AverageHops)
	}
	if len(totals) == 0 {
		return nil
	}
	t := newTable("OUTCOME", "LATEST", "ALL RUNS")
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		last := "-"
		if latest != nil {
			last = strconv.Itoa(latest.Outcomes[name])
		}
		t.Row(name, last, strconv.FormatInt(totals[name], 10))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
