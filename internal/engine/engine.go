// Package engine runs a comparison end to end: it loads both resources,
// matches concepts to synsets, classifies every subTypeOf pair and hands the
// results to the report writers and the result sinks.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/matcher"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/ontology"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/report"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/sink"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/tracing"
)

type Engine struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Engine. A nil m gets a fresh registry.
func New(cfg *config.Config, m *metrics.Metrics) *Engine {
	if m == nil {
		m = metrics.New()
	}
	return &Engine{
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent("engine"),
	}
}

func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Dataset is the loaded and matched input. It is read-only once built.
type Dataset struct {
	Concepts *ontology.Table
	Graph    *wordnet.Graph
	Matcher  *matcher.Matcher
	Mapping  *matcher.Mapping
}

// Comparison is a classified run.
type Comparison struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Dataset    *Dataset
	Results    []classifier.PairResult
	Summary    classifier.Summary
}

// ReportInput adapts the comparison for the report writers.
func (c *Comparison) ReportInput() report.Input {
	return report.Input{
		Concepts: c.Dataset.Concepts,
		Graph:    c.Dataset.Graph,
		Matcher:  c.Dataset.Matcher,
		Mapping:  c.Dataset.Mapping,
		Results:  c.Results,
		Summary:  c.Summary,
	}
}

// SinkRun adapts the comparison for the result sinks.
func (c *Comparison) SinkRun() *sink.Run {
	return &sink.Run{
		ID:         c.RunID,
		StartedAt:  c.StartedAt,
		FinishedAt: c.FinishedAt,
		Summary:    c.Summary,
		Results:    c.Results,
	}
}

// Begin assigns a run id, attaches it to the context logger and opens the
// root span of the run.
func (e *Engine) Begin(ctx context.Context, command string) (context.Context, *tracing.Span) {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	ctx, span := tracing.StartSpan(ctx, command, runID)
	logger.FromContext(ctx).Info("run started", "command", command,
		"max_hops", e.cfg.Compare.MaxHops, "workers", e.cfg.Compare.Workers)
	return ctx, span
}

// Finish closes the root span, logs the span tree and pushes metrics when a
// Pushgateway is configured. A failed push is logged, not returned.
func (e *Engine) Finish(ctx context.Context, span *tracing.Span) {
	d := span.End()
	e.metrics.LastRunSeconds.Set(float64(time.Now().Unix()))
	log := logger.FromContext(ctx)
	span.Log(log)

	if url := e.cfg.Metrics.PushgatewayURL; url != "" {
		pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := e.metrics.Push(pushCtx, url, e.cfg.Metrics.Job, span.RunID); err != nil {
			log.Warn("metrics push failed", "error", err)
		}
	}
	log.Info("run finished", "duration", d)
}

// Load reads the concept table and the synset graph in parallel, then matches
// every concept against the lemma index.
func (e *Engine) Load(ctx context.Context) (*Dataset, error) {
	ctx, span := tracing.StartChildSpan(ctx, "load")
	defer span.End()
	log := logger.FromContext(ctx)

	var (
		table *ontology.Table
		graph *wordnet.Graph
		g     errgroup.Group
	)
	g.Go(func() error {
		_, s := tracing.StartChildSpan(ctx, "load_ontology")
		t, err := ontology.Load(e.cfg.Inputs.ConceptsPath, e.cfg.Inputs.RelationsPath, e.cfg.Compare.LemmaDelimiter)
		e.metrics.ObservePhase("load_ontology", s.End())
		if err != nil {
			return fmt.Errorf("loading ontology: %w", err)
		}
		table = t
		return nil
	})
	g.Go(func() error {
		_, s := tracing.StartChildSpan(ctx, "load_wordnet")
		gr, err := wordnet.Load(e.cfg.Inputs.WordNetPath)
		e.metrics.ObservePhase("load_wordnet", s.End())
		if err != nil {
			return fmt.Errorf("loading wordnet: %w", err)
		}
		graph = gr
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := graph.Stats()
	e.metrics.ConceptsLoaded.Set(float64(table.Len()))
	e.metrics.SynsetsLoaded.Set(float64(stats.Synsets))
	e.metrics.LemmaKeys.Set(float64(stats.IndexKeys))
	e.metrics.HypernymEdges.Set(float64(stats.HypernymEdges))
	e.metrics.DanglingEdges.Set(float64(stats.DanglingEdges))
	log.Info("resources loaded",
		"concepts", table.Len(),
		"synsets", stats.Synsets,
		"lemma_keys", stats.IndexKeys,
		"hypernym_edges", stats.HypernymEdges,
		"dangling_edges", stats.DanglingEdges,
		"duplicate_synsets", stats.DuplicateSynset,
		"unindexed_forms", stats.UnindexedForms,
	)

	_, ms := tracing.StartChildSpan(ctx, "match")
	m := matcher.New(graph.Index())
	mapping := m.MatchAll(table)
	ms.SetAttr("matched", mapping.Matched())
	e.metrics.ObservePhase("match", ms.End())
	e.metrics.ConceptsMatched.Set(float64(mapping.Matched()))
	log.Info("concepts matched", "matched", mapping.Matched(), "total", mapping.Total())

	return &Dataset{Concepts: table, Graph: graph, Matcher: m, Mapping: mapping}, nil
}

// Compare classifies every subTypeOf pair of the dataset.
func (e *Engine) Compare(ctx context.Context, ds *Dataset) (*Comparison, error) {
	runID, started := uuid.NewString(), time.Now()
	if root := tracing.SpanFromContext(ctx); root != nil && root.RunID != "" {
		runID, started = root.RunID, root.StartTime
	}
	ctx, span := tracing.StartChildSpan(ctx, "classify")
	defer span.End()

	c, err := classifier.New(ds.Graph, e.cfg.Compare.MaxHops)
	if err != nil {
		return nil, err
	}
	pairs := ds.Concepts.Pairs()
	results, err := c.ClassifyAll(ctx, pairs, ds.Mapping, e.cfg.Compare.Workers)
	if err != nil {
		return nil, fmt.Errorf("classifying pairs: %w", err)
	}
	summary := classifier.Summarize(results, c.MaxHops())
	e.metrics.ObservePhase("classify", span.End())

	for _, o := range classifier.Outcomes {
		e.metrics.PairsClassified.WithLabelValues(o.String()).Add(float64(summary.Count(o)))
	}
	for h, n := range summary.HopCounts {
		for range n {
			e.metrics.AgreeHops.Observe(float64(h))
		}
	}

	args := []any{"pairs", summary.Total}
	for _, o := range classifier.Outcomes {
		args = append(args, o.String(), summary.Count(o))
	}
	logger.FromContext(ctx).Info("pairs classified", args...)

	return &Comparison{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Dataset:    ds,
		Results:    results,
		Summary:    summary,
	}, nil
}
