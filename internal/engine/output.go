package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/report"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/tracing"
)

// WriteReports writes the detailed text report and the markdown summary to
// the output directory and returns their paths.
func (e *Engine) WriteReports(ctx context.Context, cmp *Comparison) ([]string, error) {
	_, span := tracing.StartChildSpan(ctx, "reports")
	defer func() { e.metrics.ObservePhase("reports", span.End()) }()

	in := cmp.ReportInput()
	rc := e.cfg.Report
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{rc.ReportFile, func(w io.Writer) error { return report.WriteText(w, in, rc.SamplePerCategory) }},
		{rc.SummaryFile, func(w io.Writer) error { return report.WriteMarkdown(w, cmp.Summary) }},
	}
	var paths []string
	for _, f := range files {
		path, err := e.writeOutput(f.name, f.write)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	logger.FromContext(ctx).Info("reports written", "files", paths)
	return paths, nil
}

// WriteValidation writes the AGREE dump and the DISAGREE sample and returns
// the quality indicators alongside the written paths.
func (e *Engine) WriteValidation(ctx context.Context, cmp *Comparison) ([]string, report.Quality, error) {
	_, span := tracing.StartChildSpan(ctx, "validation")
	defer func() { e.metrics.ObservePhase("validation", span.End()) }()

	in := cmp.ReportInput()
	rc := e.cfg.Report
	quality := report.Assess(in, rc.PolysemyThreshold)

	var paths []string
	path, err := e.writeOutput(rc.AgreeDumpFile, func(w io.Writer) error {
		return report.WriteAgreeDump(w, in)
	})
	if err != nil {
		return paths, quality, err
	}
	paths = append(paths, path)

	path, err = e.writeOutput(rc.DisagreeDumpFile, func(w io.Writer) error {
		return report.WriteDisagreeDump(w, in, rc.ValidationDisagreeLimit)
	})
	if err != nil {
		return paths, quality, err
	}
	paths = append(paths, path)

	logger.FromContext(ctx).Info("validation written",
		"files", paths,
		"agree", quality.AgreeTotal,
		"pos_match", quality.POSMatch,
		"pos_mismatch", quality.POSMismatch,
		"same_lemma", quality.SameLemma,
		"disagree_adjective", quality.DisagreeAdjective,
		"polysemous_child", quality.PolysemousChild,
		"polysemous_parent", quality.PolysemousParent,
	)
	return paths, quality, nil
}

// WriteMatches writes the seeded side-by-side sample of matched concepts.
func (e *Engine) WriteMatches(ctx context.Context, ds *Dataset) (string, error) {
	_, span := tracing.StartChildSpan(ctx, "matches")
	defer func() { e.metrics.ObservePhase("matches", span.End()) }()

	in := report.Input{
		Concepts: ds.Concepts,
		Graph:    ds.Graph,
		Matcher:  ds.Matcher,
		Mapping:  ds.Mapping,
	}
	rc := e.cfg.Report
	path, err := e.writeOutput(rc.MatchesFile, func(w io.Writer) error {
		return report.WriteMatches(w, in, rc.MatchesSample, rc.MatchesSeed)
	})
	if err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info("matches written", "file", path,
		"sample", rc.MatchesSample, "seed", rc.MatchesSeed)
	return path, nil
}

// MarkdownSummary renders the markdown summary into memory, for terminal
// display.
func MarkdownSummary(cmp *Comparison) (string, error) {
	var buf bytes.Buffer
	if err := report.WriteMarkdown(&buf, cmp.Summary); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeOutput writes name under the output directory through a .tmp file
// that is renamed on success, so readers never see a partial report.
func (e *Engine) writeOutput(name string, write func(io.Writer) error) (string, error) {
	dir := e.cfg.Report.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	finalPath := filepath.Join(dir, name)
	tmpPath := finalPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", tmpPath, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return finalPath, nil
}
