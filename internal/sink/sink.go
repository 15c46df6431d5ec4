// Package sink publishes finished comparison runs to optional external
// destinations: a SQL result store (PostgreSQL or SQLite), Kafka events and
// a Redis summary cache. Sinks never influence classification output.
package sink

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
)

// Run is one comparison run as handed to the sinks.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    classifier.Summary
	Results    []classifier.PairResult
}

// Publisher is an external destination for run results.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, run *Run) error
	Ping(ctx context.Context) error
	Close() error
}

// PairRecord is the flat, serialisable form of one classified pair.
type PairRecord struct {
	RunID         string   `json:"run_id"`
	Seq           int      `json:"seq"`
	Child         string   `json:"child"`
	Parent        string   `json:"parent"`
	Outcome       string   `json:"outcome"`
	Hops          *int     `json:"hops,omitempty"`
	Source        string   `json:"source_synset,omitempty"`
	Target        string   `json:"target_synset,omitempty"`
	Path          []string `json:"path,omitempty"`
	ChildSynsets  int      `json:"child_synsets"`
	ParentSynsets int      `json:"parent_synsets"`
}

func NewPairRecord(runID string, seq int, r classifier.PairResult) PairRecord {
	rec := PairRecord{
		RunID:         runID,
		Seq:           seq,
		Child:         r.Pair.Child,
		Parent:        r.Pair.Parent,
		Outcome:       r.Result.Outcome.String(),
		ChildSynsets:  r.ChildSynsets.Len(),
		ParentSynsets: r.ParentSynsets.Len(),
	}
	if p := r.Result.Path; p != nil {
		hops := p.Hops
		rec.Hops = &hops
		rec.Source = p.Source
		rec.Target = p.Target
		rec.Path = p.Nodes
	}
	return rec
}

// SummaryRecord is the serialisable form of a run summary.
type SummaryRecord struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	MaxHops     int            `json:"max_hops"`
	Total       int            `json:"total"`
	Outcomes    map[string]int `json:"outcomes"`
	HopCounts   map[int]int    `json:"hop_counts"`
	AverageHops float64        `json:"average_hops"`
}

func NewSummaryRecord(run *Run) SummaryRecord {
	s := run.Summary
	outcomes := make(map[string]int, len(classifier.Outcomes))
	for _, o := range classifier.Outcomes {
		outcomes[o.String()] = s.Count(o)
	}
	hops := make(map[int]int, len(s.HopCounts))
	for h, n := range s.HopCounts {
		hops[h] = n
	}
	return SummaryRecord{
		RunID:       run.ID,
		StartedAt:   run.StartedAt.UTC(),
		FinishedAt:  run.FinishedAt.UTC(),
		MaxHops:     s.MaxHops,
		Total:       s.Total,
		Outcomes:    outcomes,
		HopCounts:   hops,
		AverageHops: s.AverageHops(),
	}
}
