package classifier

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/ontology"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
)

// SynsetSource resolves a concept id to the synsets it matched.
type SynsetSource interface {
	Synsets(conceptID string) wordnet.IDSet
}

// PairResult is a classified pair together with the synsets each side
// matched.
type PairResult struct {
	Pair          ontology.Pair
	Result        Result
	ChildSynsets  wordnet.IDSet
	ParentSynsets wordnet.IDSet
}

// ClassifyAll classifies every pair on a bounded worker pool. Results are in
// input order. Only context cancellation returns an error.
func (c *Classifier) ClassifyAll(ctx context.Context, pairs []ontology.Pair, sets SynsetSource, workers int) ([]PairResult, error) {
	log := logger.FromContext(ctx).With("component", "classifier")
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]PairResult, len(pairs))
	if len(pairs) == 0 {
		return results, nil
	}

	chunk := (len(pairs) + workers*4 - 1) / (workers * 4)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(pairs); start += chunk {
		end := min(start+chunk, len(pairs))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				p := pairs[i]
				child := sets.Synsets(p.Child)
				parent := sets.Synsets(p.Parent)
				results[i] = PairResult{
					Pair:          p,
					Result:        c.Classify(child, parent),
					ChildSynsets:  child,
					ParentSynsets: parent,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("pairs classified", "pairs", len(pairs), "workers", workers, "chunk", chunk)
	return results, nil
}

// Summary aggregates outcome counts and the AGREE hop distribution.
type Summary struct {
	Total     int
	MaxHops   int
	Counts    map[Outcome]int
	HopCounts map[int]int
}

// Summarize counts results. It is run after all workers have joined.
func Summarize(results []PairResult, maxHops int) Summary {
	s := Summary{
		Total:     len(results),
		MaxHops:   maxHops,
		Counts:    make(map[Outcome]int, len(Outcomes)),
		HopCounts: make(map[int]int),
	}
	for _, r := range results {
		s.Counts[r.Result.Outcome]++
		if r.Result.Path != nil {
			s.HopCounts[r.Result.Path.Hops]++
		}
	}
	return s
}

// Count returns the number of pairs with outcome o.
func (s Summary) Count(o Outcome) int {
	return s.Counts[o]
}

// Partial returns the combined count of both partial outcomes.
func (s Summary) Partial() int {
	return s.Counts[PartialChildOnly] + s.Counts[PartialParentOnly]
}

// Percent returns n as a percentage of all pairs, or 0 when there are none.
func (s Summary) Percent(n int) float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(s.Total)
}

// Hops returns the distinct AGREE hop counts in ascending order.
func (s Summary) Hops() []int {
	hops := make([]int, 0, len(s.HopCounts))
	for h := range s.HopCounts {
		hops = append(hops, h)
	}
	sort.Ints(hops)
	return hops
}

// AverageHops returns the mean AGREE path length, or 0 without AGREE pairs.
func (s Summary) AverageHops() float64 {
	agree := s.Counts[Agree]
	if agree == 0 {
		return 0
	}
	total := 0
	for h, n := range s.HopCounts {
		total += h * n
	}
	return float64(total) / float64(agree)
}

// HopPercent returns the share of AGREE pairs with exactly h hops.
func (s Summary) HopPercent(h int) float64 {
	agree := s.Counts[Agree]
	if agree == 0 {
		return 0
	}
	return 100 * float64(s.HopCounts[h]) / float64(agree)
}
