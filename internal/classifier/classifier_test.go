package classifier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/ontology"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mapGraph map[string][]string

func (g mapGraph) Hypernyms(id string) []string {
	out := append([]string(nil), g[id]...)
	sort.Strings(out)
	return out
}

func set(ids ...string) wordnet.IDSet {
	return wordnet.NewIDSet(ids...)
}

func mustNew(t testing.TB, g Graph, maxHops int) *Classifier {
	t.Helper()
	c, err := New(g, maxHops)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsNegativeHops(t *testing.T) {
	_, err := New(mapGraph{}, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))

	c, err := New(mapGraph{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, c.MaxHops())
}

func TestClassify_DecisionTable(t *testing.T) {
	c := mustNew(t, mapGraph{"a": {"b"}}, 8)

	tests := []struct {
		name   string
		child  wordnet.IDSet
		parent wordnet.IDSet
		want   Outcome
	}{
		{"neither", nil, set(), Unmatchable},
		{"parent only", set(), set("b"), PartialParentOnly},
		{"child only", set("a"), nil, PartialChildOnly},
		{"path", set("a"), set("b"), Agree},
		{"no path", set("b"), set("a"), Disagree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.child, tt.parent)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.want == Agree, res.Path != nil)
		})
	}
}

func TestClassify_Chain(t *testing.T) {
	g := mapGraph{"A": {"B"}, "B": {"C"}}

	res := mustNew(t, g, 8).Classify(set("A"), set("C"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, &Path{Hops: 2, Source: "A", Target: "C", Nodes: []string{"A", "B", "C"}}, res.Path)

	assert.Equal(t, Agree, mustNew(t, g, 2).Classify(set("A"), set("C")).Outcome,
		"nodes at the bound are still tested")
	assert.Equal(t, Disagree, mustNew(t, g, 1).Classify(set("A"), set("C")).Outcome)
}

func TestClassify_ZeroHops(t *testing.T) {
	c := mustNew(t, mapGraph{"A": {"B"}}, 0)
	assert.Equal(t, Disagree, c.Classify(set("A"), set("B")).Outcome)
	assert.Equal(t, Disagree, c.Classify(set("A"), set("A")).Outcome)
}

func TestClassify_SelfMatchIsNotAgreement(t *testing.T) {
	c := mustNew(t, mapGraph{"A": {"B"}, "B": {"A"}}, 8)
	assert.Equal(t, Disagree, c.Classify(set("A"), set("A")).Outcome,
		"a cycle back to the origin does not count")

	res := c.Classify(set("A"), set("A", "B"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, 1, res.Path.Hops)
	assert.Equal(t, "B", res.Path.Target)
}

func TestClassify_OriginAlsoParent(t *testing.T) {
	c := mustNew(t, mapGraph{"B": {"A"}}, 8)
	res := c.Classify(set("A", "B"), set("A"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, []string{"B", "A"}, res.Path.Nodes)
}

func TestClassify_Cycle(t *testing.T) {
	g := mapGraph{"A": {"B"}, "B": {"C"}, "C": {"A"}}
	c := mustNew(t, g, 50)
	assert.Equal(t, Disagree, c.Classify(set("A"), set("Z")).Outcome)

	res := c.Classify(set("B"), set("A"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, []string{"B", "C", "A"}, res.Path.Nodes)
}

func TestClassify_DanglingTarget(t *testing.T) {
	g := mapGraph{"A": {"X"}}
	c := mustNew(t, g, 8)
	assert.Equal(t, Disagree, c.Classify(set("A"), set("Z")).Outcome)

	res := c.Classify(set("A"), set("X"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, 1, res.Path.Hops)
}

func TestClassify_ShortestAcrossOrigins(t *testing.T) {
	g := mapGraph{"A": {"X"}, "X": {"P"}, "B": {"P"}}
	res := mustNew(t, g, 8).Classify(set("A", "B"), set("P"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, "B", res.Path.Source)
	assert.Equal(t, 1, res.Path.Hops)
}

func TestClassify_TieBreak(t *testing.T) {
	g := mapGraph{
		"A1": {"P2"},
		"A2": {"P1"},
		"A3": {"Q", "P1"},
	}
	c := mustNew(t, g, 8)

	res := c.Classify(set("A2", "A1"), set("P1", "P2"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, "A1", res.Path.Source, "lowest origin id wins a tie")
	assert.Equal(t, "P2", res.Path.Target)

	res = c.Classify(set("A3"), set("Q", "P1"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, "P1", res.Path.Target, "neighbours expand in ascending order")

	for i := 0; i < 20; i++ {
		again := c.Classify(set("A2", "A1", "A3"), set("P1", "P2", "Q"))
		assert.Equal(t, "A1", again.Path.Source)
	}
}

func TestClassify_DiamondPath(t *testing.T) {
	g := mapGraph{"A": {"C", "B"}, "B": {"D"}, "C": {"D"}}
	res := mustNew(t, g, 8).Classify(set("A"), set("D"))
	require.Equal(t, Agree, res.Outcome)
	assert.Equal(t, []string{"A", "B", "D"}, res.Path.Nodes)
}

func TestClassifyAll_OrderAndTotality(t *testing.T) {
	g := mapGraph{"s1": {"s2"}, "s2": {"s3"}}
	sets := mapSource{
		"c1": set("s1"),
		"c2": set("s2"),
		"c3": set("s3"),
		"c4": set("s9"),
	}
	pairs := []ontology.Pair{
		{Child: "c1", Parent: "c3"},
		{Child: "c1", Parent: "c4"},
		{Child: "c1", Parent: "missing"},
		{Child: "missing", Parent: "c2"},
		{Child: "missing", Parent: "missing"},
		{Child: "c2", Parent: "c2"},
	}
	want := []Outcome{Agree, Disagree, PartialChildOnly, PartialParentOnly, Unmatchable, Disagree}

	c := mustNew(t, g, 8)
	for _, workers := range []int{0, 1, 3, 16} {
		results, err := c.ClassifyAll(context.Background(), pairs, sets, workers)
		require.NoError(t, err)
		require.Len(t, results, len(pairs))
		for i, r := range results {
			assert.Equal(t, pairs[i], r.Pair, "workers=%d", workers)
			assert.Equal(t, want[i], r.Result.Outcome, "workers=%d pair=%d", workers, i)
		}
	}
}

func TestClassifyAll_Empty(t *testing.T) {
	results, err := mustNew(t, mapGraph{}, 8).ClassifyAll(context.Background(), nil, mapSource{}, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClassifyAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pairs := []ontology.Pair{{Child: "a", Parent: "b"}}
	_, err := mustNew(t, mapGraph{}, 8).ClassifyAll(ctx, pairs, mapSource{}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	results := []PairResult{
		{Result: Result{Outcome: Agree, Path: &Path{Hops: 1}}},
		{Result: Result{Outcome: Agree, Path: &Path{Hops: 3}}},
		{Result: Result{Outcome: Agree, Path: &Path{Hops: 1}}},
		{Result: Result{Outcome: Disagree}},
		{Result: Result{Outcome: PartialChildOnly}},
		{Result: Result{Outcome: PartialParentOnly}},
		{Result: Result{Outcome: Unmatchable}},
		{Result: Result{Outcome: Unmatchable}},
	}
	s := Summarize(results, 8)

	assert.Equal(t, 8, s.Total)
	assert.Equal(t, 3, s.Count(Agree))
	assert.Equal(t, 2, s.Partial())
	assert.Equal(t, 2, s.Count(Unmatchable))
	assert.InDelta(t, 37.5, s.Percent(s.Count(Agree)), 1e-9)
	assert.Equal(t, []int{1, 3}, s.Hops())
	assert.InDelta(t, 5.0/3.0, s.AverageHops(), 1e-9)
	assert.InDelta(t, 200.0/3.0, s.HopPercent(1), 1e-9)

	sum := 0
	for _, o := range Outcomes {
		sum += s.Count(o)
	}
	assert.Equal(t, s.Total, sum)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 8)
	assert.Equal(t, 0.0, s.Percent(0))
	assert.Equal(t, 0.0, s.AverageHops())
	assert.Equal(t, 0.0, s.HopPercent(1))
	assert.Empty(t, s.Hops())
}

func TestOutcomeString(t *testing.T) {
	names := make([]string, 0, len(Outcomes))
	for _, o := range Outcomes {
		names = append(names, o.String())
	}
	assert.Equal(t, []string{"AGREE", "DISAGREE", "PARTIAL_CHILD_ONLY", "PARTIAL_PARENT_ONLY", "UNMATCHABLE"}, names)
	assert.Equal(t, "UNKNOWN", Outcome(42).String())
	assert.True(t, PartialParentOnly.IsPartial())
	assert.False(t, Agree.IsPartial())
}

type mapSource map[string]wordnet.IDSet

func (m mapSource) Synsets(id string) wordnet.IDSet {
	return m[id]
}

func chainGraph(n int) mapGraph {
	g := make(mapGraph, n)
	for i := 0; i < n-1; i++ {
		g[fmt.Sprintf("s%05d", i)] = []string{fmt.Sprintf("s%05d", i+1)}
	}
	return g
}

func BenchmarkClassifyChain(b *testing.B) {
	g := chainGraph(64)
	c := mustNew(b, g, 8)
	child := set("s00000")
	parent := set("s00008")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Classify(child, parent)
	}
}

func BenchmarkClassifyAll(b *testing.B) {
	g := chainGraph(2048)
	sets := make(mapSource, 2048)
	pairs := make([]ontology.Pair, 0, 2047)
	for i := 0; i < 2048; i++ {
		id := fmt.Sprintf("c%05d", i)
		sets[id] = set(fmt.Sprintf("s%05d", i))
		if i > 0 {
			pairs = append(pairs, ontology.Pair{Child: fmt.Sprintf("c%05d", i-1), Parent: id})
		}
	}
	c := mustNew(b, g, 8)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.ClassifyAll(context.Background(), pairs, sets, 0); err != nil {
			b.Fatal(err)
		}
	}
}
