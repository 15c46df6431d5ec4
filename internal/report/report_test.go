package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/matcher"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/ontology"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
)

const fixtureXML = `<LexicalResource><Lexicon id="t">
<LexicalEntry id="e1"><Lemma writtenForm="قِط"/><Sense id="x1" synset="s-cat"/></LexicalEntry>
<LexicalEntry id="e2"><Lemma writtenForm="حيوان"/><Sense id="x2" synset="s-animal"/></LexicalEntry>
<LexicalEntry id="e3"><Lemma writtenForm="كائن"/><Sense id="x3" synset="s-being"/></LexicalEntry>
<LexicalEntry id="e4"><Lemma writtenForm="أحمر"/><Sense id="x4" synset="s-red"/></LexicalEntry>
<LexicalEntry id="e5"><Lemma writtenForm="حجر"/><Sense id="x5" synset="s-stone"/></LexicalEntry>
<LexicalEntry id="e6"><Lemma writtenForm="قط"/><Sense id="x6" synset="s-animal"/></LexicalEntry>
<Synset id="s-cat" ili="i1" partOfSpeech="n"><Definition>حيوان أليف صغير من السنوريات يعيش في البيوت ويصطاد الفئران وله فرو ناعم وأذنان مدببتان</Definition>
<Example>القط نائم</Example><SynsetRelation relType="hypernym" target="s-animal"/><SynsetRelation relType="similar" target="s-red"/></Synset>
<Synset id="s-animal" partOfSpeech="n"><Definition>كائن حي</Definition><SynsetRelation relType="hypernym" target="s-being"/></Synset>
<Synset id="s-being" partOfSpeech="n"/>
<Synset id="s-red" partOfSpeech="a"/>
<Synset id="s-stone" partOfSpeech="n"/>
</Lexicon></LexicalResource>`

func fixture(t *testing.T) Input {
	t.Helper()
	g, err := wordnet.Build(strings.NewReader(fixtureXML))
	require.NoError(t, err)

	table := ontology.NewTable([]ontology.Concept{
		{ID: "1", Lemmas: []string{"كائن"}, RawLemmas: "كائن", English: "being"},
		{ID: "2", Lemmas: []string{"حيوان"}, RawLemmas: "حيوان", English: "animal", Gloss: "كائن يتحرك"},
		{ID: "3", Lemmas: []string{"قط"}, RawLemmas: "قط", English: "cat"},
		{ID: "4", Lemmas: []string{"أحمر"}, RawLemmas: "أحمر"},
		{ID: "5", Lemmas: []string{"حجر"}, RawLemmas: "حجر", English: "stone"},
		{ID: "6", Lemmas: []string{"مجهول"}, RawLemmas: "مجهول"},
	}, []ontology.Relation{
		{ConceptID: "2", SubTypeOf: "1"},
		{ConceptID: "3", SubTypeOf: "2", PartOf: "9"},
		{ConceptID: "4", SubTypeOf: "5"},
		{ConceptID: "5", SubTypeOf: "6"},
		{ConceptID: "6", SubTypeOf: "5"},
		{ConceptID: "7", SubTypeOf: "6"},
	})

	m := matcher.New(g.Index())
	mapping := m.MatchAll(table)
	c, err := classifier.New(g, 8)
	require.NoError(t, err)
	results, err := c.ClassifyAll(context.Background(), table.Pairs(), mapping, 2)
	require.NoError(t, err)

	return Input{
		Concepts: table,
		Graph:    g,
		Matcher:  m,
		Mapping:  mapping,
		Results:  results,
		Summary:  classifier.Summarize(results, 8),
	}
}

func TestFixtureOutcomes(t *testing.T) {
	in := fixture(t)
	got := make([]classifier.Outcome, 0, len(in.Results))
	for _, r := range in.Results {
		got = append(got, r.Result.Outcome)
	}
	assert.Equal(t, []classifier.Outcome{
		classifier.Agree,
		classifier.Agree,
		classifier.Disagree,
		classifier.PartialChildOnly,
		classifier.PartialParentOnly,
		classifier.Unmatchable,
	}, got)
}

func TestWriteText(t *testing.T) {
	in := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, in, 15))
	out := buf.String()

	assert.Contains(t, out, "Compared 6 ontology parent-child pairs")
	assert.Contains(t, out, "Hypernym search depth: up to 8 hops")
	assert.Contains(t, out, "  AGREE     (hypernym path found):        2  (33.3%)")
	assert.Contains(t, out, "  PARTIAL   (only one side matched):      2  (33.3%)")
	assert.Contains(t, out, "  1 hop :     2  (100.0%)")
	assert.Contains(t, out, "  Average: 1.00 hops")
	assert.Contains(t, out, "AGREE EXAMPLES (showing 2 of 2)")
	assert.Contains(t, out, "  Ontology: [3] قط (cat)")
	assert.Contains(t, out, "    -> s-animal [n]: كائن حي")
	assert.Contains(t, out, "  -> No hypernym path found within 8 hops")
	assert.Contains(t, out, "  Child:  [5] حجر (stone) -> 1 WordNet synsets")
	assert.Contains(t, out, "  Child:  [6] مجهول -> NO WordNet match")
	assert.Contains(t, out, "  Child:  [7] ?")
	assert.True(t, strings.HasSuffix(out, "END OF REPORT\n"+strings.Repeat("=", 100)+"\n"))
}

func TestWriteText_SampleLimit(t *testing.T) {
	in := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, in, 0))
	out := buf.String()
	assert.Contains(t, out, "AGREE EXAMPLES (showing 0 of 2)")
	assert.NotContains(t, out, "  Ontology: ")
}

func TestWriteMarkdown(t *testing.T) {
	in := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, in.Summary))
	out := buf.String()

	assert.Contains(t, out, "| AGREE (hypernym path exists) | 2 | 33.3% |")
	assert.Contains(t, out, "| UNMATCHABLE (neither matched) | 1 | 16.7% |")
	assert.Contains(t, out, "| **Total** | **6** | **100%** |")
	assert.Contains(t, out, "| 1 | 2 | 100.0% |")
	assert.Contains(t, out, "Average path length: 1.00 hops")
}

func TestWriteMarkdown_NoAgree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, classifier.Summarize(nil, 8)))
	assert.NotContains(t, buf.String(), "Hop Distribution")
	assert.Contains(t, buf.String(), "| AGREE (hypernym path exists) | 0 | 0.0% |")
}

func TestWriteAgreeDump(t *testing.T) {
	in := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteAgreeDump(&buf, in))
	out := buf.String()

	assert.Contains(t, out, "ALL 2 AGREE CASES")
	assert.Contains(t, out, "--- AGREE #1 (1 hop) ---")
	assert.Contains(t, out, "  CHILD ontology: [2] حيوان (animal) // كائن يتحرك")
	assert.Contains(t, out, "  Child matched via lemma: 'قط' -> s-cat")
	assert.Contains(t, out, "    -> s-being [n] lemmas=(كائن) def: ")
}

func TestWriteDisagreeDump(t *testing.T) {
	in := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteDisagreeDump(&buf, in, 100))
	out := buf.String()

	assert.Contains(t, out, "DISAGREE CASES - 1 of 1 - Full Detail")
	assert.Contains(t, out, "  Child WordNet matches (1 synsets):")
	assert.Contains(t, out, "    'أحمر' -> s-red [a] lemmas=(أحمر) def: ")

	buf.Reset()
	require.NoError(t, WriteDisagreeDump(&buf, in, 0))
	assert.Contains(t, buf.String(), "DISAGREE CASES - 0 of 1 - Full Detail")
}

func TestAssess(t *testing.T) {
	in := fixture(t)
	q := Assess(in, 10)

	assert.Equal(t, 2, q.AgreeTotal)
	assert.Equal(t, 2, q.POSMatch)
	assert.Equal(t, 0, q.POSMismatch)
	assert.Equal(t, 0, q.SameLemma)
	assert.Equal(t, 1, q.DisagreeTotal)
	assert.Equal(t, 1, q.DisagreeAdjective)
	assert.Equal(t, 0, q.PolysemousChild)

	q = Assess(in, 0)
	assert.Equal(t, 1, q.PolysemousChild)
	assert.Equal(t, 1, q.PolysemousParent)

	var buf bytes.Buffer
	require.NoError(t, WriteQuality(&buf, q))
	assert.Contains(t, buf.String(), "POS consistent (child=parent): 2 / 2")
	assert.Contains(t, buf.String(), "DISAGREE with adjective synsets in matches: 1 / 1")
}

func TestCrossPOSSorted(t *testing.T) {
	q := Quality{CrossPOS: map[string]int{"n->v": 1, "a->n": 3, "n->a": 1}}
	assert.Equal(t, []CrossPOSCount{
		{Pair: "a->n", Count: 3},
		{Pair: "n->a", Count: 1},
		{Pair: "n->v", Count: 1},
	}, q.CrossPOSSorted())
}

func TestWriteMatches(t *testing.T) {
	in := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteMatches(&buf, in, 35, 42))
	out := buf.String()

	assert.Contains(t, out, "Selected 5 entries that exist in both resources")
	assert.Contains(t, out, "  │ Concept ID:    3")
	assert.Contains(t, out, "  │ subTypeOf:     2: حيوان | animal")
	assert.Contains(t, out, "  │ partOf:        9: | ")
	assert.Contains(t, out, "  │ Lemmas:        قِط")
	assert.Contains(t, out, "  │   similar: s-red")
	assert.Contains(t, out, "  │ Total matching WordNet synsets: 2")
	assert.Contains(t, out, "  │ English:       (none)")

	var again bytes.Buffer
	require.NoError(t, WriteMatches(&again, in, 35, 42))
	assert.Equal(t, out, again.String(), "same seed gives the same sample")
}

func TestSampleMatched(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	first := SampleMatched(ids, 3, 7)
	assert.Len(t, first, 3)
	assert.Equal(t, first, SampleMatched(ids, 3, 7))
	assert.ElementsMatch(t, ids, SampleMatched(ids, 10, 7))
	assert.Nil(t, SampleMatched(ids, 0, 7))
	assert.Nil(t, SampleMatched(nil, 5, 7))
}

func TestLabels(t *testing.T) {
	in := fixture(t)
	label := SynsetLabel(in.Graph, "s-cat")
	assert.True(t, strings.HasPrefix(label, "s-cat [n]: "))
	assert.True(t, strings.HasSuffix(label, "..."))
	assert.Equal(t, 80, len([]rune(strings.TrimSuffix(strings.TrimPrefix(label, "s-cat [n]: "), "..."))))

	assert.Equal(t, "s-being [n]", SynsetLabel(in.Graph, "s-being"))
	assert.Equal(t, "nope", SynsetLabel(in.Graph, "nope"))
	assert.Equal(t, "[4] أحمر", ConceptLabel(in.Concepts, "4"))
	assert.Equal(t, "[99] ?", ConceptLabel(in.Concepts, "99"))
	assert.Equal(t, "abc", truncate("abc", 3))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriters_PropagateErrors(t *testing.T) {
	in := fixture(t)
	assert.ErrorIs(t, WriteText(failWriter{}, in, 15), assert.AnError)
	assert.ErrorIs(t, WriteMarkdown(failWriter{}, in.Summary), assert.AnError)
	assert.ErrorIs(t, WriteMatches(failWriter{}, in, 35, 42), assert.AnError)
}
