// Package matcher links ontology concepts to WordNet synsets by looking up
// the normalized form of every concept lemma in the lemma index.
package matcher

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/normalize"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/ontology"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
)

// Index resolves a normalized key to the synsets indexed under it.
type Index interface {
	Lookup(key string) wordnet.IDSet
}

// LemmaMatch records which synsets a single ontology lemma reached.
type LemmaMatch struct {
	Lemma   string
	Key     string
	Synsets []string
}

type Matcher struct {
	index Index
}

func New(index Index) *Matcher {
	return &Matcher{index: index}
}

// Match returns the union of synsets reached by the concept's lemmas. A nil
// concept or one without matching lemmas yields an empty set.
func (m *Matcher) Match(c *ontology.Concept) wordnet.IDSet {
	if c == nil {
		return wordnet.IDSet{}
	}
	return m.MatchLemmas(c.Lemmas)
}

// MatchLemmas is Match over a bare lemma list.
func (m *Matcher) MatchLemmas(lemmas []string) wordnet.IDSet {
	out := make(wordnet.IDSet)
	for _, lemma := range lemmas {
		key := normalize.Key(lemma)
		if key == "" {
			continue
		}
		out.Union(m.index.Lookup(key))
	}
	return out
}

// Detail reports, per lemma in concept order, the key it normalized to and
// the synsets it matched. Lemmas that matched nothing are included with no
// synsets.
func (m *Matcher) Detail(c *ontology.Concept) []LemmaMatch {
	if c == nil {
		return nil
	}
	out := make([]LemmaMatch, 0, len(c.Lemmas))
	for _, lemma := range c.Lemmas {
		key := normalize.Key(lemma)
		lm := LemmaMatch{Lemma: lemma, Key: key}
		if key != "" {
			lm.Synsets = m.index.Lookup(key).Sorted()
		}
		out = append(out, lm)
	}
	return out
}

// MatchAll matches every concept of the table.
func (m *Matcher) MatchAll(table *ontology.Table) *Mapping {
	mp := &Mapping{
		sets: make(map[string]wordnet.IDSet, table.Len()),
	}
	for _, c := range table.Concepts() {
		set := m.Match(c)
		if set.Len() == 0 {
			continue
		}
		mp.sets[c.ID] = set
	}
	mp.total = table.Len()
	return mp
}

// Mapping is the concept id to synset set relation produced by MatchAll.
// Concepts with no match have no entry. Read-only after construction.
type Mapping struct {
	sets  map[string]wordnet.IDSet
	total int
}

// NewMapping wraps a prepared concept to synsets relation. Empty sets are
// dropped.
func NewMapping(sets map[string]wordnet.IDSet) *Mapping {
	mp := &Mapping{sets: make(map[string]wordnet.IDSet, len(sets)), total: len(sets)}
	for id, s := range sets {
		if s.Len() > 0 {
			mp.sets[id] = s
		}
	}
	return mp
}

// Synsets returns the synsets matched by conceptID. Unknown and unmatched
// concepts both return an empty set.
func (mp *Mapping) Synsets(conceptID string) wordnet.IDSet {
	return mp.sets[conceptID]
}

// Matched returns how many concepts matched at least one synset.
func (mp *Mapping) Matched() int {
	return len(mp.sets)
}

// Total returns how many concepts were considered.
func (mp *Mapping) Total() int {
	return mp.total
}

// ConceptIDs returns the ids of matched concepts in ascending order.
func (mp *Mapping) ConceptIDs() []string {
	ids := make([]string, 0, len(mp.sets))
	for id := range mp.sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
