// Package wordnet builds the in-memory Arabic WordNet resource from a WN-LMF
// XML stream: synset metadata, the hypernym adjacency relation, and the
// normalized lemma index used to link ontology concepts to synsets.
package wordnet

import "sort"

// Relation types that form hypernym graph edges. Both kinds are merged into
// one edge set.
const (
	RelHypernym         = "hypernym"
	RelInstanceHypernym = "instance_hypernym"
)

// IsHypernymRelation reports whether relType contributes a graph edge.
func IsHypernymRelation(relType string) bool {
	return relType == RelHypernym || relType == RelInstanceHypernym
}

// Synset is the retained metadata of one synset. Only the first definition
// is kept.
type Synset struct {
	ID           string
	ILI          string
	PartOfSpeech string
	Definition   string
	Examples     []string
	Relations    []Relation
}

// Relation is a typed synset relation, retained for reporting.
type Relation struct {
	Type   string
	Target string
}

// LemmaForm is one raw written form that led to a synset, with its key.
type LemmaForm struct {
	Raw        string
	Normalized string
}

// IDSet is a set of synset identifiers.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts ids into the set.
func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Union inserts every member of other into the set.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Has reports whether id is a member. It is safe on a nil set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
