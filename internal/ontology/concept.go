// Package ontology holds the hand-curated concept table and the subTypeOf
// pairs extracted from it. The table is built once from the ontology CSV
// exports and never mutated afterwards.
package ontology

import "strings"

// Concept is a node of the ontology with its Arabic surface lemmas.
type Concept struct {
	ID         string
	Lemmas     []string
	RawLemmas  string
	English    string
	Gloss      string
	Example    string
	DataSource string
}

// Relation is the relation row declared for a concept. Empty fields mean the
// relation is absent.
type Relation struct {
	ConceptID  string
	SubTypeOf  string
	PartOf     string
	InstanceOf string
}

// Pair is an ordered (child, parent) subTypeOf edge of the ontology.
type Pair struct {
	Child  string
	Parent string
}

// Table is the immutable in-memory concept table.
type Table struct {
	concepts  map[string]*Concept
	order     []string
	relations map[string]Relation
	relOrder  []string
}

// NewTable builds a Table from already-parsed concepts and relations. Later
// duplicates replace earlier ones but keep the position of the first.
func NewTable(concepts []Concept, relations []Relation) *Table {
	t := &Table{
		concepts:  make(map[string]*Concept, len(concepts)),
		relations: make(map[string]Relation, len(relations)),
	}
	for i := range concepts {
		c := concepts[i]
		if _, exists := t.concepts[c.ID]; !exists {
			t.order = append(t.order, c.ID)
		}
		t.concepts[c.ID] = &c
	}
	for _, r := range relations {
		if _, exists := t.relations[r.ConceptID]; !exists {
			t.relOrder = append(t.relOrder, r.ConceptID)
		}
		t.relations[r.ConceptID] = r
	}
	return t
}

// Concept returns the concept with the given id, or nil.
func (t *Table) Concept(id string) *Concept {
	return t.concepts[id]
}

// Concepts returns all concepts in input order.
func (t *Table) Concepts() []*Concept {
	out := make([]*Concept, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.concepts[id])
	}
	return out
}

// Len returns the number of concepts.
func (t *Table) Len() int {
	return len(t.order)
}

// Relation returns the relation row for id and whether one exists.
func (t *Table) Relation(id string) (Relation, bool) {
	r, ok := t.relations[id]
	return r, ok
}

// Pairs returns every subTypeOf edge in relation input order. Self-referential
// edges are kept.
func (t *Table) Pairs() []Pair {
	pairs := make([]Pair, 0, len(t.relOrder))
	for _, id := range t.relOrder {
		r := t.relations[id]
		if r.SubTypeOf == "" {
			continue
		}
		pairs = append(pairs, Pair{Child: id, Parent: r.SubTypeOf})
	}
	return pairs
}

// SplitLemmas splits a delimited lemma field into trimmed, non-empty lemmas,
// preserving their order.
func SplitLemmas(field, delimiter string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, delimiter)
	lemmas := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			lemmas = append(lemmas, p)
		}
	}
	return lemmas
}
