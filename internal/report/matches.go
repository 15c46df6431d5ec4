package report

import (
	"io"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/ontology"
)

const (
	maxMatchLemmas   = 10
	maxMatchExamples = 3
)

// SampleMatched picks up to n matched concept ids with a seeded generator.
// The same seed and mapping always give the same sample.
func SampleMatched(ids []string, n int, seed int64) []string {
	if n > len(ids) {
		n = len(ids)
	}
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))
	perm := rng.Perm(len(ids))
	out := make([]string, n)
	for i := range out {
		out[i] = ids[perm[i]]
	}
	return out
}

// WriteMatches writes the side-by-side comparison of sampled concepts that
// matched at least one synset.
func WriteMatches(w io.Writer, in Input, sample int, seed int64) error {
	ew := newErrWriter(w)
	selected := SampleMatched(in.Mapping.ConceptIDs(), sample, seed)
	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("─", ruleWidth)

	ew.line(rule)
	ew.line("ARABIC ONTOLOGY vs WORDNET - SIDE-BY-SIDE COMPARISON")
	ew.printf("Selected %d entries that exist in both resources\n", len(selected))
	ew.line(rule)
	ew.line("")

	for i, id := range selected {
		c := in.Concepts.Concept(id)
		if c == nil {
			continue
		}
		synsets := in.Mapping.Synsets(id).Sorted()
		lemma := ""
		for _, lm := range in.Matcher.Detail(c) {
			if len(lm.Synsets) > 0 {
				lemma = lm.Key
				break
			}
		}

		ew.line(thin)
		ew.printf("  ENTRY %d / %d   |   Matched on lemma: \"%s\"\n", i+1, len(selected), lemma)
		ew.line(thin)
		ew.line("")

		ew.line("  ┌─── ARABIC ONTOLOGY ───────────────────────────────────────────")
		ew.printf("  │ Concept ID:    %s\n", id)
		ew.printf("  │ Arabic Synset: %s\n", c.RawLemmas)
		ew.printf("  │ English:       %s\n", orNone(c.English))
		ew.printf("  │ Gloss:         %s\n", orNone(c.Gloss))
		ew.printf("  │ Example:       %s\n", orNone(c.Example))
		ew.printf("  │ DataSource:    %s\n", c.DataSource)
		rel, _ := in.Concepts.Relation(id)
		ew.printf("  │ subTypeOf:     %s\n", relatedLabel(in.Concepts, rel.SubTypeOf))
		ew.printf("  │ partOf:        %s\n", relatedLabel(in.Concepts, rel.PartOf))
		ew.printf("  │ instanceOf:    %s\n", relatedLabel(in.Concepts, rel.InstanceOf))
		ew.line("  └─────────────────────────────────────────────────────────────")
		ew.line("")

		ew.line("  ┌─── WORDNET ──────────────────────────────────────────────────")
		for _, sid := range synsets {
			writeSynsetBlock(ew, in, sid)
		}
		ew.printf("  │ Total matching WordNet synsets: %d\n", len(synsets))
		ew.line("  └─────────────────────────────────────────────────────────────")
		ew.line("")
		ew.line("")
	}

	ew.line(rule)
	ew.line("END OF COMPARISON")
	ew.line(rule)
	return ew.flush()
}

func writeSynsetBlock(ew *errWriter, in Input, sid string) {
	s := in.Graph.Synset(sid)
	ew.line("  │")
	ew.printf("  │ Synset ID:     %s\n", sid)
	if s == nil {
		ew.line("  │ (not defined in WordNet)")
		ew.line("  │ - - - - - - - - - - - - - - - - - -")
		return
	}
	ew.printf("  │ ILI:           %s\n", s.ILI)
	ew.printf("  │ POS:           %s\n", s.PartOfSpeech)
	ew.printf("  │ Lemmas:        %s\n", strings.Join(distinctForms(in, sid), " | "))
	if s.Definition != "" {
		ew.printf("  │ Definition:   %s\n", s.Definition)
	}
	examples := head(s.Examples, maxMatchExamples)
	for i, ex := range examples {
		if len(s.Examples) > 1 {
			ew.printf("  │ Example [%d]:     %s\n", i+1, ex)
		} else {
			ew.printf("  │ Example:     %s\n", ex)
		}
	}
	if len(s.Relations) > 0 {
		groups := make(map[string][]string)
		for _, r := range s.Relations {
			groups[r.Type] = append(groups[r.Type], r.Target)
		}
		types := make([]string, 0, len(groups))
		for t := range groups {
			types = append(types, t)
		}
		sort.Strings(types)
		ew.line("  │ Relations:")
		for _, t := range types {
			ew.printf("  │   %s: %s\n", t, strings.Join(groups[t], ", "))
		}
	}
	ew.line("  │ - - - - - - - - - - - - - - - - - -")
}

func distinctForms(in Input, sid string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range in.Graph.LemmasOf(sid) {
		if _, ok := seen[f.Raw]; ok {
			continue
		}
		seen[f.Raw] = struct{}{}
		out = append(out, f.Raw)
		if len(out) == maxMatchLemmas {
			break
		}
	}
	return out
}

func relatedLabel(table *ontology.Table, id string) string {
	if id == "" {
		return "NULL"
	}
	p := table.Concept(id)
	if p == nil {
		return id + ": | "
	}
	return id + ": " + p.RawLemmas + " | " + p.English
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
