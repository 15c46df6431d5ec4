package report

import (
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/matcher"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
)

// perLemmaListed caps the synsets listed per matched lemma in the DISAGREE
// dump.
const perLemmaListed = 3

// WriteAgreeDump writes every AGREE pair with the lemma each side matched
// through and the full labelled path.
func WriteAgreeDump(w io.Writer, in Input) error {
	ew := newErrWriter(w)
	agree := ByOutcome(in.Results)[classifier.Agree]

	ew.printf("ALL %d AGREE CASES - Full Detail for Linguistic Review\n", len(agree))
	ew.line(strings.Repeat("=", wideRuleWidth))
	ew.line("")

	for i, r := range agree {
		p := r.Result.Path
		ew.printf("--- AGREE #%d (%d %s) ---\n", i+1, p.Hops, plural(p.Hops, "hop", "hops"))
		ew.printf("  CHILD ontology: %s\n", ConceptInfo(in.Concepts, r.Pair.Child))
		ew.printf("  PARENT ontology: %s\n", ConceptInfo(in.Concepts, r.Pair.Parent))

		childVia := matchedVia(in.Matcher.Detail(in.Concepts.Concept(r.Pair.Child)), p.Source)
		parentVia := matchedVia(in.Matcher.Detail(in.Concepts.Concept(r.Pair.Parent)), p.Target)
		ew.printf("  Child matched via lemma: '%s' -> %s\n", viaLemma(childVia), p.Source)
		ew.printf("  Parent matched via lemma: '%s' -> %s\n", viaLemma(parentVia), p.Target)
		ew.line("  WordNet hypernym path:")
		for _, id := range p.Nodes {
			ew.printf("    -> %s\n", SynsetInfo(in.Graph, id))
		}
		ew.line("")
	}
	return ew.flush()
}

// WriteDisagreeDump writes the first limit DISAGREE pairs with up to three
// synsets per matched lemma on each side.
func WriteDisagreeDump(w io.Writer, in Input, limit int) error {
	ew := newErrWriter(w)
	disagree := ByOutcome(in.Results)[classifier.Disagree]
	shown := head(disagree, limit)

	ew.printf("DISAGREE CASES - %d of %d - Full Detail\n", len(shown), len(disagree))
	ew.line(strings.Repeat("=", wideRuleWidth))
	ew.line("")

	for i, r := range shown {
		ew.printf("--- DISAGREE #%d ---\n", i+1)
		ew.printf("  CHILD ontology: %s\n", ConceptInfo(in.Concepts, r.Pair.Child))
		ew.printf("  PARENT ontology: %s\n", ConceptInfo(in.Concepts, r.Pair.Parent))
		ew.printf("  Child WordNet matches (%d synsets):\n", r.ChildSynsets.Len())
		writeLemmaMatches(ew, in, in.Matcher.Detail(in.Concepts.Concept(r.Pair.Child)))
		ew.printf("  Parent WordNet matches (%d synsets):\n", r.ParentSynsets.Len())
		writeLemmaMatches(ew, in, in.Matcher.Detail(in.Concepts.Concept(r.Pair.Parent)))
		ew.line("")
	}
	return ew.flush()
}

func writeLemmaMatches(ew *errWriter, in Input, detail []matcher.LemmaMatch) {
	for _, lm := range detail {
		for _, id := range head(lm.Synsets, perLemmaListed) {
			ew.printf("    '%s' -> %s\n", lm.Lemma, SynsetInfo(in.Graph, id))
		}
	}
}

// matchedVia returns the first lemma whose matches include synsetID.
func matchedVia(detail []matcher.LemmaMatch, synsetID string) *matcher.LemmaMatch {
	for i := range detail {
		if slices.Contains(detail[i].Synsets, synsetID) {
			return &detail[i]
		}
	}
	return nil
}

func viaLemma(lm *matcher.LemmaMatch) string {
	if lm == nil {
		return "?"
	}
	return lm.Lemma
}

// Quality holds heuristics that flag suspicious AGREE and DISAGREE results
// for manual review.
type Quality struct {
	AgreeTotal  int
	POSMatch    int
	POSMismatch int
	CrossPOS    map[string]int
	// SameLemma counts AGREE pairs where both sides matched through the
	// same normalized form.
	SameLemma int

	DisagreeTotal     int
	DisagreeAdjective int
	PolysemousChild   int
	PolysemousParent  int
	PolysemyThreshold int
}

// CrossPOSCount is one "child->parent" part-of-speech combination.
type CrossPOSCount struct {
	Pair  string
	Count int
}

// CrossPOSSorted returns the mismatched combinations, most frequent first.
func (q Quality) CrossPOSSorted() []CrossPOSCount {
	out := make([]CrossPOSCount, 0, len(q.CrossPOS))
	for pair, n := range q.CrossPOS {
		out = append(out, CrossPOSCount{Pair: pair, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Pair < out[j].Pair
	})
	return out
}

// adjective is the WN-LMF part-of-speech tag for adjectives.
const adjective = "a"

// Assess computes the quality indicators over the classified results.
func Assess(in Input, polysemyThreshold int) Quality {
	q := Quality{
		CrossPOS:          make(map[string]int),
		PolysemyThreshold: polysemyThreshold,
	}
	for _, r := range in.Results {
		switch r.Result.Outcome {
		case classifier.Agree:
			q.AgreeTotal++
			p := r.Result.Path
			cPOS, pPOS := posOrUnknown(in, p.Source), posOrUnknown(in, p.Target)
			if cPOS == pPOS {
				q.POSMatch++
			} else {
				q.POSMismatch++
				q.CrossPOS[cPOS+"->"+pPOS]++
			}
			childVia := matchedVia(in.Matcher.Detail(in.Concepts.Concept(r.Pair.Child)), p.Source)
			parentVia := matchedVia(in.Matcher.Detail(in.Concepts.Concept(r.Pair.Parent)), p.Target)
			if childVia != nil && parentVia != nil && childVia.Key == parentVia.Key {
				q.SameLemma++
			}
		case classifier.Disagree:
			q.DisagreeTotal++
			if hasPOS(in, r.ChildSynsets, adjective) || hasPOS(in, r.ParentSynsets, adjective) {
				q.DisagreeAdjective++
			}
			if r.ChildSynsets.Len() > polysemyThreshold {
				q.PolysemousChild++
			}
			if r.ParentSynsets.Len() > polysemyThreshold {
				q.PolysemousParent++
			}
		}
	}
	return q
}

// WriteQuality writes the indicators as a short plain-text block.
func WriteQuality(w io.Writer, q Quality) error {
	ew := newErrWriter(w)
	ew.line("=== AGREE QUALITY INDICATORS ===")
	ew.printf("POS consistent (child=parent): %d / %d\n", q.POSMatch, q.AgreeTotal)
	ew.printf("POS mismatch: %d\n", q.POSMismatch)
	for _, c := range q.CrossPOSSorted() {
		ew.printf("  %s: %d\n", c.Pair, c.Count)
	}
	ew.printf("\nAGREE via same normalized lemma on both sides: %d / %d\n", q.SameLemma, q.AgreeTotal)
	ew.line("")
	ew.line("=== DISAGREE QUALITY INDICATORS ===")
	ew.printf("DISAGREE with adjective synsets in matches: %d / %d\n", q.DisagreeAdjective, q.DisagreeTotal)
	ew.printf("DISAGREE with child >%d synsets: %d\n", q.PolysemyThreshold, q.PolysemousChild)
	ew.printf("DISAGREE with parent >%d synsets: %d\n", q.PolysemyThreshold, q.PolysemousParent)
	return ew.flush()
}

func posOrUnknown(in Input, id string) string {
	if pos := in.Graph.PartOfSpeech(id); pos != "" {
		return pos
	}
	return "?"
}

func hasPOS(in Input, ids wordnet.IDSet, pos string) bool {
	for id := range ids {
		if in.Graph.PartOfSpeech(id) == pos {
			return true
		}
	}
	return false
}
