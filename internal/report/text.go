package report

import (
	"io"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
)

// maxListed caps how many synsets are listed per side of a DISAGREE example.
const maxListed = 5

// WriteText writes the detailed comparison report: summary counts, the
// AGREE hop distribution, then up to sample examples per outcome.
func WriteText(w io.Writer, in Input, sample int) error {
	ew := newErrWriter(w)
	s := in.Summary
	groups := ByOutcome(in.Results)
	rule := strings.Repeat("=", ruleWidth)

	ew.line(rule)
	ew.line("ARABIC ONTOLOGY subTypeOf vs WORDNET HYPERNYM CHAINS")
	ew.printf("Compared %d ontology parent-child pairs\n", s.Total)
	ew.printf("Hypernym search depth: up to %d hops\n", s.MaxHops)
	ew.line(rule)
	ew.line("")

	writeSummaryBlock(ew, s)

	agree := groups[classifier.Agree]
	section(ew, "AGREE EXAMPLES", sample, len(agree))
	for _, r := range head(agree, sample) {
		ew.printf("  Ontology: %s\n", ConceptLabel(in.Concepts, r.Pair.Child))
		ew.printf("    subTypeOf -> %s\n", ConceptLabel(in.Concepts, r.Pair.Parent))
		ew.printf("  WordNet path (%d %s):\n", r.Result.Path.Hops, plural(r.Result.Path.Hops, "hop", "hops"))
		for _, id := range r.Result.Path.Nodes {
			ew.printf("    -> %s\n", SynsetLabel(in.Graph, id))
		}
		ew.line("")
	}

	disagree := groups[classifier.Disagree]
	section(ew, "DISAGREE EXAMPLES", sample, len(disagree))
	for _, r := range head(disagree, sample) {
		ew.printf("  Ontology: %s\n", ConceptLabel(in.Concepts, r.Pair.Child))
		ew.printf("    subTypeOf -> %s\n", ConceptLabel(in.Concepts, r.Pair.Parent))
		writeSynsetList(ew, in, "Child", r.ChildSynsets.Sorted())
		writeSynsetList(ew, in, "Parent", r.ParentSynsets.Sorted())
		ew.printf("  -> No hypernym path found within %d hops\n\n", s.MaxHops)
	}

	childOnly := groups[classifier.PartialChildOnly]
	section(ew, "PARTIAL - CHILD ONLY", sample, len(childOnly))
	for _, r := range head(childOnly, sample) {
		ew.printf("  Child:  %s -> %d WordNet synsets\n", ConceptLabel(in.Concepts, r.Pair.Child), r.ChildSynsets.Len())
		ew.printf("  Parent: %s -> NO WordNet match\n\n", ConceptLabel(in.Concepts, r.Pair.Parent))
	}

	parentOnly := groups[classifier.PartialParentOnly]
	section(ew, "PARTIAL - PARENT ONLY", sample, len(parentOnly))
	for _, r := range head(parentOnly, sample) {
		ew.printf("  Child:  %s -> NO WordNet match\n", ConceptLabel(in.Concepts, r.Pair.Child))
		ew.printf("  Parent: %s -> %d WordNet synsets\n\n", ConceptLabel(in.Concepts, r.Pair.Parent), r.ParentSynsets.Len())
	}

	unmatchable := groups[classifier.Unmatchable]
	section(ew, "UNMATCHABLE EXAMPLES", sample, len(unmatchable))
	for _, r := range head(unmatchable, sample) {
		ew.printf("  Child:  %s\n", ConceptLabel(in.Concepts, r.Pair.Child))
		ew.printf("  Parent: %s\n\n", ConceptLabel(in.Concepts, r.Pair.Parent))
	}

	ew.line(rule)
	ew.line("END OF REPORT")
	ew.line(rule)
	return ew.flush()
}

func writeSummaryBlock(ew *errWriter, s classifier.Summary) {
	ew.line("SUMMARY STATISTICS")
	ew.line(strings.Repeat("-", 60))
	ew.printf("Total subTypeOf pairs analyzed:       %d\n", s.Total)
	ew.printf("  AGREE     (hypernym path found):    %5d  (%.1f%%)\n", s.Count(classifier.Agree), s.Percent(s.Count(classifier.Agree)))
	ew.printf("  DISAGREE  (both matched, no path):  %5d  (%.1f%%)\n", s.Count(classifier.Disagree), s.Percent(s.Count(classifier.Disagree)))
	ew.printf("  PARTIAL   (only one side matched):  %5d  (%.1f%%)\n", s.Partial(), s.Percent(s.Partial()))
	ew.printf("    - child only:                     %5d\n", s.Count(classifier.PartialChildOnly))
	ew.printf("    - parent only:                    %5d\n", s.Count(classifier.PartialParentOnly))
	ew.printf("  UNMATCHABLE (neither matched):      %5d  (%.1f%%)\n\n", s.Count(classifier.Unmatchable), s.Percent(s.Count(classifier.Unmatchable)))

	hops := s.Hops()
	if len(hops) == 0 {
		return
	}
	ew.line("AGREE - Hop distribution:")
	for _, h := range hops {
		ew.printf("  %d %-4s: %5d  (%.1f%%)\n", h, plural(h, "hop", "hops"), s.HopCounts[h], s.HopPercent(h))
	}
	ew.printf("  Average: %.2f hops\n\n", s.AverageHops())
}

func writeSynsetList(ew *errWriter, in Input, side string, ids []string) {
	ew.printf("  %s WordNet synsets (%d):\n", side, len(ids))
	for _, id := range head(ids, maxListed) {
		ew.printf("    %s\n", SynsetLabel(in.Graph, id))
	}
	if len(ids) > maxListed {
		ew.printf("    ... and %d more\n", len(ids)-maxListed)
	}
}

func section(ew *errWriter, title string, sample, total int) {
	rule := strings.Repeat("=", ruleWidth)
	ew.line("")
	ew.line(rule)
	ew.printf("%s (showing %d of %d)\n", title, min(sample, total), total)
	ew.line(rule)
	ew.line("")
}

func head[T any](items []T, n int) []T {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
