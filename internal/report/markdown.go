package report

import (
	"io"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
)

// WriteMarkdown writes the findings summary as markdown tables.
func WriteMarkdown(w io.Writer, s classifier.Summary) error {
	ew := newErrWriter(w)

	ew.line("## Ontology subTypeOf vs WordNet Hypernym Chains")
	ew.line("")
	ew.line("### Method")
	ew.printf("For each of the %d ontology subTypeOf pairs:\n", s.Total)
	ew.line("1. Map child and parent concepts to WordNet synsets via normalized lemma matching")
	ew.printf("2. BFS up the WordNet hypernym graph (max %d hops) from child synsets toward parent synsets\n", s.MaxHops)
	ew.line("3. Classify as AGREE / DISAGREE / PARTIAL / UNMATCHABLE")
	ew.line("")

	ew.line("### Results")
	ew.line("")
	ew.line("| Category | Count | % |")
	ew.line("|----------|------:|---:|")
	row := func(label string, n int) {
		ew.printf("| %s | %d | %.1f%% |\n", label, n, s.Percent(n))
	}
	row("AGREE (hypernym path exists)", s.Count(classifier.Agree))
	row("DISAGREE (both matched, no path)", s.Count(classifier.Disagree))
	row("PARTIAL (one side unmatched)", s.Partial())
	row("UNMATCHABLE (neither matched)", s.Count(classifier.Unmatchable))
	ew.printf("| **Total** | **%d** | **100%%** |\n", s.Total)

	if hops := s.Hops(); len(hops) > 0 {
		ew.line("")
		ew.line("#### Hop Distribution (AGREE cases)")
		ew.line("")
		ew.line("| Hops | Count | % of AGREE |")
		ew.line("|-----:|------:|-----------:|")
		for _, h := range hops {
			ew.printf("| %d | %d | %.1f%% |\n", h, s.HopCounts[h], s.HopPercent(h))
		}
		ew.line("")
		ew.printf("Average path length: %.2f hops\n", s.AverageHops())
	}
	return ew.flush()
}
