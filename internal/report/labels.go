// Package report renders classification results as the plain-text report,
// the markdown summary, the validation dumps and the side-by-side matches
// sample. Writers take an io.Writer and never touch the filesystem.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/matcher"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/ontology"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
)

const (
	synsetLabelWidth = 80
	synsetInfoWidth  = 120
	glossWidth       = 100
	ruleWidth        = 100
	wideRuleWidth    = 120
)

// Input bundles everything a report needs. All fields are read-only.
type Input struct {
	Concepts *ontology.Table
	Graph    *wordnet.Graph
	Matcher  *matcher.Matcher
	Mapping  *matcher.Mapping
	Results  []classifier.PairResult
	Summary  classifier.Summary
}

// ByOutcome groups results by outcome, keeping input order within a group.
func ByOutcome(results []classifier.PairResult) map[classifier.Outcome][]classifier.PairResult {
	out := make(map[classifier.Outcome][]classifier.PairResult, len(classifier.Outcomes))
	for _, r := range results {
		out[r.Result.Outcome] = append(out[r.Result.Outcome], r)
	}
	return out
}

// ConceptLabel renders "[id] lemmas (english)".
func ConceptLabel(table *ontology.Table, id string) string {
	c := table.Concept(id)
	if c == nil {
		return fmt.Sprintf("[%s] ?", id)
	}
	label := fmt.Sprintf("[%s] %s", id, c.RawLemmas)
	if c.English != "" {
		label += " (" + c.English + ")"
	}
	return label
}

// ConceptInfo is ConceptLabel followed by the start of the gloss.
func ConceptInfo(table *ontology.Table, id string) string {
	label := ConceptLabel(table, id)
	if c := table.Concept(id); c != nil && c.Gloss != "" {
		label += " // " + clip(c.Gloss, glossWidth)
	}
	return label
}

// SynsetLabel renders "id [pos]: definition", truncating long definitions.
func SynsetLabel(g *wordnet.Graph, id string) string {
	label := id
	if pos := g.PartOfSpeech(id); pos != "" {
		label += " [" + pos + "]"
	}
	if def := g.Definition(id); def != "" {
		label += ": " + truncate(def, synsetLabelWidth)
	}
	return label
}

// SynsetInfo renders a synset with up to five of its written forms.
func SynsetInfo(g *wordnet.Graph, id string) string {
	forms := g.LemmasOf(id)
	if len(forms) > 5 {
		forms = forms[:5]
	}
	raw := make([]string, 0, len(forms))
	for _, f := range forms {
		raw = append(raw, f.Raw)
	}
	return fmt.Sprintf("%s [%s] lemmas=(%s) def: %s",
		id, g.PartOfSpeech(id), strings.Join(raw, ", "), clip(g.Definition(id), synsetInfoWidth))
}

// truncate cuts s to n runes and marks the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// clip cuts s to n runes without a marker.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// errWriter keeps the first write error so report bodies can be written
// without checking every line.
type errWriter struct {
	w   *bufio.Writer
	err error
}

func newErrWriter(w io.Writer) *errWriter {
	return &errWriter{w: bufio.NewWriter(w)}
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) line(s string) {
	ew.printf("%s\n", s)
}

func (ew *errWriter) flush() error {
	if ew.err != nil {
		return ew.err
	}
	return ew.w.Flush()
}
