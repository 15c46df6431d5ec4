package wordnet

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

// WN-LMF element and attribute names read by the builder.
const (
	elemLexicalEntry   = "LexicalEntry"
	elemLemma          = "Lemma"
	elemSense          = "Sense"
	elemSynset         = "Synset"
	elemDefinition     = "Definition"
	elemExample        = "Example"
	elemSynsetRelation = "SynsetRelation"

	attrWrittenForm  = "writtenForm"
	attrSynset       = "synset"
	attrID           = "id"
	attrILI          = "ili"
	attrPartOfSpeech = "partOfSpeech"
	attrRelType      = "relType"
	attrTarget       = "target"
)

type builderState int

const (
	stateIdle builderState = iota
	stateEntry
	stateSynset
)

func (s builderState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateEntry:
		return "entry"
	case stateSynset:
		return "synset"
	default:
		return "unknown"
	}
}

// Builder consumes WN-LMF tokens in document order and accumulates the
// lemma index, hypernym adjacency and synset metadata. Entry and synset
// scratch is flushed on each closing tag, so memory stays proportional to
// the output rather than the document.
type Builder struct {
	state builderState

	lemma       string
	senses      []string
	synset      *Synset
	edges       IDSet
	text        strings.Builder
	captureText string

	index     *LemmaIndex
	synsets   map[string]*Synset
	order     []string
	adjacency map[string]IDSet
	lemmasOf  map[string][]LemmaForm
	stats     BuildStats
}

func NewBuilder() *Builder {
	return &Builder{
		index:     NewLemmaIndex(),
		synsets:   make(map[string]*Synset),
		adjacency: make(map[string]IDSet),
		lemmasOf:  make(map[string][]LemmaForm),
	}
}

// StartElement handles an opening tag.
func (b *Builder) StartElement(se xml.StartElement) {
	name := se.Name.Local
	switch b.state {
	case stateIdle:
		switch name {
		case elemLexicalEntry:
			b.state = stateEntry
			b.lemma = ""
			b.senses = b.senses[:0]
		case elemSynset:
			b.state = stateSynset
			b.synset = &Synset{
				ID:           attr(se, attrID),
				ILI:          attr(se, attrILI),
				PartOfSpeech: attr(se, attrPartOfSpeech),
			}
			b.edges = make(IDSet)
		}
	case stateEntry:
		switch name {
		case elemLemma:
			if b.lemma == "" {
				b.lemma = attr(se, attrWrittenForm)
			}
		case elemSense:
			if id := attr(se, attrSynset); id != "" {
				b.senses = append(b.senses, id)
			}
		}
	case stateSynset:
		switch name {
		case elemDefinition, elemExample:
			b.captureText = name
			b.text.Reset()
		case elemSynsetRelation:
			relType := attr(se, attrRelType)
			target := attr(se, attrTarget)
			if target == "" {
				return
			}
			b.synset.Relations = append(b.synset.Relations, Relation{Type: relType, Target: target})
			if IsHypernymRelation(relType) {
				b.edges.Add(target)
			}
		}
	}
}

// CharData handles text content. Only Definition and Example text is kept.
func (b *Builder) CharData(data xml.CharData) {
	if b.captureText != "" {
		b.text.Write(data)
	}
}

// EndElement handles a closing tag.
func (b *Builder) EndElement(ee xml.EndElement) {
	name := ee.Name.Local
	switch b.state {
	case stateEntry:
		if name == elemLexicalEntry {
			b.flushEntry()
			b.state = stateIdle
		}
	case stateSynset:
		switch name {
		case elemDefinition:
			if b.captureText == elemDefinition && b.synset.Definition == "" {
				b.synset.Definition = strings.TrimSpace(b.text.String())
			}
			b.captureText = ""
		case elemExample:
			if b.captureText == elemExample {
				if ex := strings.TrimSpace(b.text.String()); ex != "" {
					b.synset.Examples = append(b.synset.Examples, ex)
				}
			}
			b.captureText = ""
		case elemSynset:
			b.flushSynset()
			b.state = stateIdle
		}
	}
}

func (b *Builder) flushEntry() {
	b.stats.Entries++
	b.stats.Senses += len(b.senses)
	if b.lemma == "" || len(b.senses) == 0 {
		b.stats.UnindexedForms++
		return
	}
	key, ok := b.index.Add(b.lemma, b.senses)
	if !ok {
		b.stats.UnindexedForms++
		return
	}
	form := LemmaForm{Raw: b.lemma, Normalized: key}
	for _, id := range b.senses {
		b.lemmasOf[id] = append(b.lemmasOf[id], form)
	}
}

// flushSynset commits the current synset. A repeated id merges its edges
// into the first definition and keeps the first metadata.
func (b *Builder) flushSynset() {
	s := b.synset
	b.synset = nil
	b.captureText = ""
	if s.ID == "" {
		return
	}
	existing, ok := b.synsets[s.ID]
	if ok {
		b.stats.DuplicateSynset++
		existing.Examples = append(existing.Examples, s.Examples...)
		existing.Relations = append(existing.Relations, s.Relations...)
		b.adjacency[s.ID].Union(b.edges)
		return
	}
	b.synsets[s.ID] = s
	b.order = append(b.order, s.ID)
	b.adjacency[s.ID] = b.edges
}

// Graph freezes the accumulated state. The builder must not be used after.
func (b *Builder) Graph() *Graph {
	hypernyms := make(map[string][]string, len(b.adjacency))
	for id, targets := range b.adjacency {
		sorted := targets.Sorted()
		hypernyms[id] = sorted
		b.stats.HypernymEdges += len(sorted)
		for _, t := range sorted {
			if _, ok := b.synsets[t]; !ok {
				b.stats.DanglingEdges++
			}
		}
	}
	b.stats.Synsets = len(b.order)
	b.stats.IndexKeys = b.index.Len()
	return &Graph{
		synsets:   b.synsets,
		order:     b.order,
		hypernyms: hypernyms,
		index:     b.index,
		lemmasOf:  b.lemmasOf,
		stats:     b.stats,
	}
}

// Build streams a WN-LMF document through a Builder.
func Build(r io.Reader) (*Graph, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	b := NewBuilder()
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedResource, "line %d: %v", lineOf(dec), err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			b.StartElement(t)
		case xml.EndElement:
			b.EndElement(t)
		case xml.CharData:
			b.CharData(t)
		}
	}
	if b.state != stateIdle {
		return nil, apperrors.Newf(apperrors.ErrMalformedResource, "document ended in %s state", b.state)
	}
	return b.Graph(), nil
}

func lineOf(dec *xml.Decoder) int {
	line, _ := dec.InputPos()
	return line
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}
