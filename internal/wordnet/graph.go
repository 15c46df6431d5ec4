package wordnet

// BuildStats summarizes what the builder saw in the resource.
type BuildStats struct {
	Entries         int
	UnindexedForms  int
	Senses          int
	Synsets         int
	DuplicateSynset int
	HypernymEdges   int
	DanglingEdges   int
	IndexKeys       int
}

// Graph is the immutable WordNet resource: synset metadata, hypernym
// adjacency and lemma index. Safe for concurrent reads.
type Graph struct {
	synsets   map[string]*Synset
	order     []string
	hypernyms map[string][]string
	index     *LemmaIndex
	lemmasOf  map[string][]LemmaForm
	stats     BuildStats
}

// Hypernyms returns the direct hypernym targets of id in ascending order.
// Undefined ids, including dangling edge targets, have none.
func (g *Graph) Hypernyms(id string) []string {
	return g.hypernyms[id]
}

// Synset returns the metadata for id, or nil when id is not defined.
func (g *Graph) Synset(id string) *Synset {
	return g.synsets[id]
}

// Synsets returns all defined synset ids in document order.
func (g *Graph) Synsets() []string {
	return g.order
}

// PartOfSpeech returns the part of speech of id, or "" when unknown.
func (g *Graph) PartOfSpeech(id string) string {
	if s := g.synsets[id]; s != nil {
		return s.PartOfSpeech
	}
	return ""
}

// Definition returns the retained definition of id, or "".
func (g *Graph) Definition(id string) string {
	if s := g.synsets[id]; s != nil {
		return s.Definition
	}
	return ""
}

// Index returns the lemma index.
func (g *Graph) Index() *LemmaIndex {
	return g.index
}

// LemmasOf returns the written forms that sense id, in document order.
func (g *Graph) LemmasOf(id string) []LemmaForm {
	return g.lemmasOf[id]
}

// Len returns the number of defined synsets.
func (g *Graph) Len() int {
	return len(g.order)
}

// Stats returns the build statistics.
func (g *Graph) Stats() BuildStats {
	return g.stats
}
