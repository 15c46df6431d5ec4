// Package classifier decides, for each ontology subTypeOf pair, whether the
// WordNet hypernym graph agrees with it. Agreement means some synset of the
// child reaches some synset of the parent within a bounded number of upward
// hypernym hops.
package classifier

import (
	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/wordnet"
	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

// Graph exposes the hypernym adjacency. Targets are expected in ascending
// order; unknown ids return none.
type Graph interface {
	Hypernyms(id string) []string
}

type Classifier struct {
	graph   Graph
	maxHops int
}

// New returns a Classifier searching at most maxHops edges from each child
// synset. Zero is valid and never traverses an edge.
func New(graph Graph, maxHops int) (*Classifier, error) {
	if maxHops < 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidConfig, "maxHops must be >= 0, got %d", maxHops)
	}
	return &Classifier{graph: graph, maxHops: maxHops}, nil
}

// MaxHops returns the search bound.
func (c *Classifier) MaxHops() int {
	return c.maxHops
}

// Classify decides the outcome of a pair from the synsets matched by its
// child and parent concepts. It is total and never fails.
func (c *Classifier) Classify(child, parent wordnet.IDSet) Result {
	switch {
	case child.Len() == 0 && parent.Len() == 0:
		return Result{Outcome: Unmatchable}
	case child.Len() == 0:
		return Result{Outcome: PartialParentOnly}
	case parent.Len() == 0:
		return Result{Outcome: PartialChildOnly}
	}
	if path := c.FindPath(child, parent); path != nil {
		return Result{Outcome: Agree, Path: path}
	}
	return Result{Outcome: Disagree}
}

// FindPath runs an independent breadth-first search upward from every child
// synset and returns the shortest path that reaches a parent synset in at
// least one hop, or nil. Origins are tried in ascending id order and an
// equal-length path from a later origin never replaces an earlier one.
func (c *Classifier) FindPath(child, parent wordnet.IDSet) *Path {
	var best *Path
	limit := c.maxHops
	for _, origin := range child.Sorted() {
		if limit < 1 {
			break
		}
		path := c.search(origin, parent, limit)
		if path == nil {
			continue
		}
		best = path
		// Later origins only matter if strictly shorter.
		limit = path.Hops - 1
	}
	return best
}

type queueItem struct {
	id    string
	depth int
}

// search is a BFS from origin that stops at the first parent hit. Nodes at
// depth == limit are tested but not expanded.
func (c *Classifier) search(origin string, parent wordnet.IDSet, limit int) *Path {
	// cameFrom doubles as the visited set; the origin is visited up front so
	// a cycle back to it is never a hit.
	cameFrom := map[string]string{origin: ""}
	queue := []queueItem{{id: origin, depth: 0}}

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		if current.depth > 0 && parent.Has(current.id) {
			return buildPath(cameFrom, origin, current)
		}
		if current.depth >= limit {
			continue
		}
		for _, next := range c.graph.Hypernyms(current.id) {
			if _, visited := cameFrom[next]; visited {
				continue
			}
			cameFrom[next] = current.id
			queue = append(queue, queueItem{id: next, depth: current.depth + 1})
		}
	}
	return nil
}

func buildPath(cameFrom map[string]string, origin string, hit queueItem) *Path {
	nodes := make([]string, hit.depth+1)
	node := hit.id
	for i := hit.depth; i >= 0; i-- {
		nodes[i] = node
		node = cameFrom[node]
	}
	return &Path{
		Hops:   hit.depth,
		Source: origin,
		Target: hit.id,
		Nodes:  nodes,
	}
}
