package classifier

// Outcome is the classification of one ontology subTypeOf pair.
type Outcome int

const (
	Agree Outcome = iota
	Disagree
	PartialChildOnly
	PartialParentOnly
	Unmatchable
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{Agree, Disagree, PartialChildOnly, PartialParentOnly, Unmatchable}

func (o Outcome) String() string {
	switch o {
	case Agree:
		return "AGREE"
	case Disagree:
		return "DISAGREE"
	case PartialChildOnly:
		return "PARTIAL_CHILD_ONLY"
	case PartialParentOnly:
		return "PARTIAL_PARENT_ONLY"
	case Unmatchable:
		return "UNMATCHABLE"
	default:
		return "UNKNOWN"
	}
}

// IsPartial reports whether exactly one side of the pair matched.
func (o Outcome) IsPartial() bool {
	return o == PartialChildOnly || o == PartialParentOnly
}

// Path is the shortest hypernym chain found for an agreeing pair. Nodes runs
// from Source to Target inclusive, so len(Nodes) == Hops+1.
type Path struct {
	Hops   int
	Source string
	Target string
	Nodes  []string
}

// Result is the outcome of a pair. Path is set only for Agree.
type Result struct {
	Outcome Outcome
	Path    *Path
}
