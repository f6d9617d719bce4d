// Package plan defines the logical plan node model: a closed set of node
// kinds, each tagged with a convention, plus the cost record used to
// compare scan alternatives. Nodes are immutable; narrowing or rewriting
// always produces a new node.
package plan

// Convention marks which representation family a node belongs to. Rules
// match on (kind, convention) pairs; a freshly ingested node carries
// ConventionNone until a conversion rule tags it.
type Convention uint8

const (
	// ConventionNone marks a generic node no rule has claimed yet.
	ConventionNone Convention = iota
	// ConventionLogical marks nodes of the logical plan subtree.
	ConventionLogical
)

// String returns the convention tag used in digests.
func (c Convention) String() string {
	switch c {
	case ConventionLogical:
		return "logical"
	default:
		return "none"
	}
}

// Kind discriminates the closed set of node types.
type Kind uint8

const (
	KindTableScan Kind = iota
	KindScan
	KindProject
	KindFilter
	KindJoin
	KindValues
)

// String returns the node kind name used in digests.
func (k Kind) String() string {
	switch k {
	case KindTableScan:
		return "TableScan"
	case KindScan:
		return "Scan"
	case KindProject:
		return "Project"
	case KindFilter:
		return "Filter"
	case KindJoin:
		return "Join"
	case KindValues:
		return "Values"
	default:
		return "Unknown"
	}
}
