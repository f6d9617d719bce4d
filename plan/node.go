package plan

import (
	"fmt"
	"strings"

	"riverplan/catalog"
)

// Node is a logical plan tree node. The set of implementations is closed:
// TableScan, Scan, Project, Filter, Join, and Values. All nodes are
// immutable after construction.
type Node interface {
	Kind() Kind
	Convention() Convention
	Inputs() []Node
	// Digest is a one-line structural summary used in explain output.
	Digest() string
}

// TableScan is the generic, convention-less table access node a plan
// carries before any rule has run. It is always a leaf.
type TableScan struct {
	table catalog.TableID
}

// NewTableScan creates an untagged leaf scan over the given table
// identifier. The identifier is not resolved here; resolution happens when
// a conversion rule fires.
func NewTableScan(table catalog.TableID) *TableScan {
	return &TableScan{table: table}
}

// Table returns the referenced table identifier.
func (s *TableScan) Table() catalog.TableID { return s.table }

func (s *TableScan) Kind() Kind             { return KindTableScan }
func (s *TableScan) Convention() Convention { return ConventionNone }
func (s *TableScan) Inputs() []Node         { return nil }

func (s *TableScan) Digest() string {
	return fmt.Sprintf("TableScan(table=%s)", s.table)
}

// Project computes one output column per expression over its input.
type Project struct {
	input Node
	exprs []Expr
}

// NewProject creates a projection node over input.
func NewProject(input Node, exprs []Expr) *Project {
	out := make([]Expr, len(exprs))
	copy(out, exprs)
	return &Project{input: input, exprs: out}
}

// Input returns the single child node.
func (p *Project) Input() Node { return p.input }

// Exprs returns a copy of the projection expressions.
func (p *Project) Exprs() []Expr {
	out := make([]Expr, len(p.exprs))
	copy(out, p.exprs)
	return out
}

func (p *Project) Kind() Kind             { return KindProject }
func (p *Project) Convention() Convention { return p.input.Convention() }
func (p *Project) Inputs() []Node         { return []Node{p.input} }

func (p *Project) Digest() string {
	parts := make([]string, len(p.exprs))
	for i, e := range p.exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Project(exprs=[%s])", strings.Join(parts, ", "))
}

// Filter keeps the input rows satisfying its condition.
type Filter struct {
	input Node
	cond  Expr
}

// NewFilter creates a filter node over input.
func NewFilter(input Node, cond Expr) *Filter {
	return &Filter{input: input, cond: cond}
}

// Input returns the single child node.
func (f *Filter) Input() Node { return f.input }

// Condition returns the filter predicate.
func (f *Filter) Condition() Expr { return f.cond }

func (f *Filter) Kind() Kind             { return KindFilter }
func (f *Filter) Convention() Convention { return f.input.Convention() }
func (f *Filter) Inputs() []Node         { return []Node{f.input} }

func (f *Filter) Digest() string {
	return fmt.Sprintf("Filter(condition=%s)", f.cond)
}

// JoinType is the join variant of a Join node.
type JoinType uint8

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

// String returns the join type name used in digests.
func (t JoinType) String() string {
	switch t {
	case JoinInner:
		return "inner"
	case JoinLeft:
		return "left"
	case JoinRight:
		return "right"
	case JoinFull:
		return "full"
	default:
		return "unknown"
	}
}

// Join combines two inputs under a join condition.
type Join struct {
	left, right Node
	joinType    JoinType
	cond        Expr
}

// NewJoin creates a join node. A nil condition means an unconditioned
// (cross) join.
func NewJoin(left, right Node, joinType JoinType, cond Expr) *Join {
	return &Join{left: left, right: right, joinType: joinType, cond: cond}
}

// Left returns the left input.
func (j *Join) Left() Node { return j.left }

// Right returns the right input.
func (j *Join) Right() Node { return j.right }

// Type returns the join variant.
func (j *Join) Type() JoinType { return j.joinType }

// Condition returns the join predicate, nil for a cross join.
func (j *Join) Condition() Expr { return j.cond }

func (j *Join) Kind() Kind { return KindJoin }

func (j *Join) Convention() Convention {
	if j.left.Convention() == ConventionLogical && j.right.Convention() == ConventionLogical {
		return ConventionLogical
	}
	return ConventionNone
}

func (j *Join) Inputs() []Node { return []Node{j.left, j.right} }

func (j *Join) Digest() string {
	cond := "true"
	if j.cond != nil {
		cond = j.cond.String()
	}
	return fmt.Sprintf("Join(type=%s, on=%s)", j.joinType, cond)
}

// Values produces a fixed set of literal rows. A single empty row is the
// one-row-no-columns relation subquery unnesting leaves behind.
type Values struct {
	rows [][]Expr
}

// NewValues creates a values node from literal rows.
func NewValues(rows [][]Expr) *Values {
	out := make([][]Expr, len(rows))
	for i, r := range rows {
		row := make([]Expr, len(r))
		copy(row, r)
		out[i] = row
	}
	return &Values{rows: out}
}

// Rows returns the literal rows. Callers must not mutate them.
func (v *Values) Rows() [][]Expr { return v.rows }

func (v *Values) Kind() Kind             { return KindValues }
func (v *Values) Convention() Convention { return ConventionLogical }
func (v *Values) Inputs() []Node         { return nil }

func (v *Values) Digest() string {
	return fmt.Sprintf("Values(rows=%d, width=%d)", len(v.rows), v.width())
}

func (v *Values) width() int {
	if len(v.rows) == 0 {
		return 0
	}
	return len(v.rows[0])
}
