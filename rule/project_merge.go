package rule

import "riverplan/plan"

// ProjectMerge collapses two adjacent Project nodes into one by
// substituting the inner projection's expressions into the outer ones.
// It bails out when the outer projection references a computed (function
// call) inner expression more than once, since merging would duplicate
// the computation.
type ProjectMerge struct{}

func (ProjectMerge) Name() string { return "ProjectMerge" }

func (ProjectMerge) Apply(n plan.Node) (plan.Node, error) {
	outer, ok := n.(*plan.Project)
	if !ok {
		return nil, ErrNotApplicable
	}
	inner, ok := outer.Input().(*plan.Project)
	if !ok {
		return nil, ErrNotApplicable
	}

	innerExprs := inner.Exprs()
	outerExprs := outer.Exprs()

	refCounts := map[int]int{}
	for _, e := range outerExprs {
		countInputRefs(e, refCounts)
	}
	for index, count := range refCounts {
		if index < 0 || index >= len(innerExprs) {
			return nil, ErrNotApplicable
		}
		if count > 1 {
			if _, isCall := innerExprs[index].(plan.FuncCall); isCall {
				return nil, ErrNotApplicable
			}
		}
	}

	merged := make([]plan.Expr, len(outerExprs))
	for i, e := range outerExprs {
		merged[i] = substitute(e, innerExprs)
	}
	return plan.NewProject(inner.Input(), merged), nil
}

// countInputRefs accumulates how often each input column is referenced.
func countInputRefs(e plan.Expr, counts map[int]int) {
	switch expr := e.(type) {
	case plan.InputRef:
		counts[expr.Index]++
	case plan.FuncCall:
		for _, a := range expr.Args {
			countInputRefs(a, counts)
		}
	}
}

// substitute replaces every InputRef in e with the corresponding inner
// projection expression.
func substitute(e plan.Expr, inner []plan.Expr) plan.Expr {
	switch expr := e.(type) {
	case plan.InputRef:
		return inner[expr.Index]
	case plan.FuncCall:
		args := make([]plan.Expr, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = substitute(a, inner)
		}
		return plan.FuncCall{Name: expr.Name, Args: args}
	default:
		return e
	}
}
