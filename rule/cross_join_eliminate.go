package rule

import "riverplan/plan"

// CrossJoinEliminate removes the trivial cross join subquery unnesting
// leaves behind: an inner join with an always-true condition whose right
// input is a Values node holding exactly one row with no columns. The
// join contributes nothing, so the left input replaces it.
type CrossJoinEliminate struct{}

func (CrossJoinEliminate) Name() string { return "CrossJoinEliminate" }

func (CrossJoinEliminate) Apply(n plan.Node) (plan.Node, error) {
	join, ok := n.(*plan.Join)
	if !ok {
		return nil, ErrNotApplicable
	}
	if join.Type() != plan.JoinInner || !plan.IsAlwaysTrue(join.Condition()) {
		return nil, ErrNotApplicable
	}
	values, ok := join.Right().(*plan.Values)
	if !ok {
		return nil, ErrNotApplicable
	}
	rows := values.Rows()
	if len(rows) != 1 || len(rows[0]) != 0 {
		return nil, ErrNotApplicable
	}
	return join.Left(), nil
}
