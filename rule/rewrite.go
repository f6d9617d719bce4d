package rule

import (
	"errors"
	"fmt"

	"riverplan/plan"
)

// maxApplications bounds rule firing per node so a misbehaving rule set
// cannot loop forever.
const maxApplications = 64

// Rewrite applies the rule set in one bottom-up pass: inputs are rewritten
// first, the node is rebuilt over its rewritten inputs, then rules fire on
// it until none applies. This is a single deterministic sweep, not a
// cost-based search — the caller selects among alternatives.
func Rewrite(n plan.Node, rules []Rule) (plan.Node, error) {
	if n == nil {
		return nil, nil
	}

	rebuilt, err := rewriteInputs(n, rules)
	if err != nil {
		return nil, err
	}

	current := rebuilt
	for i := 0; i < maxApplications; i++ {
		applied := false
		for _, r := range rules {
			next, err := r.Apply(current)
			if errors.Is(err, ErrNotApplicable) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", r.Name(), err)
			}
			current = next
			applied = true
			break
		}
		if !applied {
			return current, nil
		}
	}
	return nil, fmt.Errorf("rewrite did not converge on %s", current.Digest())
}

// rewriteInputs rewrites the node's children and rebuilds the node over
// them. Leaves are returned unchanged.
func rewriteInputs(n plan.Node, rules []Rule) (plan.Node, error) {
	switch node := n.(type) {
	case *plan.Project:
		input, err := Rewrite(node.Input(), rules)
		if err != nil {
			return nil, err
		}
		return plan.NewProject(input, node.Exprs()), nil
	case *plan.Filter:
		input, err := Rewrite(node.Input(), rules)
		if err != nil {
			return nil, err
		}
		return plan.NewFilter(input, node.Condition()), nil
	case *plan.Join:
		left, err := Rewrite(node.Left(), rules)
		if err != nil {
			return nil, err
		}
		right, err := Rewrite(node.Right(), rules)
		if err != nil {
			return nil, err
		}
		return plan.NewJoin(left, right, node.Type(), node.Condition()), nil
	default:
		// TableScan, Scan, and Values are leaves.
		return n, nil
	}
}
