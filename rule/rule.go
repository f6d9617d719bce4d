// Package rule holds the logical plan rewrite rules and a single-pass
// rewriter that applies them bottom-up over a plan tree. Rules are pure:
// they either produce a replacement node or report ErrNotApplicable, and
// they never touch the input node or the catalog.
package rule

import (
	"errors"

	"riverplan/plan"
)

// ErrNotApplicable is returned by a rule whose pattern does not match the
// candidate node. The caller keeps the node unchanged.
var ErrNotApplicable = errors.New("rule not applicable")

// Rule rewrites one plan node into an equivalent node.
type Rule interface {
	Name() string
	Apply(n plan.Node) (plan.Node, error)
}
