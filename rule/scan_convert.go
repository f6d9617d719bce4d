package rule

import (
	"fmt"

	"riverplan/catalog"
	"riverplan/plan"
)

// ScanConversion converts an untagged leaf table scan into a logical scan
// populated from the catalog: the full sorted column set and the table's
// stream flag. It is a pure metadata transformation — it never inspects
// row data — so for any resolvable table it cannot fail. An unresolvable
// identifier surfaces catalog.ErrUnresolvedTable and produces no node.
type ScanConversion struct {
	Catalog catalog.Resolver
}

// NewScanConversion creates the rule bound to a catalog resolver.
func NewScanConversion(resolver catalog.Resolver) *ScanConversion {
	return &ScanConversion{Catalog: resolver}
}

func (r *ScanConversion) Name() string { return "ScanConversion" }

// Apply matches a convention-less TableScan with no inputs and produces
// the equivalent logical Scan. Anything else is not applicable.
func (r *ScanConversion) Apply(n plan.Node) (plan.Node, error) {
	source, ok := n.(*plan.TableScan)
	if !ok {
		return nil, ErrNotApplicable
	}
	if source.Convention() != plan.ConventionNone || len(source.Inputs()) != 0 {
		return nil, ErrNotApplicable
	}

	table, err := r.Catalog.Resolve(source.Table())
	if err != nil {
		return nil, fmt.Errorf("convert scan of %q: %w", source.Table(), err)
	}
	return plan.NewScan(table), nil
}
