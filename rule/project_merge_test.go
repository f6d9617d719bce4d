package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverplan/plan"
)

func TestProjectMerge(t *testing.T) {
	scan := plan.NewTableScan("t")
	inner := plan.NewProject(scan, []plan.Expr{
		plan.InputRef{Index: 2},
		plan.InputRef{Index: 0},
	})
	outer := plan.NewProject(inner, []plan.Expr{
		plan.InputRef{Index: 1},
		plan.InputRef{Index: 0},
	})

	merged, err := ProjectMerge{}.Apply(outer)
	require.NoError(t, err)

	project, ok := merged.(*plan.Project)
	require.True(t, ok)
	assert.Same(t, scan, project.Input())
	assert.Equal(t, []plan.Expr{
		plan.InputRef{Index: 0},
		plan.InputRef{Index: 2},
	}, project.Exprs())
}

func TestProjectMergeSubstitutesIntoCalls(t *testing.T) {
	inner := plan.NewProject(plan.NewTableScan("t"), []plan.Expr{
		plan.InputRef{Index: 3},
	})
	outer := plan.NewProject(inner, []plan.Expr{
		plan.FuncCall{Name: "abs", Args: []plan.Expr{plan.InputRef{Index: 0}}},
	})

	merged, err := ProjectMerge{}.Apply(outer)
	require.NoError(t, err)
	assert.Equal(t, []plan.Expr{
		plan.FuncCall{Name: "abs", Args: []plan.Expr{plan.InputRef{Index: 3}}},
	}, merged.(*plan.Project).Exprs())
}

func TestProjectMergeBailsOnRepeatedComputedRef(t *testing.T) {
	// Merging would duplicate the inner function call, so the rule must
	// leave the pair alone.
	inner := plan.NewProject(plan.NewTableScan("t"), []plan.Expr{
		plan.FuncCall{Name: "expensive", Args: []plan.Expr{plan.InputRef{Index: 0}}},
	})
	outer := plan.NewProject(inner, []plan.Expr{
		plan.InputRef{Index: 0},
		plan.InputRef{Index: 0},
	})

	_, err := ProjectMerge{}.Apply(outer)
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestProjectMergeRepeatedPlainRefIsFine(t *testing.T) {
	inner := plan.NewProject(plan.NewTableScan("t"), []plan.Expr{
		plan.InputRef{Index: 1},
	})
	outer := plan.NewProject(inner, []plan.Expr{
		plan.InputRef{Index: 0},
		plan.InputRef{Index: 0},
	})

	merged, err := ProjectMerge{}.Apply(outer)
	require.NoError(t, err)
	assert.Equal(t, []plan.Expr{
		plan.InputRef{Index: 1},
		plan.InputRef{Index: 1},
	}, merged.(*plan.Project).Exprs())
}

func TestProjectMergeNotApplicable(t *testing.T) {
	// Single project over a scan: nothing to merge.
	single := plan.NewProject(plan.NewTableScan("t"), []plan.Expr{plan.InputRef{Index: 0}})
	_, err := ProjectMerge{}.Apply(single)
	assert.ErrorIs(t, err, ErrNotApplicable)

	// Reference outside the inner projection's output.
	inner := plan.NewProject(plan.NewTableScan("t"), []plan.Expr{plan.InputRef{Index: 0}})
	outer := plan.NewProject(inner, []plan.Expr{plan.InputRef{Index: 5}})
	_, err = ProjectMerge{}.Apply(outer)
	assert.ErrorIs(t, err, ErrNotApplicable)
}
