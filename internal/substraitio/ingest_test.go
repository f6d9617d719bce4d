package substraitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pb "github.com/substrait-io/substrait-protobuf/go/substraitpb"

	"riverplan/catalog"
	"riverplan/plan"
)

func namedTableRead(name string) *pb.Rel {
	return &pb.Rel{
		RelType: &pb.Rel_Read{
			Read: &pb.ReadRel{
				ReadType: &pb.ReadRel_NamedTable_{
					NamedTable: &pb.ReadRel_NamedTable{
						Names: []string{name},
					},
				},
			},
		},
	}
}

func projectRel(input *pb.Rel, fieldRefs ...int32) *pb.Rel {
	exprs := make([]*pb.Expression, len(fieldRefs))
	for i, f := range fieldRefs {
		exprs[i] = fieldRef(f)
	}
	return &pb.Rel{
		RelType: &pb.Rel_Project{
			Project: &pb.ProjectRel{
				Input:       input,
				Expressions: exprs,
			},
		},
	}
}

func filterRel(input *pb.Rel, cond *pb.Expression) *pb.Rel {
	return &pb.Rel{
		RelType: &pb.Rel_Filter{
			Filter: &pb.FilterRel{
				Input:     input,
				Condition: cond,
			},
		},
	}
}

func fetchRel(input *pb.Rel, count int64) *pb.Rel {
	return &pb.Rel{
		RelType: &pb.Rel_Fetch{
			Fetch: &pb.FetchRel{
				Input:     input,
				CountMode: &pb.FetchRel_Count{Count: count},
			},
		},
	}
}

func crossRel(left, right *pb.Rel) *pb.Rel {
	return &pb.Rel{
		RelType: &pb.Rel_Cross{
			Cross: &pb.CrossRel{Left: left, Right: right},
		},
	}
}

func fieldRef(field int32) *pb.Expression {
	return &pb.Expression{
		RexType: &pb.Expression_Selection{
			Selection: &pb.Expression_FieldReference{
				ReferenceType: &pb.Expression_FieldReference_DirectReference{
					DirectReference: &pb.Expression_ReferenceSegment{
						ReferenceType: &pb.Expression_ReferenceSegment_StructField_{
							StructField: &pb.Expression_ReferenceSegment_StructField{
								Field: field,
							},
						},
					},
				},
			},
		},
	}
}

func boolLiteral(v bool) *pb.Expression {
	return &pb.Expression{
		RexType: &pb.Expression_Literal_{
			Literal: &pb.Expression_Literal{
				LiteralType: &pb.Expression_Literal_Boolean{Boolean: v},
			},
		},
	}
}

func makePlan(input *pb.Rel) *pb.Plan {
	return &pb.Plan{
		Relations: []*pb.PlanRel{
			{
				RelType: &pb.PlanRel_Root{
					Root: &pb.RelRoot{Input: input},
				},
			},
		},
	}
}

func TestPlanTreesSimpleScan(t *testing.T) {
	trees, err := PlanTrees(makePlan(namedTableRead("orders")))
	require.NoError(t, err)
	require.Len(t, trees, 1)

	scan, ok := trees[0].(*plan.TableScan)
	require.True(t, ok)
	assert.Equal(t, catalog.TableID("orders"), scan.Table())
	assert.Equal(t, plan.ConventionNone, scan.Convention())
}

func TestPlanTreesQualifiedName(t *testing.T) {
	rel := &pb.Rel{
		RelType: &pb.Rel_Read{
			Read: &pb.ReadRel{
				ReadType: &pb.ReadRel_NamedTable_{
					NamedTable: &pb.ReadRel_NamedTable{
						Names: []string{"lake", "main", "orders"},
					},
				},
			},
		},
	}
	trees, err := PlanTrees(makePlan(rel))
	require.NoError(t, err)
	assert.Equal(t, catalog.TableID("orders"), trees[0].(*plan.TableScan).Table())
}

func TestPlanTreesProjectFilterFetch(t *testing.T) {
	input := projectRel(fetchRel(filterRel(namedTableRead("orders"), boolLiteral(true)), 10), 0, 2)

	trees, err := PlanTrees(makePlan(input))
	require.NoError(t, err)

	project, ok := trees[0].(*plan.Project)
	require.True(t, ok)
	assert.Equal(t, []plan.Expr{plan.InputRef{Index: 0}, plan.InputRef{Index: 2}}, project.Exprs())

	// Fetch has no node of its own; the filter sits right under the project.
	filter, ok := project.Input().(*plan.Filter)
	require.True(t, ok)
	assert.True(t, plan.IsAlwaysTrue(filter.Condition()))

	_, ok = filter.Input().(*plan.TableScan)
	assert.True(t, ok)
}

func TestPlanTreesCrossJoin(t *testing.T) {
	trees, err := PlanTrees(makePlan(crossRel(namedTableRead("a"), namedTableRead("b"))))
	require.NoError(t, err)

	join, ok := trees[0].(*plan.Join)
	require.True(t, ok)
	assert.Equal(t, plan.JoinInner, join.Type())
	assert.True(t, plan.IsAlwaysTrue(join.Condition()))
}

func TestPlanTreesVirtualTable(t *testing.T) {
	rel := &pb.Rel{
		RelType: &pb.Rel_Read{
			Read: &pb.ReadRel{
				ReadType: &pb.ReadRel_VirtualTable_{
					VirtualTable: &pb.ReadRel_VirtualTable{
						Values: []*pb.Expression_Literal_Struct{{}},
					},
				},
			},
		},
	}
	trees, err := PlanTrees(makePlan(rel))
	require.NoError(t, err)

	values, ok := trees[0].(*plan.Values)
	require.True(t, ok)
	require.Len(t, values.Rows(), 1)
	assert.Empty(t, values.Rows()[0])
}

func TestPlanTreesErrors(t *testing.T) {
	tests := []struct {
		name    string
		plan    *pb.Plan
		wantErr string
	}{
		{name: "nil_plan", plan: nil, wantErr: "nil plan"},
		{name: "no_relations", plan: &pb.Plan{}, wantErr: "no relations"},
		{
			name: "unnamed_read",
			plan: makePlan(&pb.Rel{
				RelType: &pb.Rel_Read{Read: &pb.ReadRel{}},
			}),
			wantErr: "unsupported read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanTrees(tt.plan)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExtractTableNames(t *testing.T) {
	input := crossRel(
		projectRel(namedTableRead("orders"), 0),
		filterRel(namedTableRead("orders"), boolLiteral(true)),
	)
	names := ExtractTableNames(makePlan(input))
	assert.Equal(t, []string{"orders"}, names)

	names = ExtractTableNames(makePlan(crossRel(namedTableRead("a"), namedTableRead("b"))))
	assert.Equal(t, []string{"a", "b"}, names)

	assert.Nil(t, ExtractTableNames(nil))
}
