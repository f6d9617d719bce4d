// Package substraitio converts Substrait plan documents into the untagged
// logical node tree the rewrite rules operate on. Only the relation shapes
// the planner understands are translated; everything else is rejected
// rather than silently dropped.
package substraitio

import (
	"fmt"

	pb "github.com/substrait-io/substrait-protobuf/go/substraitpb"

	"riverplan/catalog"
	"riverplan/plan"
)

// PlanTrees converts every root relation in a Substrait plan into an
// untagged plan tree. ReadRel leaves become convention-less table scans;
// no catalog resolution happens here.
func PlanTrees(p *pb.Plan) ([]plan.Node, error) {
	if p == nil {
		return nil, fmt.Errorf("nil plan")
	}

	var trees []plan.Node
	for i, rel := range p.GetRelations() {
		input := rel.GetRel()
		if root := rel.GetRoot(); root != nil {
			input = root.GetInput()
		}
		if input == nil {
			continue
		}
		node, err := fromRel(input)
		if err != nil {
			return nil, fmt.Errorf("relation %d: %w", i, err)
		}
		trees = append(trees, node)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("plan has no relations")
	}
	return trees, nil
}

// resolveTableName extracts the table name from a NamedTable's compound
// identifier: the last element of e.g. ["catalog", "schema", "table"].
func resolveTableName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}

func fromRel(rel *pb.Rel) (plan.Node, error) {
	if rel == nil {
		return nil, fmt.Errorf("nil relation")
	}

	switch r := rel.RelType.(type) {
	case *pb.Rel_Read:
		if nt := r.Read.GetNamedTable(); nt != nil {
			name := resolveTableName(nt.GetNames())
			if name == "" {
				return nil, fmt.Errorf("read relation has an empty table name")
			}
			return plan.NewTableScan(catalog.TableID(name)), nil
		}
		if vt := r.Read.GetVirtualTable(); vt != nil {
			return fromVirtualTable(vt)
		}
		return nil, fmt.Errorf("unsupported read relation type")

	case *pb.Rel_Project:
		input, err := fromRel(r.Project.GetInput())
		if err != nil {
			return nil, err
		}
		exprs := make([]plan.Expr, 0, len(r.Project.GetExpressions()))
		for _, e := range r.Project.GetExpressions() {
			expr, err := fromExpr(e)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
		return plan.NewProject(input, exprs), nil

	case *pb.Rel_Filter:
		input, err := fromRel(r.Filter.GetInput())
		if err != nil {
			return nil, err
		}
		cond := plan.True()
		if c := r.Filter.GetCondition(); c != nil {
			cond, err = fromExpr(c)
			if err != nil {
				return nil, err
			}
		}
		return plan.NewFilter(input, cond), nil

	case *pb.Rel_Fetch:
		// LIMIT has no node in this model; pass through to the input.
		return fromRel(r.Fetch.GetInput())

	case *pb.Rel_Sort:
		// Ordering has no node in this model; pass through to the input.
		return fromRel(r.Sort.GetInput())

	case *pb.Rel_Join:
		left, err := fromRel(r.Join.GetLeft())
		if err != nil {
			return nil, err
		}
		right, err := fromRel(r.Join.GetRight())
		if err != nil {
			return nil, err
		}
		joinType, err := fromJoinType(r.Join.GetType())
		if err != nil {
			return nil, err
		}
		cond := plan.True()
		if c := r.Join.GetExpression(); c != nil {
			cond, err = fromExpr(c)
			if err != nil {
				return nil, err
			}
		}
		return plan.NewJoin(left, right, joinType, cond), nil

	case *pb.Rel_Cross:
		left, err := fromRel(r.Cross.GetLeft())
		if err != nil {
			return nil, err
		}
		right, err := fromRel(r.Cross.GetRight())
		if err != nil {
			return nil, err
		}
		return plan.NewJoin(left, right, plan.JoinInner, plan.True()), nil

	default:
		return nil, fmt.Errorf("unsupported relation type %T", rel.RelType)
	}
}

func fromVirtualTable(vt *pb.ReadRel_VirtualTable) (plan.Node, error) {
	rows := make([][]plan.Expr, 0, len(vt.GetValues()))
	for _, row := range vt.GetValues() {
		fields := make([]plan.Expr, 0, len(row.GetFields()))
		for _, lit := range row.GetFields() {
			expr, err := fromLiteral(lit)
			if err != nil {
				return nil, err
			}
			fields = append(fields, expr)
		}
		rows = append(rows, fields)
	}
	return plan.NewValues(rows), nil
}

func fromJoinType(t pb.JoinRel_JoinType) (plan.JoinType, error) {
	switch t {
	case pb.JoinRel_JOIN_TYPE_INNER, pb.JoinRel_JOIN_TYPE_UNSPECIFIED:
		return plan.JoinInner, nil
	case pb.JoinRel_JOIN_TYPE_LEFT:
		return plan.JoinLeft, nil
	case pb.JoinRel_JOIN_TYPE_RIGHT:
		return plan.JoinRight, nil
	case pb.JoinRel_JOIN_TYPE_OUTER:
		return plan.JoinFull, nil
	default:
		return plan.JoinInner, fmt.Errorf("unsupported join type %s", t)
	}
}

func fromExpr(e *pb.Expression) (plan.Expr, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	if sel := e.GetSelection(); sel != nil {
		if dr := sel.GetDirectReference(); dr != nil {
			if sf := dr.GetStructField(); sf != nil {
				return plan.InputRef{Index: int(sf.GetField())}, nil
			}
		}
		return nil, fmt.Errorf("unsupported field reference")
	}
	if lit := e.GetLiteral(); lit != nil {
		return fromLiteral(lit)
	}
	if fn := e.GetScalarFunction(); fn != nil {
		args := make([]plan.Expr, 0, len(fn.GetArguments()))
		for _, a := range fn.GetArguments() {
			if v := a.GetValue(); v != nil {
				arg, err := fromExpr(v)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
		}
		return plan.FuncCall{Name: fmt.Sprintf("fn_%d", fn.GetFunctionReference()), Args: args}, nil
	}
	return nil, fmt.Errorf("unsupported expression type")
}

func fromLiteral(lit *pb.Expression_Literal) (plan.Expr, error) {
	switch v := lit.LiteralType.(type) {
	case *pb.Expression_Literal_Boolean:
		return plan.Literal{Value: v.Boolean}, nil
	case *pb.Expression_Literal_I32:
		return plan.Literal{Value: int64(v.I32)}, nil
	case *pb.Expression_Literal_I64:
		return plan.Literal{Value: v.I64}, nil
	case *pb.Expression_Literal_Fp64:
		return plan.Literal{Value: v.Fp64}, nil
	case *pb.Expression_Literal_String_:
		return plan.Literal{Value: v.String_}, nil
	default:
		return nil, fmt.Errorf("unsupported literal type %T", lit.LiteralType)
	}
}

// ExtractTableNames returns deduplicated table names found in NamedTable
// ReadRel nodes across the entire plan, in first-seen order.
func ExtractTableNames(p *pb.Plan) []string {
	if p == nil {
		return nil
	}

	seen := make(map[string]bool)
	var tables []string

	var walkRel func(rel *pb.Rel)
	walkRel = func(rel *pb.Rel) {
		if rel == nil {
			return
		}
		switch r := rel.RelType.(type) {
		case *pb.Rel_Read:
			if nt := r.Read.GetNamedTable(); nt != nil {
				name := resolveTableName(nt.GetNames())
				if name != "" && !seen[name] {
					seen[name] = true
					tables = append(tables, name)
				}
			}
		case *pb.Rel_Project:
			walkRel(r.Project.GetInput())
		case *pb.Rel_Filter:
			walkRel(r.Filter.GetInput())
		case *pb.Rel_Fetch:
			walkRel(r.Fetch.GetInput())
		case *pb.Rel_Sort:
			walkRel(r.Sort.GetInput())
		case *pb.Rel_Aggregate:
			walkRel(r.Aggregate.GetInput())
		case *pb.Rel_Join:
			walkRel(r.Join.GetLeft())
			walkRel(r.Join.GetRight())
		case *pb.Rel_Cross:
			walkRel(r.Cross.GetLeft())
			walkRel(r.Cross.GetRight())
		}
	}

	for _, rel := range p.GetRelations() {
		if root := rel.GetRoot(); root != nil {
			walkRel(root.GetInput())
		}
		if bare := rel.GetRel(); bare != nil {
			walkRel(bare)
		}
	}
	return tables
}
