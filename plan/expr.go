package plan

import (
	"fmt"
	"strings"
)

// Expr is a scalar expression inside a Project, Filter, or Join node. The
// model is deliberately small: column references, literals, and calls.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// InputRef references the i-th output column of the node's input.
type InputRef struct {
	Index int
}

func (InputRef) isExpr() {}

func (e InputRef) String() string { return fmt.Sprintf("$%d", e.Index) }

// Literal is a constant value.
type Literal struct {
	Value any
}

func (Literal) isExpr() {}

func (e Literal) String() string { return fmt.Sprintf("%v", e.Value) }

// FuncCall is a named function applied to argument expressions.
type FuncCall struct {
	Name string
	Args []Expr
}

func (FuncCall) isExpr() {}

func (e FuncCall) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}

// True returns the always-true condition.
func True() Expr { return Literal{Value: true} }

// IsAlwaysTrue reports whether the expression is the boolean literal true.
// A nil condition counts as true (an unconditioned join is a cross join).
func IsAlwaysTrue(e Expr) bool {
	if e == nil {
		return true
	}
	lit, ok := e.(Literal)
	if !ok {
		return false
	}
	b, ok := lit.Value.(bool)
	return ok && b
}
