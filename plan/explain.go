package plan

import "strings"

// Explain renders a plan tree as indented digest lines, root first.
func Explain(n Node) string {
	var sb strings.Builder
	explain(&sb, n, 0)
	return sb.String()
}

func explain(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Digest())
	sb.WriteByte('\n')
	for _, in := range n.Inputs() {
		explain(sb, in, depth+1)
	}
}

// Scans returns every Scan node in the tree in depth-first order.
func Scans(n Node) []*Scan {
	var out []*Scan
	walk(n, func(node Node) {
		if s, ok := node.(*Scan); ok {
			out = append(out, s)
		}
	})
	return out
}

// walk visits n and its inputs depth-first.
func walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, in := range n.Inputs() {
		walk(in, visit)
	}
}
