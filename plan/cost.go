package plan

import "fmt"

// Cost is the resource-usage estimate of a plan node: rows produced, CPU
// work, and I/O charged. Ordering between costs (weighted sums) belongs to
// the search procedure, not to this package.
type Cost struct {
	Rows float64
	CPU  float64
	IO   float64
}

// Add returns the component-wise sum of two costs.
func (c Cost) Add(o Cost) Cost {
	return Cost{Rows: c.Rows + o.Rows, CPU: c.CPU + o.CPU, IO: c.IO + o.IO}
}

func (c Cost) String() string {
	return fmt.Sprintf("{rows=%g, cpu=%g, io=%g}", c.Rows, c.CPU, c.IO)
}
