package compiler

import (
	"fmt"

	"github.com/sysdyn/sdcompile/internal/graph"
	"github.com/sysdyn/sdcompile/pkg/dag"
)

// nodeRef adapts a *dag.Node to internal/graph.Node so the expression
// DAG's dependency structure can be exported as a generic graph for
// debugging (the "sdc graph" CLI command, mirroring the teacher's
// GraphHandler, which dumps its component DAG as Graphviz DOT). The
// budget-bounded recursion in order.go remains the actual cycle-detection
// path used during Compile, so this has no effect on the "maximum order
// recursion reached" diagnostic (§4.5, §8 scenario 3) — it exists purely
// so a developer can see *why* a model failed to order.
type nodeRef struct {
	id string
	n  *dag.Node
}

func (r nodeRef) NodeID() string { return r.id }

func refID(n *dag.Node) string {
	switch n.Kind {
	case dag.Variable, dag.IntegralInput:
		return n.Kind.String() + ":" + n.ValueID
	default:
		if n.ID != "" {
			return n.Kind.String() + ":" + n.ID
		}
		return fmt.Sprintf("%s:%p", n.Kind, n)
	}
}

// DependencyGraph renders every flow and stock variable's definitional
// dependencies (including each stock's integral input) as a
// internal/graph.Graph, suitable for MarshalDOT or Validate.
func (c *Compiler) DependencyGraph() *graph.Graph {
	g := graph.New()
	visited := make(map[*dag.Node]bool)

	var add func(n *dag.Node)
	add = func(n *dag.Node) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		ref := nodeRef{refID(n), n}
		g.Add(ref)
		for _, dep := range c.wiredArguments(n) {
			if dep == nil {
				continue
			}
			add(dep)
			g.AddEdge(ref, nodeRef{refID(dep), dep})
		}
	}

	for _, n := range c.flowVars {
		add(n)
	}
	for _, n := range c.stockVars {
		add(n)
		if input, ok := c.Cache.GetIntegralInput(n.ValueID); ok {
			add(input)
			g.AddEdge(nodeRef{refID(n), n}, nodeRef{refID(input), input})
		}
	}
	return g
}
