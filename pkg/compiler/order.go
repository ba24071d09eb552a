package compiler

import (
	"sort"

	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/diag"
)

// maxOrderBudget bounds the depth of order's recursion; exhausting it means
// the model contains a definition cycle no integral breaks (§4.5).
const maxOrderBudget = 100000

// order returns n's definition order, memoizing it on the node. integrate
// (IntegralInput) nodes are fixed at 0, constants at 1; everything else is
// one more than the deepest wired argument (§4.5).
func (c *Compiler) order(n *dag.Node, budget int) (int, error) {
	if n == nil {
		return 0, nil
	}
	if o, ok := n.Order(); ok {
		return o, nil
	}
	if budget <= 0 {
		return 0, diag.Errorf(n.ID, "maximum order recursion reached")
	}

	switch n.Kind {
	case dag.IntegralInput:
		n.SetOrder(0)
		return 0, nil
	case dag.Constant:
		n.SetOrder(1)
		return 1, nil
	}

	max := 0
	for _, arg := range c.wiredArguments(n) {
		o, err := c.order(arg, budget-1)
		if err != nil {
			return 0, err
		}
		if o+1 > max {
			max = o + 1
		}
	}
	n.SetOrder(max)
	return max, nil
}

// wiredArguments returns every node n's definition directly depends on.
func (c *Compiler) wiredArguments(n *dag.Node) []*dag.Node {
	switch n.Kind {
	case dag.Variable:
		if n.RHS != nil {
			return []*dag.Node{n.RHS}
		}
		return nil
	case dag.Operation:
		var out []*dag.Node
		for _, portArgs := range n.Arguments {
			out = append(out, portArgs...)
		}
		return out
	case dag.GodleyColumn:
		out := append([]*dag.Node{}, n.Credits...)
		return append(out, n.Debits...)
	default:
		return nil
	}
}

// orderFlowVariables computes every flow variable's order and returns them
// sorted ascending; relative order within a tie is the order in which the
// nodes were built (discovery order, except that a variable first reached
// through another's definition is built at that point) (§4.5: "must not
// affect observable outputs").
func (c *Compiler) orderFlowVariables() ([]*dag.Node, error) {
	for _, n := range c.flowVars {
		if _, err := c.order(n, maxOrderBudget); err != nil {
			return nil, err
		}
	}

	ordered := append([]*dag.Node{}, c.flowVars...)
	sort.SliceStable(ordered, func(i, j int) bool {
		oi, _ := ordered[i].Order()
		oj, _ := ordered[j].Order()
		return oi < oj
	})
	return ordered, nil
}
