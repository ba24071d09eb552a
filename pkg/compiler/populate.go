package compiler

import (
	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/evalop"
)

// populateEvalOpVector is the top-level build step (§4.7): it emits every
// flow variable in order, every stock's integral input (recording an
// Integral triple for each), forces every sink's inputs to be evaluated,
// then ensures every visible variable's registry slot is allocated so it
// is readable through its output port.
func (c *Compiler) populateEvalOpVector(plan *evalop.Plan, orderedFlows []*dag.Node) error {
	for _, n := range orderedFlows {
		slot := c.Reg.MustGet(n.ValueID)
		if _, err := c.addEvalOps(plan, n, slot); err != nil {
			return err
		}
		c.heartbeat()
	}

	for _, n := range c.stockVars {
		stockSlot := c.Reg.MustGet(n.ValueID)
		integralInput, ok := c.Cache.GetIntegralInput(n.ValueID)
		if !ok {
			integralInput = dag.NewIntegralInput(n.ValueID, n.Name)
			c.Cache.InsertIntegralInput(n.ValueID, integralInput)
		}
		inputSlot, err := c.addEvalOps(plan, integralInput, nil)
		if err != nil {
			return err
		}

		integratorID := n.ValueID
		if n.IntOp != nil {
			integratorID = n.IntOp.ID()
		}
		plan.Integrals = append(plan.Integrals, evalop.Integral{
			StockSlot:    stockSlot.Idx(),
			IntegratorID: integratorID,
			InputSlot:    inputSlot.Idx(),
		})
		c.heartbeat()
	}

	for _, sink := range c.sinks {
		for _, port := range sink.Ports() {
			for _, w := range port.Wires {
				srcNode, err := c.GetNodeFromWire(w)
				if err != nil {
					return err
				}
				if srcNode != nil {
					if _, err := c.addEvalOps(plan, srcNode, nil); err != nil {
						return err
					}
				}
			}
		}
	}

	for valueID, item := range c.varItems {
		c.Reg.AllocValue(c.Reg.GetOrCreate(valueID, item.Name, item.Kind))
	}

	return nil
}
