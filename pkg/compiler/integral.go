package compiler

import (
	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/diag"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// buildIntegrals discovers every IntOp in the model and registers an
// IntegralInputVariableDAG placeholder under its stock's value-id,
// resolving the derivative expression where possible and deferring
// forward references to the second pass (§4.4).
func (c *Compiler) buildIntegrals() error {
	for valueID, intOp := range c.intOps {
		stockNode, err := c.MakeDAGVariable(valueID, intOp.IntVar.Name, registry.Stock)
		if err != nil {
			return err
		}

		integralInput, ok := c.Cache.GetIntegralInput(valueID)
		if !ok {
			integralInput = dag.NewIntegralInput(valueID, stockNode.Name)
			c.Cache.InsertIntegralInput(valueID, integralInput)
		}

		if w := intOp.InputWire(); w != nil {
			rhs, err := c.GetNodeFromWire(w)
			if err != nil {
				c.deferred = append(c.deferred, deferredInput{target: integralInput, wire: w})
			} else {
				integralInput.RHS = rhs
			}
		}

		if initWire := intOp.InitWire(); initWire != nil {
			if err := c.resolveInit(stockNode, initWire); err != nil {
				return err
			}
		}
	}

	// Any stock discovered without an IntOp (e.g. one fed purely by a
	// Godley column) still needs a placeholder so the code generator can
	// uniformly emit a derivative expression later (§4.4 final sentence).
	for valueID, v := range c.varItems {
		if v.Kind != registry.Stock {
			continue
		}
		if _, ok := c.Cache.GetIntegralInput(valueID); !ok {
			if _, err := c.MakeDAGVariable(valueID, v.Name, registry.Stock); err != nil {
				return err
			}
			c.Cache.InsertIntegralInput(valueID, dag.NewIntegralInput(valueID, v.Name))
		}
	}

	return nil
}

// resolveInit resolves an integrator's init port: a variable node supplies
// a name-valued init, a constant supplies a numeric init (and triggers the
// stock's OnConstantInit hook, supplemented from the original's
// adjustSliderBounds call), anything else is a hard error (§4.4).
func (c *Compiler) resolveInit(stockNode *dag.Node, wire *model.Wire) error {
	if wire.From == nil || wire.From.Item == nil {
		return nil
	}
	switch item := wire.From.Item.(type) {
	case *model.Variable:
		slot := c.Reg.MustGet(stockNode.ValueID)
		if item.Kind == registry.Constant {
			// Assigning the numeric init must happen before the stock's
			// OnConstantInit hook runs, or the hook would observe the
			// stock's prior (possibly zero) init (supplemented from the
			// original's adjustSliderBounds ordering, §4.4 note 4).
			slot.Init = registry.NumberInit(item.Init.Number)
			stockNode.Init = slot.Init
			if slot.OnConstantInit != nil {
				slot.OnConstantInit(slot)
			}
			return nil
		}
		stockNode.Init = registry.NameInit(item.ValueID())
		slot.Init = stockNode.Init
		return nil
	case *model.Operation:
		if item.Kind == model.OpConstantDeprecated {
			return diag.Errorf(item.ID(), "constant operator encountered")
		}
		return diag.Errorf(item.ID(), "only constants, parameters and variables can be connected to the initial value port")
	default:
		return diag.Errorf(stockNode.ValueID, "only constants, parameters and variables can be connected to the initial value port")
	}
}

// resolveDeferredIntegralInputs runs the second pass over every
// integral-input wire whose resolution forward-referenced a not-yet-built
// integral during buildIntegrals (§4.4 final paragraph).
func (c *Compiler) resolveDeferredIntegralInputs() error {
	for _, d := range c.deferred {
		rhs, err := c.GetNodeFromWire(d.wire)
		if err != nil {
			return err
		}
		d.target.RHS = rhs
	}
	c.deferred = nil
	return nil
}
