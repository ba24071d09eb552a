package compiler

import (
	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/diag"
	"github.com/sysdyn/sdcompile/pkg/evalop"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// addEvalOps lowers n into plan, returning the VariableValue holding its
// value (§4.6). If n already has a bound result, generation is skipped;
// otherwise result is bound — to target when target is a flow slot,
// otherwise to a fresh internal temporary — and children are visited
// before any step for n itself is appended.
func (c *Compiler) addEvalOps(plan *evalop.Plan, n *dag.Node, target *registry.VariableValue) (*registry.VariableValue, error) {
	if n == nil {
		return nil, nil
	}

	if n.Kind == dag.Constant {
		slot := n.ConstValue
		c.Reg.AllocValue(slot)
		n.SetResult(slot)
		c.emitCopyIfNeeded(plan, n.ID, target, slot)
		return slot, nil
	}

	if existing := n.Result(); existing != nil {
		c.emitCopyIfNeeded(plan, n.ID, target, existing)
		return existing, nil
	}

	// Variable owns a pre-existing registry slot (allocated when the DAG
	// Builder first resolved its value-id); it always binds to it
	// directly rather than a throwaway temporary, so a later reference to
	// the same variable from anywhere else in the DAG reads the one slot
	// its defining expression actually wrote — distinct from an
	// IntegralInput sharing the stock's name, which has no slot of its
	// own and binds like any other temporary expression (its value and
	// the stock's value must never collapse onto the same slot).
	if n.Kind == dag.Variable {
		own := c.Reg.MustGet(n.ValueID)
		n.SetResult(own)
		if err := c.addVariableEvalOps(plan, n, own); err != nil {
			return nil, err
		}
		c.emitCopyIfNeeded(plan, n.ID, target, own)
		return own, nil
	}

	result := c.bindResult(n, target)

	var err error
	switch n.Kind {
	case dag.IntegralInput:
		err = c.addIntegralInputEvalOps(plan, n, result)
	case dag.GodleyColumn:
		err = c.cumulate(plan, n.ID, model.OpSubtract, [][]*dag.Node{n.Credits, n.Debits}, result)
	case dag.Operation:
		err = c.addOperationEvalOps(plan, n, result)
	}
	if err != nil {
		return nil, err
	}

	c.emitCopyIfNeeded(plan, n.ID, target, result)
	return result, nil
}

// bindResult assigns n's storage slot: target when it is a flow slot the
// caller has offered to be written into directly, otherwise a fresh
// internal temporary (§4.6).
func (c *Compiler) bindResult(n *dag.Node, target *registry.VariableValue) *registry.VariableValue {
	if target != nil && target.IsFlowVar() {
		n.SetResult(target)
		return target
	}
	tmp := registry.NewVariableValue("tmpResult", registry.TempFlow)
	c.Reg.AllocValue(tmp)
	n.SetResult(tmp)
	return tmp
}

// emitCopyIfNeeded appends copy(target, result) when target is a distinct
// flow slot (§4.6 "Post-step").
func (c *Compiler) emitCopyIfNeeded(plan *evalop.Plan, itemID string, target, result *registry.VariableValue) {
	if target == nil || result == nil || target == result || !target.IsFlowVar() {
		return
	}
	plan.Append(evalop.EvalOp{
		Kind: evalop.Copy, Dst: target.Idx(), Src1: result.Idx(),
		State: evalop.OperatorState{ItemID: itemID, Kind: "copy"},
	})
}

func (c *Compiler) addVariableEvalOps(plan *evalop.Plan, n *dag.Node, result *registry.VariableValue) error {
	if n.RHS == nil {
		return nil
	}
	_, err := c.addEvalOps(plan, n.RHS, result)
	return err
}

func (c *Compiler) addIntegralInputEvalOps(plan *evalop.Plan, n *dag.Node, result *registry.VariableValue) error {
	if n.RHS == nil {
		plan.Append(evalop.EvalOp{
			Kind: evalop.Copy, Dst: result.Idx(), Src1: c.Reg.ConstantZero().Idx(),
			State: evalop.OperatorState{ItemID: n.ValueID, Kind: "integrate"},
		})
		return nil
	}
	_, err := c.addEvalOps(plan, n.RHS, result)
	return err
}

func (c *Compiler) addOperationEvalOps(plan *evalop.Plan, n *dag.Node, result *registry.VariableValue) error {
	switch n.OpKind {
	case model.OpAdd, model.OpSubtract, model.OpMultiply, model.OpDivide, model.OpMin, model.OpMax, model.OpAnd, model.OpOr:
		return c.cumulate(plan, n.ID, n.OpKind, n.Arguments, result)
	case model.OpLess:
		return c.comparison(plan, n.ID, evalop.Less, n.Arguments, result)
	case model.OpLessEqual:
		return c.comparison(plan, n.ID, evalop.LessEqual, n.Arguments, result)
	case model.OpEqual:
		return c.comparison(plan, n.ID, evalop.Equal, n.Arguments, result)
	case model.OpRunningSum:
		return c.runningFold(plan, n.ID, evalop.RunningSum, n.OpState, n.Arguments, result)
	case model.OpRunningProduct:
		return c.runningFold(plan, n.ID, evalop.RunningProduct, n.OpState, n.Arguments, result)
	case model.OpDifference:
		return c.difference(plan, n.ID, n.OpState, n.Arguments, result)
	case model.OpIndex:
		return c.indexOrGather(plan, n.ID, evalop.Index, n.OpState, n.Arguments, result)
	case model.OpGather:
		return c.indexOrGather(plan, n.ID, evalop.Gather, n.OpState, n.Arguments, result)
	case model.OpRavel:
		return c.ravelOp(plan, n.ID, n.Arguments, result)
	case model.OpData:
		return c.dataOp(plan, n.ID, n.Arguments, result)
	case model.OpConstantDeprecated:
		return diag.Errorf(n.ID, "constant operator encountered")
	default:
		return c.genericArity(plan, n.ID, evalopKindFor(n.OpKind), n.Arguments, result)
	}
}

func evalopKindFor(k model.OpKind) evalop.Kind {
	switch k {
	case model.OpRavel:
		return evalop.Ravel
	case model.OpData:
		return evalop.Data
	default:
		return evalop.Copy
	}
}
