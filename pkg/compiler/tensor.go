package compiler

import (
	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/diag"
	"github.com/sysdyn/sdcompile/pkg/evalop"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// comparison lowers <, <=, = (§4.6 "Comparisons"). Missing arguments are
// filled with a zero temporary whose units are copied from the present
// side, so a comparison against an unwired port still type-checks against
// downstream unit validation.
func (c *Compiler) comparison(plan *evalop.Plan, itemID string, kind evalop.Kind, ports [][]*dag.Node, result *registry.VariableValue) error {
	state := evalop.OperatorState{ItemID: itemID, Kind: kind.String()}

	operand := func(p int) (*registry.VariableValue, error) {
		if p >= len(ports) {
			return nil, nil
		}
		for _, n := range ports[p] {
			v, err := c.addEvalOps(plan, n, nil)
			if err != nil {
				return nil, err
			}
			if v != nil {
				return v, nil
			}
		}
		return nil, nil
	}

	lhs, err := operand(0)
	if err != nil {
		return err
	}
	rhs, err := operand(1)
	if err != nil {
		return err
	}

	if lhs == nil && rhs == nil {
		return diag.Errorf(itemID, "input port not wired")
	}
	if lhs == nil {
		lhs = c.zeroTempWithUnitsOf(rhs)
	}
	if rhs == nil {
		rhs = c.zeroTempWithUnitsOf(lhs)
	}

	plan.Append(evalop.EvalOp{Kind: kind, Dst: result.Idx(), Src1: lhs.Idx(), Src2: rhs.Idx(), State: state})
	return nil
}

func (c *Compiler) zeroTempWithUnitsOf(present *registry.VariableValue) *registry.VariableValue {
	slot := registry.NewVariableValue("", registry.TempFlow)
	slot.Init = registry.NumberInit(0)
	if present != nil {
		slot.Units = present.Units
	}
	c.Reg.AllocValue(slot)
	return slot
}

// runningFold lowers runningSum/runningProduct: inherit xVector from the
// single input, emit the op with tensor parameters taken from operator
// state (§4.6).
func (c *Compiler) runningFold(plan *evalop.Plan, itemID string, kind evalop.Kind, state model.OpState, ports [][]*dag.Node, result *registry.VariableValue) error {
	input, err := c.singleOperand(plan, itemID, ports)
	if err != nil {
		return err
	}
	result.SetXVector(input.XVec)
	plan.Append(evalop.EvalOp{
		Kind: kind, Dst: result.Idx(), Src1: input.Idx(),
		Tensor: evalop.TensorParams{Axis: state.Axis, Arg: state.Arg, Direction: state.Direction},
		State:  evalop.OperatorState{ItemID: itemID, Kind: kind.String()},
	})
	return nil
}

// difference lowers the difference operator: a subtraction of the input
// with itself, with the per-element index list rewritten to subtract
// across a lag of state.Arg positions along state.Axis (§4.6, supplemented
// feature 6). Positive lag trims the leading slice; negative trims the
// trailing slice. Out-of-bound pairs are discarded and the result's
// xVector is resized to match.
func (c *Compiler) difference(plan *evalop.Plan, itemID string, state model.OpState, ports [][]*dag.Node, result *registry.VariableValue) error {
	input, err := c.singleOperand(plan, itemID, ports)
	if err != nil {
		return err
	}

	stride, size, err := input.XVec.StrideAndSize(state.Axis)
	if err != nil {
		return diag.Errorf(itemID, "%s", err)
	}
	arg := state.Arg
	if arg >= size || -arg >= size {
		return diag.Errorf(itemID, "difference argument %d greater than vector length %d", arg, size)
	}

	resized, err := input.XVec.Trim(state.Axis, arg)
	if err != nil {
		return diag.Errorf(itemID, "%s", err)
	}
	result.SetXVector(resized)

	n := input.NumElements()
	trimmed := size - arg
	if arg < 0 {
		trimmed = size + arg
	}
	elements := make([]evalop.ElementMapping, 0, n)
	for i := 0; i < n; i++ {
		pos := (i / stride) % size
		lagPos := pos - arg
		if lagPos < 0 || lagPos >= size {
			continue
		}
		lagOffset := (lagPos - pos) * stride
		dstPos := pos
		if arg > 0 {
			dstPos = pos - arg
		}
		// Re-index into the trimmed result: outer block, position along
		// the axis, then the offset within the axis's stride.
		dst := (i/(stride*size))*stride*trimmed + dstPos*stride + i%stride
		elements = append(elements, evalop.ElementMapping{Dst: dst, Src1: i, Src2: i + lagOffset})
	}

	plan.Append(evalop.EvalOp{
		Kind: evalop.Difference, Dst: result.Idx(), Src1: input.Idx(), Src2: input.Idx(),
		Tensor:   evalop.TensorParams{Axis: state.Axis, Arg: state.Arg},
		Elements: elements,
		State:    evalop.OperatorState{ItemID: itemID, Kind: "difference"},
	})
	return nil
}

// indexOrGather inherits xVector from input 0 and replaces the selected
// axis's labels with 0..n-1 as plain values (§4.6).
func (c *Compiler) indexOrGather(plan *evalop.Plan, itemID string, kind evalop.Kind, state model.OpState, ports [][]*dag.Node, result *registry.VariableValue) error {
	input, err := c.singleOperand(plan, itemID, ports)
	if err != nil {
		return err
	}
	result.SetXVector(input.XVec.IndexAxis(state.Axis))
	plan.Append(evalop.EvalOp{
		Kind: kind, Dst: result.Idx(), Src1: input.Idx(),
		Tensor: evalop.TensorParams{Axis: state.Axis},
		State:  evalop.OperatorState{ItemID: itemID, Kind: kind.String()},
	})
	return nil
}

// ravelOp asks the external Ravel subsystem to dimension result from
// input's data cube and emits a RavelEvalOp step, following the original's
// two-phase dimensioning: LoadDataFromSlice runs even when the input port
// is unwired, so the output stays dimensioned (supplemented feature 3).
func (c *Compiler) ravelOp(plan *evalop.Plan, itemID string, ports [][]*dag.Node, result *registry.VariableValue) error {
	var input *registry.VariableValue
	if len(ports) > 0 {
		for _, n := range ports[0] {
			v, err := c.addEvalOps(plan, n, nil)
			if err != nil {
				return err
			}
			if v != nil {
				input = v
				break
			}
		}
	}

	if input != nil {
		c.Ravel.LoadDataCubeFromVariable(input)
	}
	c.Ravel.LoadDataFromSlice(result)

	if input != nil {
		plan.Append(evalop.EvalOp{
			Kind: evalop.Ravel, Dst: result.Idx(), Src1: input.Idx(),
			State: evalop.OperatorState{ItemID: itemID, Kind: "ravel"},
		})
	}
	return nil
}

// dataOp is a single-input lookup; exactly one operand is required (§4.6).
func (c *Compiler) dataOp(plan *evalop.Plan, itemID string, ports [][]*dag.Node, result *registry.VariableValue) error {
	input, err := c.singleOperand(plan, itemID, ports)
	if err != nil {
		return err
	}
	result.SetXVector(input.XVec)
	plan.Append(evalop.EvalOp{
		Kind: evalop.Data, Dst: result.Idx(), Src1: input.Idx(),
		State: evalop.OperatorState{ItemID: itemID, Kind: "data"},
	})
	return nil
}

// singleOperand requires exactly one operand across all of ports,
// evaluating it. Used by the single-input tensor ops and data.
func (c *Compiler) singleOperand(plan *evalop.Plan, itemID string, ports [][]*dag.Node) (*registry.VariableValue, error) {
	var nodes []*dag.Node
	for _, p := range ports {
		nodes = append(nodes, p...)
	}
	if len(nodes) != 1 {
		return nil, diag.Errorf(itemID, "inputs to operation incorrectly wired")
	}
	v, err := c.addEvalOps(plan, nodes[0], nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, diag.Errorf(itemID, "input port not wired")
	}
	return v, nil
}

// genericArity is the fallback for operator kinds with no dedicated
// lowering above: exactly one operand per wired port, dispatched by total
// arity (§4.6 "Generic arity fallback").
func (c *Compiler) genericArity(plan *evalop.Plan, itemID string, kind evalop.Kind, ports [][]*dag.Node, result *registry.VariableValue) error {
	var operands []*registry.VariableValue
	for _, p := range ports {
		if len(p) == 0 {
			continue
		}
		if len(p) != 1 {
			return diag.Errorf(itemID, "input port not wired")
		}
		v, err := c.addEvalOps(plan, p[0], nil)
		if err != nil {
			return err
		}
		operands = append(operands, v)
	}

	state := evalop.OperatorState{ItemID: itemID, Kind: kind.String()}
	switch len(operands) {
	case 0:
		plan.Append(evalop.EvalOp{Kind: kind, Dst: result.Idx(), State: state})
	case 1:
		plan.Append(evalop.EvalOp{Kind: kind, Dst: result.Idx(), Src1: operands[0].Idx(), State: state})
	case 2:
		plan.Append(evalop.EvalOp{Kind: kind, Dst: result.Idx(), Src1: operands[0].Idx(), Src2: operands[1].Idx(), State: state})
	default:
		return diag.Errorf(itemID, "too many arguments")
	}
	return nil
}
