package compiler

import (
	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/diag"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// buildFlowVariables builds a VariableDAG for every flow/parameter/tempFlow
// variable discovered in the model, in discovery order, so the Definition
// Orderer's flow-variable list (§4.5, §4.7 step 1: "for each flow variable
// in order") is complete before ordering runs rather than only containing
// whatever a stock's derivative, a Godley column, or a sink happened to
// reach. Stocks and constants are left alone here: stocks are built by
// buildIntegrals, and a constant only ever exists as another node's operand.
func (c *Compiler) buildFlowVariables() error {
	for _, valueID := range c.varOrder {
		item := c.varItems[valueID]
		switch item.Kind {
		case registry.Flow, registry.Parameter, registry.TempFlow:
			if _, err := c.MakeDAGVariable(valueID, item.Name, item.Kind); err != nil {
				return err
			}
		}
	}
	return nil
}

// MakeDAGVariable returns the cached node for valueID, building it on miss
// (§4.2 "makeDAG(valueId, name, kind)"). constant kind short-circuits to a
// ConstantDAG wrapping the registry's existing slot; anything else becomes
// a VariableDAG, registered in the cache before its defining wire is
// resolved so a cyclic reference back to it (broken downstream by an
// integral) sees a stable identity rather than recursing forever.
func (c *Compiler) MakeDAGVariable(valueID, name string, kind registry.Kind) (*dag.Node, error) {
	key := "var:" + valueID
	if n, ok := c.Cache.Lookup(key); ok {
		return n, nil
	}

	if kind == registry.Constant {
		_, existed := c.Reg.Get(valueID)
		slot := c.Reg.GetOrCreate(valueID, name, registry.Constant)
		if !existed {
			// A user-authored constant variable carries its own literal
			// value; the preloaded constant:zero/constant:one singletons
			// already have theirs set by registry.New, so this only fires
			// for a fresh slot.
			if item, ok := c.varItems[valueID]; ok {
				slot.Init = item.Init
			}
		}
		n := dag.NewConstant(slot)
		c.Cache.Insert(key, n)
		return n, nil
	}

	slot := c.Reg.GetOrCreate(valueID, name, kind)
	c.Reg.AllocValue(slot)
	n := dag.NewVariable(valueID, valueID, c.uniqueName(name), kind, slot.Init)
	c.Cache.Insert(key, n)

	if kind == registry.Stock {
		c.stockVars = append(c.stockVars, n)
		if intOp, ok := c.intOps[valueID]; ok {
			n.IntOp = intOp
		}
	} else {
		c.flowVars = append(c.flowVars, n)
	}

	if kind != registry.Integral {
		if item, ok := c.varItems[valueID]; ok {
			if w := item.DefiningWire(); w != nil {
				rhs, err := c.GetNodeFromWire(w)
				if err != nil {
					return nil, err
				}
				n.RHS = rhs
			}
		}
	}

	return n, nil
}

// MakeDAGOperation returns the cached node for op, building it on miss
// (§4.2 "makeDAG(op)"). The node is cached keyed on the operator's item
// identity before its input ports are walked, for the same cycle-tolerance
// reason as MakeDAGVariable.
func (c *Compiler) MakeDAGOperation(op *model.Operation) (*dag.Node, error) {
	key := "op:" + op.ID()
	if n, ok := c.Cache.Lookup(key); ok {
		return n, nil
	}

	if op.Kind == model.OpDifferentiate {
		return c.makeDifferentiate(key, op)
	}

	n := dag.NewOperation(op.ID(), op.Kind, op.State, len(op.InputPorts()))
	c.Cache.Insert(key, n)

	for i, port := range op.InputPorts() {
		args := make([]*dag.Node, 0, len(port.Wires))
		for _, w := range port.Wires {
			arg, err := c.GetNodeFromWire(w)
			if err != nil {
				return nil, err
			}
			if arg != nil {
				args = append(args, arg)
			}
		}
		n.Arguments[i] = args
	}

	return n, nil
}

// MakeDAGSwitch lowers sw immediately into a sum-of-step-function
// OperationDAG (§4.2 "makeDAG(switch)"): for N cases with selector s and
// branches b0..b_{N-1},
//
//	b0*(s<1) + sum_{i=1..N-2} bi*((s<i+1) - (s<i)) + b_{N-1}*(1 - (s<N-1))
//
// Every input port must be wired.
func (c *Compiler) MakeDAGSwitch(sw *model.SwitchIcon) (*dag.Node, error) {
	selectorNode, err := c.requireSingleWired(sw.SelectorPort(), sw.ID())
	if err != nil {
		return nil, err
	}

	branches := make([]*dag.Node, sw.NumCases)
	for i := 0; i < sw.NumCases; i++ {
		b, err := c.requireSingleWired(sw.BranchPort(i), sw.ID())
		if err != nil {
			return nil, err
		}
		branches[i] = b
	}

	terms := make([]*dag.Node, 0, sw.NumCases)

	lessThan := func(threshold int) *dag.Node {
		thresholdConst := c.anonymousConstantNumber(float64(threshold))
		cmp := c.anonymousOperation(model.OpLess, 2)
		cmp.Arguments[0] = []*dag.Node{selectorNode}
		cmp.Arguments[1] = []*dag.Node{thresholdConst}
		return cmp
	}

	// term 0: b0 * (s < 1)
	terms = append(terms, c.anonymousMultiply(branches[0], lessThan(1)))

	// middle terms: bi * ((s < i+1) - (s < i))
	for i := 1; i <= sw.NumCases-2; i++ {
		diff := c.anonymousOperation(model.OpSubtract, 2)
		diff.Arguments[0] = []*dag.Node{lessThan(i + 1)}
		diff.Arguments[1] = []*dag.Node{lessThan(i)}
		terms = append(terms, c.anonymousMultiply(branches[i], diff))
	}

	// last term: b_{N-1} * (1 - (s < N-1))
	last := sw.NumCases - 1
	oneMinus := c.anonymousOperation(model.OpSubtract, 2)
	oneMinus.Arguments[0] = []*dag.Node{c.anonymousConstantNumber(1)}
	oneMinus.Arguments[1] = []*dag.Node{lessThan(last)}
	terms = append(terms, c.anonymousMultiply(branches[last], oneMinus))

	sum := c.anonymousOperation(model.OpAdd, 1)
	sum.Arguments[0] = terms

	c.Cache.Insert("op:"+sw.ID(), sum)
	return sum, nil
}

func (c *Compiler) requireSingleWired(port *model.Port, itemID string) (*dag.Node, error) {
	if len(port.Wires) == 0 {
		return nil, diag.Errorf(itemID, "input port not wired")
	}
	return c.GetNodeFromWire(port.Wires[0])
}

func (c *Compiler) anonymousMultiply(a, b *dag.Node) *dag.Node {
	n := c.anonymousOperation(model.OpMultiply, 2)
	n.Arguments[0] = []*dag.Node{a}
	n.Arguments[1] = []*dag.Node{b}
	return n
}

func (c *Compiler) anonymousOperation(kind model.OpKind, numPorts int) *dag.Node {
	n := dag.NewOperation("", kind, model.OpState{}, numPorts)
	c.Cache.InsertAnonymous(n)
	return n
}

func (c *Compiler) anonymousConstantNumber(v float64) *dag.Node {
	slot := registry.NewVariableValue("", registry.Constant)
	slot.Init = registry.NumberInit(v)
	n := dag.NewConstant(slot)
	c.Cache.InsertAnonymous(n)
	return n
}

// GetNodeFromWire resolves wire's source item to its cached node, building
// it on miss; it returns (nil, nil) when the source is undefined (§4.2).
func (c *Compiler) GetNodeFromWire(wire *model.Wire) (*dag.Node, error) {
	if wire == nil || wire.From == nil || wire.From.Item == nil {
		return nil, nil
	}
	switch item := wire.From.Item.(type) {
	case *model.Variable:
		return c.MakeDAGVariable(item.ValueID(), item.Name, item.Kind)
	case *model.Operation:
		return c.MakeDAGOperation(item)
	case *model.SwitchIcon:
		return c.MakeDAGSwitch(item)
	case *model.IntOp:
		return c.MakeDAGVariable(item.IntVar.ValueID(), item.IntVar.Name, item.IntVar.Kind)
	default:
		return nil, nil
	}
}
