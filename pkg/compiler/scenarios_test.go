package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/evalop"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/ravel"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// evalPlan is a minimal reference interpreter for an evalop.Plan, used only
// to check a compile's arithmetic result end to end; it is not part of the
// compiler itself (that responsibility belongs to the external integrator,
// §6).
func evalPlan(reg *registry.Registry, plan *evalop.Plan) []float64 {
	vals := make([]float64, len(reg.Arena()))
	for i, slot := range reg.Arena() {
		if !slot.Init.IsName {
			vals[i] = slot.Init.Number
		}
	}
	for _, op := range plan.Ops {
		switch op.Kind {
		case evalop.Copy:
			vals[op.Dst] = vals[op.Src1]
		case evalop.ConstantOp:
			vals[op.Dst] = op.Value
		case evalop.Add:
			vals[op.Dst] = vals[op.Src1] + vals[op.Src2]
		case evalop.Subtract:
			vals[op.Dst] = vals[op.Src1] - vals[op.Src2]
		case evalop.Multiply:
			vals[op.Dst] = vals[op.Src1] * vals[op.Src2]
		case evalop.Divide:
			vals[op.Dst] = vals[op.Src1] / vals[op.Src2]
		case evalop.Min:
			if vals[op.Src1] < vals[op.Src2] {
				vals[op.Dst] = vals[op.Src1]
			} else {
				vals[op.Dst] = vals[op.Src2]
			}
		case evalop.Max:
			if vals[op.Src1] > vals[op.Src2] {
				vals[op.Dst] = vals[op.Src1]
			} else {
				vals[op.Dst] = vals[op.Src2]
			}
		case evalop.Less:
			if vals[op.Src1] < vals[op.Src2] {
				vals[op.Dst] = 1
			} else {
				vals[op.Dst] = 0
			}
		case evalop.LessEqual:
			if vals[op.Src1] <= vals[op.Src2] {
				vals[op.Dst] = 1
			} else {
				vals[op.Dst] = 0
			}
		case evalop.Equal:
			if vals[op.Src1] == vals[op.Src2] {
				vals[op.Dst] = 1
			} else {
				vals[op.Dst] = 0
			}
		}
	}
	return vals
}

func newCompiler() (*registry.Registry, *Compiler) {
	reg := registry.New()
	return reg, New(reg, ravel.NoOp{}, nil)
}

func addConstant(g *model.Group, items *[]model.Item, name string, value float64) *model.Variable {
	v := model.NewVariable(g.ValueID(name), name, registry.Constant, g)
	v.Init = registry.NumberInit(value)
	*items = append(*items, v)
	return v
}

func addFlow(g *model.Group, items *[]model.Item, name string) *model.Variable {
	v := model.NewVariable(g.ValueID(name), name, registry.Flow, g)
	*items = append(*items, v)
	return v
}

// Scenario 1 (§8): A = 2 + 3*B; B = 5 — order(A) > order(B), plan evaluates
// B before A, final value 17.
func TestOrderAndArithmeticFold(t *testing.T) {
	root := &model.Group{}
	var items []model.Item

	c5 := addConstant(root, &items, "five", 5)
	c2 := addConstant(root, &items, "two", 2)
	c3 := addConstant(root, &items, "three", 3)
	b := addFlow(root, &items, "B")
	a := addFlow(root, &items, "A")

	model.AddWire(c5.OutPort(), b.DefPort())

	mul := model.NewOperation("mul", model.OpMultiply, 1)
	model.AddWire(c3.OutPort(), mul.InputPorts()[0])
	model.AddWire(b.OutPort(), mul.InputPorts()[0])

	add := model.NewOperation("add", model.OpAdd, 1)
	model.AddWire(c2.OutPort(), add.InputPorts()[0])
	model.AddWire(mul.OutPort(), add.InputPorts()[0])

	model.AddWire(add.OutPort(), a.DefPort())

	root.Items = items

	reg, c := newCompiler()
	plan, err := c.Compile(root)
	require.NoError(t, err)

	ordered := c.OrderedFlowVariables()
	require.Len(t, ordered, 2)
	assert.Equal(t, "B", ordered[0].Name, "B must be evaluated before A")
	assert.Equal(t, "A", ordered[1].Name)

	oa, ok := c.Cache.Lookup("var:" + a.ValueID())
	require.True(t, ok)
	ob, ok := c.Cache.Lookup("var:" + b.ValueID())
	require.True(t, ok)
	orderA, _ := oa.Order()
	orderB, _ := ob.Order()
	assert.Greater(t, orderA, orderB)

	vals := evalPlan(reg, plan)
	aSlot := reg.MustGet(a.ValueID())
	bSlot := reg.MustGet(b.ValueID())
	assert.Equal(t, 5.0, vals[bSlot.Idx()])
	assert.Equal(t, 17.0, vals[aSlot.Idx()])
}

// Scenario 3 (§8): X = Y + 1; Y = X + 1 with no integrator — compile fails
// with "maximum order recursion reached".
func TestCycleWithoutIntegralFails(t *testing.T) {
	root := &model.Group{}
	var items []model.Item

	one := addConstant(root, &items, "one", 1)
	x := addFlow(root, &items, "X")
	y := addFlow(root, &items, "Y")

	addX := model.NewOperation("addX", model.OpAdd, 1)
	model.AddWire(y.OutPort(), addX.InputPorts()[0])
	model.AddWire(one.OutPort(), addX.InputPorts()[0])
	model.AddWire(addX.OutPort(), x.DefPort())

	addY := model.NewOperation("addY", model.OpAdd, 1)
	model.AddWire(x.OutPort(), addY.InputPorts()[0])
	model.AddWire(one.OutPort(), addY.InputPorts()[0])
	model.AddWire(addY.OutPort(), y.DefPort())

	root.Items = items

	_, c := newCompiler()
	_, err := c.Compile(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum order recursion reached")
}

// Scenario 2 (§8): single integrator dS/dt = A; S(0) = 10; A = 1 — an
// Integral triple is present, its input slot evaluates to 1, and the stock's
// initial value is set from the wired constant.
func TestSingleIntegrator(t *testing.T) {
	root := &model.Group{}
	var items []model.Item

	one := addConstant(root, &items, "one", 1)
	ten := addConstant(root, &items, "ten", 10)
	a := addFlow(root, &items, "A")
	model.AddWire(one.OutPort(), a.DefPort())

	s := model.NewVariable(root.ValueID("S"), "S", registry.Stock, root)
	items = append(items, s)
	intOp := model.NewIntOp("S:int", s)
	items = append(items, intOp)

	model.AddWire(a.OutPort(), intOp.Ports()[1])
	model.AddWire(ten.OutPort(), intOp.Ports()[2])

	root.Items = items

	reg, c := newCompiler()
	plan, err := c.Compile(root)
	require.NoError(t, err)

	require.Len(t, plan.Integrals, 1)
	sSlot := reg.MustGet(s.ValueID())
	assert.Equal(t, sSlot.Idx(), plan.Integrals[0].StockSlot)
	assert.Equal(t, 10.0, sSlot.Init.Number, "init port wires a constant through to the stock's slot")

	vals := evalPlan(reg, plan)
	assert.Equal(t, 1.0, vals[plan.Integrals[0].InputSlot])
}

// Scenario 4 (§8): a Godley column with rows [(+1, "salary"), (-0.5, "tax")]
// for stock Wages lowers to salary - 0.5*tax, wired as Wages's integral
// input.
func TestGodleyColumn(t *testing.T) {
	root := &model.Group{}
	var items []model.Item

	salary := addFlow(root, &items, "salary")
	cSalary := addConstant(root, &items, "csalary", 100)
	model.AddWire(cSalary.OutPort(), salary.DefPort())

	tax := addFlow(root, &items, "tax")
	cTax := addConstant(root, &items, "ctax", 20)
	model.AddWire(cTax.OutPort(), tax.DefPort())

	table := model.GodleyTable{
		Rows: [][]string{
			{"", "Wages"},
			{"", "salary"},
			{"", "-0.5*tax"},
		},
		InitialConditionRows: map[int]bool{},
	}
	icon := model.NewGodleyIcon("godley1", root, table)
	items = append(items, icon)

	root.Items = items

	reg, c := newCompiler()
	plan, err := c.Compile(root)
	require.NoError(t, err)

	wagesID := root.ValueID("Wages")
	input, ok := c.IntegralInputFor(wagesID)
	require.True(t, ok)
	require.NotNil(t, input.RHS)
	assert.Equal(t, dag.GodleyColumn, input.RHS.Kind)
	require.Len(t, input.RHS.Credits, 1)
	require.Len(t, input.RHS.Debits, 1)

	require.Len(t, plan.Integrals, 1)
	vals := evalPlan(reg, plan)
	assert.Equal(t, 90.0, vals[plan.Integrals[0].InputSlot])
}

// Scenario 5 (§8): a switch with 3 cases, selector s, branches a, b, c
// lowers to a*(s<1) + b*((s<2)-(s<1)) + c*(1-(s<2)).
func TestSwitchLowering(t *testing.T) {
	root := &model.Group{}
	var items []model.Item

	sel := addConstant(root, &items, "sel", 1.5)
	ca := addConstant(root, &items, "ca", 10)
	cb := addConstant(root, &items, "cb", 20)
	cc := addConstant(root, &items, "cc", 30)
	result := addFlow(root, &items, "result")

	sw := model.NewSwitchIcon("sw", 3)
	model.AddWire(sel.OutPort(), sw.SelectorPort())
	model.AddWire(ca.OutPort(), sw.BranchPort(0))
	model.AddWire(cb.OutPort(), sw.BranchPort(1))
	model.AddWire(cc.OutPort(), sw.BranchPort(2))
	model.AddWire(sw.Ports()[0], result.DefPort())

	root.Items = items

	reg, c := newCompiler()
	plan, err := c.Compile(root)
	require.NoError(t, err)

	vals := evalPlan(reg, plan)
	resultSlot := reg.MustGet(result.ValueID())
	assert.Equal(t, 20.0, vals[resultSlot.Idx()], "selector 1.5 falls in [1,2) and must select branch b")
}

// Scenario 6 (§8): difference(v, arg=2) on a 5-element axis yields a
// 3-element result axis and exactly 3 element pairs offset by +2.
func TestDifferenceTensorLowering(t *testing.T) {
	_, c := newCompiler()

	labels := make([]string, 5)
	for i := range labels {
		labels[i] = "t" + string(rune('0'+i))
	}
	slot := registry.NewVariableValue("v", registry.TempFlow)
	slot.XVec = registry.XVector{{Name: "t", Labels: labels}}
	c.Reg.AllocValue(slot)
	input := dag.NewConstant(slot)

	result := registry.NewVariableValue("diffResult", registry.TempFlow)
	c.Reg.AllocValue(result)

	plan := &evalop.Plan{}
	err := c.difference(plan, "diffOp", model.OpState{Axis: "t", Arg: 2}, [][]*dag.Node{{input}}, result)
	require.NoError(t, err)

	require.Len(t, result.XVec, 1)
	assert.Equal(t, 3, result.XVec[0].Size())

	require.Len(t, plan.Ops, 1)
	op := plan.Ops[0]
	assert.Equal(t, evalop.Difference, op.Kind)
	require.Len(t, op.Elements, 3)
	for _, el := range op.Elements {
		assert.Equal(t, 2, el.Src1-el.Src2)
	}
}

// difference's own overflow guard (§4.6): arg >= axis length is a hard
// error naming both the argument and the vector length.
func TestDifferenceArgumentOverflow(t *testing.T) {
	_, c := newCompiler()

	slot := registry.NewVariableValue("v", registry.TempFlow)
	slot.XVec = registry.XVector{{Name: "t", Labels: []string{"a", "b", "c"}}}
	c.Reg.AllocValue(slot)
	input := dag.NewConstant(slot)

	result := registry.NewVariableValue("diffResult", registry.TempFlow)
	c.Reg.AllocValue(result)

	plan := &evalop.Plan{}
	err := c.difference(plan, "diffOp", model.OpState{Axis: "t", Arg: 5}, [][]*dag.Node{{input}}, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than vector length")
}

// Zero short-circuit invariant (§8): a multiply whose operand list contains
// the canonical zero slot collapses to a single copy step.
func TestMultiplyZeroShortCircuit(t *testing.T) {
	root := &model.Group{}
	var items []model.Item

	c7 := addConstant(root, &items, "seven", 7)
	result := addFlow(root, &items, "result")

	mul := model.NewOperation("mul", model.OpMultiply, 1)
	model.AddWire(c7.OutPort(), mul.InputPorts()[0])

	root.Items = items

	reg, c := newCompiler()
	c.discover(root)
	plan := &evalop.Plan{}
	resultSlot := c.Reg.GetOrCreate(result.ValueID(), result.Name, result.Kind)
	c.Reg.AllocValue(resultSlot)

	zeroNode := dag.NewConstant(reg.ConstantZero())
	c.Cache.Insert("anon:zero", zeroNode)
	mulNode, err := c.MakeDAGOperation(mul)
	require.NoError(t, err)
	mulNode.Arguments[0] = append(mulNode.Arguments[0], zeroNode)

	_, err = c.addEvalOps(plan, mulNode, resultSlot)
	require.NoError(t, err)

	require.Len(t, plan.Ops, 1)
	assert.Equal(t, evalop.Copy, plan.Ops[0].Kind)
	assert.Equal(t, reg.ConstantZero().Idx(), plan.Ops[0].Src1)
}

// Dedup invariant (§8): makeDAG invoked twice on the same visual item
// returns the same node identity.
func TestMakeDAGDedup(t *testing.T) {
	root := &model.Group{}
	var items []model.Item
	a := addFlow(root, &items, "A")
	root.Items = items

	_, c := newCompiler()
	c.discover(root)
	n1, err := c.MakeDAGVariable(a.ValueID(), a.Name, a.Kind)
	require.NoError(t, err)
	n2, err := c.MakeDAGVariable(a.ValueID(), a.Name, a.Kind)
	require.NoError(t, err)
	assert.Same(t, n1, n2)
}
