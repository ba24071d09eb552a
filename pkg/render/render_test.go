package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdyn/sdcompile/pkg/compiler"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/ravel"
	"github.com/sysdyn/sdcompile/pkg/registry"
	"github.com/sysdyn/sdcompile/pkg/render"
)

// buildArithmeticModel constructs the §8 scenario 1 model (A = 2 + 3*B;
// B = 5) directly against pkg/model, mirroring the compiler package's own
// scenario test so the renderer can be exercised against a known DAG shape.
func buildArithmeticModel() *model.Group {
	root := &model.Group{}
	var items []model.Item

	addConst := func(name string, v float64) *model.Variable {
		c := model.NewVariable(root.ValueID(name), name, registry.Constant, root)
		c.Init = registry.NumberInit(v)
		items = append(items, c)
		return c
	}
	addFlow := func(name string) *model.Variable {
		f := model.NewVariable(root.ValueID(name), name, registry.Flow, root)
		items = append(items, f)
		return f
	}

	c5 := addConst("five", 5)
	c2 := addConst("two", 2)
	c3 := addConst("three", 3)
	b := addFlow("B")
	a := addFlow("A")

	model.AddWire(c5.OutPort(), b.DefPort())

	mul := model.NewOperation("mul", model.OpMultiply, 1)
	model.AddWire(c3.OutPort(), mul.InputPorts()[0])
	model.AddWire(b.OutPort(), mul.InputPorts()[0])
	items = append(items, mul)

	add := model.NewOperation("add", model.OpAdd, 1)
	model.AddWire(c2.OutPort(), add.InputPorts()[0])
	model.AddWire(mul.OutPort(), add.InputPorts()[0])
	items = append(items, add)

	model.AddWire(add.OutPort(), a.DefPort())

	root.Items = items
	return root
}

func TestRenderProceduralEquations(t *testing.T) {
	root := buildArithmeticModel()
	c := compiler.New(registry.New(), ravel.NoOp{}, nil)
	_, err := c.Compile(root)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.New(render.Procedural).Render(&buf, c))

	out := buf.String()
	assert.Contains(t, out, "B = 5")
	assert.Contains(t, out, "A = 2+3 * B")
}

func TestRenderTypesetEquations(t *testing.T) {
	root := buildArithmeticModel()
	c := compiler.New(registry.New(), ravel.NoOp{}, nil)
	_, err := c.Compile(root)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.New(render.Typeset).Render(&buf, c))

	out := buf.String()
	assert.Contains(t, out, "B = 5")
	assert.Contains(t, out, "A = 2+3 \\cdot B")
}

func TestRenderStockInitialAndDerivative(t *testing.T) {
	root := &model.Group{}
	var items []model.Item

	one := model.NewVariable(root.ValueID("one"), "one", registry.Constant, root)
	one.Init = registry.NumberInit(1)
	items = append(items, one)

	ten := model.NewVariable(root.ValueID("ten"), "ten", registry.Constant, root)
	ten.Init = registry.NumberInit(10)
	items = append(items, ten)

	a := model.NewVariable(root.ValueID("A"), "A", registry.Flow, root)
	items = append(items, a)
	model.AddWire(one.OutPort(), a.DefPort())

	s := model.NewVariable(root.ValueID("S"), "S", registry.Stock, root)
	items = append(items, s)
	intOp := model.NewIntOp("S:int", s)
	items = append(items, intOp)
	model.AddWire(a.OutPort(), intOp.Ports()[1])
	model.AddWire(ten.OutPort(), intOp.Ports()[2])

	root.Items = items

	c := compiler.New(registry.New(), ravel.NoOp{}, nil)
	_, err := c.Compile(root)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.New(render.Procedural).Render(&buf, c))

	out := buf.String()
	assert.Contains(t, out, "S_init = 10")
	assert.Contains(t, out, "dS_dt = A")
}
