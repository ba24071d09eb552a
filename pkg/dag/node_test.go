package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

func TestNewConstantFixesOrderAndResult(t *testing.T) {
	zero := registry.NewVariableValue("zero", registry.Constant)
	zero.Init = registry.NumberInit(0)

	n := NewConstant(zero)

	assert.Equal(t, Constant, n.Kind)
	order, ok := n.Order()
	assert.True(t, ok)
	assert.Equal(t, 1, order)
	assert.Same(t, zero, n.Result())
}

func TestVariableNodeOrderUnsetUntilComputed(t *testing.T) {
	n := NewVariable("item:v", "group:v", "v", registry.Flow, registry.InitValue{})

	_, ok := n.Order()
	assert.False(t, ok)

	n.SetOrder(3)
	order, ok := n.Order()
	assert.True(t, ok)
	assert.Equal(t, 3, order)
}

func TestOperationNodeArgumentSlotsPreallocated(t *testing.T) {
	n := NewOperation("item:add1", model.OpAdd, model.OpState{}, 2)

	assert.Equal(t, Operation, n.Kind)
	assert.Len(t, n.Arguments, 2)
	assert.Nil(t, n.Arguments[0])
	assert.Nil(t, n.Arguments[1])
}
