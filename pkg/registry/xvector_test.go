package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXVectorConformIntersectsByName(t *testing.T) {
	x := XVector{{Name: "time", Labels: []string{"0", "1", "2", "3"}}}
	y := XVector{{Name: "time", Labels: []string{"0", "1"}}}

	narrowed := x.Conform(y)
	require.Len(t, narrowed, 1)
	assert.Equal(t, 2, narrowed[0].Size())
}

func TestXVectorConformDisjointReturnsNil(t *testing.T) {
	x := XVector{{Name: "time", Labels: []string{"0", "1"}}}
	y := XVector{{Name: "region", Labels: []string{"east", "west"}}}

	assert.Nil(t, x.Conform(y))
}

func TestXVectorConformEmptyOperandLeavesOtherUntouched(t *testing.T) {
	x := XVector{{Name: "time", Labels: []string{"0", "1"}}}
	assert.Equal(t, x, x.Conform(nil))
}

func TestXVectorStrideAndSize(t *testing.T) {
	x := XVector{
		{Name: "region", Labels: []string{"east", "west"}},
		{Name: "time", Labels: []string{"0", "1", "2"}},
	}
	stride, size, err := x.StrideAndSize("time")
	require.NoError(t, err)
	assert.Equal(t, 1, stride)
	assert.Equal(t, 3, size)

	stride, size, err = x.StrideAndSize("region")
	require.NoError(t, err)
	assert.Equal(t, 3, stride)
	assert.Equal(t, 2, size)

	_, _, err = x.StrideAndSize("missing")
	assert.Error(t, err)
}

func TestXVectorTrimPositiveAndNegative(t *testing.T) {
	x := XVector{{Name: "t", Labels: []string{"a", "b", "c", "d", "e"}}}

	trimmed, err := x.Trim("t", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d", "e"}, []string(trimmed[0].Labels))

	trimmed, err = x.Trim("t", -2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, []string(trimmed[0].Labels))

	_, err = x.Trim("t", 5)
	assert.Error(t, err)
}

func TestXVectorIndexAxisRelabelsToOrdinals(t *testing.T) {
	x := XVector{{Name: "region", Kind: LabelString, Labels: []string{"east", "west", "north"}}}
	indexed := x.IndexAxis("region")
	assert.Equal(t, []string{"0", "1", "2"}, []string(indexed[0].Labels))
	assert.Equal(t, LabelValue, indexed[0].Kind)
	// original is untouched
	assert.Equal(t, []string{"east", "west", "north"}, []string(x[0].Labels))
}

func TestVariableValueIsZero(t *testing.T) {
	zero := NewVariableValue("zero", Constant)
	zero.Init = NumberInit(0)
	assert.True(t, zero.IsZero())

	seven := NewVariableValue("seven", Constant)
	seven.Init = NumberInit(7)
	assert.False(t, seven.IsZero())

	flow := NewVariableValue("f", Flow)
	flow.Init = NumberInit(0)
	assert.False(t, flow.IsZero(), "only constant-kind slots can be the canonical zero")
}

func TestRegistryAllocValueIsIdempotent(t *testing.T) {
	r := New()
	v := NewVariableValue("tmp", TempFlow)
	i1 := r.AllocValue(v)
	i2 := r.AllocValue(v)
	assert.Equal(t, i1, i2)
	assert.True(t, r.ValidEntries())
}
