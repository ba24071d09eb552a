package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

func TestExpressionCacheDedup(t *testing.T) {
	c := NewExpressionCache()
	assert.False(t, c.Exists("item:a"))

	n := NewVariable("item:a", ":a", "a", registry.Flow, registry.InitValue{})
	c.Insert("item:a", n)

	assert.True(t, c.Exists("item:a"))
	got, ok := c.Lookup("item:a")
	assert.True(t, ok)
	assert.Same(t, n, got)
	assert.Equal(t, 1, c.Size())
}

func TestExpressionCacheAnonymousKeysAreUnique(t *testing.T) {
	c := NewExpressionCache()
	n1 := NewGodleyColumn("", nil, nil)
	n2 := NewGodleyColumn("", nil, nil)

	k1 := c.InsertAnonymous(n1)
	k2 := c.InsertAnonymous(n2)

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, 2, c.Size())

	got, ok := c.Lookup(k1)
	assert.True(t, ok)
	assert.Same(t, n1, got)
}

func TestExpressionCacheIntegralInput(t *testing.T) {
	c := NewExpressionCache()
	_, ok := c.GetIntegralInput("group:stock")
	assert.False(t, ok)

	n := NewIntegralInput("group:stock", "stock")
	c.InsertIntegralInput("group:stock", n)

	got, ok := c.GetIntegralInput("group:stock")
	assert.True(t, ok)
	assert.Same(t, n, got)
	// integral-input registration does not affect the keyed-node count.
	assert.Equal(t, 0, c.Size())
}
