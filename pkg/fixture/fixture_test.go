package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdyn/sdcompile/pkg/compiler"
	"github.com/sysdyn/sdcompile/pkg/ravel"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// TestLoadAndCompileArithmeticFold loads the §8 scenario 1 fixture
// (A = 2 + 3*B; B = 5) from HCL text and compiles it end to end, checking
// that the fixture loader wires the same graph the hand-built scenario test
// in pkg/compiler exercises.
func TestLoadAndCompileArithmeticFold(t *testing.T) {
	src := `
model "" {
  variable "five" {
    kind = "constant"
    init = 5
  }
  variable "two" {
    kind = "constant"
    init = 2
  }
  variable "three" {
    kind = "constant"
    init = 3
  }
  variable "B" { kind = "flow" }
  variable "A" { kind = "flow" }

  operation "mul" { kind = "multiply" }
  operation "add" { kind = "add" }

  wire {
    from = "five"
    to   = "B"
    port = 1
  }
  wire {
    from = "three"
    to   = "mul"
    port = 1
  }
  wire {
    from = "B"
    to   = "mul"
    port = 1
  }
  wire {
    from = "mul"
    to   = "add"
    port = 1
  }
  wire {
    from = "two"
    to   = "add"
    port = 1
  }
  wire {
    from = "add"
    to   = "A"
    port = 1
  }
}
`
	root, err := Load("arith.hcl", []byte(src))
	require.NoError(t, err)

	reg := registry.New()
	c := compiler.New(reg, ravel.NoOp{}, nil)
	plan, err := c.Compile(root)
	require.NoError(t, err)

	ordered := c.OrderedFlowVariables()
	require.Len(t, ordered, 2)
	assert.Equal(t, "B", ordered[0].Name)
	assert.Equal(t, "A", ordered[1].Name)
	assert.NotEmpty(t, plan.Ops)
}

// TestLoadIntegratorWiresDerivativeAndInit loads a stock fed by a flow
// through an integrator, addressed via the "<name>.deriv"/"<name>.init"
// synthetic wire destinations (§4.4).
func TestLoadIntegratorWiresDerivativeAndInit(t *testing.T) {
	src := `
model "" {
  variable "one" {
    kind = "constant"
    init = 1
  }
  variable "ten" {
    kind = "constant"
    init = 10
  }
  variable "A" { kind = "flow" }

  integrator "S" {}

  wire {
    from = "one"
    to   = "A"
    port = 1
  }
  wire {
    from = "A"
    to   = "S.deriv"
    port = 1
  }
  wire {
    from = "ten"
    to   = "S.init"
    port = 2
  }
}
`
	root, err := Load("stock.hcl", []byte(src))
	require.NoError(t, err)

	reg := registry.New()
	c := compiler.New(reg, ravel.NoOp{}, nil)
	plan, err := c.Compile(root)
	require.NoError(t, err)
	require.Len(t, plan.Integrals, 1)
}

// TestLoadReportsUnresolvableWiresTogether checks that wireAll aggregates
// more than one bad wire into a single combined error instead of stopping
// at the first.
func TestLoadReportsUnresolvableWiresTogether(t *testing.T) {
	src := `
model "" {
  variable "A" { kind = "flow" }
  wire {
    from = "missing1"
    to   = "A"
    port = 1
  }
  wire {
    from = "missing2"
    to   = "A"
    port = 1
  }
}
`
	_, err := Load("bad.hcl", []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing1")
	assert.Contains(t, err.Error(), "missing2")
}
