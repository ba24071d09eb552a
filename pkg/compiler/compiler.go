// Package compiler builds the expression DAG from a visual model, orders
// it, and lowers it into an EvalOp plan. It is the system's core: DAG
// Builder, Godley Translator, Definition Orderer, and Code Generator all
// live here, operating on the tagged-variant nodes defined in pkg/dag.
package compiler

import (
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/evalop"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/ravel"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// deferredInput is an integral-input wire whose resolution hit a forward
// reference to a not-yet-built integral, queued for the second pass that
// runs once every stock's placeholder exists (integral.go).
type deferredInput struct {
	target *dag.Node // the IntegralInputVariableDAG to populate
	wire   *model.Wire
}

// Compiler holds everything the DAG Builder, Godley Translator, Orderer,
// and Code Generator share across one compile. It takes an immutable view
// of the visual model; the only mutation performed anywhere is on the
// registry's slot metadata (§5 CONCURRENCY & RESOURCE MODEL).
type Compiler struct {
	Reg   *registry.Registry
	Cache *dag.ExpressionCache
	Ravel ravel.Handle
	Logger log.Logger
	Metrics *Metrics

	usedNames map[string]bool

	// varItems/intOps are populated by a discovery walk over the model
	// before any node is built, so MakeDAGVariable (keyed only on
	// valueId/name/kind per its call signature) can still find the
	// originating item's defining wire and, for stocks, the bound IntOp.
	varItems map[string]*model.Variable
	varOrder []string // every discovered Variable's value-id, in walk order
	intOps   map[string]*model.IntOp // keyed by the stock's value-id

	deferred []deferredInput

	flowVars     []*dag.Node // Variable nodes with kind flow/tempFlow/parameter, in the order they were built
	stockVars    []*dag.Node // Variable nodes with kind stock
	orderedFlows []*dag.Node // flowVars sorted by definition order, set once Compile succeeds
	sinks        []model.Item

	// processedGodleyColumns tracks which stock value-ids have already had
	// their Godley column built, so a stock shared across multiple Godley
	// icons is only translated once (§4.3 step 2).
	processedGodleyColumns map[string]bool

	// Heartbeat, if set, is invoked periodically during the compile so an
	// external UI event loop stays responsive; it has no semantic effect
	// (§5).
	Heartbeat func()
}

// New constructs a Compiler over reg and rv. A nil logger defaults to
// log.NewNopLogger(), and a nil ravel.Handle defaults to ravel.NoOp{}.
func New(reg *registry.Registry, rv ravel.Handle, logger log.Logger) *Compiler {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if rv == nil {
		rv = ravel.NoOp{}
	}
	return &Compiler{
		Reg:       reg,
		Cache:     dag.NewExpressionCache(),
		Ravel:     rv,
		Logger:    logger,
		Metrics:   NewMetrics(),
		usedNames:              make(map[string]bool),
		varItems:               make(map[string]*model.Variable),
		intOps:                 make(map[string]*model.IntOp),
		processedGodleyColumns: make(map[string]bool),
	}
}

// Compile walks root, builds and orders the expression DAG, and lowers it
// into an EvalOp plan (§2 pipeline steps 3-6, §4.7). It is the moral
// equivalent of constructing a SystemOfEquations and then calling
// populateEvalOpVector on it.
func (c *Compiler) Compile(root *model.Group) (*evalop.Plan, error) {
	timer := c.Metrics.startCompile()
	defer timer.observeDuration()

	level.Debug(c.Logger).Log("msg", "compile started")

	c.discover(root)

	if err := c.buildFlowVariables(); err != nil {
		level.Error(c.Logger).Log("msg", "compile failed", "err", err)
		c.Metrics.compileFailures.Inc()
		return nil, err
	}

	if err := c.buildIntegrals(); err != nil {
		level.Error(c.Logger).Log("msg", "compile failed", "err", err)
		c.Metrics.compileFailures.Inc()
		return nil, err
	}

	for _, icon := range c.godleyIcons(root) {
		if err := c.processGodleyTable(icon); err != nil {
			level.Error(c.Logger).Log("msg", "compile failed", "err", err)
			c.Metrics.compileFailures.Inc()
			return nil, err
		}
	}

	if err := c.resolveDeferredIntegralInputs(); err != nil {
		level.Error(c.Logger).Log("msg", "compile failed", "err", err)
		c.Metrics.compileFailures.Inc()
		return nil, err
	}

	ordered, err := c.orderFlowVariables()
	if err != nil {
		level.Error(c.Logger).Log("msg", "compile failed", "err", err)
		c.Metrics.compileFailures.Inc()
		return nil, err
	}
	c.orderedFlows = ordered

	plan := &evalop.Plan{}
	if err := c.populateEvalOpVector(plan, ordered); err != nil {
		level.Error(c.Logger).Log("msg", "compile failed", "err", err)
		c.Metrics.compileFailures.Inc()
		return nil, err
	}

	c.Metrics.planSize.Set(float64(len(plan.Ops)))
	level.Debug(c.Logger).Log("msg", "compile finished", "ops", len(plan.Ops), "integrals", len(plan.Integrals))
	return plan, nil
}

// discover walks root once, recording every Variable by value-id, every
// stock's bound IntOp, and every plot/sheet sink, so later passes can
// resolve them without re-walking the tree.
func (c *Compiler) discover(root *model.Group) {
	root.RecursiveDo(func(it model.Item) {
		c.heartbeat()
		switch v := it.(type) {
		case *model.Variable:
			c.varItems[v.ValueID()] = v
			c.varOrder = append(c.varOrder, v.ValueID())
		case *model.IntOp:
			c.intOps[v.IntVar.ValueID()] = v
		case *model.PlotWidget, *model.Sheet:
			c.sinks = append(c.sinks, it)
		}
	})
}

func (c *Compiler) godleyIcons(root *model.Group) []*model.GodleyIcon {
	var icons []*model.GodleyIcon
	root.RecursiveDo(func(it model.Item) {
		if g, ok := it.(*model.GodleyIcon); ok {
			icons = append(icons, g)
		}
	})
	return icons
}

func (c *Compiler) heartbeat() {
	if c.Heartbeat != nil {
		c.Heartbeat()
	}
}

// OrderedFlowVariables returns the flow-kind Variable nodes in definition
// order, as computed by the most recent successful Compile. Used by
// pkg/render to traverse "variables" (§4.8).
func (c *Compiler) OrderedFlowVariables() []*dag.Node { return c.orderedFlows }

// StockVariables returns every stock-kind Variable node built during the
// most recent Compile. Stocks are built while walking the integrator and
// variable maps, so their relative order is not fixed and can differ
// between compiles. Used by pkg/render to traverse "integrationVariables"
// (§4.8).
func (c *Compiler) StockVariables() []*dag.Node { return c.stockVars }

// IntegralInputFor returns the IntegralInputVariableDAG wrapping stock
// valueID's derivative expression, if Compile has built one.
func (c *Compiler) IntegralInputFor(valueID string) (*dag.Node, bool) {
	return c.Cache.GetIntegralInput(valueID)
}

// uniqueName appends "_k" for the smallest k making name unused so far
// within this compile, and marks the chosen name used (§4.2: "Name
// uniquification").
func (c *Compiler) uniqueName(name string) string {
	if !c.usedNames[name] {
		c.usedNames[name] = true
		return name
	}
	for k := 1; ; k++ {
		candidate := name + "_" + strconv.Itoa(k)
		if !c.usedNames[candidate] {
			c.usedNames[candidate] = true
			return candidate
		}
	}
}
