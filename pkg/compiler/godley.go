package compiler

import (
	"math"
	"strings"

	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// processGodleyTable lowers every column of icon's Godley table into a
// GodleyColumnDAG and wires it as the right-hand side of the corresponding
// stock's integral input (§4.3).
func (c *Compiler) processGodleyTable(icon *model.GodleyIcon) error {
	table := &icon.Table
	for col := 1; col < table.NumCols(); col++ {
		header := table.HeaderName(col)
		// An exact "_" header, or one that is empty after scope-qualifier
		// stripping (empty, or ending in the ':' separator), marks a column
		// with no bound stock (§4.3 step 2, supplemented from the original's
		// active-marker handling).
		if header == "" || header == "_" || strings.HasSuffix(header, ":") {
			continue
		}

		valueID := icon.Group.ValueID(header)
		if c.processedGodleyColumns[valueID] {
			continue
		}
		c.processedGodleyColumns[valueID] = true

		credits, debits, err := c.godleyColumnTerms(icon, table, col)
		if err != nil {
			return err
		}
		column := dag.NewGodleyColumn(icon.ID()+":"+header, credits, debits)
		c.Cache.InsertAnonymous(column)

		stockNode, err := c.MakeDAGVariable(valueID, header, registry.Stock)
		if err != nil {
			return err
		}

		integralInput, ok := c.Cache.GetIntegralInput(valueID)
		if !ok {
			integralInput = dag.NewIntegralInput(valueID, stockNode.Name)
			c.Cache.InsertIntegralInput(valueID, integralInput)
		}
		integralInput.RHS = column
	}
	return nil
}

func (c *Compiler) godleyColumnTerms(icon *model.GodleyIcon, table *model.GodleyTable, col int) (credits, debits []*dag.Node, err error) {
	for row := 1; row < table.NumRows(); row++ {
		if table.IsInitialConditionRow(row) {
			continue
		}
		cell := table.Cell(row, col)
		coef, name := model.FlowCoef(cell)
		if name == "" {
			continue
		}

		flowValueID := icon.Group.ValueID(name)
		flowNode, buildErr := c.MakeDAGVariable(flowValueID, name, registry.Flow)
		if buildErr != nil {
			return nil, nil, buildErr
		}

		term := flowNode
		if math.Abs(coef) != 1 {
			term = c.anonymousMultiply(c.anonymousConstantNumber(math.Abs(coef)), flowNode)
		}

		if coef > 0 {
			credits = append(credits, term)
		} else {
			debits = append(debits, term)
		}
	}
	return credits, debits, nil
}
