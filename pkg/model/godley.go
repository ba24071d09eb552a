package model

import (
	"fmt"
	"strings"
)

// GodleyTable is a double-entry balance-sheet table: row 0 holds column
// headers (column 0 is the row-label column and is ignored), and each
// subsequent row holds signed flow-coefficient cells for every stock
// column (GLOSSARY: "Godley table").
type GodleyTable struct {
	// Rows[0] is the header row. Rows[r][c] is the cell text for data row r
	// (r>=1), column c (c>=1; column 0 is the row-label column).
	Rows [][]string
	// InitialConditionRows marks which data rows (by index into Rows,
	// r>=1) hold initial conditions rather than flow entries, and are
	// skipped by the translator (§4.3 step 3).
	InitialConditionRows map[int]bool
}

func (t *GodleyTable) NumCols() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

func (t *GodleyTable) NumRows() int { return len(t.Rows) }

func (t *GodleyTable) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

func (t *GodleyTable) IsInitialConditionRow(r int) bool {
	return t.InitialConditionRows != nil && t.InitialConditionRows[r]
}

// stripActive removes the "active" marker minsky prefixes to a column
// header to flag it as the currently-selected scenario column.
func stripActive(s string) string {
	return strings.TrimPrefix(s, "*")
}

// TrimWS trims surrounding whitespace from a cell's text.
func TrimWS(s string) string { return strings.TrimSpace(s) }

// HeaderName returns the cleaned (trimmed, active-marker-stripped) header
// for column c.
func (t *GodleyTable) HeaderName(c int) string {
	return stripActive(TrimWS(t.Cell(0, c)))
}

// GodleyIcon is a visual Godley-table item: it has no ports of its own (its
// columns attach to stock variables elsewhere in the model) but belongs to
// a Group for scope resolution.
type GodleyIcon struct {
	id    string
	Group *Group
	Table GodleyTable
}

func NewGodleyIcon(id string, group *Group, table GodleyTable) *GodleyIcon {
	return &GodleyIcon{id: id, Group: group, Table: table}
}

func (g *GodleyIcon) ID() string     { return g.id }
func (g *GodleyIcon) Ports() []*Port { return nil }

// FlowCoef parses a signed-flow-coefficient cell into its numeric
// coefficient and variable name, mirroring FlowCoef's cell grammar:
// "name", "-name", "2*name", "-0.5*name". An empty or all-whitespace cell
// yields an empty name (§4.3 step 4: "Empty name -> skip").
func FlowCoef(cell string) (coef float64, name string) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, ""
	}
	coef = 1
	if strings.HasPrefix(cell, "-") {
		coef = -1
		cell = strings.TrimSpace(cell[1:])
	} else if strings.HasPrefix(cell, "+") {
		cell = strings.TrimSpace(cell[1:])
	}
	if i := strings.Index(cell, "*"); i >= 0 {
		numPart := strings.TrimSpace(cell[:i])
		namePart := strings.TrimSpace(cell[i+1:])
		if n, err := parseFloat(numPart); err == nil {
			coef *= n
			return coef, namePart
		}
	}
	return coef, cell
}

func parseFloat(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err
}
