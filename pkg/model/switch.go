package model

// SwitchIcon is lowered immediately at DAG-construction time into a sum of
// step-function terms (§4.2 "makeDAG(switch)"). Port 0 is its output, port
// 1 is the selector, ports 2..numCases+1 are the branch values.
type SwitchIcon struct {
	id       string
	NumCases int
	ports    []*Port
}

func NewSwitchIcon(id string, numCases int) *SwitchIcon {
	s := &SwitchIcon{id: id, NumCases: numCases}
	s.ports = make([]*Port, numCases+2) // output + selector + numCases branches
	for i := range s.ports {
		s.ports[i] = &Port{Index: i, Item: s}
	}
	return s
}

func (s *SwitchIcon) ID() string     { return s.id }
func (s *SwitchIcon) Ports() []*Port { return s.ports }

// SelectorPort returns the selector input port (port 1).
func (s *SwitchIcon) SelectorPort() *Port { return s.ports[1] }

// BranchPort returns the input port for branch i (0-indexed).
func (s *SwitchIcon) BranchPort(i int) *Port { return s.ports[2+i] }
