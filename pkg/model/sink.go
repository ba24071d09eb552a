package model

// PlotWidget is a visual sink with one or more input ports, each of which
// must be force-evaluated during populateEvalOpVector (§4.7 step 3) so its
// source's output-port slot stays current even though a plot consumes but
// never re-exports a value.
type PlotWidget struct {
	id    string
	ports []*Port
}

func NewPlotWidget(id string, numInputs int) *PlotWidget {
	p := &PlotWidget{id: id}
	p.ports = make([]*Port, numInputs)
	for i := range p.ports {
		p.ports[i] = &Port{Index: i, Item: p}
	}
	return p
}

func (p *PlotWidget) ID() string     { return p.id }
func (p *PlotWidget) Ports() []*Port { return p.ports }

// Sheet is a visual sink with a single input port, force-evaluated the same
// way as PlotWidget (§4.7 step 3).
type Sheet struct {
	id   string
	port *Port
}

func NewSheet(id string) *Sheet {
	s := &Sheet{id: id}
	s.port = &Port{Index: 0}
	s.port.Item = s
	return s
}

func (s *Sheet) ID() string     { return s.id }
func (s *Sheet) Ports() []*Port { return []*Port{s.port} }
func (s *Sheet) InputPort() *Port { return s.port }
