// Package equipment describes the controllable grid devices whose setpoints
// an external search procedure can explore. Only the metadata needed for
// chromosome encoding lives here: identity, phase, controllability and the
// cardinality of each device's discrete positions.
package equipment

import "fmt"

// Regulator is a single-phase voltage regulator. Its commandable state is a
// tap position within [-LowerTaps, RaiseTaps].
type Regulator struct {
	MRID         string
	Name         string
	Phase        string
	Controllable bool
	RaiseTaps    int
	LowerTaps    int
}

// Positions returns the number of distinct tap positions.
func (r Regulator) Positions() int {
	return r.RaiseTaps + r.LowerTaps
}

// Key identifies the regulator within a chromosome map.
func (r Regulator) Key() string {
	return fmt.Sprintf("%s_%s", r.Name, r.Phase)
}

// Capacitor is a single-phase switched capacitor. Only single-switch units
// are supported, so its state is one bit.
type Capacitor struct {
	MRID         string
	Name         string
	Phase        string
	Controllable bool
}

// Key identifies the capacitor within a chromosome map.
func (c Capacitor) Key() string {
	return fmt.Sprintf("%s_%s", c.Name, c.Phase)
}

// Provider supplies the equipment inventory of a feeder model. Implemented
// by the topology layer; the encoding code only needs this read view.
type Provider interface {
	Regulators() ([]Regulator, error)
	Capacitors() ([]Capacitor, error)
}
