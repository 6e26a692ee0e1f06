// Package metrics provides conserved-quantity observers for the
// simulation run loop. Energy and momentum are exact invariants of
// Newtonian gravity; how well the integrator and the tree approximation
// preserve them is the practical measure of simulation quality.
package metrics

import (
	"math"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/vec"
)

// TotalEnergy computes the exact total mechanical energy of the system:
// kinetic plus pairwise gravitational potential. O(n^2), intended for
// diagnostics, not for the per-frame hot path.
func TotalEnergy(bodies []body.Body) float64 {
	var ke, pe float64
	for i := range bodies {
		ke += 0.5 * bodies[i].Mass * bodies[i].Velocity.NormSq()
		for j := i + 1; j < len(bodies); j++ {
			d := bodies[i].Position.Distance(bodies[j].Position)
			if d > 0 {
				pe -= body.G * bodies[i].Mass * bodies[j].Mass / d
			}
		}
	}
	return ke + pe
}

// Energy tracks the most recent total energy of the system.
type Energy struct {
	name    string
	current float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bodies []body.Body, t float64) {
	e.current = TotalEnergy(bodies)
	e.samples++
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift tracks the maximum relative deviation of total energy
// from its value at the first observation.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []body.Body, t float64) {
	current := TotalEnergy(bodies)
	if e.samples == 0 {
		e.initial = current
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs((current - e.initial) / e.initial)
		if drift > e.maxDrift {
			e.maxDrift = drift
		}
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// Momentum tracks the magnitude of total linear momentum. For an
// isolated system it should stay at its initial value; the tree
// approximation breaks Newton's third law slightly, so some wander is
// expected.
type Momentum struct {
	name    string
	current float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(bodies []body.Body, t float64) {
	var p vec.V3
	for i := range bodies {
		p = p.Add(bodies[i].Velocity.Scale(bodies[i].Mass))
	}
	m.current = p.Norm()
}

func (m *Momentum) Value() float64 { return m.current }

func (m *Momentum) Reset() { m.current = 0 }

// AngularMomentum tracks the magnitude of total angular momentum about
// the origin.
type AngularMomentum struct {
	name    string
	current float64
}

func NewAngularMomentum() *AngularMomentum {
	return &AngularMomentum{name: "angular_momentum"}
}

func (a *AngularMomentum) Name() string { return a.name }

func (a *AngularMomentum) Observe(bodies []body.Body, t float64) {
	var l vec.V3
	for i := range bodies {
		l = l.Add(bodies[i].Position.Cross(bodies[i].Velocity.Scale(bodies[i].Mass)))
	}
	a.current = l.Norm()
}

func (a *AngularMomentum) Value() float64 { return a.current }

func (a *AngularMomentum) Reset() { a.current = 0 }
