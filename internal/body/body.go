// Package body defines the orbital body model and its two population
// sources: the fixed catalogs of named bodies and the procedurally
// generated asteroid belt.
package body

import "github.com/okuno/orbitsim/internal/vec"

// G is the gravitational constant in SI units (m³/(kg·s²)).
const G = 6.6743e-11

// Body is one simulated object. Name, Radius and Color are display
// metadata only; the force evaluation reads Mass and Position and the
// integrator mutates Position and Velocity in place.
//
// Mass must stay strictly positive for the body's whole lifetime: it
// feeds the mass-weighted center-of-mass update on every tree insert.
type Body struct {
	Name     string  `json:"name"`
	Mass     float64 `json:"mass"`            // kg
	Radius   float64 `json:"radius"`          // m, display only
	Color    string  `json:"color,omitempty"` // hex, display only
	Position vec.V3  `json:"position"`        // m
	Velocity vec.V3  `json:"velocity"`        // m/s
}

// MostMassive returns the index of the heaviest body, the gravitational
// center used for asteroid orbit sampling. Returns -1 for an empty
// slice.
func MostMassive(bodies []Body) int {
	idx := -1
	mass := 0.0
	for i := range bodies {
		if bodies[i].Mass > mass {
			mass = bodies[i].Mass
			idx = i
		}
	}
	return idx
}

// Clone deep-copies a body slice. Snapshots handed to storage or the
// viewer must not alias the simulation's own store.
func Clone(bodies []Body) []Body {
	c := make([]Body, len(bodies))
	copy(c, bodies)
	return c
}
