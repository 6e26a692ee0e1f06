package body

import (
	"fmt"
	"math"

	"github.com/okuno/orbitsim/internal/vec"
)

// Catalog names accepted by Load.
const (
	CatalogSolar         = "solar"
	CatalogAlphaCentauri = "alphacentauri"
)

// catalogEntry places a named body on a circular heliocentric orbit in
// the XZ plane: position from semi-major axis and mean longitude,
// velocity perpendicular at circular-orbit speed around the central
// mass.
type catalogEntry struct {
	name      string
	mass      float64 // kg
	radius    float64 // m
	color     string
	axis      float64 // semi-major axis, m
	longitude float64 // mean longitude at epoch, degrees
}

const sunMass = 1.9885e30

// Planetary masses, radii and J2000 mean longitudes.
var solarCatalog = []catalogEntry{
	{"Sun", sunMass, 6.957e8, "#FFD700", 0, 0},
	{"Mercury", 3.3011e23, 2.4397e6, "#B1ADAD", 5.791e10, 252.25},
	{"Venus", 4.8675e24, 6.0518e6, "#E6C89C", 1.0821e11, 181.98},
	{"Earth", 5.9722e24, 6.371e6, "#2E6FDB", 1.49598e11, 100.47},
	{"Mars", 6.4171e23, 3.3895e6, "#C1440E", 2.27939e11, 355.43},
	{"Jupiter", 1.8982e27, 6.9911e7, "#D8A35D", 7.78570e11, 34.40},
	{"Saturn", 5.6834e26, 5.8232e7, "#E3D9B0", 1.43353e12, 49.94},
	{"Uranus", 8.6810e25, 2.5362e7, "#9BD4D9", 2.87246e12, 313.23},
	{"Neptune", 1.02413e26, 2.4622e7, "#3E54E8", 4.49506e12, 304.88},
}

// Load returns a freshly allocated body slice for the named catalog.
func Load(catalog string) ([]Body, error) {
	switch catalog {
	case CatalogSolar:
		return circularSystem(solarCatalog, sunMass), nil
	case CatalogAlphaCentauri:
		return alphaCentauri(), nil
	default:
		return nil, fmt.Errorf("unknown catalog: %s", catalog)
	}
}

// circularSystem converts catalog entries to bodies. The orbital sense
// matches the asteroid belt: position (a·cosL, 0, a·sinL), velocity
// (-v·sinL, 0, v·cosL).
func circularSystem(entries []catalogEntry, centralMass float64) []Body {
	bodies := make([]Body, 0, len(entries))
	for _, e := range entries {
		b := Body{
			Name:   e.name,
			Mass:   e.mass,
			Radius: e.radius,
			Color:  e.color,
		}
		if e.axis > 0 {
			l := e.longitude * math.Pi / 180
			v := math.Sqrt(G * centralMass / e.axis)
			b.Position = vec.V3{X: e.axis * math.Cos(l), Z: e.axis * math.Sin(l)}
			b.Velocity = vec.V3{X: -v * math.Sin(l), Z: v * math.Cos(l)}
		}
		bodies = append(bodies, b)
	}
	return bodies
}

// alphaCentauri builds the A/B binary on a mutual circular orbit about
// the barycenter at the origin.
func alphaCentauri() []Body {
	const (
		massA      = 2.145e30 // 1.08 solar masses
		massB      = 1.807e30 // 0.91 solar masses
		separation = 3.44e12  // ~23 AU
	)

	total := massA + massB
	omega := math.Sqrt(G * total / (separation * separation * separation))
	rA := separation * massB / total
	rB := separation * massA / total

	return []Body{
		{
			Name:     "Alpha Centauri A",
			Mass:     massA,
			Radius:   8.47e8,
			Color:    "#FFF4D6",
			Position: vec.V3{X: -rA},
			Velocity: vec.V3{Z: -omega * rA},
		},
		{
			Name:     "Alpha Centauri B",
			Mass:     massB,
			Radius:   5.98e8,
			Color:    "#FFCE8A",
			Position: vec.V3{X: rB},
			Velocity: vec.V3{Z: omega * rB},
		},
	}
}
