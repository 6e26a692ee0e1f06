package body

import (
	"math"
	"math/rand"

	"github.com/okuno/orbitsim/internal/vec"
)

// Asteroid belt constants: typical minor-body mass and radius, mean
// belt radius of the radial distribution.
const (
	asteroidMass       = 1e12 // kg
	asteroidRadius     = 2e3  // m
	asteroidMeanRadius = 4e11 // m
	asteroidColor      = "#808080"
)

// Asteroids samples n minor bodies around a gravitational center of
// the given mass. Radius follows a logit distribution scaled to the
// mean belt radius, angle is uniform, and the orbital speed is the
// circular-orbit speed scaled by a uniform factor in [0.6, 1.2) with a
// small out-of-plane velocity component.
//
// The caller owns rng; the same seed reproduces the same belt.
func Asteroids(n int, centerMass float64, rng *rand.Rand) []Body {
	bodies := make([]Body, n)
	for i := range bodies {
		bodies[i] = asteroid(centerMass, rng)
	}
	return bodies
}

func asteroid(centerMass float64, rng *rand.Rand) Body {
	// Logit-distributed radial placement. Float64 can return exactly 0,
	// which the logit cannot take.
	x := rng.Float64()
	for x == 0 {
		x = rng.Float64()
	}
	l := math.Log(x) - math.Log(1-x) + 1

	r := asteroidMeanRadius * math.Sqrt(math.Abs(l))
	phi := rng.Float64() * 2 * math.Pi

	v := math.Sqrt(G*centerMass/r) * uniform(rng, 0.6, 1.2)
	vy := uniform(rng, -1e2, 1e2)

	return Body{
		Mass:     asteroidMass,
		Radius:   asteroidRadius,
		Color:    asteroidColor,
		Position: vec.V3{X: r * math.Cos(phi), Z: r * math.Sin(phi)},
		Velocity: vec.V3{X: -v * math.Sin(phi), Y: vy, Z: v * math.Cos(phi)},
	}
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}
