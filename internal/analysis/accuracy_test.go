package analysis

import (
	"math/rand"
	"testing"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/vec"
)

func clusteredBodies(n int, seed int64) []body.Body {
	rng := rand.New(rand.NewSource(seed))
	centers := []vec.V3{{X: -50}, {X: 50}, {Z: 60}}

	bodies := make([]body.Body, 0, n)
	for i := 0; i < n; i++ {
		c := centers[i%len(centers)]
		bodies = append(bodies, body.Body{
			Mass: 1e20 * (1 + rng.Float64()),
			Position: vec.V3{
				X: c.X + rng.NormFloat64()*3,
				Y: c.Y + rng.NormFloat64()*3,
				Z: c.Z + rng.NormFloat64()*3,
			},
		})
	}
	return bodies
}

func TestThetaSweep(t *testing.T) {
	bodies := clusteredBodies(60, 42)
	thetas := []float64{0.1, 0.5, 1.2}

	results := ThetaSweep(bodies, thetas)
	if len(results) != len(thetas) {
		t.Fatalf("result count = %d, want %d", len(results), len(thetas))
	}

	for _, r := range results {
		if r.MeanErr < 0 || r.MaxErr < r.MeanErr {
			t.Errorf("theta %g: mean %g, max %g inconsistent", r.Theta, r.MeanErr, r.MaxErr)
		}
		if r.MeanVisit <= 0 {
			t.Errorf("theta %g: mean visits = %g", r.Theta, r.MeanVisit)
		}
	}

	// Larger thresholds approximate more aggressively: fewer visits,
	// at least as much worst-case error at the extremes.
	first, last := results[0], results[len(results)-1]
	if last.MeanVisit >= first.MeanVisit {
		t.Errorf("visits did not drop: theta %g -> %g, visits %g -> %g",
			first.Theta, last.Theta, first.MeanVisit, last.MeanVisit)
	}
	if last.MaxErr < first.MaxErr {
		t.Errorf("max error shrank with looser theta: %g -> %g", first.MaxErr, last.MaxErr)
	}
}

func TestThetaSweepTinyThetaIsExact(t *testing.T) {
	bodies := clusteredBodies(30, 7)

	results := ThetaSweep(bodies, []float64{1e-9})
	if results[0].MeanErr > 1e-12 {
		t.Fatalf("near-zero theta should match direct sum, mean err = %g", results[0].MeanErr)
	}
}
