// Package analysis quantifies the accuracy/speed trade-off of the tree
// approximation against exact pairwise summation.
package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/gravity"
	"github.com/okuno/orbitsim/internal/octree"
	"github.com/okuno/orbitsim/internal/vec"
)

// ThetaResult summarizes the force error of one opening threshold over
// a fixed body set.
type ThetaResult struct {
	Theta     float64
	MeanErr   float64 // mean relative acceleration error
	StdDevErr float64
	MaxErr    float64
	MeanVisit float64 // mean tree nodes visited per body
}

// ThetaSweep evaluates every body's acceleration with the tree at each
// threshold and compares against the exact O(n^2) sum. Relative error
// is |a_tree - a_exact| / |a_exact|; bodies with a vanishing exact
// acceleration are skipped.
func ThetaSweep(bodies []body.Body, thetas []float64) []ThetaResult {
	var tree octree.Tree
	tree.Build(bodies)

	ref := gravity.New(gravity.DefaultTheta)
	exact := make([]vec.V3, len(bodies))
	for i := range bodies {
		exact[i] = ref.Direct(bodies, i)
	}

	results := make([]ThetaResult, 0, len(thetas))
	for _, theta := range thetas {
		e := gravity.New(theta)

		errs := make([]float64, 0, len(bodies))
		visits := make([]float64, 0, len(bodies))
		maxErr := 0.0

		for i := range bodies {
			norm := exact[i].Norm()
			if norm == 0 {
				continue
			}
			a, v := e.AccelVisits(&tree, bodies, i)
			rel := a.Sub(exact[i]).Norm() / norm

			errs = append(errs, rel)
			visits = append(visits, float64(v))
			if rel > maxErr {
				maxErr = rel
			}
		}

		mean, std := stat.MeanStdDev(errs, nil)
		results = append(results, ThetaResult{
			Theta:     theta,
			MeanErr:   mean,
			StdDevErr: std,
			MaxErr:    maxErr,
			MeanVisit: stat.Mean(visits, nil),
		})
	}
	return results
}
