// Package gravity evaluates gravitational accelerations, either by
// walking a Barnes-Hut octree or by the exact all-pairs sum used as the
// accuracy reference.
package gravity

import (
	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/octree"
	"github.com/okuno/orbitsim/internal/vec"
)

// DefaultTheta is the standard Barnes-Hut opening threshold.
const DefaultTheta = 0.5

// defaultEpsilon is the distance below which a contribution is dropped
// as singular (self-node or numerically coincident bodies).
const defaultEpsilon = 1e-6

// Evaluator computes per-body accelerations against a tree built over
// the same body slice.
//
// Theta tunes the accuracy/performance trade-off: a node whose
// size/distance ratio is below Theta is treated as a single point mass
// at its center of mass. Theta -> 0 degenerates to exact all-pairs
// summation.
type Evaluator struct {
	G       float64
	Theta   float64
	Epsilon float64
}

// New returns an evaluator with the SI gravitational constant and the
// given opening threshold.
func New(theta float64) *Evaluator {
	return &Evaluator{
		G:       body.G,
		Theta:   theta,
		Epsilon: defaultEpsilon,
	}
}

// Accel returns the gravitational acceleration on bodies[i] from the
// tree. The tree must have been built over the same slice.
func (e *Evaluator) Accel(tree *octree.Tree, bodies []body.Body, i int) vec.V3 {
	acc, _ := e.AccelVisits(tree, bodies, i)
	return acc
}

// AccelVisits is Accel plus the number of tree nodes visited, the cost
// measure reported by the accuracy tooling.
func (e *Evaluator) AccelVisits(tree *octree.Tree, bodies []body.Body, i int) (vec.V3, int) {
	root := tree.Root()
	if root == nil {
		return vec.V3{}, 0
	}
	var acc vec.V3
	visits := e.walk(tree, root, bodies, int32(i), &acc)
	return acc, visits
}

// walk accumulates the subtree's contribution into acc and returns the
// node-visit count.
func (e *Evaluator) walk(tree *octree.Tree, n *octree.Node, bodies []body.Body, bi int32, acc *vec.V3) int {
	visits := 1

	// Empty region.
	if n.Mass == 0 {
		return visits
	}

	// Self-interaction guards, in order: identity first (exact and
	// cheap), epsilon distance second (numerically coincident bodies).
	if n.Leaf && n.Body == bi {
		return visits
	}

	delta := n.CenterOfMass.Sub(bodies[bi].Position)
	dist := delta.Norm()
	if dist < e.Epsilon {
		return visits
	}

	// Opening criterion: a leaf, or a node far enough away relative to
	// its size, acts as a single point mass at its center of mass.
	if n.Leaf || n.Size/dist < e.Theta {
		mag := e.G * n.Mass / (dist * dist)
		*acc = acc.Add(delta.Scale(mag / dist))
		return visits
	}

	for _, ci := range n.Children {
		if ci != octree.None {
			visits += e.walk(tree, tree.Node(ci), bodies, bi, acc)
		}
	}
	return visits
}

// Direct returns the exact all-pairs acceleration on bodies[i]. It is
// the reference for the Barnes-Hut approximation and scales
// quadratically; the simulation itself never calls it.
func (e *Evaluator) Direct(bodies []body.Body, i int) vec.V3 {
	var acc vec.V3
	pi := bodies[i].Position
	for j := range bodies {
		if j == i {
			continue
		}
		delta := bodies[j].Position.Sub(pi)
		dist := delta.Norm()
		if dist < e.Epsilon {
			continue
		}
		mag := e.G * bodies[j].Mass / (dist * dist)
		acc = acc.Add(delta.Scale(mag / dist))
	}
	return acc
}
