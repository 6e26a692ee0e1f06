// Package octree builds the Barnes-Hut spatial decomposition: a cube
// of space recursively split into octants until every occupied region
// holds a single body.
//
// Nodes live in a flat arena and reference each other by index, so a
// tree is rebuilt every simulation step by truncating the arena and
// reusing its backing storage. Nodes reference bodies by index into
// the caller's body slice, never by pointer.
package octree

import (
	"math"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/vec"
)

const (
	// None marks an absent child or body reference.
	None int32 = -1

	// margin enlarges the root cube beyond the tight bounding box so
	// every body is strictly inside and octant ties cannot occur at
	// the boundary.
	margin = 1.1

	// minSize is the floor for the root cube edge, guarding the
	// degenerate all-bodies-coincident case against a zero-size cube.
	minSize = 1e-9

	// maxDepth stops subdivision of (near-)coincident bodies, which
	// would otherwise recurse without bound. Beyond it a leaf keeps
	// aggregating mass without splitting.
	maxDepth = 64
)

// Node is one cubic region. For a leaf holding exactly one body, Body
// is that body's index; an internal node has Body == None and up to
// eight children. Mass and CenterOfMass always aggregate every body
// under the node.
type Node struct {
	Center       vec.V3
	Size         float64
	Mass         float64
	CenterOfMass vec.V3
	Children     [8]int32
	Body         int32
	Leaf         bool
}

// Tree is the node arena. The zero value is ready to use.
type Tree struct {
	nodes []Node
}

// Root returns the root node, or nil for a tree built over no bodies.
func (t *Tree) Root() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return &t.nodes[0]
}

// Node returns the node at index i. Indices come from Children slots
// and are only valid until the next Build.
func (t *Tree) Node(i int32) *Node {
	return &t.nodes[i]
}

// Len returns the number of nodes in the current tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Build rebuilds the tree over the given bodies, reusing the arena's
// backing storage. Bodies must be non-empty; the per-step driver never
// calls Build with an empty store.
func (t *Tree) Build(bodies []body.Body) {
	t.nodes = t.nodes[:0]
	if len(bodies) == 0 {
		return
	}

	center, size := bounds(bodies)
	t.alloc(center, size)
	for i := range bodies {
		t.insert(0, int32(i), bodies, 0)
	}
}

// bounds computes the root cube: center at the bounding-box midpoint,
// edge the largest extent enlarged by the margin factor.
func bounds(bodies []body.Body) (vec.V3, float64) {
	min := bodies[0].Position
	max := bodies[0].Position
	for i := 1; i < len(bodies); i++ {
		p := bodies[i].Position
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}

	center := min.Add(max).Scale(0.5)
	size := math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z)) * margin
	if size < minSize {
		size = minSize
	}
	return center, size
}

// alloc appends a fresh empty leaf and returns its index.
func (t *Tree) alloc(center vec.V3, size float64) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Center:   center,
		Size:     size,
		Children: [8]int32{None, None, None, None, None, None, None, None},
		Body:     None,
		Leaf:     true,
	})
	return idx
}

// insert routes body bi into the subtree at ni, updating the node's
// aggregate mass and center of mass on the way down so a single pass
// per body suffices.
//
// The arena may grow during insertion, so node access always re-indexes
// t.nodes instead of holding a pointer across child allocation.
func (t *Tree) insert(ni, bi int32, bodies []body.Body, depth int) {
	b := bodies[bi]

	// Empty leaf: the body settles here.
	if t.nodes[ni].Mass == 0 {
		n := &t.nodes[ni]
		n.Body = bi
		n.Mass = b.Mass
		n.CenterOfMass = b.Position
		return
	}

	// Running-total aggregate update.
	{
		n := &t.nodes[ni]
		total := n.Mass + b.Mass
		n.CenterOfMass = n.CenterOfMass.Scale(n.Mass).
			Add(b.Position.Scale(b.Mass)).
			Scale(1 / total)
		n.Mass = total
	}

	if depth >= maxDepth {
		// Coincident bodies: keep the aggregate, stop splitting.
		return
	}

	// Occupied leaf: convert to internal and push the old body down.
	if t.nodes[ni].Leaf && t.nodes[ni].Body != None {
		old := t.nodes[ni].Body
		t.nodes[ni].Body = None
		t.nodes[ni].Leaf = false

		ci := t.child(ni, bodies[old].Position)
		t.insert(ci, old, bodies, depth+1)
	}

	if !t.nodes[ni].Leaf {
		ci := t.child(ni, b.Position)
		t.insert(ci, bi, bodies, depth+1)
	}
}

// child returns the child of ni covering pos, allocating it lazily.
func (t *Tree) child(ni int32, pos vec.V3) int32 {
	oct := octant(t.nodes[ni].Center, pos)
	if ci := t.nodes[ni].Children[oct]; ci != None {
		return ci
	}

	half := t.nodes[ni].Size / 2
	ci := t.alloc(octantCenter(t.nodes[ni].Center, oct, half/2), half)
	t.nodes[ni].Children[oct] = ci
	return ci
}

// octant bit-packs three independent axis comparisons into an index
// 0-7: bit 0 for x, bit 1 for y, bit 2 for z.
func octant(center, pos vec.V3) int {
	oct := 0
	if pos.X >= center.X {
		oct |= 1
	}
	if pos.Y >= center.Y {
		oct |= 2
	}
	if pos.Z >= center.Z {
		oct |= 4
	}
	return oct
}

// octantCenter offsets the parent center by a quarter edge along each
// axis according to the octant bits.
func octantCenter(center vec.V3, oct int, offset float64) vec.V3 {
	if oct&1 != 0 {
		center.X += offset
	} else {
		center.X -= offset
	}
	if oct&2 != 0 {
		center.Y += offset
	} else {
		center.Y -= offset
	}
	if oct&4 != 0 {
		center.Z += offset
	} else {
		center.Z -= offset
	}
	return center
}
