package octree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/vec"
)

func randomBodies(n int, seed int64) []body.Body {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]body.Body, n)
	for i := range bodies {
		bodies[i] = body.Body{
			Mass: 1 + rng.Float64()*1e3,
			Position: vec.V3{
				X: rng.Float64()*2e3 - 1e3,
				Y: rng.Float64()*2e3 - 1e3,
				Z: rng.Float64()*2e3 - 1e3,
			},
		}
	}
	return bodies
}

func TestBuildEmpty(t *testing.T) {
	var tree Tree
	tree.Build(nil)
	if tree.Root() != nil {
		t.Error("expected nil root for empty input")
	}
}

func TestBoundingInvariant(t *testing.T) {
	bodies := randomBodies(200, 1)
	var tree Tree
	tree.Build(bodies)

	root := tree.Root()
	if root == nil {
		t.Fatal("nil root")
	}

	half := root.Size / 2
	for i, b := range bodies {
		d := b.Position.Sub(root.Center)
		if math.Abs(d.X) > half || math.Abs(d.Y) > half || math.Abs(d.Z) > half {
			t.Errorf("body %d at %v outside root cube (center %v, size %g)",
				i, b.Position, root.Center, root.Size)
		}
	}
}

// collect gathers the body indices under a node.
func collect(tree *Tree, n *Node, out map[int32]bool) {
	if n.Leaf {
		if n.Body != None {
			out[n.Body] = true
		}
		return
	}
	for _, ci := range n.Children {
		if ci != None {
			collect(tree, tree.Node(ci), out)
		}
	}
}

func checkAggregates(t *testing.T, tree *Tree, bodies []body.Body, n *Node) {
	t.Helper()

	under := make(map[int32]bool)
	collect(tree, n, under)

	var mass float64
	var weighted vec.V3
	for bi := range under {
		mass += bodies[bi].Mass
		weighted = weighted.Add(bodies[bi].Position.Scale(bodies[bi].Mass))
	}

	if math.Abs(n.Mass-mass) > mass*1e-9 {
		t.Errorf("node mass %g, sum of descendants %g", n.Mass, mass)
	}
	com := weighted.Scale(1 / mass)
	if n.CenterOfMass.Distance(com) > 1e-6*n.Size+1e-9 {
		t.Errorf("node COM %v, weighted average %v", n.CenterOfMass, com)
	}

	for _, ci := range n.Children {
		if ci != None {
			checkAggregates(t, tree, bodies, tree.Node(ci))
		}
	}
}

func TestMassAndCenterOfMassConsistency(t *testing.T) {
	bodies := randomBodies(300, 2)
	var tree Tree
	tree.Build(bodies)
	checkAggregates(t, &tree, bodies, tree.Root())

	// Every body must appear exactly once.
	under := make(map[int32]bool)
	collect(&tree, tree.Root(), under)
	if len(under) != len(bodies) {
		t.Errorf("tree holds %d bodies, want %d", len(under), len(bodies))
	}
}

func TestChildGeometry(t *testing.T) {
	bodies := randomBodies(100, 3)
	var tree Tree
	tree.Build(bodies)

	var walk func(n *Node)
	walk = func(n *Node) {
		for oct, ci := range n.Children {
			if ci == None {
				continue
			}
			c := tree.Node(ci)
			if math.Abs(c.Size-n.Size/2) > n.Size*1e-12 {
				t.Errorf("child size %g, want half of %g", c.Size, n.Size)
			}
			if got := octant(n.Center, c.Center); got != oct {
				t.Errorf("child center %v in octant %d, stored under %d",
					c.Center, got, oct)
			}
			walk(c)
		}
	}
	walk(tree.Root())
}

func TestOctantIndex(t *testing.T) {
	center := vec.V3{}
	tests := []struct {
		pos  vec.V3
		want int
	}{
		{vec.V3{X: -1, Y: -1, Z: -1}, 0},
		{vec.V3{X: 1, Y: -1, Z: -1}, 1},
		{vec.V3{X: -1, Y: 1, Z: -1}, 2},
		{vec.V3{X: 1, Y: 1, Z: -1}, 3},
		{vec.V3{X: -1, Y: -1, Z: 1}, 4},
		{vec.V3{X: 1, Y: -1, Z: 1}, 5},
		{vec.V3{X: -1, Y: 1, Z: 1}, 6},
		{vec.V3{X: 1, Y: 1, Z: 1}, 7},
	}
	for _, tt := range tests {
		if got := octant(center, tt.pos); got != tt.want {
			t.Errorf("octant(%v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestCoincidentBodiesTerminate(t *testing.T) {
	p := vec.V3{X: 5, Y: 5, Z: 5}
	bodies := []body.Body{
		{Mass: 10, Position: p},
		{Mass: 20, Position: p},
		{Mass: 30, Position: p},
	}

	var tree Tree
	tree.Build(bodies) // must not recurse forever

	root := tree.Root()
	if root.Size <= 0 {
		t.Errorf("degenerate cube size %g", root.Size)
	}
	if math.Abs(root.Mass-60) > 1e-9 {
		t.Errorf("root mass %g, want 60", root.Mass)
	}
	if root.CenterOfMass.Distance(p) > 1e-9 {
		t.Errorf("root COM %v, want %v", root.CenterOfMass, p)
	}
}

func TestArenaReuse(t *testing.T) {
	bodies := randomBodies(150, 4)
	var tree Tree

	tree.Build(bodies)
	first := tree.Len()

	// Same input, rebuilt tree: identical shape, reused storage.
	tree.Build(bodies)
	if tree.Len() != first {
		t.Errorf("rebuild produced %d nodes, first build %d", tree.Len(), first)
	}
	checkAggregates(t, &tree, bodies, tree.Root())
}

func TestSingleBody(t *testing.T) {
	bodies := []body.Body{{Mass: 42, Position: vec.V3{X: 1, Y: 2, Z: 3}}}
	var tree Tree
	tree.Build(bodies)

	root := tree.Root()
	if !root.Leaf || root.Body != 0 {
		t.Errorf("single body should yield a leaf root holding body 0")
	}
	if root.Mass != 42 {
		t.Errorf("root mass %g, want 42", root.Mass)
	}
}
