package gravity

import (
	"runtime"
	"sync"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/octree"
	"github.com/okuno/orbitsim/internal/vec"
)

// EvalAll fills accels with the acceleration of every body, walking the
// shared read-only tree from up to workers goroutines. Each body's
// result lands in its own slot, so parallel and sequential evaluation
// produce identical values.
//
// workers <= 1 runs sequentially; workers == 0 means GOMAXPROCS.
func (e *Evaluator) EvalAll(tree *octree.Tree, bodies []body.Body, accels []vec.V3, workers int) {
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers <= 1 || len(bodies) < 2*workers {
		for i := range bodies {
			accels[i] = e.Accel(tree, bodies, i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (len(bodies) + workers - 1) / workers
	for start := 0; start < len(bodies); start += chunk {
		end := start + chunk
		if end > len(bodies) {
			end = len(bodies)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				accels[i] = e.Accel(tree, bodies, i)
			}
		}(start, end)
	}
	wg.Wait()
}
