// Package sim owns the simulation driver: it builds the body store,
// rebuilds the octree once per step, evaluates accelerations and
// advances the system with a semi-implicit Euler integrator.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/gravity"
	"github.com/okuno/orbitsim/internal/octree"
	"github.com/okuno/orbitsim/internal/vec"
)

// Default time step from the original cadence: 100 simulated days per
// wall-clock second at 60 frames per second.
const (
	SecondsPerDay = 86400.0
	DefaultDt     = 100 * SecondsPerDay / 60
)

// Config carries the construction parameters. All of them are fixed
// for the lifetime of the simulation.
type Config struct {
	Catalog   string  // named-body catalog, see package body
	Dt        float64 // time step, seconds
	Theta     float64 // Barnes-Hut opening threshold
	Asteroids int     // number of procedurally generated minor bodies
	Seed      int64   // seed for asteroid sampling
	Workers   int     // parallel force-evaluation goroutines; 0 = GOMAXPROCS, 1 = sequential
}

func DefaultConfig() Config {
	return Config{
		Catalog:   body.CatalogSolar,
		Dt:        DefaultDt,
		Theta:     gravity.DefaultTheta,
		Asteroids: 500,
		Seed:      1,
		Workers:   1,
	}
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Theta <= 0 {
		return fmt.Errorf("%w: theta must be positive, got %g", ErrInvalidConfig, c.Theta)
	}
	if c.Asteroids < 0 {
		return fmt.Errorf("%w: asteroid count must not be negative, got %d", ErrInvalidConfig, c.Asteroids)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Simulation owns the body store exclusively. The octree arena and the
// acceleration buffer are internal scratch space reused across steps
// and never escape a Step call.
type Simulation struct {
	dt      float64
	theta   float64
	elapsed float64
	workers int

	bodies []body.Body
	accels []vec.V3
	tree   octree.Tree
	eval   *gravity.Evaluator

	metrics []Metric
}

// New constructs a simulation populated from the configured catalog
// followed by the procedurally generated asteroid belt, sampled around
// the most massive catalog body with a source seeded from cfg.Seed.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	bodies, err := body.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	center := body.MostMassive(bodies)
	if center < 0 {
		return nil, ErrNoBodies
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	bodies = append(bodies, body.Asteroids(cfg.Asteroids, bodies[center].Mass, rng)...)

	return NewWithBodies(cfg, bodies)
}

// NewWithBodies constructs a simulation over caller-provided bodies.
// The slice is taken over by the simulation and must not be mutated by
// the caller afterwards.
func NewWithBodies(cfg Config, bodies []body.Body) (*Simulation, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}
	for i := range bodies {
		if bodies[i].Mass <= 0 {
			return nil, fmt.Errorf("%w: body %d has non-positive mass %g",
				ErrInvalidConfig, i, bodies[i].Mass)
		}
	}

	return &Simulation{
		dt:      cfg.Dt,
		theta:   cfg.Theta,
		workers: cfg.Workers,
		bodies:  bodies,
		accels:  make([]vec.V3, len(bodies)),
		eval:    gravity.New(cfg.Theta),
	}, nil
}

// Step advances the simulation by exactly one time step: rebuild the
// octree, evaluate every body's acceleration against it, then
// integrate. A nil simulation or an empty store is a no-op.
func (s *Simulation) Step() {
	if s == nil || len(s.bodies) == 0 {
		return
	}

	s.tree.Build(s.bodies)
	s.eval.EvalAll(&s.tree, s.bodies, s.accels, s.workers)

	// Semi-implicit Euler, phase-ordered: all velocities first from the
	// step-start accelerations, then all positions from the updated
	// velocities. Interleaving per body would make results depend on
	// body order.
	for i := range s.bodies {
		s.bodies[i].Velocity = s.bodies[i].Velocity.Add(s.accels[i].Scale(s.dt))
	}
	for i := range s.bodies {
		s.bodies[i].Position = s.bodies[i].Position.Add(s.bodies[i].Velocity.Scale(s.dt))
	}

	s.elapsed += s.dt
}

// Close releases the body store. Idempotent and nil-safe; a closed
// simulation steps as a no-op.
func (s *Simulation) Close() {
	if s == nil {
		return
	}
	s.bodies = nil
	s.accels = nil
	s.tree = octree.Tree{}
}

// BodyCount returns the number of simulated bodies.
func (s *Simulation) BodyCount() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}

// Body returns a copy of the i-th body.
func (s *Simulation) Body(i int) body.Body {
	return s.bodies[i]
}

// Bodies returns the live body slice for read-only consumers such as
// the viewer. Callers must not mutate it and must not retain it across
// Close.
func (s *Simulation) Bodies() []body.Body {
	if s == nil {
		return nil
	}
	return s.bodies
}

// Elapsed returns the simulated time in seconds since construction.
func (s *Simulation) Elapsed() float64 {
	if s == nil {
		return 0
	}
	return s.elapsed
}

// ElapsedDays returns the simulated time in days, the unit the CLI and
// the viewer report.
func (s *Simulation) ElapsedDays() float64 {
	return s.Elapsed() / SecondsPerDay
}

func (s *Simulation) Dt() float64 { return s.dt }

func (s *Simulation) Theta() float64 { return s.theta }

// valid reports whether every body's state is finite.
func (s *Simulation) valid() bool {
	for i := range s.bodies {
		if !s.bodies[i].Position.IsValid() || !s.bodies[i].Velocity.IsValid() {
			return false
		}
	}
	return true
}
