package sim

import (
	"context"
	"fmt"

	"github.com/okuno/orbitsim/internal/body"
)

// Metric observes the body store after each step. Implementations live
// in package metrics; the driver only needs this surface.
type Metric interface {
	Name() string
	Observe(bodies []body.Body, t float64)
	Value() float64
	Reset()
}

// Sink receives periodic snapshots of the body store during a run.
// The slice passed to OnSnapshot is a copy and may be retained.
type Sink interface {
	OnSnapshot(t float64, bodies []body.Body) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(t float64, bodies []body.Body) error

func (f SinkFunc) OnSnapshot(t float64, bodies []body.Body) error {
	return f(t, bodies)
}

// AddMetric registers a metric to be observed after every step of Run.
func (s *Simulation) AddMetric(m Metric) {
	s.metrics = append(s.metrics, m)
}

// Metrics returns the registered metrics.
func (s *Simulation) Metrics() []Metric { return s.metrics }

// Run advances the simulation by steps steps, observing registered
// metrics after each one. When snapshotEvery > 0 and sink is non-nil,
// a copy of the body store is delivered to the sink every
// snapshotEvery steps (and once before the first step, at t=0).
//
// Run validates the body store after each step and stops with a
// StepError wrapping ErrInvalidState if any position or velocity has
// gone non-finite, which is how a too-large dt or a near-collision
// singularity surfaces.
func (s *Simulation) Run(ctx context.Context, steps, snapshotEvery int, sink Sink) error {
	if s == nil || len(s.bodies) == 0 {
		return ErrNoBodies
	}

	snapshot := func(n int) error {
		if sink == nil || snapshotEvery <= 0 {
			return nil
		}
		if err := sink.OnSnapshot(s.elapsed, body.Clone(s.bodies)); err != nil {
			return &StepError{Step: n, Time: s.elapsed, Wrapped: fmt.Errorf("snapshot: %w", err)}
		}
		return nil
	}

	if err := snapshot(0); err != nil {
		return err
	}

	for n := 1; n <= steps; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step()

		if !s.valid() {
			return &StepError{Step: n, Time: s.elapsed, Wrapped: ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(s.bodies, s.elapsed)
		}

		if snapshotEvery > 0 && n%snapshotEvery == 0 {
			if err := snapshot(n); err != nil {
				return err
			}
		}
	}
	return nil
}
