package config

import (
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/sim"
	"github.com/okuno/orbitsim/internal/vec"
)

const (
	DefaultAsteroids     = 500
	DefaultSteps         = 10000
	DefaultSnapshotEvery = 100
)

type Config struct {
	Catalog       string      `yaml:"catalog"`
	Dt            float64     `yaml:"dt"` // seconds
	Theta         float64     `yaml:"theta"`
	Asteroids     int         `yaml:"asteroids"`
	Seed          int64       `yaml:"seed"`
	Workers       int         `yaml:"workers"`
	Steps         int         `yaml:"steps"`
	SnapshotEvery int         `yaml:"snapshot_every"`
	MassScale     []MassScale `yaml:"mass_scale,omitempty"`
	ExtraBodies   []ExtraBody `yaml:"extra_bodies,omitempty"`
}

// MassScale multiplies a named catalog body's mass, for what-if runs
// like a heavy Jupiter perturbing the belt.
type MassScale struct {
	Body   string  `yaml:"body"`
	Factor float64 `yaml:"factor"`
}

// ExtraBody injects a body that is in no catalog, like a passing black
// hole crashing the system. Extras are appended after the belt and do
// not shift the gravitational center used for asteroid sampling.
type ExtraBody struct {
	Name     string  `yaml:"name"`
	Mass     float64 `yaml:"mass"`
	Radius   float64 `yaml:"radius"`
	Color    string  `yaml:"color,omitempty"`
	Position vec.V3  `yaml:"position"`
	Velocity vec.V3  `yaml:"velocity"`
}

func DefaultConfig() *Config {
	c := sim.DefaultConfig()
	return &Config{
		Catalog:       c.Catalog,
		Dt:            c.Dt,
		Theta:         c.Theta,
		Asteroids:     DefaultAsteroids,
		Seed:          c.Seed,
		Workers:       c.Workers,
		Steps:         DefaultSteps,
		SnapshotEvery: DefaultSnapshotEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig translates the file-level config into the driver's
// construction parameters.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Catalog:   c.Catalog,
		Dt:        c.Dt,
		Theta:     c.Theta,
		Asteroids: c.Asteroids,
		Seed:      c.Seed,
		Workers:   c.Workers,
	}
}

// BuildSimulation loads the catalog, applies mass scaling, samples the
// asteroid belt and constructs the simulation. All commands go through
// here so a preset behaves identically everywhere.
func (c *Config) BuildSimulation() (*sim.Simulation, error) {
	bodies, err := body.Load(c.Catalog)
	if err != nil {
		return nil, err
	}

	for _, ms := range c.MassScale {
		for i := range bodies {
			if bodies[i].Name == ms.Body {
				bodies[i].Mass *= ms.Factor
			}
		}
	}

	if c.Asteroids > 0 {
		center := body.MostMassive(bodies)
		if center >= 0 {
			rng := rand.New(rand.NewSource(c.Seed))
			bodies = append(bodies, body.Asteroids(c.Asteroids, bodies[center].Mass, rng)...)
		}
	}

	for _, eb := range c.ExtraBodies {
		bodies = append(bodies, body.Body{
			Name:     eb.Name,
			Mass:     eb.Mass,
			Radius:   eb.Radius,
			Color:    eb.Color,
			Position: eb.Position,
			Velocity: eb.Velocity,
		})
	}

	return sim.NewWithBodies(c.SimConfig(), bodies)
}
