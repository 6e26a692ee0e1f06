package config

import (
	"fmt"
	"sort"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/sim"
	"github.com/okuno/orbitsim/internal/vec"
)

var Presets = map[string]*Config{
	"solar": {
		Catalog:       body.CatalogSolar,
		Dt:            sim.DefaultDt,
		Theta:         0.5,
		Asteroids:     DefaultAsteroids,
		Seed:          1,
		Workers:       1,
		Steps:         DefaultSteps,
		SnapshotEvery: DefaultSnapshotEvery,
	},
	"dense": {
		Catalog:       body.CatalogSolar,
		Dt:            sim.DefaultDt,
		Theta:         0.5,
		Asteroids:     5000,
		Seed:          1,
		Workers:       0, // all cores
		Steps:         DefaultSteps,
		SnapshotEvery: DefaultSnapshotEvery,
	},
	"binary": {
		Catalog:       body.CatalogAlphaCentauri,
		Dt:            10 * sim.SecondsPerDay,
		Theta:         0.3,
		Asteroids:     0,
		Seed:          1,
		Workers:       1,
		Steps:         50000,
		SnapshotEvery: 500,
	},
	"heavy-jupiter": {
		Catalog:       body.CatalogSolar,
		Dt:            sim.DefaultDt,
		Theta:         0.5,
		Asteroids:     DefaultAsteroids,
		Seed:          1,
		Workers:       1,
		Steps:         DefaultSteps,
		SnapshotEvery: DefaultSnapshotEvery,
		MassScale:     []MassScale{{Body: "Jupiter", Factor: 1000}},
	},
	"black-hole": {
		Catalog:       body.CatalogSolar,
		Dt:            sim.DefaultDt,
		Theta:         0.5,
		Asteroids:     DefaultAsteroids,
		Seed:          1,
		Workers:       1,
		Steps:         DefaultSteps,
		SnapshotEvery: DefaultSnapshotEvery,
		ExtraBodies: []ExtraBody{{
			Name:   "Black Hole",
			Mass:   1.9885e32, // 100 solar masses
			Radius: 2e20,      // oversized so the viewer can spot it
			Color:  "#701F7E",
			Position: vec.V3{
				X: 4.431790029686977e12,
				Y: -8.954348456482631e10,
			},
			Velocity: vec.V3{
				X: -9.431790029686977e4,
				Y: 8.954348456482631e1,
				Z: 6.114486878028781e1,
			},
		}},
	},
}

// Preset returns a copy of the named preset so callers can override
// fields without mutating the shared table.
func Preset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (have %v)", name, PresetNames())
	}
	c := *p
	c.MassScale = append([]MassScale(nil), p.MassScale...)
	c.ExtraBodies = append([]ExtraBody(nil), p.ExtraBodies...)
	return &c, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
