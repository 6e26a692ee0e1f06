package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okuno/orbitsim/internal/body"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Catalog != body.CatalogSolar {
		t.Errorf("default catalog = %q, want %q", cfg.Catalog, body.CatalogSolar)
	}
	if cfg.Dt <= 0 {
		t.Errorf("default dt = %g, want positive", cfg.Dt)
	}
	if cfg.Theta <= 0 {
		t.Errorf("default theta = %g, want positive", cfg.Theta)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Asteroids = 42
	cfg.Seed = 7
	cfg.MassScale = []MassScale{{Body: "Jupiter", Factor: 10}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Asteroids != 42 || loaded.Seed != 7 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.MassScale) != 1 || loaded.MassScale[0].Factor != 10 {
		t.Errorf("round trip lost mass scale: %+v", loaded.MassScale)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("asteroids: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Asteroids != 10 {
		t.Errorf("asteroids = %d, want 10", cfg.Asteroids)
	}
	// Unset fields keep their defaults.
	if cfg.Catalog != body.CatalogSolar || cfg.Theta != DefaultConfig().Theta {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPresetsMatchDefaultExecutionMode(t *testing.T) {
	// Every preset except the deliberately parallel "dense" runs with
	// the same worker count as the no-preset default.
	want := DefaultConfig().Workers
	for _, name := range PresetNames() {
		if name == "dense" {
			continue
		}
		p, err := Preset(name)
		if err != nil {
			t.Fatal(err)
		}
		if p.Workers != want {
			t.Errorf("preset %q workers = %d, want %d", name, p.Workers, want)
		}
	}
}

func TestBuildSimulationExtraBodies(t *testing.T) {
	cfg, err := Preset("black-hole")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Asteroids = 5

	s, err := cfg.BuildSimulation()
	if err != nil {
		t.Fatalf("BuildSimulation: %v", err)
	}
	defer s.Close()

	// 9 catalog bodies, 5 asteroids, 1 intruder.
	if s.BodyCount() != 15 {
		t.Fatalf("body count = %d, want 15", s.BodyCount())
	}

	var hole *body.Body
	for i := 0; i < s.BodyCount(); i++ {
		if s.Body(i).Name == "Black Hole" {
			b := s.Body(i)
			hole = &b
		}
	}
	if hole == nil {
		t.Fatal("intruder not found in simulation")
	}
	if hole.Mass != 1.9885e32 {
		t.Errorf("intruder mass = %g, want 100 solar masses", hole.Mass)
	}
	if hole.Position.X != 4.431790029686977e12 || hole.Velocity.X != -9.431790029686977e4 {
		t.Errorf("intruder state: pos %+v vel %+v", hole.Position, hole.Velocity)
	}

	// The belt still samples around the Sun: asteroids sit at belt
	// distances, far inside the intruder's starting radius.
	base, err := body.Load(body.CatalogSolar)
	if err != nil {
		t.Fatal(err)
	}
	if base[body.MostMassive(base)].Name != "Sun" {
		t.Fatal("expected Sun as catalog center")
	}
}

func TestPresetCopies(t *testing.T) {
	a, err := Preset("heavy-jupiter")
	if err != nil {
		t.Fatal(err)
	}
	a.MassScale[0].Factor = 2

	b, err := Preset("heavy-jupiter")
	if err != nil {
		t.Fatal(err)
	}
	if b.MassScale[0].Factor != 1000 {
		t.Fatalf("preset table mutated: factor = %g", b.MassScale[0].Factor)
	}

	c, err := Preset("black-hole")
	if err != nil {
		t.Fatal(err)
	}
	c.ExtraBodies[0].Mass = 1

	d, err := Preset("black-hole")
	if err != nil {
		t.Fatal(err)
	}
	if d.ExtraBodies[0].Mass != 1.9885e32 {
		t.Fatalf("preset table mutated: mass = %g", d.ExtraBodies[0].Mass)
	}

	if _, err := Preset("nope"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestBuildSimulationMassScale(t *testing.T) {
	cfg, err := Preset("heavy-jupiter")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Asteroids = 3

	s, err := cfg.BuildSimulation()
	if err != nil {
		t.Fatalf("BuildSimulation: %v", err)
	}
	defer s.Close()

	if s.BodyCount() != 9+3 {
		t.Fatalf("body count = %d, want 12", s.BodyCount())
	}

	base, err := body.Load(body.CatalogSolar)
	if err != nil {
		t.Fatal(err)
	}
	var want float64
	for _, b := range base {
		if b.Name == "Jupiter" {
			want = b.Mass * 1000
		}
	}
	found := false
	for i := 0; i < s.BodyCount(); i++ {
		if s.Body(i).Name == "Jupiter" {
			found = true
			if s.Body(i).Mass != want {
				t.Errorf("Jupiter mass = %g, want %g", s.Body(i).Mass, want)
			}
		}
	}
	if !found {
		t.Fatal("Jupiter not found in simulation")
	}
}
