package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pairdist/internal/pairwise"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != DefaultParticles {
		t.Errorf("expected %d particles, got %d", DefaultParticles, cfg.Particles)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.BoxGeometry() != pairwise.UnitBox() {
		t.Errorf("expected unit box, got %v", cfg.BoxGeometry().L)
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.Discipline = "locked"
	cfg.Box = BoxConfig{Lx: 2, Ly: 3, Lz: 4}

	ec, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	if ec.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", ec.Workers)
	}
	if ec.Discipline != pairwise.Locked {
		t.Errorf("expected locked discipline, got %s", ec.Discipline)
	}
	if ec.Box.Half != [3]float32{1, 1.5, 2} {
		t.Errorf("unexpected half lengths %v", ec.Box.Half)
	}

	cfg.Workers = 0
	ec, err = cfg.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	if ec.Workers <= 0 {
		t.Error("expected workers to default to the CPU count")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative particles", func(c *Config) { c.Particles = -1 }},
		{"zero bins", func(c *Config) { c.Bins = 0 }},
		{"zero box edge", func(c *Config) { c.Box.Ly = 0 }},
		{"negative box edge", func(c *Config) { c.Box.Lz = -1 }},
		{"unknown discipline", func(c *Config) { c.Discipline = "spinlock" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Particles = 123
	cfg.Workers = 2
	cfg.Box = BoxConfig{Lx: 1, Ly: 2, Lz: 3}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Particles != 123 || loaded.Workers != 2 {
		t.Errorf("unexpected loaded config %+v", loaded)
	}
	if loaded.Box != cfg.Box {
		t.Errorf("expected box %v, got %v", cfg.Box, loaded.Box)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("particles: 10\nbox:\n  lz: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Particles != 10 {
		t.Errorf("expected 10 particles, got %d", cfg.Particles)
	}
	if cfg.Box != (BoxConfig{Lx: 1, Ly: 1, Lz: 0.5}) {
		t.Errorf("expected merged box, got %v", cfg.Box)
	}
	if cfg.Discipline != DefaultDiscipline {
		t.Errorf("expected default discipline, got %s", cfg.Discipline)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("discipline: spinlock\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown discipline")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("large")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Particles != 40000 {
		t.Errorf("expected 40000 particles, got %d", cfg.Particles)
	}

	cfg.Particles = 1
	if Presets["large"].Particles != 40000 {
		t.Error("GetPreset should return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
