package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pairdist/internal/logging"
	"github.com/san-kum/pairdist/internal/pairwise"
)

const (
	DefaultParticles  = 4000
	DefaultSeed       = 42
	DefaultBoxLength  = 1.0
	DefaultDiscipline = "disjoint"
	DefaultBins       = 50
)

type Config struct {
	Particles  int            `yaml:"particles"`
	Seed       int64          `yaml:"seed"`
	Workers    int            `yaml:"workers"`
	Discipline string         `yaml:"discipline"`
	Box        BoxConfig      `yaml:"box"`
	Bins       int            `yaml:"bins"`
	Log        logging.Config `yaml:"log"`
}

type BoxConfig struct {
	Lx float32 `yaml:"lx"`
	Ly float32 `yaml:"ly"`
	Lz float32 `yaml:"lz"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:  DefaultParticles,
		Seed:       DefaultSeed,
		Workers:    0,
		Discipline: DefaultDiscipline,
		Box: BoxConfig{
			Lx: DefaultBoxLength,
			Ly: DefaultBoxLength,
			Lz: DefaultBoxLength,
		},
		Bins: DefaultBins,
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func (c *Config) Validate() error {
	if c.Particles < 0 {
		return fmt.Errorf("particles must be non-negative, got %d", c.Particles)
	}
	if c.Bins < 1 {
		return fmt.Errorf("bins must be positive, got %d", c.Bins)
	}
	if err := c.BoxGeometry().Validate(); err != nil {
		return fmt.Errorf("box %v: %w", c.Box, err)
	}
	if _, err := pairwise.ParseDiscipline(c.Discipline); err != nil {
		return err
	}
	return nil
}

func (c *Config) BoxGeometry() pairwise.Box {
	return pairwise.NewBox(c.Box.Lx, c.Box.Ly, c.Box.Lz)
}

// EngineConfig converts c into the engine's configuration. Call Validate first.
func (c *Config) EngineConfig() (pairwise.Config, error) {
	d, err := pairwise.ParseDiscipline(c.Discipline)
	if err != nil {
		return pairwise.Config{}, err
	}
	ec := pairwise.DefaultConfig()
	ec.Box = c.BoxGeometry()
	ec.Discipline = d
	if c.Workers > 0 {
		ec.Workers = c.Workers
	}
	return ec, nil
}
