package config

import "sort"

var Presets = map[string]*Config{
	"tiny": {
		Particles: 100, Seed: DefaultSeed, Discipline: "disjoint", Bins: 20,
		Box: BoxConfig{Lx: 1, Ly: 1, Lz: 1},
	},
	"small": {
		Particles: 4000, Seed: DefaultSeed, Discipline: "disjoint", Bins: DefaultBins,
		Box: BoxConfig{Lx: 1, Ly: 1, Lz: 1},
	},
	"medium": {
		Particles: 10000, Seed: DefaultSeed, Discipline: "disjoint", Bins: DefaultBins,
		Box: BoxConfig{Lx: 1, Ly: 1, Lz: 1},
	},
	"large": {
		Particles: 40000, Seed: DefaultSeed, Discipline: "disjoint", Bins: 100,
		Box: BoxConfig{Lx: 1, Ly: 1, Lz: 1},
	},
	"locked": {
		Particles: 4000, Seed: DefaultSeed, Discipline: "locked", Bins: DefaultBins,
		Box: BoxConfig{Lx: 1, Ly: 1, Lz: 1},
	},
	"slab": {
		Particles: 4000, Seed: DefaultSeed, Discipline: "disjoint", Bins: DefaultBins,
		Box: BoxConfig{Lx: 2, Ly: 2, Lz: 0.5},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Log = DefaultConfig().Log
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
