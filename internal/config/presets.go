package config

import "sort"

// Presets are named starting points for common scenarios.
var Presets = map[string]*Config{
	// classic Lennard-Jones melt
	"melt": {
		Lattice: 8, Density: 0.8442, Temperature: 1.44, Cutoff: 2.5,
		Epsilon: 1.0, Sigma: 1.0, Dt: 0.005, Steps: 500, Every: 10,
		Threads: 4, Seed: 42, Newton: true, NewtonBond: true,
		Output: OutputConfig{Energy: true, Virial: true},
	},
	"dilute": {
		Lattice: 5, Density: 0.05, Temperature: 1.0, Cutoff: 3.0,
		Epsilon: 1.0, Sigma: 1.0, Dt: 0.005, Steps: 1000, Every: 20,
		Threads: 2, Seed: 42, Newton: true, NewtonBond: true,
		Output: OutputConfig{Energy: true, Virial: true},
	},
	// harmonic chain threaded through an LJ solvent
	"chain": {
		Lattice: 6, Density: 0.6, Temperature: 1.0, Cutoff: 2.5,
		Epsilon: 1.0, Sigma: 1.0, Dt: 0.002, Steps: 500, Every: 10,
		Threads: 4, Seed: 42, Newton: true, NewtonBond: true,
		Bonds: true, BondK: 100.0, BondR0: 1.0,
		Output: OutputConfig{Energy: true, Virial: true, PerAtomEnergy: true},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
