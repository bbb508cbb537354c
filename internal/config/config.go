// Package config loads and saves run configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLattice = 6
	DefaultDensity = 0.8442
	DefaultTemp    = 1.44
	DefaultCutoff  = 2.5
	DefaultDt      = 0.005
	DefaultSteps   = 200
	DefaultEvery   = 10
)

// OutputConfig selects which accumulations the force styles request each
// step. The four flags are independent.
type OutputConfig struct {
	Energy        bool `yaml:"energy"`
	Virial        bool `yaml:"virial"`
	PerAtomEnergy bool `yaml:"peratom_energy"`
	PerAtomVirial bool `yaml:"peratom_virial"`
}

type Config struct {
	Lattice     int     `yaml:"lattice"` // atoms per box edge (total = lattice^3)
	Density     float64 `yaml:"density"`
	Temperature float64 `yaml:"temperature"`
	Cutoff      float64 `yaml:"cutoff"`
	Epsilon     float64 `yaml:"epsilon"`
	Sigma       float64 `yaml:"sigma"`
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	Every       int     `yaml:"every"` // neighbor rebuild interval
	Threads     int     `yaml:"threads"`
	Seed        int64   `yaml:"seed"`

	// Newton applies the third-law shortcut to pairwise terms; NewtonBond
	// to bonded terms. They are independent selectors.
	Newton     bool `yaml:"newton"`
	NewtonBond bool `yaml:"newton_bond"`

	// Bonds enables a harmonic chain over consecutive atoms.
	Bonds  bool    `yaml:"bonds"`
	BondK  float64 `yaml:"bond_k"`
	BondR0 float64 `yaml:"bond_r0"`

	// Charged assigns alternating point charges.
	Charged bool    `yaml:"charged"`
	Charge  float64 `yaml:"charge"`

	Output OutputConfig `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		Lattice:     DefaultLattice,
		Density:     DefaultDensity,
		Temperature: DefaultTemp,
		Cutoff:      DefaultCutoff,
		Epsilon:     1.0,
		Sigma:       1.0,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Every:       DefaultEvery,
		Threads:     1,
		Seed:        42,
		Newton:      true,
		NewtonBond:  true,
		BondK:       100.0,
		BondR0:      1.0,
		Charge:      0.1,
		Output: OutputConfig{
			Energy: true,
			Virial: true,
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
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
