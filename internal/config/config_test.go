package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Lattice != DefaultLattice {
		t.Errorf("lattice: expected %d, got %d", DefaultLattice, cfg.Lattice)
	}
	if cfg.Density != DefaultDensity {
		t.Errorf("density: expected %f, got %f", DefaultDensity, cfg.Density)
	}
	if cfg.Threads != 1 {
		t.Errorf("threads: expected 1, got %d", cfg.Threads)
	}
	if !cfg.Newton || !cfg.NewtonBond {
		t.Errorf("newton selectors should default on")
	}
	if !cfg.Output.Energy || !cfg.Output.Virial {
		t.Errorf("global accumulations should default on")
	}
	if cfg.Output.PerAtomEnergy || cfg.Output.PerAtomVirial {
		t.Errorf("per-atom accumulations should default off")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Lattice = 4
	cfg.Threads = 8
	cfg.Newton = false
	cfg.Bonds = true
	cfg.Output.PerAtomVirial = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Lattice != 4 || loaded.Threads != 8 {
		t.Errorf("loaded values wrong: lattice=%d threads=%d", loaded.Lattice, loaded.Threads)
	}
	if loaded.Newton {
		t.Errorf("newton=false not preserved")
	}
	if !loaded.Bonds || !loaded.Output.PerAtomVirial {
		t.Errorf("flags not preserved")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("melt")
	if cfg == nil {
		t.Fatal("melt preset missing")
	}
	if cfg.Lattice != 8 {
		t.Errorf("melt lattice: expected 8, got %d", cfg.Lattice)
	}

	// presets hand out copies
	cfg.Lattice = 99
	if GetPreset("melt").Lattice != 8 {
		t.Errorf("preset mutated through a returned copy")
	}

	if GetPreset("nope") != nil {
		t.Errorf("unknown preset should return nil")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %v", names)
		}
	}
	found := false
	for _, n := range names {
		if n == "chain" {
			found = true
		}
	}
	if !found {
		t.Errorf("chain preset missing from listing")
	}
}
