package sim

import (
	"context"
	"math"
	"testing"

	"github.com/kmadler/mdthr/internal/atoms"
	"github.com/kmadler/mdthr/internal/force"
	"github.com/kmadler/mdthr/internal/tally"
)

func newSim(threads, steps int, bonds bool) *Simulator {
	sys := atoms.NewLattice(3, 0.8442, threads)
	acc := tally.New(threads)
	pair := force.NewPairLJCut(1.0, 1.0, 2.5, acc)

	var bond *force.BondHarmonic
	if bonds {
		bond = force.NewBondHarmonic(100.0, 1.0, force.Chain(sys.Nlocal), acc)
	}

	s := New(sys, pair, bond, Config{
		Dt:      0.005,
		Steps:   steps,
		Threads: threads,
		Every:   5,
		Newton:  true,
		Flags:   tally.Flags{GlobalEnergy: true, GlobalVirial: true},
	})
	s.SeedVelocities(1.44, 42)
	return s
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.001 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"zero threads", func(c *Config) { c.Threads = 0 }},
		{"thread mismatch", func(c *Config) { c.Threads = 7 }},
		{"zero rebuild interval", func(c *Config) { c.Every = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSim(2, 10, false)
			tt.modify(&s.cfg)
			if _, err := s.Run(context.Background()); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestRunRecordsSeries(t *testing.T) {
	s := newSim(1, 20, false)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", result.StepsTaken)
	}
	// initial sample plus one per step
	if len(result.Times) != 21 || len(result.Pot) != 21 {
		t.Errorf("series length: %d times, %d pot", len(result.Times), len(result.Pot))
	}
	if result.Times[20] <= result.Times[0] {
		t.Errorf("time not advancing")
	}

	for _, key := range []string{"pot_energy", "kin_energy", "temperature", "pressure", "energy_drift", "scratch_bytes"} {
		if _, ok := result.Metrics[key]; !ok {
			t.Errorf("missing metric %q", key)
		}
	}
	if result.Metrics["scratch_bytes"] <= 0 {
		t.Errorf("scratch accounting empty")
	}
}

func TestEnergyConservation(t *testing.T) {
	s := newSim(1, 50, false)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if drift := result.Metrics["energy_drift"]; drift > 0.05 {
		t.Errorf("energy drift too large: %e", drift)
	}
}

func TestThreadedRunMatchesSerial(t *testing.T) {
	serial, err := newSim(1, 10, false).Run(context.Background())
	if err != nil {
		t.Fatalf("serial run failed: %v", err)
	}
	threaded, err := newSim(4, 10, false).Run(context.Background())
	if err != nil {
		t.Fatalf("threaded run failed: %v", err)
	}

	for i := range serial.Pot {
		if math.Abs(serial.Pot[i]-threaded.Pot[i]) > 1e-8 {
			t.Fatalf("step %d: potential %g vs %g", i, serial.Pot[i], threaded.Pot[i])
		}
	}
}

func TestBondedRun(t *testing.T) {
	s := newSim(2, 10, true)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
}

func TestCancelledRun(t *testing.T) {
	s := newSim(1, 1000, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil {
		t.Fatal("expected partial result")
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected 0 steps on immediate cancel, got %d", result.StepsTaken)
	}
	if len(result.Times) == 0 {
		t.Errorf("partial result missing the initial sample")
	}
}

func TestSeedVelocitiesMomentumAndTemp(t *testing.T) {
	s := newSim(1, 1, false)
	s.SeedVelocities(2.0, 7)

	var px, py, pz float64
	for _, v := range s.sys.V {
		px += v[0]
		py += v[1]
		pz += v[2]
	}
	if math.Abs(px) > 1e-10 || math.Abs(py) > 1e-10 || math.Abs(pz) > 1e-10 {
		t.Errorf("net momentum after seeding: %g %g %g", px, py, pz)
	}

	sample := s.Sample()
	if math.Abs(sample.Temp-2.0) > 1e-10 {
		t.Errorf("expected temperature 2.0, got %f", sample.Temp)
	}
}

func TestSeedVelocitiesDeterministic(t *testing.T) {
	a := newSim(1, 1, false)
	b := newSim(1, 1, false)
	a.SeedVelocities(1.0, 99)
	b.SeedVelocities(1.0, 99)

	for i := range a.sys.V {
		if a.sys.V[i] != b.sys.V[i] {
			t.Fatalf("same seed gave different velocities at atom %d", i)
		}
	}
}
