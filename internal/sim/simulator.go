// Package sim runs the molecular-dynamics step loop: velocity-Verlet
// integration over the force styles, with periodic neighbor and ghost
// rebuilds.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/kmadler/mdthr/internal/atoms"
	"github.com/kmadler/mdthr/internal/force"
	"github.com/kmadler/mdthr/internal/metrics"
	"github.com/kmadler/mdthr/internal/tally"
)

// Config controls one run.
type Config struct {
	Dt         float64
	Steps      int
	Threads    int
	Every      int // neighbor/ghost rebuild interval, in steps
	Newton     bool
	NewtonBond bool
	Flags      tally.Flags
}

// Sample is one step's thermodynamic snapshot.
type Sample struct {
	Step      int
	Time      float64
	PotEnergy float64
	KinEnergy float64
	Temp      float64
	Press     float64
}

// Result collects the per-step series and summary metrics of a run.
type Result struct {
	Times      []float64
	Pot        []float64
	Kin        []float64
	Temp       []float64
	Press      []float64
	StepsTaken int
	Metrics    map[string]float64
}

// Simulator advances a system under a pair style and an optional bonded
// style.
type Simulator struct {
	sys   *atoms.System
	pair  *force.PairLJCut
	bond  *force.BondHarmonic
	list  *force.List
	cfg   Config
	step  int
	drift metrics.Drift
}

func New(sys *atoms.System, pair *force.PairLJCut, bond *force.BondHarmonic, cfg Config) *Simulator {
	pair.Newton = cfg.Newton
	if bond != nil {
		bond.Newton = cfg.NewtonBond
	}
	return &Simulator{
		sys:  sys,
		pair: pair,
		bond: bond,
		list: force.NewList(pair.Cutoff, 0.3),
		cfg:  cfg,
	}
}

func (s *Simulator) validate() error {
	if s.cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", s.cfg.Dt)
	}
	if s.cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", s.cfg.Steps)
	}
	if s.cfg.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", s.cfg.Threads)
	}
	if s.cfg.Threads != s.sys.Threads() {
		return fmt.Errorf("system force buffer sized for %d threads, config wants %d",
			s.sys.Threads(), s.cfg.Threads)
	}
	if s.cfg.Every < 1 {
		return fmt.Errorf("rebuild interval must be at least 1, got %d", s.cfg.Every)
	}
	return nil
}

// SeedVelocities draws velocities from a Gaussian, removes net momentum,
// and rescales to the requested temperature.
func (s *Simulator) SeedVelocities(temp float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	var px, py, pz float64
	for i := range s.sys.V {
		s.sys.V[i][0] = rng.NormFloat64()
		s.sys.V[i][1] = rng.NormFloat64()
		s.sys.V[i][2] = rng.NormFloat64()
		px += s.sys.V[i][0]
		py += s.sys.V[i][1]
		pz += s.sys.V[i][2]
	}

	n := float64(len(s.sys.V))
	for i := range s.sys.V {
		s.sys.V[i][0] -= px / n
		s.sys.V[i][1] -= py / n
		s.sys.V[i][2] -= pz / n
	}

	if temp > 0 {
		current := metrics.Temperature(s.sys.V, s.sys.Mass)
		if current > 0 {
			scale := math.Sqrt(temp / current)
			for i := range s.sys.V {
				s.sys.V[i][0] *= scale
				s.sys.V[i][1] *= scale
				s.sys.V[i][2] *= scale
			}
		}
	}
}

// Setup builds the initial ghost set and neighbor list and evaluates
// forces at t=0; velocity Verlet needs f(t) before the first step.
func (s *Simulator) Setup() {
	s.sys.WrapLocal()
	s.sys.BuildGhosts(s.list.Cutoff + s.list.Skin)
	s.list.Build(s.sys, s.cfg.Newton)
	s.computeForces()
}

func (s *Simulator) computeForces() {
	s.sys.ZeroForce()
	s.pair.Compute(s.sys, s.list, s.cfg.Flags)
	if s.bond != nil {
		s.bond.Compute(s.sys, s.cfg.Flags)
	}
	if s.cfg.Newton {
		s.sys.ReverseComm()
	}
}

// Step advances the system by one velocity-Verlet step.
func (s *Simulator) Step() {
	dt := s.cfg.Dt
	halfdtm := 0.5 * dt / s.sys.Mass

	for i := 0; i < s.sys.Nlocal; i++ {
		s.sys.V[i][0] += halfdtm * s.sys.F[i][0]
		s.sys.V[i][1] += halfdtm * s.sys.F[i][1]
		s.sys.V[i][2] += halfdtm * s.sys.F[i][2]
		s.sys.X[i][0] += dt * s.sys.V[i][0]
		s.sys.X[i][1] += dt * s.sys.V[i][1]
		s.sys.X[i][2] += dt * s.sys.V[i][2]
	}

	s.step++
	if s.step%s.cfg.Every == 0 {
		s.sys.WrapLocal()
		s.sys.BuildGhosts(s.list.Cutoff + s.list.Skin)
		s.list.Build(s.sys, s.cfg.Newton)
	} else {
		s.sys.ForwardComm()
	}

	s.computeForces()

	for i := 0; i < s.sys.Nlocal; i++ {
		s.sys.V[i][0] += halfdtm * s.sys.F[i][0]
		s.sys.V[i][1] += halfdtm * s.sys.F[i][1]
		s.sys.V[i][2] += halfdtm * s.sys.F[i][2]
	}
}

// Sample reports the current thermodynamic state from the styles'
// canonical totals.
func (s *Simulator) Sample() Sample {
	pot := s.pair.EngVdwl + s.pair.EngCoul
	virial := s.pair.Virial
	if s.bond != nil {
		pot += s.bond.Energy
		for k := 0; k < 6; k++ {
			virial[k] += s.bond.Virial[k]
		}
	}
	kin := metrics.Kinetic(s.sys.V, s.sys.Mass)
	temp := metrics.Temperature(s.sys.V, s.sys.Mass)
	vol := s.sys.Box * s.sys.Box * s.sys.Box
	press := metrics.Pressure(s.sys.Nlocal, vol, temp, virial)

	return Sample{
		Step:      s.step,
		Time:      float64(s.step) * s.cfg.Dt,
		PotEnergy: pot,
		KinEnergy: kin,
		Temp:      temp,
		Press:     press,
	}
}

// System exposes the particle registry for diagnostics and the live view.
func (s *Simulator) System() *atoms.System { return s.sys }

// Run executes the configured number of steps, recording one sample per
// step. Cancellation returns the partial result with the context error.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	s.Setup()
	s.drift.Reset()

	res := &Result{
		Times:   make([]float64, 0, s.cfg.Steps+1),
		Pot:     make([]float64, 0, s.cfg.Steps+1),
		Kin:     make([]float64, 0, s.cfg.Steps+1),
		Temp:    make([]float64, 0, s.cfg.Steps+1),
		Press:   make([]float64, 0, s.cfg.Steps+1),
		Metrics: make(map[string]float64),
	}
	s.record(res)

	for i := 0; i < s.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(res)
			return res, ctx.Err()
		default:
		}

		s.Step()
		s.record(res)
		res.StepsTaken++
	}

	s.finish(res)
	return res, nil
}

func (s *Simulator) record(res *Result) {
	smp := s.Sample()
	res.Times = append(res.Times, smp.Time)
	res.Pot = append(res.Pot, smp.PotEnergy)
	res.Kin = append(res.Kin, smp.KinEnergy)
	res.Temp = append(res.Temp, smp.Temp)
	res.Press = append(res.Press, smp.Press)
	s.drift.Observe(smp.PotEnergy + smp.KinEnergy)
}

func (s *Simulator) finish(res *Result) {
	last := len(res.Times) - 1
	res.Metrics[s.drift.Name()] = s.drift.Value()
	res.Metrics["pot_energy"] = res.Pot[last]
	res.Metrics["kin_energy"] = res.Kin[last]
	res.Metrics["temperature"] = res.Temp[last]
	res.Metrics["pressure"] = res.Press[last]
	res.Metrics["scratch_bytes"] = float64(s.pair.ScratchBytes())
}
