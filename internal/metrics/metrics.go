// Package metrics computes thermodynamic observables from simulation
// state, in reduced Lennard-Jones units (kB = 1).
package metrics

import "math"

// Kinetic returns the total kinetic energy of the owned atoms.
func Kinetic(v [][3]float64, mass float64) float64 {
	ke := 0.0
	for i := range v {
		ke += v[i][0]*v[i][0] + v[i][1]*v[i][1] + v[i][2]*v[i][2]
	}
	return 0.5 * mass * ke
}

// Temperature returns the instantaneous temperature from equipartition,
// 2 KE / (3 N).
func Temperature(v [][3]float64, mass float64) float64 {
	n := len(v)
	if n == 0 {
		return 0
	}
	return 2.0 * Kinetic(v, mass) / (3.0 * float64(n))
}

// Pressure returns the virial pressure P = (N T + W/3) / V, where W is the
// trace of the accumulated virial tensor.
func Pressure(natoms int, volume, temp float64, virial [6]float64) float64 {
	if volume == 0 {
		return 0
	}
	w := virial[0] + virial[1] + virial[2]
	return (float64(natoms)*temp + w/3.0) / volume
}

// Drift tracks the worst-case relative drift of a conserved quantity over
// a run.
type Drift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func (d *Drift) Name() string { return "energy_drift" }

func (d *Drift) Observe(total float64) {
	if d.samples == 0 {
		d.initial = total
	}
	d.samples++
	if d.initial != 0 {
		drift := math.Abs(total-d.initial) / math.Abs(d.initial)
		if drift > d.maxDrift {
			d.maxDrift = drift
		}
	}
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
