// Package tally accumulates per-interaction energy, force, and virial
// contributions into thread-private storage during parallel force
// evaluation, and reduces the per-worker partials back into canonical
// totals once a step's tallying is complete.
//
// The engine is lock-free on the hot path: every tally call writes only to
// the calling worker's slot, so a team of workers can tally billions of
// interactions without synchronization. The only suspension point is the
// barrier inside [ForceReduce].
package tally

import (
	"github.com/kmadler/mdthr/internal/buffer"
)

// Flags selects which accumulators a force style requests for the current
// step. The four flags are independent: a style may want per-atom virials
// without global energy, or any other combination.
type Flags struct {
	GlobalEnergy  bool
	GlobalVirial  bool
	PerAtomEnergy bool
	PerAtomVirial bool
}

// EnergyEither reports whether any energy accumulation is requested.
func (f Flags) EnergyEither() bool { return f.GlobalEnergy || f.PerAtomEnergy }

// VirialEither reports whether any virial accumulation is requested.
func (f Flags) VirialEither() bool { return f.GlobalVirial || f.PerAtomVirial }

// Any reports whether the step needs tally calls at all.
func (f Flags) Any() bool { return f.EnergyEither() || f.VirialEither() }

// slot is one worker's private accumulator. The padding keeps adjacent
// slots on separate cache lines so concurrent tallying never false-shares.
type slot struct {
	engVdwl float64
	engCoul float64
	engBond float64
	virial  [6]float64
	eatom   buffer.Float64s
	vatom   buffer.Vec6s
	_       [24]byte
}

// Accumulator owns one accumulator slot per worker. Fixed-size scalar
// storage is allocated at construction; per-atom storage grows on demand in
// Setup and is retained across steps.
type Accumulator struct {
	nthreads int
	slots    []slot

	// independent high-water marks: per-atom energy and per-atom virial
	// may be requested in different steps and must grow separately
	maxEatom int
	maxVatom int
}

// New creates an accumulator for a team of nthreads workers.
func New(nthreads int) *Accumulator {
	return &Accumulator{
		nthreads: nthreads,
		slots:    make([]slot, nthreads),
	}
}

// Threads reports the worker count the accumulator was built for.
func (a *Accumulator) Threads() int { return a.nthreads }

// Setup prepares the per-worker accumulators for one step: grows per-atom
// storage to the nmax high-water mark where requested, then zeroes exactly
// the requested categories for every worker. The zero extent is
// nlocal+nghost when newton is active, nlocal otherwise; the caller passes
// the newton selector of its own interaction kind (pairwise vs bonded).
//
// Unrequested categories keep stale values and must not be read. Growth is
// not safe inside a worker team; call Setup before spawning workers.
func (a *Accumulator) Setup(f Flags, nlocal, nghost, nmax int, newton bool) {
	if f.PerAtomEnergy && nmax > a.maxEatom {
		a.maxEatom = nmax
		for t := range a.slots {
			a.slots[t].eatom.EnsureCapacity(a.maxEatom)
		}
	}
	if f.PerAtomVirial && nmax > a.maxVatom {
		a.maxVatom = nmax
		for t := range a.slots {
			a.slots[t].vatom.EnsureCapacity(a.maxVatom)
		}
	}

	ntotal := nlocal
	if newton {
		ntotal = nlocal + nghost
	}

	for t := range a.slots {
		s := &a.slots[t]
		if f.GlobalEnergy {
			s.engVdwl = 0
			s.engCoul = 0
			s.engBond = 0
		}
		if f.GlobalVirial {
			s.virial = [6]float64{}
		}
		if f.PerAtomEnergy {
			s.eatom.Zero(ntotal)
		}
		if f.PerAtomVirial {
			s.vatom.Zero(ntotal)
		}
	}
}

// Bytes reports the current scratch footprint: fixed scalars plus grown
// per-atom storage across all workers. Diagnostic only.
func (a *Accumulator) Bytes() int64 {
	n := int64(a.nthreads)
	bytes := n * (3 + 6) * 8
	for t := range a.slots {
		bytes += a.slots[t].eatom.Bytes()
		bytes += a.slots[t].vatom.Bytes()
	}
	return bytes
}
