package force

import (
	"math"
	"sync"

	"github.com/kmadler/mdthr/internal/atoms"
	"github.com/kmadler/mdthr/internal/tally"
)

// Bond connects two owned atoms.
type Bond struct {
	I, J int32
}

// BondHarmonic is a harmonic two-body bonded style, E = K (r - R0)^2.
// Bonded terms carry their own newton selector, independent of the
// pairwise one.
type BondHarmonic struct {
	tally.BondTarget

	K     float64
	R0    float64
	Bonds []Bond

	acc      *tally.Accumulator
	barrier  *tally.Barrier
	nthreads int
}

func NewBondHarmonic(k, r0 float64, bonds []Bond, acc *tally.Accumulator) *BondHarmonic {
	return &BondHarmonic{
		K:        k,
		R0:       r0,
		Bonds:    bonds,
		acc:      acc,
		nthreads: acc.Threads(),
		barrier:  tally.NewBarrier(acc.Threads()),
	}
}

// Chain returns bonds linking consecutive atoms 0-1, 1-2, ... n-1.
func Chain(n int) []Bond {
	bonds := make([]Bond, 0, n-1)
	for i := 0; i < n-1; i++ {
		bonds = append(bonds, Bond{I: int32(i), J: int32(i + 1)})
	}
	return bonds
}

// Compute evaluates all bonds for one step, partitioning the bond loop
// across the team. Displacements use the minimum-image convention so bond
// endpoints stay owned atoms.
func (b *BondHarmonic) Compute(s *atoms.System, f tally.Flags) {
	b.Flags = f
	b.setupStep(s.Nmax)
	b.acc.Setup(f, s.Nlocal, s.Nghost, s.Nmax, b.Newton)

	var wg sync.WaitGroup
	for t := 0; t < b.nthreads; t++ {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			b.computeWorker(tid, s, f)
		}(t)
	}
	wg.Wait()

	b.acc.ReduceBond(&b.BondTarget, s.Nlocal, s.Nghost)
}

func (b *BondHarmonic) computeWorker(tid int, s *atoms.System, flags tally.Flags) {
	nlocal, nall := s.Nlocal, s.Nall()
	from, to, fp := tally.Partition(s.F, len(b.Bonds), nall, b.nthreads, tid)
	half := 0.5 * s.Box
	wantTally := flags.Any()

	for n := from; n < to; n++ {
		i := int(b.Bonds[n].I)
		j := int(b.Bonds[n].J)

		delx := minImage(s.X[i][0]-s.X[j][0], s.Box, half)
		dely := minImage(s.X[i][1]-s.X[j][1], s.Box, half)
		delz := minImage(s.X[i][2]-s.X[j][2], s.Box, half)

		r := math.Sqrt(delx*delx + dely*dely + delz*delz)
		dr := r - b.R0
		rk := b.K * dr

		var fbond float64
		if r > 0 {
			fbond = -2.0 * rk / r
		}

		var ebond float64
		if flags.EnergyEither() {
			ebond = rk * dr
		}

		fp[i][0] += delx * fbond
		fp[i][1] += dely * fbond
		fp[i][2] += delz * fbond
		if b.Newton || j < nlocal {
			fp[j][0] -= delx * fbond
			fp[j][1] -= dely * fbond
			fp[j][2] -= delz * fbond
		}

		if wantTally {
			b.acc.TallyBond(tid, i, j, nlocal, b.Newton, flags,
				ebond, fbond, delx, dely, delz)
		}
	}

	tally.ForceReduce(s.F, nall, b.nthreads, tid, b.barrier)
}

func (b *BondHarmonic) setupStep(nmax int) {
	b.Energy = 0
	b.Virial = [6]float64{}
	if b.Flags.PerAtomEnergy {
		if len(b.Eatom) < nmax {
			b.Eatom = make([]float64, nmax)
		}
		for i := range b.Eatom {
			b.Eatom[i] = 0
		}
	}
	if b.Flags.PerAtomVirial {
		if len(b.Vatom) < nmax {
			b.Vatom = make([][6]float64, nmax)
		}
		for i := range b.Vatom {
			b.Vatom[i] = [6]float64{}
		}
	}
}

func minImage(d, box, half float64) float64 {
	if d > half {
		return d - box
	}
	if d < -half {
		return d + box
	}
	return d
}
