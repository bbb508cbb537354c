package force

import (
	"math"
	"sync"

	"github.com/kmadler/mdthr/internal/atoms"
	"github.com/kmadler/mdthr/internal/tally"
)

// coulConst is the Coulomb energy prefactor in reduced units.
const coulConst = 1.0

// PairLJCut is a Lennard-Jones 12-6 pair style with a radial cutoff and
// optional point-charge Coulomb term. It embeds its canonical reduction
// target; Compute leaves the step's totals there.
type PairLJCut struct {
	tally.PairTarget

	Epsilon float64
	Sigma   float64
	Cutoff  float64

	lj1, lj2 float64 // force coefficients
	lj3, lj4 float64 // energy coefficients
	offset   float64 // energy shift so the potential is zero at the cutoff

	acc      *tally.Accumulator
	barrier  *tally.Barrier
	nthreads int
}

func NewPairLJCut(epsilon, sigma, cutoff float64, acc *tally.Accumulator) *PairLJCut {
	p := &PairLJCut{
		Epsilon:  epsilon,
		Sigma:    sigma,
		Cutoff:   cutoff,
		acc:      acc,
		nthreads: acc.Threads(),
		barrier:  tally.NewBarrier(acc.Threads()),
	}

	s6 := sigma * sigma * sigma * sigma * sigma * sigma
	s12 := s6 * s6
	p.lj1 = 48 * epsilon * s12
	p.lj2 = 24 * epsilon * s6
	p.lj3 = 4 * epsilon * s12
	p.lj4 = 4 * epsilon * s6

	rc2 := cutoff * cutoff
	rc6 := rc2 * rc2 * rc2
	p.offset = p.lj3/(rc6*rc6) - p.lj4/rc6

	return p
}

// Compute evaluates all pair interactions for one step: setup and zeroing
// outside the team, then the fork-join worker phase, then the serial
// energy/virial reduction into the embedded target.
func (p *PairLJCut) Compute(s *atoms.System, nl *List, f tally.Flags) {
	p.Flags = f
	p.setupStep(s.Nmax)
	p.acc.Setup(f, s.Nlocal, s.Nghost, s.Nmax, p.Newton)

	var wg sync.WaitGroup
	for t := 0; t < p.nthreads; t++ {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			p.computeWorker(tid, s, nl, f)
		}(t)
	}
	wg.Wait()

	p.acc.ReducePair(&p.PairTarget, s.Nlocal, s.Nghost)
}

func (p *PairLJCut) computeWorker(tid int, s *atoms.System, nl *List, flags tally.Flags) {
	nlocal, nall := s.Nlocal, s.Nall()
	from, to, fp := tally.Partition(s.F, nlocal, nall, p.nthreads, tid)

	rc2 := p.Cutoff * p.Cutoff
	wantTally := flags.Any()

	for i := from; i < to; i++ {
		xi := s.X[i]
		var qi float64
		if s.Q != nil {
			qi = s.Q[i]
		}
		for _, jj := range nl.Neigh[i] {
			j := int(jj)
			delx := xi[0] - s.X[j][0]
			dely := xi[1] - s.X[j][1]
			delz := xi[2] - s.X[j][2]
			r2 := delx*delx + dely*dely + delz*delz
			if r2 >= rc2 {
				continue
			}

			r2inv := 1.0 / r2
			r6inv := r2inv * r2inv * r2inv
			forcelj := r6inv * (p.lj1*r6inv - p.lj2)
			fpair := forcelj * r2inv

			var evdwl, ecoul float64
			if flags.EnergyEither() {
				evdwl = r6inv*(p.lj3*r6inv-p.lj4) - p.offset
			}
			if s.Q != nil {
				ecoul = coulConst * qi * s.Q[j] / math.Sqrt(r2)
				fpair += ecoul * r2inv
			}

			fp[i][0] += delx * fpair
			fp[i][1] += dely * fpair
			fp[i][2] += delz * fpair
			if p.Newton || j < nlocal {
				fp[j][0] -= delx * fpair
				fp[j][1] -= dely * fpair
				fp[j][2] -= delz * fpair
			}

			if wantTally {
				p.acc.TallyPair(tid, i, j, nlocal, p.Newton, flags,
					evdwl, ecoul, fpair, delx, dely, delz)
			}
		}
	}

	tally.ForceReduce(s.F, nall, p.nthreads, tid, p.barrier)
}

// ScratchBytes reports the tally engine's thread-private scratch
// footprint, for diagnostics.
func (p *PairLJCut) ScratchBytes() int64 { return p.acc.Bytes() }

// setupStep clears the canonical totals for a new step and grows the
// per-atom target arrays to the allocation ceiling.
func (p *PairLJCut) setupStep(nmax int) {
	p.EngVdwl = 0
	p.EngCoul = 0
	p.Virial = [6]float64{}
	if p.Flags.PerAtomEnergy {
		if len(p.Eatom) < nmax {
			p.Eatom = make([]float64, nmax)
		}
		for i := range p.Eatom {
			p.Eatom[i] = 0
		}
	}
	if p.Flags.PerAtomVirial {
		if len(p.Vatom) < nmax {
			p.Vatom = make([][6]float64, nmax)
		}
		for i := range p.Vatom {
			p.Vatom[i] = [6]float64{}
		}
	}
}
