package tally

// PairTarget is the canonical accumulator set of a pairwise force style.
// The reducer adds into the pre-existing values, so several force terms can
// feed one target within a step.
type PairTarget struct {
	EngVdwl float64
	EngCoul float64
	Virial  [6]float64
	Eatom   []float64
	Vatom   [][6]float64
	Flags   Flags
	Newton  bool
}

// BondTarget is the canonical accumulator set of a bonded two-body style.
// Bonded terms track their own newton selector, independent of the
// pairwise one.
type BondTarget struct {
	Energy float64
	Virial [6]float64
	Eatom  []float64
	Vatom  [][6]float64
	Flags  Flags
	Newton bool
}

// ReducePair folds every worker slot into a pair style's canonical totals.
// Must be called exactly once per step, after the worker team has joined;
// the fold itself is serial. All folds are additive.
func (a *Accumulator) ReducePair(p *PairTarget, nlocal, nghost int) {
	ntotal := nlocal
	if p.Newton {
		ntotal = nlocal + nghost
	}

	for t := range a.slots {
		s := &a.slots[t]
		p.EngVdwl += s.engVdwl
		p.EngCoul += s.engCoul
		if p.Flags.VirialEither() {
			for k := 0; k < 6; k++ {
				p.Virial[k] += s.virial[k]
			}
			if p.Flags.PerAtomVirial {
				vatom := s.vatom.Data()
				for i := 0; i < ntotal; i++ {
					for k := 0; k < 6; k++ {
						p.Vatom[i][k] += vatom[i][k]
					}
				}
			}
		}
		if p.Flags.PerAtomEnergy {
			eatom := s.eatom.Data()
			for i := 0; i < ntotal; i++ {
				p.Eatom[i] += eatom[i]
			}
		}
	}
}

// ReduceBond is the bonded-style counterpart of ReducePair: same fold
// shape, but the energy scalar and the owned extent follow the bonded
// newton selector.
func (a *Accumulator) ReduceBond(b *BondTarget, nlocal, nghost int) {
	ntotal := nlocal
	if b.Newton {
		ntotal = nlocal + nghost
	}

	for t := range a.slots {
		s := &a.slots[t]
		b.Energy += s.engBond
		if b.Flags.VirialEither() {
			for k := 0; k < 6; k++ {
				b.Virial[k] += s.virial[k]
			}
			if b.Flags.PerAtomVirial {
				vatom := s.vatom.Data()
				for i := 0; i < ntotal; i++ {
					for k := 0; k < 6; k++ {
						b.Vatom[i][k] += vatom[i][k]
					}
				}
			}
		}
		if b.Flags.PerAtomEnergy {
			eatom := s.eatom.Data()
			for i := 0; i < ntotal; i++ {
				b.Eatom[i] += eatom[i]
			}
		}
	}
}
