package tally

// TallyPair accumulates one pair interaction's energy and virial into the
// calling worker's slot. Only slot tid is written, which is what keeps the
// routine lock-free.
//
// Bookkeeping policy:
//
//   - newton on: the pair is visited once, so the full evdwl/ecoul goes to
//     the global accumulators regardless of ghost status, and each endpoint
//     gets half of the per-atom share unconditionally.
//   - newton off: each endpoint contributes only if locally owned
//     (index < nlocal), and contributions are pre-halved; the mirrored pair
//     on the neighboring partition supplies the other half.
//
// The i < nlocal test is also needed when called from bonded styles, whose
// endpoints may be ghost images.
func (a *Accumulator) TallyPair(tid, i, j, nlocal int, newton bool, f Flags,
	evdwl, ecoul, fpair, delx, dely, delz float64) {

	s := &a.slots[tid]

	if f.EnergyEither() {
		if f.GlobalEnergy {
			if newton {
				s.engVdwl += evdwl
				s.engCoul += ecoul
			} else {
				evdwlhalf := 0.5 * evdwl
				ecoulhalf := 0.5 * ecoul
				if i < nlocal {
					s.engVdwl += evdwlhalf
					s.engCoul += ecoulhalf
				}
				if j < nlocal {
					s.engVdwl += evdwlhalf
					s.engCoul += ecoulhalf
				}
			}
		}
		if f.PerAtomEnergy {
			epairhalf := 0.5 * (evdwl + ecoul)
			eatom := s.eatom.Data()
			if newton || i < nlocal {
				eatom[i] += epairhalf
			}
			if newton || j < nlocal {
				eatom[j] += epairhalf
			}
		}
	}

	if f.VirialEither() {
		var v [6]float64
		v[0] = delx * delx * fpair
		v[1] = dely * dely * fpair
		v[2] = delz * delz * fpair
		v[3] = delx * dely * fpair
		v[4] = delx * delz * fpair
		v[5] = dely * delz * fpair

		if f.GlobalVirial {
			if newton {
				for k := 0; k < 6; k++ {
					s.virial[k] += v[k]
				}
			} else {
				if i < nlocal {
					for k := 0; k < 6; k++ {
						s.virial[k] += 0.5 * v[k]
					}
				}
				if j < nlocal {
					for k := 0; k < 6; k++ {
						s.virial[k] += 0.5 * v[k]
					}
				}
			}
		}

		if f.PerAtomVirial {
			vatom := s.vatom.Data()
			if newton || i < nlocal {
				for k := 0; k < 6; k++ {
					vatom[i][k] += 0.5 * v[k]
				}
			}
			if newton || j < nlocal {
				for k := 0; k < 6; k++ {
					vatom[j][k] += 0.5 * v[k]
				}
			}
		}
	}
}

// TallyBond accumulates one bonded two-body interaction. Identical
// bookkeeping to TallyPair, except the energy lands in the bond-energy
// scalar and the caller passes its bonded newton selector.
func (a *Accumulator) TallyBond(tid, i, j, nlocal int, newton bool, f Flags,
	ebond, fbond, delx, dely, delz float64) {

	s := &a.slots[tid]

	if f.EnergyEither() {
		if f.GlobalEnergy {
			if newton {
				s.engBond += ebond
			} else {
				ebondhalf := 0.5 * ebond
				if i < nlocal {
					s.engBond += ebondhalf
				}
				if j < nlocal {
					s.engBond += ebondhalf
				}
			}
		}
		if f.PerAtomEnergy {
			ebondhalf := 0.5 * ebond
			eatom := s.eatom.Data()
			if newton || i < nlocal {
				eatom[i] += ebondhalf
			}
			if newton || j < nlocal {
				eatom[j] += ebondhalf
			}
		}
	}

	if f.VirialEither() {
		var v [6]float64
		v[0] = delx * delx * fbond
		v[1] = dely * dely * fbond
		v[2] = delz * delz * fbond
		v[3] = delx * dely * fbond
		v[4] = delx * delz * fbond
		v[5] = dely * delz * fbond

		if f.GlobalVirial {
			if newton {
				for k := 0; k < 6; k++ {
					s.virial[k] += v[k]
				}
			} else {
				if i < nlocal {
					for k := 0; k < 6; k++ {
						s.virial[k] += 0.5 * v[k]
					}
				}
				if j < nlocal {
					for k := 0; k < 6; k++ {
						s.virial[k] += 0.5 * v[k]
					}
				}
			}
		}

		if f.PerAtomVirial {
			vatom := s.vatom.Data()
			if newton || i < nlocal {
				for k := 0; k < 6; k++ {
					vatom[i][k] += 0.5 * v[k]
				}
			}
			if newton || j < nlocal {
				for k := 0; k < 6; k++ {
					vatom[j][k] += 0.5 * v[k]
				}
			}
		}
	}
}
