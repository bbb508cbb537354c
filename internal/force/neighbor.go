// Package force implements the pair and bonded force styles that drive the
// tally engine: each Compute spawns a worker team, partitions its
// interaction loop, tallies per interaction, and reduces forces and
// energies back into canonical totals.
package force

import "github.com/kmadler/mdthr/internal/atoms"

// List is a half neighbor list: each owned atom i stores neighbors j with
// j > i (local) or ghost j. Rebuilt when atoms have moved far enough; the
// skin keeps it valid between rebuilds.
type List struct {
	Cutoff float64
	Skin   float64
	Neigh  [][]int32
}

func NewList(cutoff, skin float64) *List {
	return &List{Cutoff: cutoff, Skin: skin}
}

// Build scans all pairs within cutoff+skin. When newton is on, a pair with
// a ghost endpoint must be visited exactly once across the periodic
// boundary, so ghost neighbors are kept only when the ghost sorts above
// the owned atom by coordinate; the mirrored pair is dropped. When newton
// is off both images stay in the list and the tally half-counting makes
// the totals come out right.
func (l *List) Build(s *atoms.System, newton bool) {
	rc := l.Cutoff + l.Skin
	rc2 := rc * rc
	nlocal, nall := s.Nlocal, s.Nall()

	if len(l.Neigh) < nlocal {
		grown := make([][]int32, nlocal)
		copy(grown, l.Neigh)
		l.Neigh = grown
	}

	for i := 0; i < nlocal; i++ {
		nb := l.Neigh[i][:0]
		xi := s.X[i]
		for j := i + 1; j < nall; j++ {
			if j >= nlocal && newton && !upwind(s.X[j], xi) {
				continue
			}
			delx := xi[0] - s.X[j][0]
			dely := xi[1] - s.X[j][1]
			delz := xi[2] - s.X[j][2]
			if delx*delx+dely*dely+delz*delz < rc2 {
				nb = append(nb, int32(j))
			}
		}
		l.Neigh[i] = nb
	}
}

// upwind orders a ghost position against an owned one (z, then y, then x)
// so exactly one of each mirrored cross-boundary pair survives.
func upwind(xj, xi [3]float64) bool {
	if xj[2] != xi[2] {
		return xj[2] > xi[2]
	}
	if xj[1] != xi[1] {
		return xj[1] > xi[1]
	}
	return xj[0] > xi[0]
}
