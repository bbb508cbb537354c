// Package atoms is the particle registry: locally owned atoms, their
// periodic ghost replicas, and the per-worker force buffer the tally
// engine partitions and reduces.
package atoms

import "math"

// System holds the particles of one simulation domain. Positions are laid
// out local-first: X[0:Nlocal] are owned atoms, X[Nlocal:Nlocal+Nghost]
// are read-only boundary replicas rebuilt by BuildGhosts.
type System struct {
	Nlocal int
	Nghost int
	// Nmax is the allocation ceiling for per-atom arrays: the high-water
	// mark of Nlocal+Nghost over the run. It never decreases.
	Nmax int

	Box  float64 // cubic periodic box edge
	Mass float64

	X [][3]float64 // positions, local then ghost
	V [][3]float64 // velocities, local only
	Q []float64    // charges, local then ghost (nil when uncharged)

	// F holds nthreads contiguous blocks of Nall rows. Block t is worker
	// t's private force output; block 0 is the canonical array once the
	// blocks have been reduced.
	F [][3]float64

	owner    []int        // ghost index -> owning local index
	shift    [][3]float64 // ghost index -> periodic image offset
	nthreads int
}

// NewLattice places n^3 atoms on a simple cubic lattice at the given
// number density and returns a system sized for a team of nthreads
// workers. Velocities start at zero; the caller seeds them.
func NewLattice(n int, density float64, nthreads int) *System {
	nlocal := n * n * n
	box := math.Cbrt(float64(nlocal) / density)
	spacing := box / float64(n)

	s := &System{
		Nlocal:   nlocal,
		Box:      box,
		Mass:     1.0,
		X:        make([][3]float64, 0, nlocal),
		V:        make([][3]float64, nlocal),
		nthreads: nthreads,
	}

	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			for iz := 0; iz < n; iz++ {
				s.X = append(s.X, [3]float64{
					(float64(ix) + 0.5) * spacing,
					(float64(iy) + 0.5) * spacing,
					(float64(iz) + 0.5) * spacing,
				})
			}
		}
	}

	s.Nmax = nlocal
	return s
}

// New returns an empty system of nlocal atoms in a cubic box, positions
// and velocities zeroed. Useful for hand-built configurations.
func New(nlocal int, box float64, nthreads int) *System {
	return &System{
		Nlocal:   nlocal,
		Nmax:     nlocal,
		Box:      box,
		Mass:     1.0,
		X:        make([][3]float64, nlocal),
		V:        make([][3]float64, nlocal),
		nthreads: nthreads,
	}
}

// Nall is the extent of the position array: owned plus ghost atoms.
func (s *System) Nall() int { return s.Nlocal + s.Nghost }

// Threads reports the worker count the force buffer is sized for.
func (s *System) Threads() int { return s.nthreads }

// SetCharges assigns alternating +q/-q point charges to the local atoms.
func (s *System) SetCharges(q float64) {
	s.Q = make([]float64, s.Nlocal)
	for i := range s.Q {
		if i%2 == 0 {
			s.Q[i] = q
		} else {
			s.Q[i] = -q
		}
	}
}

// WrapLocal remaps owned atoms into the primary box [0, Box).
func (s *System) WrapLocal() {
	for i := 0; i < s.Nlocal; i++ {
		for d := 0; d < 3; d++ {
			if s.X[i][d] < 0 {
				s.X[i][d] += s.Box
			} else if s.X[i][d] >= s.Box {
				s.X[i][d] -= s.Box
			}
		}
	}
}

// BuildGhosts rebuilds the ghost replicas: every owned atom within cutoff
// of a periodic face is copied across that boundary. Each ghost records
// its owner and image offset so ForwardComm and ReverseComm can map
// between the two. Updates Nghost, Nmax, and the force buffer size.
func (s *System) BuildGhosts(cutoff float64) {
	s.X = s.X[:s.Nlocal]
	if s.Q != nil {
		s.Q = s.Q[:s.Nlocal]
	}
	s.owner = s.owner[:0]
	s.shift = s.shift[:0]

	lo, hi := -cutoff, s.Box+cutoff
	for i := 0; i < s.Nlocal; i++ {
		for ix := -1; ix <= 1; ix++ {
			for iy := -1; iy <= 1; iy++ {
				for iz := -1; iz <= 1; iz++ {
					if ix == 0 && iy == 0 && iz == 0 {
						continue
					}
					sh := [3]float64{
						float64(ix) * s.Box,
						float64(iy) * s.Box,
						float64(iz) * s.Box,
					}
					p := [3]float64{
						s.X[i][0] + sh[0],
						s.X[i][1] + sh[1],
						s.X[i][2] + sh[2],
					}
					if p[0] < lo || p[0] >= hi ||
						p[1] < lo || p[1] >= hi ||
						p[2] < lo || p[2] >= hi {
						continue
					}
					s.X = append(s.X, p)
					s.owner = append(s.owner, i)
					s.shift = append(s.shift, sh)
					if s.Q != nil {
						s.Q = append(s.Q, s.Q[i])
					}
				}
			}
		}
	}

	s.Nghost = len(s.X) - s.Nlocal
	if s.Nall() > s.Nmax {
		s.Nmax = s.Nall()
	}
	s.ensureForce()
}

// ForwardComm refreshes ghost positions from their owners after owned
// atoms have moved, without rebuilding the ghost set.
func (s *System) ForwardComm() {
	for g := 0; g < s.Nghost; g++ {
		i := s.owner[g]
		s.X[s.Nlocal+g][0] = s.X[i][0] + s.shift[g][0]
		s.X[s.Nlocal+g][1] = s.X[i][1] + s.shift[g][1]
		s.X[s.Nlocal+g][2] = s.X[i][2] + s.shift[g][2]
	}
}

// ReverseComm folds forces accumulated on ghost rows back into their
// owners and clears the ghost rows. Required when the newton optimization
// is on; call after the force blocks have been reduced into block 0.
func (s *System) ReverseComm() {
	for g := 0; g < s.Nghost; g++ {
		i := s.owner[g]
		gi := s.Nlocal + g
		s.F[i][0] += s.F[gi][0]
		s.F[gi][0] = 0
		s.F[i][1] += s.F[gi][1]
		s.F[gi][1] = 0
		s.F[i][2] += s.F[gi][2]
		s.F[gi][2] = 0
	}
}

// Owner reports the owning local index of ghost atom j (j >= Nlocal).
func (s *System) Owner(j int) int { return s.owner[j-s.Nlocal] }

// ZeroForce clears every worker's force block for the next step.
func (s *System) ZeroForce() {
	for i := range s.F {
		s.F[i] = [3]float64{}
	}
}

func (s *System) ensureForce() {
	need := s.nthreads * s.Nall()
	if len(s.F) < need {
		grown := make([][3]float64, need)
		copy(grown, s.F)
		s.F = grown
	}
}
