package tally

// Partition computes the calling worker's contiguous slice of an
// interaction loop over inum owned work items, plus the worker's private
// block of the force buffer. f holds nthreads blocks of nall rows each;
// block 0 doubles as the canonical force array after reduction.
//
// With a single worker the range covers the whole loop and the canonical
// block is returned directly, so the reduction later degenerates to a
// no-op. Otherwise ranges are ceil-chunked: contiguous, disjoint, and
// exactly covering [0, inum) (the last worker's range may be short or
// empty). tid is the caller's identity assigned by the team spawner; no
// shared state is touched.
func Partition(f [][3]float64, inum, nall, nthreads, tid int) (from, to int, priv [][3]float64) {
	if nthreads == 1 {
		return 0, inum, f
	}

	chunk := (inum + nthreads - 1) / nthreads
	from = tid * chunk
	to = from + chunk
	if from > inum {
		from = inum
	}
	if to > inum {
		to = inum
	}
	return from, to, f[tid*nall:]
}

// ForceReduce folds every worker's private force block into block 0 and
// zeroes the source rows, leaving the buffer ready for the next step.
// All nthreads workers must call it; a barrier separates the tally phase
// from the combination phase, which is itself re-partitioned by row so no
// two workers touch the same row.
func ForceReduce(f [][3]float64, nall, nthreads, tid int, b *Barrier) {
	if nthreads == 1 {
		return
	}

	b.Wait()

	chunk := (nall + nthreads - 1) / nthreads
	from := tid * chunk
	to := from + chunk
	if from > nall {
		from = nall
	}
	if to > nall {
		to = nall
	}

	for n := 1; n < nthreads; n++ {
		block := f[n*nall:]
		for m := from; m < to; m++ {
			f[m][0] += block[m][0]
			block[m][0] = 0
			f[m][1] += block[m][1]
			block[m][1] = 0
			f[m][2] += block[m][2]
			block[m][2] = 0
		}
	}
}
