// Package buffer provides capacity-tracked growable numeric buffers for
// per-atom scratch storage. Buffers grow to a high-water mark and never
// shrink, matching the monotone allocation pattern of a simulation whose
// particle count changes between steps.
package buffer

// Float64s is a growable slice of per-atom scalars.
type Float64s struct {
	data []float64
}

// EnsureCapacity grows the buffer to hold at least n values, preserving
// existing contents. It never shrinks. Not safe for concurrent use; growth
// must happen outside any worker team.
func (b *Float64s) EnsureCapacity(n int) {
	if n <= len(b.data) {
		return
	}
	grown := make([]float64, n)
	copy(grown, b.data)
	b.data = grown
}

// Zero clears the first n values. n must not exceed the current capacity.
func (b *Float64s) Zero(n int) {
	for i := 0; i < n; i++ {
		b.data[i] = 0
	}
}

// Data exposes the backing slice.
func (b *Float64s) Data() []float64 { return b.data }

// Len reports the current capacity.
func (b *Float64s) Len() int { return len(b.data) }

// Bytes reports the allocated footprint.
func (b *Float64s) Bytes() int64 { return int64(len(b.data)) * 8 }

// Vec6s is a growable slice of per-atom symmetric tensors
// (xx, yy, zz, xy, xz, yz).
type Vec6s struct {
	data [][6]float64
}

func (b *Vec6s) EnsureCapacity(n int) {
	if n <= len(b.data) {
		return
	}
	grown := make([][6]float64, n)
	copy(grown, b.data)
	b.data = grown
}

func (b *Vec6s) Zero(n int) {
	for i := 0; i < n; i++ {
		b.data[i] = [6]float64{}
	}
}

func (b *Vec6s) Data() [][6]float64 { return b.data }

func (b *Vec6s) Len() int { return len(b.data) }

func (b *Vec6s) Bytes() int64 { return int64(len(b.data)) * 6 * 8 }
