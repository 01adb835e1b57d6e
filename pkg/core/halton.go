package core

import "math"

// Halton returns element index of the radical-inverse sequence in the given base
func Halton(index, base int) float64 {
	r := 0.0
	f := 1.0 / float64(base)
	for i := index; i > 0; i /= base {
		r += f * float64(i%base)
		f /= float64(base)
	}
	return r
}

// HaltonSeq is a precomputed Halton sequence. Indices wrap around its length.
type HaltonSeq []float64

// NewHaltonSeq precomputes n elements of the sequence in the given base
func NewHaltonSeq(n, base int) HaltonSeq {
	seq := make(HaltonSeq, n)
	for i := range seq {
		seq[i] = Halton(i, base)
	}
	return seq
}

// At returns element i, wrapping past the end
func (h HaltonSeq) At(i int) float64 {
	return h[i%len(h)]
}

// Jittered returns element i offset by jitter and wrapped into [0, 1)
func (h HaltonSeq) Jittered(i int, jitter float64) float64 {
	return Wrap01(h.At(i) + jitter)
}

// Wrap01 returns the fractional part of v, always in [0, 1)
func Wrap01(v float64) float64 {
	v -= math.Floor(v)
	if v >= 1 {
		return 0
	}
	return v
}
