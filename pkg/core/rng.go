package core

const pcg32Mult = 0x5851f42d4c957f2d

// RNG is a PCG32 random number generator. Each sequence index selects an
// independent stream, so workers and pixels can draw without sharing state.
// An RNG is not safe for concurrent use.
type RNG struct {
	state uint64
	inc   uint64
}

// NewRNG returns a generator on the given stream, seeded from the stream index
func NewRNG(sequence uint64) *RNG {
	r := &RNG{}
	r.SetSequence(sequence, mixBits(sequence))
	return r
}

// NewRNGWithSeed returns a generator on the given stream with an explicit seed
func NewRNGWithSeed(sequence, seed uint64) *RNG {
	r := &RNG{}
	r.SetSequence(sequence, seed)
	return r
}

// SetSequence restarts the generator on a stream
func (r *RNG) SetSequence(sequence, seed uint64) {
	r.state = 0
	r.inc = sequence<<1 | 1
	r.Uint32()
	r.state += seed
	r.Uint32()
}

// Uint32 returns the next 32 random bits
func (r *RNG) Uint32() uint32 {
	old := r.state
	r.state = old*pcg32Mult + r.inc
	xorShifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return xorShifted>>rot | xorShifted<<((-rot)&31)
}

// RandomFloat returns a float in [0, 1)
func (r *RNG) RandomFloat() float64 {
	return float64(r.Uint32()) * 0x1p-32
}

// RandomVec2 returns two floats in [0, 1)
func (r *RNG) RandomVec2() Vec2 {
	return Vec2{X: r.RandomFloat(), Y: r.RandomFloat()}
}

// Advance moves the stream by offset steps in O(log offset). Negative offsets
// move backwards.
func (r *RNG) Advance(offset int64) {
	curMult, curPlus := uint64(pcg32Mult), r.inc
	accMult, accPlus := uint64(1), uint64(0)
	for delta := uint64(offset); delta > 0; delta >>= 1 {
		if delta&1 != 0 {
			accMult *= curMult
			accPlus = accPlus*curMult + curPlus
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
	}
	r.state = accMult*r.state + accPlus
}

func mixBits(v uint64) uint64 {
	v ^= v >> 31
	v *= 0x7fb5d329728ea185
	v ^= v >> 27
	v *= 0x81dadef4bc2dd44d
	v ^= v >> 33
	return v
}
