package photonmap

import (
	"sync/atomic"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// PhotonMap stores photons in a fixed-capacity 1-indexed array. Photons can
// be added concurrently until PrepareForIrradianceEstimation turns the array
// into a balanced k-d tree; from then on the map is read-only.
type PhotonMap struct {
	photons  []Photon // index 0 is unused
	stored   atomic.Int64
	balanced bool
}

// New creates an empty map holding up to capacity photons
func New(capacity int) *PhotonMap {
	if capacity < 0 {
		capacity = 0
	}
	return &PhotonMap{photons: make([]Photon, capacity+1)}
}

// Capacity returns the number of photons the map can hold
func (m *PhotonMap) Capacity() int {
	return len(m.photons) - 1
}

// NumPhotons returns the number of stored photons
func (m *PhotonMap) NumPhotons() int {
	return int(m.stored.Load())
}

// RemainingSpace returns how many more photons fit
func (m *PhotonMap) RemainingSpace() int {
	return m.Capacity() - m.NumPhotons()
}

// IsFull reports whether no more photons fit
func (m *PhotonMap) IsFull() bool {
	return m.RemainingSpace() <= 0
}

// AddPhoton stores a photon with a normalized direction. It is safe to call
// from many goroutines and returns false once the map is full.
func (m *PhotonMap) AddPhoton(pos, dir, power core.Vec3) bool {
	capacity := int64(m.Capacity())
	for {
		n := m.stored.Load()
		if n >= capacity {
			return false
		}
		if m.stored.CompareAndSwap(n, n+1) {
			m.photons[n+1] = newPhoton(pos, dir, power)
			return true
		}
	}
}

// ScalePhotonPowers multiplies the power of photons [start, end) by scale.
// A negative end means every stored photon.
func (m *PhotonMap) ScalePhotonPowers(scale float64, start, end int) {
	if n := m.NumPhotons(); end < 0 || end > n {
		end = n
	}
	for i := max(start, 0) + 1; i <= end; i++ {
		m.photons[i].scalePower(scale)
	}
}

// Photon returns the i-th stored photon, counting from 0
func (m *PhotonMap) Photon(i int) Photon {
	return m.photons[i+1]
}

// Photons returns the stored photons. After balancing they are in heap order.
func (m *PhotonMap) Photons() []Photon {
	return m.photons[1 : m.NumPhotons()+1]
}

// Balanced reports whether the map has been prepared for queries
func (m *PhotonMap) Balanced() bool {
	return m.balanced
}

// Bounds returns the box around the stored photons
func (m *PhotonMap) Bounds() core.AABB {
	box := core.EmptyAABB()
	for _, p := range m.Photons() {
		box = box.Extend(p.Position)
	}
	return box
}
