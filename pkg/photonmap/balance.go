package photonmap

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// PrepareForIrradianceEstimation rearranges the stored photons into a
// left-balanced k-d tree. Node i has its children at 2i and 2i+1. It must run
// after every AddPhoton call and before the first query.
func (m *PhotonMap) PrepareForIrradianceEstimation() {
	n := m.NumPhotons()
	if n == 0 || m.balanced {
		m.balanced = true
		return
	}

	balanced := make([]Photon, len(m.photons))
	m.balanceSegment(balanced, m.Bounds(), 1, 1, n)
	m.photons = balanced
	m.balanced = true
}

// leftBalancedMedian returns the index in [start, end] whose element becomes
// the root of a complete binary tree over the segment.
func leftBalancedMedian(start, end int) int {
	size := end - start + 1
	m := 1
	for 4*m <= size {
		m += m
	}
	if 3*m <= size {
		return 2*m + start - 1
	}
	return end - m + 1
}

func (m *PhotonMap) balanceSegment(balanced []Photon, box core.AABB, index, start, end int) {
	median := leftBalancedMedian(start, end)
	axis := box.LongestAxis()

	segment := m.photons[start : end+1]
	selectPhoton(segment, median-start, axis)

	balanced[index] = m.photons[median]
	balanced[index].setPlane(axis)
	split := balanced[index].Position.Axis(axis)

	if median > start {
		left := box
		left.Max = left.Max.WithAxis(axis, split)
		m.balanceSegment(balanced, left, 2*index, start, median-1)
	}
	if median < end {
		right := box
		right.Min = right.Min.WithAxis(axis, split)
		m.balanceSegment(balanced, right, 2*index+1, median+1, end)
	}
}

// selectPhoton partially orders photons along axis so that photons[k] holds
// the value a full sort would put there, with no larger coordinate before it
// and no smaller one after.
func selectPhoton(photons []Photon, k, axis int) {
	key := func(i int) float64 {
		return photons[i].Position.Axis(axis)
	}

	lo, hi := 0, len(photons)-1
	for lo < hi {
		pivot := key((lo + hi) / 2)
		i, j := lo, hi
		for i <= j {
			for key(i) < pivot {
				i++
			}
			for key(j) > pivot {
				j--
			}
			if i <= j {
				photons[i], photons[j] = photons[j], photons[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}
