package photonmap

import (
	"math"
	"sync"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Filter weights photons by their distance to the query point
type Filter int

const (
	FilterConstant Filter = iota
	FilterLinear          // 1 - d/r
	FilterQuadratic       // 1 - d²/r²
)

func (f Filter) String() string {
	switch f {
	case FilterLinear:
		return "linear"
	case FilterQuadratic:
		return "quadratic"
	default:
		return "constant"
	}
}

// IrradianceQuery describes a k-nearest-neighbour irradiance estimate
type IrradianceQuery struct {
	Position core.Vec3
	Normal   core.Vec3

	// UseNormal rejects photons arriving from behind the surface
	UseNormal bool

	Radius     float64
	MaxPhotons int
	Filter     Filter

	// Ellipticity below 1 squashes the search sphere along the normal.
	// 0 and 1 both mean a sphere.
	Ellipticity float64
}

// nearest is a bounded max-heap of the closest photons found so far.
// dist2[0] holds the current search radius squared.
type nearest struct {
	pos       core.Vec3
	normal    core.Vec3
	useNormal bool
	normScale float64
	max       int
	found     int
	dist2     []float64
	photons   []*Photon
}

var nearestPool = sync.Pool{
	New: func() any {
		return &nearest{}
	},
}

func getNearest(q IrradianceQuery, k int) *nearest {
	np := nearestPool.Get().(*nearest)
	if cap(np.dist2) < k+1 {
		np.dist2 = make([]float64, k+1)
		np.photons = make([]*Photon, k+1)
	}
	np.dist2 = np.dist2[:k+1]
	np.photons = np.photons[:k+1]

	np.pos = q.Position
	np.normal = q.Normal
	np.useNormal = q.UseNormal
	np.normScale = 0
	if q.Ellipticity > 0 && q.Ellipticity != 1 {
		np.normScale = 1/q.Ellipticity - 1
	}
	np.max = k
	np.found = 0
	np.dist2[0] = q.Radius * q.Radius
	return np
}

func putNearest(np *nearest) {
	clear(np.photons)
	nearestPool.Put(np)
}

// EstimateIrradiance returns the irradiance at the query point and the
// power-weighted average direction of the photons that contributed. With no
// photons in range both are zero.
func (m *PhotonMap) EstimateIrradiance(q IrradianceQuery) (core.Vec3, core.Vec3) {
	if !m.balanced || m.NumPhotons() == 0 || q.MaxPhotons <= 0 || q.Radius <= 0 {
		return core.Vec3{}, core.Vec3{}
	}

	np := getNearest(q, q.MaxPhotons)
	defer putNearest(np)
	m.locate(np, 1)
	if np.found == 0 {
		return core.Vec3{}, core.Vec3{}
	}

	r2 := np.dist2[0]
	var irradiance, direction core.Vec3
	for i := 1; i <= np.found; i++ {
		p := np.photons[i]
		w := 1.0
		switch q.Filter {
		case FilterLinear:
			w = 1 - math.Sqrt(np.dist2[i]/r2)
		case FilterQuadratic:
			w = 1 - np.dist2[i]/r2
		}
		irradiance = irradiance.Add(p.Power().Multiply(w))
		direction = direction.Add(p.Direction().Multiply(w * p.MaxPower()))
	}

	area := math.Pi * r2
	switch q.Filter {
	case FilterLinear:
		area /= 3
	case FilterQuadratic:
		area /= 2
	}
	if area > 0 {
		irradiance = irradiance.Multiply(1 / area)
	}
	if !direction.IsZero() {
		direction = direction.Normalize()
	}
	return irradiance, direction
}

// NearestPhoton returns the photon closest to the query point within the
// query radius. MaxPhotons and Filter are ignored.
func (m *PhotonMap) NearestPhoton(q IrradianceQuery) (Photon, bool) {
	if !m.balanced || m.NumPhotons() == 0 || q.Radius <= 0 {
		return Photon{}, false
	}

	np := getNearest(q, 1)
	defer putNearest(np)
	m.locate(np, 1)
	if np.found == 0 {
		return Photon{}, false
	}
	return *np.photons[1], true
}

func (m *PhotonMap) locate(np *nearest, index int) {
	n := m.NumPhotons()
	p := &m.photons[index]

	if left := 2 * index; left <= n {
		axis := p.Plane()
		dist := np.pos.Axis(axis) - p.Position.Axis(axis)
		near, far := left, left+1
		if dist > 0 {
			near, far = far, near
		}
		if near <= n {
			m.locate(np, near)
		}
		if far <= n && dist*dist < np.dist2[0] {
			m.locate(np, far)
		}
	}

	diff := p.Position.Subtract(np.pos)
	d2 := diff.LengthSquared()
	if d2 >= np.dist2[0] {
		return
	}

	if np.useNormal {
		if p.Direction().Dot(np.normal) >= 0 {
			return
		}
		if np.normScale > 0 {
			diff = diff.Add(np.normal.Multiply(diff.Dot(np.normal) * np.normScale))
			d2 = diff.LengthSquared()
			if d2 >= np.dist2[0] {
				return
			}
		}
	}
	np.insert(p, d2)
}

func (np *nearest) insert(p *Photon, d2 float64) {
	if np.found < np.max {
		np.found++
		np.dist2[np.found] = d2
		np.photons[np.found] = p
		if np.found == np.max {
			for k := np.found / 2; k >= 1; k-- {
				np.siftDown(k, np.photons[k], np.dist2[k])
			}
			np.dist2[0] = np.dist2[1]
		}
		return
	}

	// replace the farthest photon
	np.siftDown(1, p, d2)
	np.dist2[0] = np.dist2[1]
}

// siftDown places p at position k of the heap and restores the max-heap order
func (np *nearest) siftDown(k int, p *Photon, d2 float64) {
	parent := k
	for {
		j := 2 * parent
		if j > np.found {
			break
		}
		if j < np.found && np.dist2[j] < np.dist2[j+1] {
			j++
		}
		if d2 >= np.dist2[j] {
			break
		}
		np.dist2[parent] = np.dist2[j]
		np.photons[parent] = np.photons[j]
		parent = j
	}
	np.photons[parent] = p
	np.dist2[parent] = d2
}

// Estimator adapts a photon map to core.IrradianceEstimator
type Estimator struct {
	Map         *PhotonMap
	Radius      float64
	MaxPhotons  int
	Filter      Filter
	Ellipticity float64
}

// Irradiance estimates the irradiance arriving at p on the side n faces
func (e *Estimator) Irradiance(p, n core.Vec3) (core.Vec3, core.Vec3) {
	if e == nil || e.Map == nil {
		return core.Vec3{}, core.Vec3{}
	}
	return e.Map.EstimateIrradiance(IrradianceQuery{
		Position:    p,
		Normal:      n,
		UseNormal:   true,
		Radius:      e.Radius,
		MaxPhotons:  e.MaxPhotons,
		Filter:      e.Filter,
		Ellipticity: e.Ellipticity,
	})
}
