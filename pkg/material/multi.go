package material

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Multi selects a sub-material by the hit's material id. Ids past the end
// use the last sub-material.
type Multi struct {
	Materials []core.Material
}

// NewMulti creates a multi-material
func NewMulti(materials ...core.Material) *Multi {
	return &Multi{Materials: materials}
}

// sub returns the material for id, or nil when there are none
func (m *Multi) sub(id int) core.Material {
	if len(m.Materials) == 0 {
		return nil
	}
	return m.Materials[max(0, min(id, len(m.Materials)-1))]
}

// Shade implements core.Material
func (m *Multi) Shade(si core.ShadeInfo) core.Vec3 {
	mtl := m.sub(si.MaterialID())
	if mtl == nil {
		return core.Vec3{}
	}
	return mtl.Shade(si)
}

// IsPhotonSurface asks the selected sub-material
func (m *Multi) IsPhotonSurface(mtlID int) bool {
	ps, ok := m.sub(mtlID).(core.PhotonScatterer)
	return ok && ps.IsPhotonSurface(mtlID)
}

// ScatterPhoton delegates to the selected sub-material, absorbing the photon
// when it cannot scatter.
func (m *Multi) ScatterPhoton(hit *core.HitInfo, dir, power core.Vec3, rng *core.RNG) (core.Vec3, core.Vec3, core.Lobe) {
	ps, ok := m.sub(hit.MtlID).(core.PhotonScatterer)
	if !ok {
		return core.Vec3{}, core.Vec3{}, core.LobeAbsorbed
	}
	return ps.ScatterPhoton(hit, dir, power, rng)
}
