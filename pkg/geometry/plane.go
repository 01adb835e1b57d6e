package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Plane is the square z=0 with x and y in [-1,1], facing +Z.
type Plane struct{}

// NewPlane creates a new unit plane
func NewPlane() *Plane {
	return &Plane{}
}

// param returns the ray parameter and hit point on the square
func (p *Plane) param(ray core.Ray) (float64, core.Vec3, bool) {
	// Parallel rays never hit
	if ray.Direction.Z == 0 {
		return 0, core.Vec3{}, false
	}
	t := -ray.Origin.Z / ray.Direction.Z
	point := ray.At(t)
	if point.X < -1 || point.X > 1 || point.Y < -1 || point.Y > 1 {
		return 0, core.Vec3{}, false
	}
	point.Z = 0
	return t, point, true
}

// IntersectRay tests if a ray intersects with the plane
func (p *Plane) IntersectRay(ray core.Ray, hit *core.HitInfo, side core.HitSide) bool {
	t, point, ok := p.param(ray)
	if !ok || t <= core.Epsilon || t >= hit.Z {
		return false
	}
	front := ray.Direction.Z < 0
	if !side.Accepts(front) {
		return false
	}

	n := core.NewVec3(0, 0, 1)
	hit.Z = t
	hit.P = point
	hit.N = n
	hit.GN = n
	hit.Front = front
	hit.MtlID = 0
	hit.UVW = core.NewVec3((point.X+1)/2, (point.Y+1)/2, 0)
	return true
}

// ShadowRay reports whether the plane blocks the ray before tMax
func (p *Plane) ShadowRay(ray core.Ray, tMax float64) bool {
	t, _, ok := p.param(ray)
	return ok && t > core.Epsilon && t < tMax
}

// BoundBox returns a flat box around the square
func (p *Plane) BoundBox() core.AABB {
	return core.NewAABB(core.NewVec3(-1, -1, 0), core.NewVec3(1, 1, 0))
}
