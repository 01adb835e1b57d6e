package geometry

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Sphere is the unit sphere centered at the origin. Nodes scale and move it.
type Sphere struct{}

// NewSphere creates a new unit sphere
func NewSphere() *Sphere {
	return &Sphere{}
}

// roots solves |o + t*d|² = 1 and returns the entering and exiting parameters
func (s *Sphere) roots(ray core.Ray) (float64, float64, bool) {
	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := ray.Origin.Dot(ray.Direction)
	c := ray.Origin.Dot(ray.Origin) - 1

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, true
}

// IntersectRay tests if a ray intersects with the sphere
func (s *Sphere) IntersectRay(ray core.Ray, hit *core.HitInfo, side core.HitSide) bool {
	t1, t2, ok := s.roots(ray)
	if !ok {
		return false
	}

	var t float64
	var front bool
	switch {
	case t1 > core.Epsilon && t1 < hit.Z && side.Accepts(true):
		t, front = t1, true
	case t2 > core.Epsilon && t2 < hit.Z && side.Accepts(false):
		t, front = t2, false
	default:
		return false
	}

	p := ray.At(t)
	n := p.Normalize()
	hit.Z = t
	hit.P = p
	hit.N = n
	hit.GN = n
	hit.Front = front
	hit.MtlID = 0
	hit.UVW = core.NewVec3(
		0.5+math.Atan2(n.Y, n.X)/(2*math.Pi),
		0.5+math.Asin(math.Max(-1, math.Min(1, n.Z)))/math.Pi,
		0,
	)
	return true
}

// ShadowRay reports whether the sphere blocks the ray before tMax
func (s *Sphere) ShadowRay(ray core.Ray, tMax float64) bool {
	t1, t2, ok := s.roots(ray)
	if !ok {
		return false
	}
	if t1 > core.Epsilon && t1 < tMax {
		return true
	}
	return t2 > core.Epsilon && t2 < tMax
}

// BoundBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundBox() core.AABB {
	return core.NewAABB(core.Gray(-1), core.Gray(1))
}
