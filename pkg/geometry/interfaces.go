package geometry

import "github.com/df07/go-photon-raytracer/pkg/core"

// Object is geometry placed in a scene node's local frame.
type Object interface {
	// IntersectRay records a hit in hit when one is found nearer than hit.Z on
	// an accepted side. Normals are reported for the front side.
	IntersectRay(ray core.Ray, hit *core.HitInfo, side core.HitSide) bool
	// ShadowRay reports whether anything lies on the ray with Epsilon < t < tMax
	ShadowRay(ray core.Ray, tMax float64) bool
	BoundBox() core.AABB
}
