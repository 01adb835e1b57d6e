package geometry

import "github.com/df07/go-photon-raytracer/pkg/core"

// intersectTriangle runs Möller-Trumbore against the triangle v0 v1 v2. It
// returns the ray parameter, the barycentric coordinates of v1 and v2, and
// whether the front side (counter-clockwise winding) was hit.
func intersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3) (t, u, v float64, front, ok bool) {
	const epsilon = 1e-12

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false, false
	}

	t = f * edge2.Dot(q)
	return t, u, v, a > 0, true
}
