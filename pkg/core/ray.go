package core

// Ray represents a ray with an origin and direction. The direction is not
// normalized, so the ray parameter t is preserved across affine frame changes.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InverseDirection returns 1/d per component, used by the slab test.
// Zero components map to ±Inf, which the slab test handles.
func (r Ray) InverseDirection() Vec3 {
	return Vec3{1 / r.Direction.X, 1 / r.Direction.Y, 1 / r.Direction.Z}
}
