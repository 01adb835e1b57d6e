package core

import "math"

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	// Generate point in unit disk using uniform random sampling
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	tangent, bitangent := normal.Orthonormals()
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}

// SampleCosinePowerLobe samples a direction around axis whose density falls
// off as cos^exponent, so cosθ = u^(1/(exponent+1)). Used for glossy lobes.
func SampleCosinePowerLobe(axis Vec3, exponent float64, sample Vec2) Vec3 {
	cosTheta := math.Pow(sample.X, 1/(exponent+1))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * sample.Y

	u, v := axis.Orthonormals()
	return u.Multiply(sinTheta * math.Cos(phi)).
		Add(v.Multiply(sinTheta * math.Sin(phi))).
		Add(axis.Multiply(cosTheta))
}

// SampleDiscOnPlane returns a point on the disc of the given radius centered at
// center and facing normal, using r = sqrt(u)*radius and angle 2πv.
func SampleDiscOnPlane(center, normal Vec3, radius float64, sample Vec2) Vec3 {
	r := math.Sqrt(sample.X) * radius
	angle := 2 * math.Pi * sample.Y
	u, v := normal.Orthonormals()
	return center.Add(u.Multiply(r * math.Cos(angle))).Add(v.Multiply(r * math.Sin(angle)))
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return NewVec3(x, y, z)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec3(0, 0, 0)
	}

	// Apply concentric mapping to point
	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// DirectionToEquirect maps a direction to equirectangular texture coordinates:
// u runs with the azimuth around +Y and v from the +Y pole (0) to -Y (1).
func DirectionToEquirect(dir Vec3) Vec3 {
	d := dir.Normalize()
	u := 0.5 + math.Atan2(d.X, -d.Z)/(2*math.Pi)
	v := math.Acos(math.Max(-1, math.Min(1, d.Y))) / math.Pi
	return NewVec3(u, v, 0)
}
