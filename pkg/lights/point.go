package lights

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
)

// haltonSamples is the length of the precomputed disc sequences
const haltonSamples = 128

var (
	discHaltonX = core.NewHaltonSeq(haltonSamples, 2)
	discHaltonY = core.NewHaltonSeq(haltonSamples, 3)
)

// Point is a spherical light. With a zero Size it is an ideal point light
// with hard shadows; otherwise it is visible to camera and secondary rays
// and casts soft shadows.
type Point struct {
	Position    core.Vec3
	Intensity   core.Vec3
	Size        float64 // sphere radius
	Attenuation bool    // divide by squared distance

	sphere geometry.Sphere
}

// NewPoint creates a point light
func NewPoint(position, intensity core.Vec3, size float64) *Point {
	return &Point{Position: position, Intensity: intensity, Size: size}
}

// Illuminate estimates the visible fraction of the light by tracing shadow
// rays to points on the disc facing the shaded point. Sampling stops after
// the minimum count when every ray so far reached the light.
func (l *Point) Illuminate(si core.ShadeInfo) (core.Vec3, core.Vec3) {
	p := si.P()
	toLight := l.Position.Subtract(p)
	dist := toLight.Length()
	dir := toLight.Multiply(1 / dist)

	var visibility float64
	if l.Size <= 0 {
		visibility = si.TraceShadowRay(core.NewRay(p, dir), dist)
	} else {
		minSamples, maxSamples := si.ShadowSampleRange()
		jitterX, jitterY := si.RandomFloat(), si.RandomFloat()
		axis := dir.Negate()

		sum, n := 0.0, 0
		for i := 0; i < maxSamples; i++ {
			sample := core.NewVec2(discHaltonX.Jittered(i, jitterX), discHaltonY.Jittered(i, jitterY))
			target := core.SampleDiscOnPlane(l.Position, axis, l.Size, sample)
			ray := target.Subtract(p)
			sampleDist := ray.Length()
			sum += si.TraceShadowRay(core.NewRay(p, ray.Multiply(1/sampleDist)), sampleDist)
			n++
			if n == minSamples && sum == float64(n) {
				break
			}
		}
		visibility = sum / float64(max(n, 1))
	}

	intensity := l.Intensity.Multiply(visibility)
	if l.Attenuation {
		intensity = intensity.Multiply(1 / (dist * dist))
	}
	return intensity, dir
}

// IsAmbient implements core.Light
func (l *Point) IsAmbient() bool { return false }

// IsRenderable reports whether the light has visible geometry
func (l *Point) IsRenderable() bool { return l.Size > 0 }

// IntersectRay tests the light's sphere. The ray is mapped onto the unit
// sphere, which keeps the ray parameter unchanged.
func (l *Point) IntersectRay(ray core.Ray, hit *core.HitInfo, side core.HitSide) bool {
	if l.Size <= 0 {
		return false
	}
	local := core.NewRay(
		ray.Origin.Subtract(l.Position).Multiply(1/l.Size),
		ray.Direction.Multiply(1/l.Size),
	)
	if !l.sphere.IntersectRay(local, hit, side) {
		return false
	}
	hit.P = ray.At(hit.Z)
	return true
}

// Radiance returns the light's emitted color
func (l *Point) Radiance(si core.ShadeInfo) core.Vec3 {
	return l.Intensity
}

// BoundBox returns the box around the light's sphere
func (l *Point) BoundBox() core.AABB {
	r := core.Gray(l.Size)
	return core.NewAABB(l.Position.Subtract(r), l.Position.Add(r))
}

// IsPhotonSource reports whether the light emits photons
func (l *Point) IsPhotonSource() bool {
	return !l.Intensity.IsZero()
}

// RandomPhoton picks a uniform point on the light's sphere and a
// cosine-weighted direction around the surface normal there. An ideal point
// light emits uniformly in all directions from its center.
//
// An attenuated or ideal light carries its full flux 4πI. Otherwise the
// intensity is treated as the emission of the sphere's surface.
func (l *Point) RandomPhoton(rng *core.RNG) (core.Ray, core.Vec3) {
	normal := core.SampleOnUnitSphere(rng.RandomVec2())
	flux := l.Intensity.Multiply(4 * math.Pi)
	if l.Size <= 0 {
		return core.NewRay(l.Position, normal), flux
	}

	origin := l.Position.Add(normal.Multiply(l.Size))
	dir := core.SampleCosineHemisphere(normal, rng.RandomVec2()).Normalize()
	if !l.Attenuation {
		flux = flux.Multiply(l.Size * l.Size)
	}
	return core.NewRay(origin, dir), flux
}
