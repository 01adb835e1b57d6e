package material

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Reflect mirrors the incoming direction v about the normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit direction v through a surface with unit normal n
// facing against v, where eta is the ratio of indices (incident over
// transmitted). It returns false on total internal reflection.
func Refract(v, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosI := -v.Dot(n)
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return core.Vec3{}, false
	}
	cosT := math.Sqrt(1 - sin2T)
	return v.Multiply(eta).Add(n.Multiply(eta*cosI - cosT)), true
}

// Fresnel returns the reflected fraction at a dielectric boundary using
// Schlick's approximation. cosI is the cosine on the incident side and eta
// the ratio of indices (incident over transmitted). Total internal
// reflection returns 1.
func Fresnel(cosI, eta float64) float64 {
	r0 := (1 - eta) / (1 + eta)
	r0 = r0 * r0

	cos := cosI
	if eta > 1 {
		// Going into the thinner medium: use the transmitted angle
		sin2T := eta * eta * (1 - cosI*cosI)
		if sin2T > 1 {
			return 1
		}
		cos = math.Sqrt(1 - sin2T)
	}
	return r0 + (1-r0)*math.Pow(1-cos, 5)
}

// SchlickColor evaluates Schlick's approximation with a colored F0
func SchlickColor(f0 core.Vec3, cos float64) core.Vec3 {
	w := math.Pow(1-math.Max(0, math.Min(1, cos)), 5)
	return f0.Add(core.Gray(1).Subtract(f0).Multiply(w))
}

// glossyDirection perturbs ideal with a cosine-power lobe of the given
// exponent. When the sample falls on the wrong side of n (sign gives the
// expected side) the ideal direction is kept. A zero exponent means a perfect
// mirror or lens.
func glossyDirection(si core.ShadeInfo, ideal, n core.Vec3, sign float64, exponent float64, index int) core.Vec3 {
	if exponent <= 0 {
		return ideal
	}
	dir := core.SampleCosinePowerLobe(ideal, exponent, si.GlossySample(index))
	if dir.Dot(n)*sign <= 0 {
		return ideal
	}
	return dir
}

// absorb applies Beer-Lambert attenuation to light that traveled inside a medium
func absorb(sec core.Secondary, absorption core.Vec3) core.Vec3 {
	if !sec.HitBack || absorption.IsZero() || math.IsInf(sec.Dist, 1) {
		return sec.Color
	}
	return sec.Color.MultiplyVec(absorption.Multiply(-sec.Dist).Exp())
}
