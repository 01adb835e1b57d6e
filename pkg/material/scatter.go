package material

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// photonLobes are the reflectances a photon can scatter into
type photonLobes struct {
	diffuse      core.Vec3
	specular     core.Vec3
	transmission core.Vec3
	glossiness   float64 // cosine-power exponent for the specular lobe, 0 for a mirror
	ior          float64
}

// scatterPhoton performs Russian roulette over the lobes. Probabilities are
// the lobes' color averages, scaled down when they sum past one.
func scatterPhoton(hit *core.HitInfo, dir, power core.Vec3, rng *core.RNG, lobes photonLobes) (core.Vec3, core.Vec3, core.Lobe) {
	pd := lobes.diffuse.Average()
	ps := lobes.specular.Average()
	pt := lobes.transmission.Average()
	if sum := pd + ps + pt; sum > 1 {
		pd, ps, pt = pd/sum, ps/sum, pt/sum
	}

	d := dir.Normalize()
	// n faces the side the photon arrived from
	n := hit.N
	if d.Dot(n) > 0 {
		n = n.Negate()
	}

	u := rng.RandomFloat()
	switch {
	case u < pd:
		out := core.SampleCosineHemisphere(n, rng.RandomVec2())
		return out, power.MultiplyVec(lobes.diffuse).Multiply(1 / pd), core.LobeDiffuse

	case u < pd+ps:
		out := Reflect(d, n)
		if lobes.glossiness > 0 {
			if g := core.SampleCosinePowerLobe(out, lobes.glossiness, rng.RandomVec2()); g.Dot(n) > 0 {
				out = g
			}
		}
		return out, power.MultiplyVec(lobes.specular).Multiply(1 / ps), core.LobeSpecular

	case u < pd+ps+pt:
		eta := 1 / lobes.ior
		if !hit.Front {
			eta = lobes.ior
		}
		out, ok := Refract(d, n, eta)
		if !ok {
			out = Reflect(d, n)
		}
		return out, power.MultiplyVec(lobes.transmission).Multiply(1 / pt), core.LobeTransmission
	}
	return core.Vec3{}, core.Vec3{}, core.LobeAbsorbed
}
