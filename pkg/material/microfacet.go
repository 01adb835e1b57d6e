package material

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Microfacet is a GGX metallic-roughness material with optional transmission
type Microfacet struct {
	BaseColor     ColorSource // albedo for dielectrics, F0 for metals
	Roughness     float64
	Metallic      float64
	Transmittance core.Vec3
	Absorption    core.Vec3
	IOR           float64
}

// NewMicrofacet creates a microfacet material with the default IOR of 1.5
func NewMicrofacet(baseColor core.Vec3, roughness, metallic float64) *Microfacet {
	return &Microfacet{
		BaseColor: NewSolidColor(baseColor),
		Roughness: roughness,
		Metallic:  metallic,
		IOR:       1.5,
	}
}

// f0 blends the dielectric reflectance at normal incidence with the base color
func (m *Microfacet) f0(base core.Vec3) core.Vec3 {
	r := (m.IOR - 1) / (m.IOR + 1)
	dielectric := core.Gray(r * r)
	return dielectric.Multiply(1 - m.Metallic).Add(base.Multiply(m.Metallic))
}

// alpha is the GGX width, never exactly zero
func (m *Microfacet) alpha() float64 {
	return math.Max(m.Roughness*m.Roughness, 1e-4)
}

// glossiness converts roughness to an equivalent cosine-power exponent.
// A roughness of zero gives a perfect mirror.
func (m *Microfacet) glossiness() float64 {
	if m.Roughness <= 0 {
		return 0
	}
	a := m.alpha()
	return math.Max(2/(a*a)-2, 1)
}

// ggxD is the GGX normal distribution
func ggxD(nDotH, a float64) float64 {
	a2 := a * a
	d := nDotH*nDotH*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// smithG is the separable Smith-Schlick masking-shadowing term
func smithG(nDotL, nDotV, a float64) float64 {
	k := a / 2
	g1 := func(x float64) float64 { return x / (x*(1-k) + k) }
	return g1(nDotL) * g1(nDotV)
}

// Shade implements core.Material
func (m *Microfacet) Shade(si core.ShadeInfo) core.Vec3 {
	p, n, v := si.P(), si.N(), si.V()
	base := evaluate(m.BaseColor, si.UVW(), p)
	f0 := m.f0(base)
	a := m.alpha()
	diffuseAlbedo := base.Multiply(1 - m.Metallic)

	nDotV := math.Max(n.Dot(v), 1e-6)

	var color, ambient core.Vec3
	for i := range si.NumLights() {
		light := si.Light(i)
		intensity, l := light.Illuminate(si)
		if light.IsAmbient() {
			ambient = ambient.Add(intensity)
			continue
		}
		nDotL := n.Dot(l)
		if nDotL <= 0 || intensity.IsZero() {
			continue
		}

		h := l.Add(v).Normalize()
		f := SchlickColor(f0, h.Dot(v))
		d := ggxD(math.Max(n.Dot(h), 0), a)
		g := smithG(nDotL, nDotV, a)

		specular := f.Multiply(d * g / (4 * nDotL * nDotV))
		diffuse := core.Gray(1).Subtract(f).MultiplyVec(diffuseAlbedo).Multiply(1 / math.Pi)
		color = color.Add(intensity.MultiplyVec(diffuse.Add(specular)).Multiply(nDotL))
	}
	color = color.Add(ambient.MultiplyVec(diffuseAlbedo))

	if !diffuseAlbedo.IsZero() {
		color = color.Add(indirect(si, p, n).MultiplyVec(diffuseAlbedo).Multiply(1 / math.Pi))
	}

	if si.CanBounce() {
		color = color.Add(m.bounce(si, p, n, v, f0))
	}
	return color
}

// bounce traces the Fresnel-weighted reflection and the transmitted ray
func (m *Microfacet) bounce(si core.ShadeInfo, p, n, v, f0 core.Vec3) core.Vec3 {
	fresnel := SchlickColor(f0, n.Dot(v))
	reflection := fresnel
	transmission := m.Transmittance.MultiplyVec(core.Gray(1).Subtract(fresnel))
	sample := 2 * si.CurrentPixelSample()
	glossiness := m.glossiness()

	var color core.Vec3
	if !transmission.IsZero() {
		eta := 1 / m.IOR
		if !si.IsFront() {
			eta = m.IOR
		}
		if dir, ok := Refract(v.Negate(), n, eta); ok {
			dir = glossyDirection(si, dir, n, -1, glossiness, sample+1)
			sec := si.TraceSecondaryRay(core.NewRay(p, dir))
			color = color.Add(transmission.MultiplyVec(absorb(sec, m.Absorption)))
		} else {
			reflection = reflection.Add(transmission)
		}
	}

	dir := glossyDirection(si, Reflect(v.Negate(), n), n, 1, glossiness, sample)
	sec := si.TraceSecondaryRay(core.NewRay(p, dir))
	return color.Add(reflection.MultiplyVec(absorb(sec, m.Absorption)))
}

// IsPhotonSurface reports whether photons are stored on this material
func (m *Microfacet) IsPhotonSurface(mtlID int) bool {
	return m.Metallic < 1 && !isBlack(m.BaseColor)
}

// ScatterPhoton implements core.PhotonScatterer
func (m *Microfacet) ScatterPhoton(hit *core.HitInfo, dir, power core.Vec3, rng *core.RNG) (core.Vec3, core.Vec3, core.Lobe) {
	base := evaluate(m.BaseColor, hit.UVW, hit.P)
	return scatterPhoton(hit, dir, power, rng, photonLobes{
		diffuse:      base.Multiply(1 - m.Metallic),
		specular:     m.f0(base),
		transmission: m.Transmittance,
		glossiness:   m.glossiness(),
		ior:          m.IOR,
	})
}
