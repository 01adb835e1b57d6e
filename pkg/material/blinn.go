package material

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// PhongBlinn holds the parameters shared by the Phong and Blinn materials
type PhongBlinn struct {
	Diffuse    ColorSource // kd, evaluated at the hit's texture coordinates
	Specular   core.Vec3   // ks
	Glossiness float64     // specular exponent α
	Reflection core.Vec3   // mirror reflection weight
	Refraction core.Vec3   // transmission weight
	Absorption core.Vec3   // Beer-Lambert coefficients inside the medium
	IOR        float64     // index of refraction

	// ReflectionGlossiness is the cosine-power exponent used to blur
	// reflections and refractions. Zero keeps them perfectly sharp.
	ReflectionGlossiness float64
}

// DefaultPhongBlinn returns the default parameters: diffuse 0.5, specular
// 0.7, glossiness 20 and IOR 1.5.
func DefaultPhongBlinn() PhongBlinn {
	return PhongBlinn{
		Diffuse:    NewSolidColor(core.Gray(0.5)),
		Specular:   core.Gray(0.7),
		Glossiness: 20,
		IOR:        1.5,
	}
}

// Blinn uses the normalized Blinn-Phong half-vector specular lobe
type Blinn struct {
	PhongBlinn
}

// NewBlinn creates a Blinn material from parameters
func NewBlinn(params PhongBlinn) *Blinn {
	return &Blinn{PhongBlinn: params}
}

// Shade implements core.Material
func (m *Blinn) Shade(si core.ShadeInfo) core.Vec3 {
	alpha := m.Glossiness
	norm := (alpha + 2) / (8 * math.Pi)
	return m.shade(si, func(n, v, l core.Vec3) float64 {
		h := l.Add(v).Normalize()
		return norm * math.Pow(math.Max(n.Dot(h), 0), alpha)
	})
}

// Phong uses the normalized Phong reflection-vector specular lobe
type Phong struct {
	PhongBlinn
}

// NewPhong creates a Phong material from parameters
func NewPhong(params PhongBlinn) *Phong {
	return &Phong{PhongBlinn: params}
}

// Shade implements core.Material
func (m *Phong) Shade(si core.ShadeInfo) core.Vec3 {
	alpha := m.Glossiness
	norm := (alpha + 2) / (2 * math.Pi)
	return m.shade(si, func(n, v, l core.Vec3) float64 {
		r := n.Multiply(2 * n.Dot(l)).Subtract(l)
		return norm * math.Pow(math.Max(r.Dot(v), 0), alpha)
	})
}

// specularLobe returns the specular BRDF factor for light direction l
type specularLobe func(n, v, l core.Vec3) float64

func (m *PhongBlinn) shade(si core.ShadeInfo, specular specularLobe) core.Vec3 {
	p, n, v := si.P(), si.N(), si.V()
	kd := evaluate(m.Diffuse, si.UVW(), p)
	diffuse := kd.Multiply(1 / math.Pi)

	var color, ambient core.Vec3
	for i := range si.NumLights() {
		light := si.Light(i)
		intensity, l := light.Illuminate(si)
		if light.IsAmbient() {
			ambient = ambient.Add(intensity)
			continue
		}
		cosTheta := n.Dot(l)
		if cosTheta <= 0 || intensity.IsZero() {
			continue
		}
		brdf := diffuse.Add(m.Specular.Multiply(specular(n, v, l)))
		color = color.Add(intensity.MultiplyVec(brdf).Multiply(cosTheta))
	}
	color = color.Add(ambient.MultiplyVec(kd))

	if !kd.IsZero() {
		color = color.Add(indirect(si, p, n).MultiplyVec(diffuse))
	}

	if si.CanBounce() {
		color = color.Add(m.bounce(si, p, n, v))
	}
	return color
}

// indirect sums the photon and caustics map estimates at p
func indirect(si core.ShadeInfo, p, n core.Vec3) core.Vec3 {
	var e core.Vec3
	if pm := si.PhotonMap(); pm != nil {
		irradiance, _ := pm.Irradiance(p, n)
		e = e.Add(irradiance)
	}
	if cm := si.CausticsMap(); cm != nil {
		irradiance, _ := cm.Irradiance(p, n)
		e = e.Add(irradiance)
	}
	return e
}

// bounce traces the reflection and refraction rays, splitting the
// transmission weight with the Fresnel term.
func (m *PhongBlinn) bounce(si core.ShadeInfo, p, n, v core.Vec3) core.Vec3 {
	reflection, refraction := m.Reflection, m.Refraction
	if reflection.IsZero() && refraction.IsZero() {
		return core.Vec3{}
	}

	var color core.Vec3
	sample := 2 * si.CurrentPixelSample()

	if !refraction.IsZero() {
		eta := 1 / m.IOR
		if !si.IsFront() {
			eta = m.IOR
		}
		fresnel := Fresnel(n.Dot(v), eta)
		reflection = reflection.Add(refraction.Multiply(fresnel))
		refraction = refraction.Multiply(1 - fresnel)

		if dir, ok := Refract(v.Negate(), n, eta); ok && !refraction.IsZero() {
			dir = glossyDirection(si, dir, n, -1, m.ReflectionGlossiness, sample+1)
			sec := si.TraceSecondaryRay(core.NewRay(p, dir))
			color = color.Add(refraction.MultiplyVec(absorb(sec, m.Absorption)))
		}
	}

	if !reflection.IsZero() {
		dir := Reflect(v.Negate(), n)
		dir = glossyDirection(si, dir, n, 1, m.ReflectionGlossiness, sample)
		sec := si.TraceSecondaryRay(core.NewRay(p, dir))
		color = color.Add(reflection.MultiplyVec(absorb(sec, m.Absorption)))
	}
	return color
}

// IsPhotonSurface reports whether photons are stored on this material
func (m *PhongBlinn) IsPhotonSurface(mtlID int) bool {
	return !isBlack(m.Diffuse)
}

// ScatterPhoton implements core.PhotonScatterer. Each lobe is chosen with
// probability equal to its average color, otherwise the photon is absorbed.
func (m *PhongBlinn) ScatterPhoton(hit *core.HitInfo, dir, power core.Vec3, rng *core.RNG) (core.Vec3, core.Vec3, core.Lobe) {
	kd := evaluate(m.Diffuse, hit.UVW, hit.P)
	return scatterPhoton(hit, dir, power, rng, photonLobes{
		diffuse:      kd,
		specular:     m.Reflection,
		transmission: m.Refraction,
		ior:          m.IOR,
	})
}
