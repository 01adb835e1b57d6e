package core

// Material computes the radiance leaving a shaded point toward the viewer.
// Materials are read-only while a render is running.
type Material interface {
	Shade(si ShadeInfo) Vec3
}

// Light can be sampled from a shaded point.
type Light interface {
	// Illuminate returns the incident intensity at the shaded point and the
	// unit direction from the point toward the light, with shadowing applied.
	Illuminate(si ShadeInfo) (Vec3, Vec3)
	IsAmbient() bool
}

// RenderableLight is a light that has visible geometry, hit by primary and
// secondary rays but never by shadow rays.
type RenderableLight interface {
	Light
	IsRenderable() bool
	IntersectRay(ray Ray, hit *HitInfo, side HitSide) bool
	Radiance(si ShadeInfo) Vec3
	BoundBox() AABB
}

// PhotonSource is a light that emits photons for the photon map.
type PhotonSource interface {
	Light
	IsPhotonSource() bool
	// RandomPhoton returns an emission ray and the photon power carried by it
	RandomPhoton(rng *RNG) (Ray, Vec3)
}

// Lobe identifies the scattering event chosen for a photon.
type Lobe int

const (
	LobeAbsorbed Lobe = iota
	LobeDiffuse
	LobeSpecular
	LobeTransmission
)

func (l Lobe) String() string {
	switch l {
	case LobeDiffuse:
		return "diffuse"
	case LobeSpecular:
		return "specular"
	case LobeTransmission:
		return "transmission"
	default:
		return "absorbed"
	}
}

// PhotonScatterer is a material that can continue a photon random walk.
type PhotonScatterer interface {
	// IsPhotonSurface reports whether photons are stored on this sub-material.
	IsPhotonSurface(mtlID int) bool
	// ScatterPhoton picks the next lobe for a photon arriving along dir and
	// returns the outgoing direction and power. The power is already divided
	// by the lobe's selection probability.
	ScatterPhoton(hit *HitInfo, dir, power Vec3, rng *RNG) (Vec3, Vec3, Lobe)
}

// IrradianceEstimator returns the irradiance at p on a surface with normal n
// and the average incident direction of the contributing photons.
type IrradianceEstimator interface {
	Irradiance(p, n Vec3) (Vec3, Vec3)
}

// SceneNode is the part of a scene-graph node visible to shading.
type SceneNode interface {
	NodeName() string
}

// Secondary is the result of tracing a reflection or refraction ray.
type Secondary struct {
	Color   Vec3    // radiance arriving along the ray
	Dist    float64 // distance to the hit, +Inf on a miss
	HitBack bool    // true when the ray hit the back side of a surface
}

// ShadeInfo is everything a material can see while shading a hit.
type ShadeInfo interface {
	P() Vec3        // hit position
	N() Vec3        // shading normal, on the side the ray arrived from
	GN() Vec3       // geometric normal, on the side the ray arrived from
	V() Vec3        // unit direction toward the viewer
	UVW() Vec3      // texture coordinates
	Depth() float64 // ray parameter of the hit
	IsFront() bool
	MaterialID() int
	Node() SceneNode

	X() int
	Y() int
	CurrentBounce() int
	CurrentPixelSample() int

	NumLights() int
	Light(i int) Light
	EvalEnvironment(dir Vec3) Vec3

	CanBounce() bool
	// TraceShadowRay returns 1 when nothing blocks ray before tMax and 0
	// otherwise. Rays may start at P; the tracer moves them off the surface.
	TraceShadowRay(ray Ray, tMax float64) float64
	// TraceSecondaryRay shades whatever ray hits next, one bounce deeper
	TraceSecondaryRay(ray Ray) Secondary

	RandomFloat() float64
	GlossySample(i int) Vec2
	ShadowSampleRange() (int, int)

	PhotonMap() IrradianceEstimator
	CausticsMap() IrradianceEstimator
}
