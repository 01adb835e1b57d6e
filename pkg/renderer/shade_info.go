package renderer

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// pixelState is the per-pixel context shared by every shade of a sample
type pixelState struct {
	x, y   int
	sample int
	rng    *core.RNG
}

// shadeInfo implements core.ShadeInfo for one hit
type shadeInfo struct {
	rt     *Raytracer
	px     *pixelState
	hit    *core.HitInfo
	bounce int

	n, gn, v core.Vec3
	jitter   core.Vec2
}

var _ core.ShadeInfo = (*shadeInfo)(nil)

func (rt *Raytracer) newShadeInfo(px *pixelState, ray core.Ray, hit *core.HitInfo, bounce int) *shadeInfo {
	n, gn := hit.N, hit.GN
	if !hit.Front {
		n, gn = n.Negate(), gn.Negate()
	}
	return &shadeInfo{
		rt:     rt,
		px:     px,
		hit:    hit,
		bounce: bounce,
		n:      n,
		gn:     gn,
		v:      ray.Direction.Normalize().Negate(),
		jitter: px.rng.RandomVec2(),
	}
}

func (s *shadeInfo) P() core.Vec3            { return s.hit.P }
func (s *shadeInfo) N() core.Vec3            { return s.n }
func (s *shadeInfo) GN() core.Vec3           { return s.gn }
func (s *shadeInfo) V() core.Vec3            { return s.v }
func (s *shadeInfo) UVW() core.Vec3          { return s.hit.UVW }
func (s *shadeInfo) Depth() float64          { return s.hit.Z }
func (s *shadeInfo) IsFront() bool           { return s.hit.Front }
func (s *shadeInfo) MaterialID() int         { return s.hit.MtlID }
func (s *shadeInfo) Node() core.SceneNode    { return s.hit.Node }
func (s *shadeInfo) X() int                  { return s.px.x }
func (s *shadeInfo) Y() int                  { return s.px.y }
func (s *shadeInfo) CurrentBounce() int      { return s.bounce }
func (s *shadeInfo) CurrentPixelSample() int { return s.px.sample }
func (s *shadeInfo) NumLights() int          { return len(s.rt.scene.Lights) }
func (s *shadeInfo) Light(i int) core.Light  { return s.rt.scene.Lights[i] }
func (s *shadeInfo) CanBounce() bool         { return s.bounce < s.rt.config.MaxBounces }
func (s *shadeInfo) RandomFloat() float64    { return s.px.rng.RandomFloat() }
func (s *shadeInfo) ShadowSampleRange() (int, int) {
	return s.rt.config.MinShadowSamples, s.rt.config.MaxShadowSamples
}

func (s *shadeInfo) EvalEnvironment(dir core.Vec3) core.Vec3 {
	return s.rt.scene.EvalEnvironment(dir)
}

func (s *shadeInfo) PhotonMap() core.IrradianceEstimator   { return s.rt.photons }
func (s *shadeInfo) CausticsMap() core.IrradianceEstimator { return s.rt.caustics }

// GlossySample returns the i-th Halton point in bases 2 and 3, rotated by
// this shade's jitter
func (s *shadeInfo) GlossySample(i int) core.Vec2 {
	return core.NewVec2(
		s.rt.glossyX.Jittered(i, s.jitter.X),
		s.rt.glossyY.Jittered(i, s.jitter.Y),
	)
}

func (s *shadeInfo) TraceShadowRay(ray core.Ray, tMax float64) float64 {
	ray.Origin = core.OffsetOrigin(ray.Origin, s.gn, ray.Direction)
	if s.rt.scene.TraceShadowRay(ray, tMax) {
		return 0
	}
	return 1
}

func (s *shadeInfo) TraceSecondaryRay(ray core.Ray) core.Secondary {
	ray.Origin = core.OffsetOrigin(ray.Origin, s.gn, ray.Direction)

	hit := core.NewHitInfo()
	color, found := s.rt.shade(s.px, ray, &hit, s.bounce+1)
	if !found {
		return core.Secondary{Color: color, Dist: math.Inf(1)}
	}
	return core.Secondary{
		Color:   color,
		Dist:    hit.Z * ray.Direction.Length(),
		HitBack: !hit.Front,
	}
}
