// Package coretest provides a configurable ShadeInfo for testing materials
// and lights without a scene or renderer.
package coretest

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// ShadeInfo is a core.ShadeInfo whose answers come from its fields. Unset
// hooks behave like an empty, unoccluded scene.
type ShadeInfo struct {
	Hit       core.HitInfo
	View      core.Vec3 // unit direction toward the viewer
	Lights    []core.Light
	Bounce    int
	MaxBounce int
	Sample    int
	PixelX    int
	PixelY    int
	RNG       *core.RNG

	MinShadowSamples int
	MaxShadowSamples int

	Environment func(dir core.Vec3) core.Vec3
	Shadow      func(ray core.Ray, tMax float64) float64
	Secondary   func(ray core.Ray) core.Secondary
	Photons     core.IrradianceEstimator
	Caustics    core.IrradianceEstimator

	ShadowRays    int
	SecondaryRays []core.Ray
}

// New returns a ShadeInfo for a front hit at p with normal n seen from view
func New(p, n, view core.Vec3, lights ...core.Light) *ShadeInfo {
	hit := core.NewHitInfo()
	hit.Z = 1
	hit.P = p
	hit.N = n
	hit.GN = n
	return &ShadeInfo{
		Hit:              hit,
		View:             view.Normalize(),
		Lights:           lights,
		RNG:              core.NewRNG(1),
		MinShadowSamples: 16,
		MaxShadowSamples: 128,
	}
}

var _ core.ShadeInfo = (*ShadeInfo)(nil)

func (s *ShadeInfo) P() core.Vec3            { return s.Hit.P }
func (s *ShadeInfo) N() core.Vec3            { return s.Hit.N }
func (s *ShadeInfo) GN() core.Vec3           { return s.Hit.GN }
func (s *ShadeInfo) V() core.Vec3            { return s.View }
func (s *ShadeInfo) UVW() core.Vec3          { return s.Hit.UVW }
func (s *ShadeInfo) Depth() float64          { return s.Hit.Z }
func (s *ShadeInfo) IsFront() bool           { return s.Hit.Front }
func (s *ShadeInfo) MaterialID() int         { return s.Hit.MtlID }
func (s *ShadeInfo) Node() core.SceneNode    { return s.Hit.Node }
func (s *ShadeInfo) X() int                  { return s.PixelX }
func (s *ShadeInfo) Y() int                  { return s.PixelY }
func (s *ShadeInfo) CurrentBounce() int      { return s.Bounce }
func (s *ShadeInfo) CurrentPixelSample() int { return s.Sample }
func (s *ShadeInfo) NumLights() int          { return len(s.Lights) }
func (s *ShadeInfo) Light(i int) core.Light  { return s.Lights[i] }
func (s *ShadeInfo) CanBounce() bool         { return s.Bounce < s.MaxBounce }
func (s *ShadeInfo) RandomFloat() float64    { return s.RNG.RandomFloat() }

func (s *ShadeInfo) PhotonMap() core.IrradianceEstimator   { return s.Photons }
func (s *ShadeInfo) CausticsMap() core.IrradianceEstimator { return s.Caustics }

func (s *ShadeInfo) ShadowSampleRange() (int, int) {
	return s.MinShadowSamples, s.MaxShadowSamples
}

func (s *ShadeInfo) GlossySample(i int) core.Vec2 {
	return core.NewVec2(core.Halton(i, 2), core.Halton(i, 3))
}

func (s *ShadeInfo) EvalEnvironment(dir core.Vec3) core.Vec3 {
	if s.Environment == nil {
		return core.Vec3{}
	}
	return s.Environment(dir)
}

func (s *ShadeInfo) TraceShadowRay(ray core.Ray, tMax float64) float64 {
	s.ShadowRays++
	if s.Shadow == nil {
		return 1
	}
	return s.Shadow(ray, tMax)
}

func (s *ShadeInfo) TraceSecondaryRay(ray core.Ray) core.Secondary {
	s.SecondaryRays = append(s.SecondaryRays, ray)
	if s.Secondary == nil {
		return core.Secondary{Color: s.EvalEnvironment(ray.Direction), Dist: math.Inf(1)}
	}
	return s.Secondary(ray)
}

// ConstantIrradiance is an IrradianceEstimator returning the same value everywhere
type ConstantIrradiance core.Vec3

func (c ConstantIrradiance) Irradiance(p, n core.Vec3) (core.Vec3, core.Vec3) {
	return core.Vec3(c), n
}
