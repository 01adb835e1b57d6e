package renderer

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/photonmap"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// glossyTableSize is the length of the precomputed glossy Halton tables
const glossyTableSize = 1024

// Raytracer shades rays against a prepared scene. It is read-only while
// rendering and shared by every worker.
type Raytracer struct {
	scene  *scene.Scene
	config Config
	camera *Camera
	width  int
	height int

	photons  core.IrradianceEstimator
	caustics core.IrradianceEstimator

	glossyX, glossyY core.HaltonSeq
	pixelSeqs        [4]core.HaltonSeq // bases 2, 3, 5 and 7: pixel x, pixel y, lens u, lens v
	tTable           []float64
}

// NewRaytracer creates a raytracer for a prepared scene. maps may be nil.
func NewRaytracer(s *scene.Scene, config Config, width, height int, maps *photonmap.Maps) *Raytracer {
	rt := &Raytracer{
		scene:   s,
		config:  config,
		camera:  NewCamera(s.Camera, width, height),
		width:   width,
		height:  height,
		glossyX: core.NewHaltonSeq(glossyTableSize, 2),
		glossyY: core.NewHaltonSeq(glossyTableSize, 3),
		tTable:  newTTable(config.MaxSamples),
	}
	for i, base := range []int{2, 3, 5, 7} {
		rt.pixelSeqs[i] = core.NewHaltonSeq(max(config.MaxSamples, 1), base)
	}

	if maps != nil {
		settings := s.Photons
		if config.Photons != nil {
			settings = *config.Photons
		}
		if maps.Global != nil && maps.Global.NumPhotons() > 0 {
			rt.photons = rt.estimator(maps.Global, settings)
		}
		if maps.Caustics != nil && maps.Caustics.NumPhotons() > 0 {
			rt.caustics = rt.estimator(maps.Caustics, settings)
		}
	}
	return rt
}

func (rt *Raytracer) estimator(m *photonmap.PhotonMap, settings scene.PhotonSettings) *photonmap.Estimator {
	return &photonmap.Estimator{
		Map:         m,
		Radius:      settings.Radius,
		MaxPhotons:  settings.MaxPhotons,
		Filter:      rt.config.PhotonFilter,
		Ellipticity: rt.config.PhotonEllipticity,
	}
}

// tracePrimary shades a camera ray. Misses return the background at the
// pixel's screen position. It also returns the hit distance, +Inf on a miss.
func (rt *Raytracer) tracePrimary(px *pixelState, ray core.Ray, sx, sy float64) (core.Vec3, float64) {
	hit := core.NewHitInfo()
	color, found := rt.shade(px, ray, &hit, 0)
	if !found {
		return rt.scene.EvalBackground(sx/float64(rt.width), sy/float64(rt.height)), hit.Z
	}
	return color, hit.Z
}

// shade traces ray and shades the nearest hit at the given bounce. Misses
// return the environment and false.
func (rt *Raytracer) shade(px *pixelState, ray core.Ray, hit *core.HitInfo, bounce int) (core.Vec3, bool) {
	if !rt.scene.TraceRay(ray, hit, core.HitFrontAndBack) {
		return rt.scene.EvalEnvironment(ray.Direction.Normalize()), false
	}

	si := rt.newShadeInfo(px, ray, hit, bounce)
	if hit.Light != nil {
		return hit.Light.Radiance(si), true
	}

	mtl := rt.scene.MaterialAt(hit)
	if mtl == nil {
		return core.Gray(1), true
	}
	return mtl.Shade(si), true
}
