package photonmap

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
)

const (
	ErrTypeInvalidConfig = "invalid-photon-config"
	ErrTypeCancelled     = "photon-generation-cancelled"
)

// Tracer finds surfaces for photons
type Tracer interface {
	TraceRay(ray core.Ray, hit *core.HitInfo, side core.HitSide) bool
	MaterialAt(hit *core.HitInfo) core.Material
}

// GenerateConfig controls photon emission
type GenerateConfig struct {
	PhotonsPerLight int
	MaxBounces      int
	Caustics        bool // store purely specular paths in a separate map
	Workers         int

	// EmitLimit caps the photons emitted per light, for scenes where few of
	// them land on a diffuse surface. 0 means 100 × PhotonsPerLight.
	EmitLimit int

	// Seed selects the random streams photons are traced on
	Seed uint64
}

// Validate checks the config
func (c GenerateConfig) Validate() error {
	switch {
	case c.PhotonsPerLight <= 0:
		return errors.New("photons per light must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("photons_per_light", c.PhotonsPerLight)
	case c.MaxBounces < 0:
		return errors.New("max bounces cannot be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_bounces", c.MaxBounces)
	case c.EmitLimit < 0:
		return errors.New("emit limit cannot be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("emit_limit", c.EmitLimit)
	}
	return nil
}

// Maps is the result of a photon pass
type Maps struct {
	Global   *PhotonMap
	Caustics *PhotonMap // nil unless requested
	Emitted  int64
	Duration time.Duration
}

// emitBatch is the number of photons traced between two commits. It does
// not depend on the worker count, so neither do the stored photons.
const emitBatch = 1024

// Deposit is a photon hit recorded along a traced path
type Deposit struct {
	Position  core.Vec3
	Direction core.Vec3
	Power     core.Vec3
	Caustic   bool
}

// Generate emits photons from every light, one light at a time, and returns
// balanced maps. Photon i of a light is traced on its own random stream and
// paths are stored in emission order, so the maps only depend on the seed.
// A light stops emitting once it stored PhotonsPerLight photons in either
// map, or when its emit limit is reached. Stored powers are divided by the
// number of photons that light emitted.
func Generate(ctx context.Context, tracer Tracer, lights []core.PhotonSource, cfg GenerateConfig) (*Maps, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	emitLimit := int64(cfg.EmitLimit)
	if emitLimit == 0 {
		emitLimit = 100 * int64(cfg.PhotonsPerLight)
	}

	start := time.Now()
	maps := &Maps{Global: New(cfg.PhotonsPerLight * len(lights))}
	if cfg.Caustics {
		maps.Caustics = New(cfg.PhotonsPerLight * len(lights))
	}

	for li, light := range lights {
		globalStart := maps.Global.NumPhotons()
		causticsStart := 0
		if maps.Caustics != nil {
			causticsStart = maps.Caustics.NumPhotons()
		}
		budget := lightBudget{global: cfg.PhotonsPerLight, caustics: cfg.PhotonsPerLight}

		var emitted int64
		for full := false; !full && emitted < emitLimit; {
			n := min(emitBatch, emitLimit-emitted)
			paths := tracePaths(ctx, tracer, light, cfg, uint64(li), emitted, n, workers)
			if err := ctx.Err(); err != nil {
				return nil, errors.New("photon generation cancelled").
					WithType(ErrTypeCancelled).
					WithTag("light", li).
					Wrap(err)
			}
			for _, path := range paths {
				emitted++
				if full = maps.store(path, &budget); full {
					break
				}
			}
		}

		maps.Emitted += emitted
		if emitted > 0 {
			maps.Global.ScalePhotonPowers(1/float64(emitted), globalStart, -1)
			if maps.Caustics != nil {
				maps.Caustics.ScalePhotonPowers(1/float64(emitted), causticsStart, -1)
			}
		}
	}

	maps.Global.PrepareForIrradianceEstimation()
	if maps.Caustics != nil {
		maps.Caustics.PrepareForIrradianceEstimation()
	}
	maps.Duration = time.Since(start)
	return maps, nil
}

// tracePaths traces photons [first, first+n) of a light on the workers and
// returns their deposits indexed by photon.
func tracePaths(ctx context.Context, tracer Tracer, light core.PhotonSource, cfg GenerateConfig, lightIdx uint64, first, n int64, workers int) [][]Deposit {
	paths := make([][]Deposit, n)
	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < min(workers, int(n)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var rng core.RNG
			for ctx.Err() == nil {
				i := next.Add(1) - 1
				if i >= n {
					return
				}
				rng.SetSequence(uint64(first+i), cfg.Seed+lightIdx)
				ray, power := light.RandomPhoton(&rng)
				paths[i] = TracePhoton(tracer, ray, power, cfg.MaxBounces, &rng, cfg.Caustics, nil)
			}
		}()
	}
	wg.Wait()
	return paths
}

// lightBudget is the number of photons a light may still store per map
type lightBudget struct {
	global   int
	caustics int
}

// store adds a path's deposits to the maps. It reports true once the light
// used up its budget in either map; deposits past that point are not stored
// and the light stops emitting.
func (m *Maps) store(path []Deposit, budget *lightBudget) bool {
	for _, d := range path {
		target, left := m.Global, &budget.global
		if d.Caustic && m.Caustics != nil {
			target, left = m.Caustics, &budget.caustics
		}
		if *left <= 0 || !target.AddPhoton(d.Position, d.Direction, d.Power) {
			return true
		}
		*left--
	}
	return budget.global <= 0 || (m.Caustics != nil && budget.caustics <= 0)
}

// TracePhoton follows one photon until it is absorbed, escapes or runs out
// of bounces, and appends its deposits to dst. Photons are deposited on
// diffuse surfaces from the first bounce on, so direct illumination is left
// to the lights. With caustics set, deposits reached through specular
// bounces alone are marked as caustic.
func TracePhoton(tracer Tracer, ray core.Ray, power core.Vec3, maxBounces int, rng *core.RNG, caustics bool, dst []Deposit) []Deposit {
	specularOnly := true
	for bounce := 0; ; bounce++ {
		hit := core.NewHitInfo()
		if !tracer.TraceRay(ray, &hit, core.HitFrontAndBack) || hit.Light != nil {
			return dst
		}
		scatterer, ok := tracer.MaterialAt(&hit).(core.PhotonScatterer)
		if !ok {
			return dst
		}

		if bounce > 0 && scatterer.IsPhotonSurface(hit.MtlID) {
			dst = append(dst, Deposit{
				Position:  hit.P,
				Direction: ray.Direction.Normalize(),
				Power:     power,
				Caustic:   caustics && specularOnly,
			})
		}
		if bounce >= maxBounces {
			return dst
		}

		dir, next, lobe := scatterer.ScatterPhoton(&hit, ray.Direction, power, rng)
		if lobe == core.LobeAbsorbed || next.IsZero() {
			return dst
		}
		if lobe == core.LobeDiffuse {
			specularOnly = false
		}
		ray = core.NewRay(core.OffsetOrigin(hit.P, hit.GN, dir), dir)
		power = next
	}
}
