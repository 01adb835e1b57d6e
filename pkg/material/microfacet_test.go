package material

import (
	"math"
	"testing"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/core/coretest"
	"github.com/stretchr/testify/require"
)

func TestMicrofacet_Shade_MetalHasNoDiffuse(t *testing.T) {
	mtl := NewMicrofacet(core.NewVec3(0.9, 0.6, 0.2), 0.5, 1)
	si := coretest.New(origin, up, up, ambient)
	si.Photons = coretest.ConstantIrradiance(core.Gray(1))

	requireVecInDelta(t, core.Vec3{}, mtl.Shade(si), 1e-12)
	require.False(t, mtl.IsPhotonSurface(0))
}

func TestMicrofacet_Shade_RoughDielectricDiffuse(t *testing.T) {
	mtl := NewMicrofacet(core.Gray(0.5), 1, 0)
	si := coretest.New(origin, up, up, ambient)

	requireVecInDelta(t, core.Gray(0.1), mtl.Shade(si), 1e-12)
	require.True(t, mtl.IsPhotonSurface(0))

	// Direct light is positive and finite for a light off to the side
	si = coretest.New(origin, up, up, testLight{intensity: core.Gray(1), dir: core.NewVec3(1, 0, 1)})
	c := mtl.Shade(si)
	require.Greater(t, c.X, 0.0)
	require.False(t, math.IsInf(c.X, 0) || math.IsNaN(c.X))
}

func TestMicrofacet_Shade_MirrorReflection(t *testing.T) {
	base := core.NewVec3(0.9, 0.6, 0.2)
	mtl := NewMicrofacet(base, 0, 1)

	si := coretest.New(origin, up, up)
	si.MaxBounce = 1
	si.Environment = func(core.Vec3) core.Vec3 { return core.Gray(1) }

	// At normal incidence the reflected fraction of a metal is its base color
	requireVecInDelta(t, base, mtl.Shade(si), 1e-12)
	require.Len(t, si.SecondaryRays, 1)
	requireVecInDelta(t, up, si.SecondaryRays[0].Direction, 1e-12)
}

func TestMulti_Shade(t *testing.T) {
	red := NewBlinn(PhongBlinn{Diffuse: NewSolidColor(core.NewVec3(1, 0, 0)), IOR: 1.5})
	green := NewBlinn(PhongBlinn{Diffuse: NewSolidColor(core.NewVec3(0, 1, 0)), IOR: 1.5})
	multi := NewMulti(red, green)

	tests := []struct {
		id       int
		expected core.Vec3
	}{
		{0, core.NewVec3(0.2, 0, 0)},
		{1, core.NewVec3(0, 0.2, 0)},
		{7, core.NewVec3(0, 0.2, 0)},
		{-1, core.NewVec3(0.2, 0, 0)},
	}
	for _, tt := range tests {
		si := coretest.New(origin, up, up, ambient)
		si.Hit.MtlID = tt.id
		requireVecInDelta(t, tt.expected, multi.Shade(si), 1e-12)
	}

	require.Equal(t, core.Vec3{}, NewMulti().Shade(coretest.New(origin, up, up, ambient)))
}

func TestScatterPhoton(t *testing.T) {
	rng := core.NewRNG(5)
	hit := core.NewHitInfo()
	hit.Z = 1
	hit.N = up
	hit.GN = up
	hit.Front = true
	in := core.NewVec3(0, 0, -1)

	t.Run("black absorbs", func(t *testing.T) {
		mtl := NewBlinn(diffuseOnly(0))
		for i := 0; i < 100; i++ {
			_, _, lobe := mtl.ScatterPhoton(&hit, in, core.Gray(1), rng)
			require.Equal(t, core.LobeAbsorbed, lobe)
		}
		require.False(t, mtl.IsPhotonSurface(0))
	})

	t.Run("white diffuse keeps power", func(t *testing.T) {
		mtl := NewBlinn(diffuseOnly(1))
		for i := 0; i < 100; i++ {
			dir, power, lobe := mtl.ScatterPhoton(&hit, in, core.Gray(1), rng)
			require.Equal(t, core.LobeDiffuse, lobe)
			requireVecInDelta(t, core.Gray(1), power, 1e-12)
			require.Greater(t, dir.Z, 0.0)
		}
	})

	t.Run("lobe frequencies follow color averages", func(t *testing.T) {
		params := diffuseOnly(0.3)
		params.Reflection = core.Gray(0.2)
		params.Refraction = core.Gray(0.1)
		mtl := NewBlinn(params)

		counts := map[core.Lobe]int{}
		const n = 20000
		for i := 0; i < n; i++ {
			dir, _, lobe := mtl.ScatterPhoton(&hit, in, core.Gray(1), rng)
			counts[lobe]++
			if lobe == core.LobeTransmission {
				require.Less(t, dir.Z, 0.0)
			}
		}
		require.InDelta(t, 0.3, float64(counts[core.LobeDiffuse])/n, 0.02)
		require.InDelta(t, 0.2, float64(counts[core.LobeSpecular])/n, 0.02)
		require.InDelta(t, 0.1, float64(counts[core.LobeTransmission])/n, 0.02)
		require.InDelta(t, 0.4, float64(counts[core.LobeAbsorbed])/n, 0.02)
	})
}
