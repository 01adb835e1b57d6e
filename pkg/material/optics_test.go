package material

import (
	"math"
	"testing"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestFresnel(t *testing.T) {
	require.InDelta(t, 0, Fresnel(1, 1), 1e-12)
	require.InDelta(t, 0.04, Fresnel(1, 1/1.5), 1e-12)
	require.InDelta(t, 1, Fresnel(0, 1/1.5), 1e-12)
	// Past the critical angle inside glass
	require.Equal(t, 1.0, Fresnel(0.1, 1.5))
}

func TestRefract(t *testing.T) {
	n := core.NewVec3(0, 0, 1)

	straight, ok := Refract(core.NewVec3(0, 0, -1), n, 1/1.5)
	require.True(t, ok)
	requireVecInDelta(t, core.NewVec3(0, 0, -1), straight, 1e-12)

	in := core.NewVec3(math.Sin(0.5), 0, -math.Cos(0.5))
	out, ok := Refract(in, n, 1/1.5)
	require.True(t, ok)
	require.InDelta(t, 1, out.Length(), 1e-12)
	// Snell: sinθt = η sinθi
	require.InDelta(t, math.Sin(0.5)/1.5, out.X, 1e-12)

	_, ok = Refract(core.NewVec3(0.99, 0, -math.Sqrt(1-0.99*0.99)), n, 1.5)
	require.False(t, ok)
}

func TestReflect(t *testing.T) {
	r := Reflect(core.NewVec3(1, 0, -1), core.NewVec3(0, 0, 1))
	require.Equal(t, core.NewVec3(1, 0, 1), r)
}

func TestGradient(t *testing.T) {
	g := NewGradient(core.Gray(1), core.Vec3{})
	requireVecInDelta(t, core.Gray(1), g.Evaluate(core.Vec3{}, core.Vec3{}), 1e-12)
	requireVecInDelta(t, core.Gray(0.5), g.Evaluate(core.NewVec3(0, 0.5, 0), core.Vec3{}), 1e-12)
	requireVecInDelta(t, core.Vec3{}, g.Evaluate(core.NewVec3(0, 2, 0), core.Vec3{}), 1e-12)
}
