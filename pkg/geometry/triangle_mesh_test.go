package geometry

import (
	"math"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/stretchr/testify/require"
)

// randomSoup creates n random triangles inside [-2,2]³
func randomSoup(t *testing.T, n int, seed uint64) *TriangleMesh {
	rng := core.NewRNG(seed)
	point := func() core.Vec3 {
		return core.NewVec3(rng.RandomFloat()*4-2, rng.RandomFloat()*4-2, rng.RandomFloat()*4-2)
	}

	var vertices []core.Vec3
	var faces []Face
	for i := 0; i < n; i++ {
		center := point()
		base := len(vertices)
		for j := 0; j < 3; j++ {
			vertices = append(vertices, center.Add(point().Multiply(0.2)))
		}
		faces = append(faces, Face{base, base + 1, base + 2})
	}

	mesh, err := NewTriangleMesh(vertices, faces, nil)
	require.NoError(t, err)
	return mesh
}

// bruteForce tests every face without the BVH
func bruteForce(m *TriangleMesh, ray core.Ray, hit *core.HitInfo, side core.HitSide) bool {
	found := false
	for i := range m.faces {
		if m.intersectFace(i, ray, hit.Z, side, hit) {
			found = true
		}
	}
	return found
}

func randomRays(n int, seed uint64) []core.Ray {
	rng := core.NewRNG(seed)
	rays := make([]core.Ray, 0, n+6)
	for i := 0; i < n; i++ {
		origin := core.SampleOnUnitSphere(rng.RandomVec2()).Multiply(5)
		target := core.NewVec3(rng.RandomFloat()*4-2, rng.RandomFloat()*4-2, rng.RandomFloat()*4-2)
		rays = append(rays, core.NewRay(origin, target.Subtract(origin)))
	}
	// Axis-aligned rays exercise the infinite inverse direction path
	for axis := 0; axis < 3; axis++ {
		dir := core.Vec3{}.WithAxis(axis, 1)
		origin := core.NewVec3(0.1, 0.2, 0.3).WithAxis(axis, -5)
		rays = append(rays, core.NewRay(origin, dir), core.NewRay(origin.Negate(), dir.Negate()))
	}
	return rays
}

func TestTriangleMesh_BVHMatchesBruteForce(t *testing.T) {
	mesh := randomSoup(t, 300, 1)
	require.Greater(t, mesh.BVH().NodeCount(), 1)

	hits := 0
	for _, ray := range randomRays(500, 2) {
		for _, side := range []core.HitSide{core.HitFront, core.HitBack, core.HitFrontAndBack} {
			expected := core.NewHitInfo()
			actual := core.NewHitInfo()
			okExpected := bruteForce(mesh, ray, &expected, side)
			okActual := mesh.IntersectRay(ray, &actual, side)

			require.Equal(t, okExpected, okActual)
			require.Equal(t, expected.Z, actual.Z)
			if okActual {
				hits++
				require.Equal(t, expected.P, actual.P)
			}
		}
	}
	require.Greater(t, hits, 0)
}

func TestTriangleMesh_ShadowMatchesBoundedNearest(t *testing.T) {
	mesh := randomSoup(t, 200, 3)

	for _, ray := range randomRays(300, 4) {
		full := core.NewHitInfo()
		if !mesh.IntersectRay(ray, &full, core.HitFrontAndBack) {
			require.False(t, mesh.ShadowRay(ray, math.Inf(1)))
			continue
		}

		for _, tMax := range []float64{full.Z * 0.5, full.Z, full.Z * 1.5} {
			bounded := core.NewHitInfo()
			bounded.Z = tMax
			expected := mesh.IntersectRay(ray, &bounded, core.HitFrontAndBack)
			require.Equal(t, expected, mesh.ShadowRay(ray, tMax), "tMax=%v nearest=%v", tMax, full.Z)
		}
		// The nearest hit itself sits exactly on the boundary and does not occlude
		require.False(t, mesh.ShadowRay(ray, full.Z))
	}
}

func TestTriangleMesh_Deterministic(t *testing.T) {
	mesh := NewIcosphere(2)
	for _, ray := range randomRays(100, 5) {
		a, b := core.NewHitInfo(), core.NewHitInfo()
		okA := mesh.IntersectRay(ray, &a, core.HitFrontAndBack)
		okB := mesh.IntersectRay(ray, &b, core.HitFrontAndBack)
		require.Equal(t, okA, okB)
		require.Equal(t, a, b)
	}
}

func TestTriangleMesh_InvalidInput(t *testing.T) {
	vertices := []core.Vec3{{}, {X: 1}, {Y: 1}}

	_, err := NewTriangleMesh(vertices, []Face{{0, 1, 3}}, nil)
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidMesh, errors.Type(err))

	_, err = NewTriangleMesh(vertices, []Face{{0, 1, 2}}, &TriangleMeshOptions{Normals: []core.Vec3{{}}})
	require.Error(t, err)
}

func TestBoxMesh(t *testing.T) {
	box := NewBoxMesh()
	require.Equal(t, 12, box.NumTriangles())
	require.Equal(t, core.Gray(-1), box.BoundBox().Min)
	require.Equal(t, core.Gray(1), box.BoundBox().Max)

	hit := core.NewHitInfo()
	require.True(t, box.IntersectRay(core.NewRay(core.NewVec3(0.3, 0.2, 5), core.NewVec3(0, 0, -1)), &hit, core.HitFrontAndBack))
	require.InDelta(t, 4, hit.Z, 1e-9)
	require.True(t, hit.Front)
	require.InDelta(t, 1, hit.GN.Z, 1e-9)
}

func TestIcosphere(t *testing.T) {
	sphere := NewIcosphere(3)
	require.Equal(t, 20*64, sphere.NumTriangles())

	hit := core.NewHitInfo()
	require.True(t, sphere.IntersectRay(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), &hit, core.HitFront))
	require.InDelta(t, 4, hit.Z, 0.05)
	require.Greater(t, hit.N.Z, 0.9)

	inside := core.NewHitInfo()
	require.True(t, sphere.IntersectRay(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), &inside, core.HitFrontAndBack))
	require.False(t, inside.Front)
}

func TestNthElement(t *testing.T) {
	keys := []float64{5, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	for k := range keys {
		items := make([]int, len(keys))
		for i := range items {
			items[i] = i
		}
		nthElement(items, k, func(i int) float64 { return keys[i] })

		pivot := keys[items[k]]
		for _, i := range items[:k] {
			require.LessOrEqual(t, keys[i], pivot)
		}
		for _, i := range items[k+1:] {
			require.GreaterOrEqual(t, keys[i], pivot)
		}
	}
}
