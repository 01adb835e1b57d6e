package geometry

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// NewBoxMesh creates the cube [-1,1]³ with outward-facing triangles and a
// [0,1]² texture square on every side. Sides carry material ids 0 to 5 in
// the order +X, -X, +Y, -Y, +Z, -Z.
func NewBoxMesh() *TriangleMesh {
	x, y, z := core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)
	sides := []struct{ n, u, v core.Vec3 }{
		{x, y, z}, {x.Negate(), z, y},
		{y, z, x}, {y.Negate(), x, z},
		{z, x, y}, {z.Negate(), y, x},
	}

	var vertices, texCoords []core.Vec3
	var faces []Face
	var mtlIDs []int
	for i, s := range sides {
		base := len(vertices)
		vertices = append(vertices,
			s.n.Subtract(s.u).Subtract(s.v),
			s.n.Add(s.u).Subtract(s.v),
			s.n.Add(s.u).Add(s.v),
			s.n.Subtract(s.u).Add(s.v),
		)
		texCoords = append(texCoords,
			core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0),
			core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0),
		)
		faces = append(faces, Face{base, base + 1, base + 2}, Face{base, base + 2, base + 3})
		mtlIDs = append(mtlIDs, i, i)
	}

	mesh, err := NewTriangleMesh(vertices, faces, &TriangleMeshOptions{TexCoords: texCoords, MaterialIDs: mtlIDs})
	if err != nil {
		// The indices above are always in range
		panic(err)
	}
	return mesh
}

// NewIcosphere creates a unit sphere approximation by subdividing an
// icosahedron. Vertex normals are the unit positions so shading is smooth.
func NewIcosphere(subdivisions int) *TriangleMesh {
	t := (1 + math.Sqrt(5)) / 2
	vertices := []core.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	for i := range vertices {
		vertices[i] = vertices[i].Normalize()
	}
	faces := []Face{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for range subdivisions {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := midpoints[key]; ok {
				return i
			}
			vertices = append(vertices, vertices[a].Add(vertices[b]).Normalize())
			midpoints[key] = len(vertices) - 1
			return len(vertices) - 1
		}

		next := make([]Face, 0, len(faces)*4)
		for _, f := range faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			next = append(next,
				Face{f[0], a, c}, Face{f[1], b, a}, Face{f[2], c, b}, Face{a, b, c})
		}
		faces = next
	}

	// Keep every face wound outward
	for i, f := range faces {
		v0, v1, v2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		if v1.Subtract(v0).Cross(v2.Subtract(v0)).Dot(v0.Add(v1).Add(v2)) < 0 {
			faces[i] = Face{f[0], f[2], f[1]}
		}
	}

	normals := make([]core.Vec3, len(vertices))
	texCoords := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		normals[i] = v
		texCoords[i] = core.NewVec3(
			0.5+math.Atan2(v.Y, v.X)/(2*math.Pi),
			0.5+math.Asin(math.Max(-1, math.Min(1, v.Z)))/math.Pi,
			0,
		)
	}

	mesh, err := NewTriangleMesh(vertices, faces, &TriangleMeshOptions{Normals: normals, TexCoords: texCoords})
	if err != nil {
		panic(err)
	}
	return mesh
}
