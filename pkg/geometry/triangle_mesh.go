package geometry

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// ErrTypeInvalidMesh is the error type of rejected mesh input
const ErrTypeInvalidMesh = "invalid-mesh"

// Face is a triangle given as three vertex indices, counter-clockwise when
// seen from the front.
type Face [3]int

// TriangleMesh is an indexed triangle mesh with its own BVH
type TriangleMesh struct {
	vertices  []core.Vec3
	faces     []Face
	normals   []core.Vec3 // optional per-vertex shading normals
	texCoords []core.Vec3 // optional per-vertex texture coordinates
	mtlIDs    []int       // optional per-face sub-material ids
	faceN     []core.Vec3 // cached unit face normals
	bvh       *BVH
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals     []core.Vec3 // one per vertex
	TexCoords   []core.Vec3 // one per vertex
	MaterialIDs []int       // one per face
}

// NewTriangleMesh creates a mesh from vertices and faces and builds its BVH.
// options may be nil.
func NewTriangleMesh(vertices []core.Vec3, faces []Face, options *TriangleMeshOptions) (*TriangleMesh, error) {
	m := &TriangleMesh{vertices: vertices, faces: faces}

	for i, f := range faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(vertices) {
				return nil, errors.New("face vertex index out of range").
					WithType(ErrTypeInvalidMesh).
					WithTag("face", i).
					WithTag("index", vi).
					WithTag("vertices", len(vertices))
			}
		}
	}

	if options != nil {
		if options.Normals != nil && len(options.Normals) != len(vertices) {
			return nil, errors.New("normal count does not match vertex count").
				WithType(ErrTypeInvalidMesh).
				WithTag("normals", len(options.Normals)).
				WithTag("vertices", len(vertices))
		}
		if options.TexCoords != nil && len(options.TexCoords) != len(vertices) {
			return nil, errors.New("texture coordinate count does not match vertex count").
				WithType(ErrTypeInvalidMesh).
				WithTag("tex_coords", len(options.TexCoords)).
				WithTag("vertices", len(vertices))
		}
		if options.MaterialIDs != nil && len(options.MaterialIDs) != len(faces) {
			return nil, errors.New("material id count does not match face count").
				WithType(ErrTypeInvalidMesh).
				WithTag("material_ids", len(options.MaterialIDs)).
				WithTag("faces", len(faces))
		}
		m.normals = options.Normals
		m.texCoords = options.TexCoords
		m.mtlIDs = options.MaterialIDs
	}

	m.faceN = make([]core.Vec3, len(faces))
	for i, f := range faces {
		v0, v1, v2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		m.faceN[i] = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	}

	m.bvh = NewBVH(m)
	return m, nil
}

// NumTriangles returns the number of faces
func (m *TriangleMesh) NumTriangles() int {
	return len(m.faces)
}

// TriangleBounds returns the box of face i
func (m *TriangleMesh) TriangleBounds(i int) core.AABB {
	f := m.faces[i]
	return core.NewAABBFromPoints(m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])
}

// BVH returns the mesh's hierarchy
func (m *TriangleMesh) BVH() *BVH {
	return m.bvh
}

// intersectFace tests a single face and fills hit when it is nearer than best
func (m *TriangleMesh) intersectFace(i int, ray core.Ray, best float64, side core.HitSide, hit *core.HitInfo) bool {
	f := m.faces[i]
	t, u, v, front, ok := intersectTriangle(ray, m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])
	if !ok || t >= best || t <= BVHEpsilon || !side.Accepts(front) {
		return false
	}

	w := 1 - u - v
	hit.Z = t
	hit.P = ray.At(t)
	hit.GN = m.faceN[i]
	hit.N = hit.GN
	if m.normals != nil {
		n := m.normals[f[0]].Multiply(w).
			Add(m.normals[f[1]].Multiply(u)).
			Add(m.normals[f[2]].Multiply(v))
		if !n.IsZero() {
			hit.N = n.Normalize()
		}
	}
	if m.texCoords != nil {
		hit.UVW = m.texCoords[f[0]].Multiply(w).
			Add(m.texCoords[f[1]].Multiply(u)).
			Add(m.texCoords[f[2]].Multiply(v))
	} else {
		hit.UVW = core.NewVec3(u, v, 0)
	}
	hit.MtlID = 0
	if m.mtlIDs != nil {
		hit.MtlID = m.mtlIDs[i]
	}
	hit.Front = front
	return true
}

// IntersectRay finds the nearest face hit through the BVH
func (m *TriangleMesh) IntersectRay(ray core.Ray, hit *core.HitInfo, side core.HitSide) bool {
	found := false
	m.bvh.closest(ray, hit.Z, func(tri int, best float64) float64 {
		if m.intersectFace(tri, ray, best, side, hit) {
			found = true
			return hit.Z
		}
		return best
	})
	return found
}

// ShadowRay reports whether any face blocks the ray before tMax
func (m *TriangleMesh) ShadowRay(ray core.Ray, tMax float64) bool {
	return m.bvh.any(ray, tMax, func(tri int) bool {
		f := m.faces[tri]
		t, _, _, _, ok := intersectTriangle(ray, m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])
		return ok && t > BVHEpsilon && t < tMax
	})
}

// BoundBox returns the box of all faces
func (m *TriangleMesh) BoundBox() core.AABB {
	return m.bvh.Bounds()
}
