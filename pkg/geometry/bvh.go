package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// BVHEpsilon is the smallest triangle hit distance the BVH accepts
const BVHEpsilon = 2e-4

// Leaf threshold: if we have this many or fewer triangles, store them in a leaf node
const leafThreshold = 4

// bvhNode is one entry of the flattened hierarchy. Leaves have count > 0 and
// reference tris[start:start+count]; internal nodes reference two children.
type bvhNode struct {
	box         core.AABB
	left, right int
	axis        int
	start       int
	count       int
}

// BVH is a bounding volume hierarchy over the triangles of one mesh. It is
// built once and read concurrently afterwards.
type BVH struct {
	nodes []bvhNode
	tris  []int // triangle indices permuted so every leaf is contiguous
}

// triangleSource is what the BVH needs from a mesh
type triangleSource interface {
	NumTriangles() int
	TriangleBounds(i int) core.AABB
}

// NewBVH builds a hierarchy by recursive median splits on the axis with the
// greatest centroid extent.
func NewBVH(src triangleSource) *BVH {
	n := src.NumTriangles()
	bvh := &BVH{tris: make([]int, n)}
	if n == 0 {
		return bvh
	}

	bounds := make([]core.AABB, n)
	centroids := make([]core.Vec3, n)
	for i := range n {
		bvh.tris[i] = i
		bounds[i] = src.TriangleBounds(i)
		centroids[i] = bounds[i].Center()
	}

	bvh.nodes = make([]bvhNode, 0, 2*n/leafThreshold+1)
	bvh.build(bounds, centroids, 0, n)
	return bvh
}

// build appends the subtree for tris[start:end] and returns its node index
func (bvh *BVH) build(bounds []core.AABB, centroids []core.Vec3, start, end int) int {
	box := core.EmptyAABB()
	centroidBox := core.EmptyAABB()
	for _, tri := range bvh.tris[start:end] {
		box = box.Union(bounds[tri])
		centroidBox = centroidBox.Extend(centroids[tri])
	}

	index := len(bvh.nodes)
	bvh.nodes = append(bvh.nodes, bvhNode{box: box, start: start, count: end - start})

	if end-start <= leafThreshold {
		return index
	}

	axis := centroidBox.LongestAxis()
	// All centroids coincide: no split separates them
	if centroidBox.Size().Axis(axis) <= 0 {
		return index
	}

	mid := (start + end) / 2
	nthElement(bvh.tris[start:end], mid-start, func(tri int) float64 {
		return centroids[tri].Axis(axis)
	})

	left := bvh.build(bounds, centroids, start, mid)
	right := bvh.build(bounds, centroids, mid, end)
	bvh.nodes[index] = bvhNode{box: box, left: left, right: right, axis: axis}
	return index
}

// nthElement partially orders items so that items[k] holds the value a full
// sort would put there, with no larger key before it and no smaller key after.
func nthElement(items []int, k int, key func(int) float64) {
	lo, hi := 0, len(items)-1
	for lo < hi {
		pivot := key(items[(lo+hi)/2])
		i, j := lo, hi
		for i <= j {
			for key(items[i]) < pivot {
				i++
			}
			for key(items[j]) > pivot {
				j--
			}
			if i <= j {
				items[i], items[j] = items[j], items[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}

// Bounds returns the box of the whole hierarchy
func (bvh *BVH) Bounds() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[0].box
}

// NodeCount returns the number of nodes in the hierarchy
func (bvh *BVH) NodeCount() int {
	return len(bvh.nodes)
}

// triangleHit is the callback used for leaves during nearest-hit traversal.
// It returns the new best distance.
type triangleHit func(tri int, best float64) float64

// closest visits every leaf whose box the ray enters before the current best
// distance, nearer child first.
func (bvh *BVH) closest(ray core.Ray, best float64, test triangleHit) float64 {
	if len(bvh.nodes) == 0 {
		return best
	}
	invDir := ray.InverseDirection()
	return bvh.closestNode(0, ray, invDir, best, test)
}

func (bvh *BVH) closestNode(index int, ray core.Ray, invDir core.Vec3, best float64, test triangleHit) float64 {
	node := &bvh.nodes[index]
	if !node.box.IntersectRay(ray.Origin, invDir, best) {
		return best
	}

	if node.count > 0 {
		for _, tri := range bvh.tris[node.start : node.start+node.count] {
			best = test(tri, best)
		}
		return best
	}

	first, second := node.left, node.right
	if ray.Direction.Axis(node.axis) < 0 {
		first, second = second, first
	}
	best = bvh.closestNode(first, ray, invDir, best, test)
	return bvh.closestNode(second, ray, invDir, best, test)
}

// any reports whether occluded returns true for a triangle in a leaf the ray
// enters before tMax. It stops at the first such triangle.
func (bvh *BVH) any(ray core.Ray, tMax float64, occluded func(tri int) bool) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	invDir := ray.InverseDirection()
	return bvh.anyNode(0, ray, invDir, tMax, occluded)
}

func (bvh *BVH) anyNode(index int, ray core.Ray, invDir core.Vec3, tMax float64, occluded func(tri int) bool) bool {
	node := &bvh.nodes[index]
	if !node.box.IntersectRay(ray.Origin, invDir, tMax) {
		return false
	}

	if node.count > 0 {
		for _, tri := range bvh.tris[node.start : node.start+node.count] {
			if occluded(tri) {
				return true
			}
		}
		return false
	}

	return bvh.anyNode(node.left, ray, invDir, tMax, occluded) ||
		bvh.anyNode(node.right, ray, invDir, tMax, occluded)
}
