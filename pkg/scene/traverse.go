package scene

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Traverse finds the nearest hit at or below node for a ray given in node's
// parent frame. On success hit holds the result in the parent frame; hit.Z
// only ever decreases.
func Traverse(ray core.Ray, node *Node, hit *core.HitInfo, side core.HitSide) bool {
	local := node.ToNodeCoords(ray)
	if node.boundsReady && !node.bounds.IntersectRay(local.Origin, local.InverseDirection(), hit.Z) {
		return false
	}

	localHit := *hit
	found := false
	if node.Object != nil && node.Object.IntersectRay(local, &localHit, side) {
		localHit.Node = node
		localHit.Light = nil
		found = true
	}
	for _, child := range node.children {
		if Traverse(local, child, &localHit, side) {
			found = true
		}
	}

	if found {
		node.FromNodeCoords(&localHit)
		*hit = localHit
	}
	return found
}

// TraverseShadow reports whether anything at or below node blocks the ray
// with Epsilon < t < tMax. It stops at the first blocker.
func TraverseShadow(ray core.Ray, node *Node, tMax float64) bool {
	local := node.ToNodeCoords(ray)
	if node.boundsReady && !node.bounds.IntersectRay(local.Origin, local.InverseDirection(), tMax) {
		return false
	}

	if node.Object != nil && node.Object.ShadowRay(local, tMax) {
		return true
	}
	for _, child := range node.children {
		if TraverseShadow(local, child, tMax) {
			return true
		}
	}
	return false
}
