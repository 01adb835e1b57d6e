package core

import "math"

// Epsilon is the minimum ray parameter accepted by every intersection routine.
const Epsilon = 2e-4

// RayEpsilon is the offset applied along the geometric normal when spawning
// secondary and shadow rays from a surface point.
const RayEpsilon = 1e-4

// HitSide selects which surface orientation an intersection accepts
type HitSide int

const (
	HitNone         HitSide = 0
	HitFront        HitSide = 1
	HitBack         HitSide = 2
	HitFrontAndBack HitSide = HitFront | HitBack
)

// Accepts reports whether a hit with the given orientation is eligible
func (s HitSide) Accepts(front bool) bool {
	if front {
		return s&HitFront != 0
	}
	return s&HitBack != 0
}

// HitInfo describes the nearest intersection found so far. Z starts at +Inf
// and only decreases while a traversal runs.
type HitInfo struct {
	Z     float64 // ray parameter of the hit
	P     Vec3    // hit position
	N     Vec3    // shading normal
	GN    Vec3    // geometric normal
	UVW   Vec3    // texture coordinates
	DUVW  [2]Vec3 // texture coordinate derivatives in screen-space X and Y
	MtlID int     // sub-material index
	Front bool    // true when the front side was hit

	Node  SceneNode       // node that owns the hit object
	Light RenderableLight // set when a renderable light was hit instead of geometry
}

// NewHitInfo returns a HitInfo that reports no hit
func NewHitInfo() HitInfo {
	return HitInfo{Z: math.Inf(1), Front: true}
}

// Init resets the record to "no hit"
func (h *HitInfo) Init() {
	*h = NewHitInfo()
}

// HasHit reports whether anything was hit
func (h *HitInfo) HasHit() bool {
	return !math.IsInf(h.Z, 1)
}

// OffsetOrigin returns p nudged along the geometric normal toward dir so that a
// ray spawned from a surface does not re-hit it.
func OffsetOrigin(p, gn, dir Vec3) Vec3 {
	scale := RayEpsilon * max(1, math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z))
	if dir.Dot(gn) < 0 {
		scale = -scale
	}
	return p.Add(gn.Multiply(scale))
}
