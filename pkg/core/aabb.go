package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box that contains no point; extending it with a point
// yields a degenerate box around that point.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Gray(inf), Max: Gray(-inf)}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.Extend(p)
	}
	return box
}

// IsEmpty reports whether the box contains no point
func (aabb AABB) IsEmpty() bool {
	return aabb.Min.X > aabb.Max.X || aabb.Min.Y > aabb.Max.Y || aabb.Min.Z > aabb.Max.Z
}

// Extend returns the box enlarged to include p
func (aabb AABB) Extend(p Vec3) AABB {
	return AABB{Min: aabb.Min.Min(p), Max: aabb.Max.Max(p)}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// Corner returns one of the 8 corners; bit 0 selects X max, bit 1 Y max, bit 2 Z max
func (aabb AABB) Corner(i int) Vec3 {
	p := aabb.Min
	if i&1 != 0 {
		p.X = aabb.Max.X
	}
	if i&2 != 0 {
		p.Y = aabb.Max.Y
	}
	if i&4 != 0 {
		p.Z = aabb.Max.Z
	}
	return p
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IntersectRay tests the ray against the box with the slab method using a
// precomputed inverse direction. It reports whether the ray enters the box at
// some t in [0, tMax).
func (aabb AABB) IntersectRay(origin, invDir Vec3, tMax float64) bool {
	if aabb.IsEmpty() {
		return false
	}
	tNear, tFar := 0.0, tMax
	for axis := 0; axis < 3; axis++ {
		o := origin.Axis(axis)
		inv := invDir.Axis(axis)
		lo, hi := aabb.Min.Axis(axis), aabb.Max.Axis(axis)

		// Ray is parallel to this slab
		if math.IsInf(inv, 0) {
			if o < lo || o > hi {
				return false
			}
			continue
		}

		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = max(tNear, t1)
		tFar = min(tFar, t2)
		if tNear > tFar {
			return false
		}
	}
	return true
}

// Hit tests if a ray intersects with this AABB within [0, tMax)
func (aabb AABB) Hit(ray Ray, tMax float64) bool {
	return aabb.IntersectRay(ray.Origin, ray.InverseDirection(), tMax)
}
