package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAABBIntersectRay(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name string
		ray  Ray
		tMax float64
		want bool
	}{
		{"hit from front", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), math.Inf(1), true},
		{"miss to the side", NewRay(NewVec3(3, 0, 5), NewVec3(0, 0, -1)), math.Inf(1), false},
		{"pointing away", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), math.Inf(1), false},
		{"origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 2, 3)), math.Inf(1), true},
		{"beyond tMax", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 3, false},
		{"parallel outside slab", NewRay(NewVec3(0, 2, 5), NewVec3(0, 0, -1)), math.Inf(1), false},
		{"unnormalized direction", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -10)), 1, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, box.Hit(test.ray, test.tMax))
		})
	}
}

func TestAABBEmptyAndExtend(t *testing.T) {
	box := EmptyAABB()
	require.True(t, box.IsEmpty())
	require.False(t, box.Hit(NewRay(Vec3{}, NewVec3(1, 0, 0)), math.Inf(1)))

	box = NewAABBFromPoints(NewVec3(1, 3, 3), NewVec3(-1, 0, 5))
	require.Equal(t, NewVec3(-1, 0, 3), box.Min)
	require.Equal(t, NewVec3(1, 3, 5), box.Max)
	require.Equal(t, 1, box.LongestAxis())

	// ties go to the last axis
	require.Equal(t, 2, NewAABBFromPoints(Vec3{}, Gray(2)).LongestAxis())

	require.Equal(t, box.Min, box.Corner(0))
	require.Equal(t, box.Max, box.Corner(7))
	require.Equal(t, NewVec3(1, 0, 3), box.Corner(1))
}

func TestOffsetOrigin(t *testing.T) {
	p := NewVec3(0, 0, 0)
	n := NewVec3(0, 0, 1)

	above := OffsetOrigin(p, n, NewVec3(0, 1, 1))
	require.Greater(t, above.Z, 0.0)

	below := OffsetOrigin(p, n, NewVec3(0, 1, -1))
	require.Less(t, below.Z, 0.0)

	far := OffsetOrigin(NewVec3(1000, 0, 0), n, n)
	require.InDelta(t, RayEpsilon*1000, far.Z, 1e-12)
}

func TestHitInfoInit(t *testing.T) {
	h := NewHitInfo()
	require.False(t, h.HasHit())
	h.Z = 2
	require.True(t, h.HasHit())
	h.Init()
	require.False(t, h.HasHit())
	require.True(t, HitFrontAndBack.Accepts(false))
	require.False(t, HitFront.Accepts(false))
}
