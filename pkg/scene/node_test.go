package scene

import (
	"math"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/stretchr/testify/require"
)

func requireVec(t *testing.T, expected, actual core.Vec3, delta float64) {
	t.Helper()
	require.InDelta(t, expected.X, actual.X, delta, "x of %v", actual)
	require.InDelta(t, expected.Y, actual.Y, delta, "y of %v", actual)
	require.InDelta(t, expected.Z, actual.Z, delta, "z of %v", actual)
}

func TestNode_AppendChild(t *testing.T) {
	root := NewNode("root", nil, nil)
	a := NewNode("a", nil, nil)
	b := NewNode("b", nil, nil)

	require.NoError(t, root.AppendChild(a))
	require.NoError(t, a.AppendChild(b))
	require.Equal(t, root, a.Parent())
	require.Equal(t, []*Node{b}, a.Children())

	lone := NewNode("lone", nil, nil)

	tests := []struct {
		name   string
		parent *Node
		child  *Node
	}{
		{"nil child", root, nil},
		{"child already parented", root, b},
		{"node under itself", lone, lone},
		{"ancestor under descendant", b, root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parent.AppendChild(tt.child)
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidNode, errors.Type(err))
		})
	}
	require.Empty(t, b.Children())
	require.Empty(t, lone.Children())
}

func TestNode_MustAppendPanics(t *testing.T) {
	n := NewNode("n", nil, nil)
	require.Panics(t, func() {
		n.MustAppend(nil)
	})
}

func TestNode_CoordinateRoundTrip(t *testing.T) {
	n := NewNode("n", nil, nil)
	n.Scale(core.NewVec3(1, 2, 3)).
		Rotate(core.NewVec3(1, 1, 0), 37).
		Translate(core.NewVec3(4, -2, 0.5))

	points := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 2, 3),
		core.NewVec3(-7, 0.25, 11),
	}
	for _, p := range points {
		local := n.ToNodeCoords(core.NewRay(p, core.NewVec3(0, 0, 1)))
		hit := core.NewHitInfo()
		hit.P = local.Origin
		hit.N = core.NewVec3(0, 0, 1)
		hit.GN = hit.N
		n.FromNodeCoords(&hit)
		requireVec(t, p, hit.P, 1e-9)
	}

	ray := core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(0, -1, 0.5))
	local := n.ToNodeCoords(ray)
	requireVec(t, n.ToNodeCoords(core.NewRay(ray.At(2.5), ray.Direction)).Origin, local.At(2.5), 1e-9)
}

func TestNode_FromNodeCoords_NormalUsesInverseTranspose(t *testing.T) {
	n := NewNode("ellipsoid", geometry.NewSphere(), nil)
	n.Scale(core.NewVec3(2, 1, 1))

	hit := core.NewHitInfo()
	hit.P = core.NewVec3(0.6, 0.8, 0)
	hit.N = core.NewVec3(0.6, 0.8, 0)
	hit.GN = hit.N
	n.FromNodeCoords(&hit)

	requireVec(t, core.NewVec3(1.2, 0.8, 0), hit.P, 1e-9)
	requireVec(t, core.NewVec3(0.3, 0.8, 0).Normalize(), hit.N, 1e-9)
	requireVec(t, hit.N, hit.GN, 1e-12)
	require.InDelta(t, 1, hit.N.Length(), 1e-12)
}

func TestNode_TransformsCompose(t *testing.T) {
	n := NewNode("n", nil, nil)
	n.Scale(core.Gray(2)).Translate(core.NewVec3(1, 0, 0))

	// scale first, then translate
	hit := core.NewHitInfo()
	hit.P = core.NewVec3(1, 0, 0)
	hit.N = core.NewVec3(1, 0, 0)
	hit.GN = hit.N
	n.FromNodeCoords(&hit)
	requireVec(t, core.NewVec3(3, 0, 0), hit.P, 1e-12)
}

func TestNode_Bounds(t *testing.T) {
	root := NewNode("root", nil, nil)
	group := NewNode("group", nil, nil)
	group.Translate(core.NewVec3(0, 1, 0))
	root.MustAppend(group)

	sphere := NewNode("sphere", geometry.NewSphere(), nil)
	sphere.Scale(core.Gray(2)).Translate(core.NewVec3(1, 0, 0))
	group.MustAppend(sphere)

	rotated := NewNode("rotated", geometry.NewSphere(), nil)
	rotated.Rotate(core.NewVec3(0, 0, 1), 45)
	root.MustAppend(rotated)

	box := root.ComputeChildBoundBox()
	requireVec(t, core.NewVec3(-math.Sqrt2, -math.Sqrt2, -2), box.Min, 1e-9)
	requireVec(t, core.NewVec3(3, 3, 2), box.Max, 1e-9)

	requireVec(t, core.NewVec3(-1, -2, -2), group.ChildBoundBox().Min, 1e-9)
	requireVec(t, core.NewVec3(-1, -1, -2), group.WorldBoundBox().Min, 1e-9)
}

func TestNode_Walk(t *testing.T) {
	root := NewNode("root", nil, nil)
	a := NewNode("a", nil, nil)
	b := NewNode("b", nil, nil)
	c := NewNode("c", nil, nil)
	root.MustAppend(a, c)
	a.MustAppend(b)

	var names []string
	root.Walk(func(n *Node) {
		names = append(names, n.NodeName())
	})
	require.Equal(t, []string{"root", "a", "b", "c"}, names)
}
