package scene

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Node is an element of the scene graph. It owns its children and borrows
// its object and material from the scene's tables.
type Node struct {
	Name     string
	Object   geometry.Object
	Material core.Material

	transform mgl64.Mat4 // local to parent
	inverse   mgl64.Mat4 // parent to local
	normal    mgl64.Mat3 // inverse transpose of the linear part

	parent   *Node
	children []*Node

	childBox    core.AABB // union of the children's boxes in this frame
	bounds      core.AABB // childBox plus the object's box
	boundsReady bool
}

// NewNode creates a node with an identity transform. obj and mtl may be nil.
func NewNode(name string, obj geometry.Object, mtl core.Material) *Node {
	n := &Node{Name: name, Object: obj, Material: mtl}
	n.SetTransform(mgl64.Ident4())
	return n
}

// NodeName implements core.SceneNode
func (n *Node) NodeName() string {
	return n.Name
}

// Children returns the node's children
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the node's parent, nil for a root
func (n *Node) Parent() *Node {
	return n.parent
}

// AppendChild adds child under n. It fails if that would break the tree.
func (n *Node) AppendChild(child *Node) error {
	switch {
	case child == nil:
		return errors.New("child node is nil").
			WithType(ErrTypeInvalidNode).
			WithTag("parent", n.Name)
	case child.parent != nil:
		return errors.New("child node already has a parent").
			WithType(ErrTypeInvalidNode).
			WithTag("parent", n.Name).
			WithTag("child", child.Name)
	}

	for a := n; a != nil; a = a.parent {
		if a == child {
			return errors.New("appending node would create a cycle").
				WithType(ErrTypeInvalidNode).
				WithTag("parent", n.Name).
				WithTag("child", child.Name)
		}
	}

	child.parent = n
	n.children = append(n.children, child)
	n.invalidateBounds()
	return nil
}

// MustAppend appends children and panics on error. Meant for building
// fixed scenes in code.
func (n *Node) MustAppend(children ...*Node) *Node {
	for _, c := range children {
		if err := n.AppendChild(c); err != nil {
			panic(err)
		}
	}
	return n
}

func (n *Node) invalidateBounds() {
	for a := n; a != nil; a = a.parent {
		a.boundsReady = false
	}
}

// Transform returns the local-to-parent matrix
func (n *Node) Transform() mgl64.Mat4 {
	return n.transform
}

// SetTransform replaces the local-to-parent matrix
func (n *Node) SetTransform(m mgl64.Mat4) {
	n.transform = m
	n.inverse = m.Inv()
	n.normal = n.inverse.Mat3().Transpose()
	if n.parent != nil {
		n.parent.invalidateBounds()
	}
}

// apply composes op after the current transform
func (n *Node) apply(op mgl64.Mat4) *Node {
	n.SetTransform(op.Mul4(n.transform))
	return n
}

// Translate moves the node by v in its parent's frame
func (n *Node) Translate(v core.Vec3) *Node {
	return n.apply(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// Rotate rotates the node by degrees around axis
func (n *Node) Rotate(axis core.Vec3, degrees float64) *Node {
	a := axis.Normalize()
	return n.apply(mgl64.HomogRotate3D(mgl64.DegToRad(degrees), mgl64.Vec3{a.X, a.Y, a.Z}))
}

// Scale scales the node per axis
func (n *Node) Scale(v core.Vec3) *Node {
	return n.apply(mgl64.Scale3D(v.X, v.Y, v.Z))
}

func transformPoint(m mgl64.Mat4, p core.Vec3) core.Vec3 {
	r := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return core.NewVec3(r[0], r[1], r[2])
}

func transformVector(m mgl64.Mat4, v core.Vec3) core.Vec3 {
	r := m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 0})
	return core.NewVec3(r[0], r[1], r[2])
}

// ToNodeCoords maps a ray from the parent frame into this node's frame. The
// direction is not renormalized, so ray parameters stay comparable.
func (n *Node) ToNodeCoords(ray core.Ray) core.Ray {
	return core.NewRay(transformPoint(n.inverse, ray.Origin), transformVector(n.inverse, ray.Direction))
}

// FromNodeCoords maps a hit from this node's frame into the parent frame.
// Normals go through the inverse transpose.
func (n *Node) FromNodeCoords(hit *core.HitInfo) {
	hit.P = transformPoint(n.transform, hit.P)
	hit.N = n.transformNormal(hit.N)
	hit.GN = n.transformNormal(hit.GN)
}

func (n *Node) transformNormal(v core.Vec3) core.Vec3 {
	r := n.normal.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return core.NewVec3(r[0], r[1], r[2]).Normalize()
}

// ComputeChildBoundBox recomputes the boxes of the whole subtree. A child's
// box is carried into this frame by transforming its eight corners.
func (n *Node) ComputeChildBoundBox() core.AABB {
	box := core.EmptyAABB()
	for _, child := range n.children {
		childBounds := child.ComputeChildBoundBox()
		if child.Object != nil {
			childBounds = childBounds.Union(child.Object.BoundBox())
		}
		if childBounds.IsEmpty() {
			continue
		}
		for i := 0; i < 8; i++ {
			box = box.Extend(transformPoint(child.transform, childBounds.Corner(i)))
		}
	}

	n.childBox = box
	n.bounds = box
	if n.Object != nil {
		n.bounds = n.bounds.Union(n.Object.BoundBox())
	}
	n.boundsReady = true
	return box
}

// ChildBoundBox returns the box computed by ComputeChildBoundBox
func (n *Node) ChildBoundBox() core.AABB {
	return n.childBox
}

// WorldBoundBox returns the box of the node's whole subtree in the parent frame
func (n *Node) WorldBoundBox() core.AABB {
	if !n.boundsReady {
		n.ComputeChildBoundBox()
	}
	if n.bounds.IsEmpty() {
		return n.bounds
	}
	box := core.EmptyAABB()
	for i := 0; i < 8; i++ {
		box = box.Extend(transformPoint(n.transform, n.bounds.Corner(i)))
	}
	return box
}

// Walk calls fn for n and every descendant, depth first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// isFinite reports whether every element of the matrix is finite
func isFinite(m mgl64.Mat4) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
