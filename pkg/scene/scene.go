package scene

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// PhotonSettings controls photon mapping for a scene. A zero
// PhotonsPerLight disables the photon map.
type PhotonSettings struct {
	PhotonsPerLight int
	MaxBounces      int
	Radius          float64 // search radius of irradiance estimates
	MaxPhotons      int     // photons gathered per estimate
	Caustics        bool    // also build a caustics map
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name      string
	Root      *Node
	Objects   []geometry.Object
	Materials []core.Material
	Lights    []core.Light

	Background  material.ColorSource // seen by camera rays that miss, at screen coordinates
	Environment material.ColorSource // seen by secondary rays that miss, at equirectangular coordinates

	Camera  Camera
	Photons PhotonSettings

	renderable    []core.RenderableLight
	photonSources []core.PhotonSource
	prepared      bool
}

// New creates an empty scene with a root node
func New(name string, camera Camera) *Scene {
	return &Scene{
		Name:   name,
		Root:   NewNode("root", nil, nil),
		Camera: camera,
	}
}

// AddObject registers obj and places it under parent with its own node.
// A nil parent means the root.
func (s *Scene) AddObject(parent *Node, name string, obj geometry.Object, mtl core.Material) *Node {
	if parent == nil {
		parent = s.Root
	}
	s.Objects = append(s.Objects, obj)
	if mtl != nil {
		s.Materials = append(s.Materials, mtl)
	}
	node := NewNode(name, obj, mtl)
	parent.MustAppend(node)
	return node
}

// AddLight registers a light
func (s *Scene) AddLight(light core.Light) {
	s.Lights = append(s.Lights, light)
	s.prepared = false
}

// Prepare validates the scene, computes the node bounding boxes and sorts
// the lights by capability. It must run before tracing.
func (s *Scene) Prepare() error {
	if s.Root == nil {
		return errors.New("scene has no root node").
			WithType(ErrTypeInvalidScene).
			WithTag("scene", s.Name)
	}
	if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
		return errors.New("camera resolution must be positive").
			WithType(ErrTypeInvalidScene).
			WithTag("scene", s.Name).
			WithTag("width", s.Camera.Width).
			WithTag("height", s.Camera.Height)
	}

	var err error
	s.Root.Walk(func(n *Node) {
		if err == nil && (!isFinite(n.transform) || n.transform.Det() == 0) {
			err = errors.New("node transform is not invertible").
				WithType(ErrTypeInvalidNode).
				WithTag("scene", s.Name).
				WithTag("node", n.Name)
		}
	})
	if err != nil {
		return err
	}

	s.Root.ComputeChildBoundBox()

	s.renderable = s.renderable[:0]
	s.photonSources = s.photonSources[:0]
	for _, light := range s.Lights {
		if rl, ok := light.(core.RenderableLight); ok && rl.IsRenderable() {
			s.renderable = append(s.renderable, rl)
		}
		if ps, ok := light.(core.PhotonSource); ok && ps.IsPhotonSource() {
			s.photonSources = append(s.photonSources, ps)
		}
	}
	s.prepared = true
	return nil
}

// Prepared reports whether Prepare has run since the last change
func (s *Scene) Prepared() bool {
	return s.prepared
}

// PhotonSources returns the lights that emit photons
func (s *Scene) PhotonSources() []core.PhotonSource {
	return s.photonSources
}

// TraceRay finds the nearest hit in world space. Renderable lights are
// tested after the scene graph and mark the hit with hit.Light.
func (s *Scene) TraceRay(ray core.Ray, hit *core.HitInfo, side core.HitSide) bool {
	found := Traverse(ray, s.Root, hit, side)
	for _, light := range s.renderable {
		if light.IntersectRay(ray, hit, side) {
			hit.Light = light
			hit.Node = nil
			found = true
		}
	}
	return found
}

// TraceShadowRay reports whether the scene graph blocks the ray before tMax.
// Lights are never tested, so a light cannot shadow itself.
func (s *Scene) TraceShadowRay(ray core.Ray, tMax float64) bool {
	return TraverseShadow(ray, s.Root, tMax)
}

// EvalEnvironment returns the environment color seen along dir
func (s *Scene) EvalEnvironment(dir core.Vec3) core.Vec3 {
	if s.Environment == nil {
		return core.Vec3{}
	}
	return s.Environment.Evaluate(core.DirectionToEquirect(dir), dir)
}

// EvalBackground returns the background color at normalized screen
// coordinates, with v growing downward.
func (s *Scene) EvalBackground(u, v float64) core.Vec3 {
	if s.Background == nil {
		return core.Vec3{}
	}
	uvw := core.NewVec3(u, v, 0)
	return s.Background.Evaluate(uvw, uvw)
}

// Bounds returns the world box of the scene graph
func (s *Scene) Bounds() core.AABB {
	return s.Root.WorldBoundBox()
}

// MaterialAt returns the material of the node hit by a TraceRay call, nil
// for lights and nodes without one.
func (s *Scene) MaterialAt(hit *core.HitInfo) core.Material {
	if n, ok := hit.Node.(*Node); ok && n != nil {
		return n.Material
	}
	return nil
}
