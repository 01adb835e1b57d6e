package scene

import (
	"sort"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Photons     bool   `json:"photons"`
}

type builtinScene struct {
	info SceneInfo
	new  func() *Scene
}

var builtins = map[string]builtinScene{
	"sphere": {
		info: SceneInfo{ID: "sphere", Description: "Unit sphere lit by an ambient light"},
		new:  NewSphereScene,
	},
	"plane": {
		info: SceneInfo{ID: "plane", Description: "Lambertian plane under a directional light, constant radiance"},
		new:  NewPlaneScene,
	},
	"cornell": {
		info: SceneInfo{ID: "cornell", Description: "Cornell box with glass and mirror spheres and photon mapping", Photons: true},
		new:  NewCornellScene,
	},
	"mesh": {
		info: SceneInfo{ID: "mesh", Description: "Triangle meshes with microfacet and multi materials under a sky"},
		new:  NewMeshScene,
	},
}

// List returns the built-in scenes sorted by id
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		infos = append(infos, b.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Load builds and prepares the built-in scene with the given id
func Load(id string) (*Scene, error) {
	b, ok := builtins[id]
	if !ok {
		return nil, errors.New("unknown scene").
			WithType(ErrTypeUnknownScene).
			WithTag("scene", id)
	}
	s := b.new()
	if err := s.Prepare(); err != nil {
		return nil, errors.New("preparing scene failed").
			WithTag("scene", id).
			Wrap(err)
	}
	return s, nil
}

// NewSphereScene creates a unit sphere at the origin with a default Blinn
// material, one ambient light of 0.2 and a 64x64 camera at (0,0,5) looking
// down -Z with a 40° field of view.
func NewSphereScene() *Scene {
	camera := NewCamera(core.NewVec3(0, 0, 5), core.Vec3{}, 40, 64, 64)
	camera.SRGB = false

	s := New("sphere", camera)
	s.AddObject(nil, "sphere", geometry.NewSphere(), material.NewBlinn(material.DefaultPhongBlinn()))
	s.AddLight(lights.NewAmbient(core.Gray(0.2)))
	return s
}

// NewPlaneScene creates a large diffuse plane filling the view, lit head-on
// by a directional light. Every pixel sees the radiance kd/π·E.
func NewPlaneScene() *Scene {
	camera := NewCamera(core.NewVec3(0, 0, 2), core.Vec3{}, 40, 32, 32)
	camera.SRGB = false

	params := material.DefaultPhongBlinn()
	params.Diffuse = material.NewSolidColor(core.Gray(0.5))
	params.Specular = core.Vec3{}

	s := New("plane", camera)
	s.AddObject(nil, "ground", geometry.NewPlane(), material.NewBlinn(params)).
		Scale(core.Gray(10))
	s.AddLight(lights.NewDirectional(core.Gray(1), core.NewVec3(0, 0, -1)))
	return s
}

// NewCornellScene creates a closed-top Cornell box of side 2 centered at the
// origin, open toward the camera, with a glass and a mirror sphere and a
// small spherical light under the ceiling.
func NewCornellScene() *Scene {
	camera := NewCamera(core.NewVec3(0, 0, 4.2), core.Vec3{}, 35, 256, 256)

	wall := func(c core.Vec3) *material.Blinn {
		params := material.DefaultPhongBlinn()
		params.Diffuse = material.NewSolidColor(c)
		params.Specular = core.Gray(0.05)
		return material.NewBlinn(params)
	}
	white := wall(core.Gray(0.73))
	red := wall(core.NewVec3(0.65, 0.05, 0.05))
	green := wall(core.NewVec3(0.12, 0.45, 0.15))

	s := New("cornell", camera)
	walls := NewNode("walls", nil, nil)
	s.Root.MustAppend(walls)

	plane := geometry.NewPlane()
	xAxis, yAxis := core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)
	s.AddObject(walls, "floor", plane, white).Rotate(xAxis, -90).Translate(core.NewVec3(0, -1, 0))
	s.AddObject(walls, "ceiling", plane, white).Rotate(xAxis, 90).Translate(core.NewVec3(0, 1, 0))
	s.AddObject(walls, "back", plane, white).Translate(core.NewVec3(0, 0, -1))
	s.AddObject(walls, "left", plane, red).Rotate(yAxis, 90).Translate(core.NewVec3(-1, 0, 0))
	s.AddObject(walls, "right", plane, green).Rotate(yAxis, -90).Translate(core.NewVec3(1, 0, 0))

	glassParams := material.PhongBlinn{
		Diffuse:    material.NewSolidColor(core.Vec3{}),
		Specular:   core.Gray(0.8),
		Glossiness: 200,
		Refraction: core.Gray(0.95),
		Absorption: core.NewVec3(0.05, 0.02, 0.01),
		IOR:        1.5,
	}
	mirrorParams := material.PhongBlinn{
		Diffuse:    material.NewSolidColor(core.Gray(0.05)),
		Specular:   core.Gray(0.8),
		Glossiness: 200,
		Reflection: core.Gray(0.85),
		IOR:        1.5,
	}

	sphere := geometry.NewSphere()
	s.AddObject(nil, "glass", sphere, material.NewBlinn(glassParams)).
		Scale(core.Gray(0.35)).
		Translate(core.NewVec3(0.4, -0.65, 0.2))
	s.AddObject(nil, "mirror", sphere, material.NewBlinn(mirrorParams)).
		Scale(core.Gray(0.35)).
		Translate(core.NewVec3(-0.45, -0.65, -0.4))

	light := lights.NewPoint(core.NewVec3(0, 0.85, 0), core.Gray(0.6), 0.08)
	light.Attenuation = true
	s.AddLight(light)

	s.Photons = PhotonSettings{
		PhotonsPerLight: 50000,
		MaxBounces:      8,
		Radius:          0.15,
		MaxPhotons:      100,
		Caustics:        true,
	}
	return s
}

// NewMeshScene places an icosphere and a box mesh on a checkered floor under
// a sky environment.
func NewMeshScene() *Scene {
	camera := NewCamera(core.NewVec3(0, 2, 6), core.NewVec3(0, 0.5, 0), 40, 320, 200)
	camera.Aperture = 0.03

	s := New("mesh", camera)
	s.Background = material.NewGradient(core.NewVec3(0.5, 0.7, 1), core.NewVec3(1, 1, 1))
	s.Environment = material.NewGradient(core.NewVec3(0.5, 0.7, 1), core.NewVec3(0.3, 0.3, 0.3))

	floorParams := material.DefaultPhongBlinn()
	floorParams.Diffuse = material.NewChecker(8, core.Gray(0.8), core.Gray(0.2))
	floorParams.Specular = core.Gray(0.1)
	s.AddObject(nil, "floor", geometry.NewPlane(), material.NewBlinn(floorParams)).
		Rotate(core.NewVec3(1, 0, 0), -90).
		Scale(core.Gray(4))

	gold := material.NewMicrofacet(core.NewVec3(1, 0.78, 0.34), 0.3, 1)
	s.AddObject(nil, "icosphere", geometry.NewIcosphere(3), gold).
		Translate(core.NewVec3(-1.1, 1, 0))

	sides := make([]core.Material, 6)
	for i, c := range []core.Vec3{
		{X: 0.8, Y: 0.2, Z: 0.2}, {X: 0.2, Y: 0.8, Z: 0.2}, {X: 0.2, Y: 0.2, Z: 0.8},
		{X: 0.8, Y: 0.8, Z: 0.2}, {X: 0.2, Y: 0.8, Z: 0.8}, {X: 0.8, Y: 0.2, Z: 0.8},
	} {
		sides[i] = material.NewMicrofacet(c, 0.6, 0)
	}
	box := s.AddObject(nil, "box", geometry.NewBoxMesh(), material.NewMulti(sides...))
	box.Scale(core.Gray(0.7)).Rotate(core.NewVec3(0, 1, 0), 30).Translate(core.NewVec3(1.2, 0.7, 0))

	glassParams := material.DefaultPhongBlinn()
	glassParams.Diffuse = material.NewSolidColor(core.Vec3{})
	glassParams.Refraction = core.Gray(0.9)
	glassParams.ReflectionGlossiness = 2000
	s.AddObject(nil, "glass", geometry.NewSphere(), material.NewBlinn(glassParams)).
		Scale(core.Gray(0.4)).
		Translate(core.NewVec3(0, 0.4, 1.4))

	s.AddLight(lights.NewAmbient(core.Gray(0.1)))
	s.AddLight(lights.NewDirectional(core.Gray(2), core.NewVec3(-1, -2, -1)))
	return s
}
