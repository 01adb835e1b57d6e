package scene

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/material"
	"github.com/stretchr/testify/require"
)

func TestNewCamera(t *testing.T) {
	c := NewCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1), 40, 320, 200)
	requireVec(t, core.NewVec3(0, 0, -1), c.Direction, 1e-12)
	require.InDelta(t, 4, c.FocalDistance, 1e-12)
	require.True(t, c.SRGB)
	require.Zero(t, c.Aperture)
}

func TestScene_Prepare(t *testing.T) {
	tests := []struct {
		name         string
		build        func() *Scene
		expectedType string
	}{
		{
			name: "valid",
			build: func() *Scene {
				s := New("ok", NewCamera(core.NewVec3(0, 0, 5), core.Vec3{}, 40, 4, 4))
				s.AddObject(nil, "sphere", geometry.NewSphere(), nil)
				return s
			},
		},
		{
			name: "zero resolution",
			build: func() *Scene {
				return New("empty", NewCamera(core.NewVec3(0, 0, 5), core.Vec3{}, 40, 0, 4))
			},
			expectedType: ErrTypeInvalidScene,
		},
		{
			name: "singular transform",
			build: func() *Scene {
				s := New("flat", NewCamera(core.NewVec3(0, 0, 5), core.Vec3{}, 40, 4, 4))
				s.AddObject(nil, "sphere", geometry.NewSphere(), nil).Scale(core.NewVec3(1, 0, 1))
				return s
			},
			expectedType: ErrTypeInvalidNode,
		},
		{
			name: "no root",
			build: func() *Scene {
				s := New("rootless", NewCamera(core.NewVec3(0, 0, 5), core.Vec3{}, 40, 4, 4))
				s.Root = nil
				return s
			},
			expectedType: ErrTypeInvalidScene,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.build()
			err := s.Prepare()
			if tt.expectedType == "" {
				require.NoError(t, err)
				require.True(t, s.Prepared())
				return
			}
			require.Error(t, err)
			require.Equal(t, tt.expectedType, errors.Type(err))
			require.False(t, s.Prepared())
		})
	}
}

func TestScene_PrepareSortsLights(t *testing.T) {
	s := New("lights", NewCamera(core.NewVec3(0, 0, 5), core.Vec3{}, 40, 4, 4))
	s.AddLight(lights.NewAmbient(core.Gray(0.1)))
	s.AddLight(lights.NewDirectional(core.Gray(1), core.NewVec3(0, -1, 0)))
	s.AddLight(lights.NewPoint(core.NewVec3(0, 1, 0), core.Gray(1), 0))
	s.AddLight(lights.NewPoint(core.NewVec3(0, 2, 0), core.Vec3{}, 0.2))
	require.False(t, s.Prepared())
	require.NoError(t, s.Prepare())

	require.Len(t, s.PhotonSources(), 1)
	require.Len(t, s.renderable, 1)
}

func TestScene_Environment(t *testing.T) {
	s := New("env", NewCamera(core.NewVec3(0, 0, 5), core.Vec3{}, 40, 4, 4))
	require.Equal(t, core.Vec3{}, s.EvalEnvironment(core.NewVec3(0, 1, 0)))
	require.Equal(t, core.Vec3{}, s.EvalBackground(0.5, 0.5))

	s.Environment = material.NewSolidColor(core.Gray(0.3))
	s.Background = material.NewSolidColor(core.Gray(0.7))
	require.Equal(t, core.Gray(0.3), s.EvalEnvironment(core.NewVec3(0, 1, 0)))
	require.Equal(t, core.Gray(0.7), s.EvalBackground(0.5, 0.5))
}

func TestLoad(t *testing.T) {
	infos := List()
	require.NotEmpty(t, infos)
	for i := 1; i < len(infos); i++ {
		require.Less(t, infos[i-1].ID, infos[i].ID)
	}

	for _, info := range infos {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Load(info.ID)
			require.NoError(t, err)
			require.True(t, s.Prepared())
			require.Equal(t, info.ID, s.Name)
			require.NotEmpty(t, s.Lights)
			require.False(t, s.Bounds().IsEmpty())
			require.Equal(t, info.Photons, s.Photons.PhotonsPerLight > 0)
		})
	}

	_, err := Load("nope")
	require.Error(t, err)
	require.Equal(t, ErrTypeUnknownScene, errors.Type(err))
}

func TestCornellScene_WallsFaceInward(t *testing.T) {
	s, err := Load("cornell")
	require.NoError(t, err)

	tests := []struct {
		wall string
		dir  core.Vec3
		n    core.Vec3
	}{
		{"floor", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)},
		{"ceiling", core.NewVec3(0.5, 1, 0.3), core.NewVec3(0, -1, 0)},
		{"back", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)},
		{"left", core.NewVec3(-1, 0.5, 0), core.NewVec3(1, 0, 0)},
		{"right", core.NewVec3(1, 0.5, 0), core.NewVec3(-1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.wall, func(t *testing.T) {
			hit := core.NewHitInfo()
			require.True(t, s.TraceRay(core.NewRay(core.NewVec3(0, 0.2, 0.5), tt.dir), &hit, core.HitFrontAndBack))
			require.Equal(t, tt.wall, hit.Node.NodeName())
			require.True(t, hit.Front)
			requireVec(t, tt.n, hit.N, 1e-9)
		})
	}
}
