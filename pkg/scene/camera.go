package scene

import "github.com/df07/go-photon-raytracer/pkg/core"

// Camera describes the view. The renderer turns it into primary rays.
type Camera struct {
	Position      core.Vec3
	Direction     core.Vec3 // view direction
	Up            core.Vec3
	FOV           float64 // vertical field of view in degrees
	Width         int
	Height        int
	FocalDistance float64 // distance to the plane in focus
	Aperture      float64 // lens radius, 0 for a pinhole
	SRGB          bool    // encode output with the sRGB curve
}

// NewCamera returns a pinhole camera at position looking at target
func NewCamera(position, target core.Vec3, fov float64, width, height int) Camera {
	dir := target.Subtract(position)
	return Camera{
		Position:      position,
		Direction:     dir.Normalize(),
		Up:            core.NewVec3(0, 1, 0),
		FOV:           fov,
		Width:         width,
		Height:        height,
		FocalDistance: dir.Length(),
		SRGB:          true,
	}
}
