package renderer

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// Camera generates primary rays for a scene camera at a given resolution
type Camera struct {
	origin     core.Vec3
	forward    core.Vec3 // unit view direction
	horizontal core.Vec3 // image plane half extent at distance 1, pointing right
	vertical   core.Vec3 // image plane half extent at distance 1, pointing up

	width, height int
	focalDistance float64
	aperture      float64
}

// NewCamera creates a camera for a width x height image
func NewCamera(c scene.Camera, width, height int) *Camera {
	forward := c.Direction.Normalize()
	up := c.Up
	if up.IsZero() || math.Abs(up.Normalize().Dot(forward)) > 0.999 {
		up = core.NewVec3(0, 1, 0)
		if math.Abs(forward.Y) > 0.999 {
			up = core.NewVec3(0, 0, -1)
		}
	}
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)

	halfHeight := math.Tan(c.FOV * math.Pi / 360)
	halfWidth := halfHeight * float64(width) / float64(height)

	focal := c.FocalDistance
	if focal <= 0 {
		focal = 1
	}

	return &Camera{
		origin:        c.Position,
		forward:       forward,
		horizontal:    right.Multiply(halfWidth),
		vertical:      trueUp.Multiply(halfHeight),
		width:         width,
		height:        height,
		focalDistance: focal,
		aperture:      c.Aperture,
	}
}

// GetRay returns the ray through image position (px, py), measured in
// pixels from the top left corner. lens picks the point on the aperture.
// The direction has a unit component along the view axis, so the hit
// parameter is the depth along that axis.
func (c *Camera) GetRay(px, py float64, lens core.Vec2) core.Ray {
	sx := 2*px/float64(c.width) - 1
	sy := 1 - 2*py/float64(c.height)
	dir := c.forward.Add(c.horizontal.Multiply(sx)).Add(c.vertical.Multiply(sy))

	if c.aperture <= 0 {
		return core.NewRay(c.origin, dir)
	}

	focus := c.origin.Add(dir.Multiply(c.focalDistance))
	d := core.SamplePointInUnitDisk(lens).Multiply(c.aperture)
	origin := c.origin.
		Add(c.horizontal.Normalize().Multiply(d.X)).
		Add(c.vertical.Normalize().Multiply(d.Y))
	return core.NewRay(origin, focus.Subtract(origin).Multiply(1/c.focalDistance))
}
