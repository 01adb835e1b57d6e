package material

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Checker alternates two colors in a grid over the texture coordinates
type Checker struct {
	Color1, Color2 core.Vec3
	Scale          float64 // checks per unit of u and v
}

// NewChecker creates a procedural checkerboard
func NewChecker(scale float64, color1, color2 core.Vec3) *Checker {
	return &Checker{Color1: color1, Color2: color2, Scale: scale}
}

// Evaluate picks the color of the check containing uvw
func (c *Checker) Evaluate(uvw core.Vec3, p core.Vec3) core.Vec3 {
	checkX := int(math.Floor(uvw.X * c.Scale))
	checkY := int(math.Floor(uvw.Y * c.Scale))
	if (checkX+checkY)%2 == 0 {
		return c.Color1
	}
	return c.Color2
}

// Gradient blends from Top at v=0 to Bottom at v=1. With equirectangular
// coordinates this gives a sky-to-ground environment.
type Gradient struct {
	Top, Bottom core.Vec3
}

// NewGradient creates a vertical gradient
func NewGradient(top, bottom core.Vec3) *Gradient {
	return &Gradient{Top: top, Bottom: bottom}
}

// Evaluate interpolates on the v coordinate
func (g *Gradient) Evaluate(uvw core.Vec3, p core.Vec3) core.Vec3 {
	t := math.Max(0, math.Min(1, uvw.Y))
	return g.Top.Multiply(1 - t).Add(g.Bottom.Multiply(t))
}
