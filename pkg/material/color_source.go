package material

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials and for the
// scene background and environment.
type ColorSource interface {
	// Evaluate returns the color at texture coordinates uvw and point p
	Evaluate(uvw core.Vec3, p core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UVW or position
func (s *SolidColor) Evaluate(uvw core.Vec3, p core.Vec3) core.Vec3 {
	return s.Color
}

// isBlack reports whether src is known to be black everywhere
func isBlack(src ColorSource) bool {
	if src == nil {
		return true
	}
	solid, ok := src.(*SolidColor)
	return ok && solid.Color.IsZero()
}

// evaluate returns black for a nil source
func evaluate(src ColorSource, uvw, p core.Vec3) core.Vec3 {
	if src == nil {
		return core.Vec3{}
	}
	return src.Evaluate(uvw, p)
}
