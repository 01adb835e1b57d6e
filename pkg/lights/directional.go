package lights

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Directional is a light infinitely far away shining along Direction
type Directional struct {
	Intensity core.Vec3
	Direction core.Vec3 // unit direction the light travels
}

// NewDirectional creates a directional light; direction is normalized
func NewDirectional(intensity, direction core.Vec3) *Directional {
	return &Directional{Intensity: intensity, Direction: direction.Normalize()}
}

// Illuminate casts one shadow ray back toward the light
func (l *Directional) Illuminate(si core.ShadeInfo) (core.Vec3, core.Vec3) {
	toLight := l.Direction.Negate()
	visibility := si.TraceShadowRay(core.NewRay(si.P(), toLight), math.Inf(1))
	return l.Intensity.Multiply(visibility), toLight
}

// IsAmbient implements core.Light
func (l *Directional) IsAmbient() bool { return false }
