package lights

import "github.com/df07/go-photon-raytracer/pkg/core"

// Ambient adds a constant intensity everywhere, without shadows
type Ambient struct {
	Intensity core.Vec3
}

// NewAmbient creates an ambient light
func NewAmbient(intensity core.Vec3) *Ambient {
	return &Ambient{Intensity: intensity}
}

// Illuminate returns the intensity; the direction is meaningless
func (l *Ambient) Illuminate(si core.ShadeInfo) (core.Vec3, core.Vec3) {
	return l.Intensity, si.N()
}

// IsAmbient implements core.Light
func (l *Ambient) IsAmbient() bool { return true }
