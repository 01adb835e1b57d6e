package photonmap

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Photon is a stored photon. The power is kept as a color normalized by its
// largest channel plus that channel's magnitude.
type Photon struct {
	Position core.Vec3

	dir   [3]float32
	power float32
	color core.Color24
	plane uint8
}

func newPhoton(pos, dir, power core.Vec3) Photon {
	p := Photon{
		Position: pos,
		dir:      [3]float32{float32(dir.X), float32(dir.Y), float32(dir.Z)},
	}
	p.setPower(power)
	return p
}

func (p *Photon) setPower(c core.Vec3) {
	m := c.MaxComponent()
	if m <= 0 {
		p.power, p.color = 0, core.Color24{}
		return
	}
	p.power = float32(m)
	p.color = core.NewColor24(c.Multiply(1 / m))
}

// Power returns the photon's flux
func (p Photon) Power() core.Vec3 {
	return p.color.Vec3().Multiply(float64(p.power))
}

// MaxPower returns the flux of the photon's strongest channel
func (p Photon) MaxPower() float64 {
	return float64(p.power)
}

// Direction returns the direction the photon was travelling when stored
func (p Photon) Direction() core.Vec3 {
	return core.NewVec3(float64(p.dir[0]), float64(p.dir[1]), float64(p.dir[2]))
}

// Plane returns the k-d tree split axis
func (p Photon) Plane() int {
	return int(p.plane & 0x3)
}

func (p *Photon) setPlane(axis int) {
	p.plane = uint8(axis) & 0x3
}

func (p *Photon) scalePower(s float64) {
	p.power *= float32(s)
}
