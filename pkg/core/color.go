package core

import "math"

// Color24 is an 8-bit per channel RGB color
type Color24 struct {
	R, G, B uint8
}

// NewColor24 converts a color with channels in [0,1] to 8 bits per channel,
// clamping out-of-range values.
func NewColor24(c Vec3) Color24 {
	return Color24{R: toByte(c.X), G: toByte(c.Y), B: toByte(c.Z)}
}

// ToColor24 converts a linear color to 8 bits, applying the sRGB transfer
// curve when srgb is set.
func ToColor24(c Vec3, srgb bool) Color24 {
	if srgb {
		c = LinearToSRGB(c)
	}
	return NewColor24(c)
}

// Vec3 returns the color with channels in [0,1]
func (c Color24) Vec3() Vec3 {
	return Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// LinearToSRGB applies the sRGB transfer curve per channel
func LinearToSRGB(c Vec3) Vec3 {
	return Vec3{linearToSRGB(c.X), linearToSRGB(c.Y), linearToSRGB(c.Z)}
}

// SRGBToLinear inverts LinearToSRGB
func SRGBToLinear(c Vec3) Vec3 {
	return Vec3{srgbToLinear(c.X), srgbToLinear(c.Y), srgbToLinear(c.Z)}
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
