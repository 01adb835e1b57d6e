// Package denoise filters rendered float RGB buffers.
package denoise

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeInvalidBuffer = "invalid-denoise-buffer"
)

// Denoiser filters a packed linear RGB buffer of w x h pixels, three floats
// per pixel, and returns a new buffer of the same size.
type Denoiser interface {
	Denoise(in []float32, w, h int) ([]float32, error)
}

// Bilateral is an edge-preserving filter. Neighbors are weighted by their
// distance on screen and by how far their color is from the center pixel.
type Bilateral struct {
	SigmaSpatial float64 // in pixels
	SigmaRange   float64 // in linear color units
	Radius       int     // 0 uses 2 × SigmaSpatial
}

// DefaultBilateral returns a mild filter for adaptive sampling noise
func DefaultBilateral() Bilateral {
	return Bilateral{
		SigmaSpatial: 1.5,
		SigmaRange:   0.1,
	}
}

// Denoise implements Denoiser
func (b Bilateral) Denoise(in []float32, w, h int) ([]float32, error) {
	if w <= 0 || h <= 0 || len(in) != 3*w*h {
		return nil, errors.New("buffer does not match the image size").
			WithType(ErrTypeInvalidBuffer).
			WithTag("width", w).
			WithTag("height", h).
			WithTag("length", len(in))
	}
	if b.SigmaSpatial <= 0 || b.SigmaRange <= 0 {
		return nil, errors.New("filter sigmas must be positive").
			WithType(ErrTypeInvalidBuffer).
			WithTag("sigma_spatial", b.SigmaSpatial).
			WithTag("sigma_range", b.SigmaRange)
	}

	radius := b.Radius
	if radius <= 0 {
		radius = int(math.Ceil(2 * b.SigmaSpatial))
	}

	// spatial weights only depend on the offset
	size := 2*radius + 1
	spatial := make([]float64, size*size)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*size+dx+radius] = math.Exp(-d2 / (2 * b.SigmaSpatial * b.SigmaSpatial))
		}
	}
	rangeScale := -1 / (2 * b.SigmaRange * b.SigmaRange)

	out := make([]float32, len(in))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := 3 * (y*w + x)
			r0, g0, b0 := float64(in[c]), float64(in[c+1]), float64(in[c+2])

			var sumR, sumG, sumB, sumW float64
			for dy := max(-radius, -y); dy <= min(radius, h-1-y); dy++ {
				for dx := max(-radius, -x); dx <= min(radius, w-1-x); dx++ {
					n := c + 3*(dy*w+dx)
					r, g, bl := float64(in[n]), float64(in[n+1]), float64(in[n+2])
					dr, dg, db := r-r0, g-g0, bl-b0

					weight := spatial[(dy+radius)*size+dx+radius] * math.Exp((dr*dr+dg*dg+db*db)*rangeScale)
					sumR += weight * r
					sumG += weight * g
					sumB += weight * bl
					sumW += weight
				}
			}

			// the center pixel always has weight 1
			out[c] = float32(sumR / sumW)
			out[c+1] = float32(sumG / sumW)
			out[c+2] = float32(sumB / sumW)
		}
	}
	return out, nil
}
