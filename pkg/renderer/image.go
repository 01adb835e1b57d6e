package renderer

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// RenderImage holds the output buffers of a render. Each pixel is written
// once by the worker owning its tile, so no locking is needed.
type RenderImage struct {
	width, height int
	srgb          bool

	pixels  []core.Color24
	z       []float64
	samples []int
	float   []float32 // linear RGB, 3 values per pixel

	rendered atomic.Int64
}

// NewRenderImage allocates the buffers for a width x height render
func NewRenderImage(width, height int, srgb bool) *RenderImage {
	n := width * height
	img := &RenderImage{
		width:   width,
		height:  height,
		srgb:    srgb,
		pixels:  make([]core.Color24, n),
		z:       make([]float64, n),
		samples: make([]int, n),
		float:   make([]float32, 3*n),
	}
	for i := range img.z {
		img.z[i] = math.Inf(1)
	}
	return img
}

func (img *RenderImage) Width() int  { return img.width }
func (img *RenderImage) Height() int { return img.height }

// Pixels returns the 8-bit pixels in row-major order
func (img *RenderImage) Pixels() []core.Color24 { return img.pixels }

// ZBuffer returns the primary hit distance per pixel, +Inf where nothing was hit
func (img *RenderImage) ZBuffer() []float64 { return img.z }

// SampleCount returns the number of samples taken per pixel
func (img *RenderImage) SampleCount() []int { return img.samples }

// Float returns the unclamped linear colors, three floats per pixel
func (img *RenderImage) Float() []float32 { return img.float }

// NumRendered returns the number of finished pixels
func (img *RenderImage) NumRendered() int {
	return int(img.rendered.Load())
}

// IsComplete reports whether every pixel has been written
func (img *RenderImage) IsComplete() bool {
	return img.NumRendered() == img.width*img.height
}

// Color returns the linear color of pixel (x, y)
func (img *RenderImage) Color(x, y int) core.Vec3 {
	return floatColor(img.float, y*img.width+x)
}

// floatColor reads pixel i of a packed RGB float buffer
func floatColor(buf []float32, i int) core.Vec3 {
	return core.NewVec3(float64(buf[3*i]), float64(buf[3*i+1]), float64(buf[3*i+2]))
}

// setPixel stores the result of pixel index i and counts it as rendered
func (img *RenderImage) setPixel(i int, c core.Vec3, z float64, samples int) {
	img.pixels[i] = core.ToColor24(c, img.srgb)
	img.z[i] = z
	img.samples[i] = samples
	img.float[3*i] = float32(c.X)
	img.float[3*i+1] = float32(c.Y)
	img.float[3*i+2] = float32(c.Z)
	img.rendered.Add(1)
}

// ToRGBA converts the pixels to an image for encoding
func (img *RenderImage) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for i, p := range img.pixels {
		out.SetRGBA(i%img.width, i/img.width, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
	}
	return out
}

// ZBufferImage maps the finite depths to gray levels, nearest white and
// farthest dark. Pixels that hit nothing are black.
func (img *RenderImage) ZBufferImage() *image.Gray {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, z := range img.z {
		if !math.IsInf(z, 0) {
			lo, hi = min(lo, z), max(hi, z)
		}
	}

	out := image.NewGray(image.Rect(0, 0, img.width, img.height))
	for i, z := range img.z {
		if math.IsInf(z, 0) {
			continue
		}
		v := 1.0
		if hi > lo {
			v = 1 - (z-lo)/(hi-lo)
		}
		out.Pix[i] = grayLevel(v)
	}
	return out
}

// SampleCountImage maps the sample counts to gray levels, fewest black and
// most white.
func (img *RenderImage) SampleCountImage() *image.Gray {
	lo, hi := math.MaxInt, 0
	for _, n := range img.samples {
		lo, hi = min(lo, n), max(hi, n)
	}

	out := image.NewGray(image.Rect(0, 0, img.width, img.height))
	for i, n := range img.samples {
		v := 0.0
		if hi > lo {
			v = float64(n-lo) / float64(hi-lo)
		}
		out.Pix[i] = grayLevel(v)
	}
	return out
}

// grayLevel converts v in [0,1] to an 8-bit level. The buffer images are
// already normalized, so the value is rounded without any transfer curve.
func grayLevel(v float64) uint8 {
	return core.NewColor24(core.Gray(v)).R
}
