package renderer

import (
	"context"
	"image"
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"gonum.org/v1/gonum/stat/distuv"
)

// newTTable returns the two-sided 95% Student-t quantiles indexed by sample
// count. Entries below two samples are +Inf so a single sample never passes.
func newTTable(maxSamples int) []float64 {
	table := make([]float64, max(maxSamples, 1)+1)
	for n := range table {
		if n < 2 {
			table[n] = math.Inf(1)
			continue
		}
		table[n] = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(0.975)
	}
	return table
}

// PixelStats keeps a running mean and variance per channel (Welford)
type PixelStats struct {
	Mean        core.Vec3
	m2          core.Vec3
	SampleCount int
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.SampleCount++
	delta := color.Subtract(ps.Mean)
	ps.Mean = ps.Mean.Add(delta.Multiply(1 / float64(ps.SampleCount)))
	ps.m2 = ps.m2.Add(delta.MultiplyVec(color.Subtract(ps.Mean)))
}

// Variance returns the unbiased sample variance per channel
func (ps *PixelStats) Variance() core.Vec3 {
	if ps.SampleCount < 2 {
		return core.Vec3{}
	}
	return ps.m2.Multiply(1 / float64(ps.SampleCount-1))
}

// Converged reports whether the confidence half-width t·sqrt(var/n) is below
// threshold in every channel
func (ps *PixelStats) Converged(tTable []float64, threshold float64) bool {
	n := ps.SampleCount
	if n < 2 || n >= len(tTable) {
		return false
	}
	v := ps.Variance()
	t := tTable[n]
	for axis := 0; axis < 3; axis++ {
		if t*math.Sqrt(v.Axis(axis)/float64(n)) >= threshold {
			return false
		}
	}
	return true
}

// RenderTile renders every pixel in bounds into img. It returns false if ctx
// was cancelled before the tile was finished.
func (rt *Raytracer) RenderTile(ctx context.Context, bounds image.Rectangle, img *RenderImage, onPixel func(samples int)) bool {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if ctx.Err() != nil {
			return false
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := y*rt.width + x
			color, z, samples := rt.RenderPixel(x, y)
			img.setPixel(i, color, z, samples)
			if onPixel != nil {
				onPixel(samples)
			}
		}
	}
	return true
}

// RenderPixel samples pixel (x, y) until its estimate converges or the
// sample cap is reached. The pixel's random stream depends only on its
// index, so results do not depend on which worker renders it.
func (rt *Raytracer) RenderPixel(x, y int) (core.Vec3, float64, int) {
	px := &pixelState{
		x:   x,
		y:   y,
		rng: core.NewRNG(uint64(y*rt.width + x)),
	}

	var jitter [4]float64
	for i := range jitter {
		jitter[i] = px.rng.RandomFloat()
	}

	var ps PixelStats
	z := math.Inf(1)
	for s := 0; s < rt.config.MaxSamples; s++ {
		px.sample = s
		sx := float64(x) + rt.pixelSeqs[0].Jittered(s, jitter[0])
		sy := float64(y) + rt.pixelSeqs[1].Jittered(s, jitter[1])
		lens := core.NewVec2(rt.pixelSeqs[2].Jittered(s, jitter[2]), rt.pixelSeqs[3].Jittered(s, jitter[3]))

		color, depth := rt.tracePrimary(px, rt.camera.GetRay(sx, sy, lens), sx, sy)
		if s == 0 {
			z = depth
		}
		ps.AddSample(color)

		if ps.SampleCount >= rt.config.MinSamples && ps.Converged(rt.tTable, rt.config.Threshold) {
			break
		}
	}
	return ps.Mean, z, ps.SampleCount
}
