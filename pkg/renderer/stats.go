package renderer

import (
	"math"
	"time"

	"github.com/df07/go-photon-raytracer/pkg/photonmap"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	RenderID       string        `json:"render_id"`
	Scene          string        `json:"scene"`
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	Workers        int           `json:"workers"`
	TotalPixels    int           `json:"total_pixels"`    // Total number of pixels rendered
	TotalSamples   int           `json:"total_samples"`   // Total number of samples taken
	AverageSamples float64       `json:"average_samples"` // Average samples per rendered pixel
	MaxSamples     int           `json:"max_samples"`     // Maximum samples allowed per pixel
	MinSamples     int           `json:"min_samples"`     // Minimum samples taken by any pixel
	MaxSamplesUsed int           `json:"max_samples_used"`
	Duration       time.Duration `json:"duration"`
	Stopped        bool          `json:"stopped"`

	Photons PhotonStats `json:"photons"`
}

// PhotonStats describes the photon pass of a render
type PhotonStats struct {
	Stored   int           `json:"stored"`
	Caustics int           `json:"caustics"`
	Emitted  int64         `json:"emitted"`
	Duration time.Duration `json:"duration"`
}

// computeStats gathers the sample statistics of the pixels rendered so far.
// Unrendered pixels have a zero sample count and are skipped.
func computeStats(img *RenderImage, maxSamples int) RenderStats {
	stats := RenderStats{
		Width:      img.Width(),
		Height:     img.Height(),
		MaxSamples: maxSamples,
		MinSamples: math.MaxInt,
	}
	for _, n := range img.SampleCount() {
		if n == 0 {
			continue
		}
		stats.TotalPixels++
		stats.TotalSamples += n
		stats.MinSamples = min(stats.MinSamples, n)
		stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, n)
	}
	if stats.TotalPixels == 0 {
		stats.MinSamples = 0
		return stats
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

func photonStats(maps *photonmap.Maps) PhotonStats {
	if maps == nil {
		return PhotonStats{}
	}
	stats := PhotonStats{
		Stored:   maps.Global.NumPhotons(),
		Emitted:  maps.Emitted,
		Duration: maps.Duration,
	}
	if maps.Caustics != nil {
		stats.Caustics = maps.Caustics.NumPhotons()
	}
	return stats
}
