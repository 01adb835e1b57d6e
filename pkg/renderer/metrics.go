package renderer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	sceneLabel  = "scene"
	statusLabel = "status"
	mapLabel    = "map"

	statusCompleted = "completed"
	statusStopped   = "stopped"
	statusFailed    = "failed"
)

var (
	renderPixels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "render_pixels_total",
		Help: "The number of pixels rendered.",
	}, []string{sceneLabel})

	renderSamples = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "render_samples_total",
		Help: "The number of camera samples traced.",
	}, []string{sceneLabel})

	renders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "renders_total",
		Help: "The number of finished renders by outcome.",
	}, []string{
		sceneLabel,
		statusLabel,
	})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "render_duration_seconds",
		Help:    "The time to render a scene, photon pass included.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{sceneLabel})

	renderPhotons = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "render_photons",
		Help: "The number of photons stored by the last photon pass.",
	}, []string{
		sceneLabel,
		mapLabel,
	})

	rendersInProgress = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "renders_in_progress",
		Help: "The number of renders currently running.",
	}, []string{sceneLabel})
)

// pixelCounters are the per-pixel counters of one scene, resolved once per
// render so workers don't look up labels for every pixel.
type pixelCounters struct {
	pixels  prometheus.Counter
	samples prometheus.Counter
}

func newPixelCounters(scene string) pixelCounters {
	labels := prometheus.Labels{sceneLabel: scene}
	return pixelCounters{
		pixels:  renderPixels.With(labels),
		samples: renderSamples.With(labels),
	}
}

func (c pixelCounters) instrumentPixel(samples int) {
	c.pixels.Inc()
	c.samples.Add(float64(samples))
}

func instrumentRenderStart(scene string) {
	rendersInProgress.
		With(prometheus.Labels{sceneLabel: scene}).
		Inc()
}

func instrumentRenderEnd(scene, status string, start time.Time) {
	rendersInProgress.
		With(prometheus.Labels{sceneLabel: scene}).
		Dec()

	renders.
		With(prometheus.Labels{
			sceneLabel:  scene,
			statusLabel: status,
		}).
		Inc()

	if status == statusCompleted {
		renderDuration.With(prometheus.Labels{
			sceneLabel: scene,
		}).Observe(time.Since(start).Seconds())
	}
}

func instrumentPhotons(scene string, stats PhotonStats) {
	renderPhotons.
		With(prometheus.Labels{
			sceneLabel: scene,
			mapLabel:   "global",
		}).
		Set(float64(stats.Stored))

	renderPhotons.
		With(prometheus.Labels{
			sceneLabel: scene,
			mapLabel:   "caustics",
		}).
		Set(float64(stats.Caustics))
}
