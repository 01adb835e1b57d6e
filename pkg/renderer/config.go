package renderer

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/photonmap"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// Config contains configuration for a render
type Config struct {
	Width  int // 0 keeps the scene camera's width
	Height int // 0 keeps the scene camera's height

	TileSize   int     // side of the square tiles workers pick up
	MinSamples int     // samples taken before the convergence test runs
	MaxSamples int     // hard cap on samples per pixel
	Threshold  float64 // 95% confidence half-width at which a pixel stops
	MaxBounces int     // reflection and refraction depth
	Workers    int     // 0 uses the logical CPU count

	MinShadowSamples int // area light samples before the early-out test
	MaxShadowSamples int

	// Photons overrides the scene's photon settings when set
	Photons           *scene.PhotonSettings
	PhotonFilter      photonmap.Filter
	PhotonEllipticity float64

	Seed uint64 // offsets the photon random streams
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:          16,
		MinSamples:        4,
		MaxSamples:        64,
		Threshold:         0.01,
		MaxBounces:        8,
		Workers:           0,
		MinShadowSamples:  16,
		MaxShadowSamples:  64,
		PhotonFilter:      photonmap.FilterConstant,
		PhotonEllipticity: 1,
	}
}

// Validate checks the config for values the renderer cannot work with
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return c.invalid("resolution cannot be negative")
	case c.TileSize < 1:
		return c.invalid("tile size must be at least 1", "tile_size", c.TileSize)
	case c.MinSamples < 1:
		return c.invalid("min samples must be at least 1", "min_samples", c.MinSamples)
	case c.MaxSamples < c.MinSamples:
		return c.invalid("max samples cannot be below min samples",
			"min_samples", c.MinSamples,
			"max_samples", c.MaxSamples)
	case c.Threshold < 0:
		return c.invalid("threshold cannot be negative", "threshold", c.Threshold)
	case c.MaxBounces < 0:
		return c.invalid("max bounces cannot be negative", "max_bounces", c.MaxBounces)
	case c.Workers < 0:
		return c.invalid("workers cannot be negative")
	case c.MinShadowSamples < 1 || c.MaxShadowSamples < c.MinShadowSamples:
		return c.invalid("invalid shadow sample range",
			"min_shadow_samples", c.MinShadowSamples,
			"max_shadow_samples", c.MaxShadowSamples)
	case c.Photons != nil && c.Photons.PhotonsPerLight > 0 && (c.Photons.Radius <= 0 || c.Photons.MaxPhotons < 1):
		return c.invalid("photon radius and count must be positive",
			"photon_radius", c.Photons.Radius,
			"photon_count", c.Photons.MaxPhotons)
	}
	return nil
}

// invalid builds an invalid config error. tags are key value pairs.
func (c Config) invalid(msg string, tags ...any) error {
	err := errors.New(msg).
		WithType(ErrTypeInvalidConfig).
		WithTag("width", c.Width).
		WithTag("height", c.Height).
		WithTag("workers", c.Workers)
	for i := 0; i+1 < len(tags); i += 2 {
		err = err.WithTag(tags[i].(string), tags[i+1])
	}
	return err
}
