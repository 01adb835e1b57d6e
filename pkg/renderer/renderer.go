package renderer

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/df07/go-photon-raytracer/pkg/denoise"
	"github.com/df07/go-photon-raytracer/pkg/photonmap"
	"github.com/df07/go-photon-raytracer/pkg/scene"
	"github.com/google/uuid"
)

// Renderer renders a scene in the background. One render runs at a time;
// the output buffers can be read once it has finished or been stopped.
type Renderer struct {
	scene         *scene.Scene
	config        Config
	width, height int

	rendering atomic.Bool
	image     atomic.Pointer[RenderImage]

	mu       sync.Mutex
	renderID string
	cancel   context.CancelFunc
	done     chan struct{}
	stats    RenderStats
	err      error
}

// New creates a renderer for s. The scene is prepared if needed, and a zero
// width or height in config is taken from the scene camera.
func New(s *scene.Scene, config Config) (*Renderer, error) {
	if !s.Prepared() {
		if err := s.Prepare(); err != nil {
			return nil, errors.New("preparing scene failed").
				WithType(ErrTypeInvalidConfig).
				WithTag("scene", s.Name).
				Wrap(err)
		}
	}
	if config.Width == 0 {
		config.Width = s.Camera.Width
	}
	if config.Height == 0 {
		config.Height = s.Camera.Height
	}
	if config.Workers == 0 {
		config.Workers = DefaultWorkers()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Renderer{
		scene:  s,
		config: config,
		width:  config.Width,
		height: config.Height,
	}, nil
}

func (r *Renderer) Width() int  { return r.width }
func (r *Renderer) Height() int { return r.height }

// Config returns the resolved render configuration
func (r *Renderer) Config() Config {
	return r.config
}

// RenderID returns the id of the current or last render
func (r *Renderer) RenderID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderID
}

// BeginRender starts rendering in the background and returns immediately.
// Cancelling ctx has the same effect as StopRender, without the wait.
func (r *Renderer) BeginRender(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rendering.Load() {
		return errors.New("a render is already in progress").
			WithType(ErrTypeRenderInProgress).
			WithTag("render_id", r.renderID)
	}

	ctx, cancel := context.WithCancel(ctx)
	img := NewRenderImage(r.width, r.height, r.scene.Camera.SRGB)

	r.renderID = uuid.NewString()
	r.cancel = cancel
	r.done = make(chan struct{})
	r.stats = RenderStats{}
	r.err = nil
	r.rendering.Store(true)
	r.image.Store(img)

	go r.render(ctx, cancel, r.renderID, img, r.done)
	return nil
}

// StopRender cancels the current render and waits for every worker to
// return. Pixels finished before the stop stay in the image.
func (r *Renderer) StopRender() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the current render ends or ctx is done. It returns the
// render's error, if any.
func (r *Renderer) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return r.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Render runs a render to completion
func (r *Renderer) Render(ctx context.Context) (*RenderImage, error) {
	if err := r.BeginRender(ctx); err != nil {
		return nil, err
	}
	if err := r.Wait(context.Background()); err != nil {
		return nil, err
	}
	return r.Image()
}

// IsRenderDone reports whether every pixel has been rendered
func (r *Renderer) IsRenderDone() bool {
	img := r.image.Load()
	return img != nil && img.IsComplete()
}

// IsRendering reports whether a render is running
func (r *Renderer) IsRendering() bool {
	return r.rendering.Load()
}

// Progress returns the number of rendered pixels and the total
func (r *Renderer) Progress() (rendered, total int) {
	total = r.width * r.height
	if img := r.image.Load(); img != nil {
		rendered = img.NumRendered()
	}
	return rendered, total
}

// Image returns the output of the last render. It fails while rendering.
func (r *Renderer) Image() (*RenderImage, error) {
	if r.rendering.Load() {
		return nil, r.notFinished("render in progress")
	}
	img := r.image.Load()
	if img == nil {
		return nil, r.notFinished("nothing was rendered")
	}
	return img, nil
}

// Stats returns the statistics of the last render
func (r *Renderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Err returns the error that ended the last render, if any. Stopping a
// render is not an error.
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Denoise filters the float buffer of the finished image with d and returns
// the result as a new image. The z and sample buffers are copied over.
func (r *Renderer) Denoise(d denoise.Denoiser) (*RenderImage, error) {
	img, err := r.Image()
	if err != nil {
		return nil, err
	}

	out, err := d.Denoise(img.Float(), img.Width(), img.Height())
	if err != nil {
		return nil, errors.New("denoising failed").
			WithType(ErrTypeInvalidImage).
			WithTag("width", img.Width()).
			WithTag("height", img.Height()).
			Wrap(err)
	}
	if len(out) != len(img.Float()) {
		return nil, errors.New("denoiser returned a buffer of the wrong size").
			WithType(ErrTypeInvalidImage).
			WithTag("expected", len(img.Float())).
			WithTag("got", len(out))
	}

	res := NewRenderImage(img.Width(), img.Height(), img.srgb)
	for i, n := range img.samples {
		if n > 0 {
			res.setPixel(i, floatColor(out, i), img.z[i], n)
		}
	}
	return res, nil
}

func (r *Renderer) notFinished(msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.New(msg).
		WithType(ErrTypeRenderNotFinished).
		WithTag("render_id", r.renderID)
}

// render is the coordinator of one render: it builds the photon maps, runs
// the tile workers and records the outcome. done is closed once no goroutine
// writes to img anymore.
func (r *Renderer) render(ctx context.Context, cancel context.CancelFunc, id string, img *RenderImage, done chan struct{}) {
	defer close(done)
	defer r.rendering.Store(false)
	defer cancel()

	start := time.Now()
	tiles := NewTileGrid(r.width, r.height, r.config.TileSize)
	pool := NewWorkerPool(tiles, r.config.Workers)

	logs.WithTag("render_id", id).
		WithTag("scene", r.scene.Name).
		WithTag("width", r.width).
		WithTag("height", r.height).
		WithTag("workers", pool.NumWorkers()).
		WithTag("tiles", len(tiles)).
		Info("render started")
	instrumentRenderStart(r.scene.Name)

	maps, err := r.buildPhotonMaps(ctx, id, pool.NumWorkers())
	if err != nil {
		status := statusFailed
		if ctx.Err() != nil {
			status = statusStopped
			err = nil
		} else {
			logs.Warn(err)
		}
		r.finish(id, img, nil, status, start, err)
		return
	}

	rt := NewRaytracer(r.scene, r.config, r.width, r.height, maps)
	counters := newPixelCounters(r.scene.Name)
	pool.Run(ctx, func(ctx context.Context, tile image.Rectangle) bool {
		return rt.RenderTile(ctx, tile, img, counters.instrumentPixel)
	})

	status := statusCompleted
	if !img.IsComplete() {
		status = statusStopped
	}
	r.finish(id, img, maps, status, start, nil)
}

// buildPhotonMaps runs the photon pass when the scene asks for one. It
// returns nil maps when photon mapping is off.
func (r *Renderer) buildPhotonMaps(ctx context.Context, id string, workers int) (*photonmap.Maps, error) {
	settings := r.scene.Photons
	if r.config.Photons != nil {
		settings = *r.config.Photons
	}
	sources := r.scene.PhotonSources()
	if settings.PhotonsPerLight <= 0 || len(sources) == 0 {
		return nil, nil
	}

	maps, err := photonmap.Generate(ctx, r.scene, sources, photonmap.GenerateConfig{
		PhotonsPerLight: settings.PhotonsPerLight,
		MaxBounces:      settings.MaxBounces,
		Caustics:        settings.Caustics,
		Workers:         workers,
		Seed:            r.config.Seed,
	})
	if err != nil {
		return nil, errors.New("photon pass failed").
			WithType(errors.Type(err)).
			WithTag("render_id", id).
			Wrap(err)
	}

	stats := photonStats(maps)
	logs.WithTag("render_id", id).
		WithTag("photons", stats.Stored).
		WithTag("caustics", stats.Caustics).
		WithTag("emitted", stats.Emitted).
		WithTag("duration", stats.Duration.String()).
		Info("photon map built")
	instrumentPhotons(r.scene.Name, stats)
	return maps, nil
}

func (r *Renderer) finish(id string, img *RenderImage, maps *photonmap.Maps, status string, start time.Time, err error) {
	stats := computeStats(img, r.config.MaxSamples)
	stats.RenderID = id
	stats.Scene = r.scene.Name
	stats.Workers = r.config.Workers
	stats.Duration = time.Since(start)
	stats.Stopped = status == statusStopped
	stats.Photons = photonStats(maps)

	r.mu.Lock()
	r.stats = stats
	r.err = err
	r.mu.Unlock()

	instrumentRenderEnd(r.scene.Name, status, start)
	if status == statusFailed {
		return
	}

	msg := "render completed"
	if stats.Stopped {
		msg = "render stopped"
	}
	logs.WithTag("render_id", id).
		WithTag("duration", stats.Duration.String()).
		WithTag("pixels", stats.TotalPixels).
		WithTag("samples", stats.TotalSamples).
		WithTag("average_samples", stats.AverageSamples).
		WithTag("max_samples_used", stats.MaxSamplesUsed).
		Info(msg)
}
