package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/df07/go-photon-raytracer/pkg/denoise"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
	"github.com/df07/go-photon-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/encoding/json"
)

var (
	// The raytracer version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "raytracer_info",
		Help:        "Raytracer information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

const (
	defaultPhotonRadius = 0.1
	defaultPhotonCount  = 50
)

type config struct {
	Scene            string        `cli:""        env:"RAYTRACER_SCENE"             help:"Built-in scene to render."`
	ListScenes       bool          `cli:""        env:"-"                           help:"List the built-in scenes."`
	Width            int           `cli:""        env:"RAYTRACER_WIDTH"             help:"Image width, 0 uses the scene camera's."`
	Height           int           `cli:""        env:"RAYTRACER_HEIGHT"            help:"Image height, 0 uses the scene camera's."`
	MinSamples       int           `cli:""        env:"RAYTRACER_MIN_SAMPLES"       help:"Samples per pixel before the convergence test."`
	MaxSamples       int           `cli:""        env:"RAYTRACER_MAX_SAMPLES"       help:"Maximum samples per pixel."`
	Threshold        float64       `cli:""        env:"RAYTRACER_THRESHOLD"         help:"Confidence half-width at which a pixel stops sampling."`
	TileSize         int           `cli:""        env:"RAYTRACER_TILE_SIZE"         help:"Side of the square render tiles."`
	Workers          int           `cli:""        env:"RAYTRACER_WORKERS"           help:"Number of render workers, 0 uses the CPU count."`
	MaxBounces       int           `cli:""        env:"RAYTRACER_MAX_BOUNCES"       help:"Reflection and refraction depth."`
	Photons          int           `cli:""        env:"RAYTRACER_PHOTONS"           help:"Photons stored per light, -1 uses the scene setting and 0 disables photon mapping."`
	PhotonRadius     float64       `cli:""        env:"RAYTRACER_PHOTON_RADIUS"     help:"Search radius of irradiance estimates, 0 uses the scene setting."`
	PhotonCount      int           `cli:""        env:"RAYTRACER_PHOTON_COUNT"      help:"Photons gathered per irradiance estimate, 0 uses the scene setting."`
	Caustics         bool          `cli:""        env:"RAYTRACER_CAUSTICS"          help:"Build a caustics photon map."`
	Denoise          bool          `cli:""        env:"RAYTRACER_DENOISE"           help:"Also write a denoised image."`
	Output           string        `cli:""        env:"RAYTRACER_OUTPUT"            help:"Output directory."`
	AdminAddr        string        `cli:""        env:"RAYTRACER_ADMIN_ADDR"        help:"Admin listening address for metrics and status, empty disables it."`
	LogLevel         string        `cli:""        env:"RAYTRACER_LOG_LEVEL"         help:"Log level (debug|info|warning|error)."`
	LogIndent        bool          `cli:""        env:"RAYTRACER_LOG_INDENT"        help:"Indent logs."`
	ProgressInterval time.Duration `cli:",hidden" env:"RAYTRACER_PROGRESS_INTERVAL" help:"The duration between each progress log."`
	Version          bool          `cli:""        env:"-"                           help:"Show version."`
	Help             bool          `cli:""        env:"-"                           help:"Show help."`
}

func defaultConfig() config {
	rc := renderer.DefaultConfig()
	return config{
		Scene:            "cornell",
		MinSamples:       rc.MinSamples,
		MaxSamples:       rc.MaxSamples,
		Threshold:        rc.Threshold,
		TileSize:         rc.TileSize,
		MaxBounces:       rc.MaxBounces,
		Photons:          -1,
		Output:           "output",
		LogLevel:         logs.InfoLevel.String(),
		ProgressInterval: time.Second * 2,
	}
}

func main() {
	conf := defaultConfig()

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Renders a built-in scene with photon mapping.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.ListScenes {
		printScenes(os.Stdout, scene.List())
		return
	}

	if err := run(ctx, conf, os.Stdout); err != nil {
		logs.Fatal(err)
	}
}

// run renders the configured scene, writes the output files and prints the
// statistics to out. Cancelling ctx stops the render; what was rendered so
// far is still written.
func run(ctx context.Context, conf config, out io.Writer) error {
	s, err := scene.Load(conf.Scene)
	if err != nil {
		return err
	}

	r, err := renderer.New(s, renderConfig(conf, s))
	if err != nil {
		return err
	}

	if conf.AdminAddr != "" {
		adminCtx, stopAdmin := context.WithCancel(context.Background())
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenAndServe(adminCtx, &http.Server{
				Addr:    conf.AdminAddr,
				Handler: newAdminHandler(s.Name, r),
			})
		}()
		defer wg.Wait()
		defer stopAdmin()
	}

	logs.WithTag("version", version).
		WithTag("scene", s.Name).
		WithTag("width", r.Width()).
		WithTag("height", r.Height()).
		WithTag("log_level", conf.LogLevel).
		Info("starting raytracer")

	if err := r.BeginRender(context.Background()); err != nil {
		return err
	}
	if err := waitForRender(ctx, r, conf.ProgressInterval); err != nil {
		return err
	}

	img, err := r.Image()
	if err != nil {
		return err
	}

	var denoised *renderer.RenderImage
	if conf.Denoise {
		if denoised, err = r.Denoise(denoise.DefaultBilateral()); err != nil {
			return err
		}
	}

	stats := r.Stats()
	dir := filepath.Join(conf.Output, s.Name)
	if err := writeOutputs(dir, time.Now().Format("20060102_150405"), img, denoised, stats); err != nil {
		return err
	}

	printStats(out, stats)
	return nil
}

// waitForRender logs the progress of r until it ends. A done ctx stops the
// render.
func waitForRender(ctx context.Context, r *renderer.Renderer, interval time.Duration) error {
	finished := make(chan error, 1)
	go func() {
		finished <- r.Wait(context.Background())
	}()

	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := ctx.Done()
	for {
		select {
		case err := <-finished:
			return err

		case <-done:
			logs.WithTag("render_id", r.RenderID()).Info("stopping render")
			r.StopRender()
			done = nil

		case <-ticker.C:
			rendered, total := r.Progress()
			logs.WithTag("render_id", r.RenderID()).
				WithTag("rendered", rendered).
				WithTag("total", total).
				Info("render progress")
		}
	}
}

func renderConfig(conf config, s *scene.Scene) renderer.Config {
	c := renderer.DefaultConfig()
	c.Width = conf.Width
	c.Height = conf.Height
	c.MinSamples = conf.MinSamples
	c.MaxSamples = conf.MaxSamples
	c.Threshold = conf.Threshold
	c.TileSize = conf.TileSize
	c.Workers = conf.Workers
	c.MaxBounces = conf.MaxBounces

	photons := s.Photons
	if conf.Photons >= 0 {
		photons.PhotonsPerLight = conf.Photons
	}
	if conf.PhotonRadius > 0 {
		photons.Radius = conf.PhotonRadius
	}
	if conf.PhotonCount > 0 {
		photons.MaxPhotons = conf.PhotonCount
	}
	if conf.Caustics {
		photons.Caustics = true
	}
	if photons.Radius <= 0 {
		photons.Radius = defaultPhotonRadius
	}
	if photons.MaxPhotons <= 0 {
		photons.MaxPhotons = defaultPhotonCount
	}
	if photons.MaxBounces <= 0 {
		photons.MaxBounces = c.MaxBounces
	}
	c.Photons = &photons
	return c
}

// writeOutputs saves the render, its z buffer and sample count images, the
// optional denoised render and the stats into dir. Names start with
// render_<stamp>.
func writeOutputs(dir, stamp string, img, denoised *renderer.RenderImage, stats renderer.RenderStats) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("creating output directory failed").
			WithTag("dir", dir).
			Wrap(err)
	}

	base := filepath.Join(dir, "render_"+stamp)
	images := map[string]image.Image{
		base + ".png":         img.ToRGBA(),
		base + "_z.png":       img.ZBufferImage(),
		base + "_samples.png": img.SampleCountImage(),
	}
	if denoised != nil {
		images[base+"_denoised.png"] = denoised.ToRGBA()
	}
	for filename, m := range images {
		if err := savePNG(filename, m); err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return errors.New("encoding stats failed").Wrap(err)
	}
	if err := os.WriteFile(base+"_stats.json", b, 0644); err != nil {
		return errors.New("writing stats failed").
			WithTag("file_name", base+"_stats.json").
			Wrap(err)
	}

	logs.WithTag("render_id", stats.RenderID).
		WithTag("file_name", base+".png").
		Info("render saved")
	return nil
}

func savePNG(filename string, m image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.New("creating image file failed").
			WithTag("file_name", filename).
			Wrap(err)
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return errors.New("encoding png failed").
			WithTag("file_name", filename).
			Wrap(err)
	}
	return nil
}

func printStats(w io.Writer, stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Scene", stats.Scene},
		{"Resolution", fmt.Sprintf("%dx%d", stats.Width, stats.Height)},
		{"Workers", fmt.Sprintf("%d", stats.Workers)},
		{"Pixels", fmt.Sprintf("%d", stats.TotalPixels)},
		{"Samples", fmt.Sprintf("%d", stats.TotalSamples)},
		{"Samples per pixel", fmt.Sprintf("%.2f (range %d - %d, max %d)",
			stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed, stats.MaxSamples)},
		{"Photons stored", fmt.Sprintf("%d", stats.Photons.Stored)},
		{"Caustic photons", fmt.Sprintf("%d", stats.Photons.Caustics)},
		{"Photons emitted", fmt.Sprintf("%d", stats.Photons.Emitted)},
		{"Photon pass", stats.Photons.Duration.String()},
		{"Stopped", fmt.Sprintf("%t", stats.Stopped)},
	})
	table.SetFooter([]string{"Render time", stats.Duration.String()})
	table.Render()

	fmt.Fprint(w, buf.String())
}

func printScenes(w io.Writer, scenes []scene.SceneInfo) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Photons", "Description"})
	for _, info := range scenes {
		table.Append([]string{info.ID, fmt.Sprintf("%t", info.Photons), info.Description})
	}
	table.Render()
}
