package main

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
	"github.com/df07/go-photon-raytracer/pkg/scene"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestRenderConfig(t *testing.T) {
	cornell := scene.NewCornellScene()
	sphere := scene.NewSphereScene()

	tests := []struct {
		name     string
		scene    *scene.Scene
		modify   func(c *config)
		expected scene.PhotonSettings
	}{
		{
			name:     "scene settings",
			scene:    cornell,
			expected: cornell.Photons,
		},
		{
			name:  "photons disabled",
			scene: cornell,
			modify: func(c *config) {
				c.Photons = 0
			},
			expected: scene.PhotonSettings{
				MaxBounces: cornell.Photons.MaxBounces,
				Radius:     cornell.Photons.Radius,
				MaxPhotons: cornell.Photons.MaxPhotons,
				Caustics:   true,
			},
		},
		{
			name:  "overrides",
			scene: cornell,
			modify: func(c *config) {
				c.Photons = 1000
				c.PhotonRadius = 0.5
				c.PhotonCount = 10
			},
			expected: scene.PhotonSettings{
				PhotonsPerLight: 1000,
				MaxBounces:      cornell.Photons.MaxBounces,
				Radius:          0.5,
				MaxPhotons:      10,
				Caustics:        true,
			},
		},
		{
			name:  "scene without photon settings",
			scene: sphere,
			modify: func(c *config) {
				c.Photons = 200
				c.Caustics = true
			},
			expected: scene.PhotonSettings{
				PhotonsPerLight: 200,
				MaxBounces:      renderer.DefaultConfig().MaxBounces,
				Radius:          defaultPhotonRadius,
				MaxPhotons:      defaultPhotonCount,
				Caustics:        true,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			conf := defaultConfig()
			if test.modify != nil {
				test.modify(&conf)
			}

			c := renderConfig(conf, test.scene)
			require.NoError(t, c.Validate())
			require.NotNil(t, c.Photons)
			require.Equal(t, test.expected, *c.Photons)
			require.Equal(t, conf.MaxSamples, c.MaxSamples)
			require.Equal(t, conf.TileSize, c.TileSize)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	conf := defaultConfig()
	conf.Scene = "sphere"
	conf.Width = 16
	conf.Height = 16
	conf.MaxSamples = 8
	conf.Denoise = true
	conf.Output = dir

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), conf, &out))
	require.Contains(t, out.String(), "Samples per pixel")
	require.Contains(t, out.String(), "16x16")

	pngs, err := filepath.Glob(filepath.Join(dir, "sphere", "render_*.png"))
	require.NoError(t, err)
	require.Len(t, pngs, 4)
	for _, filename := range pngs {
		f, err := os.Open(filename)
		require.NoError(t, err)
		m, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		require.Equal(t, 16, m.Bounds().Dx())
		require.Equal(t, 16, m.Bounds().Dy())
	}

	reports, err := filepath.Glob(filepath.Join(dir, "sphere", "render_*_stats.json"))
	require.NoError(t, err)
	require.Len(t, reports, 1)

	b, err := os.ReadFile(reports[0])
	require.NoError(t, err)
	var stats renderer.RenderStats
	require.NoError(t, json.Unmarshal(b, &stats))
	require.Equal(t, 16*16, stats.TotalPixels)
	require.Equal(t, "sphere", stats.Scene)
	require.NotEmpty(t, stats.RenderID)
}

func TestRunUnknownScene(t *testing.T) {
	conf := defaultConfig()
	conf.Scene = "nonexistent"
	conf.Output = t.TempDir()

	err := run(context.Background(), conf, &bytes.Buffer{})
	require.Error(t, err)
	require.Equal(t, scene.ErrTypeUnknownScene, errors.Type(err))
}

func TestRunInvalidConfig(t *testing.T) {
	conf := defaultConfig()
	conf.Scene = "sphere"
	conf.TileSize = 0
	conf.Output = t.TempDir()

	err := run(context.Background(), conf, &bytes.Buffer{})
	require.Error(t, err)
	require.Equal(t, renderer.ErrTypeInvalidConfig, errors.Type(err))
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	conf := defaultConfig()
	conf.Scene = "sphere"
	conf.Output = dir
	conf.ProgressInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, run(ctx, conf, &out))

	pngs, err := filepath.Glob(filepath.Join(dir, "sphere", "render_*.png"))
	require.NoError(t, err)
	require.Len(t, pngs, 3)
}

type fakeProgress struct {
	rendered, total int
}

func (p fakeProgress) RenderID() string     { return "render-1" }
func (p fakeProgress) IsRendering() bool    { return p.rendered < p.total }
func (p fakeProgress) IsRenderDone() bool   { return p.rendered == p.total }
func (p fakeProgress) Progress() (int, int) { return p.rendered, p.total }

func TestAdminHandler(t *testing.T) {
	handler := newAdminHandler("cornell", fakeProgress{rendered: 25, total: 100})

	t.Run("status", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var status renderStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		require.Equal(t, renderStatus{
			Version:   version,
			Scene:     "cornell",
			RenderID:  "render-1",
			Rendering: true,
			Rendered:  25,
			Total:     100,
			Progress:  0.25,
		}, status)
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		infoGauge.Set(1)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "raytracer_info")
	})
}

func TestMetricsPathFormatter(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{code: http.StatusOK, expected: "/status"},
		{code: http.StatusMovedPermanently},
		{code: http.StatusBadRequest},
		{code: http.StatusNotFound},
		{code: http.StatusMethodNotAllowed},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, metricsPathFormatter(test.code, "/status"))
	}
}

func TestPrintScenes(t *testing.T) {
	var b strings.Builder
	printScenes(&b, scene.List())

	for _, info := range scene.List() {
		require.Contains(t, b.String(), info.ID)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		listenAndServe(ctx, &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}
