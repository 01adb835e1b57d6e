package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

// renderProgress is the part of the renderer the status endpoint reports on
type renderProgress interface {
	RenderID() string
	IsRendering() bool
	IsRenderDone() bool
	Progress() (int, int)
}

type renderStatus struct {
	Version   string  `json:"version"`
	Scene     string  `json:"scene"`
	RenderID  string  `json:"render_id"`
	Rendering bool    `json:"rendering"`
	Done      bool    `json:"done"`
	Rendered  int     `json:"rendered"`
	Total     int     `json:"total"`
	Progress  float64 `json:"progress"`
}

func newAdminHandler(sceneName string, r renderProgress) http.Handler {
	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", handleHealthCheck)
	admin.HandleFunc("/status", handleStatus(sceneName, r))
	return metrics.HTTPHandler(&admin, metricsPathFormatter)
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleStatus(sceneName string, p renderProgress) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rendered, total := p.Progress()
		status := renderStatus{
			Version:   version,
			Scene:     sceneName,
			RenderID:  p.RenderID(),
			Rendering: p.IsRendering(),
			Done:      p.IsRenderDone(),
			Rendered:  rendered,
			Total:     total,
		}
		if total > 0 {
			status.Progress = float64(rendered) / float64(total)
		}

		b, err := json.Marshal(status)
		if err != nil {
			logs.Warn(errors.New("encoding render status failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

// metricsPathFormatter returns empty string on HTTP 301, 400, 404 or 405 statusCode
func metricsPathFormatter(statusCode int, path string) string {
	if statusCode == http.StatusMovedPermanently ||
		statusCode == http.StatusBadRequest ||
		statusCode == http.StatusNotFound ||
		statusCode == http.StatusMethodNotAllowed {
		return ""
	}
	return path
}

// listenAndServe runs the servers until ctx is done
func listenAndServe(ctx context.Context, servers ...*http.Server) {
	go func() {
		<-ctx.Done()

		for _, s := range servers {
			if err := s.Shutdown(context.Background()); err != nil {
				logs.Warn(errors.Newf("shutting down the server failed").
					WithTag("addr", s.Addr).
					Wrap(err))
			}
		}
	}()

	var wg sync.WaitGroup

	for _, s := range servers {
		wg.Add(1)

		go func(s *http.Server) {
			defer wg.Done()

			logs.WithTag("addr", s.Addr).Info("starting server")

			switch err := s.ListenAndServe(); err {
			case nil, http.ErrServerClosed, context.Canceled:
				logs.WithTag("addr", s.Addr).Info("stopping server")

			default:
				logs.Warn(errors.Newf("server stopped").
					WithTag("addr", s.Addr).
					Wrap(err))
			}
		}(s)
	}

	wg.Wait()
}
