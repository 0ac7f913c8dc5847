// Package server is the thin dynamic wrapper around the assembled site: it
// routes requests to the static output and adds health, metrics, build
// history, and live reload. It performs no transformation of the content.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/esologic/folio/internal/buildlog"
	"github.com/esologic/folio/internal/config"
	"github.com/esologic/folio/internal/logfields"
)

// Server serves the assembled output directory.
type Server struct {
	cfg       *config.Config
	outputDir string
	hub       *LiveReloadHub
	registry  *prom.Registry
	history   *buildlog.Store
	httpSrv   *http.Server
}

// New creates a server for the given output directory. registry and history
// may be nil when metrics or build history are disabled.
func New(cfg *config.Config, outputDir string, registry *prom.Registry, history *buildlog.Store) *Server {
	s := &Server{
		cfg:       cfg,
		outputDir: outputDir,
		registry:  registry,
		history:   history,
	}
	if cfg.Serve.LiveReload {
		s.hub = NewLiveReloadHub()
	}
	return s
}

// Hub returns the live reload hub, or nil when live reload is disabled.
func (s *Server) Hub() *LiveReloadHub { return s.hub }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/builds", s.handleBuilds)
	if s.registry != nil && s.cfg.Serve.EnableMetrics {
		mux.Handle(s.cfg.Serve.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if s.hub != nil {
		mux.Handle("/livereload", s.hub)
	}
	mux.Handle("/", s.siteHandler())

	addr := fmt.Sprintf(":%d", s.cfg.Serve.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Serve listening", slog.String("addr", addr), logfields.Path(s.outputDir))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	if s.hub != nil {
		s.hub.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleBuilds lists recent builds from the history store.
func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "build history not enabled", http.StatusNotFound)
		return
	}
	records, err := s.history.Recent(r.Context(), 20)
	if err != nil {
		slog.Error("Failed to read build history", logfields.Error(err))
		http.Error(w, "failed to read build history", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

// siteHandler serves the static output. HTML documents get the live reload
// snippet injected at serve time so the output tree on disk stays
// byte-deterministic.
func (s *Server) siteHandler() http.Handler {
	fileServer := http.FileServer(http.Dir(s.outputDir))
	if s.hub == nil {
		return fileServer
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasSuffix(path, "/") {
			path += "index.html"
		}
		if !strings.HasSuffix(path, ".html") {
			fileServer.ServeHTTP(w, r)
			return
		}

		full := filepath.Join(s.outputDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
		rel, err := filepath.Rel(s.outputDir, full)
		if err != nil || strings.HasPrefix(rel, "..") {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(injectLiveReload(data))
	})
}

// injectLiveReload appends the reload script before </body>, or at the end
// when the page has no closing body tag.
func injectLiveReload(page []byte) []byte {
	const snippet = `<script>new EventSource("/livereload").onmessage = function () { location.reload(); };</script>`
	idx := strings.LastIndex(string(page), "</body>")
	if idx < 0 {
		return append(page, []byte(snippet)...)
	}
	out := make([]byte, 0, len(page)+len(snippet))
	out = append(out, page[:idx]...)
	out = append(out, []byte(snippet)...)
	out = append(out, page[idx:]...)
	return out
}
