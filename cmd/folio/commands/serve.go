package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/esologic/folio/internal/buildlog"
	"github.com/esologic/folio/internal/config"
	"github.com/esologic/folio/internal/logfields"
	"github.com/esologic/folio/internal/metrics"
	"github.com/esologic/folio/internal/server"
)

// ServeCmd builds the site and serves it with optional watch mode, periodic
// rebuilds, and live reload.
type ServeCmd struct {
	Output       string `short:"o" help:"Output directory for the assembled site (overrides config)"`
	Port         int    `short:"p" help:"Listen port (overrides config)"`
	Watch        bool   `short:"w" help:"Rebuild when the content tree changes"`
	RebuildEvery string `name:"rebuild-every" help:"Rebuild on a fixed interval, e.g. 30m (overrides config)"`
	NoLiveReload bool   `name:"no-live-reload" help:"Disable live reload SSE and script injection"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	s.applyOverrides(cfg)

	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outputDir := ResolveOutputDir(s.Output, cfg)

	var registry *prom.Registry
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Serve.EnableMetrics {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	var history *buildlog.Store
	if cfg.History.Enabled {
		history, err = buildlog.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open build history: %w", err)
		}
		defer func() {
			_ = history.Close()
		}()
	}

	srv := server.New(cfg, outputDir, registry, history)

	// Serialize rebuilds so watch events and the periodic schedule never
	// overlap in the staging directory.
	var buildMu sync.Mutex
	rebuild := func() {
		buildMu.Lock()
		defer buildMu.Unlock()

		report, err := RunBuild(cfg, outputDir, recorder)
		if err != nil {
			slog.Error("Rebuild failed, keeping previous output", logfields.Error(err))
			return
		}
		if history != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := history.Append(ctx, report); err != nil {
				slog.Warn("Failed to record build history", logfields.Error(err))
			}
			cancel()
		}
		if hub := srv.Hub(); hub != nil {
			hub.Broadcast(report.BuildID)
		}
		slog.Info("Rebuild finished",
			logfields.BuildID(report.BuildID),
			slog.Int("pages", report.RenderedPages))
	}

	// Initial build. A failure is not fatal; a previous output may still be
	// serveable while the author fixes the content.
	rebuild()

	if cfg.Serve.Watch {
		go func() {
			if err := server.WatchAndRebuild(sigctx, cfg.Content.Directory, 500*time.Millisecond, rebuild); err != nil {
				slog.Error("Watcher stopped", logfields.Error(err))
			}
		}()
	}
	if interval := cfg.RebuildInterval(); interval > 0 {
		go func() {
			if err := server.RunPeriodicRebuild(sigctx, interval, rebuild); err != nil {
				slog.Error("Periodic rebuild stopped", logfields.Error(err))
			}
		}()
	}

	return srv.Run(sigctx)
}

// applyOverrides folds CLI flags into the loaded config; flags win.
func (s *ServeCmd) applyOverrides(cfg *config.Config) {
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.Watch {
		cfg.Serve.Watch = true
	}
	if s.RebuildEvery != "" {
		cfg.Serve.RebuildEvery = s.RebuildEvery
	}
	if s.NoLiveReload {
		cfg.Serve.LiveReload = false
	}
}
