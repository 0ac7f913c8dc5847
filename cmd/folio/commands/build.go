package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/esologic/folio/internal/buildlog"
	"github.com/esologic/folio/internal/config"
	"github.com/esologic/folio/internal/logfields"
	"github.com/esologic/folio/internal/metrics"
	"github.com/esologic/folio/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the assembled site (overrides config)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	outputDir := ResolveOutputDir(b.Output, cfg)

	fmt.Println("Starting folio build")
	slog.Info("Starting portfolio build",
		logfields.Path(cfg.Content.Directory),
		slog.String("output", outputDir))

	report, err := RunBuild(cfg, outputDir, metrics.NoopRecorder{})
	if err != nil {
		slog.Error("Build failed", logfields.Error(err))
		return err
	}

	if cfg.History.Enabled {
		if appendErr := appendHistory(cfg.History.Path, report); appendErr != nil {
			slog.Warn("Failed to record build history", logfields.Error(appendErr))
		}
	}

	slog.Info("Build finished",
		logfields.BuildID(report.BuildID),
		slog.Int("sections", report.Sections),
		slog.Int("entries", report.Entries),
		slog.Int("pages", report.RenderedPages),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	fmt.Println("Build completed successfully")
	return nil
}

func appendHistory(dbPath string, report *site.BuildReport) error {
	store, err := buildlog.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return store.Append(ctx, report)
}
