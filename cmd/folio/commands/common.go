package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/esologic/folio/internal/config"
	"github.com/esologic/folio/internal/metrics"
	"github.com/esologic/folio/internal/portfolio"
	"github.com/esologic/folio/internal/render"
	"github.com/esologic/folio/internal/site"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"folio.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the portfolio site from the content tree"`
	Check CheckCmd `cmd:"" help:"Load and validate the content tree without building"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file and example content"`
	Serve ServeCmd `cmd:"" help:"Serve the built site with optional watch and periodic rebuild"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ResolveOutputDir determines the final output directory.
// Priority: CLI flag > config directory.
func ResolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" {
		return cliOutput
	}
	return cfg.Output.Directory
}

// TemplateOverrideDir is where authors may place entry.html / index.html to
// replace the embedded page templates, relative to the content tree.
func TemplateOverrideDir(cfg *config.Config) string {
	return filepath.Join(cfg.Content.Directory, "_templates")
}

// RunBuild runs the full pipeline once: load and validate the content tree,
// render every page, assemble the output directory. Load errors are
// aggregated; the first render or filesystem error aborts.
func RunBuild(cfg *config.Config, outputDir string, rec metrics.Recorder) (*site.BuildReport, error) {
	loader := portfolio.NewLoader(cfg.Content.Directory)
	p, err := loader.Load()
	if err != nil {
		return nil, err
	}
	rec.SetEntriesLoaded(len(p.Entries()))

	renderer, err := render.NewRendererWithOverrides(render.SiteMeta{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		BaseURL:     cfg.Site.BaseURL,
	}, TemplateOverrideDir(cfg))
	if err != nil {
		return nil, err
	}

	assembler := site.NewAssembler(outputDir, renderer).SetRecorder(rec)
	return assembler.Assemble(p)
}
