// Package site assembles rendered pages and copied media into a deployable
// output directory tree.
package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	ferrors "github.com/esologic/folio/internal/errors"
	"github.com/esologic/folio/internal/logfields"
	"github.com/esologic/folio/internal/metrics"
	"github.com/esologic/folio/internal/portfolio"
	"github.com/esologic/folio/internal/render"
)

// Stage names used in reports and metrics.
const (
	StagePrepare = "prepare"
	StageEntries = "entries"
	StageIndex   = "index"
	StageAssets  = "assets"
	StageSwap    = "swap"
)

// Assembler writes the complete output tree. Every build is a full
// regeneration into an ephemeral staging directory; the previous output is
// only replaced once staging is complete, so a failed build never leaves a
// partially written site behind.
type Assembler struct {
	outputDir string
	stageDir  string // ephemeral staging dir for current build
	renderer  *render.Renderer
	recorder  metrics.Recorder
}

// NewAssembler creates an assembler targeting outputDir.
func NewAssembler(outputDir string, renderer *render.Renderer) *Assembler {
	return &Assembler{
		outputDir: outputDir,
		renderer:  renderer,
		recorder:  metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder (optional). Returns the assembler for chaining.
func (a *Assembler) SetRecorder(r metrics.Recorder) *Assembler {
	if r != nil {
		a.recorder = r
	}
	return a
}

// Assemble builds the full output tree for an already validated portfolio.
// The first render or filesystem error aborts the build.
func (a *Assembler) Assemble(p *portfolio.Portfolio) (*BuildReport, error) {
	report := newBuildReport(len(p.Sections), len(p.Entries()))

	err := a.runStage(report, StagePrepare, func() error { return a.beginStaging() })
	if err == nil {
		err = a.runStage(report, StageEntries, func() error { return a.assembleEntries(p, report) })
	}
	if err == nil {
		err = a.runStage(report, StageIndex, func() error { return a.assembleIndex(p) })
	}
	if err == nil {
		err = a.runStage(report, StageAssets, func() error { return a.assemblePortfolioAssets(p) })
	}
	if err == nil {
		err = a.runStage(report, StageSwap, func() error { return a.finalizeStaging() })
	}

	if err != nil {
		a.abortStaging()
		report.finish("failed")
		a.recorder.IncBuildOutcome("failed")
		return report, err
	}

	report.finish("success")
	a.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	a.recorder.IncBuildOutcome("success")
	a.recorder.SetPagesRendered(report.RenderedPages)
	slog.Info("Site assembled",
		logfields.Path(a.outputDir),
		slog.Int("sections", report.Sections),
		slog.Int("entries", report.Entries),
		slog.Int("pages", report.RenderedPages))
	return report, nil
}

func (a *Assembler) runStage(report *BuildReport, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	report.StageDurations[stage] = d
	a.recorder.ObserveStageDuration(stage, d)
	if err != nil {
		a.recorder.IncStageResult(stage, metrics.ResultFatal)
		return err
	}
	a.recorder.IncStageResult(stage, metrics.ResultSuccess)
	return nil
}

func (a *Assembler) beginStaging() error {
	a.stageDir = a.outputDir + ".staging"
	if err := os.RemoveAll(a.stageDir); err != nil {
		return ferrors.IOError("clean staging directory", err)
	}
	if err := os.MkdirAll(a.stageDir, 0o755); err != nil {
		return ferrors.IOError("create staging directory", err)
	}
	return nil
}

// finalizeStaging swaps the staged tree into place. The previous output is
// moved aside first so the swap window contains no partially written state.
func (a *Assembler) finalizeStaging() error {
	oldDir := a.outputDir + ".old"
	if err := os.RemoveAll(oldDir); err != nil {
		return ferrors.IOError("clean previous output", err)
	}
	if _, err := os.Stat(a.outputDir); err == nil {
		if err := os.Rename(a.outputDir, oldDir); err != nil {
			return ferrors.IOError("move previous output aside", err)
		}
	}
	if err := os.Rename(a.stageDir, a.outputDir); err != nil {
		// Try to restore the previous output before reporting.
		if _, statErr := os.Stat(oldDir); statErr == nil {
			_ = os.Rename(oldDir, a.outputDir)
		}
		return ferrors.IOError("finalize output directory", err)
	}
	if err := os.RemoveAll(oldDir); err != nil {
		slog.Warn("Failed to remove previous output", logfields.Error(err))
	}
	return nil
}

func (a *Assembler) abortStaging() {
	if a.stageDir == "" {
		return
	}
	if err := os.RemoveAll(a.stageDir); err != nil {
		slog.Warn("Failed to clean staging directory", logfields.Error(err))
	}
}

// assembleEntries writes one page per entry and copies its media alongside.
// Invisible entries get their standalone page too; only listings skip them.
func (a *Assembler) assembleEntries(p *portfolio.Portfolio, report *BuildReport) error {
	for _, s := range p.Sections {
		// Section logo lives under the section's directory in the output.
		if err := a.copyMedia(s.Dir, filepath.Join(a.stageDir, s.Name), s.Logo.Path); err != nil {
			return err
		}
		for _, e := range s.Entries {
			if err := a.assembleEntry(s, e); err != nil {
				return err
			}
			report.RenderedPages++
		}
	}
	return nil
}

func (a *Assembler) assembleEntry(s *portfolio.Section, e *portfolio.Entry) error {
	html, err := a.renderer.RenderEntry(e)
	if err != nil {
		return err
	}

	entryDir := filepath.Join(a.stageDir, s.Name, e.Slug)
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return ferrors.IOError("create entry directory", err)
	}
	// #nosec G306 -- pages are public content
	if err := os.WriteFile(filepath.Join(entryDir, "index.html"), []byte(html), 0o644); err != nil {
		return ferrors.IOError("write entry page", err)
	}

	if err := a.copyMedia(e.Dir, entryDir, e.FeaturedMedia.Path); err != nil {
		return err
	}
	for _, m := range e.LocalMedia {
		if err := a.copyMedia(e.Dir, entryDir, m.Path); err != nil {
			return err
		}
	}

	slog.Debug("Entry assembled", logfields.Section(s.Name), logfields.Entry(e.Slug))
	return nil
}

func (a *Assembler) assembleIndex(p *portfolio.Portfolio) error {
	html, err := a.renderer.RenderIndex(p)
	if err != nil {
		return err
	}
	// #nosec G306 -- pages are public content
	if err := os.WriteFile(filepath.Join(a.stageDir, "index.html"), []byte(html), 0o644); err != nil {
		return ferrors.IOError("write index page", err)
	}
	return nil
}

// assemblePortfolioAssets copies root-level media (icon, portrait, resume)
// into the output root, preserving relative paths.
func (a *Assembler) assemblePortfolioAssets(p *portfolio.Portfolio) error {
	for _, path := range []string{p.Icon.Path, p.Portrait.Path, p.ResumePath} {
		if path == "" {
			continue
		}
		if err := a.copyMedia(p.Dir, a.stageDir, path); err != nil {
			return err
		}
	}
	return nil
}

// copyMedia copies one media file from srcDir into dstDir, keeping its
// relative path. Validation already proved the file exists; a failure here
// is a filesystem error, not a content error.
func (a *Assembler) copyMedia(srcDir, dstDir, relPath string) error {
	src := filepath.Join(srcDir, relPath)
	dst := filepath.Join(dstDir, relPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ferrors.IOError("create media directory", err)
	}
	if err := copyFile(src, dst); err != nil {
		return ferrors.IOError(fmt.Sprintf("copy media %s", relPath), err)
	}
	return nil
}
