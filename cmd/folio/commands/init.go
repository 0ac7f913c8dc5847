package commands

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/esologic/folio/internal/config"
	"github.com/esologic/folio/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force     bool `help:"Overwrite existing configuration file"`
	NoContent bool `name:"no-content" help:"Skip creating the example content tree"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	slog.Info("Initializing configuration", logfields.Path(root.Config), slog.Bool("force", i.Force))
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	fmt.Println("Wrote configuration:", root.Config)

	if i.NoContent {
		return nil
	}

	contentDir := "./content"
	if _, err := os.Stat(contentDir); err == nil {
		slog.Info("Content directory already exists, leaving it alone", logfields.Path(contentDir))
		return nil
	}
	if err := scaffoldContent(contentDir); err != nil {
		return fmt.Errorf("scaffold example content: %w", err)
	}
	fmt.Println("Wrote example content tree:", contentDir)
	return nil
}

const examplePortfolioYAML = `version_number: 1
title: My Portfolio
description: A collection of my **projects**.
explanation: Everything here was built by hand, one project at a time.
conclusion: Thanks for reading.
email: you@example.com
contact_urls:
  - label: GitHub
    link: https://github.com/example
icon:
  label: site icon
  path: icon.png
portrait:
  label: portrait photo
  path: portrait.png
`

const exampleSectionYAML = `version_number: 1
title: Projects
description: Things I have built.
primary_color: "#1f6feb"
logo:
  label: section logo
  path: logo.png
rank: 1
`

const exampleEntryYAML = `version_number: 1
title: First Project
description: A short *summary* of the project.
explanation: A longer explanation of what it does and how it was made.
featured_media:
  label: project photo
  path: featured.png
size: small
domain: software
team_size: solo
mediums:
  - go
involvement: Designed and built the whole thing.
primary_url:
  label: Project page
  link: https://example.com/first-project
completion_date: "2024-06-01"
visible: true
`

// scaffoldContent writes a minimal content tree that passes validation, so
// `folio build` works immediately after `folio init`.
func scaffoldContent(dir string) error {
	entryDir := filepath.Join(dir, "projects", "first_project")
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return err
	}

	files := []struct {
		path string
		body string
	}{
		{filepath.Join(dir, "portfolio.yaml"), examplePortfolioYAML},
		{filepath.Join(dir, "projects", "projects.yaml"), exampleSectionYAML},
		{filepath.Join(entryDir, "first_project.yaml"), exampleEntryYAML},
	}
	for _, f := range files {
		// #nosec G306 -- example content is not sensitive
		if err := os.WriteFile(f.path, []byte(f.body), 0o644); err != nil {
			return err
		}
	}

	images := []string{
		filepath.Join(dir, "icon.png"),
		filepath.Join(dir, "portrait.png"),
		filepath.Join(dir, "projects", "logo.png"),
		filepath.Join(entryDir, "featured.png"),
	}
	for _, path := range images {
		if err := writePlaceholderPNG(path); err != nil {
			return err
		}
	}
	return nil
}

// writePlaceholderPNG writes a 1x1 image so media references resolve until
// the author replaces them.
func writePlaceholderPNG(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0x1f, G: 0x6f, B: 0xeb, A: 0xff})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
