package portfolio

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test fixtures build a small but complete content tree on disk: a root
// descriptor, one section, and a couple of entries with their media files.

const rootYAML = `version_number: 1
title: Test Portfolio
description: Projects by a **test** author.
explanation: All of it is made up.
conclusion: The end.
email: author@example.com
contact_urls:
  - label: GitHub
    link: https://github.com/example
icon:
  label: icon
  path: icon.png
portrait:
  label: portrait
  path: portrait.png
`

const sectionYAML = `version_number: 1
title: Projects
description: Things that were built.
primary_color: "#336699"
logo:
  label: logo
  path: logo.png
rank: 1
`

func entryYAML(title, date string, visible bool) string {
	return fmt.Sprintf(`version_number: 1
title: %s
description: A description.
explanation: An explanation.
featured_media:
  label: featured
  path: featured.png
size: small
domain: electrical engineering
team_size: solo
mediums:
  - python
  - 3d printing
primary_url:
  label: Write-up
  link: https://example.com/project
completion_date: "%s"
involvement: Everything.
visible: %t
`, title, date, visible)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func writeMedia(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		writeFile(t, p, "fake image bytes")
	}
}

// writeValidTree creates a tree with one section and two entries:
// alpha (visible, 2023-05-10) and beta (hidden, 2021-11-02).
func writeValidTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "portfolio.yaml"), rootYAML)
	writeMedia(t, filepath.Join(root, "icon.png"), filepath.Join(root, "portrait.png"))

	section := filepath.Join(root, "projects")
	writeFile(t, filepath.Join(section, "projects.yaml"), sectionYAML)
	writeMedia(t, filepath.Join(section, "logo.png"))

	writeFile(t, filepath.Join(section, "alpha", "alpha.yaml"), entryYAML("Alpha", "2023-05-10", true))
	writeMedia(t, filepath.Join(section, "alpha", "featured.png"))

	writeFile(t, filepath.Join(section, "beta", "beta.yaml"), entryYAML("Beta", "2021-11-02", false))
	writeMedia(t, filepath.Join(section, "beta", "featured.png"))

	return root
}
