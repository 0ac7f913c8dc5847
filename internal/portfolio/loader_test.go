package portfolio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "github.com/esologic/folio/internal/errors"
)

func TestLoadValidTree(t *testing.T) {
	root := writeValidTree(t)

	p, err := NewLoader(root).Load()
	require.NoError(t, err)

	require.Equal(t, "Test Portfolio", p.Title)
	require.Len(t, p.Sections, 1)
	require.Equal(t, "projects", p.Sections[0].Name)
	require.Len(t, p.Sections[0].Entries, 2)

	alpha := p.Sections[0].Entries[0]
	require.Equal(t, "alpha", alpha.Slug)
	require.Equal(t, "projects", alpha.Section)
	require.True(t, alpha.IsVisible())
	require.Equal(t, "electrical engineering", alpha.Domain)
}

func TestEntriesOrderedByCompletionDateDescending(t *testing.T) {
	root := writeValidTree(t)
	// gamma sorts first alphabetically but sits between the others by date.
	section := filepath.Join(root, "projects")
	writeFile(t, filepath.Join(section, "gamma", "gamma.yaml"), entryYAML("Gamma", "2022-07-01", true))
	writeMedia(t, filepath.Join(section, "gamma", "featured.png"))

	p, err := NewLoader(root).Load()
	require.NoError(t, err)

	var titles []string
	for _, e := range p.Sections[0].Entries {
		titles = append(titles, e.Title)
	}
	require.Equal(t, []string{"Alpha", "Gamma", "Beta"}, titles)
}

func TestEqualDatesBreakTiesByTitle(t *testing.T) {
	root := writeValidTree(t)
	section := filepath.Join(root, "projects")
	writeFile(t, filepath.Join(section, "zeta", "zeta.yaml"), entryYAML("Aardvark", "2023-05-10", true))
	writeMedia(t, filepath.Join(section, "zeta", "featured.png"))

	p, err := NewLoader(root).Load()
	require.NoError(t, err)

	require.Equal(t, "Aardvark", p.Sections[0].Entries[0].Title)
	require.Equal(t, "Alpha", p.Sections[0].Entries[1].Title)
}

func TestSectionsOrderedByRank(t *testing.T) {
	root := writeValidTree(t)
	other := filepath.Join(root, "art")
	writeFile(t, filepath.Join(other, "art.yaml"), strings.Replace(sectionYAML, "rank: 1", "rank: 0", 1))
	writeMedia(t, filepath.Join(other, "logo.png"))

	p, err := NewLoader(root).Load()
	require.NoError(t, err)

	require.Len(t, p.Sections, 2)
	require.Equal(t, "art", p.Sections[0].Name)
	require.Equal(t, "projects", p.Sections[1].Name)
}

func TestVisibleEntriesExcludesHidden(t *testing.T) {
	root := writeValidTree(t)

	p, err := NewLoader(root).Load()
	require.NoError(t, err)

	require.Len(t, p.Entries(), 2)
	visible := p.VisibleEntries()
	require.Len(t, visible, 1)
	require.Equal(t, "Alpha", visible[0].Title)
}

func TestMissingRequiredFieldNamesIt(t *testing.T) {
	root := writeValidTree(t)
	path := filepath.Join(root, "projects", "alpha", "alpha.yaml")
	writeFile(t, path, strings.Replace(entryYAML("Alpha", "2023-05-10", true), "title: Alpha", "title: \"\"", 1))

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "field=title")
	require.Contains(t, err.Error(), path)
}

func TestMissingVisibleFieldIsAnError(t *testing.T) {
	root := writeValidTree(t)
	body := entryYAML("Alpha", "2023-05-10", true)
	body = strings.Replace(body, "visible: true\n", "", 1)
	writeFile(t, filepath.Join(root, "projects", "alpha", "alpha.yaml"), body)

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "field=visible")
}

func TestDanglingMediaReferenceIsAnError(t *testing.T) {
	root := writeValidTree(t)
	require.NoError(t, os.Remove(filepath.Join(root, "projects", "alpha", "featured.png")))

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "featured_media.path")
	require.Contains(t, err.Error(), "media file does not exist")
}

func TestMediaPathMustStayInsideDirectory(t *testing.T) {
	root := writeValidTree(t)
	body := strings.Replace(entryYAML("Alpha", "2023-05-10", true), "path: featured.png", "path: ../../portfolio.yaml", 1)
	writeFile(t, filepath.Join(root, "projects", "alpha", "alpha.yaml"), body)

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must stay inside")
}

func TestMalformedYAMLIsAParseError(t *testing.T) {
	root := writeValidTree(t)
	writeFile(t, filepath.Join(root, "projects", "alpha", "alpha.yaml"), "title: [unclosed\n")

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	requireHasCategory(t, err, ferrors.CategoryParse)
}

func TestUnknownFieldIsAValidationError(t *testing.T) {
	root := writeValidTree(t)
	body := entryYAML("Alpha", "2023-05-10", true) + "bogus_field: 1\n"
	writeFile(t, filepath.Join(root, "projects", "alpha", "alpha.yaml"), body)

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	requireHasCategory(t, err, ferrors.CategoryValidation)
}

func TestBadDateFormatRejected(t *testing.T) {
	root := writeValidTree(t)
	body := strings.Replace(entryYAML("Alpha", "2023-05-10", true), `"2023-05-10"`, `"May 2023"`, 1)
	writeFile(t, filepath.Join(root, "projects", "alpha", "alpha.yaml"), body)

	_, err := NewLoader(root).Load()
	require.Error(t, err)
}

func TestMultipleYAMLFilesInOneDirectory(t *testing.T) {
	root := writeValidTree(t)
	writeFile(t, filepath.Join(root, "projects", "alpha", "extra.yaml"), "title: extra\n")

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected exactly one")
}

func TestDirectoryWithoutYAML(t *testing.T) {
	root := writeValidTree(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "projects", "empty"), 0o755))

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no metadata yaml found")
}

func TestAllContentErrorsReportedTogether(t *testing.T) {
	root := writeValidTree(t)
	alphaPath := filepath.Join(root, "projects", "alpha", "alpha.yaml")
	betaPath := filepath.Join(root, "projects", "beta", "beta.yaml")
	writeFile(t, alphaPath, strings.Replace(entryYAML("Alpha", "2023-05-10", true), "title: Alpha", "title: \"\"", 1))
	writeFile(t, betaPath, strings.Replace(entryYAML("Beta", "2021-11-02", false), "involvement: Everything.", "involvement: \"\"", 1))

	_, err := NewLoader(root).Load()
	require.Error(t, err)

	var list *ferrors.List
	require.ErrorAs(t, err, &list)
	require.Equal(t, 2, list.Len())
	require.Contains(t, err.Error(), alphaPath)
	require.Contains(t, err.Error(), betaPath)
}

func TestHiddenDirectoriesAreSkipped(t *testing.T) {
	root := writeValidTree(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755))

	p, err := NewLoader(root).Load()
	require.NoError(t, err)
	require.Len(t, p.Sections, 1)
}

func TestMissingContentRootIsFatal(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope")).Load()
	require.Error(t, err)
	require.True(t, ferrors.IsCategory(err, ferrors.CategoryFileSystem))
}

func TestTagNormalization(t *testing.T) {
	root := writeValidTree(t)
	body := strings.Replace(entryYAML("Alpha", "2023-05-10", true), "domain: electrical engineering", "domain: \"  Electrical Engineering \"", 1)
	writeFile(t, filepath.Join(root, "projects", "alpha", "alpha.yaml"), body)

	p, err := NewLoader(root).Load()
	require.NoError(t, err)
	require.Equal(t, "electrical engineering", p.Sections[0].Entries[0].Domain)
}

// requireHasCategory walks an aggregate error looking for a FolioError of
// the given category.
func requireHasCategory(t *testing.T, err error, cat ferrors.ErrorCategory) {
	t.Helper()
	var list *ferrors.List
	require.ErrorAs(t, err, &list)
	for _, e := range list.Errors() {
		if ferrors.IsCategory(e, cat) {
			return
		}
	}
	t.Fatalf("no error of category %q in: %v", cat, err)
}
