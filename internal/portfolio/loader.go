package portfolio

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "github.com/esologic/folio/internal/errors"
	"github.com/esologic/folio/internal/logfields"
)

// Loader discovers and validates the content tree under a root directory.
//
// The scan is read-only. All parse and validation errors found anywhere in
// the tree are collected and returned together so a content author gets the
// full picture from a single build attempt.
type Loader struct {
	root string
}

// NewLoader creates a loader for the given content root.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Load reads the whole tree. On failure the returned error is either a fatal
// *errors.FolioError (unusable root) or an *errors.List of everything wrong
// with the content.
func (l *Loader) Load() (*Portfolio, error) {
	if st, err := os.Stat(l.root); err != nil || !st.IsDir() {
		return nil, ferrors.IOError("stat content root", fmt.Errorf("content directory not found: %s", l.root))
	}

	errs := &ferrors.List{}

	rootYAML, err := findSingleYAML(l.root)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{Dir: l.root, SourcePath: rootYAML}
	if decodeErr := decodeStrict(rootYAML, p); decodeErr != nil {
		// An unreadable root descriptor makes the rest of the scan moot.
		return nil, decodeErr
	}
	errs.AddList(validatePortfolio(p))

	sectionDirs, err := subdirectories(l.root)
	if err != nil {
		return nil, ferrors.IOError("list content root", err)
	}

	for _, dir := range sectionDirs {
		section, sectionErrs := l.loadSection(dir)
		errs.AddList(sectionErrs)
		if section != nil {
			p.Sections = append(p.Sections, section)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	sortPortfolio(p)

	slog.Debug("Content tree loaded",
		logfields.Path(l.root),
		slog.Int("sections", len(p.Sections)),
		logfields.Count(len(p.Entries())))
	return p, nil
}

func (l *Loader) loadSection(dir string) (*Section, *ferrors.List) {
	errs := &ferrors.List{}

	yamlPath, err := findSingleYAML(dir)
	if err != nil {
		errs.Add(err)
		return nil, errs
	}

	section := &Section{
		Name:       filepath.Base(dir),
		Dir:        dir,
		SourcePath: yamlPath,
	}
	if decodeErr := decodeStrict(yamlPath, section); decodeErr != nil {
		errs.Add(decodeErr)
		return nil, errs
	}
	errs.AddList(validateSection(section))

	entryDirs, err := subdirectories(dir)
	if err != nil {
		errs.Add(ferrors.IOError("list section directory", err))
		return section, errs
	}

	for _, entryDir := range entryDirs {
		entry, entryErrs := l.loadEntry(entryDir, section.Name)
		errs.AddList(entryErrs)
		if entry != nil {
			section.Entries = append(section.Entries, entry)
		}
	}

	return section, errs
}

func (l *Loader) loadEntry(dir, sectionName string) (*Entry, *ferrors.List) {
	errs := &ferrors.List{}

	yamlPath, err := findSingleYAML(dir)
	if err != nil {
		errs.Add(err)
		return nil, errs
	}

	entry := &Entry{
		Slug:       strings.TrimSuffix(filepath.Base(yamlPath), filepath.Ext(yamlPath)),
		Section:    sectionName,
		Dir:        dir,
		SourcePath: yamlPath,
	}
	if decodeErr := decodeStrict(yamlPath, entry); decodeErr != nil {
		errs.Add(decodeErr)
		return nil, errs
	}
	normalizeEntry(entry)
	errs.AddList(validateEntry(entry))

	return entry, errs
}

// decodeStrict reads a YAML file into out, rejecting unknown fields.
// Malformed YAML is a parse error; schema mismatches are validation errors.
func decodeStrict(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ferrors.IOError("read metadata file", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if _, ok := err.(*yaml.TypeError); ok {
			return ferrors.ValidationError(path, "", err.Error())
		}
		return ferrors.ParseError(path, err)
	}
	return nil
}

// findSingleYAML locates the one metadata file in a directory. Every
// directory in the tree must carry exactly one *.yaml.
func findSingleYAML(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return "", ferrors.IOError("scan directory", err)
	}
	switch len(matches) {
	case 0:
		return "", ferrors.ValidationError(dir, "", "no metadata yaml found in directory")
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", ferrors.ValidationError(dir, "", fmt.Sprintf("found %d yaml files in directory, expected exactly one", len(matches)))
	}
}

func subdirectories(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, d := range dirents {
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			out = append(out, filepath.Join(dir, d.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// normalizeEntry lowercases the open tag sets so comparisons and display
// transforms behave uniformly across entries.
func normalizeEntry(e *Entry) {
	e.Domain = strings.ToLower(strings.TrimSpace(e.Domain))
	e.Size = strings.ToLower(strings.TrimSpace(e.Size))
	e.TeamSize = strings.ToLower(strings.TrimSpace(e.TeamSize))
	for i, m := range e.Mediums {
		e.Mediums[i] = strings.ToLower(strings.TrimSpace(m))
	}
}

// sortPortfolio fixes the presentation order: sections by rank then title,
// entries by completion date descending with ties broken by title.
func sortPortfolio(p *Portfolio) {
	sort.SliceStable(p.Sections, func(i, j int) bool {
		if p.Sections[i].Rank != p.Sections[j].Rank {
			return p.Sections[i].Rank < p.Sections[j].Rank
		}
		return p.Sections[i].Title < p.Sections[j].Title
	})
	for _, s := range p.Sections {
		sort.SliceStable(s.Entries, func(i, j int) bool {
			di, dj := s.Entries[i].CompletionDate.Time, s.Entries[j].CompletionDate.Time
			if !di.Equal(dj) {
				return di.After(dj)
			}
			return s.Entries[i].Title < s.Entries[j].Title
		})
	}
}
