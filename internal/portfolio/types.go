// Package portfolio loads and validates the content tree that describes a
// portfolio: a root descriptor, section directories, and entry directories
// carrying one metadata YAML plus media files each.
package portfolio

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Link pairs a human-readable label with a URL on the web.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"link"`
}

// LocalMedia references a media file stored next to the metadata YAML.
type LocalMedia struct {
	Label string `yaml:"label"`
	// Path is relative to the directory of the YAML referencing it.
	Path string `yaml:"path"`
}

// YouTubeVideo identifies a video to embed in an entry page.
type YouTubeVideo struct {
	Label   string `yaml:"label"`
	VideoID string `yaml:"video_id"`
}

// Date is a calendar date in YYYY-MM-DD form.
type Date struct {
	time.Time
}

// UnmarshalYAML enforces the YYYY-MM-DD format.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Entry is one project's metadata record. Entries are authored by hand and
// are read-only inputs to the pipeline.
type Entry struct {
	VersionNumber int    `yaml:"version_number"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Explanation   string `yaml:"explanation"`

	FeaturedMedia LocalMedia     `yaml:"featured_media"`
	LocalMedia    []LocalMedia   `yaml:"local_media,omitempty"`
	YouTubeVideos []YouTubeVideo `yaml:"youtube_videos,omitempty"`

	Size     string   `yaml:"size"`
	Domain   string   `yaml:"domain"`
	TeamSize string   `yaml:"team_size"`
	Mediums  []string `yaml:"mediums"`

	PrimaryURL    Link   `yaml:"primary_url"`
	SecondaryURLs []Link `yaml:"secondary_urls,omitempty"`
	PressURLs     []Link `yaml:"press_urls,omitempty"`

	CompletionDate Date   `yaml:"completion_date"`
	Involvement    string `yaml:"involvement"`

	// Visible is a pointer so a missing field can be told apart from an
	// explicit false and reported as a validation error.
	Visible *bool `yaml:"visible"`

	// Set by the loader, not authored.
	Slug       string `yaml:"-"`
	Section    string `yaml:"-"`
	Dir        string `yaml:"-"`
	SourcePath string `yaml:"-"`
}

// IsVisible reports whether the entry participates in listing pages.
// Invisible entries still get a standalone page.
func (e *Entry) IsVisible() bool {
	return e.Visible != nil && *e.Visible
}

// Section describes one group of entries, discovered as a directory.
type Section struct {
	VersionNumber int        `yaml:"version_number"`
	Title         string     `yaml:"title"`
	Description   string     `yaml:"description"`
	PrimaryColor  string     `yaml:"primary_color"`
	Logo          LocalMedia `yaml:"logo"`
	// Rank controls presentation order; lower ranks appear first.
	Rank int `yaml:"rank"`

	Name       string   `yaml:"-"` // directory name
	Dir        string   `yaml:"-"`
	SourcePath string   `yaml:"-"`
	Entries    []*Entry `yaml:"-"`
}

// Portfolio is the whole content tree: the root descriptor plus sections.
type Portfolio struct {
	VersionNumber int    `yaml:"version_number"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Explanation   string `yaml:"explanation"`
	Conclusion    string `yaml:"conclusion"`
	Email         string `yaml:"email"`
	ContactURLs   []Link `yaml:"contact_urls"`

	Icon       LocalMedia `yaml:"icon"`
	Portrait   LocalMedia `yaml:"portrait"`
	ResumePath string     `yaml:"resume_path,omitempty"`

	Dir        string     `yaml:"-"`
	SourcePath string     `yaml:"-"`
	Sections   []*Section `yaml:"-"`
}

// Entries returns every loaded entry across all sections, in listing order.
func (p *Portfolio) Entries() []*Entry {
	var out []*Entry
	for _, s := range p.Sections {
		out = append(out, s.Entries...)
	}
	return out
}

// VisibleEntries returns the entries that participate in listings, in
// listing order.
func (p *Portfolio) VisibleEntries() []*Entry {
	var out []*Entry
	for _, e := range p.Entries() {
		if e.IsVisible() {
			out = append(out, e)
		}
	}
	return out
}
