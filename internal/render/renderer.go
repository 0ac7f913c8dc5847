// Package render maps validated portfolio records onto HTML documents.
// It never touches the filesystem output; copying media is the assembler's
// job.
package render

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"

	ferrors "github.com/esologic/folio/internal/errors"
	"github.com/esologic/folio/internal/markdown"
	"github.com/esologic/folio/internal/portfolio"
)

// SiteMeta carries the presentation settings shared by every page.
type SiteMeta struct {
	Title       string
	Description string
	BaseURL     string
}

// Renderer renders entry and index pages from fixed templates.
type Renderer struct {
	site     SiteMeta
	entryTpl *template.Template
	indexTpl *template.Template
}

// NewRenderer builds a Renderer using the embedded templates.
func NewRenderer(site SiteMeta) (*Renderer, error) {
	return newRenderer(site, entryTemplate, indexTemplate)
}

// NewRendererWithOverrides builds a Renderer, preferring template files named
// entry.html and index.html in overrideDir when present.
func NewRendererWithOverrides(site SiteMeta, overrideDir string) (*Renderer, error) {
	entrySrc, err := overrideOrDefault(overrideDir, "entry.html", entryTemplate)
	if err != nil {
		return nil, err
	}
	indexSrc, err := overrideOrDefault(overrideDir, "index.html", indexTemplate)
	if err != nil {
		return nil, err
	}
	return newRenderer(site, entrySrc, indexSrc)
}

func newRenderer(site SiteMeta, entrySrc, indexSrc string) (*Renderer, error) {
	// missingkey=error turns a template placeholder without matching data
	// into a hard RenderError instead of "<no value>" output.
	entryTpl, err := template.New("entry").Option("missingkey=error").Parse(entrySrc)
	if err != nil {
		return nil, ferrors.RenderError("entry", err)
	}
	indexTpl, err := template.New("index").Option("missingkey=error").Parse(indexSrc)
	if err != nil {
		return nil, ferrors.RenderError("index", err)
	}
	return &Renderer{site: site, entryTpl: entryTpl, indexTpl: indexTpl}, nil
}

func overrideOrDefault(dir, name, fallback string) (string, error) {
	if dir == "" {
		return fallback, nil
	}
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fallback, nil
	}
	if err != nil {
		return "", ferrors.IOError("read template override", err)
	}
	return string(data), nil
}

// RenderEntry produces the standalone HTML document for one entry.
func (r *Renderer) RenderEntry(e *portfolio.Entry) (string, error) {
	data, err := entryData(e)
	if err != nil {
		return "", ferrors.RenderError(e.Slug, err)
	}
	page := map[string]any{
		"Site":  siteData(r.site),
		"Entry": data,
	}
	var buf bytes.Buffer
	if err := r.entryTpl.Execute(&buf, page); err != nil {
		return "", ferrors.RenderError(e.Slug, err)
	}
	return buf.String(), nil
}

// RenderIndex produces the listing document enumerating visible entries,
// grouped by section. Invisible entries never appear here.
func (r *Renderer) RenderIndex(p *portfolio.Portfolio) (string, error) {
	description, err := markdown.ToHTML(p.Description)
	if err != nil {
		return "", ferrors.RenderError("index", err)
	}
	explanation, err := markdown.ToHTML(p.Explanation)
	if err != nil {
		return "", ferrors.RenderError("index", err)
	}
	conclusion, err := markdown.ToHTML(p.Conclusion)
	if err != nil {
		return "", ferrors.RenderError("index", err)
	}

	sections := make([]map[string]any, 0, len(p.Sections))
	for _, s := range p.Sections {
		entries := make([]map[string]any, 0, len(s.Entries))
		for _, e := range s.Entries {
			if !e.IsVisible() {
				continue
			}
			data, err := entryData(e)
			if err != nil {
				return "", ferrors.RenderError(e.Slug, err)
			}
			entries = append(entries, data)
		}
		sectionDescription, err := markdown.ToHTML(s.Description)
		if err != nil {
			return "", ferrors.RenderError("index", err)
		}
		logo, err := mediaData(s.Logo, s.Name)
		if err != nil {
			return "", ferrors.RenderError("index", err)
		}
		sections = append(sections, map[string]any{
			"Name":         s.Name,
			"Title":        s.Title,
			"Description":  template.HTML(sectionDescription),
			"PrimaryColor": s.PrimaryColor,
			"Logo":         logo,
			"Entries":      entries,
		})
	}

	contacts := make([]map[string]any, 0, len(p.ContactURLs))
	for _, l := range p.ContactURLs {
		data, err := linkData(l)
		if err != nil {
			return "", ferrors.RenderError("index", err)
		}
		contacts = append(contacts, data)
	}

	icon, err := mediaData(p.Icon, "")
	if err != nil {
		return "", ferrors.RenderError("index", err)
	}
	portrait, err := mediaData(p.Portrait, "")
	if err != nil {
		return "", ferrors.RenderError("index", err)
	}

	page := map[string]any{
		"Site":        siteData(r.site),
		"Title":       p.Title,
		"Description": template.HTML(description),
		"Explanation": template.HTML(explanation),
		"Conclusion":  template.HTML(conclusion),
		"Email":       p.Email,
		"ContactURLs": contacts,
		"Sections":    sections,
		"Icon":        icon,
		"Portrait":    portrait,
		"ResumePath":  filepath.ToSlash(p.ResumePath),
	}
	var buf bytes.Buffer
	if err := r.indexTpl.Execute(&buf, page); err != nil {
		return "", ferrors.RenderError("index", err)
	}
	return buf.String(), nil
}

func siteData(site SiteMeta) map[string]any {
	return map[string]any{
		"Title":       site.Title,
		"Description": site.Description,
		"BaseURL":     site.BaseURL,
	}
}

// entryData flattens an Entry into template data. Free-text fields go
// through the Markdown transform; everything else is escaped by
// html/template on output.
func entryData(e *portfolio.Entry) (map[string]any, error) {
	description, err := markdown.ToHTML(e.Description)
	if err != nil {
		return nil, err
	}
	explanation, err := markdown.ToHTML(e.Explanation)
	if err != nil {
		return nil, err
	}
	involvement, err := markdown.ToInlineHTML(e.Involvement)
	if err != nil {
		return nil, err
	}

	primary, err := linkData(e.PrimaryURL)
	if err != nil {
		return nil, err
	}
	secondary, err := linkListData(e.SecondaryURLs)
	if err != nil {
		return nil, err
	}
	press, err := linkListData(e.PressURLs)
	if err != nil {
		return nil, err
	}

	localMedia := make([]map[string]any, 0, len(e.LocalMedia))
	for _, m := range e.LocalMedia {
		data, err := mediaData(m, "")
		if err != nil {
			return nil, err
		}
		localMedia = append(localMedia, data)
	}
	videos := make([]map[string]any, 0, len(e.YouTubeVideos))
	for _, v := range e.YouTubeVideos {
		videos = append(videos, map[string]any{
			"Label":   v.Label,
			"VideoID": v.VideoID,
		})
	}

	featured, err := mediaData(e.FeaturedMedia, "")
	if err != nil {
		return nil, err
	}
	// The index page lives above the entry directory, so it needs the
	// featured image addressed from the site root.
	featuredFromRoot, err := mediaData(e.FeaturedMedia, e.Section+"/"+e.Slug)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"Slug":                  e.Slug,
		"Section":               e.Section,
		"Title":                 e.Title,
		"Description":           template.HTML(description),
		"Explanation":           template.HTML(explanation),
		"Involvement":           template.HTML(involvement),
		"Domain":                e.DisplayDomain(),
		"Size":                  e.Size,
		"TeamSize":              e.DisplayTeamSize(),
		"Mediums":               e.DisplayMediums(),
		"CompletionDate":        e.CompletionDate.Format("2006-01-02"),
		"CompletionDateVerbose": e.CompletionDateVerbose(),
		"CompletionYear":        e.CompletionYear(),
		"PrimaryURL":            primary,
		"SecondaryURLs":         secondary,
		"PressURLs":             press,
		"FeaturedMedia":         featured,
		"FeaturedMediaFromRoot": featuredFromRoot,
		"LocalMedia":            localMedia,
		"YouTubeVideos":         videos,
		"Visible":               e.IsVisible(),
		"Href":                  e.Section + "/" + e.Slug + "/",
	}, nil
}

func linkData(l portfolio.Link) (map[string]any, error) {
	label, err := markdown.ToInlineHTML(l.Label)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Label": template.HTML(label),
		"URL":   l.URL,
	}, nil
}

func linkListData(links []portfolio.Link) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(links))
	for _, l := range links {
		data, err := linkData(l)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// mediaData keeps the media reference relative. prefix is prepended for
// pages that live above the media's directory (the index page referencing
// section logos or entry thumbnails).
func mediaData(m portfolio.LocalMedia, prefix string) (map[string]any, error) {
	label, err := markdown.ToInlineHTML(m.Label)
	if err != nil {
		return nil, err
	}
	path := filepath.ToSlash(m.Path)
	if prefix != "" {
		path = prefix + "/" + path
	}
	return map[string]any{
		"Label": template.HTML(label),
		"Path":  path,
	}, nil
}
