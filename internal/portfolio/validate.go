package portfolio

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ferrors "github.com/esologic/folio/internal/errors"
)

// Validation runs entirely before any rendering. A dangling media reference
// is an error here, never a silent skip later.

func validateEntry(e *Entry) *ferrors.List {
	errs := &ferrors.List{}
	path := e.SourcePath

	requireText(errs, path, "title", e.Title)
	requireText(errs, path, "description", e.Description)
	requireText(errs, path, "explanation", e.Explanation)
	requireText(errs, path, "involvement", e.Involvement)
	requireText(errs, path, "domain", e.Domain)
	requireText(errs, path, "size", e.Size)
	requireText(errs, path, "team_size", e.TeamSize)

	if e.CompletionDate.IsZero() {
		errs.Add(ferrors.ValidationError(path, "completion_date", "required field is missing or empty"))
	}
	if e.Visible == nil {
		errs.Add(ferrors.ValidationError(path, "visible", "required field is missing"))
	}
	if len(e.Mediums) == 0 {
		errs.Add(ferrors.ValidationError(path, "mediums", "at least one medium is required"))
	}
	for i, m := range e.Mediums {
		if m == "" {
			errs.Add(ferrors.ValidationError(path, indexed("mediums", i), "medium tag must not be empty"))
		}
	}

	validateLink(errs, path, "primary_url", e.PrimaryURL, true)
	for i, l := range e.SecondaryURLs {
		validateLink(errs, path, indexed("secondary_urls", i), l, true)
	}
	for i, l := range e.PressURLs {
		validateLink(errs, path, indexed("press_urls", i), l, true)
	}

	validateMedia(errs, path, e.Dir, "featured_media", e.FeaturedMedia, true)
	for i, m := range e.LocalMedia {
		validateMedia(errs, path, e.Dir, indexed("local_media", i), m, true)
	}
	for i, v := range e.YouTubeVideos {
		field := indexed("youtube_videos", i)
		if strings.TrimSpace(v.Label) == "" {
			errs.Add(ferrors.ValidationError(path, field+".label", "required field is missing or empty"))
		}
		if strings.TrimSpace(v.VideoID) == "" {
			errs.Add(ferrors.ValidationError(path, field+".video_id", "required field is missing or empty"))
		}
	}

	return errs
}

func validateSection(s *Section) *ferrors.List {
	errs := &ferrors.List{}
	path := s.SourcePath

	requireText(errs, path, "title", s.Title)
	requireText(errs, path, "description", s.Description)
	requireText(errs, path, "primary_color", s.PrimaryColor)
	validateMedia(errs, path, s.Dir, "logo", s.Logo, true)

	return errs
}

func validatePortfolio(p *Portfolio) *ferrors.List {
	errs := &ferrors.List{}
	path := p.SourcePath

	requireText(errs, path, "title", p.Title)
	requireText(errs, path, "description", p.Description)
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		errs.Add(ferrors.ValidationError(path, "email", "not a valid email address"))
	}
	for i, l := range p.ContactURLs {
		validateLink(errs, path, indexed("contact_urls", i), l, true)
	}
	validateMedia(errs, path, p.Dir, "icon", p.Icon, true)
	validateMedia(errs, path, p.Dir, "portrait", p.Portrait, true)
	if p.ResumePath != "" {
		validateMedia(errs, path, p.Dir, "resume_path", LocalMedia{Label: "resume", Path: p.ResumePath}, true)
	}

	return errs
}

func requireText(errs *ferrors.List, path, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(ferrors.ValidationError(path, field, "required field is missing or empty"))
	}
}

func validateLink(errs *ferrors.List, path, field string, l Link, required bool) {
	if !required && l.Label == "" && l.URL == "" {
		return
	}
	if strings.TrimSpace(l.Label) == "" {
		errs.Add(ferrors.ValidationError(path, field+".label", "required field is missing or empty"))
	}
	u, err := url.Parse(l.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Add(ferrors.ValidationError(path, field+".link", "not a valid http(s) URL"))
	}
}

// validateMedia checks the label and that the referenced path resolves to an
// existing regular file inside the record's directory.
func validateMedia(errs *ferrors.List, path, dir, field string, m LocalMedia, required bool) {
	if !required && m.Label == "" && m.Path == "" {
		return
	}
	if strings.TrimSpace(m.Label) == "" {
		errs.Add(ferrors.ValidationError(path, field+".label", "required field is missing or empty"))
	}
	if strings.TrimSpace(m.Path) == "" {
		errs.Add(ferrors.ValidationError(path, field+".path", "required field is missing or empty"))
		return
	}
	if filepath.IsAbs(m.Path) || strings.HasPrefix(filepath.Clean(m.Path), "..") {
		errs.Add(ferrors.ValidationError(path, field+".path", "media path must stay inside the entry directory"))
		return
	}
	if err := mediaFileExists(filepath.Join(dir, m.Path)); err != nil {
		errs.Add(ferrors.ValidationError(path, field+".path", "media file does not exist: "+m.Path))
	}
}

func mediaFileExists(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

func indexed(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}
