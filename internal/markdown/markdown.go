// Package markdown converts the free-text portfolio fields (descriptions,
// explanations, media labels) from Markdown to HTML.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var converter = goldmark.New(
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(util.Prioritized(&newTabLinkRenderer{}, 100)),
	),
)

// ToHTML renders a Markdown string to HTML. Absolute links open in a new tab.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToInlineHTML renders a single-line Markdown string (labels) to HTML and
// strips the wrapping paragraph goldmark emits around bare text.
func ToInlineHTML(source string) (string, error) {
	out, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out, nil
}

// newTabLinkRenderer replaces the default link renderer so absolute URLs get
// target="_blank" rel="noopener". Relative links (media references) are left
// untouched.
type newTabLinkRenderer struct{}

func (r *newTabLinkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindLink, r.renderLink)
}

func (r *newTabLinkRenderer) renderLink(w util.BufWriter, _ []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	n := node.(*gmast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return gmast.WalkContinue, nil
	}
	_, _ = w.WriteString("<a href=\"")
	if !gmhtml.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(" title=\"")
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	dest := string(n.Destination)
	if strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
		_, _ = w.WriteString(" target=\"_blank\" rel=\"noopener\"")
	}
	_ = w.WriteByte('>')
	return gmast.WalkContinue, nil
}
