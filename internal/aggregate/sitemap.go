package aggregate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/orgpress/orgpress/internal/document"
)

// SitemapEntryFormatter renders one markdown link line per document.
// Hidden slugs are dropped at format time rather than at the project
// filter, so the same documents stay visible to the feed.
type SitemapEntryFormatter struct {
	Hidden []string
}

func (f *SitemapEntryFormatter) FormatEntry(d *document.Document, style Style) (string, bool) {
	if slices.Contains(f.Hidden, d.Slug) {
		return "", false
	}

	line := fmt.Sprintf("[%s](%s.html)", d.Title, d.Slug)
	if !d.Date.IsZero() {
		line += fmt.Sprintf(" <span class=\"sitemap-date\">%s</span>", d.FormatDate())
	}
	if style == StyleTree {
		return "## " + line, true
	}
	return "- " + line, true
}

// SitemapListFormatter joins entry lines into the index body, with an
// optional lead paragraph.
type SitemapListFormatter struct {
	Lead string
}

func (f *SitemapListFormatter) FormatList(title string, entries []string) ([]byte, error) {
	var b strings.Builder
	if f.Lead != "" {
		b.WriteString(f.Lead)
		b.WriteString("\n\n")
	}
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
