// Package feed assembles the full-content feed from the aggregated,
// sorted document list.
package feed

import (
	"fmt"
	"time"

	atom "github.com/thomas11/atomgenerator"

	"github.com/orgpress/orgpress/internal/aggregate"
	"github.com/orgpress/orgpress/internal/config"
	"github.com/orgpress/orgpress/internal/document"
)

// Builder implements both aggregator formatter roles for the feed project.
// The feed format is XML assembled whole, not concatenated text, so the
// entry strings the aggregator carries hold only the entry link: the real
// entries accumulate on the Builder as FormatEntry is called, and
// FormatList folds those, ignoring its entries argument. One Builder
// serves exactly one aggregation pass.
type Builder struct {
	conf *config.SiteConf

	// Rendered HTML bodies by slug, inlined as full entry content.
	bodies map[string]string

	entries []*atom.Entry
	newest  time.Time
}

func NewBuilder(conf *config.SiteConf, bodies map[string]string) *Builder {
	return &Builder{conf: conf, bodies: bodies}
}

func (b *Builder) FormatEntry(d *document.Document, _ aggregate.Style) (string, bool) {
	// Undated documents are static pages (404, about); a feed entry
	// without a publish date is invalid, so they stay out of the feed.
	if d.Date.IsZero() {
		return "", false
	}

	link := b.conf.BaseURL + d.Slug + ".html"

	e := &atom.Entry{
		Title:       d.Title,
		Description: d.Description,
		Link:        link,
		PubDate:     d.Date,
	}
	if body, ok := b.bodies[d.Slug]; ok {
		e.Content = body
	}

	b.entries = append(b.entries, e)
	if d.Date.After(b.newest) {
		b.newest = d.Date
	}
	return link, true
}

// FormatList builds the feed XML from the entries collected by FormatEntry.
// The feed timestamp is the newest entry's date rather than the wall clock,
// so re-publishing an unchanged source tree produces byte-identical output.
func (b *Builder) FormatList(title string, _ []string) ([]byte, error) {
	f := atom.Feed{
		Title:   title,
		Link:    b.conf.BaseURL,
		PubDate: b.newest,
	}
	f.AddAuthor(atom.Author{
		Name: b.conf.Author,
		Uri:  b.conf.AuthorURI,
	})
	for _, e := range b.entries {
		f.AddEntry(e)
	}

	if errs := f.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid feed: %w", errs[0])
	}
	return f.GenXml()
}
