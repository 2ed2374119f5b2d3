// Package document defines the source document model and the front-matter
// metadata reader.
package document

import (
	"cmp"
	"slices"
	"time"
)

// Document is one source file plus its metadata. Immutable once read;
// publishing re-reads from source, there is no metadata cache.
type Document struct {
	Path string
	Slug string

	Title        string
	Date         time.Time
	Author       string
	Description  string
	RedirectFrom string

	// Format-specific front-matter fields such as meta-type or meta-image.
	Tags map[string]string

	Body []byte
}

// IsArticle reports whether the document declares itself an article, which
// controls the article-specific head metadata.
func (d *Document) IsArticle() bool {
	return d.Tags["meta-type"] == "article"
}

// FormatDate renders the publish date the way pages and feed entries show it.
func (d *Document) FormatDate() string {
	return d.Date.Format("January 2, 2006")
}

// SortAntiChronological orders documents newest first, ties broken by
// source path so repeated runs list same-day documents identically.
func SortAntiChronological(docs []*Document) {
	slices.SortStableFunc(docs, func(a, b *Document) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}
