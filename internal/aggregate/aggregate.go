// Package aggregate folds a project's documents into one synthetic
// document: the human sitemap index or the feed.
package aggregate

import (
	"slices"

	"github.com/orgpress/orgpress/internal/document"
)

// Style selects the shape of formatted entries: a flat list for the
// sitemap, one subtree per entry for the feed.
type Style int

const (
	StyleList Style = iota
	StyleTree
)

// SyntheticDocument is a generated aggregate artifact. It is rebuilt in
// full on every run, never patched.
type SyntheticDocument struct {
	Slug  string
	Title string
	Body  []byte
}

// EntryFormatter renders one document to one entry. Returning ok=false or
// an empty string drops the entry silently; the 404 page is hidden from the
// sitemap this way while staying visible to projects with other formatters.
type EntryFormatter interface {
	FormatEntry(d *document.Document, style Style) (entry string, ok bool)
}

// ListFormatter folds the formatted entries into the synthetic body.
type ListFormatter interface {
	FormatList(title string, entries []string) ([]byte, error)
}

// Aggregate filters out excluded slugs, sorts the survivors newest first
// with source-path tie-breaking, formats each entry, and folds the result.
// The input slice is not modified.
func Aggregate(slug, title string, docs []*document.Document, exclude []string, style Style, ef EntryFormatter, lf ListFormatter) (*SyntheticDocument, error) {
	kept := make([]*document.Document, 0, len(docs))
	for _, d := range docs {
		if slices.Contains(exclude, d.Slug) {
			continue
		}
		kept = append(kept, d)
	}

	document.SortAntiChronological(kept)

	entries := make([]string, 0, len(kept))
	for _, d := range kept {
		e, ok := ef.FormatEntry(d, style)
		if !ok || e == "" {
			continue
		}
		entries = append(entries, e)
	}

	body, err := lf.FormatList(title, entries)
	if err != nil {
		return nil, err
	}

	return &SyntheticDocument{Slug: slug, Title: title, Body: body}, nil
}
