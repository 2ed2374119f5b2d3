// Package redirect synthesizes legacy-URL redirect pages from per-document
// redirect_from front matter.
package redirect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgpress/orgpress/internal/document"
)

// Placeholder is the literal token in the redirect layout replaced by the
// computed target path.
const Placeholder = "REDIRECT_TO"

// MissingLayoutError means the redirect layout file could not be read. It
// affects every document consistently, so it is fatal to the redirect run.
type MissingLayoutError struct {
	Path string
	Err  error
}

func (e *MissingLayoutError) Error() string {
	return fmt.Sprintf("redirect layout %v: %v", e.Path, e.Err)
}

func (e *MissingLayoutError) Unwrap() error { return e.Err }

// WriteError reports one failed redirect file write. A failed first write
// does not retract or retry the second one.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing redirect %v: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Artifact is the pair of redirect pages produced for one document: the
// historical URL and a friendly URL matching the document's own slug, both
// pointing at the canonical page.
type Artifact struct {
	LegacyPath   string
	FriendlyPath string
	Target       string
}

// Generator holds the loaded redirect layout for one run.
type Generator struct {
	layout []byte
}

// NewGenerator loads the layout once up front; the layout must contain the
// Placeholder token.
func NewGenerator(layoutPath string) (*Generator, error) {
	b, err := os.ReadFile(layoutPath)
	if err != nil {
		return nil, &MissingLayoutError{Path: layoutPath, Err: err}
	}
	if !bytes.Contains(b, []byte(Placeholder)) {
		return nil, &MissingLayoutError{
			Path: layoutPath,
			Err:  fmt.Errorf("layout lacks %v token", Placeholder),
		}
	}
	return &Generator{layout: b}, nil
}

// Generate writes the redirect pair for one document. Documents without
// redirect_from produce no artifact and no error; that is the frequent case.
func (g *Generator) Generate(d *document.Document, outRoot string) (*Artifact, error) {
	if d.RedirectFrom == "" {
		return nil, nil
	}

	target := "/" + d.Slug + ".html"
	content := bytes.ReplaceAll(g.layout, []byte(Placeholder), []byte(target))

	a := &Artifact{
		LegacyPath:   filepath.Join(outRoot, d.RedirectFrom, "index.html"),
		FriendlyPath: filepath.Join(outRoot, d.Slug, "index.html"),
		Target:       target,
	}

	// Both writes are attempted regardless of the other's outcome.
	err := errors.Join(
		writePage(a.LegacyPath, content),
		writePage(a.FriendlyPath, content),
	)
	if err != nil {
		return a, err
	}
	return a, nil
}

func writePage(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, content, 0o664); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
