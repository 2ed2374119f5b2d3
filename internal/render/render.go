// Package render emits one HTML page per document: markdown body, literal
// head/header/footer includes, and per-page head metadata.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/orgpress/orgpress/internal/config"
	"github.com/orgpress/orgpress/internal/document"
)

// Options are the export toggles for one publish run, passed explicitly
// through the call chain rather than held in process-wide state.
type Options struct {
	// Force renders every document even when the output file is newer
	// than its source.
	Force       bool
	TOC         bool
	SmartQuotes bool
	// Workers bounds per-document parallelism in the orchestrator.
	Workers int
}

// RenderError reports a failed render of a single document. The enclosing
// project continues with its remaining documents.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %v: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
{{.Head}}{{.HeadExtra}}</head>
<body>
{{.Header}}<main>
{{.Body}}</main>
{{.Footer}}</body>
</html>
`

type pageParam struct {
	Title     string
	Head      template.HTML
	HeadExtra template.HTML
	Header    template.HTML
	Footer    template.HTML
	Body      template.HTML
}

// Renderer writes <outDir>/<slug>.html pages. Safe for concurrent use
// across distinct documents; all mutable state is per-call.
type Renderer struct {
	conf *config.SiteConf
	opts Options
	md   BodyRenderer
	page *template.Template

	head, header, footer template.HTML
}

// NewRenderer loads the include files once and prepares the page shell.
func NewRenderer(conf *config.SiteConf, opts Options) (*Renderer, error) {
	r := &Renderer{
		conf: conf,
		opts: opts,
		md:   NewMarkdownRenderer(opts),
		page: template.Must(template.New("page").Parse(pageTemplate)),
	}

	var err error
	if r.head, err = readInclude(conf.HeadFile); err != nil {
		return nil, err
	}
	if r.header, err = readInclude(conf.HeaderFile); err != nil {
		return nil, err
	}
	if r.footer, err = readInclude(conf.FooterFile); err != nil {
		return nil, err
	}
	return r, nil
}

// Include files are spliced into every page verbatim.
func readInclude(path string) (template.HTML, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading include %v: %w", path, err)
	}
	return template.HTML(b), nil
}

// RenderDocument writes the document's page and returns the rendered body
// HTML so the feed can inline full content. The body is always rendered;
// only the file write honors the timestamp skip.
func (r *Renderer) RenderDocument(d *document.Document, outDir string) (string, error) {
	body := r.md.Render(d.Body)

	outPath := filepath.Join(outDir, d.Slug+".html")
	if !r.opts.Force && upToDate(d.Path, outPath) {
		return body, nil
	}

	var b bytes.Buffer
	err := r.page.Execute(&b, pageParam{
		Title:     d.Title,
		Head:      r.head,
		HeadExtra: r.headExtra(d),
		Header:    r.header,
		Footer:    r.footer,
		Body:      template.HTML(body),
	})
	if err != nil {
		return "", &RenderError{Path: d.Path, Err: err}
	}

	if err := os.MkdirAll(outDir, 0o775); err != nil {
		return "", &RenderError{Path: d.Path, Err: err}
	}
	if err := os.WriteFile(outPath, b.Bytes(), 0o664); err != nil {
		return "", &RenderError{Path: d.Path, Err: err}
	}
	return body, nil
}

// upToDate reports whether the output is at least as new as the source.
// Synthetic documents have no source path and are always rewritten.
func upToDate(srcPath, outPath string) bool {
	if srcPath == "" {
		return false
	}
	src, err := os.Stat(srcPath)
	if err != nil {
		return false
	}
	out, err := os.Stat(outPath)
	if err != nil {
		return false
	}
	return !out.ModTime().Before(src.ModTime())
}
