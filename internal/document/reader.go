package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// MalformedDocumentError reports a document whose front matter could not be
// read. The orchestrator records it and continues with sibling documents.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %v: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

var yamlFences = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type rawMeta struct {
	Title        string `yaml:"title"`
	Date         string `yaml:"date"`
	Author       string `yaml:"author"`
	Description  string `yaml:"description"`
	RedirectFrom string `yaml:"redirect_from"`
	// Unknown fields land here. Values need not be strings (draft: true
	// is fine); they are coerced on the way into Document.Tags.
	Tags map[string]any `yaml:",inline"`
}

// Reader extracts typed metadata from source documents, so nothing else in
// the pipeline touches raw file text.
type Reader struct {
	titler cases.Caser
}

func NewReader() *Reader {
	return &Reader{titler: cases.Title(language.English)}
}

// Read parses one document. Front matter is fenced YAML; everything after
// the closing fence is the body.
func (r *Reader) Read(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var meta rawMeta
	body, err := frontmatter.Parse(f, &meta, yamlFences)
	if err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}

	slug := baseName(path)

	d := &Document{
		Path:         path,
		Slug:         slug,
		Title:        meta.Title,
		Author:       meta.Author,
		Description:  meta.Description,
		RedirectFrom: meta.RedirectFrom,
		Tags:         make(map[string]string, len(meta.Tags)),
		Body:         body,
	}
	for k, v := range meta.Tags {
		if v == nil {
			continue
		}
		d.Tags[k] = fmt.Sprint(v)
	}
	if d.Title == "" {
		d.Title = r.titler.String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	}

	d.Date, err = resolveDate(meta.Date, slug)
	if err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}

	return d, nil
}

// resolveDate takes the front-matter date if present, otherwise a
// YYYY-MM-DD filename prefix. A document without either is a static page
// with the zero date, which sorts after everything dated. A date that is
// present but unparsable is a loud failure, never a silent default.
func resolveDate(raw, slug string) (time.Time, error) {
	if raw != "" {
		for _, f := range dateFormats {
			if t, err := time.Parse(f, raw); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable date %q", raw)
	}

	const stamp = "2006-01-02"
	if len(slug) >= len(stamp) {
		if t, err := time.Parse(stamp, slug[:len(stamp)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// FindFiles lists the source files under dir carrying the extension. With
// recursive false only dir's immediate entries are considered.
func FindFiles(dir, fileExtension string, recursive bool) ([]string, error) {
	files := make([]string, 0, 100)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, fileExtension) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
