// Package site wires the project registry to the publish orchestrator: it
// reads documents, renders pages, aggregates the sitemap and feed, copies
// static trees, and generates redirects, collecting failures into a Report.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/otiai10/copy"
	"golang.org/x/sync/errgroup"

	"github.com/orgpress/orgpress/internal/aggregate"
	"github.com/orgpress/orgpress/internal/config"
	"github.com/orgpress/orgpress/internal/document"
	"github.com/orgpress/orgpress/internal/feed"
	"github.com/orgpress/orgpress/internal/logging"
	"github.com/orgpress/orgpress/internal/redirect"
	"github.com/orgpress/orgpress/internal/render"
)

// GlobalOptions are the per-run export toggles, passed explicitly so
// repeated runs within one process stay independent.
type GlobalOptions = render.Options

// Site holds everything one publish run needs. Documents are read once per
// run and shared across projects so a malformed document is reported
// exactly once.
type Site struct {
	conf     *config.SiteConf
	opts     GlobalOptions
	log      *slog.Logger
	reader   *document.Reader
	renderer *render.Renderer

	// Sorted newest-first once posts-html has materialized them.
	docs []*document.Document

	mu     sync.Mutex
	bodies map[string]string
}

// New prepares a publish run. Include-file problems surface here, before
// any project runs.
func New(conf *config.SiteConf, opts GlobalOptions) (*Site, error) {
	renderer, err := render.NewRenderer(conf, opts)
	if err != nil {
		return nil, err
	}
	return &Site{
		conf:     conf,
		opts:     opts,
		log:      logging.New("site"),
		reader:   document.NewReader(),
		renderer: renderer,
		bodies:   make(map[string]string),
	}, nil
}

// PublishAll runs the site meta-project: every registered project in order,
// stopping at the first fatal project failure. Per-document failures are
// collected and do not stop the run.
func (s *Site) PublishAll(ctx context.Context) *Report {
	registry := s.Projects()
	byName := make(map[string]Project, len(registry))
	var meta Project
	for _, p := range registry {
		byName[p.Name] = p
		if len(p.SubProjects) > 0 {
			meta = p
		}
	}

	report := &Report{}
	for _, name := range meta.SubProjects {
		p, ok := byName[name]
		if !ok || p.Publish == nil {
			report.Results = append(report.Results, ProjectResult{
				Name:  name,
				Fatal: fmt.Errorf("unknown project %q", name),
			})
			break
		}

		s.log.Info("publishing project", "project", name)
		res := ProjectResult{Name: name}
		p.Publish(ctx, p, &res)
		report.Results = append(report.Results, res)

		if res.Fatal != nil {
			s.log.Error("project failed", "project", name, "err", res.Fatal)
			break
		}
	}
	return report
}

func (s *Site) workers() int {
	if s.opts.Workers > 0 {
		return s.opts.Workers
	}
	return runtime.NumCPU()
}

func (s *Site) recordDocErr(res *ProjectResult, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res.DocErrors = append(res.DocErrors, DocError{Path: path, Err: err})
}

// publishPosts reads and renders every document, then folds the sitemap
// index. The sorted list is fully materialized before any parallel
// dispatch; aggregation never streams over concurrent results.
func (s *Site) publishPosts(ctx context.Context, p Project, res *ProjectResult) {
	files, err := document.FindFiles(p.SourceDir, s.conf.WritingFileExtension, p.Recursive)
	if err != nil {
		res.Fatal = fmt.Errorf("listing %v: %w", p.SourceDir, err)
		return
	}

	docs := make([]*document.Document, 0, len(files))
	for _, f := range files {
		if p.FileFilter != nil && !p.FileFilter(f) {
			continue
		}
		d, err := s.reader.Read(f)
		if err != nil {
			s.recordDocErr(res, f, err)
			continue
		}
		docs = append(docs, d)
	}
	document.SortAntiChronological(docs)
	s.docs = docs

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for _, d := range docs {
		d := d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			body, err := s.renderer.RenderDocument(d, p.OutDir)
			if err != nil {
				s.recordDocErr(res, d.Path, err)
				return nil
			}
			s.mu.Lock()
			s.bodies[d.Slug] = body
			s.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		res.Fatal = err
		return
	}

	syn, err := aggregate.Aggregate("index", s.conf.SiteTitle, docs, p.Exclude,
		aggregate.StyleList,
		&aggregate.SitemapEntryFormatter{Hidden: []string{"404"}},
		&aggregate.SitemapListFormatter{Lead: s.conf.Description})
	if err != nil {
		res.Fatal = err
		return
	}

	index := &document.Document{
		Slug:  syn.Slug,
		Title: syn.Title,
		Body:  syn.Body,
		Tags:  map[string]string{},
	}
	if _, err := s.renderer.RenderDocument(index, p.OutDir); err != nil {
		res.Fatal = err
	}
}

// publishFeed folds the same document list into rss.xml, with full
// rendered bodies inlined.
func (s *Site) publishFeed(ctx context.Context, p Project, res *ProjectResult) {
	s.mu.Lock()
	bodies := make(map[string]string, len(s.bodies))
	for k, v := range s.bodies {
		bodies[k] = v
	}
	s.mu.Unlock()

	b := feed.NewBuilder(s.conf, bodies)
	syn, err := aggregate.Aggregate("rss", s.conf.SiteTitle, s.docs, p.Exclude,
		aggregate.StyleTree, b, b)
	if err != nil {
		res.Fatal = err
		return
	}

	if err := os.MkdirAll(p.OutDir, 0o775); err != nil {
		res.Fatal = err
		return
	}
	out := filepath.Join(p.OutDir, syn.Slug+".xml")
	if err := os.WriteFile(out, syn.Body, 0o664); err != nil {
		res.Fatal = err
	}
}

// publishStatic recursively copies the static-files tree into the output
// directory. A missing source tree is not an error.
func (s *Site) publishStatic(ctx context.Context, p Project, res *ProjectResult) {
	s.copyTree(p.SourceDir, filepath.Join(p.OutDir, filepath.Base(p.SourceDir)), res)
}

// publishWellKnown copies .well-known verbatim, e.g. ACME challenge files.
func (s *Site) publishWellKnown(ctx context.Context, p Project, res *ProjectResult) {
	s.copyTree(p.SourceDir, p.OutDir, res)
}

func (s *Site) copyTree(src, dest string, res *ProjectResult) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		s.log.Info("skipping copy, source missing", "dir", src)
		return
	}
	s.log.Info("copying", "from", src, "to", dest)
	if err := copy.Copy(src, dest); err != nil {
		res.Fatal = err
	}
}

// publishRedirects generates the redirect pair for every document that
// declares redirect_from. Each document is an independent unit of work.
func (s *Site) publishRedirects(ctx context.Context, p Project, res *ProjectResult) {
	gen, err := redirect.NewGenerator(s.conf.RedirectLayout)
	if err != nil {
		// Affects every document consistently, so fatal.
		res.Fatal = err
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for _, d := range s.docs {
		d := d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := gen.Generate(d, p.OutDir)
			if err != nil {
				s.recordDocErr(res, d.Path, err)
				return nil
			}
			if a != nil {
				s.log.Info("redirect", "from", d.RedirectFrom, "to", a.Target)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		res.Fatal = err
	}
}
