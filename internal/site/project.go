package site

import (
	"context"
	"path/filepath"
	"strings"
)

// PublishFunc runs one project, appending per-document failures to res and
// setting res.Fatal for project-level failures.
type PublishFunc func(ctx context.Context, p Project, res *ProjectResult)

// Project is one declarative publishing unit. The set of projects is a
// fixed ordered list; adding or removing one is a data change, not a
// control-flow change.
type Project struct {
	Name       string
	SourceDir  string
	FileFilter func(path string) bool
	Recursive  bool
	OutDir     string

	// Slugs excluded from this project's aggregation pass. Each project
	// owns its list; the sitemap's and the feed's are independent.
	Exclude []string

	Publish PublishFunc

	// Set only on the site meta-project, which sequences the named
	// projects and stops on the first fatal failure.
	SubProjects []string
}

// Projects returns the registry in execution order, ending with the site
// meta-project.
func (s *Site) Projects() []Project {
	ext := s.conf.WritingFileExtension

	return []Project{
		{
			Name:       "posts-html",
			SourceDir:  s.conf.WritingDir,
			FileFilter: func(p string) bool { return strings.HasSuffix(p, ext) },
			Recursive:  true,
			OutDir:     s.conf.OutDir,
			Exclude:    s.conf.SitemapExclude,
			Publish:    s.publishPosts,
		},
		{
			Name:    "posts-rss",
			OutDir:  s.conf.OutDir,
			Exclude: s.conf.FeedExclude,
			Publish: s.publishFeed,
		},
		{
			Name:      "static",
			SourceDir: s.conf.StaticFilesDir,
			OutDir:    s.conf.OutDir,
			Publish:   s.publishStatic,
		},
		{
			Name:      "well-known",
			SourceDir: s.conf.WellKnownDir,
			OutDir:    filepath.Join(s.conf.OutDir, ".well-known"),
			Publish:   s.publishWellKnown,
		},
		{
			Name:    "redirects",
			OutDir:  s.conf.OutDir,
			Publish: s.publishRedirects,
		},
		{
			Name:        "site",
			SubProjects: []string{"posts-html", "posts-rss", "static", "well-known", "redirects"},
		},
	}
}
