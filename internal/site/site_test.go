package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgpress/orgpress/internal/config"
	"github.com/orgpress/orgpress/internal/redirect"
)

const redirectLayout = `<html><head><meta http-equiv="refresh" content="0; url=REDIRECT_TO"/></head></html>`

func testConf(t *testing.T) *config.SiteConf {
	t.Helper()
	base := t.TempDir()

	writing := filepath.Join(base, "writing")
	static := filepath.Join(base, "static")
	wellKnown := filepath.Join(base, ".well-known")
	templates := filepath.Join(base, "templates")
	for _, d := range []string{writing, static, wellKnown, templates} {
		require.NoError(t, os.MkdirAll(d, 0o775))
	}

	write(t, filepath.Join(templates, "redirect.html"), redirectLayout)
	write(t, filepath.Join(static, "style.css"), "body{}")
	write(t, filepath.Join(wellKnown, "acme-token.txt"), "token-contents")

	write(t, filepath.Join(writing, "old-post.md"), `---
title: Old Post
date: 2020-01-01
---

Old body.
`)
	write(t, filepath.Join(writing, "tie-a.md"), `---
title: Tie A
date: 2021-06-15
---

Body of *tie a*.
`)
	write(t, filepath.Join(writing, "tie-b.md"), `---
title: Tie B
date: 2021-06-15
---

Body of tie b.
`)
	write(t, filepath.Join(writing, "index.md"), `---
title: Hand-written Index
date: 2022-01-01
---

Should never be listed.
`)
	write(t, filepath.Join(writing, "404.md"), `---
title: Page Not Found
date: 2019-01-01
---

Nothing here.
`)
	write(t, filepath.Join(writing, "new-post.md"), `---
title: New Post
date: 2021-03-03
redirect_from: old-path
---

Moved body.
`)

	return &config.SiteConf{
		SiteTitle:            "My Site",
		BaseURL:              "https://example.org/",
		Author:               "Jane",
		AuthorURI:            "https://example.org/about.html",
		Description:          "Recent writing.",
		WritingDir:           writing,
		WritingFileExtension: ".md",
		StaticFilesDir:       static,
		WellKnownDir:         wellKnown,
		OutDir:               filepath.Join(base, "public"),
		RedirectLayout:       filepath.Join(templates, "redirect.html"),
		SitemapExclude:       []string{"rss", "index"},
		FeedExclude:          []string{"rss", "index", "404"},
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o664))
}

func publish(t *testing.T, conf *config.SiteConf) *Report {
	t.Helper()
	s, err := New(conf, GlobalOptions{Force: true, Workers: 2})
	require.NoError(t, err)
	return s.PublishAll(context.Background())
}

func TestPublishAllEndToEnd(t *testing.T) {
	conf := testConf(t)
	report := publish(t, conf)
	require.True(t, report.Ok(), report.Summary())

	// Sitemap: ties before the older post, tie in source-path order,
	// excluded and hidden slugs absent.
	index, err := os.ReadFile(filepath.Join(conf.OutDir, "index.html"))
	require.NoError(t, err)
	sitemap := string(index)

	posA := strings.Index(sitemap, "tie-a.html")
	posB := strings.Index(sitemap, "tie-b.html")
	posOld := strings.Index(sitemap, "old-post.html")
	require.True(t, posA > 0 && posB > 0 && posOld > 0, sitemap)
	assert.Less(t, posA, posB)
	assert.Less(t, posB, posOld)
	assert.NotContains(t, sitemap, "Hand-written Index")
	assert.NotContains(t, sitemap, "404.html")
	assert.Contains(t, sitemap, "Recent writing.")

	// Feed: present, same order, full body content, no 404.
	rss, err := os.ReadFile(filepath.Join(conf.OutDir, "rss.xml"))
	require.NoError(t, err)
	feedXML := string(rss)
	assert.Contains(t, feedXML, "Tie A")
	assert.Contains(t, feedXML, "tie b")
	assert.NotContains(t, feedXML, "Page Not Found")
	assert.Less(t, strings.Index(feedXML, "Tie A"), strings.Index(feedXML, "Old Post"))

	// Per-document pages.
	assert.FileExists(t, filepath.Join(conf.OutDir, "tie-a.html"))
	assert.FileExists(t, filepath.Join(conf.OutDir, "404.html"))

	// Static and well-known copies.
	assert.FileExists(t, filepath.Join(conf.OutDir, "static", "style.css"))
	assert.FileExists(t, filepath.Join(conf.OutDir, ".well-known", "acme-token.txt"))

	// Redirect pair.
	legacy := filepath.Join(conf.OutDir, "old-path", "index.html")
	friendly := filepath.Join(conf.OutDir, "new-post", "index.html")
	for _, p := range []string{legacy, friendly} {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(b), "/new-post.html")
	}
}

func TestRepublishIsIdempotent(t *testing.T) {
	conf := testConf(t)

	report := publish(t, conf)
	require.True(t, report.Ok(), report.Summary())
	index1, err := os.ReadFile(filepath.Join(conf.OutDir, "index.html"))
	require.NoError(t, err)
	rss1, err := os.ReadFile(filepath.Join(conf.OutDir, "rss.xml"))
	require.NoError(t, err)

	report = publish(t, conf)
	require.True(t, report.Ok(), report.Summary())
	index2, err := os.ReadFile(filepath.Join(conf.OutDir, "index.html"))
	require.NoError(t, err)
	rss2, err := os.ReadFile(filepath.Join(conf.OutDir, "rss.xml"))
	require.NoError(t, err)

	assert.Equal(t, index1, index2)
	assert.Equal(t, rss1, rss2)
}

func TestMalformedDocumentIsIsolated(t *testing.T) {
	conf := testConf(t)
	write(t, filepath.Join(conf.WritingDir, "broken.md"), `---
title: [unclosed
date: : :
---

Text.
`)

	report := publish(t, conf)
	assert.False(t, report.Ok())
	assert.Equal(t, 1, report.FailureCount())

	// The one failure sits in the posts project; siblings still published.
	var docErrs int
	for _, pr := range report.Results {
		require.NoError(t, pr.Fatal)
		docErrs += len(pr.DocErrors)
		if pr.Name == "posts-html" {
			require.Len(t, pr.DocErrors, 1)
			assert.Contains(t, pr.DocErrors[0].Path, "broken.md")
		}
	}
	assert.Equal(t, 1, docErrs)
	assert.FileExists(t, filepath.Join(conf.OutDir, "tie-a.html"))
	assert.FileExists(t, filepath.Join(conf.OutDir, "rss.xml"))
}

func TestUndatedPageDoesNotAbortPublish(t *testing.T) {
	conf := testConf(t)
	// Not in feed_exclude; the feed must skip it rather than fail, and
	// the projects after the feed must still run.
	write(t, filepath.Join(conf.WritingDir, "about.md"), `---
title: About Me
---

Who writes this.
`)

	report := publish(t, conf)
	require.True(t, report.Ok(), report.Summary())

	rss, err := os.ReadFile(filepath.Join(conf.OutDir, "rss.xml"))
	require.NoError(t, err)
	assert.NotContains(t, string(rss), "About Me")

	assert.FileExists(t, filepath.Join(conf.OutDir, "about.html"))
	assert.FileExists(t, filepath.Join(conf.OutDir, "static", "style.css"))
	assert.FileExists(t, filepath.Join(conf.OutDir, ".well-known", "acme-token.txt"))
	assert.FileExists(t, filepath.Join(conf.OutDir, "new-post", "index.html"))
}

func TestMissingRedirectLayoutIsFatal(t *testing.T) {
	conf := testConf(t)
	conf.RedirectLayout = filepath.Join(conf.WritingDir, "no-such-layout.html")

	report := publish(t, conf)
	assert.False(t, report.Ok())

	last := report.Results[len(report.Results)-1]
	assert.Equal(t, "redirects", last.Name)
	var missing *redirect.MissingLayoutError
	require.True(t, errors.As(last.Fatal, &missing))
}

func Test404FeedVisibilityFollowsFeedExcludeList(t *testing.T) {
	conf := testConf(t)
	conf.FeedExclude = []string{"rss", "index"}

	report := publish(t, conf)
	require.True(t, report.Ok(), report.Summary())

	rss, err := os.ReadFile(filepath.Join(conf.OutDir, "rss.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(rss), "Page Not Found")

	// The sitemap still hides it: the two exclusion lists are independent.
	index, err := os.ReadFile(filepath.Join(conf.OutDir, "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "404.html")
}

func TestRegistryOrderIsFixed(t *testing.T) {
	conf := testConf(t)
	s, err := New(conf, GlobalOptions{})
	require.NoError(t, err)

	var names []string
	var meta Project
	for _, p := range s.Projects() {
		if len(p.SubProjects) > 0 {
			meta = p
			continue
		}
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"posts-html", "posts-rss", "static", "well-known", "redirects"}, names)
	assert.Equal(t, names, meta.SubProjects)
}
