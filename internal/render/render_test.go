package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgpress/orgpress/internal/config"
	"github.com/orgpress/orgpress/internal/document"
)

func testConf(t *testing.T) *config.SiteConf {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o664))
		return path
	}

	return &config.SiteConf{
		SiteTitle:   "My Site",
		BaseURL:     "https://example.org/",
		Author:      "Jane",
		Description: "Site description.",
		HeadFile:    write("head.html", `<link rel="stylesheet" href="/static/style.css"/>`),
		HeaderFile:  write("header.html", `<nav>the header</nav>`),
		FooterFile:  write("footer.html", `<footer>the footer</footer>`),
	}
}

func testDoc(t *testing.T, dir string) *document.Document {
	t.Helper()
	src := filepath.Join(dir, "a-post.md")
	require.NoError(t, os.WriteFile(src, []byte("# Heading\n\nSome *text*.\n"), 0o664))
	return &document.Document{
		Path:        src,
		Slug:        "a-post",
		Title:       "A Post",
		Date:        time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC),
		Description: "About a post.",
		Tags:        map[string]string{"meta-type": "article"},
		Body:        []byte("# Heading\n\nSome *text*.\n"),
	}
}

func TestRenderDocumentSplicesIncludes(t *testing.T) {
	conf := testConf(t)
	r, err := NewRenderer(conf, Options{Force: true})
	require.NoError(t, err)

	out := t.TempDir()
	d := testDoc(t, t.TempDir())
	body, err := r.RenderDocument(d, out)
	require.NoError(t, err)
	assert.Contains(t, body, "<em>text</em>")

	page, err := os.ReadFile(filepath.Join(out, "a-post.html"))
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, "<title>A Post</title>")
	assert.Contains(t, html, `<link rel="stylesheet" href="/static/style.css"/>`)
	assert.Contains(t, html, "<nav>the header</nav>")
	assert.Contains(t, html, "<footer>the footer</footer>")
	assert.Contains(t, html, "<em>text</em>")
}

func TestHeadExtraArticleMetadata(t *testing.T) {
	conf := testConf(t)
	r, err := NewRenderer(conf, Options{})
	require.NoError(t, err)

	d := testDoc(t, t.TempDir())
	extra := string(r.headExtra(d))

	assert.Contains(t, extra, `<link rel="canonical" href="https://example.org/a-post.html"/>`)
	assert.Contains(t, extra, `<meta name="description" content="About a post."/>`)
	assert.Contains(t, extra, `<meta property="og:type" content="article"/>`)
	assert.Contains(t, extra, `<meta property="og:url" content="https://example.org/a-post.html"/>`)
	assert.Contains(t, extra, `<meta name="twitter:card" content="summary"/>`)
	assert.Contains(t, extra, `<meta property="article:author" content="Jane"/>`)
	assert.Contains(t, extra, `<meta property="article:published_time" content="2021-06-15T00:00:00Z"/>`)
}

func TestHeadExtraWebsiteWithoutArticleTag(t *testing.T) {
	conf := testConf(t)
	r, err := NewRenderer(conf, Options{})
	require.NoError(t, err)

	d := testDoc(t, t.TempDir())
	d.Tags = map[string]string{}
	extra := string(r.headExtra(d))

	assert.Contains(t, extra, `<meta property="og:type" content="website"/>`)
	assert.NotContains(t, extra, "article:published_time")
}

func TestTimestampSkip(t *testing.T) {
	conf := testConf(t)
	r, err := NewRenderer(conf, Options{})
	require.NoError(t, err)

	out := t.TempDir()
	d := testDoc(t, t.TempDir())

	_, err = r.RenderDocument(d, out)
	require.NoError(t, err)

	// Mark the output newer than the source, then scribble on it; an
	// unforced render must leave it alone.
	outPath := filepath.Join(out, "a-post.html")
	require.NoError(t, os.WriteFile(outPath, []byte("scribble"), 0o664))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(outPath, future, future))

	body, err := r.RenderDocument(d, out)
	require.NoError(t, err)
	assert.Contains(t, body, "<em>text</em>") // body still rendered for the feed

	page, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "scribble", string(page))

	// Force overwrites.
	rf, err := NewRenderer(conf, Options{Force: true})
	require.NoError(t, err)
	_, err = rf.RenderDocument(d, out)
	require.NoError(t, err)
	page, err = os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotEqual(t, "scribble", string(page))
}

func TestSyntheticDocumentAlwaysWritten(t *testing.T) {
	conf := testConf(t)
	r, err := NewRenderer(conf, Options{})
	require.NoError(t, err)

	out := t.TempDir()
	syn := &document.Document{
		Slug:  "index",
		Title: "My Site",
		Body:  []byte("- [A Post](a-post.html)\n"),
		Tags:  map[string]string{},
	}

	_, err = r.RenderDocument(syn, out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestMissingIncludeFails(t *testing.T) {
	conf := testConf(t)
	conf.HeadFile = filepath.Join(t.TempDir(), "missing.html")
	_, err := NewRenderer(conf, Options{})
	require.Error(t, err)
}
