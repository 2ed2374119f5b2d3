package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/orgpress/orgpress/internal/document"
)

// headExtra builds the per-page <meta>/<link> block: canonical URL,
// description, Open Graph and Twitter card fields, and article metadata for
// documents tagged meta-type article.
func (r *Renderer) headExtra(d *document.Document) template.HTML {
	var b strings.Builder

	url := r.conf.BaseURL + d.Slug + ".html"
	desc := d.Description
	if desc == "" {
		desc = r.conf.Description
	}

	link(&b, "canonical", url)
	if desc != "" {
		meta(&b, "description", desc)
	}

	ogType := "website"
	if d.IsArticle() {
		ogType = "article"
	}
	metaProp(&b, "og:title", d.Title)
	metaProp(&b, "og:type", ogType)
	metaProp(&b, "og:url", url)
	if desc != "" {
		metaProp(&b, "og:description", desc)
	}
	if img := d.Tags["meta-image"]; img != "" {
		metaProp(&b, "og:image", r.conf.BaseURL+strings.TrimPrefix(img, "/"))
		meta(&b, "twitter:card", "summary_large_image")
	} else {
		meta(&b, "twitter:card", "summary")
	}
	meta(&b, "twitter:title", d.Title)
	if desc != "" {
		meta(&b, "twitter:description", desc)
	}

	if d.IsArticle() {
		author := d.Author
		if author == "" {
			author = r.conf.Author
		}
		if author != "" {
			metaProp(&b, "article:author", author)
		}
		if !d.Date.IsZero() {
			metaProp(&b, "article:published_time", d.Date.Format(time.RFC3339))
		}
	}

	return template.HTML(b.String())
}

func meta(b *strings.Builder, name, content string) {
	fmt.Fprintf(b, "<meta name=\"%s\" content=\"%s\"/>\n",
		template.HTMLEscapeString(name), template.HTMLEscapeString(content))
}

func metaProp(b *strings.Builder, property, content string) {
	fmt.Fprintf(b, "<meta property=\"%s\" content=\"%s\"/>\n",
		template.HTMLEscapeString(property), template.HTMLEscapeString(content))
}

func link(b *strings.Builder, rel, href string) {
	fmt.Fprintf(b, "<link rel=\"%s\" href=\"%s\"/>\n",
		template.HTMLEscapeString(rel), template.HTMLEscapeString(href))
}
