package render

import (
	blackfriday "github.com/russross/blackfriday/v2"
)

// BodyRenderer converts a document body to HTML.
type BodyRenderer interface {
	Render(in []byte) string
}

const extensions = blackfriday.NoIntraEmphasis |
	blackfriday.Tables |
	blackfriday.FencedCode |
	blackfriday.Autolink |
	blackfriday.Strikethrough

// NewMarkdownRenderer builds the blackfriday-backed body renderer. The
// smart-quote and table-of-contents toggles come from the run's options.
func NewMarkdownRenderer(opts Options) BodyRenderer {
	flags := blackfriday.UseXHTML
	if opts.SmartQuotes {
		flags |= blackfriday.Smartypants | blackfriday.SmartypantsFractions | blackfriday.SmartypantsLatexDashes
	}
	if opts.TOC {
		flags |= blackfriday.TOC
	}
	return &markdownRenderer{flags: flags}
}

type markdownRenderer struct {
	flags blackfriday.HTMLFlags
}

// Render is safe for concurrent use: the HTML renderer keeps per-run state,
// so each call gets a fresh one.
func (m *markdownRenderer) Render(in []byte) string {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: m.flags,
	})
	return string(blackfriday.Run(in, blackfriday.WithRenderer(r), blackfriday.WithExtensions(extensions)))
}
