package render

import (
	"bytes"
	"log/slog"

	"github.com/yuanying/mdz/internal/mdz"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultTitle is used when neither the options nor the document provide a title.
const DefaultTitle = "MDZ Document"

// Options controls rendering.
type Options struct {
	IncludeCSS   bool
	Base64Images bool
	CustomCSS    *string // overrides the document stylesheet when non-nil
	HTMLTitle    string  // overrides the document title when non-empty

	// MaxImageWidth downscales inlined raster images wider than this.
	// Zero leaves image bytes untouched.
	MaxImageWidth int
	// JPEGQuality is used when a downscaled JPEG is re-encoded.
	JPEGQuality int
}

// DefaultOptions returns options with stylesheet and image inlining enabled.
func DefaultOptions() Options {
	return Options{
		IncludeCSS:   true,
		Base64Images: true,
		JPEGQuality:  defaultJPEGQuality,
	}
}

// Renderer converts MDZ documents into HTML or plain text.
// A Renderer holds no per-document state and may be reused.
type Renderer struct {
	Options Options
	// Logger receives diagnostics such as image references that were not
	// embedded. Nil disables them.
	Logger *slog.Logger

	md        goldmark.Markdown
	optimizer *ImageOptimizer
}

// New creates a renderer with the given options.
func New(opts Options) *Renderer {
	r := &Renderer{
		Options: opts,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Table,
				extension.Footnote,
				extension.TaskList,
			),
			// Raw HTML and data: URLs (including SVG) must reach the output.
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
	if opts.MaxImageWidth > 0 {
		r.optimizer = NewImageOptimizer(opts.MaxImageWidth, opts.JPEGQuality)
	}
	return r
}

// RenderHTML renders doc as a standalone HTML5 document.
func (r *Renderer) RenderHTML(doc *mdz.Document) (string, error) {
	markdown := doc.Content
	if r.Options.Base64Images {
		markdown = r.inlineImages(markdown, doc.Images)
	}

	var body bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &body); err != nil {
		return "", &mdz.Error{Kind: mdz.KindRender, Op: "convert markdown", Err: err}
	}

	r.reportUnembeddedImages(body.String(), doc)

	return buildHTMLDocument(r.title(doc), r.stylesheet(doc), body.String()), nil
}

// title resolves the option title, then the document title, then DefaultTitle.
func (r *Renderer) title(doc *mdz.Document) string {
	if r.Options.HTMLTitle != "" {
		return r.Options.HTMLTitle
	}
	if doc.Metadata.Title != "" {
		return doc.Metadata.Title
	}
	return DefaultTitle
}

// stylesheet resolves custom CSS, then document CSS, then DefaultCSS.
func (r *Renderer) stylesheet(doc *mdz.Document) string {
	if !r.Options.IncludeCSS {
		return ""
	}
	if r.Options.CustomCSS != nil {
		return *r.Options.CustomCSS
	}
	if doc.CSS != nil {
		return *doc.CSS
	}
	return DefaultCSS
}
