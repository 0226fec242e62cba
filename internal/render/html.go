package render

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuanying/mdz/internal/mdz"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
%s
    </style>
</head>
<body>
%s
</body>
</html>`

// buildHTMLDocument wraps a converted body in the HTML5 shell.
func buildHTMLDocument(title, css, body string) string {
	// Escape any </style> tags in CSS to prevent breaking the HTML structure
	css = strings.ReplaceAll(css, "</style>", "<\\/style>")
	return fmt.Sprintf(htmlShell, html.EscapeString(title), css, body)
}

// reportUnembeddedImages logs img sources in the converted body that point
// neither at a data URL, an absolute URL, nor an image of the document.
func (r *Renderer) reportUnembeddedImages(body string, doc *mdz.Document) {
	if r.Logger == nil {
		return
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		r.Logger.Warn("failed to inspect rendered body", "error", err)
		return
	}

	d.Find("img[src]").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if strings.HasPrefix(src, "data:") {
			return
		}
		u, err := url.Parse(src)
		if err == nil && u.IsAbs() {
			return
		}
		if unescaped, err := url.PathUnescape(src); err == nil {
			src = unescaped
		}
		if _, ok := doc.Images[src]; ok {
			return
		}
		if _, ok := doc.Images[mdz.ImagePrefix+src]; ok {
			return
		}
		r.Logger.Warn("image reference not found in document", "src", src)
	})
}
