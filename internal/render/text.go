package render

import (
	"regexp"

	"github.com/yuanying/mdz/internal/mdz"
)

// headingRe matches a run of '#' and the spaces after it at the start of a line.
var headingRe = regexp.MustCompile(`(?m)^#+[ \t]*`)

// strongRe matches **text** without nested asterisks.
var strongRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// emphasisRe matches *text* without nested asterisks.
var emphasisRe = regexp.MustCompile(`\*([^*]+)\*`)

// imageRe matches ![alt](url).
var imageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)

// linkRe matches [text](url).
var linkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

// RenderText strips common markdown syntax from the document content.
// It works on fixed patterns, not a markdown parse, so nested or
// overlapping markup is not handled.
func (r *Renderer) RenderText(doc *mdz.Document) (string, error) {
	text := doc.Content

	text = headingRe.ReplaceAllString(text, "")
	text = strongRe.ReplaceAllString(text, "$1")
	text = emphasisRe.ReplaceAllString(text, "$1")
	// Images go before links, otherwise "![alt](url)" would become "!alt"
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")

	return text, nil
}
