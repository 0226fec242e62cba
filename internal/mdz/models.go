package mdz

import "time"

// DefaultVersion is the metadata version given to every new document.
const DefaultVersion = "1.0"

// Well-known entry names and prefixes inside an MDZ container.
const (
	MainFile    = "main.md"
	StyleFile   = "css/style.css"
	ImagePrefix = "img/"
	CSSPrefix   = "css/"
)

// Document is an in-memory MDZ document.
type Document struct {
	Content  string
	Images   map[string][]byte // archive path (e.g. "img/a.png") -> payload
	CSS      *string           // nil when the container has no css/style.css
	Metadata Metadata
}

// Metadata describes a document.
// Zero values mean unset: Title "" and zero timestamps.
type Metadata struct {
	Title      string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Version    string
}

// DefaultMetadata returns metadata with only the version set.
func DefaultMetadata() Metadata {
	return Metadata{Version: DefaultVersion}
}

// NewDocument creates a document with no images, no stylesheet and default metadata.
func NewDocument(content string) *Document {
	return &Document{
		Content:  content,
		Images:   make(map[string][]byte),
		Metadata: DefaultMetadata(),
	}
}

// AddImage stores data under path, replacing any previous entry.
// The path is kept as given.
func (d *Document) AddImage(path string, data []byte) {
	if d.Images == nil {
		d.Images = make(map[string][]byte)
	}
	d.Images[path] = data
}

// SetCSS replaces the document stylesheet.
func (d *Document) SetCSS(css string) {
	d.CSS = &css
}

// HasCSS reports whether the document carries a stylesheet.
func (d *Document) HasCSS() bool {
	return d.CSS != nil
}
