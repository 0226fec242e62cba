package mdz

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"
)

// Parse builds a Document from an MDZ container.
// It fails with KindMissingFile when main.md is absent.
func Parse(r Reader) (*Document, error) {
	return parse(r, time.Now)
}

// ParseBytes parses an MDZ container held in memory.
func ParseBytes(data []byte) (*Document, error) {
	a, err := NewArchiveFromBytes(data)
	if err != nil {
		return nil, err
	}
	return Parse(a)
}

// ParseFile parses the MDZ file at path.
func ParseFile(path string) (*Document, error) {
	a, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return Parse(a)
}

func parse(r Reader, now func() time.Time) (*Document, error) {
	content, err := readMainMD(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Content:  content,
		Images:   make(map[string][]byte),
		Metadata: extractMetadata(content, now),
	}

	if err := loadImages(r, doc); err != nil {
		return nil, err
	}

	css, err := loadCSS(r)
	if err != nil {
		return nil, err
	}
	doc.CSS = css

	return doc, nil
}

// readMainMD reads main.md as UTF-8 text
func readMainMD(r Reader) (string, error) {
	data, err := r.ReadFile(MainFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newError(KindMissingFile, "parse", MainFile, nil)
		}
		return "", wrapReadError("read main.md", MainFile, err)
	}
	if !utf8.Valid(data) {
		return "", ioErrorf("read main.md", MainFile, "stream did not contain valid UTF-8")
	}
	return string(data), nil
}

// extractMetadata takes the title from the first "# " heading.
// CreatedAt stays zero; only ModifiedAt is stamped.
func extractMetadata(content string, now func() time.Time) Metadata {
	meta := DefaultMetadata()

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			meta.Title = strings.TrimSpace(line[2:])
			break
		}
	}

	meta.ModifiedAt = now().UTC()
	return meta
}

// loadImages reads every non-directory entry under img/
func loadImages(r Reader, doc *Document) error {
	for i, e := range r.Entries() {
		if !strings.HasPrefix(e.Name, ImagePrefix) || strings.HasSuffix(e.Name, "/") {
			continue
		}
		data, err := r.ReadEntry(i)
		if err != nil {
			return wrapReadError("load images", e.Name, err)
		}
		doc.Images[e.Name] = data
	}
	return nil
}

// loadCSS reads css/style.css, returning nil when the entry is absent
func loadCSS(r Reader) (*string, error) {
	data, err := r.ReadFile(StyleFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, wrapReadError("load css", StyleFile, err)
	}
	if !utf8.Valid(data) {
		return nil, ioErrorf("load css", StyleFile, "stream did not contain valid UTF-8")
	}
	css := string(data)
	return &css, nil
}

// wrapReadError keeps an existing *Error kind and adds the operation;
// anything else from a Reader is treated as an IO failure.
func wrapReadError(op, path string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Op != "" {
			op += ": " + e.Op
		}
		return newError(e.Kind, op, path, e.Err)
	}
	return newError(KindIO, op, path, err)
}
