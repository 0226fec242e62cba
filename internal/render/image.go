package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"maps"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/yuanying/mdz/internal/mdz"
)

const (
	defaultJPEGQuality = 85
	defaultMaxPixels   = 100 * 1000 * 1000 // 100 megapixels
)

// mimeTypes maps lowercased file extensions to the MIME type used in data URLs.
var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
}

// MIMEType returns the MIME type for path based on its extension,
// or application/octet-stream when the extension is unknown.
func MIMEType(path string) string {
	if m, ok := mimeTypes[mdz.Extension(path)]; ok {
		return m
	}
	return "application/octet-stream"
}

// DataURL builds a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// inlineImages replaces literal image paths in the markdown with data URLs.
// Both the full stored path and the path without its "img/" prefix are
// replaced, in a single pass over the original text, so inserted data URLs
// are never rewritten. Full paths win over short forms at the same position.
// This is plain text substitution: any occurrence is replaced, including
// ones that are not image references.
func (r *Renderer) inlineImages(content string, images map[string][]byte) string {
	var full, short []string
	for _, path := range slices.Sorted(maps.Keys(images)) {
		if path == "" {
			continue
		}
		data := images[path]
		if r.optimizer != nil {
			opt := r.optimizer.Optimize(path, data)
			if opt.Warning != "" && r.Logger != nil {
				r.Logger.Warn("image left unoptimized", "path", path, "reason", opt.Warning)
			}
			data = opt.Data
		}

		dataURL := DataURL(MIMEType(path), data)
		full = append(full, path, dataURL)
		if s := strings.TrimPrefix(path, mdz.ImagePrefix); s != path && s != "" {
			short = append(short, s, dataURL)
		}
	}
	if len(full) == 0 {
		return content
	}
	return strings.NewReplacer(append(full, short...)...).Replace(content)
}

// ImageOptimizer downscales raster images before they are inlined.
type ImageOptimizer struct {
	MaxWidth    int
	JPEGQuality int
	MaxPixels   int // Total pixel count limit for decode (width * height)
}

// OptimizedImage holds the bytes to inline.
// Warning is set when the input was returned as-is because it could not be processed.
type OptimizedImage struct {
	Data    []byte
	Width   int
	Height  int
	Warning string
}

// NewImageOptimizer creates an optimizer with defaults for unset values.
func NewImageOptimizer(maxWidth, quality int) *ImageOptimizer {
	if quality <= 0 {
		quality = defaultJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}
	return &ImageOptimizer{
		MaxWidth:    maxWidth,
		JPEGQuality: quality,
		MaxPixels:   defaultMaxPixels,
	}
}

// Optimize resizes the image at path to MaxWidth when it is wider, keeping its
// format so the extension-derived MIME type stays correct. Formats imaging
// cannot encode (svg, webp, unknown) pass through untouched.
func (o *ImageOptimizer) Optimize(path string, input []byte) OptimizedImage {
	out := OptimizedImage{Data: input}

	format, err := imaging.FormatFromExtension(mdz.Extension(path))
	if err != nil {
		return out
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(input))
	if err != nil {
		out.Warning = fmt.Sprintf("image decode failed: %v", err)
		return out
	}
	out.Width, out.Height = cfg.Width, cfg.Height

	if o.MaxWidth <= 0 || cfg.Width <= o.MaxWidth {
		return out
	}
	// Decoding keeps only the first frame; leave animations as they are
	if format == imaging.GIF {
		if animated, err := isAnimatedGIF(input); err == nil && animated {
			return out
		}
	}
	pixels := uint64(cfg.Width) * uint64(cfg.Height)
	if o.MaxPixels > 0 && pixels > uint64(o.MaxPixels) {
		out.Warning = fmt.Sprintf("image too large to decode: %dx%d (%d pixels)", cfg.Width, cfg.Height, pixels)
		return out
	}

	src, err := imaging.Decode(bytes.NewReader(input))
	if err != nil {
		out.Warning = fmt.Sprintf("image decode failed: %v", err)
		return out
	}

	resized := imaging.Resize(src, o.MaxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(o.JPEGQuality)); err != nil {
		out.Warning = fmt.Sprintf("image encode failed: %v", err)
		return out
	}

	out.Data = buf.Bytes()
	out.Width = resized.Bounds().Dx()
	out.Height = resized.Bounds().Dy()
	return out
}

func isAnimatedGIF(data []byte) (bool, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return false, err
	}
	return len(g.Image) > 1, nil
}
