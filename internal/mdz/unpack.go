package mdz

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// UnpackOptions controls Unpack.
type UnpackOptions struct {
	Force  bool // allow extracting into an existing directory
	Logger *slog.Logger
}

// Unpack extracts every entry of r below destDir and returns the number of
// entries processed. If any entry name would escape destDir, nothing is
// written. A later read or write failure leaves the entries extracted so far
// on disk.
func Unpack(r Reader, destDir string, opts UnpackOptions) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries := r.Entries()
	for _, e := range entries {
		if !filepath.IsLocal(filepath.FromSlash(e.Name)) {
			return 0, newError(KindInvalidFormat, "unpack", e.Name, fmt.Errorf("entry escapes output directory"))
		}
	}

	if _, err := os.Stat(destDir); err == nil && !opts.Force {
		return 0, ioErrorf("unpack", destDir, "output directory already exists")
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, newError(KindIO, "create output directory", destDir, err)
	}

	for i, e := range entries {
		target := filepath.Join(destDir, filepath.FromSlash(e.Name))

		if e.IsDir {
			logger.Debug("creating directory", "name", e.Name)
			if err := os.MkdirAll(target, 0755); err != nil {
				return i, newError(KindIO, "create directory", target, err)
			}
			continue
		}

		logger.Debug("extracting", "name", e.Name)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return i, newError(KindIO, "create parent directory", filepath.Dir(target), err)
		}
		data, err := r.ReadEntry(i)
		if err != nil {
			return i, wrapReadError("unpack", e.Name, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return i, newError(KindIO, "write file", target, err)
		}
	}

	logger.Info("extracted container", "dir", destDir, "entries", len(entries))
	return len(entries), nil
}
