package mdz

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Compression methods accepted by Pack.
const (
	MethodDeflate = "deflate"
	MethodStore   = "store"
	MethodZstd    = "zstd"
)

// DefaultCompressionLevel matches the level used by the mdz CLI.
const DefaultCompressionLevel = 6

// PackOptions controls how Pack writes the container.
type PackOptions struct {
	Method string // MethodDeflate when empty
	Level  int    // 0-9
	Logger *slog.Logger
}

// PackSummary lists the entries written by Pack, in write order.
type PackSummary struct {
	Entries []string
}

// Pack writes an MDZ container built from srcDir to w.
// srcDir must contain main.md; img/ and css/ are added recursively when present.
// Any other file in srcDir is left out.
func Pack(srcDir string, w io.Writer, opts PackOptions) (*PackSummary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	method, err := zipMethod(opts.Method)
	if err != nil {
		return nil, err
	}
	if opts.Level < 0 || opts.Level > 9 {
		return nil, newError(KindValidation, "pack", "", fmt.Errorf("compression level %d out of range 0-9", opts.Level))
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, newError(KindIO, "pack", srcDir, err)
	}
	if !info.IsDir() {
		return nil, ioErrorf("pack", srcDir, "source path is not a directory")
	}

	mainPath := filepath.Join(srcDir, MainFile)
	if _, err := os.Stat(mainPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(KindMissingFile, "pack", MainFile, nil)
		}
		return nil, newError(KindIO, "pack", mainPath, err)
	}

	zw := zip.NewWriter(w)
	level := opts.Level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
	))

	summary := &PackSummary{}

	if err := addFile(zw, mainPath, MainFile, method); err != nil {
		return nil, err
	}
	summary.Entries = append(summary.Entries, MainFile)
	logger.Debug("added entry", "name", MainFile)

	for _, dir := range []string{"img", "css"} {
		added, err := addDir(zw, filepath.Join(srcDir, dir), dir, method)
		if err != nil {
			return nil, err
		}
		for _, name := range added {
			logger.Debug("added entry", "name", name)
		}
		summary.Entries = append(summary.Entries, added...)
	}

	if err := zw.Close(); err != nil {
		return nil, newError(KindIO, "finalize archive", "", err)
	}

	logger.Info("packed container", "dir", srcDir, "entries", len(summary.Entries))
	return summary, nil
}

// PackFile creates the MDZ file at output from srcDir, creating parent directories.
func PackFile(srcDir, output string, opts PackOptions) (*PackSummary, error) {
	if dir := filepath.Dir(output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, newError(KindIO, "create output directory", dir, err)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return nil, newError(KindIO, "create output file", output, err)
	}

	summary, err := Pack(srcDir, f, opts)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = newError(KindIO, "close output file", output, closeErr)
	}
	if err != nil {
		os.Remove(output)
		return nil, err
	}
	return summary, nil
}

func zipMethod(name string) (uint16, error) {
	switch name {
	case "", MethodDeflate:
		return zip.Deflate, nil
	case MethodStore:
		return zip.Store, nil
	case MethodZstd:
		return zstd.ZipMethodWinZip, nil
	default:
		return 0, newError(KindValidation, "pack", "", fmt.Errorf("unknown compression method %q", name))
	}
}

// addDir adds every regular file below dir under the given entry prefix.
// A missing dir is not an error; an unreadable one is.
func addDir(zw *zip.Writer, dir, prefix string, method uint16) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, newError(KindIO, "read directory", dir, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var added []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return newError(KindIO, "read directory", path, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return newError(KindIO, "read directory", path, err)
		}
		name := prefix + "/" + filepath.ToSlash(rel)
		if err := addFile(zw, path, name, method); err != nil {
			return err
		}
		added = append(added, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func addFile(zw *zip.Writer, path, name string, method uint16) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return newError(KindIO, "read file", path, err)
	}

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: method,
	})
	if err != nil {
		return newError(KindArchive, "start entry", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return newError(KindIO, "write entry", name, err)
	}
	return nil
}
