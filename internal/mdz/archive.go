package mdz

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Reader is the read-only view of a container that Parse and Validate need.
type Reader interface {
	// ReadFile reads the named entry fully. A missing entry yields an
	// error matching fs.ErrNotExist.
	ReadFile(name string) ([]byte, error)
	// Entries lists every entry in archive order.
	Entries() []Entry
	// ReadEntry reads the entry at index (as ordered by Entries).
	ReadEntry(index int) ([]byte, error)
}

// Entry describes one record of the container.
type Entry struct {
	Name  string
	IsDir bool
	Size  uint64
}

// ZipArchive provides access to the entries of a zip-based MDZ container.
type ZipArchive struct {
	zr     *zip.Reader
	closer io.Closer
	files  map[string]*zip.File
}

// OpenArchive opens the MDZ file at path.
func OpenArchive(path string) (*ZipArchive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, newError(KindIO, "open archive", path, err)
		}
		return nil, newError(KindArchive, "open archive", path, err)
	}
	return newZipArchive(&rc.Reader, rc), nil
}

// NewArchive reads a container from r, which holds size bytes.
func NewArchive(r io.ReaderAt, size int64) (*ZipArchive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, newError(KindArchive, "open archive", "", err)
	}
	return newZipArchive(zr, nil), nil
}

// NewArchiveFromBytes reads a container held in memory.
func NewArchiveFromBytes(data []byte) (*ZipArchive, error) {
	return NewArchive(bytes.NewReader(data), int64(len(data)))
}

func newZipArchive(zr *zip.Reader, closer io.Closer) *ZipArchive {
	// Entries written by "mdz create --method zstd"
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	a := &ZipArchive{
		zr:     zr,
		closer: closer,
		files:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}
	return a
}

// Close releases the underlying file, if the archive was opened from a path.
func (a *ZipArchive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Has reports whether an entry with exactly this name exists.
func (a *ZipArchive) Has(name string) bool {
	_, ok := a.files[name]
	return ok
}

// Entries lists every entry in archive order.
func (a *ZipArchive) Entries() []Entry {
	entries := make([]Entry, len(a.zr.File))
	for i, f := range a.zr.File {
		entries[i] = Entry{
			Name:  f.Name,
			IsDir: strings.HasSuffix(f.Name, "/"),
			Size:  f.UncompressedSize64,
		}
	}
	return entries
}

// ReadFile reads the contents of the named entry.
func (a *ZipArchive) ReadFile(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, name)
	}
	return readZipFile(f)
}

// ReadEntry reads the contents of the entry at index.
func (a *ZipArchive) ReadEntry(index int) ([]byte, error) {
	if index < 0 || index >= len(a.zr.File) {
		return nil, newError(KindArchive, "read entry", "", fmt.Errorf("index %d out of range", index))
	}
	return readZipFile(a.zr.File[index])
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, newError(KindArchive, "open entry", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, newError(KindIO, "read entry", f.Name, err)
	}
	return data, nil
}
