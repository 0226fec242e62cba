package mdz

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

type testEntry struct {
	name string
	data string
}

// buildArchive creates an in-memory zip container with entries in the given order
func buildArchive(t *testing.T, entries ...testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.data)); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

// writeArchive writes a container built by buildArchive to dir/name
func writeArchive(t *testing.T, dir, name string, entries ...testEntry) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildArchive(t, entries...), 0644); err != nil {
		t.Fatalf("failed to write test archive: %v", err)
	}
	return path
}

func openTestArchive(t *testing.T, entries ...testEntry) *ZipArchive {
	t.Helper()
	a, err := NewArchiveFromBytes(buildArchive(t, entries...))
	if err != nil {
		t.Fatalf("NewArchiveFromBytes() failed: %v", err)
	}
	return a
}
