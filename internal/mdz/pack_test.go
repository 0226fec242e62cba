package mdz

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// createSourceDir lays out files (relative slash paths) under a temp dir
func createSourceDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestPack_RoundTrip(t *testing.T) {
	for _, method := range []string{MethodDeflate, MethodStore, MethodZstd} {
		t.Run(method, func(t *testing.T) {
			src := createSourceDir(t, map[string]string{
				"main.md":          "# Packed\n\n![a](img/a.png)",
				"img/a.png":        "png-bytes",
				"img/nested/b.gif": "gif-bytes",
				"css/style.css":    "body { margin: 0; }",
				"README.txt":       "left out",
			})

			var buf bytes.Buffer
			summary, err := Pack(src, &buf, PackOptions{Method: method, Level: DefaultCompressionLevel})
			if err != nil {
				t.Fatalf("Pack() failed: %v", err)
			}
			wantEntries := []string{"main.md", "img/a.png", "img/nested/b.gif", "css/style.css"}
			if diff := cmp.Diff(wantEntries, summary.Entries); diff != "" {
				t.Errorf("Entries mismatch (-want +got):\n%s", diff)
			}

			doc, err := ParseBytes(buf.Bytes())
			if err != nil {
				t.Fatalf("ParseBytes() failed: %v", err)
			}

			want := NewDocument("# Packed\n\n![a](img/a.png)")
			want.Metadata.Title = "Packed"
			want.AddImage("img/a.png", []byte("png-bytes"))
			want.AddImage("img/nested/b.gif", []byte("gif-bytes"))
			want.SetCSS("body { margin: 0; }")
			if diff := cmp.Diff(want, doc, cmpopts.IgnoreFields(Metadata{}, "ModifiedAt")); diff != "" {
				t.Fatalf("ParseBytes() mismatch (-want +got):\n%s", diff)
			}

			result, err := ValidateBytes(buf.Bytes())
			if err != nil {
				t.Fatalf("ValidateBytes() failed: %v", err)
			}
			if !result.IsValid() || len(result.Warnings) != 0 {
				t.Errorf("packed container not clean: errors=%v warnings=%v", result.Errors, result.Warnings)
			}
		})
	}
}

func TestPack_MissingMain(t *testing.T) {
	src := createSourceDir(t, map[string]string{"img/a.png": "x"})

	_, err := Pack(src, &bytes.Buffer{}, PackOptions{})
	if !IsMissingFile(err) {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestPack_InvalidOptions(t *testing.T) {
	src := createSourceDir(t, map[string]string{"main.md": "x"})

	for _, opts := range []PackOptions{{Level: 12}, {Level: -1}, {Method: "brotli"}} {
		_, err := Pack(src, &bytes.Buffer{}, opts)
		if KindOf(err) != KindValidation {
			t.Errorf("Pack(%+v) KindOf() = %v, want %v (err = %v)", opts, KindOf(err), KindValidation, err)
		}
	}
}

func TestPack_SourceNotADirectory(t *testing.T) {
	src := createSourceDir(t, map[string]string{"main.md": "x"})

	_, err := Pack(filepath.Join(src, "main.md"), &bytes.Buffer{}, PackOptions{})
	if KindOf(err) != KindIO {
		t.Fatalf("KindOf() = %v, want %v (err = %v)", KindOf(err), KindIO, err)
	}
}

func TestPack_UnreadableResourceDirectory(t *testing.T) {
	src := createSourceDir(t, map[string]string{"main.md": "x"})
	// A self-referencing link cannot be resolved, but it exists
	if err := os.Symlink("img", filepath.Join(src, "img")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := Pack(src, &bytes.Buffer{}, PackOptions{})
	if KindOf(err) != KindIO {
		t.Fatalf("KindOf() = %v, want %v (err = %v)", KindOf(err), KindIO, err)
	}
}

func TestAddDir_MissingDirectoryIsSkipped(t *testing.T) {
	zw := zip.NewWriter(io.Discard)
	added, err := addDir(zw, filepath.Join(t.TempDir(), "img"), "img", zip.Store)
	if err != nil {
		t.Fatalf("addDir() failed: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("added = %v, want none", added)
	}
}

func TestPackFile_CreatesParentDirectories(t *testing.T) {
	src := createSourceDir(t, map[string]string{"main.md": "hello"})
	out := filepath.Join(t.TempDir(), "nested", "out", "doc.mdz")

	if _, err := PackFile(src, out, PackOptions{Level: 9}); err != nil {
		t.Fatalf("PackFile() failed: %v", err)
	}

	doc, err := ParseFile(out)
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	if doc.Content != "hello" {
		t.Errorf("Content = %q, want %q", doc.Content, "hello")
	}
}

func TestUnpack(t *testing.T) {
	a := openTestArchive(t,
		testEntry{"main.md", "# Doc"},
		testEntry{"img/", ""},
		testEntry{"img/a.png", "png"},
		testEntry{"css/style.css", "p{}"},
	)
	dest := filepath.Join(t.TempDir(), "out")

	n, err := Unpack(a, dest, UnpackOptions{})
	if err != nil {
		t.Fatalf("Unpack() failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Unpack() = %d entries, want 4", n)
	}

	for name, want := range map[string]string{
		"main.md":       "# Doc",
		"img/a.png":     "png",
		"css/style.css": "p{}",
	} {
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("failed to read %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestUnpack_ExistingDestination(t *testing.T) {
	a := openTestArchive(t, testEntry{"main.md", "x"})
	dest := t.TempDir()

	_, err := Unpack(a, dest, UnpackOptions{})
	if KindOf(err) != KindIO {
		t.Fatalf("KindOf() = %v, want %v (err = %v)", KindOf(err), KindIO, err)
	}

	n, err := Unpack(a, dest, UnpackOptions{Force: true})
	if err != nil {
		t.Fatalf("Unpack() with Force failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Unpack() = %d entries, want 1", n)
	}
}

func TestUnpack_RefusesEscapingEntriesBeforeWriting(t *testing.T) {
	a := openTestArchive(t,
		testEntry{"main.md", "x"},
		testEntry{"img/a.png", "png"},
		testEntry{"../evil", "payload"},
	)
	root := t.TempDir()
	dest := filepath.Join(root, "out")

	n, err := Unpack(a, dest, UnpackOptions{})
	if KindOf(err) != KindInvalidFormat {
		t.Fatalf("KindOf() = %v, want %v (err = %v)", KindOf(err), KindInvalidFormat, err)
	}
	if n != 0 {
		t.Errorf("Unpack() = %d entries, want 0", n)
	}

	// Neither the escaping entry nor the ones before it reach the disk
	for _, path := range []string{filepath.Join(root, "evil"), dest} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s exists after refused unpack (stat error = %v)", path, err)
		}
	}
}
