package mdz

import (
	"fmt"
	"slices"
	"strings"
)

// supportedImageExtensions lists the image formats an MDZ container may carry.
var supportedImageExtensions = []string{"jpg", "jpeg", "png", "gif", "svg", "webp"}

// ValidationResult is the structural report produced by Validate.
type ValidationResult struct {
	HasMainMD  bool
	HasImgDir  bool
	HasCSSDir  bool
	HasMainCSS bool
	ImageFiles []string
	CSSFiles   []string
	Errors     []string
	Warnings   []string
}

// IsValid reports whether the container passed validation.
// Warnings never affect validity.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0 && r.HasMainMD
}

// Validate inspects the container structure and reports what it finds.
// A missing main.md is recorded in Errors rather than returned, so the
// report always covers the whole archive.
func Validate(r Reader) (*ValidationResult, error) {
	result := &ValidationResult{
		ImageFiles: []string{},
		CSSFiles:   []string{},
		Errors:     []string{},
		Warnings:   []string{},
	}

	entries := r.Entries()

	// Check for main.md
	result.HasMainMD = slices.ContainsFunc(entries, func(e Entry) bool { return e.Name == MainFile })
	if !result.HasMainMD {
		result.Errors = append(result.Errors, "Missing required file: "+MainFile)
	}

	// Check directory structure
	for _, e := range entries {
		name := e.Name
		isDir := strings.HasSuffix(name, "/")

		switch {
		case strings.HasPrefix(name, ImagePrefix):
			result.HasImgDir = true
			if !isDir {
				result.ImageFiles = append(result.ImageFiles, name)
			}
		case strings.HasPrefix(name, CSSPrefix):
			result.HasCSSDir = true
			if !isDir {
				result.CSSFiles = append(result.CSSFiles, name)
			}
		}

		for _, problem := range pathProblems(name) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid file path '%s': %s", name, problem))
		}
	}

	// Validate image formats
	for _, img := range result.ImageFiles {
		if !isSupportedImage(img) {
			result.Warnings = append(result.Warnings, "Unsupported image format: "+img)
		}
	}

	result.HasMainCSS = slices.Contains(result.CSSFiles, StyleFile)

	return result, nil
}

// ValidateBytes validates a container held in memory.
// Only a container that cannot be opened produces an error.
func ValidateBytes(data []byte) (*ValidationResult, error) {
	a, err := NewArchiveFromBytes(data)
	if err != nil {
		return nil, err
	}
	return Validate(a)
}

// ValidateFile validates the MDZ file at path.
func ValidateFile(path string) (*ValidationResult, error) {
	a, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return Validate(a)
}

// pathProblems runs each hygiene check independently on an entry path.
func pathProblems(path string) []string {
	var problems []string
	if strings.Contains(path, "..") {
		problems = append(problems, "path traversal not allowed")
	}
	if strings.Contains(path, " ") {
		problems = append(problems, "spaces in file paths not recommended")
	}
	if !isASCII(path) {
		problems = append(problems, "non-ASCII characters not recommended")
	}
	return problems
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isSupportedImage(path string) bool {
	return slices.Contains(supportedImageExtensions, Extension(path))
}

// Extension returns the lowercased text after the last '.' in path,
// or the whole lowercased path when it has no '.'.
func Extension(path string) string {
	return strings.ToLower(path[strings.LastIndex(path, ".")+1:])
}
