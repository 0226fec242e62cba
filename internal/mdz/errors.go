package mdz

import (
	"errors"
	"fmt"
)

// Kind classifies an MDZ error so callers can branch without matching strings.
type Kind int

const (
	// KindIO covers unreadable storage and text that is not valid UTF-8.
	KindIO Kind = iota + 1
	// KindArchive means the container itself could not be opened as a zip archive.
	KindArchive
	// KindMissingFile means a required entry (main.md) is absent.
	KindMissingFile
	// KindInvalidFormat means an entry violates the container layout.
	KindInvalidFormat
	// KindValidation means caller-supplied options were rejected.
	KindValidation
	// KindParse is reserved for content-level parse failures.
	KindParse
	// KindRender means markdown conversion failed.
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IO error"
	case KindArchive:
		return "ZIP error"
	case KindMissingFile:
		return "missing required file"
	case KindInvalidFormat:
		return "invalid MDZ format"
	case KindValidation:
		return "validation error"
	case KindParse:
		return "parsing error"
	case KindRender:
		return "rendering error"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every operation in this package.
type Error struct {
	Kind Kind
	Op   string // operation in progress, e.g. "parse", "read css/style.css"
	Path string // entry or file path involved, if any
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or 0 if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsMissingFile reports whether err signals an absent required entry.
func IsMissingFile(err error) bool {
	return KindOf(err) == KindMissingFile
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func ioErrorf(op, path, format string, args ...any) *Error {
	return newError(KindIO, op, path, fmt.Errorf(format, args...))
}
