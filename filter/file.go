package filter

import (
	"io"
	"path/filepath"
)

// UnknownFile names a [File] without a path in error messages.
const UnknownFile = "<unknown>"

// File is a unit of work passed through a [Filter]. Exactly one of the
// following holds: both Contents and Stream are nil (a null file), Stream
// is set (a streamed file), or Contents is set (a buffered file).
type File struct {
	Path     string
	Contents []byte
	Stream   io.Reader
}

// IsNull reports whether f carries no content.
func (f *File) IsNull() bool { return f.Contents == nil && f.Stream == nil }

// IsStream reports whether the content of f is streamed.
func (f *File) IsStream() bool { return f.Stream != nil }

// IsBuffer reports whether the content of f is held in memory.
func (f *File) IsBuffer() bool { return f.Stream == nil && f.Contents != nil }

// Name returns the base name of the file path, or [UnknownFile].
func (f *File) Name() string {
	if f.Path == "" {
		return UnknownFile
	}

	return filepath.Base(f.Path)
}
