package models

import (
	"path/filepath"
	"strings"
)

// NoExtensionKey is the classification bucket for files whose name carries
// no usable extension (no dot, a trailing dot, or a bare dotfile like
// ".gitignore").
const NoExtensionKey = "no_extension"

// FileEntry identifies one regular file discovered during traversal.
// The path may be absolute or relative; it is never modified after discovery.
type FileEntry struct {
	// Path is the location of the source file as reported by the scanner
	Path string
}

// Name returns the base filename of the entry.
func (f FileEntry) Name() string {
	return filepath.Base(f.Path)
}

// ExtensionKey derives the classification bucket for the entry: the
// lowercased substring after the final "." of the base name, or
// NoExtensionKey when the name has no usable suffix. A name consisting only
// of a leading dot (".gitignore") has no suffix.
func (f FileEntry) ExtensionKey() string {
	name := f.Name()
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return NoExtensionKey
	}
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	if key == "" {
		return NoExtensionKey
	}
	return key
}
