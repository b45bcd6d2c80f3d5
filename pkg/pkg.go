//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the semantic version of the inlinemath module embedded at build
// time.
//
//go:embed VERSION
var version string

// Version returns the embedded semantic version with surrounding whitespace
// removed.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths, and as the
	// default expression marker prefix.
	Name = "inlinemath"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Evaluate inline calculator expressions in text files"
	// Marker is the default identifier that introduces an inline expression.
	Marker = "gulpmath"
)
