package calc

import (
	"errors"
	"regexp"
	"slices"

	"github.com/expr-lang/expr/file"
	"github.com/hbollon/go-edlib"
	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the names offered for an unknown identifier.
const maxSuggestions = 3

var unknownName = regexp.MustCompile(`unknown name (\w+)`)

// unknownIdentifier returns the identifier an expr-lang compile error
// complains about, if any.
func unknownIdentifier(err error) (string, bool) {
	var fe *file.Error
	if !errors.As(err, &fe) {
		return "", false
	}

	m := unknownName.FindStringSubmatch(fe.Message)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// Suggest returns up to three names similar to name: first those containing
// its characters in order, then those within a small edit distance.
func Suggest(name string, names []string) []string {
	var out []string

	for _, m := range fuzzy.Find(name, names) {
		if m.Str != name {
			out = append(out, m.Str)
		}

		if len(out) == maxSuggestions {
			return out
		}
	}

	limit := max(1, len(name)/3)

	for _, n := range names {
		if n == name || slices.Contains(out, n) {
			continue
		}

		if edlib.DamerauLevenshteinDistance(name, n) <= limit {
			out = append(out, n)
		}

		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}
