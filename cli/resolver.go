package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads YAML configuration
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document is a mapping from flag name to value:
//   - Flag names may use hyphens (e.g., "eval-precision") or underscores
//     (e.g., "eval_precision")
//   - Scalars are passed to kong as strings
//   - Sequences are joined with commas
//   - Mappings set map flags such as var
//
// Example config file:
//
//	log-level: debug
//	eval_precision: 4
//	number: bignumber
//	var:
//	  gutter: 4
//	  width: gutter * 80
//
// Command-line flags override config file values. An empty file sets
// nothing.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	cfg := make(config, len(doc))
	for key, value := range doc {
		cfg[key] = flagValue(value)
	}

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts a decoded YAML value to the form kong decodes flags
// from.
func flagValue(v any) any {
	switch x := v.(type) {
	case nil, bool:
		return x

	case map[string]any:
		m := make(map[string]any, len(x))
		for key, e := range x {
			m[key] = scalar(e)
		}

		return m

	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = scalar(e)
		}

		return strings.Join(parts, ",")

	default:
		return scalar(x)
	}
}

// scalar returns the text of a YAML scalar. Kong requires numbers as
// strings for parsing.
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
