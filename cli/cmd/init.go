package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/ardnew/inlinemath/log"
	"github.com/ardnew/inlinemath/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := kongVar(ctx, ConfigIdentifier, "")
	if confPath == "" {
		panic("internal error: config path undefined")
	}

	fs := fsFrom(ctx)
	file := slog.String("file", confPath)

	exists, err := afero.Exists(fs, confPath)
	if err != nil {
		return ErrWriteConfig.With(file).Wrap(err)
	}

	if exists && !i.Force {
		return ErrWriteConfig.
			With(file).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		i.settings(ctx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrYAMLMarshal.With(file).Wrap(err)
	}

	if err := fs.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
		return ErrWriteConfig.With(file).Wrap(err)
	}

	if err := afero.WriteFile(fs, confPath, data, 0o600); err != nil {
		return ErrWriteConfig.With(file).Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// settings returns the value of every global flag in declaration order.
func (i *Init) settings(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	prefixIgnore := []string{"help", "version", profile.Tag}

	var items yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := settingValue(ktx.FlagValue(flag)); ok {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return items
}

// settingValue returns the configuration file representation of a flag
// value. Empty strings, maps and slices are omitted.
func settingValue(v any) (any, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Invalid:
		return nil, false

	case reflect.String:
		if rv.Len() == 0 {
			return nil, false
		}

		return rv.String(), true

	case reflect.Map, reflect.Slice:
		if rv.Len() == 0 {
			return nil, false
		}

		return v, true

	default:
		return v, true
	}
}
