package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"
)

type (
	contextKey struct{}
	fsKey      struct{}
	stdinKey   struct{}
	mathKey    struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithFs returns a new context.Context whose commands read and write files
// through fs.
func WithFs(ctx context.Context, fs afero.Fs) context.Context {
	return context.WithValue(ctx, fsKey{}, fs)
}

// fsFrom returns the filesystem stored by [WithFs], or the OS filesystem.
func fsFrom(ctx context.Context) afero.Fs {
	if fs, ok := ctx.Value(fsKey{}).(afero.Fs); ok && fs != nil {
		return fs
	}

	return afero.NewOsFs()
}

// WithStdin returns a new context.Context whose commands read standard input
// from r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdoutFrom returns the output writer of the kong.Context in ctx.
func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// WithMath returns a new context.Context containing the evaluation flags
// shared by all commands.
func WithMath(ctx context.Context, m *Math) context.Context {
	return context.WithValue(ctx, mathKey{}, m)
}

// mathFrom returns the flags stored by [WithMath], or the defaults.
func mathFrom(ctx context.Context) *Math {
	if m, ok := ctx.Value(mathKey{}).(*Math); ok && m != nil {
		return m
	}

	m := DefaultMath()

	return &m
}

// kongVar returns the kong variable name from ctx, or fallback.
func kongVar(ctx context.Context, name, fallback string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if v, ok := ktx.Model.Vars()[name]; ok {
			return v
		}
	}

	return fallback
}
