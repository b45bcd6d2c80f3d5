package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

// testCLI mirrors the command tree of the inlinemath CLI.
type testCLI struct {
	Math Math `embed:"" group:"math"`

	Process Process `cmd:"" default:"withargs"`
	Eval    Eval    `cmd:""`
	Init    Init    `cmd:""`
}

type runner struct {
	fs    afero.Fs
	stdin string
	vars  kong.Vars
}

// run parses args and runs the selected command, returning its output.
func (r runner) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var (
		cli testCLI
		out bytes.Buffer
	)

	parser, err := kong.New(&cli,
		kong.Name("inlinemath"),
		kong.Writers(&out, io.Discard),
		kong.Exit(func(code int) { t.Fatalf("exit(%d)", code) }),
		Math{}.KongVars(),
		kong.Vars{ConfigIdentifier: "/config/config.yaml", CacheIdentifier: "/cache"},
		r.vars,
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q): %v", args, err)
	}

	ctx := WithContext(t.Context(), ktx)
	ctx = WithFs(ctx, r.fs)
	ctx = WithStdin(ctx, strings.NewReader(r.stdin))
	ctx = WithMath(ctx, &cli.Math)

	ktx.BindTo(ctx, (*context.Context)(nil))

	err = ktx.Run()

	return out.String(), err
}

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()

	for name, data := range files {
		if err := afero.WriteFile(fs, name, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return fs
}

func TestContextDefaults(t *testing.T) {
	ctx := t.Context()

	if _, ok := fsFrom(ctx).(*afero.OsFs); !ok {
		t.Errorf("fsFrom() = %T, want *afero.OsFs", fsFrom(ctx))
	}

	if diff := cmp.Diff(DefaultMath(), *mathFrom(ctx)); diff != "" {
		t.Errorf("mathFrom() mismatch (-want +got):\n%s", diff)
	}

	if got := kongVar(ctx, CacheIdentifier, "fallback"); got != "fallback" {
		t.Errorf("kongVar() = %q, want fallback", got)
	}

	if kongContextFrom(ctx) != nil {
		t.Error("kongContextFrom() without kong context is not nil")
	}
}

func TestErrorIs(t *testing.T) {
	err := ErrWriteConfig.With().Wrap(ErrFileExists)

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Errorf("errors.Is(%v) failed for its sentinels", err)
	}

	if errors.Is(err, ErrFailed) {
		t.Errorf("errors.Is(%v, ErrFailed) = true", err)
	}

	if got := ErrFailed.Wrap(io.EOF).Error(); got != "expressions failed: EOF" {
		t.Errorf("Error() = %q", got)
	}
}
