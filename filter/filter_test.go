package filter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/inlinemath/calc"
	"github.com/ardnew/inlinemath/log"
)

// newFilter returns a filter collecting reported failures.
func newFilter(t *testing.T, bindings calc.Bindings, opts ...Option) (*Filter, *[]error) {
	t.Helper()

	var reported []error

	opts = append([]Option{
		WithLogger(log.Make(&bytes.Buffer{})),
		WithReporter(func(err error) { reported = append(reported, err) }),
	}, opts...)

	f, err := New(bindings, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return f, &reported
}

func process(t *testing.T, f *Filter, text string) string {
	t.Helper()

	file, err := f.Process(t.Context(), &File{Path: "test/fixture.txt", Contents: []byte(text)})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	return string(file.Contents)
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name     string
		bindings map[string]any
		opts     map[string]any
		text     string
		want     string
	}{
		{
			name: "literal",
			text: "gulpmath(5);",
			want: "5",
		},
		{
			name:     "unused_variable",
			bindings: map[string]any{"unused_var": 1000},
			text:     "gulpmath(5);",
			want:     "5",
		},
		{
			name: "simple_calculation",
			text: "gulpmath(5 + 5);",
			want: "10",
		},
		{
			name:     "two_variables",
			bindings: map[string]any{"a": 5, "b": 5},
			text:     "gulpmath(a + b);",
			want:     "10",
		},
		{
			name:     "complex_calculation",
			bindings: map[string]any{"a": 5},
			text:     "gulpmath(5 + (a * 5) / 5);",
			want:     "10",
		},
		{
			name:     "two_on_a_line",
			bindings: map[string]any{"a": 5, "b": 10},
			text:     "gulpmath(a + 5); and gulpmath(b + 5);",
			want:     "10 and 15",
		},
		{
			name:     "separate_lines",
			bindings: map[string]any{"a": 5, "b": 10},
			text:     "first: gulpmath(a + 5);\nsecond: gulpmath(b + 5);\n",
			want:     "first: 10\nsecond: 15\n",
		},
		{
			name: "escaped_terminator",
			text: `gulpmath(5\;20);`,
			want: "[20]",
		},
		{
			name: "eval_precision_2",
			opts: map[string]any{"eval_precision": 2},
			text: "gulpmath(5.5555555555555555);",
			want: "5.56",
		},
		{
			name: "eval_precision_4",
			opts: map[string]any{"eval_precision": 4},
			text: "gulpmath(5.5555555555555555);",
			want: "5.5556",
		},
		{
			name: "eval_precision_fractional",
			opts: map[string]any{"eval_precision": "4.5"},
			text: "gulpmath(5.5555555555555555);",
			want: "5.556",
		},
		{
			name: "bignumber_7",
			opts: map[string]any{"number": "bignumber", "precision": 7},
			text: "gulpmath(0.12345 + 0.000006789);",
			want: "0.1234568",
		},
		{
			name: "bignumber_3",
			opts: map[string]any{"number": "bignumber", "precision": 3},
			text: "gulpmath(0.12345 + 0.000006789);",
			want: "0.123",
		},
		{
			name: "fraction",
			opts: map[string]any{"number": "fraction"},
			text: "gulpmath(1/3 + 1/6);",
			want: "1/2",
		},
		{
			name: "matrix",
			text: "gulpmath([1, 2] );",
			want: "[1, 2]",
		},
		{
			name: "boolean",
			text: "gulpmath(1 < 2);",
			want: "true",
		},
		{
			name:     "expression_binding",
			bindings: map[string]any{"base": 8, "gutter": "base / 2"},
			text:     "margin: gulpmath(gutter);px gulpmath(base * 3);px;",
			want:     "margin: 4px 24px;",
		},
		{
			name: "unknown_options_ignored",
			opts: map[string]any{"colour": "red"},
			text: "gulpmath(2 * 3);",
			want: "6",
		},
		{
			name: "no_markers",
			text: "nothing to do here; really.",
			want: "nothing to do here; really.",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, reported := newFilter(t, calc.BindingsFromMap(tt.bindings), WithOptions(tt.opts))

			if got := process(t, f, tt.text); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}

			if len(*reported) > 0 {
				t.Errorf("unexpected failures: %v", *reported)
			}
		})
	}
}

func TestProcess_NullFile(t *testing.T) {
	f, reported := newFilter(t, nil)

	in := &File{Path: "empty.txt"}

	out, err := f.Process(t.Context(), in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if out != in || !out.IsNull() {
		t.Errorf("null file not passed through: %+v", out)
	}

	if len(*reported) > 0 {
		t.Errorf("unexpected failures: %v", *reported)
	}
}

func TestProcess_StreamFile(t *testing.T) {
	f, _ := newFilter(t, nil)

	in := &File{Path: "stream.txt", Stream: strings.NewReader("gulpmath(5);")}

	out, err := f.Process(t.Context(), in)
	if !errors.Is(err, ErrUnsupportedInputKind) {
		t.Fatalf("got %v, want ErrUnsupportedInputKind", err)
	}

	if out != nil {
		t.Errorf("stream file returned: %+v", out)
	}

	if in.Contents != nil {
		t.Error("stream file was modified")
	}
}

func TestProcess_SameIdentity(t *testing.T) {
	f, _ := newFilter(t, nil)

	in := &File{Path: "a/b/site.css", Contents: []byte("gulpmath(1);")}

	out, err := f.Process(t.Context(), in)
	if err != nil {
		t.Fatal(err)
	}

	if out != in || out.Path != "a/b/site.css" {
		t.Errorf("file identity not preserved: %+v", out)
	}
}

func TestProcess_Failures(t *testing.T) {
	f, reported := newFilter(t, calc.BindingsFromMap(map[string]any{"width": 10}))

	text := "a: gulpmath(widht * 2);\nb: gulpmath(width);\nc: gulpmath(1 +);\n"

	got := process(t, f, text)

	want := "a: gulpmath(widht * 2);\nb: 10\nc: gulpmath(1 +);\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if len(*reported) != 2 {
		t.Fatalf("got %d failures, want 2: %v", len(*reported), *reported)
	}

	tests := []struct {
		line       int
		expression string
		cause      error
	}{
		{0, "widht * 2", calc.ErrCompile},
		{3, "1 +", calc.ErrCompile},
	}

	for i, tt := range tests {
		var ee *EvaluationError
		if !errors.As((*reported)[i], &ee) {
			t.Fatalf("failure %d is %T, want *EvaluationError", i, (*reported)[i])
		}

		if ee.File != "fixture.txt" || ee.Line != tt.line || ee.Expression != tt.expression {
			t.Errorf("failure %d = {%s %d %q}, want {fixture.txt %d %q}",
				i, ee.File, ee.Line, ee.Expression, tt.line, tt.expression)
		}

		if !errors.Is(ee, ErrEvaluation) || !errors.Is(ee, tt.cause) {
			t.Errorf("failure %d does not wrap ErrEvaluation and %v", i, tt.cause)
		}
	}

	msg := (*reported)[0].Error()
	for _, part := range []string{"fixture.txt", "unknown name widht", "did you mean width", "at line 0", "widht * 2"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q lacks %q", msg, part)
		}
	}
}

func TestProcess_UnknownFileName(t *testing.T) {
	f, reported := newFilter(t, nil)

	if _, err := f.Process(t.Context(), &File{Contents: []byte("x\ny\ngulpmath(nope);")}); err != nil {
		t.Fatal(err)
	}

	var ee *EvaluationError
	if len(*reported) != 1 || !errors.As((*reported)[0], &ee) {
		t.Fatalf("failures: %v", *reported)
	}

	if ee.File != UnknownFile || ee.Line != 3 {
		t.Errorf("got file %q line %d, want %q line 3", ee.File, ee.Line, UnknownFile)
	}
}

func TestProcess_Abort(t *testing.T) {
	f, reported := newFilter(t, nil, WithPolicy(Abort))

	text := "gulpmath(1); gulpmath(nope); gulpmath(2);"
	in := &File{Path: "abort.txt", Contents: []byte(text)}

	_, err := f.Process(t.Context(), in)

	var ee *EvaluationError
	if !errors.As(err, &ee) {
		t.Fatalf("got %v, want *EvaluationError", err)
	}

	if ee.Expression != "nope" {
		t.Errorf("failed expression %q, want nope", ee.Expression)
	}

	if string(in.Contents) != text {
		t.Errorf("file modified under Abort: %q", in.Contents)
	}

	if len(*reported) != 0 {
		t.Errorf("Abort reported failures: %v", *reported)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	f, _ := newFilter(t, calc.BindingsFromMap(map[string]any{"a": 2}))

	once := process(t, f, "x = gulpmath(a ^ 3); y = gulpmath(a / 3);")
	twice := process(t, f, once)

	if once != twice {
		t.Errorf("second pass changed %q to %q", once, twice)
	}

	if once != "x = 8 y = 0.667" {
		t.Errorf("first pass = %q", once)
	}
}

func TestProcess_SessionShared(t *testing.T) {
	f, _ := newFilter(t, calc.BindingsFromMap(map[string]any{"unit": 4}))

	for _, text := range []string{"gulpmath(unit);", `gulpmath(tmp = 1\; unit + tmp);`, "gulpmath(unit * 2);"} {
		process(t, f, text)
	}

	if _, ok := f.Session().Lookup("tmp"); ok {
		t.Error("assignment inside a marker leaked into the session")
	}

	if got := process(t, f, "gulpmath(unit * 2);"); got != "8" {
		t.Errorf("got %q, want 8", got)
	}
}

func TestProcess_Canceled(t *testing.T) {
	f, _ := newFilter(t, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := f.Process(ctx, &File{Contents: []byte("gulpmath(1);")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestNew_BindingError(t *testing.T) {
	_, err := New(calc.Bindings{{Name: "a", Value: "b +"}}, WithLogger(log.Make(&bytes.Buffer{})))
	if !errors.Is(err, calc.ErrBinding) {
		t.Errorf("got %v, want ErrBinding", err)
	}
}

func TestNew_Options(t *testing.T) {
	f, _ := newFilter(t, nil,
		WithConfig(calc.Config{Epsilon: 1e-6, EvalPrecision: -1, Precision: 10}),
		WithOptions(map[string]any{"number": "fraction", "bogus": 1}),
		WithMarker("calc"),
		WithMarker("not a name"),
	)

	cfg := f.Config()
	if cfg.Epsilon != 1e-6 || cfg.EvalPrecision != calc.DefaultEvalPrecision ||
		cfg.Number != calc.NumberFraction || cfg.Precision != 10 {
		t.Errorf("config = %+v", cfg)
	}

	if f.Marker() != "calc" {
		t.Errorf("marker = %q, want calc", f.Marker())
	}

	var keys []string
	for _, a := range f.Adjustments() {
		keys = append(keys, a.Key)
	}

	if strings.Join(keys, ",") != "eval_precision,bogus,marker" {
		t.Errorf("adjusted keys = %v", keys)
	}

	if got := process(t, f, "calc(1/4 + 1/4);"); got != "1/2" {
		t.Errorf("got %q, want 1/2", got)
	}
}

func TestFile(t *testing.T) {
	tests := []struct {
		name                   string
		file                   File
		null, stream, buffered bool
		base                   string
	}{
		{"null", File{}, true, false, false, UnknownFile},
		{"empty_buffer", File{Path: "x/y.css", Contents: []byte{}}, false, false, true, "y.css"},
		{"stream", File{Stream: strings.NewReader("")}, false, true, false, UnknownFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.file.IsNull() != tt.null || tt.file.IsStream() != tt.stream || tt.file.IsBuffer() != tt.buffered {
				t.Errorf("IsNull=%v IsStream=%v IsBuffer=%v", tt.file.IsNull(), tt.file.IsStream(), tt.file.IsBuffer())
			}

			if n := tt.file.Name(); n != tt.base {
				t.Errorf("Name() = %q, want %q", n, tt.base)
			}
		})
	}
}
