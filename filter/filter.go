package filter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/inlinemath/calc"
	"github.com/ardnew/inlinemath/log"
	"github.com/ardnew/inlinemath/pkg"
)

// DefaultMarker is the name of the call enclosing each expression.
const DefaultMarker = pkg.Marker

// Policy selects how a [Filter] proceeds when an expression fails.
type Policy int

// Failure policies.
const (
	// Continue reports each failure and keeps substituting. The text of a
	// failed marker is left in place.
	Continue Policy = iota
	// Abort returns the first failure and leaves the file unmodified.
	Abort
)

func (p Policy) String() string {
	if p == Abort {
		return "abort"
	}

	return "continue"
}

// Filter substitutes the results of embedded expressions into text.
//
// All files passed through one Filter share its variables. A Filter is not
// safe for concurrent use.
type Filter struct {
	cfg      calc.Config
	adjusted []calc.Adjustment
	marker   string
	policy   Policy
	reporter func(error)
	logger   log.Logger
	session  *calc.Session
}

// Option configures a [Filter].
type Option func(*Filter)

// WithConfig sets the evaluation configuration. Invalid fields fall back to
// their defaults.
func WithConfig(cfg calc.Config) Option {
	return func(f *Filter) {
		var adj []calc.Adjustment

		f.cfg, adj = cfg.Normalize()
		f.adjusted = append(f.adjusted, adj...)
	}
}

// WithOptions merges loosely typed options over the configuration; see
// [calc.ParseConfig]. Unknown keys are ignored and invalid values fall back
// to their defaults.
func WithOptions(opts map[string]any) Option {
	return func(f *Filter) {
		m := f.cfg.Map()
		for k, v := range opts {
			m[k] = v
		}

		cfg, adj := calc.ParseConfig(m)

		f.cfg = cfg
		f.adjusted = append(f.adjusted, adj...)
	}
}

// WithMarker sets the name of the call enclosing each expression. A name
// that is not an identifier is ignored.
func WithMarker(name string) Option {
	return func(f *Filter) {
		if !calc.IsName(name) {
			f.adjusted = append(f.adjusted, calc.Adjustment{
				Key:    "marker",
				Value:  name,
				Reason: calc.ReasonInvalid,
			})

			return
		}

		f.marker = name
	}
}

// WithPolicy sets the failure policy.
func WithPolicy(p Policy) Option {
	return func(f *Filter) { f.policy = p }
}

// WithReporter sets the function receiving each failure under the
// [Continue] policy. By default failures are logged at error level.
func WithReporter(report func(error)) Option {
	return func(f *Filter) {
		if report != nil {
			f.reporter = report
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(f *Filter) { f.logger = logger }
}

// New returns a Filter whose variables are initialized from bindings. Each
// binding is evaluated as the assignment "name = value", so values may be
// expressions referring to other bindings.
//
// Options never cause an error. The only error returned wraps
// [calc.ErrBinding] and reports a binding that could not be evaluated.
func New(bindings calc.Bindings, opts ...Option) (*Filter, error) {
	f := &Filter{
		cfg:    calc.DefaultConfig(),
		marker: DefaultMarker,
		policy: Continue,
		logger: log.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	if f.reporter == nil {
		f.reporter = f.logReport
	}

	for _, a := range f.adjusted {
		f.logger.Debug("option adjusted", slog.Any("option", a))
	}

	f.session = calc.NewSession(f.cfg, calc.WithSessionLogger(f.logger))

	if err := f.session.DefineAll(context.Background(), bindings); err != nil {
		return nil, err
	}

	return f, nil
}

// Config returns the resolved evaluation configuration.
func (f *Filter) Config() calc.Config { return f.cfg }

// Adjustments returns the options that were ignored or replaced by their
// default during construction.
func (f *Filter) Adjustments() []calc.Adjustment {
	return append([]calc.Adjustment(nil), f.adjusted...)
}

// Marker returns the name of the call enclosing each expression.
func (f *Filter) Marker() string { return f.marker }

// Session returns the session holding the filter variables.
func (f *Filter) Session() *calc.Session { return f.session }

// Process substitutes every marker in the contents of file and returns the
// same file with its new contents.
//
// A null file is returned unchanged. A streamed file is rejected with
// [ErrUnsupportedInputKind]. Failed expressions yield *[EvaluationError]
// values which are reported under the [Continue] policy, or returned under
// [Abort].
func (f *Filter) Process(ctx context.Context, file *File) (*File, error) {
	return f.process(ctx, file, f.reporter)
}

func (f *Filter) process(ctx context.Context, file *File, report func(error)) (*File, error) {
	if file == nil || file.IsNull() {
		return file, nil
	}

	if file.IsStream() {
		return nil, ErrUnsupportedInputKind.With(slog.String("file", file.Name()))
	}

	var (
		text    = string(file.Contents)
		sb      strings.Builder
		last    int
		matches = Scan(text, f.marker)
		failed  []error
	)

	sb.Grow(len(text))

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sb.WriteString(text[last:m.Start])

		out, err := f.evaluate(ctx, m.Expression)
		if err != nil {
			ee := &EvaluationError{
				File:       file.Name(),
				Line:       lineNumber(text, m.Start),
				Expression: m.Expression,
				Err:        err,
			}

			if f.policy == Abort {
				return nil, ee
			}

			failed = append(failed, ee)
			out = text[m.Start:m.End]
		}

		sb.WriteString(out)

		last = m.End
	}

	sb.WriteString(text[last:])

	file.Contents = []byte(sb.String())

	f.logger.DebugContext(ctx, "processed",
		slog.String("file", file.Name()),
		slog.Int("expressions", len(matches)),
		slog.Int("failed", len(failed)),
	)

	for _, err := range failed {
		report(err)
	}

	return file, nil
}

// evaluate returns the text substituted for expression.
func (f *Filter) evaluate(ctx context.Context, expression string) (string, error) {
	v, err := f.session.Evaluate(ctx, expression)
	if err != nil {
		return "", err
	}

	return calc.Format(v, f.cfg), nil
}

func (f *Filter) logReport(err error) {
	f.logger.Error("evaluation failed", slog.Any("error", err))
}

// lineNumber returns the number of newlines before offset plus one, or 0
// when the offset is on the first line.
func lineNumber(text string, offset int) int {
	n := strings.Count(text[:offset], "\n")
	if n == 0 {
		return 0
	}

	return n + 1
}
