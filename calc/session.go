package calc

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/inlinemath/log"
)

// Session is a binding environment together with the configuration its
// expressions are evaluated under.
//
// Variables are added only by [Session.Define]. Assignments made by
// [Session.Evaluate] are visible to later statements of the same call and
// discarded afterwards.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg    Config
	vars   map[string]any
	consts map[string]any
	opts   []expr.Option
	lits   *literalPatcher
	cache  programCache
	logger log.Logger
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithSessionLogger sets the logger used for trace output.
func WithSessionLogger(logger log.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession returns an empty session evaluating under cfg. Invalid fields
// of cfg are replaced by their defaults; see [Config.Normalize].
func NewSession(cfg Config, opts ...SessionOption) *Session {
	cfg, _ = cfg.Normalize()

	s := &Session{
		cfg:    cfg,
		vars:   make(map[string]any),
		logger: log.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	consts, err := constantValues(cfg)
	if err != nil {
		// constant digits are fixed and always parse
		panic(err)
	}

	s.consts = consts

	switch cfg.Number {
	case NumberBig:
		a := newBigFloatArith(cfg.Precision)
		lits := bigLiterals(a)
		s.opts, s.lits = bigOptions(a, cfg.Epsilon), &lits
	case NumberFraction:
		a := newFractionArith()
		lits := bigLiterals(a)
		s.opts, s.lits = bigOptions(a, cfg.Epsilon), &lits
	default:
		s.opts = append(floatOptions(cfg.Epsilon), expr.Patch(tolerancePatcher{}))
	}

	return s
}

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Lookup returns the value of a variable or constant.
func (s *Session) Lookup(name string) (any, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}

	v, ok := s.consts[name]

	return v, ok
}

// Variables returns the names of all defined variables, sorted.
func (s *Session) Variables() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// Names returns every name an expression can refer to, sorted.
func (s *Session) Names() []string {
	names := append(s.Variables(), Builtins()...)
	slices.Sort(names)

	return slices.Compact(names)
}

// Define evaluates the assignment "name = src" and stores the assigned
// value permanently as variable name.
func (s *Session) Define(ctx context.Context, name, src string) (any, error) {
	if !IsName(name) {
		return nil, ErrInvalidName.With(slog.String("name", name))
	}

	_, scope, err := s.evaluate(ctx, name+" = "+src)
	if err != nil {
		return nil, err
	}

	v := scope[name]

	s.vars[name] = v
	s.cache.clear()

	s.logger.TraceContext(ctx, "define",
		slog.String("name", name),
		slog.String("value", Format(v, s.cfg)),
	)

	return s.present(v), nil
}

// DefineAll defines every binding in order. A binding that fails, for
// instance because it refers to a later one, is retried after the others
// until a full pass makes no progress. The first error of the final pass is
// returned wrapped in [ErrBinding].
func (s *Session) DefineAll(ctx context.Context, bindings Bindings) error {
	pending := slices.Clone(bindings)

	for len(pending) > 0 {
		var (
			failed []Binding
			first  error
		)

		for _, b := range pending {
			if _, err := s.Define(ctx, b.Name, b.Source()); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				failed = append(failed, b)
				if first == nil {
					first = ErrBinding.Wrap(err).With(
						slog.String("name", b.Name),
						slog.String("value", b.Source()),
					)
				}
			}
		}

		if len(failed) == len(pending) {
			return first
		}

		pending = failed
	}

	return nil
}

// Evaluate evaluates a statement list. See the package documentation for the
// statement syntax.
func (s *Session) Evaluate(ctx context.Context, src string) (any, error) {
	v, _, err := s.evaluate(ctx, src)
	if err != nil {
		return nil, err
	}

	return s.present(v), nil
}

// evaluate runs every statement of src and returns the result with the
// scratch scope holding its assignments.
func (s *Session) evaluate(ctx context.Context, src string) (any, map[string]any, error) {
	stmts, block, err := splitStatements(src)
	if err != nil {
		return nil, nil, WrapError(err).With(slog.String("source", src))
	}

	var (
		scope   map[string]any
		last    any
		visible []any
	)

	for _, st := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		v, err := s.run(ctx, st.source, scope)
		if err != nil {
			return nil, nil, err
		}

		if st.target != "" {
			if scope == nil {
				scope = make(map[string]any)
			}

			scope[st.target] = v
		}

		last = v
		if !st.hidden {
			visible = append(visible, v)
		}
	}

	if block {
		return ResultSet{Entries: visible}, scope, nil
	}

	return last, scope, nil
}

// run compiles and runs a single expression. Programs are cached unless
// scope shadows or extends the session variables.
func (s *Session) run(ctx context.Context, src string, scope map[string]any) (any, error) {
	env := s.env(scope)

	var (
		program *vm.Program
		cached  bool
	)

	if len(scope) == 0 {
		program, cached = s.cache.load(src)
	}

	if !cached {
		var err error

		opts := append([]expr.Option{expr.Env(env)}, s.opts...)
		if s.lits != nil {
			opts = append(opts, expr.Patch(s.lits.compiling(src)))
		}

		program, err = expr.Compile(src, opts...)
		if err != nil {
			return nil, s.compileError(src, err)
		}

		if len(scope) == 0 {
			s.cache.store(src, program)
		}
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("source", src))
	}

	v, err := normalize(out)
	if err != nil {
		return nil, WrapError(err).With(slog.String("source", src))
	}

	if s.logger.Enabled(ctx, log.LevelTrace) {
		s.logger.TraceContext(ctx, "evaluate",
			slog.String("source", src),
			slog.String("result", Format(v, s.cfg)),
			slog.Bool("cached", cached),
		)
	}

	return v, nil
}

func (s *Session) env(scope map[string]any) map[string]any {
	env := make(map[string]any, len(s.consts)+len(s.vars)+len(scope))
	maps.Copy(env, s.consts)
	maps.Copy(env, s.vars)
	maps.Copy(env, scope)

	return env
}

func (s *Session) compileError(src string, err error) error {
	e := ErrCompile.Wrap(err).With(slog.String("source", src))

	name, ok := unknownIdentifier(err)
	if !ok {
		return e
	}

	hint := Suggest(name, s.Names())
	if len(hint) == 0 {
		return e
	}

	return ErrCompile.Wrap(fmt.Errorf("%s (did you mean %s?)",
		e.Message(), strings.Join(hint, ", "))).With(
		slog.String("source", src),
		slog.Any("suggestions", hint),
	)
}

// normalize converts a program result to the value types stored in a
// session.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return nil, ErrUndefined
		}
	case float32:
		return normalize(float64(x))
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if i, ok := toInt(x); ok {
			return i, nil
		}
	case *big.Float:
		if x == nil {
			return nil, ErrUndefined
		}
	case Matrix:
		return x.Data, nil
	}

	return v, nil
}

// present converts a stored value to its caller-facing form, wrapping
// arrays in [Matrix] when the configuration asks for it.
func (s *Session) present(v any) any {
	switch x := v.(type) {
	case []any:
		if s.cfg.Matrix == MatrixWrapped {
			return Matrix{Data: x}
		}
	case ResultSet:
		entries := make([]any, len(x.Entries))
		for i, e := range x.Entries {
			entries[i] = s.present(e)
		}

		return ResultSet{Entries: entries}
	}

	return v
}
