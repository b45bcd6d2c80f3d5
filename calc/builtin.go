package calc

import (
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"slices"

	"github.com/expr-lang/expr"
)

// constant is a named mathematical constant. digits holds enough decimal
// places for any practical [Config.Precision].
type constant struct {
	name   string
	value  float64
	digits string
}

var constants = []constant{
	{"e", math.E, "2.71828182845904523536028747135266249775724709369995957496696762772407663035354759"},
	{"phi", math.Phi, "1.61803398874989484820458683436563811772030917980576286213544862270526046281890245"},
	{"pi", math.Pi, "3.14159265358979323846264338327950288419716939937510582097494459230781640628620900"},
	{"tau", 2 * math.Pi, "6.28318530717958647692528676655900576839433879875021164194988918461563281257241800"},
}

// function is a real function evaluated in float64.
type function struct {
	name string
	f1   func(float64) float64
	f2   func(float64, float64) float64
}

var functions = []function{
	{name: "acos", f1: math.Acos},
	{name: "asin", f1: math.Asin},
	{name: "atan", f1: math.Atan},
	{name: "atan2", f2: math.Atan2},
	{name: "cbrt", f1: math.Cbrt},
	{name: "cos", f1: math.Cos},
	{name: "cosh", f1: math.Cosh},
	{name: "exp", f1: math.Exp},
	{name: "hypot", f2: math.Hypot},
	{name: "log", f1: math.Log},
	{name: "log10", f1: math.Log10},
	{name: "log2", f1: math.Log2},
	{name: "pow", f2: math.Pow},
	{name: "sin", f1: math.Sin},
	{name: "sinh", f1: math.Sinh},
	{name: "sqrt", f1: math.Sqrt},
	{name: "tan", f1: math.Tan},
	{name: "tanh", f1: math.Tanh},
}

// Names of the epsilon-aware comparison functions, in the order of the
// operators they replace: == != < <= > >=.
var comparisons = []string{"equal", "unequal", "smaller", "smallerEq", "larger", "largerEq"}

var comparisonOperator = map[string]string{
	"==": "equal",
	"!=": "unequal",
	"<":  "smaller",
	"<=": "smallerEq",
	">":  "larger",
	">=": "largerEq",
}

// Builtins returns the names of all constants and functions a session
// provides, sorted.
func Builtins() []string {
	names := make([]string, 0, len(constants)+len(functions)+len(comparisons)+1)
	for _, c := range constants {
		names = append(names, c.name)
	}

	for _, f := range functions {
		names = append(names, f.name)
	}

	names = append(names, comparisons...)
	names = append(names, "mod")

	slices.Sort(names)

	return names
}

// nearlyEqual reports whether x and y are equal within the relative
// tolerance eps.
func nearlyEqual(x, y, eps float64) bool {
	if x == y {
		return true
	}

	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}

	diff := math.Abs(x - y)
	if diff < 2.220446049250313e-16 { // float64 machine epsilon
		return true
	}

	return diff <= math.Max(math.Abs(x), math.Abs(y))*eps
}

// compare applies the named comparison with tolerance eps.
func compare(name string, x, y, eps float64) bool {
	eq := nearlyEqual(x, y, eps)

	switch name {
	case "equal":
		return eq
	case "unequal":
		return !eq
	case "smaller":
		return !eq && x < y
	case "smallerEq":
		return eq || x < y
	case "larger":
		return !eq && x > y
	case "largerEq":
		return eq || x > y
	default:
		return false
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}

func arity(name string, params []any, n int) error {
	if len(params) != n {
		return ErrArgument.Wrap(fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(params)))
	}

	return nil
}

// floats converts every parameter to float64.
func floats(name string, params []any) ([]float64, error) {
	out := make([]float64, len(params))

	for i, p := range params {
		switch x := p.(type) {
		case bool:
			return nil, ErrArgument.Wrap(fmt.Errorf("%s: %s is not a number", name, typeName(p)))
		case *big.Float:
			out[i], _ = x.Float64()
		case *big.Rat:
			out[i], _ = x.Float64()
		default:
			f, ok := toFloat(p)
			if !ok {
				return nil, ErrArgument.Wrap(fmt.Errorf("%s: %s is not a number", name, typeName(p)))
			}

			out[i] = f
		}
	}

	return out, nil
}

// floatOptions returns the functions of the [NumberFloat] representation.
// They accept any numeric argument and return float64.
func floatOptions(eps float64) []expr.Option {
	opts := make([]expr.Option, 0, len(functions)+len(comparisons)+1)

	for _, fn := range functions {
		n := 1
		if fn.f2 != nil {
			n = 2
		}

		opts = append(opts, expr.Function(fn.name, func(params ...any) (any, error) {
			if err := arity(fn.name, params, n); err != nil {
				return nil, err
			}

			x, err := floats(fn.name, params)
			if err != nil {
				return nil, err
			}

			if n == 1 {
				return fn.f1(x[0]), nil
			}

			return fn.f2(x[0], x[1]), nil
		}))
	}

	opts = append(opts, expr.Function("mod", func(params ...any) (any, error) {
		if err := arity("mod", params, 2); err != nil {
			return nil, err
		}

		a, aok := params[0].(int)
		b, bok := params[1].(int)

		if aok && bok {
			if b == 0 {
				return a, nil
			}

			return ((a % b) + b) % b, nil
		}

		x, err := floats("mod", params)
		if err != nil {
			return nil, err
		}

		if x[1] == 0 {
			return x[0], nil
		}

		return x[0] - x[1]*math.Floor(x[0]/x[1]), nil
	}))

	for _, name := range comparisons {
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			if err := arity(name, params, 2); err != nil {
				return nil, err
			}

			x, err := floats(name, params)
			if err != nil {
				return nil, err
			}

			return compare(name, x[0], x[1], eps), nil
		}))
	}

	// Integer + - * keep their static int type. A result that does not fit
	// in an int is computed in float64 instead of wrapping.
	for _, op := range []struct {
		name, op string
		exact    func(x, y int) (int, bool)
		approx   func(x, y float64) float64
	}{
		{"intAdd", "+", addInt, func(x, y float64) float64 { return x + y }},
		{"intSub", "-", subInt, func(x, y float64) float64 { return x - y }},
		{"intMul", "*", mulInt, func(x, y float64) float64 { return x * y }},
	} {
		opts = append(opts,
			expr.Function(op.name, func(params ...any) (any, error) {
				if err := arity(op.op, params, 2); err != nil {
					return nil, err
				}

				x, xok := params[0].(int)
				y, yok := params[1].(int)

				if xok && yok {
					if r, ok := op.exact(x, y); ok {
						return r, nil
					}
				}

				f, err := floats(op.op, params)
				if err != nil {
					return nil, err
				}

				return op.approx(f[0], f[1]), nil
			}, new(func(int, int) int)),
			expr.Operator(op.op, op.name),
		)
	}

	return opts
}

func addInt(x, y int) (int, bool) {
	r := x + y

	return r, (r > x) == (y > 0)
}

func subInt(x, y int) (int, bool) {
	r := x - y

	return r, (r < x) == (y > 0)
}

func mulInt(x, y int) (int, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}

	if (x == -1 && y == math.MinInt) || (y == -1 && x == math.MinInt) {
		return 0, false
	}

	r := x * y

	return r, r/y == x
}

// bigOptions returns the functions and operator overloads of an
// arbitrary-precision representation.
func bigOptions[T any](a arith[T], eps float64) []expr.Option {
	var (
		opts      []expr.Option
		unary     = []any{new(func(T) T), new(func(int) T), new(func(float64) T)}
		binary    = []any{new(func(T, T) T), new(func(T, int) T), new(func(int, T) T), new(func(T, float64) T), new(func(float64, T) T)}
		predicate = []any{new(func(T, T) bool), new(func(T, int) bool), new(func(int, T) bool), new(func(T, float64) bool), new(func(float64, T) bool)}
	)

	args := func(name string, params []any, n int) ([]T, error) {
		if err := arity(name, params, n); err != nil {
			return nil, err
		}

		out := make([]T, n)

		for i, p := range params {
			v, err := a.coerce(p)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil
	}

	fn1 := func(name string, f func(T) (T, error)) expr.Option {
		return expr.Function(name, func(params ...any) (any, error) {
			x, err := args(name, params, 1)
			if err != nil {
				return nil, err
			}

			return guard(func() (any, error) { return f(x[0]) })
		}, unary...)
	}

	fn2 := func(name string, f func(T, T) (T, error)) expr.Option {
		return expr.Function(name, func(params ...any) (any, error) {
			x, err := args(name, params, 2)
			if err != nil {
				return nil, err
			}

			return guard(func() (any, error) { return f(x[0], x[1]) })
		}, binary...)
	}

	pred := func(name string, f func(T, T) bool) expr.Option {
		return expr.Function(name, func(params ...any) (any, error) {
			x, err := args(name, params, 2)
			if err != nil {
				return nil, err
			}

			return f(x[0], x[1]), nil
		}, predicate...)
	}

	exact := func(f func(T, T) T) func(T, T) (T, error) {
		return func(x, y T) (T, error) { return f(x, y), nil }
	}

	opts = append(opts, expr.Function(a.literal, func(params ...any) (any, error) {
		if err := arity(a.literal, params, 1); err != nil {
			return nil, err
		}

		if s, ok := params[0].(string); ok {
			return a.parse(s)
		}

		return a.coerce(params[0])
	}, new(func(string) T), new(func(int) T), new(func(float64) T), new(func(T) T)))

	// arithmetic operators
	for _, op := range []struct {
		name string
		ops  []string
		f    func(T, T) (T, error)
	}{
		{"Add", []string{"+"}, exact(a.add)},
		{"Sub", []string{"-"}, exact(a.sub)},
		{"Mul", []string{"*"}, exact(a.mul)},
		{"Div", []string{"/"}, a.quo},
		{"Mod", []string{"%"}, a.mod},
		{"Pow", []string{"^", "**"}, a.pow},
	} {
		name := a.prefix + op.name

		opts = append(opts, fn2(name, op.f))
		for _, o := range op.ops {
			opts = append(opts, expr.Operator(o, name))
		}
	}

	// exact comparison operators
	for _, op := range []struct {
		name, op string
		ok       func(int) bool
	}{
		{"Eq", "==", func(c int) bool { return c == 0 }},
		{"Ne", "!=", func(c int) bool { return c != 0 }},
		{"Lt", "<", func(c int) bool { return c < 0 }},
		{"Le", "<=", func(c int) bool { return c <= 0 }},
		{"Gt", ">", func(c int) bool { return c > 0 }},
		{"Ge", ">=", func(c int) bool { return c >= 0 }},
	} {
		name := a.prefix + op.name

		opts = append(opts,
			pred(name, func(x, y T) bool { return op.ok(a.cmp(x, y)) }),
			expr.Operator(op.op, name),
		)
	}

	lift := func(f func(T) T) func(T) (T, error) {
		return func(x T) (T, error) { return f(x), nil }
	}

	opts = append(opts,
		fn1(a.prefix+"Neg", lift(a.neg)),
		fn1(a.prefix+"Abs", lift(a.abs)),
		fn1(a.prefix+"Floor", lift(a.floor)),
		fn1(a.prefix+"Ceil", lift(a.ceil)),
		fn2(a.prefix+"Min", func(x, y T) (T, error) {
			if a.cmp(x, y) <= 0 {
				return x, nil
			}

			return y, nil
		}),
		fn2(a.prefix+"Max", func(x, y T) (T, error) {
			if a.cmp(x, y) >= 0 {
				return x, nil
			}

			return y, nil
		}),
		expr.Function(a.prefix+"Round", func(params ...any) (any, error) {
			if len(params) == 1 {
				params = append(params, 0)
			}

			if err := arity("round", params, 2); err != nil {
				return nil, err
			}

			x, err := a.coerce(params[0])
			if err != nil {
				return nil, err
			}

			digits, ok := toInt(params[1])
			if !ok {
				d, err := a.coerce(params[1])
				if err != nil {
					return nil, err
				}

				digits = int(a.toFloat(d))
			}

			return a.round(x, digits), nil
		}, slices.Concat(unary, []any{new(func(T, int) T), new(func(T, T) T)})...),
		fn1("sqrt", a.sqrt),
		fn2("mod", a.mod),
		fn2("pow", a.pow),
	)

	// transcendental functions through float64
	for _, fn := range functions {
		if fn.name == "sqrt" || fn.name == "pow" {
			continue
		}

		if fn.f1 != nil {
			opts = append(opts, fn1(fn.name, func(x T) (T, error) {
				return a.fromFloat(fn.f1(a.toFloat(x)))
			}))
		} else {
			opts = append(opts, fn2(fn.name, func(x, y T) (T, error) {
				return a.fromFloat(fn.f2(a.toFloat(x), a.toFloat(y)))
			}))
		}
	}

	for _, name := range comparisons {
		opts = append(opts, pred(name, func(x, y T) bool {
			return compare(name, a.toFloat(x), a.toFloat(y), eps)
		}))
	}

	return opts
}

// bigLiterals returns the literal patcher of an arbitrary-precision
// representation. It is bound to each expression with
// [literalPatcher.compiling].
func bigLiterals[T any](a arith[T]) literalPatcher {
	return literalPatcher{
		literal: a.literal,
		neg:     a.prefix + "Neg",
		rename: map[string]string{
			"abs":   a.prefix + "Abs",
			"ceil":  a.prefix + "Ceil",
			"floor": a.prefix + "Floor",
			"max":   a.prefix + "Max",
			"min":   a.prefix + "Min",
			"round": a.prefix + "Round",
		},
	}
}

// constantValues returns the constants converted to the representation
// selected by cfg.
func constantValues(cfg Config) (map[string]any, error) {
	env := make(map[string]any, len(constants))

	for _, c := range constants {
		var (
			v   any
			err error
		)

		switch cfg.Number {
		case NumberBig:
			v, err = newBigFloatArith(cfg.Precision).parse(c.digits)
		case NumberFraction:
			v, err = newFractionArith().fromFloat(c.value)
		default:
			v = c.value
		}

		if err != nil {
			return nil, ErrEvaluate.Wrap(err).With(slog.String("constant", c.name))
		}

		env[c.name] = v
	}

	return env, nil
}
