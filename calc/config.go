package calc

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Number selects the numeric representation used by a [Session].
type Number int

// Numeric representations.
const (
	NumberFloat    Number = iota // machine int and float64
	NumberBig                    // *big.Float with Precision significant digits
	NumberFraction               // *big.Rat
)

var numberName = map[Number]string{
	NumberFloat:    "number",
	NumberBig:      "bignumber",
	NumberFraction: "fraction",
}

func (n Number) String() string {
	if s, ok := numberName[n]; ok {
		return s
	}

	return "Number(" + strconv.Itoa(int(n)) + ")"
}

// ParseNumber returns the representation named s, ignoring case.
func ParseNumber(s string) (Number, bool) {
	for n, name := range numberName {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return n, true
		}
	}

	return NumberFloat, false
}

// Numbers returns the names of all numeric representations.
func Numbers() []string {
	return []string{"number", "bignumber", "fraction"}
}

// MatrixKind selects how array results are represented.
type MatrixKind int

// Array representations.
const (
	MatrixWrapped MatrixKind = iota // results wrapped in [Matrix]
	MatrixArray                 // results left as []any
)

func (m MatrixKind) String() string {
	switch m {
	case MatrixWrapped:
		return "matrix"
	case MatrixArray:
		return "array"
	default:
		return "MatrixKind(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMatrix returns the array representation named s, ignoring case.
func ParseMatrix(s string) (MatrixKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "matrix":
		return MatrixWrapped, true
	case "array":
		return MatrixArray, true
	default:
		return MatrixWrapped, false
	}
}

// Matrices returns the names of all array representations.
func Matrices() []string { return []string{"matrix", "array"} }

// Default configuration values.
const (
	DefaultEpsilon       = 1e-12
	DefaultEvalPrecision = 3
	DefaultMatrix        = MatrixWrapped
	DefaultNumber        = NumberFloat
	DefaultPrecision     = 64
)

// Option keys recognized by [ParseConfig].
const (
	KeyEpsilon       = "epsilon"
	KeyEvalPrecision = "eval_precision"
	KeyMatrix        = "matrix"
	KeyNumber        = "number"
	KeyPrecision     = "precision"
)

// Config is the immutable evaluation configuration of a [Session].
type Config struct {
	Epsilon       float64    `validate:"gte=0"`
	EvalPrecision int        `validate:"gte=0"`
	Matrix        MatrixKind `validate:"gte=0,lte=1"`
	Number        Number     `validate:"gte=0,lte=2"`
	Precision     int        `validate:"gt=0"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Epsilon:       DefaultEpsilon,
		EvalPrecision: DefaultEvalPrecision,
		Matrix:        DefaultMatrix,
		Number:        DefaultNumber,
		Precision:     DefaultPrecision,
	}
}

// Validate reports every field violating its constraint.
func (c Config) Validate() error {
	return validate().Struct(c)
}

// LogValue implements slog.LogValuer.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64(KeyEpsilon, c.Epsilon),
		slog.Int(KeyEvalPrecision, c.EvalPrecision),
		slog.String(KeyMatrix, c.Matrix.String()),
		slog.String(KeyNumber, c.Number.String()),
		slog.Int(KeyPrecision, c.Precision),
	)
}

// Map returns c as the loosely typed option map accepted by [ParseConfig].
func (c Config) Map() map[string]any {
	return map[string]any{
		KeyEpsilon:       c.Epsilon,
		KeyEvalPrecision: c.EvalPrecision,
		KeyMatrix:        c.Matrix.String(),
		KeyNumber:        c.Number.String(),
		KeyPrecision:     c.Precision,
	}
}

// Normalize replaces each invalid field of c with its default.
func (c Config) Normalize() (Config, []Adjustment) {
	var (
		d   = DefaultConfig()
		adj []Adjustment
	)

	check := func(key string, v any, tag string, reset func()) {
		if err := validate().Var(v, tag); err != nil {
			adj = append(adj, Adjustment{Key: key, Value: v, Reason: ReasonInvalid})
			reset()
		}
	}

	check(KeyEpsilon, c.Epsilon, "gte=0", func() { c.Epsilon = d.Epsilon })
	check(KeyEvalPrecision, c.EvalPrecision, "gte=0", func() { c.EvalPrecision = d.EvalPrecision })
	check(KeyMatrix, int(c.Matrix), "gte=0,lte=1", func() { c.Matrix = d.Matrix })
	check(KeyNumber, int(c.Number), "gte=0,lte=2", func() { c.Number = d.Number })
	check(KeyPrecision, c.Precision, "gt=0", func() { c.Precision = d.Precision })

	if math.IsNaN(c.Epsilon) || math.IsInf(c.Epsilon, 0) {
		adj = append(adj, Adjustment{Key: KeyEpsilon, Value: c.Epsilon, Reason: ReasonInvalid})
		c.Epsilon = d.Epsilon
	}

	return c, adj
}

// Adjustment reasons.
const (
	ReasonUnknown = "unrecognized option ignored"
	ReasonType    = "wrong value type, using default"
	ReasonInvalid = "value out of range, using default"
)

// Adjustment records one caller option that was not applied as given.
type Adjustment struct {
	Key    string
	Value  any
	Reason string
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s=%v: %s", a.Key, a.Value, a.Reason)
}

// LogValue implements slog.LogValuer.
func (a Adjustment) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("key", a.Key),
		slog.Any("value", a.Value),
		slog.String("reason", a.Reason),
	)
}

// ParseConfig merges the loosely typed options in m over [DefaultConfig].
// Keys are matched case-insensitively with '-' equivalent to '_'. Unknown
// keys are ignored, and a value that cannot be used keeps the default. Both
// are reported in the returned adjustments, ordered by key.
func ParseConfig(m map[string]any) (Config, []Adjustment) {
	cfg := DefaultConfig()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	var adj []Adjustment

	for _, key := range keys {
		val := m[key]

		reason := cfg.set(normalizeKey(key), val)
		if reason != "" {
			adj = append(adj, Adjustment{Key: key, Value: val, Reason: reason})
		}
	}

	return cfg, adj
}

// set applies one option and returns a non-empty reason when it was not
// applied.
func (c *Config) set(key string, val any) string {
	switch key {
	case KeyEpsilon:
		f, ok := toFloat(val)
		if !ok {
			return ReasonType
		}

		if validate().Var(f, "gte=0") != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return ReasonInvalid
		}

		c.Epsilon = f

	case KeyEvalPrecision, KeyPrecision:
		i, ok := toInt(val)
		if !ok {
			return ReasonType
		}

		tag := "gte=0"
		if key == KeyPrecision {
			tag = "gt=0"
		}

		if validate().Var(i, tag) != nil {
			return ReasonInvalid
		}

		if key == KeyPrecision {
			c.Precision = i
		} else {
			c.EvalPrecision = i
		}

	case KeyMatrix:
		s, ok := val.(string)
		if !ok {
			return ReasonType
		}

		if validate().Var(strings.ToLower(s), "oneof=matrix array") != nil {
			return ReasonInvalid
		}

		c.Matrix, _ = ParseMatrix(s)

	case KeyNumber:
		s, ok := val.(string)
		if !ok {
			return ReasonType
		}

		if validate().Var(strings.ToLower(s), "oneof=number bignumber fraction") != nil {
			return ReasonInvalid
		}

		c.Number, _ = ParseNumber(s)

	default:
		return ReasonUnknown
	}

	return ""
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

var validate = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// toInt converts integral values of any numeric kind, or a decimal integer
// string, to int. "4" is accepted; "4.5" and 4.5 are not.
func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint:
		return int(x), x <= math.MaxInt
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		return int(x), x <= math.MaxInt
	case float32:
		return toInt(float64(x))
	case float64:
		if math.Trunc(x) != x || math.Abs(x) > math.MaxInt32 {
			return 0, false
		}

		return int(x), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))

		return i, err == nil
	case fmt.Stringer:
		return toInt(x.String())
	default:
		return 0, false
	}
}

// toFloat converts values of any numeric kind, or a numeric string, to
// float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)

		return f, err == nil
	case fmt.Stringer:
		return toFloat(x.String())
	default:
		if i, ok := toInt(v); ok {
			return float64(i), true
		}

		return 0, false
	}
}
