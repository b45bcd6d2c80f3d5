package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/ardnew/inlinemath/calc"
	"github.com/ardnew/inlinemath/filter"
	"github.com/ardnew/inlinemath/log"
)

// Math holds the evaluation flags shared by every command.
type Math struct {
	Var           map[string]string `help:"Bind variable NAME to expression EXPR (repeatable)" mapsep:"none"                  placeholder:"NAME=EXPR" short:"D"`
	VarsFile      string            `help:"YAML or JSON mapping of variable bindings"          name:"vars"                   placeholder:"FILE"      type:"path"`
	Epsilon       float64           `default:"${mathEpsilon}"                                  help:"Relative tolerance of numeric comparisons"`
	EvalPrecision int               `default:"${mathEvalPrecision}"                            help:"Decimal digits of number results"`
	Matrix        string            `default:"${mathMatrix}"                                   enum:"${mathMatrixEnum}"      help:"Representation of array results"`
	Number        string            `default:"${mathNumber}"                                   enum:"${mathNumberEnum}"      help:"Numeric representation"`
	Precision     int               `default:"${mathPrecision}"                                help:"Significant digits of bignumber results"`
	Marker        string            `default:"${mathMarker}"                                   help:"Name of the call enclosing each expression"`
	FailFast      bool              `help:"Stop at the first failed expression"`
}

// DefaultMath returns the flag values used when none are given.
func DefaultMath() Math {
	cfg := calc.DefaultConfig()

	return Math{
		Epsilon:       cfg.Epsilon,
		EvalPrecision: cfg.EvalPrecision,
		Matrix:        cfg.Matrix.String(),
		Number:        cfg.Number.String(),
		Precision:     cfg.Precision,
		Marker:        filter.DefaultMarker,
	}
}

// KongVars returns the variables interpolated into the flag tags of [Math].
func (Math) KongVars() kong.Vars {
	def := DefaultMath()

	return kong.Vars{
		"mathEpsilon":       strconv.FormatFloat(def.Epsilon, 'g', -1, 64),
		"mathEvalPrecision": strconv.Itoa(def.EvalPrecision),
		"mathMatrix":        def.Matrix,
		"mathMatrixEnum":    strings.Join(calc.Matrices(), ","),
		"mathNumber":        def.Number,
		"mathNumberEnum":    strings.Join(calc.Numbers(), ","),
		"mathPrecision":     strconv.Itoa(def.Precision),
		"mathMarker":        def.Marker,
	}
}

// Group returns the help group of the flags of [Math].
func (Math) Group() kong.Group {
	var group kong.Group

	group.Key = "math"
	group.Title = "Evaluation options"

	return group
}

func (m *Math) options() map[string]any {
	return map[string]any{
		calc.KeyEpsilon:       m.Epsilon,
		calc.KeyEvalPrecision: m.EvalPrecision,
		calc.KeyMatrix:        m.Matrix,
		calc.KeyNumber:        m.Number,
		calc.KeyPrecision:     m.Precision,
	}
}

// Bindings returns the variables of the --vars file in file order, followed
// by the --var flags sorted by name.
func (m *Math) Bindings(fs afero.Fs) (calc.Bindings, error) {
	var bindings calc.Bindings

	if m.VarsFile != "" {
		file := slog.String("file", m.VarsFile)

		data, err := afero.ReadFile(fs, m.VarsFile)
		if err != nil {
			return nil, ErrReadVars.With(file).Wrap(err)
		}

		var items yaml.MapSlice
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, ErrReadVars.With(file).Wrap(err)
		}

		for _, item := range items {
			name := fmt.Sprint(item.Key)
			if !calc.IsName(name) {
				return nil, ErrInvalidVarKey.With(file, slog.String("name", name))
			}

			bindings = append(bindings, calc.Binding{Name: name, Value: item.Value})
		}
	}

	for _, name := range slices.Sorted(maps.Keys(m.Var)) {
		if !calc.IsName(name) {
			return nil, ErrInvalidVarKey.With(slog.String("name", name))
		}

		bindings = append(bindings, calc.Binding{Name: name, Value: m.Var[name]})
	}

	return bindings, nil
}

// Policy returns the failure policy selected by --fail-fast.
func (m *Math) Policy() filter.Policy {
	if m.FailFast {
		return filter.Abort
	}

	return filter.Continue
}

// Filter constructs a filter from the flags. Options that were replaced by
// their default are logged at warn level.
func (m *Math) Filter(
	ctx context.Context,
	fs afero.Fs,
	opts ...filter.Option,
) (*filter.Filter, error) {
	bindings, err := m.Bindings(fs)
	if err != nil {
		return nil, err
	}

	flt, err := filter.New(bindings, append([]filter.Option{
		filter.WithOptions(m.options()),
		filter.WithMarker(m.Marker),
		filter.WithPolicy(m.Policy()),
		filter.WithLogger(log.Default()),
	}, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, a := range flt.Adjustments() {
		log.WarnContext(ctx, "option adjusted", slog.Any("option", a))
	}

	log.DebugContext(ctx, "filter ready",
		slog.Any("config", flt.Config()),
		slog.String("marker", flt.Marker()),
		slog.String("policy", m.Policy().String()),
		slog.Int("variables", len(flt.Session().Variables())),
	)

	return flt, nil
}
