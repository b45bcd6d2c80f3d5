package calc

import (
	"math"
	"math/big"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		x      float64
		digits int
		want   float64
	}{
		{5.5555555555555555, 2, 5.56},
		{5.5555555555555555, 4, 5.5556},
		{5.5555555555555555, 3, 5.556},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{1.005, 2, 1.01},
		{-0.0001, 3, 0},
		{123456789.123, 1, 123456789.1},
		{1e300, 5, 1e300},
		{7, 3, 7},
	}

	for _, tt := range tests {
		if got := Round(tt.x, tt.digits); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.x, tt.digits, got, tt.want)
		}
	}

	if got := Round(math.Inf(1), 2); !math.IsInf(got, 1) {
		t.Errorf("Round(+Inf) = %v", got)
	}

	if got := Round(-0.0001, 3); math.Signbit(got) {
		t.Error("Round kept the sign of negative zero")
	}
}

func TestFormat(t *testing.T) {
	big7 := Config{Number: NumberBig, Precision: 7}

	tests := []struct {
		name string
		v    any
		cfg  Config
		want string
	}{
		{"int", 10, DefaultConfig(), "10"},
		{"float_integral", 10.0, DefaultConfig(), "10"},
		{"float_rounded", 5.5555555555555555, DefaultConfig(), "5.556"},
		{"negative", -0.25, DefaultConfig(), "-0.25"},
		{"large", 1e21, DefaultConfig(), "1e+21"},
		{"below_exponent", 123456789012345680000.0, DefaultConfig(), "123456789012345680000"},
		{"tiny", 1.5e-7, Config{EvalPrecision: 10}, "1.5e-7"},
		{"small", 0.000001, Config{EvalPrecision: 10}, "0.000001"},
		{"infinity", math.Inf(1), DefaultConfig(), "Infinity"},
		{"negative_infinity", math.Inf(-1), DefaultConfig(), "-Infinity"},
		{"bool", true, DefaultConfig(), "true"},
		{"string", "px", DefaultConfig(), "px"},
		{"nil", nil, DefaultConfig(), "null"},
		{"array", []any{1, 2.5, "a"}, DefaultConfig(), `[1, 2.5, "a"]`},
		{"matrix", Matrix{Data: []any{[]any{1, 2}, []any{3, 4}}}, DefaultConfig(), "[[1, 2], [3, 4]]"},
		{"result_set", ResultSet{Entries: []any{20}}, DefaultConfig(), "[20]"},
		{"empty_result_set", ResultSet{}, DefaultConfig(), "[]"},
		{"map", map[string]any{"b": 2, "a": "x"}, DefaultConfig(), `{"a": "x", "b": 2}`},
		{"unrounded_in_array", []any{1.23456}, DefaultConfig(), "[1.23456]"},
		{"big", mustBig(t, "0.1234568", 7), big7, "0.1234568"},
		{"big_integer", mustBig(t, "10", 7), big7, "10"},
		{"big_large", mustBig(t, "1.5e30", 7), big7, "1.5e+30"},
		{"big_negative", mustBig(t, "-0.5", 7), big7, "-0.5"},
		{"big_zero", new(big.Float), big7, "0"},
		{"big_inf", new(big.Float).SetInf(true), big7, "-Infinity"},
		{"fraction", big.NewRat(2, 6), Config{Number: NumberFraction}, "1/3"},
		{"fraction_integer", big.NewRat(6, 2), Config{Number: NumberFraction}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.v, tt.cfg); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestPlaceDigits(t *testing.T) {
	tests := []struct {
		digits string
		exp    int
		want   string
	}{
		{"5", 0, "5"},
		{"125", 2, "125"},
		{"125", 4, "12500"},
		{"125", 0, "1.25"},
		{"125", -1, "0.125"},
		{"125", -6, "0.00000125"},
		{"125", -7, "1.25e-7"},
		{"1", 20, "100000000000000000000"},
		{"1", 21, "1e+21"},
	}

	for _, tt := range tests {
		if got := placeDigits(tt.digits, tt.exp); got != tt.want {
			t.Errorf("placeDigits(%q, %d) = %q, want %q", tt.digits, tt.exp, got, tt.want)
		}
	}
}

func mustBig(t *testing.T, s string, precision int) *big.Float {
	t.Helper()

	x, err := newBigFloatArith(precision).parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}

	return x
}
