package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"
)

// arith implements the arithmetic of an arbitrary-precision number type T
// for the [NumberBig] and [NumberFraction] representations.
type arith[T any] struct {
	literal string // constructor called for patched numeric literals
	prefix  string // prefix of overloaded operator functions

	parse     func(string) (T, error)
	fromFloat func(float64) (T, error)
	toFloat   func(T) float64

	add, sub, mul func(a, b T) T
	quo, mod, pow func(a, b T) (T, error)
	cmp           func(a, b T) int
	neg, abs      func(a T) T
	floor, ceil   func(a T) T
	round         func(a T, digits int) T
	sqrt          func(a T) (T, error)
}

// coerce converts a machine number or a T to T.
func (a arith[T]) coerce(v any) (T, error) {
	switch x := v.(type) {
	case T:
		return x, nil
	case int:
		return a.parse(strconv.Itoa(x))
	case float64:
		return a.fromFloat(x)
	case bool:
		if x {
			return a.parse("1")
		}

		return a.parse("0")
	}

	var zero T

	return zero, ErrArgument.Wrap(errors.New(typeName(v) + " is not a number"))
}

// guard converts math/big NaN panics into domain errors.
func guard[R any](fn func() (R, error)) (r R, err error) {
	defer func() {
		if p := recover(); p != nil {
			nan, ok := p.(big.ErrNaN)
			if !ok {
				panic(p)
			}

			err = ErrDomain.Wrap(nan)
		}
	}()

	return fn()
}

// bigDigits is the number of bits needed to hold precision decimal digits,
// plus guard bits.
func bigDigits(precision int) uint {
	return uint(math.Ceil(float64(precision)*math.Log2(10))) + 32
}

// roundSignificant rounds x to precision significant decimal digits.
func roundSignificant(x *big.Float, precision int) *big.Float {
	if x.IsInf() || x.Sign() == 0 || precision <= 0 {
		return x
	}

	y, _, err := big.ParseFloat(x.Text('e', precision-1), 10, x.Prec(), big.ToNearestEven)
	if err != nil {
		return x
	}

	return y
}

func newBigFloatArith(precision int) arith[*big.Float] {
	bits := bigDigits(precision)

	z := func() *big.Float { return new(big.Float).SetPrec(bits) }
	norm := func(x *big.Float) *big.Float { return roundSignificant(x, precision) }

	var a arith[*big.Float]

	a = arith[*big.Float]{
		literal: "bignumber",
		prefix:  "big",
		parse: func(s string) (*big.Float, error) {
			x, _, err := big.ParseFloat(s, 10, bits, big.ToNearestEven)
			if err != nil {
				return nil, ErrArgument.Wrap(err)
			}

			return norm(x), nil
		},
		fromFloat: func(f float64) (*big.Float, error) {
			switch {
			case math.IsNaN(f):
				return nil, ErrUndefined
			case math.IsInf(f, 0):
				return z().SetInf(f < 0), nil
			}

			return a.parse(strconv.FormatFloat(f, 'g', -1, 64))
		},
		toFloat: func(x *big.Float) float64 {
			f, _ := x.Float64()

			return f
		},
		add: func(x, y *big.Float) *big.Float { return norm(z().Add(x, y)) },
		sub: func(x, y *big.Float) *big.Float { return norm(z().Sub(x, y)) },
		mul: func(x, y *big.Float) *big.Float { return norm(z().Mul(x, y)) },
		quo: func(x, y *big.Float) (*big.Float, error) {
			return guard(func() (*big.Float, error) {
				return norm(z().Quo(x, y)), nil
			})
		},
		cmp: func(x, y *big.Float) int { return x.Cmp(y) },
		neg: func(x *big.Float) *big.Float { return z().Neg(x) },
		abs: func(x *big.Float) *big.Float { return z().Abs(x) },
		floor: func(x *big.Float) *big.Float {
			if x.IsInf() || x.IsInt() {
				return z().Set(x)
			}

			i, _ := x.Int(nil) // toward zero
			if x.Sign() < 0 {
				i.Sub(i, big.NewInt(1))
			}

			return z().SetInt(i)
		},
		sqrt: func(x *big.Float) (*big.Float, error) {
			if x.Sign() < 0 {
				return nil, ErrDomain.Wrap(errors.New("square root of negative number"))
			}

			return norm(z().Sqrt(x)), nil
		},
	}

	a.ceil = func(x *big.Float) *big.Float { return a.neg(a.floor(a.neg(x))) }

	a.round = func(x *big.Float, digits int) *big.Float {
		if x.IsInf() {
			return x
		}

		scale := z().SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
		m := z().Add(norm(z().Abs(z().Mul(x, scale))), big.NewFloat(0.5))
		r := z().Quo(a.floor(m), scale)

		if x.Sign() < 0 {
			r.Neg(r)
		}

		return norm(r)
	}

	a.mod = func(x, y *big.Float) (*big.Float, error) {
		if y.Sign() == 0 {
			return x, nil
		}

		return guard(func() (*big.Float, error) {
			q := a.floor(z().Quo(x, y))

			return norm(z().Sub(x, z().Mul(y, q))), nil
		})
	}

	a.pow = func(x, y *big.Float) (*big.Float, error) {
		if y.IsInt() {
			if n, acc := y.Int64(); acc == big.Exact && abs64(n) <= maxIntPower {
				r := z().SetInt64(1)
				for b, k := z().Set(x), abs64(n); k > 0; k >>= 1 {
					if k&1 == 1 {
						r = norm(r.Mul(r, b))
					}

					b = norm(z().Mul(b, b))
				}

				if n < 0 {
					return a.quo(z().SetInt64(1), r)
				}

				return r, nil
			}
		}

		f := math.Pow(a.toFloat(x), a.toFloat(y))
		if math.IsNaN(f) {
			return nil, ErrDomain.Wrap(errors.New("power has no real result"))
		}

		return a.fromFloat(f)
	}

	return a
}

func newFractionArith() arith[*big.Rat] {
	z := func() *big.Rat { return new(big.Rat) }
	one := big.NewRat(1, 1)
	half := big.NewRat(1, 2)

	var a arith[*big.Rat]

	a = arith[*big.Rat]{
		literal: "fraction",
		prefix:  "frac",
		parse: func(s string) (*big.Rat, error) {
			r, ok := z().SetString(s)
			if !ok {
				return nil, ErrArgument.Wrap(errors.New("invalid fraction " + strconv.Quote(s)))
			}

			return r, nil
		},
		fromFloat: func(f float64) (*big.Rat, error) {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, ErrDomain.Wrap(errors.New(formatFloat(f) + " is not a fraction"))
			}

			return a.parse(strconv.FormatFloat(f, 'g', -1, 64))
		},
		toFloat: func(x *big.Rat) float64 {
			f, _ := x.Float64()

			return f
		},
		add: func(x, y *big.Rat) *big.Rat { return z().Add(x, y) },
		sub: func(x, y *big.Rat) *big.Rat { return z().Sub(x, y) },
		mul: func(x, y *big.Rat) *big.Rat { return z().Mul(x, y) },
		quo: func(x, y *big.Rat) (*big.Rat, error) {
			if y.Sign() == 0 {
				return nil, ErrDomain.Wrap(errors.New("division by zero"))
			}

			return z().Quo(x, y), nil
		},
		cmp: func(x, y *big.Rat) int { return x.Cmp(y) },
		neg: func(x *big.Rat) *big.Rat { return z().Neg(x) },
		abs: func(x *big.Rat) *big.Rat { return z().Abs(x) },
		floor: func(x *big.Rat) *big.Rat {
			// Euclidean division by a positive denominator floors
			return z().SetInt(new(big.Int).Div(x.Num(), x.Denom()))
		},
		sqrt: func(x *big.Rat) (*big.Rat, error) {
			if x.Sign() < 0 {
				return nil, ErrDomain.Wrap(errors.New("square root of negative number"))
			}

			f, _ := x.Float64()

			return a.fromFloat(math.Sqrt(f))
		},
	}

	a.ceil = func(x *big.Rat) *big.Rat { return a.neg(a.floor(a.neg(x))) }

	a.round = func(x *big.Rat, digits int) *big.Rat {
		scale := z().SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
		m := a.floor(z().Add(z().Abs(z().Mul(x, scale)), half))
		r := z().Quo(m, scale)

		if x.Sign() < 0 {
			r.Neg(r)
		}

		return r
	}

	a.mod = func(x, y *big.Rat) (*big.Rat, error) {
		if y.Sign() == 0 {
			return x, nil
		}

		return z().Sub(x, z().Mul(y, a.floor(z().Quo(x, y)))), nil
	}

	a.pow = func(x, y *big.Rat) (*big.Rat, error) {
		if !y.IsInt() || !y.Num().IsInt64() || abs64(y.Num().Int64()) > maxIntPower {
			return nil, ErrDomain.Wrap(errors.New("fraction exponent must be a small integer"))
		}

		n := y.Num().Int64()
		k := big.NewInt(abs64(n))

		r := z().SetFrac(
			new(big.Int).Exp(x.Num(), k, nil),
			new(big.Int).Exp(x.Denom(), k, nil),
		)

		if n < 0 {
			return a.quo(one, r)
		}

		return r, nil
	}

	return a
}

// maxIntPower bounds exponents computed by repeated squaring.
const maxIntPower = 1 << 16

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
