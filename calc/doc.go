// Package calc evaluates calculator expressions with expr-lang.
//
// A [Session] holds the variables expressions refer to, together with the
// [Config] they are evaluated under. Parsing and evaluation are delegated to
// [github.com/expr-lang/expr]; this package adds numeric representations,
// mathematical builtins, statement lists, and result formatting.
//
// # Statements
//
// The source passed to [Session.Evaluate] is a list of statements separated
// by ';' or newline outside of brackets and string literals:
//
//	x = 3; y = 4
//	hypot(x, y)
//
// A statement "name = expr" assigns to a scratch variable visible to the
// following statements of the same call. A statement ended by ';' is
// evaluated but hidden from the result. A single statement yields its value,
// a list yields a [ResultSet] of the visible values, so "5;20" yields [20].
//
// # Numbers
//
// [NumberFloat] uses the machine int and float64 of expr-lang. Comparisons
// of two numbers and the functions equal, unequal, smaller, smallerEq,
// larger, and largerEq treat values within a relative [Config.Epsilon] as
// equal.
//
// [NumberBig] evaluates every literal as a *big.Float rounded to
// [Config.Precision] significant decimal digits, and [NumberFraction] as an
// exact *big.Rat. Both overload the arithmetic and comparison operators.
// Transcendental functions are computed in float64.
//
// # Builtins
//
// Constants e, phi, pi, and tau. Functions acos, asin, atan, atan2, cbrt,
// cos, cosh, exp, hypot, log, log10, log2, mod, pow, sin, sinh, sqrt, tan,
// and tanh, in addition to the expr-lang builtins.
//
// # Formatting
//
// [Format] renders results as they are substituted into text. Real numbers
// of the [NumberFloat] representation are rounded to [Config.EvalPrecision]
// decimal digits first.
package calc
