package calc

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Format renders v as it is substituted into text.
//
// In the [NumberFloat] representation, real numbers are first rounded to
// cfg.EvalPrecision decimal digits, half away from zero. Numbers in the
// other representations are already limited by cfg.Precision. All numbers
// render in their shortest form, switching to exponent notation when the
// decimal exponent is at least 21 or below -6.
func Format(v any, cfg Config) string {
	if cfg.Number == NumberFloat {
		if f, ok := v.(float64); ok {
			return formatFloat(Round(f, cfg.EvalPrecision))
		}
	}

	return printer{precision: cfg.Precision}.format(v, false)
}

// Round rounds x to digits decimal places, half away from zero. Rounding
// works on the shortest decimal representation of x, so 1.005 rounds to 1.01.
func Round(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || digits < 0 {
		return x
	}

	ip, fp, _ := strings.Cut(strconv.FormatFloat(math.Abs(x), 'f', -1, 64), ".")
	if len(fp) <= digits {
		return x
	}

	n := []byte(ip + fp[:digits])

	if fp[digits] >= '5' {
		i := len(n) - 1
		for ; i >= 0 && n[i] == '9'; i-- {
			n[i] = '0'
		}

		if i < 0 {
			n = append([]byte{'1'}, n...)
		} else {
			n[i]++
		}
	}

	s := string(n)
	if digits > 0 {
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}

	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r == 0 {
		return 0 // drops the sign of negative zero
	}

	if x < 0 {
		return -r
	}

	return r
}

// printer renders values; precision is the number of significant decimal
// digits kept by *big.Float values.
type printer struct {
	precision int
}

// format renders v; nested is set for elements of collections, where
// strings are quoted.
func (p printer) format(v any, nested bool) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if nested {
			return strconv.Quote(x)
		}

		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case *big.Float:
		return formatBig(x, p.precision)
	case *big.Rat:
		return formatRat(x)
	case *big.Int:
		return x.String()
	case Matrix:
		return p.list(x.Data)
	case ResultSet:
		return p.list(x.Entries)
	case []any:
		return p.list(x)
	case map[string]any:
		return p.dict(x)
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Slice, reflect.Array:
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}

		return p.list(list)
	default:
		return fmt.Sprint(v)
	}
}

func (p printer) list(list []any) string {
	var sb strings.Builder

	sb.WriteByte('[')

	for i, e := range list {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.format(e, true))
	}

	sb.WriteByte(']')

	return sb.String()
}

func (p printer) dict(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	var sb strings.Builder

	sb.WriteByte('{')

	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(p.format(m[k], true))
	}

	sb.WriteByte('}')

	return sb.String()
}

func formatFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		return "0"
	}

	return formatScientific(strconv.FormatFloat(x, 'e', -1, 64))
}

func formatBig(x *big.Float, precision int) string {
	switch {
	case x == nil:
		return "null"
	case x.IsInf():
		if x.Signbit() {
			return "-Infinity"
		}

		return "Infinity"
	case x.Sign() == 0:
		return "0"
	}

	// session values are the binary neighbors of decimals with at most
	// precision digits, so printing that many digits recovers them exactly
	return formatScientific(x.Text('e', precision-1))
}

func formatRat(x *big.Rat) string {
	if x == nil {
		return "null"
	}

	return x.RatString()
}

// formatScientific rewrites a Go exponent-notation number ("-1.25e+02")
// into its shortest JavaScript-style rendering.
func formatScientific(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg || strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}

	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}

	digits := strings.TrimRight(strings.Replace(mant, ".", "", 1), "0")
	if digits == "" {
		return "0"
	}

	out := placeDigits(digits, e)
	if neg {
		return "-" + out
	}

	return out
}

// placeDigits positions the significant digits around the decimal point for
// a value of digits[0].digits[1:] * 10^exp.
func placeDigits(digits string, exp int) string {
	k := len(digits)
	n := exp + 1 // digits before the decimal point

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	var sb strings.Builder

	sb.WriteString(digits[:1])

	if k > 1 {
		sb.WriteByte('.')
		sb.WriteString(digits[1:])
	}

	sb.WriteByte('e')

	if n-1 >= 0 {
		sb.WriteByte('+')
	}

	sb.WriteString(strconv.Itoa(n - 1))

	return sb.String()
}
