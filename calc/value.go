package calc

import (
	"cmp"
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strconv"
)

// Matrix is an array result in the [MatrixWrapped] representation.
type Matrix struct {
	Data []any
}

// Size returns the length of each dimension of m. Nested arrays of unequal
// length report the length of their first element.
func (m Matrix) Size() []int {
	var (
		size []int
		data = m.Data
	)

	for {
		size = append(size, len(data))
		if len(data) == 0 {
			return size
		}

		next, ok := data[0].([]any)
		if !ok {
			return size
		}

		data = next
	}
}

func (m Matrix) String() string {
	return printer{precision: DefaultPrecision}.list(m.Data)
}

// ResultSet holds the visible results of a multi-statement evaluation.
type ResultSet struct {
	Entries []any
}

func (r ResultSet) String() string {
	return printer{precision: DefaultPrecision}.list(r.Entries)
}

// Binding is a named variable defined when a [Session] is created. Value is
// either expression source text or a literal that renders as one.
type Binding struct {
	Name  string
	Value any
}

// Bindings is an ordered list of variable definitions.
type Bindings []Binding

// BindingsFromMap returns the entries of m sorted by name.
func BindingsFromMap(m map[string]any) Bindings {
	b := make(Bindings, 0, len(m))
	for name, value := range m {
		b = append(b, Binding{Name: name, Value: value})
	}

	slices.SortFunc(b, func(x, y Binding) int {
		return cmp.Compare(x.Name, y.Name)
	})

	return b
}

// Source returns the expression text assigned by the binding.
func (b Binding) Source() string {
	return source(b.Value)
}

func source(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case *big.Float:
		return x.Text('g', -1)
	case *big.Rat:
		return x.RatString()
	case []any:
		list := "["

		for i, e := range x {
			if i > 0 {
				list += ", "
			}

			if s, ok := e.(string); ok {
				list += strconv.Quote(s)
			} else {
				list += source(e)
			}
		}

		return list + "]"
	default:
		return fmt.Sprint(v)
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsName reports whether s can name a variable.
func IsName(s string) bool {
	return identifier.MatchString(s)
}
