package calc

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
)

// literalPatcher rewrites a parsed expression for an arbitrary-precision
// representation: numeric literals become constructor calls, unary minus
// becomes a negation call, and calls of number builtins are redirected to
// their overloads. src is the text being compiled; float literals are
// rebuilt from it so no digits are lost to float64.
type literalPatcher struct {
	literal string
	neg     string
	rename  map[string]string
	src     string
}

// compiling returns a copy of p patching the expression src.
func (p literalPatcher) compiling(src string) *literalPatcher {
	p.src = src

	return &p
}

func (p *literalPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, call(p.literal, &ast.StringNode{Value: strconv.Itoa(n.Value)}))

	case *ast.FloatNode:
		ast.Patch(node, call(p.literal, &ast.StringNode{Value: p.floatText(n)}))

	case *ast.UnaryNode:
		switch n.Operator {
		case "-":
			ast.Patch(node, call(p.neg, n.Node))
		case "+":
			ast.Patch(node, n.Node)
		}

	case *ast.CallNode:
		id, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return
		}

		if to, ok := p.rename[id.Value]; ok {
			ast.Patch(node, call(to, n.Arguments...))
		}

	case *ast.BuiltinNode:
		if to, ok := p.rename[n.Name]; ok {
			ast.Patch(node, call(to, n.Arguments...))
		}
	}
}

// floatText returns the source text of a float literal, or its shortest
// float64 rendering when the node location does not cover the literal.
// Locations are tried as rune and as byte offsets, with an exclusive and an
// inclusive end.
func (p *literalPatcher) floatText(n *ast.FloatNode) string {
	loc := n.Location()
	runes := []rune(p.src)

	for _, text := range []func(from, to int) (string, bool){
		func(from, to int) (string, bool) {
			if from < 0 || from >= to || to > len(runes) {
				return "", false
			}

			return string(runes[from:to]), true
		},
		func(from, to int) (string, bool) {
			if from < 0 || from >= to || to > len(p.src) {
				return "", false
			}

			return p.src[from:to], true
		},
	} {
		for _, end := range []int{loc.To + 1, loc.To} {
			s, ok := text(loc.From, end)
			if !ok {
				continue
			}

			s = strings.ReplaceAll(s, "_", "")
			if f, err := strconv.ParseFloat(s, 64); err == nil && f == n.Value {
				return s
			}
		}
	}

	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// tolerancePatcher replaces comparisons of two machine numbers with calls
// of the epsilon-aware comparison functions.
type tolerancePatcher struct{}

func (tolerancePatcher) Visit(node *ast.Node) {
	n, ok := (*node).(*ast.BinaryNode)
	if !ok {
		return
	}

	name, ok := comparisonOperator[n.Operator]
	if !ok || !isNumeric(n.Left) || !isNumeric(n.Right) {
		return
	}

	ast.Patch(node, call(name, n.Left, n.Right))
}

func isNumeric(n ast.Node) bool {
	t := n.Type()
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func call(name string, args ...ast.Node) *ast.CallNode {
	return &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: name},
		Arguments: args,
	}
}
