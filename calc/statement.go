package calc

import (
	"fmt"
	"regexp"
	"strings"
)

// statement is one entry of a statement list.
type statement struct {
	source string // expression text, without any assignment target
	target string // assigned variable name, empty for plain expressions
	hidden bool   // terminated by ';'
}

var assignment = regexp.MustCompile(`(?s)^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=([^=].*)?$`)

// splitStatements splits src at every ';' and newline outside of brackets
// and string literals. Empty statements are dropped. block reports whether
// src is a statement list rather than a single expression.
func splitStatements(src string) (stmts []statement, block bool, err error) {
	var (
		depth int
		quote rune
		esc   bool
		start int
		seps  int
	)

	emit := func(end int, sep rune) error {
		if sep != 0 {
			seps++
		}

		text := strings.TrimSpace(src[start:end])
		if text == "" {
			return nil
		}

		st, err := parseStatement(text)
		if err != nil {
			return err
		}

		st.hidden = sep == ';'
		stmts = append(stmts, st)

		return nil
	}

	for i, r := range src {
		switch {
		case esc:
			esc = false
		case quote != 0:
			switch r {
			case '\\':
				esc = true
			case quote:
				quote = 0
			}
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth == 0 {
				return nil, false, ErrUnbalanced.Wrap(fmt.Errorf("unexpected %q", r))
			}

			depth--
		case depth == 0 && (r == ';' || r == '\n'):
			if err := emit(i, r); err != nil {
				return nil, false, err
			}

			start = i + 1
		}
	}

	if quote != 0 || depth != 0 {
		return nil, false, ErrUnbalanced
	}

	if err := emit(len(src), 0); err != nil {
		return nil, false, err
	}

	if len(stmts) == 0 {
		if seps > 0 {
			return nil, true, nil
		}

		return nil, false, ErrEmptySource
	}

	// a single statement ended by a newline alone is not a list
	block = len(stmts) > 1 || stmts[0].hidden

	return stmts, block, nil
}

func parseStatement(text string) (statement, error) {
	m := assignment.FindStringSubmatch(text)
	if m == nil {
		return statement{source: text}, nil
	}

	src := strings.TrimSpace(m[2])
	if src == "" {
		return statement{}, ErrStatement.Wrap(fmt.Errorf("missing value assigned to %s", m[1]))
	}

	return statement{source: src, target: m[1]}, nil
}
