package filter

import "strings"

// Match is one marker found in a text.
type Match struct {
	Expression string // body with escaped terminators resolved
	Start      int    // byte offset of the marker name
	End        int    // byte offset just past the terminator
}

// Scan returns every occurrence of "marker(EXPRESSION);" in text, in order.
//
// The body is scanned character by character. A backslash before ';' embeds
// a literal ';' and is dropped. Brackets and string literals nest, and the
// match ends at the ')' closing the marker's '(' when it is immediately
// followed by ';'. An unescaped ';' outside any nested bracket or string
// ends the attempt without a match; scanning resumes after the marker name.
func Scan(text, marker string) []Match {
	var (
		matches []Match
		open    = marker + "("
	)

	for pos := 0; pos < len(text); {
		i := strings.Index(text[pos:], open)
		if i < 0 {
			break
		}

		start := pos + i

		m, ok := scanBody(text, start, start+len(open))
		if !ok {
			pos = start + len(marker)

			continue
		}

		matches = append(matches, m)
		pos = m.End
	}

	return matches
}

// scanBody scans the expression starting at body, just past the marker's
// opening parenthesis.
func scanBody(text string, start, body int) (Match, bool) {
	var (
		sb    strings.Builder
		stack []byte // open brackets and quotes, innermost last
	)

	for i := body; i < len(text); i++ {
		c := text[i]

		if c == '\\' && i+1 < len(text) {
			if text[i+1] == ';' {
				sb.WriteByte(';')
			} else {
				sb.WriteByte(c)
				sb.WriteByte(text[i+1])
			}

			i++

			continue
		}

		inString := len(stack) > 0 && isQuote(stack[len(stack)-1])

		switch {
		case inString:
			if c == stack[len(stack)-1] {
				stack = stack[:len(stack)-1]
			}

		case isQuote(c):
			stack = append(stack, c)

		case c == '(' || c == '[' || c == '{':
			stack = append(stack, c)

		case c == ')' && len(stack) == 0:
			if i+1 < len(text) && text[i+1] == ';' {
				return Match{Expression: sb.String(), Start: start, End: i + 2}, true
			}

			return Match{}, false

		case c == ')' || c == ']' || c == '}':
			if len(stack) == 0 || stack[len(stack)-1] != opening(c) {
				return Match{}, false
			}

			stack = stack[:len(stack)-1]

		case c == ';' && len(stack) == 0:
			return Match{}, false
		}

		sb.WriteByte(c)
	}

	return Match{}, false
}

func isQuote(c byte) bool { return c == '"' || c == '\'' || c == '`' }

func opening(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}
