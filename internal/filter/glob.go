package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// compileGlob translates a pattern with find -path semantics into an anchored regexp.
// Unlike filepath.Match, the wildcards * and ? also match the path separator, so "*.fcr"
// selects containers at any depth.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var expr strings.Builder

	expr.WriteByte('^')

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			expr.WriteString(".*")
		case '?':
			expr.WriteByte('.')
		case '[':
			end, err := classEnd(pattern, i)
			if err != nil {
				return nil, err
			}

			writeClass(&expr, pattern[i+1:end])

			i = end
		case '\\':
			if i+1 == len(pattern) {
				return nil, fmt.Errorf("pattern %q ends in a backslash", pattern)
			}

			i++
			expr.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		default:
			expr.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	return re, nil
}

// writeClass writes the body of a bracket expression as a regexp class.
// A leading ! or ^ negates it and - between two members forms a range;
// every other byte, including a backslash-escaped one, is literal.
func writeClass(expr *strings.Builder, body string) {
	expr.WriteByte('[')

	if body != "" && (body[0] == '!' || body[0] == '^') {
		expr.WriteByte('^')

		body = body[1:]
	}

	for i := 0; i < len(body); i++ {
		c := body[i]

		switch {
		case c == '\\' && i+1 < len(body):
			i++
			if body[i] == '-' {
				expr.WriteString(`\-`)
			} else {
				expr.WriteString(regexp.QuoteMeta(body[i : i+1]))
			}
		case c == '-':
			expr.WriteByte('-')
		default:
			expr.WriteString(regexp.QuoteMeta(body[i : i+1]))
		}
	}

	expr.WriteByte(']')
}

// classEnd returns the index of the bracket closing the class opened at start.
// A leading ! or ^ negates the class, a ] right after the opening is literal and
// a backslash escapes the byte after it.
func classEnd(pattern string, start int) (int, error) {
	i := start + 1

	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}

	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	for ; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case ']':
			return i, nil
		}
	}

	return 0, fmt.Errorf("pattern %q has an unclosed character class", pattern)
}
