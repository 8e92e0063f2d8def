package codec

import (
	"fmt"
	"strings"
	"unicode"
)

// layoutFor translates a SimpleDateFormat-style pattern into a Go time layout.
// Letters are pattern tokens and keep their SimpleDateFormat meaning, so "mm"
// is minute-of-hour and "MM" is month. Text inside single quotes is literal.
func layoutFor(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("empty date pattern")
	}
	var b strings.Builder
	rs := []rune(pattern)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '\'':
			if i+1 < len(rs) && rs[i+1] == '\'' {
				b.WriteRune('\'')
				i += 2
				continue
			}
			j := i + 1
			for j < len(rs) && rs[j] != '\'' {
				j++
			}
			if j == len(rs) {
				return "", fmt.Errorf("date pattern %q: unterminated quote", pattern)
			}
			lit := string(rs[i+1 : j])
			if err := checkLiteral(lit); err != nil {
				return "", fmt.Errorf("date pattern %q: %w", pattern, err)
			}
			b.WriteString(lit)
			i = j + 1
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && rs[j] == r {
				j++
			}
			tok, err := token(r, j-i, b.String())
			if err != nil {
				return "", fmt.Errorf("date pattern %q: %w", pattern, err)
			}
			b.WriteString(tok)
			i = j
		default:
			if err := checkLiteral(string(r)); err != nil {
				return "", fmt.Errorf("date pattern %q: %w", pattern, err)
			}
			b.WriteRune(r)
			i++
		}
	}
	return b.String(), nil
}

// Literal text must not contain anything the Go layout parser reads as a
// reference-time element.
func checkLiteral(s string) error {
	for _, r := range s {
		if unicode.IsDigit(r) || r == '_' {
			return fmt.Errorf("literal %q contains %q", s, r)
		}
	}
	for _, std := range []string{"Jan", "Mon", "MST", "PM", "pm", "Z07"} {
		if strings.Contains(s, std) {
			return fmt.Errorf("literal %q contains layout element %q", s, std)
		}
	}
	return nil
}

func token(r rune, n int, prev string) (string, error) {
	switch r {
	case 'y':
		if n == 2 {
			return "06", nil
		}
		return "2006", nil
	case 'M':
		switch n {
		case 1:
			return "1", nil
		case 2:
			return "01", nil
		case 3:
			return "Jan", nil
		default:
			return "January", nil
		}
	case 'd':
		return pick(n, "2", "02", r)
	case 'H':
		if n <= 2 {
			return "15", nil
		}
	case 'h':
		return pick(n, "3", "03", r)
	case 'm':
		return pick(n, "4", "04", r)
	case 's':
		return pick(n, "5", "05", r)
	case 'S':
		if strings.HasSuffix(prev, ".") || strings.HasSuffix(prev, ",") {
			return strings.Repeat("0", n), nil
		}
		return "", fmt.Errorf("fractional seconds must follow '.' or ','")
	case 'a':
		return "PM", nil
	case 'E':
		if n <= 3 {
			return "Mon", nil
		}
		return "Monday", nil
	case 'z':
		return "MST", nil
	case 'Z':
		return "-0700", nil
	case 'X':
		switch n {
		case 1:
			return "-07", nil
		case 2:
			return "-0700", nil
		case 3:
			return "-07:00", nil
		}
	}
	return "", fmt.Errorf("unsupported token %q", strings.Repeat(string(r), n))
}

func pick(n int, one, two string, r rune) (string, error) {
	switch n {
	case 1:
		return one, nil
	case 2:
		return two, nil
	}
	return "", fmt.Errorf("unsupported token %q", strings.Repeat(string(r), n))
}
