package utils

import "strings"

// IsQuoted reports whether s is a single identifier wrapped in backticks,
// double quotes or square brackets.
//
// Examples:
//   - "`table`" -> true
//   - "[order]" -> true
//   - "table" -> false
//   - "`db`.`table`" -> false (qualified name, not a single quoted identifier)
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}

	switch s[0] {
	case '[':
		return s[len(s)-1] == ']' && !strings.Contains(s[1:len(s)-1], "]")
	case '`', '"':
		if s[len(s)-1] != s[0] {
			return false
		}
		q := string(s[0])
		inner := strings.ReplaceAll(s[1:len(s)-1], q+q, "")
		return !strings.Contains(inner, q)
	default:
		return false
	}
}

// Unquote removes identifier quoting from s. Doubled quote characters inside
// backtick or double-quoted identifiers collapse to one. Unquoted identifiers
// are returned as-is.
//
// Examples:
//   - "`table`" -> "table"
//   - "`a``b`" -> "a`b"
//   - "[order]" -> "order"
//   - "table" -> "table"
func Unquote(s string) string {
	if !IsQuoted(s) {
		return s
	}

	inner := s[1 : len(s)-1]
	if s[0] == '[' {
		return inner
	}

	q := string(s[0])
	return strings.ReplaceAll(inner, q+q, q)
}

// UnquoteQualified unquotes each part of a qualified name and joins them with
// dots.
//
// Examples:
//   - ["`analytics`", "`events`"] -> "analytics.events"
//   - ["users"] -> "users"
func UnquoteQualified(parts []string) string {
	names := make([]string, len(parts))
	for i, part := range parts {
		names[i] = Unquote(part)
	}
	return strings.Join(names, ".")
}
