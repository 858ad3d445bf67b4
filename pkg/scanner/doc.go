// Package scanner implements the character-level state machine used to find
// boundaries inside raw SQL text.
//
// The scanner does not produce tokens. It walks a fragment one rune at a time
// and reports, for every rune, whether it sits inside a string literal, inside
// a comment, and at which parenthesis depth, along with the boundary (if any)
// that rune creates. Everything that segments or aligns SQL in this module is
// built on top of these events.
//
// Rules, in priority order:
//   - A rune following an unescaped backslash is taken literally.
//   - Comment delimiters (--, /* */) are inert inside strings, and quotes are
//     inert inside comments.
//   - A quote opens a string when none is open and closes only the string it
//     opened, so 'a"b' and "it's" scan correctly.
//   - Parentheses change depth only in code (outside strings and comments).
//
// Usage:
//
//	s := scanner.New("VALUES ('a,b', 1);")
//	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
//		if ev.Rune == ',' && ev.Code() && ev.Depth == 1 {
//			// column separator
//		}
//	}
//
// The scanner never fails. A fragment that ends inside a string or with an
// unbalanced depth is reported by State.Unterminated and callers are expected
// to leave such text untouched.
package scanner
