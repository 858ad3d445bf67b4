package scanner

import "unicode/utf8"

// Kind identifies the boundary a rune creates.
type Kind int

const (
	// Plain runes create no boundary.
	Plain Kind = iota
	// Escape is an unescaped backslash arming the escape for the next rune.
	Escape
	// Literal is a rune consumed literally because of a preceding backslash.
	Literal
	// StringOpen is the quote opening a string literal or quoted identifier.
	StringOpen
	// StringClose is the quote closing the open string.
	StringClose
	// CommentOpen is the first rune of -- or /*.
	CommentOpen
	// CommentClose is the newline ending a line comment or the / of */.
	CommentClose
	// ParenOpen is an opening parenthesis in code.
	ParenOpen
	// ParenClose is a closing parenthesis in code.
	ParenClose
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Escape:
		return "escape"
	case Literal:
		return "literal"
	case StringOpen:
		return "string-open"
	case StringClose:
		return "string-close"
	case CommentOpen:
		return "comment-open"
	case CommentClose:
		return "comment-close"
	case ParenOpen:
		return "paren-open"
	case ParenClose:
		return "paren-close"
	default:
		return "unknown"
	}
}

type (
	// State is the transient state of one scan.
	//
	// InString and the comment flags are mutually exclusive. Escaped is a
	// one-shot flag consumed by the next rune.
	State struct {
		InString       bool
		Delimiter      rune
		Escaped        bool
		Depth          int
		InLineComment  bool
		InBlockComment bool

		// tail is set while the second rune of a two-rune comment delimiter
		// is still to be consumed; closing marks that delimiter as */.
		tail    bool
		closing bool
	}

	// Event describes a single rune. InString, InComment and Depth describe the
	// context before the rune was consumed.
	Event struct {
		Offset    int
		Rune      rune
		Kind      Kind
		InString  bool
		InComment bool
		Depth     int
	}

	// Scanner walks a fragment one rune at a time.
	Scanner struct {
		src   string
		pos   int
		state State
	}
)

// InComment reports whether the state is inside a line or block comment.
func (s State) InComment() bool {
	return s.InLineComment || s.InBlockComment
}

// Unterminated reports whether the scanned text left a string or block comment
// open, or parentheses unbalanced. A line comment running to the end of input
// is terminated by the end of input.
func (s State) Unterminated() bool {
	return s.InString || s.InBlockComment || s.Depth != 0
}

// Code reports whether the rune is outside strings and comments and creates
// no string or comment boundary of its own.
func (e Event) Code() bool {
	if e.InString || e.InComment {
		return false
	}

	switch e.Kind {
	case StringOpen, CommentOpen, Escape, Literal:
		return false
	default:
		return true
	}
}

// New returns a Scanner positioned at the start of src with a zero State.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// State returns the state after the last consumed rune.
func (s *Scanner) State() State {
	return s.state
}

// Offset returns the byte offset of the next rune to be consumed.
func (s *Scanner) Offset() int {
	return s.pos
}

// Next consumes one rune and reports it. The second result is false once the
// input is exhausted.
func (s *Scanner) Next() (Event, bool) {
	if s.pos >= len(s.src) {
		return Event{}, false
	}

	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	next, _ := utf8.DecodeRuneInString(s.src[s.pos+size:])
	if s.pos+size >= len(s.src) {
		next = 0
	}

	ev := Event{
		Offset:    s.pos,
		Rune:      r,
		InString:  s.state.InString,
		InComment: s.state.InComment(),
		Depth:     s.state.Depth,
	}
	ev.Kind = s.state.step(r, next)
	s.pos += size

	return ev, true
}

func (st *State) step(r, next rune) Kind {
	if st.tail {
		st.tail = false
		if st.closing {
			st.closing = false
			st.InBlockComment = false
			return CommentClose
		}
		return Plain
	}

	switch {
	case st.InLineComment:
		if r == '\n' {
			st.InLineComment = false
			return CommentClose
		}
		return Plain
	case st.InBlockComment:
		if r == '*' && next == '/' {
			st.tail = true
			st.closing = true
		}
		return Plain
	}

	if st.Escaped {
		st.Escaped = false
		return Literal
	}

	switch r {
	case '\\':
		st.Escaped = true
		return Escape
	case '\'', '"', '`':
		if !st.InString {
			st.InString = true
			st.Delimiter = r
			return StringOpen
		}
		if r == st.Delimiter {
			st.InString = false
			st.Delimiter = 0
			return StringClose
		}
		return Plain
	}

	if st.InString {
		return Plain
	}

	switch {
	case r == '-' && next == '-':
		st.InLineComment = true
		st.tail = true
		return CommentOpen
	case r == '/' && next == '*':
		st.InBlockComment = true
		st.tail = true
		return CommentOpen
	case r == '(':
		st.Depth++
		return ParenOpen
	case r == ')':
		st.Depth--
		return ParenClose
	}

	return Plain
}

// Scan runs a scanner over text and returns the final state.
func Scan(text string) State {
	s := New(text)
	for _, ok := s.Next(); ok; _, ok = s.Next() {
	}
	return s.state
}

// CodeAt reports, for each byte offset in offsets, whether the rune starting
// there lies in code rather than inside a string or comment. Offsets must be in
// ascending order; offsets that do not start a rune, or lie past the end of
// text, report false.
func CodeAt(text string, offsets []int) []bool {
	res := make([]bool, len(offsets))
	if len(offsets) == 0 {
		return res
	}

	i := 0
	s := New(text)
	for ev, ok := s.Next(); ok && i < len(offsets); ev, ok = s.Next() {
		for i < len(offsets) && offsets[i] < ev.Offset {
			i++
		}
		if i < len(offsets) && offsets[i] == ev.Offset {
			res[i] = ev.Code()
			i++
		}
	}

	return res
}

// SingleString reports whether text is exactly one quoted string using the
// given delimiter, such as 'it''s' or 'a\'b'. Concatenations like 'a' || 'b'
// are not a single string.
func SingleString(text string, delim rune) bool {
	if text == "" {
		return false
	}

	s := New(text)
	ev, _ := s.Next()
	if ev.Kind != StringOpen || ev.Rune != delim {
		return false
	}

	closedAt := -1
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		if closedAt >= 0 {
			// only a doubled quote may follow a close, as in 'it''s'
			if ev.Kind != StringOpen || ev.Rune != delim {
				return false
			}
			closedAt = -1
			continue
		}
		if ev.Kind == StringClose {
			closedAt = ev.Offset
		}
	}

	return closedAt == len(text)-utf8.RuneLen(delim)
}
