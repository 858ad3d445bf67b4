package segment

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlalign/pkg/scanner"
)

var (
	// ErrNoClause is returned when the body does not start with a parenthesized
	// group (after optional whitespace and comments).
	ErrNoClause = errors.New("no parenthesized clause")

	// ErrUnterminated is returned when a string, block comment or parenthesis
	// is still open at the end of the body.
	ErrUnterminated = errors.New("unterminated string or parenthesis")

	// ErrEmbeddedComment is returned when a comment sits inside a row or
	// between the words of a list element.
	ErrEmbeddedComment = errors.New("comment inside clause item")

	// ErrEmptyValue is returned for empty rows, empty columns and empty list
	// elements, as in (), (1,,2) or (a INT,).
	ErrEmptyValue = errors.New("empty value")
)

type (
	// Comment is a comment found between rows or elements. Text is verbatim
	// except that a line comment's terminating newline is not included.
	Comment struct {
		Text string
		Line bool
	}

	// Row is one parenthesized tuple of a VALUES clause.
	Row struct {
		// Columns holds each value trimmed of surrounding whitespace.
		Columns []string
		// Leading comments are placed on their own lines before the row.
		Leading []Comment
		// Trailing comments follow the row's separator on the same line.
		Trailing []Comment
	}

	// Clause is a segmented VALUES body.
	Clause struct {
		Rows []Row
		// Terminator is ";" or "," when the clause ended with one, empty
		// otherwise.
		Terminator string
		// End is the byte length of the body covered by the clause, including
		// the terminator.
		End int
	}

	// Element is one comma separated item of a flat list.
	Element struct {
		Text     string
		Leading  []Comment
		Trailing []Comment
	}

	// List is a segmented parenthesized list.
	List struct {
		Elements []Element
		// End is the byte offset just past the closing parenthesis.
		End int
	}

	// Word is a whitespace separated part of an element with its byte offset.
	Word struct {
		Text   string
		Offset int
	}

	span struct {
		start, end int
	}

	note struct {
		Comment
		newline bool
	}
)

// Values segments the text that follows a VALUES keyword.
//
// The clause extends over consecutive comma separated row groups. It ends
// with (and includes) a semicolon, with a comma that is not followed by another
// row, or otherwise with the last row's closing parenthesis.
func Values(body string) (*Clause, error) {
	var (
		rows   []span
		commas []int
		comma  = -1
		end    = -1
		term   string
	)

	lastEnd := 0
	s := scanner.New(body)

scan:
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		if ev.InComment || ev.Kind == scanner.CommentOpen || (ev.Kind == scanner.Plain && unicode.IsSpace(ev.Rune)) {
			continue
		}

		afterRow := len(rows) > 0
		switch {
		case ev.Kind == scanner.ParenOpen && (!afterRow || comma >= 0):
			start := ev.Offset
			if !closeGroup(s) {
				return nil, ErrUnterminated
			}

			rows = append(rows, span{start, s.Offset()})
			commas = append(commas, comma)
			lastEnd = s.Offset()
			comma = -1
		case ev.Kind == scanner.Plain && ev.Rune == ',' && afterRow && comma < 0:
			comma = ev.Offset
		case ev.Kind == scanner.Plain && ev.Rune == ';' && afterRow && comma < 0:
			end = ev.Offset + 1
			term = ";"
			break scan
		case ev.Kind == scanner.ParenClose:
			// a close with no open group belongs to an enclosing expression
			return nil, ErrUnterminated
		default:
			break scan
		}
	}

	if s.Offset() == len(body) && s.State().Unterminated() {
		return nil, ErrUnterminated
	}

	if len(rows) == 0 {
		return nil, ErrNoClause
	}

	tail := lastEnd
	switch {
	case end >= 0:
		tail = end - 1
	case comma >= 0:
		end = comma + 1
		term = ","
		tail = comma
	default:
		end = lastEnd
	}

	clause := &Clause{
		Rows:       make([]Row, len(rows)),
		Terminator: term,
		End:        end,
	}

	prevEnd := 0
	for i, r := range rows {
		cols, err := Columns(body[r.start:r.end])
		if err != nil {
			return nil, err
		}
		clause.Rows[i].Columns = cols

		if i == 0 {
			clause.Rows[i].Leading = plain(comments(body[prevEnd:r.start]))
		} else {
			before := comments(body[prevEnd:commas[i]])
			after := comments(body[commas[i]+1 : r.start])
			trailing, leading := split(after)

			prev := &clause.Rows[i-1]
			prev.Trailing = append(prev.Trailing, plain(before)...)
			prev.Trailing = append(prev.Trailing, trailing...)
			clause.Rows[i].Leading = leading
		}
		prevEnd = r.end
	}

	last := &clause.Rows[len(rows)-1]
	last.Trailing = append(last.Trailing, plain(comments(body[lastEnd:tail]))...)

	return clause, nil
}

// Columns splits a row group, including its parentheses, into trimmed column
// values.
func Columns(group string) ([]string, error) {
	if !strings.HasPrefix(group, "(") || !strings.HasSuffix(group, ")") {
		return nil, ErrNoClause
	}

	var cols []string
	start := 1

	s := scanner.New(group)
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		if ev.InComment || ev.Kind == scanner.CommentOpen {
			return nil, ErrEmbeddedComment
		}

		if ev.Depth == 1 && ev.Code() && (ev.Rune == ',' || ev.Kind == scanner.ParenClose) {
			col := strings.TrimSpace(group[start:ev.Offset])
			if col == "" {
				return nil, ErrEmptyValue
			}

			cols = append(cols, col)
			start = ev.Offset + 1
		}
	}

	if s.State().Unterminated() {
		return nil, ErrUnterminated
	}

	return cols, nil
}

// Elements segments a parenthesized list starting at the first non-space rune of
// body, such as the column list of CREATE TABLE.
func Elements(body string) (*List, error) {
	open := strings.IndexFunc(body, func(r rune) bool { return !unicode.IsSpace(r) })
	if open < 0 || body[open] != '(' {
		return nil, ErrNoClause
	}

	s := scanner.New(body[open:])
	s.Next()
	if !closeGroup(s) {
		return nil, ErrUnterminated
	}

	end := open + s.Offset()
	inner := body[open+1 : end-1]

	var pieces []string
	start := 0

	s = scanner.New(inner)
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		if ev.Depth == 0 && ev.Code() && ev.Rune == ',' {
			pieces = append(pieces, inner[start:ev.Offset])
			start = ev.Offset + 1
		}
	}
	pieces = append(pieces, inner[start:])

	list := &List{
		Elements: make([]Element, len(pieces)),
		End:      end,
	}

	for i, piece := range pieces {
		lead, text, trail, err := element(piece)
		if err != nil {
			return nil, err
		}

		list.Elements[i].Text = text
		list.Elements[i].Trailing = trail

		if i == 0 {
			list.Elements[i].Leading = plain(lead)
			continue
		}

		trailing, leading := split(lead)
		prev := &list.Elements[i-1]
		prev.Trailing = append(prev.Trailing, trailing...)
		list.Elements[i].Leading = leading
	}

	return list, nil
}

// Words splits text at whitespace that is outside strings, comments and
// parentheses.
func Words(text string) []Word {
	var words []Word
	start := -1

	s := scanner.New(text)
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		space := ev.Kind == scanner.Plain && !ev.InString && !ev.InComment && ev.Depth == 0 && unicode.IsSpace(ev.Rune)
		switch {
		case space && start >= 0:
			words = append(words, Word{Text: text[start:ev.Offset], Offset: start})
			start = -1
		case !space && start < 0:
			start = ev.Offset
		}
	}

	if start >= 0 {
		words = append(words, Word{Text: text[start:], Offset: start})
	}

	return words
}

// closeGroup consumes runes until the group opened by the previous event is
// closed, reporting false when the input ends first.
func closeGroup(s *scanner.Scanner) bool {
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		if ev.Kind == scanner.ParenClose && ev.Depth == 1 {
			return true
		}
	}
	return false
}

// element splits a list element into comments before it, its trimmed text
// and comments after it.
func element(piece string) ([]note, string, []Comment, error) {
	first, last := -1, -1

	s := scanner.New(piece)
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		if significant(ev) {
			if first < 0 {
				first = ev.Offset
			}
			last = s.Offset()
		}
	}

	if first < 0 {
		return nil, "", nil, ErrEmptyValue
	}

	text := piece[first:last]
	if hasComment(text) {
		return nil, "", nil, ErrEmbeddedComment
	}

	return comments(piece[:first]), text, plain(comments(piece[last:])), nil
}

func significant(ev scanner.Event) bool {
	if ev.InString {
		return true
	}
	if ev.InComment || ev.Kind == scanner.CommentOpen {
		return false
	}
	return !unicode.IsSpace(ev.Rune)
}

func hasComment(text string) bool {
	s := scanner.New(text)
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		if ev.Kind == scanner.CommentOpen {
			return true
		}
	}
	return false
}

// comments collects the comments of a gap made only of whitespace and
// comments, noting whether a line break precedes each one.
func comments(gap string) []note {
	var (
		notes   []note
		start   = -1
		newline bool
		before  bool
	)

	s := scanner.New(gap)
	for ev, ok := s.Next(); ok; ev, ok = s.Next() {
		switch {
		case ev.Kind == scanner.CommentOpen:
			start = ev.Offset
			before = newline
		case ev.Kind == scanner.CommentClose && start >= 0:
			line := gap[start] == '-'
			text := gap[start : ev.Offset+1]
			if line {
				text = strings.TrimRight(gap[start:ev.Offset], "\r")
				newline = true
			}

			notes = append(notes, note{Comment{Text: text, Line: line}, before})
			start = -1
		case !ev.InComment && ev.Rune == '\n':
			newline = true
		}
	}

	if start >= 0 {
		notes = append(notes, note{Comment{Text: strings.TrimRight(gap[start:], "\r"), Line: gap[start] == '-'}, before})
	}

	return notes
}

// split divides the comments following a separator into those on the
// separator's line and the rest.
func split(notes []note) (trailing, leading []Comment) {
	for _, n := range notes {
		if n.newline {
			leading = append(leading, n.Comment)
			continue
		}
		trailing = append(trailing, n.Comment)
	}
	return trailing, leading
}

func plain(notes []note) []Comment {
	var res []Comment
	for _, n := range notes {
		res = append(res, n.Comment)
	}
	return res
}
