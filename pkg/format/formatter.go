package format

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlalign/pkg/locator"
	"github.com/pseudomuto/sqlalign/pkg/segment"
)

var (
	// ErrNoStatement is reported when no supported statement header is found.
	ErrNoStatement = errors.New("no statement to format")

	// ErrRaggedRows is reported when the rows of a VALUES clause do not all
	// have the same number of columns.
	ErrRaggedRows = errors.New("rows have different column counts")

	// ErrHeaderArity is reported when an INSERT declares a column list whose
	// length differs from the rows' column count.
	ErrHeaderArity = errors.New("row column count does not match column list")

	// ErrOverlap is reported for a statement whose span overlaps one that was
	// already formatted.
	ErrOverlap = errors.New("statement overlaps a formatted statement")
)

type (
	// FormatterOptions controls formatting behavior.
	FormatterOptions struct {
		// IndentSize is the number of spaces before each row or element.
		IndentSize int
		// UppercaseKeywords controls the case of the emitted VALUES keyword.
		UppercaseKeywords bool
		// AlignCreateTable enables alignment of CREATE TABLE column lists.
		AlignCreateTable bool
	}

	// Formatter aligns statements using a fixed set of options. It holds no
	// other state and is safe for concurrent use.
	Formatter struct {
		options FormatterOptions
	}

	// ClauseResult is the outcome of formatting one statement.
	//
	// When Formatted reports true, Text replaces the bytes [Start, End) of the
	// input. Otherwise Reason explains why the statement was left alone.
	ClauseResult struct {
		Match  locator.Match
		Start  int
		End    int
		Text   string
		Reason error
	}
)

// Defaults are the standard formatting options.
var Defaults = FormatterOptions{
	IndentSize:        4,
	UppercaseKeywords: true,
	AlignCreateTable:  true,
}

// New creates a Formatter. A non-positive IndentSize falls back to the default.
func New(options FormatterOptions) *Formatter {
	if options.IndentSize <= 0 {
		options.IndentSize = Defaults.IndentSize
	}
	return &Formatter{options: options}
}

// Format writes the formatted sql to w using the given options.
func Format(w io.Writer, options FormatterOptions, sql string) error {
	return New(options).Format(w, sql)
}

// Format writes the formatted sql to w.
func (f *Formatter) Format(w io.Writer, sql string) error {
	out, _ := f.Document(sql)
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, "failed to write formatted SQL")
	}
	return nil
}

// Options returns the options the formatter was created with.
func (f *Formatter) Options() FormatterOptions {
	return f.options
}

// Formatted reports whether the statement was reformatted.
func (r ClauseResult) Formatted() bool {
	return r.Reason == nil
}

// Apply splices the result into text, which must be the text the result was
// computed from. Unformatted results return text unchanged.
func (r ClauseResult) Apply(text string) string {
	if !r.Formatted() {
		return text
	}
	return text[:r.Start] + r.Text + text[r.End:]
}

// Clause formats the first supported statement in text.
func (f *Formatter) Clause(text string) ClauseResult {
	matches := locator.Find(text, f.kinds()...)
	if len(matches) == 0 {
		return ClauseResult{Reason: ErrNoStatement}
	}

	return f.statement(text, matches[0])
}

// Document formats every supported statement in sql and returns the new text
// along with one result per located statement, in source order.
//
// Every result is computed against the original text. Replacements are then
// spliced in from the last statement to the first so that earlier splices
// never shift the offsets of statements still to be applied.
func (f *Formatter) Document(sql string) (string, []ClauseResult) {
	matches := locator.Find(sql, f.kinds()...)
	results := make([]ClauseResult, 0, len(matches))

	end := 0
	for _, m := range matches {
		res := f.statement(sql, m)
		if res.Formatted() {
			if res.Start < end {
				res = unchanged(m, ErrOverlap)
			} else {
				end = res.End
			}
		}
		results = append(results, res)
	}

	out := sql
	for i := len(results) - 1; i >= 0; i-- {
		out = results[i].Apply(out)
	}

	return out, results
}

func (f *Formatter) kinds() []*locator.Kind {
	if f.options.AlignCreateTable {
		return locator.Kinds
	}
	return []*locator.Kind{locator.Insert}
}

func (f *Formatter) statement(text string, m locator.Match) ClauseResult {
	body := text[m.Body:]
	nl := lineEnding(text[m.Start:])

	switch m.Kind.Shape {
	case locator.Rows:
		clause, err := segment.Values(body)
		if err != nil {
			return unchanged(m, err)
		}

		out, err := f.values(m, clause, nl)
		if err != nil {
			return unchanged(m, err)
		}

		return ClauseResult{Match: m, Start: m.Start, End: m.Body + clause.End, Text: out}
	case locator.Flat:
		list, err := segment.Elements(body)
		if err != nil {
			return unchanged(m, err)
		}

		return ClauseResult{Match: m, Start: m.Start, End: m.Body + list.End, Text: f.table(m, list, nl)}
	default:
		return unchanged(m, ErrNoStatement)
	}
}

// lineEnding returns the line ending of the first line break in text, "\n"
// when there is none.
func lineEnding(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func unchanged(m locator.Match, reason error) ClauseResult {
	return ClauseResult{Match: m, Start: m.Start, End: m.Start, Reason: reason}
}

// keyword formats a keyword according to the formatter options
func (f *Formatter) keyword(kw string) string {
	if f.options.UppercaseKeywords {
		return strings.ToUpper(kw)
	}
	return strings.ToLower(kw)
}

// indent returns the specified number of indent levels as spaces
func (f *Formatter) indent(level int) string {
	return strings.Repeat(" ", level*f.options.IndentSize)
}
