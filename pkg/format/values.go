package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pseudomuto/sqlalign/pkg/locator"
	"github.com/pseudomuto/sqlalign/pkg/segment"
)

// Widths returns the display width of the widest value at each column index.
// It returns nil when the rows are empty or ragged.
func Widths(rows []segment.Row) []int {
	if len(rows) == 0 {
		return nil
	}

	arity := len(rows[0].Columns)
	widths := make([]int, arity)
	for _, row := range rows {
		if len(row.Columns) != arity {
			return nil
		}

		for i, col := range row.Columns {
			widths[i] = max(widths[i], runewidth.StringWidth(col))
		}
	}

	return widths
}

// values renders an INSERT header and its VALUES clause.
func (f *Formatter) values(m locator.Match, clause *segment.Clause, nl string) (string, error) {
	widths := Widths(clause.Rows)
	if widths == nil {
		return "", ErrRaggedRows
	}

	if m.Columns != nil && len(m.Columns) != len(widths) {
		return "", ErrHeaderArity
	}

	kinds := ColumnKinds(clause.Rows, len(widths))
	indent := f.indent(1)

	var b strings.Builder
	b.WriteString(m.Header)
	b.WriteString(nl)
	b.WriteString(f.keyword("VALUES"))
	b.WriteString(nl)

	cells := make([]string, len(widths))
	for i, row := range clause.Rows {
		writeLeading(&b, indent, nl, row.Leading)

		for j, col := range row.Columns {
			cells[j] = pad(col, kinds[j], widths[j])
		}

		b.WriteString(indent)
		b.WriteString("(")
		b.WriteString(strings.Join(cells, ", "))
		b.WriteString(")")

		last := i == len(clause.Rows)-1
		if last {
			b.WriteString(clause.Terminator)
		} else {
			b.WriteString(",")
		}

		writeTrailing(&b, row.Trailing)
		if !last || endsWithLineComment(row.Trailing) {
			b.WriteString(nl)
		}
	}

	return b.String(), nil
}

// pad justifies value to width according to its column kind.
func pad(value string, kind ColumnKind, width int) string {
	switch kind {
	case FunctionOrExpression:
		return value
	case Numeric, Null:
		return padLeft(value, width)
	default:
		return padRight(value, width)
	}
}

func padLeft(value string, width int) string {
	if n := width - runewidth.StringWidth(value); n > 0 {
		return strings.Repeat(" ", n) + value
	}
	return value
}

func padRight(value string, width int) string {
	if n := width - runewidth.StringWidth(value); n > 0 {
		return value + strings.Repeat(" ", n)
	}
	return value
}

func writeLeading(b *strings.Builder, indent, nl string, comments []segment.Comment) {
	for _, c := range comments {
		b.WriteString(indent)
		b.WriteString(c.Text)
		b.WriteString(nl)
	}
}

func writeTrailing(b *strings.Builder, comments []segment.Comment) {
	for _, c := range comments {
		b.WriteString(" ")
		b.WriteString(c.Text)
	}
}

func endsWithLineComment(comments []segment.Comment) bool {
	return len(comments) > 0 && comments[len(comments)-1].Line
}
