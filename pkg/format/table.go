package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pseudomuto/sqlalign/pkg/locator"
	"github.com/pseudomuto/sqlalign/pkg/segment"
)

// constraintKeywords start table elements that are not column definitions.
var constraintKeywords = map[string]bool{
	"CHECK":      true,
	"CONSTRAINT": true,
	"EXCLUDE":    true,
	"FOREIGN":    true,
	"FULLTEXT":   true,
	"INDEX":      true,
	"KEY":        true,
	"LIKE":       true,
	"PERIOD":     true,
	"PRIMARY":    true,
	"SPATIAL":    true,
	"UNIQUE":     true,
}

// columnDef is a column definition split for alignment. Rest is verbatim.
type columnDef struct {
	Name string
	Type string
	Rest string
}

func parseColumnDef(text string) (columnDef, bool) {
	words := segment.Words(text)
	if len(words) < 2 || constraintKeywords[strings.ToUpper(words[0].Text)] {
		return columnDef{}, false
	}

	// a parenthesized word belongs to the type, as in DECIMAL (10, 2)
	next := 2
	for next < len(words) && strings.HasPrefix(words[next].Text, "(") {
		next++
	}

	last := words[next-1]
	def := columnDef{
		Name: words[0].Text,
		Type: text[words[1].Offset : last.Offset+len(last.Text)],
	}
	if next < len(words) {
		def.Rest = text[words[next].Offset:]
	}

	return def, true
}

// table renders a CREATE TABLE header and its column list.
func (f *Formatter) table(m locator.Match, list *segment.List, nl string) string {
	defs := make([]columnDef, len(list.Elements))
	isDef := make([]bool, len(list.Elements))

	nameWidth, typeWidth := 0, 0
	for i, el := range list.Elements {
		defs[i], isDef[i] = parseColumnDef(el.Text)
		if !isDef[i] {
			continue
		}

		nameWidth = max(nameWidth, runewidth.StringWidth(defs[i].Name))
		if defs[i].Rest != "" {
			typeWidth = max(typeWidth, runewidth.StringWidth(defs[i].Type))
		}
	}

	indent := f.indent(1)

	var b strings.Builder
	b.WriteString(m.Header)
	b.WriteString(" (")
	b.WriteString(nl)

	for i, el := range list.Elements {
		writeLeading(&b, indent, nl, el.Leading)

		b.WriteString(indent)
		if isDef[i] {
			b.WriteString(padRight(defs[i].Name, nameWidth))
			b.WriteString(" ")
			if defs[i].Rest == "" {
				b.WriteString(defs[i].Type)
			} else {
				b.WriteString(padRight(defs[i].Type, typeWidth))
				b.WriteString(" ")
				b.WriteString(defs[i].Rest)
			}
		} else {
			b.WriteString(el.Text)
		}

		if i < len(list.Elements)-1 {
			b.WriteString(",")
		}
		writeTrailing(&b, el.Trailing)
		b.WriteString(nl)
	}

	b.WriteString(")")
	return b.String()
}
