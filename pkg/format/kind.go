package format

import (
	"regexp"
	"strings"

	"github.com/pseudomuto/sqlalign/pkg/scanner"
	"github.com/pseudomuto/sqlalign/pkg/segment"
)

// ColumnKind is the semantic kind of a column used to pick its alignment.
//
// Kinds are ordered from most to least specific. When the rows of a column
// disagree the least specific kind wins, so a single function call in any row
// makes the whole column render exactly as written.
type ColumnKind int

const (
	// Null is the NULL keyword in any case.
	Null ColumnKind = iota
	// Numeric is a signed integer or decimal literal, optionally with exponent.
	Numeric
	// StringLiteral is exactly one single-quoted string.
	StringLiteral
	// Opaque is anything else: identifiers, keywords, unquoted expressions.
	Opaque
	// FunctionOrExpression is a value containing both parentheses.
	FunctionOrExpression
)

var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func (k ColumnKind) String() string {
	switch k {
	case Null:
		return "null"
	case Numeric:
		return "numeric"
	case StringLiteral:
		return "string"
	case Opaque:
		return "opaque"
	case FunctionOrExpression:
		return "function"
	default:
		return "unknown"
	}
}

// Classify returns the kind of a single trimmed value.
func Classify(value string) ColumnKind {
	switch {
	case scanner.SingleString(value, '\''):
		return StringLiteral
	case numericPattern.MatchString(value):
		return Numeric
	case strings.EqualFold(value, "NULL"):
		return Null
	case strings.Contains(value, "(") && strings.Contains(value, ")"):
		return FunctionOrExpression
	default:
		return Opaque
	}
}

// ColumnKinds classifies each column index across rows. Every row must have
// at least arity columns.
func ColumnKinds(rows []segment.Row, arity int) []ColumnKind {
	kinds := make([]ColumnKind, arity)
	for _, row := range rows {
		for i := 0; i < arity; i++ {
			kinds[i] = max(kinds[i], Classify(row.Columns[i]))
		}
	}
	return kinds
}
