package locator

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pseudomuto/sqlalign/pkg/scanner"
)

// Shape describes how the clause following a header is segmented.
type Shape int

const (
	// Rows is a sequence of parenthesized tuples, as in VALUES (1), (2).
	Rows Shape = iota
	// Flat is a single parenthesized list, as in a CREATE TABLE column list.
	Flat
)

type (
	// Kind configures how one statement kind is located.
	Kind struct {
		Name  string
		Shape Shape

		// pattern must capture the header in group 1. The clause body starts
		// at the end of the match for Rows, and at the end of group 1 for Flat.
		pattern *regexp.Regexp
	}

	// Match is one located statement.
	Match struct {
		Kind *Kind
		// Start is the byte offset of the statement keyword.
		Start int
		// Body is the byte offset where the clause body begins.
		Body int
		// Header is the statement text before the clause keyword, verbatim
		// apart from trailing whitespace.
		Header string
		// Target is the table name as written, e.g. `db`.users.
		Target string
		// Table is Target with identifier quoting removed, e.g. db.users.
		Table string
		// Columns holds the declared INSERT columns, nil when none are given.
		Columns []string
	}
)

const identChars = "[\\w$.`\\[\\]\"]+"

var (
	// Insert locates INSERT ... VALUES statements.
	Insert = &Kind{
		Name:    "INSERT",
		Shape:   Rows,
		pattern: regexp.MustCompile(`(?i)\b((?:INSERT(?:\s+IGNORE)?|REPLACE)\s+INTO\s+` + identChars + `(?:\s*\([^()]*\))?)\s*\bVALUES\b\s*`),
	}

	// CreateTable locates CREATE TABLE statements with a column list.
	CreateTable = &Kind{
		Name:    "CREATE TABLE",
		Shape:   Flat,
		pattern: regexp.MustCompile(`(?i)\b(CREATE\s+(?:TEMPORARY\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + identChars + `)\s*\(`),
	}

	// Kinds lists every supported statement kind.
	Kinds = []*Kind{Insert, CreateTable}
)

// Find returns the statements of the given kinds (all kinds when none are
// given) found in text, ordered by Start.
//
// Headers starting inside a string literal or comment, and headers that do not
// parse cleanly, are not returned.
func Find(text string, kinds ...*Kind) []Match {
	if len(kinds) == 0 {
		kinds = Kinds
	}

	var candidates []Match
	for _, kind := range kinds {
		for _, loc := range kind.pattern.FindAllStringSubmatchIndex(text, -1) {
			body := loc[1]
			if kind.Shape == Flat {
				body = loc[3]
			}

			candidates = append(candidates, Match{
				Kind:   kind,
				Start:  loc[0],
				Body:   body,
				Header: strings.TrimRightFunc(text[loc[2]:loc[3]], unicode.IsSpace),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})

	offsets := make([]int, len(candidates))
	for i, c := range candidates {
		offsets[i] = c.Start
	}
	code := scanner.CodeAt(text, offsets)

	matches := make([]Match, 0, len(candidates))
	for i, c := range candidates {
		if !code[i] {
			continue
		}

		h, err := parseHeader(c.Header)
		if err != nil {
			continue
		}

		switch {
		case h.Insert != nil && c.Kind.Shape == Rows:
			c.Target, c.Table = h.Insert.Target.String(), h.Insert.Target.Unquoted()
			c.Columns = h.Insert.Columns
		case h.Create != nil && c.Kind.Shape == Flat:
			c.Target, c.Table = h.Create.Target.String(), h.Create.Target.Unquoted()
		default:
			continue
		}

		matches = append(matches, c)
	}

	return matches
}
