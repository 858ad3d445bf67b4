package locator

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlalign/pkg/utils"
)

var (
	headerLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "QuotedIdent", Pattern: "`([^`]|``)+`|\"([^\"]|\"\")+\"|\\[[^\\]]+\\]"},
		{Name: "Ident", Pattern: `[a-zA-Z0-9_$]+`},
		{Name: "Punct", Pattern: `[(),.]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	headerParser = participle.MustBuild[header](
		participle.Lexer(headerLexer),
		participle.Elide("Comment", "MultilineComment", "Whitespace"),
		participle.CaseInsensitive("Ident"),
		participle.UseLookahead(2),
	)
)

type (
	header struct {
		Insert *insertHeader `parser:"@@"`
		Create *createHeader `parser:"| @@"`
	}

	insertHeader struct {
		Verb    string    `parser:"@('INSERT' | 'REPLACE')"`
		Ignore  bool      `parser:"@'IGNORE'?"`
		Into    string    `parser:"'INTO'"`
		Target  tableName `parser:"@@"`
		Columns []string  `parser:"('(' @(Ident | QuotedIdent) (',' @(Ident | QuotedIdent))* ')')?"`
	}

	createHeader struct {
		Create      string    `parser:"'CREATE'"`
		Temporary   bool      `parser:"@'TEMPORARY'?"`
		Table       string    `parser:"'TABLE'"`
		IfNotExists bool      `parser:"@('IF' 'NOT' 'EXISTS')?"`
		Target      tableName `parser:"@@"`
	}

	tableName struct {
		Parts []string `parser:"@(Ident | QuotedIdent) ('.' @(Ident | QuotedIdent))*"`
	}
)

func (t tableName) String() string {
	return strings.Join(t.Parts, ".")
}

func (t tableName) Unquoted() string {
	return utils.UnquoteQualified(t.Parts)
}

func parseHeader(text string) (*header, error) {
	h, err := headerParser.ParseString("", text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse statement header: %q", text)
	}

	return h, nil
}
