package segment_test

import (
	"testing"

	. "github.com/pseudomuto/sqlalign/pkg/segment"
	"github.com/stretchr/testify/require"
)

func columns(c *Clause) [][]string {
	res := make([][]string, 0, len(c.Rows))
	for _, r := range c.Rows {
		res = append(res, r.Columns)
	}
	return res
}

func TestValues(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		rows       [][]string
		terminator string
		end        int
	}{
		{
			name:       "semicolon",
			body:       "(1,'x'),(22,'yy');\nSELECT 1;",
			rows:       [][]string{{"1", "'x'"}, {"22", "'yy'"}},
			terminator: ";",
			end:        18,
		},
		{
			name:       "comma inside string",
			body:       "('a,b', 1);",
			rows:       [][]string{{"'a,b'", "1"}},
			terminator: ";",
			end:        11,
		},
		{
			name:       "nested parens",
			body:       "(NOW(), JSON_ARRAY(1, 2), POINT(1,2))",
			rows:       [][]string{{"NOW()", "JSON_ARRAY(1, 2)", "POINT(1,2)"}},
			terminator: "",
			end:        37,
		},
		{
			name:       "trailing comma",
			body:       "(1), (2),\nINSERT INTO t VALUES (3);",
			rows:       [][]string{{"1"}, {"2"}},
			terminator: ",",
			end:        9,
		},
		{
			name:       "no terminator",
			body:       "(1, 2) ON CONFLICT DO NOTHING;",
			rows:       [][]string{{"1", "2"}},
			terminator: "",
			end:        6,
		},
		{
			name:       "ragged rows still segment",
			body:       "(1,2),(3,4,5);",
			rows:       [][]string{{"1", "2"}, {"3", "4", "5"}},
			terminator: ";",
			end:        14,
		},
		{
			name:       "whitespace between rows",
			body:       "\n  ( 1 ,  'a' ) ,\n\t(2,'b')  ;",
			rows:       [][]string{{"1", "'a'"}, {"2", "'b'"}},
			terminator: ";",
			end:        29,
		},
		{
			name:       "mixed quotes and escapes",
			body:       `('it\'s', "a,b", ` + "`c,d`" + `, 'x''y');`,
			rows:       [][]string{{`'it\'s'`, `"a,b"`, "`c,d`", "'x''y'"}},
			terminator: ";",
			end:        32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, err := Values(tt.body)
			require.NoError(t, err)
			require.Equal(t, tt.rows, columns(clause))
			require.Equal(t, tt.terminator, clause.Terminator)
			require.Equal(t, tt.end, clause.End)
		})
	}
}

func TestValues_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"unterminated string", "('abc, 1);", ErrUnterminated},
		{"unbalanced parens", "(1, (2);", ErrUnterminated},
		{"stray close after rows", "(1),(2)) ;", ErrUnterminated},
		{"stray close after comma", "(1), );", ErrUnterminated},
		{"no group", "SELECT 1;", ErrNoClause},
		{"empty", "", ErrNoClause},
		{"comment in row", "(1, -- id\n 2);", ErrEmbeddedComment},
		{"empty row", "();", ErrEmptyValue},
		{"empty column", "(1,,2);", ErrEmptyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, err := Values(tt.body)
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, clause)
		})
	}
}

func TestValues_Comments(t *testing.T) {
	body := "-- first rows\n(1), -- one\n/* two */\n(2) /* end */;"

	clause, err := Values(body)
	require.NoError(t, err)
	require.Len(t, clause.Rows, 2)
	require.Equal(t, len(body), clause.End)

	require.Equal(t, []Comment{{Text: "-- first rows", Line: true}}, clause.Rows[0].Leading)
	require.Equal(t, []Comment{{Text: "-- one", Line: true}}, clause.Rows[0].Trailing)
	require.Equal(t, []Comment{{Text: "/* two */"}}, clause.Rows[1].Leading)
	require.Equal(t, []Comment{{Text: "/* end */"}}, clause.Rows[1].Trailing)
}

func TestValues_CommentBeforeComma(t *testing.T) {
	clause, err := Values("(1) /* a */ ,\n(2) -- b\n,")
	require.NoError(t, err)
	require.Equal(t, ",", clause.Terminator)
	require.Equal(t, []Comment{{Text: "/* a */"}}, clause.Rows[0].Trailing)
	require.Empty(t, clause.Rows[1].Leading)
	require.Equal(t, []Comment{{Text: "-- b", Line: true}}, clause.Rows[1].Trailing)
}

func TestElements(t *testing.T) {
	body := "(\n  id INT NOT NULL, -- pk\n  name VARCHAR(20) DEFAULT 'a, b',\n  PRIMARY KEY (id)\n) ENGINE=InnoDB;"

	list, err := Elements(body)
	require.NoError(t, err)
	require.Equal(t, len(body)-len(" ENGINE=InnoDB;"), list.End)
	require.Len(t, list.Elements, 3)

	require.Equal(t, "id INT NOT NULL", list.Elements[0].Text)
	require.Equal(t, []Comment{{Text: "-- pk", Line: true}}, list.Elements[0].Trailing)
	require.Equal(t, "name VARCHAR(20) DEFAULT 'a, b'", list.Elements[1].Text)
	require.Empty(t, list.Elements[1].Leading)
	require.Equal(t, "PRIMARY KEY (id)", list.Elements[2].Text)
}

func TestElements_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"not a group", "AS SELECT 1", ErrNoClause},
		{"unterminated", "(id INT, name TEXT", ErrUnterminated},
		{"trailing comma", "(id INT,)", ErrEmptyValue},
		{"comment between words", "(id /* key */ INT)", ErrEmbeddedComment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Elements(tt.body)
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, list)
		})
	}
}

func TestWords(t *testing.T) {
	words := Words("amount DECIMAL (10, 2) DEFAULT 'a b'")
	texts := make([]string, 0, len(words))
	for _, w := range words {
		texts = append(texts, w.Text)
	}

	require.Equal(t, []string{"amount", "DECIMAL", "(10, 2)", "DEFAULT", "'a b'"}, texts)
	require.Equal(t, 7, words[1].Offset)
	require.Equal(t, 15, words[2].Offset)
}
