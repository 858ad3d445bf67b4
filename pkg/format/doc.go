// Package format aligns the clause bodies of SQL statements without changing
// anything but whitespace.
//
// The formatter locates statements (see package locator), segments their
// clause (see package segment), classifies every column, and re-renders the
// clause with consistent padding:
//
//	INSERT INTO t (a,b) VALUES (1,'x'),(22,'yy');
//
// becomes
//
//	INSERT INTO t (a,b)
//	VALUES
//	    ( 1, 'x' ),
//	    (22, 'yy');
//
// Numbers and NULLs are right aligned, strings and bare identifiers left
// aligned, and columns holding a function call or expression in any row are
// emitted exactly as written. CREATE TABLE column lists are aligned as name,
// type and the remaining definition.
//
// The formatter is conservative. A clause with ragged rows, an unterminated
// string or parenthesis, a comment inside a row, or an empty value is left
// byte-for-byte unchanged and reported through ClauseResult.Reason. Nothing in
// this package panics or returns an error for malformed SQL.
//
// Usage:
//
//	// Object-oriented API with default options
//	formatter := format.New(format.Defaults)
//	out, results := formatter.Document(sql)
//
//	// Functional API
//	var buf bytes.Buffer
//	err := format.Format(&buf, format.Defaults, sql)
//
//	// One statement
//	res := formatter.Clause("INSERT INTO t (a) VALUES (1);")
//	if res.Formatted() {
//		sql = res.Apply(sql)
//	}
package format
