// Package segment splits the body of a SQL clause into rows and columns, or
// into the elements of a flat list, using the scanner's boundary events.
//
// Two shapes are supported:
//
//	VALUES (1, 'a'), (2, 'b');        -> Values: rows of columns
//	(id INT NOT NULL, name TEXT)      -> Elements: a List of words
//
// A comma separates columns only at depth one of its own group and outside
// strings and comments, so 'a,b' and JSON_ARRAY(1, 2) stay in one column.
//
// Comments in the gaps between rows or elements are kept. A comment on the
// same line as the preceding separator trails the previous item; any other
// comment leads the next one. Comments inside a row, or between the words of
// an element, cannot be moved safely and make the clause unformattable.
//
// Segmentation reports ErrUnterminated, ErrNoClause, ErrEmbeddedComment and
// ErrEmptyValue rather than guessing. Callers leave such text unchanged.
package segment
