// Package locator finds the statements whose clause bodies can be aligned.
//
// Each supported statement kind is described by a Kind: a header pattern and
// the shape of the clause following it. Candidates are found with regular
// expressions, discarded when they start inside a string literal or comment,
// and then their header is parsed with a small participle grammar so that only
// headers with a clean target (and column list, for INSERT) are returned.
//
//	matches := locator.Find(sql)
//	for i := len(matches) - 1; i >= 0; i-- {
//		m := matches[i]
//		// m.Body is where the clause starts; splice replacements back to front
//	}
//
// Supported kinds:
//   - Insert: INSERT [IGNORE] INTO / REPLACE INTO <target> [(<columns>)] VALUES
//   - CreateTable: CREATE [TEMPORARY] TABLE [IF NOT EXISTS] <target> (
package locator
