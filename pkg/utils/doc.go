// Package utils provides small helpers shared by the sqlalign packages.
//
// # Identifier Utilities (identifier.go)
//
// SQL dialects quote identifiers in different ways. The identifier helpers
// recognise backtick, double-quote and bracket quoting and remove it so that
// names can be compared regardless of how they were written:
//
//	utils.Unquote("`users`")        // users
//	utils.Unquote(`"a""b"`)         // a"b
//	utils.Unquote("[order]")        // order
//	utils.UnquoteQualified([]string{"`db`", "users"}) // db.users
//
// # Pointer Utilities (ptr.go)
//
// Ptr and Deref help with optional configuration values:
//
//	enabled := utils.Ptr(true)
//	align := utils.Deref(cfg.CreateTable, true)
package utils
