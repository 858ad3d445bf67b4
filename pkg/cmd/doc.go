// Package cmd provides CLI commands for the sqlalign tool.
//
// This package implements the command-line interface for sqlalign. The
// commands are thin wrappers around pkg/format: they find SQL files, run
// them through a formatter, and report what changed.
//
// # Available Commands
//
//   - fmt: Align INSERT ... VALUES rows and CREATE TABLE column lists
//   - watch: Re-run fmt on .sql files as they change
//
// # Command Structure
//
// Each command is implemented as a separate function that returns a
// *cli.Command, following the urfave/cli/v3 pattern. Commands are provided
// to the application through the fx "commands" value group.
//
// # Example Usage
//
//	sqlalign fmt < seed.sql                  # stdin to stdout
//	sqlalign fmt db/seed.sql                 # rewrite one file in place
//	sqlalign fmt --all --dry-run             # list files that would change
//	sqlalign fmt -b -j 8 db/                 # back up, then rewrite a tree
//	sqlalign watch db/                       # keep a tree aligned while editing
package cmd
