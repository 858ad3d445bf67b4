package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the config file looked up in the working directory
	DefaultConfigFile = ".sqlalign.yaml"

	// BackupSuffix is appended to a file name when writing a backup copy
	BackupSuffix = ".bak"

	// SQLExtension identifies files picked up when walking a directory
	SQLExtension = ".sql"
)

// SkippedDirs are directory names never descended into when walking.
var SkippedDirs = []string{".git", "target", "node_modules"}
