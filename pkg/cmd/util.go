package cmd

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlalign/pkg/config"
	"github.com/pseudomuto/sqlalign/pkg/consts"
	"github.com/pseudomuto/sqlalign/pkg/format"
)

// newLogger returns a text logger writing to w. Debug records are only
// emitted when verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveConfig returns the config at path when one is given, otherwise the
// provided config, falling back to the defaults when that is nil.
func resolveConfig(path string, cfg *config.Config) (*config.Config, error) {
	if path != "" {
		loaded, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load config: %s", path)
		}
		return loaded, nil
	}

	if cfg == nil {
		return config.Default(), nil
	}

	return cfg, nil
}

// collectFiles expands paths into a sorted, de-duplicated list of files.
//
// Files named explicitly are always included. Directories are walked for .sql
// files, skipping hidden and well-known build directories as well as anything
// matching the config's exclude patterns.
func collectFiles(paths []string, cfg *config.Config) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to access path: %s", path)
		}

		if !info.IsDir() {
			files = append(files, filepath.Clean(path))
			continue
		}

		found, err := walkDirectory(path, cfg)
		if err != nil {
			return nil, err
		}

		if len(found) == 0 {
			return nil, errors.Errorf("no SQL files found in directory: %s", path)
		}

		files = append(files, found...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func walkDirectory(dir string, cfg *config.Config) ([]string, error) {
	var sqlFiles []string

	root := filepath.Clean(dir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if path != root && cfg.Excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(strings.ToLower(d.Name()), consts.SQLExtension) && !cfg.Excluded(path) {
			sqlFiles = append(sqlFiles, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk directory: %s", dir)
	}

	return sqlFiles, nil
}

// watchDirs returns the directories to watch for paths. A file contributes its
// parent directory; a directory contributes itself and every subdirectory the
// walk rules allow.
func watchDirs(paths []string, cfg *config.Config) ([]string, error) {
	var dirs []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to access path: %s", path)
		}

		if !info.IsDir() {
			dirs = append(dirs, filepath.Dir(filepath.Clean(path)))
			continue
		}

		root := filepath.Clean(path)
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if p != root && (skipDir(d.Name()) || cfg.Excluded(p)) {
				return filepath.SkipDir
			}

			dirs = append(dirs, p)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk directory: %s", path)
		}
	}

	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(consts.SkippedDirs, name)
}

// logUnchanged records why each statement in a document was left alone.
func logUnchanged(logger *slog.Logger, source string, results []format.ClauseResult) {
	for _, r := range results {
		if r.Formatted() {
			continue
		}

		logger.Debug("statement left unchanged",
			"source", source,
			"statement", r.Match.Kind.Name,
			"table", r.Match.Table,
			"offset", r.Start,
			"reason", r.Reason,
		)
	}
}
