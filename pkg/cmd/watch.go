package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlalign/pkg/config"
	"github.com/pseudomuto/sqlalign/pkg/consts"
	"github.com/pseudomuto/sqlalign/pkg/format"
	"github.com/urfave/cli/v3"
)

const defaultDebounce = 100 * time.Millisecond

// watchCmd creates a CLI command that keeps SQL files aligned as they change.
//
// Every directory under the given paths (default: the current directory) is
// watched with the same skip and exclude rules as fmt. A file is formatted
// once no further events have arrived for it within the debounce window, so
// editors that write in several steps are never read half way through.
//
// Examples:
//
//	# Watch the current directory
//	sqlalign watch
//
//	# Watch db/ and keep backups of every rewritten file
//	sqlalign watch -b db/
func watchCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Align SQL files whenever they change",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log why statements were left unchanged",
			},
			&cli.BoolFlag{
				Name:    "backup",
				Aliases: []string{"b"},
				Usage:   "Write a .bak copy of each file before changing it",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period to wait for after a change before formatting",
				Value: defaultDebounce,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file",
				Sources: cli.EnvVars("SQLALIGN_CONFIG"),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root := cmd.Root()
			logger := newLogger(root.ErrWriter, cmd.Bool("verbose"))

			cfg, err := resolveConfig(cmd.String("config"), cfg)
			if err != nil {
				return err
			}

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				paths = []string{"."}
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return errors.Wrap(err, "failed to create file watcher")
			}
			defer func() { _ = watcher.Close() }()

			dirs, err := watchDirs(paths, cfg)
			if err != nil {
				return err
			}

			for _, dir := range dirs {
				if err := watcher.Add(dir); err != nil {
					return errors.Wrapf(err, "failed to watch directory: %s", dir)
				}
				logger.Info("watching", "dir", dir)
			}

			w := &sqlWatcher{
				watcher:   watcher,
				formatter: cfg.GetFormatter(),
				cfg:       cfg,
				opts:      fmtOptions{write: true, backup: cmd.Bool("backup")},
				debounce:  cmd.Duration("debounce"),
				out:       root.Writer,
				logger:    logger,
			}

			return w.run(ctx)
		},
	}
}

// sqlWatcher formats .sql files reported by an fsnotify watcher.
type sqlWatcher struct {
	watcher   *fsnotify.Watcher
	formatter *format.Formatter
	cfg       *config.Config
	opts      fmtOptions
	debounce  time.Duration
	out       io.Writer
	logger    *slog.Logger
}

// run processes events until ctx is cancelled or the watcher is closed.
func (w *sqlWatcher) run(ctx context.Context) error {
	debounce := w.debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if event.Has(fsnotify.Create) && w.addDir(event.Name, pending) {
				continue
			}

			if w.wants(event.Name) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "err", err)

		case now := <-ticker.C:
			w.flush(pending, now, debounce)
		}
	}
}

// flush formats every pending file that has been quiet for at least debounce.
func (w *sqlWatcher) flush(pending map[string]time.Time, now time.Time, debounce time.Duration) {
	var ready []string
	for path, at := range pending {
		if now.Sub(at) >= debounce {
			ready = append(ready, path)
		}
	}

	slices.Sort(ready)
	for _, path := range ready {
		delete(pending, path)

		res := formatFile(path, w.formatter, w.opts)
		if res.err != nil {
			// the file may have been removed before it settled
			if os.IsNotExist(errors.Cause(res.err)) {
				continue
			}
			w.logger.Error("failed to format file", "path", path, "err", res.err)
			continue
		}

		logUnchanged(w.logger, path, res.results)
		if err := report(w.out, res, w.opts); err != nil {
			w.logger.Error("failed to report result", "path", path, "err", err)
		}
	}
}

// addDir starts watching path and every subdirectory the walk rules allow
// when path is a newly created directory. SQL files already inside the new
// tree are queued in pending. It reports whether path was a directory.
func (w *sqlWatcher) addDir(path string, pending map[string]time.Time) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	if skipDir(filepath.Base(path)) || w.cfg.Excluded(path) {
		return true
	}

	dirs, err := watchDirs([]string{path}, w.cfg)
	if err != nil {
		w.logger.Error("failed to walk directory", "dir", path, "err", err)
		return true
	}

	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Error("failed to watch directory", "dir", dir, "err", err)
			continue
		}
		w.logger.Info("watching", "dir", dir)
	}

	files, err := walkDirectory(path, w.cfg)
	if err != nil {
		w.logger.Error("failed to walk directory", "dir", path, "err", err)
		return true
	}

	now := time.Now()
	for _, file := range files {
		pending[file] = now
	}

	return true
}

func (w *sqlWatcher) wants(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), consts.SQLExtension) && !w.cfg.Excluded(path)
}
