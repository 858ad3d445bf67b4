package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlalign/pkg/config"
	"github.com/pseudomuto/sqlalign/pkg/consts"
	"github.com/pseudomuto/sqlalign/pkg/format"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

type (
	fmtOptions struct {
		dryRun bool
		backup bool
		write  bool
		jobs   int
	}

	// fileResult is the outcome of formatting one file. Results are collected
	// by index so they can be reported in input order.
	fileResult struct {
		path    string
		size    int
		changed bool
		output  string
		results []format.ClauseResult
		err     error
	}
)

// fmtCmd creates a CLI command that aligns SQL statements.
//
// The command supports three input modes:
//   - Stdin mode (default): SQL is read from standard input and the result is
//     written to standard output
//   - Path mode: each argument is a file or directory; directories are walked
//     recursively for .sql files
//   - All mode (-a flag): the current directory is walked
//
// Files are rewritten in place unless --dry-run or --write=false is given.
// A file that fails to read or write is reported and the remaining files are
// still processed; the command then exits with an error.
//
// Examples:
//
//	# Format stdin to stdout
//	sqlalign fmt < seed.sql
//
//	# Print the files that would change
//	sqlalign fmt --all --dry-run
//
//	# Back up and rewrite a directory tree using 8 workers
//	sqlalign fmt -b -j 8 db/
func fmtCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Align SQL statements",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log why statements were left unchanged",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Format every .sql file under the current directory",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Report files that would change without writing them",
			},
			&cli.BoolFlag{
				Name:    "backup",
				Aliases: []string{"b"},
				Usage:   "Write a .bak copy of each file before changing it",
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write results back to source files (use --write=false for stdout)",
				Value:   true,
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of files formatted concurrently",
				Value:   config.DefaultJobs,
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

			formatter := cfg.GetFormatter()
			paths := cmd.Args().Slice()
			if cmd.Bool("all") {
				paths = append(paths, ".")
			}

			if len(paths) == 0 {
				return formatStream(root.Reader, root.Writer, formatter, logger)
			}

			files, err := collectFiles(paths, cfg)
			if err != nil {
				return err
			}

			opts := fmtOptions{
				dryRun: cmd.Bool("dry-run"),
				backup: cmd.Bool("backup"),
				write:  cmd.Bool("write"),
				jobs:   cfg.Jobs,
			}
			if cmd.IsSet("jobs") {
				opts.jobs = int(cmd.Int("jobs"))
			}

			return formatFiles(ctx, files, formatter, opts, root.Writer, logger)
		},
	}
}

// formatStream formats everything read from r and writes the result to w.
func formatStream(r io.Reader, w io.Writer, formatter *format.Formatter, logger *slog.Logger) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}

	out, results := formatter.Document(string(content))
	logUnchanged(logger, "<stdin>", results)

	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, "failed to write formatted content to output")
	}

	return nil
}

// formatFiles formats files using up to opts.jobs workers. Messages are
// written to w in the order of files regardless of completion order.
func formatFiles(ctx context.Context, files []string, formatter *format.Formatter, opts fmtOptions, w io.Writer, logger *slog.Logger) error {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = formatFile(path, formatter, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "formatting interrupted")
	}

	failed, changed, size := 0, 0, 0
	for _, res := range results {
		if res.err != nil {
			failed++
			logger.Error("failed to format file", "path", res.path, "err", res.err)
			continue
		}

		size += res.size
		if res.changed {
			changed++
		}

		logUnchanged(logger, res.path, res.results)
		if err := report(w, res, opts); err != nil {
			return err
		}
	}

	logger.Debug("finished formatting",
		"files", len(files),
		"changed", changed,
		"failed", failed,
		"read", humanize.Bytes(uint64(size)),
	)

	if failed > 0 {
		return errors.Errorf("failed to format %d of %d files", failed, len(files))
	}

	return nil
}

// formatFile formats a single file and, when requested, writes it back.
func formatFile(path string, formatter *format.Formatter, opts fmtOptions) fileResult {
	res := fileResult{path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		res.err = errors.Wrapf(err, "failed to read file: %s", path)
		return res
	}

	res.size = len(content)
	res.output, res.results = formatter.Document(string(content))
	res.changed = !bytes.Equal(content, []byte(res.output))

	if !res.changed || opts.dryRun || !opts.write {
		return res
	}

	if opts.backup {
		if err := os.WriteFile(path+consts.BackupSuffix, content, consts.ModeFile); err != nil {
			res.err = errors.Wrapf(err, "failed to write backup for file: %s", path)
			return res
		}
	}

	if err := os.WriteFile(path, []byte(res.output), consts.ModeFile); err != nil {
		res.err = errors.Wrapf(err, "failed to write formatted content to file: %s", path)
	}

	return res
}

func report(w io.Writer, res fileResult, opts fmtOptions) error {
	var err error

	switch {
	case opts.dryRun:
		if res.changed {
			_, err = fmt.Fprintf(w, "Would format: %s\n", res.path)
		}
	case !opts.write:
		_, err = io.WriteString(w, res.output)
	case res.changed:
		_, err = fmt.Fprintf(w, "Formatted: %s\n", res.path)
	}

	return errors.Wrap(err, "failed to write output")
}
