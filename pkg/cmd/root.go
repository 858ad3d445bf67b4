package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers lifecycle hooks that execute the sqlalign CLI with the supplied
// arguments and shut the fx application down with the command's exit code.
//
// Example usage:
//
//	fx.New(
//		config.Module,
//		cmd.Module,
//		fx.Supply(&cmd.Version{Version: "v1.0.0"}),
//		...
//	).Run()
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := newApp(p.Version.Version, p.Commands)

	ctx, cancel := context.WithCancel(p.Ctx)

	// OnStart must return within fx's start timeout, so the CLI runs on its own
	// goroutine until it finishes or the app is stopped.
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := app.Run(ctx, p.Args); err != nil {
					slog.Error("Error running command", "err", err)
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
					return
				}

				_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func newApp(version string, commands []*cli.Command) *cli.Command {
	return &cli.Command{
		Name:  "sqlalign",
		Usage: "Align the columns of SQL INSERT and CREATE TABLE statements",
		Description: `sqlalign rewrites multi-row INSERT ... VALUES clauses and CREATE TABLE
column lists so that their columns line up. Statements it cannot format
safely, such as rows with differing column counts or unterminated strings,
are left exactly as written.`,
		Version:  version,
		Commands: commands,
	}
}
