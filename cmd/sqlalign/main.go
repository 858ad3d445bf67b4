package main

import (
	"context"
	"os"

	"github.com/pseudomuto/sqlalign/pkg/cmd"
	"github.com/pseudomuto/sqlalign/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	fx.New(
		fx.NopLogger,
		config.Module,
		cmd.Module,
		fx.Supply(&cmd.Version{
			Version:   version,
			Commit:    commit,
			Timestamp: date,
		}),
		fx.Provide(
			func() context.Context { return context.Background() },
			func() []string { return os.Args },
		),
	).Run()
}
