package testutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// CommandOutput captures what a command wrote while running.
type CommandOutput struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// RunCommand executes a command as the root of a test app, feeding stdin to it.
func RunCommand(t *testing.T, command *cli.Command, stdin string, args ...string) (*CommandOutput, error) {
	t.Helper()
	return RunCommandWithContext(context.Background(), t, command, stdin, args...)
}

// RunCommandWithContext executes a command with a custom context
func RunCommandWithContext(ctx context.Context, t *testing.T, command *cli.Command, stdin string, args ...string) (*CommandOutput, error) {
	t.Helper()

	out := new(CommandOutput)
	app := &cli.Command{
		Name:      "test",
		Flags:     command.Flags,
		Action:    command.Action,
		Reader:    strings.NewReader(stdin),
		Writer:    &out.Stdout,
		ErrWriter: &out.Stderr,
	}

	err := app.Run(ctx, append([]string{"test"}, args...))
	return out, err
}
