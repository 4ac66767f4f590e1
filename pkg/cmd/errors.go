package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const (
	exitOK           = 0
	exitUsageError   = 1
	exitCommandError = 2
)

// usageError marks errors caused by how the tool was invoked rather than by
// what it did. Nothing has been touched when one is returned.
type usageError struct {
	err error
}

func newUsageError(format string, args ...any) error {
	return &usageError{err: errors.Errorf(format, args...)}
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// exitCode maps the result of running the app to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	slog.Error("Error running command", "err", err)

	var uerr *usageError
	if errors.As(err, &uerr) {
		return exitUsageError
	}

	return exitCommandError
}

// onUsageError turns flag parsing failures, such as unknown flags, into
// usage errors.
func onUsageError(_ context.Context, cmd *cli.Command, err error, _ bool) error {
	return &usageError{err: errors.Wrapf(err, "incorrect usage of %s", cmd.Name)}
}

// requireFlags returns a Before func failing with a usage error when any of
// the named flags is missing or blank.
func requireFlags(names ...string) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		var missing []string
		for _, name := range names {
			if strings.TrimSpace(cmd.String(name)) == "" {
				missing = append(missing, "--"+name)
			}
		}

		if len(missing) > 0 {
			return ctx, newUsageError("required flags not set: %s", strings.Join(missing, ", "))
		}

		return ctx, nil
	}
}

// writer is where user facing progress is written.
func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func printf(cmd *cli.Command, format string, args ...any) {
	fmt.Fprintf(writer(cmd), format, args...)
}
