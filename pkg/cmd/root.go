package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pseudomuto/dbmetatool/pkg/config"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
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

// Run creates and executes the main dbmetatool CLI application with the given
// version and command-line arguments. This function serves as the main entry
// point for all CLI operations and handles global configuration.
//
// The command runs inside an fx start hook and shuts the app down with an
// exit code when it returns:
//   - 0: the command succeeded
//   - 1: usage error (unknown command or flag, missing required flag)
//   - 2: the command failed, including runs where some scripts failed
//
// Global Flags:
//   - --config, -c: configuration file (env: DBMETATOOL_CONFIG)
//   - --log-level: debug, info, warn or error (overrides log_level)
//
// Example usage:
//
//	dbmetatool build-db --db-dir ./db --scripts-dir ./scripts
//	dbmetatool export-scripts --connection-string "SYSDBA:masterkey@localhost/db/app.fdb" --output-dir ./out
//	dbmetatool update-db --connection-string "DataSource=localhost;Database=/db/app.fdb" --scripts-dir ./migrations
func Run(p Params) {
	app := newApp(p.Config, p.Version, p.Commands)

	p.Lifecycle.Append(fx.StartHook(func() {
		code := exitCode(app.Run(p.Ctx, p.Args))
		_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
	}))
}

func newApp(cfg *config.Config, version *Version, commands []*cli.Command) *cli.Command {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", version.Timestamp)
	}

	commands = slices.Clone(commands)
	slices.SortFunc(commands, func(a, b *cli.Command) int {
		return strings.Compare(a.Name, b.Name)
	})

	return &cli.Command{
		Name:  "dbmetatool",
		Usage: "Build, export and update Firebird databases with SQL scripts",
		Description: `dbmetatool creates Firebird databases from a directory of SQL scripts,
exports the schema of an existing database back into scripts, and applies
migration scripts to existing databases, one transaction per script.`,
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the dbmetatool config file",
				Sources: cli.EnvVars(consts.ConfigEnvVar),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if path := cmd.String("config"); path != "" {
				loaded, err := config.LoadConfigFile(path)
				if err != nil {
					return ctx, err
				}

				// commands hold the same pointer, so they see the loaded values
				*cfg = *loaded
			}

			level := cfg.LogLevel
			if cmd.IsSet("log-level") {
				level = cmd.String("log-level")
			}

			return ctx, configureLogging(level)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return newUsageError("unknown command: %s", cmd.Args().First())
			}

			_ = cli.ShowAppHelp(cmd)
			return newUsageError("no command given")
		},
		OnUsageError: onUsageError,
		Commands:     commands,
	}
}

func configureLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return newUsageError("invalid log level: %s", level)
	}

	slog.SetLogLoggerLevel(lvl)
	return nil
}
