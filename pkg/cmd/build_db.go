package cmd

import (
	"context"
	"log/slog"

	"github.com/pseudomuto/dbmetatool/pkg/executor"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/urfave/cli/v3"
)

// buildDB creates the build-db command for creating a new database and
// populating it from a directory of scripts.
//
// Scripts are discovered recursively (*.sql), executed in lexicographic
// path order, each as a single batch outside of any explicit transaction. A
// failing script is reported and the run continues; the command fails after
// the summary when any script failed.
//
// Example usage:
//
//	# Create ./db/database.fdb through the server on localhost
//	dbmetatool build-db --db-dir ./db --scripts-dir ./scripts
//
//	# Create /var/lib/firebird/data/database.fdb on the configured server
//	dbmetatool build-db --db-dir /var/lib/firebird/data --scripts-dir ./scripts --remote
//
//	# List the scripts without creating anything
//	dbmetatool build-db --db-dir ./db --scripts-dir ./scripts --dry-run
func buildDB(p dbParams) *cli.Command {
	return &cli.Command{
		Name:  "build-db",
		Usage: "Create a new database and populate it from SQL scripts",
		Description: `Create an empty database and execute every *.sql file found under
--scripts-dir, in lexicographic path order.

By default --db-dir is a directory on this machine: it is created when missing
and the database file (database.fdb unless configured otherwise) is created
inside it, replacing an existing one. With --remote (or firebird.remote in the
config file) --db-dir is a path on the Firebird server; a path ending in .fdb
names the database file itself.`,
		Before:       requireFlags("db-dir", "scripts-dir"),
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db-dir",
				Usage: "directory the database is created in",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:  "scripts-dir",
				Usage: "directory containing the *.sql scripts",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "treat --db-dir as a path on the Firebird server",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "list the scripts that would be executed without creating the database",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runBuildDB(ctx, cmd, p)
		},
	}
}

func runBuildDB(ctx context.Context, cmd *cli.Command, p dbParams) error {
	cfg := p.Config.Firebird
	dbDir := cmd.String("db-dir")
	scriptsDir := cmd.String("scripts-dir")

	scripts, err := executor.LoadScriptDir(scriptsDir)
	if err != nil {
		return err
	}

	conn := defaultConnection(cfg)
	if cfg.Remote || cmd.Bool("remote") {
		conn.Target = firebird.NewRemoteTarget(cfg.Host, cfg.Port, dbDir, cfg.DatabaseFile)
	} else {
		conn.Target, err = firebird.NewLocalTarget(cfg.Host, cfg.Port, dbDir, cfg.DatabaseFile)
		if err != nil {
			return err
		}
	}

	slog.Info("Building database",
		"target", conn.Redacted(),
		"kind", conn.Kind,
		"scripts", len(scripts),
	)

	if cmd.Bool("dry-run") {
		printPlan(cmd, conn.Target, scripts)
		return nil
	}

	if err := p.Connector.Create(ctx, conn, firebird.CreateOptions{Overwrite: cfg.Overwrite}); err != nil {
		return err
	}

	printf(cmd, "Created database: %s\n", conn.Path)

	client, err := p.Connector.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := runScripts(ctx, cmd, client, executor.ModeDirect, scripts); err != nil {
		return err
	}

	printf(cmd, "Database built successfully.\n")
	return nil
}
