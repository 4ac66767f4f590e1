package cmd

import (
	"context"
	"log/slog"

	"github.com/pseudomuto/dbmetatool/pkg/executor"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/urfave/cli/v3"
)

// updateDB creates the update-db command for applying migration scripts to
// an existing database.
//
// Every script runs in its own transaction: it is committed when it
// succeeds and rolled back when it fails, leaving earlier commits in place
// and moving on to the next script. The command fails after the summary
// when any script failed.
//
// Example usage:
//
//	# Apply migrations
//	dbmetatool update-db --connection-string "DataSource=localhost;Database=/data/app.fdb" --scripts-dir ./migrations
//
//	# Show what would be executed without connecting
//	dbmetatool update-db --connection-string "localhost/data/app.fdb" --scripts-dir ./migrations --dry-run
func updateDB(p dbParams) *cli.Command {
	return &cli.Command{
		Name:  "update-db",
		Usage: "Apply SQL scripts to an existing database, one transaction per script",
		Description: `Execute every *.sql file found under --scripts-dir against an existing
database, in lexicographic path order.

Each script runs in its own transaction. Failed scripts are rolled back and
reported while the remaining scripts still run.`,
		Before:       requireFlags("connection-string", "scripts-dir"),
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			connectionStringFlag(),
			&cli.StringFlag{
				Name:  "scripts-dir",
				Usage: "directory containing the *.sql scripts",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "list the scripts that would be executed without connecting",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runUpdateDB(ctx, cmd, p)
		},
	}
}

func runUpdateDB(ctx context.Context, cmd *cli.Command, p dbParams) error {
	scripts, err := executor.LoadScriptDir(cmd.String("scripts-dir"))
	if err != nil {
		return err
	}

	conn, err := firebird.ParseConnectionString(cmd.String("connection-string"), defaultConnection(p.Config.Firebird))
	if err != nil {
		return err
	}

	if len(scripts) == 0 {
		printf(cmd, "No scripts to execute.\n")
		return nil
	}

	slog.Info("Updating database", "target", conn.Redacted(), "scripts", len(scripts))

	if cmd.Bool("dry-run") {
		printPlan(cmd, conn.Target, scripts)
		return nil
	}

	client, err := p.Connector.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := runScripts(ctx, cmd, client, executor.ModeTransaction, scripts); err != nil {
		return err
	}

	printf(cmd, "Database updated successfully.\n")
	return nil
}
