package cmd

import (
	"context"
	"log/slog"

	"github.com/pseudomuto/dbmetatool/pkg/export"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/urfave/cli/v3"
)

// exportScripts creates the export-scripts command, which writes creation
// scripts for the domains, tables and procedures of an existing database.
//
// Example usage:
//
//	dbmetatool export-scripts \
//	  --connection-string "SYSDBA:masterkey@localhost:3050/data/app.fdb" \
//	  --output-dir ./schema
func exportScripts(p dbParams) *cli.Command {
	return &cli.Command{
		Name:  "export-scripts",
		Usage: "Export domains, tables and procedures of a database as SQL scripts",
		Description: `Connect to an existing database and write three scripts into --output-dir:

  01_domains.sql     CREATE DOMAIN statements
  02_tables.sql      CREATE TABLE statements
  03_procedures.sql  CREATE OR ALTER PROCEDURE statements

The output directory is created when missing and existing files are replaced.
A failing catalog query aborts the export.

--connection-string accepts a driver DSN (user:password@host:port/path) or a
key/value string (DataSource=...;Port=...;Database=...;User=...;Password=...).
Missing parts are taken from the firebird section of the config file.`,
		Before:       requireFlags("connection-string", "output-dir"),
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			connectionStringFlag(),
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "directory the scripts are written to",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runExportScripts(ctx, cmd, p)
		},
	}
}

func runExportScripts(ctx context.Context, cmd *cli.Command, p dbParams) error {
	outputDir := cmd.String("output-dir")

	conn, err := firebird.ParseConnectionString(cmd.String("connection-string"), defaultConnection(p.Config.Firebird))
	if err != nil {
		return err
	}

	slog.Info("Exporting database", "target", conn.Redacted(), "output_dir", outputDir)

	client, err := p.Connector.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := export.New(client, writer(cmd)).Export(ctx, outputDir); err != nil {
		return err
	}

	printf(cmd, "\nExport completed to directory: %s\n", outputDir)
	printf(cmd, "Scripts exported successfully.\n")
	return nil
}

func connectionStringFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "connection-string",
		Usage: "connection string of an existing database",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}
