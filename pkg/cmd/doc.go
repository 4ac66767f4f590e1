// Package cmd provides CLI commands for the dbmetatool tool.
//
// Each command is a function returning a *cli.Command, registered with fx
// in the "commands" group and assembled into the root command by Run.
//
// # Available Commands
//
//   - build-db: create a database and populate it from a scripts directory
//   - export-scripts: write domains, tables and procedures of a database as scripts
//   - update-db: apply scripts to an existing database, one transaction per script
//   - dev up / dev down: manage a local Firebird server in Docker
//
// # Exit Codes
//
//   - 0: success
//   - 1: usage error (unknown command or flag, missing required flag)
//   - 2: the command failed, including runs where any script failed
//
// # Example Usage
//
//	dbmetatool build-db --db-dir ./db --scripts-dir ./scripts
//	dbmetatool export-scripts --connection-string "SYSDBA:masterkey@localhost/data/app.fdb" --output-dir ./schema
//	dbmetatool update-db --connection-string "DataSource=localhost;Database=/data/app.fdb" --scripts-dir ./migrations
//	dbmetatool dev up
package cmd
