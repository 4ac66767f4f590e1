// Package firebird provides the Firebird connectivity used by dbmetatool.
//
// The package wraps the github.com/nakagami/firebirdsql database/sql driver
// and exposes the three things the commands need: creating a database,
// running statement batches on a single pinned connection, and reading the
// RDB$ system tables that describe a schema.
//
// # Targets and Connections
//
// A Target names a database file and the server that serves it. Whether the
// path is local (on this machine, directory created by the tool) or remote
// (a path on the server's filesystem) is always explicit:
//
//	local, err := firebird.NewLocalTarget("localhost", 3050, "./db", "database.fdb")
//	remote := firebird.NewRemoteTarget("db.internal", 3050, "/data", "database.fdb")
//
// A Connection adds credentials and renders the driver DSN. Connection
// strings from the command line are parsed with ParseConnectionString,
// which accepts both driver DSNs and key/value strings:
//
//	conn, err := firebird.ParseConnectionString(
//		"DataSource=localhost;Database=/data/app.fdb;User=SYSDBA;Password=masterkey",
//		defaults,
//	)
//
// # Catalog
//
// Client.Domains, Client.Tables and Client.Procedures read user defined
// domains, tables with their columns, and stored procedures with their
// parameters. Column and parameter types are rendered with ResolveType:
// user domains are referenced by name, implicit RDB$ field sources are
// expanded with MapFieldType.
package firebird
