// Package export generates creation scripts from a Firebird database catalog.
//
// An export writes three scripts into an output directory, one per kind of
// catalog object, named so that executing them in lexicographic order
// recreates the schema:
//
//	01_domains.sql     CREATE DOMAIN statements
//	02_tables.sql      CREATE TABLE statements
//	03_procedures.sql  CREATE OR ALTER PROCEDURE statements
//
// Example usage:
//
//	client, err := firebird.Driver{}.Open(ctx, conn)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	exp := export.New(client, os.Stdout)
//	if err := exp.Export(ctx, "schema"); err != nil {
//		return err
//	}
//
// Column and parameter types backed by a user defined domain are rendered as
// the domain name. Everything else is rendered through firebird.MapFieldType.
package export
