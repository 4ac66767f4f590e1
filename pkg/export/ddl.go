package export

import (
	"io"
	"strings"

	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/pseudomuto/dbmetatool/pkg/utils"
)

const (
	domainsHeader    = "-- Domains (DOMAINS)"
	tablesHeader     = "-- Tables (TABLES)"
	proceduresHeader = "-- Procedures (PROCEDURES)"

	indent = "    "

	// procedureTerminator ends each procedure block. Procedure bodies contain
	// semicolons, so a plain ";" can't be used.
	procedureTerminator = "^"
)

// WriteDomains writes one CREATE DOMAIN statement per domain. Names that
// aren't regular identifiers are quoted, here and in the other writers.
//
//	CREATE DOMAIN D_AMOUNT AS NUMERIC(9, 2) DEFAULT 0 NOT NULL CHECK (VALUE >= 0);
func WriteDomains(w io.Writer, domains []firebird.Domain) error {
	var sb strings.Builder
	writeHeader(&sb, domainsHeader)

	for _, d := range domains {
		parts := []string{"CREATE DOMAIN", utils.QuoteIdentifier(d.Name), "AS", d.SQLType()}
		parts = appendClause(parts, d.Default)
		if d.NotNull {
			parts = append(parts, "NOT NULL")
		}
		parts = appendClause(parts, d.Check)

		sb.WriteString(strings.Join(parts, " "))
		sb.WriteString(";\n")
	}

	return write(w, sb.String())
}

// WriteTables writes one CREATE TABLE statement per table, each followed by a
// blank line.
//
//	CREATE TABLE CUSTOMERS (
//	    ID INTEGER NOT NULL,
//	    EMAIL D_EMAIL
//	);
func WriteTables(w io.Writer, tables []firebird.Table) error {
	var sb strings.Builder
	writeHeader(&sb, tablesHeader)

	for _, t := range tables {
		sb.WriteString("CREATE TABLE " + utils.QuoteIdentifier(t.Name) + " (\n")

		cols := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cols[i] = indent + columnDefinition(col)
		}

		if len(cols) > 0 {
			sb.WriteString(strings.Join(cols, ",\n"))
			sb.WriteString("\n")
		}

		sb.WriteString(");\n\n")
	}

	return write(w, sb.String())
}

// WriteProcedures writes one CREATE OR ALTER PROCEDURE block per procedure.
// The stored body is written verbatim (trimmed) after AS, and each block ends
// with the ^ terminator followed by a blank line.
func WriteProcedures(w io.Writer, procs []firebird.Procedure) error {
	var sb strings.Builder
	writeHeader(&sb, proceduresHeader)

	for _, p := range procs {
		sb.WriteString("-- Procedure: " + p.Name + "\n")
		sb.WriteString("CREATE OR ALTER PROCEDURE " + utils.QuoteIdentifier(p.Name))
		if inputs := p.Inputs(); len(inputs) > 0 {
			sb.WriteString(" (" + parameterList(inputs) + ")")
		}
		sb.WriteString("\n")

		if outputs := p.Outputs(); len(outputs) > 0 {
			sb.WriteString("RETURNS (" + parameterList(outputs) + ")\n")
		}

		sb.WriteString("AS\n")
		if body := strings.TrimSpace(p.Source); body != "" {
			sb.WriteString(body + "\n")
		}

		sb.WriteString(procedureTerminator + "\n\n")
	}

	return write(w, sb.String())
}

func columnDefinition(col firebird.Column) string {
	parts := []string{utils.QuoteIdentifier(col.Name), col.SQLType()}
	parts = appendClause(parts, col.Default)
	if col.NotNull {
		parts = append(parts, "NOT NULL")
	}

	return strings.Join(parts, " ")
}

func parameterList(params []firebird.Parameter) string {
	defs := make([]string, len(params))
	for i, p := range params {
		defs[i] = utils.QuoteIdentifier(p.Name) + " " + p.SQLType()
	}

	return strings.Join(defs, ", ")
}

func appendClause(parts []string, clause string) []string {
	if clause != "" {
		parts = append(parts, clause)
	}

	return parts
}

func writeHeader(sb *strings.Builder, header string) {
	sb.WriteString(header)
	sb.WriteString("\n\n")
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
