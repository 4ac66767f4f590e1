package firebird

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Domain is a user defined field domain.
	Domain struct {
		Name string
		FieldType
		NotNull bool

		// Default is the DEFAULT clause source, e.g. "DEFAULT 0"
		Default string

		// Check is the validation source, e.g. "CHECK (VALUE > 0)"
		Check string
	}

	// Table is a user relation along with its columns in declared order.
	Table struct {
		Name    string
		Columns []Column
	}

	// Column is a relation field joined with its field source.
	Column struct {
		Name   string
		Source string
		FieldType
		NotNull bool
		Default string
	}

	// Procedure is a stored procedure along with its parameters, inputs first.
	Procedure struct {
		Name       string
		Source     string
		Parameters []Parameter
	}

	// Parameter is a procedure parameter joined with its field source.
	Parameter struct {
		Name      string
		Direction ParameterDirection
		Source    string
		FieldType
	}

	// ParameterDirection is RDB$PROCEDURE_PARAMETERS.RDB$PARAMETER_TYPE.
	ParameterDirection int
)

const (
	ParameterInput ParameterDirection = iota
	ParameterOutput
)

// SQLType is the declared type of the column.
func (c Column) SQLType() string {
	return ResolveType(c.Source, c.FieldType)
}

// SQLType is the declared type of the parameter.
func (p Parameter) SQLType() string {
	return ResolveType(p.Source, p.FieldType)
}

// IsInput reports whether the parameter is an input parameter. Anything
// other than 0 is an output.
func (p Parameter) IsInput() bool {
	return p.Direction == ParameterInput
}

// Inputs returns the input parameters in declared order.
func (p Procedure) Inputs() []Parameter {
	return p.filter(true)
}

// Outputs returns the output parameters in declared order.
func (p Procedure) Outputs() []Parameter {
	return p.filter(false)
}

func (p Procedure) filter(input bool) []Parameter {
	var res []Parameter
	for _, param := range p.Parameters {
		if param.IsInput() == input {
			res = append(res, param)
		}
	}

	return res
}

const (
	domainsQuery = `
		SELECT f.RDB$FIELD_NAME, f.RDB$FIELD_TYPE, f.RDB$FIELD_LENGTH,
		       f.RDB$FIELD_PRECISION, f.RDB$FIELD_SCALE, f.RDB$NULL_FLAG,
		       f.RDB$DEFAULT_SOURCE, f.RDB$VALIDATION_SOURCE, f.RDB$CHARACTER_LENGTH
		FROM RDB$FIELDS f
		WHERE f.RDB$FIELD_NAME NOT STARTING WITH 'RDB$'
		  AND f.RDB$FIELD_NAME NOT STARTING WITH 'SEC$'
		  AND f.RDB$FIELD_NAME NOT STARTING WITH 'MON$'
		ORDER BY f.RDB$FIELD_NAME`

	tablesQuery = `
		SELECT r.RDB$RELATION_NAME
		FROM RDB$RELATIONS r
		WHERE r.RDB$SYSTEM_FLAG = 0
		  AND r.RDB$VIEW_BLR IS NULL
		ORDER BY r.RDB$RELATION_NAME`

	columnsQuery = `
		SELECT rf.RDB$FIELD_NAME, rf.RDB$FIELD_SOURCE,
		       f.RDB$FIELD_TYPE, f.RDB$FIELD_LENGTH,
		       f.RDB$FIELD_PRECISION, f.RDB$FIELD_SCALE,
		       rf.RDB$NULL_FLAG, rf.RDB$DEFAULT_SOURCE, f.RDB$CHARACTER_LENGTH
		FROM RDB$RELATION_FIELDS rf
		JOIN RDB$FIELDS f ON rf.RDB$FIELD_SOURCE = f.RDB$FIELD_NAME
		WHERE rf.RDB$RELATION_NAME = ?
		ORDER BY rf.RDB$FIELD_POSITION`

	proceduresQuery = `
		SELECT p.RDB$PROCEDURE_NAME, p.RDB$PROCEDURE_SOURCE
		FROM RDB$PROCEDURES p
		WHERE p.RDB$SYSTEM_FLAG = 0
		ORDER BY p.RDB$PROCEDURE_NAME`

	parametersQuery = `
		SELECT pp.RDB$PARAMETER_NAME, pp.RDB$PARAMETER_TYPE,
		       f.RDB$FIELD_TYPE, f.RDB$FIELD_LENGTH,
		       f.RDB$FIELD_PRECISION, f.RDB$FIELD_SCALE,
		       pp.RDB$FIELD_SOURCE, f.RDB$CHARACTER_LENGTH
		FROM RDB$PROCEDURE_PARAMETERS pp
		JOIN RDB$FIELDS f ON pp.RDB$FIELD_SOURCE = f.RDB$FIELD_NAME
		WHERE pp.RDB$PROCEDURE_NAME = ?
		ORDER BY pp.RDB$PARAMETER_TYPE, pp.RDB$PARAMETER_NUMBER`
)

// Domains returns every user defined domain ordered by name. Names reserved
// for system, security and monitoring fields are skipped.
func (c *Client) Domains(ctx context.Context) ([]Domain, error) {
	rows, err := c.QueryContext(ctx, domainsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query domains")
	}
	defer func() { _ = rows.Close() }()

	var domains []Domain
	for rows.Next() {
		var (
			d                    Domain
			scan                 fieldScan
			notNull              sql.NullInt64
			defSource, valSource sql.NullString
		)

		if err := rows.Scan(
			&d.Name,
			&scan.typ,
			&scan.length,
			&scan.precision,
			&scan.scale,
			&notNull,
			&defSource,
			&valSource,
			&scan.charLength,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan domain row")
		}

		d.Name = strings.TrimSpace(d.Name)
		d.FieldType = scan.fieldType()
		d.NotNull = isSet(notNull)
		d.Default = strings.TrimSpace(defSource.String)
		d.Check = strings.TrimSpace(valSource.String)
		domains = append(domains, d)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating domain rows")
	}

	return domains, nil
}

// Tables returns every user table (views excluded) ordered by name, with
// columns in declared order.
func (c *Client) Tables(ctx context.Context) ([]Table, error) {
	names, err := c.names(ctx, tablesQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tables")
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		cols, err := c.Columns(ctx, name)
		if err != nil {
			return nil, err
		}

		tables = append(tables, Table{Name: name, Columns: cols})
	}

	return tables, nil
}

// Columns returns the columns of table ordered by position.
func (c *Client) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := c.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query columns of %s", table)
	}
	defer func() { _ = rows.Close() }()

	var cols []Column
	for rows.Next() {
		var (
			col       Column
			scan      fieldScan
			notNull   sql.NullInt64
			defSource sql.NullString
		)

		if err := rows.Scan(
			&col.Name,
			&col.Source,
			&scan.typ,
			&scan.length,
			&scan.precision,
			&scan.scale,
			&notNull,
			&defSource,
			&scan.charLength,
		); err != nil {
			return nil, errors.Wrapf(err, "failed to scan column row of %s", table)
		}

		col.Name = strings.TrimSpace(col.Name)
		col.Source = strings.TrimSpace(col.Source)
		col.FieldType = scan.fieldType()
		col.NotNull = isSet(notNull)
		col.Default = strings.TrimSpace(defSource.String)
		cols = append(cols, col)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "error iterating column rows of %s", table)
	}

	return cols, nil
}

// Procedures returns every user stored procedure ordered by name, with
// parameters ordered by direction then position.
func (c *Client) Procedures(ctx context.Context) ([]Procedure, error) {
	rows, err := c.QueryContext(ctx, proceduresQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query procedures")
	}

	// Parameters are queried on the same connection, so the procedure list
	// has to be drained first.
	var procs []Procedure
	for rows.Next() {
		var (
			p      Procedure
			source sql.NullString
		)

		if err := rows.Scan(&p.Name, &source); err != nil {
			_ = rows.Close()
			return nil, errors.Wrap(err, "failed to scan procedure row")
		}

		p.Name = strings.TrimSpace(p.Name)
		p.Source = source.String
		procs = append(procs, p)
	}

	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, errors.Wrap(err, "error iterating procedure rows")
	}

	for i := range procs {
		params, err := c.Parameters(ctx, procs[i].Name)
		if err != nil {
			return nil, err
		}

		procs[i].Parameters = params
	}

	return procs, nil
}

// Parameters returns the parameters of procedure, inputs first.
func (c *Client) Parameters(ctx context.Context, procedure string) ([]Parameter, error) {
	rows, err := c.QueryContext(ctx, parametersQuery, procedure)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query parameters of %s", procedure)
	}
	defer func() { _ = rows.Close() }()

	var params []Parameter
	for rows.Next() {
		var (
			p    Parameter
			dir  int
			scan fieldScan
		)

		if err := rows.Scan(
			&p.Name,
			&dir,
			&scan.typ,
			&scan.length,
			&scan.precision,
			&scan.scale,
			&p.Source,
			&scan.charLength,
		); err != nil {
			return nil, errors.Wrapf(err, "failed to scan parameter row of %s", procedure)
		}

		p.Name = strings.TrimSpace(p.Name)
		p.Source = strings.TrimSpace(p.Source)
		p.Direction = ParameterOutput
		if dir == 0 {
			p.Direction = ParameterInput
		}
		p.FieldType = scan.fieldType()
		params = append(params, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "error iterating parameter rows of %s", procedure)
	}

	return params, nil
}

func (c *Client) names(ctx context.Context, query string) ([]string, error) {
	rows, err := c.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, strings.TrimSpace(name))
	}

	return names, rows.Err()
}

// fieldScan receives the nullable numeric columns of RDB$FIELDS.
type fieldScan struct {
	typ        int
	length     sql.NullInt64
	precision  sql.NullInt64
	scale      sql.NullInt64
	charLength sql.NullInt64
}

func (s fieldScan) fieldType() FieldType {
	return FieldType{
		Type:       s.typ,
		Length:     int(s.length.Int64),
		Precision:  int(s.precision.Int64),
		Scale:      int(s.scale.Int64),
		CharLength: int(s.charLength.Int64),
	}
}

func isSet(flag sql.NullInt64) bool {
	return flag.Valid && flag.Int64 == 1
}
