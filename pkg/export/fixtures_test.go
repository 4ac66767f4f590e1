package export_test

import (
	"context"

	"github.com/pseudomuto/dbmetatool/pkg/firebird"
)

var (
	testDomains = []firebird.Domain{
		{
			Name:      "D_AMOUNT",
			FieldType: firebird.FieldType{Type: firebird.TypeInteger, Length: 4, Precision: 9, Scale: -2},
			NotNull:   true,
			Default:   "DEFAULT 0",
			Check:     "CHECK (VALUE >= 0)",
		},
		{
			Name:      "D_EMAIL",
			FieldType: firebird.FieldType{Type: firebird.TypeVarchar, Length: 480, CharLength: 120},
		},
		{
			Name:      "D_FLAG",
			FieldType: firebird.FieldType{Type: firebird.TypeSmallInt, Length: 2},
			NotNull:   true,
			Check:     "CHECK (VALUE IN (0, 1))",
		},
	}

	testTables = []firebird.Table{
		{
			Name: "CUSTOMERS",
			Columns: []firebird.Column{
				{Name: "ID", Source: "RDB$1", FieldType: firebird.FieldType{Type: firebird.TypeInteger}, NotNull: true},
				{Name: "EMAIL", Source: "D_EMAIL", FieldType: firebird.FieldType{Type: firebird.TypeVarchar, CharLength: 120}},
				{
					Name:      "CREATED_AT",
					Source:    "RDB$2",
					FieldType: firebird.FieldType{Type: firebird.TypeTimestamp},
					Default:   "DEFAULT CURRENT_TIMESTAMP",
				},
			},
		},
		{
			Name: "ORDERS",
			Columns: []firebird.Column{
				{Name: "ID", Source: "RDB$3", FieldType: firebird.FieldType{Type: firebird.TypeBigInt}, NotNull: true},
				{Name: "CUSTOMER_ID", Source: "RDB$4", FieldType: firebird.FieldType{Type: firebird.TypeInteger}},
				{Name: "TOTAL", Source: "D_AMOUNT", FieldType: firebird.FieldType{Type: firebird.TypeInteger, Precision: 9, Scale: -2}},
				{Name: "NOTE", Source: "RDB$5", FieldType: firebird.FieldType{Type: firebird.TypeBlob}},
				{Name: "CODE", Source: "RDB$6", FieldType: firebird.FieldType{Type: firebird.TypeChar, CharLength: 3}},
			},
		},
	}

	testProcedures = []firebird.Procedure{
		{
			Name:   "COUNT_ORDERS",
			Source: "\nBEGIN\n  SELECT COUNT(*) FROM ORDERS INTO :CNT;\n  SUSPEND;\nEND\n",
			Parameters: []firebird.Parameter{
				{Name: "CNT", Direction: firebird.ParameterOutput, Source: "RDB$12", FieldType: firebird.FieldType{Type: firebird.TypeBigInt}},
			},
		},
		{
			Name: "GET_TOTAL",
			Source: "BEGIN\n  SELECT SUM(TOTAL) FROM ORDERS\n  WHERE CUSTOMER_ID = :CUSTOMER_ID\n" +
				"  INTO :TOTAL;\n  SUSPEND;\nEND",
			Parameters: []firebird.Parameter{
				{Name: "CUSTOMER_ID", Direction: firebird.ParameterInput, Source: "RDB$10", FieldType: firebird.FieldType{Type: firebird.TypeInteger}},
				{Name: "SINCE", Direction: firebird.ParameterInput, Source: "RDB$11", FieldType: firebird.FieldType{Type: firebird.TypeDate}},
				{Name: "TOTAL", Direction: firebird.ParameterOutput, Source: "D_AMOUNT", FieldType: firebird.FieldType{Type: firebird.TypeInteger, Scale: -2}},
			},
		},
		{
			Name:   "TOUCH",
			Source: "  BEGIN\n  EXIT;\nEND  \n",
		},
	}
)

type fakeCatalog struct {
	domains    []firebird.Domain
	tables     []firebird.Table
	procedures []firebird.Procedure

	domainsErr    error
	tablesErr     error
	proceduresErr error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		domains:    testDomains,
		tables:     testTables,
		procedures: testProcedures,
	}
}

func (c *fakeCatalog) Domains(context.Context) ([]firebird.Domain, error) {
	return c.domains, c.domainsErr
}

func (c *fakeCatalog) Tables(context.Context) ([]firebird.Table, error) {
	return c.tables, c.tablesErr
}

func (c *fakeCatalog) Procedures(context.Context) ([]firebird.Procedure, error) {
	return c.procedures, c.proceduresErr
}
