package firebird

import "database/sql"

// NewTestDriver returns a Driver that opens pools with open instead of
// sql.Open.
func NewTestDriver(open func(driverName, dsn string) (*sql.DB, error)) Driver {
	return Driver{sqlOpen: open}
}
