package firebird

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/consts"

	_ "github.com/nakagami/firebirdsql"
)

const (
	driverName         = "firebirdsql"
	createDBDriverName = "firebirdsql_createdb"

	// PageSize is the page size of every database created by Driver. The
	// createdb driver sends a fixed page size and offers no option to
	// change it.
	PageSize = 4096
)

type (
	// Client represents a single Firebird connection.
	//
	// The client pins one connection out of the database/sql pool so that
	// every statement and transaction of a command runs on the same
	// attachment, in order.
	Client struct {
		db   *sql.DB
		conn *sql.Conn
	}

	// CreateOptions controls how a new database is created.
	CreateOptions struct {
		// Overwrite replaces an existing database. Without it, Create fails
		// when the local file exists or the remote database can be attached.
		Overwrite bool
	}

	// Driver opens and creates Firebird databases through the
	// github.com/nakagami/firebirdsql database/sql driver.
	Driver struct {
		// sqlOpen is sql.Open when nil
		sqlOpen func(driverName, dsn string) (*sql.DB, error)
	}
)

// Open connects to the database described by conn.
//
// Example:
//
//	conn, err := firebird.ParseConnectionString(connStr, defaults)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := firebird.Driver{}.Open(ctx, conn)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
func (d Driver) Open(ctx context.Context, conn Connection) (*Client, error) {
	db, err := d.open(driverName, conn.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open firebird connection")
	}

	return NewClient(ctx, db)
}

// Create creates an empty database for conn. Local targets get their
// directory created first.
//
// The createdb driver always replaces an existing database, so without
// opts.Overwrite Create refuses targets that already exist: a local file
// that is present or a remote database that accepts an attachment.
func (d Driver) Create(ctx context.Context, conn Connection, opts CreateOptions) error {
	if err := d.prepareTarget(ctx, conn, opts.Overwrite); err != nil {
		return err
	}

	slog.Info("Creating database", "target", conn.Redacted(), "page_size", PageSize)

	db, err := d.open(createDBDriverName, conn.DSN())
	if err != nil {
		return errors.Wrap(err, "failed to open firebird connection")
	}
	defer func() { _ = db.Close() }()

	// The createdb driver creates the database file when the first
	// connection is attached.
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrapf(err, "failed to create database: %s", conn.Target)
	}

	return nil
}

func (d Driver) open(name, dsn string) (*sql.DB, error) {
	if d.sqlOpen != nil {
		return d.sqlOpen(name, dsn)
	}

	return sql.Open(name, dsn)
}

func (d Driver) prepareTarget(ctx context.Context, conn Connection, overwrite bool) error {
	if conn.Kind == LocalTarget {
		return prepareLocalTarget(conn.Target, overwrite)
	}

	if overwrite {
		return nil
	}

	client, err := d.Open(ctx, conn)
	if err != nil {
		// nothing to attach to, so there is nothing to replace
		return nil
	}
	_ = client.Close()

	return errors.Errorf("database already exists: %s", conn.Target)
}

func prepareLocalTarget(t Target, overwrite bool) error {
	if err := os.MkdirAll(t.Dir(), consts.ModeDir); err != nil {
		return errors.Wrapf(err, "failed to create database directory: %s", t.Dir())
	}

	if !overwrite {
		if _, err := os.Stat(t.Path); err == nil {
			return errors.Errorf("database already exists: %s", t.Path)
		}

		return nil
	}

	if err := os.Remove(t.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove existing database: %s", t.Path)
	}

	return nil
}

// NewClient pins a connection from db and wraps it. The client owns db and
// closes it along with the connection.
func NewClient(ctx context.Context, db *sql.DB) (*Client, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to connect to firebird server")
	}

	return &Client{db: db, conn: conn}, nil
}

// Close releases the pinned connection and the underlying pool.
func (c *Client) Close() error {
	connErr := c.conn.Close()
	dbErr := c.db.Close()

	if connErr != nil {
		return connErr
	}

	return dbErr
}

// ExecContext executes a statement batch outside of any explicit transaction.
func (c *Client) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

// QueryContext runs a query on the pinned connection.
func (c *Client) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.conn.QueryContext(ctx, query, args...)
}

// BeginTx starts a transaction on the pinned connection.
func (c *Client) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return c.conn.BeginTx(ctx, opts)
}
