package cmd

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pseudomuto/dbmetatool/pkg/cmd/testutil"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/pseudomuto/dbmetatool/pkg/executor"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// fakeConnector hands out a sqlmock backed client. Create writes an empty
// file for local targets so callers can see where the database went.
type fakeConnector struct {
	mock   sqlmock.Sqlmock
	client *firebird.Client

	created []firebird.Connection
	opts    []firebird.CreateOptions
	opened  []firebird.Connection

	createErr error
	openErr   error
}

func newFakeConnector(t *testing.T) *fakeConnector {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	client, err := firebird.NewClient(context.Background(), db)
	require.NoError(t, err)

	f := &fakeConnector{mock: mock, client: client}

	t.Cleanup(func() {
		if len(f.opened) == 0 || f.openErr != nil {
			mock.ExpectClose()
			require.NoError(t, client.Close())
		}

		require.NoError(t, mock.ExpectationsWereMet())
	})

	return f
}

func (f *fakeConnector) Create(_ context.Context, conn firebird.Connection, opts firebird.CreateOptions) error {
	f.created = append(f.created, conn)
	f.opts = append(f.opts, opts)

	if f.createErr != nil {
		return f.createErr
	}

	if conn.Kind == firebird.LocalTarget {
		if err := os.MkdirAll(conn.Dir(), consts.ModeDir); err != nil {
			return err
		}

		return os.WriteFile(conn.Path, nil, consts.ModeFile)
	}

	return nil
}

func (f *fakeConnector) Open(_ context.Context, conn firebird.Connection) (*firebird.Client, error) {
	f.opened = append(f.opened, conn)

	if f.openErr != nil {
		return nil, f.openErr
	}

	return f.client, nil
}

func TestDefaultConnection(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Firebird.Host = "db.internal"
	cfg.Firebird.Port = 3051
	cfg.Firebird.Password = "s3cret"

	conn := defaultConnection(cfg.Firebird)
	require.Equal(t, firebird.RemoteTarget, conn.Kind)
	require.Equal(t, "db.internal", conn.Host)
	require.Equal(t, 3051, conn.Port)
	require.Equal(t, "SYSDBA", conn.User)
	require.Equal(t, "s3cret", conn.Password)
	require.Equal(t, "UTF8", conn.Charset)
	require.Empty(t, conn.Path)
}

// cancelingWriter cancels a context once a line containing after is written.
type cancelingWriter struct {
	bytes.Buffer

	after  string
	cancel context.CancelFunc
}

func (w *cancelingWriter) Write(p []byte) (int, error) {
	n, err := w.Buffer.Write(p)
	if strings.Contains(string(p), w.after) {
		w.cancel()
	}

	return n, err
}

func TestRunScripts_Interrupted(t *testing.T) {
	scripts, err := executor.LoadScripts(fstest.MapFS{
		"001_add_email.sql": {Data: []byte(addEmailSQL)},
		"002_seed.sql":      {Data: []byte(seedCustomersSQL)},
	})
	require.NoError(t, err)

	conn := newFakeConnector(t)
	conn.mock.ExpectExec(regexp.QuoteMeta(addEmailSQL)).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &cancelingWriter{after: "[OK] 001_add_email.sql", cancel: cancel}
	cmd := &cli.Command{Name: "update-db", Writer: out}

	err = runScripts(ctx, cmd, conn.client, executor.ModeDirect, scripts)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorContains(t, err, "script execution interrupted")

	testutil.RequireReport(t, out.String(), []string{"001_add_email.sql"}, nil)
	require.True(t, strings.HasSuffix(out.String(), "\nReport: 1 succeeded, 0 failed.\n"))
}
