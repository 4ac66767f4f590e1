package executor_test

import (
	"bytes"
	"context"
	"database/sql"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	. "github.com/pseudomuto/dbmetatool/pkg/executor"
	"github.com/stretchr/testify/require"
)

var testScripts = fstest.MapFS{
	"10_c.sql": {Data: []byte("INSERT INTO T (ID) VALUES (10)")},
	"02_b.sql": {Data: []byte("INSERT INTO T (ID) VALUES (2)")},
	"01_a.sql": {Data: []byte("CREATE TABLE T (ID INTEGER NOT NULL)")},
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		mock.ExpectClose()
		require.NoError(t, db.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	return db, mock
}

func loadTestScripts(t *testing.T) []*Script {
	t.Helper()

	scripts, err := LoadScripts(testScripts)
	require.NoError(t, err)
	require.Len(t, scripts, 3)

	return scripts
}

func quote(fsys fstest.MapFS, name string) string {
	return regexp.QuoteMeta(string(fsys[name].Data))
}

func TestExecutor_Transaction(t *testing.T) {
	db, mock := newMockDB(t)

	for _, name := range []string{"01_a.sql", "02_b.sql", "10_c.sql"} {
		mock.ExpectBegin()
		mock.ExpectExec(quote(testScripts, name)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	var out bytes.Buffer
	exec := New(Config{DB: db, Mode: ModeTransaction, Out: &out})

	report, err := exec.Execute(context.Background(), loadTestScripts(t))
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Equal(t, 3, report.Total())
	require.Equal(t, 3, report.Succeeded)
	require.Equal(t, 0, report.Failed)

	require.Equal(t, "  [OK] 01_a.sql\n  [OK] 02_b.sql\n  [OK] 10_c.sql\n", out.String())

	for _, res := range report.Results {
		require.Equal(t, StatusSuccess, res.Status)
		require.NoError(t, res.Error)
	}
}

func TestExecutor_Transaction_Failures(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(quote(testScripts, "01_a.sql")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(quote(testScripts, "02_b.sql")).WillReturnError(errors.New("table unknown T"))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec(quote(testScripts, "10_c.sql")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("deadlock"))

	var out bytes.Buffer
	exec := New(Config{DB: db, Mode: ModeTransaction, Out: &out})

	report, err := exec.Execute(context.Background(), loadTestScripts(t))
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)
	require.Equal(t, 2, report.Failed)

	require.Equal(t,
		"  [OK] 01_a.sql\n"+
			"  [ERROR] 02_b.sql: table unknown T\n"+
			"  [ERROR] 10_c.sql: failed to commit transaction: deadlock\n",
		out.String(),
	)

	var failed *FailedError
	require.ErrorAs(t, report.Err(), &failed)
	require.Equal(t, 2, failed.Failed)
	require.Equal(t, 3, failed.Total)
	require.EqualError(t, report.Err(), "errors occurred while executing 2 of 3 scripts")

	var summary bytes.Buffer
	report.Print(&summary)
	require.Equal(t, "\nReport: 1 succeeded, 2 failed.\n", summary.String())
}

func TestExecutor_Transaction_BeginError(t *testing.T) {
	db, mock := newMockDB(t)

	fsys := fstest.MapFS{"01_a.sql": testScripts["01_a.sql"]}
	scripts, err := LoadScripts(fsys)
	require.NoError(t, err)

	mock.ExpectBegin().WillReturnError(errors.New("too many transactions"))

	report, err := New(Config{DB: db, Mode: ModeTransaction}).Execute(context.Background(), scripts)
	require.NoError(t, err)
	require.Equal(t, 1, report.Failed)
	require.ErrorContains(t, report.Results[0].Error, "failed to begin transaction: too many transactions")
}

func TestExecutor_Direct(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(quote(testScripts, "01_a.sql")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(quote(testScripts, "02_b.sql")).WillReturnError(errors.New("violation of PRIMARY KEY"))
	mock.ExpectExec(quote(testScripts, "10_c.sql")).WillReturnResult(sqlmock.NewResult(0, 1))

	var out bytes.Buffer
	exec := New(Config{DB: db, Mode: ModeDirect, Out: &out})

	report, err := exec.Execute(context.Background(), loadTestScripts(t))
	require.NoError(t, err)
	require.Equal(t, 2, report.Succeeded)
	require.Equal(t, 1, report.Failed)
	require.Equal(t,
		"  [OK] 01_a.sql\n"+
			"  [ERROR] 02_b.sql: violation of PRIMARY KEY\n"+
			"  [OK] 10_c.sql\n",
		out.String(),
	)
}

func TestExecutor_NoScripts(t *testing.T) {
	db, _ := newMockDB(t)

	report, err := New(Config{DB: db}).Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 0, report.Total())
	require.NoError(t, report.Err())
}

func TestExecutor_Canceled(t *testing.T) {
	db, _ := newMockDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(Config{DB: db}).Execute(ctx, loadTestScripts(t))
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorContains(t, err, "script execution interrupted")
	require.Equal(t, 0, report.Total())
}

func TestMode_String(t *testing.T) {
	require.Equal(t, "direct", ModeDirect.String())
	require.Equal(t, "transaction", ModeTransaction.String())
}
