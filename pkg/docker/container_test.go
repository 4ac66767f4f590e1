package docker_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/pseudomuto/dbmetatool/pkg/docker"
	"github.com/pseudomuto/dbmetatool/pkg/executor"
	"github.com/pseudomuto/dbmetatool/pkg/export"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/stretchr/testify/require"
)

// skipIfNoDocker skips the test if Docker is not available
func skipIfNoDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}

	// Check if Docker daemon is running
	cmd := exec.Command("docker", "ps")
	if err := cmd.Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

func startFirebird(t *testing.T) *docker.Container {
	t.Helper()

	skipIfNoDocker(t)

	container := docker.New()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	require.NoError(t, container.Start(ctx))
	t.Cleanup(func() {
		_ = container.Stop(context.Background())
	})

	return container
}

func TestContainer_NotRunning(t *testing.T) {
	container := docker.New()
	require.False(t, container.IsRunning())
	require.NoError(t, container.Stop(context.Background()))

	_, err := container.Connection(context.Background(), "test.fdb")
	require.ErrorContains(t, err, "container is not running")
}

func TestContainer_StartStop(t *testing.T) {
	container := startFirebird(t)
	require.True(t, container.IsRunning())

	ctx := context.Background()
	require.ErrorContains(t, container.Start(ctx), "container is already running")

	conn, err := container.Connection(ctx, "start_stop.fdb")
	require.NoError(t, err)
	require.Equal(t, firebird.RemoteTarget, conn.Kind)
	require.Equal(t, consts.DefaultDevDataDir+"/start_stop.fdb", conn.Path)
	require.Equal(t, consts.DefaultFirebirdUser, conn.User)

	require.NoError(t, container.Stop(ctx))
	require.False(t, container.IsRunning())
}

func TestContainer_BuildUpdateExport(t *testing.T) {
	container := startFirebird(t)
	ctx := context.Background()

	conn, err := container.Connection(ctx, "roundtrip.fdb")
	require.NoError(t, err)
	require.NoError(t, firebird.Driver{}.Create(ctx, conn, firebird.CreateOptions{}))

	err = firebird.Driver{}.Create(ctx, conn, firebird.CreateOptions{})
	require.ErrorContains(t, err, "database already exists")
	require.NoError(t, firebird.Driver{}.Create(ctx, conn, firebird.CreateOptions{Overwrite: true}))

	client, err := firebird.Driver{}.Open(ctx, conn)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	rows, err := client.QueryContext(ctx, "SELECT MON$PAGE_SIZE FROM MON$DATABASE")
	require.NoError(t, err)
	require.True(t, rows.Next())

	var pageSize int
	require.NoError(t, rows.Scan(&pageSize))
	require.NoError(t, rows.Close())
	require.Equal(t, firebird.PageSize, pageSize)

	build, err := executor.LoadScripts(fstest.MapFS{
		"01_domains.sql": {Data: []byte("CREATE DOMAIN D_EMAIL AS VARCHAR(120) NOT NULL")},
		"02_tables.sql": {Data: []byte(`CREATE TABLE CUSTOMERS (
    ID INTEGER NOT NULL,
    EMAIL D_EMAIL,
    BALANCE NUMERIC(18, 2) DEFAULT 0
)`)},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	report, err := executor.New(executor.Config{DB: client, Mode: executor.ModeDirect, Out: &out}).Execute(ctx, build)
	require.NoError(t, err)
	require.NoError(t, report.Err(), out.String())

	update, err := executor.LoadScripts(fstest.MapFS{
		"01_proc.sql": {Data: []byte(`CREATE OR ALTER PROCEDURE CUSTOMER_COUNT
RETURNS (CNT INTEGER)
AS
BEGIN
  SELECT COUNT(*) FROM CUSTOMERS INTO :CNT;
  SUSPEND;
END`)},
		"02_bad.sql":  {Data: []byte("INSERT INTO MISSING_TABLE (ID) VALUES (1)")},
		"03_seed.sql": {Data: []byte("INSERT INTO CUSTOMERS (ID, EMAIL) VALUES (1, 'a@example.com')")},
	})
	require.NoError(t, err)

	out.Reset()
	report, err = executor.New(executor.Config{DB: client, Mode: executor.ModeTransaction, Out: &out}).Execute(ctx, update)
	require.NoError(t, err)
	require.Equal(t, 2, report.Succeeded)
	require.Equal(t, 1, report.Failed)
	require.Contains(t, out.String(), "  [ERROR] 02_bad.sql: ")
	require.Contains(t, out.String(), "  [OK] 03_seed.sql")

	dir := t.TempDir()
	require.NoError(t, export.New(client, nil).Export(ctx, dir))

	domains, err := os.ReadFile(filepath.Join(dir, consts.DomainsFile))
	require.NoError(t, err)
	require.Contains(t, string(domains), "CREATE DOMAIN D_EMAIL AS VARCHAR(120) NOT NULL;")

	tables, err := os.ReadFile(filepath.Join(dir, consts.TablesFile))
	require.NoError(t, err)
	require.Contains(t, string(tables), "CREATE TABLE CUSTOMERS (\n    ID INTEGER NOT NULL,\n    EMAIL D_EMAIL,\n")
	require.Contains(t, string(tables), "    BALANCE NUMERIC(18, 2) DEFAULT 0\n);")

	procs, err := os.ReadFile(filepath.Join(dir, consts.ProceduresFile))
	require.NoError(t, err)
	require.Contains(t, string(procs), "CREATE OR ALTER PROCEDURE CUSTOMER_COUNT\nRETURNS (CNT INTEGER)\nAS\nBEGIN")
}
