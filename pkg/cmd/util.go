package cmd

import (
	"context"

	"github.com/pseudomuto/dbmetatool/pkg/config"
	"github.com/pseudomuto/dbmetatool/pkg/executor"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	// Connector creates and opens Firebird databases. firebird.Driver is the
	// implementation used outside of tests.
	Connector interface {
		Create(context.Context, firebird.Connection, firebird.CreateOptions) error
		Open(context.Context, firebird.Connection) (*firebird.Client, error)
	}

	dbParams struct {
		fx.In

		Config    *config.Config
		Connector Connector
	}
)

// defaultConnection is the configured server and credentials, used as the
// base for build-db targets and for parts a connection string leaves out.
func defaultConnection(cfg config.Firebird) firebird.Connection {
	return firebird.Connection{
		Target: firebird.Target{
			Kind: firebird.RemoteTarget,
			Host: cfg.Host,
			Port: cfg.Port,
		},
		User:     cfg.User,
		Password: cfg.Password,
		Charset:  cfg.Charset,
	}
}

// runScripts executes scripts on client, prints the report and returns the
// failure (if any) after the summary. An interrupted run prints the partial
// report.
func runScripts(ctx context.Context, cmd *cli.Command, client *firebird.Client, mode executor.Mode, scripts []*executor.Script) error {
	exec := executor.New(executor.Config{
		DB:   client,
		Mode: mode,
		Out:  writer(cmd),
	})

	report, err := exec.Execute(ctx, scripts)
	report.Print(writer(cmd))
	if err != nil {
		return err
	}

	return report.Err()
}

// printPlan lists scripts in execution order for --dry-run.
func printPlan(cmd *cli.Command, target firebird.Target, scripts []*executor.Script) {
	printf(cmd, "Would execute %d script(s) against %s:\n", len(scripts), target)
	for _, s := range scripts {
		printf(cmd, "  %s\n", s.Path)
	}
}
