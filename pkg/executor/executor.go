package executor

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

type (
	// DB defines the database operations required by the executor. It is
	// satisfied by *firebird.Client, *sql.Conn and *sql.DB.
	DB interface {
		ExecContext(context.Context, string, ...any) (sql.Result, error)
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}

	// Mode selects how each script is executed.
	Mode int

	// Executor runs scripts one at a time, in order, against a single
	// connection.
	//
	// A failing script never stops the run: its error is recorded in the
	// result, printed, and the next script is executed. Callers decide what a
	// failure means by looking at the returned Report.
	//
	// Example usage:
	//
	//	exec := executor.New(executor.Config{
	//		DB:   client,
	//		Mode: executor.ModeTransaction,
	//		Out:  os.Stdout,
	//	})
	//
	//	report, err := exec.Execute(ctx, scripts)
	//	if err != nil {
	//		log.Fatal(err)
	//	}
	//
	//	report.Print(os.Stdout)
	//	if err := report.Err(); err != nil {
	//		log.Fatal(err)
	//	}
	Executor struct {
		db   DB
		mode Mode
		out  io.Writer
	}

	// Config contains configuration options for creating a new Executor.
	Config struct {
		// DB is the connection scripts are executed on
		DB DB

		// Mode selects direct or per-script transactional execution
		Mode Mode

		// Out receives one line per executed script (default: io.Discard)
		Out io.Writer
	}

	// ExecutionResult contains the result of executing a single script.
	ExecutionResult struct {
		// Script is the script that was executed
		Script *Script

		// Status indicates the outcome of the execution
		Status ExecutionStatus

		// Error contains the error reported by the database, if any
		Error error

		// ExecutionTime records how long the script took to execute
		ExecutionTime time.Duration
	}

	// ExecutionStatus represents the outcome of a script execution.
	ExecutionStatus string
)

const (
	// ModeDirect executes each script outside of an explicit transaction.
	// Used when populating a freshly created database.
	ModeDirect Mode = iota

	// ModeTransaction wraps each script in its own transaction, committing
	// on success and rolling back on failure.
	ModeTransaction
)

const (
	// StatusSuccess indicates the script was executed (and committed)
	StatusSuccess ExecutionStatus = "success"

	// StatusFailed indicates the script failed (and was rolled back)
	StatusFailed ExecutionStatus = "failed"
)

func (m Mode) String() string {
	if m == ModeTransaction {
		return "transaction"
	}

	return "direct"
}

// New creates a new script executor with the provided configuration.
func New(config Config) *Executor {
	out := config.Out
	if out == nil {
		out = io.Discard
	}

	return &Executor{
		db:   config.DB,
		mode: config.Mode,
		out:  out,
	}
}

// Execute runs scripts in order and returns a report of every outcome.
//
// Each outcome is printed as soon as it is known:
//
//	  [OK] 01_create.sql
//	  [ERROR] 02_seed.sql: <database error>
//
// The only error returned is the context's, when it is canceled between
// two scripts; the partial report is returned along with it.
func (e *Executor) Execute(ctx context.Context, scripts []*Script) (*Report, error) {
	report := &Report{Results: make([]*ExecutionResult, 0, len(scripts))}

	for _, script := range scripts {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "script execution interrupted")
		}

		result := e.executeScript(ctx, script)
		report.add(result)

		if result.Status == StatusFailed {
			fmt.Fprintf(e.out, "  [ERROR] %s: %v\n", script.Path, result.Error)
			continue
		}

		fmt.Fprintf(e.out, "  [OK] %s\n", script.Path)
	}

	return report, nil
}

func (e *Executor) executeScript(ctx context.Context, script *Script) *ExecutionResult {
	startTime := time.Now()

	err := e.run(ctx, script)

	result := &ExecutionResult{
		Script:        script,
		Status:        StatusSuccess,
		ExecutionTime: time.Since(startTime),
	}

	if err != nil {
		result.Status = StatusFailed
		result.Error = err
	}

	slog.Debug("Executed script",
		"script", script.Path,
		"mode", e.mode,
		"status", result.Status,
		"duration", result.ExecutionTime,
	)

	return result
}

func (e *Executor) run(ctx context.Context, script *Script) error {
	text, err := script.SQL()
	if err != nil {
		return err
	}

	if e.mode == ModeDirect {
		_, err := e.db.ExecContext(ctx, text)
		return err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if _, err := tx.ExecContext(ctx, text); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("Failed to roll back script", "script", script.Path, "err", rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
