// Package executor provides script execution for Firebird databases.
//
// The executor package discovers *.sql scripts under a directory and runs
// them, one at a time and in lexicographic path order, on a single
// connection. Each script's full text is sent as one statement batch.
//
// # Core Components
//
//   - Script: A discovered SQL file (LoadScriptDir, LoadScripts)
//   - Executor: Runs scripts in ModeDirect or ModeTransaction
//   - ExecutionResult: Outcome of a single script
//   - Report: Succeeded/failed counters for a run
//
// # Modes
//
// ModeDirect executes scripts without an explicit transaction and is used
// to populate freshly created databases. ModeTransaction gives every script
// its own transaction: a failing script is rolled back and leaves nothing
// behind, while scripts committed before it stay applied.
//
// In both modes a failing script does not stop the run.
//
// # Usage Example
//
//	scripts, err := executor.LoadScriptDir("./scripts")
//	if err != nil {
//		log.Fatal(err)
//	}
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
package executor
