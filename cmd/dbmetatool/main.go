package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/pseudomuto/dbmetatool/pkg/cmd"
	"github.com/pseudomuto/dbmetatool/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	app := fx.New(
		fx.NopLogger,
		// The command runs inside the start hook, so this bounds a whole run.
		fx.StartTimeout(24*time.Hour),
		fx.Supply(
			os.Args,
			&cmd.Version{
				Version:   version,
				Commit:    commit,
				Timestamp: date,
			},
		),
		fx.Provide(context.Background),
		config.Module,
		cmd.Module,
	)

	// fx.NopLogger hides construction failures, such as an unreadable config file
	if err := app.Err(); err != nil {
		slog.Error("Failed to initialize", "err", err)
		os.Exit(2)
	}

	app.Run()
}
