package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/config"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/pseudomuto/dbmetatool/pkg/docker"
	"github.com/urfave/cli/v3"
)

func dev(cfg *config.Config, client docker.DockerClient) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Manage local Firebird development server",
		Commands: []*cli.Command{
			devUp(cfg, client),
			devDown(cfg, client),
		},
	}
}

func devUp(cfg *config.Config, client docker.DockerClient) *cli.Command {
	return &cli.Command{
		Name:         "up",
		Usage:        "Start Firebird development server",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDevUp(ctx, cmd, cfg, docker.NewEngine(client, nil))
		},
	}
}

func devDown(cfg *config.Config, client docker.DockerClient) *cli.Command {
	return &cli.Command{
		Name:         "down",
		Usage:        "Stop and remove Firebird development server",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDevDown(ctx, cmd, cfg, docker.NewEngine(client, nil))
		},
	}
}

func runDevUp(ctx context.Context, cmd *cli.Command, cfg *config.Config, engine *docker.Engine) error {
	name := cfg.Dev.ContainerName

	if state, err := engine.Get(ctx, name); err == nil {
		if state.Running {
			printf(cmd, "Firebird development server is already running\n")
			printf(cmd, "Use 'dbmetatool dev down' to stop it first\n")
			return nil
		}

		// a stopped container still holds the name
		if err := engine.Remove(ctx, name); err != nil {
			return err
		}
	}

	opts, err := devContainerOptions(cfg)
	if err != nil {
		return err
	}

	printf(cmd, "Pulling %s...\n", opts.Image)
	if err := engine.Pull(ctx, opts.Image); err != nil {
		return err
	}

	printf(cmd, "Starting Firebird development server...\n")
	if _, err := engine.Start(ctx, opts); err != nil {
		return err
	}

	printConnectionDetails(cmd, cfg)
	return nil
}

func runDevDown(ctx context.Context, cmd *cli.Command, cfg *config.Config, engine *docker.Engine) error {
	name := cfg.Dev.ContainerName

	if _, err := engine.Get(ctx, name); err != nil {
		printf(cmd, "No Firebird development server is currently running\n")
		return nil
	}

	if err := engine.Stop(ctx, name); err != nil {
		return err
	}

	printf(cmd, "Firebird development server stopped\n")
	return nil
}

func devContainerOptions(cfg *config.Config) (docker.ContainerOptions, error) {
	opts := docker.ContainerOptions{
		Name:  cfg.Dev.ContainerName,
		Image: cfg.Dev.Image,
		Env:   map[string]string{docker.PasswordEnvVar: cfg.Firebird.Password},
		Ports: map[int]int{cfg.Dev.HostPort: docker.FirebirdPort},
	}

	if cfg.Dev.Volume == "" {
		return opts, nil
	}

	hostPath, err := filepath.Abs(cfg.Dev.Volume)
	if err != nil {
		return opts, errors.Wrapf(err, "failed to resolve volume: %s", cfg.Dev.Volume)
	}

	if err := os.MkdirAll(hostPath, consts.ModeDir); err != nil {
		return opts, errors.Wrapf(err, "failed to create volume directory: %s", hostPath)
	}

	opts.Volumes = []docker.ContainerVolume{
		{HostPath: hostPath, ContainerPath: cfg.Dev.DataDir},
	}

	return opts, nil
}

func printConnectionDetails(cmd *cli.Command, cfg *config.Config) {
	dsn := fmt.Sprintf("%s:%s@localhost:%d%s/%s",
		cfg.Firebird.User,
		cfg.Firebird.Password,
		cfg.Dev.HostPort,
		cfg.Dev.DataDir,
		cfg.Firebird.DatabaseFile,
	)

	printf(cmd, "\n%s\n", strings.Repeat("=", 60))
	printf(cmd, "Firebird Development Server Started\n")
	printf(cmd, "%s\n", strings.Repeat("=", 60))
	printf(cmd, "Server:      localhost:%d\n", cfg.Dev.HostPort)
	printf(cmd, "Data dir:    %s\n", cfg.Dev.DataDir)
	if cfg.Dev.Volume != "" {
		printf(cmd, "Volume:      %s\n", cfg.Dev.Volume)
	}
	printf(cmd, "Example DSN: %s\n", dsn)
	printf(cmd, "\nCreate a database with:\n")
	printf(cmd, "  dbmetatool build-db --remote --db-dir %s --scripts-dir ./scripts\n", cfg.Dev.DataDir)
	printf(cmd, "\nUse 'dbmetatool dev down' to stop the server\n")
	printf(cmd, "%s\n", strings.Repeat("=", 60))
}
