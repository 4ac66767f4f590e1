package docker

import (
	"context"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// FirebirdPort is the port the Firebird server listens on inside the container
	FirebirdPort = 3050

	// PasswordEnvVar sets the SYSDBA password of the official Firebird image
	PasswordEnvVar = "FIREBIRD_ROOT_PASSWORD"

	firebirdPort = nat.Port("3050/tcp")
)

type (
	// DockerOptions represents options for running Firebird in Docker
	DockerOptions struct {
		// Image is the Firebird image to run (default: firebirdsql/firebird:5)
		Image string

		// Password is the SYSDBA password (default: masterkey)
		Password string

		// DataDir is where databases are created inside the container
		// (default: /var/lib/firebird/data)
		DataDir string
	}

	// Container manages a throwaway Firebird server, used to exercise
	// build-db, update-db and export-scripts against a real engine.
	Container struct {
		options   DockerOptions
		container testcontainers.Container
	}
)

// New creates a new Docker container with default options
//
// Example:
//
//	container := docker.New()
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New() *Container {
	return NewWithOptions(DockerOptions{})
}

// NewWithOptions creates a new Docker container with custom options. Empty
// options are replaced by the defaults in pkg/consts.
func NewWithOptions(opts DockerOptions) *Container {
	if opts.Image == "" {
		opts.Image = consts.DefaultDevImage
	}

	if opts.Password == "" {
		opts.Password = consts.DefaultFirebirdPassword
	}

	if opts.DataDir == "" {
		opts.DataDir = consts.DefaultDevDataDir
	}

	return &Container{options: opts}
}

// Start starts the Firebird container and waits until the server accepts
// connections.
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        c.options.Image,
			ExposedPorts: []string{string(firebirdPort)},
			Env:          map[string]string{PasswordEnvVar: c.options.Password},
			WaitingFor:   wait.ForListeningPort(firebirdPort).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to start Firebird container")
	}

	c.container = container
	return nil
}

// Stop stops and removes the Firebird Docker container
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	if err != nil {
		return errors.Wrap(err, "failed to stop Firebird container")
	}

	return nil
}

// Connection returns SYSDBA credentials for file inside the container's
// data directory, reachable through the mapped host port.
func (c *Container) Connection(ctx context.Context, file string) (firebird.Connection, error) {
	if c.container == nil {
		return firebird.Connection{}, errors.New("container is not running")
	}

	host, err := c.container.Host(ctx)
	if err != nil {
		return firebird.Connection{}, errors.Wrap(err, "failed to get container host")
	}

	port, err := c.container.MappedPort(ctx, firebirdPort)
	if err != nil {
		return firebird.Connection{}, errors.Wrap(err, "failed to get container port")
	}

	return firebird.Connection{
		Target:   firebird.NewRemoteTarget(host, port.Int(), c.options.DataDir, file),
		User:     consts.DefaultFirebirdUser,
		Password: c.options.Password,
		Charset:  consts.DefaultFirebirdCharset,
	}, nil
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.container != nil
}
