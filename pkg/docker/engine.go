package docker

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
)

type (
	// DockerClient defines the interface for Docker operations used by the Engine.
	// This interface is satisfied by *client.Client and allows for easy mocking in tests.
	DockerClient interface {
		ImagePull(context.Context, string, image.PullOptions) (io.ReadCloser, error)
		ContainerCreate(context.Context, *container.Config, *container.HostConfig, *network.NetworkingConfig, *v1.Platform, string) (container.CreateResponse, error)
		ContainerStart(context.Context, string, container.StartOptions) error
		ContainerStop(context.Context, string, container.StopOptions) error
		ContainerRemove(context.Context, string, container.RemoveOptions) error
		ContainerInspect(context.Context, string) (container.InspectResponse, error)
	}

	// Engine manages long lived containers, such as the `dev up` server.
	Engine struct {
		client DockerClient
		out    io.Writer
	}

	// ContainerState is the inspected state of a named container.
	ContainerState struct {
		ID      string
		Name    string
		Image   string
		Status  string
		Running bool
	}

	ContainerOptions struct {
		Name    string
		Image   string
		Env     map[string]string
		Ports   map[int]int
		Volumes []ContainerVolume
	}

	ContainerVolume struct {
		HostPath      string
		ContainerPath string
		ReadOnly      bool
	}
)

// NewEngine creates a new Docker Engine instance for managing Docker operations.
// The Docker client should be initialized and connected before passing to this constructor.
// Image pull progress is copied to out, which may be nil.
//
// Example:
//
//	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cli.Close()
//
//	engine := docker.NewEngine(cli, os.Stderr)
//	if err := engine.Pull(ctx, "firebirdsql/firebird:5"); err != nil {
//		log.Fatal(err)
//	}
func NewEngine(cl DockerClient, out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}

	return &Engine{
		client: cl,
		out:    out,
	}
}

func (e *Engine) Pull(ctx context.Context, img string) error {
	out, err := e.client.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return errors.Wrapf(err, "failed to pull image: %s", img)
	}

	defer func() { _ = out.Close() }()

	// the pull only completes once the stream has been drained
	if _, err := io.Copy(e.out, out); err != nil {
		return errors.Wrapf(err, "failed to pull image: %s", img)
	}

	return nil
}

// Start creates and starts a container, returning its ID. Ports maps host
// ports to container ports; a host port <= 0 lets Docker pick one.
func (e *Engine) Start(ctx context.Context, opts ContainerOptions) (string, error) {
	env := make([]string, 0, len(opts.Env))
	for key, value := range opts.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	exposedPorts := make(nat.PortSet)
	portBindings := make(nat.PortMap)
	for hostPort, containerPort := range opts.Ports {
		port := nat.Port(fmt.Sprintf("%d/tcp", containerPort))
		exposedPorts[port] = struct{}{}

		hostPortStr := ""
		if hostPort > 0 {
			hostPortStr = strconv.Itoa(hostPort)
		}

		portBindings[port] = []nat.PortBinding{
			{
				HostPort: hostPortStr,
			},
		}
	}

	binds := make([]string, len(opts.Volumes))
	for i, volume := range opts.Volumes {
		bind := fmt.Sprintf("%s:%s", volume.HostPath, volume.ContainerPath)
		if volume.ReadOnly {
			bind += ":ro"
		}
		binds[i] = bind
	}

	resp, err := e.client.ContainerCreate(
		ctx,
		&container.Config{
			Image:        opts.Image,
			Env:          env,
			ExposedPorts: exposedPorts,
		},
		&container.HostConfig{
			PortBindings: portBindings,
			Binds:        binds,
		},
		nil,
		nil,
		opts.Name,
	)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create container: %s", opts.Name)
	}

	if err := e.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", errors.Wrapf(err, "failed to start container: %s", opts.Name)
	}

	return resp.ID, nil
}

// Stop stops and removes the container.
func (e *Engine) Stop(ctx context.Context, nameOrID string) error {
	timeout := 30
	if err := e.client.ContainerStop(ctx, nameOrID, container.StopOptions{
		Timeout: &timeout,
	}); err != nil {
		return errors.Wrapf(err, "failed to stop container: %s", nameOrID)
	}

	return e.Remove(ctx, nameOrID)
}

// Remove force removes the container, running or not.
func (e *Engine) Remove(ctx context.Context, nameOrID string) error {
	if err := e.client.ContainerRemove(ctx, nameOrID, container.RemoveOptions{
		Force: true,
	}); err != nil {
		return errors.Wrapf(err, "failed to remove container: %s", nameOrID)
	}

	return nil
}

// Get inspects the container. Any inspection failure, including an unknown
// container, is returned as an error.
func (e *Engine) Get(ctx context.Context, nameOrID string) (*ContainerState, error) {
	inspect, err := e.client.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to inspect container: %s", nameOrID)
	}

	state := &ContainerState{Name: nameOrID}
	if inspect.Config != nil {
		state.Image = inspect.Config.Image
	}

	if base := inspect.ContainerJSONBase; base != nil {
		state.ID = base.ID
		if base.Name != "" {
			state.Name = strings.TrimPrefix(base.Name, "/")
		}

		if base.State != nil {
			state.Status = base.State.Status
			state.Running = base.State.Running
		}
	}

	return state, nil
}
