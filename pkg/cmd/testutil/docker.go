package testutil

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmetatool/pkg/docker"
	"github.com/stretchr/testify/require"
)

// Common test errors
var (
	ErrContainerNotFound = errors.New("container not found")
	ErrDockerOperation   = errors.New("docker operation failed")
)

// SkipIfNoDocker skips the test if Docker is not available
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Check if Docker binary exists
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}

	// Check if Docker daemon is running
	cmd := exec.CommandContext(t.Context(), "docker", "ps")
	if err := cmd.Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

// StartFirebirdContainer starts a throwaway Firebird server and stops it when
// the test finishes.
func StartFirebirdContainer(t *testing.T) *docker.Container {
	t.Helper()

	SkipIfNoDocker(t)

	container := docker.New()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	require.NoError(t, container.Start(ctx), "Failed to start Firebird container")

	t.Cleanup(func() {
		_ = container.Stop(context.Background())
	})

	return container
}

// MockDockerClient creates a mock Docker client for testing that implements docker.DockerClient
type MockDockerClient struct {
	ImagePullFunc        func(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreateFunc  func(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *v1.Platform, containerName string) (container.CreateResponse, error)
	ContainerStartFunc   func(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStopFunc    func(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemoveFunc  func(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerInspectFunc func(ctx context.Context, containerID string) (container.InspectResponse, error)
}

// NewMockDockerClient creates a new mock Docker client with default implementations.
// By default no container exists.
func NewMockDockerClient() *MockDockerClient {
	return &MockDockerClient{}
}

// RunningContainer returns an inspect response for a running container.
func RunningContainer(id, name, img string) container.InspectResponse {
	return inspectResponse(id, name, img, "running", true)
}

// StoppedContainer returns an inspect response for an exited container.
func StoppedContainer(id, name, img string) container.InspectResponse {
	return inspectResponse(id, name, img, "exited", false)
}

func inspectResponse(id, name, img, status string, running bool) container.InspectResponse {
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:   id,
			Name: "/" + name,
			State: &container.State{
				Status:  status,
				Running: running,
			},
		},
		Config: &container.Config{Image: img},
	}
}

// ImagePull implements docker.DockerClient interface
func (m *MockDockerClient) ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error) {
	if m.ImagePullFunc != nil {
		return m.ImagePullFunc(ctx, refStr, options)
	}
	return io.NopCloser(strings.NewReader("pulling image")), nil
}

// ContainerCreate implements docker.DockerClient interface
func (m *MockDockerClient) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *v1.Platform, containerName string) (container.CreateResponse, error) {
	if m.ContainerCreateFunc != nil {
		return m.ContainerCreateFunc(ctx, config, hostConfig, networkingConfig, platform, containerName)
	}
	return container.CreateResponse{ID: "mock-container-id"}, nil
}

// ContainerStart implements docker.DockerClient interface
func (m *MockDockerClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	if m.ContainerStartFunc != nil {
		return m.ContainerStartFunc(ctx, containerID, options)
	}
	return nil
}

// ContainerStop implements docker.DockerClient interface
func (m *MockDockerClient) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	if m.ContainerStopFunc != nil {
		return m.ContainerStopFunc(ctx, containerID, options)
	}
	return nil
}

// ContainerRemove implements docker.DockerClient interface
func (m *MockDockerClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	if m.ContainerRemoveFunc != nil {
		return m.ContainerRemoveFunc(ctx, containerID, options)
	}
	return nil
}

// ContainerInspect implements docker.DockerClient interface
func (m *MockDockerClient) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	if m.ContainerInspectFunc != nil {
		return m.ContainerInspectFunc(ctx, containerID)
	}
	return container.InspectResponse{}, ErrContainerNotFound
}
