package cmd

import (
	"github.com/docker/docker/client"
	"github.com/pseudomuto/dbmetatool/pkg/docker"
	"github.com/pseudomuto/dbmetatool/pkg/firebird"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		newConnector,
		newDockerClient,
		fx.Annotate(buildDB, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(dev, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(exportScripts, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(updateDB, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)

func newConnector() Connector {
	return firebird.Driver{}
}

// newDockerClient doesn't contact the daemon; only `dev` commands use it.
func newDockerClient(lc fx.Lifecycle) (docker.DockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(cli.Close))
	return cli, nil
}
