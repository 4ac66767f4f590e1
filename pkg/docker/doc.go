// Package docker runs Firebird servers in Docker.
//
// Two flavours are provided:
//
//   - Container is a throwaway server managed by testcontainers-go. It is
//     started, used and terminated within a single process, typically by an
//     integration test.
//   - Engine drives the Docker API directly to manage a long lived, named
//     container. It backs `dbmetatool dev up` and `dbmetatool dev down`.
//
// # Usage Example
//
//	container := docker.NewWithOptions(docker.DockerOptions{
//		Image:    "firebirdsql/firebird:5",
//		Password: "masterkey",
//	})
//
//	ctx := context.Background()
//	defer container.Stop(ctx)
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	conn, _ := container.Connection(ctx, "scratch.fdb")
//	if err := (firebird.Driver{}).Create(ctx, conn, firebird.CreateOptions{}); err != nil {
//		log.Fatal(err)
//	}
//
// Databases created in a Container live inside it and disappear with it.
package docker
