// Package testinfra starts throwaway MongoDB and Redis containers for the
// integration tests (go test -tags integration ./...).
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"travel-service/internal/shared/mongox"
)

func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func start(t *testing.T, image, port string) string {
	t.Helper()
	SkipIfNoDocker(t)
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port},
			WaitingFor:   wait.ForListeningPort(port).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", image, err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

// StartMongo returns a connection URI for a fresh MongoDB.
func StartMongo(t *testing.T) string {
	return "mongodb://" + start(t, "mongo:7", "27017/tcp")
}

// StartRedis returns host:port of a fresh Redis.
func StartRedis(t *testing.T) string {
	return start(t, "redis:7-alpine", "6379/tcp")
}

// MongoDB connects to a fresh MongoDB and returns a database for the test.
func MongoDB(t *testing.T) *mongo.Database {
	t.Helper()
	cl, db, err := mongox.Connect(context.Background(), StartMongo(t), "travel_test")
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = cl.Disconnect(context.Background()) })
	return db
}
