package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/afterglow3292/portops/internal/store"
	"github.com/afterglow3292/portops/internal/store/storetest"
)

// makePGStore connects to PORTOPS_POSTGRES_TEST_DSN when set, otherwise spins
// up a throwaway postgres container.
func makePGStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("PORTOPS_POSTGRES_TEST_DSN")
	if dsn == "" {
		if testing.Short() {
			t.Skip("short mode and PORTOPS_POSTGRES_TEST_DSN not set; skipping postgres store integration test")
		}
		dsn = startPostgres(ctx, t)
	}

	s, err := Bootstrap(ctx, dsn)
	if err != nil {
		t.Fatalf("postgres bootstrap: %v", err)
	}
	return s
}

func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "portops",
			"POSTGRES_PASSWORD": "portops",
			"POSTGRES_DB":       "portops_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("postgres://portops:portops@%s:%s/portops_test?sslmode=disable", host, port.Port())
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
