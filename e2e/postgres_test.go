package e2e_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce      sync.Once
	pgErr       error
	testCleanup func()
	testDSN     string
)

// getSharedPostgresDatabase starts one PostgreSQL container for the whole
// run and returns its DSN. The container is terminated in TestMain.
func getSharedPostgresDatabase(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("postbox"),
			pgcontainer.WithUsername("postbox"),
			pgcontainer.WithPassword("postbox"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = err
			return
		}

		testCleanup = func() {
			_ = testcontainers.TerminateContainer(pgContainer)
		}

		dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			pgErr = err
			return
		}

		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			pgErr = err
			return
		}
		defer func() { _ = conn.Close(ctx) }()

		if err := conn.Ping(ctx); err != nil {
			pgErr = err
			return
		}

		testDSN = dsn
	})

	if pgErr != nil {
		t.Fatalf("postgres container unavailable: %v", pgErr)
	}
	return testDSN
}
