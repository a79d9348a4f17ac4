//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tapas_chat/internal/domain"
	mysqlrepo "tapas_chat/internal/storage/mysql"
)

func startMySQL(t *testing.T) (*sql.DB, string) {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tapas",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/tapas?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, dsn
}

func TestRepo_MySQL_AppendListGet(t *testing.T) {
	db, dsn := startMySQL(t)
	if err := mysqlrepo.Migrate(dsn, "up", 0); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// second run is a no-op
	if err := mysqlrepo.Migrate(dsn, "up", 0); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.Append(ctx, "s1",
		domain.NewText("m1", domain.SenderUser, "flights to goa"),
		domain.NewFlights("m2", []domain.Flight{{ID: "6E-2766", Airline: "IndiGo", Price: 5146}}),
	); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, "s2", domain.NewText("m3", domain.SenderUser, "hi")); err != nil {
		t.Fatalf("append s2: %v", err)
	}

	msgs, err := repo.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].Flights[0].Price != 5146 {
		t.Fatalf("unexpected history: %+v", msgs)
	}

	if _, err := repo.Get(ctx, "s2", "m2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across sessions, got %v", err)
	}

	sessions, err := repo.Sessions(ctx, 10)
	if err != nil || len(sessions) != 2 {
		t.Fatalf("sessions: %+v %v", sessions, err)
	}

	if err := mysqlrepo.Migrate(dsn, "down", 1); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
}
