//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"wanderlust_travel/internal/domain"
	mysqlrepo "wanderlust_travel/internal/storage/mysql"
)

// migrationsDir defaults to the repo's migrations/ folder.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=wanderlust",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/wanderlust?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
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
	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_SaveLoadDelete(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db, 0)
	ctx := context.Background()

	var got []domain.LineItem
	ok, err := repo.Load(ctx, "s1", "wanderlust_cart", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := []domain.LineItem{{
		ID:          "a",
		Destination: "Paris, France",
		Price:       1299,
		CheckIn:     time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC),
		Guests:      2,
	}}
	if err := repo.Save(ctx, "s1", "wanderlust_cart", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// second save goes through the ON DUPLICATE KEY path
	in[0].Guests = 3
	if err := repo.Save(ctx, "s1", "wanderlust_cart", in); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	ok, err = repo.Load(ctx, "s1", "wanderlust_cart", &got)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Guests != 3 || !got[0].CheckIn.Equal(in[0].CheckIn) {
		t.Fatalf("unexpected cart: %+v", got)
	}

	if err := repo.Delete(ctx, "s1", "wanderlust_cart"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := repo.Load(ctx, "s1", "wanderlust_cart", &got); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestRepo_MySQL_TTL(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db, time.Second)
	ctx := context.Background()

	if err := repo.Save(ctx, "s2", "visited_places", []string{"x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	time.Sleep(2100 * time.Millisecond)

	var v []string
	if ok, err := repo.Load(ctx, "s2", "visited_places", &v); ok || err != nil {
		t.Fatalf("expected expired row to read as missing, ok=%v err=%v", ok, err)
	}
	n, err := repo.PurgeExpired(ctx)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpired: n=%d err=%v", n, err)
	}
}
