//go:build integration

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "wanderlust_travel/internal/adapters/http_server"
	"wanderlust_travel/internal/app"
	"wanderlust_travel/internal/domain"
	mysqlrepo "wanderlust_travel/internal/storage/mysql"
)

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
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
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func newAPI(t *testing.T, db *sql.DB) *httptest.Server {
	t.Helper()
	sessions := app.NewSessions(app.Deps{
		Store: mysqlrepo.New(db, 0),
		Now:   func() time.Time { return time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC) },
	})
	srv := server.New(10 * time.Second)
	srv.MountHandlers(&server.Handlers{Sessions: sessions})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return res
}

// Books through the chat, restarts the API on the same database and checks the
// cart came back.
func TestHTTP_EndToEnd_BookingSurvivesRestart(t *testing.T) {
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

	ts := newAPI(t, db)
	res := post(t, ts.URL+"/v1/sessions", nil)
	var sess struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	res.Body.Close()

	for _, msg := range []string{"Book Paris", "2025-11-15", "2025-11-18", "2", "confirm"} {
		res := post(t, ts.URL+"/v1/sessions/"+sess.ID+"/messages", map[string]string{"text": msg})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("message %q: status %d", msg, res.StatusCode)
		}
		res.Body.Close()
	}

	// a second process on the same database
	ts2 := newAPI(t, db)
	res, err = http.Get(ts2.URL + "/v1/sessions/" + sess.ID + "/cart")
	if err != nil {
		t.Fatalf("GET cart: %v", err)
	}
	defer res.Body.Close()
	var cart domain.CartView
	if err := json.NewDecoder(res.Body).Decode(&cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Destination != "Paris, France" || cart.Items[0].Guests != 2 {
		t.Fatalf("unexpected cart: %+v", cart.Items)
	}
	if got := cart.Aggregate.Subtotal; got != 7794 {
		t.Fatalf("subtotal = %v, want 7794", got)
	}
}
