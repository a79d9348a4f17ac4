//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tapas_chat/internal/adapters/assistant"
	server "tapas_chat/internal/adapters/http_server"
	redisad "tapas_chat/internal/adapters/redis"
	"tapas_chat/internal/app"
	"tapas_chat/internal/browse"
	"tapas_chat/internal/classify"
	"tapas_chat/internal/domain"
	"tapas_chat/internal/normalize"
	mysqlrepo "tapas_chat/internal/storage/mysql"
)

// ---------- helpers ----------

func startMySQL(t *testing.T) (*sql.DB, string) {
	t.Helper()
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
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=tapas"},
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
		if db, e = sql.Open("mysql", dsn); e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, dsn
}

func post(t *testing.T, url string, body, out any) int {
	t.Helper()
	b, _ := json.Marshal(body)
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return res.StatusCode
}

// ---------- the test ----------

func TestHTTP_E2E_DemoChatThenBrowseFlights(t *testing.T) {
	db, dsn := startMySQL(t)
	if err := mysqlrepo.Migrate(dsn, "up", 0); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rc := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	store := mysqlrepo.New(db)
	chat := app.NewChatService(store, assistant.NewDemo(), classify.New(normalize.New(83)), "TAPAS")
	q := app.NewQueryService(store, redisad.NewCache(rc), time.Minute)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Chat: chat, Q: q})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	type chatResp struct {
		SessionID string            `json:"sessionId"`
		Messages  []app.MessageView `json:"messages"`
	}

	var start chatResp
	if code := post(t, ts.URL+"/v1/sessions", nil, &start); code != http.StatusCreated {
		t.Fatalf("start: %d", code)
	}

	var reply chatResp
	if code := post(t, ts.URL+"/v1/chat", map[string]string{"sessionId": start.SessionID, "text": "demo flights"}, &reply); code != 200 {
		t.Fatalf("chat: %d", code)
	}
	if len(reply.Messages) != 1 || reply.Messages[0].Kind != domain.KindFlights {
		t.Fatalf("unexpected reply: %+v", reply.Messages)
	}
	fl := reply.Messages[0].Flights[0]
	if fl.Price != 5146 || fl.PriceLabel != "₹ 5,146" || len(fl.Fares) != 3 || fl.Stops != 0 {
		t.Fatalf("unexpected flight: %+v", fl)
	}

	// the archive kept greeting, prompt and reply in order
	hist, err := store.List(context.Background(), start.SessionID)
	if err != nil || len(hist) != 3 || hist[1].Sender != domain.SenderUser || hist[2].Kind != domain.KindFlights {
		t.Fatalf("unexpected archive: %+v %v", hist, err)
	}

	viewURL := fmt.Sprintf("%s/v1/sessions/%s/messages/%s/view", ts.URL, start.SessionID, reply.Messages[0].ID)
	var v browse.View
	if code := post(t, viewURL, map[string]any{"width": 1000, "sort": "price_desc"}, &v); code != 200 {
		t.Fatalf("view: %d", code)
	}
	if v.Total != 2 || v.PriceMode != browse.PriceBuckets || v.Columns != 5 {
		t.Fatalf("unexpected view: %+v", v)
	}
	lt2k := "lt2k"
	if code := post(t, viewURL, map[string]any{"priceRange": lt2k}, &v); code != 200 || v.Total != 0 || v.TotalPages != 1 {
		t.Fatalf("bucket filter: %d %+v", code, v)
	}
	if !mr.Exists(fmt.Sprintf("view:%s:%s", start.SessionID, reply.Messages[0].ID)) {
		t.Fatalf("view state not saved to redis")
	}
}
