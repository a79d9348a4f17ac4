package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tapas_chat/internal/adapters/assistant"
)

func TestClient_Ask_RetriesThenSuccess(t *testing.T) {
	var hits int32
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: %s", r.Method)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(503)
		default:
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"text": "hello"})
		}
	}))
	defer ts.Close()

	cl, err := assistant.New(ts.URL, 100, time.Second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	out, err := cl.Ask(ctx, "user_1", "find hotels")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := out.(map[string]any)
	if !ok || m["text"] != "hello" {
		t.Fatalf("unexpected payload: %#v", out)
	}
	if got["sessionId"] != "user_1" || got["userPrompt"] != "find hotels" {
		t.Fatalf("unexpected request body: %v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_Ask_Non2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("nope"))
	}))
	defer ts.Close()

	cl, _ := assistant.New(ts.URL, 100, time.Second)
	if _, err := cl.Ask(context.Background(), "s", "hi"); err == nil {
		t.Fatalf("expected error for 400")
	}
}

func TestNew_RequiresEndpoint(t *testing.T) {
	if _, err := assistant.New(" ", 1, 0); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}

func TestDemo_Keywords(t *testing.T) {
	d := assistant.NewDemo()
	ctx := context.Background()

	out, _ := d.Ask(ctx, "s", "demo flights")
	if list, ok := out.(map[string]any)["dbData"].([]any); !ok || len(list) != 2 {
		t.Fatalf("flights payload: %#v", out)
	}
	out, _ = d.Ask(ctx, "s", "plan my weekend")
	if _, ok := out.(map[string]any)["itineraryData"]; !ok {
		t.Fatalf("itinerary payload: %#v", out)
	}
	out, _ = d.Ask(ctx, "s", `[{"hotel_id":"x"}]`)
	if list, ok := out.(map[string]any)["dbData"].([]any); !ok || len(list) != 1 {
		t.Fatalf("pasted JSON should echo: %#v", out)
	}
	out, _ = d.Ask(ctx, "s", "hello")
	if out.(map[string]any)["text"] != assistant.DemoGuidance {
		t.Fatalf("guidance: %#v", out)
	}
}
