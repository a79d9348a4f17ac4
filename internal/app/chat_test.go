package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"tapas_chat/internal/app"
	"tapas_chat/internal/classify"
	"tapas_chat/internal/domain"
	"tapas_chat/internal/normalize"
	"tapas_chat/internal/storage/memory"
)

// ---- fakes ----

type fakeClient struct {
	payload any
	err     error
	seen    []string
	during  func()
}

func (f *fakeClient) Ask(ctx context.Context, sessionID, prompt string) (any, error) {
	f.seen = append(f.seen, prompt)
	if f.during != nil {
		f.during()
	}
	return f.payload, f.err
}

// fakeCache round-trips through JSON like the real caches do.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	c.store[key] = b
	c.sets++
	return err
}
func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

func seqIDs(prefix string) func() string {
	n := 0
	return func() string { n++; return fmt.Sprintf("%s%d", prefix, n) }
}

func newChat(client domain.AssistantClient) (*app.ChatService, *memory.Store) {
	store := memory.New()
	cls := classify.New(normalize.New(83, normalize.WithIDFunc(seqIDs("r")))).WithIDFunc(seqIDs("b"))
	return app.NewChatService(store, client, cls, "TAPAS").WithIDFunc(seqIDs("u")), store
}

func hotelsPayload(n int) map[string]any {
	var hs []any
	for i := 0; i < n; i++ {
		hs = append(hs, map[string]any{
			"hotel_id": fmt.Sprintf("H-%d", i),
			"name":     fmt.Sprintf("Hotel %d", i),
			"price":    fmt.Sprintf("$%d", 10+i),
			"rating":   4.0,
		})
	}
	return map[string]any{"dbData": hs}
}

func TestStart_SeedsGreetingOnce(t *testing.T) {
	chat, _ := newChat(&fakeClient{})
	ctx := context.Background()

	sid, msgs, err := chat.Start(ctx, "")
	if err != nil || sid == "" {
		t.Fatalf("start: %q %v", sid, err)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "TAPAS") || len(msgs[0].QuickReplies) != 3 {
		t.Fatalf("unexpected greeting: %+v", msgs)
	}

	_, again, _ := chat.Start(ctx, sid)
	if len(again) != 1 {
		t.Fatalf("greeting seeded twice: %+v", again)
	}
}

func TestSend_ClassifiesAndRecords(t *testing.T) {
	client := &fakeClient{payload: hotelsPayload(2)}
	chat, store := newChat(client)
	ctx := context.Background()

	out, err := chat.Send(ctx, "s1", "  hotels in goa ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(client.seen) != 1 || client.seen[0] != "hotels in goa" {
		t.Fatalf("prompt not trimmed: %v", client.seen)
	}
	if len(out) != 1 || out[0].Kind != domain.KindHotels || out[0].Hotels[0].Price != 830 {
		t.Fatalf("unexpected reply: %+v", out)
	}

	hist, _ := store.List(ctx, "s1")
	if len(hist) != 2 || hist[0].Sender != domain.SenderUser || hist[1].Kind != domain.KindHotels {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestSend_EmptyPrompt(t *testing.T) {
	client := &fakeClient{}
	chat, store := newChat(client)
	if _, err := chat.Send(context.Background(), "s1", "   "); !errors.Is(err, domain.ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if len(client.seen) != 0 {
		t.Fatalf("assistant should not be called")
	}
	if hist, _ := store.List(context.Background(), "s1"); len(hist) != 0 {
		t.Fatalf("nothing should be recorded: %+v", hist)
	}
}

func TestSend_TransportFailureBecomesFallback(t *testing.T) {
	chat, _ := newChat(&fakeClient{err: errors.New("dial tcp: connection refused")})

	out, err := chat.Send(context.Background(), "s1", "flights")
	if err != nil {
		t.Fatalf("failure should not surface: %v", err)
	}
	if len(out) != 1 || out[0].Text != app.FallbackText {
		t.Fatalf("unexpected fallback: %+v", out)
	}
	if got := strings.Join(out[0].QuickReplies, "|"); got != "Book Flight|Find Hotels|Cancel Ticket" {
		t.Fatalf("unexpected replies: %s", got)
	}
	if chat.Awaiting("s1") {
		t.Fatalf("awaiting flag must clear after failure")
	}
}

func TestSend_AwaitingWhileInFlight(t *testing.T) {
	client := &fakeClient{payload: map[string]any{"text": "ok"}}
	chat, _ := newChat(client)
	var during bool
	client.during = func() { during = chat.Awaiting("s1") }

	if _, err := chat.Send(context.Background(), "s1", "hi"); err != nil {
		t.Fatal(err)
	}
	if !during {
		t.Fatalf("expected awaiting during the call")
	}
	if chat.Awaiting("s1") {
		t.Fatalf("expected flag cleared")
	}
}

