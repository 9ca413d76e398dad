package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/redischat/internal/config"
	"github.com/vovakirdan/redischat/internal/core"
	"github.com/vovakirdan/redischat/internal/metrics"
	"github.com/vovakirdan/redischat/internal/proto"
	"github.com/vovakirdan/redischat/internal/store"
	"github.com/vovakirdan/redischat/internal/store/embedded"
	"github.com/vovakirdan/redischat/internal/store/redisstore"
)

type testBridge struct {
	st     store.Store
	svc    *core.Service
	server *http.Server
}

func newTestBridge(t *testing.T) *testBridge {
	t.Helper()

	srv, err := embedded.Start()
	if err != nil {
		t.Fatalf("failed to start embedded redis: %v", err)
	}
	t.Cleanup(srv.Close)

	st, err := redisstore.New(context.Background(), redisstore.Options{
		Addr:     srv.Addr(),
		Protocol: embedded.Protocol,
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	disabledLogger := zerolog.Nop()
	m := metrics.New()
	svc := core.NewService(st, core.Options{Metrics: m, Logger: &disabledLogger})
	if err := svc.Seed(context.Background(), core.DefaultSeed()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.SaveProfile(context.Background(), store.Profile{
		Username: "alice", Age: "30", Gender: "F", Location: "NYC",
	}); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	cfg := config.Default()
	return &testBridge{
		st:     st,
		svc:    svc,
		server: NewServer(svc, m, &cfg, &disabledLogger),
	}
}

func (b *testBridge) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	b.server.Handler.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", resp.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	b := newTestBridge(t)

	resp := b.do(t, http.MethodGet, "/health", "")
	if resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", resp.Code, resp.Body.String())
	}
}

func TestWeatherLookup(t *testing.T) {
	b := newTestBridge(t)

	resp := b.do(t, http.MethodGet, "/api/weather/New%20York", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var weather proto.WeatherResponse
	decode(t, resp, &weather)
	if weather.Report != "New York: 72°F, Partly Cloudy" {
		t.Errorf("unexpected report %q", weather.Report)
	}

	resp = b.do(t, http.MethodGet, "/api/weather/atlantis", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	var apiErr proto.Error
	decode(t, resp, &apiErr)
	if apiErr.Code != core.ErrCodeNotFound {
		t.Errorf("expected code %q, got %q", core.ErrCodeNotFound, apiErr.Code)
	}
}

func TestFact(t *testing.T) {
	b := newTestBridge(t)

	resp := b.do(t, http.MethodGet, "/api/fact", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var fact proto.FactResponse
	decode(t, resp, &fact)

	found := false
	for _, f := range core.DefaultSeed().Facts {
		if f == fact.Fact {
			found = true
		}
	}
	if !found {
		t.Errorf("fact %q is not in the seed list", fact.Fact)
	}
}

func TestProfile(t *testing.T) {
	b := newTestBridge(t)

	resp := b.do(t, http.MethodGet, "/api/users/alice", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var p proto.ProfileResponse
	decode(t, resp, &p)
	if p.Username != "alice" || p.Location != "NYC" {
		t.Errorf("unexpected profile %+v", p)
	}

	resp = b.do(t, http.MethodGet, "/api/users/bob", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestSaveProfile(t *testing.T) {
	b := newTestBridge(t)

	resp := b.do(t, http.MethodPut, "/api/users/bob", `{"age":"41","gender":"M","location":"Rome"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = b.do(t, http.MethodGet, "/api/users/bob", "")
	var p proto.ProfileResponse
	decode(t, resp, &p)
	if p.Username != "bob" || p.Age != "41" || p.Location != "Rome" {
		t.Errorf("unexpected profile %+v", p)
	}

	resp = b.do(t, http.MethodPut, "/api/users/bob", `{"age":"41"}`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.Code)
	}
}

func TestPostChannelMessageRecordsHistory(t *testing.T) {
	b := newTestBridge(t)

	resp := b.do(t, http.MethodPost, "/api/channels/general/messages", `{"user":"alice","text":"hello all"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var msg proto.MessageResponse
	decode(t, resp, &msg)
	if msg.Channel != "general" || !strings.HasSuffix(msg.Message, "] alice: hello all") {
		t.Errorf("unexpected message response %+v", msg)
	}

	resp = b.do(t, http.MethodGet, "/api/history/general", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var hist proto.HistoryResponse
	decode(t, resp, &hist)
	if len(hist.Messages) != 1 || hist.Messages[0] != msg.Message {
		t.Errorf("unexpected history %+v", hist)
	}
}

func TestPostChannelMessageErrors(t *testing.T) {
	b := newTestBridge(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "unknown sender", body: `{"user":"bob","text":"hi"}`, status: http.StatusNotFound},
		{name: "missing text", body: `{"user":"alice"}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := b.do(t, http.MethodPost, "/api/channels/general/messages", tt.body)
			if resp.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestHistoryCount(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := b.svc.Publish(ctx, "alice", "general", "msg"); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	resp := b.do(t, http.MethodGet, "/api/history/general?count=3", "")
	var hist proto.HistoryResponse
	decode(t, resp, &hist)
	if len(hist.Messages) != 3 {
		t.Errorf("expected 3 messages, got %d", len(hist.Messages))
	}

	resp = b.do(t, http.MethodGet, "/api/history/empty", "")
	decode(t, resp, &hist)
	if hist.Messages == nil || len(hist.Messages) != 0 {
		t.Errorf("expected empty list, got %#v", hist.Messages)
	}

	resp = b.do(t, http.MethodGet, "/api/history/general?count=zero", "")
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.Code)
	}
}

func TestPostPrivateMessage(t *testing.T) {
	b := newTestBridge(t)

	resp := b.do(t, http.MethodPost, "/api/users/alice/messages", `{"user":"alice","text":"note to self"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var msg proto.MessageResponse
	decode(t, resp, &msg)
	if msg.Channel != "private:alice" || !strings.Contains(msg.Message, "[PRIVATE] alice: note to self") {
		t.Errorf("unexpected response %+v", msg)
	}

	resp = b.do(t, http.MethodPost, "/api/users/ghost/messages", `{"user":"alice","text":"hi"}`)
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	b := newTestBridge(t)

	b.do(t, http.MethodPost, "/api/channels/general/messages", `{"user":"alice","text":"hi"}`)

	resp := b.do(t, http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `redischat_messages_published_total{kind="public"} 1`) {
		t.Errorf("published counter missing from exposition:\n%s", resp.Body.String())
	}
}

func TestStreamDeliversChannelMessages(t *testing.T) {
	b := newTestBridge(t)

	ts := httptest.NewServer(b.server.Handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, ts.URL+"/ws/general", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// The subscription is set up after the handshake; publish until it is live.
	for {
		n, err := b.st.Publish(ctx, "general", "hello stream")
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
		if n > 0 {
			break
		}
		select {
		case <-ctx.Done():
			t.Fatalf("stream never subscribed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	var ev proto.StreamEvent
	if err := wsjson.Read(ctx, conn, &ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Channel != "general" || ev.Text != "hello stream" || ev.Private {
		t.Errorf("unexpected event %+v", ev)
	}
}
