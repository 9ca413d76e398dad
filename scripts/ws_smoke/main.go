package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/redischat/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run registers a profile, opens a channel stream, publishes one message over
// REST and waits for it to come back on the stream.
func run() error {
	base := flag.String("base", "http://localhost:8080", "bridge base URL")
	user := flag.String("user", "tester", "username to register and post as")
	channel := flag.String("channel", "general", "channel name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	profile := proto.ProfileRequest{Age: "1", Gender: "n/a", Location: "smoke test"}
	if err := send(ctx, http.MethodPut, *base+"/api/users/"+url.PathEscape(*user), profile); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws/" + url.PathEscape(*channel)
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	events := make(chan proto.StreamEvent, 1)
	readErr := make(chan error, 1)
	go func() {
		var ev proto.StreamEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			readErr <- err
			return
		}
		events <- ev
	}()

	// The stream subscribes right after the handshake; retry until it hears us.
	msgURL := *base + "/api/channels/" + url.PathEscape(*channel) + "/messages"
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := send(ctx, http.MethodPost, msgURL, proto.PublishRequest{User: *user, Text: *text}); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		select {
		case ev := <-events:
			fmt.Printf("StreamEvent: channel=%s private=%t text=%q\n", ev.Channel, ev.Private, ev.Text)
			return nil
		case err := <-readErr:
			return fmt.Errorf("read: %w", err)
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func send(ctx context.Context, method, target string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr proto.Error
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: %d %s", method, target, resp.StatusCode, apiErr.Msg)
	}
	return nil
}
