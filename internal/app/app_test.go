package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/redischat/internal/config"
	"github.com/vovakirdan/redischat/internal/log"
)

func newEmbeddedApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Embedded = true
	if mutate != nil {
		mutate(&cfg)
	}

	a, err := New(context.Background(), &cfg, log.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestRunInteractiveSession(t *testing.T) {
	a := newEmbeddedApp(t, nil)

	input := strings.Join([]string{
		"identify alice 30 F New York",
		"!whoami",
		"!weather Boston",
		"quit",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	if err := a.RunInteractive(context.Background(), strings.NewReader(input), out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"User alice identified successfully",
		"Location: New York",
		"Boston: 65°F, Sunny",
		"Goodbye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestNewUsesSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	seed := "weather:\n  Gotham: \"Gotham: 50°F, Foggy\"\nfacts:\n  - only fact\n"
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	a := newEmbeddedApp(t, func(cfg *config.Config) { cfg.SeedFile = path })

	out := &bytes.Buffer{}
	input := "!weather gotham\n!fact\nquit\n"
	if err := a.RunInteractive(context.Background(), strings.NewReader(input), out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Gotham: 50°F, Foggy") {
		t.Errorf("seeded weather missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Fun Fact: only fact") {
		t.Errorf("seeded fact missing:\n%s", out.String())
	}
}

func TestNewFailsWithoutRedis(t *testing.T) {
	// Grab a free port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	cfg := config.Default()
	cfg.RedisAddr = addr

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := New(ctx, &cfg, log.Nop()); err == nil {
		t.Fatalf("expected connection error for %s", addr)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	a := newEmbeddedApp(t, func(cfg *config.Config) { cfg.Addr = addr })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected status 200, got %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("bridge never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}
