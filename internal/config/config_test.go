package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "redischat.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.HistoryLimit != 50 || cfg.HistoryDisplay != 10 {
		t.Fatalf("unexpected history defaults: %+v", cfg)
	}
	if cfg.PollTimeout != 10*time.Millisecond {
		t.Fatalf("poll timeout = %v", cfg.PollTimeout)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redischat.yaml")
	body := "redis_addr: file:6379\nhistory_limit: 20\npoll_timeout: 50ms\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REDISCHAT_HISTORY_LIMIT", "30")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RedisAddr != "file:6379" {
		t.Fatalf("redis addr = %q, want value from file", cfg.RedisAddr)
	}
	if cfg.HistoryLimit != 30 {
		t.Fatalf("history limit = %d, want env override 30", cfg.HistoryLimit)
	}
	if cfg.PollTimeout != 50*time.Millisecond {
		t.Fatalf("poll timeout = %v", cfg.PollTimeout)
	}

	cfg.UpdateFrom(Config{RedisAddr: "flag:6379", Embedded: true})
	if cfg.RedisAddr != "flag:6379" || !cfg.Embedded {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.HistoryLimit != 30 {
		t.Fatalf("zero override must not clobber history limit")
	}
}
