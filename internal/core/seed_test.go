package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	body := "weather:\n  Paris: \"Paris: 60°F, Drizzle\"\nfacts:\n  - one\n  - two\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	data, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data.Weather["Paris"] != "Paris: 60°F, Drizzle" || len(data.Facts) != 2 {
		t.Fatalf("unexpected seed: %+v", data)
	}
}

func TestLoadSeedFileDefaultsAndErrors(t *testing.T) {
	data, err := LoadSeedFile("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if len(data.Weather) != 8 || len(data.Facts) != 10 {
		t.Fatalf("unexpected default sizes: %d cities, %d facts", len(data.Weather), len(data.Facts))
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNormalizeCityAndChannels(t *testing.T) {
	if got := NormalizeCity("  Los  Angeles "); got != "losangeles" {
		t.Fatalf("NormalizeCity = %q", got)
	}
	if !IsPrivateChannel(PrivateChannel("bob")) || IsPrivateChannel("general") {
		t.Fatalf("private channel detection broken")
	}
}

func TestSeedReplacesWeatherTable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Weather(ctx, "miami"); err != nil {
		t.Fatalf("default seed missing miami: %v", err)
	}

	custom := SeedData{
		Weather: map[string]string{"New Gotham": "Gotham: 50°F, Foggy"},
		Facts:   []string{"only fact"},
	}
	if err := svc.Seed(ctx, custom); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Weather(ctx, "miami"); !errors.Is(err, ErrWeatherNotFound) {
		t.Errorf("expected stale city to be gone, got %v", err)
	}
	if got, err := svc.Weather(ctx, "new gotham"); err != nil || got != "Gotham: 50°F, Foggy" {
		t.Errorf("unexpected report %q err=%v", got, err)
	}
	if got, err := svc.Fact(ctx); err != nil || got != "only fact" {
		t.Errorf("unexpected fact %q err=%v", got, err)
	}
}
