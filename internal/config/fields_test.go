package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key  string
		want string
	}{
		{"server.port", "3001"},
		{"SERVER.PORT", "3001"},
		{"server.rate_limit.window", "15m0s"},
		{"server.cors_origins", "https://codingnexusai.vercel.app,https://codingnexusai-k2ok9va9c-rajshah9305s-projects.vercel.app"},
		{"defaults.model", "claude-3.5-sonnet-v2"},
		{"retry.integrate.base_delay", "3s"},
		{"bedrock.max_tokens", "4000"},
	}
	for _, tt := range tests {
		got, err := Get(cfg, tt.key)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	if _, err := Get(cfg, "anthropic.api_key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSet(t *testing.T) {
	cfg := Default()

	if err := Set(cfg, "server.port", "8080"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}

	if err := Set(cfg, "retry.quality.base_delay", "500ms"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Retry.Quality.BaseDelay != 500*time.Millisecond {
		t.Errorf("Quality.BaseDelay = %v, want 500ms", cfg.Retry.Quality.BaseDelay)
	}

	if err := Set(cfg, "server.cors_origins", " https://a.example , ,https://b.example"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestSet_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "tui.refresh_rate", "1s"},
		{"not an integer", "server.port", "abc"},
		{"out of range port", "server.port", "70000"},
		{"bad duration", "retry.plan.base_delay", "soon"},
		{"zero attempts", "retry.plan.attempts", "0"},
		{"bad log format", "log.format", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := Set(cfg, tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
			}
			if cfg.Server.Port != 3001 || cfg.Retry.Plan.Attempts != 3 || cfg.Log.Format != "json" {
				t.Errorf("rejected Set modified config: %+v", cfg)
			}
		})
	}
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	if err := Set(cfg, "server.port", "4000"); err != nil {
		t.Fatal(err)
	}
	if err := Set(cfg, "retry.plan.base_delay", "250ms"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Server.Port != 4000 {
		t.Errorf("Port = %d, want 4000", loaded.Server.Port)
	}
	if loaded.Retry.Plan.BaseDelay != 250*time.Millisecond {
		t.Errorf("Plan.BaseDelay = %v, want 250ms", loaded.Retry.Plan.BaseDelay)
	}
	if len(loaded.Server.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", loaded.Server.CORSOrigins)
	}
}

func TestKeys_Sorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("Keys not sorted at %d: %q >= %q", i, keys[i-1], keys[i])
		}
	}
	if len(keys) != len(fields) {
		t.Errorf("len(Keys()) = %d, want %d", len(keys), len(fields))
	}
}
