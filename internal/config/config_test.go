package config

import "testing"

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "secret")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/budget")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "secret")
	t.Setenv("PORT", "")
	t.Setenv("GRAPH_API_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GraphAPIBaseURL != defaultGraphAPIBaseURL {
		t.Errorf("GraphAPIBaseURL = %q, want default", cfg.GraphAPIBaseURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/budget")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("GCS_BUCKET", "screenshots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.MediaBucket != "screenshots" {
		t.Errorf("MediaBucket = %q, want screenshots", cfg.MediaBucket)
	}
}
