package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JOBBER_CLIENT_ID", "app-id")
	t.Setenv("JOBBER_CLIENT_SECRET", "app-secret")
	t.Setenv("JOBBER_REDIRECT_URI", "https://relay.example.com/jobber/callback")
}

func TestLoad_EnvOnlyWithDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Jobber.AuthURL == "" || cfg.Jobber.TokenURL == "" || cfg.Jobber.GraphQLURL == "" {
		t.Error("provider endpoint defaults missing")
	}
	if cfg.Jobber.Timeout != 15*time.Second {
		t.Errorf("jobber timeout = %v", cfg.Jobber.Timeout)
	}
	if cfg.State.TTL != 15*time.Minute {
		t.Errorf("state ttl = %v", cfg.State.TTL)
	}
	if len(cfg.Jobber.Scopes) == 0 {
		t.Error("scope defaults missing")
	}
	if cfg.Frontend.SuccessURL == "" || cfg.Frontend.PhoneNotFoundURL == "" || cfg.Frontend.PhoneRequiredURL == "" {
		t.Error("frontend URL defaults missing")
	}
	if cfg.Signed() {
		t.Error("no signing secret set, Signed() must be false")
	}
}

func TestLoad_FailsFastOnMissingCredentials(t *testing.T) {
	t.Setenv("JOBBER_CLIENT_ID", "")
	t.Setenv("JOBBER_CLIENT_SECRET", "")
	t.Setenv("JOBBER_REDIRECT_URI", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, name := range []string{"JOBBER_CLIENT_ID", "JOBBER_CLIENT_SECRET", "JOBBER_REDIRECT_URI"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not name %s: %v", name, err)
		}
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("STATE_SIGNING_SECRET", "sssh")
	t.Setenv("STATE_TTL", "30m")
	t.Setenv("SINK_ALLOW_MISSING", "true")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  addr: \":8081\"\nstate:\n  ttl: 5m\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("env must beat file: addr = %q", cfg.Server.Addr)
	}
	if cfg.State.TTL != 30*time.Minute {
		t.Errorf("state ttl = %v", cfg.State.TTL)
	}
	if !cfg.Signed() {
		t.Error("signing secret set, Signed() must be true")
	}
	if !cfg.Sink.AllowMissing {
		t.Error("SINK_ALLOW_MISSING not applied")
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Server.CORSAllowedOrigins) != 2 || cfg.Server.CORSAllowedOrigins[0] != want[0] || cfg.Server.CORSAllowedOrigins[1] != want[1] {
		t.Errorf("cors origins = %v", cfg.Server.CORSAllowedOrigins)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	setRequiredEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing file must fall back to env: %v", err)
	}
}

func TestLoad_FileValues(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"sink:",
		"  webhook_url: \"https://n8n.example.com/webhook/tokens\"",
		"directory:",
		"  default_client_id: \"client_from_file\"",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sink.WebhookURL != "https://n8n.example.com/webhook/tokens" {
		t.Errorf("webhook url = %q", cfg.Sink.WebhookURL)
	}
	if cfg.Directory.DefaultClientID != "client_from_file" {
		t.Errorf("default client id = %q", cfg.Directory.DefaultClientID)
	}
}
