package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
environment: staging
auth:
  secret_key: s3cret
dispatch:
  connector_timeout: 2s
  model_timeout: 30s
http:
  port: 9090
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != EnvStaging {
		t.Fatalf("expected staging, got %q", cfg.Environment)
	}
	if cfg.HTTP.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Dispatch.ConnectorTimeout != 2*time.Second {
		t.Fatalf("unexpected connector timeout %v", cfg.Dispatch.ConnectorTimeout)
	}
	if cfg.Database.DSN == "" {
		t.Fatalf("expected default DSN")
	}
}

func TestValidateRejectsPlaceholderSecret(t *testing.T) {
	cfg := &Config{Environment: EnvProduction, Auth: Auth{SecretKey: insecureSecret}}
	err := cfg.Validate()
	if !errors.Is(err, ErrInsecureSecret) {
		t.Fatalf("expected ErrInsecureSecret, got %v", err)
	}

	cfg.Environment = EnvLocal
	if err := cfg.Validate(); err != nil {
		t.Fatalf("local placeholder secret should be allowed: %v", err)
	}
	if !cfg.InsecureSecret() {
		t.Fatalf("expected InsecureSecret to be true")
	}
}

func TestValidateRejectsUnknownEnvironment(t *testing.T) {
	cfg := &Config{Environment: "qa", Auth: Auth{SecretKey: "x"}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown environment")
	}
}
