package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  storage_path: "/srv/mellyn/files"
database:
  dbname: "mellyn_test"
jwt:
  secret: "test-secret"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Server.StoragePath != "/srv/mellyn/files" {
		t.Errorf("Server.StoragePath = %q", cfg.Server.StoragePath)
	}
	if cfg.Database.DBName != "mellyn_test" {
		t.Errorf("Database.DBName = %q", cfg.Database.DBName)
	}
	// Unset fields keep their defaults.
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want default localhost", cfg.Database.Host)
	}
	if cfg.JWT.AccessTokenExpiration != "1h" {
		t.Errorf("JWT.AccessTokenExpiration = %q, want default 1h", cfg.JWT.AccessTokenExpiration)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
jwt:
  secret: "file-secret"
`)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want env override 7070", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env override", cfg.JWT.Secret)
	}
	if cfg.Database.MaxOpenConns != 40 {
		t.Errorf("Database.MaxOpenConns = %d, want 40", cfg.Database.MaxOpenConns)
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() accepted a config without a JWT secret")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "test-secret"
  access_token_expiration: "soon"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() accepted an invalid duration")
	}
}
