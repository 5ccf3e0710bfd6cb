package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Host = %v, want localhost", cfg.Database.Postgres.Host)
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("Port = %v, want 5432", cfg.Database.Postgres.Port)
	}
	if cfg.Database.Postgres.Database != "greenhouse" {
		t.Errorf("Database = %v, want greenhouse", cfg.Database.Postgres.Database)
	}
	if cfg.Profile.URLTemplate != "http://localhost:8080/members/{profileKey}" {
		t.Errorf("URLTemplate = %v", cfg.Profile.URLTemplate)
	}
	if cfg.Profile.PictureBaseURL != "http://localhost:8080/resources" {
		t.Errorf("PictureBaseURL = %v", cfg.Profile.PictureBaseURL)
	}
	if cfg.Environment != "local" {
		t.Errorf("Environment = %v, want local", cfg.Environment)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: db.internal
    port: 5433
    password: hunter2
security:
  encryption_key: secret
  encryption_salt: 5b8bd7612cdab5ed
  bcrypt_cost: 12
profile:
  url_template: "https://greenhouse.example.com/members/{profileKey}"
  picture_base_url: "https://greenhouse.example.com/resources"
environment: prod
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Postgres.Host != "db.internal" {
		t.Errorf("Host = %v, want db.internal", cfg.Database.Postgres.Host)
	}
	if cfg.Database.Postgres.Port != 5433 {
		t.Errorf("Port = %v, want 5433", cfg.Database.Postgres.Port)
	}
	// Unset fields keep their defaults.
	if cfg.Database.Postgres.User != "postgres" {
		t.Errorf("User = %v, want postgres", cfg.Database.Postgres.User)
	}
	if cfg.Security.BcryptCost != 12 {
		t.Errorf("BcryptCost = %v, want 12", cfg.Security.BcryptCost)
	}
	if cfg.Profile.URLTemplate != "https://greenhouse.example.com/members/{profileKey}" {
		t.Errorf("URLTemplate = %v", cfg.Profile.URLTemplate)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("GREENHOUSE_TEST_DB_PASSWORD", "hunter2")

	path := writeConfigFile(t, `
database:
  postgres:
    password: ${GREENHOUSE_TEST_DB_PASSWORD}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Postgres.Password != "hunter2" {
		t.Errorf("Password = %v, want the expanded env value", cfg.Database.Postgres.Password)
	}
}

func TestLoadRequiresEncryptionKeyOutsideLocal(t *testing.T) {
	path := writeConfigFile(t, "environment: prod\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded without an encryption key in prod")
	}
}

func TestConnectionString(t *testing.T) {
	p := &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "hunter2",
		Database: "greenhouse",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=postgres password=hunter2 dbname=greenhouse sslmode=disable"
	if got := p.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %v, want %v", got, want)
	}
}
