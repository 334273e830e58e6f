package config

import (
	"strings"
	"testing"
)

func TestLoadRequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error without SECRET_KEY")
	}
	if !strings.Contains(err.Error(), "SECRET_KEY") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Auth.SecretKey != "test-secret" {
		t.Errorf("secret key not read from environment: %q", cfg.Auth.SecretKey)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default driver: got %q want sqlite", cfg.Database.Driver)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("default log level: got %q want info", cfg.Logger.Level)
	}
}

func TestLoadEnvAliases(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URI", "postgres://localhost/app")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("PORT alias: got %d want 9090", cfg.Server.Port)
	}
	if cfg.Database.DSN != "postgres://localhost/app" {
		t.Errorf("DATABASE_URI alias: got %q", cfg.Database.DSN)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("DATABASE_DRIVER alias: got %q", cfg.Database.Driver)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("LOG_LEVEL alias: got %q", cfg.Logger.Level)
	}
}
