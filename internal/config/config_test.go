package config

import (
	"os"
	"testing"
	"time"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"MARIADB_DSN":               "user:pass@tcp(localhost:3306)/db",
		"MARIADB_MAX_OPEN_CONN":     "10",
		"MARIADB_MAX_IDLE_CONNS":    "5",
		"MARIADB_CONN_MAX_LIFETIME": "30",
		"SERVER_PORT":               "8080",
		"PROVIDER_BASE_URL":         "https://graph.example.com/v19.0",
		"PROVIDER_ACCESS_TOKEN":     "token-123",
		"PROVIDER_SENDER_ID":        "555000111",
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()
	// Switch to a temp directory to avoid loading a real .env
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("could not chdir to temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("could not chdir back to original dir: %v", err)
		}
	})
}

func TestLoad_Success(t *testing.T) {
	chdirTemp(t)

	reqs := requiredEnv()
	for k, v := range reqs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MariaDBDSN != reqs["MARIADB_DSN"] {
		t.Errorf("MariaDBDSN: expected %q, got %q", reqs["MARIADB_DSN"], cfg.MariaDBDSN)
	}
	if cfg.MaxOpenConns != 10 {
		t.Errorf("MaxOpenConns: expected %d, got %d", 10, cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != 30*time.Second {
		t.Errorf("ConnMaxLifetime: expected %v, got %v", 30*time.Second, cfg.ConnMaxLifetime)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort: expected %d, got %d", 8080, cfg.ServerPort)
	}
	if cfg.ProviderBaseURL != reqs["PROVIDER_BASE_URL"] {
		t.Errorf("ProviderBaseURL: expected %q, got %q", reqs["PROVIDER_BASE_URL"], cfg.ProviderBaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	for k, v := range requiredEnv() {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MediaKeyRoot != "media" {
		t.Errorf("MediaKeyRoot default: expected %q, got %q", "media", cfg.MediaKeyRoot)
	}
	if cfg.FetchLeaseTTL != 300*time.Second {
		t.Errorf("FetchLeaseTTL default: expected %v, got %v", 300*time.Second, cfg.FetchLeaseTTL)
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	for missing := range requiredEnv() {
		t.Run(missing, func(t *testing.T) {
			chdirTemp(t)

			for k, v := range requiredEnv() {
				if k == missing {
					continue
				}
				t.Setenv(k, v)
			}

			_, err := Load()
			want := missing + " is required"
			if err == nil || err.Error() != want {
				t.Fatalf("expected error %q, got %v", want, err)
			}
		})
	}
}
