package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_DRIVER", "SQLITE_PATH", "POSTGRES_DSN", "REDIS_DB", "AUTH_ENABLED",
		"AUTH_JWT_SECRET", "PAGINATION_DEFAULT_LIMIT", "PAGINATION_MAX_LIMIT", "APP_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Driver != StorageDriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Pagination.DefaultLimit != 100 || cfg.Pagination.MaxLimit != 1000 {
		t.Fatalf("unexpected pagination defaults %#v", cfg.Pagination)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", cfg.App.Addr())
	}
	if cfg.Auth.Enabled {
		t.Fatal("expected auth disabled by default")
	}
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without dsn", env: map[string]string{"STORAGE_DRIVER": "postgres"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "auth without secret", env: map[string]string{"AUTH_ENABLED": "true"}},
		{name: "default above max", env: map[string]string{"PAGINATION_DEFAULT_LIMIT": "50", "PAGINATION_MAX_LIMIT": "10"}},
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "zero"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected Load() to fail")
			}
		})
	}
}

func TestLoadPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "POSTGRES")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/agency")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Driver != StorageDriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.Storage.Driver)
	}
}
