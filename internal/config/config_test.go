package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every bound variable; viper treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, e := range envs {
			t.Setenv(e, "")
		}
	}
}

func TestLoad_MissingSupabaseSettings(t *testing.T) {
	cases := []struct {
		name        string
		url, key    string
		wantMissing []string
	}{
		{name: "both missing", wantMissing: []string{"SUPABASE_URL", "SUPABASE_ANON_KEY"}},
		{name: "url missing", key: "abc123", wantMissing: []string{"SUPABASE_URL"}},
		{name: "key missing", url: "https://x.example", wantMissing: []string{"SUPABASE_ANON_KEY"}},
		{name: "whitespace only", url: "   ", key: "abc123", wantMissing: []string{"SUPABASE_URL"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SUPABASE_URL", tc.url)
			t.Setenv("SUPABASE_ANON_KEY", tc.key)

			cfg, err := LoadFrom(t.TempDir())
			if !errors.Is(err, ErrConfigurationMissing) {
				t.Fatalf("expected ErrConfigurationMissing, got %v", err)
			}
			if cfg != nil {
				t.Fatalf("expected nil config on error, got %+v", cfg)
			}
			for _, m := range tc.wantMissing {
				if !strings.Contains(err.Error(), m) {
					t.Fatalf("error %q should name %s", err.Error(), m)
				}
			}
		})
	}
}

func TestLoad_FromEnvironmentWithDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_URL", "https://x.example")
	t.Setenv("SUPABASE_ANON_KEY", "abc123")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Supabase.URL != "https://x.example" || cfg.Supabase.AnonKey != "abc123" {
		t.Fatalf("unexpected supabase config: %+v", cfg.Supabase)
	}
	if cfg.Supabase.Timeout != defaultTimeout {
		t.Fatalf("timeout: got %v, want %v", cfg.Supabase.Timeout, defaultTimeout)
	}
	if cfg.Store.Driver != DriverREST || cfg.Port != defaultPort {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Ingest.Source != defaultIngestSource {
		t.Fatalf("ingest source: got %q", cfg.Ingest.Source)
	}
	if cfg.Sim.Enabled || cfg.Sim.Interval != defaultSimInterval {
		t.Fatalf("unexpected simulator defaults: %+v", cfg.Sim)
	}
}

func TestLoad_Simulator(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SIMULATOR_ENABLED", "true")
	t.Setenv("SIMULATOR_INTERVAL", "250ms")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Sim.Enabled || cfg.Sim.Interval != 250*time.Millisecond {
		t.Fatalf("unexpected simulator config: %+v", cfg.Sim)
	}

	t.Setenv("SIMULATOR_INTERVAL", "0s")
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected error for zero simulator interval")
	}
}

func TestLoad_ViteAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_SUPABASE_URL", "https://vite.example")
	t.Setenv("VITE_SUPABASE_ANON_KEY", "vite-key")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Supabase.URL != "https://vite.example" || cfg.Supabase.AnonKey != "vite-key" {
		t.Fatalf("aliases not honoured: %+v", cfg.Supabase)
	}

	// the unprefixed name wins when both are present
	t.Setenv("SUPABASE_URL", "https://plain.example")
	cfg, err = LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Supabase.URL != "https://plain.example" {
		t.Fatalf("expected SUPABASE_URL to take priority, got %q", cfg.Supabase.URL)
	}
}

func TestLoad_ConfigFileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yml := `
supabase:
  url: https://file.example
  anon_key: file-key
  timeout: 3s
port: "9090"
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SUPABASE_ANON_KEY", "env-key")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Supabase.URL != "https://file.example" {
		t.Fatalf("url from file: got %q", cfg.Supabase.URL)
	}
	if cfg.Supabase.AnonKey != "env-key" {
		t.Fatalf("env should override file, got %q", cfg.Supabase.AnonKey)
	}
	if cfg.Supabase.Timeout != 3*time.Second || cfg.Port != "9090" || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
}

func TestLoad_StoreDrivers(t *testing.T) {
	t.Run("sqlite needs no supabase settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "SQLite")
		cfg, err := LoadFrom(t.TempDir())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Store.Driver != DriverSQLite || cfg.Store.DSN != defaultSQLitePath {
			t.Fatalf("unexpected store config: %+v", cfg.Store)
		}
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "postgres")
		if _, err := LoadFrom(t.TempDir()); !errors.Is(err, ErrConfigurationMissing) {
			t.Fatalf("expected ErrConfigurationMissing, got %v", err)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "mongo")
		_, err := LoadFrom(t.TempDir())
		if err == nil || errors.Is(err, ErrConfigurationMissing) {
			t.Fatalf("expected unsupported driver error, got %v", err)
		}
	})
}
