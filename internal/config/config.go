package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigurationMissing means a required setting (service URL or anon key) is absent or empty.
// The dashboard cannot reach its backend without them, so callers treat it as fatal.
var ErrConfigurationMissing = errors.New("missing configuration")

// Store drivers.
const (
	DriverREST     = "rest"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultConfigPath   = "configs"
	defaultConfigName   = "config"
	defaultPort         = "8080"
	defaultSQLitePath   = "app.db"
	defaultTimeout      = 10 * time.Second
	defaultIngestSource = "edge-function"
	defaultSimInterval  = 5 * time.Second
)

// Config is the full application configuration.
type Config struct {
	Supabase SupabaseConfig
	Store    StoreConfig
	Port     string
	Log      LogConfig
	Ingest   IngestConfig
	Sim      SimulatorConfig
}

// SupabaseConfig locates the hosted backend.
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

type StoreConfig struct {
	Driver string
	DSN    string
}

type LogConfig struct {
	Level    string
	Encoding string
}

type IngestConfig struct {
	Source string
}

// SimulatorConfig drives the built-in device stand-in used when no board is attached.
type SimulatorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// envBindings maps config keys to the environment variables that may carry them, in priority order.
// The VITE_ names are what the browser build of the dashboard uses.
var envBindings = map[string][]string{
	"supabase.url":       {"SUPABASE_URL", "VITE_SUPABASE_URL"},
	"supabase.anon_key":  {"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"},
	"supabase.timeout":   {"SUPABASE_TIMEOUT"},
	"store.driver":       {"STORE_DRIVER"},
	"store.dsn":          {"STORE_DSN"},
	"port":               {"PORT"},
	"log.level":          {"LOG_LEVEL"},
	"log.encoding":       {"LOG_ENCODING"},
	"ingest.source":      {"INGEST_SOURCE"},
	"simulator.enabled":  {"SIMULATOR_ENABLED"},
	"simulator.interval": {"SIMULATOR_INTERVAL"},
}

// Load reads configs/config.yml (optional) and the environment.
func Load() (*Config, error) {
	return LoadFrom(defaultConfigPath)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")

	setDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %q: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Supabase: SupabaseConfig{
			URL:     strings.TrimSpace(v.GetString("supabase.url")),
			AnonKey: strings.TrimSpace(v.GetString("supabase.anon_key")),
			Timeout: v.GetDuration("supabase.timeout"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			DSN:    strings.TrimSpace(v.GetString("store.dsn")),
		},
		Port: v.GetString("port"),
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
		Ingest: IngestConfig{
			Source: v.GetString("ingest.source"),
		},
		Sim: SimulatorConfig{
			Enabled:  v.GetBool("simulator.enabled"),
			Interval: v.GetDuration("simulator.interval"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("supabase.timeout", defaultTimeout)
	v.SetDefault("store.driver", DriverREST)
	v.SetDefault("port", defaultPort)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("ingest.source", defaultIngestSource)
	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.interval", defaultSimInterval)
}

// Validate checks the settings required by the selected store driver.
func (c *Config) Validate() error {
	if c.Sim.Enabled && c.Sim.Interval <= 0 {
		return fmt.Errorf("simulator.interval must be positive, got %s", c.Sim.Interval)
	}

	switch c.Store.Driver {
	case DriverREST:
		return c.Supabase.Validate()
	case DriverSQLite:
		if c.Store.DSN == "" {
			c.Store.DSN = defaultSQLitePath
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn (STORE_DSN) is required for the postgres driver", ErrConfigurationMissing)
		}
	default:
		return fmt.Errorf("unsupported store driver: %q", c.Store.Driver)
	}
	return nil
}

// Validate reports which of the two required Supabase settings are missing.
func (s SupabaseConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(s.URL) == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if strings.TrimSpace(s.AnonKey) == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: Supabase environment variables not set: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}
	return nil
}
