package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	Database  DatabaseConfig  `yaml:"database"`
	Local     LocalConfig     `yaml:"local"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Timer     TimerConfig     `yaml:"timer"`
	DevUser   DevUserConfig   `yaml:"dev_user"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type BackendConfig struct {
	Kind string `yaml:"kind"`
}

type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
	Schema  string `yaml:"schema"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// LocalConfig selects the on-device store.
type LocalConfig struct {
	Driver        string `yaml:"driver"`
	Dir           string `yaml:"dir"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type TimerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DevUserConfig is the single account accepted when there is no hosted
// identity service (postgres and memory backends).
type DevUserConfig struct {
	ID       string `yaml:"id"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Secret   string `yaml:"secret"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix KINETIC_ and underscore-separated paths:
//
//	KINETIC_SERVER_HOST, KINETIC_SERVER_PORT, KINETIC_BACKEND,
//	KINETIC_SUPABASE_URL, KINETIC_SUPABASE_ANON_KEY,
//	KINETIC_DB_HOST, KINETIC_DB_PORT, KINETIC_DB_NAME,
//	KINETIC_DB_USER, KINETIC_DB_PASSWORD, KINETIC_DB_SSLMODE,
//	KINETIC_LOCAL_DRIVER, KINETIC_LOCAL_DIR, KINETIC_REDIS_ADDR,
//	KINETIC_REDIS_PASSWORD, KINETIC_TS_ENABLED, KINETIC_TS_HOSTNAME,
//	KINETIC_DEV_PASSWORD, KINETIC_DEV_SECRET, KINETIC_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Host, "KINETIC_SERVER_HOST")
	setInt(&cfg.Server.Port, "KINETIC_SERVER_PORT")
	setString(&cfg.Backend.Kind, "KINETIC_BACKEND")
	setString(&cfg.Supabase.URL, "KINETIC_SUPABASE_URL")
	setString(&cfg.Supabase.AnonKey, "KINETIC_SUPABASE_ANON_KEY")
	setString(&cfg.Database.Host, "KINETIC_DB_HOST")
	setInt(&cfg.Database.Port, "KINETIC_DB_PORT")
	setString(&cfg.Database.Name, "KINETIC_DB_NAME")
	setString(&cfg.Database.User, "KINETIC_DB_USER")
	setString(&cfg.Database.Password, "KINETIC_DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "KINETIC_DB_SSLMODE")
	setString(&cfg.Local.Driver, "KINETIC_LOCAL_DRIVER")
	setString(&cfg.Local.Dir, "KINETIC_LOCAL_DIR")
	setString(&cfg.Local.RedisAddr, "KINETIC_REDIS_ADDR")
	setString(&cfg.Local.RedisPassword, "KINETIC_REDIS_PASSWORD")
	if v := os.Getenv("KINETIC_TS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	setString(&cfg.Tailscale.Hostname, "KINETIC_TS_HOSTNAME")
	setString(&cfg.DevUser.Password, "KINETIC_DEV_PASSWORD")
	setString(&cfg.DevUser.Secret, "KINETIC_DEV_SECRET")
	setString(&cfg.Auth.APIKey, "KINETIC_AUTH_API_KEY")
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.Kind == "" {
		cfg.Backend.Kind = BackendSupabase
	}
	if cfg.Supabase.Schema == "" {
		cfg.Supabase.Schema = "public"
	}
	if cfg.Local.Driver == "" {
		cfg.Local.Driver = "sqlite"
	}
	if cfg.Local.Dir == "" {
		cfg.Local.Dir = ".kinetic"
	}
	if cfg.Timer.Interval == 0 {
		cfg.Timer.Interval = time.Second
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "kinetic"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	switch c.Backend.Kind {
	case BackendSupabase:
		if c.Supabase.URL == "" {
			return fmt.Errorf("supabase.url is required")
		}
		if c.Supabase.AnonKey == "" {
			return fmt.Errorf("supabase.anon_key is required")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("backend.kind %q is not one of supabase, postgres, memory", c.Backend.Kind)
	}
	if c.Backend.Kind != BackendSupabase {
		if c.DevUser.Email == "" || c.DevUser.Password == "" {
			return fmt.Errorf("dev_user.email and dev_user.password are required for the %s backend", c.Backend.Kind)
		}
		if c.DevUser.Secret == "" {
			return fmt.Errorf("dev_user.secret is required for the %s backend", c.Backend.Kind)
		}
	}
	switch c.Local.Driver {
	case "sqlite", "memory":
	case "redis":
		if c.Local.RedisAddr == "" {
			return fmt.Errorf("local.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("local.driver %q is not one of sqlite, redis, memory", c.Local.Driver)
	}
	if c.Timer.Interval < 0 {
		return fmt.Errorf("timer.interval must not be negative")
	}
	return nil
}
