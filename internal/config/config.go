package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Seed      SeedConfig      `yaml:"seed"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MigrationsPath string `yaml:"migrations_path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	AdminAPIKey string `yaml:"admin_api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type SeedConfig struct {
	Dir     string `yaml:"dir"`
	StateDB string `yaml:"state_db"`
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
// Env vars use the prefix TERRAPUMP_ and underscore-separated paths:
//
//	TERRAPUMP_SERVER_HOST, TERRAPUMP_SERVER_PORT, TERRAPUMP_MIGRATIONS_PATH,
//	TERRAPUMP_DB_HOST, TERRAPUMP_DB_PORT, TERRAPUMP_DB_NAME,
//	TERRAPUMP_DB_USER, TERRAPUMP_DB_PASSWORD, TERRAPUMP_DB_SSLMODE,
//	TERRAPUMP_ADMIN_API_KEY, TERRAPUMP_TS_ENABLED, TERRAPUMP_TS_HOSTNAME,
//	TERRAPUMP_TS_STATE_DIR, TERRAPUMP_SEED_DIR, TERRAPUMP_SEED_STATE_DB
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

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TERRAPUMP_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TERRAPUMP_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TERRAPUMP_MIGRATIONS_PATH"); v != "" {
		cfg.Server.MigrationsPath = v
	}
	if v := os.Getenv("TERRAPUMP_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("TERRAPUMP_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("TERRAPUMP_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("TERRAPUMP_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("TERRAPUMP_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("TERRAPUMP_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("TERRAPUMP_ADMIN_API_KEY"); v != "" {
		cfg.Auth.AdminAPIKey = v
	}
	if v := os.Getenv("TERRAPUMP_TS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("TERRAPUMP_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("TERRAPUMP_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("TERRAPUMP_SEED_DIR"); v != "" {
		cfg.Seed.Dir = v
	}
	if v := os.Getenv("TERRAPUMP_SEED_STATE_DB"); v != "" {
		cfg.Seed.StateDB = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
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
	if c.Auth.AdminAPIKey == "" {
		return fmt.Errorf("auth.admin_api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
