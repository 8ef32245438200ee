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
	Journal   JournalConfig   `yaml:"journal"`
	Speech    SpeechConfig    `yaml:"speech"`
	Routine   RoutineConfig   `yaml:"routine"`
	Pose      PoseConfig      `yaml:"pose"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	// Enabled false runs journal-only: no Postgres connection is attempted.
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type JournalConfig struct {
	Dir string `yaml:"dir"`
}

type SpeechConfig struct {
	// URL of the TTS sidecar; empty disables spoken feedback.
	URL string `yaml:"url"`
}

type RoutineConfig struct {
	Path string `yaml:"path"`
}

type PoseConfig struct {
	// Source is "stdin" or "tcp". With "tcp", Listen is the address the
	// perception process connects to with its JSONL frame stream.
	Source string `yaml:"source"`
	Listen string `yaml:"listen"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
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

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix GYMBUDDY_ and underscore-separated
// paths:
//
//	GYMBUDDY_SERVER_HOST, GYMBUDDY_SERVER_PORT,
//	GYMBUDDY_DB_HOST, GYMBUDDY_DB_PORT, GYMBUDDY_DB_NAME,
//	GYMBUDDY_DB_USER, GYMBUDDY_DB_PASSWORD, GYMBUDDY_DB_SSLMODE,
//	GYMBUDDY_JOURNAL_DIR, GYMBUDDY_SPEECH_URL, GYMBUDDY_ROUTINE_PATH
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
	if v := os.Getenv("GYMBUDDY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GYMBUDDY_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GYMBUDDY_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("GYMBUDDY_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("GYMBUDDY_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("GYMBUDDY_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("GYMBUDDY_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("GYMBUDDY_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("GYMBUDDY_JOURNAL_DIR"); v != "" {
		cfg.Journal.Dir = v
	}
	if v := os.Getenv("GYMBUDDY_SPEECH_URL"); v != "" {
		cfg.Speech.URL = v
	}
	if v := os.Getenv("GYMBUDDY_ROUTINE_PATH"); v != "" {
		cfg.Routine.Path = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Enabled {
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
	}
	if c.Routine.Path == "" {
		return fmt.Errorf("routine.path is required")
	}
	switch c.Pose.Source {
	case "", "stdin":
		// stdin is the default
	case "tcp":
		if c.Pose.Listen == "" {
			return fmt.Errorf("pose.listen is required with pose.source tcp")
		}
	default:
		return fmt.Errorf("pose.source must be stdin or tcp, got %q", c.Pose.Source)
	}
	return nil
}
