// Package config provides configuration management for the poke binary.
//
// Values are resolved from, lowest precedence first: DefaultConfig, the YAML
// file, POKE_* environment variables and finally command-line flags, which
// callers apply to the loaded Config themselves.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the poke configuration.
type Config struct {
	// Version of the config file format
	Version string `yaml:"version"`

	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	EventStore EventStoreConfig `yaml:"event_store"`
	PokeAPI    PokeAPIConfig    `yaml:"pokeapi"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" env:"POKE_HOST"`
	Port int    `yaml:"port" env:"POKE_PORT"`

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string `yaml:"cors_origins,omitempty" env:"POKE_CORS_ORIGINS" envSeparator:","`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Mode is "development" or "production".
	Mode string `yaml:"mode" env:"POKE_LOG_MODE"`
}

// EventStoreConfig contains event log settings.
type EventStoreConfig struct {
	// Serializer is "json" or "msgpack".
	Serializer string `yaml:"serializer" env:"POKE_SERIALIZER"`
}

// PokeAPIConfig contains the upstream Pokédex settings.
type PokeAPIConfig struct {
	URL     string        `yaml:"url" env:"POKE_POKEAPI_URL"`
	Timeout time.Duration `yaml:"timeout" env:"POKE_POKEAPI_TIMEOUT"`
}

// TelemetryConfig contains metrics and tracing settings.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" env:"POKE_SERVICE_NAME"`
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"POKE_METRICS_ENABLED"`
	TracingEnabled bool   `yaml:"tracing_enabled" env:"POKE_TRACING_ENABLED"`
}

// Serializer names.
const (
	SerializerJSON    = "json"
	SerializerMsgpack = "msgpack"
)

// DefaultPort is the HTTP port used when nothing else is configured.
const DefaultPort = 3030

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            DefaultPort,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Mode: "development",
		},
		EventStore: EventStoreConfig{
			Serializer: SerializerJSON,
		},
		PokeAPI: PokeAPIConfig{
			URL:     "https://pokeapi.co/api/v2",
			Timeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "poke",
			MetricsEnabled: true,
		},
	}
}

// ConfigFileName is the default config file name
const ConfigFileName = "poke.yaml"

// Load resolves the configuration. path names a YAML file; when empty,
// ConfigFileName in the working directory is used if it exists. Environment
// variables are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	switch {
	case path != "":
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	case Exists("."):
		if err := cfg.readFile(ConfigFileName); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific file path. Keys missing from
// the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from POKE_* environment variables. Unset
// variables leave fields untouched.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Save saves the configuration to the specified directory
func (c *Config) Save(dir string) error {
	return c.SaveFile(filepath.Join(dir, ConfigFileName))
}

// SaveFile saves the configuration to a specific file path
func (c *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Exists checks if a config file exists in the directory
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Validate validates the configuration
func (c *Config) Validate() []string {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "server.port must be between 1 and 65535")
	}

	if c.Server.ShutdownTimeout < 0 {
		errors = append(errors, "server.shutdown_timeout must not be negative")
	}

	switch strings.ToLower(c.Log.Mode) {
	case "development", "dev", "production", "prod":
	default:
		errors = append(errors, "log.mode must be 'development' or 'production'")
	}

	if c.EventStore.Serializer != SerializerJSON && c.EventStore.Serializer != SerializerMsgpack {
		errors = append(errors, "event_store.serializer must be 'json' or 'msgpack'")
	}

	if c.PokeAPI.URL == "" {
		errors = append(errors, "pokeapi.url is required")
	} else if !strings.HasPrefix(c.PokeAPI.URL, "http://") && !strings.HasPrefix(c.PokeAPI.URL, "https://") {
		errors = append(errors, "pokeapi.url must be an http(s) URL")
	}

	if c.PokeAPI.Timeout <= 0 {
		errors = append(errors, "pokeapi.timeout must be positive")
	}

	if c.Telemetry.TracingEnabled && c.Telemetry.ServiceName == "" {
		errors = append(errors, "telemetry.service_name is required when tracing is enabled")
	}

	return errors
}
