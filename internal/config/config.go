// Package config provides configuration management for megacloud-mcp.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with MC_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ./configs/config.yaml, ~/.megacloud-mcp/config.yaml, /etc/megacloud-mcp/config.yaml)
//  3. .env files
//  4. Environment variables (MC_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Backend: %s\n", cfg.Backend.URL)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use MC_ prefix and underscores for nested keys:
//   - MC_BACKEND_URL=https://cloud.example.com
//   - MC_SERVER_TRANSPORT=http
//   - MC_LOGGING_LEVEL=debug
//
// The bearer token itself is never part of the configuration file. Only the
// name of the environment variable holding it is configured
// (backend.token_env); the client reads the variable when it is built.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Transport names accepted by server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the root configuration structure for megacloud-mcp.
type Config struct {
	// Backend contains the MegaCloud backend connection settings
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`

	// Server contains the inbound transport settings
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Display contains formatting settings for values returned to callers
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// BackendConfig contains the MegaCloud backend connection settings.
type BackendConfig struct {
	// URL is the backend base URL (e.g., https://cloud.example.com)
	URL string `mapstructure:"url" yaml:"url"`

	// TokenEnv is the name of the environment variable holding the bearer token
	TokenEnv string `mapstructure:"token_env" yaml:"token_env"`

	// Timeout bounds every backend request (0 keeps the transport default)
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// RateLimit is the maximum outbound requests per second (0 = unlimited)
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// ServerConfig contains the inbound transport settings.
type ServerConfig struct {
	// Transport selects how tool calls are received (stdio, http)
	Transport string `mapstructure:"transport" yaml:"transport"`

	// Host is the bind address for the http transport
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the listen port for the http transport
	Port int `mapstructure:"port" yaml:"port"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Debug exposes internal error details in http responses
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// RateLimit is the maximum inbound requests per second per client on the
	// http transport (0 = unlimited)
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`

	// AllowedOrigins enables CORS on the http transport for these origins
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log format (json, console)
	Format string `mapstructure:"format" yaml:"format"`

	// Output is the log destination (stderr, stdout). The stdio transport
	// owns stdout, so stdout is rejected when transport is stdio.
	Output string `mapstructure:"output" yaml:"output"`
}

// DisplayConfig contains formatting settings.
type DisplayConfig struct {
	// Timezone is the IANA zone used to render backend millisecond timestamps
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// Location resolves the configured timezone.
func (d DisplayConfig) Location() (*time.Location, error) {
	if d.Timezone == "" || d.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(d.Timezone)
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (MC_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.megacloud-mcp")
		v.AddConfigPath("/etc/megacloud-mcp")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			// An explicit path that does not exist falls back to defaults.
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("MC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://localhost:8080")
	v.SetDefault("backend.token_env", "MEGACLOUD_AUTH_TOKEN")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.rate_limit", 0)

	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.rate_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("display.timezone", "Local")
}

func validate(cfg *Config) error {
	if cfg.Backend.URL == "" {
		return fmt.Errorf("backend url is required")
	}
	if !strings.HasPrefix(cfg.Backend.URL, "http://") && !strings.HasPrefix(cfg.Backend.URL, "https://") {
		return fmt.Errorf("backend url must start with http:// or https://: %s", cfg.Backend.URL)
	}

	if cfg.Backend.TokenEnv == "" {
		return fmt.Errorf("backend token_env is required")
	}

	if cfg.Backend.Timeout < 0 {
		return fmt.Errorf("invalid backend timeout: %s", cfg.Backend.Timeout)
	}

	if cfg.Backend.RateLimit < 0 {
		return fmt.Errorf("invalid backend rate limit: %v", cfg.Backend.RateLimit)
	}

	switch cfg.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown server transport: %s (use %q or %q)", cfg.Server.Transport, TransportStdio, TransportHTTP)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Server.RateLimit < 0 {
		return fmt.Errorf("invalid server rate limit: %v", cfg.Server.RateLimit)
	}

	switch cfg.Logging.Output {
	case "stderr":
	case "stdout":
		if cfg.Server.Transport == TransportStdio {
			return fmt.Errorf("logging output stdout conflicts with the stdio transport")
		}
	default:
		return fmt.Errorf("unknown logging output: %s", cfg.Logging.Output)
	}

	if _, err := cfg.Display.Location(); err != nil {
		return fmt.Errorf("invalid display timezone %q: %w", cfg.Display.Timezone, err)
	}

	return nil
}

func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
