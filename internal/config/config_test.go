package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoadDefaults tests that default configuration values are loaded correctly.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	// Backend defaults
	if cfg.Backend.URL != "http://localhost:8080" {
		t.Errorf("Expected default backend url 'http://localhost:8080', got '%s'", cfg.Backend.URL)
	}
	if cfg.Backend.TokenEnv != "MEGACLOUD_AUTH_TOKEN" {
		t.Errorf("Expected default token env 'MEGACLOUD_AUTH_TOKEN', got '%s'", cfg.Backend.TokenEnv)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Expected default backend timeout 30s, got %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.RateLimit != 0 {
		t.Errorf("Expected default rate limit 0, got %v", cfg.Backend.RateLimit)
	}

	// Server defaults
	if cfg.Server.Transport != TransportStdio {
		t.Errorf("Expected default transport 'stdio', got '%s'", cfg.Server.Transport)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected default server host '127.0.0.1', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 8095 {
		t.Errorf("Expected default server port 8095, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default logging level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected default logging format 'json', got '%s'", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default logging output 'stderr', got '%s'", cfg.Logging.Output)
	}

	if cfg.Display.Timezone != "Local" {
		t.Errorf("Expected default timezone 'Local', got '%s'", cfg.Display.Timezone)
	}
}

// TestLoadFile tests that a YAML file overrides defaults.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `backend:
  url: https://cloud.example.com
  token_env: MY_TOKEN
  rate_limit: 5
server:
  transport: http
  port: 9000
display:
  timezone: UTC
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Backend.URL != "https://cloud.example.com" {
		t.Errorf("Expected backend url from file, got '%s'", cfg.Backend.URL)
	}
	if cfg.Backend.TokenEnv != "MY_TOKEN" {
		t.Errorf("Expected token env from file, got '%s'", cfg.Backend.TokenEnv)
	}
	if cfg.Backend.RateLimit != 5 {
		t.Errorf("Expected rate limit 5, got %v", cfg.Backend.RateLimit)
	}
	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("Expected transport http, got '%s'", cfg.Server.Transport)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	loc, err := cfg.Display.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("Expected UTC location, got %v (%v)", loc, err)
	}
}

// TestValidation tests the configuration validation logic.
func TestValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend: BackendConfig{
				URL:      "https://cloud.example.com",
				TokenEnv: "MEGACLOUD_AUTH_TOKEN",
				Timeout:  30 * time.Second,
			},
			Server: ServerConfig{
				Transport: TransportStdio,
				Port:      8095,
			},
			Logging: LoggingConfig{
				Output: "stderr",
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
		errMsg    string
	}{
		{
			name:      "valid configuration",
			mutate:    func(c *Config) {},
			expectErr: false,
		},
		{
			name:      "missing backend url",
			mutate:    func(c *Config) { c.Backend.URL = "" },
			expectErr: true,
			errMsg:    "backend url is required",
		},
		{
			name:      "backend url without scheme",
			mutate:    func(c *Config) { c.Backend.URL = "cloud.example.com" },
			expectErr: true,
			errMsg:    "must start with http",
		},
		{
			name:      "missing token env",
			mutate:    func(c *Config) { c.Backend.TokenEnv = "" },
			expectErr: true,
			errMsg:    "token_env is required",
		},
		{
			name:      "negative rate limit",
			mutate:    func(c *Config) { c.Backend.RateLimit = -1 },
			expectErr: true,
			errMsg:    "invalid backend rate limit",
		},
		{
			name:      "unknown transport",
			mutate:    func(c *Config) { c.Server.Transport = "grpc" },
			expectErr: true,
			errMsg:    "unknown server transport",
		},
		{
			name:      "invalid port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			expectErr: true,
			errMsg:    "invalid server port",
		},
		{
			name:      "stdout logging with stdio transport",
			mutate:    func(c *Config) { c.Logging.Output = "stdout" },
			expectErr: true,
			errMsg:    "conflicts with the stdio transport",
		},
		{
			name: "stdout logging with http transport",
			mutate: func(c *Config) {
				c.Logging.Output = "stdout"
				c.Server.Transport = TransportHTTP
			},
			expectErr: false,
		},
		{
			name:      "unknown timezone",
			mutate:    func(c *Config) { c.Display.Timezone = "Mars/Olympus" },
			expectErr: true,
			errMsg:    "invalid display timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validate(c)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error containing '%s', got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

// TestEnvironmentVariableOverride tests that environment variables override config values.
func TestEnvironmentVariableOverride(t *testing.T) {
	t.Setenv("MC_BACKEND_URL", "https://env.example.com")
	t.Setenv("MC_SERVER_TRANSPORT", "http")
	t.Setenv("MC_SERVER_PORT", "9999")
	t.Setenv("MC_LOGGING_LEVEL", "debug")

	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Backend.URL != "https://env.example.com" {
		t.Errorf("Expected backend url from environment, got '%s'", cfg.Backend.URL)
	}
	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("Expected transport http from environment, got '%s'", cfg.Server.Transport)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999 from environment, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug from environment, got '%s'", cfg.Logging.Level)
	}
}

// TestGet tests the global config getter.
func TestGet(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	retrieved := Get()
	if retrieved == nil {
		t.Fatal("Get() returned nil")
	}
	if retrieved.Server.Port != 8095 {
		t.Errorf("Expected port 8095 from Get(), got %d", retrieved.Server.Port)
	}
}
