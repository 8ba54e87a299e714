package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	defaultConfig := `# megacloud-mcp configuration

backend:
  url: http://localhost:8080
  # The token itself is read from this environment variable
  token_env: MEGACLOUD_AUTH_TOKEN
  timeout: 30s
  rate_limit: 0

server:
  # stdio serves MCP on stdin/stdout, http serves the REST API
  transport: stdio
  host: 127.0.0.1
  port: 8095
  shutdown_timeout: 10s
  debug: false
  rate_limit: 0
  allowed_origins: []

logging:
  level: info
  format: json
  output: stderr

display:
  timezone: Local
`

	if _, err := os.Stat("config.yaml"); err == nil {
		return fmt.Errorf("config.yaml already exists")
	}

	if err := os.WriteFile("config.yaml", []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Created config.yaml")
	return nil
}
