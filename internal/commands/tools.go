package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"evalgo.org/megacloud-mcp/internal/client"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List and call tools from the command line",
}

var listToolsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available tools",
	Args:  cobra.NoArgs,
	RunE:  runListTools,
}

var callToolCmd = &cobra.Command{
	Use:   "call <name>",
	Short: "Call one tool and print its result",
	Long: `Call one tool against the configured backend and print each returned
text item on its own line.

Examples:
  megacloud-mcp tools call list_available_hosts
  megacloud-mcp tools call start_middleware --args '{"middleware_instance_name":"cache"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCallTool,
}

var (
	toolArgs   string
	showSchema bool
)

func init() {
	listToolsCmd.Flags().BoolVar(&showSchema, "schema", false, "print each tool's input schema")
	callToolCmd.Flags().StringVar(&toolArgs, "args", "", "tool arguments as a JSON object")

	toolsCmd.AddCommand(listToolsCmd)
	toolsCmd.AddCommand(callToolCmd)
}

func runListTools(cmd *cobra.Command, args []string) error {
	// Listing never reaches the backend, so no token is needed.
	dispatcher, err := newDispatcher(cfg, client.NewWithToken(cfg.Backend, ""))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, desc := range dispatcher.ListTools() {
		fmt.Fprintf(out, "%-40s %s\n", desc.Name, desc.Description)
		if showSchema {
			fmt.Fprintf(out, "  %s\n", desc.InputSchema)
		}
	}
	return nil
}

func runCallTool(cmd *cobra.Command, args []string) error {
	var arguments map[string]interface{}
	if toolArgs != "" {
		if err := json.Unmarshal([]byte(toolArgs), &arguments); err != nil {
			return fmt.Errorf("--args must be a JSON object: %w", err)
		}
	}

	backend, err := client.New(cfg.Backend)
	if err != nil {
		return err
	}
	dispatcher, err := newDispatcher(cfg, backend)
	if err != nil {
		return err
	}

	items, err := dispatcher.CallTool(cmd.Context(), args[0], arguments)
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Fprintln(cmd.OutOrStdout(), item)
	}
	return nil
}
