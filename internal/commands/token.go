package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"evalgo.org/megacloud-mcp/internal/client"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect the backend bearer token",
}

var inspectTokenCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show what the configured bearer token claims",
	Long: `Read the bearer token from the environment variable named by
backend.token_env and print its subject and expiry.

The signature is not verified; only the backend can do that. Tokens that are
not JWTs are reported as opaque.

Examples:
  # Inspect the token in MEGACLOUD_AUTH_TOKEN
  megacloud-mcp token inspect`,
	Args: cobra.NoArgs,
	RunE: runInspectToken,
}

func init() {
	tokenCmd.AddCommand(inspectTokenCmd)
}

func runInspectToken(cmd *cobra.Command, args []string) error {
	backend, err := client.New(cfg.Backend)
	if err != nil {
		return err
	}

	info := backend.Token()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Variable: %s\n", cfg.Backend.TokenEnv)
	if !info.IsJWT {
		fmt.Fprintln(out, "Format:   opaque")
		return nil
	}

	fmt.Fprintln(out, "Format:   JWT")
	if info.Subject != "" {
		fmt.Fprintf(out, "Subject:  %s\n", info.Subject)
	}
	if info.ExpiresAt.IsZero() {
		fmt.Fprintln(out, "Expires:  never")
		return nil
	}

	status := "valid"
	if info.Expired {
		status = "EXPIRED"
	}
	fmt.Fprintf(out, "Expires:  %s (%s)\n", info.ExpiresAt.Format(time.RFC3339), status)
	return nil
}
