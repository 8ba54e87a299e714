package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"evalgo.org/megacloud-mcp/internal/api"
	"evalgo.org/megacloud-mcp/internal/client"
	"evalgo.org/megacloud-mcp/internal/config"
	"evalgo.org/megacloud-mcp/internal/gateway"
	"evalgo.org/megacloud-mcp/internal/logging"
	"evalgo.org/megacloud-mcp/internal/mcp"
	"evalgo.org/megacloud-mcp/internal/orchestration"
	"evalgo.org/megacloud-mcp/internal/tools"
)

var serveTransport string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools",
	Long: `Serve the tools over MCP on stdin/stdout (the default) or over the HTTP API.

The bearer token is read from the environment variable named by
backend.token_env (MEGACLOUD_AUTH_TOKEN by default).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "transport to serve on (stdio, http); overrides server.transport")
}

// newDispatcher wires the configured backend into the builtin tool set.
func newDispatcher(cfg *config.Config, c gateway.Doer) (*tools.Dispatcher, error) {
	loc, err := cfg.Display.Location()
	if err != nil {
		return nil, fmt.Errorf("display timezone: %w", err)
	}
	svc := orchestration.NewService(gateway.New(c, loc))
	return tools.NewDispatcher(tools.Builtin(svc)), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	transport := cfg.Server.Transport
	if serveTransport != "" {
		transport = serveTransport
	}

	backend, err := client.New(cfg.Backend)
	if err != nil {
		return err
	}
	dispatcher, err := newDispatcher(cfg, backend)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	switch transport {
	case config.TransportStdio:
		return mcp.NewServer(dispatcher).Serve(ctx, os.Stdin, os.Stdout)
	case config.TransportHTTP:
		return serveHTTP(ctx, api.New(cfg, dispatcher))
	default:
		return fmt.Errorf("unknown transport: %s (use %q or %q)", transport, config.TransportStdio, config.TransportHTTP)
	}
}

func serveHTTP(ctx context.Context, server *api.Server) error {
	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger := logging.WithComponent("serve")
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
