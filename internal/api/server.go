// Package api provides the HTTP transport for the tool set.
// It uses the Echo framework to list tools, call them with a JSON argument
// object and expose health and Prometheus endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"evalgo.org/megacloud-mcp/internal/config"
	"evalgo.org/megacloud-mcp/internal/logging"
	"evalgo.org/megacloud-mcp/internal/metrics"
	"evalgo.org/megacloud-mcp/internal/tools"
	"evalgo.org/megacloud-mcp/internal/version"
)

// ToolService lists and runs tools.
type ToolService interface {
	ListTools() []tools.Descriptor
	CallTool(ctx context.Context, name string, args map[string]interface{}) ([]string, error)
}

// Server represents the HTTP API server.
type Server struct {
	echo   *echo.Echo
	tools  ToolService
	config *config.Config
	logger zerolog.Logger
}

// New creates a new API server instance.
func New(cfg *config.Config, svc ToolService) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug
	e.HTTPErrorHandler = HTTPErrorHandler

	server := &Server{
		echo:   e,
		tools:  svc,
		config: cfg,
		logger: logging.WithComponent("api"),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Request ID first so the request logger can report it
	s.echo.Use(middleware.RequestID())
	s.echo.Use(RequestLogger(s.logger))
	s.echo.Use(middleware.Recover())
	s.echo.Use(SecurityHeaders)

	if len(s.config.Server.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Server.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	if s.config.Server.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Server.RateLimit),
		)))
	}

	s.echo.Use(ValidateContentType)
	s.echo.Use(ValidateAcceptHeader)
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/tools", s.listTools)
	v1.POST("/tools/:name", s.callTool, ValidateToolName)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.logger.Info().
		Str("address", "http://"+addr).
		Str("backend", s.config.Backend.URL).
		Bool("debug", s.config.Server.Debug).
		Msg("starting HTTP tool server")

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP tool server")

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.logger.Info().Msg("server shutdown complete")
	return nil
}

// ServeHTTP lets the server be mounted on another mux or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: version.ServerName,
		Version: version.Version,
		Tools:   len(s.tools.ListTools()),
	})
}

func (s *Server) listTools(c echo.Context) error {
	descs := s.tools.ListTools()
	return c.JSON(http.StatusOK, ToolsResponse{
		Count: len(descs),
		Tools: descs,
	})
}

func (s *Server) callTool(c echo.Context) error {
	name := c.Param("name")

	args, err := readArguments(c.Request().Body)
	if err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	items, err := s.tools.CallTool(c.Request().Context(), name, args)
	if err != nil {
		return FromError(err)
	}

	return c.JSON(http.StatusOK, ToolCallResponse{
		Tool:    name,
		Count:   len(items),
		Content: items,
	})
}

// readArguments decodes the argument object. An empty body means no arguments.
func readArguments(body io.Reader) (map[string]interface{}, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return args, nil
}
