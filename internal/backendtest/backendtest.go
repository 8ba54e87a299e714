// Package backendtest provides an in-process fake of the MegaCloud backend
// for tests. Routes are registered per test with echo path patterns and every
// request is recorded so tests can assert which calls were (or were not)
// issued.
package backendtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"evalgo.org/megacloud-mcp/internal/client"
	"evalgo.org/megacloud-mcp/internal/config"
)

// Token is the bearer token Client authenticates with.
const Token = "backendtest-token"

// Call is one recorded request.
type Call struct {
	Method string
	Route  string
	Path   string
	Query  url.Values
	Auth   string
	Body   []byte
}

// DecodeBody unmarshals the recorded body into v.
func (c Call) DecodeBody(v interface{}) error {
	return json.Unmarshal(c.Body, v)
}

// Server is a fake backend.
type Server struct {
	URL string

	e   *echo.Echo
	srv *httptest.Server

	mu    sync.Mutex
	calls []Call
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{e: e}
	e.Use(s.record)

	s.srv = httptest.NewServer(e)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: req.Method,
			Route:  c.Path(),
			Path:   req.URL.Path,
			Query:  req.URL.Query(),
			Auth:   req.Header.Get(echo.HeaderAuthorization),
			Body:   body,
		})
		s.mu.Unlock()

		return next(c)
	}
}

// Handle registers a handler for method and an echo route pattern
// (e.g. /v1/middleware/management/instance/:id).
func (s *Server) Handle(method, route string, h echo.HandlerFunc) {
	s.e.Add(method, route, h)
}

// JSON registers a route answering status with v encoded as JSON.
func (s *Server) JSON(method, route string, status int, v interface{}) {
	s.Handle(method, route, func(c echo.Context) error {
		return c.JSON(status, v)
	})
}

// Raw registers a route answering status with a literal JSON body.
func (s *Server) Raw(method, route string, status int, body string) {
	s.Handle(method, route, func(c echo.Context) error {
		return c.JSONBlob(status, []byte(body))
	})
}

// Calls returns every recorded request in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the recorded requests matching method and route.
func (s *Server) CallsTo(method, route string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many requests matched method and route.
func (s *Server) Count(method, route string) int {
	return len(s.CallsTo(method, route))
}

// Client returns a backend client pointed at the fake.
func (s *Server) Client() *client.Client {
	return client.NewWithToken(config.BackendConfig{
		URL:     s.URL,
		Timeout: 5 * time.Second,
	}, Token)
}

// NotFound is a convenience handler answering 404 with a backend-style body.
func NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"message": "not found"})
}
