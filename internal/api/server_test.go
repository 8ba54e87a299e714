package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/megacloud-mcp/internal/config"
	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/tools"
)

type fakeTools struct {
	args map[string]interface{}
}

func (f *fakeTools) ListTools() []tools.Descriptor {
	return []tools.Descriptor{
		{Name: "list_available_hosts", Description: "List hosts.", InputSchema: json.RawMessage(`{"type":"object"}`)},
		{Name: "start_middleware", Description: "Start.", InputSchema: json.RawMessage(`{"type":"object"}`)},
	}
}

func (f *fakeTools) CallTool(_ context.Context, name string, args map[string]interface{}) ([]string, error) {
	f.args = args
	switch name {
	case "list_available_hosts":
		return []string{`{"host_name":"hostA"}`}, nil
	case "start_middleware":
		return nil, &errdefs.ValidationError{Tool: name, Fields: []errdefs.FieldError{
			{Field: "middleware_instance_name", Message: "is required"},
		}}
	default:
		return nil, &errdefs.UnknownToolError{Name: name}
	}
}

func newTestServer(svc ToolService) *Server {
	return New(&config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8095},
	}, svc)
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := do(newTestServer(&fakeTools{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "megacloud", health.Service)
	assert.Equal(t, 2, health.Tools)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestListToolsRoute(t *testing.T) {
	rec := do(newTestServer(&fakeTools{}), http.MethodGet, "/api/v1/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ToolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "list_available_hosts", resp.Tools[0].Name)
}

func TestCallToolRoute(t *testing.T) {
	svc := &fakeTools{}
	rec := do(newTestServer(svc), http.MethodPost, "/api/v1/tools/list_available_hosts", `{"verbose":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ToolCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "list_available_hosts", resp.Tool)
	assert.Equal(t, []string{`{"host_name":"hostA"}`}, resp.Content)
	assert.Equal(t, map[string]interface{}{"verbose": true}, svc.args)
}

func TestCallToolRoute_EmptyBody(t *testing.T) {
	svc := &fakeTools{args: map[string]interface{}{"stale": 1}}
	rec := do(newTestServer(svc), http.MethodPost, "/api/v1/tools/list_available_hosts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.args)
}

func TestCallToolRoute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
		wantText string
	}{
		{
			name:     "validation failure",
			target:   "/api/v1/tools/start_middleware",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
			wantText: "middleware_instance_name",
		},
		{
			name:     "unknown tool",
			target:   "/api/v1/tools/launch_rocket",
			body:     `{}`,
			wantCode: http.StatusNotFound,
			wantText: "launch_rocket",
		},
		{
			name:     "invalid tool name",
			target:   "/api/v1/tools/Launch-Rocket",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
			wantText: "Invalid tool name",
		},
		{
			name:     "body is not an object",
			target:   "/api/v1/tools/list_available_hosts",
			body:     `[1,2]`,
			wantCode: http.StatusBadRequest,
			wantText: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestServer(&fakeTools{}), http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	rec := do(newTestServer(&fakeTools{}), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "megacloud_type_catalog_fetches_total")
}

func TestCORSWhenOriginsConfigured(t *testing.T) {
	s := New(&config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"https://console.example.com"}},
	}, &fakeTools{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://console.example.com")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "https://console.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCallToolRoute_Middleware(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		accept      string
		wantCode    int
		wantText    string
	}{
		{
			name:        "json body",
			contentType: "application/json; charset=utf-8",
			accept:      "application/json",
			wantCode:    http.StatusOK,
			wantText:    "hostA",
		},
		{
			name:        "form body",
			contentType: "application/x-www-form-urlencoded",
			wantCode:    http.StatusBadRequest,
			wantText:    "Invalid Content-Type",
		},
		{
			name:        "xml only client",
			contentType: "application/json",
			accept:      "application/xml",
			wantCode:    http.StatusBadRequest,
			wantText:    "Invalid Accept header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTools{}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/list_available_hosts", strings.NewReader(`{"verbose":true}`))
			req.Header.Set("Content-Type", tt.contentType)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			newTestServer(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			if tt.wantCode != http.StatusOK {
				assert.Nil(t, svc.args, "tool must not run when a request is rejected")
			}
		})
	}
}
