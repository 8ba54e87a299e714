package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/megacloud-mcp/internal/config"
	"evalgo.org/megacloud-mcp/internal/errdefs"
)

func TestNew_MissingToken(t *testing.T) {
	t.Setenv("MC_TEST_TOKEN", "")

	c, err := New(config.BackendConfig{URL: "http://localhost", TokenEnv: "MC_TEST_TOKEN"})
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, errdefs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "MC_TEST_TOKEN")
}

func TestNew_WhitespaceToken(t *testing.T) {
	t.Setenv("MC_TEST_TOKEN", "   ")

	_, err := New(config.BackendConfig{URL: "http://localhost", TokenEnv: "MC_TEST_TOKEN"})
	assert.True(t, errdefs.IsConfiguration(err))
}

func TestDo_SendsBearerQueryAndBody(t *testing.T) {
	var (
		gotAuth   string
		gotQuery  url.Values
		gotBody   map[string]interface{}
		gotMethod string
		gotPath   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	t.Setenv("MC_TEST_TOKEN", "secret-token")
	c, err := New(config.BackendConfig{URL: srv.URL + "/", TokenEnv: "MC_TEST_TOKEN", Timeout: 5 * time.Second})
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/v1/things",
		Query:  url.Values{"name": {""}, "rows": {"100"}},
		Body:   map[string]interface{}{"a": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/things", gotPath)
	assert.Equal(t, "100", gotQuery.Get("rows"))
	assert.True(t, gotQuery.Has("name"))
	assert.Equal(t, float64(1), gotBody["a"])

	// non-2xx is not an error at the client level
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.JSONEq(t, `{"ok":false}`, resp.String())
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewWithToken(config.BackendConfig{URL: addr, Timeout: time.Second}, "t")
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /v1/x")
}

func TestDo_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewWithToken(config.BackendConfig{URL: srv.URL, RateLimit: 0.001}, "t")

	// first request consumes the single burst token
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestInspectToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}

	t.Run("opaque token", func(t *testing.T) {
		info := InspectToken("not-a-jwt", now)
		assert.False(t, info.IsJWT)
	})

	t.Run("valid jwt", func(t *testing.T) {
		info := InspectToken(sign(jwt.MapClaims{"sub": "alice", "exp": now.Add(time.Hour).Unix()}), now)
		assert.True(t, info.IsJWT)
		assert.Equal(t, "alice", info.Subject)
		assert.False(t, info.Expired)
		assert.Equal(t, now.Add(time.Hour).Unix(), info.ExpiresAt.Unix())
	})

	t.Run("expired jwt", func(t *testing.T) {
		info := InspectToken(sign(jwt.MapClaims{"sub": "bob", "exp": now.Add(-time.Hour).Unix()}), now)
		assert.True(t, info.IsJWT)
		assert.True(t, info.Expired)
	})

	t.Run("client keeps inspection result", func(t *testing.T) {
		c := NewWithToken(config.BackendConfig{URL: "http://localhost"}, sign(jwt.MapClaims{"sub": "carol"}))
		assert.Equal(t, "carol", c.Token().Subject)
	})
}
