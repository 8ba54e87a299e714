// Package client is the HTTP binding to the MegaCloud backend.
//
// A Client carries the bearer token read from the environment when it is
// built, and is shared read-only for the lifetime of the process. It only
// moves bytes: interpreting status codes and decoding bodies is the job of the
// gateway package.
package client

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"evalgo.org/megacloud-mcp/internal/config"
	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/logging"
	"evalgo.org/megacloud-mcp/internal/metrics"
)

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}

	// Endpoint is the path template used as the metrics label
	// (e.g. /v1/middleware/management/instance/{id}). Defaults to Path.
	Endpoint string
}

// Response is the raw outcome of a backend call.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) String() string {
	return string(r.Body)
}

// Client issues authenticated requests against the backend.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
	token   TokenInfo
}

// New builds a Client whose token is read from the environment variable named
// by cfg.TokenEnv. It fails when the variable is unset or empty.
func New(cfg config.BackendConfig) (*Client, error) {
	token := strings.TrimSpace(os.Getenv(cfg.TokenEnv))
	if token == "" {
		return nil, errdefs.Configuration(cfg.TokenEnv, "environment variable %s not set", cfg.TokenEnv)
	}
	return NewWithToken(cfg, token), nil
}

// NewWithToken builds a Client from an explicit token.
func NewWithToken(cfg config.BackendConfig, token string) *Client {
	logger := logging.WithComponent("client")

	h := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetAuthToken(token).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		h.SetTimeout(cfg.Timeout)
	}

	c := &Client{
		http:   h,
		logger: logger,
		token:  InspectToken(token, time.Now()),
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	switch {
	case !c.token.IsJWT:
		logger.Debug().Msg("bearer token is not a JWT, skipping inspection")
	case c.token.Expired:
		logger.Warn().Str("subject", c.token.Subject).Time("expires_at", c.token.ExpiresAt).Msg("bearer token already expired")
	default:
		logger.Debug().Str("subject", c.token.Subject).Time("expires_at", c.token.ExpiresAt).Msg("bearer token loaded")
	}

	return c
}

// Token returns what was learned about the bearer token at construction.
func (c *Client) Token() TokenInfo {
	return c.token
}

// Do performs one request. Non-2xx statuses are not errors at this level;
// only transport failures are.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait for %s %s: %w", req.Method, req.Path, err)
		}
	}

	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}

	r := c.http.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	timer := metrics.NewTimer()
	resp, err := r.Execute(req.Method, req.Path)
	timer.ObserveDuration(metrics.BackendRequestDuration.WithLabelValues(req.Method, endpoint))
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(req.Method, endpoint, "transport_error").Inc()
		c.logger.Error().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("backend request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	status := resp.StatusCode()
	metrics.BackendRequestsTotal.WithLabelValues(req.Method, endpoint, strconv.Itoa(status)).Inc()
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", status).
		Dur("latency", timer.Duration()).
		Msg("backend request")

	return &Response{StatusCode: status, Body: resp.Body()}, nil
}

// TokenInfo is what could be read from the bearer token without verifying it.
type TokenInfo struct {
	IsJWT     bool
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// InspectToken reads the unverified claims of a JWT bearer token. Tokens that
// are not JWTs yield a zero TokenInfo.
func InspectToken(token string, now time.Time) TokenInfo {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}
	}

	info := TokenInfo{IsJWT: true}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = exp.Before(now)
	}
	return info
}
