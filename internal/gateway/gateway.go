// Package gateway binds each MegaCloud backend endpoint to one Go method.
//
// Every method issues exactly one HTTP call, checks the status code and
// decodes the body into a record from the models package. Any unexpected
// status becomes an *errdefs.BackendError carrying the raw body; nothing is
// retried. The only local state is the TypeCache, which memoizes the
// middleware type catalog for the lifetime of the Gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"evalgo.org/megacloud-mcp/internal/client"
	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/logging"
)

// Doer performs one backend request. *client.Client implements it.
type Doer interface {
	Do(ctx context.Context, req client.Request) (*client.Response, error)
}

// Gateway is the typed view of the backend REST API.
type Gateway struct {
	client Doer
	types  *TypeCache
	loc    *time.Location
	logger zerolog.Logger
}

// New creates a Gateway. Timestamps returned by the backend are rendered in
// loc; a nil loc means time.Local.
func New(c Doer, loc *time.Location) *Gateway {
	if loc == nil {
		loc = time.Local
	}
	g := &Gateway{
		client: c,
		loc:    loc,
		logger: logging.WithComponent("gateway"),
	}
	g.types = NewTypeCache(g.ListMiddlewareTypes)
	return g
}

// Types returns the middleware type cache owned by this gateway.
func (g *Gateway) Types() *TypeCache {
	return g.types
}

// Location returns the display timezone.
func (g *Gateway) Location() *time.Location {
	return g.loc
}

// call performs req and decodes the body into out when the status matches
// want. A nil out discards the body; a *json.RawMessage receives it verbatim.
func (g *Gateway) call(ctx context.Context, req client.Request, want int, out interface{}) error {
	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		g.logger.Warn().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Msg("unexpected backend status")
		return &errdefs.BackendError{
			StatusCode: resp.StatusCode,
			Method:     req.Method,
			Path:       req.Path,
			Body:       resp.String(),
		}
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *json.RawMessage:
		*dst = rawBody(resp.Body)
		return nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

// rawBody keeps an opaque body as JSON. Empty bodies become null and
// non-JSON bodies become a JSON string.
func rawBody(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(append([]byte(nil), trimmed...))
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}
