// Package client is a Go client for the megacloud-mcp HTTP API.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"evalgo.org/megacloud-mcp/internal/api"
	"evalgo.org/megacloud-mcp/internal/tools"
)

type Client struct {
	http *resty.Client
}

func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
	}, nil
}

// ListTools returns the tool descriptors the server offers.
func (c *Client) ListTools(ctx context.Context) ([]tools.Descriptor, error) {
	var out api.ToolsResponse
	if err := c.do(ctx, "GET", "/api/v1/tools", nil, &out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}

// CallTool runs one tool. Failures reported by the server come back as
// *api.APIError.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) ([]string, error) {
	if args == nil {
		args = map[string]interface{}{}
	}

	var out api.ToolCallResponse
	if err := c.do(ctx, "POST", "/api/v1/tools/"+url.PathEscape(name), args, &out); err != nil {
		return nil, err
	}
	return out.Content, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	apiErr := &api.APIError{}
	r := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(apiErr)
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := r.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode()
			apiErr.Message = resp.Status()
		}
		return apiErr
	}
	return nil
}
